package types

import "errors"

// Table name prefixes for the temporary and stale members of a table family.
const (
	TemporaryPrefix = "temporary_"
	StalePrefix     = "stale_"
)

// Slot identifies one member of a table family.
type Slot string

// Table family slots.
const (
	SlotMain      Slot = "main"
	SlotTemporary Slot = "temporary"
	SlotStale     Slot = "stale"
)

// Slots lists the family slots in teardown order.
var Slots = []Slot{SlotTemporary, SlotMain, SlotStale}

// FamilyState is the observed existence of each table in a family.
// Each slot is independently present or absent.
type FamilyState struct {
	Main      bool `json:"main"`
	Temporary bool `json:"temporary"`
	Stale     bool `json:"stale"`
}

// Exists reports whether the table in the given slot exists.
func (s FamilyState) Exists(slot Slot) bool {
	switch slot {
	case SlotMain:
		return s.Main
	case SlotTemporary:
		return s.Temporary
	case SlotStale:
		return s.Stale
	default:
		return false
	}
}

// Empty reports whether no table of the family exists.
func (s FamilyState) Empty() bool {
	return !s.Main && !s.Temporary && !s.Stale
}

// Table family errors.
var (
	ErrTemporaryTableNotExist = errors.New("temporary table does not exist")
	ErrEmptyBasename          = errors.New("basename must not be empty")
	ErrNilConn                = errors.New("connection must not be nil")
)
