package types

import (
	"errors"
	"fmt"
	"strings"
)

// ColumnType is a logical column type. Each database dialect maps it to a
// native SQL type when a table is created.
type ColumnType string

// Logical column types accepted by TableDefinition.
const (
	TypeString   ColumnType = "string"
	TypeText     ColumnType = "text"
	TypeInteger  ColumnType = "integer"
	TypeBigint   ColumnType = "bigint"
	TypeFloat    ColumnType = "float"
	TypeDecimal  ColumnType = "decimal"
	TypeBoolean  ColumnType = "boolean"
	TypeDate     ColumnType = "date"
	TypeDatetime ColumnType = "datetime"
	TypeBinary   ColumnType = "binary"
	TypeJSON     ColumnType = "json"
)

// validColumnTypes is the set of recognized logical column types.
var validColumnTypes = map[ColumnType]bool{
	TypeString:   true,
	TypeText:     true,
	TypeInteger:  true,
	TypeBigint:   true,
	TypeFloat:    true,
	TypeDecimal:  true,
	TypeBoolean:  true,
	TypeDate:     true,
	TypeDatetime: true,
	TypeBinary:   true,
	TypeJSON:     true,
}

// Implicit columns added by the table creation contract.
const (
	IDColumn        = "id"
	CreatedAtColumn = "created_at"
	UpdatedAtColumn = "updated_at"
)

// Table definition errors.
var (
	ErrInvalidColumnType = errors.New("invalid column type")
	ErrInvalidColumnName = errors.New("invalid column name")
	ErrDuplicateColumn   = errors.New("duplicate column")
)

// ParseColumnType returns the logical column type named by s.
// Matching is case-insensitive. Returns ErrInvalidColumnType for unknown names.
func ParseColumnType(s string) (ColumnType, error) {
	t := ColumnType(strings.ToLower(strings.TrimSpace(s)))
	if !validColumnTypes[t] {
		return "", fmt.Errorf("%w: %q", ErrInvalidColumnType, s)
	}
	return t, nil
}

// Valid reports whether t is a recognized logical column type.
func (t ColumnType) Valid() bool {
	return validColumnTypes[t]
}

// ColumnDef describes one caller-supplied column of a table to create.
// Columns are nullable unless NotNull is set.
type ColumnDef struct {
	Name    string     `json:"name" yaml:"name"`
	Type    ColumnType `json:"type" yaml:"type"`
	NotNull bool       `json:"not_null,omitempty" yaml:"not_null,omitempty"`
}

// Column describes an existing column as reported by the database.
type Column struct {
	Name     string `json:"name"`
	SQLType  string `json:"sql_type"`
	Nullable bool   `json:"nullable"`
}

// ColumnOption adjusts a ColumnDef added through TableDefinition.
type ColumnOption func(*ColumnDef)

// NotNull marks the column NOT NULL.
func NotNull() ColumnOption {
	return func(c *ColumnDef) { c.NotNull = true }
}

// Nullable marks the column as accepting NULL.
func Nullable() ColumnOption {
	return func(c *ColumnDef) { c.NotNull = false }
}

// TableDefinition collects the columns of a table to create. The zero value
// is not usable; call NewTableDefinition, which includes the implicit "id"
// identity primary key.
type TableDefinition struct {
	// PrimaryKey names the identity primary key column. Empty disables it.
	PrimaryKey string
	Columns    []ColumnDef
}

// NewTableDefinition returns a definition with the implicit id primary key
// and no other columns.
func NewTableDefinition() *TableDefinition {
	return &TableDefinition{PrimaryKey: IDColumn}
}

// WithoutPrimaryKey drops the implicit identity column.
func (t *TableDefinition) WithoutPrimaryKey() *TableDefinition {
	t.PrimaryKey = ""
	return t
}

// Column appends a column of the given logical type.
func (t *TableDefinition) Column(name string, typ ColumnType, opts ...ColumnOption) *TableDefinition {
	c := ColumnDef{Name: name, Type: typ}
	for _, opt := range opts {
		opt(&c)
	}
	t.Columns = append(t.Columns, c)
	return t
}

// Varchar appends a TypeString column.
func (t *TableDefinition) Varchar(name string, opts ...ColumnOption) *TableDefinition {
	return t.Column(name, TypeString, opts...)
}

func (t *TableDefinition) Text(name string, opts ...ColumnOption) *TableDefinition {
	return t.Column(name, TypeText, opts...)
}

func (t *TableDefinition) Integer(name string, opts ...ColumnOption) *TableDefinition {
	return t.Column(name, TypeInteger, opts...)
}

func (t *TableDefinition) Bigint(name string, opts ...ColumnOption) *TableDefinition {
	return t.Column(name, TypeBigint, opts...)
}

func (t *TableDefinition) Float(name string, opts ...ColumnOption) *TableDefinition {
	return t.Column(name, TypeFloat, opts...)
}

func (t *TableDefinition) Decimal(name string, opts ...ColumnOption) *TableDefinition {
	return t.Column(name, TypeDecimal, opts...)
}

func (t *TableDefinition) Boolean(name string, opts ...ColumnOption) *TableDefinition {
	return t.Column(name, TypeBoolean, opts...)
}

func (t *TableDefinition) Date(name string, opts ...ColumnOption) *TableDefinition {
	return t.Column(name, TypeDate, opts...)
}

func (t *TableDefinition) Datetime(name string, opts ...ColumnOption) *TableDefinition {
	return t.Column(name, TypeDatetime, opts...)
}

func (t *TableDefinition) Binary(name string, opts ...ColumnOption) *TableDefinition {
	return t.Column(name, TypeBinary, opts...)
}

func (t *TableDefinition) JSON(name string, opts ...ColumnOption) *TableDefinition {
	return t.Column(name, TypeJSON, opts...)
}

// Timestamps appends created_at and updated_at datetime columns. They are
// NOT NULL unless Nullable is passed.
func (t *TableDefinition) Timestamps(opts ...ColumnOption) *TableDefinition {
	opts = append([]ColumnOption{NotNull()}, opts...)
	t.Column(CreatedAtColumn, TypeDatetime, opts...)
	t.Column(UpdatedAtColumn, TypeDatetime, opts...)
	return t
}

// ColumnNames returns the names of all columns the table will have, the
// primary key first.
func (t *TableDefinition) ColumnNames() []string {
	names := make([]string, 0, len(t.Columns)+1)
	if t.PrimaryKey != "" {
		names = append(names, t.PrimaryKey)
	}
	for _, c := range t.Columns {
		names = append(names, c.Name)
	}
	return names
}

// Validate checks that every column has a non-empty unique name and a known
// type. Names are compared case-insensitively, as most databases do.
func (t *TableDefinition) Validate() error {
	seen := make(map[string]bool, len(t.Columns)+1)
	if t.PrimaryKey != "" {
		seen[strings.ToLower(t.PrimaryKey)] = true
	}
	for _, c := range t.Columns {
		if strings.TrimSpace(c.Name) == "" {
			return ErrInvalidColumnName
		}
		if !c.Type.Valid() {
			return fmt.Errorf("%w: %q for column %s", ErrInvalidColumnType, c.Type, c.Name)
		}
		key := strings.ToLower(c.Name)
		if seen[key] {
			return fmt.Errorf("%w: %s", ErrDuplicateColumn, c.Name)
		}
		seen[key] = true
	}
	return nil
}
