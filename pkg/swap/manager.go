// Package swap replaces a live table without downtime. A Manager owns a
// family of three tables derived from one basename: the main table, a
// temporary table the caller builds and fills, and a stale table that keeps
// the previous main table after a promotion.
package swap

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/mesh-intelligence/tableswap/internal/metrics"
	"github.com/mesh-intelligence/tableswap/pkg/types"
)

// Manager sequences the DDL of one table family. It keeps no table state of
// its own: every existence check reads the database.
type Manager struct {
	conn       types.Conn
	basename   string
	extensions []Extension
	registry   *Registry
	log        *logrus.Entry
}

// Option configures a Manager.
type Option func(*Manager)

// WithExtensions attaches capabilities to every handle the manager builds.
func WithExtensions(exts ...Extension) Option {
	return func(m *Manager) {
		m.extensions = append(m.extensions, exts...)
	}
}

// WithRegistry makes the manager cache handles in r instead of DefaultRegistry.
func WithRegistry(r *Registry) Option {
	return func(m *Manager) {
		if r != nil {
			m.registry = r
		}
	}
}

// WithLogger sets the logger. The default is logrus.StandardLogger().
func WithLogger(log logrus.FieldLogger) Option {
	return func(m *Manager) {
		if log != nil {
			m.log = log.WithField("basename", m.basename)
		}
	}
}

// New returns a Manager for the table family of basename on conn.
func New(conn types.Conn, basename string, opts ...Option) (*Manager, error) {
	if conn == nil {
		return nil, types.ErrNilConn
	}
	if basename == "" {
		return nil, types.ErrEmptyBasename
	}
	m := &Manager{
		conn:     conn,
		basename: basename,
		registry: DefaultRegistry,
		log:      logrus.WithField("basename", basename),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Basename returns the name the family is derived from.
func (m *Manager) Basename() string {
	return m.basename
}

// TableName returns the main table name, or the temporary one.
func (m *Manager) TableName(temporary bool) string {
	if temporary {
		return types.TemporaryPrefix + m.basename
	}
	return m.basename
}

// StaleTableName returns the name the previous main table is kept under.
func (m *Manager) StaleTableName() string {
	return types.StalePrefix + m.TableName(false)
}

// SlotTableName returns the table name for a family slot.
func (m *Manager) SlotTableName(slot types.Slot) string {
	switch slot {
	case types.SlotTemporary:
		return m.TableName(true)
	case types.SlotStale:
		return m.StaleTableName()
	default:
		return m.TableName(false)
	}
}

// TableExists reports whether the main (or temporary) table exists.
func (m *Manager) TableExists(ctx context.Context, temporary bool) (bool, error) {
	return m.conn.DataSourceExists(ctx, m.TableName(temporary))
}

// StaleTableExists reports whether the stale table exists.
func (m *Manager) StaleTableExists(ctx context.Context) (bool, error) {
	return m.conn.DataSourceExists(ctx, m.StaleTableName())
}

// State reports which tables of the family exist. The three checks are not
// taken in one snapshot.
func (m *Manager) State(ctx context.Context) (types.FamilyState, error) {
	var s types.FamilyState
	var err error
	if s.Main, err = m.TableExists(ctx, false); err != nil {
		return s, err
	}
	if s.Temporary, err = m.TableExists(ctx, true); err != nil {
		return s, err
	}
	if s.Stale, err = m.StaleTableExists(ctx); err != nil {
		return s, err
	}
	return s, nil
}

// CreateTable creates the main (or temporary) table. define adds the
// caller's columns to a definition that already holds the implicit id
// primary key; it may be nil. With force an existing table of the same name
// is dropped first; without it the database error for an existing table is
// returned. The returned handle is bound to the new table.
func (m *Manager) CreateTable(ctx context.Context, temporary, force bool, define func(t *types.TableDefinition)) (*Handle, error) {
	def := types.NewTableDefinition()
	if define != nil {
		define(def)
	}
	name := m.TableName(temporary)
	if err := m.conn.CreateTable(ctx, name, force, def); err != nil {
		return nil, fmt.Errorf("create table %s: %w", name, err)
	}

	slot := types.SlotMain
	if temporary {
		slot = types.SlotTemporary
	}
	metrics.TablesCreated.WithLabelValues(string(slot)).Inc()
	m.log.WithFields(logrus.Fields{
		"table":   name,
		"columns": len(def.ColumnNames()),
		"force":   force,
	}).Info("table created")

	return m.Model(temporary), nil
}

// Model returns the handle bound to the main (or temporary) table. A handle
// already registered for the table name is reused: it is rebound to this
// manager's connection and its column metadata is reset. Otherwise a new
// one is built with the manager's extensions and registered.
func (m *Manager) Model(temporary bool) *Handle {
	name := m.TableName(temporary)
	if h, ok := m.registry.Load(name); ok {
		h.bind(m.conn)
		return h
	}
	h, loaded := m.registry.LoadOrStore(name, newHandle(m.conn, name, m.extensions))
	if loaded {
		h.bind(m.conn)
		return h
	}
	metrics.HandlesRegistered.Inc()
	return h
}

// Promote makes the temporary table the main table. It returns
// ErrTemporaryTableNotExist, having changed nothing, when there is no
// temporary table. Otherwise, in one transaction, it drops the stale table
// if present, renames an existing main table to the stale name, and renames
// the temporary table to the main name. Afterwards the stale table exists
// exactly when a main table existed before the call.
func (m *Manager) Promote(ctx context.Context) (err error) {
	start := time.Now()
	log := m.log.WithField("operation_id", newOperationID())
	defer func() {
		metrics.Promotions.WithLabelValues(metrics.Result(err)).Inc()
		metrics.PromotionDuration.Observe(time.Since(start).Seconds())
	}()

	mainName, tmpName, staleName := m.TableName(false), m.TableName(true), m.StaleTableName()

	exists, err := m.TableExists(ctx, true)
	if err != nil {
		return fmt.Errorf("promote %s: %w", tmpName, err)
	}
	if !exists {
		return fmt.Errorf("promote %s: %w", tmpName, types.ErrTemporaryTableNotExist)
	}

	var mainExisted bool
	err = m.conn.Transaction(ctx, func(tx types.Tx) error {
		if err := tx.Execute(ctx, "DROP TABLE IF EXISTS "+m.conn.QuoteIdentifier(staleName)); err != nil {
			return err
		}
		ok, err := tx.DataSourceExists(ctx, mainName)
		if err != nil {
			return err
		}
		mainExisted = ok

		var renames []types.Rename
		if mainExisted {
			renames = append(renames, types.Rename{From: mainName, To: staleName})
		}
		renames = append(renames, types.Rename{From: tmpName, To: mainName})
		for _, stmt := range m.renameSQL(renames) {
			if err := tx.Execute(ctx, stmt); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.WithError(err).Warn("promotion rolled back")
		return fmt.Errorf("promote %s: %w", tmpName, err)
	}

	m.resetHandles()
	log.WithFields(logrus.Fields{
		"stale_retained": mainExisted,
		"duration":       time.Since(start),
	}).Info("temporary table promoted")
	return nil
}

// DropTables drops the temporary, main and stale tables, in that order, in
// one transaction. Absent tables are skipped.
func (m *Manager) DropTables(ctx context.Context) (err error) {
	start := time.Now()
	log := m.log.WithField("operation_id", newOperationID())
	defer func() {
		metrics.Teardowns.WithLabelValues(metrics.Result(err)).Inc()
	}()

	err = m.conn.Transaction(ctx, func(tx types.Tx) error {
		for _, slot := range types.Slots {
			stmt := "DROP TABLE IF EXISTS " + m.conn.QuoteIdentifier(m.SlotTableName(slot))
			if err := tx.Execute(ctx, stmt); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.WithError(err).Warn("teardown rolled back")
		return fmt.Errorf("drop tables of %s: %w", m.basename, err)
	}

	m.resetHandles()
	log.WithField("duration", time.Since(start)).Info("table family dropped")
	return nil
}

// renameSQL asks the connection how to issue a rename group, falling back to
// one ALTER TABLE per rename.
func (m *Manager) renameSQL(renames []types.Rename) []string {
	if b, ok := m.conn.(types.RenameBatcher); ok {
		return b.RenameTablesSQL(renames)
	}
	stmts := make([]string, 0, len(renames))
	for _, r := range renames {
		stmts = append(stmts, fmt.Sprintf("ALTER TABLE %s RENAME TO %s",
			m.conn.QuoteIdentifier(r.From), m.conn.QuoteIdentifier(r.To)))
	}
	return stmts
}

// resetHandles drops cached column metadata of registered family handles
// after their tables changed under them.
func (m *Manager) resetHandles() {
	for _, temporary := range []bool{false, true} {
		if h, ok := m.registry.Load(m.TableName(temporary)); ok {
			h.ResetColumnInformation()
		}
	}
}

// newOperationID returns the identifier logged with one promotion or teardown.
func newOperationID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}
