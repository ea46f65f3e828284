package swap

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/mesh-intelligence/tableswap/pkg/types"
)

// Handle is a data-access object bound to one table name. It caches the
// table's column metadata until ResetColumnInformation is called. The
// connection is the one of the manager that last returned the handle.
type Handle struct {
	tableName string

	mu      sync.Mutex
	conn    types.Conn
	columns []types.Column // nil until loaded

	extensions   []string
	capabilities map[string]any
}

// newHandle binds a handle to tableName and composes one capability per
// extension, in the order given.
func newHandle(conn types.Conn, tableName string, exts []Extension) *Handle {
	h := &Handle{
		conn:         conn,
		tableName:    tableName,
		capabilities: make(map[string]any, len(exts)),
	}
	for _, ext := range exts {
		h.extensions = append(h.extensions, ext.Name())
		h.capabilities[ext.Name()] = ext.Extend(h)
	}
	return h
}

// TableName returns the table the handle is bound to.
func (h *Handle) TableName() string {
	return h.tableName
}

// QuotedTableName returns the table name quoted for raw SQL.
func (h *Handle) QuotedTableName() string {
	return h.Conn().QuoteIdentifier(h.tableName)
}

// Conn returns the connection the handle reads and writes through.
func (h *Handle) Conn() types.Conn {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.conn
}

// bind points the handle at conn and drops the cached column metadata.
func (h *Handle) bind(conn types.Conn) {
	h.mu.Lock()
	h.conn = conn
	h.columns = nil
	h.mu.Unlock()
}

// Columns returns the table's columns, loading them on first use.
func (h *Handle) Columns(ctx context.Context) ([]types.Column, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.columns != nil {
		return h.columns, nil
	}
	cols, err := h.conn.Columns(ctx, h.tableName)
	if err != nil {
		return nil, err
	}
	if cols == nil {
		cols = []types.Column{}
	}
	h.columns = cols
	return cols, nil
}

// ColumnNames returns the names of the table's columns in ordinal order.
func (h *Handle) ColumnNames(ctx context.Context) ([]string, error) {
	cols, err := h.Columns(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name
	}
	return names, nil
}

// HasColumn reports whether the table has a column named name.
func (h *Handle) HasColumn(ctx context.Context, name string) (bool, error) {
	cols, err := h.Columns(ctx)
	if err != nil {
		return false, err
	}
	for _, c := range cols {
		if c.Name == name {
			return true, nil
		}
	}
	return false, nil
}

// ResetColumnInformation drops the cached column metadata. The next call to
// Columns reads it from the database again.
func (h *Handle) ResetColumnInformation() {
	h.mu.Lock()
	h.columns = nil
	h.mu.Unlock()
}

// Insert adds one row. When the table has created_at or updated_at columns
// that row leaves unset, they are filled with the current UTC time.
func (h *Handle) Insert(ctx context.Context, row types.Row) error {
	out := make(types.Row, len(row)+2)
	for k, v := range row {
		out[k] = v
	}
	now := time.Now().UTC()
	for _, name := range []string{types.CreatedAtColumn, types.UpdatedAtColumn} {
		if _, set := out[name]; set {
			continue
		}
		ok, err := h.HasColumn(ctx, name)
		if err != nil {
			return err
		}
		if ok {
			out[name] = now
		}
	}
	return h.Conn().Insert(ctx, h.tableName, out)
}

// Count returns the number of rows in the table.
func (h *Handle) Count(ctx context.Context) (int64, error) {
	return h.Conn().Count(ctx, h.tableName)
}

// Fetch returns rows whose columns equal the values in filter. The key
// "limit" is not a column: a positive integer of any Go integer type caps
// the number of rows, and zero means no cap. Any other
// key must name a column of the table, else ErrInvalidFilter is returned.
func (h *Handle) Fetch(ctx context.Context, filter map[string]any) ([]types.Row, error) {
	where := make(types.Row, len(filter))
	limit := 0
	for k, v := range filter {
		if k == "limit" {
			l, ok := limitValue(v)
			if !ok {
				return nil, fmt.Errorf("%w: limit %v", types.ErrInvalidFilter, v)
			}
			limit = l
			continue
		}
		ok, err := h.HasColumn(ctx, k)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("%w: no column %q in %s", types.ErrInvalidFilter, k, h.tableName)
		}
		where[k] = v
	}
	return h.Conn().Select(ctx, h.tableName, where, limit)
}

// limitValue converts a non-negative integer of any integer kind to int.
func limitValue(v any) (int, bool) {
	var n int64
	switch l := v.(type) {
	case int:
		n = int64(l)
	case int8:
		n = int64(l)
	case int16:
		n = int64(l)
	case int32:
		n = int64(l)
	case int64:
		n = l
	case uint:
		n = int64(l)
	case uint8:
		n = int64(l)
	case uint16:
		n = int64(l)
	case uint32:
		n = int64(l)
	case uint64:
		if l > math.MaxInt32 {
			return 0, false
		}
		n = int64(l)
	default:
		return 0, false
	}
	if n < 0 || n > math.MaxInt32 {
		return 0, false
	}
	return int(n), true
}

// Capability returns the capability the named extension attached.
func (h *Handle) Capability(name string) (any, bool) {
	c, ok := h.capabilities[name]
	return c, ok
}

// Extensions returns the names of the attached extensions in attach order.
func (h *Handle) Extensions() []string {
	return append([]string(nil), h.extensions...)
}
