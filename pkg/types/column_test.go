package types

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseColumnType(t *testing.T) {
	got, err := ParseColumnType(" Datetime ")
	require.NoError(t, err)
	assert.Equal(t, TypeDatetime, got)

	_, err = ParseColumnType("uuid")
	assert.ErrorIs(t, err, ErrInvalidColumnType)
}

func TestTableDefinition_ColumnNames(t *testing.T) {
	def := NewTableDefinition()
	def.Varchar("column_1").Varchar("column_2").Timestamps(Nullable())

	assert.Equal(t, []string{"id", "column_1", "column_2", "created_at", "updated_at"}, def.ColumnNames())
	require.NoError(t, def.Validate())

	for _, c := range def.Columns[2:] {
		assert.False(t, c.NotNull, "%s should be nullable", c.Name)
	}
}

func TestTableDefinition_TimestampsDefaultNotNull(t *testing.T) {
	def := NewTableDefinition().Timestamps()
	require.Len(t, def.Columns, 2)
	assert.True(t, def.Columns[0].NotNull)
	assert.True(t, def.Columns[1].NotNull)
	assert.Equal(t, TypeDatetime, def.Columns[0].Type)
}

func TestTableDefinition_WithoutPrimaryKey(t *testing.T) {
	def := NewTableDefinition().WithoutPrimaryKey().Integer("n", NotNull())
	assert.Equal(t, []string{"n"}, def.ColumnNames())
	assert.True(t, def.Columns[0].NotNull)
}

func TestTableDefinition_Validate(t *testing.T) {
	tests := []struct {
		name    string
		def     *TableDefinition
		wantErr error
	}{
		{"empty name", NewTableDefinition().Varchar(" "), ErrInvalidColumnName},
		{"unknown type", NewTableDefinition().Column("a", ColumnType("uuid")), ErrInvalidColumnType},
		{"duplicate column", NewTableDefinition().Varchar("a").Text("A"), ErrDuplicateColumn},
		{"collides with primary key", NewTableDefinition().Integer("ID"), ErrDuplicateColumn},
		{"no primary key allows id", NewTableDefinition().WithoutPrimaryKey().Integer("id"), nil},
		{"all types", NewTableDefinition().
			Varchar("a").Text("b").Integer("c").Bigint("d").Float("e").Decimal("f").
			Boolean("g").Date("h").Datetime("i").Binary("j").JSON("k"), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.def.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, tt.wantErr), "got %v, want %v", err, tt.wantErr)
		})
	}
}

func TestFamilyState(t *testing.T) {
	s := FamilyState{Main: true, Stale: true}
	assert.True(t, s.Exists(SlotMain))
	assert.False(t, s.Exists(SlotTemporary))
	assert.True(t, s.Exists(SlotStale))
	assert.False(t, s.Exists(Slot("other")))
	assert.False(t, s.Empty())
	assert.True(t, FamilyState{}.Empty())
}
