package cli

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/tableswap/pkg/types"
)

// columnsFile is the YAML layout accepted by create --columns-file.
//
//	timestamps: true
//	no_primary_key: false
//	columns:
//	  - name: title
//	    type: string
//	    not_null: true
type columnsFile struct {
	Timestamps   bool              `yaml:"timestamps"`
	NoPrimaryKey bool              `yaml:"no_primary_key"`
	Columns      []types.ColumnDef `yaml:"columns"`
}

// parseColumnSpec parses a --column value of the form name:type[:null|notnull].
func parseColumnSpec(spec string) (types.ColumnDef, error) {
	parts := strings.Split(spec, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return types.ColumnDef{}, fmt.Errorf("%w: %q, want name:type[:null|notnull]", types.ErrInvalidColumnName, spec)
	}

	name := strings.TrimSpace(parts[0])
	if name == "" {
		return types.ColumnDef{}, fmt.Errorf("%w: %q", types.ErrInvalidColumnName, spec)
	}
	typ, err := types.ParseColumnType(parts[1])
	if err != nil {
		return types.ColumnDef{}, err
	}

	def := types.ColumnDef{Name: name, Type: typ}
	if len(parts) == 3 {
		switch strings.ToLower(strings.TrimSpace(parts[2])) {
		case "null":
		case "notnull", "not_null", "not null":
			def.NotNull = true
		default:
			return types.ColumnDef{}, userError(fmt.Errorf("nullability %q in %q: want null or notnull", parts[2], spec))
		}
	}
	return def, nil
}

// readColumnsFile loads a columns file. Column types are checked here so a
// typo is reported with the file name.
func readColumnsFile(path string) (*columnsFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, userError(fmt.Errorf("read columns file: %w", err))
	}
	var f columnsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, userError(fmt.Errorf("parse columns file %s: %w", path, err))
	}
	for i, c := range f.Columns {
		typ, err := types.ParseColumnType(string(c.Type))
		if err != nil {
			return nil, fmt.Errorf("%s: column %d: %w", path, i+1, err)
		}
		f.Columns[i].Type = typ
	}
	return &f, nil
}

// tableSpec is everything create needs to build a TableDefinition.
type tableSpec struct {
	columns      []types.ColumnDef
	timestamps   bool
	noPrimaryKey bool
}

// define returns the callback passed to Manager.CreateTable.
func (s tableSpec) define() func(*types.TableDefinition) {
	return func(t *types.TableDefinition) {
		if s.noPrimaryKey {
			t.WithoutPrimaryKey()
		}
		for _, c := range s.columns {
			opt := types.Nullable()
			if c.NotNull {
				opt = types.NotNull()
			}
			t.Column(c.Name, c.Type, opt)
		}
		if s.timestamps {
			t.Timestamps()
		}
	}
}
