// Package schemafile loads and saves schema snapshots as YAML
// definition files. The textual representation stays out of the core
// model: this package is the only place that knows about files.
package schemafile

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/viper"

	"db-evolve/internal/schema"
)

type columnDef struct {
	Name          string `mapstructure:"name"`
	Type          string `mapstructure:"type"`
	PrimaryKey    bool   `mapstructure:"primary_key"`
	AutoIncrement bool   `mapstructure:"auto_increment"`
	Indexed       bool   `mapstructure:"indexed"`
	Nullable      bool   `mapstructure:"nullable"`
	Unique        bool   `mapstructure:"unique"`
	Default       string `mapstructure:"default"`
	References    string `mapstructure:"references"` // "table.column"
	OnDelete      string `mapstructure:"on_delete"`
}

type tableDef struct {
	Name         string      `mapstructure:"name"`
	Columns      []columnDef `mapstructure:"columns"`
	UniqueGroups [][]string  `mapstructure:"unique_groups"`
}

type fileDef struct {
	Tables []tableDef `mapstructure:"tables"`
}

// Load reads a YAML definition file into a schema. The file's table
// order becomes the schema's insertion order, which in turn drives
// diff and migration ordering.
func Load(path string) (*schema.Schema, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read schema file %s: %w", path, err)
	}

	var def fileDef
	if err := v.Unmarshal(&def); err != nil {
		return nil, fmt.Errorf("failed to parse schema file %s: %w", path, err)
	}

	s := schema.New()
	for _, td := range def.Tables {
		t := &schema.Table{Name: td.Name}
		for _, g := range td.UniqueGroups {
			t.UniqueGroups = append(t.UniqueGroups, append([]string(nil), g...))
		}
		for _, cd := range td.Columns {
			c := &schema.Column{
				Name:       cd.Name,
				Type:       cd.Type,
				PrimaryKey: cd.PrimaryKey,
				AutoInc:    cd.AutoIncrement,
				Indexed:    cd.Indexed,
				Nullable:   cd.Nullable,
				Unique:     cd.Unique,
				Default:    cd.Default,
				DeleteRule: cd.OnDelete,
			}
			if cd.References != "" {
				refTable, refColumn, ok := strings.Cut(cd.References, ".")
				if !ok {
					return nil, fmt.Errorf("column %s.%s: references %q must be table.column", td.Name, cd.Name, cd.References)
				}
				c.RefTable = refTable
				c.RefColumn = refColumn
			}
			if err := t.AddColumn(c); err != nil {
				return nil, err
			}
		}
		if err := s.AddTable(t); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Marshal renders a schema back to definition-file YAML. Output order
// is the schema's insertion order and never varies between runs, so a
// pulled snapshot can live in version control without churn.
func Marshal(s *schema.Schema) []byte {
	var b strings.Builder
	b.WriteString("tables:\n")
	for _, t := range s.Tables() {
		fmt.Fprintf(&b, "  - name: %s\n", yamlString(t.Name))
		b.WriteString("    columns:\n")
		for _, c := range t.Columns {
			fmt.Fprintf(&b, "      - name: %s\n", yamlString(c.Name))
			fmt.Fprintf(&b, "        type: %s\n", yamlString(c.Type))
			if c.PrimaryKey {
				b.WriteString("        primary_key: true\n")
			}
			if c.AutoInc {
				b.WriteString("        auto_increment: true\n")
			}
			if c.Indexed {
				b.WriteString("        indexed: true\n")
			}
			if c.Nullable {
				b.WriteString("        nullable: true\n")
			}
			if c.Unique {
				b.WriteString("        unique: true\n")
			}
			if c.Default != "" {
				fmt.Fprintf(&b, "        default: %s\n", yamlString(c.Default))
			}
			if c.IsForeignKey() {
				fmt.Fprintf(&b, "        references: %s\n", yamlString(c.RefTable+"."+c.RefColumn))
				if c.DeleteRule != "" {
					fmt.Fprintf(&b, "        on_delete: %s\n", yamlString(c.DeleteRule))
				}
			}
		}
		if len(t.UniqueGroups) > 0 {
			b.WriteString("    unique_groups:\n")
			for _, g := range t.UniqueGroups {
				quoted := make([]string, len(g))
				for i, name := range g {
					quoted[i] = yamlString(name)
				}
				fmt.Fprintf(&b, "      - [%s]\n", strings.Join(quoted, ", "))
			}
		}
	}
	return []byte(b.String())
}

// Save writes the schema's YAML representation to path.
func Save(s *schema.Schema, path string) error {
	if err := os.WriteFile(path, Marshal(s), 0644); err != nil {
		return fmt.Errorf("failed to write schema file %s: %w", path, err)
	}
	return nil
}

// yamlString quotes values that YAML would otherwise reinterpret
// (leading specials, colons, quotes). Plain identifiers stay bare to
// keep the files readable.
func yamlString(v string) string {
	if v == "" {
		return `""`
	}
	if strings.ContainsAny(v, ":#'\"{}[]|>&*!%@`,\n") || strings.HasPrefix(v, " ") || strings.HasSuffix(v, " ") {
		return strconv.Quote(v)
	}
	switch strings.ToLower(v) {
	case "true", "false", "null", "yes", "no", "on", "off":
		return strconv.Quote(v)
	}
	return v
}
