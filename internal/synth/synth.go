// Package synth generates the Go source of a versioned migration from
// the structural difference between two schema snapshots. The output is
// a skeleton: the Upgrade body is complete, Downgrade and Seed are left
// empty for a human to fill in.
package synth

import (
	"fmt"
	"strconv"
	"strings"

	"db-evolve/internal/schema"
)

// Synthesize computes the delta from existing to target and renders a
// migration type named after version whose Upgrade body performs the
// minimal set of edits: created tables first (parents before children),
// then deleted tables (children before parents), then per-table column
// changes. The function is pure; identical inputs yield byte-identical
// output.
//
// A difference touching an immutable column attribute (type,
// autoincrement, primary key, foreign-key target) cannot be expressed
// as an alteration and fails with schema.ErrImmutableAttribute; such
// changes have to be modeled as a delete plus an add in the target
// definition instead.
func Synthesize(existing, target *schema.Schema, version int) (string, error) {
	diff := existing.DifferenceFrom(target)

	var body []string
	usesSchema := false

	if len(diff.TableNamesToAdd) > 0 {
		toAdd := make(map[string]bool, len(diff.TableNamesToAdd))
		for _, name := range diff.TableNamesToAdd {
			toAdd[name] = true
		}
		ordered, err := target.DependencyOrderedTables()
		if err != nil {
			return "", err
		}
		for _, t := range ordered {
			if toAdd[t.Name] {
				body = append(body, guarded(fmt.Sprintf("b.CreateTable(%s)", renderTable(t))))
				usesSchema = true
			}
		}
	}

	if len(diff.TableNamesToDelete) > 0 {
		toDelete := make(map[string]bool, len(diff.TableNamesToDelete))
		for _, name := range diff.TableNamesToDelete {
			toDelete[name] = true
		}
		ordered, err := existing.DependencyOrderedTables()
		if err != nil {
			return "", err
		}
		// Children first, so no still-standing table references a
		// table that is already gone.
		for i := len(ordered) - 1; i >= 0; i-- {
			if toDelete[ordered[i].Name] {
				body = append(body, guarded(fmt.Sprintf("b.DeleteTable(%s)", strconv.Quote(ordered[i].Name))))
			}
		}
	}

	for _, td := range diff.DifferingTables {
		table := strconv.Quote(td.Actual.Name)
		for _, name := range td.ColumnNamesToAdd {
			c := td.Expected.ColumnForName(name)
			body = append(body, guarded(fmt.Sprintf("b.AddColumn(%s, %s, %s)",
				table, renderColumn(c, "&schema.Column"), strconv.Quote(""))))
			usesSchema = true
		}
		for _, name := range td.ColumnNamesToDelete {
			body = append(body, guarded(fmt.Sprintf("b.DeleteColumn(%s, %s)", table, strconv.Quote(name))))
		}
		for _, cd := range td.DifferingColumns {
			patch, err := renderPatch(cd.Actual, cd.Expected)
			if err != nil {
				return "", fmt.Errorf("table %s: %w", td.Actual.Name, err)
			}
			body = append(body, guarded(fmt.Sprintf("b.AlterColumn(%s, %s, %s, %s)",
				table, strconv.Quote(cd.Actual.Name), patch, strconv.Quote(""))))
		}
	}

	return renderFile(version, body, usesSchema), nil
}

// guarded wraps a builder call in the usual error check.
func guarded(call string) string {
	return fmt.Sprintf("\tif err := %s; err != nil {\n\t\treturn err\n\t}", call)
}

func renderFile(version int, body []string, usesSchema bool) string {
	var b strings.Builder
	name := fmt.Sprintf("Migration%d", version)

	b.WriteString("// Code generated by db-evolve. Complete the Downgrade and Seed bodies by hand.\n\n")
	b.WriteString("package migrations\n\n")
	b.WriteString("import (\n")
	b.WriteString("\t\"database/sql\"\n\n")
	b.WriteString("\t\"db-evolve/internal/builder\"\n")
	if usesSchema {
		b.WriteString("\t\"db-evolve/internal/schema\"\n")
	}
	b.WriteString(")\n\n")

	fmt.Fprintf(&b, "// %s upgrades the schema to version %d.\n", name, version)
	fmt.Fprintf(&b, "type %s struct{}\n\n", name)
	fmt.Fprintf(&b, "func (m %s) Version() int { return %d }\n\n", name, version)

	fmt.Fprintf(&b, "func (m %s) Upgrade(b *builder.Builder) error {\n", name)
	for _, stmt := range body {
		b.WriteString(stmt + "\n")
	}
	b.WriteString("\treturn nil\n}\n\n")

	fmt.Fprintf(&b, "func (m %s) Downgrade(b *builder.Builder) error {\n\treturn nil\n}\n\n", name)
	fmt.Fprintf(&b, "func (m %s) Seed(db *sql.DB) error {\n\treturn nil\n}\n", name)
	return b.String()
}

// renderTable prints a table literal with one column per line.
func renderTable(t *schema.Table) string {
	var b strings.Builder
	b.WriteString("&schema.Table{\n")
	fmt.Fprintf(&b, "\t\tName: %s,\n", strconv.Quote(t.Name))
	b.WriteString("\t\tColumns: []*schema.Column{\n")
	for _, c := range t.Columns {
		fmt.Fprintf(&b, "\t\t\t%s,\n", renderColumn(c, ""))
	}
	b.WriteString("\t\t},\n")
	if len(t.UniqueGroups) > 0 {
		b.WriteString("\t\tUniqueGroups: [][]string{\n")
		for _, g := range t.UniqueGroups {
			quoted := make([]string, len(g))
			for i, name := range g {
				quoted[i] = strconv.Quote(name)
			}
			fmt.Fprintf(&b, "\t\t\t{%s},\n", strings.Join(quoted, ", "))
		}
		b.WriteString("\t\t},\n")
	}
	b.WriteString("\t}")
	return b.String()
}

// renderColumn prints a column literal with only the non-zero fields,
// in declaration order of the struct so output never varies.
func renderColumn(c *schema.Column, prefix string) string {
	var fields []string
	add := func(name, value string) {
		fields = append(fields, name+": "+value)
	}
	add("Name", strconv.Quote(c.Name))
	add("Type", strconv.Quote(c.Type))
	if c.PrimaryKey {
		add("PrimaryKey", "true")
	}
	if c.AutoInc {
		add("AutoInc", "true")
	}
	if c.Indexed {
		add("Indexed", "true")
	}
	if c.Nullable {
		add("Nullable", "true")
	}
	if c.Unique {
		add("Unique", "true")
	}
	if c.Default != "" {
		add("Default", strconv.Quote(c.Default))
	}
	if c.RefTable != "" {
		add("RefTable", strconv.Quote(c.RefTable))
		add("RefColumn", strconv.Quote(c.RefColumn))
		if c.DeleteRule != "" {
			add("DeleteRule", strconv.Quote(c.DeleteRule))
		}
	}
	return fmt.Sprintf("%s{%s}", prefix, strings.Join(fields, ", "))
}

// renderPatch prints the ColumnPatch literal turning old into want.
func renderPatch(old, want *schema.Column) (string, error) {
	switch {
	case old.Type != want.Type:
		return "", fmt.Errorf("column %s type %q -> %q: %w", old.Name, old.Type, want.Type, schema.ErrImmutableAttribute)
	case old.AutoInc != want.AutoInc:
		return "", fmt.Errorf("column %s autoincrement: %w", old.Name, schema.ErrImmutableAttribute)
	case old.PrimaryKey != want.PrimaryKey:
		return "", fmt.Errorf("column %s primary key: %w", old.Name, schema.ErrImmutableAttribute)
	case old.RefTable != want.RefTable || old.RefColumn != want.RefColumn:
		return "", fmt.Errorf("column %s foreign-key target: %w", old.Name, schema.ErrImmutableAttribute)
	}

	var fields []string
	if old.Indexed != want.Indexed {
		fields = append(fields, fmt.Sprintf("Indexed: builder.Bool(%t)", want.Indexed))
	}
	if old.Unique != want.Unique {
		fields = append(fields, fmt.Sprintf("Unique: builder.Bool(%t)", want.Unique))
	}
	if old.Nullable != want.Nullable {
		fields = append(fields, fmt.Sprintf("Nullable: builder.Bool(%t)", want.Nullable))
	}
	if old.Default != want.Default {
		fields = append(fields, fmt.Sprintf("Default: builder.String(%s)", strconv.Quote(want.Default)))
	}
	if old.DeleteRule != want.DeleteRule {
		fields = append(fields, fmt.Sprintf("DeleteRule: builder.String(%s)", strconv.Quote(want.DeleteRule)))
	}
	return fmt.Sprintf("builder.ColumnPatch{%s}", strings.Join(fields, ", ")), nil
}
