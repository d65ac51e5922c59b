package dialect

import (
	"fmt"
	"strings"

	"db-evolve/internal/schema"
)

// Constraint and index names are derived from table and column names so
// that a later drop can reconstruct the same name without consulting
// the catalog.
func IndexName(table, column string) string {
	return fmt.Sprintf("idx_%s_%s", table, column)
}

func UniqueName(table, column string) string {
	return fmt.Sprintf("uq_%s_%s", table, column)
}

func ForeignKeyName(table, column string) string {
	return fmt.Sprintf("fk_%s_%s", table, column)
}

func DefaultName(table, column string) string {
	return fmt.Sprintf("df_%s_%s", table, column)
}

// GeneratePlaceholders returns a comma-separated list of count
// placeholders produced by placeholderFunc.
func GeneratePlaceholders(count int, placeholderFunc func(int) string) string {
	placeholders := make([]string, count)
	for i := 0; i < count; i++ {
		placeholders[i] = placeholderFunc(i)
	}
	return strings.Join(placeholders, ", ")
}

// DefaultNormalizeType is the default type normalization (lowercase).
func DefaultNormalizeType(sqlType string) string {
	return strings.ToLower(sqlType)
}

// DefaultSchemaNamePassthrough returns the input unchanged.
func DefaultSchemaNamePassthrough(input string) string {
	return input
}

// buildCreateTable assembles the CREATE TABLE statement shared by all
// engines: column definitions, multi-column unique groups, then named
// foreign-key constraints, followed by one CREATE INDEX per indexed
// column.
func buildCreateTable(d Dialect, t *schema.Table, columnDef func(*schema.Column) string) []string {
	var parts []string
	for _, c := range t.Columns {
		parts = append(parts, "  "+columnDef(c))
	}
	for _, group := range t.UniqueGroups {
		parts = append(parts, fmt.Sprintf("  CONSTRAINT %s UNIQUE (%s)",
			UniqueName(t.Name, strings.Join(group, "_")), columnList(group, d.Quote)))
	}
	for _, c := range t.ForeignKeyColumns() {
		parts = append(parts, fmt.Sprintf("  CONSTRAINT %s FOREIGN KEY (%s) %s",
			ForeignKeyName(t.Name, c.Name), d.Quote(c.Name), referencesClause(c, d.Quote)))
	}
	stmts := []string{fmt.Sprintf("CREATE TABLE %s (\n%s\n)", d.Quote(t.Name), strings.Join(parts, ",\n"))}
	for _, c := range t.Columns {
		if c.Indexed {
			stmts = append(stmts, d.CreateIndex(t.Name, c))
		}
	}
	return stmts
}

// appendConstraintStatements emits the index and foreign-key statements
// that accompany a freshly added column.
func appendConstraintStatements(d Dialect, table string, c *schema.Column, stmts []string) []string {
	if c.Indexed {
		stmts = append(stmts, d.CreateIndex(table, c))
	}
	if c.IsForeignKey() {
		stmts = append(stmts, fmt.Sprintf("ALTER TABLE %s ADD CONSTRAINT %s FOREIGN KEY (%s) %s",
			d.Quote(table), ForeignKeyName(table, c.Name), d.Quote(c.Name), referencesClause(c, d.Quote)))
	}
	return stmts
}

// backfill populates existing null rows with a caller-supplied literal.
func backfill(d Dialect, table, column, value string) string {
	return fmt.Sprintf("UPDATE %s SET %s = %s WHERE %s IS NULL",
		d.Quote(table), d.Quote(column), value, d.Quote(column))
}

// deleteRule normalizes a column's delete rule for DDL output.
func deleteRule(c *schema.Column) string {
	if c.DeleteRule == "" {
		return "NO ACTION"
	}
	return strings.ToUpper(c.DeleteRule)
}

// referencesClause renders the REFERENCES part of a foreign-key
// constraint using the supplied quote function.
func referencesClause(c *schema.Column, quote func(string) string) string {
	return fmt.Sprintf("REFERENCES %s (%s) ON DELETE %s",
		quote(c.RefTable), quote(c.RefColumn), deleteRule(c))
}

// columnList quotes and joins column names.
func columnList(names []string, quote func(string) string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = quote(n)
	}
	return strings.Join(quoted, ", ")
}
