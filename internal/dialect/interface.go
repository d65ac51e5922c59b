package dialect

import "db-evolve/internal/schema"

// Dialect abstracts database-specific SQL generation. One half covers
// schema introspection (reading the live catalog), the other half turns
// validated structural edits into the DDL statements realizing them.
// Implementations never mutate their inputs.
type Dialect interface {
	// Metadata Queries (Schema Introspection)
	TablesQuery(schemaName string) string
	ColumnsQuery(schemaName string) string
	PrimaryKeysQuery(schemaName string) string
	ForeignKeysQuery(schemaName string) string
	DefaultSchemaName(input string) string
	NormalizeType(sqlType string) string

	// DDL Generation (table level)
	CreateTable(t *schema.Table) []string
	DropTable(name string) string
	RenameTable(oldName, newName string) string

	// DDL Generation (column level). initialValue is a raw SQL literal
	// used to backfill existing rows, "" when absent.
	AddColumn(table string, c *schema.Column, initialValue string) []string
	DropColumn(table, column string) string
	RenameColumn(table string, c *schema.Column, newName string) string

	// DDL Generation (single-attribute alterations)
	AlterDefault(table string, c *schema.Column) string
	AlterNullable(table string, c *schema.Column, initialValue string) []string
	CreateIndex(table string, c *schema.Column) string
	DropIndex(table string, c *schema.Column) string
	AddUnique(table string, c *schema.Column) string
	DropUnique(table string, c *schema.Column) string
	AlterDeleteRule(table string, c *schema.Column) []string

	// Helpers
	Quote(ident string) string
	TypeName(c *schema.Column) string
	Placeholder(index int) string
}
