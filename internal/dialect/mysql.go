package dialect

import (
	"fmt"
	"strings"

	"db-evolve/internal/schema"
)

type MysqlDialect struct{}

func (d *MysqlDialect) TablesQuery(schemaName string) string {
	return `SELECT TABLE_NAME FROM information_schema.TABLES WHERE TABLE_SCHEMA = ? AND TABLE_TYPE = 'BASE TABLE'`
}

func (d *MysqlDialect) ColumnsQuery(schemaName string) string {
	return `SELECT TABLE_NAME, COLUMN_NAME, DATA_TYPE, IS_NULLABLE, COLUMN_KEY, EXTRA, COLUMN_DEFAULT FROM information_schema.COLUMNS WHERE TABLE_SCHEMA = ? ORDER BY TABLE_NAME, ORDINAL_POSITION`
}

func (d *MysqlDialect) PrimaryKeysQuery(schemaName string) string {
	return `SELECT TABLE_NAME, COLUMN_NAME FROM information_schema.COLUMNS WHERE TABLE_SCHEMA = ? AND COLUMN_KEY = 'PRI' ORDER BY TABLE_NAME, ORDINAL_POSITION`
}

func (d *MysqlDialect) ForeignKeysQuery(schemaName string) string {
	return `SELECT TABLE_NAME, COLUMN_NAME, REFERENCED_TABLE_NAME, REFERENCED_COLUMN_NAME FROM information_schema.KEY_COLUMN_USAGE WHERE TABLE_SCHEMA = ? AND REFERENCED_TABLE_NAME IS NOT NULL ORDER BY TABLE_NAME, COLUMN_NAME`
}

func (d *MysqlDialect) DefaultSchemaName(input string) string {
	return DefaultSchemaNamePassthrough(input)
}

func (d *MysqlDialect) NormalizeType(sqlType string) string {
	return DefaultNormalizeType(sqlType)
}

func (d *MysqlDialect) Quote(ident string) string {
	return "`" + ident + "`"
}

func (d *MysqlDialect) TypeName(c *schema.Column) string {
	return c.Type
}

func (d *MysqlDialect) Placeholder(index int) string {
	return "?"
}

func (d *MysqlDialect) columnDefinition(c *schema.Column) string {
	var b strings.Builder
	b.WriteString(d.Quote(c.Name) + " " + d.TypeName(c))
	if !c.Nullable {
		b.WriteString(" NOT NULL")
	}
	if c.AutoInc {
		b.WriteString(" AUTO_INCREMENT")
	}
	if c.Default != "" {
		b.WriteString(" DEFAULT " + c.Default)
	}
	if c.Unique {
		b.WriteString(" UNIQUE")
	}
	if c.PrimaryKey {
		b.WriteString(" PRIMARY KEY")
	}
	return b.String()
}

func (d *MysqlDialect) CreateTable(t *schema.Table) []string {
	return buildCreateTable(d, t, d.columnDefinition)
}

func (d *MysqlDialect) DropTable(name string) string {
	return fmt.Sprintf("DROP TABLE %s", d.Quote(name))
}

func (d *MysqlDialect) RenameTable(oldName, newName string) string {
	return fmt.Sprintf("RENAME TABLE %s TO %s", d.Quote(oldName), d.Quote(newName))
}

func (d *MysqlDialect) AddColumn(table string, c *schema.Column, initialValue string) []string {
	// A non-nullable column without a default cannot land on populated
	// tables directly. Add it nullable, backfill, then tighten.
	if !c.Nullable && c.Default == "" && initialValue != "" {
		relaxed := c.Clone()
		relaxed.Nullable = true
		stmts := []string{fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s", d.Quote(table), d.columnDefinition(relaxed))}
		stmts = append(stmts, backfill(d, table, c.Name, initialValue))
		stmts = append(stmts, fmt.Sprintf("ALTER TABLE %s MODIFY %s", d.Quote(table), d.columnDefinition(c)))
		return appendConstraintStatements(d, table, c, stmts)
	}
	stmts := []string{fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s", d.Quote(table), d.columnDefinition(c))}
	return appendConstraintStatements(d, table, c, stmts)
}

func (d *MysqlDialect) DropColumn(table, column string) string {
	return fmt.Sprintf("ALTER TABLE %s DROP COLUMN %s", d.Quote(table), d.Quote(column))
}

func (d *MysqlDialect) RenameColumn(table string, c *schema.Column, newName string) string {
	return fmt.Sprintf("ALTER TABLE %s RENAME COLUMN %s TO %s", d.Quote(table), d.Quote(c.Name), d.Quote(newName))
}

func (d *MysqlDialect) AlterDefault(table string, c *schema.Column) string {
	if c.Default == "" {
		return fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s DROP DEFAULT", d.Quote(table), d.Quote(c.Name))
	}
	return fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s SET DEFAULT %s", d.Quote(table), d.Quote(c.Name), c.Default)
}

func (d *MysqlDialect) AlterNullable(table string, c *schema.Column, initialValue string) []string {
	var stmts []string
	if !c.Nullable && initialValue != "" {
		stmts = append(stmts, backfill(d, table, c.Name, initialValue))
	}
	stmts = append(stmts, fmt.Sprintf("ALTER TABLE %s MODIFY %s", d.Quote(table), d.columnDefinition(c)))
	return stmts
}

func (d *MysqlDialect) CreateIndex(table string, c *schema.Column) string {
	return fmt.Sprintf("CREATE INDEX %s ON %s (%s)", IndexName(table, c.Name), d.Quote(table), d.Quote(c.Name))
}

func (d *MysqlDialect) DropIndex(table string, c *schema.Column) string {
	return fmt.Sprintf("DROP INDEX %s ON %s", IndexName(table, c.Name), d.Quote(table))
}

func (d *MysqlDialect) AddUnique(table string, c *schema.Column) string {
	return fmt.Sprintf("ALTER TABLE %s ADD CONSTRAINT %s UNIQUE (%s)", d.Quote(table), UniqueName(table, c.Name), d.Quote(c.Name))
}

func (d *MysqlDialect) DropUnique(table string, c *schema.Column) string {
	// MySQL stores unique constraints as indexes.
	return fmt.Sprintf("ALTER TABLE %s DROP INDEX %s", d.Quote(table), UniqueName(table, c.Name))
}

func (d *MysqlDialect) AlterDeleteRule(table string, c *schema.Column) []string {
	fk := ForeignKeyName(table, c.Name)
	return []string{
		fmt.Sprintf("ALTER TABLE %s DROP FOREIGN KEY %s", d.Quote(table), fk),
		fmt.Sprintf("ALTER TABLE %s ADD CONSTRAINT %s FOREIGN KEY (%s) %s",
			d.Quote(table), fk, d.Quote(c.Name), referencesClause(c, d.Quote)),
	}
}
