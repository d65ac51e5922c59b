package dialect

import (
	"fmt"
	"strings"

	"db-evolve/internal/schema"
)

type PostgresDialect struct{}

func (d *PostgresDialect) TablesQuery(schemaName string) string {
	return `SELECT table_name FROM information_schema.tables WHERE table_schema = $1 AND table_type = 'BASE TABLE' ORDER BY table_name`
}

func (d *PostgresDialect) ColumnsQuery(schemaName string) string {
	return `SELECT table_name, column_name, data_type, is_nullable, '' AS column_key, CASE WHEN is_identity = 'YES' OR column_default LIKE 'nextval%' THEN 'identity' ELSE '' END AS extra, column_default FROM information_schema.columns WHERE table_schema = $1 ORDER BY table_name, ordinal_position`
}

func (d *PostgresDialect) PrimaryKeysQuery(schemaName string) string {
	return `SELECT tc.table_name, kcu.column_name
FROM information_schema.table_constraints tc
JOIN information_schema.key_column_usage kcu ON tc.constraint_name = kcu.constraint_name AND tc.table_schema = kcu.table_schema
WHERE tc.constraint_type = 'PRIMARY KEY' AND tc.table_schema = $1
ORDER BY tc.table_name, kcu.column_name`
}

func (d *PostgresDialect) ForeignKeysQuery(schemaName string) string {
	return `SELECT tc.table_name, kcu.column_name, ccu.table_name, ccu.column_name
FROM information_schema.table_constraints tc
JOIN information_schema.key_column_usage kcu ON tc.constraint_name = kcu.constraint_name AND tc.table_schema = kcu.table_schema
JOIN information_schema.constraint_column_usage ccu ON tc.constraint_name = ccu.constraint_name AND tc.table_schema = ccu.table_schema
WHERE tc.constraint_type = 'FOREIGN KEY' AND tc.table_schema = $1
ORDER BY tc.table_name, kcu.column_name`
}

func (d *PostgresDialect) DefaultSchemaName(input string) string {
	if input == "" {
		return "public"
	}
	return input
}

func (d *PostgresDialect) NormalizeType(sqlType string) string {
	return DefaultNormalizeType(sqlType)
}

func (d *PostgresDialect) Quote(ident string) string {
	return `"` + ident + `"`
}

func (d *PostgresDialect) TypeName(c *schema.Column) string {
	return c.Type
}

func (d *PostgresDialect) Placeholder(index int) string {
	return fmt.Sprintf("$%d", index+1)
}

func (d *PostgresDialect) columnDefinition(c *schema.Column) string {
	var b strings.Builder
	b.WriteString(d.Quote(c.Name) + " " + d.TypeName(c))
	if c.AutoInc {
		b.WriteString(" GENERATED BY DEFAULT AS IDENTITY")
	}
	if !c.Nullable {
		b.WriteString(" NOT NULL")
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

func (d *PostgresDialect) CreateTable(t *schema.Table) []string {
	return buildCreateTable(d, t, d.columnDefinition)
}

func (d *PostgresDialect) DropTable(name string) string {
	return fmt.Sprintf("DROP TABLE %s", d.Quote(name))
}

func (d *PostgresDialect) RenameTable(oldName, newName string) string {
	return fmt.Sprintf("ALTER TABLE %s RENAME TO %s", d.Quote(oldName), d.Quote(newName))
}

func (d *PostgresDialect) AddColumn(table string, c *schema.Column, initialValue string) []string {
	if !c.Nullable && c.Default == "" && initialValue != "" {
		relaxed := c.Clone()
		relaxed.Nullable = true
		stmts := []string{fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s", d.Quote(table), d.columnDefinition(relaxed))}
		stmts = append(stmts, backfill(d, table, c.Name, initialValue))
		stmts = append(stmts, fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s SET NOT NULL", d.Quote(table), d.Quote(c.Name)))
		return appendConstraintStatements(d, table, c, stmts)
	}
	stmts := []string{fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s", d.Quote(table), d.columnDefinition(c))}
	return appendConstraintStatements(d, table, c, stmts)
}

func (d *PostgresDialect) DropColumn(table, column string) string {
	return fmt.Sprintf("ALTER TABLE %s DROP COLUMN %s", d.Quote(table), d.Quote(column))
}

func (d *PostgresDialect) RenameColumn(table string, c *schema.Column, newName string) string {
	return fmt.Sprintf("ALTER TABLE %s RENAME COLUMN %s TO %s", d.Quote(table), d.Quote(c.Name), d.Quote(newName))
}

func (d *PostgresDialect) AlterDefault(table string, c *schema.Column) string {
	if c.Default == "" {
		return fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s DROP DEFAULT", d.Quote(table), d.Quote(c.Name))
	}
	return fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s SET DEFAULT %s", d.Quote(table), d.Quote(c.Name), c.Default)
}

func (d *PostgresDialect) AlterNullable(table string, c *schema.Column, initialValue string) []string {
	if c.Nullable {
		return []string{fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s DROP NOT NULL", d.Quote(table), d.Quote(c.Name))}
	}
	var stmts []string
	if initialValue != "" {
		stmts = append(stmts, backfill(d, table, c.Name, initialValue))
	}
	return append(stmts, fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s SET NOT NULL", d.Quote(table), d.Quote(c.Name)))
}

func (d *PostgresDialect) CreateIndex(table string, c *schema.Column) string {
	return fmt.Sprintf("CREATE INDEX %s ON %s (%s)", IndexName(table, c.Name), d.Quote(table), d.Quote(c.Name))
}

func (d *PostgresDialect) DropIndex(table string, c *schema.Column) string {
	return fmt.Sprintf("DROP INDEX %s", IndexName(table, c.Name))
}

func (d *PostgresDialect) AddUnique(table string, c *schema.Column) string {
	return fmt.Sprintf("ALTER TABLE %s ADD CONSTRAINT %s UNIQUE (%s)", d.Quote(table), UniqueName(table, c.Name), d.Quote(c.Name))
}

func (d *PostgresDialect) DropUnique(table string, c *schema.Column) string {
	return fmt.Sprintf("ALTER TABLE %s DROP CONSTRAINT %s", d.Quote(table), UniqueName(table, c.Name))
}

func (d *PostgresDialect) AlterDeleteRule(table string, c *schema.Column) []string {
	fk := ForeignKeyName(table, c.Name)
	return []string{
		fmt.Sprintf("ALTER TABLE %s DROP CONSTRAINT %s", d.Quote(table), fk),
		fmt.Sprintf("ALTER TABLE %s ADD CONSTRAINT %s FOREIGN KEY (%s) %s",
			d.Quote(table), fk, d.Quote(c.Name), referencesClause(c, d.Quote)),
	}
}
