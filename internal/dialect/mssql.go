package dialect

import (
	"fmt"
	"strings"

	"db-evolve/internal/schema"
)

type MSSQLDialect struct{}

func (d *MSSQLDialect) TablesQuery(schemaName string) string {
	return `SELECT TABLE_NAME FROM INFORMATION_SCHEMA.TABLES WHERE TABLE_SCHEMA = @p1 AND TABLE_TYPE = 'BASE TABLE' ORDER BY TABLE_NAME`
}

func (d *MSSQLDialect) ColumnsQuery(schemaName string) string {
	return `SELECT c.TABLE_NAME, c.COLUMN_NAME, c.DATA_TYPE, c.IS_NULLABLE, '' AS COLUMN_KEY,
CASE WHEN COLUMNPROPERTY(OBJECT_ID(c.TABLE_SCHEMA + '.' + c.TABLE_NAME), c.COLUMN_NAME, 'IsIdentity') = 1 THEN 'identity' ELSE '' END AS EXTRA,
c.COLUMN_DEFAULT
FROM INFORMATION_SCHEMA.COLUMNS c WHERE c.TABLE_SCHEMA = @p1 ORDER BY c.TABLE_NAME, c.ORDINAL_POSITION`
}

func (d *MSSQLDialect) PrimaryKeysQuery(schemaName string) string {
	return `SELECT tc.TABLE_NAME, kcu.COLUMN_NAME
FROM INFORMATION_SCHEMA.TABLE_CONSTRAINTS tc
JOIN INFORMATION_SCHEMA.KEY_COLUMN_USAGE kcu ON tc.CONSTRAINT_NAME = kcu.CONSTRAINT_NAME AND tc.TABLE_SCHEMA = kcu.TABLE_SCHEMA
WHERE tc.CONSTRAINT_TYPE = 'PRIMARY KEY' AND tc.TABLE_SCHEMA = @p1
ORDER BY tc.TABLE_NAME, kcu.COLUMN_NAME`
}

func (d *MSSQLDialect) ForeignKeysQuery(schemaName string) string {
	return `SELECT tp.name, cp.name, tr.name, cr.name
FROM sys.foreign_key_columns fkc
JOIN sys.tables tp ON fkc.parent_object_id = tp.object_id
JOIN sys.columns cp ON fkc.parent_object_id = cp.object_id AND fkc.parent_column_id = cp.column_id
JOIN sys.tables tr ON fkc.referenced_object_id = tr.object_id
JOIN sys.columns cr ON fkc.referenced_object_id = cr.object_id AND fkc.referenced_column_id = cr.column_id
JOIN sys.schemas s ON tp.schema_id = s.schema_id
WHERE s.name = @p1
ORDER BY tp.name, cp.name`
}

func (d *MSSQLDialect) DefaultSchemaName(input string) string {
	if input == "" {
		return "dbo"
	}
	return input
}

func (d *MSSQLDialect) NormalizeType(sqlType string) string {
	return DefaultNormalizeType(sqlType)
}

func (d *MSSQLDialect) Quote(ident string) string {
	return "[" + ident + "]"
}

func (d *MSSQLDialect) TypeName(c *schema.Column) string {
	return c.Type
}

func (d *MSSQLDialect) Placeholder(index int) string {
	return fmt.Sprintf("@p%d", index+1)
}

// columnDefinition needs the owning table's name because the default
// constraint is named after it, so a later alteration can drop the
// constraint without a catalog lookup.
func (d *MSSQLDialect) columnDefinition(table string, c *schema.Column) string {
	var b strings.Builder
	b.WriteString(d.Quote(c.Name) + " " + d.TypeName(c))
	if c.AutoInc {
		b.WriteString(" IDENTITY(1,1)")
	}
	if !c.Nullable {
		b.WriteString(" NOT NULL")
	}
	if c.Default != "" {
		b.WriteString(fmt.Sprintf(" CONSTRAINT %s DEFAULT %s", DefaultName(table, c.Name), c.Default))
	}
	if c.Unique {
		b.WriteString(" UNIQUE")
	}
	if c.PrimaryKey {
		b.WriteString(" PRIMARY KEY")
	}
	return b.String()
}

func (d *MSSQLDialect) CreateTable(t *schema.Table) []string {
	return buildCreateTable(d, t, func(c *schema.Column) string {
		return d.columnDefinition(t.Name, c)
	})
}

func (d *MSSQLDialect) DropTable(name string) string {
	return fmt.Sprintf("DROP TABLE %s", d.Quote(name))
}

func (d *MSSQLDialect) RenameTable(oldName, newName string) string {
	return fmt.Sprintf("EXEC sp_rename '%s', '%s'", oldName, newName)
}

func (d *MSSQLDialect) AddColumn(table string, c *schema.Column, initialValue string) []string {
	if !c.Nullable && c.Default == "" && initialValue != "" {
		relaxed := c.Clone()
		relaxed.Nullable = true
		stmts := []string{fmt.Sprintf("ALTER TABLE %s ADD %s", d.Quote(table), d.columnDefinition(table, relaxed))}
		stmts = append(stmts, backfill(d, table, c.Name, initialValue))
		stmts = append(stmts, fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s %s NOT NULL", d.Quote(table), d.Quote(c.Name), d.TypeName(c)))
		return appendConstraintStatements(d, table, c, stmts)
	}
	stmts := []string{fmt.Sprintf("ALTER TABLE %s ADD %s", d.Quote(table), d.columnDefinition(table, c))}
	return appendConstraintStatements(d, table, c, stmts)
}

func (d *MSSQLDialect) DropColumn(table, column string) string {
	return fmt.Sprintf("ALTER TABLE %s DROP COLUMN %s", d.Quote(table), d.Quote(column))
}

func (d *MSSQLDialect) RenameColumn(table string, c *schema.Column, newName string) string {
	return fmt.Sprintf("EXEC sp_rename '%s.%s', '%s', 'COLUMN'", table, c.Name, newName)
}

func (d *MSSQLDialect) AlterDefault(table string, c *schema.Column) string {
	if c.Default == "" {
		return fmt.Sprintf("ALTER TABLE %s DROP CONSTRAINT %s", d.Quote(table), DefaultName(table, c.Name))
	}
	return fmt.Sprintf("ALTER TABLE %s ADD CONSTRAINT %s DEFAULT %s FOR %s",
		d.Quote(table), DefaultName(table, c.Name), c.Default, d.Quote(c.Name))
}

func (d *MSSQLDialect) AlterNullable(table string, c *schema.Column, initialValue string) []string {
	nullability := "NULL"
	var stmts []string
	if !c.Nullable {
		nullability = "NOT NULL"
		if initialValue != "" {
			stmts = append(stmts, backfill(d, table, c.Name, initialValue))
		}
	}
	return append(stmts, fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s %s %s",
		d.Quote(table), d.Quote(c.Name), d.TypeName(c), nullability))
}

func (d *MSSQLDialect) CreateIndex(table string, c *schema.Column) string {
	return fmt.Sprintf("CREATE INDEX %s ON %s (%s)", IndexName(table, c.Name), d.Quote(table), d.Quote(c.Name))
}

func (d *MSSQLDialect) DropIndex(table string, c *schema.Column) string {
	return fmt.Sprintf("DROP INDEX %s ON %s", IndexName(table, c.Name), d.Quote(table))
}

func (d *MSSQLDialect) AddUnique(table string, c *schema.Column) string {
	return fmt.Sprintf("ALTER TABLE %s ADD CONSTRAINT %s UNIQUE (%s)", d.Quote(table), UniqueName(table, c.Name), d.Quote(c.Name))
}

func (d *MSSQLDialect) DropUnique(table string, c *schema.Column) string {
	return fmt.Sprintf("ALTER TABLE %s DROP CONSTRAINT %s", d.Quote(table), UniqueName(table, c.Name))
}

func (d *MSSQLDialect) AlterDeleteRule(table string, c *schema.Column) []string {
	fk := ForeignKeyName(table, c.Name)
	return []string{
		fmt.Sprintf("ALTER TABLE %s DROP CONSTRAINT %s", d.Quote(table), fk),
		fmt.Sprintf("ALTER TABLE %s ADD CONSTRAINT %s FOREIGN KEY (%s) %s",
			d.Quote(table), fk, d.Quote(c.Name), referencesClause(c, d.Quote)),
	}
}
