package dialect

import (
	"fmt"
	"strings"

	"db-evolve/internal/schema"
)

type OracleDialect struct{}

func (d *OracleDialect) TablesQuery(schemaName string) string {
	return `SELECT TABLE_NAME FROM ALL_TABLES WHERE OWNER = :1 ORDER BY TABLE_NAME`
}

func (d *OracleDialect) ColumnsQuery(schemaName string) string {
	return `SELECT TABLE_NAME, COLUMN_NAME, DATA_TYPE, NULLABLE, '' AS COLUMN_KEY,
CASE WHEN IDENTITY_COLUMN = 'YES' THEN 'identity' ELSE '' END AS EXTRA, DATA_DEFAULT
FROM ALL_TAB_COLUMNS WHERE OWNER = :1 ORDER BY TABLE_NAME, COLUMN_ID`
}

func (d *OracleDialect) PrimaryKeysQuery(schemaName string) string {
	return `SELECT c.TABLE_NAME, cc.COLUMN_NAME
FROM ALL_CONSTRAINTS c
JOIN ALL_CONS_COLUMNS cc ON c.OWNER = cc.OWNER AND c.CONSTRAINT_NAME = cc.CONSTRAINT_NAME
WHERE c.CONSTRAINT_TYPE = 'P' AND c.OWNER = :1
ORDER BY c.TABLE_NAME, cc.COLUMN_NAME`
}

func (d *OracleDialect) ForeignKeysQuery(schemaName string) string {
	return `SELECT a.TABLE_NAME, a.COLUMN_NAME, c_pk.TABLE_NAME, b.COLUMN_NAME
FROM ALL_CONS_COLUMNS a
JOIN ALL_CONSTRAINTS c ON a.OWNER = c.OWNER AND a.CONSTRAINT_NAME = c.CONSTRAINT_NAME
JOIN ALL_CONSTRAINTS c_pk ON c.R_OWNER = c_pk.OWNER AND c.R_CONSTRAINT_NAME = c_pk.CONSTRAINT_NAME
JOIN ALL_CONS_COLUMNS b ON c_pk.OWNER = b.OWNER AND c_pk.CONSTRAINT_NAME = b.CONSTRAINT_NAME
WHERE c.CONSTRAINT_TYPE = 'R' AND a.OWNER = :1
ORDER BY a.TABLE_NAME, a.COLUMN_NAME`
}

func (d *OracleDialect) DefaultSchemaName(input string) string {
	// Oracle schemas are upper-cased owner names.
	return strings.ToUpper(input)
}

func (d *OracleDialect) NormalizeType(sqlType string) string {
	return DefaultNormalizeType(sqlType)
}

func (d *OracleDialect) Quote(ident string) string {
	return `"` + ident + `"`
}

func (d *OracleDialect) TypeName(c *schema.Column) string {
	return c.Type
}

func (d *OracleDialect) Placeholder(index int) string {
	return fmt.Sprintf(":%d", index+1)
}

func (d *OracleDialect) columnDefinition(c *schema.Column) string {
	var b strings.Builder
	b.WriteString(d.Quote(c.Name) + " " + d.TypeName(c))
	if c.AutoInc {
		b.WriteString(" GENERATED BY DEFAULT AS IDENTITY")
	}
	if c.Default != "" {
		b.WriteString(" DEFAULT " + c.Default)
	}
	if !c.Nullable {
		b.WriteString(" NOT NULL")
	}
	if c.Unique {
		b.WriteString(" UNIQUE")
	}
	if c.PrimaryKey {
		b.WriteString(" PRIMARY KEY")
	}
	return b.String()
}

func (d *OracleDialect) CreateTable(t *schema.Table) []string {
	return buildCreateTable(d, t, d.columnDefinition)
}

func (d *OracleDialect) DropTable(name string) string {
	return fmt.Sprintf("DROP TABLE %s", d.Quote(name))
}

func (d *OracleDialect) RenameTable(oldName, newName string) string {
	return fmt.Sprintf("ALTER TABLE %s RENAME TO %s", d.Quote(oldName), d.Quote(newName))
}

func (d *OracleDialect) AddColumn(table string, c *schema.Column, initialValue string) []string {
	if !c.Nullable && c.Default == "" && initialValue != "" {
		relaxed := c.Clone()
		relaxed.Nullable = true
		stmts := []string{fmt.Sprintf("ALTER TABLE %s ADD (%s)", d.Quote(table), d.columnDefinition(relaxed))}
		stmts = append(stmts, backfill(d, table, c.Name, initialValue))
		stmts = append(stmts, fmt.Sprintf("ALTER TABLE %s MODIFY (%s NOT NULL)", d.Quote(table), d.Quote(c.Name)))
		return appendConstraintStatements(d, table, c, stmts)
	}
	stmts := []string{fmt.Sprintf("ALTER TABLE %s ADD (%s)", d.Quote(table), d.columnDefinition(c))}
	return appendConstraintStatements(d, table, c, stmts)
}

func (d *OracleDialect) DropColumn(table, column string) string {
	return fmt.Sprintf("ALTER TABLE %s DROP COLUMN %s", d.Quote(table), d.Quote(column))
}

func (d *OracleDialect) RenameColumn(table string, c *schema.Column, newName string) string {
	return fmt.Sprintf("ALTER TABLE %s RENAME COLUMN %s TO %s", d.Quote(table), d.Quote(c.Name), d.Quote(newName))
}

func (d *OracleDialect) AlterDefault(table string, c *schema.Column) string {
	if c.Default == "" {
		return fmt.Sprintf("ALTER TABLE %s MODIFY (%s DEFAULT NULL)", d.Quote(table), d.Quote(c.Name))
	}
	return fmt.Sprintf("ALTER TABLE %s MODIFY (%s DEFAULT %s)", d.Quote(table), d.Quote(c.Name), c.Default)
}

func (d *OracleDialect) AlterNullable(table string, c *schema.Column, initialValue string) []string {
	if c.Nullable {
		return []string{fmt.Sprintf("ALTER TABLE %s MODIFY (%s NULL)", d.Quote(table), d.Quote(c.Name))}
	}
	var stmts []string
	if initialValue != "" {
		stmts = append(stmts, backfill(d, table, c.Name, initialValue))
	}
	return append(stmts, fmt.Sprintf("ALTER TABLE %s MODIFY (%s NOT NULL)", d.Quote(table), d.Quote(c.Name)))
}

func (d *OracleDialect) CreateIndex(table string, c *schema.Column) string {
	return fmt.Sprintf("CREATE INDEX %s ON %s (%s)", IndexName(table, c.Name), d.Quote(table), d.Quote(c.Name))
}

func (d *OracleDialect) DropIndex(table string, c *schema.Column) string {
	return fmt.Sprintf("DROP INDEX %s", IndexName(table, c.Name))
}

func (d *OracleDialect) AddUnique(table string, c *schema.Column) string {
	return fmt.Sprintf("ALTER TABLE %s ADD CONSTRAINT %s UNIQUE (%s)", d.Quote(table), UniqueName(table, c.Name), d.Quote(c.Name))
}

func (d *OracleDialect) DropUnique(table string, c *schema.Column) string {
	return fmt.Sprintf("ALTER TABLE %s DROP CONSTRAINT %s", d.Quote(table), UniqueName(table, c.Name))
}

func (d *OracleDialect) AlterDeleteRule(table string, c *schema.Column) []string {
	fk := ForeignKeyName(table, c.Name)
	return []string{
		fmt.Sprintf("ALTER TABLE %s DROP CONSTRAINT %s", d.Quote(table), fk),
		fmt.Sprintf("ALTER TABLE %s ADD CONSTRAINT %s FOREIGN KEY (%s) %s",
			d.Quote(table), fk, d.Quote(c.Name), referencesClause(c, d.Quote)),
	}
}
