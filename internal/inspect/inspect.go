// Package inspect reads the live catalog of a connected database into
// the in-memory schema model, using the dialect's introspection
// queries.
package inspect

import (
	"database/sql"
	"fmt"
	"strings"

	"db-evolve/internal/dialect"
	"db-evolve/internal/schema"
)

// Schema builds a schema snapshot from the database catalog. Table and
// column order follow the catalog's own ordering, so two runs against
// an unchanged database produce identical snapshots.
func Schema(db *sql.DB, d dialect.Dialect, schemaName string) (*schema.Schema, error) {
	target := d.DefaultSchemaName(schemaName)
	s := schema.New()

	rows, err := db.Query(d.TablesQuery(target), target)
	if err != nil {
		return nil, fmt.Errorf("failed to query tables: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan table name: %w", err)
		}
		if err := s.AddTable(&schema.Table{Name: name}); err != nil {
			return nil, err
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tables: %w", err)
	}

	if err := loadColumns(db, d, s, target); err != nil {
		return nil, err
	}
	if err := markPrimaryKeys(db, d, s, target); err != nil {
		return nil, err
	}
	if err := loadForeignKeys(db, d, s, target); err != nil {
		return nil, err
	}
	return s, nil
}

func loadColumns(db *sql.DB, d dialect.Dialect, s *schema.Schema, target string) error {
	rows, err := db.Query(d.ColumnsQuery(target), target)
	if err != nil {
		return fmt.Errorf("failed to query columns: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var tName, cName, dType, isNull, cKey, extra, cDefault sql.NullString
		if err := rows.Scan(&tName, &cName, &dType, &isNull, &cKey, &extra, &cDefault); err != nil {
			return fmt.Errorf("failed to scan column (table: %s): %w", tName.String, err)
		}
		if !tName.Valid || !cName.Valid {
			continue
		}
		t := s.TableForName(tName.String)
		if t == nil {
			continue // view or table filtered out by TablesQuery
		}
		c := &schema.Column{
			Name:       cName.String,
			Type:       d.NormalizeType(dType.String),
			Nullable:   isNull.String == "YES" || isNull.String == "Y",
			PrimaryKey: strings.Contains(cKey.String, "PRI"),
			AutoInc:    extra.Valid && strings.Contains(strings.ToLower(extra.String), "identity"),
			Default:    strings.TrimSpace(cDefault.String),
		}
		if !c.AutoInc && extra.Valid && strings.Contains(strings.ToLower(extra.String), "auto_increment") {
			c.AutoInc = true
		}
		if c.PrimaryKey {
			if pk := t.PrimaryKey(); pk != nil {
				return compositeKeyError(t.Name, pk.Name, c.Name)
			}
		}
		if err := t.AddColumn(c); err != nil {
			return err
		}
	}
	return rows.Err()
}

func markPrimaryKeys(db *sql.DB, d dialect.Dialect, s *schema.Schema, target string) error {
	rows, err := db.Query(d.PrimaryKeysQuery(target), target)
	if err != nil {
		return fmt.Errorf("failed to query primary keys: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var tName, cName string
		if err := rows.Scan(&tName, &cName); err != nil {
			return fmt.Errorf("failed to scan primary key: %w", err)
		}
		t := s.TableForName(tName)
		if t == nil {
			continue
		}
		if pk := t.PrimaryKey(); pk != nil && pk.Name != cName {
			return compositeKeyError(tName, pk.Name, cName)
		}
		if c := t.ColumnForName(cName); c != nil {
			c.PrimaryKey = true
		}
	}
	return rows.Err()
}

// The model allows at most one primary-key column per table, so a
// composite key in the catalog cannot be represented.
func compositeKeyError(table, first, second string) error {
	return fmt.Errorf("table %s has a composite primary key (%s, %s), which is not supported", table, first, second)
}

func loadForeignKeys(db *sql.DB, d dialect.Dialect, s *schema.Schema, target string) error {
	rows, err := db.Query(d.ForeignKeysQuery(target), target)
	if err != nil {
		return fmt.Errorf("failed to query foreign keys: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var tName, cName, refTable, refColumn sql.NullString
		if err := rows.Scan(&tName, &cName, &refTable, &refColumn); err != nil {
			return fmt.Errorf("failed to scan foreign key: %w", err)
		}
		if !tName.Valid || !refTable.Valid {
			continue
		}
		t := s.TableForName(tName.String)
		if t == nil || s.TableForName(refTable.String) == nil {
			continue // reference into another schema, out of scope
		}
		if c := t.ColumnForName(cName.String); c != nil {
			c.RefTable = refTable.String
			c.RefColumn = refColumn.String
		}
	}
	return rows.Err()
}
