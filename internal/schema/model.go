package schema

import "fmt"

// Column describes a single table column.
//
// Type, AutoInc, PrimaryKey, RefTable and RefColumn are fixed once the
// column exists in a materialized schema; only Name, Indexed, Unique,
// Default, Nullable and DeleteRule may change afterwards (the builder
// enforces this through its patch type).
//
// Default and backfill values are raw SQL literals ("'x'", "0",
// "CURRENT_TIMESTAMP"); the empty string means "no default".
type Column struct {
	Name       string
	Type       string
	PrimaryKey bool
	AutoInc    bool
	Indexed    bool
	Nullable   bool
	Unique     bool
	Default    string

	// Foreign key target. RefTable == "" means the column is not a
	// foreign key. DeleteRule is "CASCADE", "SET NULL", "RESTRICT" or
	// "NO ACTION" ("" falls back to the engine default).
	RefTable   string
	RefColumn  string
	DeleteRule string
}

// IsForeignKey reports whether the column references another table.
func (c *Column) IsForeignKey() bool {
	return c.RefTable != ""
}

// Clone returns an independent copy of the column.
func (c *Column) Clone() *Column {
	dup := *c
	return &dup
}

// Equal compares every attribute of two columns.
func (c *Column) Equal(other *Column) bool {
	return *c == *other
}

// Table is a named collection of columns plus optional multi-column
// unique constraint groups. Column order is declaration order.
type Table struct {
	Name         string
	Columns      []*Column
	UniqueGroups [][]string
}

// ColumnForName returns the column with the given name, or nil.
func (t *Table) ColumnForName(name string) *Column {
	for _, c := range t.Columns {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// PrimaryKey returns the primary-key column, or nil. A table holds at
// most one.
func (t *Table) PrimaryKey() *Column {
	for _, c := range t.Columns {
		if c.PrimaryKey {
			return c
		}
	}
	return nil
}

// ForeignKeyColumns returns the columns referencing other tables, in
// declaration order.
func (t *Table) ForeignKeyColumns() []*Column {
	var fks []*Column
	for _, c := range t.Columns {
		if c.IsForeignKey() {
			fks = append(fks, c)
		}
	}
	return fks
}

// AddColumn appends a column. Fails if a column of that name exists or
// if the table would end up with two primary keys.
func (t *Table) AddColumn(c *Column) error {
	if t.ColumnForName(c.Name) != nil {
		return fmt.Errorf("column %s.%s: %w", t.Name, c.Name, ErrDuplicateName)
	}
	if c.PrimaryKey && t.PrimaryKey() != nil {
		return fmt.Errorf("table %s already has a primary key: %w", t.Name, ErrDuplicateName)
	}
	t.Columns = append(t.Columns, c)
	return nil
}

// RemoveColumn removes the named column. Fails if it does not exist.
func (t *Table) RemoveColumn(name string) error {
	for i, c := range t.Columns {
		if c.Name == name {
			t.Columns = append(t.Columns[:i], t.Columns[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("column %s.%s: %w", t.Name, name, ErrNotFound)
}

// ReplaceColumn swaps the named column for a replacement, keeping its
// position. Fails if the old name does not exist or the new name
// collides with another column.
func (t *Table) ReplaceColumn(name string, replacement *Column) error {
	if replacement.Name != name && t.ColumnForName(replacement.Name) != nil {
		return fmt.Errorf("column %s.%s: %w", t.Name, replacement.Name, ErrDuplicateName)
	}
	for i, c := range t.Columns {
		if c.Name == name {
			t.Columns[i] = replacement
			return nil
		}
	}
	return fmt.Errorf("column %s.%s: %w", t.Name, name, ErrNotFound)
}

// Clone returns a deep copy: every column and unique group is
// independently owned.
func (t *Table) Clone() *Table {
	dup := &Table{Name: t.Name}
	for _, c := range t.Columns {
		dup.Columns = append(dup.Columns, c.Clone())
	}
	for _, g := range t.UniqueGroups {
		dup.UniqueGroups = append(dup.UniqueGroups, append([]string(nil), g...))
	}
	return dup
}

// Schema is a mutable set of tables keyed by case-sensitive name.
// Iteration order is insertion order, which keeps diffs and generated
// migrations reproducible across runs.
type Schema struct {
	tables []*Table
	index  map[string]*Table
}

// New returns an empty schema.
func New() *Schema {
	return &Schema{index: make(map[string]*Table)}
}

// Clone deep-copies the schema: edits on the copy never touch the
// original.
func (s *Schema) Clone() *Schema {
	dup := New()
	for _, t := range s.tables {
		ct := t.Clone()
		dup.tables = append(dup.tables, ct)
		dup.index[ct.Name] = ct
	}
	return dup
}

// Tables returns the tables in insertion order. The slice is a copy but
// the tables themselves are shared.
func (s *Schema) Tables() []*Table {
	return append([]*Table(nil), s.tables...)
}

// Len returns the number of tables.
func (s *Schema) Len() int {
	return len(s.tables)
}

// TableForName returns the table with the given name, or nil.
func (s *Schema) TableForName(name string) *Table {
	return s.index[name]
}

// AddTable inserts a table. Fails if the name is taken.
func (s *Schema) AddTable(t *Table) error {
	if _, exists := s.index[t.Name]; exists {
		return fmt.Errorf("table %s: %w", t.Name, ErrDuplicateName)
	}
	s.tables = append(s.tables, t)
	s.index[t.Name] = t
	return nil
}

// RemoveTable removes the named table. Fails if it does not exist.
// Callers are responsible for removing children first; the schema does
// not check for dangling foreign keys here.
func (s *Schema) RemoveTable(name string) error {
	if _, exists := s.index[name]; !exists {
		return fmt.Errorf("table %s: %w", name, ErrNotFound)
	}
	delete(s.index, name)
	for i, t := range s.tables {
		if t.Name == name {
			s.tables = append(s.tables[:i], s.tables[i+1:]...)
			break
		}
	}
	return nil
}

// RenameTable renames a table in place, keeping its position in the
// iteration order. Every foreign-key column anywhere in the schema that
// referenced the old name is updated to the new one, so dependency
// ordering keeps working after the rename.
func (s *Schema) RenameTable(oldName, newName string) error {
	t, exists := s.index[oldName]
	if !exists {
		return fmt.Errorf("table %s: %w", oldName, ErrNotFound)
	}
	if oldName == newName {
		return nil
	}
	if _, taken := s.index[newName]; taken {
		return fmt.Errorf("table %s: %w", newName, ErrDuplicateName)
	}
	delete(s.index, oldName)
	t.Name = newName
	s.index[newName] = t
	for _, other := range s.tables {
		for _, c := range other.Columns {
			if c.RefTable == oldName {
				c.RefTable = newName
			}
		}
	}
	return nil
}
