package schema

// SchemaDifference is the structural delta between an actual schema
// (the receiver of DifferenceFrom) and an expected one. It is computed
// on demand and never mutated.
type SchemaDifference struct {
	// TableNamesToAdd exist in expected but not in actual, in
	// expected's insertion order.
	TableNamesToAdd []string
	// TableNamesToDelete exist in actual but not in expected, in
	// actual's insertion order.
	TableNamesToDelete []string
	// DifferingTables covers tables present in both sides with at
	// least one column-level difference, in actual's insertion order.
	DifferingTables []*TableDifference
}

// Empty reports whether the two schemas are structurally identical.
func (d *SchemaDifference) Empty() bool {
	return len(d.TableNamesToAdd) == 0 &&
		len(d.TableNamesToDelete) == 0 &&
		len(d.DifferingTables) == 0
}

// TableDifference is the per-table delta for a table present on both
// sides. Expected or Actual is nil when the whole table is being added
// or deleted rather than modified.
type TableDifference struct {
	Expected *Table
	Actual   *Table

	ColumnNamesToAdd    []string
	ColumnNamesToDelete []string
	DifferingColumns    []*ColumnDifference
}

// Empty reports whether the table has no column-level differences.
func (d *TableDifference) Empty() bool {
	return len(d.ColumnNamesToAdd) == 0 &&
		len(d.ColumnNamesToDelete) == 0 &&
		len(d.DifferingColumns) == 0
}

// ColumnDifference pairs the two versions of a column whose attributes
// differ.
type ColumnDifference struct {
	Expected *Column
	Actual   *Column
}

// DifferenceFrom computes the delta between the receiver (actual) and
// an expected schema. The computation is pure: identical inputs always
// produce identical output, ordered by the schemas' insertion order so
// generated migrations are reproducible.
func (s *Schema) DifferenceFrom(expected *Schema) *SchemaDifference {
	diff := &SchemaDifference{}

	for _, t := range expected.tables {
		if s.index[t.Name] == nil {
			diff.TableNamesToAdd = append(diff.TableNamesToAdd, t.Name)
		}
	}
	for _, actual := range s.tables {
		want := expected.index[actual.Name]
		if want == nil {
			diff.TableNamesToDelete = append(diff.TableNamesToDelete, actual.Name)
			continue
		}
		td := diffTable(want, actual)
		if !td.Empty() {
			diff.DifferingTables = append(diff.DifferingTables, td)
		}
	}
	return diff
}

func diffTable(expected, actual *Table) *TableDifference {
	td := &TableDifference{Expected: expected, Actual: actual}

	for _, c := range expected.Columns {
		if actual.ColumnForName(c.Name) == nil {
			td.ColumnNamesToAdd = append(td.ColumnNamesToAdd, c.Name)
		}
	}
	for _, c := range actual.Columns {
		want := expected.ColumnForName(c.Name)
		if want == nil {
			td.ColumnNamesToDelete = append(td.ColumnNamesToDelete, c.Name)
			continue
		}
		if !c.Equal(want) {
			td.DifferingColumns = append(td.DifferingColumns, &ColumnDifference{
				Expected: want,
				Actual:   c,
			})
		}
	}
	return td
}
