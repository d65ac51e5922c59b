package schema

import (
	"fmt"
	"strings"
)

// DependencyOrderedTables returns every table ordered so that a table
// referenced by a foreign key always comes before the table holding
// that key. Ties (tables with no dependency relationship) keep their
// original insertion order.
//
// The sort is iterative: each pass places every table whose remaining
// dependencies are already placed. A pass that places nothing means the
// remaining tables reference each other in a cycle, which fails with
// ErrCyclicDependency. A table referencing itself does not count as a
// cycle.
func (s *Schema) DependencyOrderedTables() ([]*Table, error) {
	ordered := make([]*Table, 0, len(s.tables))
	placed := make(map[string]bool, len(s.tables))

	for len(ordered) < len(s.tables) {
		progressed := false
		for _, t := range s.tables {
			if placed[t.Name] {
				continue
			}
			ready := true
			for _, fk := range t.ForeignKeyColumns() {
				if fk.RefTable == t.Name {
					continue
				}
				// References to tables outside the schema don't block
				// ordering; they can never be satisfied from here.
				if s.index[fk.RefTable] != nil && !placed[fk.RefTable] {
					ready = false
					break
				}
			}
			if ready {
				ordered = append(ordered, t)
				placed[t.Name] = true
				progressed = true
			}
		}
		if !progressed {
			var stuck []string
			for _, t := range s.tables {
				if !placed[t.Name] {
					stuck = append(stuck, t.Name)
				}
			}
			return nil, fmt.Errorf("tables %s: %w", strings.Join(stuck, ", "), ErrCyclicDependency)
		}
	}
	return ordered, nil
}
