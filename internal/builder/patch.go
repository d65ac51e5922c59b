package builder

import "db-evolve/internal/schema"

// ColumnPatch enumerates the column attributes that may legally change
// after creation. A nil field leaves the attribute alone. Type,
// autoincrement, primary-key status and the foreign-key target have no
// field here on purpose: changing them is impossible rather than a
// runtime failure.
//
// Default and DeleteRule are raw SQL fragments following the schema
// package's convention; setting either to "" clears it.
type ColumnPatch struct {
	Name       *string
	Indexed    *bool
	Unique     *bool
	Nullable   *bool
	Default    *string
	DeleteRule *string
}

// Bool returns a pointer for use in a ColumnPatch literal.
func Bool(v bool) *bool { return &v }

// String returns a pointer for use in a ColumnPatch literal.
func String(v string) *string { return &v }

// apply copies the patched attributes onto a column clone.
func (p ColumnPatch) apply(c *schema.Column) {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Indexed != nil {
		c.Indexed = *p.Indexed
	}
	if p.Unique != nil {
		c.Unique = *p.Unique
	}
	if p.Nullable != nil {
		c.Nullable = *p.Nullable
	}
	if p.Default != nil {
		c.Default = *p.Default
	}
	if p.DeleteRule != nil {
		c.DeleteRule = *p.DeleteRule
	}
}

// AttributeChange identifies which attribute category an alteration
// command belongs to. A single AlterColumn call emits one command set
// per changed category.
type AttributeChange int

const (
	ChangeIndexed AttributeChange = iota
	ChangeUnique
	ChangeDefault
	ChangeNullable
	ChangeDeleteRule
)

// changedAttributes lists the categories that actually differ between
// the original column and its patched clone, in the fixed emission
// order.
func changedAttributes(old, updated *schema.Column) []AttributeChange {
	var changes []AttributeChange
	if old.Indexed != updated.Indexed {
		changes = append(changes, ChangeIndexed)
	}
	if old.Unique != updated.Unique {
		changes = append(changes, ChangeUnique)
	}
	if old.Default != updated.Default {
		changes = append(changes, ChangeDefault)
	}
	if old.Nullable != updated.Nullable {
		changes = append(changes, ChangeNullable)
	}
	if old.DeleteRule != updated.DeleteRule {
		changes = append(changes, ChangeDeleteRule)
	}
	return changes
}
