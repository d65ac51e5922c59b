package builder

import (
	"fmt"

	"db-evolve/internal/schema"
)

// Emitter turns a validated structural edit into the backend commands
// realizing it. Implementations must not mutate their arguments. A nil
// Emitter on a Builder means validation and model mutation still run
// but no commands are produced.
type Emitter interface {
	CreateTable(t *schema.Table) []string
	RenameTable(oldName, newName string) []string
	DeleteTable(name string) []string
	AddColumn(table string, c *schema.Column, initialValue string) []string
	DeleteColumn(table string, c *schema.Column) []string
	RenameColumn(table string, c *schema.Column, newName string) []string
	AlterColumn(table string, c *schema.Column, change AttributeChange, initialValue string) []string
}

// Builder applies an ordered sequence of structural edits to a working
// schema, collecting the emitted backend commands in call order. Each
// edit validates fully before mutating anything, so a failed call
// leaves both the schema and the command log untouched. There is no
// cross-call rollback: callers needing atomicity over a batch discard
// the whole builder on the first error.
//
// A Builder is not safe for concurrent use; it owns its schema and
// command log exclusively.
type Builder struct {
	schema   *schema.Schema
	emitter  Emitter
	commands []string
}

// New starts a builder from a deep copy of an existing schema, so
// edits never leak back into the caller's snapshot. emitter may be
// nil.
func New(s *schema.Schema, emitter Emitter) *Builder {
	return &Builder{schema: s.Clone(), emitter: emitter}
}

// NewFromTarget starts from an empty schema and replays every table of
// target through CreateTable, parents before children. The accumulated
// commands amount to a full create-from-scratch script for the target.
func NewFromTarget(target *schema.Schema, emitter Emitter) (*Builder, error) {
	ordered, err := target.DependencyOrderedTables()
	if err != nil {
		return nil, err
	}
	b := &Builder{schema: schema.New(), emitter: emitter}
	for _, t := range ordered {
		if err := b.CreateTable(t); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// Schema exposes the working model. Callers must treat it as
// read-only; edits go through the builder's methods.
func (b *Builder) Schema() *schema.Schema {
	return b.schema
}

// Commands returns the backend commands emitted so far, in call order.
func (b *Builder) Commands() []string {
	return append([]string(nil), b.commands...)
}

func (b *Builder) emit(commands []string) {
	b.commands = append(b.commands, commands...)
}

// CreateTable adds a deep copy of t to the schema.
func (b *Builder) CreateTable(t *schema.Table) error {
	owned := t.Clone()
	if err := b.schema.AddTable(owned); err != nil {
		return err
	}
	if b.emitter != nil {
		b.emit(b.emitter.CreateTable(owned))
	}
	return nil
}

// RenameTable renames an existing table, cascading the new name into
// foreign keys that referenced it.
func (b *Builder) RenameTable(oldName, newName string) error {
	if err := b.schema.RenameTable(oldName, newName); err != nil {
		return err
	}
	if b.emitter != nil {
		b.emit(b.emitter.RenameTable(oldName, newName))
	}
	return nil
}

// DeleteTable removes an existing table.
func (b *Builder) DeleteTable(name string) error {
	if err := b.schema.RemoveTable(name); err != nil {
		return err
	}
	if b.emitter != nil {
		b.emit(b.emitter.DeleteTable(name))
	}
	return nil
}

// AddColumn adds a copy of c to an existing table. initialValue is a
// raw SQL literal used to backfill existing rows when c is
// non-nullable without a default; pass "" when not needed.
func (b *Builder) AddColumn(tableName string, c *schema.Column, initialValue string) error {
	t := b.schema.TableForName(tableName)
	if t == nil {
		return fmt.Errorf("table %s: %w", tableName, schema.ErrNotFound)
	}
	owned := c.Clone()
	if err := t.AddColumn(owned); err != nil {
		return err
	}
	if b.emitter != nil {
		b.emit(b.emitter.AddColumn(tableName, owned, initialValue))
	}
	return nil
}

// DeleteColumn removes an existing column.
func (b *Builder) DeleteColumn(tableName, columnName string) error {
	t := b.schema.TableForName(tableName)
	if t == nil {
		return fmt.Errorf("table %s: %w", tableName, schema.ErrNotFound)
	}
	c := t.ColumnForName(columnName)
	if c == nil {
		return fmt.Errorf("column %s.%s: %w", tableName, columnName, schema.ErrNotFound)
	}
	if err := t.RemoveColumn(columnName); err != nil {
		return err
	}
	if b.emitter != nil {
		b.emit(b.emitter.DeleteColumn(tableName, c))
	}
	return nil
}

// RenameColumn renames an existing column.
func (b *Builder) RenameColumn(tableName, columnName, newName string) error {
	t := b.schema.TableForName(tableName)
	if t == nil {
		return fmt.Errorf("table %s: %w", tableName, schema.ErrNotFound)
	}
	c := t.ColumnForName(columnName)
	if c == nil {
		return fmt.Errorf("column %s.%s: %w", tableName, columnName, schema.ErrNotFound)
	}
	if columnName == newName {
		return nil
	}
	if t.ColumnForName(newName) != nil {
		return fmt.Errorf("column %s.%s: %w", tableName, newName, schema.ErrDuplicateName)
	}
	renamed := c.Clone()
	renamed.Name = newName
	if err := t.ReplaceColumn(columnName, renamed); err != nil {
		return err
	}
	if b.emitter != nil {
		b.emit(b.emitter.RenameColumn(tableName, c, newName))
	}
	return nil
}

// AlterColumn applies a patch to an existing column. The patch can only
// touch the mutable attributes; a rename inside the patch goes through
// the rename path first and emits its own commands. Every other changed
// attribute category emits independently, so one call may produce zero,
// one or several command sets.
//
// Tightening a nullable column to non-nullable requires either a
// default on the patched column or a non-empty initialValue to populate
// existing null rows, otherwise the call fails with
// schema.ErrInvalidTransition before anything changes.
func (b *Builder) AlterColumn(tableName, columnName string, patch ColumnPatch, initialValue string) error {
	t := b.schema.TableForName(tableName)
	if t == nil {
		return fmt.Errorf("table %s: %w", tableName, schema.ErrNotFound)
	}
	old := t.ColumnForName(columnName)
	if old == nil {
		return fmt.Errorf("column %s.%s: %w", tableName, columnName, schema.ErrNotFound)
	}

	updated := old.Clone()
	patch.apply(updated)

	// Validate everything before the first mutation.
	if updated.Name != old.Name && t.ColumnForName(updated.Name) != nil {
		return fmt.Errorf("column %s.%s: %w", tableName, updated.Name, schema.ErrDuplicateName)
	}
	if old.Nullable && !updated.Nullable && updated.Default == "" && initialValue == "" {
		return fmt.Errorf("column %s.%s has no default and no backfill value: %w",
			tableName, columnName, schema.ErrInvalidTransition)
	}

	if updated.Name != old.Name {
		if err := b.RenameColumn(tableName, old.Name, updated.Name); err != nil {
			return err
		}
	}
	changes := changedAttributes(old, updated)
	if err := t.ReplaceColumn(updated.Name, updated); err != nil {
		return err
	}
	if b.emitter != nil {
		for _, change := range changes {
			b.emit(b.emitter.AlterColumn(tableName, updated, change, initialValue))
		}
	}
	return nil
}
