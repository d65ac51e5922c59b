package dialect

import (
	"db-evolve/internal/builder"
	"db-evolve/internal/schema"
)

// Emitter adapts a Dialect to the builder's command-emitting
// collaborator: each validated edit becomes the DDL statements that
// realize it on that engine.
type Emitter struct {
	D Dialect
}

func NewEmitter(d Dialect) *Emitter {
	return &Emitter{D: d}
}

func (e *Emitter) CreateTable(t *schema.Table) []string {
	return e.D.CreateTable(t)
}

func (e *Emitter) RenameTable(oldName, newName string) []string {
	return []string{e.D.RenameTable(oldName, newName)}
}

func (e *Emitter) DeleteTable(name string) []string {
	return []string{e.D.DropTable(name)}
}

func (e *Emitter) AddColumn(table string, c *schema.Column, initialValue string) []string {
	return e.D.AddColumn(table, c, initialValue)
}

func (e *Emitter) DeleteColumn(table string, c *schema.Column) []string {
	return []string{e.D.DropColumn(table, c.Name)}
}

func (e *Emitter) RenameColumn(table string, c *schema.Column, newName string) []string {
	return []string{e.D.RenameColumn(table, c, newName)}
}

func (e *Emitter) AlterColumn(table string, c *schema.Column, change builder.AttributeChange, initialValue string) []string {
	switch change {
	case builder.ChangeIndexed:
		if c.Indexed {
			return []string{e.D.CreateIndex(table, c)}
		}
		return []string{e.D.DropIndex(table, c)}
	case builder.ChangeUnique:
		if c.Unique {
			return []string{e.D.AddUnique(table, c)}
		}
		return []string{e.D.DropUnique(table, c)}
	case builder.ChangeDefault:
		return []string{e.D.AlterDefault(table, c)}
	case builder.ChangeNullable:
		return e.D.AlterNullable(table, c, initialValue)
	case builder.ChangeDeleteRule:
		return e.D.AlterDeleteRule(table, c)
	}
	return nil
}

var _ builder.Emitter = (*Emitter)(nil)
