package builder_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"db-evolve/internal/builder"
	"db-evolve/internal/schema"
)

// recordingEmitter emits one marker command per edit so tests can
// count and order them without depending on any SQL dialect.
type recordingEmitter struct{}

func (recordingEmitter) CreateTable(t *schema.Table) []string {
	return []string{"create-table " + t.Name}
}
func (recordingEmitter) RenameTable(oldName, newName string) []string {
	return []string{fmt.Sprintf("rename-table %s %s", oldName, newName)}
}
func (recordingEmitter) DeleteTable(name string) []string {
	return []string{"delete-table " + name}
}
func (recordingEmitter) AddColumn(table string, c *schema.Column, initialValue string) []string {
	return []string{fmt.Sprintf("add-column %s.%s", table, c.Name)}
}
func (recordingEmitter) DeleteColumn(table string, c *schema.Column) []string {
	return []string{fmt.Sprintf("delete-column %s.%s", table, c.Name)}
}
func (recordingEmitter) RenameColumn(table string, c *schema.Column, newName string) []string {
	return []string{fmt.Sprintf("rename-column %s.%s %s", table, c.Name, newName)}
}
func (recordingEmitter) AlterColumn(table string, c *schema.Column, change builder.AttributeChange, initialValue string) []string {
	return []string{fmt.Sprintf("alter-column %s.%s change=%d", table, c.Name, change)}
}

func usersTable() *schema.Table {
	return &schema.Table{
		Name: "Users",
		Columns: []*schema.Column{
			{Name: "id", Type: "integer", PrimaryKey: true, AutoInc: true},
			{Name: "name", Type: "text"},
			{Name: "email", Type: "text", Nullable: true},
		},
	}
}

func TestCreateTableEmitsCommands(t *testing.T) {
	b := builder.New(schema.New(), recordingEmitter{})
	if err := b.CreateTable(usersTable()); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if b.Schema().TableForName("Users") == nil {
		t.Error("schema does not contain Users")
	}
	commands := b.Commands()
	if len(commands) != 1 || commands[0] != "create-table Users" {
		t.Errorf("unexpected commands: %v", commands)
	}
}

func TestCreateTableDuplicateLeavesStateUntouched(t *testing.T) {
	b := builder.New(schema.New(), recordingEmitter{})
	b.CreateTable(usersTable())

	err := b.CreateTable(usersTable())
	if !errors.Is(err, schema.ErrDuplicateName) {
		t.Errorf("expected ErrDuplicateName, got %v", err)
	}
	if len(b.Commands()) != 1 {
		t.Errorf("failed call must not emit: %v", b.Commands())
	}
}

func TestCreateTableCopiesInput(t *testing.T) {
	b := builder.New(schema.New(), nil)
	input := usersTable()
	b.CreateTable(input)

	input.Columns[1].Name = "mutated"
	if b.Schema().TableForName("Users").ColumnForName("name") == nil {
		t.Error("builder must own an independent copy of the table")
	}
}

func TestNilEmitterStillMutates(t *testing.T) {
	b := builder.New(schema.New(), nil)
	if err := b.CreateTable(usersTable()); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if b.Schema().TableForName("Users") == nil {
		t.Error("schema not mutated")
	}
	if len(b.Commands()) != 0 {
		t.Errorf("nil emitter must not produce commands: %v", b.Commands())
	}
}

func TestNewClonesStartingSchema(t *testing.T) {
	base := schema.New()
	base.AddTable(usersTable())

	b := builder.New(base, nil)
	b.DeleteTable("Users")

	if base.TableForName("Users") == nil {
		t.Error("builder edits leaked into the caller's snapshot")
	}
}

func TestNewFromTargetReplaysInDependencyOrder(t *testing.T) {
	target := schema.New()
	// Inserted child-first on purpose; replay has to fix the order.
	target.AddTable(&schema.Table{
		Name: "Orders",
		Columns: []*schema.Column{
			{Name: "id", Type: "integer", PrimaryKey: true},
			{Name: "user_id", Type: "integer", RefTable: "Users", RefColumn: "id"},
		},
	})
	target.AddTable(usersTable())

	b, err := builder.NewFromTarget(target, recordingEmitter{})
	if err != nil {
		t.Fatalf("replay failed: %v", err)
	}
	commands := b.Commands()
	want := []string{"create-table Users", "create-table Orders"}
	if len(commands) != 2 || commands[0] != want[0] || commands[1] != want[1] {
		t.Errorf("unexpected command order: %v", commands)
	}
}

func TestNewFromTargetRejectsCycle(t *testing.T) {
	target := schema.New()
	target.AddTable(&schema.Table{Name: "A", Columns: []*schema.Column{
		{Name: "id", Type: "integer", PrimaryKey: true},
		{Name: "b_id", Type: "integer", RefTable: "B", RefColumn: "id"},
	}})
	target.AddTable(&schema.Table{Name: "B", Columns: []*schema.Column{
		{Name: "id", Type: "integer", PrimaryKey: true},
		{Name: "a_id", Type: "integer", RefTable: "A", RefColumn: "id"},
	}})

	_, err := builder.NewFromTarget(target, nil)
	if !errors.Is(err, schema.ErrCyclicDependency) {
		t.Errorf("expected ErrCyclicDependency, got %v", err)
	}
}

func TestRenameAndDeleteTable(t *testing.T) {
	b := builder.New(schema.New(), recordingEmitter{})
	b.CreateTable(usersTable())

	if err := b.RenameTable("Users", "Accounts"); err != nil {
		t.Fatalf("rename failed: %v", err)
	}
	if err := b.RenameTable("Missing", "X"); !errors.Is(err, schema.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if err := b.DeleteTable("Accounts"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	commands := b.Commands()
	want := []string{"create-table Users", "rename-table Users Accounts", "delete-table Accounts"}
	for i, c := range want {
		if commands[i] != c {
			t.Errorf("command %d: expected %q, got %q", i, c, commands[i])
		}
	}
}

func TestColumnOperations(t *testing.T) {
	b := builder.New(schema.New(), recordingEmitter{})
	b.CreateTable(usersTable())

	if err := b.AddColumn("Users", &schema.Column{Name: "age", Type: "integer", Nullable: true}, ""); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if err := b.AddColumn("Missing", &schema.Column{Name: "x", Type: "integer"}, ""); !errors.Is(err, schema.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if err := b.RenameColumn("Users", "age", "years"); err != nil {
		t.Fatalf("rename failed: %v", err)
	}
	if err := b.DeleteColumn("Users", "years"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if b.Schema().TableForName("Users").ColumnForName("years") != nil {
		t.Error("deleted column still present")
	}
	if len(b.Commands()) != 4 {
		t.Errorf("expected 4 commands, got %v", b.Commands())
	}
}

func TestAlterColumnSingleAttributeEmitsOneCommand(t *testing.T) {
	b := builder.New(schema.New(), recordingEmitter{})
	b.CreateTable(usersTable())

	before := len(b.Commands())
	err := b.AlterColumn("Users", "name", builder.ColumnPatch{Indexed: builder.Bool(true)}, "")
	if err != nil {
		t.Fatalf("alter failed: %v", err)
	}
	if got := len(b.Commands()) - before; got != 1 {
		t.Errorf("expected exactly 1 alteration command, got %d: %v", got, b.Commands())
	}
	c := b.Schema().TableForName("Users").ColumnForName("name")
	if !c.Indexed {
		t.Error("indexed flag not set")
	}
	if c.Nullable || c.Unique || c.Default != "" {
		t.Error("other attributes must be untouched")
	}
}

func TestAlterColumnNoopEmitsNothing(t *testing.T) {
	b := builder.New(schema.New(), recordingEmitter{})
	b.CreateTable(usersTable())

	before := len(b.Commands())
	// Setting an attribute to its current value is not a change.
	if err := b.AlterColumn("Users", "email", builder.ColumnPatch{Nullable: builder.Bool(true)}, ""); err != nil {
		t.Fatalf("alter failed: %v", err)
	}
	if len(b.Commands()) != before {
		t.Errorf("no-op alter must not emit: %v", b.Commands())
	}
}

func TestAlterColumnMultipleAttributes(t *testing.T) {
	b := builder.New(schema.New(), recordingEmitter{})
	b.CreateTable(usersTable())

	before := len(b.Commands())
	err := b.AlterColumn("Users", "name", builder.ColumnPatch{
		Indexed: builder.Bool(true),
		Unique:  builder.Bool(true),
		Default: builder.String("'unknown'"),
	}, "")
	if err != nil {
		t.Fatalf("alter failed: %v", err)
	}
	if got := len(b.Commands()) - before; got != 3 {
		t.Errorf("expected 3 alteration commands, got %d", got)
	}
}

func TestAlterColumnRenameGoesThroughRenamePath(t *testing.T) {
	b := builder.New(schema.New(), recordingEmitter{})
	b.CreateTable(usersTable())

	err := b.AlterColumn("Users", "name", builder.ColumnPatch{
		Name:    builder.String("full_name"),
		Indexed: builder.Bool(true),
	}, "")
	if err != nil {
		t.Fatalf("alter failed: %v", err)
	}
	commands := b.Commands()
	renameAt, alterAt := -1, -1
	for i, c := range commands {
		if strings.HasPrefix(c, "rename-column Users.name full_name") {
			renameAt = i
		}
		if strings.HasPrefix(c, "alter-column Users.full_name") {
			alterAt = i
		}
	}
	if renameAt == -1 || alterAt == -1 || renameAt > alterAt {
		t.Errorf("rename must precede alteration commands: %v", commands)
	}
	if b.Schema().TableForName("Users").ColumnForName("full_name") == nil {
		t.Error("renamed column missing")
	}
}

func TestAlterColumnInvalidTransition(t *testing.T) {
	b := builder.New(schema.New(), recordingEmitter{})
	b.CreateTable(usersTable())
	before := len(b.Commands())

	// email is nullable with no default; tightening it without a
	// backfill value has nothing to populate existing rows with.
	err := b.AlterColumn("Users", "email", builder.ColumnPatch{Nullable: builder.Bool(false)}, "")
	if !errors.Is(err, schema.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	if len(b.Commands()) != before {
		t.Error("failed alter must not emit commands")
	}
	if !b.Schema().TableForName("Users").ColumnForName("email").Nullable {
		t.Error("failed alter must not mutate the schema")
	}
}

func TestAlterColumnTransitionWithBackfill(t *testing.T) {
	b := builder.New(schema.New(), recordingEmitter{})
	b.CreateTable(usersTable())

	if err := b.AlterColumn("Users", "email", builder.ColumnPatch{Nullable: builder.Bool(false)}, "'unknown@example.com'"); err != nil {
		t.Fatalf("alter with backfill failed: %v", err)
	}
	if b.Schema().TableForName("Users").ColumnForName("email").Nullable {
		t.Error("nullable flag not cleared")
	}
}

func TestAlterColumnTransitionWithDefault(t *testing.T) {
	b := builder.New(schema.New(), recordingEmitter{})
	b.CreateTable(usersTable())

	err := b.AlterColumn("Users", "email", builder.ColumnPatch{
		Nullable: builder.Bool(false),
		Default:  builder.String("'unknown@example.com'"),
	}, "")
	if err != nil {
		t.Fatalf("alter with default failed: %v", err)
	}
}

func TestAlterColumnRenameCollision(t *testing.T) {
	b := builder.New(schema.New(), recordingEmitter{})
	b.CreateTable(usersTable())

	err := b.AlterColumn("Users", "name", builder.ColumnPatch{Name: builder.String("email")}, "")
	if !errors.Is(err, schema.ErrDuplicateName) {
		t.Errorf("expected ErrDuplicateName, got %v", err)
	}
}

func TestAlterColumnNotFound(t *testing.T) {
	b := builder.New(schema.New(), recordingEmitter{})
	b.CreateTable(usersTable())

	err := b.AlterColumn("Users", "missing", builder.ColumnPatch{Indexed: builder.Bool(true)}, "")
	if !errors.Is(err, schema.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
