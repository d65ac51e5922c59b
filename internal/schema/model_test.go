package schema_test

import (
	"errors"
	"testing"

	"db-evolve/internal/schema"
)

func usersTable() *schema.Table {
	return &schema.Table{
		Name: "Users",
		Columns: []*schema.Column{
			{Name: "id", Type: "integer", PrimaryKey: true, AutoInc: true},
			{Name: "name", Type: "text"},
		},
	}
}

func ordersTable() *schema.Table {
	return &schema.Table{
		Name: "Orders",
		Columns: []*schema.Column{
			{Name: "id", Type: "integer", PrimaryKey: true, AutoInc: true},
			{Name: "user_id", Type: "integer", RefTable: "Users", RefColumn: "id", DeleteRule: "CASCADE"},
		},
	}
}

func TestAddTableRejectsDuplicate(t *testing.T) {
	s := schema.New()
	if err := s.AddTable(usersTable()); err != nil {
		t.Fatalf("first add failed: %v", err)
	}
	err := s.AddTable(usersTable())
	if !errors.Is(err, schema.ErrDuplicateName) {
		t.Errorf("expected ErrDuplicateName, got %v", err)
	}
	if s.Len() != 1 {
		t.Errorf("expected 1 table after failed add, got %d", s.Len())
	}
}

func TestTableForName(t *testing.T) {
	s := schema.New()
	s.AddTable(usersTable())

	if s.TableForName("Users") == nil {
		t.Error("expected Users to be found")
	}
	if s.TableForName("users") != nil {
		t.Error("lookup must be case-sensitive")
	}
	if s.TableForName("Missing") != nil {
		t.Error("expected nil for missing table")
	}
}

func TestRenameTableCascadesForeignKeys(t *testing.T) {
	s := schema.New()
	s.AddTable(usersTable())
	s.AddTable(ordersTable())

	if err := s.RenameTable("Users", "Accounts"); err != nil {
		t.Fatalf("rename failed: %v", err)
	}
	if s.TableForName("Users") != nil {
		t.Error("old name still resolves")
	}
	if s.TableForName("Accounts") == nil {
		t.Fatal("new name does not resolve")
	}
	fk := s.TableForName("Orders").ColumnForName("user_id")
	if fk.RefTable != "Accounts" {
		t.Errorf("foreign key not cascaded: RefTable = %q", fk.RefTable)
	}

	// A rename must keep the dependency ordering valid.
	ordered, err := s.DependencyOrderedTables()
	if err != nil {
		t.Fatalf("ordering failed after rename: %v", err)
	}
	if ordered[0].Name != "Accounts" || ordered[1].Name != "Orders" {
		t.Errorf("unexpected order after rename: %s, %s", ordered[0].Name, ordered[1].Name)
	}
}

func TestRenameTableRejectsCollision(t *testing.T) {
	s := schema.New()
	s.AddTable(usersTable())
	s.AddTable(ordersTable())

	err := s.RenameTable("Users", "Orders")
	if !errors.Is(err, schema.ErrDuplicateName) {
		t.Errorf("expected ErrDuplicateName, got %v", err)
	}
	if s.TableForName("Users") == nil {
		t.Error("failed rename must leave the schema unchanged")
	}
}

func TestRemoveTable(t *testing.T) {
	s := schema.New()
	s.AddTable(usersTable())

	if err := s.RemoveTable("Users"); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if s.Len() != 0 {
		t.Errorf("expected empty schema, got %d tables", s.Len())
	}
	if err := s.RemoveTable("Users"); !errors.Is(err, schema.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestCloneIsDeep(t *testing.T) {
	s := schema.New()
	s.AddTable(usersTable())
	s.AddTable(ordersTable())

	dup := s.Clone()
	dup.TableForName("Users").ColumnForName("name").Nullable = true
	dup.RenameTable("Orders", "Purchases")

	if s.TableForName("Users").ColumnForName("name").Nullable {
		t.Error("mutating the clone's column leaked into the original")
	}
	if s.TableForName("Orders") == nil {
		t.Error("renaming a clone's table leaked into the original")
	}
}

func TestTableColumnOperations(t *testing.T) {
	tab := usersTable()

	if err := tab.AddColumn(&schema.Column{Name: "name", Type: "text"}); !errors.Is(err, schema.ErrDuplicateName) {
		t.Errorf("expected ErrDuplicateName, got %v", err)
	}
	if err := tab.AddColumn(&schema.Column{Name: "email", Type: "text", Nullable: true}); err != nil {
		t.Fatalf("add column failed: %v", err)
	}
	if err := tab.RemoveColumn("missing"); !errors.Is(err, schema.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if err := tab.RemoveColumn("email"); err != nil {
		t.Fatalf("remove column failed: %v", err)
	}
	if tab.ColumnForName("email") != nil {
		t.Error("removed column still present")
	}
}

func TestPrimaryKeyAndForeignKeyLookup(t *testing.T) {
	tab := ordersTable()
	if pk := tab.PrimaryKey(); pk == nil || pk.Name != "id" {
		t.Errorf("unexpected primary key: %+v", pk)
	}
	fks := tab.ForeignKeyColumns()
	if len(fks) != 1 || fks[0].Name != "user_id" {
		t.Errorf("unexpected foreign keys: %+v", fks)
	}
}
