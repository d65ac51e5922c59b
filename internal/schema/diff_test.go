package schema_test

import (
	"reflect"
	"testing"

	"db-evolve/internal/schema"
)

func sampleSchema() *schema.Schema {
	s := schema.New()
	s.AddTable(&schema.Table{
		Name: "Users",
		Columns: []*schema.Column{
			{Name: "id", Type: "integer", PrimaryKey: true, AutoInc: true},
			{Name: "name", Type: "text"},
			{Name: "email", Type: "text", Nullable: true},
		},
	})
	s.AddTable(&schema.Table{
		Name: "Orders",
		Columns: []*schema.Column{
			{Name: "id", Type: "integer", PrimaryKey: true, AutoInc: true},
			{Name: "user_id", Type: "integer", RefTable: "Users", RefColumn: "id"},
		},
	})
	return s
}

func TestDifferenceFromSelfIsEmpty(t *testing.T) {
	s := sampleSchema()
	diff := s.DifferenceFrom(s.Clone())
	if !diff.Empty() {
		t.Errorf("expected empty diff, got %+v", diff)
	}
}

func TestDifferenceTableAddAndDelete(t *testing.T) {
	actual := sampleSchema()
	expected := sampleSchema()
	expected.RemoveTable("Orders")
	expected.AddTable(&schema.Table{
		Name:    "Invoices",
		Columns: []*schema.Column{{Name: "id", Type: "integer", PrimaryKey: true}},
	})

	diff := actual.DifferenceFrom(expected)
	if !reflect.DeepEqual(diff.TableNamesToAdd, []string{"Invoices"}) {
		t.Errorf("unexpected adds: %v", diff.TableNamesToAdd)
	}
	if !reflect.DeepEqual(diff.TableNamesToDelete, []string{"Orders"}) {
		t.Errorf("unexpected deletes: %v", diff.TableNamesToDelete)
	}
	if len(diff.DifferingTables) != 0 {
		t.Errorf("unexpected differing tables: %v", diff.DifferingTables)
	}
}

func TestDifferenceColumnChanges(t *testing.T) {
	actual := sampleSchema()
	expected := sampleSchema()

	users := expected.TableForName("Users")
	users.RemoveColumn("email")
	users.AddColumn(&schema.Column{Name: "created_at", Type: "timestamp", Default: "CURRENT_TIMESTAMP"})
	users.ColumnForName("name").Indexed = true

	diff := actual.DifferenceFrom(expected)
	if len(diff.DifferingTables) != 1 {
		t.Fatalf("expected 1 differing table, got %d", len(diff.DifferingTables))
	}
	td := diff.DifferingTables[0]
	if td.Actual.Name != "Users" {
		t.Errorf("unexpected table: %s", td.Actual.Name)
	}
	if !reflect.DeepEqual(td.ColumnNamesToAdd, []string{"created_at"}) {
		t.Errorf("unexpected column adds: %v", td.ColumnNamesToAdd)
	}
	if !reflect.DeepEqual(td.ColumnNamesToDelete, []string{"email"}) {
		t.Errorf("unexpected column deletes: %v", td.ColumnNamesToDelete)
	}
	if len(td.DifferingColumns) != 1 || td.DifferingColumns[0].Actual.Name != "name" {
		t.Fatalf("unexpected differing columns: %+v", td.DifferingColumns)
	}
	if !td.DifferingColumns[0].Expected.Indexed {
		t.Error("expected side should carry the indexed flag")
	}
}

func TestDifferenceIsSymmetric(t *testing.T) {
	a := sampleSchema()
	b := sampleSchema()
	b.RemoveTable("Orders")
	b.TableForName("Users").ColumnForName("email").Nullable = false

	ab := a.DifferenceFrom(b)
	ba := b.DifferenceFrom(a)

	if !reflect.DeepEqual(ab.TableNamesToAdd, ba.TableNamesToDelete) {
		t.Errorf("adds/deletes not swapped: %v vs %v", ab.TableNamesToAdd, ba.TableNamesToDelete)
	}
	if !reflect.DeepEqual(ab.TableNamesToDelete, ba.TableNamesToAdd) {
		t.Errorf("deletes/adds not swapped: %v vs %v", ab.TableNamesToDelete, ba.TableNamesToAdd)
	}
	if len(ab.DifferingTables) != 1 || len(ba.DifferingTables) != 1 {
		t.Fatalf("expected one differing table on both sides")
	}
	abCol := ab.DifferingTables[0].DifferingColumns[0]
	baCol := ba.DifferingTables[0].DifferingColumns[0]
	if !abCol.Expected.Equal(baCol.Actual) || !abCol.Actual.Equal(baCol.Expected) {
		t.Error("column differences must mirror expected/actual")
	}
}

func TestDifferenceIsDeterministic(t *testing.T) {
	actual := sampleSchema()
	expected := schema.New()

	first := actual.DifferenceFrom(expected)
	second := actual.DifferenceFrom(expected)
	if !reflect.DeepEqual(first.TableNamesToDelete, second.TableNamesToDelete) {
		t.Error("identical inputs must produce identical output")
	}
	// Deletion list follows the actual schema's insertion order.
	if !reflect.DeepEqual(first.TableNamesToDelete, []string{"Users", "Orders"}) {
		t.Errorf("unexpected order: %v", first.TableNamesToDelete)
	}
}
