package engine_test

import (
	"strings"
	"testing"

	"db-evolve/internal/dialect"
	"db-evolve/internal/engine"
	"db-evolve/internal/schema"
)

func TestValueRespectsColumnKind(t *testing.T) {
	engine.SetSeed(1)

	auto := &schema.Column{Name: "id", Type: "integer", AutoInc: true}
	if v := engine.Value(auto, 10); v != nil {
		t.Errorf("autoincrement columns must produce nil, got %v", v)
	}

	fk := &schema.Column{Name: "user_id", Type: "integer", RefTable: "Users", RefColumn: "id"}
	v := engine.Value(fk, 10)
	n, ok := v.(int)
	if !ok || n < 1 || n > 10 {
		t.Errorf("foreign keys must land in the parent's row range, got %v", v)
	}

	email := engine.Value(&schema.Column{Name: "email", Type: "varchar(255)"}, 10)
	if s, ok := email.(string); !ok || !strings.Contains(s, "@") {
		t.Errorf("expected an email address, got %v", email)
	}
}

func TestLiteral(t *testing.T) {
	if got := engine.Literal(nil); got != "NULL" {
		t.Errorf("expected NULL, got %s", got)
	}
	if got := engine.Literal(42); got != "42" {
		t.Errorf("expected 42, got %s", got)
	}
	if got := engine.Literal("O'Brien"); got != "'O''Brien'" {
		t.Errorf("quotes must be escaped, got %s", got)
	}
	if got := engine.Literal(true); got != "1" {
		t.Errorf("expected 1, got %s", got)
	}
}

func TestInsertStatements(t *testing.T) {
	engine.SetSeed(1)
	tab := &schema.Table{
		Name: "Users",
		Columns: []*schema.Column{
			{Name: "id", Type: "integer", PrimaryKey: true, AutoInc: true},
			{Name: "name", Type: "text"},
			{Name: "email", Type: "text"},
		},
	}

	stmts := engine.InsertStatements(&dialect.MysqlDialect{}, tab, 3)
	if len(stmts) != 3 {
		t.Fatalf("expected 3 statements, got %d", len(stmts))
	}
	for _, stmt := range stmts {
		if !strings.HasPrefix(stmt, "INSERT INTO `Users` (`name`, `email`) VALUES (") {
			t.Errorf("unexpected statement: %s", stmt)
		}
		if strings.Contains(stmt, "`id`") {
			t.Errorf("autoincrement column must be skipped: %s", stmt)
		}
	}
}

func TestInsertStatementsAreReproducible(t *testing.T) {
	tab := &schema.Table{
		Name:    "Words",
		Columns: []*schema.Column{{Name: "word", Type: "text"}},
	}

	engine.SetSeed(7)
	first := engine.InsertStatements(&dialect.MysqlDialect{}, tab, 5)
	engine.SetSeed(7)
	second := engine.InsertStatements(&dialect.MysqlDialect{}, tab, 5)

	for i := range first {
		if first[i] != second[i] {
			t.Errorf("row %d differs: %q vs %q", i, first[i], second[i])
		}
	}
}
