package engine

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v6"

	"db-evolve/internal/dialect"
	"db-evolve/internal/schema"
)

var seededRand = rand.New(rand.NewSource(time.Now().UnixNano()))

// Seed reproducibly when asked: the seed command passes a fixed seed
// so generated INSERT batches can be committed next to a migration.
func SetSeed(seed int64) {
	seededRand = rand.New(rand.NewSource(seed))
	gofakeit.Seed(seed)
}

// Value generates a plausible value for a column based on its name and
// declared type. Autoincrement columns get nil (the engine assigns
// them); nullable columns stay non-null so the rows are useful as
// joinable sample data.
func Value(c *schema.Column, rowCount int) interface{} {
	if c.AutoInc {
		return nil
	}
	if c.IsForeignKey() {
		// Assumes parents are seeded first with the same row count.
		return seededRand.Intn(rowCount) + 1
	}

	name := strings.ToLower(c.Name)
	dataType := strings.ToLower(c.Type)

	switch {
	case strings.Contains(name, "email"):
		return gofakeit.Email()
	case strings.Contains(name, "phone"):
		return gofakeit.Phone()
	case strings.Contains(name, "first_name"):
		return gofakeit.FirstName()
	case strings.Contains(name, "last_name"):
		return gofakeit.LastName()
	case strings.Contains(name, "name"):
		return gofakeit.Name()
	case strings.Contains(name, "city"):
		return gofakeit.City()
	case strings.Contains(name, "country"):
		return gofakeit.Country()
	case strings.Contains(name, "address"):
		return gofakeit.Street()
	case strings.Contains(name, "url"):
		return gofakeit.URL()
	case strings.Contains(name, "uuid") || strings.Contains(name, "guid"):
		return gofakeit.UUID()
	}

	switch {
	case strings.Contains(dataType, "bool") || dataType == "bit":
		return gofakeit.Bool()
	case strings.Contains(dataType, "tinyint"):
		return gofakeit.Number(0, 127)
	case strings.Contains(dataType, "smallint"):
		return gofakeit.Number(1, 30000)
	case strings.Contains(dataType, "int") || strings.Contains(dataType, "number"):
		return gofakeit.Number(1, 100000)
	case strings.Contains(dataType, "decimal"), strings.Contains(dataType, "numeric"),
		strings.Contains(dataType, "float"), strings.Contains(dataType, "double"), strings.Contains(dataType, "real"):
		return gofakeit.Price(0.99, 9999.99)
	case strings.Contains(dataType, "date") || strings.Contains(dataType, "time"):
		return gofakeit.DateRange(time.Now().AddDate(-1, 0, 0), time.Now())
	default:
		return gofakeit.Word()
	}
}

// Literal renders a generated value as a SQL literal.
func Literal(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return "NULL"
	case bool:
		if val {
			return "1"
		}
		return "0"
	case int:
		return fmt.Sprintf("%d", val)
	case float64:
		return fmt.Sprintf("%.2f", val)
	case time.Time:
		return "'" + val.Format("2006-01-02 15:04:05") + "'"
	case string:
		return "'" + strings.ReplaceAll(val, "'", "''") + "'"
	default:
		return fmt.Sprintf("'%v'", val)
	}
}

// InsertStatements produces rowCount INSERT statements for a table,
// skipping autoincrement columns. Intended for filling the seed body
// of a generated migration, so tables should be visited in dependency
// order.
func InsertStatements(d dialect.Dialect, t *schema.Table, rowCount int) []string {
	var cols []*schema.Column
	var names []string
	for _, c := range t.Columns {
		if c.AutoInc {
			continue
		}
		cols = append(cols, c)
		names = append(names, d.Quote(c.Name))
	}
	if len(cols) == 0 {
		return nil
	}

	stmts := make([]string, 0, rowCount)
	for i := 0; i < rowCount; i++ {
		values := make([]string, len(cols))
		for j, c := range cols {
			values[j] = Literal(Value(c, rowCount))
		}
		stmts = append(stmts, fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
			d.Quote(t.Name), strings.Join(names, ", "), strings.Join(values, ", ")))
	}
	return stmts
}
