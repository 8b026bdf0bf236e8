package testsupport

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/uptrace/bun"

	"github.com/siga-vet/go-clinic-repository/database"
)

var dbSeq atomic.Int64

// NewTestDB opens a private in-memory SQLite database with a table for each
// model. The database is closed when the test ends.
func NewTestDB(t testing.TB, models ...any) *bun.DB {
	t.Helper()

	cfg := database.DefaultConfig()
	cfg.Driver = database.DriverSQLite
	cfg.URL = fmt.Sprintf("file:siga_test_%d?mode=memory&cache=shared", dbSeq.Add(1))

	db, err := database.Open(cfg)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := database.CreateTables(context.Background(), db, models...); err != nil {
		t.Fatalf("failed to create test tables: %v", err)
	}

	return db
}

// FixedClock returns a clock that always reads at.
func FixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

// CountRows returns the number of rows in table.
func CountRows(t testing.TB, db bun.IDB, table string) int {
	t.Helper()

	n, err := db.NewSelect().TableExpr(table).Count(context.Background())
	if err != nil {
		t.Fatalf("failed to count rows of %s: %v", table, err)
	}

	return n
}
