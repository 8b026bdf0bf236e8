package testsupport

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/uptrace/bun"
)

type animalFixture struct {
	Name   string  `json:"name"`
	Weight float64 `json:"weight"`
}

func TestFixture(t *testing.T) {
	data := Fixture(t, "rex.json")
	if !strings.Contains(string(data), `"Rex"`) {
		t.Errorf("unexpected fixture content %q", data)
	}
}

func TestFixtureJSON(t *testing.T) {
	var rex animalFixture
	FixtureJSON(t, "rex.json", &rex)

	if rex.Name != "Rex" || rex.Weight != 12.5 {
		t.Errorf("unexpected fixture content: %+v", rex)
	}
}

func TestWriteFile(t *testing.T) {
	path := WriteFile(t, "database.properties", []byte("db.url=x\n"))

	if filepath.Base(path) != "database.properties" {
		t.Errorf("unexpected file name %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != "db.url=x\n" {
		t.Errorf("unexpected content %q", data)
	}
}

type widget struct {
	bun.BaseModel `bun:"table:widget"`
	ID            int64  `bun:"id,pk,autoincrement"`
	Name          string `bun:"name"`
}

func TestNewTestDB_IsolatedDatabases(t *testing.T) {
	ctx := context.Background()
	a := NewTestDB(t, (*widget)(nil))
	b := NewTestDB(t, (*widget)(nil))

	if _, err := a.NewInsert().Model(&widget{Name: "only in a"}).Exec(ctx); err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	if n := CountRows(t, a, "widget"); n != 1 {
		t.Errorf("expected 1 row in a, got %d", n)
	}
	if n := CountRows(t, b, "widget"); n != 0 {
		t.Errorf("expected databases to be isolated, got %d rows in b", n)
	}
}

func TestFixedClock(t *testing.T) {
	at := time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)
	clock := FixedClock(at)
	if !clock().Equal(at) || !clock().Equal(at) {
		t.Error("expected the clock to keep returning the same instant")
	}
}
