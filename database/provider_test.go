package database

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/uptrace/bun"
)

type scratchRow struct {
	bun.BaseModel `bun:"table:scratch"`
	ID            int64  `bun:"id,pk,autoincrement"`
	Label         string `bun:"label"`
}

var memSeq atomic.Int64

func memoryConfig() Config {
	cfg := DefaultConfig()
	cfg.Driver = DriverSQLite
	cfg.URL = fmt.Sprintf("file:provider_%d?mode=memory&cache=shared", memSeq.Add(1))
	return cfg
}

func TestConfig_Validate(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err == nil {
		t.Error("expected missing url to fail")
	}

	cfg.URL = "jdbc:postgresql://localhost/siga"
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected valid config, got %v", err)
	}

	cfg.Driver = "mssql"
	if err := cfg.Validate(); err == nil {
		t.Error("expected unknown driver to fail")
	}
}

func TestProvider_LazyOpenAndReuse(t *testing.T) {
	p, err := NewProvider(memoryConfig(), nil)
	if err != nil {
		t.Fatalf("NewProvider() failed: %v", err)
	}
	defer p.Close()

	if p.db != nil {
		t.Fatal("provider must not connect before first use")
	}

	ctx := context.Background()
	first, err := p.DB(ctx)
	if err != nil {
		t.Fatalf("DB() failed: %v", err)
	}
	second, err := p.DB(ctx)
	if err != nil {
		t.Fatalf("DB() failed: %v", err)
	}
	if first != second {
		t.Error("expected the same handle while the connection is healthy")
	}
}

func TestProvider_ReopensClosedConnection(t *testing.T) {
	p, err := NewProvider(memoryConfig(), nil)
	if err != nil {
		t.Fatalf("NewProvider() failed: %v", err)
	}
	defer p.Close()

	ctx := context.Background()
	first, err := p.DB(ctx)
	if err != nil {
		t.Fatalf("DB() failed: %v", err)
	}
	_ = first.Close()

	second, err := p.DB(ctx)
	if err != nil {
		t.Fatalf("DB() after close failed: %v", err)
	}
	if first == second {
		t.Error("expected a fresh handle after the old one was closed")
	}
	if err := second.PingContext(ctx); err != nil {
		t.Errorf("reopened handle is not usable: %v", err)
	}
}

func TestProvider_CloseIsIdempotent(t *testing.T) {
	p, err := NewProvider(memoryConfig(), nil)
	if err != nil {
		t.Fatalf("NewProvider() failed: %v", err)
	}
	if _, err := p.DB(context.Background()); err != nil {
		t.Fatalf("DB() failed: %v", err)
	}

	if err := p.Close(); err != nil {
		t.Fatalf("first Close() failed: %v", err)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("second Close() failed: %v", err)
	}
	if _, err := p.DB(context.Background()); err == nil {
		t.Error("expected DB() on a closed provider to fail")
	}
}

func TestCreateAndDropTables(t *testing.T) {
	db, err := Open(memoryConfig())
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	if err := CreateTables(ctx, db, (*scratchRow)(nil)); err != nil {
		t.Fatalf("CreateTables() failed: %v", err)
	}
	// Existing tables are left alone.
	if err := CreateTables(ctx, db, (*scratchRow)(nil)); err != nil {
		t.Fatalf("second CreateTables() failed: %v", err)
	}

	row := &scratchRow{Label: "ok"}
	if _, err := db.NewInsert().Model(row).Exec(ctx); err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	if row.ID == 0 {
		t.Error("expected generated id")
	}

	if err := DropTables(ctx, db, (*scratchRow)(nil)); err != nil {
		t.Fatalf("DropTables() failed: %v", err)
	}
	if _, err := db.NewInsert().Model(&scratchRow{Label: "gone"}).Exec(ctx); err == nil {
		t.Error("expected insert into dropped table to fail")
	}
}
