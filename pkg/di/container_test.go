package di

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/siga-vet/go-clinic-repository/config"
	"github.com/siga-vet/go-clinic-repository/database"
	"github.com/siga-vet/go-clinic-repository/model"
	"github.com/siga-vet/go-clinic-repository/pkg/testsupport"
)

var dbSeq atomic.Int64

func testConfig(t *testing.T) config.Config {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("config.Load() failed: %v", err)
	}
	cfg.DB.Driver = database.DriverSQLite
	cfg.DB.URL = fmt.Sprintf("file:di_%d?mode=memory&cache=shared", dbSeq.Add(1))
	return cfg
}

func newTestContainer(t *testing.T, opts ...Option) *Container {
	t.Helper()
	c, err := NewContainer(context.Background(), testConfig(t), opts...)
	if err != nil {
		t.Fatalf("NewContainer() failed: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	if err := c.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate() failed: %v", err)
	}
	return c
}

func TestNewContainer(t *testing.T) {
	c := newTestContainer(t)

	if c.DB() == nil {
		t.Fatal("Container should hold a database handle")
	}
	if c.CacheService() == nil {
		t.Error("Container should have a non-nil cache service")
	}
	if c.KeySerializer() == nil {
		t.Error("Container should have a non-nil key serializer")
	}
	if c.Metrics() == nil || c.Registry() == nil {
		t.Error("Container should expose metrics and their registry")
	}
	if c.Logger() == nil {
		t.Error("Container should have a logger")
	}
	if c.Config().DB.Driver != database.DriverSQLite {
		t.Errorf("Config() driver = %q", c.Config().DB.Driver)
	}

	repos := c.Repositories()
	if repos.Referrals == nil || repos.Returns == nil || repos.Hemograms == nil ||
		repos.Chemistry == nil || repos.Urinalyses == nil || repos.Animals == nil ||
		repos.Doctors == nil || repos.Owners == nil || repos.Students == nil ||
		repos.Consultations == nil || repos.Species == nil || repos.Breeds == nil {
		t.Errorf("every repository should be wired: %+v", repos)
	}
}

func TestNewContainer_InvalidConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.Catalog.Capacity = 0

	c, err := NewContainer(context.Background(), cfg)
	if err == nil {
		_ = c.Close()
		t.Fatal("NewContainer() should reject a zero catalog capacity")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryBadInput) {
		t.Errorf("expected bad_input, got %v", err)
	}

	cfg = testConfig(t)
	cfg.DB.URL = ""
	if _, err := NewContainer(context.Background(), cfg); !goerrors.IsValidation(err) {
		t.Errorf("missing url should be a validation error, got %v", err)
	}
}

func TestContainer_RepositoriesShareConnectionAndMetrics(t *testing.T) {
	at := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	c := newTestContainer(t, WithClock(testsupport.FixedClock(at)))
	ctx := context.Background()
	repos := c.Repositories()

	saved, err := repos.Hemograms.Save(ctx, model.Hemogram{ConsultationID: 1, Hematocrit: 45, Hemoglobin: 15})
	if err != nil {
		t.Fatalf("Save() failed: %v", err)
	}
	if !saved.CreatedAt.Equal(at) {
		t.Errorf("clock option not applied: created_at %s", saved.CreatedAt)
	}

	if _, found, err := repos.Hemograms.FindByID(ctx, saved.ID); err != nil || !found {
		t.Fatalf("FindByID() = %v, %v", found, err)
	}
	if got := testutil.ToFloat64(c.Metrics().Hits.WithLabelValues("hemogram")); got != 1 {
		t.Errorf("expected one cache hit, got %v", got)
	}

	families, err := c.Registry().Gather()
	if err != nil {
		t.Fatalf("Gather() failed: %v", err)
	}
	var names []string
	for _, f := range families {
		names = append(names, f.GetName())
	}
	if !contains(names, "siga_cache_hits_total") {
		t.Errorf("hit counter not registered, got %v", names)
	}

	if n := testsupport.CountRows(t, c.DB(), "hemograma"); n != 1 {
		t.Errorf("expected one stored hemogram, got %d", n)
	}
}

func TestContainer_CatalogUsesSharedCache(t *testing.T) {
	c := newTestContainer(t)
	ctx := context.Background()

	species, err := c.Repositories().Species.Save(ctx, model.Species{Name: "Canine"})
	if err != nil {
		t.Fatalf("Save() failed: %v", err)
	}
	if _, _, err := c.Repositories().Species.FindByID(ctx, species.ID); err != nil {
		t.Fatalf("FindByID() failed: %v", err)
	}
	if c.CacheService().Len() == 0 {
		t.Error("catalog lookups should populate the shared cache")
	}
}

func TestContainer_WithLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	c := newTestContainer(t, WithLogger(logger))
	if c.Logger() != logger {
		t.Error("WithLogger should replace the configured logger")
	}
	if !bytes.Contains(buf.Bytes(), []byte("container ready")) {
		t.Errorf("expected startup log line, got %q", buf.String())
	}
}

func TestContainer_CloseIsIdempotent(t *testing.T) {
	c, err := NewContainer(context.Background(), testConfig(t))
	if err != nil {
		t.Fatalf("NewContainer() failed: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("first Close() failed: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Errorf("second Close() failed: %v", err)
	}
}

func contains(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}
