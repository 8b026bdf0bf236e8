package main

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/siga-vet/go-clinic-repository/config"
	"github.com/siga-vet/go-clinic-repository/model"
	"github.com/siga-vet/go-clinic-repository/pkg/di"
	"github.com/siga-vet/go-clinic-repository/pkg/testsupport"
)

// fileDatabase writes a properties file pointing at a sqlite file that
// outlives a single command.
func fileDatabase(t *testing.T) string {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "siga.db")
	props := fmt.Sprintf("db.driver=sqlite3\ndb.url=jdbc:sqlite:%s\nlog.level=error\n", dbPath)
	return testsupport.WriteFile(t, "database.properties", []byte(props))
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := rootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestPing(t *testing.T) {
	path := fileDatabase(t)

	out, err := run(t, "ping", "--config", path)
	if err != nil {
		t.Fatalf("ping failed: %v", err)
	}
	if !strings.HasPrefix(out, "ok sqlite3") {
		t.Errorf("unexpected output %q", out)
	}
}

func TestPing_MissingConfigFile(t *testing.T) {
	if _, err := run(t, "ping", "--config", filepath.Join(t.TempDir(), "absent.properties")); err == nil {
		t.Fatal("expected an error for an unreadable config file")
	}
}

func TestPing_InvalidConfig(t *testing.T) {
	path := testsupport.WriteFile(t, "database.properties", []byte("db.driver=oracle\ndb.url=x\n"))
	if _, err := run(t, "ping", "-c", path); err == nil {
		t.Fatal("expected unsupported driver to fail")
	}
}

func TestSchemaThenStats(t *testing.T) {
	path := fileDatabase(t)

	out, err := run(t, "schema", "--config", path)
	if err != nil {
		t.Fatalf("schema failed: %v", err)
	}
	if !strings.Contains(out, "schema ready: 14 tables") {
		t.Errorf("unexpected schema output %q", out)
	}

	// Running it twice leaves existing tables alone.
	if _, err := run(t, "schema", "--config", path); err != nil {
		t.Fatalf("second schema run failed: %v", err)
	}

	seed(t, path)

	out, err = run(t, "stats", "--config", path, "--log-level", "error")
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}

	want := map[string]string{
		"species":        "1",
		"hemograms":      "2",
		"referrals":      "0",
		"avg_hematocrit": "40.00",
		"avg_glucose":    "0.00",
	}
	got := parseStats(out)
	for name, value := range want {
		if got[name] != value {
			t.Errorf("%s: want %s, got %q\n%s", name, value, got[name], out)
		}
	}
}

func TestStats_WithoutSchemaFails(t *testing.T) {
	if _, err := run(t, "stats", "--config", fileDatabase(t)); err == nil {
		t.Fatal("stats on an empty database should fail")
	}
}

func seed(t *testing.T, path string) {
	t.Helper()
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("config.Load() failed: %v", err)
	}
	c, err := di.NewContainer(context.Background(), cfg)
	if err != nil {
		t.Fatalf("NewContainer() failed: %v", err)
	}
	defer c.Close()

	ctx := context.Background()
	repos := c.Repositories()
	if _, err := repos.Species.Save(ctx, model.Species{Name: "Feline"}); err != nil {
		t.Fatalf("seed species: %v", err)
	}
	for _, hct := range []float64{35, 45} {
		if _, err := repos.Hemograms.Save(ctx, model.Hemogram{ConsultationID: 1, Hematocrit: hct, Hemoglobin: 12}); err != nil {
			t.Fatalf("seed hemogram: %v", err)
		}
	}
}

func parseStats(out string) map[string]string {
	stats := map[string]string{}
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		fields := strings.Fields(line)
		if len(fields) == 2 {
			stats[fields[0]] = fields[1]
		}
	}
	return stats
}
