package testsupport

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

// FixtureDir is the directory, relative to the package under test, that
// holds fixture files.
const FixtureDir = "testdata"

// Fixture returns the content of testdata/name.
func Fixture(t testing.TB, name string) []byte {
	t.Helper()

	path := filepath.Join(FixtureDir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("fixture %s: %v", path, err)
	}
	return data
}

// FixtureJSON decodes testdata/name into dest. Unknown fields fail the test
// so a misspelled key cannot silently leave a value at its zero.
func FixtureJSON(t testing.TB, name string, dest any) {
	t.Helper()

	dec := json.NewDecoder(bytes.NewReader(Fixture(t, name)))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dest); err != nil {
		t.Fatalf("fixture %s: %v", name, err)
	}
}

// WriteFile writes content to name inside a fresh temporary directory and
// returns the full path. The directory is removed when the test ends.
func WriteFile(t testing.TB, name string, content []byte) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}
