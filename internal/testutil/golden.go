package testutil

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

// updateEnv rewrites golden files instead of comparing against them when set.
const updateEnv = "TASKY_UPDATE_GOLDEN"

// Golden compares got against testdata/<name>.golden in the package under test.
func Golden(t *testing.T, name string, got []byte) {
	t.Helper()

	path := filepath.Join("testdata", name+".golden")
	if os.Getenv(updateEnv) != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("create testdata: %v", err)
		}
		if err := os.WriteFile(path, got, 0644); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
		return
	}

	want, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v (set %s=1 to create it)\ngot:\n%s", path, err, updateEnv, got)
	}
	if !bytes.Equal(got, want) {
		t.Errorf("%s mismatch\nwant:\n%s\ngot:\n%s", path, want, got)
	}
}
