package rules

import (
	"os"
	"path/filepath"
	"testing"
)

func TestMaliciousDomainSetContains(t *testing.T) {
	set := NewMaliciousDomainSet([]string{"Bad.Example", "evil.test"})

	if !set.Contains("bad.example") {
		t.Error("lookup should be case-insensitive against the stored list")
	}
	if !set.Contains("EVIL.TEST") {
		t.Error("lookup should be case-insensitive against the query")
	}
	if set.Contains("good.example") {
		t.Error("unexpected membership")
	}
	if set.Len() != 2 {
		t.Errorf("Len() = %d, want 2", set.Len())
	}
}

func TestMaliciousDomainSetLoadExternal(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "domains.txt")
	content := "# comment line\nextern.example\n\n  spaced.example  \n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	set := NewMaliciousDomainSet([]string{"builtin.example"})
	if err := set.LoadExternal(path); err != nil {
		t.Fatalf("LoadExternal: %v", err)
	}

	for _, domain := range []string{"builtin.example", "extern.example", "spaced.example"} {
		if !set.Contains(domain) {
			t.Errorf("expected %s in set after reload", domain)
		}
	}
	if set.Contains("# comment line") {
		t.Error("comment lines must be skipped")
	}
}

func TestMaliciousDomainSetReloadReplaces(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "domains.txt")

	set := NewMaliciousDomainSet([]string{"builtin.example"})

	if err := os.WriteFile(path, []byte("first.example\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := set.LoadExternal(path); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("second.example\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := set.LoadExternal(path); err != nil {
		t.Fatal(err)
	}

	// The external portion is replaced wholesale, the static list remains.
	if set.Contains("first.example") {
		t.Error("stale external entry survived the reload")
	}
	if !set.Contains("second.example") || !set.Contains("builtin.example") {
		t.Error("expected new external entry plus static list")
	}
}

func TestMaliciousDomainSetLoadExternalMissingFile(t *testing.T) {
	set := NewMaliciousDomainSet([]string{"builtin.example"})
	if err := set.LoadExternal("/nonexistent/domains.txt"); err == nil {
		t.Error("expected error for missing file")
	}
	// Failed reload leaves the previous set intact.
	if !set.Contains("builtin.example") {
		t.Error("failed reload must not clear the active set")
	}
}
