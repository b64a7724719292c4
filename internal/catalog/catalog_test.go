package catalog

import (
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"testing"

	"github.com/treykane/envssh/internal/apperr"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(`{"databases":{}}`), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestScan_RecursiveJSONOnly(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "staging.json"))
	writeFile(t, filepath.Join(root, "production.json"))
	writeFile(t, filepath.Join(root, "notes.txt"))
	writeFile(t, filepath.Join(root, "upper.JSON"))
	writeFile(t, filepath.Join(root, "backup.json.bak"))
	writeFile(t, filepath.Join(root, "eu", "eu-west.json"))
	writeFile(t, filepath.Join(root, "eu", "deep", "eu-central.json"))
	if err := os.MkdirAll(filepath.Join(root, "dir.json"), 0o755); err != nil {
		t.Fatal(err)
	}

	envs, err := Scan(root)
	if err != nil {
		t.Fatal(err)
	}
	got := Names(envs)
	want := []string{"eu-central", "eu-west", "production", "staging"}
	// Directory order is WalkDir order; compare as a set first.
	sorted := append([]string(nil), got...)
	sort.Strings(sorted)
	if !reflect.DeepEqual(sorted, want) {
		t.Fatalf("names mismatch\nwant=%v\n got=%v", want, sorted)
	}
	for _, e := range envs {
		if filepath.Base(e.Path) != e.Name+".json" {
			t.Fatalf("path %q does not match name %q", e.Path, e.Name)
		}
	}
}

func TestScan_LexicalWithinDirectory(t *testing.T) {
	root := t.TempDir()
	for _, n := range []string{"b.json", "c.json", "a.json"} {
		writeFile(t, filepath.Join(root, n))
	}
	writeFile(t, filepath.Join(root, "bb", "z.json"))

	envs, err := Scan(root)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"a", "b", "z", "c"}
	if got := Names(envs); !reflect.DeepEqual(got, want) {
		t.Fatalf("order mismatch\nwant=%v\n got=%v", want, got)
	}

	again, err := Scan(root)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(Names(again), want) {
		t.Fatal("expected stable order across scans")
	}
}

func TestScan_Empty(t *testing.T) {
	envs, err := Scan(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if len(envs) != 0 {
		t.Fatalf("expected no environments, got %+v", envs)
	}
}

func TestScan_RescansEachCall(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "one.json"))
	first, err := Scan(root)
	if err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(root, "two.json"))
	second, err := Scan(root)
	if err != nil {
		t.Fatal(err)
	}
	if len(first) != 1 || len(second) != 2 {
		t.Fatalf("expected rescan to see new file, got %d then %d", len(first), len(second))
	}
}

func TestScan_MissingRoot(t *testing.T) {
	_, err := Scan(filepath.Join(t.TempDir(), "missing"))
	if !apperr.Is(err, apperr.CatalogError) {
		t.Fatalf("expected catalog error, got %v", err)
	}
}

func TestScan_RootIsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file.json")
	writeFile(t, path)
	_, err := Scan(path)
	if !apperr.Is(err, apperr.CatalogError) {
		t.Fatalf("expected catalog error, got %v", err)
	}
}

func TestScan_UnreadableSubdirectory(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced for root")
	}
	root := t.TempDir()
	locked := filepath.Join(root, "locked")
	writeFile(t, filepath.Join(locked, "hidden.json"))
	if err := os.Chmod(locked, 0o000); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })

	_, err := Scan(root)
	if !apperr.Is(err, apperr.CatalogError) {
		t.Fatalf("expected catalog error, got %v", err)
	}
}

func TestScan_FollowsSymlinks(t *testing.T) {
	root := t.TempDir()
	outside := t.TempDir()
	writeFile(t, filepath.Join(outside, "shared.json"))
	writeFile(t, filepath.Join(outside, "single.json"))

	if err := os.Symlink(outside, filepath.Join(root, "linked")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}
	if err := os.Symlink(filepath.Join(outside, "single.json"), filepath.Join(root, "alias.json")); err != nil {
		t.Fatal(err)
	}
	// A loop back to root must not recurse forever.
	if err := os.Symlink(root, filepath.Join(outside, "loop")); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(filepath.Join(root, "gone"), filepath.Join(root, "dangling.json")); err != nil {
		t.Fatal(err)
	}

	envs, err := Scan(root)
	if err != nil {
		t.Fatal(err)
	}
	got := Names(envs)
	sort.Strings(got)
	want := []string{"alias", "shared", "single"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("names mismatch\nwant=%v\n got=%v", want, got)
	}
}
