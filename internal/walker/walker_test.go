package walker

import (
	"os"
	"path/filepath"
	"sort"
	"testing"
)

// writeTree creates files (relative path -> content) under a temp dir.
func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func relPaths(files []FileInfo) []string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = f.RelPath
	}
	sort.Strings(out)
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestWalk_FindsOnlyPDFs(t *testing.T) {
	root := writeTree(t, map[string]string{
		"handbook.pdf":        "%PDF-1 handbook",
		"notes.txt":           "not a pdf",
		"reports/q1.PDF":      "%PDF-1 q1",
		"reports/2024/q2.pdf": "%PDF-1 q2",
	})

	files, err := Walk(WalkerConfig{RootDir: root})
	if err != nil {
		t.Fatalf("Walk() error: %v", err)
	}

	want := []string{"handbook.pdf", "reports/2024/q2.pdf", "reports/q1.PDF"}
	if got := relPaths(files); !equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestWalk_FileInfoFields(t *testing.T) {
	root := writeTree(t, map[string]string{"a.pdf": "%PDF-1 a"})

	files, err := Walk(WalkerConfig{RootDir: root})
	if err != nil {
		t.Fatalf("Walk() error: %v", err)
	}
	if len(files) != 1 {
		t.Fatalf("got %d files, want 1", len(files))
	}
	f := files[0]
	if !filepath.IsAbs(f.Path) {
		t.Errorf("Path %q is not absolute", f.Path)
	}
	if f.Size != int64(len("%PDF-1 a")) {
		t.Errorf("Size = %d", f.Size)
	}
	if len(f.ContentHash) != 64 {
		t.Errorf("ContentHash %q is not a SHA-256 hex digest", f.ContentHash)
	}
}

func TestWalk_ExcludeFilter(t *testing.T) {
	root := writeTree(t, map[string]string{
		"keep.pdf":         "%PDF-1 keep",
		"drafts/draft.pdf": "%PDF-1 draft",
	})

	files, err := Walk(WalkerConfig{RootDir: root, Exclude: []string{"drafts/**"}})
	if err != nil {
		t.Fatalf("Walk() error: %v", err)
	}
	if got := relPaths(files); !equal(got, []string{"keep.pdf"}) {
		t.Errorf("got %v", got)
	}
}

func TestWalk_SkipsLargeFiles(t *testing.T) {
	root := writeTree(t, map[string]string{
		"small.pdf": "%PDF-1",
		"big.pdf":   "%PDF-1" + string(make([]byte, 200)),
	})

	files, err := Walk(WalkerConfig{
		RootDir:     root,
		MaxFileSize: 100, // 100 bytes
	})
	if err != nil {
		t.Fatalf("Walk() error: %v", err)
	}

	if got := relPaths(files); !equal(got, []string{"small.pdf"}) {
		t.Errorf("big.pdf should have been skipped, got %v", got)
	}
}

func TestWalk_DefaultExcludeDirs(t *testing.T) {
	tree := map[string]string{"doc.pdf": "%PDF-1 doc"}
	for _, dir := range []string{"node_modules", ".git", "vendor", ".docqa"} {
		tree[dir+"/file.pdf"] = "%PDF-1 " + dir
	}
	root := writeTree(t, tree)

	files, err := Walk(WalkerConfig{RootDir: root})
	if err != nil {
		t.Fatalf("Walk() error: %v", err)
	}
	if got := relPaths(files); !equal(got, []string{"doc.pdf"}) {
		t.Errorf("expected only doc.pdf, got %v", got)
	}
}

func TestCollect_MixedArguments(t *testing.T) {
	root := writeTree(t, map[string]string{
		"single.pdf":             "%PDF-1 single",
		"dir/one.pdf":            "%PDF-1 one",
		"glob/a/two.pdf":         "%PDF-1 two",
		"glob/b/three.pdf":       "%PDF-1 three",
		"glob/b/ignored.txt":     "text",
		"glob/b/copy-of-one.pdf": "%PDF-1 one",
	})

	files, err := Collect([]string{
		filepath.Join(root, "single.pdf"),
		filepath.Join(root, "dir"),
		filepath.Join(root, "glob", "**", "*.pdf"),
		filepath.Join(root, "single.pdf"),
	}, WalkerConfig{})
	if err != nil {
		t.Fatalf("Collect() error: %v", err)
	}

	var names []string
	for _, f := range files {
		names = append(names, filepath.Base(f.Path))
	}
	sort.Strings(names)
	want := []string{"one.pdf", "single.pdf", "three.pdf", "two.pdf"}
	if !equal(names, want) {
		t.Errorf("got %v, want %v (duplicates by path or content must collapse)", names, want)
	}
}

func TestCollect_MissingPath(t *testing.T) {
	if _, err := Collect([]string{filepath.Join(t.TempDir(), "missing.pdf")}, WalkerConfig{}); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestCollect_GlobWithoutMatches(t *testing.T) {
	files, err := Collect([]string{filepath.Join(t.TempDir(), "*.pdf")}, WalkerConfig{})
	if err != nil {
		t.Fatalf("Collect() error: %v", err)
	}
	if len(files) != 0 {
		t.Errorf("expected no files, got %d", len(files))
	}
}

func TestMatchesExclude_Empty(t *testing.T) {
	if MatchesExclude("anything.pdf", nil) {
		t.Error("empty exclude patterns should exclude nothing")
	}
}

func TestMatchesExclude_Pattern(t *testing.T) {
	if !MatchesExclude("archive/old.pdf", []string{"archive/**"}) {
		t.Error("archive/** should match archive/old.pdf")
	}
	if !MatchesExclude("reports/draft-1.pdf", []string{"draft-*.pdf"}) {
		t.Error("draft-*.pdf should match the file name")
	}
	if MatchesExclude("reports/final.pdf", []string{"draft-*.pdf"}) {
		t.Error("draft-*.pdf should not match final.pdf")
	}
}

func TestIsGlob(t *testing.T) {
	for arg, want := range map[string]bool{
		"docs/*.pdf":     true,
		"docs/**":        true,
		"file?.pdf":      true,
		"{a,b}.pdf":      true,
		"docs/plain.pdf": false,
	} {
		if got := isGlob(arg); got != want {
			t.Errorf("isGlob(%q) = %v, want %v", arg, got, want)
		}
	}
}
