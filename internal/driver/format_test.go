package driver

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"weft/internal/format"
)

func writeTemplate(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestFormatPathsRewritesFile(t *testing.T) {
	dir := t.TempDir()
	path := writeTemplate(t, dir, "page.weft", "<div   class=\"box\"  >  hello world  </div>")

	results, err := FormatPaths(context.Background(), []string{dir}, FormatOptions{})
	if err != nil {
		t.Fatalf("FormatPaths: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	r := results[0]
	if r.Err != nil {
		t.Fatalf("result error: %v", r.Err)
	}
	if !r.Changed {
		t.Fatal("expected file to be reported as changed")
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := "<div class=\"box\">\n  hello world\n</div>\n"
	if string(got) != want {
		t.Fatalf("rewritten content = %q, want %q", got, want)
	}
}

func TestFormatPathsCheckDoesNotWrite(t *testing.T) {
	dir := t.TempDir()
	original := "<div   >x</div>"
	path := writeTemplate(t, dir, "page.weft", original)

	results, err := FormatPaths(context.Background(), []string{path}, FormatOptions{Check: true})
	if err != nil {
		t.Fatalf("FormatPaths: %v", err)
	}
	if !results[0].Changed {
		t.Fatal("expected check mode to flag the file")
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != original {
		t.Fatalf("check mode modified the file: %q", got)
	}
}

func TestFormatPathsStdout(t *testing.T) {
	dir := t.TempDir()
	original := "<p>ok</p>\n"
	path := writeTemplate(t, dir, "page.weft", original)

	results, err := FormatPaths(context.Background(), []string{path}, FormatOptions{Stdout: true})
	if err != nil {
		t.Fatalf("FormatPaths: %v", err)
	}
	r := results[0]
	if string(r.Formatted) != "<p>\n  ok\n</p>\n" {
		t.Fatalf("formatted = %q", r.Formatted)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != original {
		t.Fatalf("stdout mode modified the file: %q", got)
	}
}

func TestFormatPathsAlreadyCanonical(t *testing.T) {
	dir := t.TempDir()
	writeTemplate(t, dir, "page.weft", "<p>\n  ok\n</p>\n")

	results, err := FormatPaths(context.Background(), []string{dir}, FormatOptions{Check: true})
	if err != nil {
		t.Fatalf("FormatPaths: %v", err)
	}
	if results[0].Changed {
		t.Fatal("canonical file reported as changed")
	}
}

func TestFormatPathsParseErrorSurfaces(t *testing.T) {
	dir := t.TempDir()
	writeTemplate(t, dir, "bad.weft", "<div>oops</span>")

	results, err := FormatPaths(context.Background(), []string{dir}, FormatOptions{})
	if err != nil {
		t.Fatalf("FormatPaths: %v", err)
	}
	r := results[0]
	if r.Err == nil {
		t.Fatal("expected an error for the malformed file")
	}
	if r.Bag == nil || !r.Bag.HasErrors() {
		t.Fatal("expected diagnostics in the result bag")
	}
}

func TestFormatPathsNoFiles(t *testing.T) {
	if _, err := FormatPaths(context.Background(), []string{t.TempDir()}, FormatOptions{}); err == nil {
		t.Fatal("expected an error when no template files exist")
	}
}

func TestFormatPathsOrderedAndDeduped(t *testing.T) {
	dir := t.TempDir()
	a := writeTemplate(t, dir, "a.weft", "<p>a</p>\n")
	b := writeTemplate(t, dir, "b.weft", "<p>b</p>\n")

	results, err := FormatPaths(context.Background(), []string{b, a, dir}, FormatOptions{Check: true})
	if err != nil {
		t.Fatalf("FormatPaths: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if results[0].Path != a || results[1].Path != b {
		t.Fatalf("unexpected order: %q, %q", results[0].Path, results[1].Path)
	}
}

func TestFormatPathsEmitsEvents(t *testing.T) {
	dir := t.TempDir()
	writeTemplate(t, dir, "page.weft", "<p>ok</p>\n")

	events := make(chan Event, 64)
	_, err := FormatPaths(context.Background(), []string{dir}, FormatOptions{
		Check:    true,
		Progress: ChannelSink{Ch: events},
	})
	if err != nil {
		t.Fatalf("FormatPaths: %v", err)
	}
	close(events)

	var sawQueued, sawDone bool
	for ev := range events {
		if ev.Status == StatusQueued {
			sawQueued = true
		}
		if ev.Status == StatusDone {
			sawDone = true
		}
	}
	if !sawQueued || !sawDone {
		t.Fatalf("missing progress events: queued=%v done=%v", sawQueued, sawDone)
	}
}

func TestFormatPathsCustomOptions(t *testing.T) {
	dir := t.TempDir()
	path := writeTemplate(t, dir, "page.weft", "<p>ok</p>\n")

	results, err := FormatPaths(context.Background(), []string{path}, FormatOptions{
		Stdout:  true,
		Options: format.Options{IndentWidth: 4},
	})
	if err != nil {
		t.Fatalf("FormatPaths: %v", err)
	}
	if string(results[0].Formatted) != "<p>\n    ok\n</p>\n" {
		t.Fatalf("formatted = %q", results[0].Formatted)
	}
}
