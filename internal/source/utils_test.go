package source

import (
	"bytes"
	"testing"
)

func TestNormalizeCRLF(t *testing.T) {
	cases := []struct {
		in      string
		want    string
		changed bool
	}{
		{"", "", false},
		{"plain text", "plain text", false},
		{"a\r\nb\r\n", "a\nb\n", true},
		{"lone\rcarriage", "lone\rcarriage", false},
		{"mix\r\nand\rboth\r\n", "mix\nand\rboth\n", true},
	}
	for _, c := range cases {
		got, changed := normalizeCRLF([]byte(c.in))
		if string(got) != c.want || changed != c.changed {
			t.Errorf("normalizeCRLF(%q) = %q, %v; want %q, %v", c.in, got, changed, c.want, c.changed)
		}
	}
}

func TestRemoveBOM(t *testing.T) {
	withBOM := append([]byte{0xEF, 0xBB, 0xBF}, []byte("<div />")...)
	got, had := removeBOM(withBOM)
	if !had || !bytes.Equal(got, []byte("<div />")) {
		t.Fatalf("removeBOM failed: %q, %v", got, had)
	}
	plain := []byte("<div />")
	got, had = removeBOM(plain)
	if had || !bytes.Equal(got, plain) {
		t.Fatalf("removeBOM mangled plain content: %q, %v", got, had)
	}
}

func TestToLineCol(t *testing.T) {
	content := []byte("ab\ncd\n\nef")
	idx := buildLineIndex(content)

	cases := []struct {
		off  uint32
		line uint32
		col  uint32
	}{
		{0, 1, 1},
		{1, 1, 2},
		{2, 1, 3}, // the '\n' itself
		{3, 2, 1},
		{6, 3, 1}, // empty line
		{7, 4, 1},
		{8, 4, 2},
	}
	for _, c := range cases {
		got := toLineCol(idx, c.off)
		if got.Line != c.line || got.Col != c.col {
			t.Errorf("toLineCol(%d) = %d:%d, want %d:%d", c.off, got.Line, got.Col, c.line, c.col)
		}
	}
}

func TestFileSetResolve(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("page.weft", []byte("<div>\n  hi\n</div>\n"))
	start, end := fs.Resolve(Span{File: id, Start: 8, End: 10})
	if start.Line != 2 || start.Col != 3 {
		t.Fatalf("start = %d:%d, want 2:3", start.Line, start.Col)
	}
	if end.Line != 2 || end.Col != 5 {
		t.Fatalf("end = %d:%d, want 2:5", end.Line, end.Col)
	}
}

func TestFileSetGetByPath(t *testing.T) {
	fs := NewFileSet()
	fs.AddVirtual("./pages/index.weft", []byte("<p />"))
	if _, ok := fs.GetByPath("pages/index.weft"); !ok {
		t.Fatal("expected normalized path lookup to succeed")
	}
}
