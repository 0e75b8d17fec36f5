package document

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"file-lister/internal/filetypes"
)

func writeTemp(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func numberedLines(n int) string {
	var b strings.Builder
	for i := 1; i <= n; i++ {
		fmt.Fprintf(&b, "line %d\n", i)
	}
	return b.String()
}

func TestDecodeText(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want string
	}{
		{name: "utf8", data: []byte("héllo"), want: "héllo"},
		{name: "utf8 with bom", data: append([]byte{0xEF, 0xBB, 0xBF}, "héllo"...), want: "héllo"},
		{name: "windows-1252", data: []byte("caf\xe9 \x80"), want: "café €"},
		{name: "empty", data: nil, want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := decodeText(tt.data); got != tt.want {
				t.Errorf("decodeText() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSplitLines(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{in: "", want: nil},
		{in: "a", want: []string{"a"}},
		{in: "a\n", want: []string{"a"}},
		{in: "a\r\nb\r\n", want: []string{"a", "b"}},
		{in: "a\n\nb", want: []string{"a", "", "b"}},
	}
	for _, tt := range tests {
		if got := splitLines(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("splitLines(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLoadText(t *testing.T) {
	short := writeTemp(t, "short.txt", []byte("one\ntwo\n"))
	p, err := Load(short, filetypes.KindText)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if p.Text != "one\ntwo" {
		t.Errorf("Text = %q", p.Text)
	}

	long := writeTemp(t, "long.txt", []byte(numberedLines(150)))
	p, err = Load(long, filetypes.KindText)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !strings.HasSuffix(p.Text, "line 100\n\n... (showing first 100 of 150 lines)") {
		t.Errorf("Text tail = %q", p.Text[len(p.Text)-60:])
	}
	if strings.Contains(p.Text, "line 101") {
		t.Error("Text includes line 101")
	}
}

func TestLoadCodeUsesLargerLimit(t *testing.T) {
	path := writeTemp(t, "main.go", []byte(numberedLines(301)))
	p, err := Load(path, filetypes.KindCode)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !strings.Contains(p.Text, "line 300\n") || strings.Contains(p.Text, "line 301") {
		t.Error("code preview not cut at 300 lines")
	}
	if !strings.HasSuffix(p.Text, "(showing first 300 of 301 lines)") {
		t.Errorf("missing truncation note")
	}
}

func TestLoadTable(t *testing.T) {
	var b strings.Builder
	var header []string
	for c := 0; c < 25; c++ {
		header = append(header, fmt.Sprintf("h%d", c))
	}
	b.WriteString(strings.Join(header, ",") + "\n")
	for r := 0; r < 120; r++ {
		fmt.Fprintf(&b, "r%d,x\n", r)
	}

	p, err := Load(writeTemp(t, "data.csv", []byte(b.String())), filetypes.KindTable)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(p.Headers) != MaxTableCols {
		t.Errorf("len(Headers) = %d, want %d", len(p.Headers), MaxTableCols)
	}
	if len(p.Rows) != MaxTableRows+1 {
		t.Fatalf("len(Rows) = %d, want %d", len(p.Rows), MaxTableRows+1)
	}
	if !reflect.DeepEqual(p.Rows[0], []string{"r0", "x"}) {
		t.Errorf("Rows[0] = %v", p.Rows[0])
	}
	if got := p.Rows[MaxTableRows]; len(got) != 1 || got[0] != "... (showing first 100 of 120 rows)" {
		t.Errorf("truncation row = %v", got)
	}
}

func TestLoadTableEmpty(t *testing.T) {
	p, err := Load(writeTemp(t, "empty.csv", nil), filetypes.KindTable)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if p.Headers != nil || p.Rows != nil {
		t.Errorf("empty table = %+v", p)
	}
}

func buildDocx(t *testing.T, documentXML string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write([]byte(documentXML)); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestLoadDocx(t *testing.T) {
	xmlBody := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:body>
<w:p><w:r><w:t>Hello </w:t></w:r><w:r><w:t xml:space="preserve">world</w:t></w:r></w:p>
<w:p></w:p>
<w:p><w:r><w:tab/><w:t>Second &amp; last</w:t></w:r></w:p>
</w:body>
</w:document>`

	p, err := Load(writeTemp(t, "doc.docx", buildDocx(t, xmlBody)), filetypes.KindDocument)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if p.Text != "Hello world\nSecond & last" {
		t.Errorf("Text = %q", p.Text)
	}
}

func TestLoadDocxErrors(t *testing.T) {
	notZip := writeTemp(t, "bad.docx", []byte("not a zip"))
	if _, err := Load(notZip, filetypes.KindDocument); err == nil || !strings.Contains(err.Error(), "DOCX archive") {
		t.Errorf("Load(not zip) error = %v", err)
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	if _, err := zw.Create("other.xml"); err != nil {
		t.Fatal(err)
	}
	zw.Close()
	noDoc := writeTemp(t, "nodoc.docx", buf.Bytes())
	if _, err := Load(noDoc, filetypes.KindDocument); err == nil || !strings.Contains(err.Error(), "document content") {
		t.Errorf("Load(no document.xml) error = %v", err)
	}
}

func TestLoadUnsupported(t *testing.T) {
	if _, err := Load("/x/a.png", filetypes.KindImage); !errors.Is(err, ErrUnsupported) {
		t.Errorf("Load(image) error = %v, want ErrUnsupported", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.txt"), filetypes.KindText)
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Load() error = %v, want not-exist", err)
	}
}
