package document

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// decodeText converts file bytes to a string. Valid UTF-8 is used as is
// (with a BOM stripped), then Windows-1252 is tried, then Windows-874.
func decodeText(data []byte) string {
	if rest, ok := bytes.CutPrefix(data, utf8BOM); ok && utf8.Valid(rest) {
		return string(rest)
	}
	if utf8.Valid(data) {
		return string(data)
	}

	if s, err := charmap.Windows1252.NewDecoder().Bytes(data); err == nil && !bytes.ContainsRune(s, utf8.RuneError) {
		return string(s)
	}

	s, _ := charmap.Windows874.NewDecoder().Bytes(data)
	return string(s)
}

// splitLines splits on newlines, dropping a trailing carriage return from
// each line and the empty line after a final newline.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	s = strings.TrimSuffix(s, "\n")
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}
