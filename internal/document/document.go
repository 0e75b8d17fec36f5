package document

import (
	"archive/zip"
	"bytes"
	"encoding/csv"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"file-lister/internal/filesystem"
	"file-lister/internal/filetypes"
	"file-lister/internal/logging"
	"file-lister/internal/metrics"
)

// Preview limits.
const (
	MaxTextLines = 100
	MaxCodeLines = 300
	MaxTableRows = 100
	MaxTableCols = 20
)

// ErrUnsupported is returned for kinds without a document preview.
var ErrUnsupported = errors.New("no document preview for this file type")

// Preview is the rendered content of a document. Text kinds fill Text;
// tables fill Headers and Rows.
type Preview struct {
	Kind    filetypes.Kind `json:"kind"`
	Text    string         `json:"text,omitempty"`
	Headers []string       `json:"headers,omitempty"`
	Rows    [][]string     `json:"rows,omitempty"`
}

// Load reads path and builds a preview for kind.
func Load(path string, kind filetypes.Kind) (*Preview, error) {
	if !kind.IsDocument() {
		return nil, ErrUnsupported
	}

	p, err := load(path, kind)
	status := "success"
	if err != nil {
		status = "error"
		logging.Debug("Document preview of %s failed: %v", path, err)
	}
	metrics.DocumentPreviewsTotal.WithLabelValues(string(kind), status).Inc()
	return p, err
}

func load(path string, kind filetypes.Kind) (*Preview, error) {
	data, err := filesystem.ReadFileWithRetry(path, filesystem.DefaultRetryConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	switch kind {
	case filetypes.KindText:
		return &Preview{Kind: kind, Text: truncateLines(decodeText(data), MaxTextLines)}, nil
	case filetypes.KindCode:
		return &Preview{Kind: kind, Text: truncateLines(decodeText(data), MaxCodeLines)}, nil
	case filetypes.KindTable:
		headers, rows := parseTable(decodeText(data))
		return &Preview{Kind: kind, Headers: headers, Rows: rows}, nil
	case filetypes.KindDocument:
		text, err := docxText(data)
		if err != nil {
			return nil, err
		}
		return &Preview{Kind: kind, Text: truncateLines(text, MaxTextLines)}, nil
	}
	return nil, ErrUnsupported
}

// truncateLines keeps the first limit lines and notes how many there were.
func truncateLines(content string, limit int) string {
	lines := splitLines(content)
	if len(lines) <= limit {
		return strings.Join(lines, "\n")
	}
	return strings.Join(lines[:limit], "\n") +
		fmt.Sprintf("\n\n... (showing first %d of %d lines)", limit, len(lines))
}

// parseTable reads CSV with a header row. Rows may have any number of
// fields; malformed records are counted but not shown.
func parseTable(content string) ([]string, [][]string) {
	r := csv.NewReader(strings.NewReader(content))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	headers, err := r.Read()
	if err != nil {
		return nil, nil
	}
	headers = clip(headers)

	var rows [][]string
	total := 0
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		var parseErr *csv.ParseError
		if err != nil && !errors.As(err, &parseErr) {
			break
		}
		total++
		if err != nil || len(rows) >= MaxTableRows {
			continue
		}
		rows = append(rows, clip(record))
	}

	if total > MaxTableRows {
		rows = append(rows, []string{fmt.Sprintf("... (showing first %d of %d rows)", MaxTableRows, total)})
	}
	return headers, rows
}

func clip(record []string) []string {
	if len(record) > MaxTableCols {
		record = record[:MaxTableCols]
	}
	return record
}

// docxText extracts paragraph text from word/document.xml. Empty paragraphs
// are skipped.
func docxText(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to read DOCX archive: %w", err)
	}

	f, err := zr.Open("word/document.xml")
	if err != nil {
		return "", fmt.Errorf("failed to find document content: %w", err)
	}
	defer f.Close()

	var (
		out       strings.Builder
		paragraph strings.Builder
		inText    bool
	)
	dec := xml.NewDecoder(f)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("failed to read document: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "t" {
				inText = true
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				if paragraph.Len() > 0 {
					out.WriteString(paragraph.String())
					out.WriteByte('\n')
					paragraph.Reset()
				}
			}
		case xml.CharData:
			if inText {
				paragraph.Write(t)
			}
		}
	}
	out.WriteString(paragraph.String())
	return out.String(), nil
}
