// Package export writes file listings as CSV.
package export

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"file-lister/internal/logging"
	"file-lister/internal/metrics"
	"file-lister/internal/scanner"
)

// bom marks the file as UTF-8 for spreadsheet applications.
var bom = []byte{0xEF, 0xBB, 0xBF}

// Header is the first CSV row.
var Header = []string{"File Name", "Extension", "Size (bytes)", "Relative Path", "Full Path"}

// WriteCSV writes a BOM, the header and one row per record in order.
func WriteCSV(w io.Writer, records []scanner.FileRecord) error {
	if _, err := w.Write(bom); err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, r := range records {
		row := []string{
			r.Name,
			r.Extension,
			strconv.FormatUint(r.Size, 10),
			r.RelativePath,
			r.AbsolutePath,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ToFile writes records to path, replacing any existing file.
func ToFile(path string, records []scanner.FileRecord) (err error) {
	defer func() {
		status := "success"
		if err != nil {
			status = "error"
		} else {
			metrics.ExportRowsTotal.Add(float64(len(records)))
		}
		metrics.ExportsTotal.WithLabelValues(status).Inc()
	}()

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	bw := bufio.NewWriter(f)
	if err := WriteCSV(bw, records); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}

	logging.Info("Exported %d files to %s", len(records), path)
	return nil
}
