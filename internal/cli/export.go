package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"file-lister/internal/export"
	"file-lister/internal/scanner"
	"file-lister/internal/startup"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"
)

// spinInterval is how often the export-mode spinner advances.
const spinInterval = 100 * time.Millisecond

// runExport scans config.Folder and writes the listing to config.Output.
func runExport(ctx context.Context, out io.Writer, config *startup.Config) error {
	fmt.Fprintf(out, "Scanning folder: %s\n", config.Folder)
	if config.Recursive {
		fmt.Fprintln(out, "(including subfolders)")
	}

	snapshot, err := scanWithSpinner(ctx, config.Folder, config.Recursive, term.IsTerminal(int(os.Stderr.Fd())))
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Found %d files\n", len(snapshot))

	if err := export.ToFile(config.Output, snapshot); err != nil {
		return err
	}
	fmt.Fprintf(out, "Exported to: %s\n", config.Output)
	return nil
}

// scanWithSpinner runs the scan in the background and polls for its result,
// animating a spinner on stderr when it is a terminal.
func scanWithSpinner(ctx context.Context, root string, recursive, spin bool) (scanner.Snapshot, error) {
	coord := scanner.NewCoordinator(nil)
	coord.Start(root, recursive)

	var bar *progressbar.ProgressBar
	if spin {
		bar = progressbar.NewOptions(-1,
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSetDescription("Scanning"),
			progressbar.OptionSpinnerType(14),
			progressbar.OptionClearOnFinish(),
			progressbar.OptionSetElapsedTime(true),
		)
		defer func() { _ = bar.Finish() }()
	}

	ticker := time.NewTicker(spinInterval)
	defer ticker.Stop()

	for {
		if res, ok := coord.TryCollect(); ok {
			return res.Snapshot, res.Err
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
			if bar != nil {
				_ = bar.Add(1)
			}
		}
	}
}
