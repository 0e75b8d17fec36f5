package cli

import (
	"context"
	"fmt"
	"os"

	"file-lister/internal/logging"
	"file-lister/internal/memory"
	"file-lister/internal/startup"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// NewRootCmd creates the file-lister command. With --folder it scans and
// exports once; without it, it serves the interactive API.
func NewRootCmd() *cobra.Command {
	v := viper.New()
	var configFile string

	cmd := &cobra.Command{
		Use:   "file-lister",
		Short: "Lists files from a folder and exports them to CSV",
		Long: `File Lister scans a folder and lists its files with size, path and
modification time.

Export mode (--folder):
  Scan the folder once, write the listing to --output as CSV and exit.

Interactive mode (default):
  Serve an HTTP API on --listen for browsing, filtering, previewing,
  renaming, moving and deleting files.

Configuration is read from flags, FILE_LISTER_* environment variables and
an optional file-lister.yaml, in that order of priority.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       fmt.Sprintf("%s (commit %s, built %s)", startup.Version, startup.Commit, startup.BuildTime),
		RunE: func(cmd *cobra.Command, _ []string) error {
			config, err := startup.LoadConfig(v, configFile)
			if err != nil {
				return err
			}

			exportMode := config.Folder != ""
			opts := config.LoggingOptions()
			if exportMode && opts.Level == "" && os.Getenv("LOG_LEVEL") == "" && os.Getenv("DEBUG") == "" {
				// Keep export output readable; warnings still show.
				opts.Level = "warn"
			}
			if err := logging.Configure(opts); err != nil {
				return err
			}
			defer logging.Close()

			if _, err := memory.Configure(config.MemoryLimit, config.MemoryRatio); err != nil {
				return err
			}

			if exportMode {
				return runExport(cmd.Context(), cmd.OutOrStdout(), config)
			}
			return runInteractive(cmd.Context(), config)
		},
	}

	flags := cmd.Flags()
	flags.StringP("folder", "f", "", "Folder to scan (starts the interactive API if not provided)")
	flags.StringP("output", "o", "files.csv", "Output CSV file path")
	flags.BoolP("recursive", "r", false, "Scan subfolders recursively")
	flags.String("listen", "127.0.0.1:8787", "Address for the interactive API")
	flags.String("log-level", "", "Log level: debug, info, warn or error")
	flags.StringVarP(&configFile, "config", "c", "", "Configuration file path")

	for key, flag := range map[string]string{
		startup.KeyFolder:    "folder",
		startup.KeyOutput:    "output",
		startup.KeyRecursive: "recursive",
		startup.KeyListen:    "listen",
		startup.KeyLogLevel:  "log-level",
	} {
		_ = v.BindPFlag(key, flags.Lookup(flag))
	}

	return cmd
}

// Execute runs the root command and exits with status 1 on failure.
func Execute() {
	if err := NewRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
