package startup

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"file-lister/internal/logging"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by LoadConfig.
const EnvPrefix = "FILE_LISTER"

// Configuration keys. Nested keys map to environment variables with dots
// replaced by underscores, e.g. FILE_LISTER_PREVIEW_TIMEOUT.
const (
	KeyFolder              = "folder"
	KeyOutput              = "output"
	KeyRecursive           = "recursive"
	KeyListen              = "listen"
	KeyLogLevel            = "log.level"
	KeyLogFile             = "log.file"
	KeyLogMaxSizeMB        = "log.max_size_mb"
	KeyLogMaxBackups       = "log.max_backups"
	KeyLogHealthChecks     = "log.health_checks"
	KeyMetricsEnabled      = "metrics.enabled"
	KeyPreviewTimeout      = "preview.timeout"
	KeyPreviewMaxDimension = "preview.max_dimension"
	KeyFFmpegPath          = "preview.ffmpeg"
	KeyTickInterval        = "session.tick_interval"
	KeyMemoryLimit         = "memory.limit"
	KeyMemoryRatio         = "memory.ratio"
)

// Config holds all application configuration. An empty LogLevel leaves the
// level chosen by the LOG_LEVEL and DEBUG environment variables.
type Config struct {
	Folder    string
	Output    string
	Recursive bool
	Listen    string

	LogLevel        string
	LogFile         string
	LogMaxSizeMB    int
	LogMaxBackups   int
	LogHealthChecks bool

	MetricsEnabled bool

	PreviewTimeout      time.Duration
	PreviewMaxDimension int
	FFmpegPath          string

	TickInterval time.Duration

	MemoryLimit string
	MemoryRatio float64
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyFolder, "")
	v.SetDefault(KeyOutput, "files.csv")
	v.SetDefault(KeyRecursive, false)
	v.SetDefault(KeyListen, "127.0.0.1:8787")
	v.SetDefault(KeyLogLevel, "")
	v.SetDefault(KeyLogFile, "")
	v.SetDefault(KeyLogMaxSizeMB, 10)
	v.SetDefault(KeyLogMaxBackups, 3)
	v.SetDefault(KeyLogHealthChecks, false)
	v.SetDefault(KeyMetricsEnabled, true)
	v.SetDefault(KeyPreviewTimeout, 10*time.Second)
	v.SetDefault(KeyPreviewMaxDimension, 400)
	v.SetDefault(KeyFFmpegPath, "ffmpeg")
	v.SetDefault(KeyTickInterval, 50*time.Millisecond)
	v.SetDefault(KeyMemoryLimit, "")
	v.SetDefault(KeyMemoryRatio, 0.85)
}

// LoadConfig reads configuration from defaults, an optional YAML file and
// FILE_LISTER_* environment variables, in increasing priority. Flags bound
// to v take precedence over all of them. When configFile is empty,
// file-lister.yaml is looked up in the working directory and in
// $HOME/.config/file-lister; a missing file is not an error.
func LoadConfig(v *viper.Viper, configFile string) (*Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
	} else {
		v.SetConfigName("file-lister")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(filepath.Join("$HOME", ".config", "file-lister"))
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	config := &Config{
		Folder:              v.GetString(KeyFolder),
		Output:              v.GetString(KeyOutput),
		Recursive:           v.GetBool(KeyRecursive),
		Listen:              v.GetString(KeyListen),
		LogLevel:            v.GetString(KeyLogLevel),
		LogFile:             v.GetString(KeyLogFile),
		LogMaxSizeMB:        v.GetInt(KeyLogMaxSizeMB),
		LogMaxBackups:       v.GetInt(KeyLogMaxBackups),
		LogHealthChecks:     v.GetBool(KeyLogHealthChecks),
		MetricsEnabled:      v.GetBool(KeyMetricsEnabled),
		PreviewTimeout:      v.GetDuration(KeyPreviewTimeout),
		PreviewMaxDimension: v.GetInt(KeyPreviewMaxDimension),
		FFmpegPath:          v.GetString(KeyFFmpegPath),
		TickInterval:        v.GetDuration(KeyTickInterval),
		MemoryLimit:         v.GetString(KeyMemoryLimit),
		MemoryRatio:         v.GetFloat64(KeyMemoryRatio),
	}

	if err := config.validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) validate() error {
	if _, ok := logging.ParseLevel(c.LogLevel); c.LogLevel != "" && !ok {
		return fmt.Errorf("invalid log level %q", c.LogLevel)
	}
	if c.PreviewTimeout <= 0 {
		return fmt.Errorf("preview timeout must be positive, got %v", c.PreviewTimeout)
	}
	if c.PreviewMaxDimension <= 0 {
		return fmt.Errorf("preview max dimension must be positive, got %d", c.PreviewMaxDimension)
	}
	if c.TickInterval <= 0 {
		return fmt.Errorf("tick interval must be positive, got %v", c.TickInterval)
	}
	if c.MemoryRatio <= 0 || c.MemoryRatio > 1 {
		return fmt.Errorf("memory ratio must be in (0, 1], got %v", c.MemoryRatio)
	}
	if strings.TrimSpace(c.Output) == "" {
		return errors.New("output path must not be empty")
	}
	return nil
}

// LoggingOptions converts the log settings for logging.Configure.
func (c *Config) LoggingOptions() logging.Options {
	return logging.Options{
		Level:      c.LogLevel,
		File:       c.LogFile,
		MaxSizeMB:  c.LogMaxSizeMB,
		MaxBackups: c.LogMaxBackups,
	}
}

// LogConfig logs the effective configuration.
func LogConfig(c *Config) {
	logging.Info("------------------------------------------------------------")
	logging.Info("CONFIGURATION")
	logging.Info("------------------------------------------------------------")
	logging.Info("  LISTEN:                 %s", c.Listen)
	logging.Info("  RECURSIVE:              %v", c.Recursive)
	logging.Info("  LOG_LEVEL:              %s", logging.GetLevel())
	if c.LogFile != "" {
		logging.Info("  LOG_FILE:               %s (%d MB x %d)", c.LogFile, c.LogMaxSizeMB, c.LogMaxBackups)
	}
	logging.Info("  LOG_HEALTH_CHECKS:      %v", c.LogHealthChecks)
	logging.Info("  METRICS_ENABLED:        %v", c.MetricsEnabled)
	logging.Info("  PREVIEW_TIMEOUT:        %v", c.PreviewTimeout)
	logging.Info("  PREVIEW_MAX_DIMENSION:  %d", c.PreviewMaxDimension)
	logging.Info("  PREVIEW_FFMPEG:         %s", c.FFmpegPath)
	logging.Info("  SESSION_TICK_INTERVAL:  %v", c.TickInterval)
	if c.MemoryLimit != "" {
		logging.Info("  MEMORY_LIMIT:           %s (ratio %.2f)", c.MemoryLimit, c.MemoryRatio)
	}
	logging.Info("")
}
