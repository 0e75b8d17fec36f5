package startup

import (
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	"file-lister/internal/capability"
	"file-lister/internal/logging"

	"github.com/gorilla/mux"
)

// Build-time variables (injected via -ldflags)
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
	GoVersion = runtime.Version()
)

// BuildInfo contains version and build information
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"buildTime"`
	GoVersion string `json:"goVersion"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
}

// GetBuildInfo returns the current build information
func GetBuildInfo() BuildInfo {
	return BuildInfo{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
		GoVersion: GoVersion,
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	}
}

// RouteInfo contains information about a registered route
type RouteInfo struct {
	Method string
	Path   string
	Name   string
}

// LogStartup prints the banner and system information for interactive mode.
func LogStartup() {
	printBanner()
	logSystemInfo()
}

// LogCapabilities probes each preview backend and logs which are available.
// Images are always decoded in-process.
func LogCapabilities(caps ...*capability.Capability) {
	logging.Info("------------------------------------------------------------")
	logging.Info("PREVIEW BACKENDS")
	logging.Info("------------------------------------------------------------")

	for _, c := range caps {
		c.Probe()
	}

	logging.Info("")
	logging.Info("  Feature availability:")
	logging.Info("    %-8s ENABLED (built-in)", "image:")
	for _, c := range caps {
		state := enabledString(c.Ready())
		if c.Installing() {
			state = "INSTALLING"
		}
		logging.Info("    %-8s %s", c.Name()+":", state)
	}
	logging.Info("")
}

func enabledString(enabled bool) string {
	if enabled {
		return "ENABLED"
	}
	return "DISABLED"
}

// GetRoutes extracts all registered routes from a mux.Router
func GetRoutes(router *mux.Router) ([]RouteInfo, error) {
	var routes []RouteInfo

	err := router.Walk(func(route *mux.Route, _ *mux.Router, _ []*mux.Route) error {
		// Subrouter prefixes carry no handler.
		if route.GetHandler() == nil {
			return nil
		}

		pathTemplate, err := route.GetPathTemplate()
		if err != nil {
			return err
		}

		methods, err := route.GetMethods()
		if err != nil {
			methods = []string{"*"}
		}

		name := route.GetName()

		for _, method := range methods {
			routes = append(routes, RouteInfo{
				Method: method,
				Path:   pathTemplate,
				Name:   name,
			})
		}

		return nil
	})

	return routes, err
}

// routeSections orders the groups of the debug route listing.
var routeSections = []string{"service", "scan", "view", "selection", "files", "preview", "export", "other"}

// routeSection names the listing group of an API path.
func routeSection(path string) string {
	rest, ok := strings.CutPrefix(path, "/api/")
	if !ok {
		return "service"
	}

	first, _, _ := strings.Cut(rest, "/")
	switch first {
	case "state", "scan", "rescan":
		return "scan"
	case "files":
		// Per-file operations take an index, the listing itself does not.
		if strings.Contains(rest, "{index") {
			return "files"
		}
		return "view"
	case "view", "sort":
		return "view"
	case "selection":
		return "selection"
	case "preview", "document":
		return "preview"
	case "export":
		return "export"
	}
	return "other"
}

// LogHTTPRoutes logs the server setup and, at debug level, every route
// grouped by section.
func LogHTTPRoutes(router *mux.Router, logHealthChecks bool) {
	logging.Info("------------------------------------------------------------")
	logging.Info("HTTP SERVER SETUP")
	logging.Info("------------------------------------------------------------")

	if logging.IsDebugEnabled() {
		routes, err := GetRoutes(router)
		if err != nil {
			logging.Warn("error walking routes: %v", err)
		}

		sections := make(map[string][]RouteInfo)
		for _, route := range routes {
			name := routeSection(route.Path)
			sections[name] = append(sections[name], route)
		}

		logging.Debug("  Registered routes (%d total):", len(routes))
		for _, name := range routeSections {
			if len(sections[name]) == 0 {
				continue
			}
			logging.Debug("  [%s]", name)
			for _, route := range sections[name] {
				logging.Debug("    %-6s %s", route.Method, route.Path)
			}
		}
		logging.Debug("")
	}

	if logHealthChecks {
		logging.Info("  Health check logging: ON")
	} else {
		logging.Info("  Health check logging: OFF (set FILE_LISTER_LOG_HEALTH_CHECKS=true to enable)")
	}
	logging.Info("")
}

// ServerConfig holds configuration for the server startup log
type ServerConfig struct {
	Listen          string
	MetricsEnabled  bool
	StartupDuration time.Duration
}

// LogServerStarted logs successful server start with endpoint information
func LogServerStarted(config ServerConfig) {
	logging.Info("------------------------------------------------------------")
	logging.Info("SERVER STARTED")
	logging.Info("------------------------------------------------------------")
	logging.Info("  Startup time:    %v", config.StartupDuration)
	logging.Info("")
	logging.Info("  Endpoints:")
	logging.Info("    API:           http://%s/api/state", config.Listen)
	if config.MetricsEnabled {
		logging.Info("    Metrics:       http://%s/metrics", config.Listen)
	} else {
		logging.Info("    Metrics:       DISABLED")
	}
	logging.Info("    Health:        http://%s/health", config.Listen)
	logging.Info("")
	logging.Info("  Press Ctrl+C to stop the server")
	logging.Info("------------------------------------------------------------")
	logging.Info("")
}

// LogShutdownInitiated logs shutdown start
func LogShutdownInitiated(signal string) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("SHUTDOWN INITIATED (received %s)", signal)
	logging.Info("------------------------------------------------------------")
}

// LogShutdownStep logs a shutdown step
func LogShutdownStep(step string) {
	logging.Debug("  %s...", step)
}

// LogShutdownStepComplete logs a completed shutdown step
func LogShutdownStepComplete(step string) {
	logging.Info("  [OK] %s", step)
}

// LogShutdownComplete logs shutdown completion
func LogShutdownComplete() {
	logging.Info("  [OK] Shutdown complete")
}

func printBanner() {
	banner := `
------------------------------------------------------------
    _______ __        __    _      __
   / ____(_) /__     / /   (_)____/ /____  _____
  / /_  / / / _ \   / /   / / ___/ __/ _ \/ ___/
 / __/ / / /  __/  / /___/ (__  ) /_/  __/ /
/_/   /_/_/\___/  /_____/_/____/\__/\___/_/

------------------------------------------------------------`
	fmt.Fprintln(os.Stderr, banner)
	logging.Info("  Version:    %s", Version)
	logging.Info("  Commit:     %s", Commit)
	logging.Info("  Build Time: %s", BuildTime)
	logging.Info("  Started:    %s", time.Now().Format(time.RFC1123))
	logging.Info("")
}

func logSystemInfo() {
	logging.Info("------------------------------------------------------------")
	logging.Info("SYSTEM INFORMATION")
	logging.Info("------------------------------------------------------------")
	logging.Info("  Go version:      %s", runtime.Version())
	logging.Info("  OS/Arch:         %s/%s", runtime.GOOS, runtime.GOARCH)
	logging.Info("  CPUs available:  %d", runtime.NumCPU())
	logging.Info("  GOMAXPROCS:      %d", runtime.GOMAXPROCS(0))

	if logging.IsDebugEnabled() {
		logging.Debug("  Goroutines:      %d", runtime.NumGoroutine())

		if wd, err := os.Getwd(); err == nil {
			logging.Debug("  Working dir:     %s", wd)
		}

		if hostname, err := os.Hostname(); err == nil {
			logging.Debug("  Hostname:        %s", hostname)
		}
	}

	logging.Info("")
}
