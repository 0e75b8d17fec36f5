package memory

import (
	"math"
	"runtime/debug"
	"testing"
)

// restoreLimit resets the runtime limit after a test changes it.
func restoreLimit(t *testing.T) {
	t.Helper()
	previous := debug.SetMemoryLimit(-1)
	t.Cleanup(func() { debug.SetMemoryLimit(previous) })
}

func TestConfigure(t *testing.T) {
	t.Setenv("GOMEMLIMIT", "")
	restoreLimit(t)

	tests := []struct {
		name       string
		limit      string
		ratio      float64
		wantSource string
		wantGo     int64
		wantErr    bool
	}{
		{name: "no limit", limit: "", ratio: DefaultRatio, wantSource: "none"},
		{name: "binary units", limit: "1GiB", ratio: 0.5, wantSource: "config", wantGo: 1 << 29},
		{name: "decimal units", limit: "100MB", ratio: 1, wantSource: "config", wantGo: 100_000_000},
		{name: "plain bytes", limit: " 4096 ", ratio: 0.25, wantSource: "config", wantGo: 1024},
		{name: "garbage", limit: "lots", ratio: DefaultRatio, wantErr: true},
		{name: "zero", limit: "0B", ratio: DefaultRatio, wantErr: true},
		{name: "ratio too large", limit: "1GiB", ratio: 1.5, wantErr: true},
		{name: "ratio zero", limit: "1GiB", ratio: 0, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Configure(tt.limit, tt.ratio)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Configure() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if got.Source != tt.wantSource {
				t.Errorf("Source = %q, want %q", got.Source, tt.wantSource)
			}
			if got.GoMemLimit != tt.wantGo {
				t.Errorf("GoMemLimit = %d, want %d", got.GoMemLimit, tt.wantGo)
			}
			if tt.wantGo > 0 {
				if runtime := debug.SetMemoryLimit(-1); runtime != tt.wantGo {
					t.Errorf("runtime limit = %d, want %d", runtime, tt.wantGo)
				}
			}
		})
	}
}

func TestConfigureEnvironmentWins(t *testing.T) {
	restoreLimit(t)
	debug.SetMemoryLimit(256 << 20)
	t.Setenv("GOMEMLIMIT", "256MiB")

	got, err := Configure("1GiB", DefaultRatio)
	if err != nil {
		t.Fatalf("Configure() error = %v", err)
	}
	if got.Source != "GOMEMLIMIT" {
		t.Errorf("Source = %q, want GOMEMLIMIT", got.Source)
	}
	if got.GoMemLimit != 256<<20 {
		t.Errorf("GoMemLimit = %d, want %d", got.GoMemLimit, 256<<20)
	}
	if current := debug.SetMemoryLimit(-1); current == math.MaxInt64 || current != 256<<20 {
		t.Errorf("runtime limit changed to %d", current)
	}
}
