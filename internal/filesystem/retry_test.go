package filesystem

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"syscall"
	"testing"
	"time"
)

type recordingObserver struct {
	mu         sync.Mutex
	operations map[string]int
	errors     map[string]int
	attempts   int
	successes  int
	failures   int
	stale      int
}

func newRecordingObserver() *recordingObserver {
	return &recordingObserver{
		operations: make(map[string]int),
		errors:     make(map[string]int),
	}
}

func (r *recordingObserver) ObserveOperation(operation string, _ float64, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.operations[operation]++
	if err != nil {
		r.errors[operation]++
	}
}

func (r *recordingObserver) ObserveRetryAttempt(string) { r.mu.Lock(); r.attempts++; r.mu.Unlock() }
func (r *recordingObserver) ObserveRetrySuccess(string) { r.mu.Lock(); r.successes++; r.mu.Unlock() }
func (r *recordingObserver) ObserveRetryFailure(string) { r.mu.Lock(); r.failures++; r.mu.Unlock() }
func (r *recordingObserver) ObserveStaleError(string)   { r.mu.Lock(); r.stale++; r.mu.Unlock() }

func fastRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:     3,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     2 * time.Millisecond,
	}
}

func TestDefaultRetryConfig(t *testing.T) {
	config := DefaultRetryConfig()

	if config.MaxRetries != 3 {
		t.Errorf("MaxRetries = %d, want 3", config.MaxRetries)
	}
	if config.InitialBackoff != 50*time.Millisecond {
		t.Errorf("InitialBackoff = %v, want 50ms", config.InitialBackoff)
	}
	if config.MaxBackoff != 500*time.Millisecond {
		t.Errorf("MaxBackoff = %v, want 500ms", config.MaxBackoff)
	}
}

func TestIsNFSStaleError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil error", err: nil, want: false},
		{name: "ESTALE error", err: syscall.ESTALE, want: true},
		{name: "wrapped ESTALE", err: &os.PathError{Op: "stat", Path: "/x", Err: syscall.ESTALE}, want: true},
		{name: "ENOENT error", err: syscall.ENOENT, want: false},
		{name: "generic error", err: os.ErrNotExist, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isNFSStaleError(tt.err); got != tt.want {
				t.Errorf("isNFSStaleError() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWithRetryRecoversFromStaleHandle(t *testing.T) {
	obs := newRecordingObserver()
	SetObserver(obs)
	defer SetObserver(nil)

	calls := 0
	got, err := withRetry("stat", "/nfs/file", fastRetryConfig(), func() (int, error) {
		calls++
		if calls < 3 {
			return 0, syscall.ESTALE
		}
		return 7, nil
	})

	if err != nil {
		t.Fatalf("withRetry() error = %v", err)
	}
	if got != 7 {
		t.Errorf("withRetry() = %d, want 7", got)
	}
	if calls != 3 {
		t.Errorf("fn called %d times, want 3", calls)
	}
	if obs.stale != 2 || obs.attempts != 2 || obs.successes != 1 || obs.failures != 0 {
		t.Errorf("observer = stale %d attempts %d successes %d failures %d, want 2/2/1/0",
			obs.stale, obs.attempts, obs.successes, obs.failures)
	}
}

func TestWithRetryGivesUpAfterMaxRetries(t *testing.T) {
	obs := newRecordingObserver()
	SetObserver(obs)
	defer SetObserver(nil)

	calls := 0
	_, err := withRetry("readdir", "/nfs/dir", fastRetryConfig(), func() (string, error) {
		calls++
		return "", syscall.ESTALE
	})

	if !errors.Is(err, syscall.ESTALE) {
		t.Fatalf("withRetry() error = %v, want ESTALE", err)
	}
	if calls != 4 {
		t.Errorf("fn called %d times, want 4 (1 + 3 retries)", calls)
	}
	if obs.failures != 1 {
		t.Errorf("failures = %d, want 1", obs.failures)
	}
	if obs.errors["readdir"] != 1 {
		t.Errorf("operation errors = %d, want 1", obs.errors["readdir"])
	}
}

func TestWithRetryDoesNotRetryOtherErrors(t *testing.T) {
	calls := 0
	want := fmt.Errorf("permission denied")
	_, err := withRetry("open", "/x", fastRetryConfig(), func() (bool, error) {
		calls++
		return false, want
	})

	if !errors.Is(err, want) {
		t.Errorf("withRetry() error = %v, want %v", err, want)
	}
	if calls != 1 {
		t.Errorf("fn called %d times, want 1", calls)
	}
}

func TestStatWithRetry(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.txt")
	if err := os.WriteFile(path, []byte("hello"), 0o644); err != nil {
		t.Fatal(err)
	}

	info, err := StatWithRetry(path, fastRetryConfig())
	if err != nil {
		t.Fatalf("StatWithRetry() error = %v", err)
	}
	if info.Size() != 5 {
		t.Errorf("Size() = %d, want 5", info.Size())
	}

	if _, err := StatWithRetry(filepath.Join(dir, "missing"), fastRetryConfig()); !os.IsNotExist(err) {
		t.Errorf("StatWithRetry() on missing file error = %v, want not-exist", err)
	}
}

func TestReadDirWithRetry(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.txt", "a.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}

	entries, err := ReadDirWithRetry(dir, fastRetryConfig())
	if err != nil {
		t.Fatalf("ReadDirWithRetry() error = %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].Name() != "a.txt" {
		t.Errorf("entries[0] = %s, want a.txt", entries[0].Name())
	}
}

func TestOpenAndReadFileWithRetry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.bin")
	if err := os.WriteFile(path, []byte{1, 2, 3}, 0o644); err != nil {
		t.Fatal(err)
	}

	f, err := OpenWithRetry(path, fastRetryConfig())
	if err != nil {
		t.Fatalf("OpenWithRetry() error = %v", err)
	}
	f.Close()

	data, err := ReadFileWithRetry(path, fastRetryConfig())
	if err != nil {
		t.Fatalf("ReadFileWithRetry() error = %v", err)
	}
	if len(data) != 3 {
		t.Errorf("read %d bytes, want 3", len(data))
	}
}
