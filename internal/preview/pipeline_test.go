package preview

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"file-lister/internal/filetypes"
)

type fakeBackend struct {
	ready   bool
	calls   atomic.Int32
	extract func(ctx context.Context, path string) ([]byte, error)
}

func (f *fakeBackend) Ready() bool { return f.ready }

func (f *fakeBackend) Extract(ctx context.Context, path string) ([]byte, error) {
	f.calls.Add(1)
	return f.extract(ctx, path)
}

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: 200, G: 100, B: 50, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode() error = %v", err)
	}
	return buf.Bytes()
}

func staticBackend(data []byte, err error) *fakeBackend {
	return &fakeBackend{
		ready: true,
		extract: func(context.Context, string) ([]byte, error) {
			return data, err
		},
	}
}

// gatedBackend blocks every extraction until release is closed.
func gatedBackend(data []byte, release <-chan struct{}) *fakeBackend {
	return &fakeBackend{
		ready: true,
		extract: func(ctx context.Context, _ string) ([]byte, error) {
			select {
			case <-release:
				return data, nil
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		},
	}
}

func newTestPipeline(backend Backend) *Pipeline {
	return NewPipeline(DefaultConfig(), map[filetypes.Kind]Backend{
		filetypes.KindImage: backend,
		filetypes.KindVideo: backend,
	})
}

// settle polls until the in-flight extraction resolves.
func settle(t *testing.T, p *Pipeline) (*Thumbnail, bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if thumb, ok := p.Poll(); ok {
			return thumb, true
		}
		if _, _, loading := p.Loading(); !loading {
			return nil, false
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("extraction did not finish")
	return nil, false
}

func TestRequestUnsupportedKind(t *testing.T) {
	backend := staticBackend(nil, nil)
	p := newTestPipeline(backend)

	for _, kind := range []filetypes.Kind{filetypes.KindText, filetypes.KindOther, filetypes.KindPDF} {
		if got := p.Request("/x/file", kind); got != Unsupported {
			t.Errorf("Request(%s) = %v, want unsupported", kind, got)
		}
	}
	if _, _, loading := p.Loading(); loading {
		t.Error("unsupported request started a load")
	}
}

func TestRequestNotReadySpawnsNothing(t *testing.T) {
	backend := staticBackend(nil, nil)
	backend.ready = false
	p := newTestPipeline(backend)

	if got := p.Request("/x/clip.mp4", filetypes.KindVideo); got != NotReady {
		t.Fatalf("Request() = %v, want not_ready", got)
	}
	if _, _, loading := p.Loading(); loading {
		t.Error("not-ready request started a load")
	}
	time.Sleep(10 * time.Millisecond)
	if n := backend.calls.Load(); n != 0 {
		t.Errorf("backend called %d times, want 0", n)
	}
}

func TestRequestDownscalesLargeImages(t *testing.T) {
	tests := []struct {
		name         string
		w, h         int
		wantW, wantH int
	}{
		{name: "wide", w: 800, h: 200, wantW: 400, wantH: 100},
		{name: "tall", w: 300, h: 1200, wantW: 100, wantH: 400},
		{name: "exact", w: 400, h: 400, wantW: 400, wantH: 400},
		{name: "small is not upscaled", w: 50, h: 30, wantW: 50, wantH: 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestPipeline(staticBackend(encodePNG(t, tt.w, tt.h), nil))

			if got := p.Request("/x/img.png", filetypes.KindImage); got != Started {
				t.Fatalf("Request() = %v, want started", got)
			}
			thumb, ok := settle(t, p)
			if !ok {
				t.Fatalf("extraction failed: %+v", p.Status("/x/img.png"))
			}
			if thumb.Width != tt.wantW || thumb.Height != tt.wantH {
				t.Errorf("size = %dx%d, want %dx%d", thumb.Width, thumb.Height, tt.wantW, tt.wantH)
			}
			if len(thumb.Pixels) != tt.wantW*tt.wantH*4 {
				t.Errorf("len(Pixels) = %d, want %d", len(thumb.Pixels), tt.wantW*tt.wantH*4)
			}
			if thumb.Path != "/x/img.png" {
				t.Errorf("Path = %q", thumb.Path)
			}
		})
	}
}

func TestRequestCachedIsIdempotent(t *testing.T) {
	backend := staticBackend(encodePNG(t, 10, 10), nil)
	p := newTestPipeline(backend)

	p.Request("/x/a.png", filetypes.KindImage)
	first, ok := settle(t, p)
	if !ok {
		t.Fatal("first extraction failed")
	}

	if got := p.Request("/x/a.png", filetypes.KindImage); got != Cached {
		t.Errorf("second Request() = %v, want cached", got)
	}
	if _, _, loading := p.Loading(); loading {
		t.Error("cached request started a load")
	}
	if n := backend.calls.Load(); n != 1 {
		t.Errorf("backend called %d times, want 1", n)
	}

	got, ok := p.Get("/x/a.png")
	if !ok || got != first {
		t.Error("Get() did not return the cached thumbnail")
	}
	if p.Status("/x/a.png").State != StateReady {
		t.Errorf("Status() = %+v, want ready", p.Status("/x/a.png"))
	}
}

func TestRequestSamePathWhileLoading(t *testing.T) {
	release := make(chan struct{})
	backend := gatedBackend(encodePNG(t, 5, 5), release)
	p := newTestPipeline(backend)

	if got := p.Request("/x/a.png", filetypes.KindImage); got != Started {
		t.Fatalf("Request() = %v, want started", got)
	}
	if got := p.Request("/x/a.png", filetypes.KindImage); got != InFlight {
		t.Errorf("repeat Request() = %v, want in_flight", got)
	}
	if st := p.Status("/x/a.png"); st.State != StateLoading {
		t.Errorf("Status() = %+v, want loading", st)
	}

	close(release)
	if _, ok := settle(t, p); !ok {
		t.Fatal("extraction failed")
	}
	if n := backend.calls.Load(); n != 1 {
		t.Errorf("backend called %d times, want 1", n)
	}
}

func TestRequestReplacesOtherPath(t *testing.T) {
	release := make(chan struct{})
	slow := gatedBackend(encodePNG(t, 5, 5), release)
	fast := staticBackend(encodePNG(t, 7, 7), nil)
	p := NewPipeline(DefaultConfig(), map[filetypes.Kind]Backend{
		filetypes.KindImage: slow,
		filetypes.KindVideo: fast,
	})

	p.Request("/x/slow.png", filetypes.KindImage)
	if got := p.Request("/x/fast.mp4", filetypes.KindVideo); got != Started {
		t.Fatalf("Request() = %v, want started", got)
	}
	if path, _, _ := p.Loading(); path != "/x/fast.mp4" {
		t.Errorf("Loading() = %q, want /x/fast.mp4", path)
	}

	close(release)
	thumb, ok := settle(t, p)
	if !ok || thumb.Path != "/x/fast.mp4" {
		t.Fatalf("settle() = %+v, %v", thumb, ok)
	}

	// Give the abandoned task time to finish; its result must be ignored.
	time.Sleep(20 * time.Millisecond)
	if _, ok := p.Poll(); ok {
		t.Error("Poll() delivered an abandoned result")
	}
	if _, ok := p.Get("/x/slow.png"); ok {
		t.Error("abandoned path was cached")
	}
	if p.Len() != 1 {
		t.Errorf("Len() = %d, want 1", p.Len())
	}
}

func TestPollTimeout(t *testing.T) {
	release := make(chan struct{})
	finished := make(chan struct{})
	data := encodePNG(t, 5, 5)

	backend := &fakeBackend{
		ready: true,
		extract: func(context.Context, string) ([]byte, error) {
			defer close(finished)
			<-release
			return data, nil
		},
	}
	p := newTestPipeline(backend)

	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	p.SetClock(func() time.Time { return now })

	p.Request("/x/stuck.png", filetypes.KindImage)

	now = now.Add(DefaultTimeout)
	if _, ok := p.Poll(); ok {
		t.Fatal("Poll() returned a result")
	}
	if _, _, loading := p.Loading(); !loading {
		t.Fatal("slot left Loading at exactly the timeout")
	}

	now = now.Add(time.Millisecond)
	p.Poll()
	if _, _, loading := p.Loading(); loading {
		t.Fatal("slot still Loading after the timeout")
	}

	st := p.Status("/x/stuck.png")
	if st.State != StateFailed || st.Error != ErrTimeout.Error() {
		t.Errorf("Status() = %+v, want failed with timeout", st)
	}
	if _, ok := p.Get("/x/stuck.png"); ok {
		t.Error("timed out path was cached")
	}

	// The late result must be dropped.
	close(release)
	select {
	case <-finished:
	case <-time.After(5 * time.Second):
		t.Fatal("extraction did not finish after release")
	}
	time.Sleep(20 * time.Millisecond)

	if _, ok := p.Poll(); ok {
		t.Error("Poll() delivered a result after the timeout")
	}
	if _, ok := p.Get("/x/stuck.png"); ok {
		t.Error("late result was cached")
	}
	if p.Len() != 0 {
		t.Errorf("Len() = %d, want 0", p.Len())
	}
	if st := p.Status("/x/stuck.png"); st.State != StateFailed {
		t.Errorf("Status() after late result = %+v, want failed", st)
	}
}

func TestPollFailureAllowsRetry(t *testing.T) {
	backend := staticBackend(nil, errors.New("boom"))
	p := newTestPipeline(backend)

	p.Request("/x/bad.mp4", filetypes.KindVideo)
	if _, ok := settle(t, p); ok {
		t.Fatal("failing backend produced a thumbnail")
	}

	st := p.Status("/x/bad.mp4")
	if st.State != StateFailed || st.Error != "boom" {
		t.Errorf("Status() = %+v, want failed with boom", st)
	}

	if got := p.Request("/x/bad.mp4", filetypes.KindVideo); got != Started {
		t.Errorf("retry Request() = %v, want started", got)
	}
	settle(t, p)
	if n := backend.calls.Load(); n != 2 {
		t.Errorf("backend called %d times, want 2", n)
	}
}

func TestPollDecodeFailure(t *testing.T) {
	p := newTestPipeline(staticBackend([]byte("definitely not an image"), nil))

	p.Request("/x/broken.png", filetypes.KindImage)
	if _, ok := settle(t, p); ok {
		t.Fatal("garbage decoded")
	}
	st := p.Status("/x/broken.png")
	if st.State != StateFailed || !strings.Contains(st.Error, "unrecognized data") {
		t.Errorf("Status() = %+v", st)
	}
}

func TestClear(t *testing.T) {
	p := newTestPipeline(staticBackend(encodePNG(t, 5, 5), nil))

	p.Request("/x/a.png", filetypes.KindImage)
	settle(t, p)

	release := make(chan struct{})
	defer close(release)
	p.backends[filetypes.KindVideo] = gatedBackend(nil, release)
	p.Request("/x/b.mp4", filetypes.KindVideo)

	p.Clear()

	if p.Len() != 0 {
		t.Errorf("Len() = %d after Clear, want 0", p.Len())
	}
	if _, _, loading := p.Loading(); loading {
		t.Error("Clear() did not abandon the in-flight load")
	}
	if st := p.Status("/x/a.png"); st.State != StateIdle {
		t.Errorf("Status() = %+v, want idle", st)
	}
}

func TestDecisionString(t *testing.T) {
	tests := map[Decision]string{
		Started:     "started",
		Cached:      "cached",
		InFlight:    "in_flight",
		NotReady:    "not_ready",
		Unsupported: "unsupported",
	}
	for d, want := range tests {
		if got := d.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", d, got, want)
		}
	}
}
