package preview

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"time"

	"file-lister/internal/capability"
	"file-lister/internal/filesystem"
	"file-lister/internal/logging"

	"github.com/h2non/filetype"
)

// Backend extracts encoded image bytes for one kind of file.
type Backend interface {
	// Ready reports whether the backend can run. Requests for a backend
	// that is not ready are ignored.
	Ready() bool
	// Extract returns encoded image data for path.
	Extract(ctx context.Context, path string) ([]byte, error)
}

// ffmpegProbeTimeout bounds the ffmpeg -version check.
const ffmpegProbeTimeout = 5 * time.Second

// NewVideoCapability probes for a working ffmpeg binary named tool. opts
// may override the probe timeout.
func NewVideoCapability(tool string, opts ...capability.Option) *capability.Capability {
	opts = append([]capability.Option{capability.WithProbeTimeout(ffmpegProbeTimeout)}, opts...)
	return capability.New("video", func(ctx context.Context) bool {
		_, err := CheckFFmpeg(ctx, tool)
		if err != nil {
			logging.Warn("  FFmpeg check failed: %v", err)
			return false
		}
		return true
	}, opts...)
}

// NewPDFCapability probes libvips for PDF rendering support.
func NewPDFCapability(opts ...capability.Option) *capability.Capability {
	return capability.New("pdf", func(context.Context) bool {
		return vipsSupportsPDF()
	}, opts...)
}

// VideoBackend grabs a frame with ffmpeg.
type VideoBackend struct {
	tool string
	cap  *capability.Capability
}

// NewVideoBackend creates a frame grabber gated on c.
func NewVideoBackend(tool string, c *capability.Capability) *VideoBackend {
	return &VideoBackend{tool: tool, cap: c}
}

// Ready reports whether ffmpeg is available.
func (b *VideoBackend) Ready() bool {
	return b.cap.Ready()
}

// Extract returns the frame one second in, or the first frame when the
// video is shorter or the seek yields nothing.
func (b *VideoBackend) Extract(ctx context.Context, path string) ([]byte, error) {
	data, err := grabFrame(ctx, b.tool, path, "00:00:01")
	if err == nil {
		return data, nil
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	logging.Debug("FFmpeg first attempt failed for %s: %v, retrying at 0s", path, err)
	return grabFrame(ctx, b.tool, path, "00:00:00")
}

// decodeStill converts an image Go cannot decode into PNG.
func (b *VideoBackend) decodeStill(ctx context.Context, path string) ([]byte, error) {
	return grabFrame(ctx, b.tool, path, "")
}

// PDFBackend renders the first page of a PDF through libvips.
type PDFBackend struct {
	cap          *capability.Capability
	maxDimension int
}

// NewPDFBackend creates a page renderer gated on c. Pages are rendered no
// larger than maxDimension on either side.
func NewPDFBackend(c *capability.Capability, maxDimension int) *PDFBackend {
	return &PDFBackend{cap: c, maxDimension: maxDimension}
}

// Ready reports whether libvips can load PDFs.
func (b *PDFBackend) Ready() bool {
	return b.cap.Ready()
}

// Extract renders page 0 of path as PNG.
func (b *PDFBackend) Extract(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return renderPDFPage(path, b.maxDimension)
}

// ImageBackend reads image files from disk. Formats the Go decoders do not
// understand are converted by ffmpeg when a converter is available.
type ImageBackend struct {
	retry     filesystem.RetryConfig
	converter *VideoBackend
}

// NewImageBackend creates an image reader. converter may be nil.
func NewImageBackend(converter *VideoBackend) *ImageBackend {
	return &ImageBackend{
		retry:     filesystem.DefaultRetryConfig(),
		converter: converter,
	}
}

// Ready is always true; decoding happens in-process.
func (b *ImageBackend) Ready() bool {
	return true
}

// Extract returns the raw file bytes, or a PNG conversion for formats
// without a registered Go decoder.
func (b *ImageBackend) Extract(ctx context.Context, path string) ([]byte, error) {
	data, err := filesystem.ReadFileWithRetry(path, b.retry)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}

	if kind, err := filetype.Match(data); err == nil && kind != filetype.Unknown && kind.MIME.Type != "image" {
		return nil, fmt.Errorf("%s contains %s data, not an image", path, kind.MIME.Value)
	}

	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err == nil {
		logging.Debug("Image format %s for %s", format, path)
		return data, nil
	}

	if b.converter == nil || !b.converter.Ready() {
		return data, nil
	}

	logging.Debug("Standard decode failed for %s: %v, trying ffmpeg", path, err)
	converted, convErr := b.converter.decodeStill(ctx, path)
	if convErr != nil {
		return nil, errors.Join(fmt.Errorf("unsupported image format: %w", err), convErr)
	}
	return converted, nil
}
