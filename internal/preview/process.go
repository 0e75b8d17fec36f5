package preview

import (
	"bytes"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	"github.com/h2non/filetype"

	// Register additional decoders for image.Decode.
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// Thumbnail is a decoded preview. Pixels holds Width*Height tightly packed
// non-premultiplied RGBA values.
type Thumbnail struct {
	Path   string
	Pixels []byte
	Width  int
	Height int
}

// Image wraps the pixel buffer as an image without copying.
func (t *Thumbnail) Image() *image.NRGBA {
	return &image.NRGBA{
		Pix:    t.Pixels,
		Stride: t.Width * 4,
		Rect:   image.Rect(0, 0, t.Width, t.Height),
	}
}

// Size returns the pixel buffer length in bytes.
func (t *Thumbnail) Size() int {
	return len(t.Pixels)
}

// process decodes data and bounds it to maxDimension on both sides. Images
// that already fit are kept at their original size.
func process(path string, data []byte, maxDimension int) (*Thumbnail, error) {
	if len(data) == 0 {
		return nil, ErrNoFrame
	}

	src, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", describe(data), err)
	}

	bounds := src.Bounds()
	var out *image.NRGBA
	if maxDimension > 0 && (bounds.Dx() > maxDimension || bounds.Dy() > maxDimension) {
		out = imaging.Fit(src, maxDimension, maxDimension, imaging.Lanczos)
	} else {
		out = imaging.Clone(src)
	}

	return &Thumbnail{
		Path:   path,
		Pixels: out.Pix,
		Width:  out.Rect.Dx(),
		Height: out.Rect.Dy(),
	}, nil
}

// describe names the sniffed content type for decode errors.
func describe(data []byte) string {
	kind, err := filetype.Match(data)
	if err != nil || kind == filetype.Unknown {
		return fmt.Sprintf("unrecognized data (%d bytes)", len(data))
	}
	return kind.MIME.Value
}
