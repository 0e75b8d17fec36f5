package filetypes

import "strings"

// Kind categorizes a file by its extension.
type Kind string

const (
	// KindImage is a raster image decoded in-process.
	KindImage Kind = "image"
	// KindVideo is a video whose preview frame is grabbed by ffmpeg.
	KindVideo Kind = "video"
	// KindPDF is a PDF whose first page is rasterized by libvips.
	KindPDF Kind = "pdf"
	// KindText is plain text shown as a line-limited document preview.
	KindText Kind = "text"
	// KindCode is source code shown as a line-limited document preview.
	KindCode Kind = "code"
	// KindTable is delimited data shown as a table preview.
	KindTable Kind = "table"
	// KindDocument is a word-processor document whose text is extracted.
	KindDocument Kind = "document"
	// KindOther is anything without a preview.
	KindOther Kind = "other"
)

// ImageExtensions maps lowercase extensions (without the dot) to image support.
var ImageExtensions = map[string]bool{
	"jpg":  true,
	"jpeg": true,
	"png":  true,
	"gif":  true,
	"bmp":  true,
	"ico":  true,
	"webp": true,
}

// VideoExtensions maps lowercase extensions (without the dot) to video support.
var VideoExtensions = map[string]bool{
	"mp4":  true,
	"avi":  true,
	"mkv":  true,
	"mov":  true,
	"wmv":  true,
	"flv":  true,
	"webm": true,
	"m4v":  true,
	"mpeg": true,
	"mpg":  true,
	"3gp":  true,
}

// PDFExtensions maps lowercase extensions (without the dot) to PDF support.
var PDFExtensions = map[string]bool{
	"pdf": true,
}

// TextExtensions maps lowercase extensions to plain text previews.
var TextExtensions = map[string]bool{
	"txt": true,
	"md":  true,
	"log": true,
	"ini": true,
	"cfg": true,
}

// CodeExtensions maps lowercase extensions to source code previews.
var CodeExtensions = map[string]bool{
	"go":   true,
	"rs":   true,
	"py":   true,
	"js":   true,
	"ts":   true,
	"jsx":  true,
	"tsx":  true,
	"c":    true,
	"cpp":  true,
	"h":    true,
	"hpp":  true,
	"java": true,
	"json": true,
	"xml":  true,
	"yaml": true,
	"yml":  true,
	"toml": true,
	"sql":  true,
	"sh":   true,
	"html": true,
	"css":  true,
}

// TableExtensions maps lowercase extensions to table previews.
var TableExtensions = map[string]bool{
	"csv": true,
}

// DocumentExtensions maps lowercase extensions to extracted-text previews.
var DocumentExtensions = map[string]bool{
	"docx": true,
}

// KindOf returns the Kind for an extension. The extension is matched
// case-insensitively and may be given with or without the leading dot.
// Returns KindOther if the extension is not recognized.
func KindOf(ext string) Kind {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))

	switch {
	case ImageExtensions[ext]:
		return KindImage
	case VideoExtensions[ext]:
		return KindVideo
	case PDFExtensions[ext]:
		return KindPDF
	case TextExtensions[ext]:
		return KindText
	case CodeExtensions[ext]:
		return KindCode
	case TableExtensions[ext]:
		return KindTable
	case DocumentExtensions[ext]:
		return KindDocument
	default:
		return KindOther
	}
}

// IsThumbnail reports whether the kind is previewed as a thumbnail image.
func (k Kind) IsThumbnail() bool {
	return k == KindImage || k == KindVideo || k == KindPDF
}

// IsDocument reports whether the kind is previewed as text or a table.
func (k Kind) IsDocument() bool {
	return k == KindText || k == KindCode || k == KindTable || k == KindDocument
}
