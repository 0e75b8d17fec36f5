// Package filetypes maps file extensions to preview kinds.
//
// This package is a dependency-free foundation shared by the scanner, the
// preview pipeline and the document previewer. Extensions are matched
// case-insensitively, without the leading dot:
//
//	switch filetypes.KindOf(record.Extension) {
//	case filetypes.KindImage, filetypes.KindVideo, filetypes.KindPDF:
//	    // thumbnail preview
//	case filetypes.KindText, filetypes.KindCode:
//	    // line-limited text preview
//	}
package filetypes
