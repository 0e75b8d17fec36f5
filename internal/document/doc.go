// Package document renders text, source code, CSV tables and DOCX files as
// bounded previews.
//
// Text is decoded as UTF-8 (with or without a BOM), falling back to
// Windows-1252 and then Windows-874. Long content is cut to a fixed number of
// lines or rows with a note saying how much was omitted.
package document
