/*
Package preview extracts thumbnails for images, videos and PDFs.

A [Pipeline] owns a single extraction slot and a cache keyed by absolute
path. [Pipeline.Request] dispatches to the [Backend] registered for the file
kind on a background goroutine; [Pipeline.Poll] collects the result without
blocking. A request for a different path replaces the slot, and the previous
task's result is discarded when it arrives. Extractions that outlive the
configured timeout are abandoned the same way.

Backends:
  - [ImageBackend] reads the file and falls back to ffmpeg for formats Go cannot decode
  - [VideoBackend] grabs one frame with ffmpeg at 1s, then at 0s
  - [PDFBackend] rasterizes page 0 with libvips

Every result is decoded, shrunk to fit 400x400 when larger and stored as packed
RGBA.
*/
package preview
