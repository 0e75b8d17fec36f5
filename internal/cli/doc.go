/*
Package cli implements the file-lister command line.

# Export Mode

With --folder the folder is scanned once, optionally recursively, and the
listing is written to --output as a UTF-8 CSV with a byte order mark. A
spinner is drawn on stderr while scanning when stderr is a terminal. Any
scan or export failure is printed and the process exits with status 1.

# Interactive Mode

Without --folder the HTTP API from the handlers package is served on
--listen. Startup probes the ffmpeg and libvips preview backends, wires the
session loop, and installs logging, metrics and compression middleware.
SIGINT and SIGTERM stop the server, then the session loop.
*/
package cli
