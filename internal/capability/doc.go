// Package capability tracks whether optional preview backends (the ffmpeg
// binary, libvips PDF support) can be used.
//
// A [Capability] runs its probe once and memoizes the answer. It may be
// given an installer that runs once in the background when the probe
// fails; if the install succeeds the capability becomes ready for the rest
// of the process. Readiness is exported as the file_lister_capability_ready
// gauge.
package capability
