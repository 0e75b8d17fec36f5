// Package fileops renames, moves, deletes and reveals files on disk.
//
// Bulk operations keep going past individual failures and summarize the
// outcome in a [Report]. Moves across devices fall back to copy then delete;
// a failed delete after a successful copy yields a [PartialMoveError].
package fileops
