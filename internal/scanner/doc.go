// Package scanner produces snapshots of the regular files under a folder.
//
// [Scan] is the synchronous directory walker: it validates the root, walks
// it (optionally recursively) and orders the records by case-insensitive
// relative path. [Coordinator] runs scans on a background goroutine and
// delivers each result once to a consumer that polls it without blocking.
// Starting a new scan abandons the previous one; its result is dropped.
package scanner
