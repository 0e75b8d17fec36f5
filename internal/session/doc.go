/*
Package session holds the state of one interactive file listing.

A [Session] owns the scan coordinator, the view engine, the row selection and
the preview pipeline. Background scans and preview extractions deliver their
results over channels that [Session.Tick] polls without blocking, so all
session state is only ever touched by one goroutine.

[Loop] provides that goroutine for servers: it calls Tick on a ticker and runs
closures submitted with [Loop.Do] in between.

File operations always trigger a rescan so the listing reflects the disk, even
when some files failed. The outcome of the operation stays visible in
[State.Message] and [State.Error] until the next one.
*/
package session
