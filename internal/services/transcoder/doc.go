// Package transcoder wraps the external transcoder CLI. It computes mirrored
// output paths, launches one process per file with a fixed single-thread
// resource hint, captures diagnostics without blocking, and classifies exit
// status into success, failure, or cancellation.
package transcoder
