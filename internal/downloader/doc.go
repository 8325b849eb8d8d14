// Package downloader drains the work queue with a fixed pool of workers,
// failing over across mirror locations per file.
//
// # Worker Pool
//
// Run starts Options.Workers goroutines. Each worker builds its own
// authenticated session once, then repeatedly takes one item from the
// queue, downloads it, records exactly one Outcome to the sink, and
// acknowledges the item. The queue is fully populated before Run is
// called, so a worker that finds the queue empty simply exits; no worker
// ever waits on another.
//
// # Failure handling
//
// Per item, mirror locations are tried in order. A non-200 response is
// logged and the next mirror is tried. A local write failure aborts the
// item immediately: the fault is not location-specific, so trying more
// mirrors would only repeat it. When every location is exhausted the item
// is recorded as failed; the run continues with the next item.
//
// A stalled response body blocks its worker indefinitely: download
// sessions carry no overall timeout so multi-gigabyte streams are never
// cut off mid-body. Known limitation.
package downloader
