// Package wasapi is a client for WASAPI webdata endpoints.
//
// This package handles:
//   - Authenticated sessions (basic auth attached to every request)
//   - Fetching and decoding one manifest page at a time
//   - Walking the "next" pagination chain
//   - Read-only count and size aggregations over the full chain
//   - Building manifest URIs from query filters
//
// # Usage
//
//	client := wasapi.NewClient(wasapi.DefaultOptions(), creds, logger)
//
//	// Walk every file record in the manifest.
//	err := client.Walk(ctx, uri, func(f wasapi.FileRecord) error {
//	    queue.Enqueue(f)
//	    return nil
//	})
//
// Any transport failure, auth rejection, or undecodable response during a
// walk is fatal to the whole run: a partial manifest would silently
// under-report files, so callers abort instead of skipping pages.
package wasapi
