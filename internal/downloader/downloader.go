package downloader

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"runtime"

	"github.com/sirupsen/logrus"
	"gocloud.dev/blob"
	"golang.org/x/sync/errgroup"

	"github.com/ukwa/wasget/internal/wasapi"
	"github.com/ukwa/wasget/internal/work"
)

// Options configures the worker pool.
type Options struct {
	// Workers is the number of parallel download workers.
	// Default: number of CPUs.
	Workers int

	// Credentials are attached to every download request.
	Credentials *wasapi.Credentials

	// HTTP configures each worker's session. Leave Timeout zero so
	// streaming large bodies is never cut off.
	HTTP wasapi.Options

	// Log receives one record per download attempt.
	Log *logrus.Logger
}

// Item is one file download task, owned by the queue until a worker
// claims it. Checksums ride along on the record but are not verified.
type Item struct {
	Record wasapi.FileRecord
}

// Outcome is the terminal result for one item. Exactly one Outcome is
// produced per item. Location is the mirror that served a successful
// download; Attempted lists every mirror tried when all of them failed.
type Outcome struct {
	Filename  string
	Location  string
	Attempted []string
	Message   string
}

// Failed reports whether the item ended without a successful download.
func (o Outcome) Failed() bool {
	return o.Location == ""
}

// Run drains q with a pool of workers, writing each file to bucket under
// its manifest filename, and returns every recorded outcome. It returns
// once all enqueued items have been acknowledged and all workers have
// exited. Per-item failures are reported in the outcomes, never as an
// error; the error covers only pool-level faults such as a canceled
// context.
func Run(ctx context.Context, q *work.Queue[Item], bucket *blob.Bucket, opts Options) ([]Outcome, error) {
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}

	sink := work.NewSink[Outcome]()

	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < opts.Workers; i++ {
		g.Go(func() error {
			// One authenticated session per worker, reused across
			// all of its downloads.
			session := wasapi.NewClient(opts.HTTP, opts.Credentials, opts.Log)
			for {
				item, ok := q.TryDequeue()
				if !ok {
					return nil
				}
				sink.Record(download(ctx, session, item, bucket, opts.Log))
				q.Acknowledge()

				if ctx.Err() != nil {
					return ctx.Err()
				}
			}
		})
	}

	// Join returns once every item has been acknowledged; Wait covers the
	// workers' own exits.
	if err := g.Wait(); err != nil {
		return sink.Drain(), err
	}
	q.Join()

	return sink.Drain(), nil
}

// download tries each mirror location in order and returns the item's
// single outcome. It emits one log record per attempt.
func download(ctx context.Context, session *wasapi.Client, item Item, bucket *blob.Bucket, log *logrus.Logger) Outcome {
	record := item.Record

	var attempted []string
	for _, location := range record.Locations {
		attempted = append(attempted, location)

		resp, err := session.Get(ctx, location)
		if err != nil {
			log.Errorf("%s: %v", location, err)
			continue
		}

		if resp.StatusCode != http.StatusOK {
			msg := fmt.Sprintf("%s: %d %s", location, resp.StatusCode, http.StatusText(resp.StatusCode))
			log.Error(msg)
			resp.Body.Close()
			continue
		}

		err = write(ctx, bucket, record.Filename, resp.Body)
		resp.Body.Close()
		if err != nil {
			// A local write fault is not mirror-specific; trying the
			// remaining locations would fail the same way.
			log.Errorf("%s: %v", location, err)
			break
		}

		msg := fmt.Sprintf("%s: %d %s", location, resp.StatusCode, http.StatusText(resp.StatusCode))
		log.Info(msg)
		return Outcome{
			Filename: record.Filename,
			Location: location,
			Message:  msg,
		}
	}

	msg := fmt.Sprintf("FAILED to download %s from %v", record.Filename, attempted)
	log.Error(msg)
	return Outcome{
		Filename:  record.Filename,
		Attempted: attempted,
		Message:   msg,
	}
}

// write streams body into bucket under key, overwriting any existing
// object. The body is never buffered whole.
func write(ctx context.Context, bucket *blob.Bucket, key string, body io.Reader) error {
	w, err := bucket.NewWriter(ctx, key, nil)
	if err != nil {
		return fmt.Errorf("open %s: %w", key, err)
	}

	if _, err := io.Copy(w, body); err != nil {
		w.Close()
		return fmt.Errorf("write %s: %w", key, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}
