package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"gocloud.dev/blob"
	"gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/gcsblob"
	_ "gocloud.dev/blob/s3blob"
	"golang.org/x/term"

	"github.com/ukwa/wasget/internal/bytefmt"
	"github.com/ukwa/wasget/internal/config"
	"github.com/ukwa/wasget/internal/downloader"
	"github.com/ukwa/wasget/internal/logging"
	"github.com/ukwa/wasget/internal/wasapi"
	"github.com/ukwa/wasget/internal/work"
)

// Exit codes
const (
	ExitSuccess        = 0
	ExitGeneralError   = 1
	ExitInvalidArgs    = 2
	ExitBadDestination = 3
	ExitManifestError  = 4
	ExitAuthRejected   = 5
	ExitLoggingError   = 6
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// multiFlag collects a repeatable string flag.
type multiFlag []string

func (m *multiFlag) String() string { return strings.Join(*m, ",") }

func (m *multiFlag) Set(v string) error {
	*m = append(*m, v)
	return nil
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("wasget", flag.ContinueOnError)
	fs.SetOutput(stderr)

	configPath := fs.String("config", "", "YAML configuration file")
	baseURI := fs.String("base-uri", "", "base URI for WASAPI access; default: "+config.DefaultBaseURI)
	destination := fs.String("destination", "", "location for storing downloaded files; default: .")
	user := fs.String("user", "", "username for API authentication (password is prompted)")
	logPath := fs.String("log", "", "file to which logging should be written")
	verbose := fs.Bool("v", false, "log verbosely (INFO)")
	veryVerbose := fs.Bool("vv", false, "log very verbosely (DEBUG)")
	workers := fs.Int("workers", 0, "number of downloading workers; default: number of CPUs")
	countOnly := fs.Bool("count", false, "print number of files for download and exit")
	sizeOnly := fs.Bool("size", false, "print count and total size of files and exit")

	var collections multiFlag
	fs.Var(&collections, "collection", "collection identifier (repeatable)")
	filename := fs.String("filename", "", "exact webdata filename to download")
	crawl := fs.String("crawl", "", "crawl job identifier")
	crawlTimeAfter := fs.String("crawl-time-after", "", "files created during a crawl job after this date")
	crawlTimeBefore := fs.String("crawl-time-before", "", "files created during a crawl job before this date")
	crawlStartAfter := fs.String("crawl-start-after", "", "files from crawl jobs starting after this date")
	crawlStartBefore := fs.String("crawl-start-before", "", "files from crawl jobs starting before this date")

	fs.Usage = func() {
		fmt.Fprintln(stderr, `Usage: wasget [options]

Download WARC files from a WASAPI access point with a pool of parallel
workers, trying each file's mirror locations in order.

Acceptable date/time formats for the query filters include:
  2017-01-01
  2017-01-01T12:34:56Z
  2017-01

Options:`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return ExitInvalidArgs
	}

	if *countOnly && *sizeOnly {
		fmt.Fprintln(stderr, "Error: -count and -size are mutually exclusive")
		fs.Usage()
		return ExitInvalidArgs
	}

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.LoadFromFile(*configPath)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return ExitInvalidArgs
		}
		cfg = loaded
	}
	if err := cfg.LoadFromEnv(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return ExitInvalidArgs
	}

	verbosity := 0
	if *verbose {
		verbosity = 1
	}
	if *veryVerbose {
		verbosity = 2
	}

	cfg = cfg.Merge(config.Config{
		BaseURI:     *baseURI,
		Destination: *destination,
		User:        *user,
		LogFile:     *logPath,
		Verbosity:   verbosity,
		Workers:     *workers,
		Query: wasapi.Query{
			Collections:      collections,
			Filename:         *filename,
			Crawl:            *crawl,
			CrawlTimeAfter:   *crawlTimeAfter,
			CrawlTimeBefore:  *crawlTimeBefore,
			CrawlStartAfter:  *crawlStartAfter,
			CrawlStartBefore: *crawlStartBefore,
		},
	})
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return ExitInvalidArgs
	}

	logger, logCloser, err := logging.New(logging.Options{
		Verbosity: cfg.Verbosity,
		Path:      cfg.LogFile,
	})
	if err != nil {
		fmt.Fprintf(stderr, "Could not open file for logging: %v\n", err)
		return ExitLoggingError
	}
	defer logCloser.Close()

	var creds *wasapi.Credentials
	if cfg.User != "" {
		password, err := promptPassword(stdin, stderr)
		if err != nil {
			fmt.Fprintf(stderr, "Error reading password: %v\n", err)
			return ExitGeneralError
		}
		creds = &wasapi.Credentials{User: cfg.User, Password: password}
	}

	ctx := context.Background()
	uri := cfg.Query.Encode(cfg.BaseURI)
	client := wasapi.NewClient(wasapi.Options{
		Timeout:             cfg.HTTP.Timeout,
		MaxIdleConnsPerHost: cfg.HTTP.MaxIdleConnsPerHost,
	}, creds, logger)

	switch {
	case *sizeOnly:
		count, total, err := client.TotalSize(ctx, uri)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return manifestExitCode(err)
		}
		fmt.Fprintf(stdout, "Number of Files: %d\n", count)
		fmt.Fprintf(stdout, "Size of Files: %s\n", bytefmt.FormatBytes(total))
		return ExitSuccess

	case *countOnly:
		count, err := client.CountFiles(ctx, uri)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return manifestExitCode(err)
		}
		fmt.Fprintf(stdout, "Number of Files: %d\n", count)
		return ExitSuccess

	default:
		return downloadAll(ctx, client, uri, cfg, creds, logger, stdout, stderr)
	}
}

// downloadAll populates the work queue from the full manifest, then drains
// it with the worker pool and prints the final report. Per-item failures
// appear in the report but do not change the exit code.
func downloadAll(ctx context.Context, client *wasapi.Client, uri string, cfg config.Config,
	creds *wasapi.Credentials, logger *logrus.Logger, stdout, stderr io.Writer) int {

	bucket, code := openDestination(ctx, cfg.Destination, stderr)
	if code != ExitSuccess {
		return code
	}
	defer bucket.Close()

	// Eager pagination: the queue holds the entire manifest before any
	// worker starts, so workers can treat an empty queue as completion.
	q := work.NewQueue[downloader.Item]()
	err := client.Walk(ctx, uri, func(f wasapi.FileRecord) error {
		q.Enqueue(downloader.Item{Record: f})
		return nil
	})
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return manifestExitCode(err)
	}

	total := q.Len()
	logger.Infof("%d files queued for download", total)

	outcomes, err := downloader.Run(ctx, q, bucket, downloader.Options{
		Workers:     cfg.Workers,
		Credentials: creds,
		HTTP: wasapi.Options{
			// No overall timeout on download sessions; see the
			// downloader package doc.
			MaxIdleConnsPerHost: cfg.HTTP.MaxIdleConnsPerHost,
		},
		Log: logger,
	})
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return ExitGeneralError
	}

	failures := 0
	for _, o := range outcomes {
		if o.Failed() {
			failures++
			fmt.Fprintln(stdout, o.Message)
		}
	}
	fmt.Fprintf(stdout, "Downloaded %d/%d files.\n", len(outcomes)-failures, total)

	return ExitSuccess
}

// manifestExitCode classifies a fatal manifest error.
func manifestExitCode(err error) int {
	if errors.Is(err, wasapi.ErrAuthRejected) {
		return ExitAuthRejected
	}
	return ExitManifestError
}

// openDestination opens the download destination. A plain path must be an
// existing writable directory and is opened through the file driver; a URL
// with a scheme (s3://, gs://) is opened through the registered drivers.
func openDestination(ctx context.Context, dest string, stderr io.Writer) (*blob.Bucket, int) {
	if strings.Contains(dest, "://") {
		bucket, err := blob.OpenBucket(ctx, dest)
		if err != nil {
			fmt.Fprintf(stderr, "Cannot open destination %s: %v\n", dest, err)
			return nil, ExitBadDestination
		}
		return bucket, ExitSuccess
	}

	info, err := os.Stat(dest)
	if err != nil || !info.IsDir() {
		fmt.Fprintf(stderr, "Cannot write to destination: %s\n", dest)
		return nil, ExitBadDestination
	}

	// Probe for writability up front; failing now beats failing after the
	// manifest walk.
	probe, err := os.CreateTemp(dest, ".wasget-probe-*")
	if err != nil {
		fmt.Fprintf(stderr, "Cannot write to destination: %s\n", dest)
		return nil, ExitBadDestination
	}
	probe.Close()
	os.Remove(probe.Name())

	// No .attrs sidecar files in the destination; keys map 1:1 to the
	// files the manifest names.
	bucket, err := fileblob.OpenBucket(dest, &fileblob.Options{Metadata: fileblob.MetadataDontWrite})
	if err != nil {
		fmt.Fprintf(stderr, "Cannot open destination %s: %v\n", dest, err)
		return nil, ExitBadDestination
	}
	return bucket, ExitSuccess
}

// promptPassword reads the password without echo when stdin is a terminal,
// falling back to a plain line read otherwise.
func promptPassword(stdin io.Reader, stderr io.Writer) (string, error) {
	fmt.Fprint(stderr, "Password: ")

	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		defer fmt.Fprintln(stderr)
		b, err := term.ReadPassword(int(f.Fd()))
		if err != nil {
			return "", err
		}
		return string(b), nil
	}

	line, err := bufio.NewReader(stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
