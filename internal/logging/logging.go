package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Options configures the logging sink.
type Options struct {
	// Verbosity selects the level: 0 errors, 1 info, 2+ debug.
	Verbosity int

	// Path is the log file to append to. Empty means stderr.
	Path string
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// New creates the shared logger. The returned closer releases the log file,
// if any; callers close it after the run completes.
func New(opts Options) (*logrus.Logger, io.Closer, error) {
	var out io.Writer = os.Stderr
	var closer io.Closer = nopCloser{}

	if opts.Path != "" {
		f, err := os.OpenFile(opts.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		out = f
		closer = f
	}

	logger := logrus.New()
	logger.SetOutput(out)
	logger.SetLevel(level(opts.Verbosity))
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
		// Color codes would corrupt log files.
		DisableColors: opts.Path != "",
	})

	return logger, closer, nil
}

func level(verbosity int) logrus.Level {
	switch {
	case verbosity <= 0:
		return logrus.ErrorLevel
	case verbosity == 1:
		return logrus.InfoLevel
	default:
		return logrus.DebugLevel
	}
}
