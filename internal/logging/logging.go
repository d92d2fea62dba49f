package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/pipewatch/pipewatch/internal/config"
)

// New constructs a slog.Logger configured according to the provided settings.
// When cfg.Dir is set, records are written both to stdout and to a per-day
// file named "<job>_YYYYMMDD.log" under that directory; the returned closer
// releases the file.
func New(cfg config.LoggingConfig, job string) (*slog.Logger, io.Closer, error) {
	out := io.Writer(os.Stdout)
	closer := io.Closer(nopCloser{})

	if cfg.Dir != "" {
		if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("create log dir: %w", err)
		}

		name := fmt.Sprintf("%s_%s.log", job, time.Now().Format("20060102"))
		file, err := os.OpenFile(filepath.Join(cfg.Dir, name), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}

		out = io.MultiWriter(os.Stdout, file)
		closer = file
	}

	handler, err := buildHandler(cfg, out)
	if err != nil {
		closer.Close()
		return nil, nil, err
	}

	return slog.New(handler), closer, nil
}

func buildHandler(cfg config.LoggingConfig, out io.Writer) (slog.Handler, error) {
	opts := &slog.HandlerOptions{Level: cfg.Level}

	switch cfg.Format {
	case "json":
		return slog.NewJSONHandler(out, opts), nil
	case "text":
		return slog.NewTextHandler(out, opts), nil
	default:
		return nil, fmt.Errorf("unsupported log format: %s", cfg.Format)
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
