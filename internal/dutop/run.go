package dutop

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"emperror.dev/errors"
	"github.com/apex/log"
	"github.com/dustin/go-humanize"
)

// DefaultProgressInterval is the default interval for progress updates.
const DefaultProgressInterval = 500 * time.Millisecond

// childPath joins a base directory and an entry name with a single separator.
func childPath(base, name string) string {
	if strings.HasSuffix(base, string(filepath.Separator)) {
		return base + name
	}

	return base + string(filepath.Separator) + name
}

// startProgressReporter invokes hook(files, bytes) on each tick until ctx is done.
//
//nolint:varnamelen // c is idiomatic for collector
func startProgressReporter(ctx context.Context, c *collector, hook func(int64, int64), interval time.Duration) {
	if hook == nil {
		return
	}

	if interval <= 0 {
		interval = DefaultProgressInterval
	}

	ticker := time.NewTicker(interval)

	go func() {
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				hook(c.progress())
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Sweep measures every immediate subdirectory of opt.Path and returns the
// opt.TopN largest ones, sorted by size in descending order.
//
// Entries of the base that are not directories, including symbolic links, or
// whose metadata cannot be read are ignored. Subdirectories that measure zero
// bytes are counted in Report.Empty but never reported.
//
// If any subdirectory cannot be measured the sweep fails and no report is
// returned. Progress updates are sent to progressHook if provided.
func Sweep(ctx context.Context, opt Options, progressHook func(int64, int64)) (*Report, error) {
	if opt.TopN < 1 {
		return nil, errors.WithStack(ErrInvalidCount)
	}

	if opt.Path == "" {
		opt.Path = "."
	}

	if statInfo, err := os.Stat(opt.Path); err != nil {
		return nil, errors.WrapIff(err, "accessing path %q", opt.Path)
	} else if !statInfo.IsDir() {
		return nil, errors.WithMessagef(ErrNotDirectory, "path %q", opt.Path)
	}

	logger := log.WithFields(log.Fields{
		"base": opt.Path,
		"top":  opt.TopN,
	})

	children, err := os.ReadDir(opt.Path)
	if err != nil {
		return nil, errors.WithStack(&openError{path: opt.Path, err: err})
	}

	collector := newCollector()

	// Create child context to ensure progress reporter cleanup
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	startProgressReporter(ctx, collector, progressHook, opt.ProgressInterval)

	start := time.Now()

	for _, child := range children {
		path := childPath(opt.Path, child.Name())

		info, err := child.Info()
		if err != nil {
			logger.WithField("path", path).WithError(err).Debug("skipping entry without metadata")

			continue
		}

		if !info.IsDir() {
			continue
		}

		size, err := collector.size(ctx, path)
		if err != nil {
			return nil, errors.WrapIff(err, "computing size of %q", path)
		}

		logger.WithFields(log.Fields{
			"path": path,
			"size": humanize.Comma(size),
		}).Debug("measured subdirectory")

		collector.add(path, size)
	}

	report := collector.finalize(opt.Path, opt.TopN)
	report.Elapsed = time.Since(start)

	logger.WithFields(log.Fields{
		"measured": report.Measured,
		"empty":    report.Empty,
		"skipped":  report.Skipped,
		"files":    humanize.Comma(report.FileCount),
		"total":    humanize.IBytes(uint64(report.TotalBytes)), //nolint:gosec // Sizes are never negative
		"elapsed":  report.Elapsed,
	}).Debug("sweep finished")

	return report, nil
}
