package dutop

import (
	"context"
	"io/fs"
	"os"
	"sync/atomic"

	"emperror.dev/errors"
	"github.com/apex/log"
	"github.com/charlievieth/fastwalk"
)

// Size returns the number of bytes stored below path. Symbolic links are
// neither followed nor counted, and directories contribute only the size of
// their contents.
//
// A directory that cannot be opened at any depth aborts the walk with an error
// matching ErrOpenDir. Children whose metadata cannot be read are skipped.
func Size(ctx context.Context, path string) (int64, error) {
	return newCollector().size(ctx, path)
}

// size walks path and accounts every counted file in c.
//
//nolint:varnamelen // c is idiomatic for collector
func (c *collector) size(ctx context.Context, root string) (int64, error) {
	info, err := os.Lstat(root)
	if err != nil {
		return 0, &openError{path: root, err: err}
	}

	if !info.IsDir() {
		return 0, &openError{path: root, err: ErrNotDirectory}
	}

	// A single worker keeps the traversal sequential.
	conf := &fastwalk.Config{
		Follow:     false,
		NumWorkers: 1,
	}

	var total atomic.Int64

	//nolint:varnamelen // d is standard for DirEntry
	walkErr := fastwalk.Walk(conf, root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return &openError{path: path, err: err}
			}

			// Only a child that lstat confirms to be a directory is fatal.
			if info, lstatErr := os.Lstat(path); lstatErr == nil && info.IsDir() {
				return &openError{path: path, err: err}
			}

			log.WithField("path", path).WithError(err).Debug("skipping unreadable entry")
			c.addSkip()

			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if d.IsDir() || d.Type()&fs.ModeSymlink != 0 {
			return nil
		}

		fileInfo, err := d.Info()
		if err != nil {
			log.WithField("path", path).WithError(err).Debug("skipping entry without metadata")
			c.addSkip()

			return nil //nolint:nilerr // Intentionally skip per-child errors
		}

		total.Add(fileInfo.Size())
		c.addFile(fileInfo.Size())

		return nil
	})
	if walkErr != nil {
		return 0, errors.WithStack(walkErr)
	}

	return total.Load(), nil
}
