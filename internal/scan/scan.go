// Package scan walks a source tree and collects the image files picsort
// operates on.
package scan

import (
	"io/fs"
	"log/slog"
	"path/filepath"

	"picsort/internal/logging"
	"picsort/internal/metadata"
)

// Images walks root recursively and returns every file whose extension is on
// the image allow-list, in deterministic (lexical walk) order. Unreadable
// subtrees are logged and skipped; only a root that cannot be walked at all
// is an error.
func Images(root string, logger *slog.Logger) ([]string, error) {
	logger = logging.NewComponentLogger(logger, "scan")

	var files []string
	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			logger.Warn("skipping unreadable entry", logging.String("path", path), logging.Error(err))
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if metadata.IsSupported(path) {
			files = append(files, path)
		}
		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}
	return files, nil
}
