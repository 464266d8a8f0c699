package pipeline

import (
	"io"
	"io/fs"
	"path/filepath"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/digtower/pkg/errors"
)

// Discover returns every definition file under root in lexical order.
// Directories named excludeDir are skipped, as is skip itself (the output
// directory when it lives inside the project). A directory that cannot be
// read is logged and skipped; only an unreadable root is an error. A nil
// logger discards the warnings.
func Discover(root, ext, excludeDir, skip string, logger *log.Logger) ([]string, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	skipAbs, _ := filepath.Abs(skip)

	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			logger.Warn("skipping unreadable path", "path", path, "err", err)
			if d == nil || d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if path == root {
				return nil
			}
			if excludeDir != "" && d.Name() == excludeDir {
				return filepath.SkipDir
			}
			if skip != "" {
				if abs, _ := filepath.Abs(path); abs == skipAbs {
					return filepath.SkipDir
				}
			}
			return nil
		}
		if filepath.Ext(path) == ext {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "scan %s", root)
	}
	slices.Sort(files)
	return files, nil
}
