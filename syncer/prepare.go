package syncer

import (
	"fmt"
	"os"
	"path/filepath"
)

// DirError records a directory that could not be created.
type DirError struct {
	Path string
	Err  error
}

func (e *DirError) Error() string {
	return fmt.Sprintf("creating directory %s: %v", e.Path, e.Err)
}

func (e *DirError) Unwrap() error {
	return e.Err
}

// PrepareDirs makes sure dir exists, or dir/sub for every sub when subDirs
// is non-empty. Missing parents are created and existing directories are
// left alone. Every path is attempted; the failures are returned.
func PrepareDirs(dir string, subDirs []string) []*DirError {
	paths := []string{dir}
	if len(subDirs) > 0 {
		paths = paths[:0]
		for _, sub := range subDirs {
			paths = append(paths, filepath.Join(dir, sub))
		}
	}

	var errs []*DirError
	for _, p := range paths {
		if err := os.MkdirAll(p, 0755); err != nil {
			errs = append(errs, &DirError{Path: p, Err: err})
		}
	}
	return errs
}
