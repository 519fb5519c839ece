//go:build !unix

package fs

import (
	"io/fs"
	"path/filepath"
)

// fileID is the physical identity of a directory. Without inode numbers the
// fully resolved path stands in for it.
type fileID struct {
	path string
}

func identity(path string, _ fs.FileInfo) (fileID, bool) {
	real, err := filepath.EvalSymlinks(path)
	if err != nil {
		return fileID{}, false
	}
	return fileID{path: filepath.Clean(real)}, true
}
