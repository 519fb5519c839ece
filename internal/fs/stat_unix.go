//go:build unix

package fs

import (
	"io/fs"
	"syscall"
)

// fileID is the physical identity of a directory.
type fileID struct {
	dev uint64
	ino uint64
}

// identity extracts device and inode numbers from a FileInfo.
func identity(_ string, info fs.FileInfo) (fileID, bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return fileID{}, false
	}
	return fileID{dev: uint64(stat.Dev), ino: uint64(stat.Ino)}, true
}
