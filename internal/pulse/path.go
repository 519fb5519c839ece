package pulse

import "io/fs"

// Path is a validated scan root. Paths are created by
// FilesystemManager.Resolve, which makes the path absolute and checks that
// it names a directory.
type Path struct {
	absPath string
	info    fs.FileInfo
}

// NewPath creates a Path. Intended for FilesystemManager implementations.
func NewPath(absPath string, info fs.FileInfo) *Path {
	return &Path{absPath: absPath, info: info}
}

// String returns the absolute path.
func (p *Path) String() string {
	return p.absPath
}

// Info returns the stat info cached at resolution time.
func (p *Path) Info() fs.FileInfo {
	return p.info
}
