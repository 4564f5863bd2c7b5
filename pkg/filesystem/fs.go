package filesystem

import "io/fs"

// FS is the subset of filesystem operations xavr needs
type FS interface {
	Stat(name string) (fs.FileInfo, error)
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm fs.FileMode) error
	MkdirAll(path string, perm fs.FileMode) error
}

// IsRegularFile reports whether name exists on fsys and is a regular file
func IsRegularFile(fsys FS, name string) bool {
	info, err := fsys.Stat(name)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}
