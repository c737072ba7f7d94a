package util

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// FileInfo identifies a version of a file: inode, size and modification time.
type FileInfo struct {
	ModTime int64  // Last modification time, unix seconds
	Size    int64  // File size in bytes
	Inode   uint64 // Inode number
}

// GetFileInfo stats path. Supported on Linux and macOS.
func GetFileInfo(path string) (*FileInfo, error) {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	sec, _ := st.Mtim.Unix()
	return &FileInfo{
		ModTime: sec,
		Size:    st.Size,
		Inode:   uint64(st.Ino),
	}, nil
}

// Same reports whether two infos describe the same file version.
func (fi *FileInfo) Same(other *FileInfo) bool {
	return fi != nil && other != nil && *fi == *other
}
