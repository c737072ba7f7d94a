package scanner

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/penwyp/go-deckview/internal/util"
)

// FileScanner finds event logs below a directory
type FileScanner struct {
	baseDir string
	suffix  string
}

// NewFileScanner creates a scanner for *.jsonl files under baseDir.
func NewFileScanner(baseDir string) *FileScanner {
	return &FileScanner{
		baseDir: baseDir,
		suffix:  ".jsonl",
	}
}

// Scan walks the directory and returns all event log paths in lexical order.
// Unreadable entries are skipped.
func (s *FileScanner) Scan() ([]string, error) {
	start := time.Now()
	var files []string
	dirCount := 0
	totalCount := 0

	util.LogDebug(fmt.Sprintf("Start scanning directory: %s", s.baseDir))

	err := filepath.Walk(s.baseDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			util.LogDebug(fmt.Sprintf("Skip file (error): %s - %v", path, err))
			return nil
		}

		if info.IsDir() {
			dirCount++
			return nil
		}

		totalCount++
		if strings.HasSuffix(strings.ToLower(path), s.suffix) {
			files = append(files, path)
		}
		return nil
	})

	util.LogDebug(fmt.Sprintf("File scan completed: duration %v, scanned %d directories, %d files, found %d event logs",
		time.Since(start), dirCount, totalCount, len(files)))

	return files, err
}

// Expand resolves a list of files and directories into event log paths.
// Files are kept as given whatever their name; directories are scanned.
// Duplicates are dropped and the first occurrence wins.
func Expand(paths []string) ([]string, error) {
	var files []string
	seen := make(map[string]bool)
	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("event log %s: %w", path, err)
		}
		if !info.IsDir() {
			add(path)
			continue
		}

		found, err := NewFileScanner(path).Scan()
		if err != nil {
			return nil, err
		}
		sort.Strings(found)
		for _, f := range found {
			add(f)
		}
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("no event logs found in %s", strings.Join(paths, ", "))
	}
	return files, nil
}
