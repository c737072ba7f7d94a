package cache

import (
	"errors"
	"fmt"
	"hash/crc32"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bytedance/sonic"

	"github.com/penwyp/go-deckview/internal/core/constants"
	"github.com/penwyp/go-deckview/internal/core/session"
	"github.com/penwyp/go-deckview/internal/util"
)

type CacheMissReason int

const (
	MissReasonNone CacheMissReason = iota
	MissReasonError
	MissReasonInode
	MissReasonSize
	MissReasonModTime
	MissReasonFingerprint
	MissReasonNoFingerprint
	MissReasonNotFound
	MissReasonAppeared
)

var missReasonNames = map[CacheMissReason]string{
	MissReasonNone:          "none",
	MissReasonError:         "error",
	MissReasonInode:         "inode",
	MissReasonSize:          "size",
	MissReasonModTime:       "modtime",
	MissReasonFingerprint:   "fingerprint",
	MissReasonNoFingerprint: "no_fingerprint",
	MissReasonNotFound:      "not_found",
	MissReasonAppeared:      "appeared",
}

func (r CacheMissReason) String() string {
	if name, ok := missReasonNames[r]; ok {
		return name
	}
	return fmt.Sprintf("reason(%d)", int(r))
}

// Key identifies an extraction: one application over one window of one
// event source.
type Key struct {
	// Source is the SourceID of the files the events are read from.
	Source string
	AppID  uint32
	Start  int64
	Stop   int64
}

func (k Key) String() string {
	if k.Source == "" {
		return fmt.Sprintf("%d-%d-%d", k.AppID, k.Start, k.Stop)
	}
	return fmt.Sprintf("%s-%d-%d-%d", k.Source, k.AppID, k.Start, k.Stop)
}

// SourceID identifies a set of source files independently of their order.
// Relative paths are made absolute first.
func SourceID(paths []string) string {
	abs := make([]string, len(paths))
	for i, p := range paths {
		if a, err := filepath.Abs(p); err == nil {
			p = a
		}
		abs[i] = filepath.Clean(p)
	}
	sort.Strings(abs)

	crc := crc32.NewIEEE()
	for _, p := range abs {
		crc.Write([]byte(p))
		crc.Write([]byte{0})
	}
	return fmt.Sprintf("%08x", crc.Sum32())
}

// SourceStamp records the version of a source file an entry was built from.
type SourceStamp struct {
	Path               string `json:"path"`
	Missing            bool   `json:"missing,omitempty"`
	Inode              uint64 `json:"inode"`
	FileSize           int64  `json:"file_size"`
	LastModified       int64  `json:"last_modified"`
	ContentFingerprint string `json:"content_fingerprint"`
}

// Entry is a cached extraction result.
type Entry struct {
	Key     string         `json:"key"`
	Events  int            `json:"events"`
	Result  session.Result `json:"result"`
	Sources []SourceStamp  `json:"sources"`
}

type CacheResult struct {
	Entry      *Entry
	Found      bool
	MissReason CacheMissReason
}

type Cache interface {
	Get(key Key) CacheResult
	Set(key Key, entry *Entry, sources []string) error
	Clear() error
	Preload() error
}

// FileCache keeps one JSON document per key under baseDir with an in-memory
// layer in front.
type FileCache struct {
	baseDir     string
	mu          sync.RWMutex
	memoryCache map[string]*Entry
}

func NewFileCache(baseDir string) (*FileCache, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, err
	}

	return &FileCache{
		baseDir:     baseDir,
		memoryCache: make(map[string]*Entry),
	}, nil
}

func (c *FileCache) path(id string) string {
	return filepath.Join(c.baseDir, id+".json")
}

func (c *FileCache) Get(key Key) CacheResult {
	id := key.String()

	c.mu.RLock()
	memEntry, exists := c.memoryCache[id]
	c.mu.RUnlock()

	if exists {
		if ret := validateEntry(memEntry); ret.cached {
			return CacheResult{Entry: memEntry, Found: true}
		} else {
			c.mu.Lock()
			delete(c.memoryCache, id)
			c.mu.Unlock()
			return CacheResult{MissReason: ret.reason}
		}
	}

	return c.getFromFile(id)
}

func (c *FileCache) getFromFile(id string) CacheResult {
	data, err := os.ReadFile(c.path(id))
	if err != nil {
		return CacheResult{MissReason: MissReasonNotFound}
	}

	var entry Entry
	if err := sonic.Unmarshal(data, &entry); err != nil {
		util.LogDebugf("Cache entry %s is corrupt: %v", id, err)
		return CacheResult{MissReason: MissReasonError}
	}

	if ret := validateEntry(&entry); !ret.cached {
		return CacheResult{MissReason: ret.reason}
	}

	c.mu.Lock()
	c.memoryCache[id] = &entry
	c.mu.Unlock()

	return CacheResult{Entry: &entry, Found: true}
}

type validateResult struct {
	cached bool
	reason CacheMissReason
}

func validateEntry(entry *Entry) validateResult {
	if len(entry.Sources) == 0 {
		return validateResult{cached: false, reason: MissReasonNoFingerprint}
	}
	for i := range entry.Sources {
		if ret := validateSource(&entry.Sources[i]); !ret.cached {
			return ret
		}
	}
	return validateResult{cached: true}
}

func validateSource(src *SourceStamp) validateResult {
	currentInfo, err := util.GetFileInfo(src.Path)
	if src.Missing {
		if err == nil {
			util.LogDebugf("Cache invalidated for %s: file appeared", src.Path)
			return validateResult{cached: false, reason: MissReasonAppeared}
		}
		return validateResult{cached: true}
	}
	if err != nil {
		util.LogDebugf("Cache validation failed for %s: unable to get file info: %v", src.Path, err)
		return validateResult{cached: false, reason: MissReasonError}
	}

	// Step 1: Check inode/size/modtime
	if currentInfo.Inode != src.Inode {
		util.LogDebugf("Cache invalidated for %s: inode changed (cached: %d, current: %d)",
			src.Path, src.Inode, currentInfo.Inode)
		return validateResult{cached: false, reason: MissReasonInode}
	}
	if currentInfo.Size != src.FileSize {
		util.LogDebugf("Cache invalidated for %s: size changed (cached: %d, current: %d)",
			src.Path, src.FileSize, currentInfo.Size)
		return validateResult{cached: false, reason: MissReasonSize}
	}
	if currentInfo.ModTime != src.LastModified {
		util.LogDebugf("Cache invalidated for %s: modtime changed (cached: %d, current: %d)",
			src.Path, src.LastModified, currentInfo.ModTime)
		return validateResult{cached: false, reason: MissReasonModTime}
	}

	// Step 2: Files untouched for a while skip the fingerprint check
	if time.Since(time.Unix(currentInfo.ModTime, 0)) > constants.CacheFingerprintSkipAge {
		return validateResult{cached: true}
	}

	// Step 3: Check content fingerprint
	if src.ContentFingerprint == "" {
		return validateResult{cached: false, reason: MissReasonNoFingerprint}
	}
	fingerprint, err := util.CalculateFileFingerprint(src.Path)
	if err != nil {
		util.LogDebugf("Cache invalidated for %s: unable to calculate fingerprint: %v", src.Path, err)
		return validateResult{cached: false, reason: MissReasonNoFingerprint}
	}
	if fingerprint != src.ContentFingerprint {
		util.LogDebugf("Cache invalidated for %s: fingerprint mismatch (cached: %s, current: %s)",
			src.Path, src.ContentFingerprint, fingerprint)
		return validateResult{cached: false, reason: MissReasonFingerprint}
	}
	return validateResult{cached: true}
}

func stampSource(path string) (SourceStamp, error) {
	info, err := util.GetFileInfo(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return SourceStamp{Path: path, Missing: true}, nil
		}
		return SourceStamp{}, err
	}

	stamp := SourceStamp{
		Path:         path,
		Inode:        info.Inode,
		FileSize:     info.Size,
		LastModified: info.ModTime,
	}
	if fingerprint, err := util.CalculateFileFingerprint(path); err == nil {
		stamp.ContentFingerprint = fingerprint
	}
	return stamp, nil
}

// Set stores entry, stamped with the current versions of the source files.
// Sources that do not exist are recorded as missing.
func (c *FileCache) Set(key Key, entry *Entry, sources []string) error {
	stamps := make([]SourceStamp, 0, len(sources))
	for _, src := range sources {
		stamp, err := stampSource(src)
		if err != nil {
			return fmt.Errorf("stamp cache source: %w", err)
		}
		stamps = append(stamps, stamp)
	}

	id := key.String()
	entry.Key = id
	entry.Sources = stamps

	data, err := sonic.MarshalIndent(entry, "", "  ")
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := os.WriteFile(c.path(id), data, 0644); err != nil {
		return err
	}
	c.memoryCache[id] = entry
	return nil
}

func (c *FileCache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.memoryCache = make(map[string]*Entry)

	files, err := c.listFiles()
	if err != nil {
		return err
	}
	for _, f := range files {
		if err := os.Remove(f); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}

func (c *FileCache) listFiles() ([]string, error) {
	entries, err := os.ReadDir(c.baseDir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(strings.ToLower(e.Name()), ".json") {
			files = append(files, filepath.Join(c.baseDir, e.Name()))
		}
	}
	return files, nil
}

// Preload reads every valid cache file into memory using a worker pool.
func (c *FileCache) Preload() error {
	cacheFiles, err := c.listFiles()
	if err != nil {
		return fmt.Errorf("failed to scan cache directory: %w", err)
	}
	if len(cacheFiles) == 0 {
		util.LogDebug("Cache directory is empty, skipping preload")
		return nil
	}

	numWorkers := min(runtime.NumCPU(), len(cacheFiles))

	filesChan := make(chan string, len(cacheFiles))
	resultsChan := make(chan preloadResult, len(cacheFiles))

	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go preloadWorker(filesChan, resultsChan, &wg)
	}
	for _, file := range cacheFiles {
		filesChan <- file
	}
	close(filesChan)

	go func() {
		wg.Wait()
		close(resultsChan)
	}()

	loaded, invalid, failed := 0, 0, 0

	c.mu.Lock()
	for result := range resultsChan {
		switch {
		case result.err != nil:
			failed++
			util.LogWarnf("Failed to preload cache file %s: %v", result.filePath, result.err)
		case validateEntry(result.entry).cached:
			c.memoryCache[result.id] = result.entry
			loaded++
		default:
			invalid++
		}
	}
	c.mu.Unlock()

	util.LogDebug("Cache preload complete",
		util.F("loaded", loaded),
		util.F("invalid", invalid),
		util.F("errors", failed),
		util.F("workers", numWorkers))
	return nil
}

type preloadResult struct {
	filePath string
	id       string
	entry    *Entry
	err      error
}

func preloadWorker(filesChan <-chan string, resultsChan chan<- preloadResult, wg *sync.WaitGroup) {
	defer wg.Done()

	for filePath := range filesChan {
		result := preloadResult{
			filePath: filePath,
			id:       strings.TrimSuffix(filepath.Base(filePath), ".json"),
		}

		data, err := os.ReadFile(filePath)
		if err != nil {
			result.err = err
			resultsChan <- result
			continue
		}

		var entry Entry
		if err := sonic.Unmarshal(data, &entry); err != nil {
			result.err = err
			resultsChan <- result
			continue
		}

		result.entry = &entry
		resultsChan <- result
	}
}

// GetCacheStats returns the number of entries in memory and on disk.
func (c *FileCache) GetCacheStats() (memoryCount, fileCount int) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	files, _ := c.listFiles()
	return len(c.memoryCache), len(files)
}
