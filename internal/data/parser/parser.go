package parser

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/bytedance/sonic"

	"github.com/penwyp/go-deckview/internal/util"
)

// Record is one line of an event log.
type Record struct {
	AppID     uint32 `json:"app_id"`
	App       string `json:"app"`
	Timestamp int64  `json:"ts"`
	Kind      int64  `json:"kind"`
}

// Parser reads JSONL event logs. Parsed files are cached until they change
// on disk.
type Parser struct {
	concurrency int
	mu          sync.Mutex
	cache       map[string]cachedFile
}

type cachedFile struct {
	info    *util.FileInfo
	records []Record
}

// ParseResult represents the result of parsing a single file.
type ParseResult struct {
	File    string
	Records []Record
	Error   error
}

// NewParser creates a new Parser instance.
func NewParser(concurrency int) *Parser {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Parser{
		concurrency: concurrency,
		cache:       make(map[string]cachedFile),
	}
}

// ParseFile parses the log at path. Lines that are blank or not valid JSON
// are skipped.
func (p *Parser) ParseFile(path string) ([]Record, error) {
	info, err := util.GetFileInfo(path)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	if cached, ok := p.cache[path]; ok && cached.info.Same(info) {
		p.mu.Unlock()
		return cached.records, nil
	}
	p.mu.Unlock()

	util.LogDebugf("Start parsing event log: %s", path)

	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var records []Record
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineCount := 0
	skipped := 0
	for scanner.Scan() {
		lineCount++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var rec Record
		if err := sonic.Unmarshal(line, &rec); err != nil {
			util.LogDebugf("Skip invalid JSON line %s:%d - %v", path, lineCount, err)
			skipped++
			continue
		}
		records = append(records, rec)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan %s: %w", path, err)
	}

	util.LogDebug("Parsed event log",
		util.F("file", path),
		util.F("records", len(records)),
		util.F("skipped", skipped))

	p.mu.Lock()
	p.cache[path] = cachedFile{info: info, records: records}
	p.mu.Unlock()

	return records, nil
}

// ParseFiles parses multiple files concurrently and returns a channel of ParseResult.
func (p *Parser) ParseFiles(files []string) <-chan ParseResult {
	start := time.Now()
	results := make(chan ParseResult, len(files))
	var wg sync.WaitGroup

	semaphore := make(chan struct{}, p.concurrency)

	for _, file := range files {
		wg.Add(1)
		go func(f string) {
			defer wg.Done()

			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			records, err := p.ParseFile(f)
			if err != nil {
				util.LogDebugf("Event log parsing failed: %s - %v", f, err)
			}
			results <- ParseResult{File: f, Records: records, Error: err}
		}(file)
	}

	go func() {
		wg.Wait()
		close(results)
		util.LogDebugf("Parsed %d event logs in %v", len(files), time.Since(start))
	}()

	return results
}
