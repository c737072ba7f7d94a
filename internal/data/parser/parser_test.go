package parser

import (
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeLog(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestNewParser(t *testing.T) {
	parser := NewParser(4)

	assert.Equal(t, 4, parser.concurrency)
	assert.Empty(t, parser.cache)

	assert.Equal(t, 1, NewParser(0).concurrency)
}

func TestParserParseFileValid(t *testing.T) {
	path := writeLog(t, t.TempDir(), "events.jsonl",
		`{"app_id":1,"app":"editor","ts":1700000000,"kind":1}
{"app_id":1,"app":"editor","ts":1700000600,"kind":2}
`)

	records, err := NewParser(1).ParseFile(path)

	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, Record{AppID: 1, App: "editor", Timestamp: 1700000000, Kind: 1}, records[0])
	assert.Equal(t, int64(2), records[1].Kind)
}

func TestParserParseFileSkipsInvalidLines(t *testing.T) {
	path := writeLog(t, t.TempDir(), "mixed.jsonl",
		`{"app_id":1,"ts":10,"kind":1}
not json

{"app_id":1,"ts":20,"kind":2}
{"app_id":1,"ts":`)

	records, err := NewParser(1).ParseFile(path)

	require.NoError(t, err, "invalid lines are skipped, not fatal")
	require.Len(t, records, 2)
	assert.Equal(t, int64(10), records[0].Timestamp)
	assert.Equal(t, int64(20), records[1].Timestamp)
}

func TestParserParseFileEmpty(t *testing.T) {
	path := writeLog(t, t.TempDir(), "empty.jsonl", "")

	records, err := NewParser(1).ParseFile(path)

	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestParserParseFileMissing(t *testing.T) {
	_, err := NewParser(1).ParseFile(filepath.Join(t.TempDir(), "missing.jsonl"))
	assert.Error(t, err)
}

func TestParserCacheInvalidatedOnChange(t *testing.T) {
	dir := t.TempDir()
	path := writeLog(t, dir, "events.jsonl", `{"app_id":1,"ts":10,"kind":1}`+"\n")
	parser := NewParser(1)

	first, err := parser.ParseFile(path)
	require.NoError(t, err)
	require.Len(t, first, 1)

	again, err := parser.ParseFile(path)
	require.NoError(t, err)
	assert.Equal(t, first, again)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0644)
	require.NoError(t, err)
	_, err = f.WriteString(`{"app_id":1,"ts":20,"kind":2}` + "\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())
	future := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(path, future, future))

	updated, err := parser.ParseFile(path)
	require.NoError(t, err)
	assert.Len(t, updated, 2)
}

func TestParserParseFiles(t *testing.T) {
	dir := t.TempDir()
	files := []string{
		writeLog(t, dir, "a.jsonl", `{"app_id":1,"ts":10,"kind":1}`),
		writeLog(t, dir, "b.jsonl", `{"app_id":2,"ts":20,"kind":1}`+"\n"+`{"app_id":2,"ts":30,"kind":2}`),
		filepath.Join(dir, "missing.jsonl"),
	}

	var got []ParseResult
	for res := range NewParser(2).ParseFiles(files) {
		got = append(got, res)
	}
	sort.Slice(got, func(i, j int) bool { return got[i].File < got[j].File })

	require.Len(t, got, 3)
	assert.NoError(t, got[0].Error)
	assert.Len(t, got[0].Records, 1)
	assert.NoError(t, got[1].Error)
	assert.Len(t, got[1].Records, 2)
	assert.Error(t, got[2].Error)
}
