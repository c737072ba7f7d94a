package store

import (
	"context"
	"fmt"
	"sort"

	"github.com/penwyp/go-deckview/internal/core/model"
	"github.com/penwyp/go-deckview/internal/data/parser"
	"github.com/penwyp/go-deckview/internal/util"
)

// JSONLStore serves events from one or more JSONL event logs.
type JSONLStore struct {
	files  []string
	parser *parser.Parser
}

// NewJSONLStore creates a source over the given log files.
func NewJSONLStore(files []string, concurrency int) *JSONLStore {
	return &JSONLStore{
		files:  files,
		parser: parser.NewParser(concurrency),
	}
}

func (s *JSONLStore) records(ctx context.Context) ([]parser.Record, error) {
	var all []parser.Record
	for res := range s.parser.ParseFiles(s.files) {
		if res.Error != nil {
			return nil, fmt.Errorf("read event log %s: %w", res.File, res.Error)
		}
		all = append(all, res.Records...)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return all, nil
}

func (s *JSONLStore) LoadApps(ctx context.Context) ([]model.App, error) {
	records, err := s.records(ctx)
	if err != nil {
		return nil, err
	}

	names := make(map[uint32]string)
	for _, r := range records {
		if name, ok := names[r.AppID]; !ok || (name == "" && r.App != "") {
			names[r.AppID] = r.App
		}
	}

	apps := make([]model.App, 0, len(names))
	for id, name := range names {
		if name == "" {
			name = fmt.Sprintf("app-%d", id)
		}
		apps = append(apps, model.App{ID: id, Name: name})
	}
	sort.Slice(apps, func(i, j int) bool { return apps[i].ID < apps[j].ID })
	return apps, nil
}

func (s *JSONLStore) LoadEvents(ctx context.Context, appID uint32, start, stop int64) ([]model.Event, error) {
	records, err := s.records(ctx)
	if err != nil {
		return nil, err
	}

	var events []model.Event
	dropped := 0
	for _, r := range records {
		if r.AppID != appID || r.Timestamp < start || r.Timestamp >= stop {
			continue
		}
		kind, err := model.ParseEventKind(r.Kind)
		if err != nil {
			dropped++
			continue
		}
		events = append(events, model.Event{Timestamp: r.Timestamp, Kind: kind})
	}
	sort.SliceStable(events, func(i, j int) bool { return events[i].Timestamp < events[j].Timestamp })

	if dropped > 0 {
		util.LogDebug("Dropped events with unknown kind",
			util.F("app", appID),
			util.F("dropped", dropped))
	}
	return events, nil
}

func (s *JSONLStore) Files() []string {
	return s.files
}

func (s *JSONLStore) Close() error {
	return nil
}
