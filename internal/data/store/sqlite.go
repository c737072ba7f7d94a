package store

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/penwyp/go-deckview/internal/core/model"
	"github.com/penwyp/go-deckview/internal/util"
)

const (
	queryApps   = `SELECT id, name FROM objects ORDER BY id`
	queryEvents = `SELECT timestamp, event_type FROM events
		WHERE object_id = ? AND ? <= timestamp AND timestamp < ?
		ORDER BY timestamp, rowid`
)

// SQLiteStore reads the tracker database. The database is opened read-only;
// the tracker owns it.
type SQLiteStore struct {
	path string
	db   *sql.DB
}

// OpenSQLite opens the tracker database at path.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("open event database: %w", err)
	}

	db, err := sql.Open("sqlite", sqliteDSN(path))
	if err != nil {
		return nil, fmt.Errorf("open event database %s: %w", path, err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("open event database %s: %w", path, err)
	}

	util.LogDebugf("Opened event database: %s", path)
	return &SQLiteStore{path: path, db: db}, nil
}

// sqliteDSN builds a read-only URI for path. The path is escaped so that '?'
// and '#' in file names are not taken as query or fragment.
func sqliteDSN(path string) string {
	u := url.URL{
		Scheme:   "file",
		Path:     filepath.ToSlash(path),
		RawQuery: "mode=ro&_pragma=busy_timeout(5000)",
	}
	return u.String()
}

func (s *SQLiteStore) LoadApps(ctx context.Context) ([]model.App, error) {
	rows, err := s.db.QueryContext(ctx, queryApps)
	if err != nil {
		return nil, fmt.Errorf("query apps: %w", err)
	}
	defer rows.Close()

	var apps []model.App
	for rows.Next() {
		var app model.App
		if err := rows.Scan(&app.ID, &app.Name); err != nil {
			return nil, fmt.Errorf("scan app: %w", err)
		}
		apps = append(apps, app)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query apps: %w", err)
	}
	return apps, nil
}

func (s *SQLiteStore) LoadEvents(ctx context.Context, appID uint32, start, stop int64) ([]model.Event, error) {
	rows, err := s.db.QueryContext(ctx, queryEvents, appID, start, stop)
	if err != nil {
		return nil, fmt.Errorf("query events of app %d: %w", appID, err)
	}
	defer rows.Close()

	var events []model.Event
	dropped := 0
	for rows.Next() {
		var ts, code int64
		if err := rows.Scan(&ts, &code); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		kind, err := model.ParseEventKind(code)
		if err != nil {
			dropped++
			continue
		}
		events = append(events, model.Event{Timestamp: ts, Kind: kind})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query events of app %d: %w", appID, err)
	}

	if dropped > 0 {
		util.LogDebug("Dropped events with unknown kind",
			util.F("app", appID),
			util.F("dropped", dropped))
	}
	return events, nil
}

// Files returns the database and its write-ahead log.
func (s *SQLiteStore) Files() []string {
	return []string{s.path, s.path + "-wal"}
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
