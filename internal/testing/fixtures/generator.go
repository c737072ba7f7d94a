package fixtures

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/penwyp/go-deckview/internal/core/model"
)

// Schema is the tracker database layout the event store reads.
const Schema = `
CREATE TABLE IF NOT EXISTS objects (
	id   INTEGER PRIMARY KEY,
	name TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS events (
	object_id  INTEGER NOT NULL,
	timestamp  INTEGER NOT NULL,
	event_type INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS events_object_ts ON events(object_id, timestamp);
`

// Activity is the recorded history of one application.
type Activity struct {
	App    model.App
	Events []model.Event
}

// RawEvent is a row with an arbitrary kind code, for feeding invalid data.
type RawEvent struct {
	AppID     uint32
	Timestamp int64
	Code      int64
}

// logLine mirrors one line of a JSONL event log
type logLine struct {
	AppID     uint32 `json:"app_id"`
	App       string `json:"app"`
	Timestamp int64  `json:"ts"`
	Kind      int64  `json:"kind"`
}

// TestDataGenerator writes tracker databases and event logs under baseDir
type TestDataGenerator struct {
	baseDir string
}

// NewTestDataGenerator creates a new test data generator
func NewTestDataGenerator(baseDir string) *TestDataGenerator {
	return &TestDataGenerator{
		baseDir: baseDir,
	}
}

// GetBaseDir returns the directory files are written to.
func (g *TestDataGenerator) GetBaseDir() string {
	return g.baseDir
}

// CreateDatabase writes a tracker database holding the activities.
func (g *TestDataGenerator) CreateDatabase(name string, activities ...Activity) (string, error) {
	path := filepath.Join(g.baseDir, name)
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return "", err
	}
	defer db.Close()

	if _, err := db.Exec(Schema); err != nil {
		return "", fmt.Errorf("create schema: %w", err)
	}
	for _, a := range activities {
		if _, err := db.Exec(`INSERT INTO objects(id, name) VALUES (?, ?)`, a.App.ID, a.App.Name); err != nil {
			return "", fmt.Errorf("insert app %d: %w", a.App.ID, err)
		}
	}
	if err := insertEvents(db, activities); err != nil {
		return "", err
	}
	return path, nil
}

// AppendEvents adds events for an existing application to a database.
func (g *TestDataGenerator) AppendEvents(path string, appID uint32, events ...model.Event) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return err
	}
	defer db.Close()
	return insertEvents(db, []Activity{{App: model.App{ID: appID}, Events: events}})
}

// AppendRawEvents inserts rows verbatim, including invalid kind codes.
func (g *TestDataGenerator) AppendRawEvents(path string, rows ...RawEvent) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return err
	}
	defer db.Close()

	for _, r := range rows {
		if _, err := db.Exec(`INSERT INTO events(object_id, timestamp, event_type) VALUES (?, ?, ?)`,
			r.AppID, r.Timestamp, r.Code); err != nil {
			return fmt.Errorf("insert raw event: %w", err)
		}
	}
	return nil
}

func insertEvents(db *sql.DB, activities []Activity) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	stmt, err := tx.Prepare(`INSERT INTO events(object_id, timestamp, event_type) VALUES (?, ?, ?)`)
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	defer stmt.Close()

	for _, a := range activities {
		for _, e := range a.Events {
			if _, err := stmt.Exec(a.App.ID, e.Timestamp, int64(e.Kind)); err != nil {
				_ = tx.Rollback()
				return fmt.Errorf("insert event for app %d: %w", a.App.ID, err)
			}
		}
	}
	return tx.Commit()
}

// WriteEventLog writes the activities as a JSONL event log.
func (g *TestDataGenerator) WriteEventLog(name string, activities ...Activity) (string, error) {
	path := filepath.Join(g.baseDir, name)
	file, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	for _, a := range activities {
		for _, e := range a.Events {
			line := logLine{AppID: a.App.ID, App: a.App.Name, Timestamp: e.Timestamp, Kind: int64(e.Kind)}
			if err := encoder.Encode(line); err != nil {
				return "", err
			}
		}
	}
	return path, nil
}

// DailySessions builds a history with one working session per day starting
// at the given hour offsets: start at startHour, suspend for lunch, resume
// and stop at stopHour. Times are taken in day's location.
func DailySessions(app model.App, day time.Time, days int, startHour, stopHour int) Activity {
	var events []model.Event
	for d := 0; d < days; d++ {
		midnight := time.Date(day.Year(), day.Month(), day.Day()+d, 0, 0, 0, 0, day.Location())
		at := func(h, m int) int64 { return midnight.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute).Unix() }
		lunch := (startHour + stopHour) / 2
		events = append(events,
			model.Event{Timestamp: at(startHour, 0), Kind: model.KindStarted},
			model.Event{Timestamp: at(startHour, 30), Kind: model.KindRunning},
			model.Event{Timestamp: at(lunch, 0), Kind: model.KindSuspended},
			model.Event{Timestamp: at(lunch, 45), Kind: model.KindResumed},
			model.Event{Timestamp: at(stopHour, 0), Kind: model.KindStopped},
		)
	}
	return Activity{App: app, Events: events}
}
