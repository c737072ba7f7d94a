package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/penwyp/go-deckview/internal/core/model"
)

// ErrUnknownApp is returned when an application reference matches nothing.
var ErrUnknownApp = errors.New("unknown application")

// EventSource provides tracked applications and their lifecycle events.
type EventSource interface {
	// LoadApps lists the tracked applications ordered by id.
	LoadApps(ctx context.Context) ([]model.App, error)
	// LoadEvents returns the events of appID with start <= ts < stop,
	// ordered by timestamp.
	LoadEvents(ctx context.Context, appID uint32, start, stop int64) ([]model.Event, error)
	// Files lists the files backing the source, for change detection.
	Files() []string
	Close() error
}

// ResolveApp finds an application by numeric id or case-insensitive name.
// An empty reference selects the only application when there is exactly one.
func ResolveApp(apps []model.App, ref string) (model.App, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		if len(apps) == 1 {
			return apps[0], nil
		}
		return model.App{}, fmt.Errorf("%w: no application given, choose one of %s", ErrUnknownApp, appNames(apps))
	}

	if id, err := strconv.ParseUint(ref, 10, 32); err == nil {
		for _, app := range apps {
			if app.ID == uint32(id) {
				return app, nil
			}
		}
	}
	for _, app := range apps {
		if strings.EqualFold(app.Name, ref) {
			return app, nil
		}
	}
	return model.App{}, fmt.Errorf("%w: %q, choose one of %s", ErrUnknownApp, ref, appNames(apps))
}

func appNames(apps []model.App) string {
	if len(apps) == 0 {
		return "(none tracked)"
	}
	names := make([]string, len(apps))
	for i, app := range apps {
		names[i] = app.Name
	}
	return strings.Join(names, ", ")
}
