package viewer

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/robfig/cron/v3"

	"github.com/penwyp/go-deckview/internal/config"
	"github.com/penwyp/go-deckview/internal/presentation/display"
	"github.com/penwyp/go-deckview/internal/presentation/interaction"
	"github.com/penwyp/go-deckview/internal/presentation/render"
	"github.com/penwyp/go-deckview/internal/util"
)

// WatchRequest is a Request whose window follows the current day.
type WatchRequest struct {
	Request
	// Days is the number of days shown, ending today.
	Days int
}

// Watcher keeps a live terminal chart up to date. It redraws when the source
// files change and on a schedule so a running session keeps growing.
type Watcher struct {
	viewer   *Viewer
	req      WatchRequest
	schedule string
	display  *display.TerminalDisplay
	renderer *render.TextRenderer
	keys     <-chan interaction.KeyEvent

	// offset shifts the window back by whole days
	offset int

	refreshMutex sync.Mutex // Prevent overlapping refreshes
	afterRefresh func(*render.Chart, error)
}

// NewWatcher creates a watcher drawing to out.
func NewWatcher(v *Viewer, req WatchRequest, out io.Writer) *Watcher {
	if req.Days < 1 {
		req.Days = v.cfg.RangeDays
	}
	return &Watcher{
		viewer:   v,
		req:      req,
		schedule: v.cfg.Watch.Refresh,
		display:  display.NewTerminalDisplay(out),
		renderer: &render.TextRenderer{Color: v.color},
	}
}

// SetKeys attaches keyboard input. Without it the watcher runs until ctx is
// cancelled.
func (w *Watcher) SetKeys(keys <-chan interaction.KeyEvent) {
	w.keys = keys
}

// Run draws until ctx is cancelled or a quit key is pressed.
func (w *Watcher) Run(ctx context.Context) error {
	util.LogInfo("Starting live chart", util.F("schedule", w.schedule), util.F("days", w.req.Days))

	schedule, err := config.ParseSchedule(w.schedule)
	if err != nil {
		return fmt.Errorf("invalid refresh schedule %q: %w", w.schedule, err)
	}

	fw, err := NewFileWatcher(w.viewer.source.Files())
	if err != nil {
		return fmt.Errorf("failed to start file watcher: %w", err)
	}
	defer fw.Close()

	ticks := make(chan struct{}, 1)
	c := cron.New()
	c.Schedule(schedule, cron.FuncJob(func() {
		select {
		case ticks <- struct{}{}:
		default:
		}
	}))
	c.Start()
	defer c.Stop()

	w.display.EnterAlternateScreen()
	defer w.display.ExitAlternateScreen()

	w.refresh(ctx, "initial")

	for {
		select {
		case <-ctx.Done():
			util.LogInfo("Stopping live chart")
			return nil

		case event, ok := <-fw.Events():
			if !ok {
				return nil
			}
			util.LogDebug("Source changed", util.F("path", event.Path), util.F("op", event.Operation))
			w.refresh(ctx, "change")

		case <-ticks:
			w.refresh(ctx, "schedule")

		case key := <-w.keys:
			if key.IsQuit() {
				util.LogInfo("Stopping live chart")
				return nil
			}
			if w.handleKey(key) {
				w.refresh(ctx, "key")
			}
		}
	}
}

// handleKey applies a navigation key and reports whether a redraw is needed.
func (w *Watcher) handleKey(key interaction.KeyEvent) bool {
	switch key.Type {
	case interaction.KeyLeft:
		w.offset++
		return true
	case interaction.KeyRight:
		if w.offset == 0 {
			return false
		}
		w.offset--
		return true
	case interaction.KeyChar:
		switch key.Key {
		case 'r', 'R':
			return true
		case '+', '=':
			w.req.Days++
			return true
		case '-', '_':
			if w.req.Days <= 1 {
				return false
			}
			w.req.Days--
			return true
		case 't', 'T':
			w.offset = 0
			return true
		}
	}
	return false
}

// request returns the request with the window ending today, or offset days
// before today.
func (w *Watcher) request() Request {
	req := w.req.Request
	today := util.StartOfDay(w.viewer.now(), w.viewer.Location())
	today = today.AddDate(0, 0, -w.offset)
	req.To = today
	req.From = today.AddDate(0, 0, -(w.req.Days - 1))
	return req
}

func (w *Watcher) refresh(ctx context.Context, reason string) {
	w.refreshMutex.Lock()
	defer w.refreshMutex.Unlock()

	chart, err := w.viewer.Load(ctx, w.request())
	if err != nil {
		util.LogErrorf("Failed to refresh chart: %v", err)
		w.display.DrawStatus(fmt.Sprintf("refresh failed: %v", err))
	} else {
		w.display.Draw(w.renderer.Lines(chart))
		status := fmt.Sprintf("updated %s (%s)", w.viewer.now().In(w.viewer.Location()).Format("15:04:05"), reason)
		if w.keys != nil {
			status += "   q quit  r refresh  +/- days  \u2190/\u2192 scroll  t today"
		}
		w.display.DrawStatus(status)
	}

	if w.afterRefresh != nil {
		w.afterRefresh(chart, err)
	}
}
