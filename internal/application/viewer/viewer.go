package viewer

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/penwyp/go-deckview/internal/config"
	"github.com/penwyp/go-deckview/internal/core/model"
	"github.com/penwyp/go-deckview/internal/core/session"
	"github.com/penwyp/go-deckview/internal/core/timeline"
	"github.com/penwyp/go-deckview/internal/data/cache"
	"github.com/penwyp/go-deckview/internal/data/store"
	"github.com/penwyp/go-deckview/internal/presentation/formatter"
	"github.com/penwyp/go-deckview/internal/presentation/render"
	"github.com/penwyp/go-deckview/internal/util"
)

// Request selects what to show.
type Request struct {
	// App is an application id or name; empty picks the only one.
	App string
	// From and To are calendar dates, both shown in full.
	From time.Time
	To   time.Time
	// Period is the time covered by one row; zero uses the configured period.
	Period time.Duration
	// IncludeOpen closes a still running session at min(now, window stop).
	IncludeOpen bool
}

// Sessions is the extraction result for one request.
type Sessions struct {
	App       model.App
	Start     int64
	Stop      int64
	Events    int
	Scan      session.Result
	Intervals []model.Interval
	// Closed is set when Intervals includes the running session.
	Closed    bool
	FromCache bool
}

// Viewer runs the pipeline from the event source to a rendered chart.
type Viewer struct {
	source  store.EventSource
	cache   cache.Cache
	cfg     *config.Config
	builder *timeline.TimelineBuilder
	color   bool
	now     func() time.Time
}

// New creates a viewer. The cache may be nil.
func New(source store.EventSource, c cache.Cache, cfg *config.Config) *Viewer {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Viewer{
		source:  source,
		cache:   c,
		cfg:     cfg,
		builder: timeline.NewTimelineBuilder(cfg.Timezone),
		now:     time.Now,
	}
}

// SetColor enables ANSI colors in the text renderer.
func (v *Viewer) SetColor(color bool) {
	v.color = color
}

// Location returns the timezone dates are interpreted in.
func (v *Viewer) Location() *time.Location {
	return v.builder.Location()
}

// Apps lists the tracked applications.
func (v *Viewer) Apps(ctx context.Context) ([]model.App, error) {
	apps, err := v.source.LoadApps(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load applications: %w", err)
	}
	return apps, nil
}

// Sessions resolves the application and window and extracts the sessions.
func (v *Viewer) Sessions(ctx context.Context, req Request) (*Sessions, error) {
	// Phase 1: resolve application
	phase := time.Now()
	apps, err := v.Apps(ctx)
	if err != nil {
		return nil, err
	}
	app, err := store.ResolveApp(apps, req.App)
	if err != nil {
		return nil, err
	}
	logPhase("resolve", phase, util.F("app", app.Name))

	// Phase 2: window
	start, stop, err := v.builder.Window(req.From, req.To)
	if err != nil {
		return nil, err
	}

	// Phase 3: load and scan, cache aware
	phase = time.Now()
	res := &Sessions{App: app, Start: start, Stop: stop}
	if err := v.scan(ctx, res); err != nil {
		return nil, err
	}
	logPhase("scan", phase,
		util.F("events", res.Events),
		util.F("sessions", len(res.Scan.Intervals)),
		util.F("cached", res.FromCache))

	// Phase 4: open-session policy
	res.Intervals = res.Scan.Intervals
	if req.IncludeOpen && res.Scan.Open {
		closeAt := min(v.now().Unix(), stop)
		res.Intervals = res.Scan.CloseOpen(closeAt)
		res.Closed = true
	}
	return res, nil
}

func (v *Viewer) scan(ctx context.Context, res *Sessions) error {
	key := cache.Key{
		Source: cache.SourceID(v.source.Files()),
		AppID:  res.App.ID,
		Start:  res.Start,
		Stop:   res.Stop,
	}
	if v.cache != nil {
		if hit := v.cache.Get(key); hit.Found {
			res.Events = hit.Entry.Events
			res.Scan = hit.Entry.Result
			res.FromCache = true
			return nil
		} else {
			util.LogDebug("Session cache miss", util.F("key", key.String()), util.F("reason", hit.MissReason.String()))
		}
	}

	events, err := v.source.LoadEvents(ctx, res.App.ID, res.Start, res.Stop)
	if err != nil {
		return fmt.Errorf("failed to load events: %w", err)
	}
	res.Events = len(events)
	res.Scan = session.Scan(events, res.Start)

	if v.cache != nil {
		entry := &cache.Entry{Events: res.Events, Result: res.Scan}
		if err := v.cache.Set(key, entry, v.source.Files()); err != nil {
			util.LogWarnf("Failed to cache sessions for %s: %v", key, err)
		}
	}
	return nil
}

// Load runs the whole pipeline and returns the chart.
func (v *Viewer) Load(ctx context.Context, req Request) (*render.Chart, error) {
	sessions, err := v.Sessions(ctx, req)
	if err != nil {
		return nil, err
	}
	return v.Build(sessions, req.Period)
}

// Build turns extracted sessions into chart geometry.
func (v *Viewer) Build(s *Sessions, period time.Duration) (*render.Chart, error) {
	if period == 0 {
		period = v.cfg.Period
	}

	phase := time.Now()
	layout, err := v.builder.LayoutFor(s.Start, s.Stop, period)
	if err != nil {
		return nil, err
	}
	fg, skipped, err := v.builder.Foreground(s.Intervals, layout)
	if err != nil {
		return nil, err
	}
	bg, err := v.builder.Background(layout)
	if err != nil {
		return nil, err
	}
	if skipped > 0 {
		util.LogWarnf("Skipped %d sessions that could not be drawn", skipped)
	}

	loc := v.builder.Location()
	lastDay := time.Unix(s.Stop-1, 0).In(loc)
	chart := &render.Chart{
		Title: fmt.Sprintf("%s  %s .. %s", s.App.Name,
			time.Unix(s.Start, 0).In(loc).Format("2006-01-02"), lastDay.Format("2006-01-02")),
		App:        s.App,
		Start:      s.Start,
		Stop:       s.Stop,
		Layout:     layout,
		Intervals:  s.Intervals,
		Foreground: fg,
		Background: bg,
		Guides:     v.builder.ColumnGuides(period),
		Labels:     v.builder.RowLabels(layout),
		Open:       s.Scan.Open,
		Styles: map[string]render.Style{
			render.StyleForeground: {Color: v.cfg.Chart.Foreground, Width: v.cfg.Chart.ForegroundStroke},
			render.StyleBackground: {Color: v.cfg.Chart.Background, Width: v.cfg.Chart.BackgroundStroke},
		},
		Generated: v.now(),
	}
	logPhase("build", phase,
		util.F("rows", layout.Rows),
		util.F("segments", len(fg)),
		util.F("grid", len(bg)))
	return chart, nil
}

// Renderer returns the renderer for a format.
func (v *Viewer) Renderer(format render.Format) (render.Renderer, error) {
	switch format {
	case render.FormatSVG:
		return render.NewSVGRenderer(v.cfg.Chart.Width, v.cfg.Chart.Height), nil
	case render.FormatText:
		return &render.TextRenderer{Color: v.color}, nil
	case render.FormatJSON:
		return &render.JSONRenderer{Indent: true}, nil
	}
	return nil, fmt.Errorf("unknown chart format %q", format)
}

// Render writes the chart in the given format.
func (v *Viewer) Render(w io.Writer, chart *render.Chart, format render.Format) error {
	phase := time.Now()
	r, err := v.Renderer(format)
	if err != nil {
		return err
	}
	if err := r.Render(w, chart); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	logPhase("render", phase, util.F("format", string(format)))
	return nil
}

// Report converts extracted sessions into a listing.
func (v *Viewer) Report(s *Sessions) *formatter.SessionReport {
	return formatter.NewSessionReport(s.App, s.Start, s.Stop, s.Intervals, s.Closed, v.builder.Location())
}

func logPhase(name string, start time.Time, fields ...util.Field) {
	if !util.DebugEnabled() {
		return
	}
	fields = append([]util.Field{util.F("phase", name), util.F("duration", time.Since(start))}, fields...)
	util.LogDebug("Pipeline phase complete", fields...)
}
