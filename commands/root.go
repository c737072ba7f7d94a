package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/penwyp/go-deckview/internal/application/viewer"
	"github.com/penwyp/go-deckview/internal/config"
	"github.com/penwyp/go-deckview/internal/data/cache"
	"github.com/penwyp/go-deckview/internal/data/scanner"
	"github.com/penwyp/go-deckview/internal/data/store"
	"github.com/penwyp/go-deckview/internal/presentation/render"
	"github.com/penwyp/go-deckview/internal/util"
	"github.com/spf13/cobra"
)

var (
	// Logging related
	debug bool

	// Data sources
	dbPath     string
	eventLogs  []string
	configPath string
	timezone   string
	resetCache bool

	// Chart selection
	appRef      string
	fromDate    string
	toDate      string
	period      time.Duration
	includeOpen bool

	// Output related
	chartFormat string
	outPath     string

	rootCmd = &cobra.Command{
		Use:   "go-deckview [flags]",
		Short: "Application activity timeline viewer",
		Long: `go-deckview turns application lifecycle events into a wrapped timeline chart.

Each row of the chart covers one period (a day by default); a session that
crosses midnight continues on the next row.

Examples:
  go-deckview --app editor                              # Last 14 days as SVG on stdout
  go-deckview --app editor --from 2025-03-01 --to 2025-03-07 --out week.svg
  go-deckview --app 3 --format text --include-open      # Terminal chart, running session included
  go-deckview --app editor --period 6h --from -2d       # Four rows per day
  go-deckview --events a.jsonl --events b.jsonl --app editor --format json`,
		RunE: runChart,
	}
)

const (
	defaultLogFile    = "~/.go-deckview/logs/app.log"
	defaultConfigFile = "~/.go-deckview/config.yaml"
)

func init() {
	// Input data configuration
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "",
		"Path to the activity database (default from config, ./deck.db)")
	rootCmd.PersistentFlags().StringSliceVar(&eventLogs, "events", nil,
		"Read JSONL event logs or directories of them instead of the database (repeatable)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", defaultConfigFile,
		"Configuration file path")
	rootCmd.PersistentFlags().StringVar(&timezone, "timezone", "",
		"Timezone setting (e.g., Asia/Shanghai, UTC; default from config)")

	// Chart selection
	rootCmd.Flags().StringVarP(&appRef, "app", "a", "",
		"Application id or name (may be omitted when only one is tracked)")
	rootCmd.Flags().StringVar(&fromDate, "from", "",
		"First day shown (YYYY-MM-DD, today, yesterday, -Nd)")
	rootCmd.Flags().StringVar(&toDate, "to", "",
		"Last day shown, inclusive (default today)")
	rootCmd.Flags().DurationVar(&period, "period", 0,
		"Time covered by one row (default from config, 24h)")
	rootCmd.Flags().BoolVar(&includeOpen, "include-open", false,
		"Draw a still running session up to now")

	// Output configuration
	rootCmd.Flags().StringVarP(&chartFormat, "format", "f", "svg",
		"Chart format (svg, text, json)")
	rootCmd.Flags().StringVarP(&outPath, "out", "o", "",
		"Write the chart to a file instead of stdout")

	// System and debugging
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false,
		"Enable debug mode")
	rootCmd.PersistentFlags().BoolVarP(&resetCache, "reset-cache", "r", false,
		"Clear cache before loading")
}

// environment holds everything a command needs once flags are applied.
type environment struct {
	cfg    *config.Config
	source store.EventSource
	cache  *cache.FileCache
	viewer *viewer.Viewer
}

func (e *environment) Close() {
	if err := e.source.Close(); err != nil {
		util.LogWarn("Failed to close event source", util.F("error", err))
	}
}

func runChart(cmd *cobra.Command, args []string) error {
	format, err := render.ParseFormat(chartFormat)
	if err != nil {
		return err
	}

	env, err := setup(cmd.Context())
	if err != nil {
		return err
	}
	defer env.Close()

	req, err := chartRequest(env.cfg)
	if err != nil {
		return err
	}

	var out io.Writer = cmd.OutOrStdout()
	if outPath != "" {
		f, err := os.Create(expandPath(outPath))
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		out = f
	} else {
		env.viewer.SetColor(util.IsTerminal())
	}

	chart, err := env.viewer.Load(cmd.Context(), req)
	if err != nil {
		return err
	}
	if err := env.viewer.Render(out, chart, format); err != nil {
		return err
	}
	if outPath != "" {
		util.LogInfo("Chart written", util.F("path", outPath), util.F("format", string(format)))
	}
	return nil
}

// setup initializes logging, configuration, the event source and the cache.
func setup(ctx context.Context) (*environment, error) {
	// Determine log level based on debug flag
	logLevel := "info"
	if debug {
		logLevel = "debug"
	}

	// Initialize logging
	logFile := expandPath(defaultLogFile)
	if err := ensureDir(filepath.Dir(logFile)); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	if err := util.InitLogger(logLevel, logFile, debug); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if err := util.InitializeTimeProvider(cfg.Timezone); err != nil {
		return nil, err
	}

	source, err := openSource(ctx, cfg)
	if err != nil {
		return nil, err
	}

	fc, err := openCache(cfg.CacheDir)
	if err != nil {
		source.Close()
		return nil, err
	}

	return &environment{
		cfg:    cfg,
		source: source,
		cache:  fc,
		viewer: viewer.New(source, fc, cfg),
	}, nil
}

// loadConfig reads the config file and applies flag overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(expandPath(configPath))
	if err != nil {
		return nil, err
	}
	if dbPath != "" {
		cfg.Database = dbPath
	}
	if timezone != "" {
		cfg.Timezone = timezone
	}
	if period != 0 {
		cfg.Period = period
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.Database = expandPath(cfg.Database)
	cfg.CacheDir = expandPath(cfg.CacheDir)
	return cfg, nil
}

func openSource(ctx context.Context, cfg *config.Config) (store.EventSource, error) {
	if len(eventLogs) > 0 {
		paths := make([]string, len(eventLogs))
		for i, f := range eventLogs {
			paths[i] = expandPath(f)
		}
		files, err := scanner.Expand(paths)
		if err != nil {
			return nil, err
		}
		util.LogDebug("Reading event logs", util.F("files", len(files)))
		return store.NewJSONLStore(files, runtime.NumCPU()), nil
	}
	return store.OpenSQLite(ctx, cfg.Database)
}

func openCache(dir string) (*cache.FileCache, error) {
	// Ensure cache directory exists
	if err := ensureDir(dir); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return nil, err
	}

	// Clear cache if needed
	if resetCache {
		if err := fc.Clear(); err != nil {
			return nil, fmt.Errorf("failed to clear cache: %w", err)
		}
		util.LogInfo("Cache cleared")
		return fc, nil
	}

	if err := fc.Preload(); err != nil {
		util.LogWarn("Failed to preload cache", util.F("error", err))
	}
	memory, files := fc.GetCacheStats()
	util.LogDebug("Cache ready", util.F("dir", dir), util.F("memory", memory), util.F("files", files))
	return fc, nil
}

// chartRequest builds the request from the selection flags. Without --from
// the window ends on --to and spans the configured number of days.
func chartRequest(cfg *config.Config) (viewer.Request, error) {
	tp := util.GetTimeProvider()

	to, err := tp.ParseDate(toDate)
	if err != nil {
		return viewer.Request{}, err
	}

	from := to.AddDate(0, 0, -(cfg.RangeDays - 1))
	if fromDate != "" {
		if from, err = tp.ParseDate(fromDate); err != nil {
			return viewer.Request{}, err
		}
	}
	if to.Before(from) {
		return viewer.Request{}, fmt.Errorf("--to %s is before --from %s",
			to.Format("2006-01-02"), from.Format("2006-01-02"))
	}

	return viewer.Request{
		App:         appRef,
		From:        from,
		To:          to,
		Period:      cfg.Period,
		IncludeOpen: includeOpen,
	}, nil
}

func Execute() error {
	return rootCmd.Execute()
}

// Helper functions

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path[2:])
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return absPath
}

func ensureDir(dir string) error {
	return os.MkdirAll(dir, 0755)
}
