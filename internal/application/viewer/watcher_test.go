package viewer

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/penwyp/go-deckview/internal/core/model"
	"github.com/penwyp/go-deckview/internal/presentation/interaction"
	"github.com/penwyp/go-deckview/internal/presentation/render"
)

func TestFileWatcher_ReportsWatchedFilesOnly(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "deck.db")
	require.NoError(t, os.WriteFile(db, []byte("v1"), 0644))

	fw, err := NewFileWatcher([]string{db, db + "-wal"})
	require.NoError(t, err)
	defer fw.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(db+"-wal", []byte("frames"), 0644))

	select {
	case ev := <-fw.Events():
		assert.Equal(t, db+"-wal", ev.Path)
	case <-time.After(5 * time.Second):
		t.Fatal("no event for the appearing wal file")
	}
}

func TestWatcher_Request(t *testing.T) {
	env := newTestEnv(t, nil)
	w := NewWatcher(env.viewer, WatchRequest{Request: Request{App: "editor"}, Days: 3}, &bytes.Buffer{})

	req := w.request()

	assert.Equal(t, "editor", req.App)
	assert.Equal(t, march1, req.From)
	assert.Equal(t, at(2, 0, 0), req.To)
}

func TestWatcher_HandleKey(t *testing.T) {
	env := newTestEnv(t, nil)
	w := NewWatcher(env.viewer, WatchRequest{Request: Request{App: "editor"}, Days: 2}, &bytes.Buffer{})

	char := func(r rune) interaction.KeyEvent { return interaction.KeyEvent{Key: r, Type: interaction.KeyChar} }

	assert.False(t, w.handleKey(interaction.KeyEvent{Type: interaction.KeyRight}), "already at today")
	assert.True(t, w.handleKey(interaction.KeyEvent{Type: interaction.KeyLeft}))
	req := w.request()
	assert.Equal(t, march1, req.From)
	assert.Equal(t, at(1, 0, 0), req.To)

	assert.True(t, w.handleKey(char('+')))
	assert.Equal(t, 3, w.req.Days)
	assert.True(t, w.handleKey(char('-')))
	assert.True(t, w.handleKey(char('-')))
	assert.False(t, w.handleKey(char('-')), "at least one day")
	assert.Equal(t, 1, w.req.Days)

	assert.True(t, w.handleKey(char('t')))
	assert.Equal(t, at(2, 0, 0), w.request().To)
	assert.True(t, w.handleKey(char('r')))
	assert.False(t, w.handleKey(char('x')))
}

func TestWatcher_QuitKey(t *testing.T) {
	env := newTestEnv(t, nil)
	w := NewWatcher(env.viewer, WatchRequest{Request: Request{App: "editor"}, Days: 3}, &bytes.Buffer{})
	w.schedule = "@every 1h"

	keys := make(chan interaction.KeyEvent, 1)
	keys <- interaction.KeyEvent{Key: 'q', Type: interaction.KeyChar}
	w.SetKeys(keys)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	require.NoError(t, w.Run(ctx))
	assert.NoError(t, ctx.Err(), "returned on the key, not the timeout")
}

func TestWatcher_DefaultDays(t *testing.T) {
	env := newTestEnv(t, nil)
	w := NewWatcher(env.viewer, WatchRequest{}, &bytes.Buffer{})

	assert.Equal(t, 14, w.req.Days)
	assert.Equal(t, "@every 1m", w.schedule)
}

func TestWatcher_RedrawsOnChange(t *testing.T) {
	env := newTestEnv(t, nil)
	var out bytes.Buffer
	w := NewWatcher(env.viewer, WatchRequest{Request: Request{App: "editor"}, Days: 3}, &out)
	w.schedule = "@every 1h"

	charts := make(chan *render.Chart, 10)
	w.afterRefresh = func(c *render.Chart, err error) {
		assert.NoError(t, err)
		charts <- c
	}

	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		assert.NoError(t, w.Run(ctx))
	}()

	var initial *render.Chart
	select {
	case initial = <-charts:
	case <-time.After(5 * time.Second):
		t.Fatal("no initial draw")
	}
	assert.Len(t, initial.Intervals, 6)

	require.NoError(t, env.gen.AppendEvents(env.dbPath, editor.ID,
		model.Event{Timestamp: at(2, 18, 0).Unix(), Kind: model.KindStarted},
		model.Event{Timestamp: at(2, 19, 0).Unix(), Kind: model.KindStopped},
	))

	deadline := time.After(5 * time.Second)
	for updated := false; !updated; {
		select {
		case c := <-charts:
			updated = len(c.Intervals) == 7
		case <-deadline:
			t.Fatal("no redraw after the database changed")
		}
	}

	cancel()
	wg.Wait()

	assert.Contains(t, out.String(), "editor  2025-03-01 .. 2025-03-03")
	assert.Contains(t, out.String(), "updated 21:30:00")
}
