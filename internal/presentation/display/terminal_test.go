package display

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/penwyp/go-deckview/internal/util"
)

func TestTerminalDisplay_AlternateScreen(t *testing.T) {
	var buf bytes.Buffer
	td := NewTerminalDisplay(&buf)

	td.EnterAlternateScreen()
	td.EnterAlternateScreen()
	assert.Equal(t, 1, strings.Count(buf.String(), util.EnterAltScreen))

	td.ExitAlternateScreen()
	td.ExitAlternateScreen()
	assert.Equal(t, 1, strings.Count(buf.String(), util.ExitAltScreen))
	assert.True(t, strings.HasSuffix(buf.String(), util.ExitAltScreen))
}

func TestTerminalDisplay_DrawFirstFrame(t *testing.T) {
	var buf bytes.Buffer
	td := NewTerminalDisplay(&buf)

	td.Draw([]string{"title", "row one"})

	assert.Equal(t, util.ClearScreen+util.MoveCursorHome+"title\nrow one\n", buf.String())
	assert.False(t, td.LastDraw().IsZero())
}

func TestTerminalDisplay_DrawOnlyChangedLines(t *testing.T) {
	var buf bytes.Buffer
	td := NewTerminalDisplay(&buf)
	td.Draw([]string{"title", "row one", "row two"})
	buf.Reset()

	td.Draw([]string{"title", "row ONE", "row two"})

	assert.Equal(t, "\033[2;1H"+util.ClearLine+"row ONE", buf.String())
}

func TestTerminalDisplay_DrawShorterFrameClearsRest(t *testing.T) {
	var buf bytes.Buffer
	td := NewTerminalDisplay(&buf)
	td.Draw([]string{"a", "b", "c"})
	buf.Reset()

	td.Draw([]string{"a"})

	assert.Equal(t, "\033[2;1H"+util.ClearToEnd, buf.String())
}

func TestTerminalDisplay_Invalidate(t *testing.T) {
	var buf bytes.Buffer
	td := NewTerminalDisplay(&buf)
	td.Draw([]string{"a"})
	td.Invalidate()
	buf.Reset()

	td.Draw([]string{"a"})

	assert.True(t, strings.HasPrefix(buf.String(), util.ClearScreen))
}

func TestTerminalDisplay_DrawStatus(t *testing.T) {
	var buf bytes.Buffer
	td := NewTerminalDisplay(&buf)

	td.DrawStatus("refreshed")

	assert.Contains(t, buf.String(), "  refreshed")
	assert.True(t, strings.HasPrefix(buf.String(), util.SaveCursor))
	assert.True(t, strings.HasSuffix(buf.String(), util.RestoreCursor))
}

func TestWrapText(t *testing.T) {
	assert.Empty(t, wrapText("", 10))
	assert.Equal(t, []string{"short"}, wrapText("short", 10))
	assert.Equal(t, []string{"one two", "three"}, wrapText("one two three", 8))
}
