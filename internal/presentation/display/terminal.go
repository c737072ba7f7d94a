package display

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/penwyp/go-deckview/internal/util"
)

// TerminalDisplay owns the screen while the live chart runs.
type TerminalDisplay struct {
	out               io.Writer
	inAlternateScreen bool
	previousScreen    []string // Previous frame for differential updates
	isFirstRender     bool
	lastDraw          time.Time
}

func NewTerminalDisplay(out io.Writer) *TerminalDisplay {
	return &TerminalDisplay{
		out:           out,
		isFirstRender: true,
	}
}

// EnterAlternateScreen switches to alternate screen buffer
func (td *TerminalDisplay) EnterAlternateScreen() {
	if td.inAlternateScreen {
		return
	}
	fmt.Fprint(td.out, util.EnterAltScreen, util.ClearScreen, util.ClearScrollback,
		util.MoveCursorHome, util.HideCursor)
	td.inAlternateScreen = true
	td.isFirstRender = true
}

// ExitAlternateScreen returns to normal screen buffer
func (td *TerminalDisplay) ExitAlternateScreen() {
	if !td.inAlternateScreen {
		return
	}
	fmt.Fprint(td.out, util.ClearScreen, util.MoveCursorHome, util.ShowCursor, util.ExitAltScreen)
	td.inAlternateScreen = false
}

// Draw shows a frame. After the first frame only changed lines are rewritten
// so a selection in unchanged lines survives the refresh.
func (td *TerminalDisplay) Draw(lines []string) {
	var sb strings.Builder

	if td.isFirstRender {
		sb.WriteString(util.ClearScreen)
		sb.WriteString(util.MoveCursorHome)
		for _, line := range lines {
			sb.WriteString(line)
			sb.WriteString("\n")
		}
		td.isFirstRender = false
	} else {
		for i, line := range lines {
			if i < len(td.previousScreen) && td.previousScreen[i] == line {
				continue
			}
			// rows and columns are 1-based
			sb.WriteString(fmt.Sprintf("\033[%d;1H", i+1))
			sb.WriteString(util.ClearLine)
			sb.WriteString(line)
		}
		if len(lines) < len(td.previousScreen) {
			sb.WriteString(fmt.Sprintf("\033[%d;1H", len(lines)+1))
			sb.WriteString(util.ClearToEnd)
		}
	}

	td.previousScreen = append(td.previousScreen[:0], lines...)
	td.lastDraw = time.Now()
	io.WriteString(td.out, sb.String())
}

// Invalidate forces the next Draw to repaint the whole screen, e.g. after a
// terminal resize.
func (td *TerminalDisplay) Invalidate() {
	td.isFirstRender = true
	td.previousScreen = td.previousScreen[:0]
}

// DrawStatus writes a message on the last line without disturbing the frame.
func (td *TerminalDisplay) DrawStatus(message string) {
	fmt.Fprint(td.out, util.SaveCursor, "\033[999;1H", util.ClearLine)
	if lines := wrapText(message, util.TerminalWidth()-2); len(lines) > 0 {
		fmt.Fprintf(td.out, "  %s", lines[0])
	}
	fmt.Fprint(td.out, util.RestoreCursor)
}

// LastDraw returns when the last frame was drawn.
func (td *TerminalDisplay) LastDraw() time.Time {
	return td.lastDraw
}

// wrapText wraps text to fit within the specified width
func wrapText(text string, width int) []string {
	if text == "" {
		return []string{}
	}

	if len(text) <= width {
		return []string{text}
	}

	var lines []string
	words := strings.Fields(text)
	currentLine := ""

	for _, word := range words {
		if currentLine == "" {
			currentLine = word
		} else if len(currentLine)+1+len(word) <= width {
			currentLine += " " + word
		} else {
			lines = append(lines, currentLine)
			currentLine = word
		}
	}

	if currentLine != "" {
		lines = append(lines, currentLine)
	}

	return lines
}
