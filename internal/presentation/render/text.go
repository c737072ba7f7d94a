package render

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/penwyp/go-deckview/internal/core/model"
	"github.com/penwyp/go-deckview/internal/util"
)

const (
	cellEmpty      = ' '
	cellBackground = '·'
	cellGuide      = '┊'
	cellForeground = '█'

	minTextColumns = 12
)

// TextRenderer rasterizes the chart onto terminal cells, one line per row.
type TextRenderer struct {
	// Width is the total line width; zero means the terminal width.
	Width int
	Color bool
}

func (r *TextRenderer) Render(w io.Writer, c *Chart) error {
	for _, line := range r.Lines(c) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// Lines returns the chart as terminal lines: title, one line per layout row,
// the guide axis and a summary.
func (r *TextRenderer) Lines(c *Chart) []string {
	width := r.Width
	if width <= 0 {
		width = util.TerminalWidth()
	}

	labelWidth := 0
	for _, l := range c.Labels {
		labelWidth = max(labelWidth, util.GetDisplayWidth(l.Text))
	}
	cols := max(width-labelWidth-1, minTextColumns)
	rows := max(c.Layout.Rows, 1)

	grid := make([][]rune, rows)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(string(cellEmpty), cols))
	}
	tr := NewTransform(UnitRect, Rect{MaxX: float64(cols - 1), MaxY: float64(rows - 1)})

	for _, seg := range c.Background {
		plot(grid, tr, seg, cellBackground)
	}
	for _, g := range c.Guides {
		plot(grid, tr, model.Seg(model.Pt(g.X, 0), model.Pt(g.X, 1)), cellGuide)
	}
	for _, seg := range c.Foreground {
		plot(grid, tr, seg, cellForeground)
	}

	rowLabels := make(map[int]string, len(c.Labels))
	for _, l := range c.Labels {
		_, y := tr.Apply(model.Pt(0, l.Y))
		rowLabels[int(math.Round(y))] = l.Text
	}

	lines := make([]string, 0, rows+3)
	title := c.Title
	if r.Color {
		title = util.FormatHeaderTitle(title)
	}
	lines = append(lines, title)

	for i, cells := range grid {
		label := util.PadString(rowLabels[i], labelWidth, false)
		lines = append(lines, label+" "+r.paint(cells))
	}

	lines = append(lines, strings.Repeat(" ", labelWidth+1)+guideAxis(c, tr, cols))
	lines = append(lines, summary(c))
	return lines
}

// plot marks every cell the segment passes through.
func plot(grid [][]rune, tr Transform, seg model.Segment, ch rune) {
	x0, y0 := tr.Apply(seg.Start())
	x1, y1 := tr.Apply(seg.End())

	steps := int(math.Ceil(math.Max(math.Abs(x1-x0), math.Abs(y1-y0))))
	for i := 0; i <= steps; i++ {
		t := 0.0
		if steps > 0 {
			t = float64(i) / float64(steps)
		}
		row := int(math.Round(y0 + (y1-y0)*t))
		col := int(math.Round(x0 + (x1-x0)*t))
		if row < 0 || row >= len(grid) || col < 0 || col >= len(grid[row]) {
			continue
		}
		if ch == cellGuide && grid[row][col] == cellForeground {
			continue
		}
		grid[row][col] = ch
	}
}

func (r *TextRenderer) paint(cells []rune) string {
	if !r.Color {
		return string(cells)
	}

	var sb strings.Builder
	for i := 0; i < len(cells); {
		j := i
		for j < len(cells) && cells[j] == cells[i] {
			j++
		}
		run := string(cells[i:j])
		switch cells[i] {
		case cellForeground:
			sb.WriteString(util.Colorize(run, util.ColorRed))
		case cellBackground, cellGuide:
			sb.WriteString(util.Colorize(run, util.ColorGray))
		default:
			sb.WriteString(run)
		}
		i = j
	}
	return sb.String()
}

// guideAxis places the guide labels centred under their columns.
func guideAxis(c *Chart, tr Transform, cols int) string {
	axis := []rune(strings.Repeat(" ", cols))
	for _, g := range c.Guides {
		x, _ := tr.Apply(model.Pt(g.X, 0))
		label := []rune(g.Label)
		start := int(math.Round(x)) - len(label)/2
		for i, ch := range label {
			if pos := start + i; pos >= 0 && pos < cols {
				axis[pos] = ch
			}
		}
	}
	return strings.TrimRight(string(axis), " ")
}

func summary(c *Chart) string {
	total := model.TotalDuration(c.Intervals)
	s := fmt.Sprintf("Active %s in %d sessions", util.FormatDuration(total), len(c.Intervals))
	if c.Open {
		s += ", one still running"
	}
	return s
}
