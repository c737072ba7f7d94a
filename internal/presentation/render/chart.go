package render

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/penwyp/go-deckview/internal/core/model"
	"github.com/penwyp/go-deckview/internal/core/timeline"
)

// Format names an output format of the chart.
type Format string

const (
	FormatSVG  Format = "svg"
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatSVG, FormatText, FormatJSON:
		return f, nil
	}
	return "", fmt.Errorf("unknown chart format %q (want svg, text or json)", s)
}

// Style is the stroke of a group of segments.
type Style struct {
	Color string  `json:"color"`
	Width float64 `json:"width"`
}

// Chart is everything a renderer draws.
type Chart struct {
	Title      string           `json:"title"`
	App        model.App        `json:"app"`
	Start      int64            `json:"start"`
	Stop       int64            `json:"stop"`
	Layout     timeline.Layout  `json:"layout"`
	Intervals  []model.Interval `json:"intervals"`
	Foreground []model.Segment  `json:"foreground"`
	Background []model.Segment  `json:"background"`
	Guides     []timeline.Guide `json:"guides"`
	Labels     []timeline.Label `json:"labels"`
	Open       bool             `json:"open"`
	Styles     map[string]Style `json:"styles"`
	Generated  time.Time        `json:"generated"`
}

const (
	StyleForeground = "foreground"
	StyleBackground = "background"
)

// DefaultStyles are the red session strokes on a thin gray grid.
func DefaultStyles() map[string]Style {
	return map[string]Style{
		StyleForeground: {Color: "#ff0000", Width: 5},
		StyleBackground: {Color: "#a0a0a0", Width: 0.1},
	}
}

func (c *Chart) style(name string) Style {
	if s, ok := c.Styles[name]; ok {
		return s
	}
	return DefaultStyles()[name]
}

// Renderer writes a chart in one output format.
type Renderer interface {
	Render(w io.Writer, c *Chart) error
}
