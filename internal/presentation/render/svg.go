package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/penwyp/go-deckview/internal/core/model"
)

const guideColor = "#606060"

// SVGRenderer draws the chart as a standalone SVG document.
type SVGRenderer struct {
	Width      int
	Height     int
	FontFamily string
	FontSize   int
}

// NewSVGRenderer creates a renderer for a width x height pixel canvas.
func NewSVGRenderer(width, height int) *SVGRenderer {
	return &SVGRenderer{
		Width:      width,
		Height:     height,
		FontFamily: "sans-serif",
		FontSize:   11,
	}
}

func (r *SVGRenderer) Render(w io.Writer, c *Chart) error {
	_, err := io.WriteString(w, r.document(c))
	return err
}

func (r *SVGRenderer) document(c *Chart) string {
	tr := NewTransform(ViewRect, Rect{MaxX: float64(r.Width), MaxY: float64(r.Height)})

	var svg strings.Builder
	svg.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg width="%d" height="%d" viewBox="0 0 %d %d" xmlns="http://www.w3.org/2000/svg">
<title>%s</title>
<rect width="100%%" height="100%%" fill="#ffffff"/>
`, r.Width, r.Height, r.Width, r.Height, escapeXML(c.Title)))

	bg := c.style(StyleBackground)
	svg.WriteString(fmt.Sprintf(`<g class="background" stroke="%s" stroke-width="%s">`+"\n",
		escapeXML(bg.Color), num(bg.Width)))
	for _, seg := range c.Background {
		writeLine(&svg, tr, seg)
	}
	svg.WriteString("</g>\n")

	svg.WriteString(fmt.Sprintf(`<g class="guides" stroke="%s" stroke-width="1" stroke-dasharray="4 4">`+"\n", guideColor))
	for _, g := range c.Guides {
		writeLine(&svg, tr, model.Seg(model.Pt(g.X, 0), model.Pt(g.X, 1)))
	}
	svg.WriteString("</g>\n")

	svg.WriteString(fmt.Sprintf(`<g class="guide-labels" font-family="%s" font-size="%d" fill="%s" text-anchor="middle">`+"\n",
		escapeXML(r.FontFamily), r.FontSize, guideColor))
	for _, g := range c.Guides {
		x, y := tr.Apply(model.Pt(g.X, 1))
		svg.WriteString(fmt.Sprintf(`<text x="%s" y="%s">%s</text>`+"\n",
			num(x), num(y+float64(r.FontSize)+2), escapeXML(g.Label)))
	}
	svg.WriteString("</g>\n")

	svg.WriteString(fmt.Sprintf(`<g class="row-labels" font-family="%s" font-size="%d" fill="#000000" text-anchor="end">`+"\n",
		escapeXML(r.FontFamily), r.FontSize))
	for _, l := range c.Labels {
		x, y := tr.Apply(model.Pt(-0.005, l.Y))
		svg.WriteString(fmt.Sprintf(`<text x="%s" y="%s">%s</text>`+"\n",
			num(x), num(y+float64(r.FontSize)/3), escapeXML(l.Text)))
	}
	svg.WriteString("</g>\n")

	fg := c.style(StyleForeground)
	svg.WriteString(fmt.Sprintf(`<g class="foreground" stroke="%s" stroke-width="%s" stroke-linecap="butt">`+"\n",
		escapeXML(fg.Color), num(fg.Width)))
	for _, seg := range c.Foreground {
		writeLine(&svg, tr, seg)
	}
	svg.WriteString("</g>\n")

	svg.WriteString("</svg>\n")
	return svg.String()
}

func writeLine(svg *strings.Builder, tr Transform, seg model.Segment) {
	x1, y1 := tr.Apply(seg.Start())
	x2, y2 := tr.Apply(seg.End())
	svg.WriteString(fmt.Sprintf(`<line x1="%s" y1="%s" x2="%s" y2="%s"/>`+"\n", num(x1), num(y1), num(x2), num(y2)))
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func escapeXML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, "\"", "&quot;")
	s = strings.ReplaceAll(s, "'", "&apos;")
	return s
}
