package formatter

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/penwyp/go-deckview/internal/core/model"
	"github.com/penwyp/go-deckview/internal/util"
)

const timeLayout = "2006-01-02 15:04:05"

type TableFormatter struct {
	style table.Style
}

func NewTableFormatter() *TableFormatter {
	style := table.StyleRounded
	style.Format.Header = text.FormatDefault
	style.Format.Footer = text.FormatDefault
	return &TableFormatter{style: style}
}

func (f *TableFormatter) newWriter() table.Writer {
	t := table.NewWriter()
	t.SetStyle(f.style)
	return t
}

func (f *TableFormatter) Format(w io.Writer, report *SessionReport) error {
	t := f.newWriter()
	t.SetTitle(fmt.Sprintf("%s  %s .. %s", report.App.Name,
		report.From.Format("2006-01-02"), report.To.Format("2006-01-02")))
	t.AppendHeader(table.Row{"#", "START", "STOP", "DURATION"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight, AlignFooter: text.AlignRight},
	})

	for _, s := range report.Sessions {
		stop := s.Stop.Format(timeLayout)
		if s.Open {
			stop += " (running)"
		}
		t.AppendRow(table.Row{s.Index, s.Start.Format(timeLayout), stop, util.FormatDuration(s.Duration)})
	}
	t.AppendFooter(table.Row{"", "", fmt.Sprintf("Total (%d sessions)", len(report.Sessions)), util.FormatDuration(report.Total)})

	_, err := fmt.Fprintln(w, t.Render())
	return err
}

func (f *TableFormatter) FormatApps(w io.Writer, apps []model.App) error {
	t := f.newWriter()
	t.AppendHeader(table.Row{"ID", "NAME"})
	t.SetColumnConfigs([]table.ColumnConfig{{Number: 1, Align: text.AlignRight}})
	for _, app := range apps {
		t.AppendRow(table.Row{app.ID, app.Name})
	}

	_, err := fmt.Fprintln(w, t.Render())
	return err
}
