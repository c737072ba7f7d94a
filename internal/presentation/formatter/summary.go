package formatter

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/penwyp/go-deckview/internal/data/aggregator"
	"github.com/penwyp/go-deckview/internal/util"
)

// SummaryFormatter prints the active time per day, week or month.
type SummaryFormatter struct {
	TableFormatter
}

// NewSummaryFormatter creates a new instance of SummaryFormatter.
func NewSummaryFormatter() *SummaryFormatter {
	return &SummaryFormatter{TableFormatter: *NewTableFormatter()}
}

func (f *SummaryFormatter) Format(w io.Writer, report *SessionReport) error {
	buckets := report.Totals()
	unit := report.GroupBy
	if unit == "" {
		unit = aggregator.GroupByDay
	}

	t := f.newWriter()
	t.SetTitle(fmt.Sprintf("%s  activity per %s", report.App.Name, unit))
	t.AppendHeader(table.Row{strings.ToUpper(string(unit)), "SESSIONS", "ACTIVE"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight, AlignFooter: text.AlignRight},
	})

	for _, b := range buckets {
		t.AppendRow(table.Row{b.Key, b.Sessions, util.FormatDuration(b.Active)})
	}

	var average string
	if len(buckets) > 0 {
		average = util.FormatDuration(report.Total / time.Duration(len(buckets)))
	}
	t.AppendFooter(table.Row{"Total", len(report.Sessions), util.FormatDuration(report.Total)})
	if average != "" {
		t.AppendFooter(table.Row{"Per active " + string(unit), "", average})
	}

	_, err := fmt.Fprintln(w, t.Render())
	return err
}
