package formatter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/penwyp/go-deckview/internal/core/model"
)

type CSVFormatter struct{}

func NewCSVFormatter() *CSVFormatter {
	return &CSVFormatter{}
}

func (f *CSVFormatter) Format(w io.Writer, report *SessionReport) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"index", "start", "stop", "seconds", "open"}); err != nil {
		return err
	}
	for _, s := range report.Sessions {
		record := []string{
			strconv.Itoa(s.Index),
			s.Start.Format(time.RFC3339),
			s.Stop.Format(time.RFC3339),
			fmt.Sprintf("%d", int64(s.Duration/time.Second)),
			strconv.FormatBool(s.Open),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func (f *CSVFormatter) FormatApps(w io.Writer, apps []model.App) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"id", "name"}); err != nil {
		return err
	}
	for _, app := range apps {
		if err := cw.Write([]string{strconv.FormatUint(uint64(app.ID), 10), app.Name}); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
