package formatter

import (
	"io"
	"time"

	"github.com/bytedance/sonic"

	"github.com/penwyp/go-deckview/internal/core/model"
)

type JSONFormatter struct{}

func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

type jsonSession struct {
	Index   int       `json:"index"`
	Start   time.Time `json:"start"`
	Stop    time.Time `json:"stop"`
	Seconds int64     `json:"seconds"`
	Open    bool      `json:"open,omitempty"`
}

type jsonReport struct {
	App          model.App     `json:"app"`
	From         time.Time     `json:"from"`
	To           time.Time     `json:"to"`
	Sessions     []jsonSession `json:"sessions"`
	TotalSeconds int64         `json:"total_seconds"`
}

func (f *JSONFormatter) Format(w io.Writer, report *SessionReport) error {
	out := jsonReport{
		App:          report.App,
		From:         report.From,
		To:           report.To,
		Sessions:     make([]jsonSession, 0, len(report.Sessions)),
		TotalSeconds: int64(report.Total / time.Second),
	}
	for _, s := range report.Sessions {
		out.Sessions = append(out.Sessions, jsonSession{
			Index:   s.Index,
			Start:   s.Start,
			Stop:    s.Stop,
			Seconds: int64(s.Duration / time.Second),
			Open:    s.Open,
		})
	}
	return writeJSON(w, out)
}

func (f *JSONFormatter) FormatApps(w io.Writer, apps []model.App) error {
	if apps == nil {
		apps = []model.App{}
	}
	return writeJSON(w, apps)
}

func writeJSON(w io.Writer, v interface{}) error {
	data, err := sonic.ConfigStd.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = w.Write(append(data, '\n'))
	return err
}
