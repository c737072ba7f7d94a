package render

import (
	"io"

	"github.com/bytedance/sonic"
)

// JSONRenderer emits the chart geometry for external renderers.
type JSONRenderer struct {
	Indent bool
}

func (r *JSONRenderer) Render(w io.Writer, c *Chart) error {
	var (
		data []byte
		err  error
	)
	if r.Indent {
		data, err = sonic.MarshalIndent(c, "", "  ")
	} else {
		data, err = sonic.Marshal(c)
	}
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}
