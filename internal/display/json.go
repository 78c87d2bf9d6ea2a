package display

import (
	"io"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/Guliveer/vitafetch/internal/models"
	"github.com/Guliveer/vitafetch/internal/report"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// WriteJSON prints the populated enabled fields of rep as one JSON object
// keyed by field name. Uptime is given in whole seconds.
func WriteJSON(w io.Writer, rep *report.Report, enabled report.FieldSet) error {
	out := make(map[string]interface{})
	for _, f := range enabled.Normalize().Fields() {
		v, ok := rep.Get(f)
		if !ok {
			continue
		}
		out[f.String()] = jsonValue(v)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func jsonValue(v models.Value) interface{} {
	switch val := v.(type) {
	case models.Duration:
		return int64(time.Duration(val) / time.Second)
	case models.Usage:
		return struct {
			models.Usage
			Percent float64 `json:"percent"`
		}{val, val.Percent()}
	}
	return v
}
