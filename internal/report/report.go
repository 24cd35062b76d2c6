// ABOUTME: Machine-readable detection report for `textsize detect -json`
// ABOUTME: Hand-written easyjson marshaler (zero-reflection, same shape as generated code)

package report

import (
	"github.com/mailru/easyjson"
	"github.com/mailru/easyjson/jwriter"

	"github.com/mauromedda/textsize-go/pkg/textsize"
)

// Report summarizes one capability detection run.
type Report struct {
	Supported bool   `json:"supported"`
	Width     bool   `json:"width"`
	Scale     bool   `json:"scale"`
	Term      string `json:"term,omitempty"`
	Error     string `json:"error,omitempty"`
}

// FromResult builds a Report from a detection outcome. A non-nil err is
// recorded and leaves every capability false.
func FromResult(res textsize.Result, err error, term string) Report {
	r := Report{Term: term}
	if err != nil {
		r.Error = err.Error()
		return r
	}
	r.Supported = res.Supported()
	r.Width = res.Width
	r.Scale = res.Scale
	return r
}

// MarshalEasyJSON implements easyjson.Marshaler.
func (r Report) MarshalEasyJSON(w *jwriter.Writer) {
	w.RawString(`{"supported":`)
	w.Bool(r.Supported)
	w.RawString(`,"width":`)
	w.Bool(r.Width)
	w.RawString(`,"scale":`)
	w.Bool(r.Scale)
	if r.Term != "" {
		w.RawString(`,"term":`)
		w.String(r.Term)
	}
	if r.Error != "" {
		w.RawString(`,"error":`)
		w.String(r.Error)
	}
	w.RawByte('}')
}

// MarshalJSON implements json.Marshaler.
func (r Report) MarshalJSON() ([]byte, error) {
	return easyjson.Marshal(r)
}
