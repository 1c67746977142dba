package report

import (
	"io"
	"time"

	"github.com/safing/pqbase/formats/dsd"
	"github.com/safing/pqbase/info"
	"github.com/safing/pqbase/pqc"
	"github.com/safing/pqbase/selftest"
)

// Report is the structured form of a self-test run.
type Report struct {
	Program string             `json:"program"`
	Version string             `json:"version"`
	Backend string             `json:"backend"`
	Created time.Time          `json:"created"`
	Passed  int                `json:"passed"`
	Failed  int                `json:"failed"`
	Results []*selftest.Result `json:"results"`
}

// New returns a report for the given results.
func New(results []*selftest.Result) *Report {
	r := &Report{
		Program: info.GetInfo().Name,
		Version: info.Version(),
		Backend: pqc.BackendModule + " " + info.DependencyVersion(pqc.BackendModule),
		Created: time.Now(),
		Results: results,
	}
	for _, res := range results {
		if res.OK() {
			r.Passed++
		} else {
			r.Failed++
		}
	}
	return r
}

// Dump writes the report in the given format.
func Dump(w io.Writer, r *Report, format dsd.SerializationFormat) error {
	data, err := dsd.DumpWithoutIdentifier(r, format)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
