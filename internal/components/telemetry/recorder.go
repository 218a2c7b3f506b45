package telemetry

import (
	"fmt"
	"strings"
	"sync"
)

type ReportKind int

const (
	KindBroken ReportKind = iota
	KindWarning
	KindDebug
	KindCount
)

// Report is a single call made to a RecorderAPI.
type Report struct {
	Kind   ReportKind
	ID     string
	Params []any
	Count  int64
}

// RecorderAPI is an implementation of API that keeps every report in memory, it is meant
// for tests that need to assert that something was (or was not) reported.
type RecorderAPI struct {
	mutex   sync.Mutex
	reports []Report
}

func NewRecorderAPI() *RecorderAPI {
	return &RecorderAPI{}
}

func (r *RecorderAPI) record(report Report) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.reports = append(r.reports, report)
}

func (r *RecorderAPI) ReportBroken(id string, params ...any) {
	r.record(Report{Kind: KindBroken, ID: id, Params: params})
}

func (r *RecorderAPI) ReportWarning(id string, params ...any) {
	r.record(Report{Kind: KindWarning, ID: id, Params: params})
}

func (r *RecorderAPI) ReportDebug(msg string, params ...any) {
	r.record(Report{Kind: KindDebug, ID: msg, Params: params})
}

func (r *RecorderAPI) ReportCount(id string, count int64) {
	r.record(Report{Kind: KindCount, ID: id, Count: count})
}

// Reports returns a copy of all the reports of a given kind in the order they were made.
func (r *RecorderAPI) Reports(kind ReportKind) []Report {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	var out []Report
	for _, report := range r.reports {
		if report.Kind == kind {
			out = append(out, report)
		}
	}
	return out
}

// Mentions returns true if any report of the given kind has an id or a param
// whose formatted value contains `text`.
func (r *RecorderAPI) Mentions(kind ReportKind, text string) bool {
	for _, report := range r.Reports(kind) {
		if strings.Contains(report.ID, text) {
			return true
		}
		for _, p := range report.Params {
			if strings.Contains(fmt.Sprint(p), text) {
				return true
			}
		}
	}
	return false
}
