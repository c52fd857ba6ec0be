package telemetry

import (
	"fmt"
)

// API is what every component reports through instead of logging directly,
// tests swap it for a Recorder to assert that a failure was reported.
type API interface {
	// ReportBroken reports a component that failed in a way someone should fix,
	// a network request that errored or a row that could not be written.
	//
	// `id` names the component, not the line that failed: `client.fetch` rather
	// than `client.fetch-status`. Ids are lowercase, `<struct>.<method>` with
	// dashes inside the method part, and are declared as `report_*` constants
	// in the package that uses them. Details go into params.
	ReportBroken(id string, params ...any)

	// ReportWarning reports something unexpected that does not stop processing,
	// a field missing from a page or a value that did not parse.
	ReportWarning(id string, params ...any)

	// ReportDebug reports information that is only shown with verbose logging.
	ReportDebug(msg string, params ...any)

	// ReportCount reports the amount of an event at the current time, counts
	// are samples and should not be summed.
	ReportCount(id string, count int64)
}

// ScopedAPI prefixes every id with a namespace, nesting ScopedAPIs nests the
// namespaces.
type ScopedAPI struct {
	namespace string
	inner     API
}

func NewScopedAPI(namespace string, inner API) ScopedAPI {
	return ScopedAPI{namespace: namespace, inner: inner}
}

func (s ScopedAPI) scoped(id string) string {
	return fmt.Sprintf("%s: %s", s.namespace, id)
}

func (s ScopedAPI) ReportBroken(id string, params ...any) {
	s.inner.ReportBroken(s.scoped(id), params...)
}

func (s ScopedAPI) ReportWarning(id string, params ...any) {
	s.inner.ReportWarning(s.scoped(id), params...)
}

func (s ScopedAPI) ReportDebug(msg string, params ...any) {
	s.inner.ReportDebug(s.scoped(msg), params...)
}

func (s ScopedAPI) ReportCount(id string, count int64) {
	s.inner.ReportCount(s.scoped(id), count)
}
