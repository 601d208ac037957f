package model

import "fmt"

// InvalidReportError is returned when a report lacks a field required for matching.
type InvalidReportError struct {
	Kind  string // KindLost or KindFound
	Field string
}

func (e *InvalidReportError) Error() string {
	return fmt.Sprintf("invalid %s report: missing %s", e.Kind, e.Field)
}
