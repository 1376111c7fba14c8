package validator

import (
	"fmt"
	"time"
)

// TimestampLayout ISO-8601 with millisecond precision
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Result outcome of a validation pass. IsValid is true iff Errors is empty,
// warnings never affect validity.
type Result struct {
	IsValid   bool     `json:"isValid" yaml:"isValid"`
	Errors    []string `json:"errors" yaml:"errors"`
	Warnings  []string `json:"warnings" yaml:"warnings"`
	Timestamp string   `json:"timestamp" yaml:"timestamp"`
}

// Status summary label of a result
type Status string

const (
	StatusHealthy Status = "healthy"
	StatusWarning Status = "warning"
	StatusError   Status = "error"
	StatusUnknown Status = "unknown"
)

// Merge concatenates errors and warnings, the timestamp of the first result
// is kept
func Merge(results ...Result) Result {
	ret := Result{Errors: []string{}, Warnings: []string{}}
	for i, r := range results {
		if i == 0 {
			ret.Timestamp = r.Timestamp
		}
		ret.Errors = append(ret.Errors, r.Errors...)
		ret.Warnings = append(ret.Warnings, r.Warnings...)
	}
	ret.IsValid = len(ret.Errors) == 0
	return ret
}

// HealthScore 100 minus 10 per error and 2 per warning, never below 0. No
// result yet scores 0.
func HealthScore(r *Result) int {
	if r == nil {
		return 0
	}
	score := 100 - len(r.Errors)*10 - len(r.Warnings)*2
	if score < 0 {
		return 0
	}
	return score
}

// StatusOf the status label of a result
func StatusOf(r *Result) Status {
	switch {
	case r == nil:
		return StatusUnknown
	case len(r.Errors) > 0:
		return StatusError
	case len(r.Warnings) > 0:
		return StatusWarning
	default:
		return StatusHealthy
	}
}

type issues struct {
	errors   []string
	warnings []string
}

func (i *issues) errorf(format string, args ...interface{}) {
	i.errors = append(i.errors, fmt.Sprintf(format, args...))
}

func (i *issues) warnf(format string, args ...interface{}) {
	i.warnings = append(i.warnings, fmt.Sprintf(format, args...))
}

func (i *issues) result(t time.Time) Result {
	ret := Result{
		Errors:    append([]string{}, i.errors...),
		Warnings:  append([]string{}, i.warnings...),
		Timestamp: t.UTC().Format(TimestampLayout),
	}
	ret.IsValid = len(ret.Errors) == 0
	return ret
}
