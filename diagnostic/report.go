package diagnostic

import (
	"fmt"
)

// Report holds the outcome of every entry of a batch update.
type Report struct {
	Outcomes []Outcome
}

// Outcome is the result of a single batch entry.
type Outcome struct {
	// Path is the property path of the entry.
	Path string
	// Status of the entry.
	Status Status
	// Err is the failure that made the entry ignored or failed.
	Err error
}

// Status of a batch entry.
type Status int

const (
	StatusApplied Status = iota
	StatusIgnored
	StatusFailed
)

// String returns a human-readable status name.
func (s Status) String() string {
	switch s {
	case StatusApplied:
		return "applied"
	case StatusIgnored:
		return "ignored"
	case StatusFailed:
		return "failed"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Applied records a successful entry.
func (r *Report) Applied(path string) {
	r.Outcomes = append(r.Outcomes, Outcome{Path: path, Status: StatusApplied})
}

// Ignored records an entry skipped because of err.
func (r *Report) Ignored(path string, err error) {
	r.Outcomes = append(r.Outcomes, Outcome{Path: path, Status: StatusIgnored, Err: err})
}

// Failed records an entry that failed with err.
func (r *Report) Failed(path string, err error) {
	r.Outcomes = append(r.Outcomes, Outcome{Path: path, Status: StatusFailed, Err: err})
}

// Count returns the number of entries with the given status.
func (r *Report) Count(status Status) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == status {
			n++
		}
	}

	return n
}

// Paths returns the paths of entries with the given status.
func (r *Report) Paths(status Status) []string {
	var paths []string
	for _, o := range r.Outcomes {
		if o.Status == status {
			paths = append(paths, o.Path)
		}
	}

	return paths
}

// HasFailures returns true if any entry failed.
func (r *Report) HasFailures() bool {
	return r.Count(StatusFailed) > 0
}

// String returns a formatted outcome string.
func (o Outcome) String() string {
	if o.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", o.Path, o.Status, o.Err)
	}

	return fmt.Sprintf("%s: %s", o.Path, o.Status)
}
