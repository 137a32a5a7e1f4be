// Package doctor runs diagnostic checks against the evmon configuration and
// the monitoring server.
package doctor

import (
	"context"
	"fmt"
	"sync"
)

// CheckStatus is the outcome of one check.
type CheckStatus int

const (
	StatusPass CheckStatus = iota
	StatusWarn
	StatusFail
)

var statusNames = [...]string{StatusPass: "pass", StatusWarn: "warn", StatusFail: "fail"}

func (s CheckStatus) String() string {
	if s < 0 || int(s) >= len(statusNames) {
		return "unknown"
	}
	return statusNames[s]
}

// MarshalText renders the status by name in JSON output.
func (s CheckStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// CheckResult contains the outcome of running a check.
type CheckResult struct {
	Name       string      `json:"name"`
	Category   string      `json:"-"`
	Status     CheckStatus `json:"status"`
	Message    string      `json:"message"`
	Suggestion string      `json:"suggestion,omitempty"`
}

// Check is one diagnostic.
type Check interface {
	// Name returns the check's identifier.
	Name() string

	// Category groups checks in the report, e.g. "CONFIG" or "SERVER".
	Category() string

	Run(ctx context.Context) CheckResult
}

// Report holds results in the order the checks were given.
type Report struct {
	Results []CheckResult
}

// Run executes checks concurrently. Server round trips dominate a doctor
// run and the checks share no state.
func Run(ctx context.Context, checks []Check) Report {
	results := make([]CheckResult, len(checks))

	var wg sync.WaitGroup
	for i, c := range checks {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r := c.Run(ctx)
			if r.Name == "" {
				r.Name = c.Name()
			}
			r.Category = c.Category()
			results[i] = r
		}()
	}
	wg.Wait()

	return Report{Results: results}
}

// Group is the results for one category.
type Group struct {
	Name    string        `json:"name"`
	Results []CheckResult `json:"results"`
}

// Groups returns results grouped by category in the given order.
// Categories missing from order are left out.
func (r Report) Groups(order []string) []Group {
	var groups []Group
	for _, name := range order {
		g := Group{Name: name}
		for _, res := range r.Results {
			if res.Category == name {
				g.Results = append(g.Results, res)
			}
		}
		if len(g.Results) > 0 {
			groups = append(groups, g)
		}
	}
	return groups
}

// Counts returns the number of results per status.
func (r Report) Counts() map[CheckStatus]int {
	counts := make(map[CheckStatus]int, len(statusNames))
	for _, res := range r.Results {
		counts[res.Status]++
	}
	return counts
}

// Failed reports whether any check failed.
func (r Report) Failed() bool {
	return r.Counts()[StatusFail] > 0
}

// HasIssues reports whether any check warned or failed.
func (r Report) HasIssues() bool {
	return r.issues() > 0
}

func (r Report) issues() int {
	counts := r.Counts()
	return counts[StatusWarn] + counts[StatusFail]
}

// Summary is the closing line of the text report.
func (r Report) Summary() string {
	switch n := r.issues(); n {
	case 0:
		return "Everything looks good"
	case 1:
		return "1 issue found"
	default:
		return fmt.Sprintf("%d issues found", n)
	}
}

func pluralize(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
