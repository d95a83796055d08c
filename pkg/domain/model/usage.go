package model

import (
	"strings"
	"time"
)

// ExtractorUsage is the date of the most recent transaction an extractor matched
type ExtractorUsage struct {
	Date  time.Time `json:"date"`
	Rule  string    `json:"rule"`
	Stale bool      `json:"stale,omitempty"`
}

func (u ExtractorUsage) String() string {
	return u.Date.Format(time.DateOnly) + ": " + u.Rule
}

// UsageReport lists usage of every extractor in a set
type UsageReport []ExtractorUsage

func (r UsageReport) String() string {
	lines := make([]string, len(r))
	for i, u := range r {
		lines[i] = u.String()
	}
	return strings.Join(lines, "\n")
}

// Stale returns the entries flagged as stale
func (r UsageReport) Stale() UsageReport {
	var stale UsageReport
	for _, u := range r {
		if u.Stale {
			stale = append(stale, u)
		}
	}
	return stale
}

// CleanResult summarizes one cleanup run over a ledger
type CleanResult struct {
	RunID        string `json:"run_id"`
	Directives   int    `json:"directives"`
	Transactions int    `json:"transactions"`
	Modified     int    `json:"modified"`
}
