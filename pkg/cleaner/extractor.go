package cleaner

import (
	"regexp"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
)

// AgesAgo is the last-used date of an extractor that never matched
var AgesAgo = time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC)

// ErrInvalidPattern tags errors caused by a pattern that does not compile
var ErrInvalidPattern = goerr.NewTag("invalid_pattern")

// Extractor applies its actions to transactions whose payee matches Pattern
type Extractor struct {
	Description string
	Pattern     *regexp.Regexp
	Actions     []Action

	mu       sync.Mutex
	lastUsed time.Time
}

// New compiles pattern and creates an Extractor
func New(description, pattern string, actions ...Action) (*Extractor, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to compile extractor pattern",
			goerr.T(ErrInvalidPattern),
			goerr.V("description", description),
			goerr.V("pattern", pattern),
		)
	}
	return NewWithRegexp(description, re, actions...), nil
}

// NewWithRegexp creates an Extractor from an already compiled expression
func NewWithRegexp(description string, re *regexp.Regexp, actions ...Action) *Extractor {
	return &Extractor{
		Description: description,
		Pattern:     re,
		Actions:     actions,
		lastUsed:    AgesAgo,
	}
}

// MustNew is like New but panics on an invalid pattern
func MustNew(description, pattern string, actions ...Action) *Extractor {
	e, err := New(description, pattern, actions...)
	if err != nil {
		panic(err)
	}
	return e
}

// LastUsed returns the date of the most recent transaction this extractor matched
func (e *Extractor) LastUsed() time.Time {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastUsed
}

// touch moves the last-used date forward, never backward
func (e *Extractor) touch(date time.Time) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if date.After(e.lastUsed) {
		e.lastUsed = date
	}
}

// Extractors is an ordered extractor set. Order matters: anchored patterns
// may stop matching once an earlier extractor rewrote the payee.
type Extractors []*Extractor

// Add appends extractors, e.g. exs.Add(e) or exs.Add(other...)
func (e *Extractors) Add(extractors ...*Extractor) {
	*e = append(*e, extractors...)
}

// Seed merges persisted last-used dates keyed by description
func (e Extractors) Seed(dates map[string]time.Time) {
	for _, x := range e {
		if d, ok := dates[x.Description]; ok {
			x.touch(d)
		}
	}
}
