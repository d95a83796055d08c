package rules

import (
	"slices"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/ledgerkit/txcleanup/pkg/cleaner"
)

var transformers = map[string]cleaner.Transformer{
	"lower":   strings.ToLower,
	"upper":   strings.ToUpper,
	"title":   title,
	"trim":    strings.TrimSpace,
	"reverse": reverse,
	"squash":  squash,
}

// Transformers lists the names usable in an action's transform list
func Transformers() []string {
	names := make([]string, 0, len(transformers))
	for name := range transformers {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// chain composes named transformers left to right. It returns nil for an empty list.
func chain(names []string) (cleaner.Transformer, error) {
	if len(names) == 0 {
		return nil, nil
	}
	fns := make([]cleaner.Transformer, 0, len(names))
	for _, name := range names {
		fn, ok := transformers[name]
		if !ok {
			return nil, goerr.New("unknown transformer", goerr.V("name", name), goerr.V("available", Transformers()))
		}
		fns = append(fns, fn)
	}
	return func(s string) string {
		for _, fn := range fns {
			s = fn(s)
		}
		return s
	}, nil
}

func reverse(s string) string {
	r := []rune(s)
	slices.Reverse(r)
	return string(r)
}

// title builds a Caser per call; a Caser keeps state and is not safe for concurrent use
func title(s string) string {
	return cases.Title(language.Und).String(s)
}

// squash collapses whitespace runs into a single space
func squash(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
