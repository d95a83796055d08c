// Package cleaner extracts information hidden in the payee field of beancount
// transactions and moves it into tags and metadata.
package cleaner

import (
	"strings"

	"github.com/ledgerkit/txcleanup/pkg/domain/model"
)

type options struct {
	preserveOriginalIn string
	stripStars         bool
}

// Option configures Clean
type Option func(*options)

// WithPreserveOriginal stores the original payee in meta[key] when it changed
func WithPreserveOriginal(key string) Option {
	return func(o *options) {
		o.preserveOriginalIn = key
	}
}

// WithStarStripping removes the '*' characters some banks sprinkle over
// descriptions before any extractor runs
func WithStarStripping() Option {
	return func(o *options) {
		o.stripStars = true
	}
}

// Clean runs extractors in order against the payee of txn and returns the
// cleaned transaction. txn itself is left untouched. The returned copy has
// no Source text; callers that want unchanged transactions written verbatim
// keep txn when nothing changed.
func Clean(txn *model.Transaction, extractors Extractors, opts ...Option) *model.Transaction {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	if txn.Payee == "" || (len(extractors) == 0 && !o.stripStars) {
		return txn
	}

	out := txn.Clone()
	out.Source = ""
	if o.stripStars {
		out.Payee = stripStars(out.Payee)
	}

	for _, e := range extractors {
		loc := e.Pattern.FindStringSubmatchIndex(out.Payee)
		if loc == nil {
			continue
		}
		e.touch(txn.Date)
		m := newMatch(e.Pattern, out.Payee, loc)
		for _, a := range e.Actions {
			a.Execute(m, out)
		}
	}

	if o.preserveOriginalIn != "" && out.Payee != txn.Payee {
		out.SetMeta(o.preserveOriginalIn, txn.Payee)
	}

	out.Tags = out.Tags.Clone()
	out.Meta = out.Meta.Clone()
	return out
}

func stripStars(payee string) string {
	p := strings.Trim(payee, "*")
	p = strings.ReplaceAll(p, " *", " ")
	p = strings.ReplaceAll(p, "* ", " ")
	return strings.TrimSpace(p)
}
