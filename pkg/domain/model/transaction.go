package model

import (
	"maps"
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// Directive is any entry of a beancount ledger
type Directive interface {
	directive()
}

// Amount is a number with a currency
type Amount struct {
	Number   decimal.Decimal
	Currency string
}

// Posting is a single leg of a transaction. Units is nil when the amount is left for beancount to infer.
// Trailer keeps whatever follows the units on the posting line (cost, price, comment) verbatim.
type Posting struct {
	Flag    string
	Account string
	Units   *Amount
	Trailer string
}

// Set is an unordered set of strings used for tags and links
type Set map[string]struct{}

// NewSet builds a Set from values. It returns nil when no value is given.
func NewSet(values ...string) Set {
	if len(values) == 0 {
		return nil
	}
	s := make(Set, len(values))
	for _, v := range values {
		s[v] = struct{}{}
	}
	return s
}

// Has reports whether v is in the set
func (s Set) Has(v string) bool {
	_, ok := s[v]
	return ok
}

// Sorted returns the set members in lexical order
func (s Set) Sorted() []string {
	return slices.Sorted(maps.Keys(s))
}

// Clone copies the set, normalizing an empty set to nil
func (s Set) Clone() Set {
	if len(s) == 0 {
		return nil
	}
	return maps.Clone(s)
}

// Meta holds directive metadata. Values are kept as their textual form.
type Meta map[string]string

// Clone copies the metadata, normalizing an empty map to nil
func (m Meta) Clone() Meta {
	if len(m) == 0 {
		return nil
	}
	return maps.Clone(m)
}

// Keys returns metadata keys in lexical order
func (m Meta) Keys() []string {
	return slices.Sorted(maps.Keys(m))
}

// Transaction is a beancount transaction directive
type Transaction struct {
	Date      time.Time
	Flag      string
	Payee     string
	Narration string
	Tags      Set
	Links     Set
	Meta      Meta
	Postings  []Posting

	// Source is the ledger text the transaction was parsed from. Writers
	// print it verbatim when set, so clear it after changing the transaction.
	Source string
}

func (*Transaction) directive() {}

// Clone returns a deep copy of the transaction
func (t *Transaction) Clone() *Transaction {
	c := *t
	c.Tags = t.Tags.Clone()
	c.Links = t.Links.Clone()
	c.Meta = t.Meta.Clone()
	if len(t.Postings) > 0 {
		c.Postings = make([]Posting, len(t.Postings))
		for i, p := range t.Postings {
			c.Postings[i] = p
			if p.Units != nil {
				u := *p.Units
				c.Postings[i].Units = &u
			}
		}
	} else {
		c.Postings = nil
	}
	return &c
}

// AddTag adds a tag, allocating the set on first use
func (t *Transaction) AddTag(tag string) {
	if t.Tags == nil {
		t.Tags = make(Set)
	}
	t.Tags[tag] = struct{}{}
}

// SetMeta sets a metadata entry, allocating the map on first use
func (t *Transaction) SetMeta(key, value string) {
	if t.Meta == nil {
		t.Meta = make(Meta)
	}
	t.Meta[key] = value
}

// Open is a beancount open directive
type Open struct {
	Date       time.Time
	Account    string
	Currencies []string
	Meta       Meta
}

func (*Open) directive() {}

// Balance is a beancount balance assertion
type Balance struct {
	Date    time.Time
	Account string
	Amount  Amount
	Meta    Meta
}

func (*Balance) directive() {}

// Raw is ledger text kept verbatim: comments, options and directives that are not interpreted
type Raw struct {
	Text string
}

func (*Raw) directive() {}
