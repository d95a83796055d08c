package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Importer defaults applied by the builders below
const (
	DefaultCurrency = "EUR"
	DefaultFlag     = "!"
)

type buildConfig struct {
	currency  string
	flag      string
	narration string
	amount    *decimal.Decimal
	tags      []string
	meta      Meta
	postings  []Posting
}

// BuildOption customizes a directive built by Op, Bal, Post or Tx
type BuildOption func(*buildConfig)

// WithCurrency overrides DefaultCurrency
func WithCurrency(currency string) BuildOption {
	return func(c *buildConfig) {
		c.currency = currency
	}
}

// WithFlag overrides DefaultFlag
func WithFlag(flag string) BuildOption {
	return func(c *buildConfig) {
		c.flag = flag
	}
}

// WithNarration sets the transaction narration
func WithNarration(narration string) BuildOption {
	return func(c *buildConfig) {
		c.narration = narration
	}
}

// WithAmount sets posting units
func WithAmount(amount decimal.Decimal) BuildOption {
	return func(c *buildConfig) {
		c.amount = &amount
	}
}

// WithTags sets transaction tags
func WithTags(tags ...string) BuildOption {
	return func(c *buildConfig) {
		c.tags = append(c.tags, tags...)
	}
}

// WithMeta sets directive metadata. The map is copied.
func WithMeta(meta Meta) BuildOption {
	return func(c *buildConfig) {
		c.meta = meta.Clone()
	}
}

// WithPostings sets transaction postings
func WithPostings(postings ...Posting) BuildOption {
	return func(c *buildConfig) {
		c.postings = append(c.postings, postings...)
	}
}

func newBuildConfig(opts []BuildOption) *buildConfig {
	cfg := &buildConfig{
		currency: DefaultCurrency,
		flag:     DefaultFlag,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Op creates an Open directive restricted to a single currency
func Op(account string, date time.Time, opts ...BuildOption) *Open {
	cfg := newBuildConfig(opts)
	return &Open{
		Date:       date,
		Account:    account,
		Currencies: []string{cfg.currency},
		Meta:       cfg.meta,
	}
}

// Bal creates a Balance directive
func Bal(account string, amount decimal.Decimal, date time.Time, opts ...BuildOption) *Balance {
	cfg := newBuildConfig(opts)
	return &Balance{
		Date:    date,
		Account: account,
		Amount:  Amount{Number: amount, Currency: cfg.currency},
		Meta:    cfg.meta,
	}
}

// Post creates a Posting. Units are only set when WithAmount is given.
func Post(account string, opts ...BuildOption) Posting {
	cfg := newBuildConfig(opts)
	p := Posting{Account: account}
	if cfg.amount != nil {
		p.Units = &Amount{Number: *cfg.amount, Currency: cfg.currency}
	}
	return p
}

// Tx creates a Transaction. Payee and narration are trimmed.
func Tx(date time.Time, payee string, opts ...BuildOption) *Transaction {
	cfg := newBuildConfig(opts)
	return &Transaction{
		Date:      date,
		Flag:      cfg.flag,
		Payee:     strings.TrimSpace(payee),
		Narration: strings.TrimSpace(cfg.narration),
		Tags:      NewSet(cfg.tags...),
		Meta:      cfg.meta,
		Postings:  cfg.postings,
	}
}

// TxFactory builds transactions sharing a date
type TxFactory func(payee string, opts ...BuildOption) *Transaction

// NewTxFactory returns a TxFactory with a fixed date
func NewTxFactory(date time.Time) TxFactory {
	return func(payee string, opts ...BuildOption) *Transaction {
		return Tx(date, payee, opts...)
	}
}

// Date is a shorthand for a UTC calendar date
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
