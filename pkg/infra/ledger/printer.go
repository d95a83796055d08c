package ledger

import (
	"bufio"
	"io"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/shopspring/decimal"

	"github.com/ledgerkit/txcleanup/pkg/domain/model"
)

const indent = "  "

// Write renders directives in beancount syntax, one block per directive.
// Transactions carrying their Source text are written as they were read.
func Write(w io.Writer, directives []model.Directive) error {
	bw := bufio.NewWriter(w)
	for i, d := range directives {
		text := Format(d)
		if txn, ok := d.(*model.Transaction); ok && txn.Source != "" {
			text = txn.Source
		}
		if _, err := bw.WriteString(text + "\n"); err != nil {
			return goerr.Wrap(err, "failed to write ledger", goerr.V("directive", i))
		}
	}
	if err := bw.Flush(); err != nil {
		return goerr.Wrap(err, "failed to flush ledger")
	}
	return nil
}

// Format renders a single directive without a trailing newline. The output
// is normalized and ignores Transaction.Source.
func Format(d model.Directive) string {
	var sb strings.Builder
	switch v := d.(type) {
	case *model.Transaction:
		formatTransaction(&sb, v)
	case *model.Open:
		sb.WriteString(formatDate(v.Date) + " open " + v.Account)
		if len(v.Currencies) > 0 {
			sb.WriteString(" " + strings.Join(v.Currencies, ","))
		}
		formatMeta(&sb, v.Meta)
	case *model.Balance:
		sb.WriteString(formatDate(v.Date) + " balance " + v.Account + " " + formatAmount(v.Amount))
		formatMeta(&sb, v.Meta)
	case *model.Raw:
		sb.WriteString(v.Text)
	}
	return sb.String()
}

func formatTransaction(sb *strings.Builder, t *model.Transaction) {
	sb.WriteString(formatDate(t.Date) + " " + t.Flag)
	if t.Payee != "" {
		sb.WriteString(" " + quote(t.Payee))
	}
	sb.WriteString(" " + quote(t.Narration))
	for _, tag := range t.Tags.Sorted() {
		sb.WriteString(" #" + tag)
	}
	for _, link := range t.Links.Sorted() {
		sb.WriteString(" ^" + link)
	}
	formatMeta(sb, t.Meta)

	for _, p := range t.Postings {
		sb.WriteString("\n" + indent)
		if p.Flag != "" {
			sb.WriteString(p.Flag + " ")
		}
		sb.WriteString(p.Account)
		if p.Units != nil {
			sb.WriteString(indent + formatAmount(*p.Units))
		}
		if p.Trailer != "" {
			sb.WriteString(" " + p.Trailer)
		}
	}
}

func formatMeta(sb *strings.Builder, meta model.Meta) {
	for _, k := range meta.Keys() {
		sb.WriteString("\n" + indent + k + ": " + quote(meta[k]))
	}
}

func formatDate(t time.Time) string {
	return t.Format(time.DateOnly)
}

func formatAmount(a model.Amount) string {
	return formatNumber(a.Number) + " " + a.Currency
}

// formatNumber keeps the precision the number was written with
func formatNumber(n decimal.Decimal) string {
	if exp := n.Exponent(); exp < 0 {
		return n.StringFixed(-exp)
	}
	return n.String()
}

var quoter = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

func quote(s string) string {
	return `"` + quoter.Replace(s) + `"`
}
