// Package ledger reads and writes the subset of the beancount syntax the
// cleaner works on. Anything it does not understand is kept verbatim.
package ledger

import (
	"bufio"
	"io"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/m-mizutani/goerr/v2"
	"github.com/shopspring/decimal"

	"github.com/ledgerkit/txcleanup/pkg/domain/model"
)

const maxLineSize = 1024 * 1024

var (
	dateLine    = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}\s`)
	metaLine    = regexp.MustCompile(`^\s+([a-z][A-Za-z0-9_-]*):\s*(.*)$`)
	postingLine = regexp.MustCompile(`^\s+(?:([*!])\s+)?([A-Z][A-Za-z0-9-]*(?::[A-Za-z0-9][A-Za-z0-9_-]*)+)(?:\s+(.*))?$`)
	unitsPrefix = regexp.MustCompile(`^(-?[0-9][0-9,]*(?:\.[0-9]*)?|-?\.[0-9]+)\s+([A-Z][A-Z0-9'._-]*)(?:\s+(.*))?$`)
	accountName = regexp.MustCompile(`^[A-Z][A-Za-z0-9-]*(?::[A-Za-z0-9][A-Za-z0-9_-]*)+$`)
	currencyTok = regexp.MustCompile(`^[A-Z][A-Z0-9'._-]*$`)
)

// Parse reads a ledger. Only I/O failures are errors: blocks that cannot be
// interpreted become model.Raw directives.
func Parse(r io.Reader) ([]model.Directive, error) {
	lines, err := readLines(r)
	if err != nil {
		return nil, err
	}

	var directives []model.Directive
	for i := 0; i < len(lines); {
		if !dateLine.MatchString(lines[i]) {
			directives = append(directives, &model.Raw{Text: lines[i]})
			i++
			continue
		}

		end := i + 1
		for end < len(lines) && isContinuation(lines[end]) {
			end++
		}
		directives = append(directives, parseBlock(lines[i:end]))
		i = end
	}
	return directives, nil
}

func readLines(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var lines []string
	for scanner.Scan() {
		lines = append(lines, strings.TrimRight(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return nil, goerr.Wrap(err, "failed to read ledger", goerr.V("line", len(lines)+1))
	}
	return lines, nil
}

func isContinuation(line string) bool {
	return line != "" && (line[0] == ' ' || line[0] == '\t') && strings.TrimSpace(line) != ""
}

func parseBlock(block []string) model.Directive {
	raw := &model.Raw{Text: strings.Join(block, "\n")}

	fields := strings.Fields(block[0])
	if len(fields) < 2 {
		return raw
	}
	date, err := time.Parse(time.DateOnly, fields[0])
	if err != nil {
		return raw
	}
	header := strings.TrimSpace(strings.TrimPrefix(block[0], fields[0]))

	var d model.Directive
	switch fields[1] {
	case "*", "!", "txn":
		if txn := parseTransaction(date, header, block[1:]); txn != nil {
			txn.Source = raw.Text
			d = txn
		}
	case "open":
		d = parseOpen(date, fields[2:], block[1:])
	case "balance":
		d = parseBalance(date, fields[2:], block[1:])
	}
	if d == nil {
		return raw
	}
	return d
}

func parseTransaction(date time.Time, header string, body []string) *model.Transaction {
	flag, rest := cutToken(header)
	if flag == "txn" {
		flag = "*"
	}
	txn := &model.Transaction{Date: date, Flag: flag}

	var texts []string
	var tags, links []string
	for rest = strings.TrimSpace(rest); rest != ""; rest = strings.TrimSpace(rest) {
		switch rest[0] {
		case '"':
			s, remain, ok := readString(rest)
			if !ok {
				return nil
			}
			texts = append(texts, s)
			rest = remain
		case '#', '^':
			tok, remain := cutToken(rest)
			if len(tok) < 2 {
				return nil
			}
			if tok[0] == '#' {
				tags = append(tags, tok[1:])
			} else {
				links = append(links, tok[1:])
			}
			rest = remain
		default:
			return nil
		}
	}

	switch len(texts) {
	case 0:
	case 1:
		txn.Narration = texts[0]
	case 2:
		txn.Payee, txn.Narration = texts[0], texts[1]
	default:
		return nil
	}
	txn.Tags = model.NewSet(tags...)
	txn.Links = model.NewSet(links...)

	for _, line := range body {
		if m := metaLine.FindStringSubmatch(line); m != nil {
			// posting level metadata is not modelled
			if len(txn.Postings) > 0 {
				return nil
			}
			v, ok := metaValue(m[2])
			if !ok {
				return nil
			}
			txn.SetMeta(m[1], v)
			continue
		}

		p, ok := parsePosting(line)
		if !ok {
			return nil
		}
		txn.Postings = append(txn.Postings, p)
	}
	return txn
}

// cutToken splits s at the first whitespace character
func cutToken(s string) (tok, rest string) {
	if i := strings.IndexFunc(s, unicode.IsSpace); i >= 0 {
		return s[:i], s[i:]
	}
	return s, ""
}

func parsePosting(line string) (model.Posting, bool) {
	m := postingLine.FindStringSubmatch(line)
	if m == nil {
		return model.Posting{}, false
	}
	p := model.Posting{Flag: m[1], Account: m[2]}
	rest := strings.TrimSpace(m[3])
	if rest == "" {
		return p, true
	}
	if strings.HasPrefix(rest, ";") {
		p.Trailer = rest
		return p, true
	}

	u := unitsPrefix.FindStringSubmatch(rest)
	if u == nil {
		return model.Posting{}, false
	}
	n, err := decimal.NewFromString(strings.ReplaceAll(u[1], ",", ""))
	if err != nil {
		return model.Posting{}, false
	}
	p.Units = &model.Amount{Number: n, Currency: u[2]}
	p.Trailer = strings.TrimSpace(u[3])
	return p, true
}

func parseOpen(date time.Time, args []string, body []string) model.Directive {
	if len(args) == 0 || len(args) > 2 || !accountName.MatchString(args[0]) {
		return nil
	}
	open := &model.Open{Date: date, Account: args[0]}
	if len(args) == 2 {
		for _, c := range strings.Split(args[1], ",") {
			if !currencyTok.MatchString(c) {
				return nil
			}
			open.Currencies = append(open.Currencies, c)
		}
	}
	meta, ok := parseMeta(body)
	if !ok {
		return nil
	}
	open.Meta = meta
	return open
}

func parseBalance(date time.Time, args []string, body []string) model.Directive {
	if len(args) != 3 || !accountName.MatchString(args[0]) || !currencyTok.MatchString(args[2]) {
		return nil
	}
	n, err := decimal.NewFromString(args[1])
	if err != nil {
		return nil
	}
	meta, ok := parseMeta(body)
	if !ok {
		return nil
	}
	return &model.Balance{
		Date:    date,
		Account: args[0],
		Amount:  model.Amount{Number: n, Currency: args[2]},
		Meta:    meta,
	}
}

func parseMeta(body []string) (model.Meta, bool) {
	var meta model.Meta
	for _, line := range body {
		m := metaLine.FindStringSubmatch(line)
		if m == nil {
			return nil, false
		}
		v, ok := metaValue(m[2])
		if !ok {
			return nil, false
		}
		if meta == nil {
			meta = make(model.Meta)
		}
		meta[m[1]] = v
	}
	return meta, true
}

// metaValue accepts quoted strings only; typed values are not modelled
func metaValue(s string) (string, bool) {
	v, rest, ok := readString(strings.TrimSpace(s))
	if !ok || strings.TrimSpace(rest) != "" {
		return "", false
	}
	return v, true
}

// readString reads a double-quoted string from the start of s. Only \" and
// \\ are unescaped; any other backslash is kept as written.
func readString(s string) (value, rest string, ok bool) {
	if s == "" || s[0] != '"' {
		return "", s, false
	}
	var sb strings.Builder
	for i := 1; i < len(s); i++ {
		switch c := s[i]; c {
		case '\\':
			if i+1 >= len(s) {
				return "", s, false
			}
			i++
			if next := s[i]; next != '"' && next != '\\' {
				sb.WriteByte(c)
			}
			sb.WriteByte(s[i])
		case '"':
			return sb.String(), s[i+1:], true
		default:
			sb.WriteByte(c)
		}
	}
	return "", s, false
}
