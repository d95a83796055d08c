package cleaner

import "regexp"

// Match is a successful search of an extractor pattern in a payee
type Match struct {
	re  *regexp.Regexp
	src string
	loc []int
}

func newMatch(re *regexp.Regexp, src string, loc []int) Match {
	return Match{re: re, src: src, loc: loc}
}

// Pattern returns the expression that produced the match
func (m Match) Pattern() *regexp.Regexp {
	return m.re
}

// Group returns the text of submatch i, or "" when it did not participate
func (m Match) Group(i int) string {
	if 2*i+1 >= len(m.loc) || m.loc[2*i] < 0 {
		return ""
	}
	return m.src[m.loc[2*i]:m.loc[2*i+1]]
}

// Expand substitutes $1, ${name} style references in template with submatches
func (m Match) Expand(template string) string {
	return string(m.re.ExpandString(nil, template, m.src, m.loc))
}

// replaceAllFunc replaces every match of re in src with fn's result.
// Unlike regexp.ReplaceAllStringFunc, fn receives submatches.
func replaceAllFunc(re *regexp.Regexp, src string, fn func(Match) string) string {
	locs := re.FindAllStringSubmatchIndex(src, -1)
	if len(locs) == 0 {
		return src
	}
	out := make([]byte, 0, len(src))
	last := 0
	for _, loc := range locs {
		out = append(out, src[last:loc[0]]...)
		out = append(out, fn(newMatch(re, src, loc))...)
		last = loc[1]
	}
	out = append(out, src[last:]...)
	return string(out)
}
