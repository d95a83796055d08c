package cleaner_test

import (
	"regexp"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/ledgerkit/txcleanup/pkg/cleaner"
	"github.com/ledgerkit/txcleanup/pkg/domain/model"
)

var (
	testDate = model.Date(2071, 3, 14)
	ttx      = model.NewTxFactory(testDate)
)

func reverse(s string) string {
	r := []rune(s)
	for i, j := 0, len(r)-1; i < j; i, j = i+1, j-1 {
		r[i], r[j] = r[j], r[i]
	}
	return string(r)
}

// newExtractors returns a fresh base set, so every test starts with clean usage data
func newExtractors() cleaner.Extractors {
	return cleaner.Extractors{
		cleaner.NewWithRegexp(
			"extract '^XY1234', add id=XY1234 to metadata",
			regexp.MustCompile(`(?i)^(XY9\d+)`),
			cleaner.Meta("id"), cleaner.Erase(),
		),
		cleaner.MustNew(
			"extract '^ID1234', lowercase it, add id=id1234 to metadata",
			`(?i)^(ID\d+)`,
			cleaner.Meta("id", cleaner.WithTransformer(strings.ToLower)), cleaner.Erase(),
		),
		cleaner.MustNew(
			"match '^GTS1234', add id=v-1234 to metadata, replace 'GTS1234' with '4321'",
			`(?i)^GTS(\d+)`,
			cleaner.Meta("id", cleaner.WithValue("v-${1}")),
			cleaner.PayeeFunc(func(m cleaner.Match) string { return reverse(m.Group(1)) }),
		),
		cleaner.MustNew(
			"match '12.34 ABC@ 0.13 ', extract abc, run it through the lookup table, no replacement",
			` [\d.]+ ([A-Z]{3})@ [\d.]+ *$`,
			cleaner.Tag("${1}", cleaner.WithTranslation(map[string]string{"jpy": "¥"})),
			cleaner.Payee("${0}"),
		),
		cleaner.MustNew(
			"match '@ 0.13$', replace with ' (0.13 each)', no extraction",
			`@ ([\d.]+)$`,
			cleaner.Payee(" (${1} each)"),
		),
	}
}

func TestClean(t *testing.T) {
	tests := []struct {
		name string
		in   *model.Transaction
		want *model.Transaction
	}{
		{
			name: "empty payee",
			in:   ttx(""),
			want: ttx(""),
		},
		{
			name: "no extractor matches",
			in:   ttx("Fredrikson*and Sons Ltd."),
			want: ttx("Fredrikson*and Sons Ltd."),
		},
		{
			name: "straightforward extraction",
			in:   ttx("XY90210 Happy Days"),
			want: ttx("Happy Days", model.WithMeta(model.Meta{"id": "XY90210"})),
		},
		{
			name: "existing metadata is kept",
			in:   ttx("XY90210 Happy Days", model.WithMeta(model.Meta{"length": "7 days"})),
			want: ttx("Happy Days", model.WithMeta(model.Meta{"id": "XY90210", "length": "7 days"})),
		},
		{
			name: "existing metadata key gets the value appended",
			in:   ttx("XY90210 Happy Days", model.WithMeta(model.Meta{"id": "Agent 007"})),
			want: ttx("Happy Days", model.WithMeta(model.Meta{"id": "Agent 007, XY90210"})),
		},
		{
			name: "extraction plus transformer",
			in:   ttx("ID1234 standing order"),
			want: ttx("standing order", model.WithMeta(model.Meta{"id": "id1234"})),
		},
		{
			name: "custom value plus replacement function",
			in:   ttx("GTS98765 regular saver"),
			want: ttx("56789 regular saver", model.WithMeta(model.Meta{"id": "v-98765"})),
		},
		{
			name: "tag through lookup table then cleanup with template",
			in:   ttx("AirSide Coffee 12.30 JPY@ 0.13  "),
			want: ttx("AirSide Coffee 12.30 JPY (0.13 each)", model.WithTags("¥")),
		},
		{
			name: "existing tags are kept",
			in:   ttx("AirSide Coffee 12.30 JPY@ 0.13  ", model.WithTags("tasty")),
			want: ttx("AirSide Coffee 12.30 JPY (0.13 each)", model.WithTags("¥", "tasty")),
		},
		{
			name: "identical tag is not duplicated",
			in:   ttx("AirSide Coffee 12.30 JPY@ 0.13  ", model.WithTags("¥")),
			want: ttx("AirSide Coffee 12.30 JPY (0.13 each)", model.WithTags("¥")),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gt.Equal(t, cleaner.Clean(tt.in, newExtractors()), tt.want)
		})
	}
}

func TestClean_DoesNotMutateInput(t *testing.T) {
	in := ttx("XY90210 Happy Days", model.WithMeta(model.Meta{"id": "Agent 007"}), model.WithTags("a"))
	_ = cleaner.Clean(in, newExtractors())

	gt.Equal(t, in, ttx("XY90210 Happy Days", model.WithMeta(model.Meta{"id": "Agent 007"}), model.WithTags("a")))
}

func TestClean_EmptyExtractors(t *testing.T) {
	tx := ttx("shai hulud vendor")
	gt.Equal(t, cleaner.Clean(tx, nil), tx)
	gt.Equal(t, cleaner.Clean(tx, cleaner.Extractors{}), tx)
}

func TestClean_PreserveOriginal(t *testing.T) {
	p := "ID19283 standing order"

	got := cleaner.Clean(ttx(p), newExtractors(), cleaner.WithPreserveOriginal("previously"))
	gt.Equal(t, got, ttx("standing order", model.WithMeta(model.Meta{"id": "id19283", "previously": p})))

	t.Run("unchanged payee is not recorded", func(t *testing.T) {
		got := cleaner.Clean(ttx("Fredrikson and Sons"), newExtractors(), cleaner.WithPreserveOriginal("previously"))
		gt.V(t, got.Meta).Nil()
	})
}

func TestClean_StarStripping(t *testing.T) {
	got := cleaner.Clean(ttx("*Fredrikson*and Sons *Ltd.*"), nil, cleaner.WithStarStripping())
	gt.Equal(t, got.Payee, "Fredrikson*and Sons Ltd.")

	got = cleaner.Clean(ttx("ID1234 *standing order"), newExtractors(), cleaner.WithStarStripping())
	gt.Equal(t, got, ttx("standing order", model.WithMeta(model.Meta{"id": "id1234"})))
}

func TestClean_ExtractorOrderMatters(t *testing.T) {
	e := newExtractors()
	n := len(e)
	e[n-2], e[n-1] = e[n-1], e[n-2]

	// The cleanup runs first, so the tag pattern no longer finds its '@'.
	got := cleaner.Clean(ttx("AirSide Coffee 12.30 JPY@ 0.13  "), e)
	gt.Equal(t, got, ttx("AirSide Coffee 12.30 JPY (0.13 each)"))
}

func TestClean_PayeeReplacesEveryOccurrence(t *testing.T) {
	e := cleaner.Extractors{
		cleaner.MustNew("squash dashes", `-+`, cleaner.Payee(" ")),
	}
	got := cleaner.Clean(ttx("a--b---c"), e)
	gt.Equal(t, got.Payee, "a b c")
}

func TestClean_DropsSource(t *testing.T) {
	in := ttx("XY90210 Happy Days")
	in.Source = `2071-03-14 ! "XY90210 Happy Days" ""`

	got := cleaner.Clean(in, newExtractors())
	gt.Equal(t, got.Source, "")
	gt.Equal(t, in.Source, `2071-03-14 ! "XY90210 Happy Days" ""`)
}
