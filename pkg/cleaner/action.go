package cleaner

import (
	"strings"

	"github.com/ledgerkit/txcleanup/pkg/domain/model"
)

// DefaultValue is the template used by value actions: the first submatch
const DefaultValue = "${1}"

// Action is performed on a transaction after its extractor matched
type Action interface {
	Execute(m Match, txn *model.Transaction)
}

// Transformer post-processes an extracted value
type Transformer func(string) string

type value struct {
	template    string
	transformer Transformer
	translation map[string]string
}

// resolve expands the template, trims it, runs the transformer and finally
// looks the lower-cased result up in the translation table.
func (v *value) resolve(m Match) string {
	s := strings.TrimSpace(m.Expand(v.template))
	if v.transformer != nil {
		s = v.transformer(s)
	}
	if t, ok := v.translation[strings.ToLower(s)]; ok {
		return t
	}
	return s
}

// ValueOption configures how Tag and Meta compute their value
type ValueOption func(*value)

// WithValue replaces DefaultValue
func WithValue(template string) ValueOption {
	return func(v *value) {
		v.template = template
	}
}

// WithTransformer applies fn to the expanded value
func WithTransformer(fn Transformer) ValueOption {
	return func(v *value) {
		v.transformer = fn
	}
}

// WithTranslation sets a lookup table keyed by lower-cased values
func WithTranslation(table map[string]string) ValueOption {
	return func(v *value) {
		v.translation = table
	}
}

func newValue(template string, opts []ValueOption) value {
	v := value{template: template}
	for _, opt := range opts {
		opt(&v)
	}
	return v
}

// PayeeAction rewrites the payee using the extractor pattern
type PayeeAction struct {
	template string
	fn       func(Match) string
}

// Payee replaces every occurrence of the pattern in the current payee with the expanded template
func Payee(template string) *PayeeAction {
	return &PayeeAction{template: template}
}

// PayeeFunc replaces every occurrence of the pattern in the current payee with fn's result
func PayeeFunc(fn func(Match) string) *PayeeAction {
	return &PayeeAction{fn: fn}
}

// Erase removes the matched text from the payee
func Erase() *PayeeAction {
	return Payee("")
}

// Execute implements Action. The pattern is searched again on the current
// payee, which earlier actions may have changed.
func (a *PayeeAction) Execute(m Match, txn *model.Transaction) {
	var p string
	if a.fn != nil {
		p = replaceAllFunc(m.Pattern(), txn.Payee, a.fn)
	} else {
		p = m.Pattern().ReplaceAllString(txn.Payee, a.template)
	}
	txn.Payee = strings.TrimSpace(p)
}

// TagAction adds the extracted value as a tag
type TagAction struct {
	value
}

// Tag creates an action tagging the transaction with the expanded template
func Tag(template string, opts ...ValueOption) *TagAction {
	return &TagAction{value: newValue(template, opts)}
}

// Execute implements Action
func (a *TagAction) Execute(m Match, txn *model.Transaction) {
	txn.AddTag(a.resolve(m))
}

// MetaAction stores the extracted value in a metadata entry
type MetaAction struct {
	Name string
	value
}

// Meta creates an action storing the value under name. An existing entry
// gets the new value appended after a comma.
func Meta(name string, opts ...ValueOption) *MetaAction {
	return &MetaAction{Name: name, value: newValue(DefaultValue, opts)}
}

// Execute implements Action
func (a *MetaAction) Execute(m Match, txn *model.Transaction) {
	v := a.resolve(m)
	if prev, ok := txn.Meta[a.Name]; ok {
		v = prev + ", " + v
	}
	txn.SetMeta(a.Name, v)
}
