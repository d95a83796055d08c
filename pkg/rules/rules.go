// Package rules loads extractor definitions from TOML, YAML or HCL files.
package rules

import (
	"github.com/m-mizutani/goerr/v2"

	"github.com/ledgerkit/txcleanup/pkg/cleaner"
)

// ErrInvalidRule tags errors caused by a malformed rule definition
var ErrInvalidRule = goerr.NewTag("invalid_rule")

// Action kinds accepted in rule files
const (
	ActionPayee   = "payee"
	ActionCleanup = "cleanup"
	ActionTag     = "tag"
	ActionMeta    = "meta"
)

// File is the decoded content of a rule file
type File struct {
	Extractors []Extractor `toml:"extractor" yaml:"extractor"`
}

// Extractor declares one cleaner.Extractor
type Extractor struct {
	Description string   `toml:"description" yaml:"description"`
	Match       string   `toml:"match" yaml:"match"`
	Actions     []Action `toml:"action" yaml:"action"`
}

// Action declares one cleaner.Action. Value is a regexp template; when unset
// tag and meta use cleaner.DefaultValue and payee removes the match.
type Action struct {
	Type        string            `toml:"type" yaml:"type"`
	Name        string            `toml:"name,omitempty" yaml:"name,omitempty"`
	Value       *string           `toml:"value,omitempty" yaml:"value,omitempty"`
	Transform   []string          `toml:"transform,omitempty" yaml:"transform,omitempty"`
	Translation map[string]string `toml:"translation,omitempty" yaml:"translation,omitempty"`
}

// Build turns the declarations into an ordered extractor set
func (f *File) Build() (cleaner.Extractors, error) {
	exs := make(cleaner.Extractors, 0, len(f.Extractors))
	for i, def := range f.Extractors {
		e, err := def.build()
		if err != nil {
			return nil, goerr.Wrap(err, "invalid extractor",
				goerr.T(ErrInvalidRule),
				goerr.V("index", i),
				goerr.V("description", def.Description),
			)
		}
		exs.Add(e)
	}
	return exs, nil
}

func (d *Extractor) build() (*cleaner.Extractor, error) {
	if d.Match == "" {
		return nil, goerr.New("match is required")
	}
	if len(d.Actions) == 0 {
		return nil, goerr.New("at least one action is required")
	}

	actions := make([]cleaner.Action, 0, len(d.Actions))
	for i, a := range d.Actions {
		action, err := a.build()
		if err != nil {
			return nil, goerr.Wrap(err, "invalid action", goerr.V("action_index", i), goerr.V("type", a.Type))
		}
		actions = append(actions, action)
	}

	return cleaner.New(d.Description, d.Match, actions...)
}

// unusedFields lists the fields set on a that its type ignores
func (a *Action) unusedFields() []string {
	var unused []string
	if a.Name != "" && a.Type != ActionMeta {
		unused = append(unused, "name")
	}
	if a.Type == ActionCleanup {
		if a.Value != nil {
			unused = append(unused, "value")
		}
		if len(a.Transform) > 0 {
			unused = append(unused, "transform")
		}
	}
	if len(a.Translation) > 0 && (a.Type == ActionCleanup || a.Type == ActionPayee) {
		unused = append(unused, "translation")
	}
	return unused
}

func (a *Action) build() (cleaner.Action, error) {
	if unused := a.unusedFields(); len(unused) > 0 {
		return nil, goerr.New("fields are not used by this action type", goerr.V("type", a.Type), goerr.V("fields", unused))
	}

	transform, err := chain(a.Transform)
	if err != nil {
		return nil, err
	}

	valueOpts := []cleaner.ValueOption{
		cleaner.WithTranslation(a.Translation),
	}
	if transform != nil {
		valueOpts = append(valueOpts, cleaner.WithTransformer(transform))
	}

	switch a.Type {
	case ActionCleanup:
		return cleaner.Erase(), nil

	case ActionPayee:
		tmpl := ""
		if a.Value != nil {
			tmpl = *a.Value
		}
		if transform == nil {
			return cleaner.Payee(tmpl), nil
		}
		return cleaner.PayeeFunc(func(m cleaner.Match) string {
			return transform(m.Expand(tmpl))
		}), nil

	case ActionTag:
		tmpl := cleaner.DefaultValue
		if a.Value != nil {
			tmpl = *a.Value
		}
		return cleaner.Tag(tmpl, valueOpts...), nil

	case ActionMeta:
		if a.Name == "" {
			return nil, goerr.New("meta action requires a name")
		}
		if a.Value != nil {
			valueOpts = append(valueOpts, cleaner.WithValue(*a.Value))
		}
		return cleaner.Meta(a.Name, valueOpts...), nil

	default:
		return nil, goerr.New("unknown action type", goerr.V("type", a.Type))
	}
}
