package rules

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2/hclsimple"
	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/ledgerkit/txcleanup/pkg/cleaner"
)

// Format of a rule file
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
	FormatHCL  Format = "hcl"
)

// FormatOf guesses the format from a file extension
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".hcl":
		return FormatHCL, nil
	default:
		return "", goerr.New("unsupported rule file extension", goerr.T(ErrInvalidRule), goerr.V("path", path))
	}
}

// LoadFile reads, decodes and builds the extractors of a rule file
func LoadFile(path string) (cleaner.Extractors, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read rule file", goerr.V("path", path))
	}
	exs, err := Load(format, data)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load rule file", goerr.V("path", path))
	}
	return exs, nil
}

// Load decodes data in format and builds the extractors
func Load(format Format, data []byte) (cleaner.Extractors, error) {
	f, err := Decode(format, data)
	if err != nil {
		return nil, err
	}
	return f.Build()
}

// Decode parses data without building extractors. Unknown fields are rejected.
func Decode(format Format, data []byte) (*File, error) {
	var f File
	switch format {
	case FormatTOML:
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&f); err != nil {
			return nil, goerr.Wrap(err, "failed to decode TOML rules", goerr.T(ErrInvalidRule))
		}

	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&f); err != nil {
			return nil, goerr.Wrap(err, "failed to decode YAML rules", goerr.T(ErrInvalidRule))
		}

	case FormatHCL:
		var h hclFile
		if err := hclsimple.Decode("rules.hcl", data, nil, &h); err != nil {
			return nil, goerr.Wrap(err, "failed to decode HCL rules", goerr.T(ErrInvalidRule))
		}
		f = h.toFile()

	default:
		return nil, goerr.New("unsupported rule format", goerr.T(ErrInvalidRule), goerr.V("format", format))
	}
	return &f, nil
}

// hclFile is the HCL shape of File: descriptions and action types are block labels
//
//	extractor "card number" {
//	  match = "card (\\d{4})"
//	  action "meta" { name = "card" }
//	  action "cleanup" {}
//	}
type hclFile struct {
	Extractors []hclExtractor `hcl:"extractor,block"`
}

type hclExtractor struct {
	Description string      `hcl:"description,label"`
	Match       string      `hcl:"match"`
	Actions     []hclAction `hcl:"action,block"`
}

type hclAction struct {
	Type        string            `hcl:"type,label"`
	Name        *string           `hcl:"name,optional"`
	Value       *string           `hcl:"value,optional"`
	Transform   []string          `hcl:"transform,optional"`
	Translation map[string]string `hcl:"translation,optional"`
}

func (h *hclFile) toFile() File {
	f := File{Extractors: make([]Extractor, 0, len(h.Extractors))}
	for _, e := range h.Extractors {
		def := Extractor{Description: e.Description, Match: e.Match}
		for _, a := range e.Actions {
			action := Action{
				Type:        a.Type,
				Value:       a.Value,
				Transform:   a.Transform,
				Translation: a.Translation,
			}
			if a.Name != nil {
				action.Name = *a.Name
			}
			def.Actions = append(def.Actions, action)
		}
		f.Extractors = append(f.Extractors, def)
	}
	return f
}
