package config

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/ledgerkit/txcleanup/pkg/cleaner"
	"github.com/ledgerkit/txcleanup/pkg/rules"
)

// Rules holds the location of the extractor definitions
type Rules struct {
	Path string
}

// Flags returns CLI flags for rules configuration
func (c *Rules) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "rules",
			Aliases:     []string{"r"},
			Usage:       "Extractor rules file (.toml, .yaml, .yml or .hcl)",
			Required:    true,
			Destination: &c.Path,
			Sources:     cli.EnvVars("TXCLEANUP_RULES"),
		},
	}
}

// Load reads and builds the extractors
func (c *Rules) Load() (cleaner.Extractors, error) {
	exs, err := rules.LoadFile(c.Path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load rules", goerr.V("path", c.Path))
	}
	return exs, nil
}
