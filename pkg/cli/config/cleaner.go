package config

import (
	"github.com/urfave/cli/v3"

	"github.com/ledgerkit/txcleanup/pkg/cleaner"
)

// Cleaner holds options applied to every transaction
type Cleaner struct {
	PreserveOriginalIn string
	StripStars         bool
}

// Flags returns CLI flags for cleaner configuration
func (c *Cleaner) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "preserve-original-in",
			Usage:       "Metadata key receiving the original payee of modified transactions",
			Destination: &c.PreserveOriginalIn,
			Sources:     cli.EnvVars("TXCLEANUP_PRESERVE_ORIGINAL_IN"),
		},
		&cli.BoolFlag{
			Name:        "strip-stars",
			Usage:       "Strip '*' separators from payees before extraction",
			Destination: &c.StripStars,
			Sources:     cli.EnvVars("TXCLEANUP_STRIP_STARS"),
		},
	}
}

// Options converts the configuration to cleaner options
func (c *Cleaner) Options() []cleaner.Option {
	var opts []cleaner.Option
	if c.PreserveOriginalIn != "" {
		opts = append(opts, cleaner.WithPreserveOriginal(c.PreserveOriginalIn))
	}
	if c.StripStars {
		opts = append(opts, cleaner.WithStarStripping())
	}
	return opts
}
