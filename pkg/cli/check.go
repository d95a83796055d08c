package cli

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/ledgerkit/txcleanup/pkg/cli/config"
)

func cmdCheck() *cli.Command {
	var rulesCfg config.Rules
	var verbose bool

	flags := append(rulesCfg.Flags(), &cli.BoolFlag{
		Name:        "verbose",
		Aliases:     []string{"v"},
		Usage:       "List every extractor with its pattern",
		Destination: &verbose,
	})

	return &cli.Command{
		Name:  "check",
		Usage: "Validate extractor rules",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			extractors, err := rulesCfg.Load()
			if err != nil {
				return err
			}

			w := c.Root().Writer
			if verbose {
				for _, ex := range extractors {
					fmt.Fprintf(w, "%s\t%s\n", ex.Description, ex.Pattern)
				}
			}
			fmt.Fprintf(w, "%s: %d extractors OK\n", rulesCfg.Path, len(extractors))
			return nil
		},
	}
}
