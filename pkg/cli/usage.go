package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/ledgerkit/txcleanup/pkg/cli/config"
	"github.com/ledgerkit/txcleanup/pkg/domain/model"
	"github.com/ledgerkit/txcleanup/pkg/usecase"
)

func cmdUsage() *cli.Command {
	var (
		rulesCfg  config.Rules
		usageCfg  config.Usage
		slackCfg  config.Slack
		staleDays int
	)

	var flags []cli.Flag
	flags = append(flags, rulesCfg.Flags()...)
	flags = append(flags, usageCfg.Flags()...)
	flags = append(flags, slackCfg.Flags()...)
	flags = append(flags, &cli.IntFlag{
		Name:        "stale-days",
		Usage:       "Flag extractors unused for this many days before the most recent match; 0 disables",
		Destination: &staleDays,
		Sources:     cli.EnvVars("TXCLEANUP_STALE_DAYS"),
	})

	return &cli.Command{
		Name:    "usage",
		Aliases: []string{"u"},
		Usage:   "Report when each extractor last matched",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			if staleDays < 0 {
				return goerr.New("--stale-days must not be negative", goerr.V("stale_days", staleDays))
			}

			extractors, err := rulesCfg.Load()
			if err != nil {
				return err
			}

			store, closeStore, err := usageCfg.Configure(ctx)
			if err != nil {
				return err
			}
			defer closeStore()

			uc := usecase.NewReport(extractors, store, slackCfg.Configure())
			report, err := uc.Run(ctx, time.Duration(staleDays)*24*time.Hour)
			if err != nil {
				return err
			}

			printReport(c.Root().Writer, report)
			return nil
		},
	}
}

var staleColor = color.New(color.FgYellow)

func printReport(w io.Writer, report model.UsageReport) {
	for _, u := range report {
		if u.Stale {
			staleColor.Fprintln(w, u.String()+" (stale)")
			continue
		}
		fmt.Fprintln(w, u.String())
	}
}
