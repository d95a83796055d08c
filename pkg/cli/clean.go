package cli

import (
	"bytes"
	"context"
	"io"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/ledgerkit/txcleanup/pkg/cli/config"
	"github.com/ledgerkit/txcleanup/pkg/usecase"
)

func cmdClean() *cli.Command {
	var (
		rulesCfg   config.Rules
		storageCfg config.Storage
		cleanerCfg config.Cleaner
		usageCfg   config.Usage
	)

	var flags []cli.Flag
	flags = append(flags, rulesCfg.Flags()...)
	flags = append(flags, storageCfg.Flags()...)
	flags = append(flags, cleanerCfg.Flags()...)
	flags = append(flags, usageCfg.Flags()...)

	return &cli.Command{
		Name:    "clean",
		Aliases: []string{"c"},
		Usage:   "Clean the payees of every transaction in a ledger",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			extractors, err := rulesCfg.Load()
			if err != nil {
				return err
			}

			store, closeStore, err := usageCfg.Configure(ctx)
			if err != nil {
				return err
			}
			defer closeStore()

			root := c.Root()
			ledgers, closeLedgers := storageCfg.Configure(ctx, root.Reader, root.Writer)
			defer closeLedgers()

			opts := []usecase.CleanOption{usecase.WithCleanerOptions(cleanerCfg.Options()...)}
			if store != nil {
				opts = append(opts, usecase.WithUsageStore(store))
			}
			uc := usecase.NewClean(extractors, opts...)

			in, err := ledgers.NewReader(ctx, storageCfg.Input)
			if err != nil {
				return err
			}
			defer in.Close()

			// the output is only opened once cleaning succeeded so that a
			// ledger can be cleaned in place
			var cleaned bytes.Buffer
			if _, err := uc.Run(ctx, in, &cleaned); err != nil {
				return err
			}

			out, err := ledgers.NewWriter(ctx, storageCfg.Output)
			if err != nil {
				return err
			}
			if _, err := io.Copy(out, &cleaned); err != nil {
				_ = out.Close()
				return goerr.Wrap(err, "failed to write ledger", goerr.V("output", storageCfg.Output))
			}
			if err := out.Close(); err != nil {
				return goerr.Wrap(err, "failed to close ledger", goerr.V("output", storageCfg.Output))
			}
			return nil
		},
	}
}
