package config

import (
	"context"
	"io"

	"github.com/m-mizutani/ctxlog"
	"github.com/urfave/cli/v3"
	"google.golang.org/api/option"

	"github.com/ledgerkit/txcleanup/pkg/domain/interfaces"
	"github.com/ledgerkit/txcleanup/pkg/infra/storage"
)

// Storage holds ledger I/O configuration
type Storage struct {
	Input       string
	Output      string
	GCSEndpoint string
}

// Flags returns CLI flags for ledger locations
func (c *Storage) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "input",
			Aliases:     []string{"i"},
			Usage:       "Ledger to read: a path, gs://bucket/object or - for stdin",
			Value:       storage.Stdio,
			Destination: &c.Input,
			Sources:     cli.EnvVars("TXCLEANUP_INPUT"),
		},
		&cli.StringFlag{
			Name:        "output",
			Aliases:     []string{"o"},
			Usage:       "Ledger to write: a path, gs://bucket/object or - for stdout",
			Value:       storage.Stdio,
			Destination: &c.Output,
			Sources:     cli.EnvVars("TXCLEANUP_OUTPUT"),
		},
		&cli.StringFlag{
			Name:        "gcs-endpoint",
			Usage:       "Cloud Storage endpoint override, e.g. an emulator; requests are unauthenticated",
			Destination: &c.GCSEndpoint,
			Sources:     cli.EnvVars("TXCLEANUP_GCS_ENDPOINT"),
		},
	}
}

// Configure returns the ledger storage using stdin and stdout for "-", with
// a function releasing it
func (c *Storage) Configure(ctx context.Context, stdin io.Reader, stdout io.Writer) (interfaces.Storage, func()) {
	opts := []storage.Option{storage.WithStdio(stdin, stdout)}
	if c.GCSEndpoint != "" {
		opts = append(opts, storage.WithGCSOptions(
			option.WithEndpoint(c.GCSEndpoint),
			option.WithoutAuthentication(),
		))
	}
	s := storage.New(opts...)
	return s, func() {
		if err := s.Close(); err != nil {
			ctxlog.From(ctx).Warn("Failed to close storage", "error", err)
		}
	}
}
