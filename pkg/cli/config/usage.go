package config

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/ledgerkit/txcleanup/pkg/domain/interfaces"
	"github.com/ledgerkit/txcleanup/pkg/infra/usage"
)

// Usage selects where extractor usage is persisted
type Usage struct {
	File                string
	FirestoreProject    string
	FirestoreDatabase   string
	FirestoreCollection string
}

// Flags returns CLI flags for usage store configuration
func (c *Usage) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "usage-file",
			Usage:       "TOML file recording when each extractor last matched",
			Destination: &c.File,
			Sources:     cli.EnvVars("TXCLEANUP_USAGE_FILE"),
		},
		&cli.StringFlag{
			Name:        "firestore-project",
			Usage:       "Google Cloud project of the Firestore usage store",
			Destination: &c.FirestoreProject,
			Sources:     cli.EnvVars("TXCLEANUP_FIRESTORE_PROJECT"),
		},
		&cli.StringFlag{
			Name:        "firestore-database",
			Usage:       "Firestore database ID",
			Value:       "(default)",
			Destination: &c.FirestoreDatabase,
			Sources:     cli.EnvVars("TXCLEANUP_FIRESTORE_DATABASE"),
		},
		&cli.StringFlag{
			Name:        "firestore-collection",
			Usage:       "Firestore collection holding usage documents",
			Value:       usage.DefaultCollection,
			Destination: &c.FirestoreCollection,
			Sources:     cli.EnvVars("TXCLEANUP_FIRESTORE_COLLECTION"),
		},
	}
}

// Configure returns the configured store with a function releasing it. The
// store is nil when neither a file nor a Firestore project is given.
func (c *Usage) Configure(ctx context.Context) (interfaces.UsageStore, func(), error) {
	switch {
	case c.File != "" && c.FirestoreProject != "":
		return nil, nil, goerr.New("--usage-file and --firestore-project are mutually exclusive")

	case c.File != "":
		return usage.NewFile(c.File), func() {}, nil

	case c.FirestoreProject != "":
		store, err := usage.NewFirestore(ctx, c.FirestoreProject, c.FirestoreDatabase, c.FirestoreCollection)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { _ = store.Close() }, nil
	}

	return nil, func() {}, nil
}
