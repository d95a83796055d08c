package usage

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/ledgerkit/txcleanup/pkg/domain/model"
)

// DefaultCollection is the Firestore collection holding one document per extractor
const DefaultCollection = "extractor_usage"

type usageDocument struct {
	Rule      string    `firestore:"rule"`
	LastUsed  time.Time `firestore:"last_used"`
	UpdatedAt time.Time `firestore:"updated_at"`
}

// Firestore stores usage in a Firestore collection
type Firestore struct {
	client     *firestore.Client
	collection string
}

// NewFirestore connects to the database of projectID. An empty databaseID selects the default database.
func NewFirestore(ctx context.Context, projectID, databaseID, collection string) (*Firestore, error) {
	if databaseID == "" {
		databaseID = firestore.DefaultDatabaseID
	}
	if collection == "" {
		collection = DefaultCollection
	}

	client, err := firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create Firestore client",
			goerr.V("project_id", projectID),
			goerr.V("database_id", databaseID),
		)
	}
	return &Firestore{client: client, collection: collection}, nil
}

// Close releases the Firestore client
func (s *Firestore) Close() error {
	return s.client.Close()
}

// docID derives a stable document ID; descriptions may contain '/'
func docID(rule string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(rule)).String()
}

// Load implements interfaces.UsageStore
func (s *Firestore) Load(ctx context.Context) (map[string]time.Time, error) {
	dates := make(map[string]time.Time)

	iter := s.client.Collection(s.collection).Documents(ctx)
	defer iter.Stop()
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate usage documents", goerr.V("collection", s.collection))
		}

		var doc usageDocument
		if err := snap.DataTo(&doc); err != nil {
			return nil, goerr.Wrap(err, "failed to decode usage document", goerr.V("id", snap.Ref.ID))
		}
		dates[doc.Rule] = doc.LastUsed.UTC()
	}
	return dates, nil
}

// Save implements interfaces.UsageStore. Each rule is updated in its own
// transaction so concurrent runs never move a date backwards.
func (s *Firestore) Save(ctx context.Context, report model.UsageReport) error {
	now := time.Now().UTC()
	for _, u := range report {
		ref := s.client.Collection(s.collection).Doc(docID(u.Rule))
		err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
			snap, err := tx.Get(ref)
			if err != nil && status.Code(err) != codes.NotFound {
				return goerr.Wrap(err, "failed to get usage document")
			}
			if err == nil {
				var prev usageDocument
				if err := snap.DataTo(&prev); err != nil {
					return goerr.Wrap(err, "failed to decode usage document")
				}
				if !u.Date.After(prev.LastUsed) {
					return nil
				}
			}
			return tx.Set(ref, usageDocument{Rule: u.Rule, LastUsed: u.Date, UpdatedAt: now})
		})
		if err != nil {
			return goerr.Wrap(err, "failed to save usage", goerr.V("rule", u.Rule), goerr.V("collection", s.collection))
		}
	}
	return nil
}
