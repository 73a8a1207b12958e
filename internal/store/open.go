package store

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
)

// Backend names accepted by Open.
const (
	BackendMemory    = "memory"
	BackendFirestore = "firestore"
	BackendSQLite    = "sqlite"
)

// OpenOptions selects and configures a store backend.
type OpenOptions struct {
	Backend    string
	ProjectID  string
	SQLitePath string
}

// Open creates the store named by opts.Backend. The returned close function
// releases the underlying client and is never nil.
func Open(ctx context.Context, opts OpenOptions) (Store, func() error, error) {
	switch opts.Backend {
	case BackendMemory:
		return NewMemoryStore(), func() error { return nil }, nil

	case BackendSQLite:
		s, err := OpenSQLite(opts.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil

	case BackendFirestore:
		projectID := opts.ProjectID
		if projectID == "" {
			projectID = firestore.DetectProjectID
		}
		client, err := firestore.NewClient(ctx, projectID)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create Firestore client: %w", err)
		}
		return NewFirestoreStore(client), client.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", opts.Backend)
	}
}
