package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/hsabsaboun/backend/internal/finance"

	_ "modernc.org/sqlite" // register sqlite driver
)

// SQLiteStore keeps one JSON document per user in a local SQLite file, for
// self-hosted deployments without Firestore.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// OpenSQLite opens or creates the database at the given path.
func OpenSQLite(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &SQLiteStore{db: db, now: time.Now}, nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) LoadUserData(ctx context.Context, userID string) (Document, error) {
	var data string
	err := s.db.QueryRowContext(ctx, "SELECT data FROM user_documents WHERE user_id = ?", userID).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %s: %w", userID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user data: %w", err)
	}
	return decodeDocument([]byte(data))
}

func (s *SQLiteStore) SaveUserData(ctx context.Context, userID string, data *finance.UserData) error {
	b, err := encodeUserData(data)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `INSERT INTO user_documents (user_id, data, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		userID, string(b), s.now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to save user data: %w", err)
	}
	return nil
}

func (s *SQLiteStore) DeleteUserData(ctx context.Context, userID string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM user_documents WHERE user_id = ?", userID); err != nil {
		return fmt.Errorf("failed to delete user data: %w", err)
	}
	return nil
}

func (s *SQLiteStore) ListUserIDs(ctx context.Context, pageSize int32, pageToken string) ([]string, string, error) {
	cursor, err := DecodePageToken(pageToken)
	if err != nil {
		return nil, "", fmt.Errorf("invalid page token: %w", err)
	}
	size := int(defaultPageSize(pageSize))

	rows, err := s.db.QueryContext(ctx,
		"SELECT user_id FROM user_documents WHERE user_id > ? ORDER BY user_id LIMIT ?",
		cursor, size+1,
	)
	if err != nil {
		return nil, "", fmt.Errorf("failed to list users: %w", err)
	}
	defer func() { _ = rows.Close() }()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, "", err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, "", err
	}

	var nextPageToken string
	if len(ids) > size {
		ids = ids[:size]
		nextPageToken = EncodePageToken(ids[size-1])
	}
	return ids, nextPageToken, nil
}
