package store

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"github.com/hsabsaboun/backend/internal/finance"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const usersCollection = "users"

// FirestoreStore implements the Store interface using Firestore. Each user
// owns one document at users/{uid}.
type FirestoreStore struct {
	client *firestore.Client
}

// NewFirestoreStore creates a new Firestore-backed store
func NewFirestoreStore(client *firestore.Client) Store {
	return &FirestoreStore{
		client: client,
	}
}

// applyCursorPagination adds OrderBy + StartAfter + Limit to a query for cursor-based pagination.
// It fetches pageSize+1 docs so the caller can detect whether a next page exists.
func (s *FirestoreStore) applyCursorPagination(query firestore.Query, pageSize int32, pageToken string) (firestore.Query, error) {
	query = query.OrderBy(firestore.DocumentID, firestore.Asc)

	if pageToken != "" {
		docID, err := DecodePageToken(pageToken)
		if err != nil {
			return query, fmt.Errorf("invalid page token: %w", err)
		}
		query = query.StartAfter(docID)
	}

	query = query.Limit(int(defaultPageSize(pageSize)) + 1) // +1 to detect next page
	return query, nil
}

// LoadUserData reads users/{uid}. Firestore timestamps come back as
// time.Time and integers as int64; normalization accepts both.
func (s *FirestoreStore) LoadUserData(ctx context.Context, userID string) (Document, error) {
	doc, err := s.client.Collection(usersCollection).Doc(userID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("user %s: %w", userID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user data: %w", err)
	}
	data := doc.Data()
	if data == nil {
		data = map[string]interface{}{}
	}
	return Document(data), nil
}

// SaveUserData overwrites users/{uid} with the full document.
func (s *FirestoreStore) SaveUserData(ctx context.Context, userID string, data *finance.UserData) error {
	if data == nil {
		return fmt.Errorf("nil user data")
	}
	if _, err := s.client.Collection(usersCollection).Doc(userID).Set(ctx, data); err != nil {
		return fmt.Errorf("failed to save user data: %w", err)
	}
	return nil
}

// DeleteUserData deletes users/{uid}. Deleting a missing document succeeds.
func (s *FirestoreStore) DeleteUserData(ctx context.Context, userID string) error {
	if _, err := s.client.Collection(usersCollection).Doc(userID).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete user data: %w", err)
	}
	return nil
}

// ListUserIDs pages through the users collection by document ID.
func (s *FirestoreStore) ListUserIDs(ctx context.Context, pageSize int32, pageToken string) ([]string, string, error) {
	query, err := s.applyCursorPagination(s.client.Collection(usersCollection).Query, pageSize, pageToken)
	if err != nil {
		return nil, "", err
	}

	docs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, "", fmt.Errorf("failed to list users: %w", err)
	}

	size := int(defaultPageSize(pageSize))
	var nextPageToken string
	if len(docs) > size {
		docs = docs[:size]
		nextPageToken = EncodePageToken(docs[size-1].Ref.ID)
	}

	ids := make([]string, 0, len(docs))
	for _, doc := range docs {
		ids = append(ids, doc.Ref.ID)
	}
	return ids, nextPageToken, nil
}
