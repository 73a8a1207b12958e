package store

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hsabsaboun/backend/internal/finance"
)

//go:generate mockgen -source=store.go -destination=store_mock.go -package=store

// ErrNotFound is returned by LoadUserData when the user has no document yet.
var ErrNotFound = errors.New("user data not found")

// Document is a persisted user document exactly as the backend returned it.
// Its shape is not trusted; callers run it through finance.Normalize.
type Document map[string]interface{}

// Store defines the persistence operations used by the service
type Store interface {
	// LoadUserData returns the raw document of a user, or ErrNotFound.
	LoadUserData(ctx context.Context, userID string) (Document, error)
	// SaveUserData replaces the whole document of a user.
	SaveUserData(ctx context.Context, userID string, data *finance.UserData) error
	// DeleteUserData removes the document of a user, if any.
	DeleteUserData(ctx context.Context, userID string) error
	// ListUserIDs pages through the ids of every user with a document.
	ListUserIDs(ctx context.Context, pageSize int32, pageToken string) ([]string, string, error)
}

// EncodePageToken encodes a document ID into a page token.
func EncodePageToken(docID string) string {
	if docID == "" {
		return ""
	}
	return base64.URLEncoding.EncodeToString([]byte(docID))
}

// DecodePageToken decodes a page token back to a document ID.
func DecodePageToken(token string) (string, error) {
	if token == "" {
		return "", nil
	}
	b, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// encodeUserData serializes a document for the JSON-backed stores.
func encodeUserData(data *finance.UserData) ([]byte, error) {
	if data == nil {
		return nil, fmt.Errorf("nil user data")
	}
	b, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to encode user data: %w", err)
	}
	return b, nil
}

func decodeDocument(b []byte) (Document, error) {
	var doc Document
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode user data: %w", err)
	}
	if doc == nil {
		doc = Document{}
	}
	return doc, nil
}

func defaultPageSize(pageSize int32) int32 {
	if pageSize <= 0 {
		return 100
	}
	return pageSize
}
