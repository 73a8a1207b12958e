package service

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/hsabsaboun/backend/internal/assistant"
	"github.com/hsabsaboun/backend/internal/auth"
	"github.com/hsabsaboun/backend/internal/finance"
	"github.com/hsabsaboun/backend/internal/store"
)

// testNow is mid-March 2024 so the active period of a new user is month 2.
var testNow = time.Date(2024, time.March, 15, 10, 30, 0, 0, time.UTC)

// testContext creates a context with authenticated user claims for testing
func testContext(userID string) context.Context {
	return auth.WithUserClaims(context.Background(), &auth.UserClaims{
		UID:         userID,
		Email:       userID + "@test.com",
		DisplayName: "Test User",
		Verified:    true,
	})
}

type fakeAssistant struct {
	interpret func(text string, state finance.State) (assistant.Response, error)
	public    func(text string) (assistant.PublicResponse, error)
	split     func(req assistant.SplitRequest) (assistant.SplitResponse, error)
}

func (f *fakeAssistant) Interpret(_ context.Context, text string, state finance.State, _ time.Time) (assistant.Response, error) {
	if f.interpret == nil {
		return assistant.Response{Action: assistant.ActionGeneralResponse, ResponseMessage: "مرحبا"}, nil
	}
	return f.interpret(text, state)
}

func (f *fakeAssistant) PublicAdvice(_ context.Context, text string, _ []finance.ChatMessage) (assistant.PublicResponse, error) {
	if f.public == nil {
		return assistant.PublicResponse{ResponseMessage: "وفر 20%", Suggestions: []string{"كيفاش نوفر؟"}}, nil
	}
	return f.public(text)
}

func (f *fakeAssistant) SplitSalary(_ context.Context, req assistant.SplitRequest) (assistant.SplitResponse, error) {
	if f.split == nil {
		return assistant.SplitResponse{Remaining: req.Salary}, nil
	}
	return f.split(req)
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestService(t *testing.T, st store.Store, ai Assistant) *AgentService {
	t.Helper()
	if ai == nil {
		ai = &fakeAssistant{}
	}
	return NewAgentService(st, ai,
		WithClock(func() time.Time { return testNow }),
		WithLogger(quietLogger()),
	)
}

// seedUser stores data for userID directly, bypassing the service.
func seedUser(t *testing.T, st store.Store, userID string, data finance.UserData) {
	t.Helper()
	if err := st.SaveUserData(context.Background(), userID, &data); err != nil {
		t.Fatalf("seed user: %v", err)
	}
}

// toDocument renders data the way a JSON-backed store would return it.
func toDocument(data *finance.UserData) (store.Document, error) {
	b, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	var doc store.Document
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}
