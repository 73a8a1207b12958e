package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"connectrpc.com/connect"
	"github.com/hsabsaboun/backend/internal/auth"
	"github.com/hsabsaboun/backend/internal/finance"
	"github.com/hsabsaboun/backend/internal/store"
)

// session is one loaded, normalized and reconciled user document. Mutations
// replace data.FinanceState and set dirty so the document is written back.
type session struct {
	userID   string
	data     finance.UserData
	now      time.Time
	today    time.Time
	rollover finance.Rollover
	dirty    bool
}

func (s *session) state() finance.State {
	return s.data.FinanceState
}

func (s *session) setState(state finance.State) {
	s.data.FinanceState = state
	s.dirty = true
}

func (s *session) stateResponse() StateResponse {
	return StateResponse{
		State:   s.data.FinanceState,
		Summary: finance.Summarize(s.data.FinanceState, s.today),
	}
}

// userLocks serializes sessions per user id.
type userLocks struct {
	mu    sync.Mutex
	locks map[string]*userLock
}

type userLock struct {
	mu   sync.Mutex
	refs int
}

func newUserLocks() *userLocks {
	return &userLocks{locks: make(map[string]*userLock)}
}

// lock blocks until the caller holds the lock of key and returns its release.
func (l *userLocks) lock(key string) func() {
	l.mu.Lock()
	ul, ok := l.locks[key]
	if !ok {
		ul = &userLock{}
		l.locks[key] = ul
	}
	ul.refs++
	l.mu.Unlock()

	ul.mu.Lock()
	return func() {
		ul.mu.Unlock()
		l.mu.Lock()
		ul.refs--
		if ul.refs == 0 {
			delete(l.locks, key)
		}
		l.mu.Unlock()
	}
}

// withSession runs fn on the caller's document: load, normalize, reconcile,
// fn, save. The document is saved when reconciliation, normalization or fn
// changed it, even if fn fails. Save failures are logged and not returned.
func (s *AgentService) withSession(ctx context.Context, fn func(*session) error) (*session, error) {
	claims, err := auth.RequireAuth(ctx)
	if err != nil {
		return nil, err
	}
	return s.runSession(ctx, claims.UID, fn)
}

func (s *AgentService) runSession(ctx context.Context, userID string, fn func(*session) error) (*session, error) {
	release := s.locks.lock(userID)
	defer release()

	sess, err := s.openSession(ctx, userID)
	if err != nil {
		return nil, err
	}

	fnErr := fn(sess)
	if sess.dirty {
		s.save(ctx, sess)
	}
	if fnErr != nil {
		return nil, fnErr
	}
	return sess, nil
}

func (s *AgentService) openSession(ctx context.Context, userID string) (*session, error) {
	now := s.clock().In(s.location)
	sess := &session{userID: userID, now: now, today: now}
	logger := s.logger.With("user_id", userID)

	doc, err := s.store.LoadUserData(ctx, userID)
	switch {
	case errors.Is(err, store.ErrNotFound):
		logger.Info("creating user document")
		sess.data = finance.NewUserData(now)
		sess.dirty = true
	case err != nil:
		logger.Error("failed to load user data", "error", err)
		return nil, connect.NewError(connect.CodeInternal, auth.WrapStoreError("load user data", err))
	default:
		data, repairs := finance.Normalize(doc, now)
		if len(repairs) > 0 {
			logger.Debug("repaired user document", "repairs", len(repairs), "fields", repairs)
			sess.dirty = true
		}
		sess.data = data
	}

	state, rollover := finance.Reconcile(sess.data.FinanceState, sess.today)
	sess.rollover = rollover
	if rollover.Advanced {
		attrs := []any{
			"month", state.LastActiveMonth,
			"year", state.LastActiveYear,
			"skipped_months", rollover.SkippedMonths,
			"accrued", rollover.Accrued,
		}
		if rollover.Archived != nil {
			attrs = append(attrs, "archived_savings", rollover.Archived.Savings)
		}
		logger.Info("rolled over to new period", attrs...)
		sess.setState(state)
	}
	return sess, nil
}

func (s *AgentService) save(ctx context.Context, sess *session) {
	if err := s.store.SaveUserData(ctx, sess.userID, &sess.data); err != nil {
		s.logger.Error("failed to save user data", "user_id", sess.userID, "error", err)
	}
}
