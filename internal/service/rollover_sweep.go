package service

import (
	"context"
	"fmt"
	"time"

	"github.com/hsabsaboun/backend/internal/finance"
)

// sweepPageSize is the number of user ids read per store page.
const sweepPageSize = 500

// SweepResult counts what ReconcileAll did.
type SweepResult struct {
	Users      int `json:"users"`
	RolledOver int `json:"rolledOver"`
	Archived   int `json:"archived"`
	Errors     int `json:"errors"`
}

// ReconcileAll runs the session pipeline for every stored user so that
// documents of inactive users are rolled over and repaired without waiting
// for their next visit. Per-user failures are logged and counted.
func (s *AgentService) ReconcileAll(ctx context.Context) (SweepResult, error) {
	var result SweepResult

	pageToken := ""
	for {
		ids, nextToken, err := s.store.ListUserIDs(ctx, sweepPageSize, pageToken)
		if err != nil {
			return result, fmt.Errorf("failed to list users: %w", err)
		}

		for _, id := range ids {
			result.Users++
			rollover, err := s.ReconcileUser(ctx, id)
			if err != nil {
				s.logger.Error("failed to reconcile user", "user_id", id, "error", err)
				result.Errors++
				continue
			}
			if rollover.Advanced {
				result.RolledOver++
			}
			if rollover.Archived != nil {
				result.Archived++
			}
		}

		if nextToken == "" {
			break
		}
		pageToken = nextToken
	}

	s.logger.Info("reconcile sweep completed",
		"users", result.Users,
		"rolled_over", result.RolledOver,
		"archived", result.Archived,
		"errors", result.Errors)
	return result, nil
}

// ReconcileUser runs the session pipeline for one user without any mutation
// and reports the rollover it performed.
func (s *AgentService) ReconcileUser(ctx context.Context, userID string) (finance.Rollover, error) {
	sess, err := s.runSession(ctx, userID, func(*session) error { return nil })
	if err != nil {
		return finance.Rollover{}, err
	}
	return sess.rollover, nil
}

// Snapshot returns the reconciled document of a user and the day it was
// reconciled against.
func (s *AgentService) Snapshot(ctx context.Context, userID string) (finance.UserData, time.Time, error) {
	sess, err := s.runSession(ctx, userID, func(*session) error { return nil })
	if err != nil {
		return finance.UserData{}, time.Time{}, err
	}
	return sess.data, sess.today, nil
}

// UpdateUser applies reduce to a user's reconciled state and saves the result.
// It is the entry point of tools that act on behalf of a user.
func (s *AgentService) UpdateUser(ctx context.Context, userID string, reduce func(st finance.State, now time.Time) (finance.State, error)) (finance.State, error) {
	sess, err := s.runSession(ctx, userID, func(sess *session) error {
		state, err := reduce(sess.state(), sess.now)
		if err != nil {
			return err
		}
		sess.setState(state)
		return nil
	})
	if err != nil {
		return finance.State{}, err
	}
	return sess.state(), nil
}
