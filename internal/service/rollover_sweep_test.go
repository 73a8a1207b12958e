package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hsabsaboun/backend/internal/finance"
	"github.com/hsabsaboun/backend/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestReconcileAll(t *testing.T) {
	st := store.NewMemoryStore()

	jan := time.Date(2024, time.January, 20, 0, 0, 0, 0, time.UTC)
	stale := finance.NewUserData(jan)
	stale.FinanceState.Expenses = []finance.Expense{{ID: "e1", Name: "كراء", Amount: 2000, Category: finance.CategoryRent, Date: jan}}
	seedUser(t, st, "stale", stale)

	idle := finance.NewUserData(jan)
	seedUser(t, st, "idle", idle)

	seedUser(t, st, "current", finance.NewUserData(testNow))

	svc := newTestService(t, st, nil)
	result, err := svc.ReconcileAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, SweepResult{Users: 3, RolledOver: 2, Archived: 1}, result)

	data, _, err := svc.Snapshot(context.Background(), "stale")
	require.NoError(t, err)
	require.Len(t, data.FinanceState.History, 1)
	assert.Equal(t, 0, data.FinanceState.History[0].Month)
	assert.Equal(t, -2000.0, data.FinanceState.History[0].Savings)
	assert.Equal(t, 2, data.FinanceState.LastActiveMonth)

	again, err := svc.ReconcileAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, SweepResult{Users: 3}, again)
}

func TestReconcileAll_CountsUserErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := store.NewMockStore(ctrl)
	gomock.InOrder(
		mockStore.EXPECT().
			ListUserIDs(gomock.Any(), int32(sweepPageSize), "").
			Return([]string{"broken"}, "next", nil),
		mockStore.EXPECT().
			LoadUserData(gomock.Any(), "broken").
			Return(nil, errors.New("permission denied")),
		mockStore.EXPECT().
			ListUserIDs(gomock.Any(), int32(sweepPageSize), "next").
			Return([]string{}, "", nil),
	)

	svc := newTestService(t, mockStore, nil)
	result, err := svc.ReconcileAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, SweepResult{Users: 1, Errors: 1}, result)
}

func TestReconcileAll_ListFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := store.NewMockStore(ctrl)
	mockStore.EXPECT().
		ListUserIDs(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, "", errors.New("unavailable"))

	svc := newTestService(t, mockStore, nil)
	_, err := svc.ReconcileAll(context.Background())
	assert.ErrorContains(t, err, "failed to list users")
}

func TestUpdateUser(t *testing.T) {
	st := store.NewMemoryStore()
	svc := newTestService(t, st, nil)

	state, err := svc.UpdateUser(context.Background(), "cli-user", func(s finance.State, now time.Time) (finance.State, error) {
		out, _, err := finance.AddIncome(s, finance.IncomeInput{Name: "راتب", Amount: 9000}, now)
		return out, err
	})
	require.NoError(t, err)
	require.Len(t, state.IncomeSources, 1)
	assert.Equal(t, testNow, state.IncomeSources[0].Date)

	_, err = svc.UpdateUser(context.Background(), "cli-user", func(s finance.State, now time.Time) (finance.State, error) {
		out, _, err := finance.AddIncome(s, finance.IncomeInput{Name: "", Amount: 1}, now)
		return out, err
	})
	assert.ErrorIs(t, err, finance.ErrValidation)

	data, today, err := svc.Snapshot(context.Background(), "cli-user")
	require.NoError(t, err)
	assert.Len(t, data.FinanceState.IncomeSources, 1)
	assert.Equal(t, testNow, today)
}
