package finance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyRecurringBill(t *testing.T) {
	s := marchState()
	today := time.Date(2024, time.March, 15, 18, 45, 0, 0, time.UTC)
	require.True(t, IsDue(s.RecurringBills[0].Schedule, today))

	out, expense, err := ApplyRecurringBill(s, "rent", Confirmation{}, today)
	require.NoError(t, err)

	assert.Equal(t, "Rent", expense.Name)
	assert.Equal(t, 3000.0, expense.Amount)
	assert.Equal(t, CategoryRent, expense.Category)
	assert.Equal(t, today, expense.Date)
	require.Len(t, out.Expenses, 3)
	assert.Equal(t, expense, out.Expenses[2])

	last := out.RecurringBills[0].LastAppliedDate
	require.NotNil(t, last)
	assert.Equal(t, date(2024, time.March, 15), *last)
	assert.False(t, IsDue(out.RecurringBills[0].Schedule, today))
	assert.False(t, IsDue(out.RecurringBills[0].Schedule, date(2024, time.March, 31)))
	assert.True(t, IsDue(out.RecurringBills[0].Schedule, date(2024, time.April, 1)))

	assert.Len(t, s.Expenses, 2)
	assert.Nil(t, s.RecurringBills[0].LastAppliedDate)
}

func TestApplyRecurringBill_ConfirmedValues(t *testing.T) {
	today := date(2024, time.March, 20)
	out, expense, err := ApplyRecurringBill(marchState(), "rent", Confirmation{
		Name:     "Rent March",
		Amount:   3100,
		Category: CategoryFamily,
		Date:     date(2024, time.March, 18),
	}, today)
	require.NoError(t, err)

	assert.Equal(t, "Rent March", expense.Name)
	assert.Equal(t, 3100.0, expense.Amount)
	assert.Equal(t, CategoryFamily, expense.Category)
	assert.Equal(t, date(2024, time.March, 18), expense.Date)
	assert.Equal(t, 3000.0, out.RecurringBills[0].Amount)
}

func TestApplyRecurringBill_Atomic(t *testing.T) {
	s := marchState()

	t.Run("invalid confirmation leaves state untouched", func(t *testing.T) {
		out, _, err := ApplyRecurringBill(s, "rent", Confirmation{Amount: -10}, date(2024, time.March, 15))
		assert.ErrorIs(t, err, ErrValidation)
		assert.Equal(t, s, out)
		assert.Nil(t, out.RecurringBills[0].LastAppliedDate)
	})

	t.Run("unknown rule", func(t *testing.T) {
		out, _, err := ApplyRecurringBill(s, "missing", Confirmation{}, date(2024, time.March, 15))
		assert.ErrorIs(t, err, ErrRuleNotFound)
		assert.Equal(t, s, out)
	})
}

func TestApplyRecurringBill_MarkerNeverMovesBackwards(t *testing.T) {
	s := marchState()
	future := date(2024, time.April, 2)
	s.RecurringBills[0].LastAppliedDate = &future
	require.True(t, IsDue(s.RecurringBills[0].Schedule, date(2024, time.March, 20)))

	out, _, err := ApplyRecurringBill(s, "rent", Confirmation{}, date(2024, time.March, 20))
	require.NoError(t, err)
	assert.Equal(t, future, *out.RecurringBills[0].LastAppliedDate)
}

func TestApplyRecurringIncome(t *testing.T) {
	s := NewState(date(2024, time.March, 1))
	s, rule, err := AddRecurringIncome(s, RecurringIncomeInput{
		Name:     "Salary",
		Amount:   8000,
		Schedule: Schedule{RecurrenceType: RecurrenceYearly, Month: 3, Day: 1},
	})
	require.NoError(t, err)

	today := date(2024, time.March, 2)
	out, income, err := ApplyRecurringIncome(s, rule.ID, Confirmation{Amount: 8200}, today)
	require.NoError(t, err)

	assert.Equal(t, "Salary", income.Name)
	assert.Equal(t, 8200.0, income.Amount)
	assert.Equal(t, []IncomeSource{income}, out.IncomeSources)
	assert.False(t, IsDue(out.RecurringIncomes[0].Schedule, date(2024, time.December, 31)))
	assert.True(t, IsDue(out.RecurringIncomes[0].Schedule, date(2025, time.March, 1)))

	_, _, err = ApplyRecurringIncome(s, "missing", Confirmation{}, today)
	assert.ErrorIs(t, err, ErrRuleNotFound)
}

func TestApplyRecurring_OnlyWhenDue(t *testing.T) {
	s := marchState()
	s.RecurringBills[0].DayOfMonth = 15
	s, rule, err := AddRecurringIncome(s, RecurringIncomeInput{
		Name:     "Salary",
		Amount:   8000,
		Schedule: Schedule{RecurrenceType: RecurrenceMonthly, DayOfMonth: 25},
	})
	require.NoError(t, err)

	t.Run("before the trigger day", func(t *testing.T) {
		early := date(2024, time.March, 3)

		out, _, err := ApplyRecurringBill(s, "rent", Confirmation{}, early)
		assert.ErrorIs(t, err, ErrNotDue)
		assert.Equal(t, s, out)

		out, _, err = ApplyRecurringIncome(s, rule.ID, Confirmation{}, early)
		assert.ErrorIs(t, err, ErrNotDue)
		assert.Equal(t, s, out)

		assert.True(t, IsDue(s.RecurringBills[0].Schedule, date(2024, time.March, 15)))
	})

	t.Run("second apply in the same cycle", func(t *testing.T) {
		today := date(2024, time.March, 26)

		once, _, err := ApplyRecurringBill(s, "rent", Confirmation{}, today)
		require.NoError(t, err)
		twice, _, err := ApplyRecurringBill(once, "rent", Confirmation{}, today)
		assert.ErrorIs(t, err, ErrNotDue)
		assert.Equal(t, once, twice)
		assert.Len(t, twice.Expenses, 3)

		once, _, err = ApplyRecurringIncome(s, rule.ID, Confirmation{}, today)
		require.NoError(t, err)
		twice, _, err = ApplyRecurringIncome(once, rule.ID, Confirmation{}, today)
		assert.ErrorIs(t, err, ErrNotDue)
		assert.Len(t, twice.IncomeSources, 2)
	})

	t.Run("next cycle is due again", func(t *testing.T) {
		once, _, err := ApplyRecurringBill(s, "rent", Confirmation{}, date(2024, time.March, 26))
		require.NoError(t, err)
		_, _, err = ApplyRecurringBill(once, "rent", Confirmation{}, date(2024, time.April, 15))
		assert.NoError(t, err)
	})
}
