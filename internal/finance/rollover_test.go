package finance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func marchState() State {
	s := NewState(date(2024, time.March, 1))
	s.IncomeSources = []IncomeSource{{ID: "i1", Name: "Salary", Amount: 1000, Date: date(2024, time.March, 1)}}
	s.Expenses = []Expense{
		{ID: "e1", Name: "Groceries", Amount: 300, Category: CategoryShopping, Date: date(2024, time.March, 3)},
		{ID: "e2", Name: "Fuel", Amount: 200, Category: CategoryCar, Date: date(2024, time.March, 9)},
	}
	s.Goal = &Goal{Name: "Car", TargetAmount: 20000, SavedAmount: 0, DurationMonths: 12}
	s.RecurringBills = []RecurringBill{
		{ID: "rent", Name: "Rent", Amount: 3000, Category: CategoryRent, Schedule: Schedule{RecurrenceType: RecurrenceMonthly, DayOfMonth: 1}},
	}
	return s
}

func TestReconcile_ArchivesPreviousPeriod(t *testing.T) {
	s := marchState()

	out, result := Reconcile(s, date(2024, time.April, 5))

	require.True(t, result.Advanced)
	require.NotNil(t, result.Archived)
	require.Len(t, out.History, 1)

	record := out.History[0]
	assert.Equal(t, 2, record.Month)
	assert.Equal(t, 2024, record.Year)
	assert.Equal(t, 1000.0, record.TotalIncome)
	assert.Equal(t, 500.0, record.TotalExpenses)
	assert.Equal(t, 500.0, record.Savings)
	assert.Len(t, record.IncomeSources, 1)
	assert.Len(t, record.Expenses, 2)

	assert.Empty(t, out.IncomeSources)
	assert.Empty(t, out.Expenses)
	assert.Equal(t, 3, out.LastActiveMonth)
	assert.Equal(t, 2024, out.LastActiveYear)
	assert.Equal(t, 500.0, out.Goal.SavedAmount)
	assert.Equal(t, 500.0, result.Accrued)
	assert.Equal(t, 0, result.SkippedMonths)
	assert.Equal(t, s.RecurringBills, out.RecurringBills)
}

func TestReconcile_DoesNotMutateInput(t *testing.T) {
	s := marchState()

	Reconcile(s, date(2024, time.April, 5))

	assert.Len(t, s.IncomeSources, 1)
	assert.Len(t, s.Expenses, 2)
	assert.Empty(t, s.History)
	assert.Equal(t, 0.0, s.Goal.SavedAmount)
	assert.Equal(t, 2, s.LastActiveMonth)
}

func TestReconcile_SamePeriodIsNoOp(t *testing.T) {
	s := marchState()

	out, result := Reconcile(s, date(2024, time.March, 31))

	assert.False(t, result.Advanced)
	assert.Nil(t, result.Archived)
	assert.Equal(t, s, out)
}

func TestReconcile_ClockBehindActivePeriodIsNoOp(t *testing.T) {
	s := marchState()

	out, result := Reconcile(s, date(2024, time.February, 10))

	assert.False(t, result.Advanced)
	assert.Equal(t, s, out)
}

func TestReconcile_Idempotent(t *testing.T) {
	today := date(2024, time.April, 5)
	once, _ := Reconcile(marchState(), today)
	twice, result := Reconcile(once, today)

	assert.False(t, result.Advanced)
	assert.Equal(t, once, twice)
}

func TestReconcile_EmptyPeriodAdvancesWithoutRecord(t *testing.T) {
	s := marchState()
	s.IncomeSources = []IncomeSource{}
	s.Expenses = []Expense{}

	out, result := Reconcile(s, date(2024, time.April, 5))

	assert.True(t, result.Advanced)
	assert.Nil(t, result.Archived)
	assert.Empty(t, out.History)
	assert.Equal(t, 3, out.LastActiveMonth)
	assert.Equal(t, 2024, out.LastActiveYear)
	assert.Equal(t, 0.0, out.Goal.SavedAmount)
}

func TestReconcile_NegativeSavingsDoNotAccrue(t *testing.T) {
	s := marchState()
	s.Goal.SavedAmount = 750
	s.Expenses = append(s.Expenses, Expense{ID: "e3", Name: "Repair", Amount: 900, Category: CategoryCar})

	out, result := Reconcile(s, date(2024, time.April, 5))

	require.Len(t, out.History, 1)
	assert.Equal(t, -400.0, out.History[0].Savings)
	assert.Equal(t, 750.0, out.Goal.SavedAmount)
	assert.Equal(t, 0.0, result.Accrued)
}

func TestReconcile_WithoutGoal(t *testing.T) {
	s := marchState()
	s.Goal = nil

	out, result := Reconcile(s, date(2024, time.April, 5))

	require.Len(t, out.History, 1)
	assert.Nil(t, out.Goal)
	assert.Equal(t, 0.0, result.Accrued)
}

func TestReconcile_MultiMonthGap(t *testing.T) {
	s := marchState()

	out, result := Reconcile(s, date(2024, time.July, 2))

	require.Len(t, out.History, 1)
	assert.Equal(t, 2, out.History[0].Month)
	assert.Equal(t, 6, out.LastActiveMonth)
	assert.Equal(t, 3, result.SkippedMonths)
	assert.Equal(t, 500.0, out.Goal.SavedAmount)
}

func TestReconcile_YearBoundary(t *testing.T) {
	s := NewState(date(2024, time.December, 1))
	s.IncomeSources = []IncomeSource{{ID: "i1", Name: "Salary", Amount: 5000}}

	out, result := Reconcile(s, date(2025, time.January, 1))

	require.NotNil(t, result.Archived)
	assert.Equal(t, 11, result.Archived.Month)
	assert.Equal(t, 2024, result.Archived.Year)
	assert.Equal(t, 0, out.LastActiveMonth)
	assert.Equal(t, 2025, out.LastActiveYear)
}

func TestReconcile_HistoryIsAppendOnly(t *testing.T) {
	s := marchState()
	s.History = []MonthlyRecord{{Month: 1, Year: 2024, TotalIncome: 10, Savings: 10}}

	out, _ := Reconcile(s, date(2024, time.April, 1))

	require.Len(t, out.History, 2)
	assert.Equal(t, s.History[0], out.History[0])
	assert.Equal(t, 2, out.History[1].Month)
	assert.Len(t, s.History, 1)
}
