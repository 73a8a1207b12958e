package finance

import (
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewID returns a fresh identifier for a transaction or recurring rule.
func NewID() string {
	return uuid.New().String()
}

// IncomeInput carries the fields of a new income source.
type IncomeInput struct {
	Name   string
	Amount float64
	// Date defaults to the creation time when zero.
	Date time.Time
}

// ExpenseInput carries the fields of a new expense.
type ExpenseInput struct {
	Name     string
	Amount   float64
	Category ExpenseCategory
	Date     time.Time
}

// IncomePatch lists the income fields to change; nil fields are left alone.
type IncomePatch struct {
	Name   *string
	Amount *float64
	Date   *time.Time
}

// ExpensePatch lists the expense fields to change; nil fields are left alone.
type ExpensePatch struct {
	Name     *string
	Amount   *float64
	Category *ExpenseCategory
	Date     *time.Time
}

// GoalInput replaces the goal. SavedAmount is kept from the previous goal
// unless it is set here.
type GoalInput struct {
	Name           string
	TargetAmount   float64
	DurationMonths int
	SavedAmount    *float64
}

// RecurringBillInput carries the fields of a new recurring bill.
type RecurringBillInput struct {
	Name     string
	Amount   float64
	Category ExpenseCategory
	Schedule Schedule
}

// RecurringIncomeInput carries the fields of a new recurring income.
type RecurringIncomeInput struct {
	Name     string
	Amount   float64
	Schedule Schedule
}

// RecurringPatch lists the rule fields to change; nil fields are left alone.
// Category is ignored for incomes. Setting LastAppliedDate is an explicit
// user edit and may move the marker backwards; ClearLastApplied removes it.
type RecurringPatch struct {
	Name             *string
	Amount           *float64
	Category         *ExpenseCategory
	RecurrenceType   *RecurrenceType
	DayOfMonth       *int
	Month            *int
	Day              *int
	LastAppliedDate  *time.Time
	ClearLastApplied bool
}

// AddIncome appends a new income source to the active period.
func AddIncome(s State, in IncomeInput, now time.Time) (State, IncomeSource, error) {
	name, err := validName(in.Name)
	if err != nil {
		return s, IncomeSource{}, err
	}
	if err := validAmount(in.Amount); err != nil {
		return s, IncomeSource{}, err
	}
	income := IncomeSource{
		ID:     NewID(),
		Name:   name,
		Amount: in.Amount,
		Date:   orNow(in.Date, now),
	}
	out := s.Clone()
	out.IncomeSources = append(out.IncomeSources, income)
	return out, income, nil
}

// UpdateIncome merges patch into the income with the given id. An unknown
// id leaves the state unchanged.
func UpdateIncome(s State, id string, patch IncomePatch) (State, error) {
	idx := indexOf(len(s.IncomeSources), func(i int) bool { return s.IncomeSources[i].ID == id })
	if idx < 0 {
		return s, nil
	}
	out := s.Clone()
	income := &out.IncomeSources[idx]
	if patch.Name != nil {
		name, err := validName(*patch.Name)
		if err != nil {
			return s, err
		}
		income.Name = name
	}
	if patch.Amount != nil {
		if err := validAmount(*patch.Amount); err != nil {
			return s, err
		}
		income.Amount = *patch.Amount
	}
	if patch.Date != nil && !patch.Date.IsZero() {
		income.Date = *patch.Date
	}
	return out, nil
}

// DeleteIncome removes the income with the given id, if present.
func DeleteIncome(s State, id string) State {
	idx := indexOf(len(s.IncomeSources), func(i int) bool { return s.IncomeSources[i].ID == id })
	if idx < 0 {
		return s
	}
	out := s.Clone()
	out.IncomeSources = append(out.IncomeSources[:idx], out.IncomeSources[idx+1:]...)
	return out
}

// AddExpense appends a new expense to the active period. An empty category
// becomes CategoryOther.
func AddExpense(s State, in ExpenseInput, now time.Time) (State, Expense, error) {
	name, err := validName(in.Name)
	if err != nil {
		return s, Expense{}, err
	}
	if err := validAmount(in.Amount); err != nil {
		return s, Expense{}, err
	}
	category, err := validCategory(in.Category)
	if err != nil {
		return s, Expense{}, err
	}
	expense := Expense{
		ID:       NewID(),
		Name:     name,
		Amount:   in.Amount,
		Category: category,
		Date:     orNow(in.Date, now),
	}
	out := s.Clone()
	out.Expenses = append(out.Expenses, expense)
	return out, expense, nil
}

// UpdateExpense merges patch into the expense with the given id. An unknown
// id leaves the state unchanged.
func UpdateExpense(s State, id string, patch ExpensePatch) (State, error) {
	idx := indexOf(len(s.Expenses), func(i int) bool { return s.Expenses[i].ID == id })
	if idx < 0 {
		return s, nil
	}
	out := s.Clone()
	expense := &out.Expenses[idx]
	if patch.Name != nil {
		name, err := validName(*patch.Name)
		if err != nil {
			return s, err
		}
		expense.Name = name
	}
	if patch.Amount != nil {
		if err := validAmount(*patch.Amount); err != nil {
			return s, err
		}
		expense.Amount = *patch.Amount
	}
	if patch.Category != nil {
		category, err := validCategory(*patch.Category)
		if err != nil {
			return s, err
		}
		expense.Category = category
	}
	if patch.Date != nil && !patch.Date.IsZero() {
		expense.Date = *patch.Date
	}
	return out, nil
}

// DeleteExpense removes the expense with the given id, if present.
func DeleteExpense(s State, id string) State {
	idx := indexOf(len(s.Expenses), func(i int) bool { return s.Expenses[i].ID == id })
	if idx < 0 {
		return s
	}
	out := s.Clone()
	out.Expenses = append(out.Expenses[:idx], out.Expenses[idx+1:]...)
	return out
}

// SetGoal replaces the goal slot, carrying over the saved amount of the
// previous goal (0 when there was none) unless in.SavedAmount is set.
func SetGoal(s State, in GoalInput) (State, Goal, error) {
	name, err := validName(in.Name)
	if err != nil {
		return s, Goal{}, err
	}
	if math.IsNaN(in.TargetAmount) || in.TargetAmount <= 0 {
		return s, Goal{}, invalid("targetAmount", "must be greater than zero")
	}
	if in.DurationMonths <= 0 {
		return s, Goal{}, invalid("durationMonths", "must be at least one month")
	}

	saved := 0.0
	if s.Goal != nil {
		saved = s.Goal.SavedAmount
	}
	if in.SavedAmount != nil {
		if math.IsNaN(*in.SavedAmount) {
			return s, Goal{}, invalid("savedAmount", "must be a number")
		}
		saved = *in.SavedAmount
	}

	goal := Goal{
		Name:           name,
		TargetAmount:   in.TargetAmount,
		SavedAmount:    saved,
		DurationMonths: in.DurationMonths,
	}
	out := s.Clone()
	out.Goal = &goal
	return out, goal, nil
}

// DeleteGoal empties the goal slot.
func DeleteGoal(s State) State {
	if s.Goal == nil {
		return s
	}
	out := s.Clone()
	out.Goal = nil
	return out
}

// AddRecurringBill registers a new recurring bill.
func AddRecurringBill(s State, in RecurringBillInput) (State, RecurringBill, error) {
	name, err := validName(in.Name)
	if err != nil {
		return s, RecurringBill{}, err
	}
	if err := validAmount(in.Amount); err != nil {
		return s, RecurringBill{}, err
	}
	category, err := validCategory(in.Category)
	if err != nil {
		return s, RecurringBill{}, err
	}
	schedule, err := validSchedule(in.Schedule)
	if err != nil {
		return s, RecurringBill{}, err
	}
	bill := RecurringBill{
		ID:       NewID(),
		Name:     name,
		Amount:   in.Amount,
		Category: category,
		Schedule: schedule,
	}
	out := s.Clone()
	out.RecurringBills = append(out.RecurringBills, bill)
	return out, bill, nil
}

// UpdateRecurringBill merges patch into the bill with the given id. An
// unknown id leaves the state unchanged.
func UpdateRecurringBill(s State, id string, patch RecurringPatch) (State, error) {
	idx := indexOf(len(s.RecurringBills), func(i int) bool { return s.RecurringBills[i].ID == id })
	if idx < 0 {
		return s, nil
	}
	out := s.Clone()
	bill := &out.RecurringBills[idx]
	if err := patchRule(&bill.Name, &bill.Amount, &bill.Schedule, patch); err != nil {
		return s, err
	}
	if patch.Category != nil {
		category, err := validCategory(*patch.Category)
		if err != nil {
			return s, err
		}
		bill.Category = category
	}
	return out, nil
}

// DeleteRecurringBill removes the bill with the given id, if present.
func DeleteRecurringBill(s State, id string) State {
	idx := indexOf(len(s.RecurringBills), func(i int) bool { return s.RecurringBills[i].ID == id })
	if idx < 0 {
		return s
	}
	out := s.Clone()
	out.RecurringBills = append(out.RecurringBills[:idx], out.RecurringBills[idx+1:]...)
	return out
}

// AddRecurringIncome registers a new recurring income.
func AddRecurringIncome(s State, in RecurringIncomeInput) (State, RecurringIncome, error) {
	name, err := validName(in.Name)
	if err != nil {
		return s, RecurringIncome{}, err
	}
	if err := validAmount(in.Amount); err != nil {
		return s, RecurringIncome{}, err
	}
	schedule, err := validSchedule(in.Schedule)
	if err != nil {
		return s, RecurringIncome{}, err
	}
	income := RecurringIncome{
		ID:       NewID(),
		Name:     name,
		Amount:   in.Amount,
		Schedule: schedule,
	}
	out := s.Clone()
	out.RecurringIncomes = append(out.RecurringIncomes, income)
	return out, income, nil
}

// UpdateRecurringIncome merges patch into the income rule with the given id.
// An unknown id leaves the state unchanged.
func UpdateRecurringIncome(s State, id string, patch RecurringPatch) (State, error) {
	idx := indexOf(len(s.RecurringIncomes), func(i int) bool { return s.RecurringIncomes[i].ID == id })
	if idx < 0 {
		return s, nil
	}
	out := s.Clone()
	rule := &out.RecurringIncomes[idx]
	if err := patchRule(&rule.Name, &rule.Amount, &rule.Schedule, patch); err != nil {
		return s, err
	}
	return out, nil
}

// DeleteRecurringIncome removes the income rule with the given id, if present.
func DeleteRecurringIncome(s State, id string) State {
	idx := indexOf(len(s.RecurringIncomes), func(i int) bool { return s.RecurringIncomes[i].ID == id })
	if idx < 0 {
		return s
	}
	out := s.Clone()
	out.RecurringIncomes = append(out.RecurringIncomes[:idx], out.RecurringIncomes[idx+1:]...)
	return out
}

func patchRule(name *string, amount *float64, schedule *Schedule, patch RecurringPatch) error {
	if patch.Name != nil {
		n, err := validName(*patch.Name)
		if err != nil {
			return err
		}
		*name = n
	}
	if patch.Amount != nil {
		if err := validAmount(*patch.Amount); err != nil {
			return err
		}
		*amount = *patch.Amount
	}

	next := *schedule
	if patch.RecurrenceType != nil {
		next.RecurrenceType = *patch.RecurrenceType
	}
	if patch.DayOfMonth != nil {
		next.DayOfMonth = *patch.DayOfMonth
	}
	if patch.Month != nil {
		next.Month = *patch.Month
	}
	if patch.Day != nil {
		next.Day = *patch.Day
	}
	switch {
	case patch.ClearLastApplied:
		next.LastAppliedDate = nil
	case patch.LastAppliedDate != nil:
		t := *patch.LastAppliedDate
		next.LastAppliedDate = &t
	}
	checked, err := validSchedule(next)
	if err != nil {
		return err
	}
	*schedule = checked
	return nil
}

func validName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", invalid("name", "must not be empty")
	}
	return name, nil
}

func validAmount(amount float64) error {
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		return invalid("amount", "must be greater than zero")
	}
	return nil
}

func validCategory(c ExpenseCategory) (ExpenseCategory, error) {
	if c == "" {
		return CategoryOther, nil
	}
	if normalized, ok := ParseCategory(string(c)); ok {
		return normalized, nil
	}
	return "", invalid("category", "unknown category "+string(c))
}

func validSchedule(sc Schedule) (Schedule, error) {
	if sc.RecurrenceType == "" {
		sc.RecurrenceType = RecurrenceMonthly
	}
	rt, ok := ParseRecurrenceType(string(sc.RecurrenceType))
	if !ok {
		return sc, invalid("recurrenceType", "must be MONTHLY or YEARLY")
	}
	sc.RecurrenceType = rt

	switch rt {
	case RecurrenceYearly:
		if sc.Month < 1 || sc.Month > 12 {
			return sc, invalid("month", "must be between 1 and 12")
		}
		if sc.Day < 1 || sc.Day > 31 {
			return sc, invalid("day", "must be between 1 and 31")
		}
		sc.DayOfMonth = 0
	default:
		if sc.DayOfMonth < 1 || sc.DayOfMonth > 31 {
			return sc, invalid("dayOfMonth", "must be between 1 and 31")
		}
		sc.Month, sc.Day = 0, 0
	}
	return sc, nil
}

func orNow(t, now time.Time) time.Time {
	if t.IsZero() {
		return now
	}
	return t
}

func indexOf(n int, match func(int) bool) int {
	for i := 0; i < n; i++ {
		if match(i) {
			return i
		}
	}
	return -1
}
