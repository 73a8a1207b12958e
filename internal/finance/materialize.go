package finance

import (
	"fmt"
	"time"
)

// Confirmation is what the user accepted when turning a due rule into a
// concrete transaction. Empty fields fall back to the rule's values and a
// zero Date falls back to today.
type Confirmation struct {
	Name     string
	Amount   float64
	Category ExpenseCategory
	Date     time.Time
}

// ApplyRecurringBill appends an Expense built from the bill and the
// confirmation, and marks the bill as applied on today. Both changes are in
// the returned state; on error s is returned untouched. A bill that is not
// due today fails with ErrNotDue.
func ApplyRecurringBill(s State, ruleID string, c Confirmation, today time.Time) (State, Expense, error) {
	idx := indexOf(len(s.RecurringBills), func(i int) bool { return s.RecurringBills[i].ID == ruleID })
	if idx < 0 {
		return s, Expense{}, fmt.Errorf("bill %s: %w", ruleID, ErrRuleNotFound)
	}
	bill := s.RecurringBills[idx]
	if !IsDue(bill.Schedule, today) {
		return s, Expense{}, fmt.Errorf("bill %s: %w", ruleID, ErrNotDue)
	}

	in := ExpenseInput{
		Name:     firstNonEmpty(c.Name, bill.Name),
		Amount:   orAmount(c.Amount, bill.Amount),
		Category: c.Category,
		Date:     orNow(c.Date, today),
	}
	if in.Category == "" {
		in.Category = bill.Category
	}

	out, expense, err := AddExpense(s, in, today)
	if err != nil {
		return s, Expense{}, err
	}
	out.RecurringBills[idx].Schedule = markApplied(out.RecurringBills[idx].Schedule, today)
	return out, expense, nil
}

// ApplyRecurringIncome appends an IncomeSource built from the rule and the
// confirmation, and marks the rule as applied on today. Like
// ApplyRecurringBill it only accepts a rule that is due.
func ApplyRecurringIncome(s State, ruleID string, c Confirmation, today time.Time) (State, IncomeSource, error) {
	idx := indexOf(len(s.RecurringIncomes), func(i int) bool { return s.RecurringIncomes[i].ID == ruleID })
	if idx < 0 {
		return s, IncomeSource{}, fmt.Errorf("income %s: %w", ruleID, ErrRuleNotFound)
	}
	rule := s.RecurringIncomes[idx]
	if !IsDue(rule.Schedule, today) {
		return s, IncomeSource{}, fmt.Errorf("income %s: %w", ruleID, ErrNotDue)
	}

	in := IncomeInput{
		Name:   firstNonEmpty(c.Name, rule.Name),
		Amount: orAmount(c.Amount, rule.Amount),
		Date:   orNow(c.Date, today),
	}

	out, income, err := AddIncome(s, in, today)
	if err != nil {
		return s, IncomeSource{}, err
	}
	out.RecurringIncomes[idx].Schedule = markApplied(out.RecurringIncomes[idx].Schedule, today)
	return out, income, nil
}

// markApplied moves LastAppliedDate to today's date, never backwards.
func markApplied(sc Schedule, today time.Time) Schedule {
	applied := dateOf(today)
	if sc.LastAppliedDate != nil && sc.LastAppliedDate.After(applied) {
		return sc
	}
	sc.LastAppliedDate = &applied
	return sc
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func orAmount(confirmed, fallback float64) float64 {
	if confirmed == 0 {
		return fallback
	}
	return confirmed
}
