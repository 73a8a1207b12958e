package assistant

import (
	"math"
	"time"

	"github.com/hsabsaboun/backend/internal/finance"
)

// ApplyAction applies a model response to s through the same reducers as the
// explicit operations. Missing payload parts make the action a no-op and
// applied reports false. A payload the reducers reject returns s unchanged
// together with the validation error.
func ApplyAction(s finance.State, resp Response, now time.Time) (out finance.State, applied bool, err error) {
	p := resp.Payload
	if p == nil {
		return s, false, nil
	}

	switch resp.Action {
	case ActionAddIncomeSource:
		if p.IncomeSource == nil {
			return s, false, nil
		}
		out, _, err = finance.AddIncome(s, finance.IncomeInput{
			Name:   p.IncomeSource.Name,
			Amount: p.IncomeSource.Amount,
		}, now)

	case ActionAddExpense:
		if p.Expense == nil {
			return s, false, nil
		}
		out, _, err = finance.AddExpense(s, finance.ExpenseInput{
			Name:     p.Expense.Name,
			Amount:   p.Expense.Amount,
			Category: expenseCategory(p.Expense.Category),
		}, now)

	case ActionSetGoal:
		if p.Goal == nil {
			return s, false, nil
		}
		duration := int(math.Round(p.Goal.DurationMonths))
		if duration < 1 {
			duration = 1
		}
		out, _, err = finance.SetGoal(s, finance.GoalInput{
			Name:           p.Goal.Name,
			TargetAmount:   p.Goal.TargetAmount,
			DurationMonths: duration,
		})

	case ActionDeleteExpense:
		if p.ID == "" {
			return s, false, nil
		}
		out = finance.DeleteExpense(s, p.ID)
		return out, len(out.Expenses) != len(s.Expenses), nil

	default:
		return s, false, nil
	}

	if err != nil {
		return s, false, err
	}
	return out, true, nil
}

// expenseCategory maps a model label onto a category, falling back to
// CategoryOther for labels outside the list.
func expenseCategory(label string) finance.ExpenseCategory {
	if c, ok := finance.ParseCategory(label); ok {
		return c
	}
	return finance.CategoryOther
}
