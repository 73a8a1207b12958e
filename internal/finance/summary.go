package finance

import (
	"sort"
	"time"
)

// TotalIncome sums the amounts of incomes.
func TotalIncome(incomes []IncomeSource) float64 {
	var total float64
	for _, in := range incomes {
		total += in.Amount
	}
	return total
}

// TotalExpenses sums the amounts of expenses.
func TotalExpenses(expenses []Expense) float64 {
	var total float64
	for _, e := range expenses {
		total += e.Amount
	}
	return total
}

// GoalProgress returns the percentage of the target covered by the saved
// amount, clamped to 0-100. A nil goal or a non-positive target yields 0.
func GoalProgress(g *Goal) float64 {
	if g == nil || g.TargetAmount <= 0 {
		return 0
	}
	saved := g.SavedAmount
	if saved < 0 {
		saved = 0
	}
	if saved > g.TargetAmount {
		saved = g.TargetAmount
	}
	return saved / g.TargetAmount * 100
}

// View selects the window of a category breakdown.
type View string

const (
	ViewDaily   View = "daily"
	ViewMonthly View = "monthly"
	ViewYearly  View = "yearly"
)

// CategoryShare is one slice of a category breakdown.
type CategoryShare struct {
	Category ExpenseCategory `json:"category"`
	Amount   float64         `json:"amount"`
	Percent  float64         `json:"percent"`
}

// Breakdown groups expenses by category over a view window.
type Breakdown struct {
	View   View            `json:"view"`
	Total  float64         `json:"total"`
	Shares []CategoryShare `json:"shares"`
}

// CategoryBreakdown totals the expenses falling in the day, month or year of
// today, per category, largest first. Unknown views fall back to monthly.
func CategoryBreakdown(expenses []Expense, view View, today time.Time) Breakdown {
	loc := today.Location()
	inWindow := func(d time.Time) bool {
		d = d.In(loc)
		switch view {
		case ViewDaily:
			return d.Year() == today.Year() && d.YearDay() == today.YearDay()
		case ViewYearly:
			return d.Year() == today.Year()
		default:
			return d.Year() == today.Year() && d.Month() == today.Month()
		}
	}
	if view != ViewDaily && view != ViewYearly {
		view = ViewMonthly
	}

	byCategory := map[ExpenseCategory]float64{}
	var total float64
	for _, e := range expenses {
		if !inWindow(e.Date) {
			continue
		}
		byCategory[e.Category] += e.Amount
		total += e.Amount
	}

	shares := make([]CategoryShare, 0, len(byCategory))
	for c, amount := range byCategory {
		share := CategoryShare{Category: c, Amount: amount}
		if total > 0 {
			share.Percent = amount / total * 100
		}
		shares = append(shares, share)
	}
	sort.Slice(shares, func(i, j int) bool {
		if shares[i].Amount != shares[j].Amount {
			return shares[i].Amount > shares[j].Amount
		}
		return shares[i].Category < shares[j].Category
	})

	return Breakdown{View: view, Total: total, Shares: shares}
}

// Summary is the read model shown next to the state.
type Summary struct {
	TotalIncome   float64           `json:"totalIncome"`
	TotalExpenses float64           `json:"totalExpenses"`
	Savings       float64           `json:"savings"`
	GoalProgress  float64           `json:"goalProgress"`
	DueBills      []RecurringBill   `json:"dueBills"`
	DueIncomes    []RecurringIncome `json:"dueIncomes"`
}

// Summarize computes the aggregates of the active period as of today.
func Summarize(s State, today time.Time) Summary {
	income := TotalIncome(s.IncomeSources)
	expenses := TotalExpenses(s.Expenses)
	return Summary{
		TotalIncome:   income,
		TotalExpenses: expenses,
		Savings:       income - expenses,
		GoalProgress:  GoalProgress(s.Goal),
		DueBills:      DueBills(s, today),
		DueIncomes:    DueIncomes(s, today),
	}
}
