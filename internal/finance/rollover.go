package finance

import "time"

// Rollover describes what Reconcile did.
type Rollover struct {
	// Advanced is true when the active period moved forward.
	Advanced bool
	// Archived is the history record appended, nil when the period was empty.
	Archived *MonthlyRecord
	// Accrued is the amount added to the goal's saved amount.
	Accrued float64
	// SkippedMonths counts calendar months between the archived period and
	// today's period that had no activity at all.
	SkippedMonths int
}

// Reconcile archives the active period into history when the calendar has
// moved past it. It must run before any other mutation of a freshly loaded
// state. Calling it again with the same today is a no-op.
//
// A gap of several months produces a single record labelled with the old
// active period; the months in between never held transactions and so fall
// under the empty-period rule.
func Reconcile(s State, today time.Time) (State, Rollover) {
	curMonth, curYear := PeriodOf(today)
	if !periodAfter(curYear, curMonth, s.LastActiveYear, s.LastActiveMonth) {
		return s, Rollover{}
	}

	out := s.Clone()
	result := Rollover{
		Advanced:      true,
		SkippedMonths: monthsBetween(s.LastActiveYear, s.LastActiveMonth, curYear, curMonth) - 1,
	}

	if len(s.IncomeSources) > 0 || len(s.Expenses) > 0 {
		record := archive(s)
		out.History = append(out.History, record)
		result.Archived = &record

		if record.Savings > 0 && out.Goal != nil {
			out.Goal.SavedAmount += record.Savings
			result.Accrued = record.Savings
		}

		out.IncomeSources = []IncomeSource{}
		out.Expenses = []Expense{}
	}

	out.LastActiveMonth = curMonth
	out.LastActiveYear = curYear
	return out, result
}

func archive(s State) MonthlyRecord {
	totalIncome := TotalIncome(s.IncomeSources)
	totalExpenses := TotalExpenses(s.Expenses)
	return MonthlyRecord{
		Month:         s.LastActiveMonth,
		Year:          s.LastActiveYear,
		TotalIncome:   totalIncome,
		TotalExpenses: totalExpenses,
		Savings:       totalIncome - totalExpenses,
		IncomeSources: append([]IncomeSource{}, s.IncomeSources...),
		Expenses:      append([]Expense{}, s.Expenses...),
	}
}

// periodAfter compares (year, month) pairs lexicographically.
func periodAfter(yearA, monthA, yearB, monthB int) bool {
	if yearA != yearB {
		return yearA > yearB
	}
	return monthA > monthB
}

func monthsBetween(fromYear, fromMonth, toYear, toMonth int) int {
	return (toYear-fromYear)*12 + (toMonth - fromMonth)
}
