package finance

import "time"

// IsDue reports whether rule has reached its trigger date and has not yet
// been applied for the period containing today. Only the date part of today
// is considered, in today's location.
//
// A configured day past the end of the target month is clamped to that
// month's last day, so dayOfMonth=31 triggers on the 30th in April and on
// the 28th or 29th in February.
func IsDue(rule Schedule, today time.Time) bool {
	today = dateOf(today)
	if today.Before(CycleDueDate(rule, today)) {
		return false
	}
	if rule.LastAppliedDate == nil {
		return true
	}
	last := rule.LastAppliedDate.In(today.Location())
	if rule.RecurrenceType == RecurrenceYearly {
		return last.Year() != today.Year()
	}
	return last.Year() != today.Year() || last.Month() != today.Month()
}

// CycleDueDate returns the trigger date of the cycle containing today: this
// month's day for MONTHLY rules, this year's date for YEARLY ones.
func CycleDueDate(rule Schedule, today time.Time) time.Time {
	loc := today.Location()
	if rule.RecurrenceType == RecurrenceYearly {
		month := time.Month(clamp(rule.Month, 1, 12))
		return time.Date(today.Year(), month, clampDay(today.Year(), month, rule.Day), 0, 0, 0, 0, loc)
	}
	return time.Date(today.Year(), today.Month(), clampDay(today.Year(), today.Month(), rule.DayOfMonth), 0, 0, 0, 0, loc)
}

// DueBills returns the recurring bills that are due today, in rule order.
func DueBills(s State, today time.Time) []RecurringBill {
	due := []RecurringBill{}
	for _, b := range s.RecurringBills {
		if IsDue(b.Schedule, today) {
			due = append(due, b)
		}
	}
	return due
}

// DueIncomes returns the recurring incomes that are due today, in rule order.
func DueIncomes(s State, today time.Time) []RecurringIncome {
	due := []RecurringIncome{}
	for _, r := range s.RecurringIncomes {
		if IsDue(r.Schedule, today) {
			due = append(due, r)
		}
	}
	return due
}

// NextDueDate returns the first trigger date on or after today for rule,
// ignoring LastAppliedDate. Used for display only.
func NextDueDate(rule Schedule, today time.Time) time.Time {
	today = dateOf(today)
	loc := today.Location()

	if rule.RecurrenceType == RecurrenceYearly {
		month := time.Month(clamp(rule.Month, 1, 12))
		for year := today.Year(); ; year++ {
			d := time.Date(year, month, clampDay(year, month, rule.Day), 0, 0, 0, 0, loc)
			if !d.Before(today) {
				return d
			}
		}
	}

	d := time.Date(today.Year(), today.Month(), clampDay(today.Year(), today.Month(), rule.DayOfMonth), 0, 0, 0, 0, loc)
	if d.Before(today) {
		next := time.Date(today.Year(), today.Month()+1, 1, 0, 0, 0, 0, loc)
		d = time.Date(next.Year(), next.Month(), clampDay(next.Year(), next.Month(), rule.DayOfMonth), 0, 0, 0, 0, loc)
	}
	return d
}

func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// clampDay maps a configured day into the valid range of the given month.
func clampDay(year int, month time.Month, day int) int {
	return clamp(day, 1, daysInMonth(year, month))
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
