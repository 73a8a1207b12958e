package finance

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Placeholder names given to records whose name is missing or not a string.
const (
	UnnamedIncome          = "مدخول بدون اسم"
	UnnamedExpense         = "مصروف بدون اسم"
	UnnamedRecurringIncome = "مدخول ثابت بدون اسم"
	UnnamedRecurringBill   = "فاتورة ثابتة بدون اسم"
	UnnamedGoal            = "هدف بدون اسم"
	MigratedSalaryName     = "راتب شهري"
	MigratedSalaryID       = "migrated-salary"
)

const (
	defaultGoalTarget   = 1000
	defaultGoalDuration = 1
)

// Normalize turns a persisted user document of any known shape into a
// structurally valid UserData. Fields that fail their type check are
// replaced with defaults; entries that are not objects are dropped. The
// returned repairs name every defaulted field, for diagnostics only.
func Normalize(raw map[string]interface{}, now time.Time) (UserData, []string) {
	n := &normalizer{now: now}

	data := UserData{
		CreatedAt: n.timeOr(raw["createdAt"], "createdAt"),
	}

	stateRaw, ok := raw["financeState"].(map[string]interface{})
	if !ok {
		if raw["financeState"] != nil {
			n.repair("financeState")
		}
		stateRaw = map[string]interface{}{}
	}
	data.FinanceState = n.state(stateRaw)
	data.ChatHistory = n.chat(raw["chatHistory"])

	return data, n.repairs
}

// NormalizeState is Normalize for a bare finance-state object.
func NormalizeState(raw map[string]interface{}, now time.Time) (State, []string) {
	n := &normalizer{now: now}
	return n.state(raw), n.repairs
}

type normalizer struct {
	now     time.Time
	repairs []string
}

func (n *normalizer) repair(path string) {
	n.repairs = append(n.repairs, path)
}

func (n *normalizer) state(raw map[string]interface{}) State {
	curMonth, curYear := PeriodOf(n.now)

	s := State{
		IncomeSources:    n.incomes(raw["incomeSources"], "incomeSources"),
		Expenses:         n.expenses(raw["expenses"], "expenses"),
		Goal:             n.goal(raw["goal"]),
		RecurringBills:   n.recurringBills(raw["recurringBills"]),
		RecurringIncomes: n.recurringIncomes(raw["recurringIncomes"]),
		History:          n.history(raw["history"]),
		LastActiveMonth:  curMonth,
		LastActiveYear:   curYear,
	}

	if m, ok := toNumber(raw["lastActiveMonth"]); ok && m >= 0 && m <= 11 {
		s.LastActiveMonth = int(m)
	} else {
		n.repair("lastActiveMonth")
	}
	if y, ok := toNumber(raw["lastActiveYear"]); ok && y > 0 {
		s.LastActiveYear = int(y)
	} else {
		n.repair("lastActiveYear")
	}

	// Documents from before multiple income sources held a single salary figure.
	if legacy, ok := raw["income"].(map[string]interface{}); ok {
		if _, has := raw["incomeSources"]; !has {
			if salary := n.numberOr(legacy["salary"], 0, ""); salary > 0 {
				s.IncomeSources = []IncomeSource{{
					ID:     MigratedSalaryID,
					Name:   MigratedSalaryName,
					Amount: salary,
					Date:   n.now,
				}}
			}
			n.repair("income")
		}
	}

	return s
}

func (n *normalizer) incomes(v interface{}, path string) []IncomeSource {
	items := n.objects(v, path)
	out := make([]IncomeSource, 0, len(items))
	for i, item := range items {
		p := fmt.Sprintf("%s[%d]", path, i)
		out = append(out, IncomeSource{
			ID:     n.id(item["id"], p+".id"),
			Name:   n.stringOr(item["name"], UnnamedIncome, p+".name"),
			Amount: n.numberOr(item["amount"], 0, p+".amount"),
			Date:   n.timeOr(item["date"], p+".date"),
		})
	}
	return out
}

func (n *normalizer) expenses(v interface{}, path string) []Expense {
	items := n.objects(v, path)
	out := make([]Expense, 0, len(items))
	for i, item := range items {
		p := fmt.Sprintf("%s[%d]", path, i)
		out = append(out, Expense{
			ID:       n.id(item["id"], p+".id"),
			Name:     n.stringOr(item["name"], UnnamedExpense, p+".name"),
			Amount:   n.numberOr(item["amount"], 0, p+".amount"),
			Category: n.category(item["category"], p+".category"),
			Date:     n.timeOr(item["date"], p+".date"),
		})
	}
	return out
}

func (n *normalizer) goal(v interface{}) *Goal {
	raw, ok := v.(map[string]interface{})
	if !ok {
		if v != nil {
			n.repair("goal")
		}
		return nil
	}
	g := &Goal{
		Name:           n.stringOr(raw["name"], UnnamedGoal, "goal.name"),
		TargetAmount:   n.numberOr(raw["targetAmount"], defaultGoalTarget, "goal.targetAmount"),
		SavedAmount:    n.numberOr(raw["savedAmount"], 0, "goal.savedAmount"),
		DurationMonths: int(n.numberOr(raw["durationMonths"], defaultGoalDuration, "goal.durationMonths")),
	}
	if g.TargetAmount <= 0 {
		n.repair("goal.targetAmount")
		g.TargetAmount = defaultGoalTarget
	}
	if g.DurationMonths < 1 {
		n.repair("goal.durationMonths")
		g.DurationMonths = defaultGoalDuration
	}
	return g
}

func (n *normalizer) recurringBills(v interface{}) []RecurringBill {
	items := n.objects(v, "recurringBills")
	out := make([]RecurringBill, 0, len(items))
	for i, item := range items {
		p := fmt.Sprintf("recurringBills[%d]", i)
		out = append(out, RecurringBill{
			ID:       n.id(item["id"], p+".id"),
			Name:     n.stringOr(item["name"], UnnamedRecurringBill, p+".name"),
			Amount:   n.numberOr(item["amount"], 0, p+".amount"),
			Category: n.category(item["category"], p+".category"),
			Schedule: n.schedule(item, p),
		})
	}
	return out
}

func (n *normalizer) recurringIncomes(v interface{}) []RecurringIncome {
	items := n.objects(v, "recurringIncomes")
	out := make([]RecurringIncome, 0, len(items))
	for i, item := range items {
		p := fmt.Sprintf("recurringIncomes[%d]", i)
		out = append(out, RecurringIncome{
			ID:       n.id(item["id"], p+".id"),
			Name:     n.stringOr(item["name"], UnnamedRecurringIncome, p+".name"),
			Amount:   n.numberOr(item["amount"], 0, p+".amount"),
			Schedule: n.schedule(item, p),
		})
	}
	return out
}

// schedule guarantees a rule the recurrence evaluator can always handle.
func (n *normalizer) schedule(item map[string]interface{}, path string) Schedule {
	sc := Schedule{RecurrenceType: RecurrenceMonthly}
	if s, ok := item["recurrenceType"].(string); ok {
		if rt, ok := ParseRecurrenceType(s); ok {
			sc.RecurrenceType = rt
		} else {
			n.repair(path + ".recurrenceType")
		}
	} else {
		n.repair(path + ".recurrenceType")
	}

	if sc.RecurrenceType == RecurrenceYearly {
		sc.Month = n.rangeOr(item["month"], 1, 12, path+".month")
		sc.Day = n.rangeOr(item["day"], 1, 31, path+".day")
	} else {
		sc.DayOfMonth = n.rangeOr(item["dayOfMonth"], 1, 31, path+".dayOfMonth")
	}

	last := item["lastAppliedDate"]
	if last == nil {
		last = item["lastAddedDate"]
	}
	if last != nil {
		t := n.timeOr(last, path+".lastAppliedDate")
		sc.LastAppliedDate = &t
	}
	return sc
}

func (n *normalizer) history(v interface{}) []MonthlyRecord {
	items := n.objects(v, "history")
	out := make([]MonthlyRecord, 0, len(items))
	for i, item := range items {
		p := fmt.Sprintf("history[%d]", i)
		out = append(out, MonthlyRecord{
			Month:         n.rangeOr(item["month"], 0, 11, p+".month"),
			Year:          int(n.numberOr(item["year"], float64(n.now.Year()), p+".year")),
			TotalIncome:   n.numberOr(item["totalIncome"], 0, p+".totalIncome"),
			TotalExpenses: n.numberOr(item["totalExpenses"], 0, p+".totalExpenses"),
			Savings:       n.numberOr(item["savings"], 0, p+".savings"),
			IncomeSources: n.incomes(item["incomeSources"], p+".incomeSources"),
			Expenses:      n.expenses(item["expenses"], p+".expenses"),
		})
	}
	return out
}

func (n *normalizer) chat(v interface{}) []ChatMessage {
	items, ok := v.([]interface{})
	if !ok {
		return DefaultChatHistory()
	}
	out := make([]ChatMessage, 0, len(items))
	for _, item := range items {
		msg, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		role, _ := msg["type"].(string)
		text, _ := stringValue(msg["text"])
		if (role == string(ChatRoleUser) || role == string(ChatRoleAgent)) && text != "" {
			out = append(out, ChatMessage{Type: ChatRole(role), Text: text})
		}
	}
	if len(out) == 0 {
		return DefaultChatHistory()
	}
	return out
}

// objects keeps the object entries of an array. A missing or non-array value
// yields an empty slice.
func (n *normalizer) objects(v interface{}, path string) []map[string]interface{} {
	var items []interface{}
	switch x := v.(type) {
	case []interface{}:
		items = x
	case []map[string]interface{}:
		return x
	case nil:
		return nil
	default:
		n.repair(path)
		return nil
	}
	out := make([]map[string]interface{}, 0, len(items))
	for i, item := range items {
		obj, ok := item.(map[string]interface{})
		if !ok {
			n.repair(fmt.Sprintf("%s[%d]", path, i))
			continue
		}
		out = append(out, obj)
	}
	return out
}

func (n *normalizer) id(v interface{}, path string) string {
	if s, ok := stringValue(v); ok && s != "" {
		return s
	}
	n.repair(path)
	return NewID()
}

func (n *normalizer) stringOr(v interface{}, fallback, path string) string {
	if s, ok := stringValue(v); ok && s != "" {
		return s
	}
	n.repair(path)
	return fallback
}

// numberOr treats zero like a missing value, so a zero target or duration
// gets its default.
func (n *normalizer) numberOr(v interface{}, fallback float64, path string) float64 {
	if f, ok := toNumber(v); ok && f != 0 {
		return f
	}
	if v != nil && path != "" {
		if f, ok := toNumber(v); !ok || f != fallback {
			n.repair(path)
		}
	}
	return fallback
}

func (n *normalizer) rangeOr(v interface{}, lo, hi int, path string) int {
	f, ok := toNumber(v)
	if !ok {
		n.repair(path)
		return lo
	}
	i := int(math.Round(f))
	if i < lo || i > hi {
		n.repair(path)
		return clamp(i, lo, hi)
	}
	return i
}

func (n *normalizer) category(v interface{}, path string) ExpenseCategory {
	if s, ok := v.(string); ok {
		if c, ok := ParseCategory(s); ok {
			return c
		}
	}
	n.repair(path)
	return CategoryOther
}

func (n *normalizer) timeOr(v interface{}, path string) time.Time {
	if t, ok := toTime(v); ok {
		return t
	}
	n.repair(path)
	return n.now
}

// stringValue accepts strings, numbers and booleans. Objects and arrays are
// rejected so they can never end up rendered as a name.
func stringValue(v interface{}) (string, bool) {
	switch x := v.(type) {
	case string:
		return strings.TrimSpace(x), true
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), true
	case int64:
		return strconv.FormatInt(x, 10), true
	case int:
		return strconv.Itoa(x), true
	case json.Number:
		return x.String(), true
	case bool:
		return strconv.FormatBool(x), true
	default:
		return "", false
	}
}

func toNumber(v interface{}) (float64, bool) {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int:
		f = float64(x)
	case int32:
		f = float64(x)
	case int64:
		f = float64(x)
	case json.Number:
		parsed, err := x.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.000Z",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func toTime(v interface{}) (time.Time, bool) {
	switch x := v.(type) {
	case time.Time:
		return x, !x.IsZero()
	case *time.Time:
		if x == nil || x.IsZero() {
			return time.Time{}, false
		}
		return *x, true
	case string:
		s := strings.TrimSpace(x)
		for _, layout := range timeLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, true
			}
		}
	case map[string]interface{}:
		// Serialized Firestore timestamps: {"seconds": ..., "nanoseconds": ...}.
		for _, key := range []string{"seconds", "_seconds"} {
			if secs, ok := toNumber(x[key]); ok && secs > 0 {
				nanos, _ := toNumber(x["nanoseconds"])
				return time.Unix(int64(secs), int64(nanos)).UTC(), true
			}
		}
	}
	return time.Time{}, false
}
