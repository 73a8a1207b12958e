// Package finance holds the finance-state model of a single user and the pure
// reconciliation logic that runs over it: month rollover, recurring-item due
// detection, materialization and the CRUD reducers used by every caller.
//
// Every function in this package takes the state as a value and returns a new
// value. Nothing here reads the wall clock; callers pass "today" explicitly.
package finance

import "time"

// ExpenseCategory is persisted as its Darija label so documents written by
// older clients stay readable.
type ExpenseCategory string

const (
	CategoryRent     ExpenseCategory = "كراء"
	CategoryBills    ExpenseCategory = "فواتير"
	CategoryCar      ExpenseCategory = "الطموبيل"
	CategoryShopping ExpenseCategory = "التقدية"
	CategoryClothes  ExpenseCategory = "الحوايج"
	CategoryOutings  ExpenseCategory = "خرجات"
	CategoryLoans    ExpenseCategory = "الكريديات"
	CategoryFamily   ExpenseCategory = "العائلة"
	CategoryCharity  ExpenseCategory = "الصدقة"
	CategoryOther    ExpenseCategory = "اخرى"
)

// Categories lists every valid category in display order.
var Categories = []ExpenseCategory{
	CategoryRent,
	CategoryBills,
	CategoryCar,
	CategoryShopping,
	CategoryClothes,
	CategoryOutings,
	CategoryLoans,
	CategoryFamily,
	CategoryCharity,
	CategoryOther,
}

// Valid reports whether c is one of the known categories.
func (c ExpenseCategory) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// RecurrenceType selects how a recurring rule's trigger date is computed.
type RecurrenceType string

const (
	RecurrenceMonthly RecurrenceType = "MONTHLY"
	RecurrenceYearly  RecurrenceType = "YEARLY"
)

// IncomeSource is one income entry of the active period.
type IncomeSource struct {
	ID     string    `json:"id" firestore:"id"`
	Name   string    `json:"name" firestore:"name"`
	Amount float64   `json:"amount" firestore:"amount"`
	Date   time.Time `json:"date" firestore:"date"`
}

// Expense is one expense entry of the active period.
type Expense struct {
	ID       string          `json:"id" firestore:"id"`
	Name     string          `json:"name" firestore:"name"`
	Amount   float64         `json:"amount" firestore:"amount"`
	Category ExpenseCategory `json:"category" firestore:"category"`
	Date     time.Time       `json:"date" firestore:"date"`
}

// Goal is the single savings goal slot.
type Goal struct {
	Name           string  `json:"name" firestore:"name"`
	TargetAmount   float64 `json:"targetAmount" firestore:"targetAmount"`
	SavedAmount    float64 `json:"savedAmount" firestore:"savedAmount"`
	DurationMonths int     `json:"durationMonths" firestore:"durationMonths"`
}

// Schedule is the trigger part shared by recurring bills and incomes.
// DayOfMonth is used by MONTHLY rules, Month (1-12) and Day by YEARLY ones.
type Schedule struct {
	RecurrenceType  RecurrenceType `json:"recurrenceType" firestore:"recurrenceType"`
	DayOfMonth      int            `json:"dayOfMonth,omitempty" firestore:"dayOfMonth,omitempty"`
	Month           int            `json:"month,omitempty" firestore:"month,omitempty"`
	Day             int            `json:"day,omitempty" firestore:"day,omitempty"`
	LastAppliedDate *time.Time     `json:"lastAppliedDate,omitempty" firestore:"lastAppliedDate,omitempty"`
}

// RecurringBill is materialized into an Expense when the user confirms it.
type RecurringBill struct {
	ID       string          `json:"id" firestore:"id"`
	Name     string          `json:"name" firestore:"name"`
	Amount   float64         `json:"amount" firestore:"amount"`
	Category ExpenseCategory `json:"category" firestore:"category"`
	Schedule
}

// RecurringIncome is materialized into an IncomeSource when the user confirms it.
type RecurringIncome struct {
	ID     string  `json:"id" firestore:"id"`
	Name   string  `json:"name" firestore:"name"`
	Amount float64 `json:"amount" firestore:"amount"`
	Schedule
}

// MonthlyRecord is a frozen snapshot of an archived period. Month is 0-11.
type MonthlyRecord struct {
	Month         int            `json:"month" firestore:"month"`
	Year          int            `json:"year" firestore:"year"`
	TotalIncome   float64        `json:"totalIncome" firestore:"totalIncome"`
	TotalExpenses float64        `json:"totalExpenses" firestore:"totalExpenses"`
	Savings       float64        `json:"savings" firestore:"savings"`
	IncomeSources []IncomeSource `json:"incomeSources" firestore:"incomeSources"`
	Expenses      []Expense      `json:"expenses" firestore:"expenses"`
}

// State is the aggregate root. LastActiveMonth (0-11) and LastActiveYear name
// the period that IncomeSources and Expenses belong to.
type State struct {
	IncomeSources    []IncomeSource    `json:"incomeSources" firestore:"incomeSources"`
	Expenses         []Expense         `json:"expenses" firestore:"expenses"`
	Goal             *Goal             `json:"goal" firestore:"goal"`
	RecurringBills   []RecurringBill   `json:"recurringBills" firestore:"recurringBills"`
	RecurringIncomes []RecurringIncome `json:"recurringIncomes" firestore:"recurringIncomes"`
	History          []MonthlyRecord   `json:"history" firestore:"history"`
	LastActiveMonth  int               `json:"lastActiveMonth" firestore:"lastActiveMonth"`
	LastActiveYear   int               `json:"lastActiveYear" firestore:"lastActiveYear"`
}

// ChatRole distinguishes the two sides of the assistant conversation.
type ChatRole string

const (
	ChatRoleUser  ChatRole = "user"
	ChatRoleAgent ChatRole = "agent"
)

// ChatMessage is one persisted line of the assistant conversation.
type ChatMessage struct {
	Type ChatRole `json:"type" firestore:"type"`
	Text string   `json:"text" firestore:"text"`
}

// UserData is the full persisted document of one user.
type UserData struct {
	FinanceState State         `json:"financeState" firestore:"financeState"`
	ChatHistory  []ChatMessage `json:"chatHistory" firestore:"chatHistory"`
	CreatedAt    time.Time     `json:"createdAt" firestore:"createdAt"`
}

// Greeting opens every new conversation.
const Greeting = "أهلاً! أنا لحساب صابون. كيفاش نقدر نعاونك اليوم؟"

// MaxChatHistory bounds the number of chat lines kept in the document.
const MaxChatHistory = 100

// NewState returns an empty state whose active period is the one containing today.
func NewState(today time.Time) State {
	month, year := PeriodOf(today)
	return State{
		IncomeSources:    []IncomeSource{},
		Expenses:         []Expense{},
		RecurringBills:   []RecurringBill{},
		RecurringIncomes: []RecurringIncome{},
		History:          []MonthlyRecord{},
		LastActiveMonth:  month,
		LastActiveYear:   year,
	}
}

// NewUserData returns the document created for a first-time user.
func NewUserData(now time.Time) UserData {
	return UserData{
		FinanceState: NewState(now),
		ChatHistory:  DefaultChatHistory(),
		CreatedAt:    now,
	}
}

// DefaultChatHistory is the conversation shown before the user has said anything.
func DefaultChatHistory() []ChatMessage {
	return []ChatMessage{{Type: ChatRoleAgent, Text: Greeting}}
}

// AppendChat adds messages to the history, keeping only the newest MaxChatHistory.
func (u UserData) AppendChat(msgs ...ChatMessage) UserData {
	history := make([]ChatMessage, 0, len(u.ChatHistory)+len(msgs))
	history = append(history, u.ChatHistory...)
	history = append(history, msgs...)
	if len(history) > MaxChatHistory {
		history = history[len(history)-MaxChatHistory:]
	}
	u.ChatHistory = history
	return u
}

// PeriodOf returns the 0-based month and the year of t.
func PeriodOf(t time.Time) (month, year int) {
	return int(t.Month()) - 1, t.Year()
}

// Clone returns a deep copy so callers can mutate the result without
// affecting s.
func (s State) Clone() State {
	out := s
	out.IncomeSources = append([]IncomeSource{}, s.IncomeSources...)
	out.Expenses = append([]Expense{}, s.Expenses...)
	if s.Goal != nil {
		g := *s.Goal
		out.Goal = &g
	}
	out.RecurringBills = make([]RecurringBill, len(s.RecurringBills))
	for i, b := range s.RecurringBills {
		b.Schedule = b.Schedule.clone()
		out.RecurringBills[i] = b
	}
	out.RecurringIncomes = make([]RecurringIncome, len(s.RecurringIncomes))
	for i, r := range s.RecurringIncomes {
		r.Schedule = r.Schedule.clone()
		out.RecurringIncomes[i] = r
	}
	// History records are immutable; sharing their snapshot slices is safe.
	out.History = append([]MonthlyRecord{}, s.History...)
	return out
}

func (sc Schedule) clone() Schedule {
	if sc.LastAppliedDate != nil {
		t := *sc.LastAppliedDate
		sc.LastAppliedDate = &t
	}
	return sc
}
