package service

import (
	"time"

	"github.com/hsabsaboun/backend/internal/assistant"
	"github.com/hsabsaboun/backend/internal/finance"
)

// StateResponse is returned by every operation that reads or changes the state.
type StateResponse struct {
	State   finance.State   `json:"state"`
	Summary finance.Summary `json:"summary"`
}

type GetStateRequest struct{}

// GetStateResponse also carries the chat so a client can render both panes
// from one call.
type GetStateResponse struct {
	State       finance.State         `json:"state"`
	Summary     finance.Summary       `json:"summary"`
	ChatHistory []finance.ChatMessage `json:"chatHistory"`
}

// DeleteRequest removes the record with the given id. Unknown ids are ignored.
type DeleteRequest struct {
	ID string `json:"id"`
}

type AddIncomeSourceRequest struct {
	Name   string     `json:"name"`
	Amount float64    `json:"amount"`
	Date   *time.Time `json:"date,omitempty"`
}

type IncomeSourceResponse struct {
	IncomeSource finance.IncomeSource `json:"incomeSource"`
	StateResponse
}

type UpdateIncomeSourceRequest struct {
	ID     string     `json:"id"`
	Name   *string    `json:"name,omitempty"`
	Amount *float64   `json:"amount,omitempty"`
	Date   *time.Time `json:"date,omitempty"`
}

type AddExpenseRequest struct {
	Name     string                  `json:"name"`
	Amount   float64                 `json:"amount"`
	Category finance.ExpenseCategory `json:"category"`
	Date     *time.Time              `json:"date,omitempty"`
}

type ExpenseResponse struct {
	Expense finance.Expense `json:"expense"`
	StateResponse
}

type UpdateExpenseRequest struct {
	ID       string                   `json:"id"`
	Name     *string                  `json:"name,omitempty"`
	Amount   *float64                 `json:"amount,omitempty"`
	Category *finance.ExpenseCategory `json:"category,omitempty"`
	Date     *time.Time               `json:"date,omitempty"`
}

// SetGoalRequest replaces the goal. SavedAmount is kept from the current goal
// when omitted.
type SetGoalRequest struct {
	Name           string   `json:"name"`
	TargetAmount   float64  `json:"targetAmount"`
	DurationMonths int      `json:"durationMonths"`
	SavedAmount    *float64 `json:"savedAmount,omitempty"`
}

type GoalResponse struct {
	Goal finance.Goal `json:"goal"`
	StateResponse
}

type DeleteGoalRequest struct{}

// ScheduleFields are the trigger fields of a recurring rule as sent by clients.
type ScheduleFields struct {
	RecurrenceType finance.RecurrenceType `json:"recurrenceType"`
	DayOfMonth     int                    `json:"dayOfMonth,omitempty"`
	Month          int                    `json:"month,omitempty"`
	Day            int                    `json:"day,omitempty"`
}

func (f ScheduleFields) schedule() finance.Schedule {
	return finance.Schedule{
		RecurrenceType: f.RecurrenceType,
		DayOfMonth:     f.DayOfMonth,
		Month:          f.Month,
		Day:            f.Day,
	}
}

type AddRecurringBillRequest struct {
	Name     string                  `json:"name"`
	Amount   float64                 `json:"amount"`
	Category finance.ExpenseCategory `json:"category"`
	ScheduleFields
}

type RecurringBillResponse struct {
	RecurringBill finance.RecurringBill `json:"recurringBill"`
	StateResponse
}

type AddRecurringIncomeRequest struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
	ScheduleFields
}

type RecurringIncomeResponse struct {
	RecurringIncome finance.RecurringIncome `json:"recurringIncome"`
	StateResponse
}

// UpdateRecurringRequest patches a bill or an income rule. Category is
// ignored for incomes.
type UpdateRecurringRequest struct {
	ID               string                   `json:"id"`
	Name             *string                  `json:"name,omitempty"`
	Amount           *float64                 `json:"amount,omitempty"`
	Category         *finance.ExpenseCategory `json:"category,omitempty"`
	RecurrenceType   *finance.RecurrenceType  `json:"recurrenceType,omitempty"`
	DayOfMonth       *int                     `json:"dayOfMonth,omitempty"`
	Month            *int                     `json:"month,omitempty"`
	Day              *int                     `json:"day,omitempty"`
	LastAppliedDate  *time.Time               `json:"lastAppliedDate,omitempty"`
	ClearLastApplied bool                     `json:"clearLastApplied,omitempty"`
}

func (r *UpdateRecurringRequest) patch() finance.RecurringPatch {
	return finance.RecurringPatch{
		Name:             r.Name,
		Amount:           r.Amount,
		Category:         r.Category,
		RecurrenceType:   r.RecurrenceType,
		DayOfMonth:       r.DayOfMonth,
		Month:            r.Month,
		Day:              r.Day,
		LastAppliedDate:  r.LastAppliedDate,
		ClearLastApplied: r.ClearLastApplied,
	}
}

type ListDueRequest struct{}

// DueItem is one due rule flattened for display, with the date it fell due
// in the current cycle.
type DueItem struct {
	ID       string                  `json:"id"`
	Kind     string                  `json:"kind"`
	Name     string                  `json:"name"`
	Amount   float64                 `json:"amount"`
	Category finance.ExpenseCategory `json:"category,omitempty"`
	DueDate  time.Time               `json:"dueDate"`
}

type ListDueResponse struct {
	DueBills   []finance.RecurringBill   `json:"dueBills"`
	DueIncomes []finance.RecurringIncome `json:"dueIncomes"`
	Items      []DueItem                 `json:"items"`
}

// ApplyRecurringRequest materializes a due rule with the values the user
// confirmed. Blank fields default to the rule.
type ApplyRecurringRequest struct {
	RuleID   string                  `json:"ruleId"`
	Name     string                  `json:"name,omitempty"`
	Amount   float64                 `json:"amount,omitempty"`
	Category finance.ExpenseCategory `json:"category,omitempty"`
	Date     *time.Time              `json:"date,omitempty"`
}

func (r *ApplyRecurringRequest) confirmation() finance.Confirmation {
	c := finance.Confirmation{
		Name:     r.Name,
		Amount:   r.Amount,
		Category: r.Category,
	}
	if r.Date != nil {
		c.Date = *r.Date
	}
	return c
}

type GetSummaryRequest struct {
	View finance.View `json:"view"`
}

type GetSummaryResponse struct {
	Summary   finance.Summary         `json:"summary"`
	Breakdown finance.Breakdown       `json:"breakdown"`
	History   []finance.MonthlyRecord `json:"history"`
	Goal      *finance.Goal           `json:"goal"`
}

type ChatRequest struct {
	Message string `json:"message"`
}

// ChatResponse reports the interpreted action and whether it changed the state.
type ChatResponse struct {
	Action          assistant.Action      `json:"action"`
	Applied         bool                  `json:"applied"`
	ResponseMessage string                `json:"responseMessage"`
	ChatHistory     []finance.ChatMessage `json:"chatHistory"`
	StateResponse
}

type PublicChatRequest struct {
	Message string                `json:"message"`
	History []finance.ChatMessage `json:"history"`
}

type PublicChatResponse = assistant.PublicResponse

type SplitSalaryRequest = assistant.SplitRequest

type SplitSalaryResponse = assistant.SplitResponse
