// Package assistant talks to Gemini on behalf of the finance agent and turns
// its structured replies into state changes.
package assistant

import "github.com/hsabsaboun/backend/internal/finance"

// Action is the state change the model asks for.
type Action string

const (
	ActionAddIncomeSource Action = "ADD_INCOME_SOURCE"
	ActionAddExpense      Action = "ADD_EXPENSE"
	ActionSetGoal         Action = "SET_GOAL"
	ActionDeleteExpense   Action = "DELETE_EXPENSE"
	ActionGeneralResponse Action = "GENERAL_RESPONSE"
)

// Messages shown when the model cannot be used.
const (
	FallbackMessage       = "سمح ليا، ماقدرتش نفهم. عاود بطريقة أخرى."
	PublicFallbackMessage = "سمح ليا، وقع شي خطأ تقني. عاود حاول من بعد."
)

// IncomePayload is a new income source proposed by the model.
type IncomePayload struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

// ExpensePayload is a new expense proposed by the model.
type ExpensePayload struct {
	Name     string  `json:"name"`
	Amount   float64 `json:"amount"`
	Category string  `json:"category"`
}

// GoalPayload is a goal proposed by the model.
type GoalPayload struct {
	Name           string  `json:"name"`
	TargetAmount   float64 `json:"targetAmount"`
	DurationMonths float64 `json:"durationMonths"`
}

// Payload carries the data of an action. Only the part matching the action
// is read.
type Payload struct {
	IncomeSource *IncomePayload  `json:"incomeSource,omitempty"`
	Expense      *ExpensePayload `json:"expense,omitempty"`
	Goal         *GoalPayload    `json:"goal,omitempty"`
	ID           string          `json:"id,omitempty"`
}

// Response is the model's interpretation of one user message.
type Response struct {
	Action          Action   `json:"action"`
	Payload         *Payload `json:"payload"`
	ResponseMessage string   `json:"responseMessage"`
}

// Fallback is the response used whenever interpretation fails.
func Fallback() Response {
	return Response{Action: ActionGeneralResponse, ResponseMessage: FallbackMessage}
}

// PublicResponse answers a visitor who is not signed in.
type PublicResponse struct {
	ResponseMessage string   `json:"responseMessage"`
	Suggestions     []string `json:"suggestions"`
}

// FixedExpense is a known monthly cost given to the salary splitter.
type FixedExpense struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

// SplitRequest describes the salary to allocate.
type SplitRequest struct {
	Salary        float64        `json:"salary"`
	City          string         `json:"city"`
	FixedExpenses []FixedExpense `json:"fixedExpenses"`
	Goals         string         `json:"goals"`
}

// Allocation is one line of a salary split. IsFixed marks amounts the user
// supplied rather than ones the model suggested.
type Allocation struct {
	Category   string  `json:"category"`
	Amount     float64 `json:"amount"`
	Percentage float64 `json:"percentage"`
	IsFixed    bool    `json:"isFixed"`
	Note       string  `json:"note,omitempty"`
}

// SplitResponse is the salary split proposed by the model.
type SplitResponse struct {
	Allocations           []Allocation `json:"allocations"`
	TotalExpenses         float64      `json:"totalExpenses"`
	Remaining             float64      `json:"remaining"`
	SavingsRecommendation float64      `json:"savingsRecommendation"`
	Advice                string       `json:"advice"`
	Warnings              []string     `json:"warnings"`
}

// categoryLabels lists the labels the model may use for expenses.
func categoryLabels() []string {
	labels := make([]string, 0, len(finance.Categories))
	for _, c := range finance.Categories {
		labels = append(labels, string(c))
	}
	return labels
}
