// Package service exposes the finance agent over Connect. Every
// authenticated call runs inside a per-user session that loads the stored
// document, normalizes it and rolls the month over before anything else.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"connectrpc.com/connect"
	"github.com/hsabsaboun/backend/internal/assistant"
	"github.com/hsabsaboun/backend/internal/finance"
	"github.com/hsabsaboun/backend/internal/store"
)

// Assistant is the language model behind the chat features.
type Assistant interface {
	Interpret(ctx context.Context, text string, state finance.State, today time.Time) (assistant.Response, error)
	PublicAdvice(ctx context.Context, text string, history []finance.ChatMessage) (assistant.PublicResponse, error)
	SplitSalary(ctx context.Context, req assistant.SplitRequest) (assistant.SplitResponse, error)
}

// maxMessageLength bounds the chat text forwarded to the model.
const maxMessageLength = 2000

// AgentService implements the hsab.v1.AgentService procedures. Every
// authenticated call runs inside a per-user session that reconciles the
// stored state before the handler sees it.
type AgentService struct {
	store     store.Store
	assistant Assistant
	logger    *slog.Logger
	location  *time.Location
	clock     func() time.Time
	locks     *userLocks
}

// Option configures an AgentService.
type Option func(*AgentService)

// WithLocation sets the time zone that decides "today". Defaults to UTC.
func WithLocation(loc *time.Location) Option {
	return func(s *AgentService) {
		if loc != nil {
			s.location = loc
		}
	}
}

// WithClock replaces time.Now, for tests and the CLI.
func WithClock(clock func() time.Time) Option {
	return func(s *AgentService) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *AgentService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewAgentService creates an AgentService over st that forwards chat and
// salary-split requests to ai.
func NewAgentService(st store.Store, ai Assistant, opts ...Option) *AgentService {
	s := &AgentService{
		store:     st,
		assistant: ai,
		logger:    slog.Default(),
		location:  time.UTC,
		clock:     time.Now,
		locks:     newUserLocks(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "agent_service")
	return s
}

// GetState returns the reconciled state, its summary and the chat history.
func (s *AgentService) GetState(ctx context.Context, req *connect.Request[GetStateRequest]) (*connect.Response[GetStateResponse], error) {
	sess, err := s.withSession(ctx, func(*session) error { return nil })
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&GetStateResponse{
		State:       sess.state(),
		Summary:     finance.Summarize(sess.state(), sess.today),
		ChatHistory: sess.data.ChatHistory,
	}), nil
}

// AddIncomeSource appends an income to the active period.
func (s *AgentService) AddIncomeSource(ctx context.Context, req *connect.Request[AddIncomeSourceRequest]) (*connect.Response[IncomeSourceResponse], error) {
	var created finance.IncomeSource
	sess, err := s.withSession(ctx, func(sess *session) error {
		in := finance.IncomeInput{Name: req.Msg.Name, Amount: req.Msg.Amount}
		if req.Msg.Date != nil {
			in.Date = *req.Msg.Date
		}
		state, income, err := finance.AddIncome(sess.state(), in, sess.now)
		if err != nil {
			return err
		}
		created = income
		sess.setState(state)
		return nil
	})
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&IncomeSourceResponse{IncomeSource: created, StateResponse: sess.stateResponse()}), nil
}

func (s *AgentService) UpdateIncomeSource(ctx context.Context, req *connect.Request[UpdateIncomeSourceRequest]) (*connect.Response[StateResponse], error) {
	return s.mutate(ctx, func(st finance.State) (finance.State, error) {
		return finance.UpdateIncome(st, req.Msg.ID, finance.IncomePatch{
			Name:   req.Msg.Name,
			Amount: req.Msg.Amount,
			Date:   req.Msg.Date,
		})
	})
}

func (s *AgentService) DeleteIncomeSource(ctx context.Context, req *connect.Request[DeleteRequest]) (*connect.Response[StateResponse], error) {
	return s.mutate(ctx, func(st finance.State) (finance.State, error) {
		return finance.DeleteIncome(st, req.Msg.ID), nil
	})
}

// AddExpense appends an expense to the active period.
func (s *AgentService) AddExpense(ctx context.Context, req *connect.Request[AddExpenseRequest]) (*connect.Response[ExpenseResponse], error) {
	var created finance.Expense
	sess, err := s.withSession(ctx, func(sess *session) error {
		in := finance.ExpenseInput{Name: req.Msg.Name, Amount: req.Msg.Amount, Category: req.Msg.Category}
		if req.Msg.Date != nil {
			in.Date = *req.Msg.Date
		}
		state, expense, err := finance.AddExpense(sess.state(), in, sess.now)
		if err != nil {
			return err
		}
		created = expense
		sess.setState(state)
		return nil
	})
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&ExpenseResponse{Expense: created, StateResponse: sess.stateResponse()}), nil
}

func (s *AgentService) UpdateExpense(ctx context.Context, req *connect.Request[UpdateExpenseRequest]) (*connect.Response[StateResponse], error) {
	return s.mutate(ctx, func(st finance.State) (finance.State, error) {
		return finance.UpdateExpense(st, req.Msg.ID, finance.ExpensePatch{
			Name:     req.Msg.Name,
			Amount:   req.Msg.Amount,
			Category: req.Msg.Category,
			Date:     req.Msg.Date,
		})
	})
}

func (s *AgentService) DeleteExpense(ctx context.Context, req *connect.Request[DeleteRequest]) (*connect.Response[StateResponse], error) {
	return s.mutate(ctx, func(st finance.State) (finance.State, error) {
		return finance.DeleteExpense(st, req.Msg.ID), nil
	})
}

// SetGoal replaces the savings goal, keeping its saved amount unless one is given.
func (s *AgentService) SetGoal(ctx context.Context, req *connect.Request[SetGoalRequest]) (*connect.Response[GoalResponse], error) {
	var goal finance.Goal
	sess, err := s.withSession(ctx, func(sess *session) error {
		state, g, err := finance.SetGoal(sess.state(), finance.GoalInput{
			Name:           req.Msg.Name,
			TargetAmount:   req.Msg.TargetAmount,
			DurationMonths: req.Msg.DurationMonths,
			SavedAmount:    req.Msg.SavedAmount,
		})
		if err != nil {
			return err
		}
		goal = g
		sess.setState(state)
		return nil
	})
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&GoalResponse{Goal: goal, StateResponse: sess.stateResponse()}), nil
}

func (s *AgentService) DeleteGoal(ctx context.Context, req *connect.Request[DeleteGoalRequest]) (*connect.Response[StateResponse], error) {
	return s.mutate(ctx, func(st finance.State) (finance.State, error) {
		return finance.DeleteGoal(st), nil
	})
}

func (s *AgentService) AddRecurringBill(ctx context.Context, req *connect.Request[AddRecurringBillRequest]) (*connect.Response[RecurringBillResponse], error) {
	var created finance.RecurringBill
	sess, err := s.withSession(ctx, func(sess *session) error {
		state, bill, err := finance.AddRecurringBill(sess.state(), finance.RecurringBillInput{
			Name:     req.Msg.Name,
			Amount:   req.Msg.Amount,
			Category: req.Msg.Category,
			Schedule: req.Msg.schedule(),
		})
		if err != nil {
			return err
		}
		created = bill
		sess.setState(state)
		return nil
	})
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&RecurringBillResponse{RecurringBill: created, StateResponse: sess.stateResponse()}), nil
}

func (s *AgentService) UpdateRecurringBill(ctx context.Context, req *connect.Request[UpdateRecurringRequest]) (*connect.Response[StateResponse], error) {
	return s.mutate(ctx, func(st finance.State) (finance.State, error) {
		return finance.UpdateRecurringBill(st, req.Msg.ID, req.Msg.patch())
	})
}

func (s *AgentService) DeleteRecurringBill(ctx context.Context, req *connect.Request[DeleteRequest]) (*connect.Response[StateResponse], error) {
	return s.mutate(ctx, func(st finance.State) (finance.State, error) {
		return finance.DeleteRecurringBill(st, req.Msg.ID), nil
	})
}

func (s *AgentService) AddRecurringIncome(ctx context.Context, req *connect.Request[AddRecurringIncomeRequest]) (*connect.Response[RecurringIncomeResponse], error) {
	var created finance.RecurringIncome
	sess, err := s.withSession(ctx, func(sess *session) error {
		state, rule, err := finance.AddRecurringIncome(sess.state(), finance.RecurringIncomeInput{
			Name:     req.Msg.Name,
			Amount:   req.Msg.Amount,
			Schedule: req.Msg.schedule(),
		})
		if err != nil {
			return err
		}
		created = rule
		sess.setState(state)
		return nil
	})
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&RecurringIncomeResponse{RecurringIncome: created, StateResponse: sess.stateResponse()}), nil
}

func (s *AgentService) UpdateRecurringIncome(ctx context.Context, req *connect.Request[UpdateRecurringRequest]) (*connect.Response[StateResponse], error) {
	return s.mutate(ctx, func(st finance.State) (finance.State, error) {
		return finance.UpdateRecurringIncome(st, req.Msg.ID, req.Msg.patch())
	})
}

func (s *AgentService) DeleteRecurringIncome(ctx context.Context, req *connect.Request[DeleteRequest]) (*connect.Response[StateResponse], error) {
	return s.mutate(ctx, func(st finance.State) (finance.State, error) {
		return finance.DeleteRecurringIncome(st, req.Msg.ID), nil
	})
}

// ListDue returns the recurring bills and incomes waiting for confirmation today.
func (s *AgentService) ListDue(ctx context.Context, req *connect.Request[ListDueRequest]) (*connect.Response[ListDueResponse], error) {
	sess, err := s.withSession(ctx, func(*session) error { return nil })
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(dueList(sess.state(), sess.today)), nil
}

func dueList(st finance.State, today time.Time) *ListDueResponse {
	resp := &ListDueResponse{
		DueBills:   finance.DueBills(st, today),
		DueIncomes: finance.DueIncomes(st, today),
		Items:      []DueItem{},
	}
	for _, b := range resp.DueBills {
		resp.Items = append(resp.Items, DueItem{
			ID:       b.ID,
			Kind:     "bill",
			Name:     b.Name,
			Amount:   b.Amount,
			Category: b.Category,
			DueDate:  finance.CycleDueDate(b.Schedule, today),
		})
	}
	for _, r := range resp.DueIncomes {
		resp.Items = append(resp.Items, DueItem{
			ID:      r.ID,
			Kind:    "income",
			Name:    r.Name,
			Amount:  r.Amount,
			DueDate: finance.CycleDueDate(r.Schedule, today),
		})
	}
	return resp
}

// ApplyRecurringBill turns a due bill into an expense and marks it applied.
func (s *AgentService) ApplyRecurringBill(ctx context.Context, req *connect.Request[ApplyRecurringRequest]) (*connect.Response[ExpenseResponse], error) {
	var created finance.Expense
	sess, err := s.withSession(ctx, func(sess *session) error {
		state, expense, err := finance.ApplyRecurringBill(sess.state(), req.Msg.RuleID, req.Msg.confirmation(), sess.today)
		if err != nil {
			return err
		}
		created = expense
		sess.setState(state)
		return nil
	})
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&ExpenseResponse{Expense: created, StateResponse: sess.stateResponse()}), nil
}

// ApplyRecurringIncome turns a due income rule into an income and marks it applied.
func (s *AgentService) ApplyRecurringIncome(ctx context.Context, req *connect.Request[ApplyRecurringRequest]) (*connect.Response[IncomeSourceResponse], error) {
	var created finance.IncomeSource
	sess, err := s.withSession(ctx, func(sess *session) error {
		state, income, err := finance.ApplyRecurringIncome(sess.state(), req.Msg.RuleID, req.Msg.confirmation(), sess.today)
		if err != nil {
			return err
		}
		created = income
		sess.setState(state)
		return nil
	})
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&IncomeSourceResponse{IncomeSource: created, StateResponse: sess.stateResponse()}), nil
}

// GetSummary returns totals, the category breakdown of the requested view and history.
func (s *AgentService) GetSummary(ctx context.Context, req *connect.Request[GetSummaryRequest]) (*connect.Response[GetSummaryResponse], error) {
	sess, err := s.withSession(ctx, func(*session) error { return nil })
	if err != nil {
		return nil, err
	}
	st := sess.state()
	return connect.NewResponse(&GetSummaryResponse{
		Summary:   finance.Summarize(st, sess.today),
		Breakdown: finance.CategoryBreakdown(st.Expenses, req.Msg.View, sess.today),
		History:   st.History,
		Goal:      st.Goal,
	}), nil
}

// Chat interprets a message, applies the resulting action and records both
// sides of the exchange. Model failures degrade to the fallback reply.
func (s *AgentService) Chat(ctx context.Context, req *connect.Request[ChatRequest]) (*connect.Response[ChatResponse], error) {
	text, err := chatText(req.Msg.Message)
	if err != nil {
		return nil, err
	}

	resp := &ChatResponse{}
	sess, err := s.withSession(ctx, func(sess *session) error {
		logger := s.logger.With("user_id", sess.userID)

		reply, err := s.assistant.Interpret(ctx, text, sess.state(), sess.today)
		if err != nil {
			logger.Warn("interpret failed", "error", err)
			reply = assistant.Fallback()
		}

		state, applied, err := assistant.ApplyAction(sess.state(), reply, sess.now)
		if err != nil {
			logger.Warn("assistant action rejected", "action", reply.Action, "error", err)
			reply = assistant.Fallback()
			applied = false
		}
		if applied {
			sess.setState(state)
			logger.Info("assistant action applied", "action", reply.Action)
		}

		sess.data = sess.data.AppendChat(
			finance.ChatMessage{Type: finance.ChatRoleUser, Text: text},
			finance.ChatMessage{Type: finance.ChatRoleAgent, Text: reply.ResponseMessage},
		)
		sess.dirty = true

		resp.Action = reply.Action
		resp.Applied = applied
		resp.ResponseMessage = reply.ResponseMessage
		return nil
	})
	if err != nil {
		return nil, err
	}
	resp.ChatHistory = sess.data.ChatHistory
	resp.StateResponse = sess.stateResponse()
	return connect.NewResponse(resp), nil
}

// PublicChat answers visitors without touching any stored state.
func (s *AgentService) PublicChat(ctx context.Context, req *connect.Request[PublicChatRequest]) (*connect.Response[PublicChatResponse], error) {
	text, err := chatText(req.Msg.Message)
	if err != nil {
		return nil, err
	}
	reply, err := s.assistant.PublicAdvice(ctx, text, req.Msg.History)
	if err != nil {
		s.logger.Warn("public advice failed", "error", err)
		reply = assistant.PublicResponse{ResponseMessage: assistant.PublicFallbackMessage, Suggestions: []string{}}
	}
	return connect.NewResponse(&reply), nil
}

// SplitSalary proposes an allocation of a monthly salary.
func (s *AgentService) SplitSalary(ctx context.Context, req *connect.Request[SplitSalaryRequest]) (*connect.Response[SplitSalaryResponse], error) {
	reply, err := s.assistant.SplitSalary(ctx, *req.Msg)
	if err != nil {
		s.logger.Warn("salary split failed", "error", err)
		return nil, assistantError(err)
	}
	return connect.NewResponse(&reply), nil
}

// mutate runs a reducer that only needs the state and replies with the new state.
func (s *AgentService) mutate(ctx context.Context, reduce func(finance.State) (finance.State, error)) (*connect.Response[StateResponse], error) {
	sess, err := s.withSession(ctx, func(sess *session) error {
		state, err := reduce(sess.state())
		if err != nil {
			return err
		}
		sess.setState(state)
		return nil
	})
	if err != nil {
		return nil, toConnectError(err)
	}
	resp := sess.stateResponse()
	return connect.NewResponse(&resp), nil
}

func chatText(message string) (string, error) {
	text := strings.TrimSpace(message)
	if text == "" {
		return "", connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("message must not be empty"))
	}
	if len([]rune(text)) > maxMessageLength {
		return "", connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("message longer than %d characters", maxMessageLength))
	}
	return text, nil
}

// toConnectError maps domain errors onto Connect codes. Errors that already
// carry a code pass through.
func toConnectError(err error) error {
	var cerr *connect.Error
	switch {
	case errors.As(err, &cerr):
		return err
	case errors.Is(err, finance.ErrValidation):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, finance.ErrRuleNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, finance.ErrNotDue):
		return connect.NewError(connect.CodeFailedPrecondition, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}

func assistantError(err error) error {
	var aerr *assistant.Error
	if !errors.As(err, &aerr) {
		return connect.NewError(connect.CodeInternal, err)
	}
	switch aerr.Code {
	case assistant.ErrInvalidArguments:
		return connect.NewError(connect.CodeInvalidArgument, err)
	case assistant.ErrRateLimited:
		return connect.NewError(connect.CodeResourceExhausted, err)
	case assistant.ErrNotConfigured:
		return connect.NewError(connect.CodeFailedPrecondition, err)
	default:
		return connect.NewError(connect.CodeUnavailable, err)
	}
}
