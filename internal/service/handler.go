package service

import (
	"net/http"

	"connectrpc.com/connect"
)

// ServiceName is the fully-qualified name of the agent service.
const ServiceName = "hsab.v1.AgentService"

// Procedure paths of the agent service.
const (
	GetStateProcedure              = "/" + ServiceName + "/GetState"
	AddIncomeSourceProcedure       = "/" + ServiceName + "/AddIncomeSource"
	UpdateIncomeSourceProcedure    = "/" + ServiceName + "/UpdateIncomeSource"
	DeleteIncomeSourceProcedure    = "/" + ServiceName + "/DeleteIncomeSource"
	AddExpenseProcedure            = "/" + ServiceName + "/AddExpense"
	UpdateExpenseProcedure         = "/" + ServiceName + "/UpdateExpense"
	DeleteExpenseProcedure         = "/" + ServiceName + "/DeleteExpense"
	SetGoalProcedure               = "/" + ServiceName + "/SetGoal"
	DeleteGoalProcedure            = "/" + ServiceName + "/DeleteGoal"
	AddRecurringBillProcedure      = "/" + ServiceName + "/AddRecurringBill"
	UpdateRecurringBillProcedure   = "/" + ServiceName + "/UpdateRecurringBill"
	DeleteRecurringBillProcedure   = "/" + ServiceName + "/DeleteRecurringBill"
	AddRecurringIncomeProcedure    = "/" + ServiceName + "/AddRecurringIncome"
	UpdateRecurringIncomeProcedure = "/" + ServiceName + "/UpdateRecurringIncome"
	DeleteRecurringIncomeProcedure = "/" + ServiceName + "/DeleteRecurringIncome"
	ListDueProcedure               = "/" + ServiceName + "/ListDue"
	ApplyRecurringBillProcedure    = "/" + ServiceName + "/ApplyRecurringBill"
	ApplyRecurringIncomeProcedure  = "/" + ServiceName + "/ApplyRecurringIncome"
	GetSummaryProcedure            = "/" + ServiceName + "/GetSummary"
	ChatProcedure                  = "/" + ServiceName + "/Chat"
	PublicChatProcedure            = "/" + ServiceName + "/PublicChat"
	SplitSalaryProcedure           = "/" + ServiceName + "/SplitSalary"
)

// NewAgentServiceHandler builds an HTTP handler serving every procedure of
// svc with the JSON codec. It returns the path prefix to mount it on.
func NewAgentServiceHandler(svc *AgentService, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(jsonCodec{})}, opts...)

	mux := http.NewServeMux()
	mux.Handle(GetStateProcedure, connect.NewUnaryHandler(GetStateProcedure, svc.GetState, opts...))
	mux.Handle(AddIncomeSourceProcedure, connect.NewUnaryHandler(AddIncomeSourceProcedure, svc.AddIncomeSource, opts...))
	mux.Handle(UpdateIncomeSourceProcedure, connect.NewUnaryHandler(UpdateIncomeSourceProcedure, svc.UpdateIncomeSource, opts...))
	mux.Handle(DeleteIncomeSourceProcedure, connect.NewUnaryHandler(DeleteIncomeSourceProcedure, svc.DeleteIncomeSource, opts...))
	mux.Handle(AddExpenseProcedure, connect.NewUnaryHandler(AddExpenseProcedure, svc.AddExpense, opts...))
	mux.Handle(UpdateExpenseProcedure, connect.NewUnaryHandler(UpdateExpenseProcedure, svc.UpdateExpense, opts...))
	mux.Handle(DeleteExpenseProcedure, connect.NewUnaryHandler(DeleteExpenseProcedure, svc.DeleteExpense, opts...))
	mux.Handle(SetGoalProcedure, connect.NewUnaryHandler(SetGoalProcedure, svc.SetGoal, opts...))
	mux.Handle(DeleteGoalProcedure, connect.NewUnaryHandler(DeleteGoalProcedure, svc.DeleteGoal, opts...))
	mux.Handle(AddRecurringBillProcedure, connect.NewUnaryHandler(AddRecurringBillProcedure, svc.AddRecurringBill, opts...))
	mux.Handle(UpdateRecurringBillProcedure, connect.NewUnaryHandler(UpdateRecurringBillProcedure, svc.UpdateRecurringBill, opts...))
	mux.Handle(DeleteRecurringBillProcedure, connect.NewUnaryHandler(DeleteRecurringBillProcedure, svc.DeleteRecurringBill, opts...))
	mux.Handle(AddRecurringIncomeProcedure, connect.NewUnaryHandler(AddRecurringIncomeProcedure, svc.AddRecurringIncome, opts...))
	mux.Handle(UpdateRecurringIncomeProcedure, connect.NewUnaryHandler(UpdateRecurringIncomeProcedure, svc.UpdateRecurringIncome, opts...))
	mux.Handle(DeleteRecurringIncomeProcedure, connect.NewUnaryHandler(DeleteRecurringIncomeProcedure, svc.DeleteRecurringIncome, opts...))
	mux.Handle(ListDueProcedure, connect.NewUnaryHandler(ListDueProcedure, svc.ListDue, opts...))
	mux.Handle(ApplyRecurringBillProcedure, connect.NewUnaryHandler(ApplyRecurringBillProcedure, svc.ApplyRecurringBill, opts...))
	mux.Handle(ApplyRecurringIncomeProcedure, connect.NewUnaryHandler(ApplyRecurringIncomeProcedure, svc.ApplyRecurringIncome, opts...))
	mux.Handle(GetSummaryProcedure, connect.NewUnaryHandler(GetSummaryProcedure, svc.GetSummary, opts...))
	mux.Handle(ChatProcedure, connect.NewUnaryHandler(ChatProcedure, svc.Chat, opts...))
	mux.Handle(PublicChatProcedure, connect.NewUnaryHandler(PublicChatProcedure, svc.PublicChat, opts...))
	mux.Handle(SplitSalaryProcedure, connect.NewUnaryHandler(SplitSalaryProcedure, svc.SplitSalary, opts...))

	return "/" + ServiceName + "/", mux
}
