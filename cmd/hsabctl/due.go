package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/hsabsaboun/backend/internal/finance"
)

var dueCmd = &cobra.Command{
	Use:   "due",
	Short: "List recurring bills and incomes waiting for confirmation",
	RunE:  withApp(runDue),
}

func init() {
	rootCmd.AddCommand(dueCmd)
}

func runDue(ctx context.Context, a *app, _ []string) error {
	data, today, err := a.svc.Snapshot(ctx, flagUser)
	if err != nil {
		return err
	}
	state := data.FinanceState
	bills := finance.DueBills(state, today)
	incomes := finance.DueIncomes(state, today)

	if flagJSON {
		return printJSON(map[string]any{"dueBills": bills, "dueIncomes": incomes})
	}

	t := table{title: "Due on " + today.Format("2006-01-02"), headers: []string{"Kind", "Name", "Amount", "Due", "Next"}}
	for _, b := range bills {
		t.rows = append(t.rows, dueRow("bill", b.Name, b.Amount, b.Schedule, today))
	}
	for _, r := range incomes {
		t.rows = append(t.rows, dueRow("income", r.Name, r.Amount, r.Schedule, today))
	}
	fmt.Println()
	fmt.Print(renderTable(t))
	return nil
}

func dueRow(kind, name string, amount float64, sc finance.Schedule, today time.Time) []string {
	next := finance.NextDueDate(sc, today.AddDate(0, 0, 1))
	return []string{
		kind,
		name,
		formatAmount(amount),
		finance.CycleDueDate(sc, today).Format("2006-01-02"),
		next.Format("2006-01-02"),
	}
}
