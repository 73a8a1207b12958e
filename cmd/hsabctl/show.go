package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hsabsaboun/backend/internal/finance"
)

var flagView string

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show a user's reconciled state and summary",
	RunE:  withApp(runShow),
}

func init() {
	showCmd.Flags().StringVar(&flagView, "view", string(finance.ViewMonthly), "Category breakdown window: daily, monthly or yearly")
	rootCmd.AddCommand(showCmd)
}

func runShow(ctx context.Context, a *app, _ []string) error {
	data, today, err := a.svc.Snapshot(ctx, flagUser)
	if err != nil {
		return err
	}
	state := data.FinanceState
	summary := finance.Summarize(state, today)
	breakdown := finance.CategoryBreakdown(state.Expenses, finance.View(flagView), today)

	if flagJSON {
		return printJSON(map[string]any{
			"state":     state,
			"summary":   summary,
			"breakdown": breakdown,
		})
	}

	fmt.Println()
	fmt.Println(renderTitle(fmt.Sprintf("%s  %02d/%d", flagUser, state.LastActiveMonth+1, state.LastActiveYear)))
	fmt.Println()
	fmt.Printf("  Income    %s\n", renderAmount(summary.TotalIncome))
	fmt.Printf("  Expenses  %s\n", renderAmount(summary.TotalExpenses))
	fmt.Printf("  Savings   %s\n", renderAmount(summary.Savings))
	if state.Goal != nil {
		fmt.Printf("  Goal      %s %s / %s (%.1f%%, %d months)\n",
			state.Goal.Name, formatAmount(state.Goal.SavedAmount), formatAmount(state.Goal.TargetAmount),
			summary.GoalProgress, state.Goal.DurationMonths)
	}
	fmt.Println()

	incomes := table{title: "Income sources", headers: []string{"Name", "Amount", "Date"}}
	for _, in := range state.IncomeSources {
		incomes.rows = append(incomes.rows, []string{in.Name, formatAmount(in.Amount), in.Date.In(today.Location()).Format("2006-01-02")})
	}
	fmt.Print(renderTable(incomes))

	expenses := table{title: "Expenses", headers: []string{"Name", "Category", "Amount", "Date"}}
	for _, e := range state.Expenses {
		expenses.rows = append(expenses.rows, []string{e.Name, string(e.Category), formatAmount(e.Amount), e.Date.In(today.Location()).Format("2006-01-02")})
	}
	fmt.Print(renderTable(expenses))

	shares := table{title: "By category (" + string(breakdown.View) + ")", headers: []string{"Category", "Amount", "Share"}}
	for _, s := range breakdown.Shares {
		shares.rows = append(shares.rows, []string{string(s.Category), formatAmount(s.Amount), fmt.Sprintf("%.1f%%", s.Percent)})
	}
	fmt.Print(renderTable(shares))

	history := table{title: "History", headers: []string{"Period", "Income", "Expenses", "Savings"}}
	for _, r := range state.History {
		history.rows = append(history.rows, []string{
			fmt.Sprintf("%02d/%d", r.Month+1, r.Year),
			formatAmount(r.TotalIncome),
			formatAmount(r.TotalExpenses),
			formatAmount(r.Savings),
		})
	}
	fmt.Print(renderTable(history))
	return nil
}
