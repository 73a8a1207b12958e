package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var flagAll bool

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Roll a user's document (or every document) over to the current month",
	RunE:  withApp(runReconcile),
}

func init() {
	reconcileCmd.Flags().BoolVar(&flagAll, "all", false, "Reconcile every stored user")
	rootCmd.AddCommand(reconcileCmd)
}

func runReconcile(ctx context.Context, a *app, _ []string) error {
	if flagAll {
		result, err := a.svc.ReconcileAll(ctx)
		if err != nil {
			return err
		}
		if flagJSON {
			return printJSON(result)
		}
		fmt.Printf("  users=%d rolled_over=%d archived=%d errors=%d\n",
			result.Users, result.RolledOver, result.Archived, result.Errors)
		return nil
	}

	rollover, err := a.svc.ReconcileUser(ctx, flagUser)
	if err != nil {
		return err
	}
	if flagJSON {
		return printJSON(rollover)
	}
	switch {
	case !rollover.Advanced:
		fmt.Printf("  %s is already on the current month\n", flagUser)
	case rollover.Archived == nil:
		fmt.Printf("  %s advanced to the current month (empty period, %d skipped months)\n", flagUser, rollover.SkippedMonths)
	default:
		r := rollover.Archived
		fmt.Printf("  %s archived %02d/%d: income %s, expenses %s, savings %s, goal +%s\n",
			flagUser, r.Month+1, r.Year,
			formatAmount(r.TotalIncome), formatAmount(r.TotalExpenses), renderAmount(r.Savings),
			formatAmount(rollover.Accrued))
	}
	return nil
}
