package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/hsabsaboun/backend/internal/finance"
)

var flagReset bool

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Fill a user's document with demo data",
	RunE:  withApp(runSeed),
}

func init() {
	seedCmd.Flags().BoolVar(&flagReset, "reset", false, "Delete the existing document first")
	rootCmd.AddCommand(seedCmd)
}

func runSeed(ctx context.Context, a *app, _ []string) error {
	if flagReset {
		if err := a.store.DeleteUserData(ctx, flagUser); err != nil {
			return fmt.Errorf("failed to reset %s: %w", flagUser, err)
		}
	}

	state, err := a.svc.UpdateUser(ctx, flagUser, seedState)
	if err != nil {
		return err
	}
	if flagJSON {
		return printJSON(state)
	}
	fmt.Printf("  seeded %s: %d incomes, %d expenses, %d bills, %d recurring incomes\n",
		flagUser, len(state.IncomeSources), len(state.Expenses), len(state.RecurringBills), len(state.RecurringIncomes))
	return nil
}

// seedState adds a typical Casablanca month on top of s.
func seedState(s finance.State, now time.Time) (finance.State, error) {
	var err error
	add := func(step func(finance.State) (finance.State, error)) {
		if err != nil {
			return
		}
		s, err = step(s)
	}

	add(func(s finance.State) (finance.State, error) {
		out, _, err := finance.AddIncome(s, finance.IncomeInput{Name: "راتب", Amount: 9000}, now)
		return out, err
	})
	for _, e := range []finance.ExpenseInput{
		{Name: "كراء الدار", Amount: 3500, Category: finance.CategoryRent},
		{Name: "ضو و ما", Amount: 420, Category: finance.CategoryBills},
		{Name: "ليصانص", Amount: 600, Category: finance.CategoryCar},
		{Name: "مرشي", Amount: 1500, Category: finance.CategoryShopping},
		{Name: "عشا مع الصحاب", Amount: 250, Category: finance.CategoryOutings},
	} {
		add(func(s finance.State) (finance.State, error) {
			out, _, err := finance.AddExpense(s, e, now)
			return out, err
		})
	}
	add(func(s finance.State) (finance.State, error) {
		out, _, err := finance.SetGoal(s, finance.GoalInput{Name: "طموبيل", TargetAmount: 60000, DurationMonths: 18})
		return out, err
	})
	add(func(s finance.State) (finance.State, error) {
		out, _, err := finance.AddRecurringBill(s, finance.RecurringBillInput{
			Name:     "كراء الدار",
			Amount:   3500,
			Category: finance.CategoryRent,
			Schedule: finance.Schedule{RecurrenceType: finance.RecurrenceMonthly, DayOfMonth: 1},
		})
		return out, err
	})
	add(func(s finance.State) (finance.State, error) {
		out, _, err := finance.AddRecurringBill(s, finance.RecurringBillInput{
			Name:     "تأمين الطموبيل",
			Amount:   2400,
			Category: finance.CategoryCar,
			Schedule: finance.Schedule{RecurrenceType: finance.RecurrenceYearly, Month: 9, Day: 15},
		})
		return out, err
	})
	add(func(s finance.State) (finance.State, error) {
		out, _, err := finance.AddRecurringIncome(s, finance.RecurringIncomeInput{
			Name:     "راتب",
			Amount:   9000,
			Schedule: finance.Schedule{RecurrenceType: finance.RecurrenceMonthly, DayOfMonth: 28},
		})
		return out, err
	})
	return s, err
}
