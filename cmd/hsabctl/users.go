package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "List the ids of every stored user",
	RunE:  withApp(runUsers),
}

func init() {
	rootCmd.AddCommand(usersCmd)
}

func runUsers(ctx context.Context, a *app, _ []string) error {
	var ids []string
	pageToken := ""
	for {
		page, next, err := a.store.ListUserIDs(ctx, 500, pageToken)
		if err != nil {
			return fmt.Errorf("failed to list users: %w", err)
		}
		ids = append(ids, page...)
		if next == "" {
			break
		}
		pageToken = next
	}

	if flagJSON {
		return printJSON(ids)
	}
	for _, id := range ids {
		fmt.Println(id)
	}
	return nil
}
