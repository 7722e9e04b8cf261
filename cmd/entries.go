package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/vitalia-app/vitalia/pkg/storage"
)

// entriesCmd represents the entries command
var entriesCmd = &cobra.Command{
	Use:   "entries",
	Short: "List a user's stored daily entries, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, _ := cmd.Flags().GetString("user")
		if userID == "" {
			return fmt.Errorf("--user is required")
		}
		limit, _ := cmd.Flags().GetInt("limit")

		dbPath, err := resolveDBPath()
		if err != nil {
			return err
		}
		db, err := storage.Open(dbPath)
		if err != nil {
			return err
		}
		defer db.Close()

		entries, err := db.ListByUser(context.Background(), userID, limit)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Println("No entries stored for this user.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "DAY\tCATEGORY\tSCORE\tRECS\tFALLBACK\t")
		for _, e := range entries {
			scoreStr := "-"
			if e.Score.Score != nil {
				scoreStr = fmt.Sprintf("%d", *e.Score.Score)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%t\t\n",
				e.Day, e.Category, scoreStr, len(e.Recommendations), e.Fallback)
		}
		w.Flush()

		return nil
	},
}

func init() {
	rootCmd.AddCommand(entriesCmd)
	entriesCmd.Flags().StringP("user", "u", "", "User ID to list entries for")
	entriesCmd.Flags().Int("limit", 30, "Maximum number of entries to print")
}
