package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vitalia-app/vitalia/pkg/insights"
	"github.com/vitalia-app/vitalia/pkg/storage"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate (or fetch) a user's daily entity and print it as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, _ := cmd.Flags().GetString("user")
		if userID == "" {
			return fmt.Errorf("--user is required")
		}
		categoryStr, _ := cmd.Flags().GetString("category")
		category := insights.Category(categoryStr)

		day := time.Now()
		if dateStr, _ := cmd.Flags().GetString("date"); dateStr != "" {
			parsed, err := time.Parse(storage.DayFormat, dateStr)
			if err != nil {
				return fmt.Errorf("invalid --date %q: want YYYY-MM-DD", dateStr)
			}
			day = parsed
		}

		svc, db, err := newDailyService(nil)
		if err != nil {
			return err
		}
		defer db.Close()

		res, err := svc.GetOrGenerate(context.Background(), userID, category, day)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)
	generateCmd.Flags().StringP("user", "u", "", "User ID to generate for")
	generateCmd.Flags().StringP("category", "c", string(insights.CategoryMindfulness), "Recommendation category")
	generateCmd.Flags().String("date", "", "Day to generate for (YYYY-MM-DD, default today)")
}
