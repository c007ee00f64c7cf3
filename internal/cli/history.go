package cli

import (
	"encoding/json"
	"fmt"

	"ai-quiz-service/internal/app"
	"ai-quiz-service/internal/config"
	"github.com/spf13/cobra"
)

// NewHistoryCmd prints stored results, or their summary with --stats.
func NewHistoryCmd(configPath *string) *cobra.Command {
	var search string
	var stats bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Print quiz history from the configured backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			logger := newLogger(cfg)
			defer logger.Sync()

			history, closeHistory, err := openHistory(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer closeHistory()

			results, err := history.List(cmd.Context())
			if err != nil {
				return err
			}
			results = app.FilterHistory(results, search)

			var payload any = results
			if stats {
				payload = app.ComputeStats(results)
			}
			out, err := json.MarshalIndent(payload, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}

	cmd.Flags().StringVar(&search, "search", "", "only results whose quiz ID, title or topic contains this")
	cmd.Flags().BoolVar(&stats, "stats", false, "print aggregate statistics instead of the results")
	return cmd
}
