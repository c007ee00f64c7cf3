package cli

import (
	"encoding/json"
	"fmt"

	"ai-quiz-service/internal/config"
	"ai-quiz-service/internal/domain"
	"ai-quiz-service/internal/quizparse"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// NewGenerateCmd generates and validates one quiz and prints it as JSON.
func NewGenerateCmd(configPath *string) *cobra.Command {
	var opts domain.QuizOptions
	var difficulty, questionType string

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a single quiz and print it as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			logger := newLogger(cfg)
			defer logger.Sync()

			opts.Difficulty = domain.Difficulty(difficulty)
			opts.QuestionType = domain.QuestionType(questionType)
			if err := opts.Validate(); err != nil {
				return err
			}

			raw, err := newRequester(cfg, logger).RequestQuizText(cmd.Context(), opts)
			if err != nil {
				return fmt.Errorf("%s: %w", domain.UserMessage(err), err)
			}
			quiz, err := quizparse.NewParser(logger).Parse(raw, opts)
			if err != nil {
				logger.Debug("rejected reply", zap.String("raw", raw))
				return err
			}

			out, err := json.MarshalIndent(quiz, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Topic, "topic", "", "quiz topic")
	cmd.Flags().StringVar(&difficulty, "difficulty", string(domain.DifficultyMedium), "easy, medium or hard")
	cmd.Flags().IntVar(&opts.QuestionCount, "count", 5, "number of questions")
	cmd.Flags().StringVar(&questionType, "type", string(domain.QuestionMultiple), "multiple, boolean or mixed")
	return cmd
}
