// internal/cli/ask.go
package ragagent

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/RoySYH/RAG-based-Agentic-AI/internal/logging"
	"github.com/RoySYH/RAG-based-Agentic-AI/internal/transcript"
)

// askCmd answers the configured question list, or a single question given as arguments.
var askCmd = &cobra.Command{
	Use:   "ask [question...]",
	Short: "Answer booking policy questions",
	Long: `With no arguments, 'ask' answers the configured question list (or questionsFile)
and overwrites the transcript file. With arguments, it answers that one question and
only writes the transcript when --output is given.`,
	RunE: runAsk,
}

func init() {
	askCmd.Flags().Bool("continue-on-error", false, "record a failed question's error as its answer and keep going")
	askCmd.Flags().String("questions-file", "", "JSON file with {\"questions\": [...]}")
	_ = viper.BindPFlag("continueOnError", askCmd.Flags().Lookup("continue-on-error"))
	_ = viper.BindPFlag("questionsFile", askCmd.Flags().Lookup("questions-file"))
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	cfg := getConfig()
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	out := cmd.OutOrStdout()

	single := strings.TrimSpace(strings.Join(args, " "))
	var questions []string
	if single != "" {
		questions = []string{single}
	} else {
		resolved, err := cfg.ResolveQuestions()
		if err != nil {
			return err
		}
		questions = resolved
	}

	var status io.Writer
	if cfg.Debug {
		status = cmd.ErrOrStderr()
	}
	s, err := newSession(ctx, cfg, sessionOptions{status: status})
	if err != nil {
		return err
	}
	defer s.Close()

	writeTranscript := single == "" || cmd.Flags().Changed("output")
	entries := make([]transcript.Entry, 0, len(questions))
	var runErr error
	for i, q := range questions {
		logging.LogEvent("question %d/%d: %s", i+1, len(questions), q)
		answer, err := s.agent.Ask(ctx, q)
		if err != nil {
			if !cfg.ContinueOnError {
				runErr = fmt.Errorf("question %d (%q): %w", i+1, q, err)
				break
			}
			logging.LogEvent("question %d failed: %v", i+1, err)
			e := transcript.Entry{Question: q, Answer: "Error: " + err.Error()}
			entries = append(entries, e)
			transcript.Echo(out, e)
			continue
		}
		logging.LogEvent("answered via %s (cached=%v)", answer.Route, answer.Cached)
		e := transcript.Entry{Question: answer.Question, Answer: answer.Text}
		entries = append(entries, e)
		transcript.Echo(out, e)
	}

	if writeTranscript {
		path := cfg.OutputFilePath()
		if err := transcript.WriteFile(path, entries); err != nil {
			return err
		}
		logging.LogEvent("wrote %d answers to %s", len(entries), path)
	}

	s.reportMetrics(out)
	return runErr
}
