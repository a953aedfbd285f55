// internal/cli/chat.go
package ragagent

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/RoySYH/RAG-based-Agentic-AI/internal/logging"
	"github.com/RoySYH/RAG-based-Agentic-AI/internal/transcript"
	"github.com/RoySYH/RAG-based-Agentic-AI/internal/tui"
)

var startChat = tui.Run

// chatCmd represents the 'chat' command.
var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start a chat session",
	Long:  `The 'chat' command starts an interactive session over the same agent used by 'ask'.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfig()
		if cfg == nil {
			return fmt.Errorf("config is nil")
		}
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		s, err := newSession(ctx, cfg, sessionOptions{})
		if err != nil {
			return err
		}
		defer s.Close()

		entries, err := startChat(ctx, s.agent, tui.Info{
			Host:   s.genHost.Name,
			Model:  cfg.Model(),
			Policy: cfg.PolicyFilePath(),
			TopK:   cfg.TopK(),
			Debug:  cfg.Debug,
		})
		if err != nil {
			return err
		}

		if cmd.Flags().Changed("output") && len(entries) > 0 {
			if err := transcript.WriteFile(cfg.OutputFilePath(), entries); err != nil {
				return err
			}
			logging.LogEvent("wrote %d chat answers to %s", len(entries), cfg.OutputFilePath())
		}
		s.reportMetrics(cmd.OutOrStdout())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
}
