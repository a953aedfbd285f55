// internal/cli/rag_index.go
package ragagent

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// ragIndexCmd embeds the policy document and writes the JSONL index.
var ragIndexCmd = &cobra.Command{
	Use:   "index",
	Short: "Build the RAG JSONL index",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfig()
		if cfg == nil {
			return fmt.Errorf("config is nil")
		}
		if strings.TrimSpace(cfg.RagIndexPath) == "" {
			return fmt.Errorf("ragIndexPath is required (set it in the config or pass --index)")
		}
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		s, err := newSession(ctx, cfg, sessionOptions{status: cmd.OutOrStdout(), rebuildIndex: true})
		if err != nil {
			return err
		}
		defer s.Close()

		fmt.Fprintf(cmd.OutOrStdout(), "Indexed %d chunks from %s into %s\n", s.retriever.Index().Len(), cfg.PolicyFilePath(), cfg.RagIndexPath)
		s.reportMetrics(cmd.OutOrStdout())
		return nil
	},
}

func init() {
	ragIndexCmd.Flags().String("index", "", "index output path")
	_ = viper.BindPFlag("ragIndexPath", ragIndexCmd.Flags().Lookup("index"))
	ragCmd.AddCommand(ragIndexCmd)
}
