// internal/cli/check.go
package ragagent

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/RoySYH/RAG-based-Agentic-AI/internal/booking"
)

// checkCmd runs only the time-slot rule. It needs no API key.
var checkCmd = &cobra.Command{
	Use:   "check <time or question>",
	Short: "Check a time slot against the booked slots",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfig()
		if cfg == nil {
			return fmt.Errorf("config is nil")
		}
		text := strings.TrimSpace(strings.Join(args, " "))
		schedule := booking.NewSchedule(cfg.Booking.BookedSlots, cfg.Booking.Suggestion)

		out := cmd.OutOrStdout()
		result, ok := schedule.Lookup(text)
		if !ok {
			fmt.Fprintf(out, "No time slot recognized in %q\n", text)
			return nil
		}
		if result.Available {
			color.New(color.FgGreen).Fprintln(out, result.Answer())
		} else {
			color.New(color.FgYellow).Fprintln(out, result.Answer())
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
