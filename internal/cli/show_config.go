// internal/cli/show_config.go
package ragagent

import (
	"fmt"

	"github.com/k0kubun/pp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/RoySYH/RAG-based-Agentic-AI/internal/appconfig"
	"github.com/RoySYH/RAG-based-Agentic-AI/internal/booking"
)

// showConfigCmd prints the merged configuration (flags > config > defaults).
var showConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Show config settings",
	Long:  `Show config settings ensuring that the JSON configs are loaded properly and overridden by flags accordingly.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := getConfig()
		appconfig.ShowConfig(cmd.OutOrStdout(), viper.ConfigFileUsed(), cfg)
		if cfg != nil && cfg.Debug {
			fmt.Fprintln(cmd.OutOrStdout())
			pp.Fprintln(cmd.OutOrStdout(), cfg)
		}
	},
}

// showSlotsCmd lists the booked slots the time-slot rule checks against.
var showSlotsCmd = &cobra.Command{
	Use:   "slots",
	Short: "Show booked time slots",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := getConfig()
		if cfg == nil {
			cfg = &appconfig.Config{}
		}
		schedule := booking.NewSchedule(cfg.Booking.BookedSlots, cfg.Booking.Suggestion)
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Booked slots:")
		for _, slot := range schedule.Slots() {
			fmt.Fprintf(out, "  %s\n", slot)
		}
		fmt.Fprintf(out, "Suggestion: %s\n", schedule.Suggestion())
	},
}

func init() {
	showCmd.AddCommand(showConfigCmd)
	showCmd.AddCommand(showSlotsCmd)
}
