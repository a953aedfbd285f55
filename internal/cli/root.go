// internal/cli/root.go
package ragagent

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/RoySYH/RAG-based-Agentic-AI/internal/appconfig"
	"github.com/RoySYH/RAG-based-Agentic-AI/internal/logging"
)

var (
	cfgFile       string
	currentConfig *appconfig.Config
	runID         string
)

var rootCmd = &cobra.Command{
	Use:           "ragagent",
	Short:         "ragagent answers meeting-room booking policy questions",
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// 1) Load config (file or defaults)
		if err := ensureConfigLoaded(cmd); err != nil {
			return err
		}

		// 2) If user did NOT set a flag, copy the config value into the flag so
		//    both pflags and viper reflect the same, final value.
		for _, name := range []string{"debug", "metrics"} {
			if !cmd.Flags().Changed(name) {
				val := viper.GetBool(name)
				_ = cmd.Flags().Set(name, strconv.FormatBool(val))
			}
		}

		// 3) Materialize the fully merged configuration into currentConfig
		//    (flags > config > defaults).
		var cfg appconfig.Config
		if err := viper.Unmarshal(&cfg); err != nil {
			return fmt.Errorf("unmarshal config: %w", err)
		}
		cfg.ConfigPath = viper.ConfigFileUsed()
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}
		currentConfig = &cfg

		// 4) Route the standard logger to the log file for this run.
		runID = uuid.NewString()
		if err := logging.Init(logging.Options{
			Path:    cfg.LogFilePath(),
			Console: cfg.Debug,
			Debug:   cfg.Debug,
			RunID:   runID,
		}); err != nil {
			return fmt.Errorf("init logging: %w", err)
		}
		logging.LogEvent("%s started (config: %q)", cmd.CommandPath(), cfg.ConfigPath)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logging.Close()
	},
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", appconfig.DefaultConfigPath, "config file (e.g., config/config.json)")

	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	rootCmd.PersistentFlags().Bool("metrics", false, "record per-model call metrics")
	rootCmd.PersistentFlags().String("policy", "", "policy document to index (default policy.txt)")
	rootCmd.PersistentFlags().String("output", "", "transcript file (default output.txt)")
	rootCmd.PersistentFlags().String("model", "", "generation model (default gemini-1.5-flash)")
	rootCmd.PersistentFlags().String("host", "", "name of the configured host used for generation")
	rootCmd.PersistentFlags().Int("top-k", 0, "chunks retrieved per question (default 2)")

	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("metrics", rootCmd.PersistentFlags().Lookup("metrics"))
	_ = viper.BindPFlag("policy", rootCmd.PersistentFlags().Lookup("policy"))
	_ = viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))
	_ = viper.BindPFlag("llmModel", rootCmd.PersistentFlags().Lookup("model"))
	_ = viper.BindPFlag("llmHost", rootCmd.PersistentFlags().Lookup("host"))
	_ = viper.BindPFlag("ragTopK", rootCmd.PersistentFlags().Lookup("top-k"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}
}

// ensureConfigLoaded reads the config file. A missing default config file is
// not an error; a missing file named with --config is.
func ensureConfigLoaded(cmd *cobra.Command) error {
	viper.SetDefault("debug", false)
	viper.SetDefault("metrics", false)

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		if errors.Is(err, fs.ErrNotExist) && !cmd.Flags().Changed("config") {
			return nil
		}
		return fmt.Errorf("failed to load config: %w", err)
	}
	return nil
}

// getConfig returns the merged configuration for the running command.
func getConfig() *appconfig.Config {
	return currentConfig
}

// DebugEnabled reflects the merged debug setting.
func DebugEnabled() bool { return viper.GetBool("debug") }
