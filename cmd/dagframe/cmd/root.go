package cmd

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dagframe/dagframe/pkg/config"
	"github.com/dagframe/dagframe/pkg/utils"
)

var (
	verbose    bool
	configPath string
	logger     utils.Logger
	cfg        *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "dagframe",
	Short: "Plan task-graph execution order and dataframe joins",
	Long: `dagframe computes, without running anything, the priority order an
executor should pull ready task-graph nodes in, and inspects or clears the
plan-fragment cache. Join, merge and concat planning is not exposed as a
command.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logLevel := utils.LevelInfo
		if verbose {
			logLevel = utils.LevelDebug
		}
		logger = utils.NewDefaultLogger(logLevel, os.Stdout).WithComponent("cli")

		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
		return nil
	},
}

// Execute adds all child commands to the root command and runs it.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file (defaults to ./config.yaml, /etc/dagframe/config.yaml)")

	binName := BinName()
	rootCmd.Example = `  # Compute a DFS execution priority order for a graph fragment
  ` + binName + ` order ./graph.json

  # Inspect a cached plan fragment by its tokenize digest
  ` + binName + ` cache inspect 3f9a1c...

  # Purge expired entries from the plan cache
  ` + binName + ` cache clear`
}

// GetLogger returns the configured logger.
func GetLogger() utils.Logger {
	return logger
}

// GetConfig returns the loaded configuration.
func GetConfig() *config.Config {
	return cfg
}

// BinName returns the base name of the current executable.
func BinName() string {
	return filepath.Base(os.Args[0])
}
