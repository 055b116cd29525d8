package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:     "aslrun",
	Short:   "Run ASL semantic-core fixtures",
	Long:    `aslrun drives internal/interp's semantic evaluator over the named test fixtures in internal/fixtures against the native backend.`,
	Version: Version,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf("aslrun version {{.Version}} (%s)\n", GitCommit))
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to a YAML config file (unroll bound, strictness, seed)")
}
