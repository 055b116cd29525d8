package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arm-asl/aslcore/internal/fixtures"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the names accepted by `aslrun run`",
	Run: func(cmd *cobra.Command, args []string) {
		for _, n := range fixtures.Names() {
			fmt.Println(n)
		}
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
