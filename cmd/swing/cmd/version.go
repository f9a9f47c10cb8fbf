package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

const version = "0.3.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  `Display the current version of the swing CLI.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("swing version %s\n", version)
		fmt.Println("A portfolio backtester for rule-based swing trading strategies")
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
