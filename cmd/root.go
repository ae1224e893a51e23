package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "lyra",
	Short: "song chart version history tool",
	Example: `lyra song create -t <title> -k <key>
lyra song list
lyra history save -s <song-id> -f <chart-file>
lyra history list -s <song-id>
lyra history show -s <song-id> -n <version>
lyra history diff -s <song-id> -a <version> -b <version>
lyra history restore -s <song-id> -n <version>
lyra history prune -s <song-id>`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(dbCmd)
	rootCmd.SetHelpCommand(&cobra.Command{Use: "no-help", Hidden: true})

	rootCmd.CompletionOptions.HiddenDefaultCmd = true
	cobra.EnableCommandSorting = false
}
