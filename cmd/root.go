package cmd

import (
	"errors"
	"io/fs"
	"log"

	"github.com/spf13/cobra"

	"github.com/plumsh/plumsh/core/config"
)

var cfgPath string

func loadConfig() (*config.Configuration, error) {
	configuration, err := config.Load(cfgPath)

	if errors.Is(err, fs.ErrNotExist) {
		log.Println("Couldn't load config: did you run init?")
	}

	return configuration, err
}

// rootCmd represents the base command when called without any subcommands.
// Bare invocations start the interactive shell.
var rootCmd = &cobra.Command{
	Use:   "plumsh",
	Short: "An interactive shell built around correct pipeline execution.",
	Long: `plumsh is a small interactive shell whose focus is running command
pipelines correctly: concurrent processes joined by kernel pipes, one
process group per pipeline, and POSIX exit-status semantics.`,
	RunE: runShell,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", ".", "config path")
}
