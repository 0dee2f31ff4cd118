package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/plumsh/plumsh/core"
)

// runCmd starts the interactive shell; bare `plumsh` does the same.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the interactive shell.",
	Args:  cobra.ExactArgs(0),
	RunE:  runShell,
}

func runShell(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	configuration, err := loadConfig()
	if err != nil {
		return err
	}

	sh, err := core.NewShell(configuration)
	if err != nil {
		return err
	}

	// ^C at the terminal reaches only the shell's own process group. The
	// running pipeline lives in a separate group, so the interrupt is
	// forwarded to that whole group in a single kill.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGINT)
	go func() {
		for range sigs {
			sh.Executor.Interrupt()
		}
	}()

	status := sh.Run()

	signal.Stop(sigs)
	close(sigs)
	sh.Close()

	if status != 0 {
		os.Exit(status)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(runCmd)
}
