package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/plumsh/plumsh/core/logger"
)

var logsCmd = &cobra.Command{
	Use:     "logs",
	Aliases: []string{"log"},
	Short:   "Explore recorded shell session logs.",
}

// reportCmd summarizes one or more session logs. With no arguments it reads
// every log in the configured session_logs directory.
var reportCmd = &cobra.Command{
	Use:   "report [FILE...]",
	Short: "Summarize session logs into usage statistics.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		report := logger.NewReport()

		update := func(r io.Reader) error {
			return logger.ReadJSONLinesLog(r, report.Update)
		}

		if len(args) == 0 {
			configuration, err := loadConfig()
			if err != nil {
				return err
			}
			names, err := configuration.ListSessionLogs()
			if err != nil {
				return err
			}
			for _, name := range names {
				fd, err := configuration.OpenSessionLog(name)
				if err != nil {
					return err
				}
				err = update(fd)
				fd.Close()
				if err != nil {
					return fmt.Errorf("%s: %w", name, err)
				}
			}
		}

		for _, path := range args {
			fd, err := os.Open(path)
			if err != nil {
				return err
			}
			err = update(fd)
			fd.Close()
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
		}

		return report.WriteTo(cmd.OutOrStdout())
	},
}

// catLogCmd prints a session log as readable text.
var catLogCmd = &cobra.Command{
	Use:   "cat FILE",
	Short: "Print a session log as readable text.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		fd, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer fd.Close()

		out := cmd.OutOrStdout()
		return logger.ReadJSONLinesLog(fd, func(le *logger.LogEntry) {
			ts := time.UnixMicro(le.TimestampMicros).Format(time.RFC3339)
			switch le.Event {
			case logger.EventPipeline:
				line := fmt.Sprintf("%s\t[%d]\t%s", ts, le.ExitStatus, le.Raw)
				if le.Error != "" {
					line += fmt.Sprintf("\t(%s)", le.Error)
				}
				fmt.Fprintln(out, line)
			default:
				fmt.Fprintf(out, "%s\t%s\n", ts, strings.ReplaceAll(string(le.Event), "_", " "))
			}
		})
	},
}

func init() {
	logsCmd.AddCommand(reportCmd)
	logsCmd.AddCommand(catLogCmd)
	rootCmd.AddCommand(logsCmd)
}
