package main

import (
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/cognicore/text2playlist/pkg/playlist/config"
)

type commandContext struct {
	configFlag  string
	verboseFlag bool
}

func (c *commandContext) logger(w io.Writer) *log.Logger {
	level := log.WarnLevel
	if c.verboseFlag {
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		Prefix:          "text2playlist",
		Level:           level,
		ReportTimestamp: c.verboseFlag,
	})
}

// loadConfig returns the defaults when no config file is given.
func (c *commandContext) loadConfig() (config.Config, error) {
	path := strings.TrimSpace(c.configFlag)
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

func newRootCommand() *cobra.Command {
	ctx := &commandContext{}

	rootCmd := &cobra.Command{
		Use:           "text2playlist",
		Short:         "Turn a sentence into a playlist of song titles",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&ctx.configFlag, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().BoolVarP(&ctx.verboseFlag, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(newSegmentCommand(ctx))
	rootCmd.AddCommand(newImportCommand(ctx))

	return rootCmd
}
