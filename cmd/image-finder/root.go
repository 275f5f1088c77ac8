package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"image-finder/internal/config"
	"image-finder/internal/logger"
)

// commandContext lazily loads configuration and logging shared by commands
type commandContext struct {
	configFlag string
	cfg        *config.Config
	log        logger.Logger
	closers    []io.Closer
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}
	cfg, _, _, err := config.Load(c.configFlag)
	if err != nil {
		return nil, err
	}
	c.cfg = cfg
	return cfg, nil
}

// ensureLogger builds the configured logger: JSON to a file when logging.file is
// set, otherwise a console writer on stderr.
func (c *commandContext) ensureLogger() (logger.Logger, error) {
	if c.log != nil {
		return c.log, nil
	}
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	if cfg.Logging.File != "" {
		fileLog, closer, err := logger.NewFileLogger(cfg.LogLevel(), cfg.Logging.File)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		c.closers = append(c.closers, closer)
		c.log = fileLog
		return c.log, nil
	}
	c.log = logger.NewConsoleLogger(cfg.LogLevel())
	return c.log, nil
}

func (c *commandContext) close() {
	for _, closer := range c.closers {
		_ = closer.Close()
	}
	c.closers = nil
}

func newRootCommand() *cobra.Command {
	ctx := &commandContext{}

	rootCmd := &cobra.Command{
		Use:           "image-finder",
		Short:         "Find files by serial and copy them to a folder",
		Long:          "Searches a source folder recursively for files whose names contain each serial and copies them into a destination folder. Without a subcommand the desktop window opens.",
		Version:       AppVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			_, err := ctx.ensureConfig()
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			ctx.close()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGUI(ctx)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&ctx.configFlag, "config", "c", "", "Configuration file path")
	rootCmd.AddCommand(newCopyCommand(ctx))

	return rootCmd
}
