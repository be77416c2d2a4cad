package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

type app struct {
	flags  flagValues
	cfg    Config
	logger *slog.Logger
	closer io.Closer
	now    func() time.Time
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{now: time.Now}
	root := &cobra.Command{
		Use:           "country-indicators",
		Short:         "Browse economic indicators for a fixed set of countries",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.close()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runConsole()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.envFile, "env-file", "", "env file to load before reading "+envAccessKey+" (default .env when present)")
	pf.StringVar(&a.flags.apiBase, "api-base", defaultAPIBase, "indicator API base URL")
	pf.DurationVar(&a.flags.timeout, "timeout", 15*time.Second, "HTTP request timeout")
	pf.StringVar(&a.flags.logFile, "log-file", defaultLogFile, "path to the JSON log file")
	pf.StringVar(&a.flags.dbURL, "db-url", "", "Postgres connection string (falls back to "+envDSN+" or "+envDatabaseURL+")")

	root.AddCommand(a.reportCmd(), a.syncCmd())
	return root
}

func (a *app) setup() error {
	cfg, err := loadConfig(a.flags, os.Getenv)
	if err != nil {
		return err
	}
	logger, closer, err := openLogger(cfg.LogFile)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logger
	a.closer = closer
	a.logger.Info("starting", "api_base", cfg.APIBase, "has_key", cfg.AccessKey != "", "log_file", cfg.LogFile)
	return nil
}

func (a *app) close() error {
	if a.closer == nil {
		return nil
	}
	err := a.closer.Close()
	a.closer = nil
	return err
}

func (a *app) client() *Client {
	return NewClient(a.cfg.APIBase, a.cfg.AccessKey, a.cfg.Timeout)
}

func (a *app) runConsole() error {
	program := tea.NewProgram(newModel(a.client(), a.logger), tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := program.Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	if err != nil {
		a.logger.Error("program exited", "error", err)
	}
	return err
}
