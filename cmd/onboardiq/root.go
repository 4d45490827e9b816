package main

import (
	"errors"
	"io/fs"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/prilive-com/onboardiq"
	"github.com/prilive-com/onboardiq/internal/config"
)

type app struct {
	configPath string
	envFile    string
	logLevel   string
	logFormat  string

	cfg    onboardiq.Config
	logger *slog.Logger
	svc    *onboardiq.Services
}

func newRootCmd() (*cobra.Command, *app) {
	a := &app{}

	root := &cobra.Command{
		Use:           "onboardiq",
		Short:         "Call the onboarding vendor APIs through resilient gateways",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "", "config file (default: ./onboardiq.yaml if present)")
	flags.StringVar(&a.envFile, "env-file", ".env", "dotenv file with ONBOARDIQ_* variables")
	flags.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error")
	flags.StringVar(&a.logFormat, "log-format", "", "log format: text or json")

	root.AddCommand(
		a.smokeCmd(),
		a.statusCmd(),
		a.verifyCmd(),
		a.generateCmd(),
		a.smsCmd(),
	)
	return root, a
}

// close releases the services created by setup, if any.
func (a *app) close() error {
	if a.svc == nil {
		return nil
	}
	return a.svc.Close()
}

func (a *app) setup(cmd *cobra.Command) error {
	if a.envFile != "" {
		if err := config.LoadDotEnv(a.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}

	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	if a.logFormat != "" {
		cfg.Log.Format = a.logFormat
	}

	logger, err := cfg.Log.NewLogger(cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	svc, err := onboardiq.New(cfg, onboardiq.WithLogger(logger))
	if err != nil {
		return err
	}

	a.cfg, a.logger, a.svc = cfg, logger, svc
	return nil
}
