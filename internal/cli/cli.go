// Package cli holds the opsdash command tree and its shared start-up helpers.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/avrm/opsdash/internal/backend"
	"github.com/avrm/opsdash/internal/config"
	applog "github.com/avrm/opsdash/internal/log"
)

// Set at build time with -ldflags "-X github.com/avrm/opsdash/internal/cli.Version=...".
var (
	Version = "dev"
	Commit  = "none"
)

// EnvConfigPath names the variable consulted when --config is not given.
const EnvConfigPath = "OPSDASH_CONFIG"

// app is the state shared by every subcommand after PersistentPreRunE.
type app struct {
	configPath string
	cfg        *config.Config
	logger     *applog.Logger
	factory    backend.Factory
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:     "opsdash",
		Short:   "Operations dashboard API for a vacation-rental business",
		Version: fmt.Sprintf("%s (commit: %s)", Version, Commit),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
	}
	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "", "TOML config file (env "+EnvConfigPath+")")

	rootCmd.AddCommand(
		newServeCommand(a),
		newWorkerCommand(a),
		newMigrateCommand(a),
		newSyncCommand(a),
	)
	return rootCmd
}

func (a *app) init() error {
	LoadEnvFile()

	path := a.configPath
	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}
	cfg, err := config.LoadWithFile(path)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = SetupLogger(cfg)
	a.factory = backend.NewFactory(a.logger)
	return nil
}

// SetupLogger builds the process logger from config and installs it as the
// slog default.
func SetupLogger(cfg *config.Config) *applog.Logger {
	logger := applog.New(applog.Config{
		Level:     applog.ParseLevel(cfg.LogLevel),
		Format:    cfg.LogFormat,
		Component: applog.ComponentApp,
		Output:    os.Stdout,
	})
	applog.SetDefault(logger)
	return logger
}

// LoadEnvFile loads .env for local development. A missing file is fine.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// SignalContext is cancelled on SIGINT or SIGTERM.
func SignalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
}
