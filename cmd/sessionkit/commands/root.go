package commands

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"sessionkit/internal/app"
	"sessionkit/internal/config"
	"sessionkit/internal/logging"
	"sessionkit/internal/store"
)

const shutdownTimeout = 30 * time.Second

var (
	home       string
	configPath string
	logLevel   string
	passphrase string

	settings config.Config
	logger   zerolog.Logger
	appCtx   *app.Wire
)

// Execute builds the command tree and runs it.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "sessionkit",
		Short:         "Key agreement, signing and per-device job queue toolkit",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if home != "" {
				cfg.Home = home
			}
			if logLevel != "" {
				cfg.Log.Level = logLevel
			}
			if err := cfg.ResolveHome(); err != nil {
				return err
			}
			settings = cfg
			logger = logging.New(cfg.Log, cmd.ErrOrStderr())

			appCtx, err = app.NewWire(app.Config{
				Home:            cfg.Home,
				KDF:             store.KDF(cfg.Keystore.KDF),
				CompactionLimit: cfg.Queue.CompactionLimit,
				Logger:          logger,
			})
			return err
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return appCtx.Shutdown(ctx)
		},
	}

	root.PersistentFlags().StringVar(&home, "home", "", "key dir (default ~/.sessionkit)")
	root.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "trace, debug, info, warn or error")
	root.PersistentFlags().StringVarP(&passphrase, "passphrase", "p", "", "passphrase to protect keys")

	root.AddCommand(
		keygenCmd(),
		fingerprintCmd(),
		pubkeyCmd(),
		agreeCmd(),
		signCmd(),
		verifyCmd(),
		addressCmd(),
		sessionCmd(),
		benchCmd(),
	)
	return root
}

func requirePassphrase() error {
	if passphrase == "" {
		return errPassphraseRequired
	}
	return nil
}
