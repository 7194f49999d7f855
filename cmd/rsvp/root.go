package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"casa-nova-rsvp/internal/app"
	"casa-nova-rsvp/internal/config"
	"casa-nova-rsvp/internal/rsvp"
	"casa-nova-rsvp/internal/storage"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
}

// NewRootCommand creates the root command for the rsvp CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:          "rsvp",
		Short:        "Chá de Casa Nova RSVP",
		Long:         "Guest attendance confirmations with an admin listing, CSV export and organizer notifications.",
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "config file (default $CONFIG_PATH or ./config/base.yaml)")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewGuestsCommand(opts))
	cmd.AddCommand(NewWhatsAppCommand(opts))

	return cmd
}

func (o *RootOptions) loadConfig() (*config.Config, error) {
	if o.ConfigPath != "" {
		return config.LoadFile(o.ConfigPath)
	}
	return config.Load()
}

// setup loads configuration and builds the root logger.
func (o *RootOptions) setup() (*config.Config, zerolog.Logger, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, zerolog.Nop(), fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, app.NewLogger(cfg.Logging, os.Stderr), nil
}

// openService opens storage for the offline commands. No notifiers are
// attached since these commands never create confirmations.
func (o *RootOptions) openService(ctx context.Context) (*config.Config, *rsvp.Service, storage.Store, error) {
	cfg, log, err := o.setup()
	if err != nil {
		return nil, nil, nil, err
	}

	store, err := app.OpenStore(ctx, cfg.Database.URL)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to open storage: %w", err)
	}
	return cfg, rsvp.NewService(store, nil, nil, log), store, nil
}
