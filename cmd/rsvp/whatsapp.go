package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"casa-nova-rsvp/internal/whatsapp"
)

// NewWhatsAppCommand groups WhatsApp device management.
func NewWhatsAppCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "whatsapp",
		Short: "Manage the organizer WhatsApp device",
	}
	cmd.AddCommand(newWhatsAppLinkCommand(opts))
	return cmd
}

func newWhatsAppLinkCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "link",
		Short: "Pair a WhatsApp device by scanning a QR code",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := opts.setup()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			svc, err := whatsapp.NewService(ctx, &whatsapp.Config{
				DataDir:     cfg.WhatsApp.DataDir,
				CountryCode: cfg.WhatsApp.CountryCode,
			}, log)
			if err != nil {
				return fmt.Errorf("failed to initialize WhatsApp service: %w", err)
			}
			defer svc.Disconnect()

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "🎉 Chá de Casa Nova RSVP - WhatsApp link")
			if err := svc.Link(ctx, out); err != nil {
				return err
			}
			fmt.Fprintln(out, "\n✅ Connected to WhatsApp!")
			return nil
		},
	}
}
