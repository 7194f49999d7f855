package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"casa-nova-rsvp/internal/export"
)

// NewGuestsCommand groups the offline admin commands.
func NewGuestsCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "guests",
		Short: "Inspect and export confirmations",
	}
	cmd.AddCommand(newGuestsListCommand(opts))
	cmd.AddCommand(newGuestsExportCommand(opts))
	return cmd
}

func newGuestsListCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print all confirmations, most recent first",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, service, store, err := opts.openService(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			confirmations, err := service.List(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(confirmations) == 0 {
				fmt.Fprintln(out, "No confirmations yet.")
				return nil
			}

			loc := cfg.Location()
			fmt.Fprintf(out, "📋 Confirmations (%d total):\n", len(confirmations))
			fmt.Fprintln(out, strings.Repeat("-", 60))
			for _, c := range confirmations {
				v := c.View(loc)
				fmt.Fprintf(out, "ID: %d\n", v.ID)
				fmt.Fprintf(out, "Name: %s\n", v.Name)
				fmt.Fprintf(out, "Confirmed: %s\n", v.ConfirmedAt)
				fmt.Fprintf(out, "Status: %s\n", v.Status)
				fmt.Fprintln(out, strings.Repeat("-", 60))
			}
			return nil
		},
	}
}

func newGuestsExportCommand(opts *RootOptions) *cobra.Command {
	var (
		output   string
		toS3     bool
		toStdout bool
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write confirmations as CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, service, store, err := opts.openService(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			confirmations, err := service.List(ctx)
			if err != nil {
				return err
			}

			loc := cfg.Location()
			var buf bytes.Buffer
			if err := export.WriteCSV(&buf, confirmations, loc); err != nil {
				return err
			}

			name := export.Filename(time.Now().In(loc))
			switch {
			case output != "":
				if err := os.WriteFile(output, buf.Bytes(), 0o644); err != nil {
					return fmt.Errorf("failed to write %s: %w", output, err)
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "✅ %d confirmations written to %s\n", len(confirmations), output)
			case toStdout || !toS3:
				if _, err := io.Copy(cmd.OutOrStdout(), &buf); err != nil {
					return err
				}
			}

			if toS3 {
				uploader, err := export.NewS3Uploader(ctx, export.S3Config{
					Bucket:   cfg.Export.S3.Bucket,
					Prefix:   cfg.Export.S3.Prefix,
					Region:   cfg.Export.S3.Region,
					Endpoint: cfg.Export.S3.Endpoint,
				})
				if err != nil {
					return err
				}
				key, err := uploader.Upload(ctx, name, buf.Bytes())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "✅ Uploaded s3://%s/%s\n", cfg.Export.S3.Bucket, key)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write the CSV to this file")
	cmd.Flags().BoolVar(&toS3, "s3", false, "upload the CSV to the configured S3 bucket")
	cmd.Flags().BoolVar(&toStdout, "stdout", false, "also print the CSV when uploading")
	return cmd
}
