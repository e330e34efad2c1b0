package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/teemow/duesync/internal/config"
)

func newLoginCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authorize access to Google Classroom",
		Long: `Make sure a usable Google Classroom credential is cached. A valid cached
credential is kept, an expired one is refreshed, and otherwise the browser
consent flow runs. Use --force to always run the consent flow.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(envFile)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer cancel()

			provider, err := newInstrumentation(ctx)
			if err != nil {
				return err
			}
			defer shutdownInstrumentation(provider)

			manager := newManager(cfg, provider.Metrics())
			if force {
				_, err = manager.Login(ctx)
			} else {
				_, err = manager.Acquire(ctx)
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Google Classroom credential stored in %s\n", cfg.Google.TokenFile)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Run the consent flow even when a cached credential exists")
	return cmd
}
