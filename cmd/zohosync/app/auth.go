package app

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/itsyosefali/zoho-integration/internal/bootstrap"
)

func newAuthCmd() *cobra.Command {
	auth := &cobra.Command{
		Use:   "auth",
		Short: "Manage the Zoho Books OAuth connection",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Usage()
		},
	}

	auth.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show whether the connector is configured and connected",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWithApp(cmd, func(ctx context.Context, app *bootstrap.App) error {
				status, err := app.Connection.Status(ctx)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), status)
			})
		},
	})

	auth.AddCommand(&cobra.Command{
		Use:   "url",
		Short: "Print the Zoho consent URL that starts the authorization flow",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWithApp(cmd, func(ctx context.Context, app *bootstrap.App) error {
				url, err := app.Connection.AuthorizationURL(ctx)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), url)
				return err
			})
		},
	})

	auth.AddCommand(&cobra.Command{
		Use:   "exchange <code>",
		Short: "Exchange an authorization code for tokens",
		Long: `Exchange the code Zoho appended to the redirect URI for an access and
refresh token. Use this when the redirect URI does not reach the server.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithApp(cmd, func(ctx context.Context, app *bootstrap.App) error {
				result, err := app.Connection.HandleCallback(ctx, args[0], "")
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), result)
			})
		},
	})

	auth.AddCommand(&cobra.Command{
		Use:   "refresh",
		Short: "Force an access token refresh",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWithApp(cmd, func(ctx context.Context, app *bootstrap.App) error {
				result, err := app.Connection.RefreshAccessToken(ctx)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), result.Message)
				return err
			})
		},
	})

	auth.AddCommand(&cobra.Command{
		Use:   "test",
		Short: "List reachable organizations and adopt the first one when none is set",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWithApp(cmd, func(ctx context.Context, app *bootstrap.App) error {
				result, err := app.Connection.TestConnection(ctx)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), result)
			})
		},
	})

	auth.AddCommand(&cobra.Command{
		Use:   "disconnect",
		Short: "Revoke the refresh token and forget both tokens",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWithApp(cmd, func(ctx context.Context, app *bootstrap.App) error {
				if err := app.Connection.Disconnect(ctx); err != nil {
					return err
				}
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "Disconnected from Zoho Books")
				return err
			})
		},
	})

	return auth
}
