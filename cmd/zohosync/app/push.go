package app

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/itsyosefali/zoho-integration/internal/bootstrap"
	"github.com/itsyosefali/zoho-integration/internal/domain/integration"
)

func newPushCmd() *cobra.Command {
	push := &cobra.Command{
		Use:   "push",
		Short: "Push local records to Zoho Books",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Usage()
		},
	}

	push.AddCommand(&cobra.Command{
		Use:   "invoice <id>",
		Short: "Create a submitted sales invoice in Zoho Books",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid sales invoice id %q: %w", args[0], err)
			}
			return runWithApp(cmd, func(ctx context.Context, app *bootstrap.App) error {
				result, err := app.Invoices.PushByID(ctx, id)
				return report(cmd, result, err)
			})
		},
	})

	push.AddCommand(&cobra.Command{
		Use:   "customer <name>",
		Short: "Create or update a customer as a Zoho contact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithApp(cmd, func(ctx context.Context, app *bootstrap.App) error {
				customer, err := app.CustomerRepo.FindByName(ctx, args[0])
				if err != nil {
					return err
				}
				if customer == nil {
					return fmt.Errorf("customer %q not found", args[0])
				}
				result, err := app.Records.PushCustomer(ctx, customer)
				return report(cmd, result, err)
			})
		},
	})

	push.AddCommand(&cobra.Command{
		Use:   "item <code>",
		Short: "Create or update an item in Zoho Books",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithApp(cmd, func(ctx context.Context, app *bootstrap.App) error {
				item, err := app.ItemRepo.FindByCode(ctx, args[0])
				if err != nil {
					return err
				}
				if item == nil {
					return fmt.Errorf("item %q not found", args[0])
				}
				result, err := app.Records.PushItem(ctx, item)
				return report(cmd, result, err)
			})
		},
	})

	return push
}

// report prints the push result, which is present for failed pushes too.
func report(cmd *cobra.Command, result *integration.PushResult, err error) error {
	if result != nil {
		if printErr := printJSON(cmd.OutOrStdout(), result); printErr != nil {
			return printErr
		}
	}
	return err
}
