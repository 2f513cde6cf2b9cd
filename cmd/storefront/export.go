package main

import (
	"fmt"
	"os"

	"candlebliss_storefront/config"
	"candlebliss_storefront/internal/clients"
	"candlebliss_storefront/internal/usecase"
	"candlebliss_storefront/pkg/listing"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type exportOptions struct {
	token  string
	out    string
	search string
	sortBy string
}

func newExportCustomersCmd(logger *logrus.Logger) *cobra.Command {
	opts := exportOptions{}
	cmd := &cobra.Command{
		Use:   "customers",
		Short: "Write the customer list to an Excel workbook",
		Long: `Fetches every customer from the shop API and writes them to an .xlsx file,
the same workbook the admin page offers for download.

Example:
  storefront export customers --token $TOKEN --out customers.xlsx --q gmail`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(logger)
			if err != nil {
				return err
			}
			return exportCustomers(cmd, cfg, opts, logger)
		},
	}
	cmd.Flags().StringVar(&opts.token, "token", os.Getenv("CANDLEBLISS_TOKEN"), "bearer token of a seller account (default $CANDLEBLISS_TOKEN)")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "customers.xlsx", "output file")
	cmd.Flags().StringVar(&opts.search, "q", "", "only export customers matching this name, email or phone")
	cmd.Flags().StringVar(&opts.sortBy, "sort", "id", "sort key: id, name, email or createdAt")
	return cmd
}

func exportCustomers(cmd *cobra.Command, cfg *config.Config, opts exportOptions, logger *logrus.Logger) error {
	if opts.token == "" {
		return fmt.Errorf("a seller token is required: pass --token or set CANDLEBLISS_TOKEN")
	}

	timeout := cfg.APITimeoutDuration()
	uc := usecase.NewCustomerUseCase(
		clients.NewUserHTTPClient(cfg.APIBaseURL, timeout, logger),
		clients.NewOrderHTTPClient(cfg.APIBaseURL, timeout, logger),
		logger,
	)

	f, err := os.Create(opts.out)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", opts.out, err)
	}

	ctx := clients.WithToken(cmd.Context(), opts.token)
	n, err := uc.Export(ctx, listing.Query{Search: opts.search, SortBy: opts.sortBy}, f)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(opts.out)
		return fmt.Errorf("export failed: %s", clients.UserMessage(err))
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Exported %d customers to %s\n", n, opts.out)
	return nil
}
