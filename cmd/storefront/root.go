package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newRootCmd(logger *logrus.Logger) *cobra.Command {
	root := &cobra.Command{
		Use:   "storefront",
		Short: "CandleBliss storefront and seller admin",
		Long: `Serves the CandleBliss shop pages and the seller admin on top of the
shop REST API configured by API_BASE_URL.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Export seller data from the command line",
	}
	exportCmd.AddCommand(newExportCustomersCmd(logger))

	root.AddCommand(newServeCmd(logger), exportCmd)
	return root
}
