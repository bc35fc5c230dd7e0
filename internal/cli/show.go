package cli

import (
	"github.com/spf13/cobra"

	"goldrates/internal/app"
)

var showRegion string

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Display today's gold rates and the history range",
	RunE: func(cmd *cobra.Command, args []string) error {
		return getApp().Show(cmd.Context(), app.ShowOptions{Region: showRegion})
	},
}

var tickerCmd = &cobra.Command{
	Use:   "ticker",
	Short: "Display the aggregated market ticker",
	RunE: func(cmd *cobra.Command, args []string) error {
		return getApp().Ticker(cmd.Context())
	},
}

func init() {
	showCmd.Flags().StringVar(&showRegion, "region", "", "Region slug (defaults to config)")
}
