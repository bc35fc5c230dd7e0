package cli

import (
	"errors"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var (
	simulateToday     float64
	simulateYesterday float64
)

var simulateCmd = &cobra.Command{
	Use:   "simulate-alert",
	Short: "Push a synthetic 22K move through the alert channel",
	RunE: func(cmd *cobra.Command, args []string) error {
		if simulateToday <= 0 || simulateYesterday <= 0 {
			return errors.New("--today and --yesterday must be greater than 0")
		}

		today := decimal.NewFromFloat(simulateToday)
		yesterday := decimal.NewFromFloat(simulateYesterday)
		return getApp().SimulateAlert(cmd.Context(), today, yesterday)
	},
}

func init() {
	simulateCmd.Flags().Float64Var(&simulateToday, "today", 0, "Today's 22K price per gram")
	simulateCmd.Flags().Float64Var(&simulateYesterday, "yesterday", 0, "Yesterday's 22K price per gram")
}
