package cli

import (
	"github.com/spf13/cobra"

	"goldrates/internal/app"
)

var watchRegions []string

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Poll today's rates and alert on large day-over-day moves",
	RunE: func(cmd *cobra.Command, args []string) error {
		return getApp().Watch(cmd.Context(), app.WatchOptions{Regions: watchRegions})
	},
}

func init() {
	watchCmd.Flags().StringSliceVar(&watchRegions, "region", nil, "Regions to watch (repeatable; defaults to config)")
}
