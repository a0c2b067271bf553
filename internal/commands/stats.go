// internal/commands/stats.go
package palu

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mus-ta-fah/Projet-Detection-Paludisme/internal/display"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show prediction statistics, trends, and model usage",
	RunE: func(cmd *cobra.Command, args []string) error {
		days, _ := cmd.Flags().GetInt("days")

		stats, err := Client().Overview(cmd.Context())
		if err != nil {
			return err
		}
		trends, err := Client().Trends(cmd.Context(), days)
		if err != nil {
			return err
		}
		usage, err := Client().ModelsUsage(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Print(display.StatsView(stats, trends, usage))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)

	statsCmd.Flags().Int("days", 7, "number of days covered by the trend table")
}
