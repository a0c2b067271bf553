// internal/commands/heatmap.go
package palu

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mus-ta-fah/Projet-Detection-Paludisme/internal/heatmap"
)

var heatmapCmd = &cobra.Command{
	Use:   "heatmap <image>",
	Short: "Render a pseudo-attention heatmap for an image without predicting",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := readImage(args[0])
		if err != nil {
			return err
		}
		opacity, _ := cmd.Flags().GetInt("opacity")

		path, err := writeHeatmap(args[0], data, opacity)
		if err != nil {
			return err
		}
		fmt.Printf("Heatmap written to %s\n", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(heatmapCmd)

	heatmapCmd.Flags().Int("opacity", heatmap.DefaultOpacity, "heatmap blend opacity (0-100)")
}
