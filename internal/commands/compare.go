// internal/commands/compare.go
package palu

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mus-ta-fah/Projet-Detection-Paludisme/internal/api"
	"github.com/mus-ta-fah/Projet-Detection-Paludisme/internal/comparison"
	"github.com/mus-ta-fah/Projet-Detection-Paludisme/internal/display"
)

var compareCmd = &cobra.Command{
	Use:   "compare <image>",
	Short: "Run one image through every model and show the consensus",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := readImage(args[0])
		if err != nil {
			return err
		}

		engine := comparison.NewEngine(Client())
		result, err := engine.Compare(cmd.Context(), api.FilePart{
			Filename: filepath.Base(args[0]),
			Data:     data,
		})
		if err != nil {
			return err
		}

		fmt.Println(display.ComparisonView(result))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(compareCmd)
}
