// internal/commands/ab.go
package palu

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mus-ta-fah/Projet-Detection-Paludisme/internal/ab"
	"github.com/mus-ta-fah/Projet-Detection-Paludisme/internal/display"
)

var abCmd = &cobra.Command{
	Use:   "ab <imageA> <imageB>",
	Short: "Analyze two images side by side and grade their divergence",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		comparator := ab.New(Client())
		for i, side := range []ab.Side{ab.SideA, ab.SideB} {
			data, err := readImage(args[i])
			if err != nil {
				return err
			}
			comparator.Load(side, filepath.Base(args[i]), data)
		}

		if err := comparator.AnalyzeBoth(cmd.Context()); err != nil {
			return err
		}

		div, ok := comparator.Divergence()
		if !ok {
			return fmt.Errorf("ab: missing a result for one of the slots")
		}
		fmt.Println(display.DivergenceView(comparator.Slot(ab.SideA), comparator.Slot(ab.SideB), div))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(abCmd)
}
