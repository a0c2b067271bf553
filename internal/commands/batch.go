// internal/commands/batch.go
package palu

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mus-ta-fah/Projet-Detection-Paludisme/internal/batch"
	"github.com/mus-ta-fah/Projet-Detection-Paludisme/internal/display"
	"github.com/mus-ta-fah/Projet-Detection-Paludisme/internal/tui"
)

var batchCmd = &cobra.Command{
	Use:   "batch <image>...",
	Short: "Analyze up to ten images in a single backend call",
	Args:  cobra.RangeArgs(1, batch.MaxItems),
	RunE: func(cmd *cobra.Command, args []string) error {
		orchestrator := batch.New(Client())
		for _, path := range args {
			data, err := readImage(path)
			if err != nil {
				return err
			}
			if _, err := orchestrator.Add(filepath.Base(path), data); err != nil {
				return err
			}
		}

		model, _ := cmd.Flags().GetString("model")
		modelID := modelOrDefault(model)

		if plain, _ := cmd.Flags().GetBool("plain"); plain {
			if _, err := orchestrator.Submit(cmd.Context(), modelID); err != nil {
				return err
			}
			fmt.Print(display.BatchSummary(orchestrator.Items()))
		} else if err := tui.RunBatch(cmd.Context(), orchestrator, modelID); err != nil {
			return err
		}

		_, succeeded, failed := orchestrator.Counts()
		fmt.Printf("\n%d analysées, %d en échec\n", succeeded, failed)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().StringP("model", "m", "", "model id to use for the whole batch")
	batchCmd.Flags().Bool("plain", false, "print results without the interactive progress view")
}
