// internal/commands/models.go
package palu

import (
	"fmt"

	"github.com/k0kubun/pp"
	"github.com/spf13/cobra"

	"github.com/mus-ta-fah/Projet-Detection-Paludisme/internal/display"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "Inspect and manage the backend's inference models",
	RunE: func(cmd *cobra.Command, args []string) error {
		return modelsListCmd.RunE(cmd, args)
	},
}

var modelsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the available models",
	RunE: func(cmd *cobra.Command, args []string) error {
		list, err := Client().Models(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Print(display.ModelsTable(list))
		return nil
	},
}

var modelsInfoCmd = &cobra.Command{
	Use:   "info <id>",
	Short: "Show detail for one model",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		info, err := Client().Model(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if DebugEnabled() {
			pp.Println(info)
			return nil
		}
		fmt.Printf("%s (%s)\n", info.Name, info.ID)
		fmt.Printf("  accuracy:   %.2f%%\n", info.Accuracy*100)
		fmt.Printf("  latency:    %.0fms\n", info.InferenceTimeMS)
		fmt.Printf("  parameters: %s\n", info.Parameters)
		fmt.Printf("  use case:   %s\n", info.UseCase)
		if info.IsDefault {
			fmt.Println("  default:    yes")
		}
		return nil
	},
}

var modelsBenchmarkCmd = &cobra.Command{
	Use:   "benchmark",
	Short: "Benchmark every loaded model on the backend",
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := Client().Benchmark(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("%-16s %-20s %-10s %s\n", "ID", "Name", "Accuracy", "Latency")
		for _, entry := range resp.Results {
			fmt.Printf("%-16s %-20s %8.2f%% %8.0fms\n",
				entry.ModelID, entry.Name, entry.Accuracy*100, entry.InferenceTimeMS)
		}
		if resp.BestModel != "" {
			fmt.Printf("\nBest model: %s\n", resp.BestModel)
		}
		return nil
	},
}

var modelsSetDefaultCmd = &cobra.Command{
	Use:   "set-default <id>",
	Short: "Select the model used when none is specified",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := Client().SetDefaultModel(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Printf("Default model set to %s\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(modelsCmd)
	modelsCmd.AddCommand(modelsListCmd)
	modelsCmd.AddCommand(modelsInfoCmd)
	modelsCmd.AddCommand(modelsBenchmarkCmd)
	modelsCmd.AddCommand(modelsSetDefaultCmd)
}
