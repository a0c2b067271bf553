// internal/commands/history.go
package palu

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mus-ta-fah/Projet-Detection-Paludisme/internal/display"
	"github.com/mus-ta-fah/Projet-Detection-Paludisme/internal/export"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse stored predictions",
	RunE: func(cmd *cobra.Command, args []string) error {
		skip, _ := cmd.Flags().GetInt("skip")
		limit, _ := cmd.Flags().GetInt("limit")

		page, err := Client().History(cmd.Context(), skip, limit)
		if err != nil {
			return err
		}
		fmt.Print(display.HistoryTable(page))
		return nil
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one stored prediction",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid prediction id %q", args[0])
		}

		p, err := Client().Prediction(cmd.Context(), id)
		if err != nil {
			return err
		}
		fmt.Println(display.PredictionCard(p.ImageFilename, p.Result()))
		if p.PatientName != "" || p.PatientID != "" {
			fmt.Printf("patient: %s %s\n", p.PatientID, p.PatientName)
		}
		if p.Notes != "" {
			fmt.Printf("notes: %s\n", p.Notes)
		}
		return nil
	},
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete one stored prediction",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid prediction id %q", args[0])
		}
		if err := Client().DeletePrediction(cmd.Context(), id); err != nil {
			return err
		}
		fmt.Printf("Prediction %d deleted.\n", id)
		return nil
	},
}

var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export stored predictions to CSV or Excel",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		limit, _ := cmd.Flags().GetInt("limit")

		page, err := Client().History(cmd.Context(), 0, limit)
		if err != nil {
			return err
		}
		records := export.RecordsFromPredictions(page.Predictions)

		var path string
		switch format {
		case "csv":
			path, err = export.WriteCSV(GetConfig().ExportDirPath(), "predictions", records)
		case "xls":
			path, err = export.WriteExcel(GetConfig().ExportDirPath(), "predictions", records)
		default:
			return fmt.Errorf("unknown export format %q (want csv or xls)", format)
		}
		if err != nil {
			return err
		}
		fmt.Printf("Exported %d predictions to %s\n", len(records), path)
		return nil
	},
}

var historyReportCmd = &cobra.Command{
	Use:   "report <id>",
	Short: "Write a PDF report for one stored prediction",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid prediction id %q", args[0])
		}

		p, err := Client().Prediction(cmd.Context(), id)
		if err != nil {
			return err
		}
		path, err := export.WriteReport(GetConfig().ExportDirPath(), export.ReportData{
			Prediction:             p.Prediction,
			IsParasitized:          p.IsParasitized,
			Confidence:             p.Confidence,
			ProbabilityParasitized: p.ProbabilityParasitized,
			ProbabilityUninfected:  p.ProbabilityUninfected,
			ModelName:              p.ModelName,
			InferenceTimeMS:        p.InferenceTimeMS,
			ImageFilename:          p.ImageFilename,
			PatientID:              p.PatientID,
			PatientName:            p.PatientName,
			PatientAge:             p.PatientAge,
		})
		if err != nil {
			return err
		}
		fmt.Printf("Report written to %s\n", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyDeleteCmd)
	historyCmd.AddCommand(historyExportCmd)
	historyCmd.AddCommand(historyReportCmd)

	historyCmd.Flags().Int("skip", 0, "number of predictions to skip")
	historyCmd.Flags().Int("limit", 20, "page size")

	historyExportCmd.Flags().String("format", "csv", "export format: csv or xls")
	historyExportCmd.Flags().Int("limit", 100, "maximum predictions to export")
}
