// internal/commands/predict.go
package palu

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mus-ta-fah/Projet-Detection-Paludisme/internal/api"
	"github.com/mus-ta-fah/Projet-Detection-Paludisme/internal/display"
	"github.com/mus-ta-fah/Projet-Detection-Paludisme/internal/export"
	"github.com/mus-ta-fah/Projet-Detection-Paludisme/internal/heatmap"
)

var predictCmd = &cobra.Command{
	Use:   "predict <image>",
	Short: "Analyze one blood-cell image",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := readImage(args[0])
		if err != nil {
			return err
		}

		model, _ := cmd.Flags().GetString("model")
		patientID, _ := cmd.Flags().GetString("patient-id")
		patientName, _ := cmd.Flags().GetString("patient-name")
		patientAge, _ := cmd.Flags().GetInt("patient-age")
		notes, _ := cmd.Flags().GetString("notes")

		resp, err := Client().Predict(cmd.Context(), api.PredictOptions{
			File:        api.FilePart{Filename: filepath.Base(args[0]), Data: data},
			ModelID:     modelOrDefault(model),
			PatientID:   patientID,
			PatientName: patientName,
			PatientAge:  patientAge,
			Notes:       notes,
		})
		if err != nil {
			return err
		}

		fmt.Println(display.PredictionCard(resp.ImageFilename, resp.Result))

		if report, _ := cmd.Flags().GetBool("report"); report {
			path, err := export.WriteReport(GetConfig().ExportDirPath(), export.ReportData{
				Prediction:             resp.Result.Prediction,
				IsParasitized:          resp.Result.IsParasitized,
				Confidence:             resp.Result.Confidence,
				ProbabilityParasitized: resp.Result.ProbabilityParasitized,
				ProbabilityUninfected:  resp.Result.ProbabilityUninfected,
				ModelName:              resp.Result.ModelName,
				InferenceTimeMS:        resp.Result.InferenceTimeMS,
				ImageFilename:          resp.ImageFilename,
				PatientID:              patientID,
				PatientName:            patientName,
				PatientAge:             patientAge,
				ImagePNG:               data,
			})
			if err != nil {
				return err
			}
			fmt.Printf("Report written to %s\n", path)
		}

		if withHeatmap, _ := cmd.Flags().GetBool("heatmap"); withHeatmap {
			opacity, _ := cmd.Flags().GetInt("opacity")
			path, err := writeHeatmap(args[0], data, opacity)
			if err != nil {
				return err
			}
			fmt.Printf("Heatmap written to %s\n", path)
		}
		return nil
	},
}

// writeHeatmap renders the pseudo-attention overlay for an uploaded image and
// stores it next to the other exports.
func writeHeatmap(srcPath string, data []byte, opacity int) (string, error) {
	img, err := heatmap.Decode(data)
	if err != nil {
		return "", err
	}
	blended, err := heatmap.Apply(img, opacity)
	if err != nil {
		return "", err
	}
	base := filepath.Base(srcPath)
	ext := filepath.Ext(base)
	out := filepath.Join(GetConfig().ExportDirPath(), base[:len(base)-len(ext)]+"_heatmap.png")
	if err := heatmap.WritePNG(out, blended); err != nil {
		return "", err
	}
	return out, nil
}

func init() {
	rootCmd.AddCommand(predictCmd)

	predictCmd.Flags().StringP("model", "m", "", "model id to use (defaults to the configured model)")
	predictCmd.Flags().String("patient-id", "", "patient identifier recorded with the prediction")
	predictCmd.Flags().String("patient-name", "", "patient name recorded with the prediction")
	predictCmd.Flags().Int("patient-age", 0, "patient age recorded with the prediction")
	predictCmd.Flags().String("notes", "", "free-form notes recorded with the prediction")
	predictCmd.Flags().Bool("report", false, "write a PDF report for the result")
	predictCmd.Flags().Bool("heatmap", false, "write a pseudo-attention heatmap PNG")
	predictCmd.Flags().Int("opacity", heatmap.DefaultOpacity, "heatmap blend opacity (0-100)")
}
