// internal/export/export.go
// Package export renders stored predictions into downloadable files: CSV,
// an HTML-table .xls, and a PDF report.
package export

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mus-ta-fah/Projet-Detection-Paludisme/internal/api"
	"github.com/mus-ta-fah/Projet-Detection-Paludisme/internal/util"
)

// ErrNoRecords is returned when an export is requested for an empty list;
// no file is produced in that case.
var ErrNoRecords = errors.New("export: no records to export")

// Record is one row of a tabular export.
type Record struct {
	ID            int
	ImageFilename string
	Prediction    string
	Confidence    float64
	ModelName     string
	CreatedAt     time.Time
	PatientID     string
	PatientName   string
}

// columns is the fixed header row shared by the CSV and Excel encoders.
var columns = []string{
	"ID",
	"Image",
	"Prediction",
	"Confidence (%)",
	"Model",
	"Date",
	"Patient ID",
	"Patient Name",
}

// RecordsFromPredictions converts stored predictions into export rows.
func RecordsFromPredictions(predictions []api.Prediction) []Record {
	records := make([]Record, len(predictions))
	for i, p := range predictions {
		records[i] = Record{
			ID:            p.ID,
			ImageFilename: p.ImageFilename,
			Prediction:    p.Prediction,
			Confidence:    p.Confidence,
			ModelName:     p.ModelName,
			CreatedAt:     p.CreatedAt,
			PatientID:     p.PatientID,
			PatientName:   p.PatientName,
		}
	}
	return records
}

func (r Record) cells() []string {
	return []string{
		fmt.Sprintf("%d", r.ID),
		r.ImageFilename,
		r.Prediction,
		fmt.Sprintf("%.2f", r.Confidence),
		r.ModelName,
		r.CreatedAt.Format("2006-01-02 15:04:05"),
		orNA(r.PatientID),
		orNA(r.PatientName),
	}
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

// stampedName appends a millisecond timestamp so repeated exports never
// collide.
func stampedName(name, ext string) string {
	return fmt.Sprintf("%s_%d%s", name, time.Now().UnixMilli(), ext)
}

func writeExport(dir, filename string, data []byte) (string, error) {
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("export: creating %s: %w", dir, err)
		}
	}
	path := filepath.Join(dir, filename)
	if err := util.WriteFile(path, data); err != nil {
		return "", fmt.Errorf("export: writing %s: %w", path, err)
	}
	return path, nil
}
