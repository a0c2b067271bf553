// internal/api/types.go
package api

import (
	"fmt"
	"math"
	"time"
)

// Prediction labels returned by the analysis backend.
const (
	LabelParasitized = "Parasitée"
	LabelUninfected  = "Non infectée"
)

// PredictionResult is the outcome of running one model over one image.
// Confidence and the two class probabilities are percentages in [0,100].
type PredictionResult struct {
	ModelID                string  `json:"model_id"`
	ModelName              string  `json:"model_name"`
	Prediction             string  `json:"prediction"`
	IsParasitized          bool    `json:"is_parasitized"`
	Confidence             float64 `json:"confidence"`
	ProbabilityParasitized float64 `json:"probability_parasitized"`
	ProbabilityUninfected  float64 `json:"probability_uninfected"`
	InferenceTimeMS        float64 `json:"inference_time_ms,omitempty"`
	Accuracy               float64 `json:"accuracy,omitempty"`
}

// Valid checks the arithmetic invariants of a result: the two class
// probabilities sum to 100 (within rounding) and the confidence equals the
// probability of the predicted class.
func (r PredictionResult) Valid() error {
	const tolerance = 0.01

	sum := r.ProbabilityParasitized + r.ProbabilityUninfected
	if math.Abs(sum-100) > tolerance {
		return fmt.Errorf("class probabilities sum to %.4f, want 100", sum)
	}

	want := r.ProbabilityUninfected
	if r.IsParasitized {
		want = r.ProbabilityParasitized
	}
	if math.Abs(r.Confidence-want) > tolerance {
		return fmt.Errorf("confidence %.4f does not match predicted-class probability %.4f", r.Confidence, want)
	}
	return nil
}

// Prediction is a stored prediction record as returned by the history and
// detail endpoints.
type Prediction struct {
	ID                     int       `json:"id"`
	UserID                 int       `json:"user_id"`
	ImageFilename          string    `json:"image_filename"`
	ModelID                string    `json:"model_id"`
	ModelName              string    `json:"model_name"`
	Prediction             string    `json:"prediction"`
	IsParasitized          bool      `json:"is_parasitized"`
	Confidence             float64   `json:"confidence"`
	ProbabilityParasitized float64   `json:"probability_parasitized"`
	ProbabilityUninfected  float64   `json:"probability_uninfected"`
	InferenceTimeMS        float64   `json:"inference_time_ms,omitempty"`
	PatientID              string    `json:"patient_id,omitempty"`
	PatientName            string    `json:"patient_name,omitempty"`
	PatientAge             int       `json:"patient_age,omitempty"`
	Notes                  string    `json:"notes,omitempty"`
	IsVerified             bool      `json:"is_verified"`
	VerifiedResult         string    `json:"verified_result,omitempty"`
	CreatedAt              time.Time `json:"created_at"`
}

// Result projects the stored record back into a PredictionResult for
// rendering and reporting.
func (p Prediction) Result() PredictionResult {
	return PredictionResult{
		ModelID:                p.ModelID,
		ModelName:              p.ModelName,
		Prediction:             p.Prediction,
		IsParasitized:          p.IsParasitized,
		Confidence:             p.Confidence,
		ProbabilityParasitized: p.ProbabilityParasitized,
		ProbabilityUninfected:  p.ProbabilityUninfected,
		InferenceTimeMS:        p.InferenceTimeMS,
	}
}

// PredictionResponse wraps a single-image prediction call.
type PredictionResponse struct {
	Success         bool             `json:"success"`
	PredictionID    int              `json:"prediction_id"`
	Result          PredictionResult `json:"result"`
	ImageFilename   string           `json:"image_filename"`
	InferenceTimeMS float64          `json:"inference_time_ms"`
	CreatedAt       time.Time        `json:"created_at"`
}

// BatchItemResult is the outcome for one image of a batch submission. The
// backend returns one entry per submitted file, in submission order, so
// callers can correlate results positionally even when some items fail.
type BatchItemResult struct {
	Filename     string            `json:"filename"`
	Success      bool              `json:"success"`
	PredictionID int               `json:"prediction_id,omitempty"`
	Result       *PredictionResult `json:"result,omitempty"`
	Error        string            `json:"error,omitempty"`
}

// BatchResponse wraps a batch prediction call.
type BatchResponse struct {
	Total       int               `json:"total"`
	Successful  int               `json:"successful"`
	Failed      int               `json:"failed"`
	Results     []BatchItemResult `json:"results"`
	TotalTimeMS float64           `json:"total_time_ms,omitempty"`
}

// Consensus summarizes agreement across models in a comparison.
type Consensus struct {
	MajorityVote        string  `json:"majority_vote"`
	AgreementPercentage float64 `json:"agreement_percentage"`
	Unanimous           bool    `json:"unanimous"`
}

// Disagreement records one pair of models that predicted different labels,
// with the absolute confidence gap between them.
type Disagreement struct {
	Model1     string  `json:"model_1"`
	Model2     string  `json:"model_2"`
	Difference float64 `json:"difference"`
}

// ModelComparison is the backend's multi-model comparison payload.
type ModelComparison struct {
	ImageAnalyzed  bool               `json:"image_analyzed"`
	ModelsCompared int                `json:"models_compared"`
	Predictions    []PredictionResult `json:"predictions"`
	Ensemble       PredictionResult   `json:"ensemble"`
	Consensus      Consensus          `json:"consensus"`
	Disagreements  []Disagreement     `json:"disagreements"`
}

// HistoryPage is one page of stored predictions.
type HistoryPage struct {
	Total       int          `json:"total"`
	Predictions []Prediction `json:"predictions"`
}

// Statistics is the aggregate overview for the signed-in user.
type Statistics struct {
	TotalPredictions       int     `json:"total_predictions"`
	TodayPredictions       int     `json:"today_predictions"`
	ParasitizedCount       int     `json:"parasitized_count"`
	UninfectedCount        int     `json:"uninfected_count"`
	ParasitizedPercentage  float64 `json:"parasitized_percentage"`
	AverageConfidence      float64 `json:"average_confidence"`
	AverageInferenceTimeMS float64 `json:"average_inference_time_ms"`
}

// TrendData is one day of prediction volume.
type TrendData struct {
	Date        string `json:"date"`
	Total       int    `json:"total"`
	Parasitized int    `json:"parasitized"`
	Uninfected  int    `json:"uninfected"`
}

// ModelUsage reports how often one model was used.
type ModelUsage struct {
	ModelID    string  `json:"model_id"`
	ModelName  string  `json:"model_name"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// ModelInfo describes one inference model hosted by the backend.
type ModelInfo struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Accuracy        float64 `json:"accuracy"`
	InferenceTimeMS float64 `json:"inference_time_ms"`
	Parameters      string  `json:"parameters"`
	UseCase         string  `json:"use_case"`
	IsDefault       bool    `json:"is_default"`
	Loaded          bool    `json:"loaded"`
}

// ModelList is the catalog of available models.
type ModelList struct {
	Models       []ModelInfo `json:"models"`
	DefaultModel string      `json:"default_model,omitempty"`
}

// BenchmarkEntry is one model's standing in a backend benchmark run.
type BenchmarkEntry struct {
	ModelID         string  `json:"model_id"`
	Name            string  `json:"name"`
	Accuracy        float64 `json:"accuracy"`
	InferenceTimeMS float64 `json:"inference_time_ms"`
	Parameters      string  `json:"parameters"`
}

// BenchmarkResponse wraps a benchmark run across all models.
type BenchmarkResponse struct {
	Results   []BenchmarkEntry `json:"results"`
	BestModel string           `json:"best_model,omitempty"`
}
