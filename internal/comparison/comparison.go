// internal/comparison/comparison.go
// Package comparison runs one image through every backend model and derives
// the consensus locally. The backend ships its own consensus block, but the
// summary shown to the user is always recomputed here from the per-model
// results so display never depends on backend aggregation details.
package comparison

import (
	"context"
	"errors"
	"math"

	"github.com/mus-ta-fah/Projet-Detection-Paludisme/internal/api"
)

// ErrNoResults is returned when a comparison yields no per-model results.
var ErrNoResults = errors.New("comparison: no model results to summarize")

// Result is a comparison with locally derived consensus and disagreements.
type Result struct {
	ImageFilename string
	Predictions   []api.PredictionResult
	Ensemble      api.PredictionResult
	Consensus     api.Consensus
	Disagreements []api.Disagreement
}

// Engine coordinates comparison calls against one backend client.
type Engine struct {
	client *api.Client
}

// NewEngine builds an engine on top of an authenticated client.
func NewEngine(client *api.Client) *Engine {
	return &Engine{client: client}
}

// Compare submits the image and rebuilds the consensus summary from the
// per-model results.
func (e *Engine) Compare(ctx context.Context, file api.FilePart) (*Result, error) {
	resp, err := e.client.CompareModels(ctx, file)
	if err != nil {
		return nil, err
	}
	consensus, err := Summarize(resp.Predictions)
	if err != nil {
		return nil, err
	}
	return &Result{
		ImageFilename: file.Filename,
		Predictions:   resp.Predictions,
		Ensemble:      resp.Ensemble,
		Consensus:     consensus,
		Disagreements: Disagreements(resp.Predictions),
	}, nil
}

// Summarize derives the consensus block from per-model results. The majority
// label wins; on a tie the label that appeared first in result order wins.
// The run is unanimous exactly when agreement is 100%.
func Summarize(results []api.PredictionResult) (api.Consensus, error) {
	if len(results) == 0 {
		return api.Consensus{}, ErrNoResults
	}

	votes := make(map[string]int, 2)
	order := make([]string, 0, 2)
	for _, r := range results {
		if _, seen := votes[r.Prediction]; !seen {
			order = append(order, r.Prediction)
		}
		votes[r.Prediction]++
	}

	majority := order[0]
	for _, label := range order[1:] {
		if votes[label] > votes[majority] {
			majority = label
		}
	}

	agreement := float64(votes[majority]) / float64(len(results)) * 100
	return api.Consensus{
		MajorityVote:        majority,
		AgreementPercentage: agreement,
		Unanimous:           votes[majority] == len(results),
	}, nil
}

// Disagreements emits one record per unordered pair of models whose labels
// differ, carrying the absolute confidence gap. Same-label pairs never
// produce a record, whatever their confidence spread.
func Disagreements(results []api.PredictionResult) []api.Disagreement {
	var out []api.Disagreement
	for i := 0; i < len(results); i++ {
		for j := i + 1; j < len(results); j++ {
			if results[i].Prediction == results[j].Prediction {
				continue
			}
			out = append(out, api.Disagreement{
				Model1:     results[i].ModelName,
				Model2:     results[j].ModelName,
				Difference: math.Abs(results[i].Confidence - results[j].Confidence),
			})
		}
	}
	return out
}
