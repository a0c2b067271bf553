// internal/comparison/comparison_test.go
package comparison

import (
	"errors"
	"math"
	"testing"

	"github.com/mus-ta-fah/Projet-Detection-Paludisme/internal/api"
)

func result(model, label string, confidence float64) api.PredictionResult {
	return api.PredictionResult{ModelID: model, ModelName: model, Prediction: label, Confidence: confidence}
}

func TestSummarizeMajority(t *testing.T) {
	t.Parallel()

	results := []api.PredictionResult{
		result("resnet50", api.LabelParasitized, 95),
		result("mobilenet", api.LabelParasitized, 88),
		result("efficientnet", api.LabelUninfected, 72),
	}

	consensus, err := Summarize(results)
	if err != nil {
		t.Fatalf("Summarize returned error: %v", err)
	}
	if consensus.MajorityVote != api.LabelParasitized {
		t.Fatalf("majority %q", consensus.MajorityVote)
	}
	if math.Abs(consensus.AgreementPercentage-66.666) > 0.01 {
		t.Fatalf("agreement %.3f", consensus.AgreementPercentage)
	}
	if consensus.Unanimous {
		t.Fatal("two-of-three must not be unanimous")
	}
}

func TestSummarizeUnanimousExactlyAtFullAgreement(t *testing.T) {
	t.Parallel()

	results := []api.PredictionResult{
		result("resnet50", api.LabelUninfected, 91),
		result("mobilenet", api.LabelUninfected, 84),
	}

	consensus, err := Summarize(results)
	if err != nil {
		t.Fatalf("Summarize returned error: %v", err)
	}
	if !consensus.Unanimous {
		t.Fatal("full agreement must report unanimous")
	}
	if consensus.AgreementPercentage != 100 {
		t.Fatalf("agreement %.2f, want 100", consensus.AgreementPercentage)
	}
}

func TestSummarizeTieBreaksOnResultOrder(t *testing.T) {
	t.Parallel()

	results := []api.PredictionResult{
		result("mobilenet", api.LabelUninfected, 60),
		result("resnet50", api.LabelParasitized, 99),
	}

	consensus, err := Summarize(results)
	if err != nil {
		t.Fatalf("Summarize returned error: %v", err)
	}
	if consensus.MajorityVote != api.LabelUninfected {
		t.Fatalf("tie must keep first label in order, got %q", consensus.MajorityVote)
	}
	if consensus.AgreementPercentage != 50 {
		t.Fatalf("agreement %.2f, want 50", consensus.AgreementPercentage)
	}
	if consensus.Unanimous {
		t.Fatal("a tie is never unanimous")
	}
}

func TestSummarizeEmpty(t *testing.T) {
	t.Parallel()

	if _, err := Summarize(nil); !errors.Is(err, ErrNoResults) {
		t.Fatalf("expected ErrNoResults, got %v", err)
	}
}

func TestDisagreementsOnlyForDifferingLabels(t *testing.T) {
	t.Parallel()

	results := []api.PredictionResult{
		result("resnet50", api.LabelParasitized, 95),
		result("mobilenet", api.LabelParasitized, 55),
		result("efficientnet", api.LabelUninfected, 70),
	}

	got := Disagreements(results)
	if len(got) != 2 {
		t.Fatalf("disagreement count %d, want 2 (same-label pair excluded)", len(got))
	}

	if got[0].Model1 != "resnet50" || got[0].Model2 != "efficientnet" {
		t.Fatalf("first pair %s/%s", got[0].Model1, got[0].Model2)
	}
	if got[0].Difference != 25 {
		t.Fatalf("first delta %.2f, want 25", got[0].Difference)
	}
	if got[1].Model1 != "mobilenet" || got[1].Model2 != "efficientnet" {
		t.Fatalf("second pair %s/%s", got[1].Model1, got[1].Model2)
	}
	if got[1].Difference != 15 {
		t.Fatalf("second delta %.2f, want 15", got[1].Difference)
	}
}

func TestDisagreementsUnanimousRunIsEmpty(t *testing.T) {
	t.Parallel()

	results := []api.PredictionResult{
		result("resnet50", api.LabelUninfected, 99),
		result("mobilenet", api.LabelUninfected, 51),
	}
	if got := Disagreements(results); len(got) != 0 {
		t.Fatalf("same-label pairs must not disagree, got %+v", got)
	}
}
