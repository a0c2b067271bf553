// internal/ab/ab_test.go
package ab

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mus-ta-fah/Projet-Detection-Paludisme/internal/api"
	"github.com/mus-ta-fah/Projet-Detection-Paludisme/internal/appconfig"
	"github.com/mus-ta-fah/Projet-Detection-Paludisme/internal/session"
)

func newComparator(t *testing.T, handler http.Handler) *Comparator {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	sess, err := session.Load(filepath.Join(t.TempDir(), "session.json"))
	if err != nil {
		t.Fatalf("session.Load: %v", err)
	}
	return New(api.New(appconfig.Config{BaseURL: srv.URL}, sess))
}

func predictionFor(filename string) api.PredictionResponse {
	// The fixture backend keys its answer on the uploaded filename.
	switch filename {
	case "parasitized.png":
		return api.PredictionResponse{Result: api.PredictionResult{
			Prediction: api.LabelParasitized, IsParasitized: true,
			Confidence: 92, ProbabilityParasitized: 92, ProbabilityUninfected: 8,
		}}
	default:
		return api.PredictionResponse{Result: api.PredictionResult{
			Prediction: api.LabelUninfected,
			Confidence: 85, ProbabilityParasitized: 15, ProbabilityUninfected: 85,
		}}
	}
}

func fixtureHandler(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("ParseMultipartForm: %v", err)
		}
		_, header, err := r.FormFile("file")
		if err != nil {
			t.Errorf("missing file part: %v", err)
			return
		}
		_ = json.NewEncoder(w).Encode(predictionFor(header.Filename))
	})
}

func TestDivergenceRequiresBothResults(t *testing.T) {
	c := newComparator(t, fixtureHandler(t))

	if _, ok := c.Divergence(); ok {
		t.Fatal("empty comparator must not report a divergence")
	}

	c.Load(SideA, "uninfected_a.png", []byte("a"))
	if err := c.Analyze(context.Background(), SideA); err != nil {
		t.Fatalf("Analyze A: %v", err)
	}
	if _, ok := c.Divergence(); ok {
		t.Fatal("one-sided result must not report a divergence")
	}
}

func TestAnalyzeBothSameLabelHighTier(t *testing.T) {
	c := newComparator(t, fixtureHandler(t))
	c.Load(SideA, "uninfected_a.png", []byte("a"))
	c.Load(SideB, "uninfected_b.png", []byte("b"))

	if err := c.AnalyzeBoth(context.Background()); err != nil {
		t.Fatalf("AnalyzeBoth: %v", err)
	}

	div, ok := c.Divergence()
	if !ok {
		t.Fatal("expected divergence after both analyses")
	}
	if div.Delta != 0 || !div.SameLabel || div.Tier != TierHigh {
		t.Fatalf("divergence %+v", div)
	}
	if div.Advisory != "" {
		t.Fatalf("same-label pair must not raise an advisory, got %q", div.Advisory)
	}
}

func TestDivergenceLabelMismatchRaisesAdvisory(t *testing.T) {
	c := newComparator(t, fixtureHandler(t))
	c.Load(SideA, "parasitized.png", []byte("a"))
	c.Load(SideB, "uninfected.png", []byte("b"))

	if err := c.AnalyzeBoth(context.Background()); err != nil {
		t.Fatalf("AnalyzeBoth: %v", err)
	}

	div, ok := c.Divergence()
	if !ok {
		t.Fatal("expected divergence")
	}
	if div.SameLabel {
		t.Fatal("labels differ")
	}
	if div.Delta != 7 {
		t.Fatalf("delta %.2f, want 7", div.Delta)
	}
	if div.Advisory == "" {
		t.Fatal("label mismatch must raise an advisory")
	}
}

func TestComputeDivergenceTiers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		confA  float64
		confB  float64
		want   Tier
	}{
		{"just under ten", 80, 89.99, TierHigh},
		{"exactly ten", 80, 90, TierMedium},
		{"just under thirty", 60, 89.99, TierMedium},
		{"exactly thirty", 60, 90, TierLow},
		{"five points same label", 80, 85, TierHigh},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			a := api.PredictionResult{Prediction: api.LabelUninfected, Confidence: tt.confA}
			b := api.PredictionResult{Prediction: api.LabelUninfected, Confidence: tt.confB}
			div := computeDivergence(a, b)
			if div.Tier != tt.want {
				t.Fatalf("tier %s, want %s (delta %.2f)", div.Tier, tt.want, div.Delta)
			}
			if !div.SameLabel || div.Advisory != "" {
				t.Fatalf("same-label pair mis-flagged: %+v", div)
			}
		})
	}
}

func TestSlotsAreIndependent(t *testing.T) {
	c := newComparator(t, fixtureHandler(t))
	c.Load(SideA, "parasitized.png", []byte("a"))
	c.Load(SideB, "uninfected.png", []byte("b"))

	if err := c.AnalyzeBoth(context.Background()); err != nil {
		t.Fatalf("AnalyzeBoth: %v", err)
	}

	c.Clear(SideA)
	if got := c.Slot(SideA); got.Filename != "" || got.Result != nil {
		t.Fatalf("slot A not cleared: %+v", got)
	}
	if got := c.Slot(SideB); got.Result == nil {
		t.Fatal("clearing A must not touch B's result")
	}
	if _, ok := c.Divergence(); ok {
		t.Fatal("divergence must disappear when a slot is cleared")
	}
}

func TestAnalyzeEmptySlot(t *testing.T) {
	c := newComparator(t, fixtureHandler(t))
	if err := c.Analyze(context.Background(), SideB); !errors.Is(err, ErrSlotEmpty) {
		t.Fatalf("expected ErrSlotEmpty, got %v", err)
	}
}

func TestReloadDiscardsInFlightResult(t *testing.T) {
	release := make(chan struct{})
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("ParseMultipartForm: %v", err)
		}
		_, header, err := r.FormFile("file")
		if err != nil {
			t.Errorf("missing file part: %v", err)
			return
		}
		if header.Filename == "old.png" {
			<-release
		}
		_ = json.NewEncoder(w).Encode(predictionFor(header.Filename))
	})

	c := newComparator(t, handler)
	c.Load(SideA, "old.png", []byte("a"))

	done := make(chan error, 1)
	go func() { done <- c.Analyze(context.Background(), SideA) }()

	for !c.Slot(SideA).InFlight {
		time.Sleep(time.Millisecond)
	}

	// Replace the slot's image while the first analysis is still waiting
	// on the backend, then let that analysis complete.
	c.Clear(SideA)
	c.Load(SideA, "new.png", []byte("b"))
	close(release)

	if err := <-done; err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	got := c.Slot(SideA)
	if got.Filename != "new.png" {
		t.Fatalf("slot A holds %q, want new.png", got.Filename)
	}
	if got.Result != nil {
		t.Fatal("stale completion must not attach to the reloaded slot")
	}
	if got.InFlight {
		t.Fatal("reloaded slot must not be marked in flight")
	}
}

func TestAnalyzeBothReportsFailedSideOnly(t *testing.T) {
	var calls atomic.Int64
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("ParseMultipartForm: %v", err)
		}
		_, header, err := r.FormFile("file")
		if err != nil {
			t.Errorf("missing file part: %v", err)
			return
		}
		calls.Add(1)
		if header.Filename == "broken.png" {
			http.Error(w, `{"detail":"Image corrompue"}`, http.StatusUnprocessableEntity)
			return
		}
		_ = json.NewEncoder(w).Encode(predictionFor(header.Filename))
	})

	c := newComparator(t, handler)
	c.Load(SideA, "uninfected.png", []byte("a"))
	c.Load(SideB, "broken.png", []byte("b"))

	err := c.AnalyzeBoth(context.Background())
	if err == nil {
		t.Fatal("expected error from side B")
	}
	var httpErr *api.HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("expected *api.HTTPError in join, got %v", err)
	}
	if calls.Load() != 2 {
		t.Fatalf("both sides should be attempted, calls=%d", calls.Load())
	}
	if got := c.Slot(SideA); got.Result == nil {
		t.Fatal("side A result must survive side B's failure")
	}
	if got := c.Slot(SideB); got.Result != nil {
		t.Fatal("failed side must hold no result")
	}
}
