// internal/batch/batch_test.go
package batch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/mus-ta-fah/Projet-Detection-Paludisme/internal/api"
	"github.com/mus-ta-fah/Projet-Detection-Paludisme/internal/appconfig"
	"github.com/mus-ta-fah/Projet-Detection-Paludisme/internal/session"
)

func newOrchestrator(t *testing.T, handler http.Handler) *Orchestrator {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	sess, err := session.Load(filepath.Join(t.TempDir(), "session.json"))
	if err != nil {
		t.Fatalf("session.Load: %v", err)
	}
	return New(api.New(appconfig.Config{BaseURL: srv.URL}, sess))
}

// tinyPNG renders a small solid image for preview tests.
func tinyPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.Set(x, y, color.RGBA{R: 180, G: 40, B: 40, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encoding fixture png: %v", err)
	}
	return buf.Bytes()
}

func TestAddEnforcesCapacityWithoutNetwork(t *testing.T) {
	var requests atomic.Int64
	o := newOrchestrator(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
	}))

	for i := 0; i < MaxItems; i++ {
		if _, err := o.Add(fmt.Sprintf("cell_%02d.png", i), []byte("x")); err != nil {
			t.Fatalf("Add %d returned error: %v", i, err)
		}
	}

	if _, err := o.Add("cell_10.png", []byte("x")); !errors.Is(err, ErrCapacityExceeded) {
		t.Fatalf("expected ErrCapacityExceeded, got %v", err)
	}
	if got := len(o.Items()); got != MaxItems {
		t.Fatalf("queue length %d, want %d", got, MaxItems)
	}
	if requests.Load() != 0 {
		t.Fatalf("capacity rejection must not reach the network, saw %d requests", requests.Load())
	}
}

func TestAddGeneratesPreviewForDecodableImage(t *testing.T) {
	o := newOrchestrator(t, http.NewServeMux())

	item, err := o.Add("cell.png", tinyPNG(t))
	if err != nil {
		t.Fatalf("Add returned error: %v", err)
	}
	if item.Preview == nil {
		t.Fatal("expected a preview thumbnail")
	}
	thumb, err := png.Decode(bytes.NewReader(item.Preview))
	if err != nil {
		t.Fatalf("preview is not valid PNG: %v", err)
	}
	b := thumb.Bounds()
	if b.Dx() > previewSize || b.Dy() > previewSize {
		t.Fatalf("thumbnail %dx%d exceeds %d", b.Dx(), b.Dy(), previewSize)
	}

	other, err := o.Add("notes.txt", []byte("not an image"))
	if err != nil {
		t.Fatalf("Add returned error: %v", err)
	}
	if other.Preview != nil {
		t.Fatal("non-image payload must not get a preview")
	}
}

func TestSubmitCorrelatesResultsPositionally(t *testing.T) {
	o := newOrchestrator(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("ParseMultipartForm: %v", err)
		}
		if got := len(r.MultipartForm.File["files"]); got != 3 {
			t.Errorf("files count %d, want 3", got)
		}
		_ = json.NewEncoder(w).Encode(api.BatchResponse{
			Total: 3, Successful: 2, Failed: 1,
			Results: []api.BatchItemResult{
				{Filename: "a.png", Success: true, Result: &api.PredictionResult{Prediction: api.LabelUninfected, Confidence: 90}},
				{Filename: "b.png", Success: false, Error: "Image corrompue"},
				{Filename: "c.png", Success: true, Result: &api.PredictionResult{Prediction: api.LabelParasitized, Confidence: 97}},
			},
		})
	}))

	for _, name := range []string{"a.png", "b.png", "c.png"} {
		if _, err := o.Add(name, []byte(name)); err != nil {
			t.Fatalf("Add %s: %v", name, err)
		}
	}

	if _, err := o.Submit(context.Background(), ""); err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}

	items := o.Items()
	if items[0].Status != StatusSuccess || items[0].Result == nil {
		t.Fatalf("item 0 should succeed: %+v", items[0])
	}
	if items[1].Status != StatusError || items[1].Err != "Image corrompue" {
		t.Fatalf("item 1 should carry its own error: %+v", items[1])
	}
	if items[2].Status != StatusSuccess || items[2].Result.Prediction != api.LabelParasitized {
		t.Fatalf("item 2 should succeed despite item 1 failing: %+v", items[2])
	}

	pending, succeeded, failed := o.Counts()
	if pending != 0 || succeeded != 2 || failed != 1 {
		t.Fatalf("counts pending=%d succeeded=%d failed=%d", pending, succeeded, failed)
	}
}

func TestSubmitEmptyQueue(t *testing.T) {
	o := newOrchestrator(t, http.NewServeMux())
	if _, err := o.Submit(context.Background(), ""); !errors.Is(err, ErrNoImages) {
		t.Fatalf("expected ErrNoImages, got %v", err)
	}
}

func TestRemoveReleasesPreviewExactlyOnce(t *testing.T) {
	o := newOrchestrator(t, http.NewServeMux())

	item, err := o.Add("cell.png", tinyPNG(t))
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	if !o.Remove(item.ID) {
		t.Fatal("first Remove should report the item was present")
	}
	if o.Remove(item.ID) {
		t.Fatal("second Remove of the same id must be a no-op")
	}
	if got := len(o.Items()); got != 0 {
		t.Fatalf("queue length %d after remove", got)
	}
}

func TestClearDiscardsInFlightResults(t *testing.T) {
	release := make(chan struct{})
	o := newOrchestrator(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
		_ = json.NewEncoder(w).Encode(api.BatchResponse{
			Total: 1, Successful: 1,
			Results: []api.BatchItemResult{
				{Filename: "a.png", Success: true, Result: &api.PredictionResult{Prediction: api.LabelUninfected}},
			},
		})
	}))

	if _, err := o.Add("a.png", []byte("a")); err != nil {
		t.Fatalf("Add: %v", err)
	}

	done := make(chan error, 1)
	go func() {
		_, err := o.Submit(context.Background(), "")
		done <- err
	}()

	// Clear while the request is blocked server-side, then let it finish.
	for {
		if items := o.Items(); len(items) == 1 && items[0].Status == StatusUploading {
			break
		}
	}
	o.Clear()
	close(release)

	if err := <-done; err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	if got := len(o.Items()); got != 0 {
		t.Fatalf("late completion resurrected %d items", got)
	}
}

func TestAdvanceProgressRampsAndHoldsAtNinety(t *testing.T) {
	release := make(chan struct{})
	o := newOrchestrator(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
		_ = json.NewEncoder(w).Encode(api.BatchResponse{
			Total: 1, Successful: 1,
			Results: []api.BatchItemResult{
				{Filename: "a.png", Success: true, Result: &api.PredictionResult{Prediction: api.LabelUninfected}},
			},
		})
	}))

	if _, err := o.Add("a.png", []byte("a")); err != nil {
		t.Fatalf("Add: %v", err)
	}

	done := make(chan struct{})
	go func() {
		_, _ = o.Submit(context.Background(), "")
		close(done)
	}()

	for {
		if items := o.Items(); len(items) == 1 && items[0].Status == StatusUploading {
			break
		}
	}

	for i := 0; i < 12; i++ {
		o.AdvanceProgress()
	}
	if got := o.Items()[0].Progress; got != 90 {
		t.Fatalf("synthetic progress %d, want hold at 90", got)
	}

	close(release)
	<-done

	if got := o.Items()[0].Progress; got != 100 {
		t.Fatalf("progress %d after completion, want 100", got)
	}
}
