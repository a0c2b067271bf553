// internal/batch/batch.go
// Package batch accumulates up to ten blood-cell images and submits them to
// the backend in a single call. Results come back positionally, so every
// queued item ends up either with a prediction or with its own error while
// the rest of the batch proceeds.
package batch

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"strconv"
	"sync"
	"time"

	_ "image/gif"
	_ "image/jpeg"

	"github.com/nfnt/resize"

	"github.com/mus-ta-fah/Projet-Detection-Paludisme/internal/api"
	"github.com/mus-ta-fah/Projet-Detection-Paludisme/internal/util"
)

// MaxItems is the hard cap on images per batch, enforced locally before any
// network traffic.
const MaxItems = 10

// previewSize bounds the thumbnail edge length in pixels.
const previewSize = 96

var (
	// ErrCapacityExceeded is returned by Add once the batch is full.
	ErrCapacityExceeded = errors.New("batch: capacity of 10 images exceeded")
	// ErrNoImages is returned by Submit on an empty batch.
	ErrNoImages = errors.New("batch: no images queued")
)

// Status is the lifecycle state of one queued image.
type Status string

const (
	StatusPending   Status = "pending"
	StatusUploading Status = "uploading"
	StatusSuccess   Status = "success"
	StatusError     Status = "error"
)

// Item is one queued image with its upload state and, after submission, its
// outcome.
type Item struct {
	ID       string
	Filename string
	Data     []byte
	Preview  []byte // PNG thumbnail, nil when the payload is not a decodable image
	Status   Status
	Progress int
	Result   *api.PredictionResult
	Err      string
}

// Orchestrator owns the queue and the single-call submission.
type Orchestrator struct {
	mu         sync.Mutex
	client     *api.Client
	items      []*Item
	seq        uint64
	generation uint64
}

// New builds an empty orchestrator on top of an authenticated client.
func New(client *api.Client) *Orchestrator {
	return &Orchestrator{client: client}
}

// Add queues one image. The capacity check happens here, before anything is
// sent, so an over-full selection is rejected without touching the network.
func (o *Orchestrator) Add(filename string, data []byte) (Item, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if len(o.items) >= MaxItems {
		return Item{}, ErrCapacityExceeded
	}

	o.seq++
	item := &Item{
		ID:       newID(o.seq),
		Filename: filename,
		Data:     data,
		Preview:  makePreview(data),
		Status:   StatusPending,
	}
	o.items = append(o.items, item)
	return *item, nil
}

// Remove drops one queued image and releases its preview. It reports whether
// the id was present, so a second call for the same id is a no-op returning
// false.
func (o *Orchestrator) Remove(id string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	for i, item := range o.items {
		if item.ID == id {
			item.Preview = nil
			item.Data = nil
			o.items = append(o.items[:i], o.items[i+1:]...)
			o.generation++
			return true
		}
	}
	return false
}

// Clear empties the queue and releases every preview. In-flight submissions
// started before the clear are discarded when they complete.
func (o *Orchestrator) Clear() {
	o.mu.Lock()
	defer o.mu.Unlock()

	for _, item := range o.items {
		item.Preview = nil
		item.Data = nil
	}
	o.items = nil
	o.generation++
}

// Items returns a snapshot of the queue in submission order.
func (o *Orchestrator) Items() []Item {
	o.mu.Lock()
	defer o.mu.Unlock()

	out := make([]Item, len(o.items))
	for i, item := range o.items {
		out[i] = *item
	}
	return out
}

// Counts reports how many items are waiting, succeeded, and failed.
func (o *Orchestrator) Counts() (pending, succeeded, failed int) {
	o.mu.Lock()
	defer o.mu.Unlock()

	for _, item := range o.items {
		switch item.Status {
		case StatusSuccess:
			succeeded++
		case StatusError:
			failed++
		default:
			pending++
		}
	}
	return pending, succeeded, failed
}

// AdvanceProgress nudges every uploading item's synthetic progress up by ten
// points, holding at 90 until the real completion lands.
func (o *Orchestrator) AdvanceProgress() {
	o.mu.Lock()
	defer o.mu.Unlock()

	for _, item := range o.items {
		if item.Status == StatusUploading {
			item.Progress = util.Min(item.Progress+10, 90)
		}
	}
}

// Submit sends the whole queue in one multipart call and applies the
// positional results back onto the queued items. Items whose entry reports
// an error are marked failed individually; the others complete normally. If
// the queue was cleared while the call was in flight the response is
// discarded.
func (o *Orchestrator) Submit(ctx context.Context, modelID string) (*api.BatchResponse, error) {
	o.mu.Lock()
	if len(o.items) == 0 {
		o.mu.Unlock()
		return nil, ErrNoImages
	}
	gen := o.generation
	captured := make([]*Item, len(o.items))
	files := make([]api.FilePart, len(o.items))
	for i, item := range o.items {
		item.Status = StatusUploading
		item.Progress = 0
		item.Result = nil
		item.Err = ""
		captured[i] = item
		files[i] = api.FilePart{Filename: item.Filename, Data: item.Data}
	}
	o.mu.Unlock()

	resp, err := o.client.PredictBatch(ctx, files, modelID)

	o.mu.Lock()
	defer o.mu.Unlock()

	if o.generation != gen {
		// The queue changed under the submission; the items these results
		// belong to are gone.
		return resp, err
	}

	if err != nil {
		for _, item := range captured {
			item.Status = StatusError
			item.Progress = 100
			item.Err = err.Error()
		}
		return nil, err
	}

	for i, item := range captured {
		item.Progress = 100
		if i >= len(resp.Results) {
			item.Status = StatusError
			item.Err = "no result returned for this image"
			continue
		}
		entry := resp.Results[i]
		if entry.Success && entry.Result != nil {
			item.Status = StatusSuccess
			item.Result = entry.Result
		} else {
			item.Status = StatusError
			item.Err = entry.Error
		}
	}
	return resp, nil
}

func newID(seq uint64) string {
	return strconv.FormatUint(seq, 36) + "-" + strconv.FormatInt(time.Now().UnixNano(), 36)
}

// makePreview decodes the payload and renders a small PNG thumbnail. Payloads
// that are not decodable images simply get no preview; the backend does its
// own validation.
func makePreview(data []byte) []byte {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil
	}
	thumb := resize.Thumbnail(previewSize, previewSize, img, resize.Lanczos3)
	var buf bytes.Buffer
	if err := png.Encode(&buf, thumb); err != nil {
		return nil
	}
	return buf.Bytes()
}
