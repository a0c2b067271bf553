// internal/ab/ab.go
// Package ab compares two independently loaded images side by side. The two
// slots have fully independent lifecycles: loading, analyzing, or clearing
// one never touches the other. Whenever both slots hold a result a derived
// Divergence is available.
package ab

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/mus-ta-fah/Projet-Detection-Paludisme/internal/api"
)

// ErrSlotEmpty is returned when an operation needs an image the slot does not hold.
var ErrSlotEmpty = errors.New("ab: slot has no image loaded")

// Side selects one of the two comparison slots.
type Side int

const (
	SideA Side = iota
	SideB
)

func (s Side) String() string {
	if s == SideA {
		return "A"
	}
	return "B"
}

// Tier grades how closely the two confidences agree.
type Tier string

const (
	// TierHigh means the confidences are within 10 points of each other.
	TierHigh Tier = "High"
	// TierMedium means the gap is at least 10 and below 30 points.
	TierMedium Tier = "Medium"
	// TierLow means the gap is 30 points or more.
	TierLow Tier = "Low"
)

// advisoryText is shown whenever the two images disagree on the label.
const advisoryText = "Les prédictions diffèrent entre les deux images. Une vérification manuelle est recommandée."

// Divergence is the derived comparison between the two slot results.
type Divergence struct {
	Delta     float64
	SameLabel bool
	Tier      Tier
	Advisory  string
}

// Slot is one side of the comparison.
type Slot struct {
	Filename string
	Data     []byte
	Result   *api.PredictionResult
	InFlight bool
}

// Comparator holds the two slots and the client used to analyze them.
type Comparator struct {
	mu     sync.Mutex
	client *api.Client
	slots  [2]Slot
	// gens count how often each slot's contents were replaced. An analysis
	// snapshots its slot's generation and discards its completion if the
	// slot changed while the request was in flight.
	gens [2]uint64
}

// New builds a comparator with both slots empty.
func New(client *api.Client) *Comparator {
	return &Comparator{client: client}
}

// Load places an image into one slot, discarding that slot's previous image
// and result. The other slot is untouched.
func (c *Comparator) Load(side Side, filename string, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gens[side]++
	c.slots[side] = Slot{Filename: filename, Data: data}
}

// Clear empties one slot. The other slot is untouched.
func (c *Comparator) Clear(side Side) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gens[side]++
	c.slots[side] = Slot{}
}

// Slot returns a snapshot of one side.
func (c *Comparator) Slot(side Side) Slot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.slots[side]
}

// Analyze predicts the image in one slot and stores the result there. A
// failure leaves the slot loaded but without a result.
func (c *Comparator) Analyze(ctx context.Context, side Side) error {
	c.mu.Lock()
	slot := c.slots[side]
	if slot.Filename == "" {
		c.mu.Unlock()
		return fmt.Errorf("slot %s: %w", side, ErrSlotEmpty)
	}
	c.slots[side].InFlight = true
	c.slots[side].Result = nil
	gen := c.gens[side]
	c.mu.Unlock()

	resp, err := c.client.Predict(ctx, api.PredictOptions{
		File: api.FilePart{Filename: slot.Filename, Data: slot.Data},
	})

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gens[side] != gen {
		// The slot was cleared or reloaded while the request was in
		// flight; the completion belongs to an image that is gone.
		return nil
	}
	c.slots[side].InFlight = false
	if err != nil {
		return fmt.Errorf("slot %s: %w", side, err)
	}
	result := resp.Result
	c.slots[side].Result = &result
	return nil
}

// AnalyzeBoth runs both slots concurrently. Each side succeeds or fails on
// its own; the combined error reports every side that failed.
func (c *Comparator) AnalyzeBoth(ctx context.Context) error {
	var wg sync.WaitGroup
	errs := make([]error, 2)
	for _, side := range []Side{SideA, SideB} {
		wg.Add(1)
		go func(side Side) {
			defer wg.Done()
			errs[side] = c.Analyze(ctx, side)
		}(side)
	}
	wg.Wait()
	return errors.Join(errs...)
}

// Divergence derives the comparison between the two results. It reports
// ok=false until both slots hold a result.
func (c *Comparator) Divergence() (Divergence, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	a, b := c.slots[SideA].Result, c.slots[SideB].Result
	if a == nil || b == nil {
		return Divergence{}, false
	}
	return computeDivergence(*a, *b), true
}

func computeDivergence(a, b api.PredictionResult) Divergence {
	d := Divergence{
		Delta:     math.Abs(a.Confidence - b.Confidence),
		SameLabel: a.IsParasitized == b.IsParasitized,
	}
	switch {
	case d.Delta < 10:
		d.Tier = TierHigh
	case d.Delta < 30:
		d.Tier = TierMedium
	default:
		d.Tier = TierLow
	}
	if !d.SameLabel {
		d.Advisory = advisoryText
	}
	return d
}
