// internal/api/predictions.go
package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
)

// PredictOptions carries the image and optional metadata for a single
// prediction call.
type PredictOptions struct {
	File        FilePart
	ModelID     string
	PatientID   string
	PatientName string
	PatientAge  int
	Notes       string
}

// Predict submits one image for analysis.
func (c *Client) Predict(ctx context.Context, opts PredictOptions) (*PredictionResponse, error) {
	opts.File.Field = "file"
	fields := map[string]string{
		"model_id":     opts.ModelID,
		"patient_id":   opts.PatientID,
		"patient_name": opts.PatientName,
		"notes":        opts.Notes,
	}
	if opts.PatientAge > 0 {
		fields["patient_age"] = strconv.Itoa(opts.PatientAge)
	}

	var resp PredictionResponse
	if err := c.postMultipart(ctx, "/predictions/predict", []FilePart{opts.File}, fields, &resp); err != nil {
		return nil, err
	}
	if err := resp.Result.Valid(); err != nil {
		return nil, fmt.Errorf("palu-api: inconsistent prediction for %s: %w", resp.ImageFilename, err)
	}
	return &resp, nil
}

// PredictBatch submits up to ten images in one call. The response carries one
// entry per file in submission order, failed items included.
func (c *Client) PredictBatch(ctx context.Context, files []FilePart, modelID string) (*BatchResponse, error) {
	parts := make([]FilePart, len(files))
	for i, f := range files {
		f.Field = "files"
		parts[i] = f
	}

	var resp BatchResponse
	if err := c.postMultipart(ctx, "/predictions/predict/batch", parts, map[string]string{"model_id": modelID}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CompareModels runs one image through every available model.
func (c *Client) CompareModels(ctx context.Context, file FilePart) (*ModelComparison, error) {
	file.Field = "file"

	var resp ModelComparison
	if err := c.postMultipart(ctx, "/predictions/predict/compare", []FilePart{file}, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// History fetches one page of stored predictions.
func (c *Client) History(ctx context.Context, skip, limit int) (*HistoryPage, error) {
	var page HistoryPage
	path := fmt.Sprintf("/predictions/history?skip=%d&limit=%d", skip, limit)
	if err := c.getJSON(ctx, path, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// Prediction fetches one stored prediction by id.
func (c *Client) Prediction(ctx context.Context, id int) (*Prediction, error) {
	var p Prediction
	if err := c.getJSON(ctx, fmt.Sprintf("/predictions/%d", id), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// DeletePrediction removes one stored prediction.
func (c *Client) DeletePrediction(ctx context.Context, id int) error {
	if c.debug {
		c.logOutgoing(fmt.Sprintf("/predictions/%d", id))
	}
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/predictions/%d", id), "", nil, nil)
}
