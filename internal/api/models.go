// internal/api/models.go
package api

import (
	"context"
	"fmt"
)

// Models fetches the catalog of available inference models.
func (c *Client) Models(ctx context.Context) (*ModelList, error) {
	var list ModelList
	if err := c.getJSON(ctx, "/models/list", &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// Model fetches detail for one model.
func (c *Client) Model(ctx context.Context, id string) (*ModelInfo, error) {
	var info ModelInfo
	if err := c.getJSON(ctx, fmt.Sprintf("/models/info/%s", id), &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// Benchmark asks the backend to benchmark every loaded model.
func (c *Client) Benchmark(ctx context.Context) (*BenchmarkResponse, error) {
	var resp BenchmarkResponse
	if err := c.getJSON(ctx, "/models/benchmark", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SetDefaultModel selects the model used when none is specified.
func (c *Client) SetDefaultModel(ctx context.Context, id string) error {
	return c.postJSON(ctx, fmt.Sprintf("/models/set-default/%s", id), struct{}{}, nil)
}
