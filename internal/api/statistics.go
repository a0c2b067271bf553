// internal/api/statistics.go
package api

import (
	"context"
	"fmt"
)

// Overview fetches the aggregate statistics for the signed-in user.
func (c *Client) Overview(ctx context.Context) (*Statistics, error) {
	var stats Statistics
	if err := c.getJSON(ctx, "/statistics/overview", &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// Trends fetches daily prediction volume over the last `days` days.
func (c *Client) Trends(ctx context.Context, days int) ([]TrendData, error) {
	var resp struct {
		PeriodDays int         `json:"period_days"`
		Trends     []TrendData `json:"trends"`
	}
	if err := c.getJSON(ctx, fmt.Sprintf("/statistics/trends?days=%d", days), &resp); err != nil {
		return nil, err
	}
	return resp.Trends, nil
}

// ModelsUsage fetches per-model usage counts.
func (c *Client) ModelsUsage(ctx context.Context) ([]ModelUsage, error) {
	var resp struct {
		ModelsUsage []ModelUsage `json:"models_usage"`
	}
	if err := c.getJSON(ctx, "/statistics/models-usage", &resp); err != nil {
		return nil, err
	}
	return resp.ModelsUsage, nil
}
