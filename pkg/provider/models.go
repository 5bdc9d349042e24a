package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// Model is one entry of the provider's model list.
type Model struct {
	ID            string `json:"id" yaml:"id"`
	Name          string `json:"name,omitempty" yaml:"name,omitempty"`
	ContextLength int    `json:"context_length,omitempty" yaml:"context_length,omitempty"`
}

// ListModels returns the models offered by the provider. When filter is not empty only
// models whose id contains it (case-insensitive) are returned.
func (c *Client) ListModels(ctx context.Context, filter string) ([]Model, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/models", nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	c.setHeaders(req)

	data, err := c.do(req)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Data []Model `json:"data"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("decode model list: %w", err)
	}

	needle := strings.ToLower(filter)
	out := make([]Model, 0, len(resp.Data))
	for _, m := range resp.Data {
		if needle == "" || strings.Contains(strings.ToLower(m.ID), needle) {
			out = append(out, m)
		}
	}
	return out, nil
}
