// Package ctl implements the inferctl developer CLI: a thin HTTP client for
// poking a running gateway and a cobra command tree over it.
package ctl

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"inferd/pkg/types"
)

// Client talks to a running inferd gateway over its REST surface.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient constructs a client for the given base URL (e.g. http://127.0.0.1:8080).
func NewClient(baseURL string) *Client {
	return &Client{BaseURL: baseURL, HTTPClient: http.DefaultClient}
}

// Models fetches the loaded model list.
func (c *Client) Models(ctx context.Context) ([]*types.ModelMetadata, error) {
	var resp types.ModelsResponse
	if err := c.getJSON(ctx, "/v2/models", &resp); err != nil {
		return nil, err
	}
	return resp.Models, nil
}

// Metadata fetches one model's metadata.
func (c *Client) Metadata(ctx context.Context, model string) (*types.ModelMetadata, error) {
	var meta types.ModelMetadata
	if err := c.getJSON(ctx, "/v2/models/"+model, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// Infer posts one inference request.
func (c *Client) Infer(ctx context.Context, model string, req *types.InferenceRequest) (*types.InferenceResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/v2/models/"+model+"/infer", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpResp, err := c.HTTPClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()
	if httpResp.StatusCode != http.StatusOK {
		return nil, decodeError(httpResp)
	}
	var resp types.InferenceResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &resp, nil
}

// Ready reports whether the gateway answers its readiness probe.
func (c *Client) Ready(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/readyz", nil)
	if err != nil {
		return false
	}
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path, nil)
	if err != nil {
		return err
	}
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return decodeError(resp)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func decodeError(resp *http.Response) error {
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var er types.ErrorResponse
	if err := json.Unmarshal(b, &er); err == nil && er.Error != "" {
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, er.Error)
	}
	return fmt.Errorf("server returned %d: %s", resp.StatusCode, bytes.TrimSpace(b))
}
