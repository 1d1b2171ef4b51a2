package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	apperrors "github.com/taskhive/taskhive/internal/errors"
)

// Client calls an external enhancement endpoint: POST {title} -> draft
// JSON. The endpoint itself is a black box; this client only classifies
// its failures.
type Client struct {
	endpoint string
	apiKey   string
	http     *http.Client
}

func NewClient(endpoint, apiKey string) *Client {
	return &Client{
		endpoint: endpoint,
		apiKey:   apiKey,
		http:     &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client) Enhance(ctx context.Context, title string) (Draft, error) {
	if c.endpoint == "" || c.apiKey == "" {
		return Draft{}, apperrors.NewAIConfiguration(errors.New("enhancement endpoint or key not configured"))
	}

	body, err := json.Marshal(map[string]string{"title": title})
	if err != nil {
		return Draft{}, apperrors.NewAITransient(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return Draft{}, apperrors.NewAITransient(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return Draft{}, apperrors.NewAITransient(err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return Draft{}, apperrors.NewAIConfiguration(fmt.Errorf("enhancement service rejected credentials (%d)", resp.StatusCode))
	case resp.StatusCode >= 400:
		return Draft{}, apperrors.NewAITransient(fmt.Errorf("enhancement service returned %d", resp.StatusCode))
	}

	var draft Draft
	if err := json.NewDecoder(resp.Body).Decode(&draft); err != nil {
		return Draft{}, apperrors.NewAITransient(err)
	}
	return draft, nil
}
