// Package extract wraps the external text-extraction collaborator that
// turns a free-form shoot description into structured project fields. The
// service is advisory: every returned field is best-effort and the caller
// may overwrite any of it, and dates must be validated before use.
package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

var (
	ErrUnavailable = errors.New("extraction service is not configured")
	ErrInvalidDate = errors.New("extracted date is not a valid YYYY-MM-DD date")
)

// Details are the structured fields extracted from a description. Date is
// a raw string; run it through ValidateDate before trusting it.
type Details struct {
	ClientName   string `json:"clientName"`
	Date         string `json:"date"`
	Location     string `json:"location"`
	Photographer string `json:"photographer"`
}

// Client extracts project details from free-form text.
type Client interface {
	Extract(ctx context.Context, description string) (Details, error)
}

// HTTPClient posts descriptions to a remote extraction endpoint.
type HTTPClient struct {
	url    string
	client *http.Client
}

// NewHTTPClient builds a client for the given endpoint URL. An empty URL
// yields a client whose Extract always fails with ErrUnavailable.
func NewHTTPClient(url string) *HTTPClient {
	return &HTTPClient{
		url:    url,
		client: &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *HTTPClient) Extract(ctx context.Context, description string) (Details, error) {
	if c.url == "" {
		return Details{}, ErrUnavailable
	}

	body, err := json.Marshal(map[string]string{"description": description})
	if err != nil {
		return Details{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return Details{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return Details{}, fmt.Errorf("calling extraction service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Details{}, fmt.Errorf("extraction service returned status %d", resp.StatusCode)
	}

	var details Details
	if err := json.NewDecoder(resp.Body).Decode(&details); err != nil {
		return Details{}, fmt.Errorf("decoding extraction response: %w", err)
	}
	return details, nil
}

// ValidateDate parses an extracted date string, accepting only YYYY-MM-DD.
func ValidateDate(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}
