package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/anvex/concertly/backend/internal/models"
)

const ticketmasterBaseURL = "https://app.ticketmaster.com/discovery/v2"

// TicketmasterClient searches the Discovery API for music events by city.
type TicketmasterClient struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// NewTicketmasterClient creates a new TicketmasterClient
func NewTicketmasterClient(apiKey string) *TicketmasterClient {
	return &TicketmasterClient{
		baseURL: ticketmasterBaseURL,
		apiKey:  apiKey,
		http:    newHTTPClient(),
	}
}

// NewTicketmasterClientWithBaseURL is used by tests to point the client at
// a fake server.
func NewTicketmasterClientWithBaseURL(apiKey, baseURL string) *TicketmasterClient {
	c := NewTicketmasterClient(apiKey)
	c.baseURL = baseURL
	return c
}

// SearchEvents returns the raw event records for upcoming music events in
// the given city, soonest first. An empty city is the caller's mistake and
// is rejected before any upstream call is made.
func (c *TicketmasterClient) SearchEvents(ctx context.Context, city string) ([]json.RawMessage, error) {
	params := url.Values{}
	params.Set("apikey", c.apiKey)
	params.Set("city", city)
	params.Set("classificationName", "music")
	params.Set("sort", "date,asc")
	params.Set("size", "50")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/events.json?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ticketmaster request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("ticketmaster response read failed: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &UpstreamError{Provider: "Ticketmaster", Status: resp.StatusCode, Body: string(body)}
	}

	var search models.TicketmasterSearchResponse
	if err := json.Unmarshal(body, &search); err != nil {
		return nil, fmt.Errorf("ticketmaster response decode failed: %w", err)
	}

	// No _embedded key means zero matches, not an error
	if search.Embedded.Events == nil {
		return []json.RawMessage{}, nil
	}
	return search.Embedded.Events, nil
}
