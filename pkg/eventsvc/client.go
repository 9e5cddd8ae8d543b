// Package eventsvc is the HTTP client for the remote event store.
package eventsvc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"planhelper/pkg/models"
)

// Client talks to the event service. The zero http.Client imposes no
// timeout; every retry is user-initiated.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient creates a client for the given base URL
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{},
	}
}

// eventRecord is the wire shape of one fetched event
type eventRecord struct {
	PK     json.Number `json:"pk"`
	Fields struct {
		StartDate string `json:"start_date"`
		EndDate   string `json:"end_date"`
		Name      string `json:"name"`
		Category  string `json:"category"`
	} `json:"fields"`
}

// eventPayload is the wire shape of create/update bodies
type eventPayload struct {
	Name      string `json:"name"`
	Category  string `json:"category"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// FetchMonth loads all events whose start date falls in the given month.
// Individual unparsable timestamps are tolerated and stored as zero
// instants instead of failing the whole batch.
func (c *Client) FetchMonth(ctx context.Context, year int, month time.Month) ([]models.Event, error) {
	endpoint := fmt.Sprintf("%s/events?%s", c.BaseURL, url.Values{
		"year":  {strconv.Itoa(year)},
		"month": {strconv.Itoa(int(month))},
	}.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build events request: %w", err)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("events request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("events request returned %s", resp.Status)
	}

	var records []eventRecord
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, fmt.Errorf("failed to decode events response: %w", err)
	}

	events := make([]models.Event, 0, len(records))
	unparsable := 0
	for _, record := range records {
		start, ok := parseServerDate(record.Fields.StartDate)
		if !ok {
			unparsable++
		}
		end, _ := parseServerDate(record.Fields.EndDate)

		event := models.Event{
			RemoteID: record.PK.String(),
			Name:     record.Fields.Name,
			Category: models.NormalizeCategory(record.Fields.Category),
			Start:    start,
			End:      end,
		}
		event.EnsureLocalKey()
		events = append(events, event)
	}

	if unparsable > 0 {
		log.Printf("[EVENTS] %d of %d events had unparsable start dates", unparsable, len(records))
	}

	return events, nil
}

// Create persists a new event and returns no id; the caller refetches
// the month to pick up server-assigned keys
func (c *Client) Create(ctx context.Context, event models.Event) error {
	return c.send(ctx, http.MethodPost, c.BaseURL+"/event/create", payloadFor(event))
}

// Update overwrites the remote event identified by its remote id
func (c *Client) Update(ctx context.Context, event models.Event) error {
	endpoint := c.BaseURL + "/event/update/" + url.PathEscape(event.RemoteID)
	return c.send(ctx, http.MethodPatch, endpoint, payloadFor(event))
}

// Delete removes the remote event with the given id
func (c *Client) Delete(ctx context.Context, remoteID string) error {
	endpoint := c.BaseURL + "/event/delete/" + url.PathEscape(remoteID)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to build delete request: %w", err)
	}
	return c.do(req)
}

func (c *Client) send(ctx context.Context, method, endpoint string, payload eventPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode event payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req)
}

func (c *Client) do(req *http.Request) error {
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s failed: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%s %s returned %s", req.Method, req.URL.Path, resp.Status)
	}
	return nil
}

// payloadFor normalizes an event into its canonical wire form. Untitled
// events and unknown categories get the same fallbacks the UI shows.
func payloadFor(event models.Event) eventPayload {
	name := event.Name
	if name == "" {
		name = "Untitled event"
	}
	end := event.End
	if end.IsZero() {
		end = event.Start
	}
	return eventPayload{
		Name:      name,
		Category:  string(event.Category),
		StartDate: formatServerDate(event.Start),
		EndDate:   formatServerDate(end),
	}
}

func formatServerDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

// parseServerDate parses the service's ISO-8601 timestamps, trying the
// handful of shapes the backend has been seen to emit
func parseServerDate(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}

	formats := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
	}
	for _, format := range formats {
		if t, err := time.ParseInLocation(format, value, time.Local); err == nil {
			return t.In(time.Local), true
		}
	}
	return time.Time{}, false
}
