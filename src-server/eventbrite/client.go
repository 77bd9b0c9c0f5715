package eventbrite

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const DefaultBaseURL = "https://www.eventbriteapi.com"

// rateLimitDetail is shown to the user as-is when Eventbrite answers 429.
const rateLimitDetail = "Hourly rate limit has been reached for this token. Default rate limits are 2,000 calls per hour."

// Client talks to the Eventbrite v3 API. It holds no token; every call
// takes the token of whoever is asking.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// VerifyToken checks a personal OAuth token by asking for its owner.
func (c *Client) VerifyToken(ctx context.Context, token string) (*User, error) {
	if token == "" {
		return nil, &AuthError{Status: http.StatusUnauthorized}
	}
	var user User
	if err := c.getJSON(ctx, token, "/v3/users/me/", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Organizations lists every organization the token's user belongs to.
func (c *Client) Organizations(ctx context.Context, token string) ([]Organization, error) {
	organizations := make([]Organization, 0)
	continuation := ""
	for {
		params := url.Values{}
		if continuation != "" {
			params.Set("continuation", continuation)
		}
		var page struct {
			Pagination    pagination     `json:"pagination"`
			Organizations []Organization `json:"organizations"`
		}
		if err := c.getJSON(ctx, token, "/v3/users/me/organizations/", params, &page); err != nil {
			return nil, err
		}
		organizations = append(organizations, page.Organizations...)
		if !page.Pagination.HasMoreItems || page.Pagination.Continuation == "" {
			break
		}
		continuation = page.Pagination.Continuation
	}
	return organizations, nil
}

// EventsInRange lists the organization's events whose start date falls
// on or between the two days, oldest first. Venues arrive expanded so
// the report can show a location without extra calls.
func (c *Client) EventsInRange(ctx context.Context, token string, organizationID string, start time.Time, end time.Time) ([]Event, error) {
	if organizationID == "" {
		return nil, fmt.Errorf("EventsInRange: organization id is blank")
	}
	base := url.Values{}
	base.Set("order_by", "start_asc")
	base.Set("time_filter", "all")
	base.Set("start_date.range_start", start.Format("2006-01-02")+"T00:00:00")
	base.Set("start_date.range_end", end.Format("2006-01-02")+"T23:59:59")
	base.Set("expand", "venue")

	events := make([]Event, 0)
	continuation := ""
	for {
		params := url.Values{}
		for key, values := range base {
			params[key] = values
		}
		if continuation != "" {
			params.Set("continuation", continuation)
		}
		var page struct {
			Pagination pagination `json:"pagination"`
			Events     []Event    `json:"events"`
		}
		if err := c.getJSON(ctx, token, "/v3/organizations/"+organizationID+"/events/", params, &page); err != nil {
			return nil, err
		}
		events = append(events, page.Events...)
		if !page.Pagination.HasMoreItems || page.Pagination.Continuation == "" {
			break
		}
		continuation = page.Pagination.Continuation
	}
	return events, nil
}

// AttendeesForEvent lists every attendee record on one event.
func (c *Client) AttendeesForEvent(ctx context.Context, token string, eventID string) ([]Attendee, error) {
	if eventID == "" {
		return nil, fmt.Errorf("AttendeesForEvent: event id is blank")
	}
	attendees := make([]Attendee, 0)
	continuation := ""
	for {
		params := url.Values{}
		if continuation != "" {
			params.Set("continuation", continuation)
		}
		var page struct {
			Pagination pagination `json:"pagination"`
			Attendees  []Attendee `json:"attendees"`
		}
		if err := c.getJSON(ctx, token, "/v3/events/"+eventID+"/attendees/", params, &page); err != nil {
			return nil, err
		}
		attendees = append(attendees, page.Attendees...)
		if !page.Pagination.HasMoreItems || page.Pagination.Continuation == "" {
			break
		}
		continuation = page.Pagination.Continuation
	}
	return attendees, nil
}

// EventsWithAttendees takes the full snapshot for a date range: every
// event with its complete attendee list. Any failure abandons the whole
// snapshot, a partial one never comes back.
func (c *Client) EventsWithAttendees(ctx context.Context, token string, organizationID string, start time.Time, end time.Time) ([]EventAttendees, error) {
	events, err := c.EventsInRange(ctx, token, organizationID, start, end)
	if err != nil {
		return nil, err
	}
	sets := make([]EventAttendees, 0, len(events))
	for _, event := range events {
		attendees, err := c.AttendeesForEvent(ctx, token, event.ID)
		if err != nil {
			return nil, err
		}
		sets = append(sets, EventAttendees{Event: event, Attendees: attendees})
	}
	return sets, nil
}

// getJSON does one authenticated GET and decodes the reply into out.
// Non-2xx replies turn into the error types above.
func (c *Client) getJSON(ctx context.Context, token string, path string, params url.Values, out interface{}) error {
	endpoint := c.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("getJSON: can't create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransientError{Detail: "can't reach Eventbrite", Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return &AuthError{Status: resp.StatusCode}
	case resp.StatusCode == http.StatusTooManyRequests:
		return &TransientError{Detail: rateLimitDetail}
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return &UpstreamError{Status: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &UpstreamError{Status: resp.StatusCode, Body: "can't decode body: " + err.Error()}
	}
	return nil
}
