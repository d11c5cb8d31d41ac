package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/tbourn/go-trip-sync/internal/domain"
)

// DefaultTimeout bounds a single remote call end to end.
const DefaultTimeout = 30 * time.Second

// Client implements Store over the hosted REST API.
//
// Transport-level failures (DNS, refused connections, timeouts) are wrapped
// with a network-shaped message so IsNetworkError classifies them the same
// way the browser client's fetch failures were classified. HTTP 404 and
// empty single-row lookups map to ErrNotFound; other non-2xx statuses
// surface the store's own message via APIError.
type Client struct {
	baseURL string
	token   func() string
	http    *http.Client
	limiter *rate.Limiter
	log     zerolog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) ClientOption {
	return func(c *Client) { c.http = h }
}

// WithTokenSource sets the bearer-token source attached to every request.
func WithTokenSource(token func() string) ClientOption {
	return func(c *Client) { c.token = token }
}

// WithStaticToken sets a fixed bearer token.
func WithStaticToken(token string) ClientOption {
	return WithTokenSource(func() string { return token })
}

// WithRateLimit throttles outgoing requests; rps <= 0 disables the limiter.
func WithRateLimit(rps float64, burst int) ClientOption {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithLogger sets the client logger.
func WithLogger(log zerolog.Logger) ClientOption {
	return func(c *Client) { c.log = log }
}

// NewClient builds a REST client for the store at baseURL.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: DefaultTimeout},
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// APIError is a non-2xx response from the store, carrying its message so
// constraint violations read the same as they did server-side.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("remote store: status %d", e.Status)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.token != nil {
		if tok := c.token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		// Keep transport failures network-shaped for IsNetworkError.
		return fmt.Errorf("network request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("network read failed: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode >= 400:
		c.log.Debug().Int("status", resp.StatusCode).Str("path", path).Msg("remote store rejected request")
		return &APIError{Status: resp.StatusCode, Message: errorMessage(data)}
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// errorMessage pulls a human-readable message out of an error body.
func errorMessage(data []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(data, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	return strings.TrimSpace(string(data))
}

// ListTrips returns the trips visible to the current user.
func (c *Client) ListTrips(ctx context.Context) ([]domain.Trip, error) {
	var out []domain.Trip
	if err := c.do(ctx, http.MethodGet, "/trips", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetTrip fetches one trip by id.
func (c *Client) GetTrip(ctx context.Context, id string) (*domain.Trip, error) {
	var out domain.Trip
	if err := c.do(ctx, http.MethodGet, "/trips/"+url.PathEscape(id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetTripByCode looks a trip up by its invite code. No match is ErrNotFound.
func (c *Client) GetTripByCode(ctx context.Context, code string) (*domain.Trip, error) {
	q := url.Values{"code": {code}}
	var out []domain.Trip
	if err := c.do(ctx, http.MethodGet, "/trips", q, nil, &out); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, ErrNotFound
	}
	return &out[0], nil
}

// InsertTrip creates a trip row with a client-assigned id and code. A code
// collision comes back as an APIError carrying the constraint message.
func (c *Client) InsertTrip(ctx context.Context, trip domain.Trip) error {
	return c.do(ctx, http.MethodPost, "/trips", nil, trip, nil)
}

// UpdateTripName renames a trip and returns the canonical row.
func (c *Client) UpdateTripName(ctx context.Context, id, name string) (*domain.Trip, error) {
	body := map[string]string{"name": name}
	var out domain.Trip
	if err := c.do(ctx, http.MethodPatch, "/trips/"+url.PathEscape(id), nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// InsertMember creates a membership row.
func (c *Client) InsertMember(ctx context.Context, m domain.TripMember) error {
	return c.do(ctx, http.MethodPost, "/trip-members", nil, m, nil)
}

// UpsertMember inserts or refreshes a membership keyed by (trip_id, user_id).
func (c *Client) UpsertMember(ctx context.Context, m domain.TripMember) error {
	return c.do(ctx, http.MethodPut, "/trip-members", nil, m, nil)
}

// ListItems returns a trip's itinerary items in the store's canonical order.
func (c *Client) ListItems(ctx context.Context, tripID string) ([]domain.ItineraryItem, error) {
	var out []domain.ItineraryItem
	path := "/trips/" + url.PathEscape(tripID) + "/items"
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// InsertItem creates an itinerary item and returns the confirmed row.
func (c *Client) InsertItem(ctx context.Context, draft domain.ItineraryItemDraft) (*domain.ItineraryItem, error) {
	var out domain.ItineraryItem
	if err := c.do(ctx, http.MethodPost, "/items", nil, draft, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateItem applies a partial update and returns the confirmed row, or
// ErrNotFound when the target no longer exists.
func (c *Client) UpdateItem(ctx context.Context, id string, updates domain.ItineraryItemUpdate) (*domain.ItineraryItem, error) {
	var out domain.ItineraryItem
	if err := c.do(ctx, http.MethodPatch, "/items/"+url.PathEscape(id), nil, updates, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListSuggestions returns a trip's place suggestions, newest first.
func (c *Client) ListSuggestions(ctx context.Context, tripID string) ([]domain.PlaceSuggestion, error) {
	var out []domain.PlaceSuggestion
	path := "/trips/" + url.PathEscape(tripID) + "/suggestions"
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// InsertSuggestion creates a suggestion and returns the confirmed row.
func (c *Client) InsertSuggestion(ctx context.Context, draft domain.SuggestionDraft) (*domain.PlaceSuggestion, error) {
	var out domain.PlaceSuggestion
	if err := c.do(ctx, http.MethodPost, "/suggestions", nil, draft, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

var _ Store = (*Client)(nil)
