// Package maps is the client for the third-party mapping service: geocoding,
// distance and duration between two points, place autocomplete and place
// details. It speaks the Google Maps web-service JSON dialect.
//
// Every call is fallible. Callers treat any error as "leave the data as it
// is" and surface a notice; nothing here is fatal.
package maps

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/DeborahScali/travelapp-sub000/internal/domain"
)

// maxResponseBytes caps how much of a response body is read.
const maxResponseBytes = 1 << 20

// Candidate is one autocomplete suggestion.
type Candidate struct {
	ID      string
	Name    string
	Address string
}

// PlaceDetails is the resolved information for a provider place id.
type PlaceDetails struct {
	ID          string
	Name        string
	Address     string
	Coordinates domain.Coordinates
	PhotoRef    string
}

// Client calls the maps web services over HTTP.
type Client struct {
	cfg      Config
	http     *http.Client
	observer Observer
}

// NewClient creates a Client. A nil observer discards events.
func NewClient(cfg Config, observer Observer) *Client {
	if observer == nil {
		observer = NoopObserver{}
	}
	return &Client{
		cfg: cfg,
		http: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 5 * time.Second,
				}).DialContext,
				MaxIdleConnsPerHost: 8,
			},
		},
		observer: observer,
	}
}

// Enabled reports whether the client has credentials to make calls.
func (c *Client) Enabled() bool {
	return c.cfg.Enabled()
}

// envelope carries the status fields every response shares.
type envelope struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message,omitempty"`
}

func (e envelope) reply() envelope { return e }

func (e envelope) err() error {
	switch e.Status {
	case "OK":
		return nil
	case "ZERO_RESULTS", "NOT_FOUND":
		return ErrNoResults
	case "OVER_QUERY_LIMIT", "OVER_DAILY_LIMIT", "REQUEST_DENIED":
		return fmt.Errorf("%w: %s %s", ErrDenied, e.Status, e.ErrorMessage)
	case "INVALID_REQUEST", "MAX_ELEMENTS_EXCEEDED", "MAX_DIMENSIONS_EXCEEDED":
		return fmt.Errorf("%w: %s %s", ErrInvalidRequest, e.Status, e.ErrorMessage)
	default:
		return fmt.Errorf("%w: status %q", errTransient, e.Status)
	}
}

type replier interface {
	reply() envelope
}

type latLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type geometry struct {
	Location latLng `json:"location"`
}

type geocodeResponse struct {
	envelope
	Results []struct {
		FormattedAddress string   `json:"formatted_address"`
		Geometry         geometry `json:"geometry"`
	} `json:"results"`
}

type matrixValue struct {
	Value float64 `json:"value"`
}

type distanceMatrixResponse struct {
	envelope
	Rows []struct {
		Elements []struct {
			Status   string      `json:"status"`
			Distance matrixValue `json:"distance"`
			Duration matrixValue `json:"duration"`
		} `json:"elements"`
	} `json:"rows"`
}

type autocompleteResponse struct {
	envelope
	Predictions []struct {
		PlaceID              string `json:"place_id"`
		Description          string `json:"description"`
		StructuredFormatting struct {
			MainText      string `json:"main_text"`
			SecondaryText string `json:"secondary_text"`
		} `json:"structured_formatting"`
	} `json:"predictions"`
}

type detailsResponse struct {
	envelope
	Result struct {
		PlaceID          string   `json:"place_id"`
		Name             string   `json:"name"`
		FormattedAddress string   `json:"formatted_address"`
		Geometry         geometry `json:"geometry"`
		Photos           []struct {
			PhotoReference string `json:"photo_reference"`
		} `json:"photos"`
	} `json:"result"`
}

// Geocode resolves a free-text address to coordinates.
func (c *Client) Geocode(ctx context.Context, address string) (domain.Coordinates, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return domain.Coordinates{}, fmt.Errorf("maps.Client.Geocode: %w: empty address", ErrInvalidRequest)
	}
	var resp geocodeResponse
	if err := c.call(ctx, "geocode", "/maps/api/geocode/json", url.Values{"address": {address}}, &resp); err != nil {
		return domain.Coordinates{}, err
	}
	if len(resp.Results) == 0 {
		return domain.Coordinates{}, fmt.Errorf("maps.Client.Geocode: %w", ErrNoResults)
	}
	loc := resp.Results[0].Geometry.Location
	return domain.Coordinates{Lat: loc.Lat, Lng: loc.Lng}, nil
}

// DistanceAndDuration returns the leg from origin to destination for mode.
// Car is routed as driving; an unset mode as walking; plane is rejected with
// ErrUnsupportedMode without a network call.
func (c *Client) DistanceAndDuration(ctx context.Context, origin, destination domain.Coordinates, mode domain.TransportMode) (domain.Leg, error) {
	travelMode, err := providerMode(mode)
	if err != nil {
		return domain.Leg{}, fmt.Errorf("maps.Client.DistanceAndDuration: %w", err)
	}
	params := url.Values{
		"origins":      {origin.String()},
		"destinations": {destination.String()},
		"mode":         {travelMode},
		"units":        {"metric"},
	}
	var resp distanceMatrixResponse
	if err := c.call(ctx, "distance_matrix", "/maps/api/distancematrix/json", params, &resp); err != nil {
		return domain.Leg{}, err
	}
	if len(resp.Rows) == 0 || len(resp.Rows[0].Elements) == 0 || resp.Rows[0].Elements[0].Status != "OK" {
		return domain.Leg{}, fmt.Errorf("maps.Client.DistanceAndDuration: %w", ErrNoResults)
	}
	el := resp.Rows[0].Elements[0]
	return domain.Leg{
		DistanceKm:  math.Round(el.Distance.Value/10) / 100,
		DurationMin: math.Round(el.Duration.Value / 60),
	}, nil
}

// Autocomplete returns place suggestions for a partial query.
func (c *Client) Autocomplete(ctx context.Context, query string) ([]Candidate, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []Candidate{}, nil
	}
	var resp autocompleteResponse
	err := c.call(ctx, "autocomplete", "/maps/api/place/autocomplete/json", url.Values{"input": {query}}, &resp)
	if errors.Is(err, ErrNoResults) {
		return []Candidate{}, nil
	}
	if err != nil {
		return nil, err
	}
	out := make([]Candidate, 0, len(resp.Predictions))
	for _, p := range resp.Predictions {
		name := p.StructuredFormatting.MainText
		if name == "" {
			name = p.Description
		}
		out = append(out, Candidate{ID: p.PlaceID, Name: name, Address: p.StructuredFormatting.SecondaryText})
	}
	return out, nil
}

// PlaceDetails resolves a provider place id.
func (c *Client) PlaceDetails(ctx context.Context, placeID string) (PlaceDetails, error) {
	placeID = strings.TrimSpace(placeID)
	if placeID == "" {
		return PlaceDetails{}, fmt.Errorf("maps.Client.PlaceDetails: %w: empty place id", ErrInvalidRequest)
	}
	params := url.Values{
		"place_id": {placeID},
		"fields":   {"place_id,name,formatted_address,geometry,photos"},
	}
	var resp detailsResponse
	if err := c.call(ctx, "place_details", "/maps/api/place/details/json", params, &resp); err != nil {
		return PlaceDetails{}, err
	}
	r := resp.Result
	d := PlaceDetails{
		ID:          placeID,
		Name:        r.Name,
		Address:     r.FormattedAddress,
		Coordinates: domain.Coordinates{Lat: r.Geometry.Location.Lat, Lng: r.Geometry.Location.Lng},
	}
	if len(r.Photos) > 0 {
		d.PhotoRef = r.Photos[0].PhotoReference
	}
	return d, nil
}

func providerMode(mode domain.TransportMode) (string, error) {
	switch mode {
	case "", domain.ModeWalking:
		return "walking", nil
	case domain.ModeTransit:
		return "transit", nil
	case domain.ModeCar:
		return "driving", nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedMode, mode)
	}
}

// call performs one logical request with retries and reports it to the observer.
func (c *Client) call(parent context.Context, op, path string, params url.Values, out replier) error {
	if !c.cfg.Enabled() {
		return fmt.Errorf("maps.Client.%s: %w", op, ErrDisabled)
	}
	start := time.Now()
	ctx, cancel := context.WithTimeout(parent, c.cfg.Timeout())
	defer cancel()

	q := url.Values{}
	for k, v := range params {
		q[k] = v
	}
	q.Set("key", c.cfg.APIKey)
	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + path + "?" + q.Encode()

	var (
		lastErr  error
		attempts int
	)
	for attempts < 1+c.cfg.MaxRetries {
		attempts++
		lastErr = c.do(ctx, endpoint, out)
		// Don't retry on success, permanent errors or cancellation.
		if lastErr == nil || !retryable(lastErr) || ctx.Err() != nil {
			break
		}
	}

	err := classify(parent, ctx, lastErr)
	c.observer.OnCallComplete(parent, CallEvent{
		Op:        op,
		Attempts:  attempts,
		LatencyMs: time.Since(start).Milliseconds(),
		Success:   err == nil,
		ErrorCode: errorCode(err),
	})
	if err != nil {
		return fmt.Errorf("maps.Client.%s: %w", op, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, endpoint string, out replier) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("%w: reading response: %v", errTransient, err)
	}

	switch {
	case resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests:
		return fmt.Errorf("%w: http status %d", errTransient, resp.StatusCode)
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: http status %d", ErrDenied, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("%w: http status %d", ErrInvalidRequest, resp.StatusCode)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return out.reply().err()
}

// classify maps the last attempt's error onto the package sentinels.
// A cancelled parent context is passed through untouched so callers can
// tell a superseded request from a failing service.
func classify(parent, ctx context.Context, err error) error {
	switch {
	case err == nil:
		return nil
	case parent.Err() != nil:
		return parent.Err()
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return ErrTimeout
	case isConnectionError(err):
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	case errors.Is(err, errTransient):
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	default:
		return err
	}
}
