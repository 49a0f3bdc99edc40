package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"storefront-service/internal/util"

	"go.uber.org/zap"
)

// Result is a best-effort resolved address.
type Result struct {
	FormattedAddress string `json:"formatted_address"`
	City             string `json:"city"`
	State            string `json:"state"`
	PostalCode       string `json:"postal_code"`
}

// Geocoder resolves free-text queries and coordinates to addresses.
// Failures must degrade to manual address entry, never block checkout.
type Geocoder interface {
	Geocode(ctx context.Context, query string) (*Result, error)
	ReverseGeocode(ctx context.Context, lat, lng float64) (*Result, error)
}

// Client talks to a Nominatim-compatible geocoding endpoint.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a geocoding client with a bounded request timeout.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 5 * time.Second},
		logger:     util.GetLogger(),
	}
}

type nominatimPlace struct {
	DisplayName string `json:"display_name"`
	Address     struct {
		City     string `json:"city"`
		Town     string `json:"town"`
		State    string `json:"state"`
		Postcode string `json:"postcode"`
	} `json:"address"`
}

// Geocode resolves a free-text query to the best-matching address.
func (c *Client) Geocode(ctx context.Context, query string) (*Result, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("addressdetails", "1")
	params.Set("limit", "1")

	var places []nominatimPlace
	if err := c.get(ctx, c.baseURL+"/search?"+params.Encode(), &places); err != nil {
		return nil, err
	}
	if len(places) == 0 {
		util.GeocodeFailuresTotal.Inc()
		return nil, fmt.Errorf("no results for %q", query)
	}
	return toResult(places[0]), nil
}

// ReverseGeocode resolves coordinates to an address.
func (c *Client) ReverseGeocode(ctx context.Context, lat, lng float64) (*Result, error) {
	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(lng, 'f', -1, 64))
	params.Set("format", "json")
	params.Set("addressdetails", "1")

	var place nominatimPlace
	if err := c.get(ctx, c.baseURL+"/reverse?"+params.Encode(), &place); err != nil {
		return nil, err
	}
	if place.DisplayName == "" {
		util.GeocodeFailuresTotal.Inc()
		return nil, fmt.Errorf("no result for %f,%f", lat, lng)
	}
	return toResult(place), nil
}

func (c *Client) get(ctx context.Context, rawURL string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		util.GeocodeFailuresTotal.Inc()
		c.logger.Warn("Geocoding request failed", zap.Error(err))
		return fmt.Errorf("geocoding request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		util.GeocodeFailuresTotal.Inc()
		return fmt.Errorf("geocoding provider returned %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		util.GeocodeFailuresTotal.Inc()
		return fmt.Errorf("failed to decode geocoding response: %w", err)
	}
	return nil
}

func toResult(p nominatimPlace) *Result {
	city := p.Address.City
	if city == "" {
		city = p.Address.Town
	}
	return &Result{
		FormattedAddress: p.DisplayName,
		City:             city,
		State:            p.Address.State,
		PostalCode:       p.Address.Postcode,
	}
}
