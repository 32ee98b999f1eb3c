// Package geocoder resolves free-text addresses to coordinates through the
// MapQuest geocoding API.
package geocoder

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Mucyobrian123/DevCamp/internal/models"
)

const mapquestAPIURL = "https://www.mapquestapi.com/geocoding/v1/address"

// Client calls the MapQuest geocoding endpoint.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	configured bool
}

func NewClient(apiKey string) *Client {
	c := &Client{
		baseURL:    mapquestAPIURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	if apiKey != "" {
		c.apiKey = apiKey
		c.configured = true
	}
	return c
}

// IsConfigured returns true when an API key was supplied.
func (c *Client) IsConfigured() bool {
	return c.configured
}

type geocodeResponse struct {
	Results []struct {
		Locations []struct {
			Street     string `json:"street"`
			City       string `json:"adminArea5"`
			State      string `json:"adminArea3"`
			Country    string `json:"adminArea1"`
			PostalCode string `json:"postalCode"`
			LatLng     struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"latLng"`
		} `json:"locations"`
	} `json:"results"`
}

// Geocode maps an address to a GeoJSON point with normalized address
// fields. The coordinates order is [longitude, latitude].
func (c *Client) Geocode(ctx context.Context, address string) (*models.Location, error) {
	if !c.configured {
		return nil, errors.New("geocoder not configured, set geocoder.key")
	}
	if address == "" {
		return nil, errors.New("address cannot be empty")
	}

	params := url.Values{}
	params.Set("key", c.apiKey)
	params.Set("location", address)
	params.Set("maxResults", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create geocode request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geocode request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("geocoder API error: status %d", resp.StatusCode)
	}

	var body geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode geocode response: %w", err)
	}
	if len(body.Results) == 0 || len(body.Results[0].Locations) == 0 {
		return nil, fmt.Errorf("no geocoding result for %q", address)
	}

	loc := body.Results[0].Locations[0]
	return &models.Location{
		Type:             "Point",
		Coordinates:      []float64{loc.LatLng.Lng, loc.LatLng.Lat},
		FormattedAddress: formatAddress(loc.Street, loc.City, loc.State, loc.PostalCode, loc.Country),
		Street:           loc.Street,
		City:             loc.City,
		State:            loc.State,
		Zipcode:          loc.PostalCode,
		Country:          loc.Country,
	}, nil
}

func formatAddress(parts ...string) string {
	kept := parts[:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, ", ")
}
