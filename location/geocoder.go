package location

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"net/url"
	"strconv"

	"food-delivery/api/config"
	"food-delivery/api/errs"
	"food-delivery/api/models"
)

// Geocoder resolves a free-text address to a coordinate through an external
// Kakao-style address search API.
type Geocoder struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewGeocoder(cfg config.GeocoderConfig) *Geocoder {
	return &Geocoder{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		client:  &http.Client{Timeout: cfg.Timeout},
	}
}

type geoResponse struct {
	Documents []struct {
		X string `json:"x"` // longitude
		Y string `json:"y"` // latitude
	} `json:"documents"`
}

// Geocode returns the coordinate for an address. Failures are classified:
// no match -> NO_COORDINATES_FOUND_FOR_ADDRESS, 4xx -> INVALID_REQUEST,
// transport/5xx -> EXTERNAL_API_ERROR.
func (g *Geocoder) Geocode(ctx context.Context, address string) (models.Coordinate, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL, nil)
	if err != nil {
		return models.Coordinate{}, errs.New(errs.InvalidRequest)
	}
	q := url.Values{}
	q.Set("query", address)
	q.Set("analyze_type", "exact")
	req.URL.RawQuery = q.Encode()
	req.Header.Set("Authorization", "KakaoAK "+g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		log.Printf("geocoder request failed for address %q: %v", address, err)
		return models.Coordinate{}, errs.New(errs.ExternalAPIError)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 500:
		log.Printf("geocoder server error for address %q: status %d", address, resp.StatusCode)
		return models.Coordinate{}, errs.New(errs.ExternalAPIError)
	case resp.StatusCode >= 400:
		log.Printf("geocoder rejected address %q: status %d", address, resp.StatusCode)
		return models.Coordinate{}, errs.New(errs.InvalidRequest)
	}

	var body geoResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return models.Coordinate{}, errs.New(errs.ExternalAPIError)
	}
	if len(body.Documents) == 0 {
		log.Printf("no coordinates found for address %q", address)
		return models.Coordinate{}, errs.New(errs.NoCoordinatesFoundForAddress)
	}

	doc := body.Documents[0]
	lon, err := strconv.ParseFloat(doc.X, 64)
	if err != nil {
		return models.Coordinate{}, errs.New(errs.ExternalAPIError)
	}
	lat, err := strconv.ParseFloat(doc.Y, 64)
	if err != nil {
		return models.Coordinate{}, errs.New(errs.ExternalAPIError)
	}

	return models.Coordinate{Latitude: lat, Longitude: lon}, nil
}
