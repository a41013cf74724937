// README: Google Maps geocoding adapter (reverse and forward lookups).
package maps

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"googlemaps.github.io/maps"

	"lastmile/internal/types"
)

// ErrNoResult is returned when the lookup succeeds but matches nothing.
var ErrNoResult = errors.New("no geocoding results")

// Address is a fully resolved lookup result. A partially resolved address is
// never returned; callers get either this or an error.
type Address struct {
	Formatted  string      `json:"formatted"`
	Street     string      `json:"street"`
	City       string      `json:"city"`
	PostalCode string      `json:"postal_code"`
	Point      types.Point `json:"point"`
}

// GeocodeService handles interactions with the Google Geocoding API.
// The underlying client is rate-limited at construction (see infra); requests
// above the limit queue until the window elapses.
type GeocodeService struct {
	client *maps.Client
}

func NewGeocodeService(client *maps.Client) *GeocodeService {
	return &GeocodeService{client: client}
}

// ReverseGeocode resolves a coordinate to the best-matching address.
func (s *GeocodeService) ReverseGeocode(ctx context.Context, p types.Point) (Address, error) {
	r := &maps.GeocodingRequest{
		LatLng: &maps.LatLng{Lat: p.Lat, Lng: p.Lng},
	}
	results, err := s.client.ReverseGeocode(ctx, r)
	if err != nil {
		return Address{}, fmt.Errorf("reverse geocode: %w", err)
	}
	if len(results) == 0 {
		return Address{}, ErrNoResult
	}
	return toAddress(results[0]), nil
}

// Geocode resolves a free-text query to candidate addresses.
func (s *GeocodeService) Geocode(ctx context.Context, query string) ([]Address, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrNoResult
	}
	r := &maps.GeocodingRequest{Address: query}
	results, err := s.client.Geocode(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("geocode %q: %w", query, err)
	}
	if len(results) == 0 {
		return nil, ErrNoResult
	}
	out := make([]Address, 0, len(results))
	for _, res := range results {
		out = append(out, toAddress(res))
	}
	return out, nil
}

func toAddress(r maps.GeocodingResult) Address {
	a := Address{
		Formatted: r.FormattedAddress,
		Point: types.Point{
			Lat: r.Geometry.Location.Lat,
			Lng: r.Geometry.Location.Lng,
		},
	}
	for _, c := range r.AddressComponents {
		for _, t := range c.Types {
			switch t {
			case "route":
				a.Street = c.LongName
			case "locality", "postal_town":
				a.City = c.LongName
			case "postal_code":
				a.PostalCode = c.LongName
			}
		}
	}
	return a
}
