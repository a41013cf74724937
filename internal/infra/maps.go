// README: Google Maps client initialization with an outbound request throttle.
package infra

import (
	"fmt"

	"googlemaps.github.io/maps"
)

// NewMapsClient builds a Maps client throttled to rps outbound requests per
// second. The client queues requests above the limit instead of failing them,
// so a burst of lookups is delayed, never dropped.
func NewMapsClient(apiKey string, rps int) (*maps.Client, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey), maps.WithRateLimit(rps))
	if err != nil {
		return nil, fmt.Errorf("create maps client: %w", err)
	}
	return client, nil
}
