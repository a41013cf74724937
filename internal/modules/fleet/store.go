// README: Courier position store backed by Redis GEO.
package fleet

import (
	"context"

	"github.com/redis/go-redis/v9"

	"lastmile/internal/types"
)

const courierGeoKey = "fleet:courier_pos"

// LocationStore keeps live courier positions in a Redis GEO set so the
// dashboard map and the proximity strategy share one view.
type LocationStore struct {
	redis *redis.Client
}

func NewLocationStore(r *redis.Client) *LocationStore {
	return &LocationStore{redis: r}
}

func (s *LocationStore) SetLocation(ctx context.Context, id types.ID, p types.Point) error {
	return s.redis.GeoAdd(ctx, courierGeoKey, &redis.GeoLocation{
		Name:      string(id),
		Longitude: p.Lng,
		Latitude:  p.Lat,
	}).Err()
}

// Location returns the courier's stored position, or ok=false when none has
// been recorded.
func (s *LocationStore) Location(ctx context.Context, id types.ID) (types.Point, bool, error) {
	pos, err := s.redis.GeoPos(ctx, courierGeoKey, string(id)).Result()
	if err != nil {
		return types.Point{}, false, err
	}
	if len(pos) == 0 || pos[0] == nil {
		return types.Point{}, false, nil
	}
	return types.Point{Lat: pos[0].Latitude, Lng: pos[0].Longitude}, true, nil
}

// Nearby returns courier IDs within radiusMeters of p, closest first.
func (s *LocationStore) Nearby(ctx context.Context, p types.Point, radiusMeters float64) ([]types.ID, error) {
	results, err := s.redis.GeoSearch(ctx, courierGeoKey, &redis.GeoSearchQuery{
		Longitude:  p.Lng,
		Latitude:   p.Lat,
		Radius:     radiusMeters,
		RadiusUnit: "m",
		Sort:       "ASC",
	}).Result()
	if err != nil {
		return nil, err
	}
	ids := make([]types.ID, len(results))
	for i, r := range results {
		ids[i] = types.ID(r)
	}
	return ids, nil
}
