// README: Service areas and zone resolution results.
package geo

import (
	"lastmile/internal/config"
	"lastmile/internal/types"
)

// ServiceArea is a named circular region within which delivery is offered.
type ServiceArea struct {
	Name         string      `json:"name"`
	PostalCode   string      `json:"postal_code"`
	Center       types.Point `json:"center"`
	RadiusMeters float64     `json:"radius_m"`
}

// AreasFromConfig converts the static data file entries into runtime areas.
func AreasFromConfig(configs []config.ServiceAreaConfig) []ServiceArea {
	out := make([]ServiceArea, 0, len(configs))
	for _, c := range configs {
		out = append(out, ServiceArea{
			Name:         c.Name,
			PostalCode:   c.PostalCode,
			Center:       c.Center,
			RadiusMeters: c.RadiusMeters,
		})
	}
	return out
}

// Contains reports whether p falls inside the area.
func (a ServiceArea) Contains(p types.Point) bool {
	return DistanceMeters(a.Center, p) <= a.RadiusMeters
}

// ZoneResult is the verdict for a coordinate. When Serviceable is false,
// Area is the nearest configured area and DistanceMeters the distance to its
// center. Area is nil only when no areas are configured at all.
type ZoneResult struct {
	Area           *ServiceArea `json:"area,omitempty"`
	DistanceMeters float64      `json:"distance_m"`
	Serviceable    bool         `json:"serviceable"`
}
