// README: Static data file loader (couriers, service areas, slot pools).
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"lastmile/internal/types"
)

// CourierConfig is one courier record in the fleet file. Couriers are created
// once at startup; only the active flag and last-known position change at
// runtime.
type CourierConfig struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Phone     string       `json:"phone"`
	Vehicle   string       `json:"vehicle"`
	MaxOrders int          `json:"max_orders"`
	WorkStart int          `json:"work_start"`
	WorkEnd   int          `json:"work_end"`
	Zones     []string     `json:"zones"`
	Rating    float64      `json:"rating"`
	Active    bool         `json:"active"`
	LastKnown *types.Point `json:"last_known,omitempty"`
}

// ServiceAreaConfig is a serviceable zone: a named circle around a center.
type ServiceAreaConfig struct {
	Name         string      `json:"name"`
	PostalCode   string      `json:"postal_code"`
	Center       types.Point `json:"center"`
	RadiusMeters float64     `json:"radius_m"`
}

// SlotConfig is one time window in a pool. Start/End are HH:MM labels.
type SlotConfig struct {
	Start    string `json:"start"`
	End      string `json:"end"`
	Capacity int    `json:"capacity"`
}

// FleetFile is the full static data set loaded once at process start.
type FleetFile struct {
	Couriers        []CourierConfig     `json:"couriers"`
	ServiceAreas    []ServiceAreaConfig `json:"service_areas"`
	CollectionSlots []SlotConfig        `json:"collection_slots"`
	DeliverySlots   []SlotConfig        `json:"delivery_slots"`
}

func LoadFleetFile(path string) (FleetFile, error) {
	var f FleetFile
	raw, err := os.ReadFile(path)
	if err != nil {
		return f, fmt.Errorf("read fleet file: %w", err)
	}
	if err := json.Unmarshal(raw, &f); err != nil {
		return f, fmt.Errorf("parse fleet file: %w", err)
	}
	if err := f.validate(); err != nil {
		return f, err
	}
	return f, nil
}

func (f FleetFile) validate() error {
	seen := make(map[string]struct{}, len(f.Couriers))
	for _, c := range f.Couriers {
		if c.ID == "" || c.Name == "" {
			return fmt.Errorf("courier %q: id and name are required", c.ID)
		}
		if _, dup := seen[c.ID]; dup {
			return fmt.Errorf("courier %q: duplicate id", c.ID)
		}
		seen[c.ID] = struct{}{}
		if c.MaxOrders < 1 {
			return fmt.Errorf("courier %q: max_orders must be >= 1", c.ID)
		}
		if c.WorkStart < 0 || c.WorkStart > 23 || c.WorkEnd < 0 || c.WorkEnd > 23 {
			return fmt.Errorf("courier %q: work hours must be 0..23", c.ID)
		}
		if c.Rating < 0 || c.Rating > 5 {
			return fmt.Errorf("courier %q: rating must be 0..5", c.ID)
		}
	}
	for _, a := range f.ServiceAreas {
		if a.Name == "" {
			return fmt.Errorf("service area with empty name")
		}
		if a.RadiusMeters <= 0 {
			return fmt.Errorf("service area %q: radius_m must be > 0", a.Name)
		}
	}
	for _, pool := range [][]SlotConfig{f.CollectionSlots, f.DeliverySlots} {
		for _, s := range pool {
			if s.Start == "" || s.End == "" {
				return fmt.Errorf("slot with empty start/end label")
			}
			if s.Capacity < 0 {
				return fmt.Errorf("slot %s: capacity must be >= 0", s.Start)
			}
		}
	}
	return nil
}
