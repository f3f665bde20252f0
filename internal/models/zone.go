package models

import (
	"strings"
	"time"
)

type ZoneType string

const (
	ZoneTypeDisaster     ZoneType = "disaster"
	ZoneTypeCrime        ZoneType = "crime"
	ZoneTypeConstruction ZoneType = "construction"
	ZoneTypeWeather      ZoneType = "weather"
	ZoneTypeOther        ZoneType = "other"
)

// Ring is a simple closed polygon ring of [lng, lat] pairs; the first
// and last point are equal.
type Ring [][2]float64

// Closed reports whether the ring has at least 4 points and its first
// and last points coincide.
func (r Ring) Closed() bool {
	if len(r) < 4 {
		return false
	}
	return r[0] == r[len(r)-1]
}

type DangerZone struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	ZoneType    ZoneType  `json:"zoneType"`
	Severity    Severity  `json:"severity"`
	Description string    `json:"description,omitempty"`
	Polygon     Ring      `json:"polygon"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
}

func ParseZoneType(s string) ZoneType {
	switch strings.ToLower(s) {
	case "disaster":
		return ZoneTypeDisaster
	case "crime":
		return ZoneTypeCrime
	case "construction":
		return ZoneTypeConstruction
	case "weather":
		return ZoneTypeWeather
	default:
		return ZoneTypeOther
	}
}
