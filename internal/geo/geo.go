// Package geo holds the small geospatial helpers the store queries are
// built on. Both are deliberately naive: distance is great-circle
// haversine, and zone containment is "within a fixed radius of the
// polygon's vertex-average centroid" rather than true point-in-polygon.
// The approximation is part of the store's contract — callers render
// danger zones as circles around the centroid — so do not upgrade it to
// real containment without changing the consumers too.
package geo

import (
	"math"

	"github.com/PR0XCITY/ResQ-Connect/internal/models"
)

// EarthRadiusKm is the mean Earth radius used by the haversine formula.
const EarthRadiusKm = 6371.0

// DistanceKm returns the great-circle distance in kilometers between
// two WGS84 coordinates.
func DistanceKm(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := radians(lat2 - lat1)
	dLon := radians(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(radians(lat1))*math.Cos(radians(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusKm * c
}

// RingCentroid returns the arithmetic mean of the ring's vertices as
// (lat, lng). Not area-weighted. When the ring is closed the duplicate
// closing vertex is skipped so it is not counted twice. An empty ring
// yields (0, 0).
func RingCentroid(ring models.Ring) (lat, lng float64) {
	n := len(ring)
	if n == 0 {
		return 0, 0
	}
	if n > 1 && ring[0] == ring[n-1] {
		n--
	}

	var sumLat, sumLng float64
	for _, p := range ring[:n] {
		// Ring points are [lng, lat] pairs, GeoJSON order.
		sumLng += p[0]
		sumLat += p[1]
	}
	return sumLat / float64(n), sumLng / float64(n)
}

// WithinZone reports whether (lat, lon) falls inside the zone under the
// centroid-radius approximation.
func WithinZone(lat, lon float64, zone *models.DangerZone, radiusKm float64) bool {
	cLat, cLng := RingCentroid(zone.Polygon)
	return DistanceKm(lat, lon, cLat, cLng) <= radiusKm
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
