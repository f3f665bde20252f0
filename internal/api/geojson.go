package api

import (
	"github.com/PR0XCITY/ResQ-Connect/internal/models"
)

type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}
type Feature struct {
	Type       string         `json:"type"`
	Geometry   Geometry       `json:"geometry"`
	Properties map[string]any `json:"properties"`
}
type Geometry struct {
	Type        string `json:"type"`
	Coordinates any    `json:"coordinates"`
}

func reportsToGeoJSON(reports []models.DisasterReport) FeatureCollection {
	features := make([]Feature, 0, len(reports))

	for _, r := range reports {
		f := Feature{
			Type: "Feature",
			Geometry: Geometry{
				Type:        "Point",
				Coordinates: []float64{r.Longitude, r.Latitude},
			},
			Properties: map[string]any{
				"id":           r.ID,
				"disasterType": r.DisasterType,
				"description":  r.Description,
				"severity":     r.Severity,
				"status":       r.Status,
				"reporterId":   r.ReporterID,
				"createdAt":    r.CreatedAt,
			},
		}
		if r.PhotoURL != "" {
			f.Properties["photoUrl"] = r.PhotoURL
		}
		if r.BlockchainHash != "" {
			f.Properties["blockchainHash"] = r.BlockchainHash
		}
		features = append(features, f)
	}

	return FeatureCollection{
		Type:     "FeatureCollection",
		Features: features,
	}
}

func zonesToGeoJSON(zones []models.DangerZone) FeatureCollection {
	features := make([]Feature, 0, len(zones))

	for _, z := range zones {
		f := Feature{
			Type: "Feature",
			Geometry: Geometry{
				Type:        "Polygon",
				Coordinates: []models.Ring{z.Polygon},
			},
			Properties: map[string]any{
				"id":        z.ID,
				"name":      z.Name,
				"zoneType":  z.ZoneType,
				"severity":  z.Severity,
				"createdAt": z.CreatedAt,
			},
		}
		features = append(features, f)
	}

	return FeatureCollection{
		Type:     "FeatureCollection",
		Features: features,
	}
}
