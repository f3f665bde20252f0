// Package seed loads demo fixtures (danger zones and reports) into an
// empty store so a fresh install has something to render on the map.
package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/PR0XCITY/ResQ-Connect/internal/models"
	"github.com/PR0XCITY/ResQ-Connect/internal/store"
)

type fixtureReport struct {
	ReporterID   string  `json:"reporterId"`
	DisasterType string  `json:"disasterType"`
	Description  string  `json:"description"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	PhotoURL     string  `json:"photoUrl"`
	Severity     string  `json:"severity"`
}

type fixtureZone struct {
	Name        string      `json:"name"`
	ZoneType    string      `json:"zoneType"`
	Severity    string      `json:"severity"`
	Description string      `json:"description"`
	Polygon     models.Ring `json:"polygon"`
}

type fixtures struct {
	Reports []fixtureReport `json:"reports"`
	Zones   []fixtureZone   `json:"zones"`
}

// Load reads the fixture file at path and submits its contents through
// the store's regular write operations. A store that already holds
// data is left alone.
func Load(ctx context.Context, s *store.Store, path string) error {
	if path == "" {
		return nil
	}
	if !s.Empty(ctx) {
		slog.Debug("store not empty, skipping seed", "path", path)
		return nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("error reading seed file: %w", err)
	}

	var fx fixtures
	if err := json.Unmarshal(raw, &fx); err != nil {
		return fmt.Errorf("error decoding seed file: %w", err)
	}

	for _, z := range fx.Zones {
		severity, ok := models.ParseSeverity(z.Severity)
		if !ok {
			severity = models.SeverityMedium
		}
		_, err := s.AddDangerZone(ctx, store.ZoneInput{
			Name:        z.Name,
			ZoneType:    models.ParseZoneType(z.ZoneType),
			Severity:    severity,
			Description: z.Description,
			Polygon:     z.Polygon,
		})
		if err != nil {
			slog.Warn("skipping seed zone", "name", z.Name, "error", err)
		}
	}

	for _, r := range fx.Reports {
		reporter := r.ReporterID
		if reporter == "" {
			reporter = "seed"
		}
		severity, ok := models.ParseSeverity(r.Severity)
		if !ok {
			severity = models.SeverityMedium
		}
		_, err := s.ReportDisaster(ctx, reporter, store.ReportInput{
			DisasterType: models.ParseDisasterType(r.DisasterType),
			Description:  r.Description,
			Latitude:     r.Latitude,
			Longitude:    r.Longitude,
			PhotoURL:     r.PhotoURL,
			Severity:     severity,
		})
		if err != nil {
			slog.Warn("skipping seed report", "description", r.Description, "error", err)
		}
	}

	slog.Info("seeded store", "reports", len(fx.Reports), "zones", len(fx.Zones))
	return nil
}
