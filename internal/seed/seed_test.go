package seed

import (
	"context"
	"testing"

	"github.com/PR0XCITY/ResQ-Connect/internal/models"
	"github.com/PR0XCITY/ResQ-Connect/internal/storage"
	"github.com/PR0XCITY/ResQ-Connect/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s := store.New(storage.NewMemory())
	t.Cleanup(s.Close)
	return s
}

func TestLoad_Fixtures(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	if err := Load(ctx, s, "testdata/fixtures.json"); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	reports, err := s.ListReports(ctx, 0, 0)
	if err != nil {
		t.Fatalf("ListReports failed: %v", err)
	}
	if len(reports) != 3 {
		t.Fatalf("expected 3 seeded reports, got %d", len(reports))
	}
	for _, r := range reports {
		if r.ReporterID == "" {
			t.Errorf("report %q has no reporter", r.Description)
		}
	}

	// The fixture's bad severity falls back to medium.
	found := false
	for _, r := range reports {
		if r.DisasterType == models.DisasterTypeFire {
			found = true
			if r.Severity != models.SeverityMedium {
				t.Errorf("expected fallback severity medium, got %s", r.Severity)
			}
		}
	}
	if !found {
		t.Error("fire report missing from seeded data")
	}

	// The open-ring zone is skipped, the closed one kept.
	zones, err := s.DangerZones(ctx)
	if err != nil {
		t.Fatalf("DangerZones failed: %v", err)
	}
	if len(zones) != 1 || zones[0].Name != "Bagmati floodplain" {
		t.Errorf("expected only the closed zone, got %+v", zones)
	}
}

func TestLoad_SkipsNonEmptyStore(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	if _, err := s.ReportDisaster(ctx, "user-1", store.ReportInput{
		DisasterType: models.DisasterTypeOther,
		Description:  "existing report",
		Severity:     models.SeverityLow,
	}); err != nil {
		t.Fatalf("ReportDisaster failed: %v", err)
	}

	if err := Load(ctx, s, "testdata/fixtures.json"); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	reports, _ := s.ListReports(ctx, 0, 0)
	if len(reports) != 1 {
		t.Errorf("expected seeding to be skipped, got %d reports", len(reports))
	}
}

func TestLoad_NoPath(t *testing.T) {
	if err := Load(context.Background(), newTestStore(t), ""); err != nil {
		t.Errorf("expected nil for empty path, got %v", err)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if err := Load(context.Background(), newTestStore(t), "testdata/nope.json"); err == nil {
		t.Error("expected error for missing file")
	}
}
