// Package store implements the local disaster-data store: reports,
// danger zones, and the device profile/session, persisted as JSON
// collections through a storage.Adapter. The store is an explicit
// object created per adapter — there is no package-level singleton —
// so tests can run any number of isolated stores.
package store

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/PR0XCITY/ResQ-Connect/internal/broadcast"
	"github.com/PR0XCITY/ResQ-Connect/internal/geo"
	"github.com/PR0XCITY/ResQ-Connect/internal/ledger"
	"github.com/PR0XCITY/ResQ-Connect/internal/models"
	"github.com/PR0XCITY/ResQ-Connect/internal/storage"
)

// DefaultZoneRadiusKm is the containment radius around a danger zone's
// centroid.
const DefaultZoneRadiusKm = 5.0

var (
	// ErrAuthRequired is returned by write operations that need a
	// caller identity and got none.
	ErrAuthRequired = errors.New("store: reporter identity required")

	ErrEmptyDescription = errors.New("store: description must not be empty")
	ErrUnknownSeverity  = errors.New("store: unknown severity")
	ErrNegativeRange    = errors.New("store: limit and offset must be non-negative")
	ErrEmptyUsername    = errors.New("store: username must not be empty")
	ErrOpenRing         = errors.New("store: polygon ring must be closed")

	errQueueClosed = errors.New("store: closed")
)

// Attestor produces the blockchain-flavored attestation recorded on
// verified reports. It provides no real integrity guarantee.
type Attestor interface {
	Attest(recordID string, payload any) (ledger.Attestation, error)
}

type Store struct {
	adapter      storage.Adapter
	clock        clockwork.Clock
	queue        *writeQueue
	zoneRadiusKm float64
	attestor     Attestor
	broadcaster  *broadcast.Broadcaster
}

type Option func(*Store)

// WithClock swaps the time source; tests inject a fake clock.
func WithClock(c clockwork.Clock) Option {
	return func(s *Store) { s.clock = c }
}

// WithZoneRadius overrides the centroid containment radius.
func WithZoneRadius(km float64) Option {
	return func(s *Store) { s.zoneRadiusKm = km }
}

// WithAttestor enables attestation stamping on verified reports.
func WithAttestor(a Attestor) Option {
	return func(s *Store) { s.attestor = a }
}

// WithBroadcaster publishes each newly persisted report to subscribers.
func WithBroadcaster(b *broadcast.Broadcaster) Option {
	return func(s *Store) { s.broadcaster = b }
}

func New(adapter storage.Adapter, opts ...Option) *Store {
	s := &Store{
		adapter:      adapter,
		clock:        clockwork.NewRealClock(),
		queue:        newWriteQueue(),
		zoneRadiusKm: DefaultZoneRadiusKm,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Close drains pending writes. The store must not be used afterwards.
func (s *Store) Close() {
	s.queue.Close()
}

type ReportInput struct {
	DisasterType models.DisasterType `json:"disasterType"`
	Description  string              `json:"description"`
	Latitude     float64             `json:"latitude"`
	Longitude    float64             `json:"longitude"`
	PhotoURL     string              `json:"photoUrl"`
	Severity     models.Severity     `json:"severity"`
}

// ReportDisaster validates and persists a new report for reporterID,
// newest first. The returned report carries the store-assigned id,
// creation time, and open status.
func (s *Store) ReportDisaster(ctx context.Context, reporterID string, in ReportInput) (*models.DisasterReport, error) {
	if strings.TrimSpace(reporterID) == "" {
		return nil, ErrAuthRequired
	}
	if strings.TrimSpace(in.Description) == "" {
		return nil, ErrEmptyDescription
	}
	if _, ok := models.ParseSeverity(string(in.Severity)); !ok {
		return nil, ErrUnknownSeverity
	}

	report := &models.DisasterReport{
		ID:           uuid.NewString(),
		ReporterID:   reporterID,
		DisasterType: in.DisasterType,
		Description:  in.Description,
		Latitude:     in.Latitude,
		Longitude:    in.Longitude,
		PhotoURL:     in.PhotoURL,
		Status:       models.StatusOpen,
		Severity:     in.Severity,
		CreatedAt:    s.clock.Now().UTC(),
	}
	if report.DisasterType == "" {
		report.DisasterType = models.DisasterTypeOther
	}

	err := s.queue.Do(ctx, storage.KeyDisasters, func() error {
		reports := s.loadReports(ctx)
		reports = append([]models.DisasterReport{*report}, reports...)
		return storage.SetJSON(ctx, s.adapter, storage.KeyDisasters, reports)
	})
	if err != nil {
		return nil, err
	}

	if s.broadcaster != nil {
		s.broadcaster.Publish(report)
	}

	return report, nil
}

// ListReports returns a contiguous slice of the stored list in its
// stored (newest-first) order. limit == 0 means no cap; an offset past
// the end yields an empty slice.
func (s *Store) ListReports(ctx context.Context, limit, offset int) ([]models.DisasterReport, error) {
	if limit < 0 || offset < 0 {
		return nil, ErrNegativeRange
	}

	reports := s.loadReports(ctx)
	if offset >= len(reports) {
		return []models.DisasterReport{}, nil
	}
	reports = reports[offset:]
	if limit > 0 && len(reports) > limit {
		reports = reports[:limit]
	}
	return reports, nil
}

// ListReportsNear filters the full set to reports within radiusKm of
// the query point. Results keep the stored order; they are not sorted
// by distance.
func (s *Store) ListReportsNear(ctx context.Context, lat, lon, radiusKm float64, limit int) ([]models.DisasterReport, error) {
	if limit < 0 || radiusKm < 0 {
		return nil, ErrNegativeRange
	}

	matches := []models.DisasterReport{}
	for _, r := range s.loadReports(ctx) {
		if geo.DistanceKm(lat, lon, r.Latitude, r.Longitude) <= radiusKm {
			matches = append(matches, r)
			if limit > 0 && len(matches) == limit {
				break
			}
		}
	}
	return matches, nil
}

// VerifyReport moves a report to verified or false_alarm and stamps
// who verified it and when. Unknown ids are a silent no-op returning
// (nil, nil); the stored list is untouched.
func (s *Store) VerifyReport(ctx context.Context, id string, verified bool, verifierID string) (*models.DisasterReport, error) {
	var updated *models.DisasterReport

	err := s.queue.Do(ctx, storage.KeyDisasters, func() error {
		reports := s.loadReports(ctx)
		idx := -1
		for i := range reports {
			if reports[i].ID == id {
				idx = i
				break
			}
		}
		if idx < 0 {
			return nil
		}

		now := s.clock.Now().UTC()
		r := &reports[idx]
		if verified {
			r.Status = models.StatusVerified
		} else {
			r.Status = models.StatusFalseAlarm
		}
		r.VerifiedAt = &now
		r.VerifiedBy = verifierID

		if s.attestor != nil {
			att, err := s.attestor.Attest(r.ID, r)
			if err != nil {
				slog.Warn("attestation failed, verifying without hash", "id", r.ID, "error", err)
			} else {
				r.BlockchainHash = att.Hash
			}
		}

		if err := storage.SetJSON(ctx, s.adapter, storage.KeyDisasters, reports); err != nil {
			return err
		}
		clone := *r
		updated = &clone
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DangerZones returns active zones only.
func (s *Store) DangerZones(ctx context.Context) ([]models.DangerZone, error) {
	zones := s.loadZones(ctx)
	active := []models.DangerZone{}
	for _, z := range zones {
		if z.IsActive {
			active = append(active, z)
		}
	}
	return active, nil
}

type ZoneInput struct {
	Name        string          `json:"name"`
	ZoneType    models.ZoneType `json:"zoneType"`
	Severity    models.Severity `json:"severity"`
	Description string          `json:"description"`
	Polygon     models.Ring     `json:"polygon"`
}

// AddDangerZone persists a new active zone.
func (s *Store) AddDangerZone(ctx context.Context, in ZoneInput) (*models.DangerZone, error) {
	if !in.Polygon.Closed() {
		return nil, ErrOpenRing
	}
	if _, ok := models.ParseSeverity(string(in.Severity)); !ok {
		return nil, ErrUnknownSeverity
	}

	zone := &models.DangerZone{
		ID:          uuid.NewString(),
		Name:        in.Name,
		ZoneType:    in.ZoneType,
		Severity:    in.Severity,
		Description: in.Description,
		Polygon:     in.Polygon,
		IsActive:    true,
		CreatedAt:   s.clock.Now().UTC(),
	}
	if zone.ZoneType == "" {
		zone.ZoneType = models.ZoneTypeOther
	}

	err := s.queue.Do(ctx, storage.KeyDangerZones, func() error {
		zones := s.loadZones(ctx)
		zones = append(zones, *zone)
		return storage.SetJSON(ctx, s.adapter, storage.KeyDangerZones, zones)
	})
	if err != nil {
		return nil, err
	}
	return zone, nil
}

// ZonesContaining returns every active zone whose centroid lies within
// the configured radius of (lat, lon). Order is unspecified.
func (s *Store) ZonesContaining(ctx context.Context, lat, lon float64) ([]models.DangerZone, error) {
	matches := []models.DangerZone{}
	for _, z := range s.loadZones(ctx) {
		if !z.IsActive {
			continue
		}
		if geo.WithinZone(lat, lon, &z, s.zoneRadiusKm) {
			matches = append(matches, z)
		}
	}
	return matches, nil
}

// CreateProfile creates the device profile at sign-up.
func (s *Store) CreateProfile(ctx context.Context, username string) (*models.Profile, error) {
	if strings.TrimSpace(username) == "" {
		return nil, ErrEmptyUsername
	}

	profile := &models.Profile{
		ID:        uuid.NewString(),
		Username:  username,
		CreatedAt: s.clock.Now().UTC(),
	}

	err := s.queue.Do(ctx, storage.KeyUser, func() error {
		return storage.SetJSON(ctx, s.adapter, storage.KeyUser, profile)
	})
	if err != nil {
		return nil, err
	}
	return profile, nil
}

// Profile returns the stored profile, or (nil, nil) when none exists.
func (s *Store) Profile(ctx context.Context) (*models.Profile, error) {
	var p models.Profile
	if !storage.GetJSON(ctx, s.adapter, storage.KeyUser, &p) {
		return nil, nil
	}
	return &p, nil
}

// ProfileUpdate carries the partial fields of an update; nil pointers
// leave the current value in place.
type ProfileUpdate struct {
	FullName          *string             `json:"fullName"`
	Bio               *string             `json:"bio"`
	Location          *string             `json:"location"`
	EmergencyContacts []string            `json:"emergencyContacts"`
	Preferences       *models.Preferences `json:"preferences"`
}

// UpdateProfile merges upd into the stored profile and stamps
// UpdatedAt. Returns (nil, nil) when no profile exists.
func (s *Store) UpdateProfile(ctx context.Context, upd ProfileUpdate) (*models.Profile, error) {
	var updated *models.Profile

	err := s.queue.Do(ctx, storage.KeyUser, func() error {
		var p models.Profile
		if !storage.GetJSON(ctx, s.adapter, storage.KeyUser, &p) {
			return nil
		}

		if upd.FullName != nil {
			p.FullName = *upd.FullName
		}
		if upd.Bio != nil {
			p.Bio = *upd.Bio
		}
		if upd.Location != nil {
			p.Location = *upd.Location
		}
		if upd.EmergencyContacts != nil {
			p.EmergencyContacts = upd.EmergencyContacts
		}
		if upd.Preferences != nil {
			p.Preferences = *upd.Preferences
		}
		now := s.clock.Now().UTC()
		p.UpdatedAt = &now

		if err := storage.SetJSON(ctx, s.adapter, storage.KeyUser, &p); err != nil {
			return err
		}
		updated = &p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// SaveSession records p as the logged-in user.
func (s *Store) SaveSession(ctx context.Context, p *models.Profile) error {
	return s.queue.Do(ctx, storage.KeySession, func() error {
		return storage.SetJSON(ctx, s.adapter, storage.KeySession, models.Session{User: p})
	})
}

// Session returns the logged-in profile, or (nil, nil) when logged out.
func (s *Store) Session(ctx context.Context) (*models.Profile, error) {
	var sess models.Session
	if !storage.GetJSON(ctx, s.adapter, storage.KeySession, &sess) {
		return nil, nil
	}
	return sess.User, nil
}

// ClearSession logs out.
func (s *Store) ClearSession(ctx context.Context) error {
	return s.queue.Do(ctx, storage.KeySession, func() error {
		return s.adapter.Remove(ctx, storage.KeySession)
	})
}

// Empty reports whether the store holds no reports and no zones; the
// seed loader uses it to avoid double-loading fixtures.
func (s *Store) Empty(ctx context.Context) bool {
	return len(s.loadReports(ctx)) == 0 && len(s.loadZones(ctx)) == 0
}

func (s *Store) loadReports(ctx context.Context) []models.DisasterReport {
	var reports []models.DisasterReport
	storage.GetJSON(ctx, s.adapter, storage.KeyDisasters, &reports)
	return reports
}

func (s *Store) loadZones(ctx context.Context) []models.DangerZone {
	var zones []models.DangerZone
	storage.GetJSON(ctx, s.adapter, storage.KeyDangerZones, &zones)
	return zones
}
