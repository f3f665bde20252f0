package api

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"

	"github.com/PR0XCITY/ResQ-Connect/internal/broadcast"
	"github.com/PR0XCITY/ResQ-Connect/internal/hazard"
	"github.com/PR0XCITY/ResQ-Connect/internal/models"
	"github.com/PR0XCITY/ResQ-Connect/internal/observability"
	"github.com/PR0XCITY/ResQ-Connect/internal/store"
)

// reporterHeader carries the caller identity. There is no real auth;
// the prototype's auth layer just forwards whatever identity it holds.
const reporterHeader = "X-Reporter-ID"

const (
	defaultListLimit = 20
	maxListLimit     = 500
	defaultNearLimit = 50
	defaultRadiusKm  = 25.0
)

type Handler struct {
	store       *store.Store
	broadcaster *broadcast.Broadcaster
	metrics     *observability.Metrics
	clock       clockwork.Clock
}

func NewHandler(s *store.Store, b *broadcast.Broadcaster, m *observability.Metrics) *Handler {
	return &Handler{
		store:       s,
		broadcaster: b,
		metrics:     m,
		clock:       clockwork.NewRealClock(),
	}
}

// SetClock swaps the handler's time source for tests.
func (h *Handler) SetClock(c clockwork.Clock) {
	h.clock = c
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.health)

	r.GET("/api/reports", h.getReports)
	r.POST("/api/reports", h.createReport)
	r.GET("/api/reports/near", h.getReportsNear)
	r.POST("/api/reports/:id/verify", h.verifyReport)

	r.GET("/api/zones", h.getZones)
	r.POST("/api/zones", h.createZone)
	r.GET("/api/zones/containing", h.getZonesContaining)

	r.GET("/api/summary", h.getSummary)
	r.GET("/api/stream", h.streamReports)

	r.POST("/api/profile", h.createProfile)
	r.GET("/api/profile", h.getProfile)
	r.PATCH("/api/profile", h.updateProfile)
	r.POST("/api/session", h.createSession)
	r.DELETE("/api/session", h.deleteSession)
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) getReports(c *gin.Context) {
	limit := defaultListLimit
	offset := 0

	if l := c.Query("limit"); l != "" {
		if v, err := strconv.Atoi(l); err == nil && v >= 0 && v <= maxListLimit {
			limit = v
		}
	}
	if o := c.Query("offset"); o != "" {
		if v, err := strconv.Atoi(o); err == nil && v >= 0 {
			offset = v
		}
	}

	reports, err := h.store.ListReports(c.Request.Context(), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch reports"})
		return
	}

	c.Header("Content-Type", "application/geo+json")
	c.JSON(http.StatusOK, reportsToGeoJSON(reports))
}

type createReportRequest struct {
	DisasterType string  `json:"disasterType"`
	Description  string  `json:"description"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	PhotoURL     string  `json:"photoUrl"`
	Severity     string  `json:"severity"`
}

func (h *Handler) createReport(c *gin.Context) {
	var req createReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	severity, ok := models.ParseSeverity(req.Severity)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown severity"})
		return
	}

	report, err := h.store.ReportDisaster(c.Request.Context(), c.GetHeader(reporterHeader), store.ReportInput{
		DisasterType: models.ParseDisasterType(req.DisasterType),
		Description:  req.Description,
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		PhotoURL:     req.PhotoURL,
		Severity:     severity,
	})
	if err != nil {
		switch {
		case errors.Is(err, store.ErrAuthRequired):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "reporter identity required"})
		case errors.Is(err, store.ErrEmptyDescription):
			c.JSON(http.StatusBadRequest, gin.H{"error": "description must not be empty"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save report"})
		}
		return
	}

	if h.metrics != nil {
		h.metrics.ReportsCreated.Inc()
	}
	c.JSON(http.StatusCreated, report)
}

func (h *Handler) getReportsNear(c *gin.Context) {
	lat, latErr := strconv.ParseFloat(c.Query("lat"), 64)
	lon, lonErr := strconv.ParseFloat(c.Query("lon"), 64)
	if latErr != nil || lonErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "lat and lon are required"})
		return
	}

	radiusKm := defaultRadiusKm
	if r := c.Query("radius_km"); r != "" {
		v, err := strconv.ParseFloat(r, 64)
		if err != nil || v < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid radius_km"})
			return
		}
		radiusKm = v
	}

	limit := defaultNearLimit
	if l := c.Query("limit"); l != "" {
		if v, err := strconv.Atoi(l); err == nil && v >= 0 && v <= maxListLimit {
			limit = v
		}
	}

	reports, err := h.store.ListReportsNear(c.Request.Context(), lat, lon, radiusKm, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch reports"})
		return
	}

	if h.metrics != nil {
		h.metrics.NearQueries.Inc()
	}
	c.Header("Content-Type", "application/geo+json")
	c.JSON(http.StatusOK, reportsToGeoJSON(reports))
}

type verifyRequest struct {
	Verified *bool `json:"verified"`
}

func (h *Handler) verifyReport(c *gin.Context) {
	verifier := c.GetHeader(reporterHeader)
	if verifier == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "verifier identity required"})
		return
	}

	var req verifyRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Verified == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "verified flag is required"})
		return
	}

	report, err := h.store.VerifyReport(c.Request.Context(), c.Param("id"), *req.Verified, verifier)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to verify report"})
		return
	}
	if report == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "report not found"})
		return
	}

	if h.metrics != nil {
		h.metrics.ReportsVerified.WithLabelValues(string(report.Status)).Inc()
	}
	c.JSON(http.StatusOK, report)
}

func (h *Handler) getZones(c *gin.Context) {
	zones, err := h.store.DangerZones(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch zones"})
		return
	}

	c.Header("Content-Type", "application/geo+json")
	c.JSON(http.StatusOK, zonesToGeoJSON(zones))
}

type createZoneRequest struct {
	Name        string      `json:"name"`
	ZoneType    string      `json:"zoneType"`
	Severity    string      `json:"severity"`
	Description string      `json:"description"`
	Polygon     models.Ring `json:"polygon"`
}

func (h *Handler) createZone(c *gin.Context) {
	var req createZoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	severity, ok := models.ParseSeverity(req.Severity)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown severity"})
		return
	}

	zone, err := h.store.AddDangerZone(c.Request.Context(), store.ZoneInput{
		Name:        req.Name,
		ZoneType:    models.ParseZoneType(req.ZoneType),
		Severity:    severity,
		Description: req.Description,
		Polygon:     req.Polygon,
	})
	if err != nil {
		if errors.Is(err, store.ErrOpenRing) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "polygon ring must be closed"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save zone"})
		return
	}

	c.JSON(http.StatusCreated, zone)
}

func (h *Handler) getZonesContaining(c *gin.Context) {
	lat, latErr := strconv.ParseFloat(c.Query("lat"), 64)
	lon, lonErr := strconv.ParseFloat(c.Query("lon"), 64)
	if latErr != nil || lonErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "lat and lon are required"})
		return
	}

	zones, err := h.store.ZonesContaining(c.Request.Context(), lat, lon)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to check zones"})
		return
	}

	if h.metrics != nil {
		h.metrics.ZoneQueries.Inc()
	}
	c.JSON(http.StatusOK, zones)
}

func (h *Handler) getSummary(c *gin.Context) {
	reports, err := h.store.ListReports(c.Request.Context(), 0, 0)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch reports"})
		return
	}

	if h.metrics != nil {
		h.metrics.SummaryRequests.Inc()
	}
	c.JSON(http.StatusOK, hazard.Summarize(reports, h.clock.Now().UTC()))
}

// streamReports pushes new reports to the client as server-sent
// events until the client disconnects or the broadcaster closes.
func (h *Handler) streamReports(c *gin.Context) {
	if h.broadcaster == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "streaming disabled"})
		return
	}

	minSeverity := models.SeverityLow
	if ms := c.Query("min_severity"); ms != "" {
		sev, ok := models.ParseSeverity(ms)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown severity"})
			return
		}
		minSeverity = sev
	}

	id, ch := h.broadcaster.Subscribe(minSeverity)
	defer h.broadcaster.Unsubscribe(id)

	if h.metrics != nil {
		h.metrics.StreamClients.Inc()
		defer h.metrics.StreamClients.Dec()
	}

	c.Stream(func(w io.Writer) bool {
		select {
		case report, ok := <-ch:
			if !ok {
				return false
			}
			c.SSEvent("report", report)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}

type createProfileRequest struct {
	Username string `json:"username"`
}

func (h *Handler) createProfile(c *gin.Context) {
	var req createProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	profile, err := h.store.CreateProfile(c.Request.Context(), req.Username)
	if err != nil {
		if errors.Is(err, store.ErrEmptyUsername) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "username must not be empty"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save profile"})
		return
	}

	c.JSON(http.StatusCreated, profile)
}

func (h *Handler) getProfile(c *gin.Context) {
	profile, err := h.store.Profile(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch profile"})
		return
	}
	if profile == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no profile"})
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *Handler) updateProfile(c *gin.Context) {
	var upd store.ProfileUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	profile, err := h.store.UpdateProfile(c.Request.Context(), upd)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update profile"})
		return
	}
	if profile == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no profile"})
		return
	}
	c.JSON(http.StatusOK, profile)
}

// createSession logs the stored profile in. The prototype has no
// passwords; login just snapshots the profile into the session blob.
func (h *Handler) createSession(c *gin.Context) {
	profile, err := h.store.Profile(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch profile"})
		return
	}
	if profile == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no profile"})
		return
	}

	if err := h.store.SaveSession(c.Request.Context(), profile); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save session"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"user": profile})
}

func (h *Handler) deleteSession(c *gin.Context) {
	if err := h.store.ClearSession(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to clear session"})
		return
	}
	c.Status(http.StatusNoContent)
}
