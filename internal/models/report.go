package models

import (
	"strings"
	"time"
)

type DisasterType string

const (
	DisasterTypeFlood      DisasterType = "flood"
	DisasterTypeEarthquake DisasterType = "earthquake"
	DisasterTypeLandslide  DisasterType = "landslide"
	DisasterTypeStorm      DisasterType = "storm"
	DisasterTypeFire       DisasterType = "fire"
	DisasterTypeAccident   DisasterType = "accident"
	DisasterTypeOther      DisasterType = "other"
)

type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// rank orders severities for filtering; unknown values rank below low.
func (s Severity) rank() int {
	switch s {
	case SeverityLow:
		return 1
	case SeverityMedium:
		return 2
	case SeverityHigh:
		return 3
	case SeverityCritical:
		return 4
	default:
		return 0
	}
}

// AtLeast reports whether s is at or above min.
func (s Severity) AtLeast(min Severity) bool {
	return s.rank() >= min.rank()
}

type ReportStatus string

const (
	StatusOpen       ReportStatus = "open"
	StatusVerified   ReportStatus = "verified"
	StatusResolved   ReportStatus = "resolved"
	StatusFalseAlarm ReportStatus = "false_alarm"
)

type DisasterReport struct {
	ID             string       `json:"id"`
	ReporterID     string       `json:"reporterId"`
	DisasterType   DisasterType `json:"disasterType"`
	Description    string       `json:"description"`
	Latitude       float64      `json:"latitude"`
	Longitude      float64      `json:"longitude"`
	PhotoURL       string       `json:"photoUrl,omitempty"`
	Status         ReportStatus `json:"status"`
	Severity       Severity     `json:"severity"`
	CreatedAt      time.Time    `json:"createdAt"`
	VerifiedAt     *time.Time   `json:"verifiedAt,omitempty"`
	VerifiedBy     string       `json:"verifiedBy,omitempty"`
	BlockchainHash string       `json:"blockchainHash,omitempty"`
}

type Coordinates struct {
	Latitude  float64
	Longitude float64
}

func (r *DisasterReport) Coordinates() Coordinates {
	return Coordinates{
		Latitude:  r.Latitude,
		Longitude: r.Longitude,
	}
}

func ParseDisasterType(s string) DisasterType {
	switch strings.ToLower(s) {
	case "flood":
		return DisasterTypeFlood
	case "earthquake":
		return DisasterTypeEarthquake
	case "landslide":
		return DisasterTypeLandslide
	case "storm":
		return DisasterTypeStorm
	case "fire":
		return DisasterTypeFire
	case "accident":
		return DisasterTypeAccident
	default:
		return DisasterTypeOther
	}
}

// ParseSeverity returns the matching severity, or false for values
// outside the fixed enumeration.
func ParseSeverity(s string) (Severity, bool) {
	switch strings.ToLower(s) {
	case "low":
		return SeverityLow, true
	case "medium":
		return SeverityMedium, true
	case "high":
		return SeverityHigh, true
	case "critical":
		return SeverityCritical, true
	default:
		return "", false
	}
}
