// Package hazard derives a coarse risk picture from the current report
// set. It is a fixed heuristic over counts and severities — fully
// deterministic for a given input and instant, no network, no learning.
package hazard

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/PR0XCITY/ResQ-Connect/internal/models"
)

// recentWindow is how far back a report still counts as "recent".
const recentWindow = 24 * time.Hour

// Severity weights. Medium and low contribute nothing; the asymmetry
// is intentional and keeps quiet periods from drifting upward.
const (
	weightCritical = 0.5
	weightHigh     = 0.3
)

type Summary struct {
	OverallRisk     float64         `json:"overallRisk"`
	RiskLevel       models.Severity `json:"riskLevel"`
	Recommendations []string        `json:"recommendations"`
	AffectedAreas   []Area          `json:"affectedAreas"`
}

// Area is a cluster of reports bucketed to ~1 km (0.01 degree).
type Area struct {
	Latitude     float64             `json:"latitude"`
	Longitude    float64             `json:"longitude"`
	ReportCount  int                 `json:"reportCount"`
	DominantType models.DisasterType `json:"dominantType"`
}

// Summarize scores the report set as of now. No reports means zero
// risk.
func Summarize(reports []models.DisasterReport, now time.Time) Summary {
	if len(reports) == 0 {
		return Summary{
			OverallRisk:     0,
			RiskLevel:       models.SeverityLow,
			Recommendations: recommendations(models.SeverityLow, ""),
			AffectedAreas:   []Area{},
		}
	}

	cutoff := now.Add(-recentWindow)
	var recent int
	var weightedSeverity float64
	typeCounts := make(map[models.DisasterType]int)

	for _, r := range reports {
		if r.CreatedAt.After(cutoff) {
			recent++
		}
		switch r.Severity {
		case models.SeverityCritical:
			weightedSeverity += weightCritical
		case models.SeverityHigh:
			weightedSeverity += weightHigh
		}
		typeCounts[r.DisasterType]++
	}

	recentWeight := math.Min(float64(recent)/10, 1)
	risk := clamp01(0.5*recentWeight + 0.5*(weightedSeverity/float64(len(reports))))
	level := riskLevel(risk)

	return Summary{
		OverallRisk:     risk,
		RiskLevel:       level,
		Recommendations: recommendations(level, dominantType(typeCounts)),
		AffectedAreas:   clusters(reports),
	}
}

// riskLevel buckets the score: >0.7 critical, >0.5 high, then medium
// down to and including 0.3. The medium bound is inclusive so the
// canonical single-recent-critical-report case (score exactly 0.3)
// reads as medium rather than low.
func riskLevel(risk float64) models.Severity {
	switch {
	case risk > 0.7:
		return models.SeverityCritical
	case risk > 0.5:
		return models.SeverityHigh
	case risk >= 0.3:
		return models.SeverityMedium
	default:
		return models.SeverityLow
	}
}

func dominantType(counts map[models.DisasterType]int) models.DisasterType {
	var best models.DisasterType
	bestCount := 0
	for t, n := range counts {
		if n > bestCount || (n == bestCount && t < best) {
			best, bestCount = t, n
		}
	}
	return best
}

// clusters buckets reports into 0.01-degree cells and reports the
// busiest ones (two or more reports), largest first.
func clusters(reports []models.DisasterReport) []Area {
	type bucket struct {
		key        string
		sumLat     float64
		sumLng     float64
		count      int
		typeCounts map[models.DisasterType]int
	}

	buckets := make(map[string]*bucket)
	for _, r := range reports {
		key := fmt.Sprintf("%.2f,%.2f", r.Latitude, r.Longitude)
		b, ok := buckets[key]
		if !ok {
			b = &bucket{key: key, typeCounts: make(map[models.DisasterType]int)}
			buckets[key] = b
		}
		b.sumLat += r.Latitude
		b.sumLng += r.Longitude
		b.count++
		b.typeCounts[r.DisasterType]++
	}

	ordered := make([]*bucket, 0, len(buckets))
	for _, b := range buckets {
		if b.count >= 2 {
			ordered = append(ordered, b)
		}
	}
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].count != ordered[j].count {
			return ordered[i].count > ordered[j].count
		}
		return ordered[i].key < ordered[j].key
	})
	if len(ordered) > 5 {
		ordered = ordered[:5]
	}

	areas := make([]Area, 0, len(ordered))
	for _, b := range ordered {
		areas = append(areas, Area{
			Latitude:     b.sumLat / float64(b.count),
			Longitude:    b.sumLng / float64(b.count),
			ReportCount:  b.count,
			DominantType: dominantType(b.typeCounts),
		})
	}
	return areas
}

var baseRecommendations = map[models.Severity][]string{
	models.SeverityLow: {
		"No elevated risk detected. Keep location sharing on while travelling.",
	},
	models.SeverityMedium: {
		"Stay aware of your surroundings and check the map before moving.",
		"Keep emergency contacts up to date in your profile.",
	},
	models.SeverityHigh: {
		"Avoid affected areas shown on the map.",
		"Share your live location with an emergency contact.",
		"Keep your phone charged and notifications enabled.",
	},
	models.SeverityCritical: {
		"Leave the affected area if it is safe to do so.",
		"Follow instructions from local authorities.",
		"Check in with your emergency contacts immediately.",
	},
}

var typeRecommendations = map[models.DisasterType]string{
	models.DisasterTypeFlood:      "Move to higher ground and avoid crossing flooded roads.",
	models.DisasterTypeEarthquake: "Stay clear of damaged structures; expect aftershocks.",
	models.DisasterTypeLandslide:  "Keep away from steep slopes and undercut roads.",
	models.DisasterTypeStorm:      "Stay indoors and away from windows until the storm passes.",
	models.DisasterTypeFire:       "Stay upwind of the fire and keep evacuation routes in mind.",
	models.DisasterTypeAccident:   "Expect road closures; plan an alternate route.",
}

// recommendations selects canned guidance for the risk level, plus one
// type-specific line when a dominant disaster type exists.
func recommendations(level models.Severity, dominant models.DisasterType) []string {
	recs := append([]string(nil), baseRecommendations[level]...)
	if line, ok := typeRecommendations[dominant]; ok && level != models.SeverityLow {
		recs = append(recs, line)
	}
	return recs
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
