package models

import "testing"

func TestParseSeverity(t *testing.T) {
	cases := []struct {
		in   string
		want Severity
		ok   bool
	}{
		{"low", SeverityLow, true},
		{"CRITICAL", SeverityCritical, true},
		{"High", SeverityHigh, true},
		{"", "", false},
		{"apocalyptic", "", false},
	}

	for _, tc := range cases {
		got, ok := ParseSeverity(tc.in)
		if got != tc.want || ok != tc.ok {
			t.Errorf("ParseSeverity(%q) = (%q, %v), want (%q, %v)", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestSeverityAtLeast(t *testing.T) {
	if !SeverityCritical.AtLeast(SeverityLow) {
		t.Error("critical should be at least low")
	}
	if SeverityLow.AtLeast(SeverityMedium) {
		t.Error("low should not be at least medium")
	}
	if !SeverityMedium.AtLeast(SeverityMedium) {
		t.Error("a severity is at least itself")
	}
	if Severity("bogus").AtLeast(SeverityLow) {
		t.Error("unknown severities rank below low")
	}
}

func TestParseDisasterType_DefaultsToOther(t *testing.T) {
	if got := ParseDisasterType("meteor"); got != DisasterTypeOther {
		t.Errorf("expected other, got %s", got)
	}
	if got := ParseDisasterType("Flood"); got != DisasterTypeFlood {
		t.Errorf("expected flood, got %s", got)
	}
}

func TestRingClosed(t *testing.T) {
	closed := Ring{{85.3, 27.7}, {85.4, 27.7}, {85.4, 27.8}, {85.3, 27.7}}
	if !closed.Closed() {
		t.Error("expected closed ring")
	}

	open := Ring{{85.3, 27.7}, {85.4, 27.7}, {85.4, 27.8}, {85.3, 27.8}}
	if open.Closed() {
		t.Error("expected open ring: endpoints differ")
	}

	tooShort := Ring{{85.3, 27.7}, {85.4, 27.7}, {85.3, 27.7}}
	if tooShort.Closed() {
		t.Error("expected open ring: fewer than 4 points")
	}
}
