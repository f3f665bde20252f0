package models

import "time"

// Preferences are per-user feature flags. Zero value disables everything.
type Preferences struct {
	Notifications          bool `json:"notifications"`
	LocationSharing        bool `json:"locationSharing"`
	DisasterAlerts         bool `json:"disasterAlerts"`
	BlockchainVerification bool `json:"blockchainVerification"`
}

type Profile struct {
	ID                string      `json:"id"`
	Username          string      `json:"username"`
	FullName          string      `json:"fullName,omitempty"`
	Bio               string      `json:"bio,omitempty"`
	Location          string      `json:"location,omitempty"`
	EmergencyContacts []string    `json:"emergencyContacts,omitempty"`
	Preferences       Preferences `json:"preferences"`
	CreatedAt         time.Time   `json:"createdAt"`
	UpdatedAt         *time.Time  `json:"updatedAt,omitempty"`
}

// Session is the persisted login envelope; the stored JSON shape is
// {"user": {...}} to stay compatible with existing blobs.
type Session struct {
	User *Profile `json:"user"`
}
