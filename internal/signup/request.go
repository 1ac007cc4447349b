package signup

import (
	"github.com/hub-provision/hps/internal/hub"
)

// ScratchOrgRequest is the provisioning payload. It is caller-owned and
// read-only to the pipeline. Settings and OrgPreferences are mutually
// exclusive; OrgPreferences is the deprecated legacy shape.
type ScratchOrgRequest struct {
	LoginURL       string `json:"loginUrl,omitempty"`
	Snapshot       string `json:"snapshot,omitempty"`
	AuthCode       string `json:"authCode,omitempty"`
	Status         string `json:"status,omitempty"`
	SignupEmail    string `json:"signupEmail,omitempty"`
	SignupUsername string `json:"signupUsername,omitempty"`
	Username       string `json:"username,omitempty"`
	SignupInstance string `json:"signupInstance,omitempty"`

	Settings       map[string]any  `json:"settings,omitempty"`
	OrgPreferences map[string]bool `json:"orgPreferences,omitempty"`
}

// SettingsVerdict is the result of checking the settings shape of a request.
type SettingsVerdict int

const (
	// SettingsOK: at most the new-style settings map is present.
	SettingsOK SettingsVerdict = iota

	// SettingsDuplicate: both settings and orgPreferences are present.
	SettingsDuplicate

	// SettingsDeprecated: only the legacy orgPreferences map is present.
	SettingsDeprecated
)

// CheckSettings reports which configuration shape the request carries.
// Duplicate wins over deprecated when both maps are present.
func (r *ScratchOrgRequest) CheckSettings() SettingsVerdict {
	hasSettings := len(r.Settings) > 0
	hasPrefs := len(r.OrgPreferences) > 0

	switch {
	case hasSettings && hasPrefs:
		return SettingsDuplicate
	case hasPrefs:
		return SettingsDeprecated
	default:
		return SettingsOK
	}
}

// Record shapes the request and its extracted settings into the creation
// payload submitted to the hub connection.
func (r *ScratchOrgRequest) Record(settings map[string]any) *hub.ScratchOrgInfoRecord {
	return &hub.ScratchOrgInfoRecord{
		LoginURL:       r.LoginURL,
		Snapshot:       r.Snapshot,
		AuthCode:       r.AuthCode,
		Status:         r.Status,
		SignupEmail:    r.SignupEmail,
		SignupUsername: r.SignupUsername,
		Username:       r.Username,
		SignupInstance: r.SignupInstance,
		Settings:       settings,
	}
}

// requestedUsername returns the identity this request provisions, preferring
// the explicit target username over the signup username.
func (r *ScratchOrgRequest) requestedUsername() string {
	if r.Username != "" {
		return r.Username
	}
	return r.SignupUsername
}
