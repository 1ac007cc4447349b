// Package settings extracts and validates the organization-preferences
// portion of a provisioning request.
package settings

import (
	"github.com/hub-provision/hps/internal/messages"
	"github.com/hub-provision/hps/internal/signup"
)

// Generator implements signup.SettingsGenerator. It enforces the mutual
// exclusion between the new-style settings map and the legacy orgPreferences
// map, and rejects the deprecated legacy shape outright.
type Generator struct {
	catalog *messages.Catalog
}

// Compile-time assertion that Generator implements signup.SettingsGenerator.
var _ signup.SettingsGenerator = (*Generator)(nil)

// NewGenerator creates a settings generator rendering errors through catalog.
func NewGenerator(catalog *messages.Catalog) *Generator {
	return &Generator{catalog: catalog}
}

// Extract validates the settings shape of req and returns the normalized
// payload to submit with the creation record. Errors are in final,
// user-facing shape.
func (g *Generator) Extract(req *signup.ScratchOrgRequest) (map[string]any, error) {
	switch req.CheckSettings() {
	case signup.SettingsDuplicate:
		return nil, signup.NewDuplicateSettingsError(g.catalog)
	case signup.SettingsDeprecated:
		// Hard error today. CheckSettings keeps this a distinct verdict so
		// a warn-and-continue policy stays a local change here.
		return nil, signup.NewDeprecatedPrefFormatError(g.catalog)
	}

	if len(req.Settings) == 0 {
		return nil, nil
	}

	// Copy so the submitted payload cannot alias the caller-owned request.
	extracted := make(map[string]any, len(req.Settings))
	for key, value := range req.Settings {
		extracted[key] = value
	}
	return extracted, nil
}
