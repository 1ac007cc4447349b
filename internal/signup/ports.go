// Ports (interfaces) consumed by the signup pipeline.
package signup

// SettingsGenerator extracts and validates the organization-preferences
// portion of a provisioning request. Errors it returns are already in final,
// user-facing shape and propagate unmodified.
type SettingsGenerator interface {
	Extract(req *ScratchOrgRequest) (map[string]any, error)
}
