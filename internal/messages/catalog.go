// Package messages holds the user-facing message catalog keyed by message id.
//
// Every error surfaced by the signup pipeline renders its text through this
// catalog so that operators can override wording without rebuilding the
// daemon. Defaults are compiled in; an optional YAML file overrides
// individual entries by id.
package messages

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Message ids used by the signup pipeline.
const (
	UsernameExists                   = "C-1007"
	SignupFieldsMissing              = "signupFieldsMissing"
	SignupDuplicateSettingsSpecified = "signupDuplicateSettingsSpecified"
	DeprecatedPrefFormat             = "deprecatedPrefFormat"
	SignupFailed                     = "signupFailed"
	SignupFailedUnknown              = "signupFailedUnknown"
)

// defaultEntries are the compiled-in message templates. Templates use
// fmt.Sprintf verbs for their arguments.
var defaultEntries = map[string]string{
	UsernameExists:                   "The username %q already exists. Specify a new username.",
	SignupFieldsMissing:              "Required fields are missing for org creation: %s",
	SignupDuplicateSettingsSpecified: "Cannot specify both settings and orgPreferences in your scratch org definition. Specify only one.",
	DeprecatedPrefFormat:             "The orgPreferences format is deprecated. Use the settings format instead.",
	SignupFailed:                     "The request to create a scratch org failed with error: %s",
	SignupFailedUnknown:              "An unknown server error occurred. Please try again.",
}

// Catalog resolves message ids to rendered user-facing text.
type Catalog struct {
	entries map[string]string
}

// Default returns a catalog containing only the compiled-in entries.
func Default() *Catalog {
	entries := make(map[string]string, len(defaultEntries))
	for id, tmpl := range defaultEntries {
		entries[id] = tmpl
	}
	return &Catalog{entries: entries}
}

// Load returns the default catalog merged with overrides from the YAML file
// at path. The file maps message id to template text. A missing path is not
// an error; the defaults are returned unchanged.
func Load(path string) (*Catalog, error) {
	catalog := Default()
	if path == "" {
		return catalog, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return catalog, nil
		}
		return nil, fmt.Errorf("failed to read message catalog %s: %w", path, err)
	}

	overrides := make(map[string]string)
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return nil, fmt.Errorf("failed to parse message catalog %s: %w", path, err)
	}

	for id, tmpl := range overrides {
		catalog.entries[id] = tmpl
	}
	return catalog, nil
}

// Has reports whether the catalog contains an entry for id.
func (c *Catalog) Has(id string) bool {
	_, ok := c.entries[id]
	return ok
}

// Render resolves id and formats the template with args. An unknown id
// renders a placeholder naming the id rather than failing, so a stale
// override file cannot turn an error path into a panic.
func (c *Catalog) Render(id string, args ...any) string {
	tmpl, ok := c.entries[id]
	if !ok {
		return fmt.Sprintf("missing message for id %q", id)
	}
	if len(args) == 0 {
		return tmpl
	}
	return fmt.Sprintf(tmpl, args...)
}
