// Package config loads daemon configuration from defaults, an optional
// config.yaml, and HPS_* environment overrides, in that priority order.
package config
