// Package api exposes the provisioning daemon over HTTP: org creation, hub
// org listing and selection, lifecycle event streaming, and health.
package api
