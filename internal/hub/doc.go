// Package hub defines the southbound boundary to the multi-tenant platform:
// the Connection contract used to create ScratchOrgInfo records and resolve
// existing authorizations, a normalized RemoteFailure view of platform
// rejections, and a manager for the configured hub org connections.
package hub
