// Ports (interfaces) the API needs from the rest of the daemon.
package api

import (
	"context"

	"github.com/hub-provision/hps/internal/events"
	"github.com/hub-provision/hps/internal/hub"
	"github.com/hub-provision/hps/internal/signup"
)

// ProvisionerPort defines the minimal interface the API needs from the
// signup orchestrator.
type ProvisionerPort interface {
	Create(ctx context.Context, conn hub.Connection, req *signup.ScratchOrgRequest, gen signup.SettingsGenerator) (bool, error)
}

// HubDirectoryPort exposes the configured hub orgs and active selection.
type HubDirectoryPort interface {
	ListOrgs() *hub.List
	GetActiveOrg() *hub.Org
	SetActive(alias string) error
	MarkUsed(alias string)
}

// EventStreamPort exposes lifecycle event subscription for SSE.
type EventStreamPort interface {
	Subscribe(lastID int64) (<-chan events.Event, func())
}

// Compile-time assertions that the concrete types implement the ports.
var (
	_ ProvisionerPort  = (*signup.Orchestrator)(nil)
	_ HubDirectoryPort = (*hub.Manager)(nil)
	_ EventStreamPort  = (*events.Hub)(nil)
)
