package signup

import (
	"context"
	"errors"
	"time"

	"github.com/hub-provision/hps/internal/config"
	"github.com/hub-provision/hps/internal/events"
	"github.com/hub-provision/hps/internal/hub"
	"github.com/hub-provision/hps/internal/messages"
)

// AuditLogger interface for writing audit records.
type AuditLogger interface {
	LogAction(ctx context.Context, action, username, result string, latency time.Duration)
}

// Orchestrator runs the provisioning pipeline against a hub connection.
// It holds no per-request state; Create may be invoked concurrently.
type Orchestrator struct {
	// Message catalog for user-facing error text
	catalog *messages.Catalog

	// Timeouts for the awaited calls
	timeouts config.TimeoutConfig

	// Event hub for lifecycle event publishing
	eventHub *events.Hub

	// Audit logger
	auditLogger AuditLogger
}

// NewOrchestrator creates a new signup orchestrator.
func NewOrchestrator(catalog *messages.Catalog, timeouts config.TimeoutConfig) *Orchestrator {
	return &Orchestrator{
		catalog:  catalog,
		timeouts: timeouts,
	}
}

// SetEventHub sets the lifecycle event hub.
func (o *Orchestrator) SetEventHub(eventHub *events.Hub) {
	o.eventHub = eventHub
}

// SetAuditLogger sets the audit logger.
func (o *Orchestrator) SetAuditLogger(logger AuditLogger) {
	o.auditLogger = logger
}

// Create validates req, checks for an identity collision, submits the
// creation call against conn, and classifies the outcome. It returns true on
// success; every failure is returned as a *SignupError.
func (o *Orchestrator) Create(ctx context.Context, conn hub.Connection, req *ScratchOrgRequest, gen SettingsGenerator) (bool, error) {
	start := time.Now()

	// Step 1: identity pre-check, skipped entirely when no target username
	// is requested.
	if req.Username != "" {
		lookupCtx, cancel := context.WithTimeout(ctx, o.timeouts.IdentityLookup)
		_, err := conn.ResolveAuthorization(lookupCtx, req.Username)
		cancel()

		switch {
		case err == nil:
			// Resolution succeeded: the username is already taken.
			o.logAudit(ctx, "identityPrecheck", req.Username, "CONFLICT", time.Since(start))
			return false, NewUsernameExistsError(o.catalog, req.Username)
		case errors.Is(err, hub.ErrNamedOrgNotFound):
			// Expected miss: no collision, proceed.
			o.logAudit(ctx, "identityPrecheck", req.Username, "NOT_FOUND", time.Since(start))
		default:
			// Policy: lookup failures other than not-found are non-fatal.
			// A transient identity-service glitch must not block
			// provisioning.
			o.logAudit(ctx, "identityPrecheck", req.Username, "PRECHECK_SKIPPED", time.Since(start))
		}
	}

	// Step 2: settings validation. Extractor errors are already in final
	// user-facing shape and propagate unmodified.
	orgSettings, err := gen.Extract(req)
	if err != nil {
		o.logAudit(ctx, "settingsExtract", req.requestedUsername(), "BAD_REQUEST", time.Since(start))
		return false, err
	}

	// Step 3: remote submission.
	createCtx, cancel := context.WithTimeout(ctx, o.timeouts.Create)
	defer cancel()

	result, err := conn.CreateScratchOrgInfo(createCtx, req.Record(orgSettings))
	latency := time.Since(start)

	// Step 4: outcome classification.
	if err != nil {
		signupErr := o.ClassifyRemoteError(err)
		o.logAudit(ctx, "createScratchOrg", req.requestedUsername(), "ERROR", latency)
		o.publishFaultEvent(req, signupErr)
		return false, signupErr
	}

	o.logAudit(ctx, "createScratchOrg", req.requestedUsername(), "SUCCESS", latency)
	o.publishOrgCreatedEvent(req, result)
	return true, nil
}

// publishOrgCreatedEvent publishes an orgCreated lifecycle event.
func (o *Orchestrator) publishOrgCreatedEvent(req *ScratchOrgRequest, result *hub.CreateResult) {
	if o.eventHub == nil {
		return
	}

	o.eventHub.Publish(events.TypeOrgCreated, map[string]any{
		"recordId": result.ID,
		"username": req.requestedUsername(),
		"ts":       time.Now().UTC().Format(time.RFC3339),
	})
}

// publishFaultEvent publishes a fault lifecycle event.
func (o *Orchestrator) publishFaultEvent(req *ScratchOrgRequest, signupErr *SignupError) {
	if o.eventHub == nil {
		return
	}

	o.eventHub.Publish(events.TypeFault, map[string]any{
		"code":     signupErr.Code,
		"message":  signupErr.Message,
		"username": req.requestedUsername(),
		"ts":       time.Now().UTC().Format(time.RFC3339),
	})
}

// logAudit logs an audit record for a pipeline action.
func (o *Orchestrator) logAudit(ctx context.Context, action, username, result string, latency time.Duration) {
	if o.auditLogger != nil {
		o.auditLogger.LogAction(ctx, action, username, result, latency)
	}
}
