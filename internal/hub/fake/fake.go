// Package fake provides a deterministic in-memory hub connection for tests
// and for running the daemon without platform credentials.
package fake

import (
	"context"
	"fmt"
	"sync"

	"github.com/hub-provision/hps/internal/hub"
)

// FakeConnection implements hub.Connection against in-memory state.
type FakeConnection struct {
	mu sync.Mutex

	// Known authorizations by username
	authorizations map[string]*hub.Authorization

	// Created records, in submission order
	created []*hub.ScratchOrgInfoRecord

	// Error simulation
	failCreate  *hub.RemoteFailure
	failResolve error

	nextID int
}

// Compile-time assertion that FakeConnection implements hub.Connection.
var _ hub.Connection = (*FakeConnection)(nil)

// NewFakeConnection creates a fake connection with no known authorizations.
func NewFakeConnection() *FakeConnection {
	return &FakeConnection{
		authorizations: make(map[string]*hub.Authorization),
	}
}

// AddAuthorization registers a known identity, making the next lookup for
// username a collision.
func (f *FakeConnection) AddAuthorization(username, orgID string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.authorizations[username] = &hub.Authorization{
		Username:    username,
		OrgID:       orgID,
		InstanceURL: "https://fake.hub.local",
	}
}

// FailCreateWith makes subsequent creation calls reject with failure.
func (f *FakeConnection) FailCreateWith(failure *hub.RemoteFailure) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failCreate = failure
}

// FailResolveWith makes subsequent authorization lookups fail with err.
func (f *FakeConnection) FailResolveWith(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failResolve = err
}

// CreateScratchOrgInfo records the submission and returns a synthetic id.
func (f *FakeConnection) CreateScratchOrgInfo(ctx context.Context, rec *hub.ScratchOrgInfoRecord) (*hub.CreateResult, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failCreate != nil {
		return nil, f.failCreate
	}

	f.nextID++
	f.created = append(f.created, rec)
	return &hub.CreateResult{
		ID:      fmt.Sprintf("2SR%012d", f.nextID),
		Success: true,
	}, nil
}

// ResolveAuthorization looks up username in the in-memory registry.
func (f *FakeConnection) ResolveAuthorization(ctx context.Context, username string) (*hub.Authorization, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failResolve != nil {
		return nil, f.failResolve
	}

	auth, exists := f.authorizations[username]
	if !exists {
		return nil, hub.ErrNamedOrgNotFound
	}
	return auth, nil
}

// Created returns the records submitted so far, in order.
func (f *FakeConnection) Created() []*hub.ScratchOrgInfoRecord {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]*hub.ScratchOrgInfoRecord, len(f.created))
	copy(out, f.created)
	return out
}
