package hub

import (
	"fmt"
	"sync"
	"time"
)

// Org represents one configured hub org connection.
type Org struct {
	Alias       string    `json:"alias"`
	Username    string    `json:"username"`
	InstanceURL string    `json:"instanceUrl"`
	Status      string    `json:"status"`
	LastUsed    time.Time `json:"lastUsed,omitempty"`

	conn Connection
}

// Conn returns the connection backing this hub org.
func (o *Org) Conn() Connection {
	return o.conn
}

// List represents the response format for listing hub orgs.
type List struct {
	ActiveAlias string `json:"activeAlias"`
	Items       []Org  `json:"items"`
}

// Manager holds the configured hub org connections and the active selection.
type Manager struct {
	mu          sync.RWMutex
	orgs        map[string]*Org
	activeAlias string
}

// NewManager creates an empty hub manager.
func NewManager() *Manager {
	return &Manager{
		orgs: make(map[string]*Org),
	}
}

// Register adds a hub org under alias. The first registered org becomes the
// active selection.
func (m *Manager) Register(alias, username, instanceURL string, conn Connection) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.orgs[alias] = &Org{
		Alias:       alias,
		Username:    username,
		InstanceURL: instanceURL,
		Status:      "connected",
		conn:        conn,
	}

	if m.activeAlias == "" {
		m.activeAlias = alias
	}
}

// GetOrg returns the hub org registered under alias.
func (m *Manager) GetOrg(alias string) (*Org, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	org, exists := m.orgs[alias]
	if !exists {
		return nil, fmt.Errorf("hub org %s not found", alias)
	}
	return org, nil
}

// SetActive sets the active hub org with existence check.
func (m *Manager) SetActive(alias string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.orgs[alias]; !exists {
		return fmt.Errorf("hub org %s not found", alias)
	}

	m.activeAlias = alias
	return nil
}

// GetActive returns the active hub org alias.
func (m *Manager) GetActive() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.activeAlias
}

// GetActiveOrg returns the active hub org, or nil when none is registered.
func (m *Manager) GetActiveOrg() *Org {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.activeAlias == "" {
		return nil
	}
	return m.orgs[m.activeAlias]
}

// MarkUsed records that the org was used for a provisioning call.
func (m *Manager) MarkUsed(alias string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if org, exists := m.orgs[alias]; exists {
		org.LastUsed = time.Now()
	}
}

// ListOrgs returns all registered hub orgs with the active alias.
func (m *Manager) ListOrgs() *List {
	m.mu.RLock()
	defer m.mu.RUnlock()

	items := make([]Org, 0, len(m.orgs))
	for _, org := range m.orgs {
		items = append(items, *org)
	}

	return &List{
		ActiveAlias: m.activeAlias,
		Items:       items,
	}
}
