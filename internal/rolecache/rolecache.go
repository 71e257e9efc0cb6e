// Package rolecache models the browser-side cache of the signed-in user. It is
// a library for an embedding UI layer; neither binary in this module uses it.
//
// The cache only decides what a page may render before the server answers. It
// is never consulted for authorization; the request gate in package middleware
// owns that.
package rolecache

import (
	"context"
	"encoding/json"
	"sync"

	"vastusite/internal/models"
)

const (
	AdminKey      = "admin_user"
	ContractorKey = "contractor_user"
	ClientKey     = "client_user"

	// HomeRoute is where Logout sends a visitor that had no cached role.
	HomeRoute = "/"
)

type roleEntry struct {
	key        string
	role       models.UserRole
	loginRoute string
}

// Entries are checked in this order; the first populated one wins.
var roleEntries = []roleEntry{
	{key: AdminKey, role: models.UserRoleAdmin, loginRoute: "/admin/login"},
	{key: ContractorKey, role: models.UserRoleContractor, loginRoute: "/contractor/login"},
	{key: ClientKey, role: models.UserRoleClient, loginRoute: "/client/login"},
}

// Storage is the browser's local storage.
type Storage interface {
	Get(key string) (string, bool)
	Remove(key string)
}

// StorageEvent reports a change made to Storage by another tab. An empty Key
// means the whole storage was cleared.
type StorageEvent struct {
	Key string
}

type Cache struct {
	storage Storage

	mu      sync.RWMutex
	user    models.User
	entry   *roleEntry
	loading bool
}

// New returns a cache in the loading state. Call Refresh once the page mounts.
func New(storage Storage) *Cache {
	return &Cache{storage: storage, loading: true}
}

// Refresh re-reads the role entries from storage.
func (c *Cache) Refresh() {
	user, entry := c.read()

	c.mu.Lock()
	c.user = user
	c.entry = entry
	c.loading = false
	c.mu.Unlock()
}

func (c *Cache) read() (models.User, *roleEntry) {
	for i := range roleEntries {
		e := &roleEntries[i]
		raw, ok := c.storage.Get(e.key)
		if !ok || raw == "" {
			continue
		}
		var user models.User
		if err := json.Unmarshal([]byte(raw), &user); err != nil {
			continue
		}
		user.Role = e.role
		return user, e
	}
	return models.User{}, nil
}

// Principal returns the cached user, if any.
func (c *Cache) Principal() (models.User, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.user, c.entry != nil
}

// Role returns the active role or "" when nobody is cached.
func (c *Cache) Role() models.UserRole {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.entry == nil {
		return ""
	}
	return c.entry.role
}

func (c *Cache) Loading() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loading
}

// Logout removes the active role's entry and returns the route to navigate to.
func (c *Cache) Logout() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.entry == nil {
		return HomeRoute
	}
	route := c.entry.loginRoute
	c.storage.Remove(c.entry.key)
	c.user = models.User{}
	c.entry = nil
	return route
}

// Watch refreshes the cache whenever another tab changes a role entry. It
// returns when ctx is done or events is closed.
func (c *Cache) Watch(ctx context.Context, events <-chan StorageEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if ev.Key == "" || isRoleKey(ev.Key) {
				c.Refresh()
			}
		}
	}
}

func isRoleKey(key string) bool {
	for _, e := range roleEntries {
		if e.key == key {
			return true
		}
	}
	return false
}

// MemoryStorage is an in-memory Storage.
type MemoryStorage struct {
	mu    sync.RWMutex
	items map[string]string
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{items: make(map[string]string)}
}

func (m *MemoryStorage) Get(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.items[key]
	return v, ok
}

func (m *MemoryStorage) Set(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = value
}

func (m *MemoryStorage) Remove(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, key)
}
