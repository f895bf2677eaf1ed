// Package catalog holds the in-memory room catalog snapshot.
package catalog

import (
	"sync"

	"pgbuddy/internal/model"
)

// Catalog is a thread-safe holder for the latest room snapshot. A refresh
// replaces the whole snapshot; readers always see a consistent copy.
type Catalog struct {
	mu    sync.RWMutex
	rooms []model.Room
	byID  map[string]int
}

// New creates an empty catalog.
func New() *Catalog {
	return &Catalog{byID: map[string]int{}}
}

// Replace swaps in a new snapshot.
func (c *Catalog) Replace(rooms []model.Room) {
	byID := make(map[string]int, len(rooms))
	for i, r := range rooms {
		byID[r.ID] = i
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.rooms = rooms
	c.byID = byID
}

// Snapshot returns a copy of the current rooms in feed order.
func (c *Catalog) Snapshot() []model.Room {
	c.mu.RLock()
	defer c.mu.RUnlock()
	cp := make([]model.Room, len(c.rooms))
	copy(cp, c.rooms)
	return cp
}

// Get returns the room with the given ID.
func (c *Catalog) Get(id string) (model.Room, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	i, ok := c.byID[id]
	if !ok {
		return model.Room{}, false
	}
	return c.rooms[i], true
}

// Len returns the number of rooms in the current snapshot.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.rooms)
}
