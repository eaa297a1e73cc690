package bot

import (
	"slices"
	"strings"
	"sync"
)

// CatalogEntry is a module offered for discovery under a path.
type CatalogEntry struct {
	// Path is either "name" or "category/name".
	Path   string
	Module Module
}

// Category returns the category part of the path, or "" for flat paths.
func (e CatalogEntry) Category() string {
	category, _, ok := strings.Cut(e.Path, "/")
	if !ok {
		return ""
	}
	return category
}

// Catalog holds the modules available for discovery.
type Catalog struct {
	mu      sync.RWMutex
	entries []CatalogEntry
}

// NewCatalog creates a new empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		entries: make([]CatalogEntry, 0),
	}
}

// Provide adds a module under path. A later entry for the same path
// replaces the earlier one.
func (c *Catalog) Provide(path string, m Module) {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx := slices.IndexFunc(c.entries, func(e CatalogEntry) bool { return e.Path == path })
	if idx >= 0 {
		c.entries[idx].Module = m
		return
	}
	c.entries = append(c.entries, CatalogEntry{Path: path, Module: m})
}

// Entries returns a snapshot of the catalog sorted by path.
func (c *Catalog) Entries() []CatalogEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()

	// Return a copy to prevent external modification
	result := slices.Clone(c.entries)
	slices.SortFunc(result, func(a, b CatalogEntry) int {
		return strings.Compare(a.Path, b.Path)
	})
	return result
}

// Global catalog instance for module self-registration via init()
var globalCatalog = NewCatalog()

// Provide adds a module to the global catalog.
// This is typically called from module init() functions.
func Provide(path string, m Module) {
	globalCatalog.Provide(path, m)
}

// DefaultCatalog returns the global catalog.
func DefaultCatalog() *Catalog {
	return globalCatalog
}

// ResetGlobalCatalog resets the global catalog.
// This is intended for testing purposes only.
func ResetGlobalCatalog() {
	globalCatalog = NewCatalog()
}
