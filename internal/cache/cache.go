// Package cache persists fetched activity data so the app and the
// snapshot renderer can draw instantly from stale data while a refresh
// happens in the background.
package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"stratiles/internal/insights"
	"stratiles/internal/strava"
)

// Payload is one cached fetch for a single type selection. Activities
// is nil when only the degraded heatmap-only tier survived a write.
type Payload struct {
	FetchedAt   time.Time             `json:"fetchedAt"`
	HeatmapDays []insights.HeatmapDay `json:"heatmapDays"`
	Activities  []strava.Activity     `json:"activities,omitempty"`
}

// IsFresh reports whether the payload is younger than maxAge at now.
// Freshness is purely age-based; there is no content invalidation.
func (p *Payload) IsFresh(maxAge time.Duration, now time.Time) bool {
	return now.Sub(p.FetchedAt) <= maxAge
}

// document is the whole on-disk cache: one bucket per selection key
type document struct {
	Buckets map[string]Payload `json:"buckets"`
}

// Cache is a single-document JSON store keyed by activity-type
// selection. Access is serialized so concurrent readers and writers in
// one process queue rather than interleave; across processes the last
// whole-document write wins.
type Cache struct {
	mu   sync.Mutex
	path string
	now  func() time.Time
}

// New creates a cache backed by the JSON document at path
func New(path string) *Cache {
	return &Cache{path: path, now: time.Now}
}

// DefaultPath returns the cache document location, ~/.stratiles/activity-cache.json
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".stratiles", "activity-cache.json"), nil
}

// Read returns the cached payload for the selection, or nil when no
// usable entry exists. A missing or unreadable document reads as empty.
func (c *Cache) Read(selected []insights.ActivityType) *Payload {
	c.mu.Lock()
	defer c.mu.Unlock()

	doc := c.load()
	payload, ok := doc.Buckets[insights.SelectionKey(selected)]
	if !ok {
		return nil
	}
	return &payload
}

// Write replaces the selection's bucket with a fresh payload. Pass nil
// activities to degrade the entry to heatmap-only data. The document is
// rewritten wholesale and replaced atomically.
func (c *Cache) Write(selected []insights.ActivityType, heatmapDays []insights.HeatmapDay, activities []strava.Activity) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	doc := c.load()
	doc.Buckets[insights.SelectionKey(selected)] = Payload{
		FetchedAt:   c.now(),
		HeatmapDays: heatmapDays,
		Activities:  activities,
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encoding cache: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(c.path), 0755); err != nil {
		return fmt.Errorf("creating cache directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(c.path), "activity-cache-*.json")
	if err != nil {
		return fmt.Errorf("creating temp cache file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("writing cache: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("closing cache file: %w", err)
	}
	if err := os.Rename(tmp.Name(), c.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replacing cache file: %w", err)
	}
	return nil
}

// Clear removes the entire cache document (used on sign-out)
func (c *Cache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	err := os.Remove(c.path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing cache file: %w", err)
	}
	return nil
}

// load reads the document, treating a missing or corrupt file as empty
// so a bad write can never brick the cache.
func (c *Cache) load() document {
	doc := document{Buckets: map[string]Payload{}}
	data, err := os.ReadFile(c.path)
	if err != nil {
		return doc
	}
	if err := json.Unmarshal(data, &doc); err != nil || doc.Buckets == nil {
		return document{Buckets: map[string]Payload{}}
	}
	return doc
}
