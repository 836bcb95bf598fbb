package models

import (
	"strings"
	"sync"
)

const recentFilesKey = "recent_files"

// Preferences is the subset of fyne.Preferences used for persistence
type Preferences interface {
	String(key string) string
	SetString(key string, value string)
}

// RecentFiles is a most-recently-used list of table sources
type RecentFiles struct {
	mu    sync.Mutex
	prefs Preferences
	limit int
}

// NewRecentFiles creates a list stored in prefs and capped at limit entries
func NewRecentFiles(prefs Preferences, limit int) *RecentFiles {
	if limit < 1 {
		limit = 1
	}
	return &RecentFiles{prefs: prefs, limit: limit}
}

// List returns the sources, most recent first
func (r *RecentFiles) List() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load()
}

// Add moves source to the front of the list
func (r *RecentFiles) Add(source string) []string {
	source = strings.TrimSpace(source)
	if source == "" {
		return r.List()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	list := []string{source}
	for _, existing := range r.load() {
		if existing != source {
			list = append(list, existing)
		}
	}
	if len(list) > r.limit {
		list = list[:r.limit]
	}
	r.prefs.SetString(recentFilesKey, strings.Join(list, "\n"))
	return list
}

// Remove drops source from the list, typically after it failed to open
func (r *RecentFiles) Remove(source string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	var list []string
	for _, existing := range r.load() {
		if existing != source {
			list = append(list, existing)
		}
	}
	r.prefs.SetString(recentFilesKey, strings.Join(list, "\n"))
	return list
}

func (r *RecentFiles) load() []string {
	var list []string
	for _, line := range strings.Split(r.prefs.String(recentFilesKey), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			list = append(list, line)
		}
	}
	if len(list) > r.limit {
		list = list[:r.limit]
	}
	return list
}
