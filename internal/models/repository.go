package models

import (
	"sync"
	"time"
)

// TableData is a loaded table together with where it came from
type TableData struct {
	Table    *Table
	Source   string
	Format   string
	LoadTime time.Time
	Size     int64
}

// TableRepository holds the current table. A load replaces it wholesale.
type TableRepository struct {
	mu      sync.RWMutex
	current *TableData
	loads   int
}

// NewTableRepository creates an empty repository
func NewTableRepository() *TableRepository {
	return &TableRepository{}
}

// Set stores a freshly loaded table, dropping the previous one
func (r *TableRepository) Set(data *TableData) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.current = data
	r.loads++
}

// Get returns the current table data, or nil before the first load
func (r *TableRepository) Get() *TableData {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current
}

// Table returns the current table, or nil
func (r *TableRepository) Table() *Table {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.current == nil {
		return nil
	}
	return r.current.Table
}

// Clear forgets the current table
func (r *TableRepository) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.current = nil
}

// Stats returns a summary of the repository contents
func (r *TableRepository) Stats() TableStats {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := TableStats{Loads: r.loads}
	if r.current != nil && r.current.Table != nil {
		stats.Loaded = true
		stats.Source = r.current.Source
		stats.Rows = r.current.Table.RowCount()
		stats.Columns = r.current.Table.ColumnCount()
	}
	return stats
}

// TableStats describes what the repository currently holds
type TableStats struct {
	Loaded  bool
	Source  string
	Rows    int
	Columns int
	Loads   int
}

// Shutdown releases the table
func (r *TableRepository) Shutdown() {
	r.Clear()
}
