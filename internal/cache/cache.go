// Package cache provides the response cache and pipeline step log, backed by
// an embedded SQLite database. The Store interface exists so the fetch layer
// can be tested against an in-memory fake without touching disk.
package cache

import (
	"context"
	"time"
)

// Entry is a single cached HTTP response, keyed by a hash of the request URL.
type Entry struct {
	Key       string
	URL       string
	Body      []byte
	FetchedAt time.Time
}

// Stats summarizes the cache contents relative to a freshness cutoff.
type Stats struct {
	Total int `json:"total"`
	Fresh int `json:"fresh"`
	Stale int `json:"stale"`
}

// StepStatus describes the outcome of a pipeline step.
type StepStatus string

const (
	StepOK     StepStatus = "ok"
	StepFailed StepStatus = "failed"
)

// StepRecord is one pipeline step execution.
type StepRecord struct {
	ID         string
	RunID      string
	Step       string
	Status     StepStatus
	Message    string
	StartedAt  time.Time
	FinishedAt time.Time
}

// Store defines the persistence interface for cached responses and step records.
type Store interface {
	// Get returns the entry for key, or nil if absent.
	Get(ctx context.Context, key string) (*Entry, error)

	// Put inserts or replaces the entry for entry.Key.
	Put(ctx context.Context, entry Entry) error

	// Stats counts entries; an entry fetched at or after freshSince is fresh.
	Stats(ctx context.Context, freshSince time.Time) (Stats, error)

	// Evict deletes entries fetched before olderThan. Returns rows deleted.
	Evict(ctx context.Context, olderThan time.Time) (int64, error)

	// RecordStep appends a pipeline step outcome to the step log.
	RecordStep(ctx context.Context, rec StepRecord) error

	// LastSuccess returns the finish time of the most recent successful
	// execution of the named step, or nil if it has never succeeded.
	LastSuccess(ctx context.Context, step string) (*time.Time, error)

	Migrate(ctx context.Context) error
	Close() error
}
