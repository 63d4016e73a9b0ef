package backend

import (
	"context"

	"budgetbuddy/internal/services"
	"budgetbuddy/internal/storage"
)

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// Pinger is implemented by repositories backed by a database connection.
type Pinger interface {
	Ping(ctx context.Context) error
}

// BackendResult bundles the wired ledger service with the resources it uses.
type BackendResult struct {
	Repository storage.Repository
	Service    *services.LedgerService
	// EventsEnabled is true when an AMQP publisher is attached.
	EventsEnabled bool
	Cleanup       CleanupFunc
}

// Ready pings the repository when it supports it.
func (r *BackendResult) Ready(ctx context.Context) error {
	if p, ok := r.Repository.(Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}

// Close runs Cleanup if set.
func (r *BackendResult) Close() error {
	if r == nil || r.Cleanup == nil {
		return nil
	}
	return r.Cleanup()
}

// Factory creates backends based on configuration
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

// Config holds configuration for backend creation
type Config struct {
	Type BackendType

	DataDir      string
	SQLiteDBPath string
	PostgresURL  string

	// Optional event publishing
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string
}

// BackendType represents the type of backend
type BackendType string

const (
	FileBackend     BackendType = "file"
	MemoryBackend   BackendType = "memory"
	SQLiteBackend   BackendType = "sqlite"
	PostgresBackend BackendType = "postgres"
)

func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case FileBackend, MemoryBackend, SQLiteBackend, PostgresBackend:
		return true
	default:
		return false
	}
}
