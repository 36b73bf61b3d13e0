// Package service defines the interfaces for the collaborators around the ledger core.
package service

import (
	"context"
	"io"
	"time"

	"github.com/Veraticus/klaro/internal/model"
)

// SnapshotStore is the key-value persistence collaborator. It holds exactly one
// serialized ledger snapshot.
type SnapshotStore interface {
	// Load returns the stored snapshot, or common.ErrNotFound when none exists.
	Load(ctx context.Context) ([]byte, error)
	// Save replaces the stored snapshot.
	Save(ctx context.Context, snapshot []byte) error
	Close() error
}

// Extractor turns an external document into candidate transaction drafts.
// Drafts carry no id; the ledger assigns one when they are added.
type Extractor interface {
	Extract(ctx context.Context, r io.Reader) ([]model.Transaction, error)
}

// Timer is a pending scheduled call.
type Timer interface {
	// Stop cancels the call. It reports false if the call already ran or was stopped.
	Stop() bool
}

// Scheduler runs f after d. Tests substitute a manual implementation to fire timers synchronously.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}

// DefaultRetryOptions returns sensible defaults for retry operations.
func DefaultRetryOptions() RetryOptions {
	return RetryOptions{
		MaxAttempts:  3,
		InitialDelay: 100 * time.Millisecond,
		MaxDelay:     2 * time.Second,
		Multiplier:   2.0,
	}
}
