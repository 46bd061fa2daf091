package redis

import "context"

// JobLock guards a background job so only one instance runs it at a time.
// This allows swapping implementations (Redis, PostgreSQL advisory locks, etc.)
type JobLock interface {
	// TryAcquire attempts to acquire exclusive lock for the job
	// Returns true if lock was acquired, false if already locked
	TryAcquire(ctx context.Context) (bool, error)

	// Release releases the lock
	Release(ctx context.Context) error

	// Name returns the job name this lock is for
	Name() string
}
