package redis

import (
	"context"
	"sync"
	"time"

	"github.com/amyangfei/redlock-go/v3/redlock"
)

// LockFactory creates job locks
type LockFactory interface {
	CreateJobLock(job string) JobLock
}

// RedisLockFactory creates Redis-based distributed locks
type RedisLockFactory struct {
	lockManager *redlock.RedLock
	ttl         time.Duration
}

// NewRedisLockFactory creates new Redis lock factory
func NewRedisLockFactory(lockManager *redlock.RedLock, ttl time.Duration) *RedisLockFactory {
	return &RedisLockFactory{
		lockManager: lockManager,
		ttl:         ttl,
	}
}

// CreateJobLock creates a distributed lock for specific job
func (f *RedisLockFactory) CreateJobLock(job string) JobLock {
	return NewDistributedLock(f.lockManager, job, f.ttl)
}

// LocalLockFactory serves single-instance deployments without Redis
type LocalLockFactory struct {
	mu   sync.Mutex
	held map[string]bool
}

// NewLocalLockFactory creates in-process lock factory
func NewLocalLockFactory() *LocalLockFactory {
	return &LocalLockFactory{held: make(map[string]bool)}
}

// CreateJobLock creates an in-process lock for specific job
func (f *LocalLockFactory) CreateJobLock(job string) JobLock {
	return &LocalLock{factory: f, name: job}
}

// LocalLock is an in-process lock shared through its factory
type LocalLock struct {
	factory *LocalLockFactory
	name    string
	locked  bool
}

func (l *LocalLock) TryAcquire(ctx context.Context) (bool, error) {
	l.factory.mu.Lock()
	defer l.factory.mu.Unlock()

	if l.factory.held[l.name] {
		return false, nil
	}
	l.factory.held[l.name] = true
	l.locked = true
	return true, nil
}

func (l *LocalLock) Release(ctx context.Context) error {
	l.factory.mu.Lock()
	defer l.factory.mu.Unlock()

	if l.locked {
		delete(l.factory.held, l.name)
		l.locked = false
	}
	return nil
}

func (l *LocalLock) Name() string {
	return l.name
}
