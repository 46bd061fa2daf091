package dashboard

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/selivandex/tadawul-sentiment/pkg/models"
)

// Generation hands out monotonically increasing request tokens
type Generation struct {
	latest atomic.Uint64
}

// Next starts a new generation and returns its token
func (g *Generation) Next() uint64 {
	return g.latest.Add(1)
}

// IsLatest reports whether token belongs to the newest generation
func (g *Generation) IsLatest(token uint64) bool {
	return g.latest.Load() == token
}

// FeedSnapshot is the state pushed to live dashboard clients
type FeedSnapshot struct {
	Generation uint64                   `json:"generation"`
	UpdatedAt  time.Time                `json:"updated_at"`
	Sectors    []models.SectorSentiment `json:"sectors"`
	News       []models.NewsItem        `json:"news"`
	Overview   models.MarketOverview    `json:"overview"`
}

// Feed holds the latest committed snapshot and fans it out to subscribers.
// A refresh commits only while its token is the newest, so a slow superseded
// refresh never overwrites fresher state.
type Feed struct {
	gen       Generation
	mu        sync.RWMutex
	current   FeedSnapshot
	committed uint64
	subs      map[chan FeedSnapshot]struct{}
}

// NewFeed creates empty feed
func NewFeed() *Feed {
	return &Feed{subs: make(map[chan FeedSnapshot]struct{})}
}

// Begin starts a refresh and returns its token
func (f *Feed) Begin() uint64 {
	return f.gen.Next()
}

// Commit publishes snap if token is still the newest generation
func (f *Feed) Commit(token uint64, snap FeedSnapshot) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.gen.IsLatest(token) || token <= f.committed {
		return false
	}

	snap.Generation = token
	f.current = snap
	f.committed = token

	for ch := range f.subs {
		// keep only the newest snapshot for slow subscribers
		select {
		case <-ch:
		default:
		}
		ch <- snap
	}

	return true
}

// Latest returns the last committed snapshot
func (f *Feed) Latest() (FeedSnapshot, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	return f.current, f.committed > 0
}

// Subscribe registers for committed snapshots; call the returned func to leave
func (f *Feed) Subscribe() (<-chan FeedSnapshot, func()) {
	ch := make(chan FeedSnapshot, 1)

	f.mu.Lock()
	f.subs[ch] = struct{}{}
	f.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			f.mu.Lock()
			delete(f.subs, ch)
			f.mu.Unlock()
		})
	}
}
