package series

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/selivandex/tadawul-sentiment/internal/sentiment"
	"github.com/selivandex/tadawul-sentiment/pkg/logger"
	"github.com/selivandex/tadawul-sentiment/pkg/models"
)

// ScoreFetcher returns a company's current score
type ScoreFetcher interface {
	CurrentScore(ctx context.Context, companyID string) (score float64, found bool, err error)
}

// Config controls the perturbation applied to synthesized samples
type Config struct {
	Jitter    float64 // scores vary uniformly within ±Jitter
	MinVolume int
	MaxVolume int // inclusive
}

// DefaultConfig returns ±0.1 score jitter and volumes in [10, 109]
func DefaultConfig() Config {
	return Config{
		Jitter:    0.1,
		MinVolume: 10,
		MaxVolume: 109,
	}
}

// Synthesizer fabricates a daily series from a single current score.
// The store only holds a snapshot, so history is simulated; output is random
// unless the random source is seeded.
type Synthesizer struct {
	fetcher ScoreFetcher
	cfg     Config
	now     func() time.Time

	mu  sync.Mutex // guards rng
	rng *rand.Rand
}

// NewSynthesizer creates new synthesizer. rng and now may be nil to use a
// randomly seeded source and the wall clock.
func NewSynthesizer(fetcher ScoreFetcher, cfg Config, rng *rand.Rand, now func() time.Time) *Synthesizer {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if now == nil {
		now = time.Now
	}
	if cfg.MaxVolume < cfg.MinVolume {
		cfg.MaxVolume = cfg.MinVolume
	}

	return &Synthesizer{
		fetcher: fetcher,
		cfg:     cfg,
		now:     now,
		rng:     rng,
	}
}

// Series fetches the company's current score and synthesizes days samples.
// A failed or empty fetch synthesizes around 0.
func (s *Synthesizer) Series(ctx context.Context, companyID string, days int) []models.SentimentSample {
	current, found, err := s.fetcher.CurrentScore(ctx, companyID)
	if err != nil {
		logger.Warn("failed to fetch current score, synthesizing around neutral",
			zap.String("company_id", companyID),
			zap.Error(err),
		)
		current = 0
	} else if !found {
		logger.Debug("company not found, synthesizing around neutral",
			zap.String("company_id", companyID),
		)
	}

	return s.Generate(companyID, current, days)
}

// Generate produces days samples, one per calendar day back from today
// (inclusive), returned oldest first.
func (s *Synthesizer) Generate(companyID string, current float64, days int) []models.SentimentSample {
	if days <= 0 {
		return []models.SentimentSample{}
	}

	today := truncateToDay(s.now())
	samples := make([]models.SentimentSample, 0, days)

	s.mu.Lock()
	for i := 0; i < days; i++ {
		samples = append(samples, models.SentimentSample{
			ID:        fmt.Sprintf("%s-%d", companyID, i),
			CompanyID: companyID,
			Date:      today.AddDate(0, 0, -i),
			Score:     sentiment.Clamp(current + s.perturbation()),
			Volume:    s.volume(),
		})
	}
	s.mu.Unlock()

	sort.SliceStable(samples, func(i, j int) bool {
		return samples[i].Date.Before(samples[j].Date)
	})

	return samples
}

// perturbation is uniform in [-Jitter, Jitter)
func (s *Synthesizer) perturbation() float64 {
	return (s.rng.Float64()*2 - 1) * s.cfg.Jitter
}

func (s *Synthesizer) volume() int {
	return s.cfg.MinVolume + s.rng.IntN(s.cfg.MaxVolume-s.cfg.MinVolume+1)
}

func truncateToDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
