package settings

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/selivandex/tadawul-sentiment/internal/adapters/config"
	"github.com/selivandex/tadawul-sentiment/pkg/logger"
	"github.com/selivandex/tadawul-sentiment/pkg/models"
)

// ErrInvalidPreferences is returned when an update fails validation
var ErrInvalidPreferences = errors.New("invalid preferences")

// Store owns the local user preferences.
// Writes are serialized; readers get copies and never observe a partial update.
type Store struct {
	mu       sync.RWMutex
	prefs    models.UserPreferences
	validate *validator.Validate
}

// FromConfig builds the initial preferences from configuration
func FromConfig(cfg config.PreferencesConfig) models.UserPreferences {
	return models.UserPreferences{
		Language:        models.Language(cfg.Language),
		Theme:           models.Theme(cfg.Theme),
		DashboardLayout: models.Layout(cfg.Layout),
		Watchlist:       cleanWatchlist(cfg.Watchlist),
		AlertThresholds: models.AlertThresholds{
			Positive: cfg.PositiveThreshold,
			Negative: cfg.NegativeThreshold,
		},
	}
}

// NewStore creates preferences store seeded with initial values
func NewStore(initial models.UserPreferences) (*Store, error) {
	s := &Store{validate: validator.New()}

	initial.Watchlist = cleanWatchlist(initial.Watchlist)
	if err := s.check(initial); err != nil {
		return nil, err
	}
	s.prefs = initial

	return s, nil
}

// Snapshot returns a copy of the current preferences
func (s *Store) Snapshot() models.UserPreferences {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return clone(s.prefs)
}

// Update replaces preferences after validation
func (s *Store) Update(next models.UserPreferences) (models.UserPreferences, error) {
	next.Watchlist = cleanWatchlist(next.Watchlist)
	if err := s.check(next); err != nil {
		return models.UserPreferences{}, err
	}

	s.mu.Lock()
	s.prefs = clone(next)
	s.mu.Unlock()

	logger.Info("preferences updated",
		zap.String("language", string(next.Language)),
		zap.String("theme", string(next.Theme)),
		zap.Int("watchlist", len(next.Watchlist)),
	)

	return clone(next), nil
}

// ToggleWatchlist adds or removes a company and reports whether it is now watched
func (s *Store) ToggleWatchlist(companyID string) (models.UserPreferences, bool) {
	companyID = strings.TrimSpace(companyID)

	s.mu.Lock()
	defer s.mu.Unlock()

	watched := false
	list := make([]string, 0, len(s.prefs.Watchlist)+1)
	for _, id := range s.prefs.Watchlist {
		if id == companyID {
			watched = true
			continue
		}
		list = append(list, id)
	}

	if !watched && companyID != "" {
		list = append(list, companyID)
	}
	s.prefs.Watchlist = list

	return clone(s.prefs), !watched && companyID != ""
}

func (s *Store) check(p models.UserPreferences) error {
	if err := s.validate.Struct(p); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPreferences, err)
	}
	if p.AlertThresholds.Negative > p.AlertThresholds.Positive {
		return fmt.Errorf("%w: negative threshold above positive", ErrInvalidPreferences)
	}
	return nil
}

func clone(p models.UserPreferences) models.UserPreferences {
	out := p
	out.Watchlist = append([]string{}, p.Watchlist...)
	return out
}

// cleanWatchlist trims ids and drops blanks and duplicates, keeping order
func cleanWatchlist(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
