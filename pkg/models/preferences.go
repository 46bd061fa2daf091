package models

// Theme of the dashboard
type Theme string

// Layout of the dashboard
type Layout string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"

	LayoutDefault  Layout = "default"
	LayoutCompact  Layout = "compact"
	LayoutDetailed Layout = "detailed"
)

// AlertThresholds trigger watchlist alerts when a score crosses them
type AlertThresholds struct {
	Positive float64 `json:"positive" validate:"gte=0,lte=1"`
	Negative float64 `json:"negative" validate:"gte=-1,lte=0"`
}

// UserPreferences is local-only dashboard configuration; never stored in the database
type UserPreferences struct {
	Language        Language        `json:"language" validate:"oneof=en ar"`
	Theme           Theme           `json:"theme" validate:"oneof=light dark"`
	DashboardLayout Layout          `json:"dashboard_layout" validate:"oneof=default compact detailed"`
	Watchlist       []string        `json:"watchlist" validate:"dive,required"`
	AlertThresholds AlertThresholds `json:"alert_thresholds"`
}

// InWatchlist reports whether company id is watched
func (p UserPreferences) InWatchlist(id string) bool {
	for _, w := range p.Watchlist {
		if w == id {
			return true
		}
	}
	return false
}
