package models

// AlertDirection tells which threshold a score crossed
type AlertDirection string

const (
	AlertAbove AlertDirection = "above"
	AlertBelow AlertDirection = "below"
)

// WatchlistAlert is raised when a watched company's score crosses a threshold
type WatchlistAlert struct {
	Company   Company        `json:"company"`
	Score     float64        `json:"score"`
	Threshold float64        `json:"threshold"`
	Direction AlertDirection `json:"direction"`
	Bucket    string         `json:"bucket"`
}
