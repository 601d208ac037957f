package model

import "time"

// MatchRecord is a scored pairing of one lost report with one found report.
type MatchRecord struct {
	ID        int64     `json:"id"`
	LostID    int64     `json:"lost_id"`
	FoundID   int64     `json:"found_id"`
	Score     float64   `json:"score"`
	Reason    string    `json:"reason,omitempty"`
	Notified  bool      `json:"notified"`
	CreatedAt time.Time `json:"created_at"`
}
