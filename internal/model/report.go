package model

import (
	"strings"
	"time"
)

// LostReport describes an item a user reported as lost.
type LostReport struct {
	ID           int64     `json:"id"`
	UserID       *int64    `json:"user_id,omitempty"`
	ItemName     string    `json:"item_name"`
	Category     string    `json:"category"`
	LostLocation string    `json:"lost_location"`
	LostTime     time.Time `json:"lost_time"`
	Description  string    `json:"description,omitempty"`
	Color        Attr      `json:"color"`
	Brand        Attr      `json:"brand"`
	Resolved     bool      `json:"resolved"`
	CreatedAt    time.Time `json:"created_at"`
}

// FoundReport describes an item a user handed in or reported as found.
type FoundReport struct {
	ID            int64     `json:"id"`
	UserID        *int64    `json:"user_id,omitempty"`
	ItemName      string    `json:"item_name"`
	Category      string    `json:"category"`
	FoundLocation string    `json:"found_location"`
	FoundTime     time.Time `json:"found_time"`
	Description   string    `json:"description,omitempty"`
	Color         Attr      `json:"color"`
	Brand         Attr      `json:"brand"`
	Resolved      bool      `json:"resolved"`
	CreatedAt     time.Time `json:"created_at"`
}

// Report kinds, used in error messages and notification texts.
const (
	KindLost  = "lost"
	KindFound = "found"
)

// Validate checks that the fields required for matching are present.
func (r *LostReport) Validate() error {
	return validateReport(KindLost, r.ItemName, r.Category, r.LostLocation, r.LostTime)
}

// Validate checks that the fields required for matching are present.
func (r *FoundReport) Validate() error {
	return validateReport(KindFound, r.ItemName, r.Category, r.FoundLocation, r.FoundTime)
}

func validateReport(kind, name, category, location string, at time.Time) error {
	switch {
	case strings.TrimSpace(name) == "":
		return &InvalidReportError{Kind: kind, Field: "item_name"}
	case strings.TrimSpace(category) == "":
		return &InvalidReportError{Kind: kind, Field: "category"}
	case strings.TrimSpace(location) == "":
		return &InvalidReportError{Kind: kind, Field: "location"}
	case at.IsZero():
		return &InvalidReportError{Kind: kind, Field: "time"}
	}
	return nil
}
