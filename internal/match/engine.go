package match

import (
	"fmt"
	"strings"
	"time"

	"github.com/erazemk/lostfound/internal/model"
)

// Engine scores lost/found report pairs. It holds no mutable state and is safe
// for concurrent use.
type Engine struct {
	minScore     float64
	unclassified map[string]bool
}

// Breakdown is the per-dimension result of scoring one pair.
type Breakdown struct {
	Category float64 `json:"category"`
	Location float64 `json:"location"`
	Recency  float64 `json:"recency"`
	Feature  float64 `json:"feature"`
	Total    float64 `json:"total"`
}

// Reason renders the breakdown as the human-readable reason of a match record.
func (b Breakdown) Reason() string {
	return fmt.Sprintf("score=%.1f (category=%.0f location=%.0f recency=%.0f features=%.0f)",
		b.Total, b.Category, b.Location, b.Recency, b.Feature)
}

// NewEngine creates an engine with the given configuration.
func NewEngine(cfg Config) *Engine {
	unclassified := make(map[string]bool, len(cfg.Unclassified))
	for _, c := range cfg.Unclassified {
		unclassified[c] = true
	}
	return &Engine{minScore: cfg.MinScore, unclassified: unclassified}
}

// MinScore returns the lowest score a match cycle keeps.
func (e *Engine) MinScore() float64 {
	return e.minScore
}

// Score validates both reports and returns their score breakdown. A category
// mismatch zeroes the total regardless of the other dimensions.
func (e *Engine) Score(lost model.LostReport, found model.FoundReport) (Breakdown, error) {
	if err := lost.Validate(); err != nil {
		return Breakdown{}, err
	}
	if err := found.Validate(); err != nil {
		return Breakdown{}, err
	}

	b := Breakdown{
		Category: e.CategoryScore(lost, found),
		Location: e.LocationScore(lost, found),
		Recency:  e.RecencyScore(lost, found),
		Feature:  e.FeatureScore(lost, found),
	}
	if b.Category == 0 {
		return b, nil
	}
	b.Total = min(b.Category+b.Location+b.Recency+b.Feature, MaxAggregateScore)
	return b, nil
}

// CategoryScore awards CategoryPoints for identical, classified categories.
func (e *Engine) CategoryScore(lost model.LostReport, found model.FoundReport) float64 {
	if e.unclassified[lost.Category] || e.unclassified[found.Category] {
		return 0
	}
	if lost.Category != found.Category {
		return 0
	}
	return CategoryPoints
}

// LocationScore compares the two locations case-sensitively. It never returns 0.
func (e *Engine) LocationScore(lost model.LostReport, found model.FoundReport) float64 {
	a, b := lost.LostLocation, found.FoundLocation
	switch {
	case a == b:
		return LocationExactPoints
	case strings.Contains(a, b) || strings.Contains(b, a):
		return LocationContainsPoints
	case firstToken(a) == firstToken(b):
		return LocationTokenPoints
	}
	return LocationFloorPoints
}

// RecencyScore buckets the absolute gap between the lost and found times.
// Bucket bounds are inclusive.
func (e *Engine) RecencyScore(lost model.LostReport, found model.FoundReport) float64 {
	gap := timeGap(lost, found)
	switch {
	case gap <= 24*time.Hour:
		return RecencyDayPoints
	case gap <= 72*time.Hour:
		return RecencyDaysPoints
	case gap <= 168*time.Hour:
		return RecencyWeekPoints
	}
	return RecencyFloorPoints
}

// FeatureScore rewards matching color, brand and shared description words.
func (e *Engine) FeatureScore(lost model.LostReport, found model.FoundReport) float64 {
	var score float64
	if sameAttr(lost.Color, found.Color) {
		score += ColorPoints
	}
	if sameAttr(lost.Brand, found.Brand) {
		score += BrandPoints
	}
	score += min(float64(sharedWords(lost.Description, found.Description)), MaxWordPoints)
	return min(score, MaxFeaturePoints)
}

// sameAttr reports whether both attributes are present and equal ignoring case.
func sameAttr(a, b model.Attr) bool {
	if !a.Present() || !b.Present() {
		return false
	}
	return strings.ToLower(a.Text) == strings.ToLower(b.Text)
}

// sharedWords counts distinct lower-cased whitespace-delimited words present in both texts.
func sharedWords(a, b string) int {
	words := make(map[string]bool)
	for _, w := range strings.Fields(strings.ToLower(a)) {
		words[w] = true
	}
	n := 0
	for _, w := range strings.Fields(strings.ToLower(b)) {
		if words[w] {
			n++
			delete(words, w)
		}
	}
	return n
}

func firstToken(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

func timeGap(lost model.LostReport, found model.FoundReport) time.Duration {
	gap := found.FoundTime.Sub(lost.LostTime)
	if gap < 0 {
		gap = -gap
	}
	return gap
}
