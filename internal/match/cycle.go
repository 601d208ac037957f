package match

import (
	"fmt"
	"sort"
	"time"

	"github.com/erazemk/lostfound/internal/model"
)

// candidate is a scored pair waiting to be ranked.
type candidate struct {
	record model.MatchRecord
	gap    time.Duration
	key    int64 // ID of the report on the candidate side
}

// Run scores lost against every found candidate and returns the match records
// scoring at least MinScore, best first. Equal scores are ordered by the smaller
// time gap, then by found report ID, then by input order.
func (e *Engine) Run(lost model.LostReport, found []model.FoundReport) ([]model.MatchRecord, error) {
	if err := lost.Validate(); err != nil {
		return nil, err
	}

	var kept []candidate
	for _, f := range found {
		b, err := e.Score(lost, f)
		if err != nil {
			return nil, fmt.Errorf("scoring found report %d: %w", f.ID, err)
		}
		if !keep(b, e.minScore) {
			continue
		}
		kept = append(kept, candidate{
			record: newRecord(lost.ID, f.ID, b),
			gap:    timeGap(lost, f),
			key:    f.ID,
		})
	}
	return rank(kept), nil
}

// RunFound is the reverse cycle: it scores a newly reported found item against
// every lost candidate, with the same filter and ordering as Run keyed on the
// lost report IDs.
func (e *Engine) RunFound(found model.FoundReport, lost []model.LostReport) ([]model.MatchRecord, error) {
	if err := found.Validate(); err != nil {
		return nil, err
	}

	var kept []candidate
	for _, l := range lost {
		b, err := e.Score(l, found)
		if err != nil {
			return nil, fmt.Errorf("scoring lost report %d: %w", l.ID, err)
		}
		if !keep(b, e.minScore) {
			continue
		}
		kept = append(kept, candidate{
			record: newRecord(l.ID, found.ID, b),
			gap:    timeGap(l, found),
			key:    l.ID,
		})
	}
	return rank(kept), nil
}

// keep reports whether a scored pair survives the cycle filter. A vetoed pair
// scores 0 and never survives, whatever the minimum score.
func keep(b Breakdown, minScore float64) bool {
	return b.Total > 0 && b.Total >= minScore
}

func newRecord(lostID, foundID int64, b Breakdown) model.MatchRecord {
	return model.MatchRecord{
		LostID:  lostID,
		FoundID: foundID,
		Score:   b.Total,
		Reason:  b.Reason(),
	}
}

func rank(kept []candidate) []model.MatchRecord {
	sort.SliceStable(kept, func(i, j int) bool {
		a, b := kept[i], kept[j]
		if a.record.Score != b.record.Score {
			return a.record.Score > b.record.Score
		}
		if a.gap != b.gap {
			return a.gap < b.gap
		}
		return a.key < b.key
	})

	records := make([]model.MatchRecord, len(kept))
	for i, c := range kept {
		records[i] = c.record
	}
	return records
}
