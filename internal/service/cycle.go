package service

import (
	"context"
	"fmt"

	"github.com/erazemk/lostfound/internal/model"
	"github.com/erazemk/lostfound/internal/store"
)

// CycleResult summarizes one match cycle.
type CycleResult struct {
	RunID string

	// Matches are the stored records the cycle produced, best first. Pairs
	// stored by an earlier cycle keep their first stored score.
	Matches []model.MatchRecord

	// New counts matches stored for the first time.
	New int

	// Notifications counts notifications stored by this cycle.
	Notifications int
}

// ReportLost stores a lost report and matches it against every unresolved
// found report.
func (s *Service) ReportLost(ctx context.Context, r model.LostReport) (*model.LostReport, *CycleResult, error) {
	if err := r.Validate(); err != nil {
		return nil, nil, err
	}
	r.Resolved = false

	lost, err := store.CreateLostReport(ctx, s.DB, r)
	if err != nil {
		return nil, nil, err
	}

	res, err := s.matchLost(ctx, *lost, "report_lost")
	if err != nil {
		return lost, nil, err
	}
	return lost, res, nil
}

// ReportFound stores a found report and matches it against every unresolved
// lost report.
func (s *Service) ReportFound(ctx context.Context, r model.FoundReport) (*model.FoundReport, *CycleResult, error) {
	if err := r.Validate(); err != nil {
		return nil, nil, err
	}
	r.Resolved = false

	found, err := store.CreateFoundReport(ctx, s.DB, r)
	if err != nil {
		return nil, nil, err
	}

	res, err := s.matchFound(ctx, *found, "report_found")
	if err != nil {
		return found, nil, err
	}
	return found, res, nil
}

// Rematch runs the match cycle again for a stored lost report. Pairs that are
// already stored are neither duplicated nor notified twice.
func (s *Service) Rematch(ctx context.Context, lostID int64) (*CycleResult, error) {
	lost, err := store.GetLostReport(ctx, s.DB, lostID)
	if err != nil {
		return nil, err
	}
	if lost == nil {
		return nil, fmt.Errorf("lost report %d: %w", lostID, ErrNotFound)
	}
	if lost.Resolved {
		return &CycleResult{}, nil
	}
	return s.matchLost(ctx, *lost, "rematch")
}

func (s *Service) matchLost(ctx context.Context, lost model.LostReport, op string) (*CycleResult, error) {
	log, runID := s.runLogger(op)

	candidates, err := store.ListCandidateFoundReports(ctx, s.DB)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]model.FoundReport, len(candidates))
	for _, f := range candidates {
		byID[f.ID] = f
	}

	records, err := s.Engine.Run(lost, candidates)
	if err != nil {
		return nil, fmt.Errorf("matching lost report %d: %w", lost.ID, err)
	}

	res := &CycleResult{RunID: runID}
	for _, rec := range records {
		if err := s.persist(ctx, res, rec, lost, byID[rec.FoundID]); err != nil {
			log.Error("match cycle failed", "lost", lost.ID, "error", err)
			return nil, err
		}
	}

	log.Info("match cycle finished", "lost", lost.ID, "candidates", len(candidates),
		"matches", len(res.Matches), "new", res.New, "notifications", res.Notifications)
	return res, nil
}

func (s *Service) matchFound(ctx context.Context, found model.FoundReport, op string) (*CycleResult, error) {
	log, runID := s.runLogger(op)

	candidates, err := store.ListCandidateLostReports(ctx, s.DB)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]model.LostReport, len(candidates))
	for _, l := range candidates {
		byID[l.ID] = l
	}

	records, err := s.Engine.RunFound(found, candidates)
	if err != nil {
		return nil, fmt.Errorf("matching found report %d: %w", found.ID, err)
	}

	res := &CycleResult{RunID: runID}
	for _, rec := range records {
		if err := s.persist(ctx, res, rec, byID[rec.LostID], found); err != nil {
			log.Error("match cycle failed", "found", found.ID, "error", err)
			return nil, err
		}
	}

	log.Info("match cycle finished", "found", found.ID, "candidates", len(candidates),
		"matches", len(res.Matches), "new", res.New, "notifications", res.Notifications)
	return res, nil
}

// persist stores rec and sends its notifications unless some earlier cycle
// already did.
func (s *Service) persist(ctx context.Context, res *CycleResult, rec model.MatchRecord, lost model.LostReport, found model.FoundReport) error {
	stored, created, err := store.CreateMatchRecord(ctx, s.DB, rec)
	if err != nil {
		return err
	}
	if created {
		res.New++
	}

	if !stored.Notified {
		notes := s.Policy.OnMatch(*stored, lost, found)
		claimed, err := store.NotifyMatch(ctx, s.DB, stored.ID, notes)
		if err != nil {
			return err
		}
		if claimed {
			stored.Notified = true
			res.Notifications += len(notes)
		}
	}

	res.Matches = append(res.Matches, *stored)
	return nil
}

// NotifyPending sends the notifications of stored matches that never got
// them, for example after a crash between storing a match and notifying.
// It returns how many notifications were stored.
func (s *Service) NotifyPending(ctx context.Context) (int, error) {
	log, _ := s.runLogger("notify_pending")

	pending, err := store.ListPendingMatches(ctx, s.DB)
	if err != nil {
		return 0, err
	}

	var sent int
	for _, m := range pending {
		lost, err := store.GetLostReport(ctx, s.DB, m.LostID)
		if err != nil {
			return sent, err
		}
		found, err := store.GetFoundReport(ctx, s.DB, m.FoundID)
		if err != nil {
			return sent, err
		}
		if lost == nil || found == nil {
			log.Warn("skipping match with missing report", "match", m.ID)
			continue
		}

		notes := s.Policy.OnMatch(m, *lost, *found)
		claimed, err := store.NotifyMatch(ctx, s.DB, m.ID, notes)
		if err != nil {
			return sent, err
		}
		if claimed {
			sent += len(notes)
		}
	}

	log.Info("pending matches notified", "pending", len(pending), "notifications", sent)
	return sent, nil
}
