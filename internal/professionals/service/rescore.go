package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"tradesmarket/internal/events"
	"tradesmarket/internal/professionals/repository"
	"tradesmarket/internal/scoring"
	"tradesmarket/internal/scoring/tradescore"
	"tradesmarket/platform/metrics"
)

// Rescore triggers, used as log and metric labels.
const (
	ReasonProfileUpdated       = "profile_updated"
	ReasonCertificationAdded   = "certification_added"
	ReasonCertificationRemoved = "certification_removed"
	ReasonVerification         = "verification"
	ReasonReview               = "review"
	ReasonManual               = "manual"
	ReasonBackfill             = "backfill"
	ReasonScheduled            = "scheduled"
)

const rescoreBatchSize = 200

// adjustment mutates the profile and patch before the total is computed.
type adjustment func(profile *tradescore.Profile, reviews repository.ReviewStats, patch *repository.ScorePatch) error

// Rescore recomputes and persists the trade score from the stored sub-scores.
func (s *Service) Rescore(ctx context.Context, id uuid.UUID, reason string) (repository.Professional, error) {
	return s.rescore(ctx, id, reason, nil)
}

// RescoreAll recomputes every profile in key order. A failure on one profile
// is logged and counted, and does not stop the run. batchSize <= 0 uses the
// default page size.
func (s *Service) RescoreAll(ctx context.Context, reason string, batchSize int) (RescoreSummary, error) {
	if batchSize <= 0 {
		batchSize = rescoreBatchSize
	}

	var summary RescoreSummary
	after := uuid.Nil
	for {
		ids, err := s.repo.ListIDs(ctx, after, batchSize)
		if err != nil {
			return summary, err
		}
		if len(ids) == 0 {
			return summary, nil
		}

		for _, id := range ids {
			if err := ctx.Err(); err != nil {
				return summary, err
			}
			if _, err := s.Rescore(ctx, id, reason); err != nil {
				summary.Failed++
				s.log.WithContext(ctx).Error("rescore failed", "professionalId", id, "reason", reason, "error", err)
				continue
			}
			summary.Rescored++
		}
		after = ids[len(ids)-1]
	}
}

// RescoreSummary counts the outcome of a bulk rescore.
type RescoreSummary struct {
	Rescored int `json:"rescored"`
	Failed   int `json:"failed"`
}

// ApplyReview refreshes the rating aggregate, derives quality from it, folds
// the review's timeliness into reliability and rescores, all in one update.
func (s *Service) ApplyReview(ctx context.Context, e events.ReviewSubmitted) error {
	_, err := s.rescore(ctx, e.ProfessionalID, ReasonReview, func(profile *tradescore.Profile, reviews repository.ReviewStats, patch *repository.ScorePatch) error {
		if reviews.Count > 0 {
			rating := reviews.Average
			count := reviews.Count
			patch.Rating = &rating
			patch.ReviewCount = &count
			profile.Quality = tradescore.QualityFromRating(rating)
		}
		if e.Timeliness != nil {
			reliability, err := tradescore.UpdateReliability(profile.Reliability, *e.Timeliness)
			if err != nil {
				return err
			}
			profile.Reliability = reliability
		}
		return nil
	})
	return err
}

func (s *Service) rescore(ctx context.Context, id uuid.UUID, reason string, adjust adjustment) (repository.Professional, error) {
	started := time.Now()
	var previous float64

	p, err := s.repo.UpdateScore(ctx, id, func(current repository.Professional, reviews repository.ReviewStats) (repository.ScorePatch, error) {
		previous = current.Score.Total
		profile := toProfile(current)
		var patch repository.ScorePatch

		if adjust != nil {
			if err := adjust(&profile, reviews, &patch); err != nil {
				return patch, err
			}
		}

		total, err := s.engine.ComputeTotal(profile)
		if err != nil {
			return patch, err
		}
		patch.Score = scoreFromProfile(profile, total)
		return patch, nil
	})
	metrics.ObserveRescore(reason, started, err)
	if err != nil {
		return repository.Professional{}, scoring.AsValidation(err)
	}

	s.log.WithContext(ctx).ScoreRecomputed(id.String(), previous, p.Score.Total, reason)
	return p, nil
}
