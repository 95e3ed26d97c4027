package service

import (
	"context"
	"energylabel/internal/cache"
	"energylabel/internal/metrics"
	"energylabel/internal/model"
	"energylabel/internal/repository"
	"fmt"
	"log/slog"
	"time"
)

// AssessmentService records submitted sessions and keeps label statistics
type AssessmentService struct {
	repo      repository.AssessmentRepo
	snapshots repository.StatsRepo
	stats     cache.LabelStatsCache
	publisher Publisher
	metrics   *metrics.Metrics
	log       *slog.Logger
}

// NewAssessmentService creates an assessment service. A nil publisher
// disables event publishing.
func NewAssessmentService(
	repo repository.AssessmentRepo,
	snapshots repository.StatsRepo,
	stats cache.LabelStatsCache,
	publisher Publisher,
	m *metrics.Metrics,
	log *slog.Logger,
) *AssessmentService {
	if publisher == nil {
		publisher = NoopPublisher{}
	}
	return &AssessmentService{
		repo:      repo,
		snapshots: snapshots,
		stats:     stats,
		publisher: publisher,
		metrics:   m,
		log:       log.With("component", "assessment"),
	}
}

// Record stores an assessment. Only the store write can fail the call;
// statistics and publishing failures are logged.
func (s *AssessmentService) Record(ctx context.Context, a *model.Assessment) error {
	if err := s.repo.Create(ctx, a); err != nil {
		return fmt.Errorf("failed to store assessment: %w", err)
	}
	s.metrics.AssessmentStored(a.QuestionnaireID, a.Result.Label, a.Result.Score)

	if err := s.stats.Increment(ctx, a.QuestionnaireID, a.Result.Label); err != nil {
		s.log.Warn("label count not updated", "questionnaire", a.QuestionnaireID, "error", err)
	}
	if err := s.publisher.Publish(ctx, a); err != nil {
		s.metrics.PublishFailed()
		s.log.Warn("assessment not published", "id", a.ID, "error", err)
	}

	s.log.Info("assessment recorded",
		"id", a.ID,
		"questionnaire", a.QuestionnaireID,
		"session", a.SessionID,
		"label", a.Result.Label,
		"score", a.Result.Score,
	)
	return nil
}

// Recent returns the newest assessments of a questionnaire
func (s *AssessmentService) Recent(ctx context.Context, questionnaireID string, limit int) ([]*model.Assessment, error) {
	list, err := s.repo.ListByQuestionnaire(ctx, questionnaireID, int64(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to list assessments: %w", err)
	}
	if list == nil {
		list = []*model.Assessment{}
	}
	return list, nil
}

// Stats returns the label distribution of a questionnaire. Redis counts are
// preferred; when Redis has none the stored assessments are aggregated.
func (s *AssessmentService) Stats(ctx context.Context, questionnaireID string) (*model.LabelStats, error) {
	counts, err := s.stats.Counts(ctx, questionnaireID)
	if err != nil {
		s.log.Warn("label counts unavailable, aggregating", "questionnaire", questionnaireID, "error", err)
		counts = nil
	}
	if len(counts) == 0 {
		counts, err = s.repo.CountByLabel(ctx, questionnaireID)
		if err != nil {
			return nil, fmt.Errorf("failed to count labels: %w", err)
		}
	}
	return newLabelStats(questionnaireID, counts), nil
}

// Snapshot copies the current label counts of every questionnaire into the
// snapshot store and returns how many snapshots were written
func (s *AssessmentService) Snapshot(ctx context.Context) (int, error) {
	ids, err := s.stats.QuestionnaireIDs(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list label counts: %w", err)
	}

	written := 0
	for _, id := range ids {
		counts, err := s.stats.Counts(ctx, id)
		if err != nil {
			return written, fmt.Errorf("failed to read label counts of %s: %w", id, err)
		}
		if err := s.snapshots.InsertSnapshot(ctx, newLabelStats(id, counts)); err != nil {
			return written, fmt.Errorf("failed to store snapshot of %s: %w", id, err)
		}
		written++
	}
	return written, nil
}

func newLabelStats(questionnaireID string, counts map[string]int) *model.LabelStats {
	if counts == nil {
		counts = map[string]int{}
	}
	total := 0
	for _, n := range counts {
		total += n
	}
	return &model.LabelStats{
		QuestionnaireID: questionnaireID,
		Counts:          counts,
		Total:           total,
		TakenAt:         time.Now().UTC(),
	}
}
