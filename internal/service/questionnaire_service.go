package service

import (
	"context"
	"energylabel/internal/engine"
	"energylabel/internal/metrics"
	"energylabel/internal/model"
	"energylabel/internal/questionnaire"
	"energylabel/internal/repository"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

var (
	ErrQuestionnaireNotFound = errors.New("questionnaire not found")
	ErrInvalidQuestionnaire  = errors.New("invalid questionnaire")
	ErrNotOwner              = errors.New("questionnaire belongs to another host")
	ErrReadOnly              = errors.New("the default questionnaire cannot be changed")
)

// QuestionnaireService serves stored questionnaires and the bundled default,
// and evaluates answers against them
type QuestionnaireService struct {
	repo     repository.QuestionnaireRepo
	fallback *model.Questionnaire
	metrics  *metrics.Metrics
	log      *slog.Logger

	mu         sync.RWMutex
	engines    map[string]*engine.Engine
	generation uint64 // bumped whenever an engine is dropped
}

// NewQuestionnaireService creates a questionnaire service. fallback is served
// under questionnaire.DefaultID; nil means the bundled default.
func NewQuestionnaireService(
	repo repository.QuestionnaireRepo,
	fallback *model.Questionnaire,
	m *metrics.Metrics,
	log *slog.Logger,
) *QuestionnaireService {
	if fallback == nil {
		fallback = questionnaire.Default()
	}
	fallback = fallback.Clone()
	fallback.ID = questionnaire.DefaultID

	return &QuestionnaireService{
		repo:     repo,
		fallback: fallback,
		metrics:  m,
		log:      log.With("component", "questionnaire"),
		engines: map[string]*engine.Engine{
			questionnaire.DefaultID: engine.New(fallback),
		},
	}
}

// Get returns a questionnaire by id
func (s *QuestionnaireService) Get(ctx context.Context, id string) (*model.Questionnaire, error) {
	if id == questionnaire.DefaultID {
		return s.fallback.Clone(), nil
	}

	q, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get questionnaire: %w", err)
	}
	if q == nil {
		return nil, ErrQuestionnaireNotFound
	}
	return q, nil
}

// ListByHost returns the questionnaires a host has stored
func (s *QuestionnaireService) ListByHost(ctx context.Context, hostID string) ([]*model.Questionnaire, error) {
	list, err := s.repo.GetByHostID(ctx, hostID)
	if err != nil {
		return nil, fmt.Errorf("failed to list questionnaires: %w", err)
	}
	if list == nil {
		list = []*model.Questionnaire{}
	}
	return list, nil
}

// Create validates and stores a new questionnaire for hostID
func (s *QuestionnaireService) Create(ctx context.Context, hostID string, q *model.Questionnaire) (string, error) {
	if err := validate(q); err != nil {
		return "", err
	}

	q.ID = ""
	q.HostID = hostID
	q.Revision = 0
	id, err := s.repo.Create(ctx, q)
	if err != nil {
		return "", fmt.Errorf("failed to create questionnaire: %w", err)
	}
	s.log.Info("questionnaire created", "id", id, "host", hostID, "questions", len(q.Questions))
	return id, nil
}

// Update replaces a stored questionnaire. Only its owner may change it.
// Every update bumps the revision, which resets the answers of sessions
// still open on the previous one.
func (s *QuestionnaireService) Update(ctx context.Context, hostID string, q *model.Questionnaire) error {
	existing, err := s.owned(ctx, hostID, q.ID)
	if err != nil {
		return err
	}
	if err := validate(q); err != nil {
		return err
	}

	q.HostID = hostID
	q.Revision = existing.Revision + 1
	q.CreatedAt = existing.CreatedAt
	if err := s.repo.Update(ctx, q); err != nil {
		return fmt.Errorf("failed to update questionnaire: %w", err)
	}
	s.forget(q.ID)
	s.log.Info("questionnaire updated", "id", q.ID, "host", hostID, "revision", q.Revision)
	return nil
}

// Delete removes a stored questionnaire. Only its owner may delete it.
func (s *QuestionnaireService) Delete(ctx context.Context, hostID, id string) error {
	if _, err := s.owned(ctx, hostID, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete questionnaire: %w", err)
	}
	s.forget(id)
	s.log.Info("questionnaire deleted", "id", id, "host", hostID)
	return nil
}

// Engine returns the evaluation engine of a questionnaire, building it on
// first use
func (s *QuestionnaireService) Engine(ctx context.Context, id string) (*engine.Engine, error) {
	s.mu.RLock()
	e, ok := s.engines[id]
	gen := s.generation
	s.mu.RUnlock()
	if ok {
		s.metrics.EngineCacheHit()
		return e, nil
	}

	q, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.metrics.EngineCacheMiss()
	e = engine.New(q)

	// An update or delete that landed while q was being read may have made
	// it stale: serve it to this caller but keep it out of the cache.
	s.mu.Lock()
	if cached, ok := s.engines[id]; ok {
		e = cached
	} else if s.generation == gen {
		s.engines[id] = e
	}
	s.mu.Unlock()
	return e, nil
}

// Evaluate scores an answer snapshot without creating a session
func (s *QuestionnaireService) Evaluate(ctx context.Context, id string, answers model.AnswerMap) (*model.Result, error) {
	e, err := s.Engine(ctx, id)
	if err != nil {
		return nil, err
	}
	result := e.CalculateLabel(answers.Clone())
	return &result, nil
}

// Visibility reports the live questions and choices for an answer snapshot
func (s *QuestionnaireService) Visibility(ctx context.Context, id string, answers model.AnswerMap) (*model.VisibilityState, error) {
	e, err := s.Engine(ctx, id)
	if err != nil {
		return nil, err
	}
	state := e.Visibility(answers.Clone())
	return &state, nil
}

func (s *QuestionnaireService) owned(ctx context.Context, hostID, id string) (*model.Questionnaire, error) {
	if id == questionnaire.DefaultID {
		return nil, ErrReadOnly
	}
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.HostID != hostID {
		return nil, ErrNotOwner
	}
	return existing, nil
}

func (s *QuestionnaireService) forget(id string) {
	s.mu.Lock()
	delete(s.engines, id)
	s.generation++
	s.mu.Unlock()
}

func validate(q *model.Questionnaire) error {
	q.AssignIDs()
	if err := q.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidQuestionnaire, err)
	}
	return nil
}
