package service

import (
	"context"
	"energylabel/internal/cache"
	"energylabel/internal/engine"
	"energylabel/internal/model"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

var (
	ErrSessionNotFound  = errors.New("session not found")
	ErrSessionSubmitted = errors.New("session already submitted")
	ErrUnknownQuestion  = errors.New("question not found")
)

// SessionState is a session together with what its renderer should show
type SessionState struct {
	Session    *model.Session        `json:"session"`
	Visibility model.VisibilityState `json:"visibility"`
}

// StartedSession is returned when a session is opened
type StartedSession struct {
	Session *model.Session `json:"session"`
	Token   string         `json:"token"`
}

// SessionService manages in-progress questionnaire sessions
type SessionService struct {
	questionnaires *QuestionnaireService
	assessments    *AssessmentService
	cache          cache.SessionCache
	auth           *AuthService
	broadcaster    Broadcaster
	log            *slog.Logger
}

// NewSessionService creates a session service. A nil broadcaster disables
// live updates.
func NewSessionService(
	questionnaires *QuestionnaireService,
	assessments *AssessmentService,
	sessionCache cache.SessionCache,
	auth *AuthService,
	broadcaster Broadcaster,
	log *slog.Logger,
) *SessionService {
	if broadcaster == nil {
		broadcaster = noopBroadcaster{}
	}
	return &SessionService{
		questionnaires: questionnaires,
		assessments:    assessments,
		cache:          sessionCache,
		auth:           auth,
		broadcaster:    broadcaster,
		log:            log.With("component", "session"),
	}
}

// Start opens a session on a questionnaire and returns its token
func (s *SessionService) Start(ctx context.Context, questionnaireID string) (*StartedSession, error) {
	e, err := s.questionnaires.Engine(ctx, questionnaireID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	session := &model.Session{
		ID:              uuid.New().String(),
		QuestionnaireID: questionnaireID,
		Revision:        e.Questionnaire().Revision,
		Status:          model.SessionActive,
		Answers:         model.AnswerMap{},
		StartedAt:       now,
		UpdatedAt:       now,
	}

	token, err := s.auth.GenerateSessionToken(session.ID, questionnaireID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate session token: %w", err)
	}
	if err := s.cache.Set(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}

	s.log.Info("session started", "session", session.ID, "questionnaire", questionnaireID)
	return &StartedSession{Session: session, Token: token}, nil
}

// Get returns a session and its current visibility
func (s *SessionService) Get(ctx context.Context, id string) (*SessionState, error) {
	session, e, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return &SessionState{Session: session, Visibility: e.Visibility(session.Answers)}, nil
}

// SetAnswer records one answer change. questionKey is a question id or its
// text; an empty answer clears the question.
func (s *SessionService) SetAnswer(ctx context.Context, id, questionKey string, ans model.Answer) (*SessionState, error) {
	session, e, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.Status == model.SessionSubmitted {
		return nil, ErrSessionSubmitted
	}

	q, ok := e.Question(questionKey)
	if !ok {
		if q, _, ok = e.Resolve(questionKey); !ok {
			return nil, ErrUnknownQuestion
		}
	}

	if q.Kind.IsMulti() && !ans.Multi && ans.Value != "" {
		ans = model.Selection(ans.Value)
	}
	if ans.IsEmpty() {
		delete(session.Answers, q.ID)
	} else {
		session.Answers[q.ID] = ans
	}

	return s.save(ctx, session, e)
}

// Reset clears every answer of a session
func (s *SessionService) Reset(ctx context.Context, id string) (*SessionState, error) {
	session, e, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.Status == model.SessionSubmitted {
		return nil, ErrSessionSubmitted
	}

	session.Answers = model.AnswerMap{}
	return s.save(ctx, session, e)
}

// Submit scores a session and records it as an assessment. Submitting an
// already submitted session returns its stored result.
func (s *SessionService) Submit(ctx context.Context, id string) (*model.Result, error) {
	session, e, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.Status == model.SessionSubmitted && session.Result != nil {
		return session.Result, nil
	}

	result := e.CalculateLabel(session.Answers.Clone())
	assessment := &model.Assessment{
		QuestionnaireID: session.QuestionnaireID,
		SessionID:       session.ID,
		Answers:         session.Answers.Clone(),
		Result:          result,
		SubmittedAt:     time.Now().UTC(),
	}
	if err := s.assessments.Record(ctx, assessment); err != nil {
		return nil, err
	}

	session.Status = model.SessionSubmitted
	session.Result = &result
	session.UpdatedAt = assessment.SubmittedAt
	if err := s.cache.Set(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}

	s.broadcaster.BroadcastToSession(session.ID, MsgResultReady, result)
	s.log.Info("session submitted", "session", session.ID, "label", result.Label, "score", result.Score)
	return &result, nil
}

// Discard abandons a session: its draft is deleted and its renderers are
// disconnected
func (s *SessionService) Discard(ctx context.Context, id string) error {
	session, err := s.cache.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get session: %w", err)
	}
	if session == nil {
		return ErrSessionNotFound
	}
	if err := s.cache.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	s.broadcaster.DisconnectSession(id)
	s.log.Info("session discarded", "session", id)
	return nil
}

func (s *SessionService) load(ctx context.Context, id string) (*model.Session, *engine.Engine, error) {
	session, err := s.cache.Get(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get session: %w", err)
	}
	if session == nil {
		return nil, nil, ErrSessionNotFound
	}
	if session.Answers == nil {
		session.Answers = model.AnswerMap{}
	}

	e, err := s.questionnaires.Engine(ctx, session.QuestionnaireID)
	if err != nil {
		return nil, nil, err
	}

	// answers are keyed by position, so they do not carry over to a new schema
	if rev := e.Questionnaire().Revision; session.Status == model.SessionActive && session.Revision != rev {
		s.log.Info("questionnaire changed, answers reset",
			"session", session.ID, "from", session.Revision, "to", rev, "answers", len(session.Answers))
		session.Answers = model.AnswerMap{}
		session.Revision = rev
		session.UpdatedAt = time.Now().UTC()
		if err := s.cache.Set(ctx, session); err != nil {
			return nil, nil, fmt.Errorf("failed to store session: %w", err)
		}
	}
	return session, e, nil
}

func (s *SessionService) save(ctx context.Context, session *model.Session, e *engine.Engine) (*SessionState, error) {
	session.UpdatedAt = time.Now().UTC()
	if err := s.cache.Set(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}

	state := &SessionState{Session: session, Visibility: e.Visibility(session.Answers)}
	s.broadcaster.BroadcastToSession(session.ID, MsgVisibilityUpdate, state.Visibility)
	return state, nil
}
