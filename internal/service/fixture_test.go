package service

import (
	"errors"
	"testing"
	"time"

	"energylabel/internal/logging"
	"energylabel/internal/metrics"
	"energylabel/internal/service/servicetest"
)

var errStore = errors.New("store unavailable")

// fixture wires every service against in-memory fakes
type fixture struct {
	questionnaireRepo *servicetest.QuestionnaireRepo
	assessmentRepo    *servicetest.AssessmentRepo
	statsRepo         *servicetest.StatsRepo
	labelStats        *servicetest.LabelStats
	sessions          *servicetest.SessionCache
	publisher         *servicetest.Publisher
	broadcaster       *servicetest.Broadcaster
	metrics           *metrics.Metrics

	auth           *AuthService
	questionnaires *QuestionnaireService
	assessments    *AssessmentService
	sessionSvc     *SessionService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		questionnaireRepo: servicetest.NewQuestionnaireRepo(),
		assessmentRepo:    &servicetest.AssessmentRepo{},
		statsRepo:         &servicetest.StatsRepo{},
		labelStats:        servicetest.NewLabelStats(),
		sessions:          servicetest.NewSessionCache(),
		publisher:         &servicetest.Publisher{},
		broadcaster:       &servicetest.Broadcaster{},
		metrics:           metrics.New(),
	}
	log := logging.Discard()
	f.auth = NewAuthService("admin", "secret", "test-secret", time.Hour)
	f.questionnaires = NewQuestionnaireService(f.questionnaireRepo, nil, f.metrics, log)
	f.assessments = NewAssessmentService(f.assessmentRepo, f.statsRepo, f.labelStats, f.publisher, f.metrics, log)
	f.sessionSvc = NewSessionService(f.questionnaires, f.assessments, f.sessions, f.auth, f.broadcaster, log)
	return f
}
