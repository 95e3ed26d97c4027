package service

import (
	"context"
	"errors"
	"slices"
	"testing"

	"energylabel/internal/logging"
	"energylabel/internal/metrics"
	"energylabel/internal/model"
	"energylabel/internal/questionnaire"
	"energylabel/internal/service/servicetest"
)

func modernHome(t *testing.T) model.AnswerMap {
	t.Helper()
	for _, s := range questionnaire.Scenarios() {
		if s.Name == "Modern efficient home" {
			return s.Answers
		}
	}
	t.Fatal("scenario missing")
	return nil
}

func TestGetDefault(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	q, err := f.questionnaires.Get(ctx, questionnaire.DefaultID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if q.ID != questionnaire.DefaultID || len(q.Questions) != 14 {
		t.Errorf("got id %q with %d questions", q.ID, len(q.Questions))
	}

	// Callers get copies
	q.Questions = nil
	again, _ := f.questionnaires.Get(ctx, questionnaire.DefaultID)
	if len(again.Questions) != 14 {
		t.Error("default questionnaire was modified through a returned copy")
	}

	if _, err := f.questionnaires.Get(ctx, "missing"); !errors.Is(err, ErrQuestionnaireNotFound) {
		t.Errorf("missing: err = %v", err)
	}
}

func TestCreateValidates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.questionnaires.Create(ctx, "host_1", &model.Questionnaire{Scoring: model.DefaultScoring()})
	if !errors.Is(err, ErrInvalidQuestionnaire) {
		t.Fatalf("empty questionnaire: err = %v", err)
	}
	if len(f.questionnaireRepo.Docs) != 0 {
		t.Error("invalid questionnaire was stored")
	}

	id, err := f.questionnaires.Create(ctx, "host_1", questionnaire.Default())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	stored, err := f.questionnaires.Get(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if stored.HostID != "host_1" {
		t.Errorf("HostID = %q", stored.HostID)
	}

	list, err := f.questionnaires.ListByHost(ctx, "host_1")
	if err != nil || len(list) != 1 {
		t.Errorf("ListByHost = %d, %v", len(list), err)
	}
	if list, _ := f.questionnaires.ListByHost(ctx, "host_2"); list == nil || len(list) != 0 {
		t.Errorf("other host sees %v", list)
	}
}

func TestOwnership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	id, err := f.questionnaires.Create(ctx, "host_1", questionnaire.Default())
	if err != nil {
		t.Fatal(err)
	}
	q, _ := f.questionnaires.Get(ctx, id)

	if err := f.questionnaires.Update(ctx, "host_2", q); !errors.Is(err, ErrNotOwner) {
		t.Errorf("Update by other host: err = %v", err)
	}
	if err := f.questionnaires.Delete(ctx, "host_2", id); !errors.Is(err, ErrNotOwner) {
		t.Errorf("Delete by other host: err = %v", err)
	}
	if err := f.questionnaires.Delete(ctx, "host_1", questionnaire.DefaultID); !errors.Is(err, ErrReadOnly) {
		t.Errorf("Delete default: err = %v", err)
	}
	if err := f.questionnaires.Delete(ctx, "host_1", id); err != nil {
		t.Errorf("Delete: %v", err)
	}
	if _, err := f.questionnaires.Get(ctx, id); !errors.Is(err, ErrQuestionnaireNotFound) {
		t.Errorf("after delete: err = %v", err)
	}
}

func TestEvaluateUsesUpdatedQuestionnaire(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	id, err := f.questionnaires.Create(ctx, "host_1", questionnaire.Default())
	if err != nil {
		t.Fatal(err)
	}

	r, err := f.questionnaires.Evaluate(ctx, id, modernHome(t))
	if err != nil {
		t.Fatal(err)
	}
	if r.Score != 1634 {
		t.Fatalf("score = %d, want 1634", r.Score)
	}

	q, _ := f.questionnaires.Get(ctx, id)
	q.Scoring.Bonuses = nil
	if err := f.questionnaires.Update(ctx, "host_1", q); err != nil {
		t.Fatalf("Update: %v", err)
	}

	r, err = f.questionnaires.Evaluate(ctx, id, modernHome(t))
	if err != nil {
		t.Fatal(err)
	}
	if r.Score != 1494 {
		t.Errorf("score after removing bonuses = %d, want 1494", r.Score)
	}
	if r.HasBonus() {
		t.Error("bonus lines after removing bonuses")
	}
}

func TestEvaluateDoesNotKeepCallerMap(t *testing.T) {
	f := newFixture(t)
	answers := modernHome(t)
	before := len(answers)

	if _, err := f.questionnaires.Evaluate(context.Background(), questionnaire.DefaultID, answers); err != nil {
		t.Fatal(err)
	}
	if len(answers) != before {
		t.Error("Evaluate changed the caller's answers")
	}
	if _, err := f.questionnaires.Evaluate(context.Background(), "missing", answers); !errors.Is(err, ErrQuestionnaireNotFound) {
		t.Errorf("missing: err = %v", err)
	}
}

func TestVisibility(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	state, err := f.questionnaires.Visibility(ctx, questionnaire.DefaultID, model.AnswerMap{})
	if err != nil {
		t.Fatal(err)
	}
	if slices.Contains(state.ActiveQuestions, "question_2") {
		t.Error("apartment type active without an apartment")
	}

	state, _ = f.questionnaires.Visibility(ctx, questionnaire.DefaultID, model.AnswerMap{
		"question_1": model.Text("Appartement"),
	})
	if !slices.Contains(state.ActiveQuestions, "question_2") {
		t.Errorf("apartment type inactive for an apartment: %v", state.ActiveQuestions)
	}
}

// changingRepo runs onRead after each GetByID, standing in for a write that
// lands while a reader holds the old document
type changingRepo struct {
	*servicetest.QuestionnaireRepo
	onRead func()
}

func (r *changingRepo) GetByID(ctx context.Context, id string) (*model.Questionnaire, error) {
	q, err := r.QuestionnaireRepo.GetByID(ctx, id)
	if r.onRead != nil {
		r.onRead()
	}
	return q, err
}

func TestEngineBuiltFromStaleReadIsNotCached(t *testing.T) {
	repo := &changingRepo{QuestionnaireRepo: servicetest.NewQuestionnaireRepo()}
	svc := NewQuestionnaireService(repo, nil, metrics.New(), logging.Discard())
	ctx := context.Background()

	id, err := svc.Create(ctx, "host_1", questionnaire.Default())
	if err != nil {
		t.Fatal(err)
	}

	repo.onRead = func() { svc.forget(id) }
	if _, err := svc.Engine(ctx, id); err != nil {
		t.Fatalf("Engine: %v", err)
	}
	svc.mu.RLock()
	_, cached := svc.engines[id]
	svc.mu.RUnlock()
	if cached {
		t.Error("engine built during an update was cached")
	}

	repo.onRead = nil
	first, err := svc.Engine(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	second, _ := svc.Engine(ctx, id)
	if first != second {
		t.Error("engine not cached once reads are quiet")
	}
}
