package service

import (
	"context"
	"errors"
	"slices"
	"testing"

	"energylabel/internal/model"
	"energylabel/internal/questionnaire"
)

func startSession(t *testing.T, f *fixture) *model.Session {
	t.Helper()
	started, err := f.sessionSvc.Start(context.Background(), questionnaire.DefaultID)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	return started.Session
}

func TestStartSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	started, err := f.sessionSvc.Start(ctx, questionnaire.DefaultID)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	claims, err := f.auth.ValidateSessionToken(started.Token)
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	if claims.SessionID != started.Session.ID {
		t.Errorf("token session = %q, want %q", claims.SessionID, started.Session.ID)
	}

	state, err := f.sessionSvc.Get(ctx, started.Session.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if state.Session.Status != model.SessionActive {
		t.Errorf("status = %s", state.Session.Status)
	}
	if len(state.Visibility.ActiveQuestions) == 0 {
		t.Error("no active questions")
	}

	if _, err := f.sessionSvc.Start(ctx, "missing"); !errors.Is(err, ErrQuestionnaireNotFound) {
		t.Errorf("unknown questionnaire: err = %v", err)
	}
	if _, err := f.sessionSvc.Get(ctx, "missing"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("unknown session: err = %v", err)
	}
}

func TestSetAnswer(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := startSession(t, f)

	state, err := f.sessionSvc.SetAnswer(ctx, s.ID, "Wat voor soort woning heeft u?", model.Text("Appartement"))
	if err != nil {
		t.Fatalf("SetAnswer by text: %v", err)
	}
	if got := state.Session.Answers["question_1"].Value; got != "Appartement" {
		t.Errorf("stored answer = %q", got)
	}
	if !slices.Contains(state.Visibility.ActiveQuestions, "question_2") {
		t.Error("apartment type not shown after choosing an apartment")
	}

	state, err = f.sessionSvc.SetAnswer(ctx, s.ID, "question_1", model.Text(""))
	if err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, ok := state.Session.Answers["question_1"]; ok {
		t.Error("empty answer was stored")
	}

	if _, err := f.sessionSvc.SetAnswer(ctx, s.ID, "Hoeveel katten heeft u?", model.Text("3")); !errors.Is(err, ErrUnknownQuestion) {
		t.Errorf("unknown question: err = %v", err)
	}

	got := f.broadcaster.Types()
	if !slices.Equal(got, []string{MsgVisibilityUpdate, MsgVisibilityUpdate}) {
		t.Errorf("broadcasts = %v", got)
	}
}

func TestSetAnswerOnMultiQuestion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := startSession(t, f)

	e, err := f.questionnaires.Engine(ctx, questionnaire.DefaultID)
	if err != nil {
		t.Fatal(err)
	}
	var multi *model.Question
	for i := range e.Questionnaire().Questions {
		if q := &e.Questionnaire().Questions[i]; q.Kind.IsMulti() {
			multi = q
			break
		}
	}
	if multi == nil {
		t.Fatal("default questionnaire has no checkbox question")
	}

	state, err := f.sessionSvc.SetAnswer(ctx, s.ID, multi.ID, model.Text("Tochtstrips"))
	if err != nil {
		t.Fatal(err)
	}
	ans := state.Session.Answers[multi.ID]
	if !ans.Multi || !ans.Has("Tochtstrips") {
		t.Errorf("answer = %+v, want a selection", ans)
	}
}

func TestSubmit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := startSession(t, f)

	for id, ans := range modernHome(t) {
		if _, err := f.sessionSvc.SetAnswer(ctx, s.ID, id, ans); err != nil {
			t.Fatalf("SetAnswer(%s): %v", id, err)
		}
	}

	result, err := f.sessionSvc.Submit(ctx, s.ID)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if result.Score != 1634 || result.Label != "A++++" {
		t.Errorf("result = %d %s", result.Score, result.Label)
	}

	if len(f.assessmentRepo.Items) != 1 {
		t.Fatalf("%d assessments stored", len(f.assessmentRepo.Items))
	}
	if a := f.assessmentRepo.Items[0]; a.SessionID != s.ID || a.QuestionnaireID != questionnaire.DefaultID {
		t.Errorf("assessment = %+v", a)
	}
	if n := f.labelStats.Labels[questionnaire.DefaultID]["A++++"]; n != 1 {
		t.Errorf("label count = %d", n)
	}
	if len(f.publisher.Events) != 1 {
		t.Errorf("%d events published", len(f.publisher.Events))
	}
	types := f.broadcaster.Types()
	if types[len(types)-1] != MsgResultReady {
		t.Errorf("last broadcast = %s", types[len(types)-1])
	}

	// A submitted session is closed for changes and resubmits idempotently
	if _, err := f.sessionSvc.SetAnswer(ctx, s.ID, "question_0", model.Text("Vóór 1945")); !errors.Is(err, ErrSessionSubmitted) {
		t.Errorf("SetAnswer after submit: err = %v", err)
	}
	if _, err := f.sessionSvc.Reset(ctx, s.ID); !errors.Is(err, ErrSessionSubmitted) {
		t.Errorf("Reset after submit: err = %v", err)
	}
	again, err := f.sessionSvc.Submit(ctx, s.ID)
	if err != nil {
		t.Fatal(err)
	}
	if again.Score != result.Score || len(f.assessmentRepo.Items) != 1 {
		t.Errorf("resubmit stored a second assessment or changed the score")
	}
}

func TestSubmitFailsWhenStoreFails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := startSession(t, f)
	f.assessmentRepo.Err = errStore

	if _, err := f.sessionSvc.Submit(ctx, s.ID); !errors.Is(err, errStore) {
		t.Fatalf("err = %v, want store error", err)
	}
	state, err := f.sessionSvc.Get(ctx, s.ID)
	if err != nil {
		t.Fatal(err)
	}
	if state.Session.Status != model.SessionActive {
		t.Error("session marked submitted although nothing was stored")
	}
}

func TestReset(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := startSession(t, f)

	if _, err := f.sessionSvc.SetAnswer(ctx, s.ID, "question_0", model.Text("1990-2005")); err != nil {
		t.Fatal(err)
	}
	state, err := f.sessionSvc.Reset(ctx, s.ID)
	if err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if len(state.Session.Answers) != 0 {
		t.Errorf("answers after reset = %v", state.Session.Answers)
	}

	result, err := f.sessionSvc.Submit(ctx, s.ID)
	if err != nil {
		t.Fatal(err)
	}
	if result.Label != "G" || result.HasBonus() {
		t.Errorf("empty session = %s with bonus %v", result.Label, result.HasBonus())
	}
}

func TestDiscard(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := startSession(t, f)

	if err := f.sessionSvc.Discard(ctx, s.ID); err != nil {
		t.Fatalf("Discard: %v", err)
	}
	if _, err := f.sessionSvc.Get(ctx, s.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Get after discard: err = %v", err)
	}
	if got := f.broadcaster.Types(); !slices.Equal(got, []string{"disconnect"}) {
		t.Errorf("broadcasts = %v", got)
	}
	if err := f.sessionSvc.Discard(ctx, s.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("second Discard: err = %v", err)
	}
}

func TestUpdateResetsOpenSessions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	id, err := f.questionnaires.Create(ctx, "host_1", questionnaire.Default())
	if err != nil {
		t.Fatal(err)
	}
	open, err := f.sessionSvc.Start(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	done, err := f.sessionSvc.Start(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	for _, sid := range []string{open.Session.ID, done.Session.ID} {
		if _, err := f.sessionSvc.SetAnswer(ctx, sid, "question_0", model.Text("1990-2005")); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := f.sessionSvc.Submit(ctx, done.Session.ID); err != nil {
		t.Fatal(err)
	}

	q, _ := f.questionnaires.Get(ctx, id)
	q.Title = "Herziene vragenlijst"
	if err := f.questionnaires.Update(ctx, "host_1", q); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if stored, _ := f.questionnaires.Get(ctx, id); stored.Revision != 1 {
		t.Errorf("revision = %d, want 1", stored.Revision)
	}

	state, err := f.sessionSvc.Get(ctx, open.Session.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(state.Session.Answers) != 0 || state.Session.Revision != 1 {
		t.Errorf("open session kept answers %v at revision %d", state.Session.Answers, state.Session.Revision)
	}

	// answers given after the reset stay
	if _, err := f.sessionSvc.SetAnswer(ctx, open.Session.ID, "question_0", model.Text("2005-heden")); err != nil {
		t.Fatal(err)
	}
	state, _ = f.sessionSvc.Get(ctx, open.Session.ID)
	if len(state.Session.Answers) != 1 {
		t.Errorf("answers after reset = %v", state.Session.Answers)
	}

	state, err = f.sessionSvc.Get(ctx, done.Session.ID)
	if err != nil {
		t.Fatal(err)
	}
	if state.Session.Result == nil || len(state.Session.Answers) != 1 {
		t.Errorf("submitted session changed: result %v, answers %v", state.Session.Result, state.Session.Answers)
	}
}
