package rest

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"energylabel/internal/logging"
	"energylabel/internal/metrics"
	"energylabel/internal/model"
	"energylabel/internal/questionnaire"
	"energylabel/internal/service"
	"energylabel/internal/service/servicetest"
	"energylabel/internal/transport/rest/middleware"
	"energylabel/internal/transport/ws"
)

type testAPI struct {
	t       *testing.T
	handler http.Handler
	auth    *service.AuthService
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	log := logging.Discard()
	m := metrics.New()
	auth := service.NewAuthService("admin", "secret", "test-secret", time.Hour)
	questionnaires := service.NewQuestionnaireService(servicetest.NewQuestionnaireRepo(), nil, m, log)
	assessments := service.NewAssessmentService(&servicetest.AssessmentRepo{}, &servicetest.StatsRepo{}, servicetest.NewLabelStats(), &servicetest.Publisher{}, m, log)
	hub := ws.NewHub(log)
	sessions := service.NewSessionService(questionnaires, assessments, servicetest.NewSessionCache(), auth, hub, log)

	return &testAPI{
		t: t,
		handler: NewRouter(&Container{
			AuthService:          auth,
			QuestionnaireService: questionnaires,
			SessionService:       sessions,
			AssessmentService:    assessments,
			WSHub:                hub,
			Metrics:              m,
			RateLimiter:          middleware.NewRateLimiter(1000, 1000),
			Logger:               log,
			AllowedOrigins:       []string{"*"},
		}),
		auth: auth,
	}
}

func (a *testAPI) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	a.t.Helper()
	var r io.Reader
	switch b := body.(type) {
	case nil:
	case []byte:
		r = bytes.NewReader(b)
	case string:
		r = strings.NewReader(b)
	default:
		data, err := json.Marshal(b)
		if err != nil {
			a.t.Fatal(err)
		}
		r = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, r)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func (a *testAPI) hostToken() string {
	a.t.Helper()
	resp, err := a.auth.Login("admin", "secret")
	if err != nil {
		a.t.Fatal(err)
	}
	return resp.Token
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
}

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

func TestOperationalEndpoints(t *testing.T) {
	api := newTestAPI(t)

	if rec := api.do("GET", "/health", "", nil); rec.Code != http.StatusOK {
		t.Errorf("health = %d", rec.Code)
	}
	api.do("GET", "/v1/questionnaires/default", "", nil)
	rec := api.do("GET", "/metrics", "", nil)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `route="questionnaire_default"`) {
		t.Errorf("metrics = %d, missing route counter", rec.Code)
	}
	rec = api.do("GET", "/swagger/doc.json", "", nil)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "Energylabel API") {
		t.Errorf("swagger = %d %s", rec.Code, rec.Body.String())
	}
}

func TestCORSPreflight(t *testing.T) {
	api := newTestAPI(t)
	req := httptest.NewRequest("OPTIONS", "/v1/questionnaires/default/evaluate", nil)
	req.Header.Set("Origin", "https://example.org")
	req.Header.Set("Access-Control-Request-Method", "POST")
	req.Header.Set("Access-Control-Request-Headers", "Content-Type")
	rec := httptest.NewRecorder()
	api.handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("preflight status = %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Allow-Origin = %q", got)
	}
}

func TestEvaluate(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do("POST", "/v1/questionnaires/default/evaluate", "", modernHome(t))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var result model.Result
	decodeBody(t, rec, &result)
	if result.Score != 1634 || result.Label != "A++++" {
		t.Errorf("result = %d %s", result.Score, result.Label)
	}

	if rec := api.do("POST", "/v1/questionnaires/default/evaluate", "", "{not json"); rec.Code != http.StatusBadRequest {
		t.Errorf("malformed body = %d", rec.Code)
	}
	if rec := api.do("POST", "/v1/questionnaires/nope/evaluate", "", "{}"); rec.Code != http.StatusNotFound {
		t.Errorf("unknown questionnaire = %d", rec.Code)
	}

	rec = api.do("POST", "/v1/questionnaires/default/visibility", "", map[string]string{
		"Wat voor soort woning heeft u?": "Appartement",
	})
	var state model.VisibilityState
	decodeBody(t, rec, &state)
	found := false
	for _, id := range state.ActiveQuestions {
		found = found || id == "question_2"
	}
	if !found {
		t.Errorf("apartment question not active: %v", state.ActiveQuestions)
	}
}

func TestQuestionnaireCRUD(t *testing.T) {
	api := newTestAPI(t)
	token := api.hostToken()

	if rec := api.do("POST", "/v1/questionnaires", "", questionnaire.DefaultDocument()); rec.Code != http.StatusUnauthorized {
		t.Errorf("create without token = %d", rec.Code)
	}
	if rec := api.do("POST", "/v1/questionnaires", token, `{"questions":[]}`); rec.Code != http.StatusBadRequest {
		t.Errorf("create invalid = %d", rec.Code)
	}

	rec := api.do("POST", "/v1/questionnaires", token, questionnaire.DefaultDocument())
	if rec.Code != http.StatusCreated {
		t.Fatalf("create = %d: %s", rec.Code, rec.Body.String())
	}
	var created map[string]string
	decodeBody(t, rec, &created)
	id := created["id"]

	rec = api.do("GET", "/v1/questionnaires", token, nil)
	var list []model.Questionnaire
	decodeBody(t, rec, &list)
	if len(list) != 1 {
		t.Errorf("list = %d questionnaires", len(list))
	}

	if rec := api.do("GET", "/v1/questionnaires/"+id, token, nil); rec.Code != http.StatusOK {
		t.Errorf("get = %d", rec.Code)
	}
	if rec := api.do("PUT", "/v1/questionnaires/"+id, token, questionnaire.DefaultDocument()); rec.Code != http.StatusOK {
		t.Errorf("update = %d: %s", rec.Code, rec.Body.String())
	}
	if rec := api.do("PUT", "/v1/questionnaires/default", token, questionnaire.DefaultDocument()); rec.Code != http.StatusForbidden {
		t.Errorf("update default = %d", rec.Code)
	}
	if rec := api.do("DELETE", "/v1/questionnaires/"+id, token, nil); rec.Code != http.StatusNoContent {
		t.Errorf("delete = %d", rec.Code)
	}
	if rec := api.do("GET", "/v1/questionnaires/"+id, token, nil); rec.Code != http.StatusNotFound {
		t.Errorf("get after delete = %d", rec.Code)
	}
}

func TestSessionFlow(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do("POST", "/v1/sessions", "", map[string]string{"questionnaireId": "default"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("start = %d: %s", rec.Code, rec.Body.String())
	}
	var started service.StartedSession
	decodeBody(t, rec, &started)
	base := "/v1/sessions/" + started.Session.ID

	if rec := api.do("GET", base, "", nil); rec.Code != http.StatusUnauthorized {
		t.Errorf("get without token = %d", rec.Code)
	}

	for id, ans := range modernHome(t) {
		rec := api.do("PUT", base+"/answers/"+id, started.Token, map[string]string{"value": ans.Value})
		if rec.Code != http.StatusOK {
			t.Fatalf("answer %s = %d: %s", id, rec.Code, rec.Body.String())
		}
	}
	if rec := api.do("PUT", base+"/answers/question_99", started.Token, map[string]string{"value": "x"}); rec.Code != http.StatusNotFound {
		t.Errorf("unknown question = %d", rec.Code)
	}

	rec = api.do("GET", base, started.Token, nil)
	var state service.SessionState
	decodeBody(t, rec, &state)
	if len(state.Session.Answers) != len(modernHome(t)) {
		t.Errorf("session has %d answers", len(state.Session.Answers))
	}

	rec = api.do("POST", base+"/submit", started.Token, nil)
	var result model.Result
	decodeBody(t, rec, &result)
	if result.Score != 1634 {
		t.Errorf("submitted score = %d", result.Score)
	}
	if rec := api.do("DELETE", base+"/answers", started.Token, nil); rec.Code != http.StatusConflict {
		t.Errorf("reset after submit = %d", rec.Code)
	}

	host := api.hostToken()
	rec = api.do("GET", "/v1/questionnaires/default/stats", host, nil)
	var stats model.LabelStats
	decodeBody(t, rec, &stats)
	if stats.Total != 1 || stats.Counts["A++++"] != 1 {
		t.Errorf("stats = %+v", stats)
	}
	rec = api.do("GET", "/v1/questionnaires/default/assessments?limit=5", host, nil)
	var recent []model.Assessment
	decodeBody(t, rec, &recent)
	if len(recent) != 1 || recent[0].SessionID != started.Session.ID {
		t.Errorf("assessments = %+v", recent)
	}
	if rec := api.do("GET", "/v1/questionnaires/default/assessments?limit=-1", host, nil); rec.Code != http.StatusBadRequest {
		t.Errorf("bad limit = %d", rec.Code)
	}

	if rec := api.do("DELETE", base, started.Token, nil); rec.Code != http.StatusNoContent {
		t.Errorf("discard = %d", rec.Code)
	}
	if rec := api.do("GET", base, started.Token, nil); rec.Code != http.StatusNotFound {
		t.Errorf("get after discard = %d", rec.Code)
	}
}

func TestStartSessionValidation(t *testing.T) {
	api := newTestAPI(t)

	if rec := api.do("POST", "/v1/sessions", "", `{}`); rec.Code != http.StatusBadRequest {
		t.Errorf("missing questionnaire = %d", rec.Code)
	}
	if rec := api.do("POST", "/v1/sessions", "", map[string]string{"questionnaireId": "nope"}); rec.Code != http.StatusNotFound {
		t.Errorf("unknown questionnaire = %d", rec.Code)
	}
}
