package handler

import (
	"energylabel/internal/model"
	"energylabel/internal/questionnaire"
	"energylabel/internal/service"
	"energylabel/internal/transport/rest/middleware"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
)

const defaultAssessmentLimit = 50

// QuestionnaireHandler handles questionnaire, evaluation and statistics endpoints
type QuestionnaireHandler struct {
	questionnaireSvc *service.QuestionnaireService
	assessmentSvc    *service.AssessmentService
}

// NewQuestionnaireHandler creates a new questionnaire handler
func NewQuestionnaireHandler(questionnaireSvc *service.QuestionnaireService, assessmentSvc *service.AssessmentService) *QuestionnaireHandler {
	return &QuestionnaireHandler{
		questionnaireSvc: questionnaireSvc,
		assessmentSvc:    assessmentSvc,
	}
}

// Default handles GET /v1/questionnaires/default
//
//	@Summary	Bundled default questionnaire
//	@Tags		questionnaires
//	@Produce	json
//	@Success	200	{object}	model.Questionnaire
//	@Router		/questionnaires/default [get]
func (h *QuestionnaireHandler) Default(w http.ResponseWriter, r *http.Request) {
	q, err := h.questionnaireSvc.Get(r.Context(), questionnaire.DefaultID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, q)
}

// Create handles POST /v1/questionnaires
//
//	@Summary	Store a questionnaire
//	@Tags		questionnaires
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Success	201	{object}	map[string]string
//	@Failure	400	{object}	map[string]string
//	@Router		/questionnaires [post]
func (h *QuestionnaireHandler) Create(w http.ResponseWriter, r *http.Request) {
	hostID := middleware.GetHostID(r.Context())
	if hostID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	q, ok := readQuestionnaire(w, r)
	if !ok {
		return
	}

	id, err := h.questionnaireSvc.Create(r.Context(), hostID, q)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

// List handles GET /v1/questionnaires
func (h *QuestionnaireHandler) List(w http.ResponseWriter, r *http.Request) {
	hostID := middleware.GetHostID(r.Context())
	if hostID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	list, err := h.questionnaireSvc.ListByHost(r.Context(), hostID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// Get handles GET /v1/questionnaires/{id}
func (h *QuestionnaireHandler) Get(w http.ResponseWriter, r *http.Request) {
	q, err := h.questionnaireSvc.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, q)
}

// Update handles PUT /v1/questionnaires/{id}
func (h *QuestionnaireHandler) Update(w http.ResponseWriter, r *http.Request) {
	hostID := middleware.GetHostID(r.Context())
	if hostID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	q, ok := readQuestionnaire(w, r)
	if !ok {
		return
	}
	q.ID = mux.Vars(r)["id"]

	if err := h.questionnaireSvc.Update(r.Context(), hostID, q); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// Delete handles DELETE /v1/questionnaires/{id}
func (h *QuestionnaireHandler) Delete(w http.ResponseWriter, r *http.Request) {
	hostID := middleware.GetHostID(r.Context())
	if hostID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if err := h.questionnaireSvc.Delete(r.Context(), hostID, mux.Vars(r)["id"]); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Evaluate handles POST /v1/questionnaires/{id}/evaluate
//
//	@Summary	Score an answer map
//	@Tags		evaluation
//	@Accept		json
//	@Produce	json
//	@Param		id	path		string	true	"questionnaire id or default"
//	@Success	200	{object}	model.Result
//	@Failure	404	{object}	map[string]string
//	@Router		/questionnaires/{id}/evaluate [post]
func (h *QuestionnaireHandler) Evaluate(w http.ResponseWriter, r *http.Request) {
	var answers model.AnswerMap
	if !decode(w, r, &answers) {
		return
	}

	result, err := h.questionnaireSvc.Evaluate(r.Context(), mux.Vars(r)["id"], answers)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Visibility handles POST /v1/questionnaires/{id}/visibility
func (h *QuestionnaireHandler) Visibility(w http.ResponseWriter, r *http.Request) {
	var answers model.AnswerMap
	if !decode(w, r, &answers) {
		return
	}

	state, err := h.questionnaireSvc.Visibility(r.Context(), mux.Vars(r)["id"], answers)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

// Stats handles GET /v1/questionnaires/{id}/stats
func (h *QuestionnaireHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.assessmentSvc.Stats(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// Assessments handles GET /v1/questionnaires/{id}/assessments?limit=
func (h *QuestionnaireHandler) Assessments(w http.ResponseWriter, r *http.Request) {
	limit := defaultAssessmentLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive number")
			return
		}
		limit = n
	}

	list, err := h.assessmentSvc.Recent(r.Context(), mux.Vars(r)["id"], limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// readQuestionnaire parses a questionnaire document body in any of the
// shapes the loader accepts
func readQuestionnaire(w http.ResponseWriter, r *http.Request) (*model.Questionnaire, bool) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return nil, false
	}
	q, err := questionnaire.Parse(data)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return nil, false
	}
	return q, true
}
