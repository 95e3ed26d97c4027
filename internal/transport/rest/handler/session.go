package handler

import (
	"energylabel/internal/model"
	"energylabel/internal/service"
	"net/http"

	"github.com/gorilla/mux"
)

// SessionHandler handles the renderer's session endpoints
type SessionHandler struct {
	sessionSvc *service.SessionService
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessionSvc *service.SessionService) *SessionHandler {
	return &SessionHandler{sessionSvc: sessionSvc}
}

// StartSessionRequest is the request body for opening a session
type StartSessionRequest struct {
	QuestionnaireID string `json:"questionnaireId"`
}

// SetAnswerRequest carries one answer: a string, a number or a list
type SetAnswerRequest struct {
	Value model.Answer `json:"value"`
}

// Start handles POST /v1/sessions
//
//	@Summary	Open an answering session
//	@Tags		sessions
//	@Accept		json
//	@Produce	json
//	@Param		body	body		StartSessionRequest	true	"questionnaire"
//	@Success	201		{object}	service.StartedSession
//	@Router		/sessions [post]
func (h *SessionHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req StartSessionRequest
	if !decode(w, r, &req) {
		return
	}
	if req.QuestionnaireID == "" {
		writeError(w, http.StatusBadRequest, "questionnaireId is required")
		return
	}

	started, err := h.sessionSvc.Start(r.Context(), req.QuestionnaireID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, started)
}

// Get handles GET /v1/sessions/{id}
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	state, err := h.sessionSvc.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

// SetAnswer handles PUT /v1/sessions/{id}/answers/{questionId}
func (h *SessionHandler) SetAnswer(w http.ResponseWriter, r *http.Request) {
	var req SetAnswerRequest
	if !decode(w, r, &req) {
		return
	}

	vars := mux.Vars(r)
	state, err := h.sessionSvc.SetAnswer(r.Context(), vars["id"], vars["questionId"], req.Value)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

// Reset handles DELETE /v1/sessions/{id}/answers
func (h *SessionHandler) Reset(w http.ResponseWriter, r *http.Request) {
	state, err := h.sessionSvc.Reset(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

// Submit handles POST /v1/sessions/{id}/submit
//
//	@Summary	Score and record a session
//	@Tags		sessions
//	@Produce	json
//	@Param		id	path		string	true	"session id"
//	@Security	SessionAuth
//	@Success	200	{object}	model.Result
//	@Failure	404	{object}	map[string]string
//	@Router		/sessions/{id}/submit [post]
func (h *SessionHandler) Submit(w http.ResponseWriter, r *http.Request) {
	result, err := h.sessionSvc.Submit(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Discard handles DELETE /v1/sessions/{id}
func (h *SessionHandler) Discard(w http.ResponseWriter, r *http.Request) {
	if err := h.sessionSvc.Discard(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
