package rest

import (
	"energylabel/internal/metrics"
	"energylabel/internal/service"
	"energylabel/internal/transport/rest/handler"
	"energylabel/internal/transport/rest/middleware"
	"energylabel/internal/transport/ws"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/swaggo/swag"

	_ "energylabel/docs"
)

// Container holds all dependencies for the router
type Container struct {
	AuthService          *service.AuthService
	QuestionnaireService *service.QuestionnaireService
	SessionService       *service.SessionService
	AssessmentService    *service.AssessmentService
	WSHub                *ws.Hub
	Metrics              *metrics.Metrics
	RateLimiter          *middleware.RateLimiter
	Logger               *slog.Logger
	AccessLog            io.Writer
	AllowedOrigins       []string
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	authHandler := handler.NewAuthHandler(c.AuthService)
	questionnaireHandler := handler.NewQuestionnaireHandler(c.QuestionnaireService, c.AssessmentService)
	sessionHandler := handler.NewSessionHandler(c.SessionService)
	wsHandler := ws.NewHandler(c.WSHub, c.AuthService, c.SessionService, c.Logger)

	// Initialize middleware
	authMW := middleware.NewAuthMiddleware(c.AuthService)
	limited := func(h http.Handler) http.Handler { return h }
	if c.RateLimiter != nil {
		limited = c.RateLimiter.Limit
	}
	route := func(name string, h http.HandlerFunc) http.Handler {
		return c.Metrics.WrapHandler(name, h)
	}

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()

	// Public routes
	v1.Handle("/auth/login", route("login", authHandler.Login)).Methods("POST")
	v1.Handle("/questionnaires/default", route("questionnaire_default", questionnaireHandler.Default)).Methods("GET")
	v1.Handle("/questionnaires/{id}/evaluate", limited(route("evaluate", questionnaireHandler.Evaluate))).Methods("POST")
	v1.Handle("/questionnaires/{id}/visibility", limited(route("visibility", questionnaireHandler.Visibility))).Methods("POST")
	v1.Handle("/sessions", limited(route("session_start", sessionHandler.Start))).Methods("POST")

	// WebSocket routes (public with token in query param)
	v1.HandleFunc("/ws/sessions/{id}", wsHandler.SessionWS).Methods("GET")

	// Host routes (require host auth)
	hostRoutes := v1.NewRoute().Subrouter()
	hostRoutes.Use(authMW.RequireHost)

	hostRoutes.Handle("/questionnaires", route("questionnaire_create", questionnaireHandler.Create)).Methods("POST")
	hostRoutes.Handle("/questionnaires", route("questionnaire_list", questionnaireHandler.List)).Methods("GET")
	hostRoutes.Handle("/questionnaires/{id}", route("questionnaire_get", questionnaireHandler.Get)).Methods("GET")
	hostRoutes.Handle("/questionnaires/{id}", route("questionnaire_update", questionnaireHandler.Update)).Methods("PUT")
	hostRoutes.Handle("/questionnaires/{id}", route("questionnaire_delete", questionnaireHandler.Delete)).Methods("DELETE")
	hostRoutes.Handle("/questionnaires/{id}/stats", route("stats", questionnaireHandler.Stats)).Methods("GET")
	hostRoutes.Handle("/questionnaires/{id}/assessments", route("assessments", questionnaireHandler.Assessments)).Methods("GET")

	// Session routes (require the session's own token)
	sessionRoutes := v1.NewRoute().Subrouter()
	sessionRoutes.Use(authMW.RequireSession)

	sessionRoutes.Handle("/sessions/{id}", route("session_get", sessionHandler.Get)).Methods("GET")
	sessionRoutes.Handle("/sessions/{id}", route("session_discard", sessionHandler.Discard)).Methods("DELETE")
	sessionRoutes.Handle("/sessions/{id}/answers/{questionId}", route("session_answer", sessionHandler.SetAnswer)).Methods("PUT")
	sessionRoutes.Handle("/sessions/{id}/answers", route("session_reset", sessionHandler.Reset)).Methods("DELETE")
	sessionRoutes.Handle("/sessions/{id}/submit", limited(route("session_submit", sessionHandler.Submit))).Methods("POST")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	r.Handle("/metrics", c.Metrics.Handler()).Methods("GET")
	r.HandleFunc("/swagger/doc.json", swaggerDoc).Methods("GET")

	var h http.Handler = r
	h = handlers.CORS(
		handlers.AllowedOrigins(c.AllowedOrigins),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
	)(h)
	if c.AccessLog != nil {
		h = handlers.LoggingHandler(c.AccessLog, h)
	}
	h = handlers.RecoveryHandler(handlers.RecoveryLogger(recoveryLogger{c.Logger}))(h)
	return h
}

func swaggerDoc(w http.ResponseWriter, r *http.Request) {
	doc, err := swag.ReadDoc()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(doc))
}

// recoveryLogger reports recovered panics through slog
type recoveryLogger struct {
	log *slog.Logger
}

func (l recoveryLogger) Println(v ...interface{}) {
	if l.log == nil {
		return
	}
	l.log.Error("panic recovered", "error", fmt.Sprint(v...))
}
