package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"challenge-quiz-service/internal/app"
	"challenge-quiz-service/internal/auth"
	"challenge-quiz-service/internal/domain"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

// Handler exposes the quiz evaluation engine over REST.
type Handler struct {
	service *app.EvaluationService
	auth    *auth.Service
	live    *LiveHandler
}

func NewHandler(service *app.EvaluationService, authService *auth.Service, hub *app.StandingsHub) *Handler {
	return &Handler{
		service: service,
		auth:    authService,
		live:    NewLiveHandler(service, hub),
	}
}

// Routes builds the router. The submit/response/leaderboard endpoints sit
// behind the bearer-token guard; health and the live scoreboard stream do
// not.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	r.Route("/api/quiz", func(r chi.Router) {
		r.Get("/live/{problemID}", h.live.ServeLive)

		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware(h.auth))
			r.Post("/submit", h.submitQuiz)
			r.Get("/response/{problemID}", h.getResponse)
			r.Get("/leaderboard/{problemID}", h.leaderboard)
		})
	})
	return r
}

type submitRequest struct {
	ProblemID string   `json:"problemId"`
	Answers   []string `json:"answers"`
	TimeSpent int      `json:"timeSpent"`
}

type submitResponse struct {
	Success bool `json:"success"`
	app.Result
}

func (h *Handler) submitQuiz(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.ErrInvalidInput)
		return
	}

	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, domain.ErrUnauthorized)
		return
	}

	result, err := h.service.Submit(r.Context(), app.Submission{
		ProblemID: req.ProblemID,
		StudentID: identity.ID,
		Answers:   req.Answers,
		TimeSpent: req.TimeSpent,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, submitResponse{Success: true, Result: result})
}

func (h *Handler) getResponse(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, domain.ErrUnauthorized)
		return
	}

	// Students read their own response; admins and companies may inspect a
	// named student's.
	studentID := identity.ID
	if other := r.URL.Query().Get("studentId"); other != "" &&
		(identity.Role == domain.RoleAdmin || identity.Role == domain.RoleCompany) {
		studentID = other
	}

	resp, err := h.service.Response(r.Context(), chi.URLParam(r, "problemID"), studentID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) leaderboard(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	standings, err := h.service.Standings(r.Context(),
		chi.URLParam(r, "problemID"), r.URL.Query().Get("by"), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, standings)
}

type errorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrProblemNotFound),
		errors.Is(err, domain.ErrQuizNotFound),
		errors.Is(err, domain.ErrResponseNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrUnauthorized):
		status = http.StatusUnauthorized
	}
	writeJSON(w, status, errorResponse{Message: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
