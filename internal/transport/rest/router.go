package rest

import (
	"net/http"
	"os"

	"github.com/gorilla/mux"

	"evalai/internal/repository"
	"evalai/internal/service"
	"evalai/internal/transport/rest/handler"
	"evalai/internal/transport/rest/middleware"
	"evalai/internal/transport/ws"
)

// Container holds all dependencies for the router
type Container struct {
	AuthService      *service.AuthService
	QuizService      *service.QuizService
	EvaluatorService *service.EvaluatorService
	AttemptRepo      repository.AttemptRepository
	WSHub            *ws.Hub
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	authHandler := handler.NewAuthHandler(c.AuthService)
	quizHandler := handler.NewQuizHandler(c.QuizService, c.WSHub)
	attemptHandler := handler.NewAttemptHandler(c.QuizService, c.EvaluatorService, c.AttemptRepo)
	wsHandler := ws.NewHandler(c.WSHub, c.AuthService)

	// Initialize middleware
	authMW := middleware.NewAuthMiddleware(c.AuthService)

	// CORS middleware (apply first)
	r.Use(corsMiddleware)

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()

	// Public routes
	v1.HandleFunc("/auth/login", authHandler.Login).Methods("POST", "OPTIONS")

	// Taker-facing routes: fetching a quiz and submitting answers need no token
	v1.HandleFunc("/quizzes/{key}", quizHandler.Get).Methods("GET", "OPTIONS")
	v1.HandleFunc("/quizzes/{key}/attempts", attemptHandler.Submit).Methods("POST", "OPTIONS")

	// WebSocket routes (public with token in query param)
	v1.HandleFunc("/ws/jobs/{jobId}", wsHandler.JobWS).Methods("GET")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Host routes (require host auth)
	hostRoutes := v1.NewRoute().Subrouter()
	hostRoutes.Use(authMW.RequireHost)

	hostRoutes.HandleFunc("/quizzes", quizHandler.Create).Methods("POST", "OPTIONS")
	hostRoutes.HandleFunc("/quizzes/{key}/attempts", attemptHandler.ListByQuiz).Methods("GET", "OPTIONS")
	hostRoutes.HandleFunc("/attempts/{attemptId}", attemptHandler.GetAttempt).Methods("GET", "OPTIONS")
	hostRoutes.HandleFunc("/users/{userId}/attempts", attemptHandler.ListByUser).Methods("GET", "OPTIONS")

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowedOrigins := os.Getenv("CORS_ALLOWED_ORIGINS")
		if allowedOrigins == "" {
			allowedOrigins = "*"
		}

		allowedMethods := os.Getenv("CORS_ALLOWED_METHODS")
		if allowedMethods == "" {
			allowedMethods = "GET, POST, PUT, DELETE, OPTIONS"
		}

		allowedHeaders := os.Getenv("CORS_ALLOWED_HEADERS")
		if allowedHeaders == "" {
			allowedHeaders = "Content-Type, Authorization"
		}

		w.Header().Set("Access-Control-Allow-Origin", allowedOrigins)
		w.Header().Set("Access-Control-Allow-Methods", allowedMethods)
		w.Header().Set("Access-Control-Allow-Headers", allowedHeaders)

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
