package handler

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"evalai/internal/model"
	"evalai/internal/repository"
	"evalai/internal/service"
	"evalai/internal/store"
)

// QuizHandler handles quiz generation and retrieval endpoints
type QuizHandler struct {
	quizSvc  *service.QuizService
	notifier service.ProgressNotifier
}

// NewQuizHandler creates a new quiz handler
func NewQuizHandler(quizSvc *service.QuizService, notifier service.ProgressNotifier) *QuizHandler {
	return &QuizHandler{quizSvc: quizSvc, notifier: notifier}
}

// CreateQuizRequest is the POST /v1/quizzes body
type CreateQuizRequest struct {
	PDFPaths []string `json:"pdf_paths"`
}

// Create handles POST /v1/quizzes. A quiz that already exists for the
// document set is returned immediately; otherwise generation runs in the
// background and progress streams over the job WebSocket.
func (h *QuizHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateQuizRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.PDFPaths) == 0 {
		writeError(w, http.StatusBadRequest, "pdf_paths must not be empty")
		return
	}

	key := store.QuizKey(req.PDFPaths)
	existing, err := h.quizSvc.GetQuiz(r.Context(), key)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if existing != nil {
		writeJSON(w, http.StatusOK, existing)
		return
	}

	jobID := uuid.New().String()
	go func() {
		if _, err := h.quizSvc.GenerateQuiz(context.Background(), jobID, req.PDFPaths); err != nil {
			log.Printf("[Handler] Quiz generation job %s failed: %v", jobID, err)
			h.notifier.Publish(jobID, "failed", map[string]string{"error": err.Error()})
		}
	}()

	writeJSON(w, http.StatusAccepted, map[string]string{
		"job_id":    jobID,
		"pdf_names": key,
		"status":    "generating",
	})
}

// Get handles GET /v1/quizzes/{key}. With ?view=taker the answer key and
// explanations are stripped from the response.
func (h *QuizHandler) Get(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]

	quiz, err := h.quizSvc.GetQuiz(r.Context(), key)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if quiz == nil {
		writeError(w, http.StatusNotFound, "quiz not found")
		return
	}

	if r.URL.Query().Get("view") == "taker" {
		writeJSON(w, http.StatusOK, service.StripAnswers(quiz))
		return
	}
	writeJSON(w, http.StatusOK, quiz)
}

// AttemptHandler handles quiz attempt submission and history endpoints
type AttemptHandler struct {
	quizSvc      *service.QuizService
	evaluatorSvc *service.EvaluatorService
	attempts     repository.AttemptRepository
}

// NewAttemptHandler creates a new attempt handler
func NewAttemptHandler(quizSvc *service.QuizService, evaluatorSvc *service.EvaluatorService, attempts repository.AttemptRepository) *AttemptHandler {
	return &AttemptHandler{quizSvc: quizSvc, evaluatorSvc: evaluatorSvc, attempts: attempts}
}

// SubmitAttemptRequest is the POST /v1/quizzes/{key}/attempts body
type SubmitAttemptRequest struct {
	UserID  string                   `json:"user_id"`
	Answers []model.AnswerSubmission `json:"answers"`
}

// Submit handles POST /v1/quizzes/{key}/attempts
func (h *AttemptHandler) Submit(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]

	var req SubmitAttemptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.UserID == "" {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	quiz, err := h.quizSvc.GetQuiz(r.Context(), key)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if quiz == nil {
		writeError(w, http.StatusNotFound, "quiz not found")
		return
	}

	attempt := h.evaluatorSvc.GradeAttempt(r.Context(), quiz, req.UserID, req.Answers)
	if err := h.attempts.Create(r.Context(), attempt); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, attempt)
}

// ListByQuiz handles GET /v1/quizzes/{key}/attempts
func (h *AttemptHandler) ListByQuiz(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]

	attempts, err := h.attempts.GetByQuizKey(r.Context(), key)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if attempts == nil {
		attempts = []*model.Attempt{}
	}

	writeJSON(w, http.StatusOK, attempts)
}

// GetAttempt handles GET /v1/attempts/{attemptId}
func (h *AttemptHandler) GetAttempt(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["attemptId"]

	attempt, err := h.attempts.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if attempt == nil {
		writeError(w, http.StatusNotFound, "attempt not found")
		return
	}

	writeJSON(w, http.StatusOK, attempt)
}

// ListByUser handles GET /v1/users/{userId}/attempts
func (h *AttemptHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	attempts, err := h.attempts.GetByUserID(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if attempts == nil {
		attempts = []*model.Attempt{}
	}

	writeJSON(w, http.StatusOK, attempts)
}
