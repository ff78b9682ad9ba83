package rest

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"evalai/internal/config"
	"evalai/internal/service"
	"evalai/internal/store"
	"evalai/internal/transport/ws"
)

// testRouter wires just enough of the container to exercise routing and
// auth middleware; requests never reach the generation pipeline or mongo
func testRouter(t *testing.T) http.Handler {
	t.Helper()

	fileStore, err := store.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	quizSvc := service.NewQuizService(
		nil, nil, nil, nil, nil,
		fileStore, nil, nil,
		config.DefaultPipelineConfig(),
	)

	return NewRouter(&Container{
		AuthService: service.NewAuthService(),
		QuizService: quizSvc,
		WSHub:       ws.NewHub(),
	})
}

func TestTakerRoutesNeedNoToken(t *testing.T) {
	router := testRouter(t)

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
	}{
		{
			name:       "get quiz",
			method:     "GET",
			path:       "/v1/quizzes/missing",
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "submit attempt",
			method:     "POST",
			path:       "/v1/quizzes/missing/attempts",
			body:       `{"user_id":"u1","answers":[]}`,
			wantStatus: http.StatusNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code == http.StatusUnauthorized {
				t.Fatalf("%s %s rejected without a token", tt.method, tt.path)
			}
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestManagementRoutesRequireHostToken(t *testing.T) {
	router := testRouter(t)

	tests := []struct {
		name   string
		method string
		path   string
	}{
		{"create quiz", "POST", "/v1/quizzes"},
		{"list attempts by quiz", "GET", "/v1/quizzes/missing/attempts"},
		{"get attempt", "GET", "/v1/attempts/abc"},
		{"list attempts by user", "GET", "/v1/users/u1/attempts"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader("{}"))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
			}
		})
	}
}
