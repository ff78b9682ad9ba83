package store

import (
	"testing"

	"evalai/internal/model"
)

func TestQuizKey(t *testing.T) {
	tests := []struct {
		name  string
		paths []string
		want  string
	}{
		{"single file", []string{"notes.pdf"}, "notes"},
		{"order independent", []string{"b.pdf", "a.pdf"}, "a_b"},
		{"spaces and dashes", []string{"machine learning-basics.pdf"}, "machine_learning_basics"},
		{"directory stripped", []string{"/data/uploads/intro.pdf"}, "intro"},
		{"uppercase suffix", []string{"Slides.PDF"}, "Slides"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := QuizKey(tt.paths); got != tt.want {
				t.Errorf("QuizKey(%v) = %q, want %q", tt.paths, got, tt.want)
			}
		})
	}
}

func TestQuizKeyOrderIndependence(t *testing.T) {
	a := QuizKey([]string{"a.pdf", "b.pdf"})
	b := QuizKey([]string{"b.pdf", "a.pdf"})
	if a != b {
		t.Errorf("keys differ: %q vs %q", a, b)
	}
}

func sampleQuiz(key, answer string) *model.Quiz {
	return &model.Quiz{
		Key: key,
		Questions: []model.Question{{
			ID:   "q_0",
			Type: model.QuestionTypeSAQ,
			Text: "What is backpropagation?",
			SAQ:  &model.SAQPayload{Answer: answer},
		}},
		CreatedAt: "2026-01-02T15:04:05Z",
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	if err := s.Save(sampleQuiz("notes", "chain rule")); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := s.Load("notes")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got == nil {
		t.Fatal("Load returned nil for saved quiz")
	}
	if got.Questions[0].SAQ.Answer != "chain rule" {
		t.Errorf("Answer = %q", got.Questions[0].SAQ.Answer)
	}
}

func TestFileStoreFirstWriteWins(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	if err := s.Save(sampleQuiz("notes", "first")); err != nil {
		t.Fatalf("first Save: %v", err)
	}
	if err := s.Save(sampleQuiz("notes", "second")); err != nil {
		t.Fatalf("second Save: %v", err)
	}

	got, err := s.Load("notes")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Questions[0].SAQ.Answer != "first" {
		t.Errorf("Answer = %q, want the first write kept", got.Questions[0].SAQ.Answer)
	}
}

func TestFileStoreMissingIsNil(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	got, err := s.Load("nothing")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != nil {
		t.Errorf("Load = %v, want nil for missing key", got)
	}
}

func TestFileStoreEmptyQuizIsMiss(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	empty := &model.Quiz{Key: "empty", CreatedAt: "2026-01-02T15:04:05Z"}
	if err := s.Save(empty); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := s.Load("empty")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != nil {
		t.Errorf("Load = %v, want nil for quiz without questions", got)
	}
}
