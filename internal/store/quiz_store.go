package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"evalai/internal/model"
)

var (
	pdfSuffixRe = regexp.MustCompile(`(?i)\.pdf`)
	separatorRe = regexp.MustCompile(`[\s-]+`)
)

// QuizKey derives the canonical, order-independent cache key for a document
// set. Basenames are lowercased for the pdf strip only, not in the key itself.
func QuizKey(paths []string) string {
	names := make([]string, 0, len(paths))
	for _, p := range paths {
		name := filepath.Base(p)
		name = pdfSuffixRe.ReplaceAllString(name, "")
		name = separatorRe.ReplaceAllString(name, "_")
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, "_")
}

// QuizStore persists generated quizzes, one entry per document-set key
type QuizStore interface {
	// Load returns (nil, nil) when no usable quiz exists for the key
	Load(key string) (*model.Quiz, error)
	// Save writes the quiz unless an entry for its key already exists;
	// the first write wins and later writes are silently dropped
	Save(quiz *model.Quiz) error
}

// FileStore keeps one JSON file per quiz under a directory
type FileStore struct {
	dir string
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create quiz directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

func (s *FileStore) Load(key string) (*model.Quiz, error) {
	data, err := os.ReadFile(s.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read quiz %q: %w", key, err)
	}
	var quiz model.Quiz
	if err := json.Unmarshal(data, &quiz); err != nil {
		return nil, fmt.Errorf("decode quiz %q: %w", key, err)
	}
	// A stored quiz with no questions counts as absent
	if len(quiz.Questions) == 0 {
		return nil, nil
	}
	return &quiz, nil
}

func (s *FileStore) Save(quiz *model.Quiz) error {
	data, err := json.MarshalIndent(quiz, "", "  ")
	if err != nil {
		return fmt.Errorf("encode quiz %q: %w", quiz.Key, err)
	}
	f, err := os.OpenFile(s.path(quiz.Key), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if errors.Is(err, os.ErrExist) {
		log.Printf("[Store] Quiz %q already saved, keeping existing file", quiz.Key)
		return nil
	}
	if err != nil {
		return fmt.Errorf("create quiz %q: %w", quiz.Key, err)
	}
	defer f.Close()
	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("write quiz %q: %w", quiz.Key, err)
	}
	return nil
}
