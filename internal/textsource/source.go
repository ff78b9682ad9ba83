package textsource

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Document is one document's cleaned text, split by origin stream. Table text
// is already folded into Text; DiagramText carries OCR output separately since
// it is filtered under a stricter threshold downstream.
type Document struct {
	Name        string // basename without extension
	Text        string
	DiagramText string
}

// Source supplies cleaned natural-language text for documents. Extraction and
// OCR run upstream; implementations only surface their output.
type Source interface {
	Load(path string) (*Document, error)
}

// FileSource reads pre-extracted text from the filesystem. For a document
// "x.pdf" it expects "x.txt" alongside it, with optional "x.diagrams.txt" and
// "x.tables.txt" sidecars.
type FileSource struct{}

func NewFileSource() *FileSource {
	return &FileSource{}
}

func (s *FileSource) Load(path string) (*Document, error) {
	base := strings.TrimSuffix(path, filepath.Ext(path))

	text, err := os.ReadFile(base + ".txt")
	if err != nil {
		return nil, fmt.Errorf("read text for %s: %w", path, err)
	}

	doc := &Document{
		Name: filepath.Base(base),
		Text: string(text),
	}

	if tables, err := os.ReadFile(base + ".tables.txt"); err == nil && len(tables) > 0 {
		doc.Text = doc.Text + "\n" + string(tables)
	}
	if diagrams, err := os.ReadFile(base + ".diagrams.txt"); err == nil {
		doc.DiagramText = string(diagrams)
	}
	return doc, nil
}
