package textsource

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestFileSourceLoad(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "ml notes.txt", "main text")
	writeFile(t, dir, "ml notes.tables.txt", "table text")
	writeFile(t, dir, "ml notes.diagrams.txt", "diagram text")

	doc, err := NewFileSource().Load(filepath.Join(dir, "ml notes.pdf"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if doc.Name != "ml notes" {
		t.Errorf("Name = %q, want extension stripped", doc.Name)
	}
	if doc.Text != "main text\ntable text" {
		t.Errorf("Text = %q, want tables folded in", doc.Text)
	}
	if doc.DiagramText != "diagram text" {
		t.Errorf("DiagramText = %q", doc.DiagramText)
	}
}

func TestFileSourceLoadNoSidecars(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "plain.txt", "body")

	doc, err := NewFileSource().Load(filepath.Join(dir, "plain.pdf"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if doc.Name != "plain" || doc.Text != "body" || doc.DiagramText != "" {
		t.Errorf("doc = %+v", doc)
	}
}

func TestFileSourceLoadMissingText(t *testing.T) {
	if _, err := NewFileSource().Load(filepath.Join(t.TempDir(), "absent.pdf")); err == nil {
		t.Fatal("expected error when the text file is missing")
	}
}
