package document

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadTextFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.md")
	content := "PHYSICS\nColliders can be triggers or solid bodies."
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	doc, err := LoadFile(path, 0)
	if err != nil {
		t.Fatalf("LoadFile() = %v", err)
	}

	if doc.SourceType != SourceTypeText {
		t.Errorf("SourceType = %q, want %q", doc.SourceType, SourceTypeText)
	}
	if doc.Title != "notes" {
		t.Errorf("Title = %q, want notes", doc.Title)
	}
	if !strings.Contains(doc.Text, "Colliders can be triggers") {
		t.Errorf("Text = %q", doc.Text)
	}
	if doc.ID == "" || doc.Source == "" {
		t.Errorf("missing ID or Source: %+v", doc)
	}
}

func TestLoadFileUnsupportedExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scene.unity")
	if err := os.WriteFile(path, []byte("data"), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadFile(path, 0); err == nil {
		t.Error("expected error for unsupported extension")
	}
}

func TestLoadTextEmptyAfterCleanup(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.txt")
	// Only a page number; cleanup leaves nothing.
	if err := os.WriteFile(path, []byte("  42  \n"), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadText(path); err == nil {
		t.Error("expected error for document empty after cleanup")
	}
}

func TestLoadFileMissing(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "nope.txt"), 0); err == nil {
		t.Error("expected error for missing file")
	}
}
