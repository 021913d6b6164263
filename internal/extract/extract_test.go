package extract

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestTextReadsPlainText(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "resume.txt")
	body := "Senior backend engineer with ten years of Go experience."
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	got, err := Text(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != body {
		t.Fatalf("unexpected text: %q", got)
	}
}

func TestTextAcceptsMarkdown(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "resume.MD")
	if err := os.WriteFile(path, []byte("# Resume"), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	if _, err := Text(path); err != nil {
		t.Fatalf("extension matching must be case-insensitive: %v", err)
	}
}

func TestTextRejectsUnsupportedFormat(t *testing.T) {
	t.Parallel()

	_, err := Text("resume.pdf")
	var formatErr *UnsupportedFormatError
	if !errors.As(err, &formatErr) {
		t.Fatalf("expected UnsupportedFormatError, got %v", err)
	}
	if formatErr.Ext != ".pdf" {
		t.Fatalf("unexpected extension: %q", formatErr.Ext)
	}
}

func TestTextMissingFile(t *testing.T) {
	t.Parallel()

	_, err := Text(filepath.Join(t.TempDir(), "missing.txt"))
	var extractErr *ExtractionError
	if !errors.As(err, &extractErr) {
		t.Fatalf("expected ExtractionError, got %v", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected wrapped not-exist error, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("a", DefaultMinLength)

	if err := Validate(long, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := Validate("too short", 0); !errors.Is(err, ErrTextTooShort) {
		t.Fatalf("expected ErrTextTooShort, got %v", err)
	}
	// Whitespace does not count toward the minimum.
	padded := "abc" + strings.Repeat(" ", 200)
	if err := Validate(padded, 10); !errors.Is(err, ErrTextTooShort) {
		t.Fatalf("expected ErrTextTooShort for padded text, got %v", err)
	}
	if err := Validate("abcde", 5); err != nil {
		t.Fatalf("custom threshold: unexpected error: %v", err)
	}
}
