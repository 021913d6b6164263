// Package extract is the document-to-text boundary in front of the pipeline.
// Real PDF/DOCX parsing lives outside the core; this package reads plain-text
// files and rejects everything else with a typed error.
package extract

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultMinLength is the floor below which extracted text is treated as an
// extraction failure rather than a valid resume.
const DefaultMinLength = 100

// ErrTextTooShort marks extracted text that is too short to analyze.
var ErrTextTooShort = errors.New("extracted text is too short to analyze")

// UnsupportedFormatError is returned for file types the extractor cannot read.
type UnsupportedFormatError struct {
	Ext string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported resume format %q: convert to plain text first", e.Ext)
}

// ExtractionError wraps a read or parse failure for a supported format.
type ExtractionError struct {
	Path string
	Err  error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extracting text from %s: %v", e.Path, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// Text reads the resume file and returns its plain-text content.
func Text(path string) (string, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".txt", ".md", ".text":
		data, err := os.ReadFile(path)
		if err != nil {
			return "", &ExtractionError{Path: path, Err: err}
		}
		return string(data), nil
	default:
		return "", &UnsupportedFormatError{Ext: ext}
	}
}

// Validate rejects text shorter than minLength significant characters.
// A non-positive minLength falls back to the default threshold.
func Validate(text string, minLength int) error {
	if minLength <= 0 {
		minLength = DefaultMinLength
	}
	if len(strings.TrimSpace(text)) < minLength {
		return fmt.Errorf("%w (need at least %d characters)", ErrTextTooShort, minLength)
	}
	return nil
}
