package extractor

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// ErrUnsupportedSource is returned for files that are neither text nor PDF.
var ErrUnsupportedSource = errors.New("unsupported ride history source")

// Kind identifies how a ride-history export is stored.
type Kind string

const (
	KindText Kind = "text"
	KindPDF  Kind = "pdf"
)

// DetectKind picks the source kind from a file name.
func DetectKind(name string) (Kind, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".txt", ".text", ".tsv", "":
		return KindText, nil
	case ".pdf":
		return KindPDF, nil
	default:
		return "", fmt.Errorf("%w: %q (expected .txt or .pdf)", ErrUnsupportedSource, filepath.Ext(name))
	}
}

// ReadFile returns the ride-history text stored at path.
func ReadFile(path string) (string, error) {
	kind, err := DetectKind(path)
	if err != nil {
		return "", err
	}

	if kind == KindPDF {
		pages, err := ExtractText(path)
		if err != nil {
			return "", err
		}
		return strings.Join(pages, "\n"), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %q: %w", path, err)
	}
	return decodeText(data)
}

// Read returns the ride-history text of an uploaded export. The name is only
// used to tell text from PDF.
func Read(r io.Reader, name string) (string, error) {
	kind, err := DetectKind(name)
	if err != nil {
		return "", err
	}

	if kind == KindText {
		data, err := io.ReadAll(r)
		if err != nil {
			return "", fmt.Errorf("failed to read upload: %w", err)
		}
		return decodeText(data)
	}

	// The PDF library needs a file it can seek in.
	tmp, err := os.CreateTemp("", "rides-*.pdf")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())
	defer tmp.Close()

	if _, err := io.Copy(tmp, r); err != nil {
		return "", fmt.Errorf("failed to save upload: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to save upload: %w", err)
	}
	return ReadFile(tmp.Name())
}

// decodeText strips a UTF-8 byte order mark and rejects binary content.
func decodeText(data []byte) (string, error) {
	text := strings.TrimPrefix(string(data), "\uFEFF")
	if !utf8.ValidString(text) || strings.ContainsRune(text, 0) {
		return "", fmt.Errorf("%w: content is not UTF-8 text", ErrUnsupportedSource)
	}
	return text, nil
}
