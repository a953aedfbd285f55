package rag

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// ErrEmptyDocument is returned when the knowledge base has no text.
var ErrEmptyDocument = errors.New("document is empty")

// Document is a loaded knowledge base file.
type Document struct {
	Source string
	Text   string
}

// Name returns the base name used to label chunks.
func (d Document) Name() string {
	return filepath.Base(d.Source)
}

// Hash returns the hex SHA-256 of the document text.
func (d Document) Hash() string {
	sum := sha256.Sum256([]byte(d.Text))
	return hex.EncodeToString(sum[:])
}

// LoadDocument reads a UTF-8 text file. A leading byte order mark is dropped.
func LoadDocument(path string) (Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("read document %s: %w", path, err)
	}
	if !utf8.Valid(raw) {
		return Document{}, fmt.Errorf("document %s is not valid UTF-8", path)
	}
	text := strings.TrimPrefix(string(raw), "\ufeff")
	if strings.TrimSpace(text) == "" {
		return Document{}, fmt.Errorf("%s: %w", path, ErrEmptyDocument)
	}
	return Document{Source: path, Text: text}, nil
}
