package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/loandash/loandash/internal/domain"
)

// FileRepository stores the document as one pretty-printed JSON file. The
// file is the only durable state the application has; every save rewrites
// it wholesale. There is no locking — serialized request handling is
// assumed, concurrent writers can lose an update.
type FileRepository struct {
	path string
	log  *logrus.Logger
}

func NewFileRepository(path string, log *logrus.Logger) (*FileRepository, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	return &FileRepository{path: path, log: log}, nil
}

// Load reads the document. A missing, empty, or unparsable file is reset
// to the default document rather than surfaced as an error.
func (r *FileRepository) Load(ctx context.Context) (*domain.Document, error) {
	raw, err := os.ReadFile(r.path)
	if err != nil {
		if !os.IsNotExist(err) {
			r.log.WithError(err).Warn("could not read data file, re-initializing")
		}
		return r.initialize()
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		r.log.Warn("data file is empty, re-initializing")
		return r.initialize()
	}

	var doc domain.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		r.log.WithError(err).Warn("data file is corrupt, re-initializing")
		return r.initialize()
	}
	return &doc, nil
}

// Save rewrites the document file.
func (r *FileRepository) Save(ctx context.Context, doc *domain.Document) error {
	return r.write(doc)
}

func (r *FileRepository) initialize() (*domain.Document, error) {
	doc := domain.DefaultDocument()
	if err := r.write(doc); err != nil {
		return nil, fmt.Errorf("initialize data file: %w", err)
	}
	r.log.WithField("path", r.path).Info("data file initialized")
	return doc, nil
}

func (r *FileRepository) write(doc *domain.Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	if err := os.WriteFile(r.path, data, 0o644); err != nil {
		return fmt.Errorf("write data file: %w", err)
	}
	return nil
}
