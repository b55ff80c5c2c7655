package repository

import (
	"context"

	"github.com/loandash/loandash/internal/domain"
)

// DocumentRepository defines the persistence contract for the application
// document. Load never fails on a missing or unreadable store; it falls
// back to a freshly initialized default document.
type DocumentRepository interface {
	// Load reads the whole document, initializing the store with defaults
	// when it is absent, empty, or corrupt.
	Load(ctx context.Context) (*domain.Document, error)

	// Save rewrites the whole document.
	Save(ctx context.Context, doc *domain.Document) error
}
