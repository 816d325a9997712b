package storage

import (
	"context"
	"errors"
	"sync"
	"time"

	billingapp "github.com/billing/backend/internal/application/billing"
)

// StubDocumentArchive is an in-memory DocumentArchive for development and
// tests. Snapshots live only for the lifetime of the process.
type StubDocumentArchive struct {
	// BaseURL is the base URL for generated download links
	BaseURL string

	mu      sync.RWMutex
	objects map[string][]byte
}

// NewStubDocumentArchive creates a new StubDocumentArchive
func NewStubDocumentArchive() *StubDocumentArchive {
	return &StubDocumentArchive{
		BaseURL: "https://archive.example.com",
		objects: make(map[string][]byte),
	}
}

// Ensure StubDocumentArchive implements DocumentArchive
var _ billingapp.DocumentArchive = (*StubDocumentArchive)(nil)

// Store keeps the snapshot in memory
func (s *StubDocumentArchive) Store(ctx context.Context, key string, data []byte, contentType string) error {
	if key == "" {
		return errors.New("archive key is required")
	}
	stored := make([]byte, len(data))
	copy(stored, data)

	s.mu.Lock()
	s.objects[key] = stored
	s.mu.Unlock()
	return nil
}

// DownloadURL returns a synthetic link for a stored snapshot
func (s *StubDocumentArchive) DownloadURL(ctx context.Context, key string, expiresIn time.Duration) (string, time.Time, error) {
	if key == "" {
		return "", time.Time{}, errors.New("archive key is required")
	}

	expiresAt := time.Now().Add(expiresIn)
	return s.BaseURL + "/" + key, expiresAt, nil
}

// Get returns a stored snapshot, for assertions in tests
func (s *StubDocumentArchive) Get(key string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.objects[key]
	return data, ok
}
