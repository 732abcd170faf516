package repository

import (
	"context"
	"sync"
	"time"

	"github.com/mdpad/mdpad/internal/document"
)

// MemoryRepo is an in-memory Repository used for unit tests and for running
// without a configured MongoDB. Documents are indexed by id with a
// secondary slug index so both ref kinds resolve in O(1).
type MemoryRepo struct {
	mu     sync.RWMutex
	byID   map[string]*document.Document
	bySlug map[string]string // slug -> id
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		byID:   make(map[string]*document.Document),
		bySlug: make(map[string]string),
	}
}

func (m *MemoryRepo) Create(_ context.Context, doc *document.Document) error {
	now := time.Now().UTC()
	doc.CreatedAt = now
	doc.UpdatedAt = now

	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *doc
	m.byID[doc.ID] = &cp
	m.bySlug[doc.Slug] = doc.ID
	return nil
}

// resolve must be called with at least a read lock held.
func (m *MemoryRepo) resolve(ref document.Ref) (*document.Document, bool) {
	id := ref.Value
	if ref.Kind == document.BySlug {
		var ok bool
		if id, ok = m.bySlug[ref.Value]; !ok {
			return nil, false
		}
	}
	d, ok := m.byID[id]
	return d, ok
}

func (m *MemoryRepo) Get(_ context.Context, ref document.Ref) (*document.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	d, ok := m.resolve(ref)
	if !ok {
		return nil, ErrNotFound
	}
	cp := *d
	return &cp, nil
}

func (m *MemoryRepo) View(_ context.Context, ref document.Ref) (*document.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.resolve(ref)
	if !ok {
		return nil, ErrNotFound
	}
	d.ViewCount++
	cp := *d
	return &cp, nil
}

func (m *MemoryRepo) GetEditKey(_ context.Context, ref document.Ref) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	d, ok := m.resolve(ref)
	if !ok {
		return "", ErrNotFound
	}
	return d.EditKey, nil
}

func (m *MemoryRepo) Update(_ context.Context, ref document.Ref, title, content *string) (*document.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.resolve(ref)
	if !ok {
		return nil, ErrNotFound
	}
	if title != nil {
		d.Title = *title
	}
	if content != nil {
		d.Content = *content
	}
	d.UpdatedAt = time.Now().UTC()
	cp := *d
	return &cp, nil
}
