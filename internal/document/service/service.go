// Package service orchestrates document mutation: input validation, the
// edit-key access gate and persistence. Possession of the edit key is the
// sole write authorization; reads are public by link.
package service

import (
	"context"
	"crypto/subtle"

	"github.com/mdpad/mdpad/internal/document"
	"github.com/mdpad/mdpad/internal/document/repository"
	"github.com/mdpad/mdpad/internal/identifier"
	"github.com/mdpad/mdpad/internal/validation"
	"github.com/mdpad/mdpad/pkg/logger"
)

// Service owns the gated mutation paths for documents. Construct one per
// process and inject the repository; the Service itself holds no mutable
// state, so it is safe for concurrent use.
type Service struct {
	repo repository.Repository
}

func New(repo repository.Repository) *Service {
	return &Service{repo: repo}
}

// Create mints a new document. Nil title/content fall back to the defaults
// ("Untitled Document" / empty). The returned document carries the edit
// key; this is the only path that ever exposes it.
func (s *Service) Create(ctx context.Context, title, content *string) (*document.Document, error) {
	t := document.DefaultTitle
	if title != nil {
		t = *title
	}
	c := ""
	if content != nil {
		c = *content
	}

	if err := validation.Title(t); err != nil {
		return nil, &ValidationError{Field: "title", Message: err.Error()}
	}
	if err := validation.ContentSize(c); err != nil {
		return nil, &ValidationError{Field: "content", Message: err.Error()}
	}

	doc := &document.Document{
		ID:      identifier.NewDocumentID(),
		Slug:    identifier.NewSlug(t),
		Title:   t,
		Content: c,
		EditKey: identifier.NewEditKey(identifier.DefaultEditKeyBytes),
	}
	if err := s.repo.Create(ctx, doc); err != nil {
		logger.Errorf("create document: %v", err)
		return nil, err
	}
	return doc, nil
}

// Get is the public read path: it returns the document and counts the view.
// The edit key never leaves this layer (it is json:"-" besides).
func (s *Service) Get(ctx context.Context, ref document.Ref) (*document.Document, error) {
	d, err := s.repo.View(ctx, ref)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, ErrNotFound
		}
		logger.Errorf("get document: %v", err)
		return nil, err
	}
	return d, nil
}

// Update applies the supplied fields after the access gate admits the key.
// The first failing field check aborts the whole update; omitted fields are
// left unchanged. Racing updates are last-write-wins at the store.
func (s *Service) Update(ctx context.Context, ref document.Ref, editKey string, title, content *string) (*document.Document, error) {
	if err := s.authorize(ctx, ref, editKey); err != nil {
		return nil, err
	}

	if title != nil {
		if err := validation.Title(*title); err != nil {
			return nil, &ValidationError{Field: "title", Message: err.Error()}
		}
	}
	if content != nil {
		if err := validation.ContentSize(*content); err != nil {
			return nil, &ValidationError{Field: "content", Message: err.Error()}
		}
	}

	d, err := s.repo.Update(ctx, ref, title, content)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, ErrNotFound
		}
		logger.Errorf("update document: %v", err)
		return nil, err
	}
	return d, nil
}

// ValidateKey is the read-only probe behind the share dialog. Every failure
// (malformed key, unknown document, mismatch, storage error) collapses to
// false so the endpoint cannot be used as an oracle for enumerating keys or
// telling "not found" apart from "wrong key".
func (s *Service) ValidateKey(ctx context.Context, ref document.Ref, editKey string) bool {
	if err := validation.EditKey(editKey); err != nil {
		return false
	}
	stored, err := s.repo.GetEditKey(ctx, ref)
	if err != nil {
		if err != repository.ErrNotFound {
			logger.Errorf("validate edit key: %v", err)
		}
		return false
	}
	return equalKeys(stored, editKey)
}

// authorize is the access gate: shape check, then lookup, then comparison.
// Shape failures are a validation error (the caller never sent a plausible
// key); a mismatch is ErrForbidden with no detail about the stored key.
func (s *Service) authorize(ctx context.Context, ref document.Ref, editKey string) error {
	if err := validation.EditKey(editKey); err != nil {
		return &ValidationError{Field: "edit_key", Message: "Invalid or missing edit key"}
	}
	stored, err := s.repo.GetEditKey(ctx, ref)
	if err != nil {
		if err == repository.ErrNotFound {
			return ErrNotFound
		}
		logger.Errorf("authorize update: %v", err)
		return err
	}
	if !equalKeys(stored, editKey) {
		return ErrForbidden
	}
	return nil
}

// equalKeys compares in constant time to keep the comparison itself from
// leaking key material through timing.
func equalKeys(stored, presented string) bool {
	return subtle.ConstantTimeCompare([]byte(stored), []byte(presented)) == 1
}
