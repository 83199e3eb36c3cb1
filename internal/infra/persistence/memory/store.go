// Package memory provides an in-process DocumentStore. It backs the test
// suites and the local development driver; it is not durable.
package memory

import (
	"context"
	"sync"

	"pepre/internal/domain/entity"
	"pepre/internal/domain/repository"
)

type store struct {
	mu          sync.RWMutex
	collections map[string]map[string]entity.Document
}

// NewStore builds an empty in-memory document store.
func NewStore() repository.DocumentStore {
	return &store{
		collections: make(map[string]map[string]entity.Document),
	}
}

func (s *store) Get(_ context.Context, collection, id string) (entity.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.collections[collection][id]
	if !ok {
		return nil, repository.ErrDocumentNotFound
	}

	return doc.Clone(), nil
}

func (s *store) Set(_ context.Context, collection, id string, doc entity.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	col, ok := s.collections[collection]
	if !ok {
		col = make(map[string]entity.Document)
		s.collections[collection] = col
	}
	col[id] = doc.Clone()

	return nil
}

func (s *store) Merge(_ context.Context, collection, id string, fields entity.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.collections[collection][id]
	if !ok {
		return repository.ErrDocumentNotFound
	}
	for k, v := range fields {
		doc[k] = v
	}

	return nil
}

func (s *store) Delete(_ context.Context, collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.collections[collection], id)

	return nil
}

func (s *store) All(_ context.Context, collection string) ([]entity.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	col := s.collections[collection]
	docs := make([]entity.Document, 0, len(col))
	for _, doc := range col {
		docs = append(docs, doc.Clone())
	}

	return docs, nil
}

func (s *store) FindByField(_ context.Context, collection, field string, value any) ([]entity.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var docs []entity.Document
	for _, doc := range s.collections[collection] {
		if doc[field] == value {
			docs = append(docs, doc.Clone())
		}
	}

	return docs, nil
}
