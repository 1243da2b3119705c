// Package catalog holds the course catalog credentials are issued against.
// The catalog is loaded once at startup and immutable afterwards.
package catalog

import (
	"context"
	"sync"

	"vocert/internal/sentinel"
)

// Course is one catalog entry. CourseCode is the unique key.
type Course struct {
	CourseCode  string
	Title       string
	SkillTag    string
	Credits     int
	Description string
}

// Store exposes catalog lookups to the issuance flow.
type Store interface {
	FindByCode(ctx context.Context, code string) (Course, error)
	List(ctx context.Context) ([]Course, error)
}

// InMemoryStore is a memory-backed catalog. Courses are registered during
// seeding; reads are safe for concurrent use.
type InMemoryStore struct {
	mu      sync.RWMutex
	order   []string
	courses map[string]Course
}

// NewInMemoryStore constructs an empty catalog.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{courses: make(map[string]Course)}
}

// Add registers a course. Re-registering a course code replaces the entry;
// only the seeder writes here.
func (s *InMemoryStore) Add(_ context.Context, course Course) error {
	if course.CourseCode == "" {
		return sentinel.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.courses[course.CourseCode]; !exists {
		s.order = append(s.order, course.CourseCode)
	}
	s.courses[course.CourseCode] = course
	return nil
}

// FindByCode retrieves a course or returns sentinel.ErrNotFound.
func (s *InMemoryStore) FindByCode(_ context.Context, code string) (Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if course, ok := s.courses[code]; ok {
		return course, nil
	}
	return Course{}, sentinel.ErrNotFound
}

// List returns all courses in registration order.
func (s *InMemoryStore) List(_ context.Context) ([]Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Course, 0, len(s.order))
	for _, code := range s.order {
		out = append(out, s.courses[code])
	}
	return out, nil
}

var _ Store = (*InMemoryStore)(nil)
