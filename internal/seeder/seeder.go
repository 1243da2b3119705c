// Package seeder loads the fixed course catalog at startup.
package seeder

import (
	"context"
	"fmt"
	"log/slog"

	"vocert/internal/catalog"
)

// CatalogStore defines methods for seeding courses.
type CatalogStore interface {
	Add(ctx context.Context, course catalog.Course) error
}

// Seeder populates stores with the demo catalog.
type Seeder struct {
	courses CatalogStore
	logger  *slog.Logger
}

// New creates a new seeder.
func New(courses CatalogStore, logger *slog.Logger) *Seeder {
	return &Seeder{courses: courses, logger: logger}
}

// SeedAll populates all stores with demo data.
func (s *Seeder) SeedAll(ctx context.Context) error {
	courses := []catalog.Course{
		{
			CourseCode:  "BC101",
			Title:       "Blockchain Fundamentals",
			SkillTag:    "Blockchain",
			Credits:     3,
			Description: "Distributed ledgers, consensus, and the anatomy of a block.",
		},
		{
			CourseCode:  "BC102",
			Title:       "Smart Contracts",
			SkillTag:    "Smart Contracts",
			Credits:     3,
			Description: "Writing, deploying, and auditing on-chain programs.",
		},
	}

	for _, course := range courses {
		if err := s.courses.Add(ctx, course); err != nil {
			return fmt.Errorf("failed to seed course %s: %w", course.CourseCode, err)
		}
	}

	s.logger.Info("course catalog seeded", "courses", len(courses))
	return nil
}
