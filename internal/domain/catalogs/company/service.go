package company

import (
	"context"
	"time"

	"billing/internal/core/id"
	"billing/internal/domain/audit"
)

// Service reads and updates the company profile.
type Service struct {
	repo     Repository
	recorder audit.Recorder
}

// NewService creates a new company profile service.
func NewService(repo Repository, recorder audit.Recorder) *Service {
	if recorder == nil {
		recorder = audit.NopRecorder{}
	}
	return &Service{repo: repo, recorder: recorder}
}

// Get returns the stored profile.
func (s *Service) Get(ctx context.Context) (*Company, error) {
	return s.repo.Get(ctx)
}

// Save validates and stores the profile, keeping the existing ID.
func (s *Service) Save(ctx context.Context, c *Company) error {
	if err := c.Validate(ctx); err != nil {
		return err
	}
	if id.IsNil(c.ID) {
		if current, err := s.repo.Get(ctx); err == nil {
			c.ID = current.ID
		} else {
			c.ID = id.New()
		}
	}
	c.UpdatedAt = time.Now().UTC()
	if err := s.repo.Save(ctx, c); err != nil {
		return err
	}
	audit.Log(ctx, s.recorder, "company.update", map[string]any{"name": c.Name})
	return nil
}
