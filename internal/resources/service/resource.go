package service

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"

	resourceerrors "deskhive/internal/resources/errors"
	"deskhive/internal/resources/repository"
	"deskhive/internal/resources/validator"
	"deskhive/pkg/config"
	apperrors "deskhive/pkg/errors"
	"deskhive/pkg/model"
	"deskhive/pkg/sanitizer"
)

type ResourceService interface {
	Create(ctx context.Context, resource *model.Resource) error
	GetByID(ctx context.Context, id string) (*model.Resource, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.Resource, int64, error)
	Update(ctx context.Context, id string, updates *model.ResourceUpdate) error
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, kind string, site string, limit int, offset int64) ([]*model.Resource, int64, error)
}

type resourceService struct {
	repo      repository.ResourceRepository
	validator *validator.ResourceValidator
	cfg       *config.Config
}

func NewResourceService(repo repository.ResourceRepository, validator *validator.ResourceValidator, cfg *config.Config) ResourceService {
	return &resourceService{
		repo:      repo,
		validator: validator,
		cfg:       cfg,
	}
}

// Create registers a catalog entry. The capacity ceiling is fixed here;
// no later operation changes it.
func (s *resourceService) Create(ctx context.Context, resource *model.Resource) error {
	s.applyDefaults(resource)
	s.sanitize(resource)
	if err := s.validator.Validate(resource); err != nil {
		return apperrors.Validation("Invalid resource", map[string]any{"error": err.Error()})
	}

	resource.ID = uuid.NewString()

	err := s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.verifyNameAvailable(sessCtx, resource.Name, resource.Site, ""); err != nil {
			return err
		}
		if err := s.repo.Create(sessCtx, resource); err != nil {
			return apperrors.Internal("Failed to create resource", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to create resource", "name", resource.Name, "site", resource.Site, "error", err)
		return err
	}

	s.cfg.Log.Info("Resource created",
		"id", resource.ID,
		"name", resource.Name,
		"site", resource.Site,
		"kind", resource.Kind,
		"max_concurrent", resource.MaxConcurrent,
	)
	return nil
}

func (s *resourceService) GetByID(ctx context.Context, id string) (*model.Resource, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Resource ID cannot be empty")
	}

	resource, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, resourceerrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Resource", id)
		}
		return nil, apperrors.Internal("Failed to retrieve resource", err)
	}
	return resource, nil
}

func (s *resourceService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Resource, int64, error) {
	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	var count int64
	var resources []*model.Resource
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count resources", "error", errCount)
			errCount = apperrors.Internal("Failed to count resources", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		resources, errFind = s.repo.FindAll(ctx, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list resources", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve resources", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}
	return resources, count, nil
}

func (s *resourceService) Update(ctx context.Context, id string, updates *model.ResourceUpdate) error {
	if id == "" {
		return apperrors.InvalidInput("Resource ID cannot be empty")
	}
	if err := s.validator.ValidateUpdate(updates); err != nil {
		return apperrors.Validation("Invalid update input", map[string]any{"error": err.Error()})
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, resourceerrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Resource", id)
		}
		return apperrors.Internal("Failed to check resource existence", err)
	}

	merged := s.mergeUpdates(existing, updates)
	s.sanitize(merged)
	if err := s.validator.Validate(merged); err != nil {
		return apperrors.Validation("Invalid resource after update", map[string]any{"error": err.Error()})
	}

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.verifyNameAvailable(sessCtx, merged.Name, merged.Site, id); err != nil {
			return err
		}
		if _, err := s.repo.Update(sessCtx, id, merged); err != nil {
			if errors.Is(err, resourceerrors.ErrNotFound) {
				return apperrors.NotFoundWithID("Resource", id)
			}
			return apperrors.Internal("Failed to update resource", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to update resource", "id", id, "error", err)
		return err
	}

	s.cfg.Log.Info("Resource updated", "id", id)
	return nil
}

func (s *resourceService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Resource ID cannot be empty")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, resourceerrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Resource", id)
		}
		return apperrors.Internal("Failed to delete resource", err)
	}

	s.cfg.Log.Info("Resource deleted", "id", id)
	return nil
}

func (s *resourceService) Search(ctx context.Context, kind string, site string, limit int, offset int64) ([]*model.Resource, int64, error) {
	if kind != "" && kind != string(model.ResourceRoom) && kind != string(model.ResourceEvent) {
		return nil, 0, apperrors.InvalidInput("Kind must be 'room' or 'event'")
	}
	site = sanitizer.NormalizeLabel(site)
	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	var count int64
	var resources []*model.Resource
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.CountByKindAndSite(ctx, kind, site)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count resources by search", "kind", kind, "site", site, "error", errCount)
			errCount = apperrors.Internal("Failed to count resources", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		resources, errFind = s.repo.SearchByKindAndSite(ctx, kind, site, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to search resources", "kind", kind, "site", site, "error", errFind)
			errFind = apperrors.Internal("Failed to search resources", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}
	return resources, count, nil
}

// ────────────────────────────────────────────────
// Helpers
// ────────────────────────────────────────────────

func (s *resourceService) verifyNameAvailable(ctx context.Context, name string, site string, selfID string) error {
	existing, err := s.repo.FindByNameAndSite(ctx, name, site)
	if err != nil {
		if errors.Is(err, resourceerrors.ErrNotFound) {
			return nil
		}
		return apperrors.Internal("Failed to check resource name", err)
	}
	if existing.ID != selfID {
		return apperrors.Conflict("A resource with this name already exists at the site")
	}
	return nil
}

func (s *resourceService) applyDefaults(resource *model.Resource) {
	if resource.Kind == model.ResourceRoom && resource.MaxConcurrent == 0 {
		resource.MaxConcurrent = 1
	}
}

func (s *resourceService) sanitize(resource *model.Resource) {
	resource.Name = sanitizer.NormalizeName(resource.Name)
	resource.Site = sanitizer.NormalizeLabel(resource.Site)
	resource.Description = sanitizer.TrimAndNormalize(resource.Description)
}

func (s *resourceService) mergeUpdates(existing *model.Resource, updates *model.ResourceUpdate) *model.Resource {
	merged := *existing

	if updates.Name != "" {
		merged.Name = updates.Name
	}
	if updates.Site != "" {
		merged.Site = updates.Site
	}
	if updates.AllowWaitlist != nil {
		merged.AllowWaitlist = *updates.AllowWaitlist
	}
	if updates.Description != "" {
		merged.Description = updates.Description
	}

	return &merged
}
