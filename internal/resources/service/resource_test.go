package service

import (
	"context"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	resourceerrors "deskhive/internal/resources/errors"
	"deskhive/internal/resources/validator"
	"deskhive/pkg/config"
	mongotx "deskhive/pkg/db/mongo"
	apperrors "deskhive/pkg/errors"
	"deskhive/pkg/logger"
	"deskhive/pkg/model"
)

// Mock repository for testing
type mockResourceRepository struct {
	createFunc         func(ctx context.Context, resource *model.Resource) error
	findByIDFunc       func(ctx context.Context, id string) (*model.Resource, error)
	findAllFunc        func(ctx context.Context, limit int, offset int64) ([]*model.Resource, error)
	findByNameFunc     func(ctx context.Context, name string, site string) (*model.Resource, error)
	searchFunc         func(ctx context.Context, kind string, site string, limit int, offset int64) ([]*model.Resource, error)
	countByKindFunc    func(ctx context.Context, kind string, site string) (int64, error)
	updateFunc         func(ctx context.Context, id string, resource *model.Resource) (*mongo.UpdateResult, error)
	deleteFunc         func(ctx context.Context, id string) error
	countFunc          func(ctx context.Context) (int64, error)
}

func (m *mockResourceRepository) Create(ctx context.Context, resource *model.Resource) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, resource)
	}
	return nil
}

func (m *mockResourceRepository) FindByID(ctx context.Context, id string) (*model.Resource, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, resourceerrors.ErrNotFound
}

func (m *mockResourceRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Resource, error) {
	if m.findAllFunc != nil {
		return m.findAllFunc(ctx, limit, offset)
	}
	return []*model.Resource{}, nil
}

func (m *mockResourceRepository) FindByNameAndSite(ctx context.Context, name string, site string) (*model.Resource, error) {
	if m.findByNameFunc != nil {
		return m.findByNameFunc(ctx, name, site)
	}
	return nil, resourceerrors.ErrNotFound
}

func (m *mockResourceRepository) SearchByKindAndSite(ctx context.Context, kind string, site string, limit int, offset int64) ([]*model.Resource, error) {
	if m.searchFunc != nil {
		return m.searchFunc(ctx, kind, site, limit, offset)
	}
	return []*model.Resource{}, nil
}

func (m *mockResourceRepository) CountByKindAndSite(ctx context.Context, kind string, site string) (int64, error) {
	if m.countByKindFunc != nil {
		return m.countByKindFunc(ctx, kind, site)
	}
	return 0, nil
}

func (m *mockResourceRepository) Update(ctx context.Context, id string, resource *model.Resource) (*mongo.UpdateResult, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, resource)
	}
	return &mongo.UpdateResult{MatchedCount: 1}, nil
}

func (m *mockResourceRepository) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

func (m *mockResourceRepository) Count(ctx context.Context) (int64, error) {
	if m.countFunc != nil {
		return m.countFunc(ctx)
	}
	return 0, nil
}

func (m *mockResourceRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(nil)
}

func newTestResourceService(repo *mockResourceRepository) ResourceService {
	log := logger.Discard()
	cfg := &config.Config{
		Log:          log,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}
	return NewResourceService(repo, validator.NewResourceValidator(log), cfg)
}

func errCode(t *testing.T, err error) string {
	t.Helper()
	appErr := apperrors.AsAppError(err)
	if appErr == nil {
		t.Fatalf("expected AppError, got %T: %v", err, err)
	}
	return appErr.Code
}

func TestResourceService_Create(t *testing.T) {
	var created *model.Resource
	repo := &mockResourceRepository{
		createFunc: func(ctx context.Context, resource *model.Resource) error {
			created = resource
			return nil
		},
	}
	svc := newTestResourceService(repo)

	resource := &model.Resource{
		Name: "  Focus Room ",
		Site: "Downtown",
		Kind: model.ResourceRoom,
	}
	if err := svc.Create(context.Background(), resource); err != nil {
		t.Fatalf("Create() error = %v, want nil", err)
	}

	if created == nil {
		t.Fatal("repository Create was not called")
	}
	if created.ID == "" {
		t.Error("expected generated ID")
	}
	if created.Name != "Focus Room" {
		t.Errorf("name = %q, want sanitized %q", created.Name, "Focus Room")
	}
	if created.MaxConcurrent != 1 {
		t.Errorf("room max_concurrent = %d, want defaulted 1", created.MaxConcurrent)
	}
}

func TestResourceService_Create_DuplicateName(t *testing.T) {
	repo := &mockResourceRepository{
		findByNameFunc: func(ctx context.Context, name string, site string) (*model.Resource, error) {
			return &model.Resource{ID: "existing", Name: name, Site: site}, nil
		},
	}
	svc := newTestResourceService(repo)

	err := svc.Create(context.Background(), &model.Resource{
		Name: "Focus Room",
		Site: "Downtown",
		Kind: model.ResourceRoom,
	})
	if code := errCode(t, err); code != apperrors.CodeConflict {
		t.Errorf("error code = %s, want %s", code, apperrors.CodeConflict)
	}
}

func TestResourceService_Create_InvalidPolicy(t *testing.T) {
	svc := newTestResourceService(&mockResourceRepository{})

	tests := []struct {
		name     string
		resource model.Resource
	}{
		{
			name: "room with shared capacity",
			resource: model.Resource{
				Name:          "Focus Room",
				Site:          "Downtown",
				Kind:          model.ResourceRoom,
				MaxConcurrent: 5,
			},
		},
		{
			name: "room with waitlist",
			resource: model.Resource{
				Name:          "Focus Room",
				Site:          "Downtown",
				Kind:          model.ResourceRoom,
				MaxConcurrent: 1,
				AllowWaitlist: true,
			},
		},
		{
			name: "missing site",
			resource: model.Resource{
				Name: "Focus Room",
				Kind: model.ResourceRoom,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resource := tt.resource
			err := svc.Create(context.Background(), &resource)
			if code := errCode(t, err); code != apperrors.CodeValidation {
				t.Errorf("error code = %s, want %s", code, apperrors.CodeValidation)
			}
		})
	}
}

func TestResourceService_GetAll(t *testing.T) {
	repo := &mockResourceRepository{
		countFunc: func(ctx context.Context) (int64, error) {
			time.Sleep(5 * time.Millisecond)
			return 42, nil
		},
		findAllFunc: func(ctx context.Context, limit int, offset int64) ([]*model.Resource, error) {
			time.Sleep(5 * time.Millisecond)
			return []*model.Resource{{ID: "r-1", Name: "Focus Room"}}, nil
		},
	}
	svc := newTestResourceService(repo)

	resources, count, err := svc.GetAll(context.Background(), 10, 0)
	if err != nil {
		t.Fatalf("GetAll() error = %v", err)
	}
	if count != 42 {
		t.Errorf("count = %d, want 42", count)
	}
	if len(resources) != 1 {
		t.Errorf("len(resources) = %d, want 1", len(resources))
	}
}

func TestResourceService_Update_KindAndCapacityImmutable(t *testing.T) {
	existing := &model.Resource{
		ID:            "r-1",
		Name:          "Main Hall",
		Site:          "Downtown",
		Kind:          model.ResourceEvent,
		MaxConcurrent: 30,
		AllowWaitlist: true,
	}

	var updated *model.Resource
	repo := &mockResourceRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Resource, error) {
			return existing, nil
		},
		findByNameFunc: func(ctx context.Context, name string, site string) (*model.Resource, error) {
			return existing, nil
		},
		updateFunc: func(ctx context.Context, id string, resource *model.Resource) (*mongo.UpdateResult, error) {
			updated = resource
			return &mongo.UpdateResult{MatchedCount: 1}, nil
		},
	}
	svc := newTestResourceService(repo)

	err := svc.Update(context.Background(), "r-1", &model.ResourceUpdate{
		Description: "Refurbished",
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	if updated == nil {
		t.Fatal("repository Update was not called")
	}
	if updated.Kind != model.ResourceEvent {
		t.Errorf("kind = %s, want unchanged event", updated.Kind)
	}
	if updated.MaxConcurrent != 30 {
		t.Errorf("max_concurrent = %d, want unchanged 30", updated.MaxConcurrent)
	}
	if updated.Description != "Refurbished" {
		t.Errorf("description = %q, want %q", updated.Description, "Refurbished")
	}
}

func TestResourceService_Update_NotFound(t *testing.T) {
	svc := newTestResourceService(&mockResourceRepository{})

	err := svc.Update(context.Background(), "missing", &model.ResourceUpdate{Name: "New Name"})
	if code := errCode(t, err); code != apperrors.CodeNotFound {
		t.Errorf("error code = %s, want %s", code, apperrors.CodeNotFound)
	}
}

func TestResourceService_Search_InvalidKind(t *testing.T) {
	svc := newTestResourceService(&mockResourceRepository{})

	_, _, err := svc.Search(context.Background(), "cubicle", "", 10, 0)
	if code := errCode(t, err); code != apperrors.CodeInvalidInput {
		t.Errorf("error code = %s, want %s", code, apperrors.CodeInvalidInput)
	}
}

func TestResourceService_Delete_NotFound(t *testing.T) {
	repo := &mockResourceRepository{
		deleteFunc: func(ctx context.Context, id string) error {
			return resourceerrors.ErrNotFound
		},
	}
	svc := newTestResourceService(repo)

	err := svc.Delete(context.Background(), "missing")
	if code := errCode(t, err); code != apperrors.CodeNotFound {
		t.Errorf("error code = %s, want %s", code, apperrors.CodeNotFound)
	}
}
