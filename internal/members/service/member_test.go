package service

import (
	"context"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	membererrors "deskhive/internal/members/errors"
	"deskhive/internal/members/validator"
	"deskhive/pkg/config"
	mongotx "deskhive/pkg/db/mongo"
	apperrors "deskhive/pkg/errors"
	"deskhive/pkg/logger"
	"deskhive/pkg/model"
)

// Mock repository for testing
type mockMemberRepository struct {
	createFunc      func(ctx context.Context, member *model.Member) error
	findByIDFunc    func(ctx context.Context, id string) (*model.Member, error)
	findByEmailFunc func(ctx context.Context, email string) (*model.Member, error)
	findAllFunc     func(ctx context.Context, limit int, offset int64) ([]*model.Member, error)
	updateFunc      func(ctx context.Context, id string, member *model.Member) (*mongo.UpdateResult, error)
	deleteFunc      func(ctx context.Context, id string) error
	countFunc       func(ctx context.Context) (int64, error)
}

func (m *mockMemberRepository) Create(ctx context.Context, member *model.Member) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, member)
	}
	return nil
}

func (m *mockMemberRepository) FindByID(ctx context.Context, id string) (*model.Member, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, membererrors.ErrNotFound
}

func (m *mockMemberRepository) FindByEmail(ctx context.Context, email string) (*model.Member, error) {
	if m.findByEmailFunc != nil {
		return m.findByEmailFunc(ctx, email)
	}
	return nil, membererrors.ErrNotFound
}

func (m *mockMemberRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Member, error) {
	if m.findAllFunc != nil {
		return m.findAllFunc(ctx, limit, offset)
	}
	return []*model.Member{}, nil
}

func (m *mockMemberRepository) Update(ctx context.Context, id string, member *model.Member) (*mongo.UpdateResult, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, member)
	}
	return &mongo.UpdateResult{MatchedCount: 1}, nil
}

func (m *mockMemberRepository) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

func (m *mockMemberRepository) Count(ctx context.Context) (int64, error) {
	if m.countFunc != nil {
		return m.countFunc(ctx)
	}
	return 0, nil
}

func (m *mockMemberRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(nil)
}

func newTestMemberService(repo *mockMemberRepository) MemberService {
	log := logger.Discard()
	cfg := &config.Config{
		Log:          log,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}
	return NewMemberService(repo, validator.NewMemberValidator(log), cfg)
}

func memberErrCode(t *testing.T, err error) string {
	t.Helper()
	appErr := apperrors.AsAppError(err)
	if appErr == nil {
		t.Fatalf("expected AppError, got %T: %v", err, err)
	}
	return appErr.Code
}

func TestMemberService_Create(t *testing.T) {
	var created *model.Member
	repo := &mockMemberRepository{
		createFunc: func(ctx context.Context, member *model.Member) error {
			created = member
			return nil
		},
	}
	svc := newTestMemberService(repo)

	member := &model.Member{
		Name:  "  Alice   Smith ",
		Email: "alice@example.com",
		Phone: "+14155552671",
	}
	if err := svc.Create(context.Background(), member); err != nil {
		t.Fatalf("Create() error = %v, want nil", err)
	}

	if created == nil {
		t.Fatal("repository Create was not called")
	}
	if created.ID == "" {
		t.Error("expected generated ID")
	}
	if created.Name != "Alice Smith" {
		t.Errorf("name = %q, want sanitized %q", created.Name, "Alice Smith")
	}
	if created.Phone != "+14155552671" {
		t.Errorf("phone = %q, want E.164 %q", created.Phone, "+14155552671")
	}
}

func TestMemberService_Create_InvalidEmail(t *testing.T) {
	svc := newTestMemberService(&mockMemberRepository{})

	err := svc.Create(context.Background(), &model.Member{
		Name:  "Alice Smith",
		Email: "not-an-email",
	})
	if code := memberErrCode(t, err); code != apperrors.CodeValidation {
		t.Errorf("error code = %s, want %s", code, apperrors.CodeValidation)
	}
}

func TestMemberService_Create_DuplicateEmail(t *testing.T) {
	repo := &mockMemberRepository{
		findByEmailFunc: func(ctx context.Context, email string) (*model.Member, error) {
			return &model.Member{ID: "existing", Email: email}, nil
		},
	}
	svc := newTestMemberService(repo)

	err := svc.Create(context.Background(), &model.Member{
		Name:  "Alice Smith",
		Email: "alice@example.com",
	})
	if code := memberErrCode(t, err); code != apperrors.CodeConflict {
		t.Errorf("error code = %s, want %s", code, apperrors.CodeConflict)
	}
}

func TestMemberService_GetByEmail(t *testing.T) {
	repo := &mockMemberRepository{
		findByEmailFunc: func(ctx context.Context, email string) (*model.Member, error) {
			if email == "alice@example.com" {
				return &model.Member{ID: "m-1", Email: email}, nil
			}
			return nil, membererrors.ErrNotFound
		},
	}
	svc := newTestMemberService(repo)

	member, err := svc.GetByEmail(context.Background(), " alice@example.com ")
	if err != nil {
		t.Fatalf("GetByEmail() error = %v", err)
	}
	if member.ID != "m-1" {
		t.Errorf("member ID = %s, want m-1", member.ID)
	}

	if _, err := svc.GetByEmail(context.Background(), "bob@example.com"); err == nil {
		t.Error("expected error for unknown email")
	}
}

func TestMemberService_Update_MergesFields(t *testing.T) {
	existing := &model.Member{
		ID:      "m-1",
		Name:    "Alice Smith",
		Email:   "alice@example.com",
		Company: "Acme",
	}

	var updated *model.Member
	repo := &mockMemberRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Member, error) {
			return existing, nil
		},
		findByEmailFunc: func(ctx context.Context, email string) (*model.Member, error) {
			return existing, nil
		},
		updateFunc: func(ctx context.Context, id string, member *model.Member) (*mongo.UpdateResult, error) {
			updated = member
			return &mongo.UpdateResult{MatchedCount: 1}, nil
		},
	}
	svc := newTestMemberService(repo)

	err := svc.Update(context.Background(), "m-1", &model.MemberUpdate{Company: "Globex"})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	if updated == nil {
		t.Fatal("repository Update was not called")
	}
	if updated.Company != "Globex" {
		t.Errorf("company = %q, want %q", updated.Company, "Globex")
	}
	if updated.Email != "alice@example.com" {
		t.Errorf("email = %q, want unchanged", updated.Email)
	}
}

func TestMemberService_Delete_NotFound(t *testing.T) {
	repo := &mockMemberRepository{
		deleteFunc: func(ctx context.Context, id string) error {
			return membererrors.ErrNotFound
		},
	}
	svc := newTestMemberService(repo)

	err := svc.Delete(context.Background(), "missing")
	if code := memberErrCode(t, err); code != apperrors.CodeNotFound {
		t.Errorf("error code = %s, want %s", code, apperrors.CodeNotFound)
	}
}
