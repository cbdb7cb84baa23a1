package service

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"

	membererrors "deskhive/internal/members/errors"
	"deskhive/internal/members/repository"
	"deskhive/internal/members/validator"
	"deskhive/pkg/config"
	apperrors "deskhive/pkg/errors"
	"deskhive/pkg/model"
	"deskhive/pkg/sanitizer"
)

type MemberService interface {
	Create(ctx context.Context, member *model.Member) error
	GetByID(ctx context.Context, id string) (*model.Member, error)
	GetByEmail(ctx context.Context, email string) (*model.Member, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.Member, int64, error)
	Update(ctx context.Context, id string, updates *model.MemberUpdate) error
	Delete(ctx context.Context, id string) error
}

type memberService struct {
	repo      repository.MemberRepository
	validator *validator.MemberValidator
	cfg       *config.Config
}

func NewMemberService(repo repository.MemberRepository, validator *validator.MemberValidator, cfg *config.Config) MemberService {
	return &memberService{
		repo:      repo,
		validator: validator,
		cfg:       cfg,
	}
}

func (s *memberService) Create(ctx context.Context, member *model.Member) error {
	s.sanitize(member)
	if err := s.validator.Validate(member); err != nil {
		return apperrors.Validation("Invalid member", map[string]any{"error": err.Error()})
	}

	member.ID = uuid.NewString()

	err := s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.verifyEmailAvailable(sessCtx, member.Email, ""); err != nil {
			return err
		}
		if err := s.repo.Create(sessCtx, member); err != nil {
			if errors.Is(err, membererrors.ErrDuplicateEmail) {
				return apperrors.Conflict("A member with this email already exists")
			}
			return apperrors.Internal("Failed to create member", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to create member", "email", member.Email, "error", err)
		return err
	}

	s.cfg.Log.Info("Member created", "id", member.ID, "email", member.Email)
	return nil
}

func (s *memberService) GetByID(ctx context.Context, id string) (*model.Member, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Member ID cannot be empty")
	}

	member, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, membererrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Member", id)
		}
		return nil, apperrors.Internal("Failed to retrieve member", err)
	}
	return member, nil
}

func (s *memberService) GetByEmail(ctx context.Context, email string) (*model.Member, error) {
	email = sanitizer.TrimAndNormalize(email)
	if email == "" {
		return nil, apperrors.InvalidInput("Email cannot be empty")
	}

	member, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, membererrors.ErrNotFound) {
			return nil, apperrors.NotFound("Member not found")
		}
		return nil, apperrors.Internal("Failed to retrieve member", err)
	}
	return member, nil
}

func (s *memberService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Member, int64, error) {
	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	var count int64
	var members []*model.Member
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count members", "error", errCount)
			errCount = apperrors.Internal("Failed to count members", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		members, errFind = s.repo.FindAll(ctx, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list members", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve members", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}
	return members, count, nil
}

func (s *memberService) Update(ctx context.Context, id string, updates *model.MemberUpdate) error {
	if id == "" {
		return apperrors.InvalidInput("Member ID cannot be empty")
	}
	if err := s.validator.ValidateUpdate(updates); err != nil {
		return apperrors.Validation("Invalid update input", map[string]any{"error": err.Error()})
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, membererrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Member", id)
		}
		return apperrors.Internal("Failed to check member existence", err)
	}

	merged := s.mergeUpdates(existing, updates)
	s.sanitize(merged)
	if err := s.validator.Validate(merged); err != nil {
		return apperrors.Validation("Invalid member after update", map[string]any{"error": err.Error()})
	}

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.verifyEmailAvailable(sessCtx, merged.Email, id); err != nil {
			return err
		}
		if _, err := s.repo.Update(sessCtx, id, merged); err != nil {
			if errors.Is(err, membererrors.ErrNotFound) {
				return apperrors.NotFoundWithID("Member", id)
			}
			return apperrors.Internal("Failed to update member", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to update member", "id", id, "error", err)
		return err
	}

	s.cfg.Log.Info("Member updated", "id", id)
	return nil
}

func (s *memberService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Member ID cannot be empty")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, membererrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Member", id)
		}
		return apperrors.Internal("Failed to delete member", err)
	}

	s.cfg.Log.Info("Member deleted", "id", id)
	return nil
}

// ────────────────────────────────────────────────
// Helpers
// ────────────────────────────────────────────────

func (s *memberService) verifyEmailAvailable(ctx context.Context, email string, selfID string) error {
	existing, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, membererrors.ErrNotFound) {
			return nil
		}
		return apperrors.Internal("Failed to check member email", err)
	}
	if existing.ID != selfID {
		return apperrors.Conflict("A member with this email already exists")
	}
	return nil
}

func (s *memberService) mergeUpdates(existing *model.Member, updates *model.MemberUpdate) *model.Member {
	merged := *existing
	if updates.Name != "" {
		merged.Name = updates.Name
	}
	if updates.Email != "" {
		merged.Email = updates.Email
	}
	if updates.Phone != "" {
		merged.Phone = updates.Phone
	}
	if updates.Company != "" {
		merged.Company = updates.Company
	}
	return &merged
}

func (s *memberService) sanitize(member *model.Member) {
	member.Name = sanitizer.NormalizeName(member.Name)
	member.Email = sanitizer.TrimAndNormalize(member.Email)
	member.Company = sanitizer.TrimAndNormalize(member.Company)
	if member.Phone != "" {
		if normalized := sanitizer.NormalizePhone(member.Phone); normalized != "" {
			member.Phone = normalized
		}
	}
}
