package users

import (
	"context"

	"github.com/google/uuid"
)

// HashFunc hashes a plaintext password. Injected (the auth package owns
// password hashing) so this package stays free of crypto concerns.
type HashFunc func(password string) (string, error)

type Service interface {
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	List(ctx context.Context, query ListQuery) ([]User, int64, error)
	Update(ctx context.Context, id uuid.UUID, req *UpdateUserRequest) (*User, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo Repository
	hash HashFunc
}

func NewService(repo Repository, hash HashFunc) Service {
	return &service{
		repo: repo,
		hash: hash,
	}
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, query ListQuery) ([]User, int64, error) {
	return s.repo.GetAll(ctx, query.Skip, query.Limit)
}

func (s *service) Update(ctx context.Context, id uuid.UUID, req *UpdateUserRequest) (*User, error) {
	updates := map[string]interface{}{}

	if req.Email != nil {
		taken, err := s.repo.EmailExists(ctx, *req.Email, id)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrEmailTaken
		}
		updates["email"] = *req.Email
	}
	if req.FullName != nil {
		updates["full_name"] = *req.FullName
	}
	if req.Password != nil {
		hashed, err := s.hash(*req.Password)
		if err != nil {
			return nil, err
		}
		updates["hashed_password"] = hashed
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	return s.repo.Update(ctx, id, updates)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}
