package auth

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"stash/internal/users"
)

var (
	// ErrInvalidCredentials covers both unknown email and wrong password so
	// a caller cannot probe which emails are registered.
	ErrInvalidCredentials = errors.New("incorrect email or password")
	ErrUserInactive       = errors.New("user is inactive")
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("user with this email already exists")
)

type Service interface {
	Register(ctx context.Context, req *RegisterRequest) (*users.User, error)
	Login(ctx context.Context, email, password string) (*TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
	ChangePassword(ctx context.Context, userID uuid.UUID, req *ChangePasswordRequest) error
	ResolveIdentity(ctx context.Context, tokenString string) (*users.User, error)
	SetNotifier(n Notifier)
}

// Notifier receives account events. Delivery is best-effort; auth
// never fails on a notification error.
type Notifier interface {
	UserRegistered(ctx context.Context, user *users.User)
	PasswordChanged(ctx context.Context, user *users.User)
}

type service struct {
	repo     Repository
	codec    Codec
	issuer   *Issuer
	notifier Notifier
}

func NewService(repo Repository, codec Codec, issuer *Issuer) Service {
	return &service{
		repo:   repo,
		codec:  codec,
		issuer: issuer,
	}
}

// SetNotifier injects the registration notifier. Optional; nil disables it.
func (s *service) SetNotifier(n Notifier) {
	s.notifier = n
}

func (s *service) Register(ctx context.Context, req *RegisterRequest) (*users.User, error) {
	exists, err := s.repo.EmailExists(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailTaken
	}

	hashed, err := HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &users.User{
		Email:          req.Email,
		HashedPassword: hashed,
		FullName:       req.FullName,
		IsActive:       true,
		IsSuperuser:    false,
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.UserRegistered(ctx, user)
	}
	return user, nil
}

func (s *service) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !CheckPassword(password, user.HashedPassword) {
		return nil, ErrInvalidCredentials
	}

	// Inactive is reported as such only after the password proved out.
	if !user.IsActive {
		return nil, ErrUserInactive
	}

	return s.issuer.Pair(user.ID.String())
}

func (s *service) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.codec.Decode(refreshToken)
	if err != nil || claims.Type != TokenTypeRefresh {
		return nil, ErrInvalidToken
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, ErrInvalidToken
	}

	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}

	// Both tokens rotate on every refresh. The old refresh token stays
	// valid until its own expiry; there is no revocation store.
	return s.issuer.Pair(user.ID.String())
}

func (s *service) ChangePassword(ctx context.Context, userID uuid.UUID, req *ChangePasswordRequest) error {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return ErrUserNotFound
	}

	if !CheckPassword(req.CurrentPassword, user.HashedPassword) {
		return ErrInvalidCredentials
	}

	hashed, err := HashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	if err := s.repo.UpdateUserPassword(ctx, userID, hashed); err != nil {
		return err
	}

	if s.notifier != nil {
		s.notifier.PasswordChanged(ctx, user)
	}
	return nil
}

// ResolveIdentity turns a bearer token into the authenticated user. Every
// failure (bad signature, expired, wrong type, unknown subject) maps to the
// same ErrInvalidToken so the external status never reveals which check
// failed; only an inactive account is reported distinctly.
func (s *service) ResolveIdentity(ctx context.Context, tokenString string) (*users.User, error) {
	claims, err := s.codec.Decode(tokenString)
	if err != nil || claims.Type != TokenTypeAccess {
		return nil, ErrInvalidToken
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, ErrInvalidToken
	}

	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, ErrInvalidToken
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}
	return user, nil
}
