package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/tokito/genka-kanri/internal/auth"
	"github.com/tokito/genka-kanri/internal/model"
)

const minPasswordLength = 8

type UserStore interface {
	Create(ctx context.Context, email, passwordHash string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
}

type Session struct {
	Token     string
	ExpiresAt time.Time
	User      model.User
}

type AuthService struct {
	users       UserStore
	issuer      *auth.Issuer
	revoker     auth.Revoker
	allowSignUp bool
	cost        int
	log         zerolog.Logger
}

func NewAuthService(users UserStore, issuer *auth.Issuer, revoker auth.Revoker, allowSignUp bool, log zerolog.Logger) *AuthService {
	return &AuthService{
		users:       users,
		issuer:      issuer,
		revoker:     revoker,
		allowSignUp: allowSignUp,
		cost:        bcrypt.DefaultCost,
		log:         log.With().Str("component", "auth").Logger(),
	}
}

func (s *AuthService) SignUp(ctx context.Context, email, password string) (*Session, error) {
	if !s.allowSignUp {
		return nil, fmt.Errorf("%w: sign-up is disabled", ErrPermissionDenied)
	}
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	if err := checkPassword(password); err != nil {
		return nil, err
	}

	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: email is already registered", ErrConflict)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user, err := s.users.Create(ctx, email, string(hash))
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("user", user.ID.String()).Msg("user signed up")
	return s.issue(*user)
}

func (s *AuthService) SignIn(ctx context.Context, email, password string) (*Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: invalid email or password", ErrUnauthorized)
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, fmt.Errorf("%w: invalid email or password", ErrUnauthorized)
	}
	return s.issue(*user)
}

// SignOut revokes the token until it would have expired.
func (s *AuthService) SignOut(ctx context.Context, claims *auth.Claims) error {
	if claims == nil || claims.ExpiresAt == nil {
		return ErrUnauthorized
	}
	if err := s.revoker.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		return fmt.Errorf("%w: revoke session: %v", ErrUnavailable, err)
	}
	return nil
}

// CurrentUser resolves the principal of an active session.
func (s *AuthService) CurrentUser(ctx context.Context, principal model.Principal) (*model.User, error) {
	if !principal.Authenticated() {
		return nil, ErrUnauthorized
	}
	user, err := s.users.GetByID(ctx, principal.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user no longer exists", ErrUnauthorized)
		}
		return nil, err
	}
	return user, nil
}

func (s *AuthService) UpdatePassword(ctx context.Context, principal model.Principal, current, next string) error {
	user, err := s.CurrentUser(ctx, principal)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)); err != nil {
		return fmt.Errorf("%w: current password does not match", ErrPermissionDenied)
	}
	if err := checkPassword(next); err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(next), s.cost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.users.UpdatePassword(ctx, user.ID, string(hash))
}

func (s *AuthService) issue(user model.User) (*Session, error) {
	token, claims, err := s.issuer.Issue(user.ID, user.Email)
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, ExpiresAt: claims.ExpiresAt.Time, User: user}, nil
}

func normalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", fmt.Errorf("%w: invalid email", ErrInvalidInput)
	}
	return email, nil
}

func checkPassword(password string) error {
	if len(password) < minPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, minPasswordLength)
	}
	return nil
}
