package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"

	"feedhub/internal/auth"
	apperrors "feedhub/internal/errors"
	"feedhub/internal/model"
	"feedhub/internal/repository"
)

// invalidCredentialsMessage is the merged login failure message used when
// verbose login errors are disabled, so responses do not reveal whether the
// email or the password was wrong.
const invalidCredentialsMessage = "invalid email or password"

var validate = validator.New()

// AuthService handles signup and login.
type AuthService interface {
	Signup(ctx context.Context, email, name, password string) (*model.User, error)
	Login(ctx context.Context, email, password string) (token string, user *model.User, err error)
}

type authService struct {
	users              repository.UserRepository
	hasher             *auth.PasswordHasher
	jwtService         *auth.JWTService
	verboseLoginErrors bool
}

// NewAuthService creates a new authentication service.
func NewAuthService(users repository.UserRepository, hasher *auth.PasswordHasher, jwtService *auth.JWTService, verboseLoginErrors bool) AuthService {
	return &authService{
		users:              users,
		hasher:             hasher,
		jwtService:         jwtService,
		verboseLoginErrors: verboseLoginErrors,
	}
}

// NormalizeEmail lower-cases and trims an email for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateSignup(email, name, password string) error {
	var fields []apperrors.FieldError
	if err := validate.Var(email, "required,email"); err != nil {
		fields = append(fields, apperrors.FieldError{Field: "email", Message: "please enter a valid email"})
	}
	if len(strings.TrimSpace(password)) < 5 {
		fields = append(fields, apperrors.FieldError{Field: "password", Message: "password must be at least 5 characters"})
	}
	if strings.TrimSpace(name) == "" {
		fields = append(fields, apperrors.FieldError{Field: "name", Message: "name must not be empty"})
	}
	if len(fields) > 0 {
		return apperrors.Validation("validation failed", fields...)
	}
	return nil
}

// Signup validates input before touching storage, rejects duplicate emails,
// and persists a new user with a hashed password and the default status.
func (s *authService) Signup(ctx context.Context, email, name, password string) (*model.User, error) {
	if err := validateSignup(email, name, password); err != nil {
		return nil, err
	}

	email = NormalizeEmail(email)

	// Friendly pre-check; the unique index on users.email is the
	// authoritative guard under concurrent signups.
	existing, err := s.users.FindByEmail(ctx, email)
	if err == nil && existing != nil {
		return nil, apperrors.Conflict("email address already exists")
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Internal(fmt.Errorf("check user existence: %w", err))
	}

	digest, err := s.hasher.Hash(strings.TrimSpace(password))
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("hash password: %w", err))
	}

	user := &model.User{
		Email:        email,
		Name:         strings.TrimSpace(name),
		PasswordHash: digest,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.Conflict("email address already exists")
		}
		return nil, apperrors.Internal(fmt.Errorf("create user: %w", err))
	}

	return user, nil
}

// Login verifies credentials and issues a session token.
func (s *authService) Login(ctx context.Context, email, password string) (string, *model.User, error) {
	user, err := s.users.FindByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, apperrors.Unauthenticated(s.loginMessage("no user found with this email"))
		}
		return "", nil, apperrors.Internal(fmt.Errorf("find user: %w", err))
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return "", nil, apperrors.Unauthenticated(s.loginMessage("wrong password"))
	}

	token, err := s.jwtService.GenerateToken(user.ID, user.Email)
	if err != nil {
		return "", nil, apperrors.Internal(fmt.Errorf("generate token: %w", err))
	}

	return token, user, nil
}

func (s *authService) loginMessage(verbose string) string {
	if s.verboseLoginErrors {
		return verbose
	}
	return invalidCredentialsMessage
}
