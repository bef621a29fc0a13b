package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"storefront/internal/auth"
	"storefront/internal/errors"
	"storefront/internal/model"
	"storefront/internal/repository"
)

const bcryptCost = 10

// RegisterInput carries a registration request.
type RegisterInput struct {
	Username string
	Email    string
	Password string
	Role     string
}

// AuthService handles identity and session operations.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*model.User, error)
	Login(ctx context.Context, username, password string) (token string, principal *auth.Principal, err error)
	Authenticate(ctx context.Context, token string) (*auth.Principal, error)
	Logout(ctx context.Context, token string) error
	EnsureAdmin(ctx context.Context, username, email, password string) (user *model.User, created bool, err error)
}

type authService struct {
	userRepo         repository.UserRepository
	jwtService       *auth.JWTService
	sessionStore     auth.SessionStoreInterface
	allowAdminSignup bool
	logger           zerolog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(
	userRepo repository.UserRepository,
	jwtService *auth.JWTService,
	sessionStore auth.SessionStoreInterface,
	allowAdminSignup bool,
	logger zerolog.Logger,
) AuthService {
	return &authService{
		userRepo:         userRepo,
		jwtService:       jwtService,
		sessionStore:     sessionStore,
		allowAdminSignup: allowAdminSignup,
		logger:           logger,
	}
}

// Register creates a new user with hashed password.
func (s *authService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	role, ok := model.ParseRole(in.Role)
	if !ok {
		return nil, errors.Validation(fmt.Sprintf("unknown role %q", in.Role))
	}
	if role == model.RoleAdmin && !s.allowAdminSignup {
		return nil, errors.Validation("admin accounts cannot be registered")
	}

	username := strings.TrimSpace(in.Username)
	email := strings.TrimSpace(in.Email)

	existing, err := s.userRepo.FindByUsername(ctx, username)
	if err == nil && existing != nil {
		return nil, errors.ErrDuplicateUsername
	}
	if err != nil && err != gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("check username: %w", err)
	}

	existing, err = s.userRepo.FindByEmail(ctx, email)
	if err == nil && existing != nil {
		return nil, errors.ErrDuplicateEmail
	}
	if err != nil && err != gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("check email: %w", err)
	}

	user, err := s.createUser(ctx, username, email, in.Password, role)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Uint("user_id", user.ID).Str("role", string(role)).Msg("user registered")
	return user, nil
}

// Login verifies credentials and opens a session.
func (s *authService) Login(ctx context.Context, username, password string) (string, *auth.Principal, error) {
	user, err := s.userRepo.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			s.logger.Error().Err(err).Msg("login lookup failed")
		}
		return "", nil, errors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, errors.ErrInvalidCredentials
	}

	principal := auth.PrincipalFor(user)
	sessionID, token, err := s.jwtService.GenerateSessionToken(principal)
	if err != nil {
		return "", nil, fmt.Errorf("generate session token: %w", err)
	}

	if err := s.sessionStore.CreateSession(ctx, sessionID, principal, s.jwtService.TTL()); err != nil {
		return "", nil, fmt.Errorf("create session: %w", err)
	}

	s.logger.Info().Uint("user_id", user.ID).Msg("user logged in")
	return token, &principal, nil
}

// Authenticate resolves a session token to its principal.
func (s *authService) Authenticate(ctx context.Context, token string) (*auth.Principal, error) {
	claims, err := s.jwtService.ValidateToken(token)
	if err != nil {
		return nil, errors.ErrNotAuthenticated
	}

	principal, err := s.sessionStore.GetSession(ctx, claims.ID)
	if err != nil {
		return nil, errors.ErrNotAuthenticated
	}
	return principal, nil
}

// Logout ends the session behind token. Unknown tokens are ignored.
func (s *authService) Logout(ctx context.Context, token string) error {
	claims, err := s.jwtService.ValidateToken(token)
	if err != nil {
		return nil
	}
	return s.sessionStore.DeleteSession(ctx, claims.ID)
}

// EnsureAdmin creates the bootstrap admin when no user has that username.
func (s *authService) EnsureAdmin(ctx context.Context, username, email, password string) (*model.User, bool, error) {
	existing, err := s.userRepo.FindByUsername(ctx, username)
	if err == nil {
		return existing, false, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, false, fmt.Errorf("check admin: %w", err)
	}

	user, err := s.createUser(ctx, username, email, password, model.RoleAdmin)
	if err != nil {
		return nil, false, err
	}

	s.logger.Info().Str("username", username).Msg("admin user created")
	return user, true, nil
}

func (s *authService) createUser(ctx context.Context, username, email, password string, role model.Role) (*model.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hashedPassword),
		Role:         role,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}
