package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"hospital-management-backend/internal/models"
	"hospital-management-backend/internal/repository"
	"hospital-management-backend/pkg/logger"
	"hospital-management-backend/pkg/utils"

	"github.com/sirupsen/logrus"
)

type AuthService struct {
	users  UserStore
	audit  AuditStore
	tokens *utils.TokenManager
	hasher utils.PasswordHasher
	now    func() time.Time
	log    *logrus.Entry
}

func NewAuthService(users UserStore, audit AuditStore, tokens *utils.TokenManager, hasher utils.PasswordHasher, log *logger.Logger) *AuthService {
	return &AuthService{
		users:  users,
		audit:  audit,
		tokens: tokens,
		hasher: hasher,
		now:    time.Now,
		log:    log.WithComponent("auth_service"),
	}
}

// RegisterInput is a staff account registration
type RegisterInput struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,min=6"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Role     string `json:"role" validate:"omitempty,staffrole"`
}

// LoginResponse represents the response structure for login
type LoginResponse struct {
	AccessToken  string       `json:"token"`
	RefreshToken string       `json:"-"`
	User         UserResponse `json:"user"`
}

type UserResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	FullName string `json:"fullName,omitempty"`
	Email    string `json:"email,omitempty"`
	Role     string `json:"role"`
}

func userResponse(user *models.User) UserResponse {
	return UserResponse{
		ID:       user.ID,
		Username: user.Username,
		FullName: user.FullName,
		Email:    user.Email,
		Role:     user.Role,
	}
}

// Login authenticates a user and returns tokens
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResponse, error) {
	user, err := s.users.FindUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
		}
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}

	if !s.hasher.Matches(user.PasswordHash, password) {
		return nil, fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
	}
	if !user.IsActive {
		return nil, fmt.Errorf("%w: account is disabled", ErrUnauthorized)
	}

	response, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	recordAudit(ctx, s.audit, s.log, newAuditEntry(user.ID, "user_login", models.EntityUser, user.ID,
		fmt.Sprintf("User %s logged in", username)))

	return response, nil
}

// Register is anonymous self-registration. It only creates Receptionist
// accounts; other roles are assigned through CreateUser.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*LoginResponse, error) {
	if input.Role != "" && input.Role != models.RoleReceptionist {
		return nil, fmt.Errorf("%w: only an Admin can assign role %q", ErrForbidden, input.Role)
	}
	input.Role = models.RoleReceptionist

	user, err := s.createAccount(ctx, input)
	if err != nil {
		return nil, err
	}

	response, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	recordAudit(ctx, s.audit, s.log, newAuditEntry(user.ID, "user_registration", models.EntityUser, user.ID,
		fmt.Sprintf("User %s registered as %s", user.Username, user.Role)))

	return response, nil
}

// CreateUser lets an Admin create an account with any role. No session is
// issued for the new account.
func (s *AuthService) CreateUser(ctx context.Context, actor Actor, input RegisterInput) (*UserResponse, error) {
	if err := RequireRole(actor, UserCreatorRoles...); err != nil {
		return nil, err
	}
	if input.Role == "" {
		input.Role = models.RoleReceptionist
	}

	user, err := s.createAccount(ctx, input)
	if err != nil {
		return nil, err
	}

	recordAudit(ctx, s.audit, s.log, newAuditEntry(actor.UserID, "user_create", models.EntityUser, user.ID,
		fmt.Sprintf("Created user %s as %s", user.Username, user.Role)))

	response := userResponse(user)
	return &response, nil
}

func (s *AuthService) createAccount(ctx context.Context, input RegisterInput) (*models.User, error) {
	input.Username = strings.TrimSpace(input.Username)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	if err := validateStruct(input); err != nil {
		return nil, err
	}

	existing, err := s.users.FindUserByUsername(ctx, input.Username)
	if err == nil && existing != nil {
		return nil, fmt.Errorf("%w: username already exists", ErrConflict)
	}
	if err != nil && !errors.Is(err, repository.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}

	passwordHash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     input.Username,
		PasswordHash: passwordHash,
		FullName:     strings.TrimSpace(input.FullName),
		Email:        input.Email,
		Phone:        strings.TrimSpace(input.Phone),
		Role:         input.Role,
		IsActive:     true,
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: username already exists", ErrConflict)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// RefreshAccessToken generates a new access token from a refresh token
func (s *AuthService) RefreshAccessToken(ctx context.Context, refreshToken string) (string, error) {
	token, err := s.users.FindRefreshTokenByHash(ctx, utils.HashRefreshToken(refreshToken))
	if err != nil {
		return "", fmt.Errorf("%w: invalid or revoked refresh token", ErrUnauthorized)
	}

	if s.now().After(token.ExpiresAt) {
		return "", fmt.Errorf("%w: refresh token expired", ErrUnauthorized)
	}

	accessToken, err := s.tokens.GenerateAccessToken(token.User.ID, token.User.Role)
	if err != nil {
		return "", fmt.Errorf("failed to generate access token: %w", err)
	}
	return accessToken, nil
}

// Logout revokes a refresh token
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if err := s.users.RevokeRefreshTokenByHash(ctx, utils.HashRefreshToken(refreshToken)); err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	return nil
}

// Profile returns the account behind an authenticated request
func (s *AuthService) Profile(ctx context.Context, userID string) (*UserResponse, error) {
	user, err := s.users.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return nil, notFoundError("user")
		}
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}
	response := userResponse(user)
	return &response, nil
}

// CountActiveUsers counts enabled staff accounts
func (s *AuthService) CountActiveUsers(ctx context.Context) (int64, error) {
	count, err := s.users.CountActiveUsers(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count active users: %w", err)
	}
	return count, nil
}

// ValidateAccessToken resolves a bearer token into the calling actor
func (s *AuthService) ValidateAccessToken(token string) (Actor, error) {
	claims, err := s.tokens.ValidateAccessToken(token)
	if err != nil {
		return Actor{}, fmt.Errorf("%w: invalid or expired token", ErrUnauthorized)
	}
	return Actor{UserID: claims.UserID, Role: claims.Role}, nil
}

// RefreshTokenExpiry is the lifetime handlers give the refresh cookie
func (s *AuthService) RefreshTokenExpiry() time.Duration {
	return s.tokens.RefreshTokenExpiry()
}

func (s *AuthService) issueTokens(ctx context.Context, user *models.User) (*LoginResponse, error) {
	accessToken, err := s.tokens.GenerateAccessToken(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken := s.tokens.GenerateRefreshToken()
	refreshTokenModel := &models.RefreshToken{
		UserID:    user.ID,
		TokenHash: utils.HashRefreshToken(refreshToken),
		ExpiresAt: s.now().Add(s.tokens.RefreshTokenExpiry()),
	}
	if err := s.users.CreateRefreshToken(ctx, refreshTokenModel); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return &LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         userResponse(user),
	}, nil
}
