package service

import (
	"bytes"
	"context"
	"testing"
	"time"

	"hospital-management-backend/internal/models"
	"hospital-management-backend/internal/repository"
	"hospital-management-backend/pkg/logger"
	"hospital-management-backend/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testHasher = utils.PasswordHasher{Cost: 4}

func newTestAuthService(users *MockUserStore) *AuthService {
	tokens := utils.NewTokenManager("test-secret", 15*time.Minute, 24*time.Hour)
	return NewAuthService(users, acceptingAudit(), tokens, testHasher, logger.Discard())
}

func storedUser(t *testing.T, password string, active bool) *models.User {
	t.Helper()
	hash, err := testHasher.Hash(password)
	require.NoError(t, err)
	return &models.User{
		ID:           "user-1",
		Username:     "frontdesk",
		PasswordHash: hash,
		Role:         models.RoleReceptionist,
		IsActive:     active,
	}
}

func TestLoginIssuesTokens(t *testing.T) {
	users := &MockUserStore{}
	users.On("FindUserByUsername", mock.Anything, "frontdesk").Return(storedUser(t, "s3cret", true), nil)
	users.On("CreateRefreshToken", mock.Anything, mock.AnythingOfType("*models.RefreshToken")).Return(nil)
	svc := newTestAuthService(users)

	resp, err := svc.Login(context.Background(), "frontdesk", "s3cret")
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, models.RoleReceptionist, resp.User.Role)

	actor, err := svc.ValidateAccessToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, Actor{UserID: "user-1", Role: models.RoleReceptionist}, actor)
	users.AssertExpectations(t)
}

func TestLoginFailures(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*MockUserStore)
	}{
		{"unknown user", func(u *MockUserStore) {
			u.On("FindUserByUsername", mock.Anything, "frontdesk").Return(nil, repository.ErrRecordNotFound)
		}},
		{"wrong password", func(u *MockUserStore) {
			u.On("FindUserByUsername", mock.Anything, "frontdesk").Return(storedUser(t, "other", true), nil)
		}},
		{"disabled account", func(u *MockUserStore) {
			u.On("FindUserByUsername", mock.Anything, "frontdesk").Return(storedUser(t, "s3cret", false), nil)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := &MockUserStore{}
			tt.setup(users)
			_, err := newTestAuthService(users).Login(context.Background(), "frontdesk", "s3cret")
			assert.ErrorIs(t, err, ErrUnauthorized)
			users.AssertNotCalled(t, "CreateRefreshToken", mock.Anything, mock.Anything)
		})
	}
}

func TestRegisterDefaultsToReceptionist(t *testing.T) {
	users := &MockUserStore{}
	users.On("FindUserByUsername", mock.Anything, "newhire").Return(nil, repository.ErrRecordNotFound)
	users.On("CreateUser", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
		return u.Role == models.RoleReceptionist && u.IsActive && u.PasswordHash != "pa55word"
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*models.User).ID = "user-9"
	}).Return(nil)
	users.On("CreateRefreshToken", mock.Anything, mock.Anything).Return(nil)

	resp, err := newTestAuthService(users).Register(context.Background(), RegisterInput{
		Username: " newhire ",
		Password: "pa55word",
	})
	require.NoError(t, err)
	assert.Equal(t, "user-9", resp.User.ID)
	users.AssertExpectations(t)
}

func TestRegisterCannotAssignOtherRoles(t *testing.T) {
	for _, role := range []string{models.RoleAdmin, models.RoleDoctor, models.RolePharmacist, models.RoleLabTechnician} {
		t.Run(role, func(t *testing.T) {
			users := &MockUserStore{}
			_, err := newTestAuthService(users).Register(context.Background(), RegisterInput{
				Username: "mallory",
				Password: "123456",
				Role:     role,
			})
			assert.ErrorIs(t, err, ErrForbidden)
			users.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
		})
	}
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	users := &MockUserStore{}
	users.On("FindUserByUsername", mock.Anything, "taken").Return(&models.User{ID: "x"}, nil)

	_, err := newTestAuthService(users).Register(context.Background(), RegisterInput{Username: "taken", Password: "123456"})
	assert.ErrorIs(t, err, ErrConflict)
	users.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
}

func TestCreateUserAssignsRole(t *testing.T) {
	users := &MockUserStore{}
	users.On("FindUserByUsername", mock.Anything, "drkavya").Return(nil, repository.ErrRecordNotFound)
	users.On("CreateUser", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
		return u.Role == models.RoleDoctor && u.IsActive
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*models.User).ID = "user-7"
	}).Return(nil)

	audit := &MockAuditStore{}
	audit.On("RecordAudit", mock.Anything, mock.MatchedBy(func(e *models.AuditLog) bool {
		return e.Action == "user_create" && e.EntityID == "user-7" && e.ActorID != nil && *e.ActorID == admin.UserID
	})).Return(nil)

	tokens := utils.NewTokenManager("test-secret", 15*time.Minute, 24*time.Hour)
	svc := NewAuthService(users, audit, tokens, testHasher, logger.Discard())

	created, err := svc.CreateUser(context.Background(), admin, RegisterInput{
		Username: "drkavya",
		Password: "123456",
		Role:     models.RoleDoctor,
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleDoctor, created.Role)
	users.AssertNotCalled(t, "CreateRefreshToken", mock.Anything, mock.Anything)
	users.AssertExpectations(t)
	audit.AssertExpectations(t)
}

func TestCreateUserRequiresAdmin(t *testing.T) {
	users := &MockUserStore{}
	svc := newTestAuthService(users)

	_, err := svc.CreateUser(context.Background(), receptionist, RegisterInput{Username: "boss", Password: "123456", Role: models.RoleAdmin})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.CreateUser(context.Background(), admin, RegisterInput{Username: "abc", Password: "123456", Role: "Janitor"})
	assert.ErrorIs(t, err, ErrValidation)
	users.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
}

func TestLoginLogsAuditFailure(t *testing.T) {
	users := &MockUserStore{}
	users.On("FindUserByUsername", mock.Anything, "frontdesk").Return(storedUser(t, "s3cret", true), nil)
	users.On("CreateRefreshToken", mock.Anything, mock.Anything).Return(nil)
	audit := &MockAuditStore{}
	audit.On("RecordAudit", mock.Anything, mock.Anything).Return(assert.AnError)

	var buf bytes.Buffer
	tokens := utils.NewTokenManager("test-secret", 15*time.Minute, 24*time.Hour)
	svc := NewAuthService(users, audit, tokens, testHasher, logger.NewWithOutput("info", &buf))

	_, err := svc.Login(context.Background(), "frontdesk", "s3cret")
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Failed to write audit log")
	assert.Contains(t, buf.String(), "user_login")
}

func TestRefreshAccessToken(t *testing.T) {
	users := &MockUserStore{}
	svc := newTestAuthService(users)
	now := time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	live := &models.RefreshToken{
		ExpiresAt: now.Add(time.Hour),
		User:      models.User{ID: "user-1", Role: models.RoleDoctor},
	}
	expired := &models.RefreshToken{ExpiresAt: now.Add(-time.Minute)}
	users.On("FindRefreshTokenByHash", mock.Anything, utils.HashRefreshToken("live")).Return(live, nil)
	users.On("FindRefreshTokenByHash", mock.Anything, utils.HashRefreshToken("expired")).Return(expired, nil)
	users.On("FindRefreshTokenByHash", mock.Anything, utils.HashRefreshToken("revoked")).Return(nil, repository.ErrRecordNotFound)

	token, err := svc.RefreshAccessToken(context.Background(), "live")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	_, err = svc.RefreshAccessToken(context.Background(), "expired")
	assert.ErrorIs(t, err, ErrUnauthorized)
	_, err = svc.RefreshAccessToken(context.Background(), "revoked")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestProfileNotFound(t *testing.T) {
	users := &MockUserStore{}
	users.On("FindUserByID", mock.Anything, "gone").Return(nil, repository.ErrRecordNotFound)

	_, err := newTestAuthService(users).Profile(context.Background(), "gone")
	assert.ErrorIs(t, err, ErrNotFound)
}
