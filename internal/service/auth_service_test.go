package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"feedhub/internal/auth"
	apperrors "feedhub/internal/errors"
	"feedhub/internal/model"
)

func newTestAuthService(users *MockUserRepository, verbose bool) AuthService {
	return NewAuthService(users, auth.NewPasswordHasher(), auth.NewJWTService("test-secret"), verbose)
}

func TestAuthService_Signup(t *testing.T) {
	tests := []struct {
		name          string
		email         string
		userName      string
		password      string
		setupMock     func(*MockUserRepository)
		expectedKind  apperrors.Kind
		expectedField string
	}{
		{
			name:     "successful signup",
			email:    "Test@Example.com",
			userName: "Test User",
			password: "password123",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "test@example.com").Return(nil, gorm.ErrRecordNotFound)
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
			},
		},
		{
			name:          "password below minimum length",
			email:         "short@example.com",
			userName:      "Shorty",
			password:      "1234",
			setupMock:     func(m *MockUserRepository) {},
			expectedKind:  apperrors.KindValidation,
			expectedField: "password",
		},
		{
			name:          "invalid email",
			email:         "not-an-email",
			userName:      "Someone",
			password:      "password123",
			setupMock:     func(m *MockUserRepository) {},
			expectedKind:  apperrors.KindValidation,
			expectedField: "email",
		},
		{
			name:          "empty name",
			email:         "blank@example.com",
			userName:      "   ",
			password:      "password123",
			setupMock:     func(m *MockUserRepository) {},
			expectedKind:  apperrors.KindValidation,
			expectedField: "name",
		},
		{
			name:     "email already registered",
			email:    "existing@example.com",
			userName: "Existing User",
			password: "password123",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "existing@example.com").
					Return(&model.User{Email: "existing@example.com"}, nil)
			},
			expectedKind: apperrors.KindConflict,
		},
		{
			name:     "unique index wins a signup race",
			email:    "racer@example.com",
			userName: "Racer",
			password: "password123",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "racer@example.com").Return(nil, gorm.ErrRecordNotFound)
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(gorm.ErrDuplicatedKey)
			},
			expectedKind: apperrors.KindConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.setupMock(mockRepo)

			svc := newTestAuthService(mockRepo, false)
			user, err := svc.Signup(context.Background(), tt.email, tt.userName, tt.password)

			if tt.expectedKind != 0 {
				require.Error(t, err)
				var appErr *apperrors.Error
				require.ErrorAs(t, err, &appErr)
				assert.Equal(t, tt.expectedKind, appErr.Kind)
				if tt.expectedField != "" {
					require.NotEmpty(t, appErr.Data)
					fields := make([]string, 0, len(appErr.Data))
					for _, fe := range appErr.Data {
						fields = append(fields, fe.Field)
					}
					assert.Contains(t, fields, tt.expectedField)
				}
				assert.Nil(t, user)
			} else {
				require.NoError(t, err)
				require.NotNil(t, user)
				assert.Equal(t, "test@example.com", user.Email)
				assert.Equal(t, "Test User", user.Name)
				assert.NotEmpty(t, user.PasswordHash)
				assert.NotEqual(t, tt.password, user.PasswordHash)
				// stored digest verifies against the original plaintext
				assert.True(t, auth.NewPasswordHasher().Verify(tt.password, user.PasswordHash))
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	hasher := auth.NewPasswordHasher()
	digest, err := hasher.Hash("password123")
	require.NoError(t, err)

	account := &model.User{ID: uuid.New(), Email: "test@example.com", PasswordHash: digest}

	tests := []struct {
		name        string
		email       string
		password    string
		setupMock   func(*MockUserRepository)
		expectError bool
	}{
		{
			name:     "successful login",
			email:    "test@example.com",
			password: "password123",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "test@example.com").Return(account, nil)
			},
		},
		{
			name:     "unknown email",
			email:    "notfound@example.com",
			password: "password123",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "notfound@example.com").Return(nil, gorm.ErrRecordNotFound)
			},
			expectError: true,
		},
		{
			name:     "wrong password",
			email:    "test@example.com",
			password: "wrong",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "test@example.com").Return(account, nil)
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.setupMock(mockRepo)

			svc := newTestAuthService(mockRepo, false)
			token, user, err := svc.Login(context.Background(), tt.email, tt.password)

			if tt.expectError {
				require.Error(t, err)
				var appErr *apperrors.Error
				require.ErrorAs(t, err, &appErr)
				assert.Equal(t, apperrors.KindUnauthenticated, appErr.Kind)
				// merged message never reveals which check failed
				assert.Equal(t, "invalid email or password", appErr.Message)
				assert.Empty(t, token)
				assert.Nil(t, user)
			} else {
				require.NoError(t, err)
				require.NotNil(t, user)
				assert.NotEmpty(t, token)

				// claims round-trip to the same account id
				claims, err := auth.NewJWTService("test-secret").ValidateToken(token)
				require.NoError(t, err)
				assert.Equal(t, account.ID.String(), claims.UserID)
				assert.Equal(t, account.Email, claims.Email)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestAuthService_Login_VerboseMessages(t *testing.T) {
	hasher := auth.NewPasswordHasher()
	digest, err := hasher.Hash("password123")
	require.NoError(t, err)
	account := &model.User{Email: "test@example.com", PasswordHash: digest}

	mockRepo := new(MockUserRepository)
	mockRepo.On("FindByEmail", mock.Anything, "missing@example.com").Return(nil, gorm.ErrRecordNotFound)
	mockRepo.On("FindByEmail", mock.Anything, "test@example.com").Return(account, nil)

	svc := newTestAuthService(mockRepo, true)

	_, _, err = svc.Login(context.Background(), "missing@example.com", "password123")
	require.Error(t, err)
	assert.Equal(t, "no user found with this email", err.Error())

	_, _, err = svc.Login(context.Background(), "test@example.com", "wrong")
	require.Error(t, err)
	assert.Equal(t, "wrong password", err.Error())
}
