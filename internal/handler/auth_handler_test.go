package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "feedhub/internal/errors"
	"feedhub/internal/model"
)

// MockAuthService is a mock implementation of service.AuthService.
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Signup(ctx context.Context, email, name, password string) (*model.User, error) {
	args := m.Called(ctx, email, name, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (string, *model.User, error) {
	args := m.Called(ctx, email, password)
	if args.Get(1) == nil {
		return "", nil, args.Error(2)
	}
	return args.String(0), args.Get(1).(*model.User), args.Error(2)
}

// MockUserService is a mock implementation of service.UserService.
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) GetUser(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserService) GetStatus(ctx context.Context, id uuid.UUID) (string, error) {
	args := m.Called(ctx, id)
	return args.String(0), args.Error(1)
}

func (m *MockUserService) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

type echoValidator struct {
	validator *validator.Validate
}

func (v *echoValidator) Validate(i interface{}) error {
	return v.validator.Struct(i)
}

func newTestContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = &echoValidator{validator: validator.New()}
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestAuthHandler_Signup(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		user := &model.User{ID: uuid.New(), Email: "a@b.com", Name: "A", Status: model.DefaultStatus}

		authSvc := new(MockAuthService)
		authSvc.On("Signup", mock.Anything, "a@b.com", "A", "12345").Return(user, nil)

		h := NewAuthHandler(authSvc, new(MockUserService))
		c, rec := newTestContext(http.MethodPut, "/auth/signup", `{"email":"a@b.com","name":"A","password":"12345"}`)

		require.NoError(t, h.Signup(c))
		assert.Equal(t, http.StatusCreated, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "user created", body["message"])
		assert.Equal(t, user.ID.String(), body["userId"])
		authSvc.AssertExpectations(t)
	})

	t.Run("validation failure maps to 422 with field data", func(t *testing.T) {
		authSvc := new(MockAuthService)
		authSvc.On("Signup", mock.Anything, "a@b.com", "A", "123").
			Return(nil, apperrors.Validation("validation failed",
				apperrors.FieldError{Field: "password", Message: "password must be at least 5 characters"}))

		h := NewAuthHandler(authSvc, new(MockUserService))
		c, _ := newTestContext(http.MethodPut, "/auth/signup", `{"email":"a@b.com","name":"A","password":"123"}`)

		err := h.Signup(c)
		require.Error(t, err)
		httpErr, ok := err.(*echo.HTTPError)
		require.True(t, ok)
		assert.Equal(t, http.StatusUnprocessableEntity, httpErr.Code)
		res, ok := httpErr.Message.(apperrors.ErrorResponse)
		require.True(t, ok)
		require.Len(t, res.Data, 1)
		assert.Equal(t, "password", res.Data[0].Field)
	})

	t.Run("duplicate email maps to 422", func(t *testing.T) {
		authSvc := new(MockAuthService)
		authSvc.On("Signup", mock.Anything, "a@b.com", "A", "12345").
			Return(nil, apperrors.Conflict("email address already exists"))

		h := NewAuthHandler(authSvc, new(MockUserService))
		c, _ := newTestContext(http.MethodPut, "/auth/signup", `{"email":"a@b.com","name":"A","password":"12345"}`)

		err := h.Signup(c)
		httpErr, ok := err.(*echo.HTTPError)
		require.True(t, ok)
		assert.Equal(t, http.StatusUnprocessableEntity, httpErr.Code)
	})
}

func TestAuthHandler_Login(t *testing.T) {
	t.Run("success returns token and user id", func(t *testing.T) {
		user := &model.User{ID: uuid.New(), Email: "a@b.com"}

		authSvc := new(MockAuthService)
		authSvc.On("Login", mock.Anything, "a@b.com", "12345").Return("signed.jwt.token", user, nil)

		h := NewAuthHandler(authSvc, new(MockUserService))
		c, rec := newTestContext(http.MethodPost, "/auth/login", `{"email":"a@b.com","password":"12345"}`)

		require.NoError(t, h.Login(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "signed.jwt.token", body["token"])
		assert.Equal(t, user.ID.String(), body["userId"])
	})

	t.Run("bad credentials map to 401 with no token", func(t *testing.T) {
		authSvc := new(MockAuthService)
		authSvc.On("Login", mock.Anything, "a@b.com", "wrong").
			Return("", nil, apperrors.Unauthenticated("invalid email or password"))

		h := NewAuthHandler(authSvc, new(MockUserService))
		c, _ := newTestContext(http.MethodPost, "/auth/login", `{"email":"a@b.com","password":"wrong"}`)

		err := h.Login(c)
		httpErr, ok := err.(*echo.HTTPError)
		require.True(t, ok)
		assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
	})
}

func TestAuthHandler_Status(t *testing.T) {
	userID := uuid.New()

	t.Run("get status", func(t *testing.T) {
		userSvc := new(MockUserService)
		userSvc.On("GetStatus", mock.Anything, userID).Return("I am new", nil)

		h := NewAuthHandler(new(MockAuthService), userSvc)
		c, rec := newTestContext(http.MethodGet, "/auth/status", "")
		c.Set("userID", userID)

		require.NoError(t, h.GetStatus(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "I am new", decodeBody(t, rec)["status"])
	})

	t.Run("update status", func(t *testing.T) {
		userSvc := new(MockUserService)
		userSvc.On("UpdateStatus", mock.Anything, userID, "busy").Return(nil)

		h := NewAuthHandler(new(MockAuthService), userSvc)
		c, rec := newTestContext(http.MethodPatch, "/auth/status", `{"status":"busy"}`)
		c.Set("userID", userID)

		require.NoError(t, h.UpdateStatus(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "user status updated", decodeBody(t, rec)["message"])
		userSvc.AssertExpectations(t)
	})

	t.Run("unknown user maps to 404", func(t *testing.T) {
		userSvc := new(MockUserService)
		userSvc.On("GetStatus", mock.Anything, userID).Return("", apperrors.NotFound("user not found"))

		h := NewAuthHandler(new(MockAuthService), userSvc)
		c, _ := newTestContext(http.MethodGet, "/auth/status", "")
		c.Set("userID", userID)

		err := h.GetStatus(c)
		httpErr, ok := err.(*echo.HTTPError)
		require.True(t, ok)
		assert.Equal(t, http.StatusNotFound, httpErr.Code)
	})

	t.Run("missing identity maps to 401", func(t *testing.T) {
		h := NewAuthHandler(new(MockAuthService), new(MockUserService))
		c, _ := newTestContext(http.MethodGet, "/auth/status", "")

		err := h.GetStatus(c)
		httpErr, ok := err.(*echo.HTTPError)
		require.True(t, ok)
		assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
	})
}
