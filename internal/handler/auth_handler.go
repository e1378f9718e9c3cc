package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"feedhub/internal/auth"
	apperrors "feedhub/internal/errors"
	"feedhub/internal/service"
)

// AuthHandler handles signup, login and status endpoints.
type AuthHandler struct {
	authService service.AuthService
	userService service.UserService
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService, userService service.UserService) *AuthHandler {
	return &AuthHandler{authService: authService, userService: userService}
}

// SignupRequest represents a user signup request.
type SignupRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

// LoginRequest represents a user login request.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UpdateStatusRequest represents a status update request.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// Signup godoc
// @Summary Register a new user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body SignupRequest true "Signup data"
// @Success 201 {object} map[string]interface{}
// @Failure 422 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/signup [put]
func (h *AuthHandler) Signup(c echo.Context) error {
	var req SignupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	user, err := h.authService.Signup(c.Request().Context(), req.Email, req.Name, req.Password)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message": "user created",
		"userId":  user.ID,
	})
}

// Login godoc
// @Summary Login and receive a session token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	token, user, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "login success",
		"token":   token,
		"userId":  user.ID,
	})
}

// GetStatus godoc
// @Summary Get the caller's status
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]string
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /auth/status [get]
func (h *AuthHandler) GetStatus(c echo.Context) error {
	userID, ok := auth.UserID(c)
	if !ok {
		return httpError(apperrors.Unauthenticated("not authenticated"))
	}

	status, err := h.userService.GetStatus(c.Request().Context(), userID)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, map[string]string{"status": status})
}

// UpdateStatus godoc
// @Summary Update the caller's status
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateStatusRequest true "New status"
// @Success 200 {object} map[string]string
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 422 {object} errors.ErrorResponse
// @Router /auth/status [patch]
func (h *AuthHandler) UpdateStatus(c echo.Context) error {
	userID, ok := auth.UserID(c)
	if !ok {
		return httpError(apperrors.Unauthenticated("not authenticated"))
	}

	var req UpdateStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := h.userService.UpdateStatus(c.Request().Context(), userID, req.Status); err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "user status updated"})
}

// httpError converts an application error into the boundary response,
// mapping the error kind to a status code and a {message, data} body.
func httpError(err error) *echo.HTTPError {
	return echo.NewHTTPError(apperrors.StatusCode(err), apperrors.Response(err))
}
