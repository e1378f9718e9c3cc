package graphql

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/graphql-go/graphql"
	"github.com/labstack/echo/v4"

	"feedhub/internal/auth"
)

// Handler serves GraphQL requests over POST /graphql. Authentication is
// optional at the transport: a valid bearer token puts the caller id on the
// resolver context, and resolvers that need identity enforce it themselves.
type Handler struct {
	schema     graphql.Schema
	jwtService *auth.JWTService
}

// NewHandler creates a GraphQL HTTP handler.
func NewHandler(schema graphql.Schema, jwtService *auth.JWTService) *Handler {
	return &Handler{schema: schema, jwtService: jwtService}
}

type request struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

// Serve executes one GraphQL request.
func (h *Handler) Serve(c echo.Context) error {
	var req request
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	ctx := c.Request().Context()
	if header := c.Request().Header.Get(echo.HeaderAuthorization); strings.HasPrefix(header, "Bearer ") {
		token := strings.TrimPrefix(header, "Bearer ")
		if claims, err := h.jwtService.ValidateToken(token); err == nil {
			if userID, err := uuid.Parse(claims.UserID); err == nil {
				ctx = WithUserID(ctx, userID)
			}
		}
	}

	result := graphql.Do(graphql.Params{
		Schema:         h.schema,
		RequestString:  req.Query,
		OperationName:  req.OperationName,
		VariableValues: req.Variables,
		Context:        ctx,
	})

	return c.JSON(http.StatusOK, result)
}
