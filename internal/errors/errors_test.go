package errors

import (
	stderrors "errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"validation", Validation("validation failed"), http.StatusUnprocessableEntity},
		{"unauthenticated", Unauthenticated("not authenticated"), http.StatusUnauthorized},
		{"forbidden", Forbidden("not authorized"), http.StatusForbidden},
		{"not found", NotFound("user not found"), http.StatusNotFound},
		{"conflict", Conflict("email address already exists"), http.StatusUnprocessableEntity},
		{"internal", Internal(stderrors.New("db down")), http.StatusInternalServerError},
		{"plain error", stderrors.New("anything"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, StatusCode(tt.err))
		})
	}
}

func TestResponse_MasksInternalDetail(t *testing.T) {
	res := Response(Internal(stderrors.New("dial tcp: connection refused")))
	assert.Equal(t, "internal server error", res.Message)
	assert.Empty(t, res.Data)

	res = Response(stderrors.New("raw storage failure"))
	assert.Equal(t, "internal server error", res.Message)
}

func TestResponse_ValidationCarriesFieldData(t *testing.T) {
	err := Validation("validation failed",
		FieldError{Field: "password", Message: "password must be at least 5 characters"})

	res := Response(err)
	assert.Equal(t, "validation failed", res.Message)
	assert.Len(t, res.Data, 1)
	assert.Equal(t, "password", res.Data[0].Field)
}

func TestClassify(t *testing.T) {
	appErr := NotFound("post not found")
	assert.Equal(t, appErr, Classify(appErr))

	wrapped := Classify(stderrors.New("boom"))
	assert.Equal(t, KindInternal, wrapped.Kind)
	assert.EqualError(t, stderrors.Unwrap(wrapped), "boom")
}

func TestCode(t *testing.T) {
	assert.Equal(t, "VALIDATION_FAILED", Code(Validation("x")))
	assert.Equal(t, "UNAUTHENTICATED", Code(Unauthenticated("x")))
	assert.Equal(t, "FORBIDDEN", Code(Forbidden("x")))
	assert.Equal(t, "NOT_FOUND", Code(NotFound("x")))
	assert.Equal(t, "CONFLICT", Code(Conflict("x")))
	assert.Equal(t, "INTERNAL_ERROR", Code(stderrors.New("x")))
}
