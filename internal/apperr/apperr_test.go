package apperr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"playnote/backend/internal/apperr"

	"github.com/stretchr/testify/assert"
)

func TestError_Error(t *testing.T) {
	err := apperr.NotFound("Game with Id %d does not exist.", 999)

	assert.Equal(t, "application error: code=not_found message=Game with Id 999 does not exist.", err.Error())
}

func TestErrorCodeAndMessage(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantCode    string
		wantMessage string
		wantStatus  int
	}{
		{
			name:        "nil",
			err:         nil,
			wantCode:    "",
			wantMessage: "",
			wantStatus:  http.StatusOK,
		},
		{
			name:        "not found",
			err:         apperr.NotFound("Rating with Id %d does not exist.", 5),
			wantCode:    apperr.ENOTFOUND,
			wantMessage: "Rating with Id 5 does not exist.",
			wantStatus:  http.StatusNotFound,
		},
		{
			name:        "validation",
			err:         apperr.Validation(map[string][]string{"Points": {"bad"}}),
			wantCode:    apperr.EINVALID,
			wantMessage: "One or more validation errors occurred.",
			wantStatus:  http.StatusBadRequest,
		},
		{
			name:        "unauthorized",
			err:         apperr.Unauthorized("token expired"),
			wantCode:    apperr.EUNAUTHORIZED,
			wantMessage: "token expired",
			wantStatus:  http.StatusUnauthorized,
		},
		{
			name:        "forbidden",
			err:         apperr.Forbidden("Admin access required"),
			wantCode:    apperr.EFORBIDDEN,
			wantMessage: "Admin access required",
			wantStatus:  http.StatusForbidden,
		},
		{
			name:        "wrapped application error",
			err:         fmt.Errorf("load: %w", apperr.Invalid("bad page")),
			wantCode:    apperr.EINVALID,
			wantMessage: "bad page",
			wantStatus:  http.StatusBadRequest,
		},
		{
			name:        "plain error hides its text",
			err:         errors.New("connection refused"),
			wantCode:    apperr.EINTERNAL,
			wantMessage: "Internal error.",
			wantStatus:  http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantCode, apperr.ErrorCode(tt.err))
			assert.Equal(t, tt.wantMessage, apperr.ErrorMessage(tt.err))
			assert.Equal(t, tt.wantStatus, apperr.HTTPStatus(tt.err))
		})
	}
}
