package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/paylink-backend/internal/platform/apperr"
)

func TestRespondAppErrorMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		err    error
		status int
		code   string
	}{
		{fmt.Errorf("%w: bad amount", apperr.ErrInvalidRequest), http.StatusBadRequest, "invalid_request"},
		{fmt.Errorf("%w: no such request", apperr.ErrNotFound), http.StatusNotFound, "not_found"},
		{fmt.Errorf("%w: commit contention", apperr.ErrConflict), http.StatusConflict, "conflict"},
		{fmt.Errorf("%w: archived", apperr.ErrTerminalState), http.StatusGone, "terminal_state"},
		{fmt.Errorf("%w: link build failed", apperr.ErrRailUnavailable), http.StatusBadGateway, "rail_unavailable"},
		{fmt.Errorf("%w: db down", apperr.ErrStorageUnavailable), http.StatusServiceUnavailable, "storage_unavailable"},
		{fmt.Errorf("something else"), http.StatusInternalServerError, "internal_error"},
	}

	for _, tc := range cases {
		t.Run(tc.code, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(rec)

			RespondAppError(c, tc.err)

			if rec.Code != tc.status {
				t.Fatalf("status: got %d want %d", rec.Code, tc.status)
			}
			var envelope ErrorEnvelope
			if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if envelope.Error.Code != tc.code {
				t.Fatalf("code: got %q want %q", envelope.Error.Code, tc.code)
			}
			if envelope.Error.Message == "" {
				t.Fatalf("message must not be empty")
			}
		})
	}
}
