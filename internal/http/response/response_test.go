package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	domainagg "github.com/yungbote/pathways-backend/internal/domain/aggregates"
	"github.com/yungbote/pathways-backend/internal/platform/apierr"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"apierr", apierr.NotFound("stage_not_found", "missing"), http.StatusNotFound, "stage_not_found"},
		{"wrapped apierr", fmt.Errorf("ctx: %w", apierr.Invalid("invalid_limit", "bad")), http.StatusBadRequest, "invalid_limit"},
		{"validation", domainagg.NewError(domainagg.CodeValidation, "op", "bad", nil), http.StatusBadRequest, "invalid_input"},
		{"not found", domainagg.NewError(domainagg.CodeNotFound, "op", "gone", nil), http.StatusNotFound, "not_found"},
		{"conflict", domainagg.NewError(domainagg.CodeConflict, "op", "race", nil), http.StatusConflict, "concurrency_conflict"},
		{"unavailable", domainagg.NewError(domainagg.CodeUnavailable, "op", "db down", nil), http.StatusServiceUnavailable, "storage_unavailable"},
		{"retryable", domainagg.NewError(domainagg.CodeRetryable, "op", "lock", nil), http.StatusServiceUnavailable, "retry_later"},
		{"plain", errors.New("boom"), http.StatusInternalServerError, "internal_error"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, code := Classify(tc.err)
			if status != tc.status || code != tc.code {
				t.Fatalf("got (%d, %q), want (%d, %q)", status, code, tc.status, tc.code)
			}
		})
	}
}

func TestRespondErrHidesInternalDetail(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)

	RespondErr(c, errors.New("pq: password authentication failed"))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status: got %d", rec.Code)
	}
	var env ErrorEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.Error.Message != "internal server error" || env.Error.Code != "internal_error" {
		t.Fatalf("unexpected envelope: %+v", env)
	}
}
