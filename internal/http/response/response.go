package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainagg "github.com/yungbote/pathways-backend/internal/domain/aggregates"
	"github.com/yungbote/pathways-backend/internal/platform/apierr"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

// RespondErr picks status and code from err. Internal failures are not echoed
// to the client.
func RespondErr(c *gin.Context, err error) {
	status, code := Classify(err)
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
		msg := "internal server error"
		if status == http.StatusServiceUnavailable {
			msg = "service temporarily unavailable"
		}
		RespondError(c, status, code, errors.New(msg))
		return
	}
	RespondError(c, status, code, err)
}

// Classify maps service and aggregate errors to an HTTP status and public code.
func Classify(err error) (int, string) {
	var ae *apierr.Error
	if errors.As(err, &ae) {
		status := ae.Status
		if status == 0 {
			status = http.StatusInternalServerError
		}
		code := ae.Code
		if code == "" {
			code = http.StatusText(status)
		}
		return status, code
	}
	switch domainagg.CodeOf(err) {
	case domainagg.CodeValidation:
		return http.StatusBadRequest, "invalid_input"
	case domainagg.CodeNotFound:
		return http.StatusNotFound, "not_found"
	case domainagg.CodeConflict:
		return http.StatusConflict, "concurrency_conflict"
	case domainagg.CodePreconditionFailed:
		return http.StatusPreconditionFailed, "precondition_failed"
	case domainagg.CodeRetryable:
		return http.StatusServiceUnavailable, "retry_later"
	case domainagg.CodeUnavailable:
		return http.StatusServiceUnavailable, "storage_unavailable"
	}
	return http.StatusInternalServerError, "internal_error"
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}
