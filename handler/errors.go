package handler

import (
	"errors"
	"net/http"

	"github.com/ZaneerahEssop/QUANTIX-sub001/contract"
	"github.com/ZaneerahEssop/QUANTIX-sub001/middleware"
	"github.com/ZaneerahEssop/QUANTIX-sub001/service"
	"github.com/gin-gonic/gin"
)

// Validation reasons that mean "not your move" rather than "bad input"
var forbiddenReasons = []error{
	contract.ErrNotEditable,
	contract.ErrNotRevisable,
	contract.ErrInvalidRole,
}

// statusFor maps a service error to its HTTP status
func statusFor(err error) int {
	var verr *contract.ValidationError
	var storeErr *service.StoreError
	switch {
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	case errors.As(err, &verr):
		for _, r := range forbiddenReasons {
			if errors.Is(err, r) {
				return http.StatusForbidden
			}
		}
		return http.StatusBadRequest
	case errors.Is(err, service.ErrNotFound),
		errors.Is(err, contract.ErrNoRecord),
		errors.Is(err, contract.ErrUnknownPair):
		return http.StatusNotFound
	case errors.Is(err, service.ErrExportDisabled):
		return http.StatusNotImplemented
	case errors.As(err, &storeErr):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err with the matching status. Server faults are not
// described to the caller.
func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	_ = c.Error(err)

	body := gin.H{"error": err.Error()}
	var verr *contract.ValidationError
	if errors.As(err, &verr) {
		body["reason"] = verr.Reason
		if verr.Field != "" {
			body["field"] = verr.Field
		}
	}
	switch status {
	case http.StatusServiceUnavailable:
		body["error"] = "Contract store unavailable, please retry"
		body["request_id"] = middleware.GetRequestID(c)
	case http.StatusInternalServerError:
		body["error"] = "Internal server error"
		body["request_id"] = middleware.GetRequestID(c)
	}
	c.JSON(status, body)
}

func badRequest(c *gin.Context, err error) {
	_ = c.Error(err)
	c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
}
