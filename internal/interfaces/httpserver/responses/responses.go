package responses

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/janhq/leads-api/internal/domain/transferredlead"
	"github.com/janhq/leads-api/internal/utils/platformerrors"
)

// ErrorResponse is the body of every failed request. Code is the HTTP status as a string.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HandleError logs err with its platform details and writes the status its type maps to.
// message is what the client sees; the wrapped cause never leaves the server.
func HandleError(reqCtx *gin.Context, log zerolog.Logger, err error, message string) {
	var platformErr *platformerrors.PlatformError
	if !errors.As(err, &platformErr) {
		platformErr = platformerrors.AsError(reqCtx.Request.Context(), platformerrors.LayerHandler, err, message)
	}

	platformerrors.LogError(log, platformErr)
	abort(reqCtx, platformerrors.ErrorTypeToHTTPStatus(platformErr.GetErrorType()), message)
}

// HandleNewError rejects a request at the route layer without an underlying cause.
func HandleNewError(reqCtx *gin.Context, errorType platformerrors.ErrorType, message string) {
	abort(reqCtx, platformerrors.ErrorTypeToHTTPStatus(errorType), message)
}

func abort(reqCtx *gin.Context, status int, message string) {
	reqCtx.AbortWithStatusJSON(status, ErrorResponse{
		Error: message,
		Code:  strconv.Itoa(status),
	})
}

// NotFound writes the 404 body used for unknown routes.
func NotFound(reqCtx *gin.Context) {
	abort(reqCtx, http.StatusNotFound, "Not found")
}

// HealthResponse is returned by the public liveness route.
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// CountResponse carries a single count.
type CountResponse struct {
	Count int64 `json:"count"`
}

// CRMUpdateResponse acknowledges a CRM id assignment.
type CRMUpdateResponse struct {
	Success bool                  `json:"success"`
	Message string                `json:"message"`
	Data    *transferredlead.Lead `json:"data"`
}
