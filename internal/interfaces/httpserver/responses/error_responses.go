package responses

import (
	"errors"
	"net/http"

	"roottrack-api/internal/infrastructure/logger"
	"roottrack-api/internal/utils/platformerrors"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the JSON body of every failed request. Error carries the
// human readable message so callers can check data.error.
type ErrorResponse struct {
	Code          string `json:"code,omitempty"`
	Error         string `json:"error"`
	Message       string `json:"message,omitempty"`
	ErrorInstance error  `json:"-"`
	RequestID     string `json:"request_id,omitempty"`
}

// HandleError converts a domain error into an HTTP response.
func HandleError(reqCtx *gin.Context, err error, message string) {
	var domainErr *platformerrors.PlatformError
	if errors.As(err, &domainErr) {
		platformerrors.LogError(logger.GetLogger(), domainErr)
		statusCode := platformerrors.ErrorTypeToHTTPStatus(domainErr.GetErrorType())

		errorMessage := domainErr.Message
		if errorMessage == "" {
			errorMessage = message
		}

		reqCtx.AbortWithStatusJSON(statusCode, ErrorResponse{
			Code:          domainErr.GetUUID(),
			Error:         errorMessage,
			Message:       errorMessage,
			ErrorInstance: domainErr,
			RequestID:     domainErr.GetRequestID(),
		})
		return
	}

	log := logger.GetLogger()
	log.Error().Err(err).Msg(message)
	reqCtx.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
		Error:         message,
		Message:       message,
		ErrorInstance: err,
	})
}

// HandleNewError creates a route layer error and writes it.
func HandleNewError(reqCtx *gin.Context, errorType platformerrors.ErrorType, message string, uuid string) {
	err := platformerrors.NewError(reqCtx.Request.Context(), platformerrors.LayerRoute, errorType, message, nil, uuid)

	reqCtx.AbortWithStatusJSON(platformerrors.ErrorTypeToHTTPStatus(err.GetErrorType()), ErrorResponse{
		Code:          err.GetUUID(),
		Error:         message,
		Message:       message,
		ErrorInstance: err,
		RequestID:     err.GetRequestID(),
	})
}
