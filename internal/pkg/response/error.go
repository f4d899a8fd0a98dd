package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/premuk420/Myslivec/internal/pkg/apperror"
)

// ErrorResponse defines the JSON structure for error responses.
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

// loggerKey is where the request logging middleware stores its *zap.Logger.
const loggerKey = "logger"

// SetLogger attaches a logger to the request context for Error to use.
func SetLogger(c *gin.Context, l *zap.Logger) {
	c.Set(loggerKey, l)
}

func loggerFrom(c *gin.Context) *zap.Logger {
	if v, ok := c.Get(loggerKey); ok {
		if l, ok := v.(*zap.Logger); ok {
			return l
		}
	}
	return zap.NewNop()
}

// Error sends a JSON error response.
// It checks if the error is an AppError to determine the status code.
// Any other error is treated as a store failure; its message is still shown.
func Error(c *gin.Context, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		if appErr.Kind == apperror.KindStore {
			loggerFrom(c).Error("request failed", zap.Error(err))
		}
		c.AbortWithStatusJSON(appErr.Code, ErrorResponse{Error: appErr.Message, Kind: string(appErr.Kind)})
		return
	}

	loggerFrom(c).Error("unexpected error", zap.Error(err))
	c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
		Error: err.Error(),
		Kind:  string(apperror.KindStore),
	})
}

// BadRequest sends a validation error for a binding failure.
func BadRequest(c *gin.Context, message string, err error) {
	msg := message
	if err != nil {
		msg = message + ": " + err.Error()
	}
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Error: msg, Kind: string(apperror.KindValidation)})
}
