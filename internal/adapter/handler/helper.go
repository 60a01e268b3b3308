package handler

import (
	stdErrors "errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-intel/errors"
	"github.com/johnquangdev/meeting-intel/internal/adapter/dto/common"
	"github.com/johnquangdev/meeting-intel/internal/infrastructure/http/middleware"
	"github.com/johnquangdev/meeting-intel/internal/usecase/meeting"
	pkgmw "github.com/johnquangdev/meeting-intel/pkg/middleware"
)

// getRequestID reads the id set by the request id middleware
func getRequestID(c echo.Context) string {
	if c == nil || c.Request() == nil {
		return ""
	}
	return c.Request().Header.Get(pkgmw.HeaderRequestID)
}

// HandleSuccess writes data as the JSON body with the given status
func HandleSuccess(logger *zap.Logger, c echo.Context, status int, data interface{}) error {
	if logger != nil {
		logger.Info("http.response.success",
			zap.String("request_id", getRequestID(c)),
			zap.String("path", c.Path()),
			zap.Int("status", status),
		)
	}
	return c.JSON(status, data)
}

// HandleError centralizes error handling and logging. The raw cause is logged, never returned.
func HandleError(logger *zap.Logger, c echo.Context, err error) error {
	reqID := getRequestID(c)

	var appErr errors.AppError
	if stdErrors.As(err, &appErr) {
		if logger != nil {
			log := logger.Error
			if appErr.HTTPCode < http.StatusInternalServerError {
				log = logger.Warn
			}
			log("http.response.error",
				zap.String("request_id", reqID),
				zap.String("path", c.Path()),
				zap.String("app_code", appErr.Code.String()),
				zap.Error(err),
			)
		}

		return c.JSON(appErr.HTTPCode, common.ErrorResponse{
			Error:   appErr.Message,
			Code:    appErr.Code.String(),
			Details: appErr.Details,
		})
	}

	var httpErr *echo.HTTPError
	if stdErrors.As(err, &httpErr) {
		if logger != nil {
			logger.Warn("http.response.error",
				zap.String("request_id", reqID),
				zap.String("path", c.Path()),
				zap.Int("status", httpErr.Code),
				zap.Error(err),
			)
		}
		return c.JSON(httpErr.Code, common.ErrorResponse{
			Error: fmt.Sprint(httpErr.Message),
		})
	}

	if logger != nil {
		logger.Error("http.response.error",
			zap.String("request_id", reqID),
			zap.String("path", c.Path()),
			zap.Error(err),
		)
	}

	return c.JSON(http.StatusInternalServerError, common.ErrorResponse{
		Error: "Internal server error",
		Code:  errors.ErrorCode_INTERNAL.String(),
	})
}

// HTTPErrorHandler renders errors returned by middleware and handlers
func HTTPErrorHandler(logger *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		if herr := HandleError(logger, c, err); herr != nil && logger != nil {
			logger.Error("failed to write error response", zap.Error(herr))
		}
	}
}

// ownerFrom maps the authenticated caller to a meeting owner
func ownerFrom(c echo.Context) *meeting.Owner {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		return nil
	}
	return &meeting.Owner{ID: claims.UserID.String(), Email: claims.Email}
}
