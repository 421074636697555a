package http

import (
	"errors"
	"log/slog"
	"net/http"

	"storefront/internal/adapters/out/metrics"
	"storefront/internal/generated/servers"
	"storefront/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

const internalErrorMessage = "Internal server error"

func statusCodeOf(err error) int {
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrTransitionIsIllegal), errors.Is(err, errs.ErrVersionIsInvalid):
		return http.StatusConflict
	case errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func rejectionReason(err error) (string, bool) {
	switch {
	case errors.Is(err, errs.ErrTransitionIsIllegal):
		return metrics.ReasonIllegalTransition, true
	case errors.Is(err, errs.ErrVersionIsInvalid):
		return metrics.ReasonVersionConflict, true
	case errors.Is(err, errs.ErrValueIsInvalid):
		return metrics.ReasonInvalidStatus, true
	default:
		return "", false
	}
}

// fail writes err as an Error body. Unknown errors are logged and their
// text is not exposed to the client.
func (s *Server) fail(ctx echo.Context, err error) error {
	code := statusCodeOf(err)
	message := err.Error()

	if code == http.StatusInternalServerError {
		s.logger.ErrorContext(ctx.Request().Context(), "request failed",
			slog.String("method", ctx.Request().Method),
			slog.String("path", ctx.Path()),
			slog.Any("error", err),
		)
		message = internalErrorMessage
	}

	return ctx.JSON(code, servers.Error{Code: code, Message: message})
}

func badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, servers.Error{Code: http.StatusBadRequest, Message: message})
}

// errorHandler renders errors escaping the handlers, such as binding
// failures from the generated wrapper, in the same shape as handler errors.
func errorHandler(logger *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		if ctx.Response().Committed {
			return
		}

		code := http.StatusInternalServerError
		message := internalErrorMessage

		var httpErr *echo.HTTPError
		if errors.As(err, &httpErr) {
			code = httpErr.Code
			if msg, ok := httpErr.Message.(string); ok {
				message = msg
			} else {
				message = http.StatusText(code)
			}
		}

		if code >= http.StatusInternalServerError {
			logger.ErrorContext(ctx.Request().Context(), "unhandled error",
				slog.String("path", ctx.Request().URL.Path),
				slog.Any("error", err),
			)
		}

		if ctx.Request().Method == http.MethodHead {
			err = ctx.NoContent(code)
		} else {
			err = ctx.JSON(code, servers.Error{Code: code, Message: message})
		}
		if err != nil {
			logger.ErrorContext(ctx.Request().Context(), "write error response", slog.Any("error", err))
		}
	}
}
