package http

import (
	"errors"
	"log/slog"
	"net/http"

	"compliance/internal/core/ports"
	"compliance/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

const kindProviderUnavailable = "PROVIDER_UNAVAILABLE"

// statusOf maps an error kind onto the HTTP status returned to the client.
func statusOf(kind errs.Kind) int {
	switch kind {
	case errs.KindInvalidInput:
		return http.StatusBadRequest
	case errs.KindForbidden:
		return http.StatusForbidden
	case errs.KindNotFound:
		return http.StatusNotFound
	case errs.KindInvalidState,
		errs.KindIllegalTransition,
		errs.KindAlreadyTerminal,
		errs.KindNotPaid,
		errs.KindAlreadyVerified:
		return http.StatusConflict
	case errs.KindPaymentMismatch:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// toError builds the envelope for err. Internal failures never leak their message.
func toError(err error) Error {
	if errors.Is(err, ports.ErrProviderUnavailable) {
		return Error{Code: http.StatusBadGateway, Kind: kindProviderUnavailable, Message: "payment provider is unavailable"}
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		return fromHTTPError(he)
	}

	kind := errs.KindOf(err)
	status := statusOf(kind)
	if status == http.StatusInternalServerError {
		return Error{Code: status, Kind: string(errs.KindInternal), Message: "internal error"}
	}
	return Error{Code: status, Kind: string(kind), Message: err.Error()}
}

func fromHTTPError(he *echo.HTTPError) Error {
	kind := errs.KindInternal
	switch he.Code {
	case http.StatusBadRequest, http.StatusRequestEntityTooLarge, http.StatusUnsupportedMediaType:
		kind = errs.KindInvalidInput
	case http.StatusNotFound, http.StatusMethodNotAllowed:
		kind = errs.KindNotFound
	case http.StatusForbidden, http.StatusUnauthorized:
		kind = errs.KindForbidden
	}

	message := http.StatusText(he.Code)
	if m, ok := he.Message.(string); ok {
		message = m
	}
	return Error{Code: he.Code, Kind: string(kind), Message: message}
}

// ErrorHandler renders every error returned by a handler or middleware as an Error envelope.
func ErrorHandler(logger *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		body := toError(err)
		if body.Code >= http.StatusInternalServerError {
			logger.ErrorContext(c.Request().Context(), "request failed",
				"method", c.Request().Method,
				"route", c.Path(),
				"status", body.Code,
				"error", err,
			)
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(body.Code)
		} else {
			err = c.JSON(body.Code, body)
		}
		if err != nil {
			logger.Error("error writing error response", "error", err)
		}
	}
}
