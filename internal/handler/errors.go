package handler

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/iliyamo/ecommerce-backend/internal/apperror"
	"github.com/iliyamo/ecommerce-backend/internal/middleware"
)

const internalMessage = "internal server error"

// ErrorHandler writes every error returned by a handler as {"error": msg}.
// Internal errors are logged with their cause and reach the client only as
// a generic message; client errors are logged at warn level.
func ErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		status, body := http.StatusInternalServerError, echo.Map{"error": internalMessage}

		var he *echo.HTTPError
		if ae, ok := apperror.As(err); ok {
			status = ae.StatusCode
			ev := log.Warn()
			if ae.Kind == apperror.KindInternal {
				ev = log.Error().Err(ae.Cause)
			} else {
				body = echo.Map{"error": ae.Message}
				if len(ae.Data) > 0 {
					body["data"] = ae.Data
				}
			}
			ev.Str("request_id", middleware.RequestID(c)).
				Str("kind", ae.Kind.String()).
				Interface("data", ae.Data).
				Time("at", ae.At).
				Msg(ae.Message)
		} else if errors.As(err, &he) {
			status = he.Code
			body = echo.Map{"error": he.Message}
			if msg, ok := he.Message.(string); ok {
				body["error"] = msg
			}
		} else {
			log.Error().Err(err).Str("request_id", middleware.RequestID(c)).Msg("unhandled error")
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.JSON(status, body)
		}
		if err != nil {
			log.Error().Err(err).Msg("write error response")
		}
	}
}

// Validator adapts go-playground/validator to echo.Validator.
type Validator struct {
	v *validator.Validate
}

func NewValidator() *Validator {
	return &Validator{v: validator.New()}
}

func (cv *Validator) Validate(i interface{}) error {
	if err := cv.v.Struct(i); err != nil {
		return apperror.Standard("invalid request", map[string]any{"reason": err.Error()})
	}
	return nil
}
