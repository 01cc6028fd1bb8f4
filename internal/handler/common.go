package handler

import (
	"context"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/ecommerce-backend/internal/apperror"
	"github.com/iliyamo/ecommerce-backend/internal/model"
)

// requestTimeout bounds every request, including waits for a pooled
// database connection.
const requestTimeout = 5 * time.Second

func requestCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), requestTimeout)
}

// bindValid binds the request body into dst and runs the echo validator.
func bindValid(c echo.Context, dst any) error {
	if err := c.Bind(dst); err != nil {
		return apperror.Standard("invalid body", nil)
	}
	if c.Echo().Validator != nil {
		if err := c.Validate(dst); err != nil {
			return err
		}
	}
	return nil
}

// pageOptions reads ?page and ?limit. Absent values are zero and left to
// the service defaults.
func pageOptions(c echo.Context) (model.PageOptions, error) {
	page, err := queryInt(c, "page")
	if err != nil {
		return model.PageOptions{}, err
	}
	limit, err := queryInt(c, "limit")
	if err != nil {
		return model.PageOptions{}, err
	}
	return model.PageOptions{Page: page, Limit: limit}, nil
}

func queryInt(c echo.Context, name string) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, apperror.Standard("invalid "+name, map[string]any{name: raw})
	}
	return n, nil
}
