// Package service holds the business rules of the shop. Services depend on
// the repository interfaces only; the backend is chosen once at startup.
// Every error they return is an *apperror.Error.
package service

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/iliyamo/ecommerce-backend/internal/apperror"
	"github.com/iliyamo/ecommerce-backend/internal/repository"
)

var validate = validator.New()

// mapRepoErr turns repository sentinels into standard errors named after
// what, and wraps anything else as internal.
func mapRepoErr(err error, what string, data map[string]any) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return apperror.NotFound(what+" not found", data)
	case errors.Is(err, repository.ErrDuplicate):
		return apperror.Conflict(what+" already exists", data)
	default:
		return apperror.Wrap(err, "could not access "+what, data)
	}
}

// required reports the first blank field in pairs of name, value.
func required(fields ...string) error {
	for i := 0; i+1 < len(fields); i += 2 {
		if strings.TrimSpace(fields[i+1]) == "" {
			return apperror.Standard(fields[i]+" is required", map[string]any{"field": fields[i]})
		}
	}
	return nil
}

func validEmail(email string) bool {
	return validate.Var(email, "required,email") == nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
