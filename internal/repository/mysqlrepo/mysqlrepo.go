// Package mysqlrepo implements the repository contracts on MySQL. Every
// method runs on its own database.Executor; join queries are folded back
// into aggregates by the reconstruct package, so each query orders by the
// grouping keys.
package mysqlrepo

import (
	"database/sql"
	"errors"
	"strings"
	"time"

	mysqldriver "github.com/go-sql-driver/mysql"

	"github.com/iliyamo/ecommerce-backend/internal/database"
	"github.com/iliyamo/ecommerce-backend/internal/repository"
)

const (
	errDuplicateEntry = 1062
	errNoReferenced   = 1452
)

// New builds every MySQL repository on a shared pool.
func New(db *sql.DB) repository.Repositories {
	return repository.Repositories{
		Categories:    NewCategoryRepo(db),
		Products:      NewProductRepo(db),
		Publications:  NewPublicationRepo(db),
		States:        NewStateRepo(db),
		Users:         NewUserRepo(db),
		Roles:         NewRoleRepo(db),
		Tokens:        NewTokenRepo(db),
		Images:        NewImageRepo(db),
		Sales:         NewSaleRepo(db),
		Contacts:      NewContactRepo(db),
		Configuration: NewConfigurationRepo(db),
	}
}

// mapErr turns executor failures that callers branch on into repository
// sentinels. Anything else is returned as is.
func mapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, database.ErrNoRowsAffected) {
		return repository.ErrNotFound
	}
	var me *mysqldriver.MySQLError
	if errors.As(err, &me) {
		switch me.Number {
		case errDuplicateEntry:
			return repository.ErrDuplicate
		case errNoReferenced:
			return repository.ErrNotFound
		}
	}
	return err
}

// escapeLike quotes LIKE wildcards so user input only matches literally.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

func containsPattern(s string) string {
	return "%" + escapeLike(strings.ToLower(s)) + "%"
}

func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC()
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
