package mysqlrepo

import (
	"context"
	"database/sql"

	"github.com/iliyamo/ecommerce-backend/internal/database"
	"github.com/iliyamo/ecommerce-backend/internal/model"
	"github.com/iliyamo/ecommerce-backend/internal/repository"
)

// TokenRepo persists password-reset tokens. tok_generated holds the hash of
// the value mailed to the user, never the value itself.
type TokenRepo struct{ DB *sql.DB }

func NewTokenRepo(db *sql.DB) *TokenRepo { return &TokenRepo{DB: db} }

// FindByUser returns the newest token of the user.
func (r *TokenRepo) FindByUser(ctx context.Context, userID string) (model.Token, error) {
	t, found, err := database.FindOne(ctx, database.NewExecutor(r.DB),
		"SELECT usr_id, tok_generated, tok_expiration FROM tokens WHERE usr_id = ? ORDER BY tok_expiration DESC LIMIT 1",
		func(s database.Scanner) (model.Token, error) {
			var t model.Token
			err := s.Scan(&t.UserID, &t.Generated, &t.Expiration)
			return t, err
		}, userID)
	if err != nil {
		return model.Token{}, err
	}
	if !found {
		return model.Token{}, repository.ErrNotFound
	}
	return t, nil
}

func (r *TokenRepo) Create(ctx context.Context, t model.Token) error {
	_, err := database.Create(ctx, database.NewExecutor(r.DB),
		"INSERT INTO tokens (usr_id, tok_generated, tok_expiration) VALUES (?, ?, ?)",
		t.UserID, t.Generated, t.Expiration.UTC())
	return mapErr(err)
}

// DeleteByUser removes every token of the user.
func (r *TokenRepo) DeleteByUser(ctx context.Context, userID string) (bool, error) {
	return database.DeleteSome(ctx, database.NewExecutor(r.DB), "DELETE FROM tokens WHERE usr_id = ?", userID)
}
