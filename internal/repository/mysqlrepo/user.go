package mysqlrepo

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/ecommerce-backend/internal/database"
	"github.com/iliyamo/ecommerce-backend/internal/model"
	"github.com/iliyamo/ecommerce-backend/internal/repository"
)

const userSelect = `SELECT _id, usr_name, usr_email, usr_street_address, state_id, city_id, usr_zip,
	usr_phone_number, usr_username, usr_password, rol_id FROM users`

// UserRepo mirrors the 'users' table.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

func scanUser(s database.Scanner) (model.User, error) {
	var (
		u           model.User
		state, city sql.NullString
	)
	err := s.Scan(&u.ID, &u.Name, &u.Email, &u.StreetAddress, &state, &city, &u.Zip,
		&u.Phone, &u.Username, &u.PasswordHash, &u.RoleID)
	u.StateID, u.CityID = state.String, city.String
	return u, err
}

func (r *UserRepo) List(ctx context.Context) ([]model.User, error) {
	return database.Find(ctx, database.NewExecutor(r.DB), userSelect+" ORDER BY usr_username", scanUser)
}

func (r *UserRepo) findOne(ctx context.Context, query, value string) (model.User, error) {
	u, found, err := database.FindOne(ctx, database.NewExecutor(r.DB), query, scanUser, value)
	if err != nil {
		return model.User{}, err
	}
	if !found {
		return model.User{}, repository.ErrNotFound
	}
	return u, nil
}

func (r *UserRepo) FindByID(ctx context.Context, id string) (model.User, error) {
	return r.findOne(ctx, userSelect+" WHERE _id = ?", id)
}

// FindByEmail fetches a user by normalized email.
func (r *UserRepo) FindByEmail(ctx context.Context, email string) (model.User, error) {
	return r.findOne(ctx, userSelect+" WHERE usr_email = ?", strings.ToLower(strings.TrimSpace(email)))
}

func (r *UserRepo) FindByUsername(ctx context.Context, username string) (model.User, error) {
	return r.findOne(ctx, userSelect+" WHERE usr_username = ?", strings.TrimSpace(username))
}

// Create inserts user and returns its ID. The unique keys on email and
// username close the race left open by the lookups done before insert.
func (r *UserRepo) Create(ctx context.Context, u model.User) (string, error) {
	id, err := database.Create(ctx, database.NewExecutor(r.DB),
		`INSERT INTO users (usr_name, usr_email, usr_street_address, state_id, city_id, usr_zip, usr_phone_number, usr_username, usr_password, rol_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.Name, strings.ToLower(strings.TrimSpace(u.Email)), u.StreetAddress, nullableString(u.StateID), nullableString(u.CityID),
		u.Zip, u.Phone, strings.TrimSpace(u.Username), u.PasswordHash, u.RoleID)
	if err != nil {
		return "", mapErr(err)
	}
	return id, nil
}

func (r *UserRepo) Update(ctx context.Context, u model.User) (bool, error) {
	ok, err := database.UpdateOne(ctx, database.NewExecutor(r.DB),
		`UPDATE users SET usr_name = ?, usr_email = ?, usr_street_address = ?, state_id = ?, city_id = ?, usr_zip = ?, usr_phone_number = ?
		WHERE _id = ?`,
		u.Name, strings.ToLower(strings.TrimSpace(u.Email)), u.StreetAddress, nullableString(u.StateID), nullableString(u.CityID),
		u.Zip, u.Phone, u.ID)
	return ok, mapErr(err)
}

func (r *UserRepo) UpdatePassword(ctx context.Context, id, hash string) (bool, error) {
	ok, err := database.UpdateOne(ctx, database.NewExecutor(r.DB),
		"UPDATE users SET usr_password = ? WHERE _id = ?", hash, id)
	return ok, mapErr(err)
}

// ----- roles -----

type RoleRepo struct{ DB *sql.DB }

func NewRoleRepo(db *sql.DB) *RoleRepo { return &RoleRepo{DB: db} }

func scanRole(s database.Scanner) (model.Role, error) {
	var ro model.Role
	err := s.Scan(&ro.ID, &ro.Name)
	return ro, err
}

func (r *RoleRepo) find(ctx context.Context, query, value string) (model.Role, error) {
	ro, found, err := database.FindOne(ctx, database.NewExecutor(r.DB), query, scanRole, value)
	if err != nil {
		return model.Role{}, err
	}
	if !found {
		return model.Role{}, repository.ErrNotFound
	}
	return ro, nil
}

func (r *RoleRepo) FindByID(ctx context.Context, id string) (model.Role, error) {
	return r.find(ctx, "SELECT _id, rol_name FROM roles WHERE _id = ?", id)
}

func (r *RoleRepo) FindByName(ctx context.Context, name string) (model.Role, error) {
	return r.find(ctx, "SELECT _id, rol_name FROM roles WHERE rol_name = ?", name)
}
