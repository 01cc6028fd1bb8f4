package model

import "time"

// Role names known to the access rules. New users always receive the
// configured default role; ADMIN accounts are provisioned out of band.
const (
	RoleStandard = "STANDARD"
	RoleAdmin    = "ADMIN"
)

// User represents an application user as stored in the `users` table or
// the users collection.
//
// Fields:
//
//	ID            – primary key, opaque string at the API boundary.
//	Email         – unique email address.
//	Username      – unique login name.
//	PasswordHash  – bcrypt hash; never serialized to clients.
//	StateID       – references states._id.
//	CityID        – references a city inside that state.
//	RoleID        – references roles._id.
type User struct {
	ID            string `json:"_id" bson:"_id"`
	Name          string `json:"usr_name" bson:"usr_name"`
	Email         string `json:"usr_email" bson:"usr_email"`
	StreetAddress string `json:"usr_street_address" bson:"usr_street_address"`
	StateID       string `json:"state_id" bson:"state_id"`
	CityID        string `json:"city_id" bson:"city_id"`
	Zip           string `json:"usr_zip" bson:"usr_zip"`
	Phone         string `json:"usr_phone_number" bson:"usr_phone_number"`
	Username      string `json:"usr_username" bson:"usr_username"`
	PasswordHash  string `json:"-" bson:"usr_password"`
	RoleID        string `json:"rol_id" bson:"rol_id"`
}

// Role maps an id to one of the fixed role names.
type Role struct {
	ID   string `json:"_id" bson:"_id"`
	Name string `json:"rol_name" bson:"rol_name"`
}

// Token is a password-reset credential. Only the SHA-256 digest of the
// value mailed to the user is persisted in Generated. At most one live
// token exists per user.
type Token struct {
	UserID     string    `json:"usr_id" bson:"usr_id"`
	Generated  string    `json:"-" bson:"tok_generated"`
	Expiration time.Time `json:"tok_expiration" bson:"tok_expiration"`
}

// Expired reports whether the token is no longer usable at now.
func (t Token) Expired(now time.Time) bool {
	return !now.Before(t.Expiration)
}

// LoginSuccess is returned to the client after a successful login.
type LoginSuccess struct {
	UserID   string `json:"usr_id"`
	Token    string `json:"usr_token"`
	RoleName string `json:"usr_rol_name"`
	Username string `json:"usr_username"`
}
