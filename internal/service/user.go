package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/iliyamo/ecommerce-backend/internal/apperror"
	"github.com/iliyamo/ecommerce-backend/internal/mailer"
	"github.com/iliyamo/ecommerce-backend/internal/model"
	"github.com/iliyamo/ecommerce-backend/internal/repository"
	"github.com/iliyamo/ecommerce-backend/internal/utils"
)

// ResetTokenTTL is how long a mailed reset link stays valid.
const ResetTokenTTL = 10 * time.Minute

// UserConfig carries the settings the user service needs from Config.
type UserConfig struct {
	JWTSecret    string
	AccessTTLMin int
	BcryptCost   int
	DefaultRole  string
	PublicHost   string
}

type RegisterInput struct {
	Name          string `json:"usr_name" validate:"required"`
	Email         string `json:"usr_email" validate:"required"`
	StreetAddress string `json:"usr_street_address"`
	StateID       string `json:"state_id"`
	CityID        string `json:"city_id"`
	Zip           string `json:"usr_zip"`
	Phone         string `json:"usr_phone_number"`
	Username      string `json:"usr_username" validate:"required"`
	Password      string `json:"usr_password" validate:"required,min=6"`
}

type ProfileInput struct {
	Name          string `json:"usr_name" validate:"required"`
	Email         string `json:"usr_email" validate:"required"`
	StreetAddress string `json:"usr_street_address"`
	StateID       string `json:"state_id"`
	CityID        string `json:"city_id"`
	Zip           string `json:"usr_zip"`
	Phone         string `json:"usr_phone_number"`
}

type UserService interface {
	List(ctx context.Context) ([]model.User, error)
	Get(ctx context.Context, id string) (model.User, error)
	Register(ctx context.Context, in RegisterInput) (model.User, error)
	Login(ctx context.Context, email, password string) (model.LoginSuccess, error)
	Update(ctx context.Context, id string, in ProfileInput) (model.User, error)
	Shipping(ctx context.Context, id string) (model.Shipping, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, id, token, password string) error
}

type userService struct {
	users  repository.UserRepository
	roles  repository.RoleRepository
	tokens repository.TokenRepository
	states repository.StateRepository
	mail   mailer.Sender
	cfg    UserConfig
	now    func() time.Time
}

func NewUserService(repos repository.Repositories, mail mailer.Sender, cfg UserConfig) UserService {
	return &userService{
		users:  repos.Users,
		roles:  repos.Roles,
		tokens: repos.Tokens,
		states: repos.States,
		mail:   mail,
		cfg:    cfg,
		now:    time.Now,
	}
}

func (s *userService) List(ctx context.Context) ([]model.User, error) {
	out, err := s.users.List(ctx)
	if err != nil {
		return nil, mapRepoErr(err, "users", nil)
	}
	return out, nil
}

func (s *userService) Get(ctx context.Context, id string) (model.User, error) {
	if err := required("id", id); err != nil {
		return model.User{}, err
	}
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return model.User{}, mapRepoErr(err, "user", map[string]any{"id": id})
	}
	return u, nil
}

// Register checks username, then email, then the email format, then the
// default role, all before anything is written.
func (s *userService) Register(ctx context.Context, in RegisterInput) (model.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = normalizeEmail(in.Email)
	if err := validate.Struct(in); err != nil {
		return model.User{}, apperror.Standard("invalid user", map[string]any{"reason": err.Error()})
	}

	if err := ensureFree(func() error {
		_, err := s.users.FindByUsername(ctx, in.Username)
		return err
	}, "username", in.Username); err != nil {
		return model.User{}, err
	}
	if err := ensureFree(func() error {
		_, err := s.users.FindByEmail(ctx, in.Email)
		return err
	}, "email", in.Email); err != nil {
		return model.User{}, err
	}
	if !validEmail(in.Email) {
		return model.User{}, apperror.Standard("invalid email", map[string]any{"email": in.Email})
	}
	role, err := s.roles.FindByName(ctx, s.cfg.DefaultRole)
	if err != nil {
		return model.User{}, apperror.Internal("default role is not configured", err, map[string]any{"role": s.cfg.DefaultRole})
	}

	hash, err := utils.HashPassword(in.Password, s.cfg.BcryptCost)
	if err != nil {
		return model.User{}, apperror.Internal("could not hash password", err, nil)
	}
	u := model.User{
		Name:          in.Name,
		Email:         in.Email,
		StreetAddress: in.StreetAddress,
		StateID:       in.StateID,
		CityID:        in.CityID,
		Zip:           in.Zip,
		Phone:         in.Phone,
		Username:      in.Username,
		PasswordHash:  hash,
		RoleID:        role.ID,
	}
	id, err := s.users.Create(ctx, u)
	if err != nil {
		return model.User{}, mapRepoErr(err, "user", map[string]any{"username": in.Username})
	}
	u.ID = id
	return u, nil
}

// ensureFree fails with a conflict when lookup finds an existing user.
func ensureFree(lookup func() error, field, value string) error {
	err := lookup()
	switch {
	case err == nil:
		return apperror.Conflict(field+" already exists", map[string]any{field: value})
	case errors.Is(err, repository.ErrNotFound):
		return nil
	default:
		return mapRepoErr(err, "user", map[string]any{field: value})
	}
}

func (s *userService) Login(ctx context.Context, email, password string) (model.LoginSuccess, error) {
	email = normalizeEmail(email)
	if !validEmail(email) {
		return model.LoginSuccess{}, apperror.Standard("invalid email", map[string]any{"email": email})
	}
	if err := required("usr_password", password); err != nil {
		return model.LoginSuccess{}, err
	}

	u, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return model.LoginSuccess{}, apperror.Unauthorized("invalid credentials", nil)
	}
	if err != nil {
		return model.LoginSuccess{}, mapRepoErr(err, "user", nil)
	}
	if !utils.VerifyPassword(u.PasswordHash, password) {
		return model.LoginSuccess{}, apperror.Unauthorized("invalid credentials", nil)
	}

	role, err := s.roles.FindByID(ctx, u.RoleID)
	if err != nil {
		return model.LoginSuccess{}, apperror.Internal("user role is missing", err, map[string]any{"rol_id": u.RoleID})
	}
	tok, err := utils.NewAccessToken(s.cfg.JWTSecret, u.ID, role.Name, s.cfg.AccessTTLMin)
	if err != nil {
		return model.LoginSuccess{}, apperror.Internal("could not sign token", err, nil)
	}
	return model.LoginSuccess{UserID: u.ID, Token: tok.Token, RoleName: role.Name, Username: u.Username}, nil
}

func (s *userService) Update(ctx context.Context, id string, in ProfileInput) (model.User, error) {
	if err := required("id", id); err != nil {
		return model.User{}, err
	}
	in.Email = normalizeEmail(in.Email)
	if err := validate.Struct(in); err != nil {
		return model.User{}, apperror.Standard("invalid user", map[string]any{"reason": err.Error()})
	}
	if !validEmail(in.Email) {
		return model.User{}, apperror.Standard("invalid email", map[string]any{"email": in.Email})
	}

	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return model.User{}, mapRepoErr(err, "user", map[string]any{"id": id})
	}
	if in.Email != u.Email {
		other, err := s.users.FindByEmail(ctx, in.Email)
		if err == nil && other.ID != id {
			return model.User{}, apperror.Conflict("email already exists", map[string]any{"email": in.Email})
		}
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return model.User{}, mapRepoErr(err, "user", nil)
		}
	}
	if in.StateID != "" || in.CityID != "" {
		if _, err := s.states.FindCity(ctx, in.StateID, in.CityID); err != nil {
			return model.User{}, referenceErr(err, "state or city", in.StateID+"/"+in.CityID)
		}
	}

	u.Name = in.Name
	u.Email = in.Email
	u.StreetAddress = in.StreetAddress
	u.StateID = in.StateID
	u.CityID = in.CityID
	u.Zip = in.Zip
	u.Phone = in.Phone
	if _, err := s.users.Update(ctx, u); err != nil {
		return model.User{}, mapRepoErr(err, "user", map[string]any{"id": id})
	}
	return u, nil
}

func (s *userService) Shipping(ctx context.Context, id string) (model.Shipping, error) {
	u, err := s.Get(ctx, id)
	if err != nil {
		return model.Shipping{}, err
	}
	if u.StateID == "" || u.CityID == "" {
		return model.Shipping{}, apperror.Standard("user has no shipping address", map[string]any{"id": id})
	}
	st, err := s.states.FindCity(ctx, u.StateID, u.CityID)
	if err != nil {
		return model.Shipping{}, mapRepoErr(err, "city", map[string]any{"state_id": u.StateID, "city_id": u.CityID})
	}
	if len(st.Cities) == 0 {
		return model.Shipping{}, apperror.NotFound("city not found", map[string]any{"state_id": u.StateID, "city_id": u.CityID})
	}
	c := st.Cities[0]
	return model.Shipping{StateID: st.ID, CityID: c.ID, DeliveryDays: c.DeliveryDays, ShippingCost: c.ShippingCost}, nil
}

// ForgotPassword replaces any previous reset token with a fresh one and
// mails the link. Only the token digest is stored.
func (s *userService) ForgotPassword(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if !validEmail(email) {
		return apperror.Standard("invalid email", map[string]any{"email": email})
	}
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return mapRepoErr(err, "user", map[string]any{"email": email})
	}

	// a missing previous token is the normal case
	_, _ = s.tokens.DeleteByUser(ctx, u.ID)

	raw, err := utils.NewResetToken()
	if err != nil {
		return apperror.Internal("could not generate token", err, nil)
	}
	tok := model.Token{
		UserID:     u.ID,
		Generated:  utils.HashToken(raw),
		Expiration: s.now().UTC().Add(ResetTokenTTL),
	}
	if err := s.tokens.Create(ctx, tok); err != nil {
		return mapRepoErr(err, "token", map[string]any{"usr_id": u.ID})
	}

	link := fmt.Sprintf("http://%s/users/resetpassword/%s/%s", s.cfg.PublicHost, u.ID, raw)
	msg := mailer.Message{
		To:      u.Email,
		Subject: "Password reset",
		Body: fmt.Sprintf("Hello %s,\n\nUse the link below to choose a new password. It expires in %d minutes.\n\n%s\n",
			u.Name, int(ResetTokenTTL/time.Minute), link),
	}
	if err := s.mail.Send(ctx, msg); err != nil {
		return apperror.Internal("could not send reset mail", err, map[string]any{"usr_id": u.ID})
	}
	return nil
}

// ResetPassword checks expiry before comparing the token, so a stale link
// is always reported as expired.
func (s *userService) ResetPassword(ctx context.Context, id, token, password string) error {
	if err := required("id", id, "token", token, "usr_password", password); err != nil {
		return err
	}
	if err := validate.Var(password, "min=6"); err != nil {
		return apperror.Standard("password is too short", nil)
	}

	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return mapRepoErr(err, "user", map[string]any{"id": id})
	}
	tok, err := s.tokens.FindByUser(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return apperror.Standard("invalid link", map[string]any{"id": id})
	}
	if err != nil {
		return mapRepoErr(err, "token", map[string]any{"id": id})
	}
	if tok.Expired(s.now().UTC()) {
		return apperror.Standard("link has expired", map[string]any{"id": id})
	}
	if subtle.ConstantTimeCompare([]byte(utils.HashToken(token)), []byte(tok.Generated)) != 1 {
		return apperror.Standard("invalid link", map[string]any{"id": id})
	}

	hash, err := utils.HashPassword(password, s.cfg.BcryptCost)
	if err != nil {
		return apperror.Internal("could not hash password", err, nil)
	}
	if _, err := s.users.UpdatePassword(ctx, id, hash); err != nil {
		return mapRepoErr(err, "user", map[string]any{"id": id})
	}
	if _, err := s.tokens.DeleteByUser(ctx, id); err != nil && !errors.Is(err, repository.ErrNotFound) {
		return mapRepoErr(err, "token", map[string]any{"id": id})
	}

	msg := mailer.Message{
		To:      u.Email,
		Subject: "Password changed",
		Body:    fmt.Sprintf("Hello %s,\n\nYour password was changed.\n", u.Name),
	}
	if err := s.mail.Send(ctx, msg); err != nil {
		return apperror.Internal("could not send confirmation mail", err, map[string]any{"usr_id": id})
	}
	return nil
}
