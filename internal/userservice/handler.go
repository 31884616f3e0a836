package userservice

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/sushihentaime/blogapi/internal/common"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
)

func NewUserService(db *sql.DB, mb common.MessageProducer, c *common.Cache[*User], tokens *TokenMaker, logger *slog.Logger) *UserService {
	return &UserService{
		m:      newUserModel(db),
		mb:     mb,
		c:      c,
		tokens: tokens,
		logger: logger,
	}
}

type SignupRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Signup creates a user account, issues an access token and publishes a user.created event.
func (s *UserService) Signup(ctx context.Context, req *SignupRequest) (*AuthResult, error) {
	u := User{
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Email:     normalizeEmail(req.Email),
	}

	v := common.NewValidator()
	validateName(v, u.FirstName, "first_name")
	validateName(v, u.LastName, "last_name")
	validateEmail(v, u.Email)
	validatePassword(v, req.Password)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	if err := u.Password.set(req.Password); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now

	if err := s.m.insert(ctx, &u); err != nil {
		return nil, err
	}

	token, err := s.tokens.Issue(u.ID)
	if err != nil {
		return nil, err
	}

	event := common.UserCreatedEvent{Email: u.Email, FirstName: u.FirstName, LastName: u.LastName}
	if err := common.PublishJSON(ctx, s.mb, event, common.UserCreatedKey, common.UserExchange); err != nil {
		s.logger.Error("could not publish user created event", "user_id", u.ID, "error", err)
	}

	return &AuthResult{User: &u, Token: token}, nil
}

// Login checks the credentials and issues an access token. An unknown email and a wrong
// password both yield ErrInvalidCredentials.
func (s *UserService) Login(ctx context.Context, req *LoginRequest) (*AuthResult, error) {
	email := normalizeEmail(req.Email)

	v := common.NewValidator()
	v.Check(email != "", "email", "must be provided")
	v.Check(req.Password != "", "password", "must be provided")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	u, err := s.m.getByEmail(ctx, email)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrRecordNotFound):
			return nil, ErrInvalidCredentials
		default:
			return nil, err
		}
	}

	ok, err := u.Password.compare(req.Password)
	if err != nil {
		return nil, err
	}

	if !ok {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(u.ID)
	if err != nil {
		return nil, err
	}

	s.c.Set(common.CacheKeyUserByID(u.ID), u)

	return &AuthResult{User: u, Token: token}, nil
}

// GetUserByID returns the user with the given id, served from the cache when possible.
func (s *UserService) GetUserByID(ctx context.Context, id int) (*User, error) {
	key := common.CacheKeyUserByID(id)
	if u, ok := s.c.Get(key); ok {
		return u, nil
	}

	u, err := s.m.getByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.c.Set(key, u)

	return u, nil
}

// Authenticate resolves an access token into its user. A token whose user no longer exists is invalid.
func (s *UserService) Authenticate(ctx context.Context, token string) (*User, error) {
	id, err := s.tokens.Verify(token)
	if err != nil {
		return nil, err
	}

	u, err := s.GetUserByID(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrRecordNotFound):
			return nil, ErrTokenInvalid
		default:
			return nil, err
		}
	}

	return u, nil
}
