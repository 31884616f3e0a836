package userservice

import (
	"database/sql"
	"log/slog"
	"time"

	"github.com/sushihentaime/blogapi/internal/common"
)

const AccessTokenTime time.Duration = time.Hour

var (
	AnonymousUser = User{}
)

type UserService struct {
	m      userStore
	mb     common.MessageProducer
	c      *common.Cache[*User]
	tokens *TokenMaker
	logger *slog.Logger
}

type DBModel struct {
	db *sql.DB
}

type User struct {
	ID        int       `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Password  Password  `json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Password holds only the bcrypt hash; the plaintext is never retained.
type Password struct {
	hash []byte
}

type Token struct {
	Plain  string    `json:"token"`
	Expiry time.Time `json:"expiry"`
}

// AuthResult is returned by Signup and Login.
type AuthResult struct {
	User  *User  `json:"user"`
	Token *Token `json:"token"`
}
