package userservice

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrTokenExpired = errors.New("token has expired")
	ErrTokenInvalid = errors.New("invalid token")
)

const tokenIssuer = "blogapi"

// TokenMaker issues and verifies HS256 access tokens carrying the user id as subject.
type TokenMaker struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenMaker(secret string, ttl time.Duration) (*TokenMaker, error) {
	if secret == "" {
		return nil, errors.New("token secret must not be empty")
	}

	if ttl <= 0 {
		ttl = AccessTokenTime
	}

	return &TokenMaker{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// Issue signs a token for userID valid for the maker's ttl.
func (tm *TokenMaker) Issue(userID int) (*Token, error) {
	now := tm.now()
	expiry := now.Add(tm.ttl)

	claims := jwt.RegisteredClaims{
		Issuer:    tokenIssuer,
		Subject:   strconv.Itoa(userID),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiry),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(tm.secret)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	return &Token{Plain: signed, Expiry: claims.ExpiresAt.Time}, nil
}

// Verify returns the user id carried by token. Expired tokens yield ErrTokenExpired,
// anything else that fails verification yields ErrTokenInvalid.
func (tm *TokenMaker) Verify(token string) (int, error) {
	var claims jwt.RegisteredClaims

	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		return tm.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(tm.now),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return 0, ErrTokenExpired
		default:
			return 0, ErrTokenInvalid
		}
	}

	id, err := strconv.Atoi(claims.Subject)
	if err != nil || id < 1 {
		return 0, ErrTokenInvalid
	}

	return id, nil
}
