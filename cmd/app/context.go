package main

import (
	"context"
	"net/http"

	"github.com/sushihentaime/blogapi/internal/userservice"
)

type contextKey string

const (
	userContextKey      = contextKey("user")
	authErrorContextKey = contextKey("authError")
)

func (app *application) createUserContext(r *http.Request, user *userservice.User) *http.Request {
	ctx := context.WithValue(r.Context(), userContextKey, user)
	return r.WithContext(ctx)
}

// getUserContext returns the user set by authenticate, or the anonymous user.
func (app *application) getUserContext(r *http.Request) *userservice.User {
	user, ok := r.Context().Value(userContextKey).(*userservice.User)
	if !ok {
		return &userservice.AnonymousUser
	}
	return user
}

// createAuthErrorContext records why a presented token was rejected. The request
// continues as anonymous so public routes still serve it.
func (app *application) createAuthErrorContext(r *http.Request, err error) *http.Request {
	ctx := context.WithValue(r.Context(), authErrorContextKey, err)
	return r.WithContext(ctx)
}

func (app *application) getAuthErrorContext(r *http.Request) error {
	err, _ := r.Context().Value(authErrorContextKey).(error)
	return err
}
