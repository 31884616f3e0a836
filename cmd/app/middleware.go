package main

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/sushihentaime/blogapi/internal/userservice"
)

func (app *application) recoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				w.Header().Set("Connection", "close")
				app.serverErrorResponse(w, r, fmt.Errorf("%s", err))
			}
		}()

		next.ServeHTTP(w, r)
	})
}

func (app *application) logRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var (
			ip     = r.RemoteAddr
			method = r.Method
			proto  = r.Proto
			uri    = r.URL.RequestURI()
		)

		app.logger.Info("request from", slog.String("method", method), slog.String("uri", uri), slog.String("remote_addr", ip), slog.String("proto", proto))

		next.ServeHTTP(w, r)
	})
}

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// ipRateLimiter keeps one token bucket per client IP. Clients idle for longer than
// staleAfter are dropped by the cleanup loop.
type ipRateLimiter struct {
	mu      sync.Mutex
	clients map[string]*client
	cfg     LimiterConfig
	now     func() time.Time
}

const staleAfter = 3 * time.Minute

func newIPRateLimiter(cfg LimiterConfig) *ipRateLimiter {
	return &ipRateLimiter{
		clients: make(map[string]*client),
		cfg:     cfg,
		now:     time.Now,
	}
}

func (l *ipRateLimiter) allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	c, ok := l.clients[ip]
	if !ok {
		c = &client{limiter: rate.NewLimiter(rate.Limit(l.cfg.RPS), l.cfg.Burst)}
		l.clients[ip] = c
	}

	c.lastSeen = l.now()

	return c.limiter.AllowN(c.lastSeen, 1)
}

func (l *ipRateLimiter) cleanup() {
	l.mu.Lock()
	defer l.mu.Unlock()

	for ip, c := range l.clients {
		if l.now().Sub(c.lastSeen) > staleAfter {
			delete(l.clients, ip)
		}
	}
}

func (l *ipRateLimiter) runCleanup(done <-chan struct{}) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.cleanup()
		case <-done:
			return
		}
	}
}

func (app *application) rateLimit(next http.Handler) http.Handler {
	if app.limiter == nil || !app.limiter.cfg.Enabled {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}

		if !app.limiter.allow(ip) {
			app.rateLimitExceededResponse(w, r)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// authenticate resolves a bearer token into the request user. Requests without an
// Authorization header continue as the anonymous user. A malformed, invalid or expired
// token also continues as anonymous with the reason recorded for requireAuthUser.
func (app *application) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Vary", "Authorization")

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			r = app.createUserContext(r, &userservice.AnonymousUser)
			next.ServeHTTP(w, r)
			return
		}

		token := extractBearerToken(authHeader)
		if token == "" {
			r = app.createAuthErrorContext(r, userservice.ErrTokenInvalid)
			r = app.createUserContext(r, &userservice.AnonymousUser)
			next.ServeHTTP(w, r)
			return
		}

		user, err := app.userService.Authenticate(r.Context(), token)
		if err != nil {
			if !errors.Is(err, userservice.ErrTokenExpired) && !errors.Is(err, userservice.ErrTokenInvalid) {
				app.serverErrorResponse(w, r, err)
				return
			}

			r = app.createAuthErrorContext(r, err)
			user = &userservice.AnonymousUser
		}

		r = app.createUserContext(r, user)
		next.ServeHTTP(w, r)
	})
}

func extractBearerToken(header string) string {
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}

	return strings.TrimSpace(token)
}

func (app *application) requireAuthUser(next http.HandlerFunc) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := app.getUserContext(r)
		if user.IsAnonymous() {
			switch err := app.getAuthErrorContext(r); {
			case errors.Is(err, userservice.ErrTokenExpired):
				app.expiredAuthenticationTokenResponse(w, r)
			case errors.Is(err, userservice.ErrTokenInvalid):
				app.invalidAuthenticationTokenResponse(w, r)
			default:
				app.authenticationRequiredResponse(w, r)
			}
			return
		}

		next.ServeHTTP(w, r)
	})
}
