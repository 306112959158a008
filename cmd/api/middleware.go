// cmd/api/middleware.go
// This file contains HTTP middleware used to wrap the router.
// Middleware functions intercept every request before it reaches a handler.
package main

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/aoideee/bookcatalog/internal/data"

	"golang.org/x/time/rate"
)

// sessionCookieName is the cookie that carries the opaque session token.
const sessionCookieName = "session"

// recoverPanic catches any runtime panic that occurs in a downstream handler.
// Without this, a panic would cause the goroutine to terminate and the client's
// connection to be dropped silently. With this middleware the client receives a
// clean 500 Internal Server Error instead.
func (app *applicationDependencies) recoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// defer runs when the surrounding goroutine unwinds, even after a panic.
		defer func() {
			if err := recover(); err != nil {
				// Tell the HTTP server to close the connection after this response.
				w.Header().Set("Connection", "close")
				app.serverErrorResponse(w, r, fmt.Errorf("%s", err))
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// client holds a per-IP rate limiter and the time it was last seen.
// lastSeen lets us evict old entries so the map does not grow forever.
type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// rateLimit implements per-IP token-bucket rate limiting using the
// golang.org/x/time/rate package. Each unique IP gets its own limiter
// seeded with 2 tokens per second and a burst capacity of 4.
// A background goroutine cleans up entries that have not been seen in 3 minutes.
func (app *applicationDependencies) rateLimit(next http.Handler) http.Handler {
	var (
		mu      sync.Mutex
		clients = make(map[string]*client)
	)

	// Cleanup goroutine: remove stale IP entries every minute.
	go func() {
		for {
			time.Sleep(time.Minute)
			mu.Lock()
			for ip, c := range clients {
				if time.Since(c.lastSeen) > 3*time.Minute {
					delete(clients, ip)
				}
			}
			mu.Unlock()
		}
	}()

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			app.serverErrorResponse(w, r, err)
			return
		}

		mu.Lock()
		if _, found := clients[ip]; !found {
			clients[ip] = &client{
				limiter: rate.NewLimiter(rate.Limit(2), 4), // 2 req/s, burst of 4
			}
		}
		clients[ip].lastSeen = time.Now()

		// Allow() consumes one token; returns false if the bucket is empty.
		if !clients[ip].limiter.Allow() {
			mu.Unlock()
			app.rateLimitExceededResponse(w, r)
			return
		}
		mu.Unlock()

		next.ServeHTTP(w, r)
	})
}

// authenticate resolves the session cookie on every request. A valid,
// unexpired token attaches the real user and their permission set to the
// request context; anything else attaches AnonymousUser with an empty set.
// Gating decisions are left to requireAuthenticated / requirePermission.
func (app *applicationDependencies) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(sessionCookieName)
		if err != nil {
			r = app.contextSetUser(r, data.AnonymousUser, data.Permissions{})
			next.ServeHTTP(w, r)
			return
		}

		user, err := app.models.Users.GetForSessionToken(cookie.Value)
		if err != nil {
			if errors.Is(err, data.ErrRecordNotFound) {
				// Unknown or expired token: treat as anonymous rather
				// than failing the request.
				r = app.contextSetUser(r, data.AnonymousUser, data.Permissions{})
				next.ServeHTTP(w, r)
				return
			}
			app.serverErrorResponse(w, r, err)
			return
		}

		permissions, err := app.models.Permissions.GetAllForUser(user.ID)
		if err != nil {
			app.serverErrorResponse(w, r, err)
			return
		}

		r = app.contextSetUser(r, user, permissions)
		next.ServeHTTP(w, r)
	})
}

// requireAuthenticated gates a handler behind a valid login. Anonymous
// requests are redirected to the login page rather than refused outright,
// because logging in is all the client needs to do to recover.
func (app *applicationDependencies) requireAuthenticated(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := app.contextGetUser(r)
		if user.IsAnonymous() {
			app.loginRedirectResponse(w, r)
			return
		}
		next.ServeHTTP(w, r)
	}
}

// requirePermission gates a handler behind both a valid login and a
// specific permission code. An authenticated user without the permission
// gets a 403, which is deliberately distinct from the login redirect: no
// amount of re-authenticating will fix it.
func (app *applicationDependencies) requirePermission(code string, next http.HandlerFunc) http.HandlerFunc {
	return app.requireAuthenticated(func(w http.ResponseWriter, r *http.Request) {
		permissions := app.contextGetPermissions(r)
		if !permissions.Include(code) {
			app.forbiddenResponse(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}
