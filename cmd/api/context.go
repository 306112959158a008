// cmd/api/context.go
// Helpers for stashing the authenticated user (and their permission set)
// in the request context between the authenticate middleware and the
// handlers that run after it.
package main

import (
	"context"
	"net/http"

	"github.com/aoideee/bookcatalog/internal/data"
)

type contextKey string

const (
	userContextKey        = contextKey("user")
	permissionsContextKey = contextKey("permissions")
)

// contextSetUser returns a copy of the request with user and their
// permissions stored in the context.
func (app *applicationDependencies) contextSetUser(r *http.Request, user *data.User, permissions data.Permissions) *http.Request {
	ctx := context.WithValue(r.Context(), userContextKey, user)
	ctx = context.WithValue(ctx, permissionsContextKey, permissions)
	return r.WithContext(ctx)
}

// contextGetUser retrieves the user from the request context. It panics if
// the authenticate middleware did not run; that is a programming error in
// the route table, not a request-time condition.
func (app *applicationDependencies) contextGetUser(r *http.Request) *data.User {
	user, ok := r.Context().Value(userContextKey).(*data.User)
	if !ok {
		panic("missing user value in request context")
	}
	return user
}

// contextGetPermissions retrieves the permission set stored alongside the
// user. Anonymous requests carry an empty set.
func (app *applicationDependencies) contextGetPermissions(r *http.Request) data.Permissions {
	permissions, ok := r.Context().Value(permissionsContextKey).(data.Permissions)
	if !ok {
		panic("missing permissions value in request context")
	}
	return permissions
}
