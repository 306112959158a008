package main

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aoideee/bookcatalog/internal/data"

	"github.com/stretchr/testify/assert"
)

func newTestApp() *applicationDependencies {
	return &applicationDependencies{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// okHandler stands in for any gated handler.
func okHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// requestAs builds a GET request carrying the given user and permissions
// in its context, as the authenticate middleware would have left it.
func requestAs(app *applicationDependencies, user *data.User, permissions data.Permissions) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/books/form", nil)
	return app.contextSetUser(r, user, permissions)
}

func TestRequirePermission_AnonymousIsRedirectedToLogin(t *testing.T) {
	app := newTestApp()
	handler := app.requirePermission(data.PermissionAddBook, okHandler)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, requestAs(app, data.AnonymousUser, data.Permissions{}))

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
}

func TestRequirePermission_AuthenticatedWithoutPermissionGets403(t *testing.T) {
	app := newTestApp()
	handler := app.requirePermission(data.PermissionAddBook, okHandler)

	user := &data.User{ID: 2, Name: "regular"}
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, requestAs(app, user, data.Permissions{}))

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequirePermission_AdminGetsThrough(t *testing.T) {
	app := newTestApp()
	handler := app.requirePermission(data.PermissionAddBook, okHandler)

	admin := &data.User{ID: 1, Name: "admin"}
	perms := data.Permissions{
		data.PermissionAddBook,
		data.PermissionChangeBook,
		data.PermissionDeleteBook,
		data.PermissionViewBook,
	}
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, requestAs(app, admin, perms))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireAuthenticated_ListIsPermissionExempt(t *testing.T) {
	app := newTestApp()
	handler := app.requireAuthenticated(okHandler)

	// An authenticated user with no permissions at all can still reach
	// routes that only require a login.
	user := &data.User{ID: 2, Name: "regular"}
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, requestAs(app, user, data.Permissions{}))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireAuthenticated_AnonymousIsRedirected(t *testing.T) {
	app := newTestApp()
	handler := app.requireAuthenticated(okHandler)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, requestAs(app, data.AnonymousUser, data.Permissions{}))

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
}

func TestRequirePermission_EachCodeIsCheckedIndependently(t *testing.T) {
	app := newTestApp()

	// A user holding only change_book can edit but not delete.
	user := &data.User{ID: 3, Name: "editor"}
	perms := data.Permissions{data.PermissionChangeBook}

	edit := app.requirePermission(data.PermissionChangeBook, okHandler)
	w := httptest.NewRecorder()
	edit.ServeHTTP(w, requestAs(app, user, perms))
	assert.Equal(t, http.StatusOK, w.Code)

	del := app.requirePermission(data.PermissionDeleteBook, okHandler)
	w = httptest.NewRecorder()
	del.ServeHTTP(w, requestAs(app, user, perms))
	assert.Equal(t, http.StatusForbidden, w.Code)
}
