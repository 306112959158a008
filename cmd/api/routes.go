// cmd/api/routes.go
package main

import (
	"net/http"

	"github.com/aoideee/bookcatalog/internal/data"

	"github.com/julienschmidt/httprouter"
)

// routes registers all HTTP endpoints with their access policy and returns
// the configured router wrapped in the application middleware.
//
// Middleware chain (outermost → innermost):
//
//	recoverPanic → rateLimit → authenticate → router
//
// The access policy per route:
//
//	GET/POST /books/form          authenticated + add_book
//	GET      /books/list          authenticated
//	GET      /books/:id/detail    authenticated
//	GET/POST /books/:id/edit      authenticated + change_book
//	GET/POST /books/:id/delete    authenticated + delete_book
//	GET      /authors/list        authenticated
//	POST     /authors             authenticated + add_book
//	POST     /authors/:id/delete  authenticated + delete_book
//	POST     /register|login|logout   open
//
// Anonymous requests to a gated route are redirected to /login; an
// authenticated user missing the required permission gets a 403.
func (app *applicationDependencies) routes() http.Handler {
	router := httprouter.New()

	// Override the default httprouter error handlers to return JSON responses.
	router.NotFound = http.HandlerFunc(app.notFoundResponse)
	router.MethodNotAllowed = http.HandlerFunc(app.methodNotAllowedResponse)

	// Book routes
	router.HandlerFunc(http.MethodGet, "/books/form",
		app.requirePermission(data.PermissionAddBook, app.showBookFormHandler))
	router.HandlerFunc(http.MethodPost, "/books/form",
		app.requirePermission(data.PermissionAddBook, app.createBookHandler))
	router.HandlerFunc(http.MethodGet, "/books/list",
		app.requireAuthenticated(app.listBooksHandler))
	router.HandlerFunc(http.MethodGet, "/books/:id/detail",
		app.requireAuthenticated(app.showBookHandler))
	router.HandlerFunc(http.MethodGet, "/books/:id/edit",
		app.requirePermission(data.PermissionChangeBook, app.editBookFormHandler))
	router.HandlerFunc(http.MethodPost, "/books/:id/edit",
		app.requirePermission(data.PermissionChangeBook, app.updateBookHandler))
	router.HandlerFunc(http.MethodGet, "/books/:id/delete",
		app.requirePermission(data.PermissionDeleteBook, app.confirmDeleteBookHandler))
	router.HandlerFunc(http.MethodPost, "/books/:id/delete",
		app.requirePermission(data.PermissionDeleteBook, app.deleteBookHandler))

	// Author routes
	router.HandlerFunc(http.MethodGet, "/authors/list",
		app.requireAuthenticated(app.listAuthorsHandler))
	router.HandlerFunc(http.MethodPost, "/authors",
		app.requirePermission(data.PermissionAddBook, app.createAuthorHandler))
	router.HandlerFunc(http.MethodPost, "/authors/:id/delete",
		app.requirePermission(data.PermissionDeleteBook, app.deleteAuthorHandler))

	// Authentication lifecycle
	router.HandlerFunc(http.MethodPost, "/register", app.registerUserHandler)
	router.HandlerFunc(http.MethodPost, "/login", app.loginUserHandler)
	router.HandlerFunc(http.MethodPost, "/logout", app.logoutUserHandler)

	// recoverPanic is outermost so it catches panics from the other
	// middleware and the router alike.
	return app.recoverPanic(app.rateLimit(app.authenticate(router)))
}
