// cmd/api/auth.go
// Handlers for the authentication lifecycle: register, login, logout.
// Sessions are opaque tokens stored server side and handed to the browser
// in an HttpOnly cookie, so a deleted session row is revoked immediately.
package main

import (
	"errors"
	"net/http"
	"time"

	"github.com/aoideee/bookcatalog/internal/data"
)

// sessionTTL is how long a login stays valid without re-authenticating.
const sessionTTL = 24 * time.Hour

// adminGroup is the seeded group that aggregates all four book permissions.
const adminGroup = "Admin"

// setSessionCookie issues the session cookie for the given session.
func setSessionCookie(w http.ResponseWriter, session *data.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// registerUserHandler handles POST /register.
// It reads a urlencoded form with "name", "email" and "password" fields.
// The very first account registered is placed in the Admin group so a
// fresh deployment has someone who can manage the catalog; everyone after
// that starts with no permissions.
func (app *applicationDependencies) registerUserHandler(w http.ResponseWriter, r *http.Request) {
	err := r.ParseForm()
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	user := &data.User{
		Name:  r.PostForm.Get("name"),
		Email: r.PostForm.Get("email"),
	}
	err = user.Password.Set(r.PostForm.Get("password"))
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	existing, err := app.models.Users.Count()
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.models.Users.Insert(user)
	if err != nil {
		var validationErr data.ValidationError
		switch {
		case errors.As(err, &validationErr):
			app.failedValidationResponse(w, r, validationErr.Errors)
		case errors.Is(err, data.ErrDuplicateEmail):
			app.failedValidationResponse(w, r, map[string]string{"email": "a user with this email address already exists"})
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	if existing == 0 {
		err = app.models.Permissions.AddUserToGroup(user.ID, adminGroup)
		if err != nil {
			app.serverErrorResponse(w, r, err)
			return
		}
	}

	err = app.writeJSON(w, http.StatusCreated, envelope{"user": user}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// loginUserHandler handles POST /login.
// A correct email/password pair creates a session and sets the cookie.
// Wrong credentials get a 401; which of the two values was wrong is
// deliberately not disclosed.
func (app *applicationDependencies) loginUserHandler(w http.ResponseWriter, r *http.Request) {
	err := r.ParseForm()
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	email := r.PostForm.Get("email")
	password := r.PostForm.Get("password")

	user, err := app.models.Users.GetByEmail(email)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.invalidCredentialsResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	match, err := user.Password.Matches(password)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
	if !match {
		app.invalidCredentialsResponse(w, r)
		return
	}

	session, err := app.models.Sessions.New(user.ID, sessionTTL)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	setSessionCookie(w, session)
	err = app.writeJSON(w, http.StatusOK, envelope{"user": user}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// logoutUserHandler handles POST /logout.
// It deletes the server-side session and expires the cookie. Logging out
// without a session is a no-op, not an error.
func (app *applicationDependencies) logoutUserHandler(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(sessionCookieName)
	if err == nil {
		err = app.models.Sessions.DeleteForToken(cookie.Value)
		if err != nil {
			app.serverErrorResponse(w, r, err)
			return
		}
	}

	// Expire the cookie client side as well.
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	err = app.writeJSON(w, http.StatusOK, envelope{"message": "logged out"}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
