// cmd/api/authors.go
// Handlers for the authors resource. Authors exist so books can link to
// them; the surface is deliberately small: list, create, delete.
package main

import (
	"errors"
	"net/http"

	"github.com/aoideee/bookcatalog/internal/data"
)

// listAuthorsHandler handles GET /authors/list.
func (app *applicationDependencies) listAuthorsHandler(w http.ResponseWriter, r *http.Request) {
	authors, err := app.models.Authors.GetAll()
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"authors": authors}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// createAuthorHandler handles POST /authors.
// It reads a urlencoded form with "name" and "last_name" fields and
// responds 201 with the created author, or 422 with field errors.
func (app *applicationDependencies) createAuthorHandler(w http.ResponseWriter, r *http.Request) {
	err := r.ParseForm()
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	author := &data.Author{
		Name:     r.PostForm.Get("name"),
		LastName: r.PostForm.Get("last_name"),
	}

	err = app.models.Authors.Insert(author)
	if err != nil {
		var validationErr data.ValidationError
		if errors.As(err, &validationErr) {
			app.failedValidationResponse(w, r, validationErr.Errors)
			return
		}
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusCreated, envelope{"author": author}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// deleteAuthorHandler handles POST /authors/:id/delete.
// Deleting an author detaches it from any books that reference it; the
// books themselves are untouched.
func (app *applicationDependencies) deleteAuthorHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	err = app.models.Authors.Delete(id)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"message": "author successfully deleted"}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
