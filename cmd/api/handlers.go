// cmd/api/handlers.go
// This file contains all HTTP request handlers for the books resource.
// Each handler is a method on *applicationDependencies so it has access
// to the logger and database models.
//
// Handlers stay thin: the route table has already enforced the access
// policy by the time one of these runs, the form layer owns input
// validation, and the data layer re-checks entity invariants before
// touching a row. A handler only sequences those steps and shapes the
// response.
package main

import (
	"errors"
	"net/http"

	"github.com/aoideee/bookcatalog/internal/data"
)

// statusChoices returns the status codes with their labels, in display
// order, for building the book form.
func statusChoices() []envelope {
	choices := make([]envelope, 0, len(data.StatusCodes))
	for _, code := range data.StatusCodes {
		choices = append(choices, envelope{"code": code, "label": data.StatusLabels[code]})
	}
	return choices
}

// showBookFormHandler handles GET /books/form.
// It returns everything a client needs to build the creation form: the
// status choices and the authors available for linking.
func (app *applicationDependencies) showBookFormHandler(w http.ResponseWriter, r *http.Request) {
	authors, err := app.models.Authors.GetAll()
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{
		"statuses": statusChoices(),
		"authors":  authors,
	}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// createBookHandler handles POST /books/form.
// It validates the submitted form, stores the cover image if one was
// uploaded, persists the book, and responds 201 with the created record.
// An invalid submission gets a 422 with per-field messages and persists
// nothing.
func (app *applicationDependencies) createBookHandler(w http.ResponseWriter, r *http.Request) {
	form, err := app.readBookForm(w, r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if !form.Validate() {
		app.failedValidationResponse(w, r, form.Errors)
		return
	}

	book := form.Book()

	// The cover is written to disk only after the form is known to be
	// valid, so a rejected submission leaves no file behind.
	if fh := form.CoverFile(); fh != nil {
		path, err := app.saveCoverImage(fh)
		if err != nil {
			app.serverErrorResponse(w, r, err)
			return
		}
		book.CoverImage = path
	}

	err = app.models.Books.Insert(&book)
	if err != nil {
		var validationErr data.ValidationError
		if errors.As(err, &validationErr) {
			app.failedValidationResponse(w, r, validationErr.Errors)
			return
		}
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusCreated, envelope{"book": book}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// listBooksHandler handles GET /books/list.
// It returns every book as a flat list ordered by title.
func (app *applicationDependencies) listBooksHandler(w http.ResponseWriter, r *http.Request) {
	books, err := app.models.Books.GetAll()
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"books": books}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// showBookHandler handles GET /books/:id/detail.
// Responds 404 if no book with that ID exists.
func (app *applicationDependencies) showBookHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	book, err := app.models.Books.Get(id)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"book": book}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// editBookFormHandler handles GET /books/:id/edit.
// It returns the book's current values along with the same form metadata
// as the creation form.
func (app *applicationDependencies) editBookFormHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	book, err := app.models.Books.Get(id)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	authors, err := app.models.Authors.GetAll()
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{
		"book":     book,
		"statuses": statusChoices(),
		"authors":  authors,
	}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// updateBookHandler handles POST /books/:id/edit.
// Edits are full-form submissions, not patches: every field is validated
// and applied, matching how the HTML form round-trips the record. The
// existing cover is kept unless the submission uploads a new one.
func (app *applicationDependencies) updateBookHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	existing, err := app.models.Books.Get(id)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	form, err := app.readBookForm(w, r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if !form.Validate() {
		app.failedValidationResponse(w, r, form.Errors)
		return
	}

	book := form.Book()
	book.ID = existing.ID
	book.CoverImage = existing.CoverImage

	if fh := form.CoverFile(); fh != nil {
		path, err := app.saveCoverImage(fh)
		if err != nil {
			app.serverErrorResponse(w, r, err)
			return
		}
		book.CoverImage = path
	}

	err = app.models.Books.Update(&book)
	if err != nil {
		var validationErr data.ValidationError
		switch {
		case errors.As(err, &validationErr):
			app.failedValidationResponse(w, r, validationErr.Errors)
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"book": book}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// confirmDeleteBookHandler handles GET /books/:id/delete.
// It returns the book as a confirmation payload; the actual deletion
// happens on the POST to the same path.
func (app *applicationDependencies) confirmDeleteBookHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	book, err := app.models.Books.Get(id)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"book": book}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// deleteBookHandler handles POST /books/:id/delete.
// Responds 404 if no book with that ID exists.
func (app *applicationDependencies) deleteBookHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	err = app.models.Books.Delete(id)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"message": "book successfully deleted"}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
