// cmd/api/helpers.go
// This file contains general-purpose helper functions for the application.
// Error-response helpers live in errors.go; only non-error utilities are here.
package main

import (
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/aoideee/bookcatalog/internal/forms"

	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"
)

// envelope is the top-level JSON wrapper type used for all responses.
// Every response body is a JSON object with at least one named key,
// e.g. {"book": {...}} or {"books": [...]}.
type envelope map[string]any

// maxUploadSize caps form submissions, cover image included.
const maxUploadSize = 10 << 20 // 10 MB

// readIDParam extracts and validates the ":id" URL parameter added by httprouter.
// Returns an error if the value is missing, non-numeric, or less than 1.
func (app *applicationDependencies) readIDParam(r *http.Request) (int64, error) {
	params := httprouter.ParamsFromContext(r.Context())
	id, err := strconv.ParseInt(params.ByName("id"), 10, 64)
	if err != nil || id < 1 {
		return 0, errors.New("invalid id parameter")
	}
	return id, nil
}

// writeJSON marshals data to indented JSON, applies any custom headers,
// sets Content-Type to "application/json", writes the status code, and
// streams the body to the client.
func (app *applicationDependencies) writeJSON(w http.ResponseWriter, status int, data envelope, headers http.Header) error {
	js, err := json.MarshalIndent(data, "", "\t")
	if err != nil {
		return err
	}
	js = append(js, '\n') // Trailing newline makes curl output nicer.

	for key, value := range headers {
		w.Header()[key] = value
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(js)
	return nil
}

// readBookForm parses a book submission from the request body. Both HTML
// form encodings are accepted: multipart when a cover image rides along,
// plain urlencoded otherwise. The request body is capped at maxUploadSize
// either way.
func (app *applicationDependencies) readBookForm(w http.ResponseWriter, r *http.Request) (*forms.BookForm, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)

	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "multipart/form-data") {
		if err := r.ParseMultipartForm(maxUploadSize); err != nil {
			return nil, err
		}
		var cover *multipart.FileHeader
		if files := r.MultipartForm.File["cover_image"]; len(files) > 0 {
			cover = files[0]
		}
		return forms.NewBookForm(url.Values(r.MultipartForm.Value), cover), nil
	}

	if err := r.ParseForm(); err != nil {
		return nil, err
	}
	return forms.NewBookForm(r.PostForm, nil), nil
}

// coversDir returns the directory cover images are stored in, under the
// configured media root.
func coversDir(mediaDir string) string {
	return filepath.Join(mediaDir, "covers")
}

// saveCoverImage writes an uploaded cover to disk under <media>/covers/ and
// returns its media-relative path (always "covers/<name>"). The stored name
// keeps the uploaded base name, prefixed with a short random token so two
// uploads of "cover.jpg" don't clobber each other.
func (app *applicationDependencies) saveCoverImage(fh *multipart.FileHeader) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	name := filepath.Base(fh.Filename)
	if name == "." || name == string(filepath.Separator) || name == "" {
		name = "cover"
	}
	name = uuid.NewString()[:8] + "_" + name

	dstPath := filepath.Join(coversDir(app.config.mediaDir), name)
	dst, err := os.Create(dstPath)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(dstPath)
		return "", err
	}

	return "covers/" + name, nil
}
