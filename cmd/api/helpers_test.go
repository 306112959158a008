package main

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// multipartBookRequest builds a multipart POST with the given fields and
// an uploaded cover file.
func multipartBookRequest(t *testing.T, fields map[string]string, coverName string, coverContent []byte) *http.Request {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for key, value := range fields {
		require.NoError(t, mw.WriteField(key, value))
	}
	if coverName != "" {
		part, err := mw.CreateFormFile("cover_image", coverName)
		require.NoError(t, err)
		_, err = part.Write(coverContent)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	r := httptest.NewRequest(http.MethodPost, "/books/form", &body)
	r.Header.Set("Content-Type", mw.FormDataContentType())
	return r
}

func TestReadBookForm_URLEncoded(t *testing.T) {
	app := newTestApp()

	form := url.Values{
		"title":          {"Test Book"},
		"pages":          {"100"},
		"status":         {"PE"},
		"published_date": {"2020-01-01"},
	}
	r := httptest.NewRequest(http.MethodPost, "/books/form", strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	w := httptest.NewRecorder()
	bookForm, err := app.readBookForm(w, r)
	require.NoError(t, err)

	assert.True(t, bookForm.Validate())
	assert.Equal(t, "Test Book", bookForm.Book().Title)
	assert.Nil(t, bookForm.CoverFile())
}

func TestReadBookForm_MultipartWithCover(t *testing.T) {
	app := newTestApp()

	r := multipartBookRequest(t, map[string]string{
		"title":          "Test Book",
		"pages":          "100",
		"status":         "RE",
		"published_date": "2020-01-01",
	}, "cover.jpg", []byte("file_content"))

	w := httptest.NewRecorder()
	bookForm, err := app.readBookForm(w, r)
	require.NoError(t, err)

	assert.True(t, bookForm.Validate())
	require.NotNil(t, bookForm.CoverFile())
	assert.Equal(t, "cover.jpg", bookForm.CoverFile().Filename)
}

func TestSaveCoverImage_StoresUnderCovers(t *testing.T) {
	app := newTestApp()
	app.config.mediaDir = t.TempDir()
	require.NoError(t, os.MkdirAll(coversDir(app.config.mediaDir), 0o755))

	r := multipartBookRequest(t, map[string]string{
		"title":          "Test Book",
		"pages":          "100",
		"status":         "PE",
		"published_date": "2020-01-01",
	}, "cover.jpg", []byte("file_content"))

	w := httptest.NewRecorder()
	bookForm, err := app.readBookForm(w, r)
	require.NoError(t, err)
	require.NotNil(t, bookForm.CoverFile())

	path, err := app.saveCoverImage(bookForm.CoverFile())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(path, "covers/"))
	assert.True(t, strings.HasSuffix(path, "_cover.jpg"))

	content, err := os.ReadFile(filepath.Join(app.config.mediaDir, filepath.FromSlash(path)))
	require.NoError(t, err)
	assert.Equal(t, []byte("file_content"), content)
}

func TestStatusChoices(t *testing.T) {
	choices := statusChoices()
	require.Len(t, choices, 3)
	assert.Equal(t, "PE", choices[0]["code"])
	assert.Equal(t, "Pending", choices[0]["label"])
	assert.Equal(t, "Finished", choices[2]["label"])
}
