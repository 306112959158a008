// internal/forms/book.go
package forms

import (
	"mime/multipart"
	"net/url"
	"unicode/utf8"

	"github.com/aoideee/bookcatalog/internal/data"
	"github.com/aoideee/bookcatalog/internal/validator"
)

// BookForm validates a submitted book, create or edit. Build one with
// NewBookForm, call Validate, and read either Book() or Errors.
//
// Field rules run first, then the read-date/published-date cross check,
// which only fires when both dates parsed cleanly. All messages for a
// field are kept in the order they were raised; Errors.Get returns the
// first.
type BookForm struct {
	*Form
	book data.Book
}

// NewBookForm wraps the submitted values (and optional uploaded cover) in
// a BookForm ready for validation.
func NewBookForm(values url.Values, cover *multipart.FileHeader) *BookForm {
	f := &BookForm{Form: New(values)}
	f.AddFile("cover_image", cover)
	return f
}

// Validate coerces and checks every field, returning true when the whole
// submission is acceptable. The rules, and their exact messages, are:
//
//	title           required ("The title is mandatory"), then at most 50
//	                characters ("The title must be less than 50 characters
//	                long"); an empty title never reaches the length check
//	pages           required integer, at least 1
//	rating          optional integer, 1 to 5 when present
//	status          required, one of the status codes
//	published_date  required date, YYYY-MM-DD
//	read_date       optional date, not before published_date
//	authors         optional list of positive integer author ids
//	cover_image     optional uploaded file
func (f *BookForm) Validate() bool {
	title := f.RequiredString("title", data.TitleRequiredMessage)
	if title != "" && utf8.RuneCountInString(title) > 50 {
		f.Errors.Add("title", data.TitleLengthMessage)
	}
	f.book.Title = title

	if pages, ok := f.Int("pages", "This field is required"); ok {
		if pages < 1 {
			f.Errors.Add("pages", data.MinValueMessage)
		}
		f.book.Pages = pages
	}

	if rating, ok := f.OptionalInt("rating"); ok && rating != nil {
		if *rating < 1 {
			f.Errors.Add("rating", data.MinValueMessage)
		} else if *rating > 5 {
			f.Errors.Add("rating", data.MaxRatingMessage)
		}
		f.book.Rating = rating
	}

	status := f.RequiredString("status", "This field is required")
	if status != "" && !validator.In(status, data.StatusCodes...) {
		f.Errors.Add("status", "Select a valid choice")
	}
	f.book.Status = status

	published, publishedOK := f.Date("published_date")
	if publishedOK {
		f.book.PublishedDate = published
	}

	readDate, readOK := f.OptionalDate("read_date")
	if readOK && readDate != nil {
		f.book.ReadDate = readDate
	}

	// Cross-field rule: runs only when both dates parsed successfully,
	// and attaches its message to read_date rather than the whole form.
	if publishedOK && readOK && readDate != nil && readDate.Before(published) {
		f.Errors.Add("read_date", data.ReadDateMessage)
	}

	f.book.AuthorIDs = f.IDList("authors")

	return f.Valid()
}

// Book returns the typed value assembled during Validate. Only meaningful
// when Validate returned true; an invalid form yields a partially filled
// value that must not be persisted.
func (f *BookForm) Book() data.Book {
	return f.book
}

// CoverFile returns the uploaded cover image header, or nil when the
// submission carried none.
func (f *BookForm) CoverFile() *multipart.FileHeader {
	return f.File("cover_image")
}
