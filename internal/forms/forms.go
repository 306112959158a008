// Package forms turns untrusted web form input into typed values.
//
// It sits one layer above internal/validator: where the validator checks an
// already-typed entity, this package owns the coercion step (strings from a
// request body into ints, dates and id lists) and collects every failure
// into an ordered list of user-facing messages per field. The first message
// recorded for a field is the one a caller should surface.
package forms

import (
	"mime/multipart"
	"net/url"
	"strconv"
	"time"
)

// DateFormat is the layout accepted for date fields.
const DateFormat = "2006-01-02"

// Errors maps a field name to the ordered list of messages raised for it.
type Errors map[string][]string

// Add appends a message to the list for field, preserving the order in
// which failures were raised.
func (e Errors) Add(field, message string) {
	e[field] = append(e[field], message)
}

// Get returns the first message recorded for field, or "" if the field
// has no errors.
func (e Errors) Get(field string) string {
	if len(e[field]) == 0 {
		return ""
	}
	return e[field][0]
}

// Form wraps a submitted value set plus any uploaded files, and
// accumulates coercion and validation errors as fields are read.
type Form struct {
	Values url.Values
	Files  map[string]*multipart.FileHeader
	Errors Errors
}

// New returns a Form over the given submitted values with an empty error
// collection. Use AddFile to attach uploaded files from a multipart body.
func New(values url.Values) *Form {
	return &Form{
		Values: values,
		Files:  map[string]*multipart.FileHeader{},
		Errors: Errors{},
	}
}

// AddFile attaches an uploaded file header under the given field name.
func (f *Form) AddFile(field string, fh *multipart.FileHeader) {
	if fh != nil {
		f.Files[field] = fh
	}
}

// File returns the uploaded file header for field, or nil when the field
// was not part of the submission.
func (f *Form) File(field string) *multipart.FileHeader {
	return f.Files[field]
}

// Valid reports whether no errors have been recorded so far.
func (f *Form) Valid() bool {
	return len(f.Errors) == 0
}

// String reads a trimmed-nothing string field; the raw submitted value is
// returned as-is, "" when absent.
func (f *Form) String(field string) string {
	return f.Values.Get(field)
}

// RequiredString reads a string field and records requiredMessage when it
// is empty or absent.
func (f *Form) RequiredString(field, requiredMessage string) string {
	value := f.Values.Get(field)
	if value == "" {
		f.Errors.Add(field, requiredMessage)
	}
	return value
}

// Int coerces a field to an integer. A missing field records
// requiredMessage; a present but non-numeric value records a whole-number
// message. The boolean result reports whether a usable value was read.
func (f *Form) Int(field, requiredMessage string) (int, bool) {
	value := f.Values.Get(field)
	if value == "" {
		f.Errors.Add(field, requiredMessage)
		return 0, false
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		f.Errors.Add(field, "Enter a whole number")
		return 0, false
	}
	return n, true
}

// OptionalInt coerces a field to an integer when present. Absent fields
// yield (nil, true); malformed values record an error and yield
// (nil, false).
func (f *Form) OptionalInt(field string) (*int, bool) {
	value := f.Values.Get(field)
	if value == "" {
		return nil, true
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		f.Errors.Add(field, "Enter a whole number")
		return nil, false
	}
	return &n, true
}

// Date coerces a required field to a date in DateFormat. Missing or
// malformed values record an error; the boolean result reports success.
func (f *Form) Date(field string) (time.Time, bool) {
	value := f.Values.Get(field)
	if value == "" {
		f.Errors.Add(field, "This field is required")
		return time.Time{}, false
	}
	t, err := time.Parse(DateFormat, value)
	if err != nil {
		f.Errors.Add(field, "Enter a valid date")
		return time.Time{}, false
	}
	return t, true
}

// OptionalDate coerces a field to a date when present. Absent fields yield
// (nil, true); malformed values record an error and yield (nil, false).
func (f *Form) OptionalDate(field string) (*time.Time, bool) {
	value := f.Values.Get(field)
	if value == "" {
		return nil, true
	}
	t, err := time.Parse(DateFormat, value)
	if err != nil {
		f.Errors.Add(field, "Enter a valid date")
		return nil, false
	}
	return &t, true
}

// IDList coerces a repeated field into a list of positive integer ids.
// Any value that is not a positive integer records a single error for the
// field and discards the whole list.
func (f *Form) IDList(field string) []int64 {
	raw := f.Values[field]
	if len(raw) == 0 {
		return nil
	}
	ids := make([]int64, 0, len(raw))
	for _, value := range raw {
		id, err := strconv.ParseInt(value, 10, 64)
		if err != nil || id < 1 {
			f.Errors.Add(field, "Select a valid choice")
			return nil
		}
		ids = append(ids, id)
	}
	return ids
}
