package forms

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrors_PreserveOrder(t *testing.T) {
	e := Errors{}
	e.Add("title", "first")
	e.Add("title", "second")

	assert.Equal(t, []string{"first", "second"}, e["title"])
	assert.Equal(t, "first", e.Get("title"))
}

func TestErrors_GetMissingField(t *testing.T) {
	e := Errors{}
	assert.Equal(t, "", e.Get("title"))
}

func TestForm_RequiredString(t *testing.T) {
	f := New(url.Values{"title": {"present"}})
	assert.Equal(t, "present", f.RequiredString("title", "required"))
	assert.True(t, f.Valid())

	assert.Equal(t, "", f.RequiredString("missing", "required"))
	assert.False(t, f.Valid())
	assert.Equal(t, "required", f.Errors.Get("missing"))
}

func TestForm_Int(t *testing.T) {
	f := New(url.Values{"pages": {"42"}})
	n, ok := f.Int("pages", "required")
	require.True(t, ok)
	assert.Equal(t, 42, n)
}

func TestForm_IntMalformed(t *testing.T) {
	f := New(url.Values{"pages": {"4x"}})
	_, ok := f.Int("pages", "required")
	assert.False(t, ok)
	assert.Contains(t, f.Errors, "pages")
}

func TestForm_OptionalIntAbsent(t *testing.T) {
	f := New(url.Values{})
	n, ok := f.OptionalInt("rating")
	assert.True(t, ok)
	assert.Nil(t, n)
	assert.True(t, f.Valid())
}

func TestForm_Date(t *testing.T) {
	f := New(url.Values{"published_date": {"2020-01-01"}})
	d, ok := f.Date("published_date")
	require.True(t, ok)
	assert.Equal(t, 2020, d.Year())
}

func TestForm_DateMalformed(t *testing.T) {
	f := New(url.Values{"published_date": {"01-01-2020"}})
	_, ok := f.Date("published_date")
	assert.False(t, ok)
	assert.Contains(t, f.Errors, "published_date")
}

func TestForm_IDList(t *testing.T) {
	f := New(url.Values{"authors": {"1", "2"}})
	assert.Equal(t, []int64{1, 2}, f.IDList("authors"))
	assert.True(t, f.Valid())
}

func TestForm_IDListRejectsZero(t *testing.T) {
	f := New(url.Values{"authors": {"0"}})
	assert.Nil(t, f.IDList("authors"))
	assert.False(t, f.Valid())
}
