package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewValidatorIsValid(t *testing.T) {
	v := New()
	assert.True(t, v.Valid())
	assert.Empty(t, v.Errors)
}

func TestCheck_RecordsFailure(t *testing.T) {
	v := New()
	v.Check(false, "pages", "must be at least 1")

	assert.False(t, v.Valid())
	assert.Equal(t, "must be at least 1", v.Errors["pages"])
}

func TestCheck_PassingCheckRecordsNothing(t *testing.T) {
	v := New()
	v.Check(true, "pages", "must be at least 1")

	assert.True(t, v.Valid())
}

func TestAddError_FirstErrorWins(t *testing.T) {
	v := New()
	v.AddError("title", "first message")
	v.AddError("title", "second message")

	assert.Equal(t, "first message", v.Errors["title"])
}

func TestIn(t *testing.T) {
	assert.True(t, In("RE", "PE", "RE", "FI"))
	assert.False(t, In("XX", "PE", "RE", "FI"))
	assert.False(t, In("PE"))
}

func TestMatches_Email(t *testing.T) {
	assert.True(t, Matches("reader@example.com", EmailRX))
	assert.False(t, Matches("not-an-email", EmailRX))
}

func TestUnique(t *testing.T) {
	assert.True(t, Unique([]string{"a", "b", "c"}))
	assert.False(t, Unique([]string{"a", "b", "a"}))
	assert.True(t, Unique(nil))
}
