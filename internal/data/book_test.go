package data

import (
	"strings"
	"testing"
	"time"

	"github.com/aoideee/bookcatalog/internal/validator"

	"github.com/stretchr/testify/assert"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// validBook returns a book that passes every invariant; individual tests
// break one field at a time.
func validBook() *Book {
	return &Book{
		Title:         "Cien años de soledad",
		Pages:         100,
		Status:        StatusPending,
		PublishedDate: date(2020, time.January, 1),
	}
}

func validate(book *Book) *validator.Validator {
	v := validator.New()
	ValidateBook(v, book)
	return v
}

func TestValidateBook_ValidWithoutOptionalFields(t *testing.T) {
	book := validBook()
	v := validate(book)

	assert.True(t, v.Valid())
	assert.Nil(t, book.Rating)
	assert.Nil(t, book.ReadDate)
}

func TestValidateBook_PagesZeroFails(t *testing.T) {
	book := validBook()
	book.Pages = 0
	v := validate(book)

	assert.False(t, v.Valid())
	assert.Equal(t, MinValueMessage, v.Errors["pages"])
}

func TestValidateBook_PagesNegativeFails(t *testing.T) {
	book := validBook()
	book.Pages = -10
	v := validate(book)

	assert.False(t, v.Valid())
	assert.Contains(t, v.Errors, "pages")
}

func TestValidateBook_PagesOneIsEnough(t *testing.T) {
	book := validBook()
	book.Pages = 1

	assert.True(t, validate(book).Valid())
}

func TestValidateBook_RatingBelowRangeFails(t *testing.T) {
	book := validBook()
	rating := 0
	book.Rating = &rating
	v := validate(book)

	assert.False(t, v.Valid())
	assert.Equal(t, MinValueMessage, v.Errors["rating"])
}

func TestValidateBook_RatingAboveRangeFails(t *testing.T) {
	book := validBook()
	rating := 6
	book.Rating = &rating
	v := validate(book)

	assert.False(t, v.Valid())
	assert.Equal(t, MaxRatingMessage, v.Errors["rating"])
}

func TestValidateBook_RatingBoundsPass(t *testing.T) {
	for _, rating := range []int{1, 2, 3, 4, 5} {
		book := validBook()
		book.Rating = &rating
		assert.True(t, validate(book).Valid(), "rating %d should be accepted", rating)
	}
}

func TestValidateBook_ReadDateBeforePublishedFails(t *testing.T) {
	book := validBook()
	book.Status = StatusFinished
	readDate := date(2019, time.December, 31)
	book.ReadDate = &readDate
	v := validate(book)

	assert.False(t, v.Valid())
	assert.Equal(t, ReadDateMessage, v.Errors["read_date"])
}

func TestValidateBook_ReadDateEqualToPublishedPasses(t *testing.T) {
	book := validBook()
	readDate := book.PublishedDate
	book.ReadDate = &readDate

	assert.True(t, validate(book).Valid())
}

func TestValidateBook_ReadDateAfterPublishedPasses(t *testing.T) {
	book := validBook()
	readDate := date(2021, time.June, 15)
	book.ReadDate = &readDate

	assert.True(t, validate(book).Valid())
}

func TestValidateBook_EmptyTitleFailsWithMandatoryMessage(t *testing.T) {
	book := validBook()
	book.Title = ""
	v := validate(book)

	assert.False(t, v.Valid())
	assert.Equal(t, TitleRequiredMessage, v.Errors["title"])
}

func TestValidateBook_LongTitleFailsWithLengthMessage(t *testing.T) {
	book := validBook()
	book.Title = strings.Repeat("A", 51)
	v := validate(book)

	assert.False(t, v.Valid())
	assert.Equal(t, TitleLengthMessage, v.Errors["title"])
}

func TestValidateBook_TitleAtLimitPasses(t *testing.T) {
	book := validBook()
	book.Title = strings.Repeat("A", 50)

	assert.True(t, validate(book).Valid())
}

func TestValidateBook_UnknownStatusFails(t *testing.T) {
	book := validBook()
	book.Status = "XX"
	v := validate(book)

	assert.False(t, v.Valid())
	assert.Contains(t, v.Errors, "status")
}

func TestValidateBook_MissingPublishedDateFails(t *testing.T) {
	book := validBook()
	book.PublishedDate = time.Time{}
	v := validate(book)

	assert.False(t, v.Valid())
	assert.Contains(t, v.Errors, "published_date")
}

func TestStatusLabel(t *testing.T) {
	book := validBook()
	assert.Equal(t, "Pending", book.StatusLabel())

	book.Status = "??"
	assert.Equal(t, "??", book.StatusLabel())
}

func TestDiffAuthorIDs_NoChange(t *testing.T) {
	old := []int64{1, 2, 3}
	diff := diffAuthorIDs(old, []int64{1, 2, 3})

	assert.Empty(t, diff.toInsert)
	assert.Empty(t, diff.toDelete)
}

func TestDiffAuthorIDs_OnlyDelete(t *testing.T) {
	diff := diffAuthorIDs([]int64{1, 2, 3}, []int64{2})

	assert.Empty(t, diff.toInsert)
	assert.ElementsMatch(t, []int64{1, 3}, diff.toDelete)
}

func TestDiffAuthorIDs_OnlyInsert(t *testing.T) {
	diff := diffAuthorIDs([]int64{1}, []int64{1, 4, 5})

	assert.ElementsMatch(t, []int64{4, 5}, diff.toInsert)
	assert.Empty(t, diff.toDelete)
}

func TestDiffAuthorIDs_InsertAndDelete(t *testing.T) {
	diff := diffAuthorIDs([]int64{1, 2}, []int64{2, 3})

	assert.ElementsMatch(t, []int64{3}, diff.toInsert)
	assert.ElementsMatch(t, []int64{1}, diff.toDelete)
}

func TestDiffAuthorIDs_FromEmpty(t *testing.T) {
	diff := diffAuthorIDs(nil, []int64{7})

	assert.ElementsMatch(t, []int64{7}, diff.toInsert)
	assert.Empty(t, diff.toDelete)
}
