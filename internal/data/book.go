// Package data provides the data models and database interaction logic
// for the book catalog.
package data

import (
	"database/sql"
	"errors"
	"time"
	"unicode/utf8"

	"github.com/aoideee/bookcatalog/internal/validator"

	"github.com/lib/pq"
)

// Reading status codes stored in the books.status column. The two-letter
// codes are the canonical values; Labels maps them to display names.
const (
	StatusPending  = "PE"
	StatusReading  = "RE"
	StatusFinished = "FI"
)

// StatusCodes lists every accepted status code, in display order.
var StatusCodes = []string{StatusPending, StatusReading, StatusFinished}

// StatusLabels maps a status code to its human-readable label.
var StatusLabels = map[string]string{
	StatusPending:  "Pending",
	StatusReading:  "Reading",
	StatusFinished: "Finished",
}

// User-facing validation messages for the Book entity. The wording is part
// of the external contract: tests and form rendering both rely on the exact
// strings, so they live here rather than in the form layer.
const (
	TitleRequiredMessage = "The title is mandatory"
	TitleLengthMessage   = "The title must be less than 50 characters long"
	ReadDateMessage      = "The read date must be after the published date"
	MinValueMessage      = "Ensure this value is greater than or equal to 1"
	MaxRatingMessage     = "Ensure this value is less than or equal to 5"
)

// Book represents a single book record stored in the database.
// It maps directly to a row in the "books" table; AuthorIDs mirrors the
// book_authors link table and is loaded/saved alongside the row.
type Book struct {
	ID            int64      `json:"id"`                       // Unique identifier assigned by the database
	Title         string     `json:"title"`                    // Title, at most 50 characters
	Pages         int        `json:"pages"`                    // Page count, at least 1
	Rating        *int       `json:"rating,omitempty"`         // Optional rating 1..5; nil when unrated
	Status        string     `json:"status"`                   // Reading status code: PE, RE or FI
	PublishedDate time.Time  `json:"published_date"`           // Date of publication
	ReadDate      *time.Time `json:"read_date,omitempty"`      // Optional date the book was finished
	AuthorIDs     []int64    `json:"authors"`                  // IDs of linked authors (non-owning)
	CoverImage    string     `json:"cover_image,omitempty"`    // Relative path of the stored cover, under covers/
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// StatusLabel returns the display name for the book's status code, or the
// raw code if it is not one of the known values.
func (b *Book) StatusLabel() string {
	if label, ok := StatusLabels[b.Status]; ok {
		return label
	}
	return b.Status
}

// ValidateBook checks every Book invariant and records violations on v,
// keyed by field name:
//
//   - title is non-empty and at most 50 characters
//   - pages is at least 1
//   - rating, when set, is between 1 and 5
//   - status is one of the known codes
//   - published_date is set
//   - read_date, when set, is not before published_date
//
// The empty-title check is recorded first, so an empty title never surfaces
// the length message.
func ValidateBook(v *validator.Validator, book *Book) {
	v.Check(book.Title != "", "title", TitleRequiredMessage)
	v.Check(utf8.RuneCountInString(book.Title) <= 50, "title", TitleLengthMessage)

	v.Check(book.Pages >= 1, "pages", MinValueMessage)

	if book.Rating != nil {
		v.Check(*book.Rating >= 1, "rating", MinValueMessage)
		v.Check(*book.Rating <= 5, "rating", MaxRatingMessage)
	}

	v.Check(validator.In(book.Status, StatusCodes...), "status", "must be one of PE, RE or FI")

	v.Check(!book.PublishedDate.IsZero(), "published_date", "must be provided")

	// Cross-field rule: only meaningful once both dates are present.
	if book.ReadDate != nil && !book.PublishedDate.IsZero() {
		v.Check(!book.ReadDate.Before(book.PublishedDate), "read_date", ReadDateMessage)
	}
}

// BookModel wraps a *sql.DB connection and provides methods for creating,
// reading, updating, and deleting book records together with their author
// links. Every write runs ValidateBook first, so a Book constructed in code
// is held to the same invariants as one that came through a form.
type BookModel struct {
	DB *sql.DB // Shared database connection pool
}

// checkValid runs the entity invariants and converts any failure into a
// ValidationError. Called at the top of Insert and Update.
func (m BookModel) checkValid(book *Book) error {
	v := validator.New()
	ValidateBook(v, book)
	if !v.Valid() {
		return ValidationError{Errors: v.Errors}
	}
	return nil
}

// existingAuthorIDs filters ids down to those that actually exist in the
// authors table. Unknown ids are silently dropped rather than failing the
// whole write.
func existingAuthorIDs(tx *sql.Tx, ids []int64) ([]int64, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	rows, err := tx.Query(`SELECT id FROM authors WHERE id = ANY($1) ORDER BY id`, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var found []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		found = append(found, id)
	}
	return found, rows.Err()
}

// linkDiff reports which author links must be inserted and which removed to
// turn the old link set into the new one. Order is not significant.
type linkDiff struct {
	toInsert []int64
	toDelete []int64
}

// diffAuthorIDs compares the stored author links with the requested set and
// returns the minimal insert/delete lists. Ids present in both sets are
// left untouched.
func diffAuthorIDs(oldIDs, newIDs []int64) linkDiff {
	oldSet := make(map[int64]bool, len(oldIDs))
	for _, id := range oldIDs {
		oldSet[id] = true
	}
	newSet := make(map[int64]bool, len(newIDs))
	for _, id := range newIDs {
		newSet[id] = true
	}

	var diff linkDiff
	for _, id := range newIDs {
		if !oldSet[id] {
			diff.toInsert = append(diff.toInsert, id)
		}
	}
	for _, id := range oldIDs {
		if !newSet[id] {
			diff.toDelete = append(diff.toDelete, id)
		}
	}
	return diff
}

// Insert adds a new book record and its author links inside a single
// transaction. After a successful insert, the database-assigned id,
// created_at, and updated_at values are written back into the book struct,
// and AuthorIDs is replaced with the ids that were actually linked.
func (m BookModel) Insert(book *Book) error {
	if err := m.checkValid(book); err != nil {
		return err
	}

	tx, err := m.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO books (title, pages, rating, status, published_date, read_date, cover_image)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`

	err = tx.QueryRow(
		query,
		book.Title,
		book.Pages,
		book.Rating,
		book.Status,
		book.PublishedDate,
		book.ReadDate,
		book.CoverImage,
	).Scan(&book.ID, &book.CreatedAt, &book.UpdatedAt)
	if err != nil {
		return err
	}

	linked, err := existingAuthorIDs(tx, book.AuthorIDs)
	if err != nil {
		return err
	}
	if len(linked) > 0 {
		_, err = tx.Exec(`
			INSERT INTO book_authors (book_id, author_id)
			SELECT $1, unnest($2::bigint[])`,
			book.ID, pq.Array(linked))
		if err != nil {
			return err
		}
	}
	book.AuthorIDs = linked

	return tx.Commit()
}

// Get retrieves a single book and its author ids by primary key.
// Returns ErrRecordNotFound if no book with the given id exists.
func (m BookModel) Get(id int64) (*Book, error) {
	if id < 1 {
		return nil, ErrRecordNotFound
	}

	query := `
		SELECT id, title, pages, rating, status, published_date, read_date, cover_image, created_at, updated_at
		FROM books
		WHERE id = $1`

	var book Book
	err := m.DB.QueryRow(query, id).Scan(
		&book.ID,
		&book.Title,
		&book.Pages,
		&book.Rating,
		&book.Status,
		&book.PublishedDate,
		&book.ReadDate,
		&book.CoverImage,
		&book.CreatedAt,
		&book.UpdatedAt,
	)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}

	book.AuthorIDs, err = m.authorIDsFor(id)
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// authorIDsFor returns the ids of all authors linked to book id, ascending.
func (m BookModel) authorIDsFor(id int64) ([]int64, error) {
	rows, err := m.DB.Query(`SELECT author_id FROM book_authors WHERE book_id = $1 ORDER BY author_id`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []int64{}
	for rows.Next() {
		var authorID int64
		if err := rows.Scan(&authorID); err != nil {
			return nil, err
		}
		ids = append(ids, authorID)
	}
	return ids, rows.Err()
}

// GetAll retrieves every book ordered by title. Author links are not
// loaded here; the list view does not show them and the detail view loads
// them through Get.
func (m BookModel) GetAll() ([]*Book, error) {
	query := `
		SELECT id, title, pages, rating, status, published_date, read_date, cover_image, created_at, updated_at
		FROM books
		ORDER BY title, id`

	rows, err := m.DB.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	books := []*Book{}
	for rows.Next() {
		var book Book
		err := rows.Scan(
			&book.ID,
			&book.Title,
			&book.Pages,
			&book.Rating,
			&book.Status,
			&book.PublishedDate,
			&book.ReadDate,
			&book.CoverImage,
			&book.CreatedAt,
			&book.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		books = append(books, &book)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return books, nil
}

// Update saves the book's fields and reconciles its author links inside a
// single transaction, so a failed write leaves both the row and the link
// table untouched. Returns ErrRecordNotFound if the book no longer exists.
// Concurrent updates to the same book are last-write-wins.
func (m BookModel) Update(book *Book) error {
	if err := m.checkValid(book); err != nil {
		return err
	}

	tx, err := m.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		UPDATE books
		SET title = $1, pages = $2, rating = $3, status = $4,
		    published_date = $5, read_date = $6, cover_image = $7,
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = $8
		RETURNING updated_at`

	err = tx.QueryRow(
		query,
		book.Title,
		book.Pages,
		book.Rating,
		book.Status,
		book.PublishedDate,
		book.ReadDate,
		book.CoverImage,
		book.ID,
	).Scan(&book.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrRecordNotFound
		}
		return err
	}

	// Reconcile author links: fetch the stored set, diff against the
	// requested set, and apply only the changes.
	rows, err := tx.Query(`SELECT author_id FROM book_authors WHERE book_id = $1`, book.ID)
	if err != nil {
		return err
	}
	var oldIDs []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return err
		}
		oldIDs = append(oldIDs, id)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return err
	}
	rows.Close()

	newIDs, err := existingAuthorIDs(tx, book.AuthorIDs)
	if err != nil {
		return err
	}

	diff := diffAuthorIDs(oldIDs, newIDs)
	if len(diff.toInsert) > 0 {
		_, err = tx.Exec(`
			INSERT INTO book_authors (book_id, author_id)
			SELECT $1, unnest($2::bigint[])`,
			book.ID, pq.Array(diff.toInsert))
		if err != nil {
			return err
		}
	}
	if len(diff.toDelete) > 0 {
		_, err = tx.Exec(`
			DELETE FROM book_authors
			WHERE book_id = $1 AND author_id = ANY($2)`,
			book.ID, pq.Array(diff.toDelete))
		if err != nil {
			return err
		}
	}
	book.AuthorIDs = newIDs

	return tx.Commit()
}

// Delete removes the book with the given id. Its author links go with it
// (ON DELETE CASCADE on book_authors); the authors themselves survive.
// Returns ErrRecordNotFound if no matching record exists.
func (m BookModel) Delete(id int64) error {
	if id < 1 {
		return ErrRecordNotFound
	}

	result, err := m.DB.Exec(`DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}
