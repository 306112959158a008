// internal/data/author.go
package data

import (
	"database/sql"
	"errors"
	"time"
	"unicode/utf8"

	"github.com/aoideee/bookcatalog/internal/validator"
)

// Author represents a single author record. Authors are linked to books
// through the book_authors table but are not owned by any book: deleting a
// book leaves its authors in place, and deleting an author only detaches
// it from the books that reference it.
type Author struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`      // Given name, at most 100 characters
	LastName  string    `json:"last_name"` // Family name, at most 100 characters
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ValidateAuthor records any invariant violations for author on v.
func ValidateAuthor(v *validator.Validator, author *Author) {
	v.Check(author.Name != "", "name", "must be provided")
	v.Check(utf8.RuneCountInString(author.Name) <= 100, "name", "must not be more than 100 characters long")
	v.Check(author.LastName != "", "last_name", "must be provided")
	v.Check(utf8.RuneCountInString(author.LastName) <= 100, "last_name", "must not be more than 100 characters long")
}

// AuthorModel wraps a *sql.DB connection and provides CRUD methods for the
// authors table.
type AuthorModel struct {
	DB *sql.DB
}

// Insert adds a new author record, validating it first. The generated id
// and timestamps are written back into the struct.
func (m AuthorModel) Insert(author *Author) error {
	v := validator.New()
	ValidateAuthor(v, author)
	if !v.Valid() {
		return ValidationError{Errors: v.Errors}
	}

	query := `
		INSERT INTO authors (name, last_name)
		VALUES ($1, $2)
		RETURNING id, created_at, updated_at`

	return m.DB.QueryRow(query, author.Name, author.LastName).
		Scan(&author.ID, &author.CreatedAt, &author.UpdatedAt)
}

// Get retrieves a single author by primary key.
// Returns ErrRecordNotFound if no author with the given id exists.
func (m AuthorModel) Get(id int64) (*Author, error) {
	if id < 1 {
		return nil, ErrRecordNotFound
	}

	query := `
		SELECT id, name, last_name, created_at, updated_at
		FROM authors
		WHERE id = $1`

	var author Author
	err := m.DB.QueryRow(query, id).Scan(
		&author.ID,
		&author.Name,
		&author.LastName,
		&author.CreatedAt,
		&author.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &author, nil
}

// GetAll retrieves every author, ordered by last name then name.
func (m AuthorModel) GetAll() ([]*Author, error) {
	query := `
		SELECT id, name, last_name, created_at, updated_at
		FROM authors
		ORDER BY last_name, name, id`

	rows, err := m.DB.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	authors := []*Author{}
	for rows.Next() {
		var author Author
		err := rows.Scan(
			&author.ID,
			&author.Name,
			&author.LastName,
			&author.CreatedAt,
			&author.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		authors = append(authors, &author)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return authors, nil
}

// Delete removes the author with the given id. Link rows in book_authors
// are removed by the ON DELETE CASCADE constraint; the books themselves
// are untouched. Returns ErrRecordNotFound if no matching record exists.
func (m AuthorModel) Delete(id int64) error {
	if id < 1 {
		return ErrRecordNotFound
	}

	result, err := m.DB.Exec(`DELETE FROM authors WHERE id = $1`, id)
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
