// internal/data/models.go
package data

import (
	"database/sql"
	"errors"
	"fmt"
)

// Models is a top-level container that groups all database model types together.
// It is passed around the application via applicationDependencies so every handler
// has access to the database without importing sql directly.
type Models struct {
	Books       BookModel       // Book records plus their author links
	Authors     AuthorModel     // Author records
	Users       UserModel       // User accounts
	Permissions PermissionModel // Group-granted capability lookups
	Sessions    SessionModel    // Server-side login sessions
}

// NewModels constructs a Models value wired up to the given database connection pool.
// Call this once during application startup and store the result in applicationDependencies.
func NewModels(db *sql.DB) Models {
	return Models{
		Books:       BookModel{DB: db},
		Authors:     AuthorModel{DB: db},
		Users:       UserModel{DB: db},
		Permissions: PermissionModel{DB: db},
		Sessions:    SessionModel{DB: db},
	}
}

// ErrRecordNotFound is returned when a query finds no matching row.
var ErrRecordNotFound = errors.New("record not found")

// ErrDuplicateEmail is returned when an insert would violate the unique
// constraint on users.email.
var ErrDuplicateEmail = errors.New("duplicate email")

// ValidationError carries the field-keyed messages produced when an entity
// fails its invariant checks at the persistence boundary. The model layer
// returns it from Insert/Update so that records constructed programmatically,
// without going through the form layer, are still rejected before any row
// is written.
type ValidationError struct {
	Errors map[string]string // field name -> message
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("entity validation failed on %d field(s)", len(e.Errors))
}
