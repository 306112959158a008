// internal/data/user.go
package data

import (
	"database/sql"
	"errors"
	"time"

	"github.com/aoideee/bookcatalog/internal/validator"

	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
)

// User represents a registered account. Authorization is not stored on the
// user itself: a user's capabilities are the union of the permissions
// granted to the groups they belong to (see PermissionModel).
type User struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Password  password  `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// AnonymousUser is the stand-in user attached to requests that carry no
// valid session. Comparing against it distinguishes "not logged in" from
// "logged in without permission".
var AnonymousUser = &User{}

// IsAnonymous reports whether the user is the AnonymousUser sentinel.
func (u *User) IsAnonymous() bool {
	return u == AnonymousUser
}

// password wraps a bcrypt hash together with the plaintext it was derived
// from, when known. The plaintext pointer stays nil for users loaded from
// the database.
type password struct {
	plaintext *string
	hash      []byte
}

// Set hashes the plaintext password with bcrypt and stores both values.
func (p *password) Set(plaintextPassword string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintextPassword), 12)
	if err != nil {
		return err
	}
	p.plaintext = &plaintextPassword
	p.hash = hash
	return nil
}

// Matches reports whether the plaintext password matches the stored hash.
func (p *password) Matches(plaintextPassword string) (bool, error) {
	err := bcrypt.CompareHashAndPassword(p.hash, []byte(plaintextPassword))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// ValidateEmail records an error on v unless email is present and
// plausibly formed.
func ValidateEmail(v *validator.Validator, email string) {
	v.Check(email != "", "email", "must be provided")
	v.Check(validator.Matches(email, validator.EmailRX), "email", "must be a valid email address")
}

// ValidatePasswordPlaintext records an error on v unless the plaintext
// password is present and between 8 and 72 bytes (the bcrypt input limit).
func ValidatePasswordPlaintext(v *validator.Validator, plaintext string) {
	v.Check(plaintext != "", "password", "must be provided")
	v.Check(len(plaintext) >= 8, "password", "must be at least 8 characters long")
	v.Check(len(plaintext) <= 72, "password", "must not be more than 72 characters long")
}

// ValidateUser checks the registration invariants for user. The password
// plaintext is only checked when it is known, i.e. when Set was called.
func ValidateUser(v *validator.Validator, user *User) {
	v.Check(user.Name != "", "name", "must be provided")
	ValidateEmail(v, user.Email)
	if user.Password.plaintext != nil {
		ValidatePasswordPlaintext(v, *user.Password.plaintext)
	}
}

// UserModel wraps a *sql.DB connection and provides methods for the users
// table.
type UserModel struct {
	DB *sql.DB
}

// Insert adds a new user record. Returns ErrDuplicateEmail if the email is
// already registered.
func (m UserModel) Insert(user *User) error {
	v := validator.New()
	ValidateUser(v, user)
	if !v.Valid() {
		return ValidationError{Errors: v.Errors}
	}

	query := `
		INSERT INTO users (name, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := m.DB.QueryRow(query, user.Name, user.Email, user.Password.hash).
		Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		// 23505 is the Postgres unique_violation code.
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrDuplicateEmail
		}
		return err
	}
	return nil
}

// Count returns the number of registered users.
func (m UserModel) Count() (int, error) {
	var count int
	err := m.DB.QueryRow(`SELECT count(*) FROM users`).Scan(&count)
	return count, err
}

// GetByEmail retrieves the user registered under email.
// Returns ErrRecordNotFound if no such user exists.
func (m UserModel) GetByEmail(email string) (*User, error) {
	query := `
		SELECT id, name, email, password_hash, created_at
		FROM users
		WHERE email = $1`

	var user User
	err := m.DB.QueryRow(query, email).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.Password.hash,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetForSessionToken resolves a session token to its user, ignoring
// sessions that have already expired. Returns ErrRecordNotFound when the
// token is unknown or stale.
func (m UserModel) GetForSessionToken(token string) (*User, error) {
	query := `
		SELECT u.id, u.name, u.email, u.password_hash, u.created_at
		FROM users u
		INNER JOIN sessions s ON s.user_id = u.id
		WHERE s.token = $1 AND s.expires_at > now()`

	var user User
	err := m.DB.QueryRow(query, token).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.Password.hash,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &user, nil
}
