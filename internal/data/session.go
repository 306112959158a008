// internal/data/session.go
package data

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Session is a server-side login record. The token value is opaque and is
// handed to the browser in an HttpOnly cookie; everything else about the
// session lives in this row, so logging out (deleting the row) revokes
// access immediately.
type Session struct {
	Token     string
	UserID    int64
	ExpiresAt time.Time
}

// SessionModel wraps a *sql.DB connection and manages the sessions table.
type SessionModel struct {
	DB *sql.DB
}

// New creates and stores a session for the user, valid for ttl.
func (m SessionModel) New(userID int64, ttl time.Duration) (*Session, error) {
	session := &Session{
		Token:     uuid.NewString(),
		UserID:    userID,
		ExpiresAt: time.Now().Add(ttl),
	}

	query := `
		INSERT INTO sessions (token, user_id, expires_at)
		VALUES ($1, $2, $3)`

	_, err := m.DB.Exec(query, session.Token, session.UserID, session.ExpiresAt)
	if err != nil {
		return nil, err
	}
	return session, nil
}

// DeleteForToken removes the session with the given token. Deleting an
// unknown token is not an error; logout is idempotent.
func (m SessionModel) DeleteForToken(token string) error {
	_, err := m.DB.Exec(`DELETE FROM sessions WHERE token = $1`, token)
	return err
}

// DeleteExpired removes every session past its expiry and reports how many
// rows were deleted. Expired sessions never authenticate regardless; this
// just keeps the table from growing without bound.
func (m SessionModel) DeleteExpired() (int64, error) {
	result, err := m.DB.Exec(`DELETE FROM sessions WHERE expires_at <= now()`)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
