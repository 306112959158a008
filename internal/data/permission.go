// internal/data/permission.go
package data

import (
	"database/sql"
)

// Permission codes for the book entity. Users hold these indirectly: a
// group (for example "Admin") bundles a set of codes, and membership in
// the group grants them all. The codes mirror the four CRUD actions.
const (
	PermissionAddBook    = "add_book"
	PermissionChangeBook = "change_book"
	PermissionDeleteBook = "delete_book"
	PermissionViewBook   = "view_book"
)

// Permissions holds the capability codes granted to a single user.
type Permissions []string

// Include reports whether code is present in the permission set.
func (p Permissions) Include(code string) bool {
	for _, existing := range p {
		if existing == code {
			return true
		}
	}
	return false
}

// PermissionModel wraps a *sql.DB connection and answers authorization
// lookups against the groups / group_permissions / user_groups tables.
type PermissionModel struct {
	DB *sql.DB
}

// GetAllForUser returns the union of all permission codes granted to the
// user through group membership. A user in no groups gets an empty set,
// not an error.
func (m PermissionModel) GetAllForUser(userID int64) (Permissions, error) {
	query := `
		SELECT DISTINCT p.code
		FROM permissions p
		INNER JOIN group_permissions gp ON gp.permission_id = p.id
		INNER JOIN user_groups ug ON ug.group_id = gp.group_id
		WHERE ug.user_id = $1`

	rows, err := m.DB.Query(query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	permissions := Permissions{}
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, err
		}
		permissions = append(permissions, code)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return permissions, nil
}

// AddUserToGroup places the user in the named group, granting them every
// permission the group carries. Returns ErrRecordNotFound if the group
// does not exist.
func (m PermissionModel) AddUserToGroup(userID int64, groupName string) error {
	query := `
		INSERT INTO user_groups (user_id, group_id)
		SELECT $1, id FROM groups WHERE name = $2
		ON CONFLICT DO NOTHING`

	result, err := m.DB.Exec(query, userID, groupName)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		// Either the group name is unknown or the membership already
		// exists; distinguish by looking the group up.
		var id int64
		err := m.DB.QueryRow(`SELECT id FROM groups WHERE name = $1`, groupName).Scan(&id)
		if err == sql.ErrNoRows {
			return ErrRecordNotFound
		}
		return err
	}
	return nil
}
