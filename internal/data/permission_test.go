package data

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPermissionsInclude(t *testing.T) {
	perms := Permissions{PermissionAddBook, PermissionViewBook}

	assert.True(t, perms.Include(PermissionAddBook))
	assert.True(t, perms.Include(PermissionViewBook))
	assert.False(t, perms.Include(PermissionDeleteBook))
}

func TestPermissionsInclude_EmptySet(t *testing.T) {
	var perms Permissions
	assert.False(t, perms.Include(PermissionAddBook))
}
