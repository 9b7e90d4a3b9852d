package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRole(t *testing.T) {
	for _, valid := range []string{"admin", "doctor", "patient"} {
		role, err := ParseRole(valid)
		assert.NoError(t, err)
		assert.Equal(t, Role(valid), role)
	}

	for _, invalid := range []string{"", "Admin", "superuser", "doctor "} {
		role, err := ParseRole(invalid)
		assert.Error(t, err, "expected error for %q", invalid)
		assert.Equal(t, RoleUnknown, role)
	}
}

func TestValidDepartment(t *testing.T) {
	assert.True(t, ValidDepartment(DepartmentCardiologist))
	assert.True(t, ValidDepartment(DepartmentPediatrician))
	assert.False(t, ValidDepartment("Phrenologist"))
	assert.False(t, ValidDepartment(""))
}

func TestFullName(t *testing.T) {
	u := &User{FirstName: "Ada", LastName: "Lovelace"}
	assert.Equal(t, "Ada Lovelace", u.FullName())

	mononym := &User{FirstName: "Ada"}
	assert.Equal(t, "Ada", mononym.FullName())
}
