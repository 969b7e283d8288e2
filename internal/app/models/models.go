package models

import "strings"

// Role scopes metrics and report queries
type Role string

const (
	RoleStudent    Role = "Student"
	RoleCollege    Role = "College"
	RoleMSME       Role = "MSME"
	RoleMentor     Role = "Mentor"
	RoleGovernment Role = "Government"
)

// Roles lists every accepted role in the order the dashboard offers them.
var Roles = []Role{RoleStudent, RoleCollege, RoleMSME, RoleMentor, RoleGovernment}

// Valid reports whether r is one of the known roles
func (r Role) Valid() bool {
	for _, role := range Roles {
		if r == role {
			return true
		}
	}
	return false
}

// ParseRole matches s against the known roles case-insensitively.
func ParseRole(s string) (Role, bool) {
	for _, role := range Roles {
		if strings.EqualFold(strings.TrimSpace(s), string(role)) {
			return role, true
		}
	}
	return "", false
}
