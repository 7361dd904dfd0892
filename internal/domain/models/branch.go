package models

import "strings"

// Branch identifies one of the fixed physical trading locations.
type Branch string

const (
	BranchMaganjo Branch = "Maganjo"
	BranchMatugga Branch = "Matugga"
)

// Branches lists every valid branch identifier.
func Branches() []Branch {
	return []Branch{BranchMaganjo, BranchMatugga}
}

// ParseBranch resolves a raw string to a known branch, case-insensitively.
// The boolean is false when the value matches no branch.
func ParseBranch(raw string) (Branch, bool) {
	trimmed := strings.TrimSpace(raw)
	for _, b := range Branches() {
		if strings.EqualFold(trimmed, string(b)) {
			return b, true
		}
	}
	return "", false
}

// Role is the access level assigned to a user account.
type Role string

const (
	RoleDirector   Role = "Director"
	RoleManager    Role = "Manager"
	RoleSalesAgent Role = "Sales Agent"
)

// ParseRole resolves a raw string to a known role.
func ParseRole(raw string) (Role, bool) {
	trimmed := strings.TrimSpace(raw)
	for _, r := range []Role{RoleDirector, RoleManager, RoleSalesAgent} {
		if strings.EqualFold(trimmed, string(r)) {
			return r, true
		}
	}
	return "", false
}

// Caller is the authenticated identity attached to each request.
// Directors carry no branch; everyone else is pinned to one.
type Caller struct {
	ID       string
	Username string
	Role     Role
	Branch   *Branch
}
