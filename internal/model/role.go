package model

// Role identifies a user's permission level. The stored enum values are the
// single source of truth; the numeric hierarchy below is used for all
// permission comparisons.
type Role string

const (
	RoleSystemAdmin Role = "SYSTEM_ADMIN"
	RoleManager     Role = "MANAGER"
	RoleAccountant  Role = "ACCOUNTANT"
	RoleViewer      Role = "VIEWER"
)

var roleLevels = map[Role]int{
	RoleSystemAdmin: 4,
	RoleManager:     3,
	RoleAccountant:  2,
	RoleViewer:      1,
}

// Level returns the numeric rank of the role; unknown roles rank 0.
func (r Role) Level() int {
	return roleLevels[r]
}

// Valid reports whether the role is one of the known enum values.
func (r Role) Valid() bool {
	_, ok := roleLevels[r]
	return ok
}

// AtLeast reports whether the role ranks at or above the given role.
func (r Role) AtLeast(min Role) bool {
	return r.Level() >= min.Level()
}
