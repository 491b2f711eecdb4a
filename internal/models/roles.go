package models

// RoleLevel is the numeric privilege tier stored on every account. Tiers are
// open-ended: anything at or above LevelSuperAdmin is a super-admin.
type RoleLevel int

const (
	LevelStandard   RoleLevel = 1
	LevelAdmin      RoleLevel = 2
	LevelSuperAdmin RoleLevel = 3
)

// Valid reports whether l is one of the tiers that can be assigned to a new
// account.
func (l RoleLevel) Valid() bool {
	return l >= LevelStandard && l <= LevelSuperAdmin
}

// Active reports whether l grants any access at all. Stored accounts may
// carry levels above LevelSuperAdmin.
func (l RoleLevel) Active() bool {
	return l >= LevelStandard
}

// AtLeast reports whether l meets the required minimum.
func (l RoleLevel) AtLeast(min RoleLevel) bool {
	return l >= min
}

func (l RoleLevel) String() string {
	switch {
	case l >= LevelSuperAdmin:
		return "super-admin"
	case l == LevelAdmin:
		return "admin"
	case l == LevelStandard:
		return "standard"
	default:
		return "none"
	}
}
