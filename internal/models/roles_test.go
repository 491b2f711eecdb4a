package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoleLevel(t *testing.T) {
	tests := []struct {
		level  RoleLevel
		valid  bool
		active bool
		name   string
	}{
		{level: 0, valid: false, active: false, name: "none"},
		{level: LevelStandard, valid: true, active: true, name: "standard"},
		{level: LevelAdmin, valid: true, active: true, name: "admin"},
		{level: LevelSuperAdmin, valid: true, active: true, name: "super-admin"},
		{level: 4, valid: false, active: true, name: "super-admin"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.valid, tt.level.Valid(), "Valid(%d)", tt.level)
		assert.Equal(t, tt.active, tt.level.Active(), "Active(%d)", tt.level)
		assert.Equal(t, tt.name, tt.level.String())
	}
	assert.True(t, RoleLevel(4).AtLeast(LevelSuperAdmin))
}
