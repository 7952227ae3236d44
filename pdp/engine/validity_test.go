package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dev-mohitbeniwal/teamaccess/api/model"
)

func TestIsEffective(t *testing.T) {
	now := time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC)
	before := now.Add(-time.Hour)
	after := now.Add(time.Hour)

	tests := []struct {
		name      string
		revoked   bool
		active    bool
		validFrom *time.Time
		validTill *time.Time
		want      bool
	}{
		{"unbounded", false, true, nil, nil, true},
		{"revoked", true, true, nil, nil, false},
		{"inactive", false, false, nil, nil, false},
		{"inside window", false, true, &before, &after, true},
		{"starts later", false, true, &after, nil, false},
		{"already ended", false, true, nil, &before, false},
		{"from bound inclusive", false, true, &now, nil, true},
		{"till bound inclusive", false, true, nil, &now, true},
		{"single instant window", false, true, &now, &now, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsEffective(tt.revoked, tt.active, tt.validFrom, tt.validTill, now))
		})
	}
}

func TestAssignmentEffectiveIgnoresActive(t *testing.T) {
	now := time.Now()
	assert.True(t, AssignmentEffective(model.RoleAssignment{Role: model.RoleRef{ID: "r1"}}, now))
	assert.False(t, AssignmentEffective(model.RoleAssignment{Role: model.RoleRef{ID: "r1"}, Revoked: true}, now))
}

func TestRoleEffective(t *testing.T) {
	now := time.Now()
	past := now.Add(-24 * time.Hour)
	assert.True(t, RoleEffective(model.Role{IsActive: true}, now))
	assert.False(t, RoleEffective(model.Role{IsActive: false}, now))
	assert.False(t, RoleEffective(model.Role{IsActive: true, ValidTill: &past}, now))
}
