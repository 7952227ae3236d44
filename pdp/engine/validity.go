package engine

import (
	"time"

	"github.com/dev-mohitbeniwal/teamaccess/api/model"
)

// IsEffective reports whether a record is in force at asOf. Both bounds are inclusive and
// a nil bound is unbounded.
func IsEffective(revoked, active bool, validFrom, validTill *time.Time, asOf time.Time) bool {
	if revoked || !active {
		return false
	}
	if validFrom != nil && asOf.Before(*validFrom) {
		return false
	}
	if validTill != nil && asOf.After(*validTill) {
		return false
	}
	return true
}

func GrantEffective(g model.PermissionGrant, asOf time.Time) bool {
	return IsEffective(g.Revoked, g.Active, g.ValidFrom, g.ValidTill, asOf)
}

// AssignmentEffective treats assignments as always active.
func AssignmentEffective(a model.RoleAssignment, asOf time.Time) bool {
	return IsEffective(a.Revoked, true, a.ValidFrom, a.ValidTill, asOf)
}

// RoleEffective gates every grant of the role.
func RoleEffective(r model.Role, asOf time.Time) bool {
	return IsEffective(false, r.IsActive, r.ValidFrom, r.ValidTill, asOf)
}
