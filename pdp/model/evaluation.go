package model

import "github.com/dev-mohitbeniwal/teamaccess/api/model"

// EffectivePermission is the broadest scope a user holds for one key at an instant,
// with the roles that supply it.
type EffectivePermission struct {
	Key   string      `json:"key"`
	Scope model.Scope `json:"scope"`
	Roles []string    `json:"roles"`
}
