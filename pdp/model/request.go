package model

import "time"

// ResourceContext describes the resource an access check is about. Absent fields are nil.
type ResourceContext struct {
	TeamID  *string `json:"teamId"`
	OwnerID *string `json:"ownerId"`
}

// AccessRequest asks whether a user holds a permission for a resource. AsOf defaults to the
// time the request is received.
type AccessRequest struct {
	UserID     string          `json:"userId" binding:"required"`
	Permission string          `json:"permission" binding:"required"`
	Resource   ResourceContext `json:"resource"`
	AsOf       *time.Time      `json:"asOf"`
}
