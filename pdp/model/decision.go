package model

import (
	"time"

	"github.com/dev-mohitbeniwal/teamaccess/api/model"
)

const (
	EffectAllow = "allow"
	EffectDeny  = "deny"
)

// Deny reasons
const (
	ReasonNoEffectiveGrant = "NoEffectiveGrant"
	ReasonScopeMismatch    = "ScopeMismatch"
)

type AccessDecision struct {
	Effect       string      `json:"effect"`
	Scope        model.Scope `json:"scope,omitempty"`
	Reason       string      `json:"reason,omitempty"`
	Permission   string      `json:"permission"`
	MatchedRoles []string    `json:"matchedRoles,omitempty"`
	EvaluatedAt  time.Time   `json:"evaluatedAt"`
}

func (d *AccessDecision) Allowed() bool {
	return d != nil && d.Effect == EffectAllow
}
