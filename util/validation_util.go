// api/util/validation_util.go

package util

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/dev-mohitbeniwal/teamaccess/api/catalog"
	ta_errors "github.com/dev-mohitbeniwal/teamaccess/api/errors"
	"github.com/dev-mohitbeniwal/teamaccess/api/model"
)

// ValidationUtil checks entities before they are written. Struct tags are read from the
// same `binding` tags gin uses on request bodies.
type ValidationUtil struct {
	validate *validator.Validate
}

func NewValidationUtil() *ValidationUtil {
	v := validator.New()
	v.SetTagName("binding")
	return &ValidationUtil{validate: v}
}

// ValidateStruct runs the tag rules on s and reports the first failing field.
func (v *ValidationUtil) ValidateStruct(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return ta_errors.NewValidationError(fe.Field(), fmt.Sprintf("failed on %q", fe.Tag()))
	}
	return ta_errors.NewValidationError("", err.Error())
}

func (v *ValidationUtil) ValidateWindow(field string, from, till *time.Time) error {
	if from != nil && till != nil && from.After(*till) {
		return ta_errors.NewValidationError(field, "validFrom must not be after validTill")
	}
	return nil
}

func (v *ValidationUtil) ValidateGrant(field string, grant model.PermissionGrant) error {
	if grant.Key == "" {
		return ta_errors.NewValidationError(field+".key", "permission key cannot be empty")
	}
	if !catalog.IsKnown(grant.Key) {
		return ta_errors.NewValidationError(field+".key", fmt.Sprintf("%v: %s", ta_errors.ErrUnknownPermission, grant.Key))
	}
	if !grant.Scope.IsValid() {
		return ta_errors.NewValidationError(field+".scope", fmt.Sprintf("%v: %q", ta_errors.ErrInvalidScope, grant.Scope))
	}
	return v.ValidateWindow(field, grant.ValidFrom, grant.ValidTill)
}

// ValidateGrants checks every grant and rejects a key that appears twice.
func (v *ValidationUtil) ValidateGrants(grants []model.PermissionGrant) error {
	seen := make(map[string]bool, len(grants))
	for i, g := range grants {
		field := fmt.Sprintf("permissions[%d]", i)
		if err := v.ValidateGrant(field, g); err != nil {
			return err
		}
		if seen[g.Key] {
			return ta_errors.NewValidationError(field+".key", "duplicate permission key "+g.Key)
		}
		seen[g.Key] = true
	}
	return nil
}

func (v *ValidationUtil) ValidateRole(role model.Role) error {
	if strings.TrimSpace(role.Name) == "" {
		return ta_errors.NewValidationError("name", "role name cannot be empty")
	}
	if err := v.ValidateWindow("role", role.ValidFrom, role.ValidTill); err != nil {
		return err
	}
	return v.ValidateGrants(role.Permissions)
}

func (v *ValidationUtil) ValidateUser(user model.User) error {
	if strings.TrimSpace(user.Name) == "" {
		return ta_errors.NewValidationError("name", "user name cannot be empty")
	}
	if err := v.validate.Var(user.Email, "required,email"); err != nil {
		return ta_errors.NewValidationError("email", "a valid email is required")
	}
	for i, a := range user.Assignments {
		field := fmt.Sprintf("roles[%d]", i)
		if a.Role.ID == "" {
			return ta_errors.NewValidationError(field+".role", "role id cannot be empty")
		}
		if err := v.ValidateWindow(field, a.ValidFrom, a.ValidTill); err != nil {
			return err
		}
	}
	return nil
}

func (v *ValidationUtil) ValidateTeam(team model.Team) error {
	if strings.TrimSpace(team.Name) == "" {
		return ta_errors.NewValidationError("name", "team name cannot be empty")
	}
	return nil
}
