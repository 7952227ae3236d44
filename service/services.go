// api/service/services.go
package service

import (
	"github.com/dev-mohitbeniwal/teamaccess/api/audit"
	"github.com/dev-mohitbeniwal/teamaccess/api/util"
)

type Services struct {
	Role   IRoleService
	User   IUserService
	Team   ITeamService
	Access IAccessService
	Auth   IAuthService
	Audit  audit.Service
}

// InitializeServices builds every service over one set of dependencies. deps.Audit is
// replaced by auditService so mutations and queries share the sink.
func InitializeServices(deps Dependencies, auditService audit.Service, authCfg AuthConfig, denylist util.TokenDenylist) *Services {
	deps.Audit = auditService
	return &Services{
		Role:   NewRoleService(deps),
		User:   NewUserService(deps),
		Team:   NewTeamService(deps),
		Access: NewAccessService(deps),
		Auth:   NewAuthService(deps, authCfg, denylist),
		Audit:  auditService,
	}
}
