// api/catalog/catalog.go
package catalog

// Permission keys
const (
	UserCreate = "user.create"
	UserRead   = "user.read"
	UserUpdate = "user.update"
	UserDelete = "user.delete"

	// UserAssignRole guards role assignment and is only honored at global scope.
	UserAssignRole = "user.assignRole"

	RoleCreate = "role.create"
	RoleRead   = "role.read"
	RoleUpdate = "role.update"
	RoleDelete = "role.delete"

	TeamCreate = "team.create"
	TeamRead   = "team.read"
	TeamUpdate = "team.update"
	TeamDelete = "team.delete"

	AuditRead = "audit.read"
)

// Categories
const (
	CategoryUser  = "User Management"
	CategoryRole  = "Role Management"
	CategoryTeam  = "Team Management"
	CategoryAudit = "Audit"
)

type Permission struct {
	Key      string `json:"key"`
	Label    string `json:"label"`
	Category string `json:"category"`
}

// Category is one named group of permissions, in catalog order.
type Category struct {
	Name        string       `json:"name"`
	Permissions []Permission `json:"permissions"`
}

var permissions = []Permission{
	{Key: UserCreate, Label: "Create Users", Category: CategoryUser},
	{Key: UserRead, Label: "View Users", Category: CategoryUser},
	{Key: UserUpdate, Label: "Update Users", Category: CategoryUser},
	{Key: UserDelete, Label: "Delete Users", Category: CategoryUser},
	{Key: UserAssignRole, Label: "Assign Roles", Category: CategoryUser},
	{Key: RoleCreate, Label: "Create Roles", Category: CategoryRole},
	{Key: RoleRead, Label: "View Roles", Category: CategoryRole},
	{Key: RoleUpdate, Label: "Update Roles", Category: CategoryRole},
	{Key: RoleDelete, Label: "Delete Roles", Category: CategoryRole},
	{Key: TeamCreate, Label: "Create Teams", Category: CategoryTeam},
	{Key: TeamRead, Label: "View Teams", Category: CategoryTeam},
	{Key: TeamUpdate, Label: "Update Teams", Category: CategoryTeam},
	{Key: TeamDelete, Label: "Delete Teams", Category: CategoryTeam},
	{Key: AuditRead, Label: "View Audit Logs", Category: CategoryAudit},
}

var byKey = func() map[string]Permission {
	m := make(map[string]Permission, len(permissions))
	for _, p := range permissions {
		m[p.Key] = p
	}
	return m
}()

// All returns every permission in catalog order.
func All() []Permission {
	out := make([]Permission, len(permissions))
	copy(out, permissions)
	return out
}

// Keys returns every permission key in catalog order.
func Keys() []string {
	out := make([]string, len(permissions))
	for i, p := range permissions {
		out[i] = p.Key
	}
	return out
}

func Lookup(key string) (Permission, bool) {
	p, ok := byKey[key]
	return p, ok
}

func IsKnown(key string) bool {
	_, ok := byKey[key]
	return ok
}

// Grouped returns the catalog grouped by category, preserving first-seen order.
func Grouped() []Category {
	var out []Category
	index := make(map[string]int)
	for _, p := range permissions {
		i, ok := index[p.Category]
		if !ok {
			i = len(out)
			index[p.Category] = i
			out = append(out, Category{Name: p.Category})
		}
		out[i].Permissions = append(out[i].Permissions, p)
	}
	return out
}
