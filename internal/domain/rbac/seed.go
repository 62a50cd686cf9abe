package rbac

const (
	RoleAdmin = "ADMIN"
	RoleUser  = "USER"

	PermUserView   = "USER_VIEW"
	PermUserCreate = "USER_CREATE"
	PermUserUpdate = "USER_UPDATE"
	PermUserDelete = "USER_DELETE"
)

func strPtr(s string) *string { return &s }

// SeedRoles are the system roles that must exist after initialization.
func SeedRoles() []Role {
	return []Role{
		{
			Name:        "Administrator",
			Code:        RoleAdmin,
			Description: strPtr("Full system administration"),
			Permissions: GrantCache{"full_access": true},
			IsSystem:    true,
			IsActive:    true,
		},
		{
			Name:        "User",
			Code:        RoleUser,
			Description: strPtr("Baseline access for regular users"),
			Permissions: GrantCache{"view_profile": true},
			IsSystem:    true,
			IsActive:    true,
		},
	}
}

// SeedPermissions are the baseline permissions of the user module.
func SeedPermissions() []Permission {
	perm := func(name, code, action string) Permission {
		return Permission{
			Name:     name,
			Code:     code,
			Module:   strPtr("user"),
			Action:   strPtr(action),
			Resource: strPtr("profile"),
			IsSystem: true,
			IsActive: true,
		}
	}
	return []Permission{
		perm("View users", PermUserView, "view"),
		perm("Create users", PermUserCreate, "create"),
		perm("Update users", PermUserUpdate, "update"),
		perm("Delete users", PermUserDelete, "delete"),
	}
}

// SeedGrants maps role codes to the permission codes they are granted.
func SeedGrants() map[string][]string {
	return map[string][]string{
		RoleAdmin: {PermUserView, PermUserCreate, PermUserUpdate, PermUserDelete},
		RoleUser:  {PermUserView},
	}
}
