package models

// UserRole represents the available roles for the RBAC system.
type UserRole string

const (
	RoleSuperAdmin UserRole = "SUPERADMIN"
	RoleAdmin      UserRole = "ADMIN"
	RoleEnterprise UserRole = "ENTERPRISE"
	RoleDesigner   UserRole = "DESIGNER"
	RoleSchool     UserRole = "SCHOOL"
)

// IsPlatformAdmin reports whether the role may act as the platform reviewer.
func (r UserRole) IsPlatformAdmin() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

// Valid reports whether the role is known.
func (r UserRole) Valid() bool {
	switch r {
	case RoleSuperAdmin, RoleAdmin, RoleEnterprise, RoleDesigner, RoleSchool:
		return true
	}
	return false
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
