package domain

// Roles carried in the access token.
const (
	RoleEmployee = "EMPLOYEE"
	RoleHR       = "HR"
	RoleDM       = "DM"
	RoleDirector = "DIRECTOR"
)

// EnforceRequest asks whether role may perform action on resource.
type EnforceRequest struct {
	Role     string `json:"role" binding:"required"`
	Resource string `json:"resource" binding:"required"`
	Action   string `json:"action" binding:"required"`
}

type EnforceResponse struct {
	Allowed bool `json:"allowed"`
}

func IsValidRole(role string) bool {
	switch role {
	case RoleEmployee, RoleHR, RoleDM, RoleDirector:
		return true
	default:
		return false
	}
}
