package employee

type CreateEmployeeRequest struct {
	FullName       string  `json:"full_name" binding:"required,notblank,max=150"`
	Email          string  `json:"email" binding:"required,email"`
	EmployeeNumber string  `json:"employee_number" binding:"omitempty,max=30"`
	UserID         *string `json:"user_id" binding:"omitempty,uuid"`
}

type UpdateEmployeeRequest struct {
	FullName *string `json:"full_name" binding:"omitempty,max=150"`
	Email    *string `json:"email" binding:"omitempty,email"`
	UserID   *string `json:"user_id" binding:"omitempty,uuid"`
	IsActive *bool   `json:"is_active"`
}

type EmployeeResponse struct {
	ID             string  `json:"id"`
	UserID         *string `json:"user_id,omitempty"`
	EmployeeNumber string  `json:"employee_number"`
	FullName       string  `json:"full_name"`
	Email          string  `json:"email"`
	IsActive       bool    `json:"is_active"`
}
