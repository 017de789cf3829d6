package employeescheme

type AssignSchemeRequest struct {
	EmployeeID    string  `json:"employee_id" binding:"required,uuid"`
	SchemeID      string  `json:"scheme_id" binding:"required,uuid"`
	EffectiveFrom string  `json:"effective_from" binding:"required,datetime=2006-01-02"`
	EffectiveTo   *string `json:"effective_to" binding:"omitempty,datetime=2006-01-02"`
}

// UpdateAssignmentRequest patches an assignment. ClearEffectiveTo reopens
// the end of the range.
type UpdateAssignmentRequest struct {
	SchemeID         *string `json:"scheme_id" binding:"omitempty,uuid"`
	EffectiveFrom    *string `json:"effective_from" binding:"omitempty,datetime=2006-01-02"`
	EffectiveTo      *string `json:"effective_to" binding:"omitempty,datetime=2006-01-02"`
	ClearEffectiveTo bool    `json:"clear_effective_to"`
}

type AssignmentResponse struct {
	ID            string  `json:"id"`
	EmployeeID    string  `json:"employee_id"`
	SchemeID      string  `json:"scheme_id"`
	SchemeName    string  `json:"scheme_name,omitempty"`
	EffectiveFrom string  `json:"effective_from"`
	EffectiveTo   *string `json:"effective_to"`
	CreatedAt     string  `json:"created_at"`
	UpdatedAt     string  `json:"updated_at"`
}
