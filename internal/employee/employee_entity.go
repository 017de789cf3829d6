package employee

import (
	"time"

	"github.com/google/uuid"
)

// Employee is the HR record leave data hangs off. UserID links it to a login
// account when the employee has one.
type Employee struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey"`
	UserID         *uuid.UUID `gorm:"type:uuid;uniqueIndex:uq_employee_user_id"`
	EmployeeNumber string     `gorm:"type:varchar(30);not null;uniqueIndex:uq_employee_number"`
	FullName       string     `gorm:"type:varchar(150);not null"`
	Email          string     `gorm:"type:varchar(150);not null;uniqueIndex:uq_employee_email"`
	IsActive       bool       `gorm:"not null;index:idx_employees_active"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (Employee) TableName() string { return "employees" }
