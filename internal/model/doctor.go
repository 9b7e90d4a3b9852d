package model

import (
	"github.com/google/uuid"
)

// Department is a doctor's specialty.
type Department string

const (
	DepartmentCardiologist       Department = "Cardiologist"
	DepartmentDermatologist      Department = "Dermatologists"
	DepartmentEmergency          Department = "Emergency Medicine Specialists"
	DepartmentAllergist          Department = "Allergists/Immunologists"
	DepartmentAnesthesiologist   Department = "Anesthesiologists"
	DepartmentGastroenterologist Department = "Gastroenterologists"
	DepartmentPediatrician       Department = "Pediatricians"
)

// Departments lists the accepted specialty values in display order.
var Departments = []Department{
	DepartmentCardiologist,
	DepartmentDermatologist,
	DepartmentEmergency,
	DepartmentAllergist,
	DepartmentAnesthesiologist,
	DepartmentGastroenterologist,
	DepartmentPediatrician,
}

// ValidDepartment reports whether d is one of the accepted specialties.
func ValidDepartment(d Department) bool {
	for _, known := range Departments {
		if d == known {
			return true
		}
	}
	return false
}

type Doctor struct {
	Base
	UserID     uuid.UUID      `db:"user_id" json:"user_id"`
	Status     ApprovalStatus `db:"status" json:"status"`
	Mobile     string         `db:"mobile" json:"mobile"`
	Address    string         `db:"address" json:"address"`
	Department Department     `db:"department" json:"department"`
	ProfilePic string         `db:"profile_pic" json:"profile_pic,omitempty"`

	// Joined from users for rosters and snapshots.
	Email     string `db:"email" json:"email"`
	FirstName string `db:"first_name" json:"first_name"`
	LastName  string `db:"last_name" json:"last_name"`
}

// FullName returns the doctor's display name.
func (d *Doctor) FullName() string {
	if d.LastName == "" {
		return d.FirstName
	}
	return d.FirstName + " " + d.LastName
}

type CreateDoctorRequest struct {
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required,min=8"`
	FirstName  string `json:"first_name" binding:"required"`
	LastName   string `json:"last_name"`
	Mobile     string `json:"mobile" binding:"required"`
	Address    string `json:"address" binding:"required"`
	Department string `json:"department" binding:"required,department"`
}

type UpdateDoctorRequest struct {
	FirstName  *string `json:"first_name"`
	LastName   *string `json:"last_name"`
	Email      *string `json:"email" binding:"omitempty,email"`
	Mobile     *string `json:"mobile"`
	Address    *string `json:"address"`
	Department *string `json:"department" binding:"omitempty,department"`
}

type DoctorFilters struct {
	Status     ApprovalStatus `form:"status"`
	Department Department     `form:"department"`
	SearchTerm string         `form:"search"`
}
