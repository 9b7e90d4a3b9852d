package model

import (
	"time"

	"github.com/google/uuid"
)

// AdmissionStatus tracks whether an approved patient is currently under
// care. It is independent of ApprovalStatus: a patient can be pending
// approval while already admitted, and stays discharged after release.
type AdmissionStatus string

const (
	AdmissionStatusAdmitted   AdmissionStatus = "admitted"
	AdmissionStatusDischarged AdmissionStatus = "discharged"
)

type Patient struct {
	Base
	UserID     uuid.UUID       `db:"user_id" json:"user_id"`
	Status     ApprovalStatus  `db:"status" json:"status"`
	Admission  AdmissionStatus `db:"admission_status" json:"admission_status"`
	Mobile     string          `db:"mobile" json:"mobile"`
	Address    string          `db:"address" json:"address"`
	Symptoms   string          `db:"symptoms" json:"symptoms"`
	AdmitDate  time.Time       `db:"admit_date" json:"admit_date"`
	ProfilePic string          `db:"profile_pic" json:"profile_pic,omitempty"`

	// Advisory reference to the assigned doctor's user id. Not a strict
	// foreign key: the doctor may be removed without touching patients.
	AssignedDoctorID uuid.UUID `db:"assigned_doctor_id" json:"assigned_doctor_id"`

	// Joined from users.
	Email     string `db:"email" json:"email"`
	FirstName string `db:"first_name" json:"first_name"`
	LastName  string `db:"last_name" json:"last_name"`
}

// FullName returns the patient's display name.
func (p *Patient) FullName() string {
	if p.LastName == "" {
		return p.FirstName
	}
	return p.FirstName + " " + p.LastName
}

type CreatePatientRequest struct {
	Email            string    `json:"email" binding:"required,email"`
	Password         string    `json:"password" binding:"required,min=8"`
	FirstName        string    `json:"first_name" binding:"required"`
	LastName         string    `json:"last_name"`
	Mobile           string    `json:"mobile" binding:"required"`
	Address          string    `json:"address" binding:"required"`
	Symptoms         string    `json:"symptoms" binding:"required"`
	AssignedDoctorID uuid.UUID `json:"assigned_doctor_id"`
}

type UpdatePatientRequest struct {
	FirstName        *string    `json:"first_name"`
	LastName         *string    `json:"last_name"`
	Email            *string    `json:"email" binding:"omitempty,email"`
	Mobile           *string    `json:"mobile"`
	Address          *string    `json:"address"`
	Symptoms         *string    `json:"symptoms"`
	AssignedDoctorID *uuid.UUID `json:"assigned_doctor_id"`
}

type PatientFilters struct {
	Status           ApprovalStatus  `form:"status"`
	Admission        AdmissionStatus `form:"admission" binding:"omitempty,admission_status"`
	AssignedDoctorID uuid.UUID       `form:"assigned_doctor_id"`
	SearchTerm       string          `form:"search"`
}
