package model

import (
	"time"

	"github.com/google/uuid"
)

// Appointment links a patient and a doctor by their user ids. The name
// columns are snapshots taken at creation time so the record stays
// readable after either party is removed; they are never refreshed.
type Appointment struct {
	Base
	PatientID       uuid.UUID      `db:"patient_id" json:"patient_id"`
	DoctorID        uuid.UUID      `db:"doctor_id" json:"doctor_id"`
	PatientName     string         `db:"patient_name" json:"patient_name"`
	DoctorName      string         `db:"doctor_name" json:"doctor_name"`
	Description     string         `db:"description" json:"description"`
	AppointmentDate time.Time      `db:"appointment_date" json:"appointment_date"`
	Status          ApprovalStatus `db:"status" json:"status"`
}

type CreateAppointmentRequest struct {
	PatientID       uuid.UUID `json:"patient_id" binding:"required"`
	DoctorID        uuid.UUID `json:"doctor_id" binding:"required"`
	Description     string    `json:"description" binding:"required,max=1000"`
	AppointmentDate time.Time `json:"appointment_date"`
}

// BookAppointmentRequest is the patient-facing booking form: the patient
// id comes from the token, and the booking always starts out pending.
type BookAppointmentRequest struct {
	DoctorID        uuid.UUID `json:"doctor_id" binding:"required"`
	Description     string    `json:"description" binding:"required,max=1000"`
	AppointmentDate time.Time `json:"appointment_date"`
}

type AppointmentFilters struct {
	PatientID uuid.UUID      `form:"patient_id"`
	DoctorID  uuid.UUID      `form:"doctor_id"`
	Status    ApprovalStatus `form:"status"`
}
