package model

import (
	"time"

	"github.com/google/uuid"
)

// DischargeRecord is the billing snapshot written when a patient is
// discharged. Everything except PatientID is denormalized on purpose:
// the bill must stay byte-stable even if the patient record is edited or
// deleted afterwards. Records are immutable once created; a patient can
// accumulate several across repeat admissions, and "latest" means most
// recent by creation time.
type DischargeRecord struct {
	Base
	PatientID          uuid.UUID `db:"patient_id" json:"patient_id"`
	PatientName        string    `db:"patient_name" json:"patient_name"`
	AssignedDoctorName string    `db:"assigned_doctor_name" json:"assigned_doctor_name"`
	Address            string    `db:"address" json:"address"`
	Mobile             string    `db:"mobile" json:"mobile"`
	Symptoms           string    `db:"symptoms" json:"symptoms"`
	AdmitDate          time.Time `db:"admit_date" json:"admit_date"`
	ReleaseDate        time.Time `db:"release_date" json:"release_date"`
	DaySpent           int       `db:"day_spent" json:"day_spent"`
	RoomCharge         int       `db:"room_charge" json:"room_charge"`
	DoctorFee          int       `db:"doctor_fee" json:"doctor_fee"`
	MedicineCost       int       `db:"medicine_cost" json:"medicine_cost"`
	OtherCharge        int       `db:"other_charge" json:"other_charge"`
	Total              int       `db:"total" json:"total"`
}

type DischargeRequest struct {
	RoomCharge   int `json:"room_charge" binding:"min=0"`
	DoctorFee    int `json:"doctor_fee" binding:"min=0"`
	MedicineCost int `json:"medicine_cost" binding:"min=0"`
	OtherCharge  int `json:"other_charge" binding:"min=0"`
}
