package model

// AdminDashboard mirrors the counters the admin landing page shows.
type AdminDashboard struct {
	DoctorCount             int `json:"doctor_count"`
	PendingDoctorCount      int `json:"pending_doctor_count"`
	PatientCount            int `json:"patient_count"`
	PendingPatientCount     int `json:"pending_patient_count"`
	AppointmentCount        int `json:"appointment_count"`
	PendingAppointmentCount int `json:"pending_appointment_count"`

	Doctors  []*Doctor  `json:"doctors"`
	Patients []*Patient `json:"patients"`
}

// DoctorDashboard is the workload summary for one doctor.
type DoctorDashboard struct {
	Doctor               *Doctor `json:"doctor"`
	PatientCount         int     `json:"patient_count"`
	AppointmentCount     int     `json:"appointment_count"`
	DischargedCount      int     `json:"discharged_count"`
	PendingAppointments  int     `json:"pending_appointments"`
	ApprovedAppointments int     `json:"approved_appointments"`
}

// PatientDashboard is the patient's own record plus the assigned doctor.
type PatientDashboard struct {
	Patient          *Patient `json:"patient"`
	AssignedDoctor   *Doctor  `json:"assigned_doctor,omitempty"`
	AppointmentCount int      `json:"appointment_count"`
	IsDischarged     bool     `json:"is_discharged"`
}
