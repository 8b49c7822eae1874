package models

import "time"

type AppointmentStatus string

const (
	StatusScheduled AppointmentStatus = "scheduled"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
)

func (s AppointmentStatus) Valid() bool {
	switch s {
	case StatusScheduled, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further transition may leave this status.
func (s AppointmentStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Appointment references its patient and doctor by user ID. There is no
// foreign key behind those references: deleting a doctor with only resolved
// appointments leaves historical rows pointing at a user that no longer
// exists, and read paths filter those defensively.
type Appointment struct {
	ID        string
	PatientID string
	DoctorID  string
	Date      time.Time // day granularity, UTC midnight
	TimeSlot  string
	Status    AppointmentStatus
	Notes     *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// AppointmentDetail is an appointment joined with the display fields of the
// users it references. Resolved flags are false when the referenced user is
// gone; callers decide whether such rows are shown or dropped.
type AppointmentDetail struct {
	Appointment
	PatientName          string
	PatientEmail         string
	PatientPhone         *string
	PatientResolved      bool
	DoctorName           string
	DoctorSpecialization *string
	DoctorResolved       bool
}
