// Package repository defines the persistence contracts for users,
// appointments and sessions, plus their Postgres implementations. The inmem
// subpackage provides in-memory implementations of the same interfaces.
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"clinicbook/api/internal/models"
)

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrUsernameTaken       = errors.New("username already taken")
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrSlotTaken           = errors.New("time slot already booked")
	ErrSessionNotFound     = errors.New("session not found")
)

// DoctorProfile carries the admin-editable profile fields. Username, role and
// credentials are deliberately absent.
type DoctorProfile struct {
	Name           string
	Email          string
	Phone          *string
	Specialization *string
}

type UserStore interface {
	Create(ctx context.Context, user models.User) error
	GetByID(ctx context.Context, id string) (models.User, error)
	FindByUsername(ctx context.Context, username string) (models.User, error)
	// ListDoctors filters by case-insensitive specialization substring;
	// an empty filter returns every doctor.
	ListDoctors(ctx context.Context, specialization string) ([]models.User, error)
	ListSpecializations(ctx context.Context) ([]string, error)
	ListAll(ctx context.Context) ([]models.User, error)
	UpdateDoctorProfile(ctx context.Context, id string, profile DoctorProfile) (models.User, error)
	Delete(ctx context.Context, id string) error
}

type AppointmentStore interface {
	// Create persists a new appointment. A concurrent scheduled booking for
	// the same (doctor, date, slot) yields ErrSlotTaken.
	Create(ctx context.Context, appointment models.Appointment) error
	GetByID(ctx context.Context, id string) (models.Appointment, error)
	UpdateStatus(ctx context.Context, id string, status models.AppointmentStatus) (models.Appointment, error)
	BookedSlots(ctx context.Context, doctorID string, date time.Time) ([]string, error)
	SlotTaken(ctx context.Context, doctorID string, date time.Time, slot string) (bool, error)
	HasScheduledForDoctor(ctx context.Context, doctorID string) (bool, error)
	ListByPatient(ctx context.Context, patientID string) ([]models.AppointmentDetail, error)
	ListByDoctor(ctx context.Context, doctorID string) ([]models.AppointmentDetail, error)
	ListAll(ctx context.Context) ([]models.AppointmentDetail, error)
}

type SessionStore interface {
	Create(ctx context.Context, session models.Session) error
	GetByTokenHash(ctx context.Context, hash []byte) (models.Session, error)
	DeleteByTokenHash(ctx context.Context, hash []byte) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

const uniqueViolation = "23505"

func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == uniqueViolation && pgErr.ConstraintName == constraint
}
