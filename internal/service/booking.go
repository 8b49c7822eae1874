package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"clinicbook/api/internal/ids"
	"clinicbook/api/internal/models"
	"clinicbook/api/internal/repository"
	"clinicbook/api/internal/schedule"
)

// BookingService implements slot availability and the appointment state
// machine. The pre-insert conflict check gives friendly errors for the common
// case; the store's scheduled-slot uniqueness guarantee is what actually
// closes the check-then-create race between concurrent bookings.
type BookingService struct {
	users        repository.UserStore
	appointments repository.AppointmentStore
	log          zerolog.Logger
}

func NewBookingService(users repository.UserStore, appointments repository.AppointmentStore, log zerolog.Logger) *BookingService {
	return &BookingService{
		users:        users,
		appointments: appointments,
		log:          log,
	}
}

// AvailableSlots returns the canonical slots not held by a scheduled
// appointment for the doctor on that day, in canonical order. The doctor is
// not validated here: an unknown doctor simply has no bookings.
func (s *BookingService) AvailableSlots(ctx context.Context, doctorID string, date time.Time) ([]string, error) {
	booked, err := s.appointments.BookedSlots(ctx, doctorID, normalizeDate(date))
	if err != nil {
		return nil, err
	}
	return schedule.Available(booked), nil
}

type BookingInput struct {
	DoctorID string
	Date     time.Time
	TimeSlot string
	Notes    *string
}

// Book creates a scheduled appointment for the patient. The patient identity
// always comes from the caller's session, never from request input.
func (s *BookingService) Book(ctx context.Context, patientID string, input BookingInput) (models.Appointment, error) {
	if input.DoctorID == "" {
		return models.Appointment{}, validationf("doctor is required")
	}
	if !schedule.ValidSlot(input.TimeSlot) {
		return models.Appointment{}, validationf("unknown time slot %q", input.TimeSlot)
	}

	doctor, err := s.users.GetByID(ctx, input.DoctorID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return models.Appointment{}, ErrNotFound
		}
		return models.Appointment{}, err
	}
	if doctor.Role != models.RoleDoctor {
		return models.Appointment{}, ErrNotFound
	}

	date := normalizeDate(input.Date)

	taken, err := s.appointments.SlotTaken(ctx, input.DoctorID, date, input.TimeSlot)
	if err != nil {
		return models.Appointment{}, err
	}
	if taken {
		return models.Appointment{}, ErrSlotTaken
	}

	appointment := models.Appointment{
		ID:        ids.New(),
		PatientID: patientID,
		DoctorID:  input.DoctorID,
		Date:      date,
		TimeSlot:  input.TimeSlot,
		Status:    models.StatusScheduled,
		Notes:     input.Notes,
	}

	if err := s.appointments.Create(ctx, appointment); err != nil {
		if errors.Is(err, repository.ErrSlotTaken) {
			// Lost the race between the conflict check and the insert.
			s.log.Debug().
				Str("doctor_id", input.DoctorID).
				Str("slot", input.TimeSlot).
				Msg("booking lost slot race")
			return models.Appointment{}, ErrSlotTaken
		}
		return models.Appointment{}, err
	}

	s.log.Info().
		Str("appointment_id", appointment.ID).
		Str("doctor_id", input.DoctorID).
		Str("slot", input.TimeSlot).
		Msg("appointment booked")
	return appointment, nil
}

// Transition applies a doctor-initiated status change. Only the owning doctor
// may act, and only the two forward moves out of scheduled are legal.
func (s *BookingService) Transition(ctx context.Context, appointmentID string, next models.AppointmentStatus, actorID string) (models.Appointment, error) {
	appointment, err := s.appointments.GetByID(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, repository.ErrAppointmentNotFound) {
			return models.Appointment{}, ErrNotFound
		}
		return models.Appointment{}, err
	}

	if appointment.DoctorID != actorID {
		return models.Appointment{}, ErrForbidden
	}

	if appointment.Status != models.StatusScheduled || (next != models.StatusCompleted && next != models.StatusCancelled) {
		return models.Appointment{}, validationf("cannot transition from %s to %s", appointment.Status, next)
	}

	updated, err := s.appointments.UpdateStatus(ctx, appointmentID, next)
	if err != nil {
		if errors.Is(err, repository.ErrAppointmentNotFound) {
			return models.Appointment{}, ErrNotFound
		}
		return models.Appointment{}, err
	}

	s.log.Info().
		Str("appointment_id", appointmentID).
		Str("status", string(next)).
		Msg("appointment status updated")
	return updated, nil
}

func (s *BookingService) ListForPatient(ctx context.Context, patientID string) ([]models.AppointmentDetail, error) {
	return s.appointments.ListByPatient(ctx, patientID)
}

func (s *BookingService) ListForDoctor(ctx context.Context, doctorID string) ([]models.AppointmentDetail, error) {
	return s.appointments.ListByDoctor(ctx, doctorID)
}

// ListAll is the admin view. Rows whose patient or doctor no longer resolves
// are dropped rather than surfaced as errors.
func (s *BookingService) ListAll(ctx context.Context) ([]models.AppointmentDetail, error) {
	all, err := s.appointments.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]models.AppointmentDetail, 0, len(all))
	for _, d := range all {
		if !d.PatientResolved || !d.DoctorResolved {
			continue
		}
		out = append(out, d)
	}
	return out, nil
}

func normalizeDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
