package inmem

import (
	"context"
	"sort"
	"sync"
	"time"

	"clinicbook/api/internal/models"
	"clinicbook/api/internal/repository"
)

// AppointmentStore keeps appointments in memory. Create checks scheduled-slot
// uniqueness and inserts under one lock acquisition, mirroring the atomicity
// of the partial unique index in the Postgres schema.
type AppointmentStore struct {
	mu           sync.RWMutex
	appointments map[string]models.Appointment
	users        *UserStore
}

// NewAppointmentStore joins appointment rows against users for the detail
// listings, the same lookup the SQL implementation performs.
func NewAppointmentStore(users *UserStore) *AppointmentStore {
	return &AppointmentStore{
		appointments: make(map[string]models.Appointment),
		users:        users,
	}
}

func dayKey(t time.Time) string {
	return t.UTC().Format(time.DateOnly)
}

func (s *AppointmentStore) Create(_ context.Context, a models.Appointment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if a.Status == models.StatusScheduled {
		for _, existing := range s.appointments {
			if existing.Status == models.StatusScheduled &&
				existing.DoctorID == a.DoctorID &&
				dayKey(existing.Date) == dayKey(a.Date) &&
				existing.TimeSlot == a.TimeSlot {
				return repository.ErrSlotTaken
			}
		}
	}

	now := time.Now()
	a.CreatedAt = now
	a.UpdatedAt = now
	s.appointments[a.ID] = a
	return nil
}

func (s *AppointmentStore) GetByID(_ context.Context, id string) (models.Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.appointments[id]
	if !ok {
		return models.Appointment{}, repository.ErrAppointmentNotFound
	}
	return a, nil
}

func (s *AppointmentStore) UpdateStatus(_ context.Context, id string, status models.AppointmentStatus) (models.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.appointments[id]
	if !ok {
		return models.Appointment{}, repository.ErrAppointmentNotFound
	}
	a.Status = status
	a.UpdatedAt = time.Now()
	s.appointments[id] = a
	return a, nil
}

func (s *AppointmentStore) BookedSlots(_ context.Context, doctorID string, date time.Time) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []string
	for _, a := range s.appointments {
		if a.Status == models.StatusScheduled && a.DoctorID == doctorID && dayKey(a.Date) == dayKey(date) {
			out = append(out, a.TimeSlot)
		}
	}
	return out, nil
}

func (s *AppointmentStore) SlotTaken(_ context.Context, doctorID string, date time.Time, slot string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, a := range s.appointments {
		if a.Status == models.StatusScheduled && a.DoctorID == doctorID &&
			dayKey(a.Date) == dayKey(date) && a.TimeSlot == slot {
			return true, nil
		}
	}
	return false, nil
}

func (s *AppointmentStore) HasScheduledForDoctor(_ context.Context, doctorID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, a := range s.appointments {
		if a.DoctorID == doctorID && a.Status == models.StatusScheduled {
			return true, nil
		}
	}
	return false, nil
}

func (s *AppointmentStore) ListByPatient(ctx context.Context, patientID string) ([]models.AppointmentDetail, error) {
	return s.list(ctx, func(a models.Appointment) bool { return a.PatientID == patientID })
}

func (s *AppointmentStore) ListByDoctor(ctx context.Context, doctorID string) ([]models.AppointmentDetail, error) {
	return s.list(ctx, func(a models.Appointment) bool { return a.DoctorID == doctorID })
}

func (s *AppointmentStore) ListAll(ctx context.Context) ([]models.AppointmentDetail, error) {
	return s.list(ctx, func(models.Appointment) bool { return true })
}

func (s *AppointmentStore) list(ctx context.Context, match func(models.Appointment) bool) ([]models.AppointmentDetail, error) {
	s.mu.RLock()
	var selected []models.Appointment
	for _, a := range s.appointments {
		if match(a) {
			selected = append(selected, a)
		}
	}
	s.mu.RUnlock()

	sort.Slice(selected, func(i, j int) bool {
		if !selected[i].Date.Equal(selected[j].Date) {
			return selected[i].Date.After(selected[j].Date)
		}
		return selected[i].TimeSlot < selected[j].TimeSlot
	})

	out := make([]models.AppointmentDetail, 0, len(selected))
	for _, a := range selected {
		d := models.AppointmentDetail{Appointment: a}
		if patient, err := s.users.GetByID(ctx, a.PatientID); err == nil {
			d.PatientResolved = true
			d.PatientName = patient.Name
			d.PatientEmail = patient.Email
			d.PatientPhone = patient.Phone
		}
		if doctor, err := s.users.GetByID(ctx, a.DoctorID); err == nil {
			d.DoctorResolved = true
			d.DoctorName = doctor.Name
			d.DoctorSpecialization = doctor.Specialization
		}
		out = append(out, d)
	}
	return out, nil
}
