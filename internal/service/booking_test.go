package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clinicbook/api/internal/ids"
	"clinicbook/api/internal/models"
	"clinicbook/api/internal/repository/inmem"
	"clinicbook/api/internal/schedule"
	"clinicbook/api/internal/service"
)

type bookingFixture struct {
	users        *inmem.UserStore
	appointments *inmem.AppointmentStore
	booking      *service.BookingService
}

func newBookingFixture() bookingFixture {
	users := inmem.NewUserStore()
	appointments := inmem.NewAppointmentStore(users)
	return bookingFixture{
		users:        users,
		appointments: appointments,
		booking:      service.NewBookingService(users, appointments, zerolog.Nop()),
	}
}

func (f bookingFixture) addUser(t *testing.T, role models.Role, name, specialization string) models.User {
	t.Helper()

	user := models.User{
		ID:       ids.New(),
		Username: name,
		Role:     role,
		Name:     name,
		Email:    name + "@test.local",
	}
	if specialization != "" {
		user.Specialization = &specialization
	}
	require.NoError(t, f.users.Create(context.Background(), user))
	return user
}

func TestBookRemovesSlotFromAvailability(t *testing.T) {
	f := newBookingFixture()
	ctx := context.Background()
	doctor := f.addUser(t, models.RoleDoctor, "Dr. Sarah Wilson", "Cardiology")
	patient := f.addUser(t, models.RolePatient, "Jane Doe", "")
	date := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	slots, err := f.booking.AvailableSlots(ctx, doctor.ID, date)
	require.NoError(t, err)
	assert.Equal(t, schedule.Slots(), slots)

	appointment, err := f.booking.Book(ctx, patient.ID, service.BookingInput{
		DoctorID: doctor.ID,
		Date:     date,
		TimeSlot: "09:00",
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusScheduled, appointment.Status)
	assert.Equal(t, patient.ID, appointment.PatientID)

	slots, err = f.booking.AvailableSlots(ctx, doctor.ID, date)
	require.NoError(t, err)
	assert.Len(t, slots, 11)
	assert.NotContains(t, slots, "09:00")
}

func TestBookConflictOnSameSlot(t *testing.T) {
	f := newBookingFixture()
	ctx := context.Background()
	doctor := f.addUser(t, models.RoleDoctor, "Dr. Sarah Wilson", "Cardiology")
	first := f.addUser(t, models.RolePatient, "Jane Doe", "")
	second := f.addUser(t, models.RolePatient, "John Smith", "")
	date := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	_, err := f.booking.Book(ctx, first.ID, service.BookingInput{
		DoctorID: doctor.ID, Date: date, TimeSlot: "09:00",
	})
	require.NoError(t, err)

	_, err = f.booking.Book(ctx, second.ID, service.BookingInput{
		DoctorID: doctor.ID, Date: date, TimeSlot: "09:00",
	})
	assert.ErrorIs(t, err, service.ErrSlotTaken)

	// Same slot on another day is unrelated.
	_, err = f.booking.Book(ctx, second.ID, service.BookingInput{
		DoctorID: doctor.ID, Date: date.AddDate(0, 0, 1), TimeSlot: "09:00",
	})
	assert.NoError(t, err)
}

func TestBookConcurrentSameSlot(t *testing.T) {
	f := newBookingFixture()
	ctx := context.Background()
	doctor := f.addUser(t, models.RoleDoctor, "Dr. Sarah Wilson", "Cardiology")
	date := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	const contenders = 16
	patients := make([]models.User, contenders)
	for i := range patients {
		patients[i] = f.addUser(t, models.RolePatient, "patient-"+ids.New(), "")
	}

	var wg sync.WaitGroup
	errs := make([]error, contenders)
	for i := 0; i < contenders; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.booking.Book(ctx, patients[i].ID, service.BookingInput{
				DoctorID: doctor.ID, Date: date, TimeSlot: "10:00",
			})
		}(i)
	}
	wg.Wait()

	var won, lost int
	for _, err := range errs {
		switch {
		case err == nil:
			won++
		case assert.ErrorIs(t, err, service.ErrSlotTaken):
			lost++
		}
	}
	assert.Equal(t, 1, won)
	assert.Equal(t, contenders-1, lost)
}

func TestBookValidation(t *testing.T) {
	f := newBookingFixture()
	ctx := context.Background()
	doctor := f.addUser(t, models.RoleDoctor, "Dr. Sarah Wilson", "Cardiology")
	patient := f.addUser(t, models.RolePatient, "Jane Doe", "")
	date := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	_, err := f.booking.Book(ctx, patient.ID, service.BookingInput{
		DoctorID: doctor.ID, Date: date, TimeSlot: "13:00",
	})
	assert.ErrorIs(t, err, service.ErrValidation)

	_, err = f.booking.Book(ctx, patient.ID, service.BookingInput{
		Date: date, TimeSlot: "09:00",
	})
	assert.ErrorIs(t, err, service.ErrValidation)

	_, err = f.booking.Book(ctx, patient.ID, service.BookingInput{
		DoctorID: "missing", Date: date, TimeSlot: "09:00",
	})
	assert.ErrorIs(t, err, service.ErrNotFound)

	// A patient id in the doctor field reads as no such doctor.
	_, err = f.booking.Book(ctx, patient.ID, service.BookingInput{
		DoctorID: patient.ID, Date: date, TimeSlot: "09:00",
	})
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestTransitionOwnershipAndStateMachine(t *testing.T) {
	f := newBookingFixture()
	ctx := context.Background()
	doctor := f.addUser(t, models.RoleDoctor, "Dr. Sarah Wilson", "Cardiology")
	other := f.addUser(t, models.RoleDoctor, "Dr. Michael Brown", "Dermatology")
	patient := f.addUser(t, models.RolePatient, "Jane Doe", "")
	date := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	appointment, err := f.booking.Book(ctx, patient.ID, service.BookingInput{
		DoctorID: doctor.ID, Date: date, TimeSlot: "09:30",
	})
	require.NoError(t, err)

	_, err = f.booking.Transition(ctx, appointment.ID, models.StatusCompleted, other.ID)
	assert.ErrorIs(t, err, service.ErrForbidden)

	_, err = f.booking.Transition(ctx, appointment.ID, models.StatusScheduled, doctor.ID)
	assert.ErrorIs(t, err, service.ErrValidation)

	updated, err := f.booking.Transition(ctx, appointment.ID, models.StatusCompleted, doctor.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, updated.Status)

	// Terminal states cannot move again.
	_, err = f.booking.Transition(ctx, appointment.ID, models.StatusCancelled, doctor.ID)
	assert.ErrorIs(t, err, service.ErrValidation)

	_, err = f.booking.Transition(ctx, "missing", models.StatusCompleted, doctor.ID)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestCancelFreesSlot(t *testing.T) {
	f := newBookingFixture()
	ctx := context.Background()
	doctor := f.addUser(t, models.RoleDoctor, "Dr. Sarah Wilson", "Cardiology")
	patient := f.addUser(t, models.RolePatient, "Jane Doe", "")
	date := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	appointment, err := f.booking.Book(ctx, patient.ID, service.BookingInput{
		DoctorID: doctor.ID, Date: date, TimeSlot: "14:00",
	})
	require.NoError(t, err)

	_, err = f.booking.Transition(ctx, appointment.ID, models.StatusCancelled, doctor.ID)
	require.NoError(t, err)

	slots, err := f.booking.AvailableSlots(ctx, doctor.ID, date)
	require.NoError(t, err)
	assert.Contains(t, slots, "14:00")

	_, err = f.booking.Book(ctx, patient.ID, service.BookingInput{
		DoctorID: doctor.ID, Date: date, TimeSlot: "14:00",
	})
	assert.NoError(t, err)
}

func TestListAllDropsOrphanedRows(t *testing.T) {
	f := newBookingFixture()
	ctx := context.Background()
	doctor := f.addUser(t, models.RoleDoctor, "Dr. Sarah Wilson", "Cardiology")
	patient := f.addUser(t, models.RolePatient, "Jane Doe", "")
	date := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	appointment, err := f.booking.Book(ctx, patient.ID, service.BookingInput{
		DoctorID: doctor.ID, Date: date, TimeSlot: "15:00",
	})
	require.NoError(t, err)
	_, err = f.booking.Transition(ctx, appointment.ID, models.StatusCompleted, doctor.ID)
	require.NoError(t, err)

	all, err := f.booking.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, f.users.Delete(ctx, doctor.ID))

	all, err = f.booking.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	// The patient view keeps the row, marked unresolved.
	mine, err := f.booking.ListForPatient(ctx, patient.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.False(t, mine[0].DoctorResolved)
	assert.True(t, mine[0].PatientResolved)
}
