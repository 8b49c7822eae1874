package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clinicbook/api/internal/models"
	"clinicbook/api/internal/repository/inmem"
	"clinicbook/api/internal/service"
)

type directoryFixture struct {
	users        *inmem.UserStore
	appointments *inmem.AppointmentStore
	directory    *service.DirectoryService
	booking      *service.BookingService
}

func newDirectoryFixture() directoryFixture {
	users := inmem.NewUserStore()
	appointments := inmem.NewAppointmentStore(users)
	return directoryFixture{
		users:        users,
		appointments: appointments,
		directory:    service.NewDirectoryService(users, appointments, nil, zerolog.Nop()),
		booking:      service.NewBookingService(users, appointments, zerolog.Nop()),
	}
}

func (f directoryFixture) addDoctor(t *testing.T, username, name, specialization string) models.User {
	t.Helper()

	doctor, err := f.directory.CreateDoctor(context.Background(), service.CreateDoctorInput{
		Username:       username,
		Password:       "secret123",
		Name:           name,
		Email:          username + "@hospital.com",
		Specialization: specialization,
	})
	require.NoError(t, err)
	return doctor
}

func TestListDoctorsFiltersBySpecialization(t *testing.T) {
	f := newDirectoryFixture()
	ctx := context.Background()

	f.addDoctor(t, "dr_cardio", "Dr. Sarah Wilson", "Cardiology")
	f.addDoctor(t, "dr_derma", "Dr. Michael Brown", "Dermatology")
	f.addDoctor(t, "dr_neuro", "Dr. Emily Davis", "Neurology")

	all, err := f.directory.ListDoctors(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	// Filter is a case-insensitive substring match.
	matched, err := f.directory.ListDoctors(ctx, "CARDIO")
	require.NoError(t, err)
	require.Len(t, matched, 1)
	assert.Equal(t, "Dr. Sarah Wilson", matched[0].Name)

	matched, err = f.directory.ListDoctors(ctx, "olog")
	require.NoError(t, err)
	assert.Len(t, matched, 3)

	matched, err = f.directory.ListDoctors(ctx, "pediatrics")
	require.NoError(t, err)
	assert.Empty(t, matched)
}

func TestSpecializationsAreDistinct(t *testing.T) {
	f := newDirectoryFixture()

	f.addDoctor(t, "dr_cardio", "Dr. Sarah Wilson", "Cardiology")
	f.addDoctor(t, "dr_cardio2", "Dr. Alan Grant", "Cardiology")
	f.addDoctor(t, "dr_derma", "Dr. Michael Brown", "Dermatology")

	out, err := f.directory.Specializations(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Cardiology", "Dermatology"}, out)
}

func TestCreateDoctorValidation(t *testing.T) {
	f := newDirectoryFixture()
	ctx := context.Background()

	_, err := f.directory.CreateDoctor(ctx, service.CreateDoctorInput{Username: "dr_x"})
	assert.ErrorIs(t, err, service.ErrValidation)

	f.addDoctor(t, "dr_cardio", "Dr. Sarah Wilson", "Cardiology")

	_, err = f.directory.CreateDoctor(ctx, service.CreateDoctorInput{
		Username:       "dr_cardio",
		Password:       "secret123",
		Name:           "Dr. Imposter",
		Email:          "imposter@hospital.com",
		Specialization: "Cardiology",
	})
	assert.ErrorIs(t, err, service.ErrUsernameTaken)
}

func TestUpdateDoctorProfile(t *testing.T) {
	f := newDirectoryFixture()
	ctx := context.Background()

	doctor := f.addDoctor(t, "dr_cardio", "Dr. Sarah Wilson", "Cardiology")

	newSpec := "Interventional Cardiology"
	updated, err := f.directory.UpdateDoctor(ctx, doctor.ID, service.UpdateDoctorInput{
		Name:           "Dr. Sarah Wilson-Reyes",
		Email:          "sarah@hospital.com",
		Specialization: &newSpec,
	})
	require.NoError(t, err)
	assert.Equal(t, "Dr. Sarah Wilson-Reyes", updated.Name)
	require.NotNil(t, updated.Specialization)
	assert.Equal(t, newSpec, *updated.Specialization)
	assert.Equal(t, doctor.Username, updated.Username)

	_, err = f.directory.UpdateDoctor(ctx, "missing", service.UpdateDoctorInput{
		Name: "x", Email: "x@y.z",
	})
	assert.ErrorIs(t, err, service.ErrNotFound)

	_, err = f.directory.UpdateDoctor(ctx, doctor.ID, service.UpdateDoctorInput{})
	assert.ErrorIs(t, err, service.ErrValidation)
}

func TestDeleteDoctorBlockedByScheduledAppointments(t *testing.T) {
	f := newDirectoryFixture()
	ctx := context.Background()

	doctor := f.addDoctor(t, "dr_cardio", "Dr. Sarah Wilson", "Cardiology")
	patient := models.User{ID: "p1", Username: "jane", Role: models.RolePatient, Name: "Jane Doe", Email: "jane@demo.com"}
	require.NoError(t, f.users.Create(ctx, patient))

	appointment, err := f.booking.Book(ctx, patient.ID, service.BookingInput{
		DoctorID: doctor.ID,
		Date:     time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		TimeSlot: "09:00",
	})
	require.NoError(t, err)

	err = f.directory.DeleteDoctor(ctx, doctor.ID)
	assert.ErrorIs(t, err, service.ErrDoctorBooked)

	// Resolved history does not block deletion.
	_, err = f.booking.Transition(ctx, appointment.ID, models.StatusCompleted, doctor.ID)
	require.NoError(t, err)

	assert.NoError(t, f.directory.DeleteDoctor(ctx, doctor.ID))

	assert.ErrorIs(t, f.directory.DeleteDoctor(ctx, doctor.ID), service.ErrNotFound)
	assert.ErrorIs(t, f.directory.DeleteDoctor(ctx, patient.ID), service.ErrNotFound)
}
