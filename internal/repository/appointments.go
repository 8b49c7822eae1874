package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"clinicbook/api/internal/models"
)

type AppointmentRepository struct {
	pool *pgxpool.Pool
}

func NewAppointmentRepository(pool *pgxpool.Pool) *AppointmentRepository {
	return &AppointmentRepository{pool: pool}
}

const appointmentColumns = `id, patient_id, doctor_id, date, time_slot, status, notes, created_at, updated_at`

func scanAppointment(row pgx.Row) (models.Appointment, error) {
	var a models.Appointment
	err := row.Scan(
		&a.ID,
		&a.PatientID,
		&a.DoctorID,
		&a.Date,
		&a.TimeSlot,
		&a.Status,
		&a.Notes,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Appointment{}, ErrAppointmentNotFound
		}
		return models.Appointment{}, err
	}
	return a, nil
}

func (r *AppointmentRepository) Create(ctx context.Context, a models.Appointment) error {
	const query = `
		INSERT INTO appointments (
			id, patient_id, doctor_id, date, time_slot, status, notes, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, NOW(), NOW()
		)
	`

	_, err := r.pool.Exec(ctx, query,
		a.ID,
		a.PatientID,
		a.DoctorID,
		a.Date,
		a.TimeSlot,
		a.Status,
		a.Notes,
	)
	if err != nil {
		// The partial unique index caught a concurrent booking.
		if isUniqueViolation(err, "appointments_slot_scheduled_key") {
			return ErrSlotTaken
		}
		return err
	}
	return nil
}

func (r *AppointmentRepository) GetByID(ctx context.Context, id string) (models.Appointment, error) {
	const query = `SELECT ` + appointmentColumns + ` FROM appointments WHERE id = $1`
	return scanAppointment(r.pool.QueryRow(ctx, query, id))
}

func (r *AppointmentRepository) UpdateStatus(ctx context.Context, id string, status models.AppointmentStatus) (models.Appointment, error) {
	const query = `
		UPDATE appointments
		SET status = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + appointmentColumns

	return scanAppointment(r.pool.QueryRow(ctx, query, id, status))
}

func (r *AppointmentRepository) BookedSlots(ctx context.Context, doctorID string, date time.Time) ([]string, error) {
	const query = `
		SELECT time_slot
		FROM appointments
		WHERE doctor_id = $1 AND date = $2 AND status = 'scheduled'
	`

	rows, err := r.pool.Query(ctx, query, doctorID, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var slot string
		if err := rows.Scan(&slot); err != nil {
			return nil, err
		}
		out = append(out, slot)
	}
	return out, rows.Err()
}

func (r *AppointmentRepository) SlotTaken(ctx context.Context, doctorID string, date time.Time, slot string) (bool, error) {
	const query = `
		SELECT EXISTS(
			SELECT 1 FROM appointments
			WHERE doctor_id = $1 AND date = $2 AND time_slot = $3 AND status = 'scheduled'
		)
	`

	var exists bool
	err := r.pool.QueryRow(ctx, query, doctorID, date, slot).Scan(&exists)
	return exists, err
}

func (r *AppointmentRepository) HasScheduledForDoctor(ctx context.Context, doctorID string) (bool, error) {
	const query = `
		SELECT EXISTS(
			SELECT 1 FROM appointments WHERE doctor_id = $1 AND status = 'scheduled'
		)
	`

	var exists bool
	err := r.pool.QueryRow(ctx, query, doctorID).Scan(&exists)
	return exists, err
}

const detailQuery = `
	SELECT a.id, a.patient_id, a.doctor_id, a.date, a.time_slot, a.status, a.notes,
	       a.created_at, a.updated_at,
	       p.name, p.email, p.phone,
	       d.name, d.specialization
	FROM appointments a
	LEFT JOIN users p ON p.id = a.patient_id
	LEFT JOIN users d ON d.id = a.doctor_id
`

func (r *AppointmentRepository) ListByPatient(ctx context.Context, patientID string) ([]models.AppointmentDetail, error) {
	const query = detailQuery + `
		WHERE a.patient_id = $1
		ORDER BY a.date DESC, a.time_slot
	`
	return r.listDetails(ctx, query, patientID)
}

func (r *AppointmentRepository) ListByDoctor(ctx context.Context, doctorID string) ([]models.AppointmentDetail, error) {
	const query = detailQuery + `
		WHERE a.doctor_id = $1
		ORDER BY a.date DESC, a.time_slot
	`
	return r.listDetails(ctx, query, doctorID)
}

func (r *AppointmentRepository) ListAll(ctx context.Context) ([]models.AppointmentDetail, error) {
	const query = detailQuery + `ORDER BY a.date DESC, a.time_slot`
	return r.listDetails(ctx, query)
}

func (r *AppointmentRepository) listDetails(ctx context.Context, query string, args ...any) ([]models.AppointmentDetail, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.AppointmentDetail
	for rows.Next() {
		var (
			d            models.AppointmentDetail
			patientName  *string
			patientEmail *string
			doctorName   *string
		)
		if err := rows.Scan(
			&d.ID,
			&d.PatientID,
			&d.DoctorID,
			&d.Date,
			&d.TimeSlot,
			&d.Status,
			&d.Notes,
			&d.CreatedAt,
			&d.UpdatedAt,
			&patientName,
			&patientEmail,
			&d.PatientPhone,
			&doctorName,
			&d.DoctorSpecialization,
		); err != nil {
			return nil, err
		}

		if patientName != nil {
			d.PatientResolved = true
			d.PatientName = *patientName
		}
		if patientEmail != nil {
			d.PatientEmail = *patientEmail
		}
		if doctorName != nil {
			d.DoctorResolved = true
			d.DoctorName = *doctorName
		}

		out = append(out, d)
	}
	return out, rows.Err()
}
