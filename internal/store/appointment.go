package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"clinic-api/internal/model"
)

const appointmentColumns = `id, patient_id, doctor_id, appt_date, time_slot, reason, status, created_at, updated_at`

func scanAppointment(row pgx.Row) (*model.Appointment, error) {
	a := &model.Appointment{}
	err := row.Scan(&a.ID, &a.PatientID, &a.DoctorID, &a.Date, &a.Time, &a.Reason,
		&a.Status, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return a, nil
}

func (s *Store) CreateAppointment(ctx context.Context, a *model.Appointment) error {
	return s.pool.QueryRow(ctx,
		`INSERT INTO appointments (id, patient_id, doctor_id, appt_date, time_slot, reason, status)
		 VALUES ($1,$2,$3,$4,$5,$6,$7)
		 RETURNING created_at, updated_at`,
		a.ID, a.PatientID, a.DoctorID, a.Date, a.Time, a.Reason, a.Status,
	).Scan(&a.CreatedAt, &a.UpdatedAt)
}

func (s *Store) GetAppointment(ctx context.Context, id string) (*model.Appointment, error) {
	return scanAppointment(s.pool.QueryRow(ctx,
		`SELECT `+appointmentColumns+` FROM appointments WHERE id = $1`, id))
}

// PendingForDoctor returns the doctor's pending requests with the patient's
// contact details joined in. Order is whatever the planner produces.
func (s *Store) PendingForDoctor(ctx context.Context, doctorID string) ([]model.PendingRequest, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT a.id, a.patient_id, a.doctor_id, a.appt_date, a.time_slot, a.reason,
		        a.status, a.created_at, a.updated_at,
		        u.id, u.name, u.email, u.phone
		 FROM appointments a
		 JOIN users u ON u.id = a.patient_id
		 WHERE a.doctor_id = $1 AND a.status = 'pending'`, doctorID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.PendingRequest{}
	for rows.Next() {
		var (
			p model.PendingRequest
			c model.Contact
		)
		if err := rows.Scan(
			&p.ID, &p.PatientID, &p.DoctorID, &p.Date, &p.Time, &p.Reason,
			&p.Status, &p.CreatedAt, &p.UpdatedAt,
			&c.ID, &c.Name, &c.Email, &c.Phone,
		); err != nil {
			return nil, err
		}
		p.Patient = &c
		out = append(out, p)
	}
	return out, rows.Err()
}

// ConfirmedForDoctor lists confirmed appointments paired with the full
// patient record.
func (s *Store) ConfirmedForDoctor(ctx context.Context, doctorID string) ([]model.ConfirmedPatient, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT a.id, a.appt_date, a.time_slot,
		        u.id, u.email, u.password_hash, u.name, u.role, u.phone, u.address,
		        u.specialization, u.clinic, u.experience_years, u.profile_fields,
		        u.created_at, u.updated_at
		 FROM appointments a
		 JOIN users u ON u.id = a.patient_id
		 WHERE a.doctor_id = $1 AND a.status = 'confirmed'`, doctorID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.ConfirmedPatient{}
	for rows.Next() {
		var (
			cp     model.ConfirmedPatient
			u      model.User
			fields []byte
		)
		if err := rows.Scan(
			&cp.AppointmentID, &cp.Date, &cp.Time,
			&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.Role, &u.Phone, &u.Address,
			&u.Specialization, &u.Clinic, &u.ExperienceYears, &fields,
			&u.CreatedAt, &u.UpdatedAt,
		); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(fields, &u.ProfileFields); err != nil {
			return nil, fmt.Errorf("decode profile fields: %w", err)
		}
		u.PasswordHash = ""
		cp.Patient = &u
		out = append(out, cp)
	}
	return out, rows.Err()
}

// TransitionAppointment moves an appointment owned by doctorID from one
// status to another in a single conditional update. ErrNotFound covers a
// missing row, another doctor's row and a row no longer in from.
func (s *Store) TransitionAppointment(ctx context.Context, id, doctorID string, from, to model.Status) (*model.Appointment, error) {
	return scanAppointment(s.pool.QueryRow(ctx,
		`UPDATE appointments
		 SET status = $1, updated_at = NOW()
		 WHERE id = $2 AND doctor_id = $3 AND status = $4
		 RETURNING `+appointmentColumns,
		to, id, doctorID, from,
	))
}
