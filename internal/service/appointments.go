package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"clinic-api/internal/model"
	"clinic-api/internal/store"
)

type Decision string

const (
	Accept  Decision = "accept"
	Decline Decision = "decline"
)

// Outcome is the status a decision moves a pending appointment to.
func (d Decision) Outcome() (model.Status, bool) {
	switch d {
	case Accept:
		return model.StatusConfirmed, true
	case Decline:
		return model.StatusDeclined, true
	}
	return "", false
}

type BookInput struct {
	DoctorID string
	Date     string
	Time     string
	Reason   string
}

// ParseDate accepts a plain calendar date or an RFC 3339 timestamp and
// returns midnight UTC of that day.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if d, err := time.Parse(time.DateOnly, s); err == nil {
		return d, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
}

func (s *Service) ListDoctors(ctx context.Context, c model.Caller) ([]model.Doctor, error) {
	if err := Authorize(c, model.RolePatient); err != nil {
		return nil, err
	}
	return s.store.ListDoctors(ctx)
}

// Book files a pending request from the calling patient to a doctor. The
// same doctor/date/time may be booked any number of times.
func (s *Service) Book(ctx context.Context, c model.Caller, in BookInput) (*model.Appointment, error) {
	if err := Authorize(c, model.RolePatient); err != nil {
		return nil, err
	}

	doctorID := strings.TrimSpace(in.DoctorID)
	slot := strings.TrimSpace(in.Time)
	if doctorID == "" || strings.TrimSpace(in.Date) == "" || slot == "" {
		return nil, fail(ErrInvalidInput, "doctorId, date, and time are required")
	}
	date, err := ParseDate(in.Date)
	if err != nil {
		return nil, fail(ErrInvalidInput, "Invalid appointment date")
	}

	if _, err := uuid.Parse(doctorID); err != nil {
		return nil, fail(ErrNotFound, "Doctor not found")
	}
	doctor, err := s.store.DoctorByID(ctx, doctorID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fail(ErrNotFound, "Doctor not found")
	}
	if err != nil {
		return nil, err
	}

	a := &model.Appointment{
		ID:        uuid.New().String(),
		PatientID: c.ID,
		DoctorID:  doctor.ID,
		Date:      date,
		Time:      slot,
		Reason:    strings.TrimSpace(in.Reason),
		Status:    model.StatusPending,
	}
	if err := s.store.CreateAppointment(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Service) PendingRequests(ctx context.Context, c model.Caller) ([]model.PendingRequest, error) {
	if err := Authorize(c, model.RoleDoctor); err != nil {
		return nil, err
	}
	return s.store.PendingForDoctor(ctx, c.ID)
}

func (s *Service) ConfirmedPatients(ctx context.Context, c model.Caller) ([]model.ConfirmedPatient, error) {
	if err := Authorize(c, model.RoleDoctor); err != nil {
		return nil, err
	}
	return s.store.ConfirmedForDoctor(ctx, c.ID)
}

// Respond accepts or declines a pending appointment addressed to the calling
// doctor. Missing, foreign and already decided appointments all come back as
// ErrNotFound.
func (s *Service) Respond(ctx context.Context, c model.Caller, appointmentID string, d Decision) (*model.Appointment, error) {
	if err := Authorize(c, model.RoleDoctor); err != nil {
		return nil, err
	}
	to, ok := d.Outcome()
	appointmentID = strings.TrimSpace(appointmentID)
	if appointmentID == "" || !ok {
		return nil, fail(ErrInvalidInput, "appointmentId and valid decision are required")
	}
	if _, err := uuid.Parse(appointmentID); err != nil {
		return nil, fail(ErrNotFound, "Appointment not found or already processed")
	}

	a, err := s.store.TransitionAppointment(ctx, appointmentID, c.ID, model.StatusPending, to)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fail(ErrNotFound, "Appointment not found or already processed")
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}
