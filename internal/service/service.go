// Package service holds the appointment lifecycle and profile rules. Every
// operation takes the caller explicitly; nothing here reads request state.
package service

import (
	"context"
	"time"

	"clinic-api/internal/model"
)

type UserStore interface {
	CreateUser(ctx context.Context, u *model.User) error
	UserByEmail(ctx context.Context, email string) (*model.User, error)
	UserByID(ctx context.Context, id string) (*model.User, error)
	DoctorByID(ctx context.Context, id string) (*model.User, error)
	ListDoctors(ctx context.Context) ([]model.Doctor, error)
	UpdateBasicInfo(ctx context.Context, id string, info model.BasicInfo) (*model.User, error)
	ModifyProfileFields(ctx context.Context, userID string, fn func(*model.ProfileFields) error) (model.ProfileFields, error)
}

type AppointmentStore interface {
	CreateAppointment(ctx context.Context, a *model.Appointment) error
	PendingForDoctor(ctx context.Context, doctorID string) ([]model.PendingRequest, error)
	ConfirmedForDoctor(ctx context.Context, doctorID string) ([]model.ConfirmedPatient, error)
	TransitionAppointment(ctx context.Context, id, doctorID string, from, to model.Status) (*model.Appointment, error)
}

type Store interface {
	UserStore
	AppointmentStore
}

type Service struct {
	store    Store
	secret   string
	tokenTTL time.Duration
}

func New(st Store, secret string, tokenTTL time.Duration) *Service {
	return &Service{store: st, secret: secret, tokenTTL: tokenTTL}
}
