package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"clinic-api/internal/auth"
	"clinic-api/internal/model"
	"clinic-api/internal/store"
)

// same text for unknown email and wrong password
const badCredentials = "Invalid credentials"

type SignupInput struct {
	Name            string
	Email           string
	Password        string
	Phone           string
	Role            model.Role
	Address         string
	Specialization  string
	Clinic          string
	ExperienceYears *int
}

// NormalizeEmail is the canonical form emails are stored and matched in.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *Service) Signup(ctx context.Context, in SignupInput) (*model.User, error) {
	name := strings.TrimSpace(in.Name)
	email := NormalizeEmail(in.Email)
	if name == "" || email == "" || in.Password == "" {
		return nil, fail(ErrInvalidInput, "Name, email, and password are required")
	}

	role := in.Role
	if role == "" {
		role = model.RolePatient
	}
	if !role.Valid() {
		return nil, fail(ErrInvalidInput, "role must be patient or doctor")
	}
	if role == model.RoleDoctor && in.ExperienceYears != nil && *in.ExperienceYears < 0 {
		return nil, fail(ErrInvalidInput, "experienceYears cannot be negative")
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	u := &model.User{
		ID:              uuid.New().String(),
		Email:           email,
		PasswordHash:    hash,
		Name:            name,
		Role:            role,
		Phone:           strings.TrimSpace(in.Phone),
		Address:         strings.TrimSpace(in.Address),
		Specialization:  strings.TrimSpace(in.Specialization),
		Clinic:          strings.TrimSpace(in.Clinic),
		ExperienceYears: in.ExperienceYears,
	}
	u.StripDoctorFields()

	if err := s.store.CreateUser(ctx, u); err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			return nil, fail(ErrConflict, "Email already registered")
		}
		return nil, err
	}
	u.PasswordHash = ""
	return u, nil
}

// Login checks credentials and issues a bearer token carrying {id, role}.
func (s *Service) Login(ctx context.Context, email, password string) (string, model.Role, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return "", "", fail(ErrInvalidInput, "Email and password are required")
	}

	u, err := s.store.UserByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return "", "", fail(ErrUnauthorized, badCredentials)
	}
	if err != nil {
		return "", "", err
	}
	if !auth.CheckPassword(u.PasswordHash, password) {
		return "", "", fail(ErrUnauthorized, badCredentials)
	}

	tok, err := auth.MakeToken(u.ID, u.Role, s.secret, s.tokenTTL)
	if err != nil {
		return "", "", err
	}
	return tok, u.Role, nil
}
