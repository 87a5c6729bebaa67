package service

import (
	"context"
	"errors"
	"strings"

	"clinic-api/internal/model"
	"clinic-api/internal/store"
)

var errFieldMissing = fail(ErrNotFound, "Profile field not found")

func (s *Service) Profile(ctx context.Context, c model.Caller) (*model.User, error) {
	if err := authenticated(c); err != nil {
		return nil, err
	}
	u, err := s.store.UserByID(ctx, c.ID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fail(ErrNotFound, "User not found")
	}
	if err != nil {
		return nil, err
	}
	u.PasswordHash = ""
	return u, nil
}

// allowed drops attributes the caller's role may not edit. role, email and
// password never reach this point.
func allowed(role model.Role, in model.BasicInfo) model.BasicInfo {
	out := model.BasicInfo{
		Name:    trimmed(in.Name),
		Phone:   trimmed(in.Phone),
		Address: trimmed(in.Address),
	}
	if role == model.RoleDoctor {
		out.Specialization = trimmed(in.Specialization)
		out.Clinic = trimmed(in.Clinic)
		out.ExperienceYears = in.ExperienceYears
	}
	return out
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}

// UpdateBasicInfo persists the supplied allow-listed attributes and returns
// the record without its password hash.
func (s *Service) UpdateBasicInfo(ctx context.Context, c model.Caller, in model.BasicInfo) (*model.User, error) {
	if err := authenticated(c); err != nil {
		return nil, err
	}
	info := allowed(c.Role, in)
	if info.Name != nil && *info.Name == "" {
		return nil, fail(ErrInvalidInput, "name cannot be empty")
	}
	if info.ExperienceYears != nil && *info.ExperienceYears < 0 {
		return nil, fail(ErrInvalidInput, "experienceYears cannot be negative")
	}

	u, err := s.store.UpdateBasicInfo(ctx, c.ID, info)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fail(ErrNotFound, "User not found")
	}
	if err != nil {
		return nil, err
	}
	u.PasswordHash = ""
	return u, nil
}

func (s *Service) modifyFields(ctx context.Context, c model.Caller, fn func(*model.ProfileFields) error) ([]model.ProfileField, error) {
	if err := authenticated(c); err != nil {
		return nil, err
	}
	fields, err := s.store.ModifyProfileFields(ctx, c.ID, fn)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fail(ErrNotFound, "User not found")
	}
	if err != nil {
		return nil, err
	}
	return fields.List(), nil
}

func (s *Service) AddField(ctx context.Context, c model.Caller, label, value string) ([]model.ProfileField, error) {
	label, value = strings.TrimSpace(label), strings.TrimSpace(value)
	if label == "" || value == "" {
		return nil, fail(ErrInvalidInput, "label and value are required")
	}
	return s.modifyFields(ctx, c, func(pf *model.ProfileFields) error {
		pf.Add(label, value)
		return nil
	})
}

// UpdateField changes label and/or value of one of the caller's fields. A nil
// pointer leaves the attribute alone; an empty string is stored as given.
func (s *Service) UpdateField(ctx context.Context, c model.Caller, fieldID string, label, value *string) ([]model.ProfileField, error) {
	if strings.TrimSpace(fieldID) == "" {
		return nil, fail(ErrInvalidInput, "fieldId is required")
	}
	return s.modifyFields(ctx, c, func(pf *model.ProfileFields) error {
		if !pf.Update(fieldID, trimmed(label), trimmed(value)) {
			return errFieldMissing
		}
		return nil
	})
}

func (s *Service) DeleteField(ctx context.Context, c model.Caller, fieldID string) ([]model.ProfileField, error) {
	if strings.TrimSpace(fieldID) == "" {
		return nil, fail(ErrInvalidInput, "fieldId is required")
	}
	return s.modifyFields(ctx, c, func(pf *model.ProfileFields) error {
		if !pf.Remove(fieldID) {
			return errFieldMissing
		}
		return nil
	})
}
