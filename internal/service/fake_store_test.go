package service_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"clinic-api/internal/model"
	"clinic-api/internal/store"
)

// memStore mimics the Postgres store closely enough for the rules under
// test: unique emails, doctor-only lookups, the conditional transition.
type memStore struct {
	mu    sync.Mutex
	users map[string]*model.User
	appts map[string]*model.Appointment
}

func newMemStore() *memStore {
	return &memStore{
		users: make(map[string]*model.User),
		appts: make(map[string]*model.Appointment),
	}
}

func copyUser(u *model.User) *model.User {
	cp := *u
	cp.ProfileFields = u.ProfileFields.Clone()
	return &cp
}

func (m *memStore) CreateUser(_ context.Context, u *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return store.ErrDuplicateEmail
		}
	}
	now := time.Now()
	u.CreatedAt, u.UpdatedAt = now, now
	m.users[u.ID] = copyUser(u)
	return nil
}

func (m *memStore) UserByEmail(_ context.Context, email string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return copyUser(u), nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *memStore) UserByID(_ context.Context, id string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return copyUser(u), nil
}

func (m *memStore) DoctorByID(ctx context.Context, id string) (*model.User, error) {
	u, err := m.UserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u.Role != model.RoleDoctor {
		return nil, store.ErrNotFound
	}
	return u, nil
}

func (m *memStore) ListDoctors(context.Context) ([]model.Doctor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []model.Doctor{}
	for _, u := range m.users {
		if u.Role == model.RoleDoctor {
			out = append(out, model.Doctor{
				ID: u.ID, Name: u.Name, Email: u.Email, Phone: u.Phone,
				Specialization: u.Specialization, Clinic: u.Clinic, ExperienceYears: u.ExperienceYears,
			})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memStore) UpdateBasicInfo(_ context.Context, id string, info model.BasicInfo) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	if info.Name != nil {
		u.Name = *info.Name
	}
	if info.Phone != nil {
		u.Phone = *info.Phone
	}
	if info.Address != nil {
		u.Address = *info.Address
	}
	if info.Specialization != nil {
		u.Specialization = *info.Specialization
	}
	if info.Clinic != nil {
		u.Clinic = *info.Clinic
	}
	if info.ExperienceYears != nil {
		y := *info.ExperienceYears
		u.ExperienceYears = &y
	}
	u.UpdatedAt = time.Now()
	return copyUser(u), nil
}

func (m *memStore) ModifyProfileFields(_ context.Context, userID string, fn func(*model.ProfileFields) error) (model.ProfileFields, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return model.ProfileFields{}, store.ErrNotFound
	}
	fields := u.ProfileFields.Clone()
	if err := fn(&fields); err != nil {
		return model.ProfileFields{}, err
	}
	u.ProfileFields = fields.Clone()
	return fields, nil
}

func (m *memStore) CreateAppointment(_ context.Context, a *model.Appointment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	a.CreatedAt, a.UpdatedAt = now, now
	cp := *a
	m.appts[a.ID] = &cp
	return nil
}

func (m *memStore) PendingForDoctor(_ context.Context, doctorID string) ([]model.PendingRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []model.PendingRequest{}
	for _, a := range m.appts {
		if a.DoctorID != doctorID || a.Status != model.StatusPending {
			continue
		}
		p := m.users[a.PatientID]
		out = append(out, model.PendingRequest{
			Appointment: *a,
			Patient:     &model.Contact{ID: p.ID, Name: p.Name, Email: p.Email, Phone: p.Phone},
		})
	}
	return out, nil
}

func (m *memStore) ConfirmedForDoctor(_ context.Context, doctorID string) ([]model.ConfirmedPatient, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []model.ConfirmedPatient{}
	for _, a := range m.appts {
		if a.DoctorID != doctorID || a.Status != model.StatusConfirmed {
			continue
		}
		p := copyUser(m.users[a.PatientID])
		p.PasswordHash = ""
		out = append(out, model.ConfirmedPatient{AppointmentID: a.ID, Date: a.Date, Time: a.Time, Patient: p})
	}
	return out, nil
}

func (m *memStore) TransitionAppointment(_ context.Context, id, doctorID string, from, to model.Status) (*model.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.appts[id]
	if !ok || a.DoctorID != doctorID || a.Status != from {
		return nil, store.ErrNotFound
	}
	a.Status = to
	a.UpdatedAt = time.Now()
	cp := *a
	return &cp, nil
}

func (m *memStore) appointment(id string) (model.Appointment, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.appts[id]
	if !ok {
		return model.Appointment{}, false
	}
	return *a, true
}

func (m *memStore) appointmentCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.appts)
}

func (m *memStore) userCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.users)
}
