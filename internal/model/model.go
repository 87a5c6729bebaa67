package model

import "time"

type Role string

const (
	RolePatient Role = "patient"
	RoleDoctor  Role = "doctor"
)

func (r Role) Valid() bool {
	return r == RolePatient || r == RoleDoctor
}

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	// reserved, nothing transitions into it yet
	StatusCompleted Status = "completed"
	StatusDeclined  Status = "declined"
)

// Caller is the authenticated identity a request acts as.
type Caller struct {
	ID   string
	Role Role
}

type User struct {
	ID              string        `json:"id"`
	Email           string        `json:"email"`
	PasswordHash    string        `json:"-"`
	Name            string        `json:"name"`
	Role            Role          `json:"role"`
	Phone           string        `json:"phone,omitempty"`
	Address         string        `json:"address,omitempty"`
	Specialization  string        `json:"specialization,omitempty"`
	Clinic          string        `json:"clinic,omitempty"`
	ExperienceYears *int          `json:"experienceYears,omitempty"`
	ProfileFields   ProfileFields `json:"profileFields"`
	CreatedAt       time.Time     `json:"createdAt"`
	UpdatedAt       time.Time     `json:"updatedAt"`
}

// StripDoctorFields clears attributes that only make sense for doctors.
func (u *User) StripDoctorFields() {
	if u.Role == RoleDoctor {
		return
	}
	u.Specialization = ""
	u.Clinic = ""
	u.ExperienceYears = nil
}

// Doctor is the public directory entry shown to patients.
type Doctor struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Email           string `json:"email"`
	Phone           string `json:"phone,omitempty"`
	Specialization  string `json:"specialization,omitempty"`
	Clinic          string `json:"clinic,omitempty"`
	ExperienceYears *int   `json:"experienceYears,omitempty"`
}

// Contact is the slice of a patient attached to a pending request.
type Contact struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

type Appointment struct {
	ID        string    `json:"id"`
	PatientID string    `json:"patientId"`
	DoctorID  string    `json:"doctorId"`
	Date      time.Time `json:"date"`
	Time      string    `json:"time"`
	Reason    string    `json:"reason,omitempty"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// PendingRequest is a pending appointment with the requesting patient joined in.
type PendingRequest struct {
	Appointment
	Patient *Contact `json:"patient"`
}

// ConfirmedPatient is one row of a doctor's patient list.
type ConfirmedPatient struct {
	AppointmentID string    `json:"appointmentId"`
	Date          time.Time `json:"date"`
	Time          string    `json:"time"`
	Patient       *User     `json:"patient"`
}

// BasicInfo is a partial profile update. Nil means "not supplied".
type BasicInfo struct {
	Name            *string
	Phone           *string
	Address         *string
	Specialization  *string
	Clinic          *string
	ExperienceYears *int
}

func (b BasicInfo) Empty() bool {
	return b.Name == nil && b.Phone == nil && b.Address == nil &&
		b.Specialization == nil && b.Clinic == nil && b.ExperienceYears == nil
}
