package models

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role is the capability class assigned to an account.
type Role string

const (
	RolePatient Role = "patient"
	RoleDoctor  Role = "doctor"
	RoleAdmin   Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RolePatient, RoleDoctor, RoleAdmin:
		return true
	}
	return false
}

// VerificationStatus is the admin approval state for doctor accounts.
// It gates doctor features, not authentication.
type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "pending"
	VerificationApproved VerificationStatus = "approved"
	VerificationRejected VerificationStatus = "rejected"
)

// Qualification is one entry of a doctor's education history.
// CertificateURL points at the uploaded document; the binary is not stored here.
type Qualification struct {
	Degree         string `bson:"degree" json:"degree"`
	Institution    string `bson:"institution" json:"institution"`
	Year           int    `bson:"year" json:"year"`
	CertificateURL string `bson:"certificate,omitempty" json:"certificate,omitempty"`
}

// Experience is one entry of a doctor's work history. To is nil for a
// current position.
type Experience struct {
	Hospital       string     `bson:"hospital" json:"hospital"`
	Position       string     `bson:"position" json:"position"`
	From           time.Time  `bson:"from" json:"from"`
	To             *time.Time `bson:"to,omitempty" json:"to,omitempty"`
	CertificateURL string     `bson:"certificate,omitempty" json:"certificate,omitempty"`
}

// Validate checks the period is well-formed: an end date, when present,
// may not precede the start date.
func (e Experience) Validate() error {
	if e.To != nil && e.To.Before(e.From) {
		return errors.New("experience end date precedes start date")
	}
	return nil
}

type User struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name     string             `bson:"name" json:"name"`
	Email    string             `bson:"email" json:"email"` // stored lowercase
	Password string             `bson:"password" json:"-"`  // bcrypt hash, hidden from JSON responses
	Role     Role               `bson:"role" json:"role"`
	Phone    string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Address  string             `bson:"address,omitempty" json:"address,omitempty"`
	Avatar   string             `bson:"avatar,omitempty" json:"avatar,omitempty"`
	Bio      string             `bson:"bio,omitempty" json:"bio,omitempty"`

	// Doctor-only fields, empty for patients and admins.
	Specialization     string             `bson:"specialization,omitempty" json:"specialization,omitempty"`
	RegistrationNumber string             `bson:"registrationNumber,omitempty" json:"registrationNumber,omitempty"`
	Qualifications     []Qualification    `bson:"qualifications,omitempty" json:"qualifications,omitempty"`
	Experience         []Experience       `bson:"experience,omitempty" json:"experience,omitempty"`
	IsVerified         bool               `bson:"isVerified" json:"isVerified"`
	VerificationStatus VerificationStatus `bson:"verificationStatus,omitempty" json:"verificationStatus,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// SessionUser is the sanitized view of an account held by a client session
// and written to durable session storage. It never carries the password hash.
type SessionUser struct {
	ID     string `json:"id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Role   Role   `json:"role"`
	Avatar string `json:"avatar,omitempty"`
}

// View returns the session view of the account.
func (u *User) View() SessionUser {
	return SessionUser{
		ID:     u.ID.Hex(),
		Email:  u.Email,
		Name:   u.Name,
		Role:   u.Role,
		Avatar: u.Avatar,
	}
}
