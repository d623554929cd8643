package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Role enum
type Role string

const (
	RoleDoctor  Role = "doctor"
	RolePatient Role = "patient"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleDoctor || r == RolePatient
}

// User is a patient or a doctor account
type User struct {
	BaseModel
	Username  string `gorm:"uniqueIndex;size:100;not null" json:"username"`
	Password  string `gorm:"size:255;not null" json:"-"` // Never send password in JSON
	FullName  string `gorm:"size:200" json:"fullName"`
	Email     string `gorm:"size:255" json:"email,omitempty"`
	Role      Role   `gorm:"size:20;index;not null" json:"role"`
	Specialty string `gorm:"size:100" json:"specialty,omitempty"` // doctors only
}

// UserSanitized represents the user data that is safe to send in API responses.
type UserSanitized struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	FullName  string    `json:"fullName"`
	Email     string    `json:"email,omitempty"`
	Role      Role      `json:"role"`
	Specialty string    `json:"specialty,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// DoctorSummary is what a patient sees when choosing a doctor.
type DoctorSummary struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Specialty string `json:"specialty"`
}

// SetPassword hashes a password and sets it on the user
func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashedPassword)
	return nil
}

// CheckPassword compares a password with the user's hashed password
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
	return err == nil
}

// Sanitize creates a UserSanitized struct from a User model, excluding sensitive data.
func (u *User) Sanitize() UserSanitized {
	return UserSanitized{
		ID:        u.ID,
		Username:  u.Username,
		FullName:  u.FullName,
		Email:     u.Email,
		Role:      u.Role,
		Specialty: u.Specialty,
		CreatedAt: u.CreatedAt,
	}
}

// DoctorSummary trims a doctor account down to the fields the intake form needs.
func (u *User) DoctorSummary() DoctorSummary {
	return DoctorSummary{ID: u.ID, Name: u.FullName, Specialty: u.Specialty}
}

// Identity is the authenticated caller, passed down to every scoped read.
type Identity struct {
	ID   string
	Role Role
}
