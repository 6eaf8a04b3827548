package models

import (
	"time"

	"gorm.io/gorm"
)

// Account types. AccountType is fixed at signup; none of the generic
// profile-update paths write it.
const (
	AccountTypeStudent    = "Student"
	AccountTypeInstructor = "Instructor"
	AccountTypeAdmin      = "Admin"
)

type User struct {
	gorm.Model
	FirstName    string
	LastName     string
	Email        string `gorm:"unique;not null"`
	PasswordHash string `gorm:"not null" json:"-"`
	AccountType  string `gorm:"default:Student"`
	Image        string
	ProfileID    uint
	Profile      Profile
}

// Profile holds the optional account details. It is created together with
// its User at signup and deleted together with it on account deletion.
type Profile struct {
	gorm.Model
	DateOfBirth   *time.Time
	About         string
	ContactNumber string
	Gender        string
}

// Enrollment is the explicit (user, course) join row. Keeping it as a model
// of its own lets the enrolled-course listing preserve enrollment order and
// gives checkout a concrete row to create.
type Enrollment struct {
	gorm.Model
	UserID   uint `gorm:"uniqueIndex:idx_enrollment_user_course"`
	CourseID uint `gorm:"uniqueIndex:idx_enrollment_user_course"`
}
