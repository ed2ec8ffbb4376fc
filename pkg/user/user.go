package user

import (
	"errors"
	"time"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email is already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrIncorrectPassword  = errors.New("current password is incorrect")
	ErrUserDataInvalid    = errors.New("invalid user data")
)

type User struct {
	Id           int
	Uid          string
	Email        string
	FirstName    string
	LastName     string
	PasswordHash string
	Created      time.Time
}

// Registration is the data needed to create an account.
type Registration struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// ProfileUpdate changes the current user's profile. NewPassword is optional; when set CurrentPassword
// must match the stored hash.
type ProfileUpdate struct {
	Email           string
	FirstName       string
	LastName        string
	CurrentPassword string
	NewPassword     string
}
