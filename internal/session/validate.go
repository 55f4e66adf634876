package session

import (
	"errors"
	"regexp"
)

// MinPasswordLength is the shortest password the client submits.
const MinPasswordLength = 6

var (
	ErrEmailRequired    = errors.New("email is required")
	ErrEmailInvalid     = errors.New("email address is invalid")
	ErrPasswordRequired = errors.New("password is required")
	ErrPasswordTooShort = errors.New("password must be at least 6 characters")
)

var emailPattern = regexp.MustCompile(`(?i)^[A-Z0-9._%+-]+@[A-Z0-9.-]+\.[A-Z]{2,}$`)

// ValidateCredentials checks form input before it is sent. The server
// validates again on its own; this only saves a round trip.
// Every failing field is reported, joined into one error.
func ValidateCredentials(email, password string) error {
	var errs []error

	switch {
	case email == "":
		errs = append(errs, ErrEmailRequired)
	case !emailPattern.MatchString(email):
		errs = append(errs, ErrEmailInvalid)
	}

	switch {
	case password == "":
		errs = append(errs, ErrPasswordRequired)
	case len(password) < MinPasswordLength:
		errs = append(errs, ErrPasswordTooShort)
	}

	return errors.Join(errs...)
}
