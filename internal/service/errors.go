package service

import (
	"errors"
	"fmt"
)

// Error kinds surfaced to the API layer. Handlers translate these to HTTP
// status categories; anything unrecognized is treated as internal and never
// shown to the caller verbatim.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("not authenticated")
	ErrForbidden          = errors.New("forbidden")
	ErrNotFound           = errors.New("not found")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrSlotTaken          = errors.New("time slot already booked")
	ErrDoctorBooked       = errors.New("doctor has scheduled appointments")
	ErrValidation         = errors.New("validation failed")
)

func validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
