package domain

import "errors"

var (
	ErrTicketNotFound  = errors.New("ticket not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrBookingNotFound = errors.New("booking not found")
)

var (
	ErrForbidden        = errors.New("forbidden: resource belongs to another identity")
	ErrDeparturePassed  = errors.New("Departure time has already passed")
	ErrQuantityTooLow   = errors.New("booking quantity is below the minimum of 1")
	ErrQuantityExceeded = errors.New("booking quantity exceeds available tickets")
	ErrAlreadyModerated = errors.New("ticket has already been moderated")
)

var ErrValidation = errors.New("validation error")
