package domain

import "errors"

var (
	ErrTrainNotFound    = errors.New("train not found")
	ErrTrainNumberTaken = errors.New("train number already exists")
	ErrNoSeatsAvailable = errors.New("no seats available")
	ErrBookingNotFound  = errors.New("booking not found")
	ErrNotOwner         = errors.New("booking does not belong to user")
	ErrNameTaken        = errors.New("user name already exists")
	ErrBadCredentials   = errors.New("invalid name or password")
)
