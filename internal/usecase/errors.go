package usecase

import "errors"

var (
	ErrUnknownUser               = errors.New("unknown user")
	ErrDuplicateTitle            = errors.New("room title already exists")
	ErrRoomNotFound              = errors.New("room not found")
	ErrNoActiveSession           = errors.New("room has no active session")
	ErrReservationNotYetStarted  = errors.New("reservation has not started yet")
	ErrSessionNotFound           = errors.New("remote session not found")
	ErrSessionProvisioningFailed = errors.New("session provisioning failed")
	ErrInvalidReservation        = errors.New("reservation time is required")
	ErrRoomLockUnavailable       = errors.New("room lock unavailable")

	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid credentials")
)
