package errors

import "fmt"

var (
	ErrInvalidParticipants = fmt.Errorf("sender and recipient must be distinct users")
	ErrEmptyContent        = fmt.Errorf("message content is empty")
	ErrForbidden           = fmt.Errorf("user is not a participant of this thread")
	ErrThreadNotFound      = fmt.Errorf("thread not found")
	ErrUserNotFound        = fmt.Errorf("user not found")
	ErrUserAlreadyExists   = fmt.Errorf("username is already taken")
	ErrInvalidCredentials  = fmt.Errorf("invalid credentials")
	ErrInvalidPassword     = fmt.Errorf("password does not meet complexity rules")
	ErrTokenGeneration     = fmt.Errorf("token generation failed")
	ErrWorkerPanic         = fmt.Errorf("worker panic")
)
