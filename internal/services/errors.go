package services

import "errors"

// Service errors mapped to HTTP statuses by the handlers.
var (
	ErrUsernameTaken      = errors.New("username is already taken")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrNotOwner           = errors.New("you are not the owner of this ad")
	ErrNotParticipant     = errors.New("you are not a participant of this chat")
	ErrSelfChat           = errors.New("cannot start a chat with yourself")
	ErrOwnAd              = errors.New("you can't buy your own ad")
	ErrDuplicateRequest   = errors.New("you already have a pending request for this ad")
	ErrInvalidStatus      = errors.New("status must be accepted or rejected")
)
