package app

import "errors"

var (
	ErrPasswordRequired     = errors.New("password is required")
	ErrPasswordTooLong      = errors.New("password is too long")
	ErrUsernameRequired     = errors.New("username is required")
	ErrEmailRequired        = errors.New("email is required")
	ErrUsernameOrEmailTaken = errors.New("username or email already taken")
	ErrInvalidCredential    = errors.New("invalid credentials")
	ErrUserNotFound         = errors.New("user not found")
	ErrCannotFollowSelf     = errors.New("cannot follow yourself")
	ErrMessageEmpty         = errors.New("message text is required")
	ErrMessageTooLong       = errors.New("message text is too long")
	ErrMessageNotFound      = errors.New("message not found")
	ErrNotMessageOwner      = errors.New("message belongs to another user")
)
