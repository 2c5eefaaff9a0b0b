package user

import "errors"

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")

	ErrVerificationTokenNotFound = errors.New("email verification token not found")
	ErrResetTokenNotFound        = errors.New("password reset token not found")
	ErrBearerTokenNotFound       = errors.New("bearer token not found")
)
