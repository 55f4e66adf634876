package service

import "errors"

var (
	ErrMissingFields      = errors.New("email and password are required")
	ErrPasswordTooLong    = errors.New("password must be at most 72 bytes")
	ErrDuplicateEmail     = errors.New("a user with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")

	ErrTitleRequired = errors.New("title is required")
	ErrPostNotFound  = errors.New("post not found")
	ErrNotPostOwner  = errors.New("not allowed to modify this post")
)
