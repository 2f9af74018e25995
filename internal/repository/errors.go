package repository

import "errors"

var (
	ErrEmailTaken   = errors.New("email already registered")
	ErrUserNotFound = errors.New("user not found")
	ErrTaskNotFound = errors.New("task not found")
	ErrNotTaskOwner = errors.New("task does not belong to user")
)
