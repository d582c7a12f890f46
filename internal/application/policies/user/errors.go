package policies

import "errors"

var (
	ErrRoleIsImmutable           = errors.New("User role cannot be changed after registration")
	ErrInvalidRegistrationRole   = errors.New("Role must be either startup or investor")
	ErrTargetUserNotFound        = errors.New("Target user not found")
	ErrYouCannotRemoveYourself   = errors.New("You cannot remove your own account")
	ErrAdminsCannotRemoveAdmins  = errors.New("Admins cannot remove other admins")
)
