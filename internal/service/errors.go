package service

import "errors"

// Validation and authorization errors surfaced to callers. Handlers map
// these to HTTP status codes; everything else is treated as internal.
var (
	ErrNotAuthenticated   = errors.New("not authenticated")
	ErrNotFamilyMember    = errors.New("user is not a family member")
	ErrAlreadyMember      = errors.New("user already belongs to a family")
	ErrNotAdmin           = errors.New("only family admins can do this")
	ErrMemberNotFound     = errors.New("member not found")
	ErrCannotRemoveSelf   = errors.New("cannot remove yourself")
	ErrFamilyNotFound     = errors.New("family not found")
	ErrFamilyNameRequired = errors.New("family name is required")

	ErrInvalidDescription = errors.New("description is required")
	ErrInvalidAmount      = errors.New("amount must be greater than 0")
	ErrInvalidDate        = errors.New("date must be in YYYY-MM-DD format")
	ErrExpenseNotFound    = errors.New("expense not found")

	// Invalid and expired tokens intentionally share one error so callers
	// can't probe which case occurred.
	ErrInvalidInvitation = errors.New("invitation is invalid or expired")
	ErrEmailMismatch     = errors.New("this invitation is for a different email address")
)
