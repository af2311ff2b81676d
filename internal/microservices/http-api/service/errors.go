package service

import (
	"errors"

	"bloghub/internal/microservices/http-api/policy"

	"gorm.io/gorm"
)

// Error kinds. Handlers map them to status codes with errors.Is.
var (
	ErrValidation     = errors.New("validation error")
	ErrAuthentication = errors.New("authentication failed")
	ErrForbidden      = errors.New("forbidden")
	ErrNotFound       = errors.New("not found")
)

// Error is a client-facing failure of one kind. Error() is the message shown
// to the client; the kind is reachable through errors.Is.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string { return e.Msg }
func (e *Error) Unwrap() error { return e.Kind }

func validationError(msg string) error { return &Error{Kind: ErrValidation, Msg: msg} }

var (
	ErrInvalidCredentials = &Error{Kind: ErrAuthentication, Msg: "invalid credentials"}
	ErrAccountDisabled    = &Error{Kind: ErrAuthentication, Msg: "user account is disabled"}
	ErrInvalidToken       = &Error{Kind: ErrAuthentication, Msg: "invalid token"}
	ErrExpiredToken       = &Error{Kind: ErrAuthentication, Msg: "token has expired"}
	ErrLogoutToken        = &Error{Kind: ErrValidation, Msg: "invalid token"}
	ErrEmailInUse         = &Error{Kind: ErrValidation, Msg: "email already in use"}
	ErrNameInUse          = &Error{Kind: ErrValidation, Msg: "username already in use"}
	ErrPasswordMismatch   = &Error{Kind: ErrValidation, Msg: "password fields didn't match"}
	ErrWrongPassword      = &Error{Kind: ErrValidation, Msg: "incorrect password"}
	ErrSlugTaken          = &Error{Kind: ErrValidation, Msg: "slug already exists"}
	ErrEmptySlug          = &Error{Kind: ErrValidation, Msg: "title must contain at least one letter or digit"}

	ErrPostNotFound     = &Error{Kind: ErrNotFound, Msg: "post not found"}
	ErrCategoryNotFound = &Error{Kind: ErrNotFound, Msg: "category not found"}
	ErrCommentNotFound  = &Error{Kind: ErrNotFound, Msg: "comment not found"}
	ErrUserNotFound     = &Error{Kind: ErrNotFound, Msg: "user not found"}
)

// authorize applies the ownership rule and converts its verdict to an error kind.
func authorize(actor *policy.Actor, ownerID string, op policy.Operation) error {
	err := policy.Authorize(actor, ownerID, op)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, policy.ErrUnauthenticated):
		return &Error{Kind: ErrAuthentication, Msg: err.Error()}
	case errors.Is(err, policy.ErrNotOwner):
		return &Error{Kind: ErrForbidden, Msg: err.Error()}
	default:
		return err
	}
}

// notFound translates a missing row into the given error and passes anything
// else through.
func notFound(err error, missing error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return missing
	}
	return err
}
