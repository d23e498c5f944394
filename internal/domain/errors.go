package domain

import (
	"errors"
	"fmt"
)

// -----------------------------------------------------------------------------
// Domain Errors
// These errors represent domain-level failures and are matched with errors.Is
// by the CLIs and the MCP server to decide what to show the user.
// -----------------------------------------------------------------------------

// Problem file errors
var (
	ErrMalformedDescriptor  = errors.New("malformed problem descriptor")
	ErrInvalidDifficultyKey = errors.New("invalid difficulty key")
)

// Client setup errors
var (
	ErrNotConfigured      = errors.New("client not configured")
	ErrNotRegistered      = errors.New("not registered")
	ErrRegistrationFailed = errors.New("registration failed")
	ErrNameTaken          = errors.New("name already registered")
	ErrUnauthorized       = errors.New("unauthorized")
)

// Submission errors
var (
	ErrEmptyContent  = errors.New("empty content")
	ErrNotSubmission = errors.New("not a student submission")
	ErrNotGraded     = errors.New("not a graded problem")
	ErrExpired       = errors.New("problem has expired")
	ErrNeedsConfirm  = errors.New("confirmation required")
)

// ParseError describes why a problem file was rejected
type ParseError struct {
	File   string
	Reason string
	Err    error // ErrMalformedDescriptor or ErrInvalidDifficultyKey
}

func (e *ParseError) Error() string {
	if e.File == "" {
		return fmt.Sprintf("%v: %s", e.Err, e.Reason)
	}
	return fmt.Sprintf("%s: %v: %s", e.File, e.Err, e.Reason)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
