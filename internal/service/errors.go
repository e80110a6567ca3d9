// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"database/sql"
	"errors"
	"fmt"
)

// Sentinel errors returned by the services. Callers match them with errors.Is.
var (
	// ErrNotFound is returned when a user, post or comment does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a unique field is already taken.
	ErrConflict = errors.New("already exists")
	// ErrInvalidCredentials is returned when an email/password pair does not match.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrForbidden is returned when the acting user may not perform an action.
	ErrForbidden = errors.New("forbidden")
	// ErrNotCommentAuthor is returned when anyone but its author edits a comment.
	ErrNotCommentAuthor = fmt.Errorf("%w: not the comment author", ErrForbidden)
	// ErrCannotDeleteComment is returned when neither the author nor the
	// admin deletes a comment.
	ErrCannotDeleteComment = fmt.Errorf("%w: not the comment author or an admin", ErrForbidden)
)

// ValidationError reports a missing or invalid input field.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	return e.Field + " " + e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func required(field string) *ValidationError {
	return &ValidationError{Field: field, Message: "is required"}
}

// notFound translates sql.ErrNoRows into ErrNotFound and annotates other errors.
func notFound(err error, entity string, id any) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s %v: %w", entity, id, ErrNotFound)
	}
	return fmt.Errorf("getting %s %v: %w", entity, id, err)
}
