package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmptyBooking       = errors.New("a rental must reserve at least one day")
	ErrNotFound           = errors.New("not found")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidState       = errors.New("invalid state transition")
	ErrStorage            = errors.New("storage failure")
	ErrInvalidInput       = errors.New("invalid input")
	ErrAlreadyExists      = errors.New("already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// ConflictError lists the requested days already held by an active rental of
// the same suit.
type ConflictError struct {
	Days []Day
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("suit is already booked on %s", strings.Join(DayStrings(e.Days), ", "))
}

// DuplicateDayError is returned when a booking names the same day twice.
type DuplicateDayError struct {
	Days []Day
}

func (e *DuplicateDayError) Error() string {
	return fmt.Sprintf("day supplied more than once: %s", strings.Join(DayStrings(e.Days), ", "))
}

// StorageError wraps a failure of the underlying store.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

func (e *StorageError) Is(target error) bool { return target == ErrStorage }

// AsStorageError passes domain errors through untouched and wraps everything
// else as a StorageError.
func AsStorageError(op string, err error) error {
	if err == nil {
		return nil
	}
	if IsDomainError(err) {
		return err
	}
	return &StorageError{Op: op, Err: err}
}

// IsDomainError reports whether err already belongs to the error taxonomy.
func IsDomainError(err error) bool {
	var conflict *ConflictError
	var dup *DuplicateDayError
	var storage *StorageError
	switch {
	case errors.As(err, &conflict), errors.As(err, &dup), errors.As(err, &storage):
		return true
	}
	for _, sentinel := range []error{
		ErrEmptyBooking, ErrNotFound, ErrUnauthorized, ErrInvalidState,
		ErrInvalidInput, ErrAlreadyExists, ErrInvalidCredentials,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}
