package crm

import "errors"

var (
	// ErrCorruptState means the persisted document could not be decoded.
	// Load still returns a usable empty snapshot alongside it.
	ErrCorruptState = errors.New("customer data is corrupted")

	// ErrNotFound means the operation targets an unknown customer.
	ErrNotFound = errors.New("customer not found")

	// ErrInvalidArgument means the update payload was malformed.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrAlreadyExists is returned by Add when duplicates are rejected.
	ErrAlreadyExists = errors.New("customer already exists")

	// ErrPersistence wraps backend write failures.
	ErrPersistence = errors.New("failed to persist customer data")

	// ErrNoDocument is returned by a Backend when nothing has been stored yet.
	ErrNoDocument = errors.New("no customer document")
)
