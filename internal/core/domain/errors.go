package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// Upload Errors.

	// ErrAlreadyQueued indicates a document is already queued or uploading.
	// Gateways may return it from SubmitUpload; the dispatcher never treats it as a failure.
	ErrAlreadyQueued = errors.New("document already queued or uploading")

	// ErrGatewayClosed indicates the upload gateway no longer accepts submissions.
	ErrGatewayClosed = errors.New("upload gateway closed")

	// ErrOffline indicates the upload transport has no network.
	ErrOffline = errors.New("network unavailable")

	// Process Errors.

	// ErrLockHeld indicates another dispatcher process already holds the daemon lock.
	ErrLockHeld = errors.New("daemon lock held by another process")
)
