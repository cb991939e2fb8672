package domain

import "errors"

var (
	// ErrSessionNotFound indicates the requested session does not exist or
	// has expired.
	ErrSessionNotFound = errors.New("session not found")

	// ErrTransitionBlocked indicates a wizard guard rejected the advance.
	ErrTransitionBlocked = errors.New("transition blocked")

	// ErrUnknownPackage indicates a package id not present in the catalog.
	ErrUnknownPackage = errors.New("unknown package")

	// ErrUnknownExtra indicates an extra id not present in the catalog.
	ErrUnknownExtra = errors.New("unknown extra")

	// ErrInvalidSize indicates a size outside the item's variant list.
	ErrInvalidSize = errors.New("invalid size")

	// ErrNotPayment indicates an operation that requires the payment step.
	ErrNotPayment = errors.New("not in payment step")
)
