package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound           = errors.New("entity not found")
	ErrAlreadyExists      = errors.New("entity already exists")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrVerificationFailed = errors.New("payment verification failed")
	ErrAmountMismatch     = errors.New("payment amount or currency mismatch")
	ErrEmailMismatch      = errors.New("payer email does not match account")
	ErrUpstreamFailure    = errors.New("payment provider request failed")
	ErrOperationFailed    = errors.New("storage operation failed")
)
