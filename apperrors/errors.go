package apperrors

import (
	"errors"
	"fmt"
)

// IllegalTransitionError is returned when a booking status change is not in
// the allowed transition table. It is never retried.
type IllegalTransitionError struct {
	From string
	To   string
}

func (e IllegalTransitionError) Error() string {
	return fmt.Sprintf("transition not allowed: %s -> %s", e.From, e.To)
}

// CapacityExceededError is returned when a reservation would overflow one of
// the capacity classes on a schedule date.
type CapacityExceededError struct {
	Class     string
	Requested int
	Available int
}

func (e CapacityExceededError) Error() string {
	return fmt.Sprintf("capacity exceeded for %s: requested %d, available %d", e.Class, e.Requested, e.Available)
}

type NotFoundError struct {
	Resource string
	Err      error
}

func (e NotFoundError) Error() string {
	if e.Resource == "" {
		return "not found"
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

func (e NotFoundError) Unwrap() error { return e.Err }

// GatewayError wraps a failed or timed-out payment gateway call. Transient;
// the polling layer retries it.
type GatewayError struct {
	Operation string
	Err       error
}

func (e GatewayError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("payment gateway error during %s", e.Operation)
	}
	return fmt.Sprintf("payment gateway error during %s: %v", e.Operation, e.Err)
}

func (e GatewayError) Unwrap() error { return e.Err }

// DataIntegrityError reports an inconsistency that was detected and
// contained (e.g. a release that would drive a counter negative, or a
// notification candidate with a missing relation). The surrounding batch
// continues.
type DataIntegrityError struct {
	Resource string
	Msg      string
}

func (e DataIntegrityError) Error() string {
	if e.Resource == "" {
		return e.Msg
	}
	return fmt.Sprintf("%s: %s", e.Resource, e.Msg)
}

type ValidationError struct {
	Field string
	Msg   string
}

func (e ValidationError) Error() string {
	if e.Field == "" {
		return e.Msg
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Msg)
}

type InternalError struct {
	Msg string
	Err error
}

func (e InternalError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "internal error"
}

func (e InternalError) Unwrap() error { return e.Err }

func IsIllegalTransition(err error) bool {
	var target IllegalTransitionError
	return errors.As(err, &target)
}

func IsCapacityExceeded(err error) bool {
	var target CapacityExceededError
	return errors.As(err, &target)
}

func IsNotFound(err error) bool {
	var target NotFoundError
	return errors.As(err, &target)
}

func IsGateway(err error) bool {
	var target GatewayError
	return errors.As(err, &target)
}

func IsDataIntegrity(err error) bool {
	var target DataIntegrityError
	return errors.As(err, &target)
}

func IsValidation(err error) bool {
	var target ValidationError
	return errors.As(err, &target)
}
