package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestErrorPredicates(t *testing.T) {
	cases := []struct {
		err  error
		pred func(error) bool
	}{
		{IllegalTransitionError{From: "COMPLETED", To: "PENDING"}, IsIllegalTransition},
		{CapacityExceededError{Class: "car", Requested: 3, Available: 1}, IsCapacityExceeded},
		{NotFoundError{Resource: "booking"}, IsNotFound},
		{GatewayError{Operation: "refund"}, IsGateway},
		{DataIntegrityError{Resource: "schedule_date", Msg: "negative counter"}, IsDataIntegrity},
		{ValidationError{Field: "reason", Msg: "required"}, IsValidation},
	}

	for _, tc := range cases {
		if !tc.pred(tc.err) {
			t.Errorf("predicate failed for %T", tc.err)
		}
		// Wrapped errors still match.
		if !tc.pred(fmt.Errorf("context: %w", tc.err)) {
			t.Errorf("predicate failed for wrapped %T", tc.err)
		}
	}

	if IsValidation(errors.New("plain")) {
		t.Error("plain error should not match IsValidation")
	}
	if IsNotFound(nil) {
		t.Error("nil should not match IsNotFound")
	}
}

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{nil, http.StatusOK},
		{ValidationError{Msg: "bad"}, http.StatusBadRequest},
		{NotFoundError{Resource: "refund"}, http.StatusNotFound},
		{IllegalTransitionError{From: "CANCELLED", To: "CONFIRMED"}, http.StatusConflict},
		{CapacityExceededError{Class: "bus"}, http.StatusConflict},
		{GatewayError{Operation: "status"}, http.StatusBadGateway},
		{DataIntegrityError{Msg: "mismatch"}, http.StatusInternalServerError},
		{InternalError{Msg: "boom"}, http.StatusInternalServerError},
		{errors.New("opaque"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		if got := HTTPStatus(tc.err); got != tc.want {
			t.Errorf("HTTPStatus(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}

func TestGatewayErrorUnwrap(t *testing.T) {
	inner := errors.New("connection refused")
	err := GatewayError{Operation: "refund", Err: inner}
	if !errors.Is(err, inner) {
		t.Error("GatewayError should unwrap to the inner error")
	}
}
