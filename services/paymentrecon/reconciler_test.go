package paymentrecon

import (
	"net/http"
	"testing"

	"ferry-booking/apperrors"
	paymentModel "ferry-booking/models/payment"
	"ferry-booking/services/bookingstate"
	paymentType "ferry-booking/types/payment"
)

func TestMapGatewayStatus(t *testing.T) {
	cases := []struct {
		code int
		want paymentModel.RefundStatus
	}{
		{http.StatusOK, paymentModel.RefundStatusSuccess},
		{http.StatusPreconditionFailed, paymentModel.RefundStatusFailed},
		{http.StatusInternalServerError, paymentModel.RefundStatusFailed},
		{http.StatusAccepted, paymentModel.RefundStatusProcessing},
		{http.StatusTeapot, paymentModel.RefundStatusProcessing},
		{0, paymentModel.RefundStatusProcessing},
	}

	for _, tc := range cases {
		if got := mapGatewayStatus(tc.code); got != tc.want {
			t.Errorf("mapGatewayStatus(%d) = %s, want %s", tc.code, got, tc.want)
		}
	}
}

func TestRefundStatusIsFinal(t *testing.T) {
	final := map[paymentModel.RefundStatus]bool{
		paymentModel.RefundStatusPending:    false,
		paymentModel.RefundStatusProcessing: false,
		paymentModel.RefundStatusSuccess:    true,
		paymentModel.RefundStatusFailed:     true,
		paymentModel.RefundStatusCancelled:  true,
	}

	for status, want := range final {
		if got := status.IsFinal(); got != want {
			t.Errorf("%s.IsFinal() = %v, want %v", status, got, want)
		}
	}
}

func TestRequestRefundValidation(t *testing.T) {
	svc := &Service{}
	actor := bookingstate.Actor{Type: "CUSTOMER", ID: 1}

	_, err := svc.RequestRefund(paymentType.RefundRequest{BookingID: 1}, actor)
	if !apperrors.IsValidation(err) {
		t.Fatalf("missing reason should fail validation, got %v", err)
	}

	_, err = svc.RequestRefund(paymentType.RefundRequest{
		BookingID:         1,
		Reason:            "missed sailing",
		BankAccountNumber: "0123456789",
	}, actor)
	if !apperrors.IsValidation(err) {
		t.Fatalf("manual refund without bank name should fail validation, got %v", err)
	}
}
