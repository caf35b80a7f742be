package booking

import "testing"

func TestCanTransitionTo(t *testing.T) {
	cases := []struct {
		from    BookingStatus
		to      BookingStatus
		allowed bool
	}{
		{BookingStatusPending, BookingStatusConfirmed, true},
		{BookingStatusPending, BookingStatusCancelled, true},
		{BookingStatusPending, BookingStatusCompleted, false},
		{BookingStatusPending, BookingStatusRefundPending, false},
		{BookingStatusPending, BookingStatusRefunded, false},

		{BookingStatusConfirmed, BookingStatusCompleted, true},
		{BookingStatusConfirmed, BookingStatusCancelled, true},
		{BookingStatusConfirmed, BookingStatusRefundPending, true},
		{BookingStatusConfirmed, BookingStatusPending, false},
		{BookingStatusConfirmed, BookingStatusRefunded, false},

		{BookingStatusRefundPending, BookingStatusRefunded, true},
		{BookingStatusRefundPending, BookingStatusConfirmed, true},
		{BookingStatusRefundPending, BookingStatusCancelled, false},
		{BookingStatusRefundPending, BookingStatusCompleted, false},

		{BookingStatusCancelled, BookingStatusPending, false},
		{BookingStatusCancelled, BookingStatusConfirmed, false},
		{BookingStatusCompleted, BookingStatusRefundPending, false},
		{BookingStatusRefunded, BookingStatusConfirmed, false},
	}

	for _, tc := range cases {
		if got := tc.from.CanTransitionTo(tc.to); got != tc.allowed {
			t.Errorf("%s -> %s: got %v, want %v", tc.from, tc.to, got, tc.allowed)
		}
	}
}

func TestCanTransitionToSelf(t *testing.T) {
	for _, status := range GetAllBookingStatuses() {
		if status.CanTransitionTo(status) {
			t.Errorf("%s should not transition to itself", status)
		}
	}
}

func TestIsTerminal(t *testing.T) {
	terminal := map[BookingStatus]bool{
		BookingStatusPending:       false,
		BookingStatusConfirmed:     false,
		BookingStatusRefundPending: false,
		BookingStatusCancelled:     true,
		BookingStatusCompleted:     true,
		BookingStatusRefunded:      true,
	}

	for status, want := range terminal {
		if got := status.IsTerminal(); got != want {
			t.Errorf("%s.IsTerminal() = %v, want %v", status, got, want)
		}
	}
}

func TestIsValid(t *testing.T) {
	for _, status := range GetAllBookingStatuses() {
		if !status.IsValid() {
			t.Errorf("%s should be valid", status)
		}
	}

	for _, raw := range []string{"", "pending", "UNKNOWN", "DONE"} {
		if BookingStatus(raw).IsValid() {
			t.Errorf("%q should not be valid", raw)
		}
	}
}

func TestUnknownStatusIsTerminalAndImmovable(t *testing.T) {
	unknown := BookingStatus("LIMBO")
	if !unknown.IsTerminal() {
		t.Error("unknown status should report terminal")
	}
	if unknown.CanTransitionTo(BookingStatusConfirmed) {
		t.Error("unknown status should not transition anywhere")
	}
}
