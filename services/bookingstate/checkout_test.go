package bookingstate

import (
	"strings"
	"testing"

	"ferry-booking/apperrors"
	"ferry-booking/models/route"
	"ferry-booking/services/capacity"
	bookingType "ferry-booking/types/booking"
)

func TestCheckoutRejectsBadInput(t *testing.T) {
	svc := NewService(nil, nil)
	actor := Actor{Type: "CUSTOMER", ID: 1}

	cases := []struct {
		name string
		req  bookingType.CheckoutRequest
	}{
		{
			name: "bad departure date",
			req: bookingType.CheckoutRequest{
				ScheduleID:    1,
				DepartureDate: "31-12-2026",
				Passengers:    []bookingType.PassengerInput{{Name: "A"}},
			},
		},
		{
			name: "empty booking",
			req: bookingType.CheckoutRequest{
				ScheduleID:    1,
				DepartureDate: "2026-12-31",
			},
		},
		{
			name: "unnamed passenger",
			req: bookingType.CheckoutRequest{
				ScheduleID:    1,
				DepartureDate: "2026-12-31",
				Passengers:    []bookingType.PassengerInput{{Name: "  "}},
			},
		},
		{
			name: "unknown vehicle class",
			req: bookingType.CheckoutRequest{
				ScheduleID:    1,
				DepartureDate: "2026-12-31",
				Vehicles:      []bookingType.VehicleInput{{Class: "bicycle", PlateNumber: "X-1"}},
			},
		},
		{
			name: "vehicle without plate",
			req: bookingType.CheckoutRequest{
				ScheduleID:    1,
				DepartureDate: "2026-12-31",
				Vehicles:      []bookingType.VehicleInput{{Class: "car", PlateNumber: ""}},
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Checkout(tc.req, 1, actor)
			if !apperrors.IsValidation(err) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestGenerateBookingCode(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		code := generateBookingCode()
		if !strings.HasPrefix(code, "FB-") {
			t.Fatalf("code %q missing FB- prefix", code)
		}
		if len(code) != len("FB-")+10 {
			t.Fatalf("code %q has unexpected length", code)
		}
		if code != strings.ToUpper(code) {
			t.Fatalf("code %q is not uppercase", code)
		}
		if seen[code] {
			t.Fatalf("code %q repeated", code)
		}
		seen[code] = true
	}
}

func TestTotalFare(t *testing.T) {
	r := &route.Route{
		PassengerFare:  100,
		MotorcycleFare: 250,
		CarFare:        900,
		BusFare:        2000,
		TruckFare:      3000,
	}

	got := totalFare(r, capacity.Amounts{Passengers: 3, Cars: 1, Trucks: 2})
	want := int64(3*100 + 900 + 2*3000)
	if got != want {
		t.Errorf("totalFare = %d, want %d", got, want)
	}

	if fare := totalFare(r, capacity.Amounts{}); fare != 0 {
		t.Errorf("empty amounts should cost 0, got %d", fare)
	}
}

func TestActorLabel(t *testing.T) {
	if got := actorLabel(SystemActor); got != "SYSTEM" {
		t.Errorf("system actor label = %q", got)
	}
	if got := actorLabel(Actor{Type: "OPERATOR", ID: 42}); got != "OPERATOR:42" {
		t.Errorf("operator label = %q", got)
	}
}
