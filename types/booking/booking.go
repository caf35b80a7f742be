package booking

// CheckoutRequest creates a new booking with its tickets and vehicles.
type CheckoutRequest struct {
	ScheduleID    uint   `json:"schedule_id"`
	DepartureDate string `json:"departure_date"` // "2006-01-02"

	Passengers []PassengerInput `json:"passengers"`
	Vehicles   []VehicleInput   `json:"vehicles"`

	PaymentMethod string `json:"payment_method"`
}

// PassengerInput carries one passenger's identity for ticket creation.
type PassengerInput struct {
	Name       string `json:"name"`
	SeatNumber string `json:"seat_number,omitempty"`
}

// VehicleInput carries one vehicle for slot reservation.
type VehicleInput struct {
	Class       string `json:"class"` // motorcycle, car, bus, truck
	PlateNumber string `json:"plate_number"`
	OwnerName   string `json:"owner_name,omitempty"`
}

// TransitionRequest asks the state machine for a status change.
type TransitionRequest struct {
	BookingID uint   `json:"booking_id"`
	Status    string `json:"status"`
	Reason    string `json:"reason,omitempty"`
}

// CheckInRequest marks one ticket as checked in.
type CheckInRequest struct {
	TicketID uint `json:"ticket_id"`
}

// CompleteRequest completes a booking once every ticket is checked in.
type CompleteRequest struct {
	BookingID uint `json:"booking_id"`
}
