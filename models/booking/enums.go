package booking

// BookingStatus represents the lifecycle state of a booking.
type BookingStatus string

const (
	BookingStatusPending       BookingStatus = "PENDING"
	BookingStatusConfirmed     BookingStatus = "CONFIRMED"
	BookingStatusCancelled     BookingStatus = "CANCELLED"
	BookingStatusCompleted     BookingStatus = "COMPLETED"
	BookingStatusRefundPending BookingStatus = "REFUND_PENDING"
	BookingStatusRefunded      BookingStatus = "REFUNDED"
)

// allowedTransitions defines the state machine. The key is the current
// status, the value the set of reachable statuses.
var allowedTransitions = map[BookingStatus][]BookingStatus{
	BookingStatusPending:       {BookingStatusConfirmed, BookingStatusCancelled},
	BookingStatusConfirmed:     {BookingStatusCompleted, BookingStatusCancelled, BookingStatusRefundPending},
	BookingStatusRefundPending: {BookingStatusRefunded, BookingStatusConfirmed},
	BookingStatusCancelled:     {},
	BookingStatusCompleted:     {},
	BookingStatusRefunded:      {},
}

func (bs BookingStatus) String() string {
	return string(bs)
}

// IsValid returns true if the status is a recognized booking status.
func (bs BookingStatus) IsValid() bool {
	_, exists := allowedTransitions[bs]
	return exists
}

// CanTransitionTo returns true if a transition from this status to the
// target is in the allowed table.
func (bs BookingStatus) CanTransitionTo(target BookingStatus) bool {
	allowed, exists := allowedTransitions[bs]
	if !exists {
		return false
	}
	for _, t := range allowed {
		if t == target {
			return true
		}
	}
	return false
}

// IsTerminal returns true if no further transitions are possible.
func (bs BookingStatus) IsTerminal() bool {
	allowed, exists := allowedTransitions[bs]
	if !exists {
		return true
	}
	return len(allowed) == 0
}

// GetAllBookingStatuses returns all valid booking statuses.
func GetAllBookingStatuses() []BookingStatus {
	return []BookingStatus{
		BookingStatusPending,
		BookingStatusConfirmed,
		BookingStatusCancelled,
		BookingStatusCompleted,
		BookingStatusRefundPending,
		BookingStatusRefunded,
	}
}

// TicketStatus represents the state of one seat or vehicle slot.
type TicketStatus string

const (
	TicketStatusActive    TicketStatus = "ACTIVE"
	TicketStatusCancelled TicketStatus = "CANCELLED"
	TicketStatusUsed      TicketStatus = "USED"
)

// ActorType identifies who requested a booking mutation.
type ActorType string

const (
	ActorAdmin    ActorType = "ADMIN"
	ActorOperator ActorType = "OPERATOR"
	ActorCustomer ActorType = "CUSTOMER"
	ActorSystem   ActorType = "SYSTEM"
)
