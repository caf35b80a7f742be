package constants

// Organization permissions
const (
	// Admin permissions
	PermSuperAdminFull = "ferry-booking.super-admin.full-permit"
	PermAdminFull      = "ferry-booking.admin.full-permit"
	PermOperatorFull   = "ferry-booking.operator.full-permit"
	PermCounterFull    = "ferry-booking.counter.full-permit"
	PermCustomerFull   = "ferry-booking.customer.full-permit"

	// Special permissions
	PermAny = "any"
)

// Permission groups for convenience
var (
	AdminPermissions = []string{
		PermSuperAdminFull,
		PermAdminFull,
	}

	StaffPermissions = []string{
		PermSuperAdminFull,
		PermAdminFull,
		PermOperatorFull,
		PermCounterFull,
	}
)
