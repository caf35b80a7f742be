package bookingstate

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"ferry-booking/apperrors"
	"ferry-booking/logger"
	bookingModel "ferry-booking/models/booking"
	"ferry-booking/models/ferry"
	paymentModel "ferry-booking/models/payment"
	"ferry-booking/models/route"
	scheduleModel "ferry-booking/models/schedule"
	"ferry-booking/services/capacity"
	bookingType "ferry-booking/types/booking"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DefaultPaymentTTL is how long a checkout holds its seats before the
// pending payment expires and the booking is cancelled.
const DefaultPaymentTTL = 3 * time.Hour

// Checkout creates a PENDING booking with its tickets, vehicles and a
// pending payment, reserving capacity on the schedule date. Everything
// runs in one transaction: if the reservation fails, nothing is created.
func (s *Service) Checkout(req bookingType.CheckoutRequest, userID uint, actor Actor) (*bookingModel.Booking, error) {
	departureDate, err := time.Parse("2006-01-02", req.DepartureDate)
	if err != nil {
		return nil, apperrors.ValidationError{Field: "departure_date", Msg: "expected format 2006-01-02"}
	}
	if len(req.Passengers) == 0 && len(req.Vehicles) == 0 {
		return nil, apperrors.ValidationError{Field: "passengers", Msg: "booking needs at least one passenger or vehicle"}
	}
	for i, p := range req.Passengers {
		if strings.TrimSpace(p.Name) == "" {
			return nil, apperrors.ValidationError{Field: "passengers", Msg: fmt.Sprintf("passenger %d has no name", i+1)}
		}
	}
	amounts := capacity.Amounts{Passengers: len(req.Passengers)}
	for i, v := range req.Vehicles {
		switch v.Class {
		case ferry.ClassMotorcycle:
			amounts.Motorcycles++
		case ferry.ClassCar:
			amounts.Cars++
		case ferry.ClassBus:
			amounts.Buses++
		case ferry.ClassTruck:
			amounts.Trucks++
		default:
			return nil, apperrors.ValidationError{Field: "vehicles", Msg: fmt.Sprintf("vehicle %d has unknown class %q", i+1, v.Class)}
		}
		if strings.TrimSpace(v.PlateNumber) == "" {
			return nil, apperrors.ValidationError{Field: "vehicles", Msg: fmt.Sprintf("vehicle %d has no plate number", i+1)}
		}
	}

	var result *bookingModel.Booking
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		var sched scheduleModel.Schedule
		if err := tx.Preload("Route").First(&sched, req.ScheduleID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFoundError{Resource: "schedule", Err: err}
			}
			return apperrors.InternalError{Msg: "failed to load schedule", Err: err}
		}

		var sd scheduleModel.ScheduleDate
		err := tx.Where("schedule_id = ? AND date = ?", req.ScheduleID, departureDate).First(&sd).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFoundError{Resource: "schedule date", Err: err}
			}
			return apperrors.InternalError{Msg: "failed to load schedule date", Err: err}
		}

		if err := s.Capacity.Reserve(tx, sd.ID, amounts); err != nil {
			return err
		}

		b := bookingModel.Booking{
			Code:            generateBookingCode(),
			UserID:          userID,
			ScheduleID:      sched.ID,
			DepartureDate:   departureDate,
			PassengerCount:  amounts.Passengers,
			MotorcycleCount: amounts.Motorcycles,
			CarCount:        amounts.Cars,
			BusCount:        amounts.Buses,
			TruckCount:      amounts.Trucks,
			TotalAmount:     totalFare(&sched.Route, amounts),
			Status:          bookingModel.BookingStatusPending,
			CreatedBy:       actorLabel(actor),
		}
		if err := tx.Create(&b).Error; err != nil {
			return apperrors.InternalError{Msg: "failed to create booking", Err: err}
		}

		tickets := make([]bookingModel.Ticket, 0, len(req.Passengers)+len(req.Vehicles))
		for _, p := range req.Passengers {
			tickets = append(tickets, bookingModel.Ticket{
				BookingID:     b.ID,
				Class:         ferry.ClassPassenger,
				PassengerName: optional(p.Name),
				SeatNumber:    optional(p.SeatNumber),
				Status:        bookingModel.TicketStatusActive,
			})
		}
		for _, v := range req.Vehicles {
			tickets = append(tickets, bookingModel.Ticket{
				BookingID:     b.ID,
				Class:         v.Class,
				PassengerName: optional(v.OwnerName),
				Status:        bookingModel.TicketStatusActive,
			})
		}
		if err := tx.Create(&tickets).Error; err != nil {
			return apperrors.InternalError{Msg: "failed to create tickets", Err: err}
		}

		if len(req.Vehicles) > 0 {
			vehicles := make([]bookingModel.Vehicle, 0, len(req.Vehicles))
			for _, v := range req.Vehicles {
				vehicles = append(vehicles, bookingModel.Vehicle{
					BookingID:   b.ID,
					Class:       v.Class,
					PlateNumber: v.PlateNumber,
					OwnerName:   optional(v.OwnerName),
				})
			}
			if err := tx.Create(&vehicles).Error; err != nil {
				return apperrors.InternalError{Msg: "failed to create vehicles", Err: err}
			}
			b.Vehicles = vehicles
		}
		b.Tickets = tickets

		expiresAt := s.Now().Add(s.paymentTTL())
		p := paymentModel.Payment{
			BookingID: b.ID,
			Amount:    b.TotalAmount,
			Method:    req.PaymentMethod,
			Status:    paymentModel.PaymentStatusPending,
			ExpiresAt: &expiresAt,
		}
		if err := tx.Create(&p).Error; err != nil {
			return apperrors.InternalError{Msg: "failed to create payment", Err: err}
		}

		note := "booking created"
		entry := bookingModel.BookingLog{
			BookingID:      b.ID,
			PreviousStatus: bookingModel.BookingStatusPending,
			NewStatus:      bookingModel.BookingStatusPending,
			ActorType:      actor.Type,
			ActorID:        actor.ID,
			Note:           &note,
			IPAddress:      actor.IP,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return apperrors.InternalError{Msg: "failed to append booking log", Err: err}
		}

		result = &b
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Success(fmt.Sprintf("Booking %s created for schedule %d on %s", result.Code, result.ScheduleID, req.DepartureDate))
	return result, nil
}

func (s *Service) paymentTTL() time.Duration {
	if s.PaymentTTL > 0 {
		return s.PaymentTTL
	}
	return DefaultPaymentTTL
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

func generateBookingCode() string {
	raw := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return "FB-" + raw[:10]
}

func totalFare(r *route.Route, amounts capacity.Amounts) int64 {
	return int64(amounts.Passengers)*r.PassengerFare +
		int64(amounts.Motorcycles)*r.MotorcycleFare +
		int64(amounts.Cars)*r.CarFare +
		int64(amounts.Buses)*r.BusFare +
		int64(amounts.Trucks)*r.TruckFare
}
