package schedule

import (
	"time"

	"ferry-booking/apperrors"
	"ferry-booking/logger"
	ferryModel "ferry-booking/models/ferry"
	routeModel "ferry-booking/models/route"
	scheduleModel "ferry-booking/models/schedule"
	"ferry-booking/services/capacity"
	"ferry-booking/types"
	scheduleTypes "ferry-booking/types/schedule"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// ScheduleController manages ferries, routes, schedules and sailing dates
type ScheduleController struct {
	DB       *gorm.DB
	Logger   *logger.AsyncLogger
	Capacity *capacity.Service
}

// NewScheduleController creates a new schedule controller
func NewScheduleController(db *gorm.DB, asyncLogger *logger.AsyncLogger, capacitySvc *capacity.Service) *ScheduleController {
	return &ScheduleController{
		DB:       db,
		Logger:   asyncLogger,
		Capacity: capacitySvc,
	}
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
		Status:  fiber.StatusBadRequest,
		Message: message,
		Data:    nil,
	})
}

func serviceError(c *fiber.Ctx, err error) error {
	status := apperrors.HTTPStatus(err)
	if status == fiber.StatusInternalServerError {
		logger.Error("Request failed", err)
		return c.Status(status).JSON(types.ApiResponse{
			Status:  status,
			Message: "Internal server error",
			Data:    nil,
		})
	}
	return c.Status(status).JSON(types.ApiResponse{
		Status:  status,
		Message: err.Error(),
		Data:    nil,
	})
}

func updaterName(c *fiber.Ctx) string {
	claims, ok := c.Locals("user").(map[string]interface{})
	if !ok {
		return "system"
	}
	if username, ok := claims["username"].(string); ok && username != "" {
		return username
	}
	return "system"
}

// CreateFerry registers a vessel with its per-class capacities
func (sc *ScheduleController) CreateFerry(c *fiber.Ctx) error {
	var req scheduleTypes.CreateFerryRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", err)
		return badRequest(c, "Invalid request body")
	}

	if req.Name == "" {
		return badRequest(c, "Ferry name is required")
	}
	if req.PassengerCapacity <= 0 {
		return badRequest(c, "Passenger capacity must be positive")
	}
	if req.MotorcycleCapacity < 0 || req.CarCapacity < 0 || req.BusCapacity < 0 || req.TruckCapacity < 0 {
		return badRequest(c, "Vehicle capacities cannot be negative")
	}

	newFerry := ferryModel.Ferry{
		Name:               req.Name,
		PassengerCapacity:  req.PassengerCapacity,
		MotorcycleCapacity: req.MotorcycleCapacity,
		CarCapacity:        req.CarCapacity,
		BusCapacity:        req.BusCapacity,
		TruckCapacity:      req.TruckCapacity,
		IsActive:           true,
	}
	if err := sc.DB.Create(&newFerry).Error; err != nil {
		logger.Error("Failed to create ferry", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to create ferry",
			Data:    nil,
		})
	}

	logger.Success("Ferry created: " + newFerry.Name)
	return c.Status(fiber.StatusCreated).JSON(types.ApiResponse{
		Status:  fiber.StatusCreated,
		Message: "Ferry created successfully",
		Data:    newFerry,
	})
}

// CreateRoute registers a route with its per-class fares
func (sc *ScheduleController) CreateRoute(c *fiber.Ctx) error {
	var req scheduleTypes.CreateRouteRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", err)
		return badRequest(c, "Invalid request body")
	}

	if req.Name == "" || req.OriginPort == "" || req.DestinationPort == "" {
		return badRequest(c, "Name, origin port and destination port are required")
	}
	if req.PassengerFare < 0 || req.MotorcycleFare < 0 || req.CarFare < 0 || req.BusFare < 0 || req.TruckFare < 0 {
		return badRequest(c, "Fares cannot be negative")
	}

	newRoute := routeModel.Route{
		Name:            req.Name,
		OriginPort:      req.OriginPort,
		DestinationPort: req.DestinationPort,
		PassengerFare:   req.PassengerFare,
		MotorcycleFare:  req.MotorcycleFare,
		CarFare:         req.CarFare,
		BusFare:         req.BusFare,
		TruckFare:       req.TruckFare,
		IsActive:        true,
	}
	if err := sc.DB.Create(&newRoute).Error; err != nil {
		logger.Error("Failed to create route", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to create route",
			Data:    nil,
		})
	}

	logger.Success("Route created: " + newRoute.Name)
	return c.Status(fiber.StatusCreated).JSON(types.ApiResponse{
		Status:  fiber.StatusCreated,
		Message: "Route created successfully",
		Data:    newRoute,
	})
}

// CreateSchedule binds a ferry to a route on a weekly operating pattern
func (sc *ScheduleController) CreateSchedule(c *fiber.Ctx) error {
	var req scheduleTypes.CreateScheduleRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", err)
		return badRequest(c, "Invalid request body")
	}

	if req.RouteID == 0 || req.FerryID == 0 {
		return badRequest(c, "Route ID and ferry ID are required")
	}
	if _, err := time.Parse("15:04", req.DepartureTime); err != nil {
		return badRequest(c, "Departure time must be in HH:MM format")
	}
	if _, err := time.Parse("15:04", req.ArrivalTime); err != nil {
		return badRequest(c, "Arrival time must be in HH:MM format")
	}
	if len(req.DaysOfWeek) == 0 {
		return badRequest(c, "At least one operating day is required")
	}
	mask, ok := scheduleModel.ParseWeekdays(req.DaysOfWeek)
	if !ok {
		return badRequest(c, "Days of week must be lowercase English weekday names")
	}

	var routeRow routeModel.Route
	if err := sc.DB.First(&routeRow, req.RouteID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return badRequest(c, "Route not found")
		}
		logger.Error("Failed to load route", err)
		return serviceError(c, err)
	}
	var ferryRow ferryModel.Ferry
	if err := sc.DB.First(&ferryRow, req.FerryID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return badRequest(c, "Ferry not found")
		}
		logger.Error("Failed to load ferry", err)
		return serviceError(c, err)
	}

	newSchedule := scheduleModel.Schedule{
		RouteID:       req.RouteID,
		FerryID:       req.FerryID,
		DepartureTime: req.DepartureTime,
		ArrivalTime:   req.ArrivalTime,
		DaysOfWeek:    mask,
		Status:        scheduleModel.StatusActive,
		CreatedBy:     updaterName(c),
	}
	if err := sc.DB.Create(&newSchedule).Error; err != nil {
		logger.Error("Failed to create schedule", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to create schedule",
			Data:    nil,
		})
	}

	logger.Success("Schedule created")
	return c.Status(fiber.StatusCreated).JSON(types.ApiResponse{
		Status:  fiber.StatusCreated,
		Message: "Schedule created successfully",
		Data:    newSchedule,
	})
}

// AddDate adds one sailing date to a schedule
func (sc *ScheduleController) AddDate(c *fiber.Ctx) error {
	var req scheduleTypes.AddDateRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", err)
		return badRequest(c, "Invalid request body")
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return badRequest(c, "Date must be in YYYY-MM-DD format")
	}

	sd, err := sc.Capacity.AddDate(req.ScheduleID, date)
	if err != nil {
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(types.ApiResponse{
		Status:  fiber.StatusCreated,
		Message: "Sailing date added",
		Data:    sd,
	})
}

// GenerateDates generates sailing dates over an inclusive range
func (sc *ScheduleController) GenerateDates(c *fiber.Ctx) error {
	var req scheduleTypes.GenerateDatesRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", err)
		return badRequest(c, "Invalid request body")
	}

	from, err := time.Parse("2006-01-02", req.FromDate)
	if err != nil {
		return badRequest(c, "From date must be in YYYY-MM-DD format")
	}
	to, err := time.Parse("2006-01-02", req.ToDate)
	if err != nil {
		return badRequest(c, "To date must be in YYYY-MM-DD format")
	}

	created, err := sc.Capacity.GenerateDates(req.ScheduleID, from, to)
	if err != nil {
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(types.ApiResponse{
		Status:  fiber.StatusCreated,
		Message: "Sailing dates generated",
		Data: fiber.Map{
			"created": created,
		},
	})
}

// DeleteDate removes an empty sailing date
func (sc *ScheduleController) DeleteDate(c *fiber.Ctx) error {
	var req scheduleTypes.DeleteDateRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", err)
		return badRequest(c, "Invalid request body")
	}

	if err := sc.Capacity.DeleteDate(req.ScheduleDateID); err != nil {
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Sailing date deleted",
		Data:    nil,
	})
}

// SetDateStatus sets an operator override on one sailing date
func (sc *ScheduleController) SetDateStatus(c *fiber.Ctx) error {
	var req scheduleTypes.SetDateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", err)
		return badRequest(c, "Invalid request body")
	}

	status := scheduleModel.DateStatus(req.Status)
	switch status {
	case scheduleModel.DateStatusAvailable, scheduleModel.DateStatusUnavailable,
		scheduleModel.DateStatusCancelled, scheduleModel.DateStatusDeparted,
		scheduleModel.DateStatusWeatherIssue:
	default:
		return badRequest(c, "Invalid date status")
	}

	expiresAt, err := parseExpiry(req.ExpiresAt)
	if err != nil {
		return badRequest(c, "Expiry must be an RFC3339 timestamp")
	}

	if err := sc.Capacity.SetDateStatus(req.ScheduleDateID, status, req.Reason, expiresAt); err != nil {
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Date status updated",
		Data:    nil,
	})
}

// SetScheduleStatus (de)activates a schedule, cascading to future dates
func (sc *ScheduleController) SetScheduleStatus(c *fiber.Ctx) error {
	var req scheduleTypes.SetScheduleStatusRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", err)
		return badRequest(c, "Invalid request body")
	}

	status := scheduleModel.Status(req.Status)
	if status != scheduleModel.StatusActive && status != scheduleModel.StatusInactive {
		return badRequest(c, "Status must be ACTIVE or INACTIVE")
	}

	expiresAt, err := parseExpiry(req.ExpiresAt)
	if err != nil {
		return badRequest(c, "Expiry must be an RFC3339 timestamp")
	}

	if err := sc.Capacity.SetScheduleStatus(req.ScheduleID, status, req.Reason, expiresAt); err != nil {
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Schedule status updated",
		Data:    nil,
	})
}

// ListDates returns the sailing dates of a schedule with remaining capacity
func (sc *ScheduleController) ListDates(c *fiber.Ctx) error {
	scheduleID, err := c.ParamsInt("id")
	if err != nil || scheduleID <= 0 {
		return badRequest(c, "Invalid schedule id")
	}

	var sched scheduleModel.Schedule
	if err := sc.DB.Preload("Route").Preload("Ferry").First(&sched, scheduleID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(fiber.StatusNotFound).JSON(types.ApiResponse{
				Status:  fiber.StatusNotFound,
				Message: "Schedule not found",
				Data:    nil,
			})
		}
		logger.Error("Failed to load schedule", err)
		return serviceError(c, err)
	}

	query := sc.DB.Where("schedule_id = ?", scheduleID)
	if from := c.Query("from"); from != "" {
		fromDate, err := time.Parse("2006-01-02", from)
		if err != nil {
			return badRequest(c, "From date must be in YYYY-MM-DD format")
		}
		query = query.Where("date >= ?", fromDate)
	}
	if to := c.Query("to"); to != "" {
		toDate, err := time.Parse("2006-01-02", to)
		if err != nil {
			return badRequest(c, "To date must be in YYYY-MM-DD format")
		}
		query = query.Where("date <= ?", toDate)
	}

	var dates []scheduleModel.ScheduleDate
	if err := query.Order("date ASC").Find(&dates).Error; err != nil {
		logger.Error("Failed to load schedule dates", err)
		return serviceError(c, err)
	}

	type dateAvailability struct {
		scheduleModel.ScheduleDate
		PassengerLeft  int `json:"passenger_left"`
		MotorcycleLeft int `json:"motorcycle_left"`
		CarLeft        int `json:"car_left"`
		BusLeft        int `json:"bus_left"`
		TruckLeft      int `json:"truck_left"`
	}

	result := make([]dateAvailability, 0, len(dates))
	for _, sd := range dates {
		result = append(result, dateAvailability{
			ScheduleDate:   sd,
			PassengerLeft:  remaining(sched.Ferry.PassengerCapacity, sd.PassengerCount),
			MotorcycleLeft: remaining(sched.Ferry.MotorcycleCapacity, sd.MotorcycleCount),
			CarLeft:        remaining(sched.Ferry.CarCapacity, sd.CarCount),
			BusLeft:        remaining(sched.Ferry.BusCapacity, sd.BusCount),
			TruckLeft:      remaining(sched.Ferry.TruckCapacity, sd.TruckCount),
		})
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Sailing dates fetched successfully",
		Data: fiber.Map{
			"schedule": sched,
			"dates":    result,
		},
	})
}

func parseExpiry(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func remaining(capacityTotal, used int) int {
	left := capacityTotal - used
	if left < 0 {
		return 0
	}
	return left
}
