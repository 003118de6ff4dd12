package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/courtbook/court-booking/internal/model"
	"github.com/courtbook/court-booking/internal/service"
	"github.com/courtbook/court-booking/internal/slot"
)

// BookingHandler exposes the booking lifecycle over HTTP.  All methods
// except Confirm and Slots run behind JWT authentication.
type BookingHandler struct {
	Svc *service.BookingService
}

func NewBookingHandler(svc *service.BookingService) *BookingHandler {
	return &BookingHandler{Svc: svc}
}

type createBookingReq struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
	Date  string `json:"date"`
	Time  string `json:"time"`
	Hours int    `json:"hours"`
}

type confirmReq struct {
	Token string `json:"token"`
}

func bookingJSON(b *model.Booking) echo.Map {
	return echo.Map{
		"id":             b.ID,
		"name":           b.Name,
		"email":          b.Email,
		"phone":          b.Phone,
		"date":           b.Date,
		"start_time":     slot.Label(b.StartHour),
		"hours":          b.Hours,
		"total_price":    b.TotalPrice,
		"status":         b.Status,
		"payment_status": b.PaymentStatus,
		"created_at":     b.CreatedAt,
	}
}

// Create handles POST /v1/bookings.
func (h *BookingHandler) Create(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createBookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	res, err := h.Svc.Create(c.Request().Context(), actor, service.CreateBookingInput{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
		Date:  req.Date,
		Time:  req.Time,
		Hours: req.Hours,
	})
	if err != nil {
		return serviceError(c, err)
	}

	body := bookingJSON(res.Booking)
	body["slots"] = res.Slots
	body["end_time"] = res.EndTime
	body["message"] = "booking created, please check your email to confirm"
	return c.JSON(http.StatusCreated, body)
}

// Confirm handles POST /v1/bookings/:id/confirm.  The token may arrive
// in the JSON body or as a query parameter, matching the link embedded
// in the confirmation email.
func (h *BookingHandler) Confirm(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	var req confirmReq
	_ = c.Bind(&req)
	token := req.Token
	if token == "" {
		token = c.QueryParam("token")
	}

	b, already, err := h.Svc.Confirm(c.Request().Context(), id, token)
	if err != nil {
		return serviceError(c, err)
	}
	msg := "booking confirmed"
	if already {
		msg = "booking already confirmed"
	}
	body := bookingJSON(b)
	body["message"] = msg
	return c.JSON(http.StatusOK, body)
}

// Cancel handles POST /v1/bookings/:id/cancel.
func (h *BookingHandler) Cancel(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}

	b, refunded, err := h.Svc.Cancel(c.Request().Context(), actor, id)
	if err != nil {
		return serviceError(c, err)
	}
	body := bookingJSON(b)
	body["refunded"] = refunded
	body["message"] = "booking cancelled"
	return c.JSON(http.StatusOK, body)
}

// Mine handles GET /v1/my/bookings.
func (h *BookingHandler) Mine(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bookings, err := h.Svc.ListForUser(c.Request().Context(), actor)
	if err != nil {
		return serviceError(c, err)
	}
	out := make([]echo.Map, 0, len(bookings))
	for i := range bookings {
		out = append(out, bookingJSON(&bookings[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": out})
}

// Slots handles GET /v1/bookings/slots?date=YYYY-MM-DD, the public
// calendar view of occupied hours.
func (h *BookingHandler) Slots(c echo.Context) error {
	date := c.QueryParam("date")
	slots, err := h.Svc.BookedSlots(c.Request().Context(), date)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"date":         date,
		"booked_slots": slots,
	})
}
