package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/courtbook/court-booking/internal/model"
	"github.com/courtbook/court-booking/internal/service"
)

// actorFrom rebuilds the authenticated identity from the context values
// stored by the JWT middleware.  Handlers should treat an error here as
// 401: it means the route was mounted without JWTAuth or the token
// carried no usable subject.
func actorFrom(c echo.Context) (model.Actor, error) {
	id, ok := c.Get("user_id").(uint64)
	if !ok || id == 0 {
		return model.Actor{}, errors.New("no authenticated user in context")
	}
	a := model.Actor{ID: id}
	if v, ok := c.Get("username").(string); ok {
		a.Username = v
	}
	if v, ok := c.Get("email").(string); ok {
		a.Email = v
	}
	if v, ok := c.Get("is_admin").(bool); ok {
		a.IsAdmin = v
	}
	return a, nil
}

// pathID parses the :id path parameter as a positive integer.
func pathID(c echo.Context) (uint64, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return id, nil
}

// serviceError translates the service layer's typed errors into HTTP
// responses.  Every handler funnels unrecognized errors through the
// final 500 so no SQL or driver detail ever reaches a client.
func serviceError(c echo.Context, err error) error {
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error":  "validation_failed",
			"fields": verr.Fields,
		})
	}
	var cerr *service.SlotConflictError
	if errors.As(err, &cerr) {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error":             "slot_conflict",
			"message":           cerr.Error(),
			"conflicting_slots": cerr.Slots,
		})
	}
	switch {
	case errors.Is(err, service.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	case errors.Is(err, service.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	case errors.Is(err, service.ErrInvalidToken):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid confirmation token"})
	case errors.Is(err, service.ErrAlreadyCancelled):
		return c.JSON(http.StatusConflict, echo.Map{"error": "already cancelled"})
	case errors.Is(err, service.ErrInvalidState):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	case errors.Is(err, service.ErrPastBooking):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "booking time has already passed"})
	case errors.Is(err, service.ErrRegistrationClosed):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "registration closed"})
	case errors.Is(err, service.ErrCapacityReached):
		return c.JSON(http.StatusConflict, echo.Map{"error": "team limit reached"})
	}
	c.Logger().Errorf("internal error: %v", err)
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}
