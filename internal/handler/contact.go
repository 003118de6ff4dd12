package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/courtbook/court-booking/internal/notify"
	"github.com/courtbook/court-booking/internal/service"
)

// ContactHandler forwards website contact-form submissions to the
// operator's inbox through the email queue.
type ContactHandler struct {
	Mail       service.EmailPublisher
	AdminEmail string
}

func NewContactHandler(mail service.EmailPublisher, adminEmail string) *ContactHandler {
	return &ContactHandler{Mail: mail, AdminEmail: adminEmail}
}

type contactReq struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// Submit handles POST /v1/contact.
func (h *ContactHandler) Submit(c echo.Context) error {
	var req contactReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Message = strings.TrimSpace(req.Message)
	if req.Name == "" || req.Email == "" || req.Message == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name/email/message required"})
	}

	ev := notify.ContactMessage(req.Name, req.Email, req.Message, h.AdminEmail)
	if err := h.Mail.PublishEmail(c.Request().Context(), ev); err != nil {
		c.Logger().Errorf("contact: email publish failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "message could not be delivered"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "thanks, we'll get back to you soon"})
}
