package notify

import (
	"fmt"
	"strconv"
	"time"

	"github.com/courtbook/court-booking/internal/model"
	"github.com/courtbook/court-booking/internal/queue"
)

// The builders in this file render every transactional email the
// service sends.  Each returns a ready-to-publish queue.EmailEvent so
// the lifecycle services only decide *when* to notify, never how a
// message looks.

// prettyDate turns a stored YYYY-MM-DD date into the "02 Jan 2006"
// form used in all templates.  Unparseable input is passed through
// unchanged; a broken date in an email is better than no email.
func prettyDate(iso string) string {
	t, err := time.Parse("2006-01-02", iso)
	if err != nil {
		return iso
	}
	return t.Format("02 Jan 2006")
}

// clockTime renders an hour of the day as "03:04 PM".
func clockTime(hour int) string {
	h := ((hour % 24) + 24) % 24
	return time.Date(2000, 1, 1, h, 0, 0, 0, time.UTC).Format("03:04 PM")
}

// rupees formats an amount with thousands separators, e.g. 4500 ->
// "4,500".
func rupees(amount int) string {
	s := strconv.Itoa(amount)
	if len(s) <= 3 {
		return s
	}
	var out []byte
	for i, c := range []byte(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, c)
	}
	return string(out)
}

// BookingConfirmation is sent to the customer right after a booking is
// created.  It carries the confirmation link embedding the booking id
// and the one-time token.
func BookingConfirmation(b *model.Booking, confirmURL string, rate int) queue.EmailEvent {
	token := ""
	if b.ConfirmationToken != nil {
		token = *b.ConfirmationToken
	}
	link := fmt.Sprintf("%s?id=%d&token=%s", confirmURL, b.ID, token)
	dateStr := prettyDate(b.Date)
	startStr := clockTime(b.StartHour)
	endStr := clockTime(b.StartHour + b.Hours)

	text := fmt.Sprintf(`Dear %s,

Thank you for your booking. Please confirm your booking:

%s

Booking Details:
• Date: %s
• Time: %s - %s
• Duration: %d hours
• Price: ₨%s / hour
• Total: ₨%s
• Phone: %s
`, b.Name, link, dateStr, startStr, endStr, b.Hours, rupees(rate), rupees(b.TotalPrice), b.Phone)

	html := fmt.Sprintf(`
    <html>
      <body>
        <h2>Confirm Your Booking</h2>
        <p>Dear %s,</p>
        <p>Please confirm your booking:</p>
        <a href="%s">Confirm Booking</a>
        <p><strong>Date:</strong> %s<br>
        <strong>Start:</strong> %s<br>
        <strong>End:</strong> %s<br>
        <strong>Duration:</strong> %d hours<br>
        <strong>Total:</strong> ₨%s<br>
        <strong>Phone:</strong> %s</p>
      </body>
    </html>
    `, b.Name, link, dateStr, startStr, endStr, b.Hours, rupees(b.TotalPrice), b.Phone)

	return queue.EmailEvent{
		To:       b.Email,
		Subject:  "Confirm Your Booking",
		TextBody: text,
		HTMLBody: html,
	}
}

// BookingAdminAlert notifies the operator about a freshly created
// booking that is awaiting customer confirmation.
func BookingAdminAlert(b *model.Booking, adminEmail string) queue.EmailEvent {
	dateStr := prettyDate(b.Date)
	startStr := clockTime(b.StartHour)
	endStr := clockTime(b.StartHour + b.Hours)
	totalStr := rupees(b.TotalPrice)

	text := fmt.Sprintf("New booking from %s (%s) on %s at %s for %d hours. Total ₨%s.",
		b.Name, b.Email, dateStr, startStr, b.Hours, totalStr)
	html := fmt.Sprintf(`
    <html>
      <body>
        <h2>New Booking Pending Confirmation</h2>
        <p>Name: %s<br>Email: %s<br>Phone: %s</p>
        <p>Date: %s<br>Start: %s<br>End: %s<br>Duration: %d hours<br>Total: ₨%s</p>
      </body>
    </html>
    `, b.Name, b.Email, b.Phone, dateStr, startStr, endStr, b.Hours, totalStr)

	return queue.EmailEvent{
		To:       adminEmail,
		Subject:  "New Booking Pending Confirmation - " + b.Name,
		TextBody: text,
		HTMLBody: html,
	}
}

// BookingCancelled is sent to the customer after a successful
// cancellation.  The refund line only appears when a paid booking was
// flipped to refunded.
func BookingCancelled(b *model.Booking, refunded bool) queue.EmailEvent {
	refundLine := ""
	if refunded {
		refundLine = "\nYour payment of ₨" + rupees(b.TotalPrice) + " will be refunded."
	}
	text := fmt.Sprintf(`Dear %s,

Your booking on %s at %s for %d hours has been cancelled.%s

Regards, Cricket Court
`, b.Name, prettyDate(b.Date), clockTime(b.StartHour), b.Hours, refundLine)

	return queue.EmailEvent{
		To:       b.Email,
		Subject:  "Booking Cancelled",
		TextBody: text,
	}
}

// BookingCancelledAdminAlert mirrors the customer cancellation notice
// for the operator.
func BookingCancelledAdminAlert(b *model.Booking, adminEmail string, refunded bool) queue.EmailEvent {
	text := fmt.Sprintf("Booking #%d by %s (%s) on %s at %s was cancelled. Refund issued: %t.",
		b.ID, b.Name, b.Email, prettyDate(b.Date), clockTime(b.StartHour), refunded)
	return queue.EmailEvent{
		To:       adminEmail,
		Subject:  fmt.Sprintf("Booking Cancelled - %s", b.Name),
		TextBody: text,
	}
}

// TournamentReceived acknowledges a new tournament request to its
// holder.
func TournamentReceived(t *model.Tournament, holderName string, holderEmail string, rate int) queue.EmailEvent {
	text := fmt.Sprintf(`Dear %s,

Your tournament request '%s' has been received.
Court charge is PKR %d per hour. Daily slot is %d hours.
Status: %s.

Regards, Cricket Court`, holderName, t.Name, rate, t.DailyHours, t.Status)

	return queue.EmailEvent{
		To:       holderEmail,
		Subject:  "Tournament Request Received",
		TextBody: text,
	}
}

// TournamentAdminAlert asks the operator to review and book a slot for
// a new tournament request.
func TournamentAdminAlert(t *model.Tournament, holderName, holderEmail, adminEmail string) queue.EmailEvent {
	text := fmt.Sprintf(`Holder: %s (%s)
Date: %s %s
Max teams: %d
Please review and book the slot if available.`,
		holderName, holderEmail, t.StartDate, clockTime(t.DailyStartHour), t.MaxTeams)

	return queue.EmailEvent{
		To:       adminEmail,
		Subject:  "New Tournament Request - " + t.Name,
		TextBody: text,
	}
}

// TournamentConfirmed tells the holder that an admin approved the
// tournament.
func TournamentConfirmed(t *model.Tournament, holderEmail string) queue.EmailEvent {
	return queue.EmailEvent{
		To:       holderEmail,
		Subject:  "Tournament Confirmed",
		TextBody: fmt.Sprintf("Your tournament '%s' has been confirmed.", t.Name),
	}
}

// TournamentCancelled announces a cancellation.  It is published once
// per recipient (holder and admin).
func TournamentCancelled(t *model.Tournament, to string) queue.EmailEvent {
	return queue.EmailEvent{
		To:       to,
		Subject:  "Tournament Cancelled",
		TextBody: fmt.Sprintf("Your tournament '%s' has been cancelled.", t.Name),
	}
}

// EntryConfirmed is sent to the captain after a team entry is created.
func EntryConfirmed(e *model.TeamEntry, t *model.Tournament, captainName, captainEmail string) queue.EmailEvent {
	startStr := t.StartDate + " " + clockTime(t.DailyStartHour)
	text := fmt.Sprintf(`Your team '%s' has been registered in tournament '%s'.
Start: %s
Entry Fee: PKR %d
`, e.TeamName, t.Name, startStr, t.EntryFee)

	html := fmt.Sprintf(`
    <html>
      <body style="font-family:Arial,Helvetica,sans-serif;background:#f4f4f4;padding:20px;">
        <div style="max-width:600px;margin:0 auto;background:#ffffff;padding:20px;border-radius:10px;">
          <h2 style="color:#065f46;">Team Entry Confirmed</h2>
          <p>Dear %s,</p>
          <p>Your team <strong>%s</strong> has been registered in <strong>%s</strong>.</p>
          <table style="width:100%%;border-collapse:collapse;margin-top:10px;">
            <tr><td style="padding:8px;border:1px solid #ddd;"><strong>Start</strong></td><td style="padding:8px;border:1px solid #ddd;">%s</td></tr>
            <tr><td style="padding:8px;border:1px solid #ddd;"><strong>Entry Fee</strong></td><td style="padding:8px;border:1px solid #ddd;">PKR %d</td></tr>
          </table>
          <p style="margin-top:15px;">Good luck!</p>
          <p>Regards,<br>Cricket Court</p>
        </div>
      </body>
    </html>
    `, captainName, e.TeamName, t.Name, startStr, t.EntryFee)

	return queue.EmailEvent{
		To:       captainEmail,
		Subject:  "Team Entry Confirmed",
		TextBody: text,
		HTMLBody: html,
	}
}

// EntryReceived notifies the holder (and, published separately, the
// admin) about a new team entry.  activeCount is the number of
// non-cancelled entries after this registration.
func EntryReceived(e *model.TeamEntry, t *model.Tournament, captainName, captainEmail string, activeCount int, to string) queue.EmailEvent {
	phone := e.ContactPhone
	if phone == "" {
		phone = "N/A"
	}
	text := fmt.Sprintf(`A new team has entered your tournament.

Tournament: %s
Team: %s
Captain: %s (%s)
Captain Phone: %s
`, t.Name, e.TeamName, captainName, captainEmail, phone)

	html := fmt.Sprintf(`
    <html>
      <body style="font-family:Arial,Helvetica,sans-serif;background:#f4f4f4;padding:20px;">
        <div style="max-width:600px;margin:0 auto;background:#ffffff;padding:20px;border-radius:10px;">
          <h2 style="color:#1d4ed8;">New Team Entry</h2>
          <p>A new team has registered for your tournament:</p>
          <table style="width:100%%;border-collapse:collapse;margin-top:10px;">
            <tr><td style="padding:8px;border:1px solid #ddd;"><strong>Tournament</strong></td><td style="padding:8px;border:1px solid #ddd;">%s</td></tr>
            <tr><td style="padding:8px;border:1px solid #ddd;"><strong>Team</strong></td><td style="padding:8px;border:1px solid #ddd;">%s</td></tr>
            <tr><td style="padding:8px;border:1px solid #ddd;"><strong>Captain</strong></td><td style="padding:8px;border:1px solid #ddd;">%s (%s)</td></tr>
            <tr><td style="padding:8px;border:1px solid #ddd;"><strong>Captain Phone</strong></td><td style="padding:8px;border:1px solid #ddd;">%s</td></tr>
          </table>
          <p style="margin-top:15px;">You now have %d team(s) registered.</p>
          <p>Regards,<br>Cricket Court</p>
        </div>
      </body>
    </html>
    `, t.Name, e.TeamName, captainName, captainEmail, phone, activeCount)

	return queue.EmailEvent{
		To:       to,
		Subject:  "New Team Entry Received",
		TextBody: text,
		HTMLBody: html,
	}
}

// EntryCancelled announces a team entry cancellation to the captain
// and the admin (published once per recipient).
func EntryCancelled(e *model.TeamEntry, tournamentName, to string) queue.EmailEvent {
	return queue.EmailEvent{
		To:       to,
		Subject:  "Team Entry Cancelled",
		TextBody: fmt.Sprintf("Team '%s' entry cancelled for tournament '%s'.", e.TeamName, tournamentName),
	}
}

// ContactMessage forwards a website contact-form submission to the
// operator.
func ContactMessage(name, email, message, adminEmail string) queue.EmailEvent {
	return queue.EmailEvent{
		To:       adminEmail,
		Subject:  "New Contact Message from " + name,
		TextBody: fmt.Sprintf("From: %s (%s)\n\n%s", name, email, message),
	}
}
