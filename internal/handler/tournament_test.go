package handler

import (
	"testing"

	"github.com/courtbook/court-booking/internal/model"
)

// Holders need their own phone and any admin note back on the wire,
// not just the public listing fields.
func TestTournamentJSONCarriesContactFields(t *testing.T) {
	note := "court lights fixed for the final"
	body := tournamentJSON(&model.Tournament{
		ID:                   7,
		Name:                 "Spring Cup",
		HolderPhone:          "0300-7654321",
		RegistrationDeadline: "2026-03-25",
		AdminNote:            &note,
	})

	if got, ok := body["holder_phone"]; !ok || got != "0300-7654321" {
		t.Errorf("holder_phone = %v (present=%t), want the stored phone", got, ok)
	}
	got, ok := body["admin_note"].(*string)
	if !ok || got == nil || *got != note {
		t.Errorf("admin_note = %v, want %q", body["admin_note"], note)
	}
}
