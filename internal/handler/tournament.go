package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/courtbook/court-booking/internal/model"
	"github.com/courtbook/court-booking/internal/service"
	"github.com/courtbook/court-booking/internal/slot"
)

// TournamentHandler exposes the tournament and team-entry lifecycles
// over HTTP.
type TournamentHandler struct {
	Svc *service.TournamentService
}

func NewTournamentHandler(svc *service.TournamentService) *TournamentHandler {
	return &TournamentHandler{Svc: svc}
}

type createTournamentReq struct {
	Name                 string `json:"name"`
	Game                 string `json:"game"`
	Location             string `json:"location"`
	StartDate            string `json:"start_date"`
	DailyStartHour       int    `json:"daily_start_hour"`
	EntryFee             int    `json:"entry_fee"`
	RegistrationDeadline string `json:"registration_deadline"`
	HolderPhone          string `json:"holder_phone"`
	PrizeMoney           int    `json:"prize_money"`
	MaxTeams             int    `json:"max_teams"`
	MaxPlayersPerTeam    int    `json:"max_players_per_team"`
	MaxOvers             int    `json:"max_overs"`
	Description          string `json:"description"`
}

type createEntryReq struct {
	TeamName     string `json:"team_name"`
	ContactPhone string `json:"contact_phone"`
}

func tournamentJSON(t *model.Tournament) echo.Map {
	return echo.Map{
		"id":                    t.ID,
		"name":                  t.Name,
		"game":                  t.Game,
		"location":              t.Location,
		"start_date":            t.StartDate,
		"daily_start_time":      slot.Label(t.DailyStartHour),
		"daily_hours":           t.DailyHours,
		"entry_fee":             t.EntryFee,
		"registration_deadline": t.RegistrationDeadline,
		"holder_phone":          t.HolderPhone,
		"prize_money":           t.PrizeMoney,
		"admin_note":            t.AdminNote,
		"max_teams":             t.MaxTeams,
		"max_players_per_team":  t.MaxPlayersPerTeam,
		"max_overs":             t.MaxOvers,
		"description":           t.Description,
		"status":                t.Status,
		"created_at":            t.CreatedAt,
	}
}

func entryJSON(e *model.TeamEntry) echo.Map {
	return echo.Map{
		"id":            e.ID,
		"tournament_id": e.TournamentID,
		"team_name":     e.TeamName,
		"contact_phone": e.ContactPhone,
		"status":        e.Status,
		"created_at":    e.CreatedAt,
	}
}

// Create handles POST /v1/tournaments.
func (h *TournamentHandler) Create(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createTournamentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	t, err := h.Svc.Create(c.Request().Context(), actor, service.CreateTournamentInput{
		Name:                 req.Name,
		Game:                 req.Game,
		Location:             req.Location,
		StartDate:            req.StartDate,
		DailyStartHour:       req.DailyStartHour,
		EntryFee:             req.EntryFee,
		RegistrationDeadline: req.RegistrationDeadline,
		HolderPhone:          req.HolderPhone,
		PrizeMoney:           req.PrizeMoney,
		MaxTeams:             req.MaxTeams,
		MaxPlayersPerTeam:    req.MaxPlayersPerTeam,
		MaxOvers:             req.MaxOvers,
		Description:          req.Description,
	})
	if err != nil {
		return serviceError(c, err)
	}
	body := tournamentJSON(t)
	body["message"] = "tournament request received, awaiting review"
	return c.JSON(http.StatusCreated, body)
}

// Confirm handles POST /v1/tournaments/:id/confirm (admin only; the
// route additionally carries the RequireAdmin middleware).
func (h *TournamentHandler) Confirm(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid tournament id"})
	}

	t, already, err := h.Svc.Confirm(c.Request().Context(), actor, id)
	if err != nil {
		return serviceError(c, err)
	}
	msg := "tournament confirmed"
	if already {
		msg = "tournament already confirmed"
	}
	body := tournamentJSON(t)
	body["message"] = msg
	return c.JSON(http.StatusOK, body)
}

// Cancel handles POST /v1/tournaments/:id/cancel.
func (h *TournamentHandler) Cancel(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid tournament id"})
	}

	t, already, err := h.Svc.Cancel(c.Request().Context(), actor, id)
	if err != nil {
		return serviceError(c, err)
	}
	msg := "tournament cancelled"
	if already {
		msg = "already cancelled"
	}
	body := tournamentJSON(t)
	body["message"] = msg
	return c.JSON(http.StatusOK, body)
}

// Active handles GET /v1/tournaments/active, the public list of
// tournaments open for registration.
func (h *TournamentHandler) Active(c echo.Context) error {
	tournaments, err := h.Svc.ListActive(c.Request().Context())
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"tournaments": tournamentsJSON(tournaments)})
}

// All handles GET /v1/tournaments.
func (h *TournamentHandler) All(c echo.Context) error {
	tournaments, err := h.Svc.ListAll(c.Request().Context())
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"tournaments": tournamentsJSON(tournaments)})
}

// Mine handles GET /v1/my/tournaments.
func (h *TournamentHandler) Mine(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	tournaments, err := h.Svc.ListForHolder(c.Request().Context(), actor)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"tournaments": tournamentsJSON(tournaments)})
}

// RegisterTeam handles POST /v1/tournaments/:id/entries.
func (h *TournamentHandler) RegisterTeam(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid tournament id"})
	}
	var req createEntryReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	e, err := h.Svc.RegisterTeam(c.Request().Context(), actor, id, service.CreateEntryInput{
		TeamName:     req.TeamName,
		ContactPhone: req.ContactPhone,
	})
	if err != nil {
		return serviceError(c, err)
	}
	body := entryJSON(e)
	body["message"] = "team registered"
	return c.JSON(http.StatusCreated, body)
}

// CancelEntry handles POST /v1/entries/:id/cancel.
func (h *TournamentHandler) CancelEntry(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid entry id"})
	}

	e, already, err := h.Svc.CancelEntry(c.Request().Context(), actor, id)
	if err != nil {
		return serviceError(c, err)
	}
	msg := "entry cancelled"
	if already {
		msg = "already cancelled"
	}
	body := entryJSON(e)
	body["message"] = msg
	return c.JSON(http.StatusOK, body)
}

// MyEntries handles GET /v1/my/entries.
func (h *TournamentHandler) MyEntries(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	entries, err := h.Svc.ListEntriesForCaptain(c.Request().Context(), actor)
	if err != nil {
		return serviceError(c, err)
	}
	out := make([]echo.Map, 0, len(entries))
	for i := range entries {
		d := &entries[i]
		m := entryJSON(&d.TeamEntry)
		m["tournament_name"] = d.TournamentName
		m["entry_fee"] = d.EntryFee
		m["start_date"] = d.StartDate
		m["daily_start_time"] = slot.Label(d.DailyStartHour)
		out = append(out, m)
	}
	return c.JSON(http.StatusOK, echo.Map{"entries": out})
}

func tournamentsJSON(ts []model.Tournament) []echo.Map {
	out := make([]echo.Map, 0, len(ts))
	for i := range ts {
		out = append(out, tournamentJSON(&ts[i]))
	}
	return out
}
