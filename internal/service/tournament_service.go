package service

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/courtbook/court-booking/internal/model"
	"github.com/courtbook/court-booking/internal/notify"
	"github.com/courtbook/court-booking/internal/queue"
	"github.com/courtbook/court-booking/internal/slot"
)

// TournamentStore is the persistence surface for tournaments.
// *repository.TournamentRepo satisfies it in production.
type TournamentStore interface {
	Create(ctx context.Context, t *model.Tournament) error
	GetByID(ctx context.Context, id uint64) (*model.Tournament, error)
	UpdateStatus(ctx context.Context, id uint64, status string) error
	ListByHolder(ctx context.Context, holderID uint64) ([]model.Tournament, error)
	ListActive(ctx context.Context, today string) ([]model.Tournament, error)
	ListAll(ctx context.Context) ([]model.Tournament, error)
}

// EntryStore is the persistence surface for team entries.
type EntryStore interface {
	CreateIfCapacity(ctx context.Context, e *model.TeamEntry, maxTeams int) (ok bool, count int, err error)
	GetByID(ctx context.Context, id uint64) (*model.TeamEntry, error)
	Cancel(ctx context.Context, id uint64) error
	ListByCaptain(ctx context.Context, captainID uint64) ([]model.TeamEntryDetail, error)
}

// UserDirectory resolves user records for notification addressing.  The
// holder of a tournament is not necessarily the actor of an operation,
// so their name and email have to be looked up.
type UserDirectory interface {
	GetByID(ctx context.Context, id uint64) (model.User, error)
}

// TournamentService implements the tournament and team-entry
// lifecycles.  Tournaments are requested by holders, confirmed by
// admins and cancellable by both; team entries are auto-approved up to
// the tournament's capacity while registration is open.
type TournamentService struct {
	tournaments TournamentStore
	entries     EntryStore
	users       UserDirectory
	mail        EmailPublisher
	hourlyRate  int
	adminEmail  string
	loc         *time.Location
	now         func() time.Time
}

// NewTournamentService wires the tournament lifecycle.
func NewTournamentService(tournaments TournamentStore, entries EntryStore, users UserDirectory, mail EmailPublisher, hourlyRate int, adminEmail string, loc *time.Location) *TournamentService {
	return &TournamentService{
		tournaments: tournaments,
		entries:     entries,
		users:       users,
		mail:        mail,
		hourlyRate:  hourlyRate,
		adminEmail:  adminEmail,
		loc:         loc,
		now:         time.Now,
	}
}

// CreateTournamentInput carries the raw request fields for a new
// tournament.  DailyHours is absent on purpose: the daily slot length
// is fixed and never taken from the client.
type CreateTournamentInput struct {
	Name                 string
	Game                 string
	Location             string
	StartDate            string
	DailyStartHour       int
	EntryFee             int
	RegistrationDeadline string
	HolderPhone          string
	PrizeMoney           int
	MaxTeams             int
	MaxPlayersPerTeam    int
	MaxOvers             int
	Description          string
}

// Create validates and stores a tournament request in pending status.
// The holder gets an acknowledgement and the operator a review alert.
func (s *TournamentService) Create(ctx context.Context, actor model.Actor, in CreateTournamentInput) (*model.Tournament, error) {
	fields := map[string]string{}
	if strings.TrimSpace(in.Name) == "" {
		fields["name"] = "this field is required"
	}
	if strings.TrimSpace(in.Game) == "" {
		fields["game"] = "this field is required"
	}
	if strings.TrimSpace(in.Location) == "" {
		fields["location"] = "this field is required"
	}
	if _, err := time.Parse("2006-01-02", in.StartDate); err != nil {
		fields["start_date"] = "enter a valid date (YYYY-MM-DD)"
	}
	if _, err := time.Parse("2006-01-02", in.RegistrationDeadline); err != nil {
		fields["registration_deadline"] = "enter a valid date (YYYY-MM-DD)"
	}
	if in.DailyStartHour < 0 || in.DailyStartHour >= slot.HoursPerDay {
		fields["daily_start_hour"] = "must be between 0 and 23"
	}
	if in.EntryFee < 0 {
		fields["entry_fee"] = "cannot be negative"
	}
	if in.PrizeMoney < 0 {
		fields["prize_money"] = "cannot be negative"
	}
	if in.MaxTeams < 1 {
		fields["max_teams"] = "must be at least 1"
	}
	if in.MaxPlayersPerTeam < 1 {
		fields["max_players_per_team"] = "must be at least 1"
	}
	if err := newValidationError(fields); err != nil {
		return nil, err
	}

	t := &model.Tournament{
		HolderID:             actor.ID,
		Name:                 strings.TrimSpace(in.Name),
		Game:                 strings.TrimSpace(in.Game),
		Location:             strings.TrimSpace(in.Location),
		StartDate:            in.StartDate,
		DailyStartHour:       in.DailyStartHour,
		DailyHours:           model.TournamentDailyHours,
		EntryFee:             in.EntryFee,
		RegistrationDeadline: in.RegistrationDeadline,
		HolderPhone:          strings.TrimSpace(in.HolderPhone),
		PrizeMoney:           in.PrizeMoney,
		MaxTeams:             in.MaxTeams,
		MaxPlayersPerTeam:    in.MaxPlayersPerTeam,
		MaxOvers:             in.MaxOvers,
		Description:          in.Description,
		Status:               model.TournamentPending,
	}
	if err := s.tournaments.Create(ctx, t); err != nil {
		return nil, err
	}

	s.publish(ctx, notify.TournamentReceived(t, actor.Username, actor.Email, s.hourlyRate))
	s.publish(ctx, notify.TournamentAdminAlert(t, actor.Username, actor.Email, s.adminEmail))
	return t, nil
}

// Confirm approves a pending tournament.  Only admins may confirm.
// Confirming a tournament that is already confirmed or booked succeeds
// without mutation or email.
func (s *TournamentService) Confirm(ctx context.Context, actor model.Actor, tournamentID uint64) (t *model.Tournament, already bool, err error) {
	if !actor.IsAdmin {
		return nil, false, ErrForbidden
	}
	t, err = s.get(ctx, tournamentID)
	if err != nil {
		return nil, false, err
	}
	switch t.Status {
	case model.TournamentCancelled:
		return nil, false, ErrInvalidState
	case model.TournamentConfirmed, model.TournamentBooked:
		return t, true, nil
	}
	if err := s.tournaments.UpdateStatus(ctx, t.ID, model.TournamentConfirmed); err != nil {
		return nil, false, err
	}
	t.Status = model.TournamentConfirmed

	holder, err := s.users.GetByID(ctx, t.HolderID)
	if err != nil {
		log.Printf("tournament: holder lookup failed (id=%d): %v", t.HolderID, err)
	} else {
		s.publish(ctx, notify.TournamentConfirmed(t, holder.Email))
	}
	return t, false, nil
}

// Cancel cancels a tournament on behalf of its holder or an admin.
// Cancelling an already-cancelled tournament is a success that reports
// already=true and sends no email, so a retried request cannot produce
// a duplicate notification.
func (s *TournamentService) Cancel(ctx context.Context, actor model.Actor, tournamentID uint64) (t *model.Tournament, already bool, err error) {
	t, err = s.get(ctx, tournamentID)
	if err != nil {
		return nil, false, err
	}
	if t.HolderID != actor.ID && !actor.IsAdmin {
		return nil, false, ErrForbidden
	}
	if t.Status == model.TournamentCancelled {
		return t, true, nil
	}
	if err := s.tournaments.UpdateStatus(ctx, t.ID, model.TournamentCancelled); err != nil {
		return nil, false, err
	}
	t.Status = model.TournamentCancelled

	holder, err := s.users.GetByID(ctx, t.HolderID)
	if err != nil {
		log.Printf("tournament: holder lookup failed (id=%d): %v", t.HolderID, err)
	} else {
		s.publish(ctx, notify.TournamentCancelled(t, holder.Email))
	}
	s.publish(ctx, notify.TournamentCancelled(t, s.adminEmail))
	return t, false, nil
}

// CreateEntryInput carries the raw request fields for a team entry.
type CreateEntryInput struct {
	TeamName     string
	ContactPhone string
}

// RegisterTeam enters the actor's team into a tournament.  Any
// existing tournament accepts entries while its deadline is open,
// regardless of status; entries are approved immediately and counted
// against MaxTeams under a row lock.
func (s *TournamentService) RegisterTeam(ctx context.Context, actor model.Actor, tournamentID uint64, in CreateEntryInput) (*model.TeamEntry, error) {
	if strings.TrimSpace(in.TeamName) == "" {
		return nil, &ValidationError{Fields: map[string]string{"team_name": "this field is required"}}
	}
	t, err := s.get(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	if s.today() > t.RegistrationDeadline {
		return nil, ErrRegistrationClosed
	}

	e := &model.TeamEntry{
		TournamentID: t.ID,
		CaptainID:    actor.ID,
		TeamName:     strings.TrimSpace(in.TeamName),
		ContactPhone: strings.TrimSpace(in.ContactPhone),
		Status:       model.EntryApproved,
	}
	ok, count, err := s.entries.CreateIfCapacity(ctx, e, t.MaxTeams)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrCapacityReached
	}

	s.publish(ctx, notify.EntryConfirmed(e, t, actor.Username, actor.Email))
	holder, err := s.users.GetByID(ctx, t.HolderID)
	if err != nil {
		log.Printf("tournament: holder lookup failed (id=%d): %v", t.HolderID, err)
	} else {
		s.publish(ctx, notify.EntryReceived(e, t, actor.Username, actor.Email, count, holder.Email))
	}
	s.publish(ctx, notify.EntryReceived(e, t, actor.Username, actor.Email, count, s.adminEmail))
	return e, nil
}

// CancelEntry cancels a team entry on behalf of its captain or an
// admin; anyone else is refused.  Re-cancelling reports already=true
// and sends no email.
func (s *TournamentService) CancelEntry(ctx context.Context, actor model.Actor, entryID uint64) (e *model.TeamEntry, already bool, err error) {
	e, err = s.entries.GetByID(ctx, entryID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, ErrNotFound
		}
		return nil, false, err
	}
	if e.CaptainID != actor.ID && !actor.IsAdmin {
		return nil, false, ErrForbidden
	}
	if e.Status == model.EntryCancelled {
		return e, true, nil
	}
	if err := s.entries.Cancel(ctx, e.ID); err != nil {
		return nil, false, err
	}
	e.Status = model.EntryCancelled

	tournamentName := ""
	if t, err := s.get(ctx, e.TournamentID); err == nil {
		tournamentName = t.Name
	}
	s.publish(ctx, notify.EntryCancelled(e, tournamentName, actor.Email))
	s.publish(ctx, notify.EntryCancelled(e, tournamentName, s.adminEmail))
	return e, false, nil
}

// ListActive returns tournaments currently open for registration.
func (s *TournamentService) ListActive(ctx context.Context) ([]model.Tournament, error) {
	return s.tournaments.ListActive(ctx, s.today())
}

// ListAll returns every tournament regardless of status.
func (s *TournamentService) ListAll(ctx context.Context) ([]model.Tournament, error) {
	return s.tournaments.ListAll(ctx)
}

// ListForHolder returns the actor's own tournaments, newest first.
func (s *TournamentService) ListForHolder(ctx context.Context, actor model.Actor) ([]model.Tournament, error) {
	return s.tournaments.ListByHolder(ctx, actor.ID)
}

// ListEntriesForCaptain returns the actor's team entries with the
// parent tournament snapshot, newest first.
func (s *TournamentService) ListEntriesForCaptain(ctx context.Context, actor model.Actor) ([]model.TeamEntryDetail, error) {
	return s.entries.ListByCaptain(ctx, actor.ID)
}

// today returns the current calendar day in the court's time zone as
// YYYY-MM-DD.  Stored dates use the same format, so string comparison
// orders correctly.
func (s *TournamentService) today() string {
	return s.now().In(s.loc).Format("2006-01-02")
}

func (s *TournamentService) get(ctx context.Context, id uint64) (*model.Tournament, error) {
	t, err := s.tournaments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return t, nil
}

func (s *TournamentService) publish(ctx context.Context, ev queue.EmailEvent) {
	if err := s.mail.PublishEmail(ctx, ev); err != nil {
		log.Printf("tournament: email publish failed (to=%s subject=%q): %v", ev.To, ev.Subject, err)
	}
}
