package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/courtbook/court-booking/internal/model"
)

type fakeTournamentStore struct {
	tournaments map[uint64]*model.Tournament
	nextID      uint64
}

func newFakeTournamentStore() *fakeTournamentStore {
	return &fakeTournamentStore{tournaments: map[uint64]*model.Tournament{}}
}

func (f *fakeTournamentStore) add(t model.Tournament) *model.Tournament {
	f.nextID++
	t.ID = f.nextID
	f.tournaments[t.ID] = &t
	return f.tournaments[t.ID]
}

func (f *fakeTournamentStore) Create(_ context.Context, t *model.Tournament) error {
	f.nextID++
	t.ID = f.nextID
	cp := *t
	f.tournaments[t.ID] = &cp
	return nil
}

func (f *fakeTournamentStore) GetByID(_ context.Context, id uint64) (*model.Tournament, error) {
	t, ok := f.tournaments[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *t
	return &cp, nil
}

func (f *fakeTournamentStore) UpdateStatus(_ context.Context, id uint64, status string) error {
	f.tournaments[id].Status = status
	return nil
}

func (f *fakeTournamentStore) ListByHolder(_ context.Context, holderID uint64) ([]model.Tournament, error) {
	out := []model.Tournament{}
	for _, t := range f.tournaments {
		if t.HolderID == holderID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (f *fakeTournamentStore) ListActive(_ context.Context, today string) ([]model.Tournament, error) {
	out := []model.Tournament{}
	for _, t := range f.tournaments {
		open := t.Status == model.TournamentConfirmed || t.Status == model.TournamentBooked
		if open && t.RegistrationDeadline >= today {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (f *fakeTournamentStore) ListAll(_ context.Context) ([]model.Tournament, error) {
	out := []model.Tournament{}
	for _, t := range f.tournaments {
		out = append(out, *t)
	}
	return out, nil
}

type fakeEntryStore struct {
	entries map[uint64]*model.TeamEntry
	nextID  uint64
}

func newFakeEntryStore() *fakeEntryStore {
	return &fakeEntryStore{entries: map[uint64]*model.TeamEntry{}}
}

func (f *fakeEntryStore) add(e model.TeamEntry) *model.TeamEntry {
	f.nextID++
	e.ID = f.nextID
	f.entries[e.ID] = &e
	return f.entries[e.ID]
}

func (f *fakeEntryStore) CreateIfCapacity(_ context.Context, e *model.TeamEntry, maxTeams int) (bool, int, error) {
	current := 0
	for _, other := range f.entries {
		if other.TournamentID == e.TournamentID && other.Status != model.EntryCancelled {
			current++
		}
	}
	if current >= maxTeams {
		return false, current, nil
	}
	f.nextID++
	e.ID = f.nextID
	cp := *e
	f.entries[e.ID] = &cp
	return true, current + 1, nil
}

func (f *fakeEntryStore) GetByID(_ context.Context, id uint64) (*model.TeamEntry, error) {
	e, ok := f.entries[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *e
	return &cp, nil
}

func (f *fakeEntryStore) Cancel(_ context.Context, id uint64) error {
	f.entries[id].Status = model.EntryCancelled
	return nil
}

func (f *fakeEntryStore) ListByCaptain(_ context.Context, captainID uint64) ([]model.TeamEntryDetail, error) {
	out := []model.TeamEntryDetail{}
	for _, e := range f.entries {
		if e.CaptainID == captainID {
			out = append(out, model.TeamEntryDetail{TeamEntry: *e})
		}
	}
	return out, nil
}

type fakeUsers struct {
	users map[uint64]model.User
}

func (f *fakeUsers) GetByID(_ context.Context, id uint64) (model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return model.User{}, sql.ErrNoRows
	}
	return u, nil
}

var (
	holder  = model.Actor{ID: 10, Username: "bilal", Email: "bilal@example.com"}
	captain = model.Actor{ID: 20, Username: "hamza", Email: "hamza@example.com"}
	admin   = model.Actor{ID: 1, Username: "ops", Email: "ops@court.example", IsAdmin: true}
)

func newTournamentFixture(t *testing.T) (*TournamentService, *fakeTournamentStore, *fakeEntryStore, *fakePublisher) {
	t.Helper()
	tstore := newFakeTournamentStore()
	estore := newFakeEntryStore()
	users := &fakeUsers{users: map[uint64]model.User{
		holder.ID:  {ID: holder.ID, Username: holder.Username, Email: holder.Email},
		captain.ID: {ID: captain.ID, Username: captain.Username, Email: captain.Email},
	}}
	mail := &fakePublisher{}
	svc := NewTournamentService(tstore, estore, users, mail, 1500, "admin@court.example", time.UTC)
	svc.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	return svc, tstore, estore, mail
}

func validTournamentInput() CreateTournamentInput {
	return CreateTournamentInput{
		Name:                 "Spring Cup",
		Game:                 "Cricket",
		Location:             "Main Court",
		StartDate:            "2026-04-01",
		DailyStartHour:       18,
		EntryFee:             2000,
		RegistrationDeadline: "2026-03-25",
		HolderPhone:          "0300-7654321",
		PrizeMoney:           50000,
		MaxTeams:             8,
		MaxPlayersPerTeam:    11,
		MaxOvers:             10,
	}
}

func openTournament(tstore *fakeTournamentStore) *model.Tournament {
	return tstore.add(model.Tournament{
		HolderID: holder.ID, Name: "Spring Cup", Game: "Cricket",
		StartDate: "2026-04-01", DailyStartHour: 18, DailyHours: model.TournamentDailyHours,
		EntryFee: 2000, RegistrationDeadline: "2026-03-25",
		MaxTeams: 2, Status: model.TournamentConfirmed,
	})
}

func TestCreateTournament(t *testing.T) {
	svc, tstore, _, mail := newTournamentFixture(t)

	in := validTournamentInput()
	got, err := svc.Create(context.Background(), holder, in)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if got.Status != model.TournamentPending {
		t.Errorf("status = %s, want pending", got.Status)
	}
	if got.DailyHours != model.TournamentDailyHours {
		t.Errorf("daily hours = %d, want the fixed %d", got.DailyHours, model.TournamentDailyHours)
	}
	if got.HolderID != holder.ID {
		t.Errorf("holder = %d, want %d", got.HolderID, holder.ID)
	}
	if len(tstore.tournaments) != 1 {
		t.Fatalf("stored tournaments = %d, want 1", len(tstore.tournaments))
	}
	if len(mail.events) != 2 {
		t.Fatalf("emails = %d, want holder + admin", len(mail.events))
	}
	if mail.events[0].To != holder.Email || mail.events[1].To != "admin@court.example" {
		t.Errorf("recipients = %s, %s", mail.events[0].To, mail.events[1].To)
	}
}

func TestCreateTournamentForcesDailyHours(t *testing.T) {
	svc, _, _, _ := newTournamentFixture(t)

	// The input type has no daily-hours field at all; whatever a client
	// sends can never reach storage.  This pins the stored value.
	got, err := svc.Create(context.Background(), holder, validTournamentInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if got.DailyHours != 2 {
		t.Errorf("daily hours = %d, want 2", got.DailyHours)
	}
}

func TestCreateTournamentValidation(t *testing.T) {
	svc, _, _, _ := newTournamentFixture(t)

	cases := []struct {
		name   string
		mutate func(*CreateTournamentInput)
		field  string
	}{
		{"missing name", func(in *CreateTournamentInput) { in.Name = "" }, "name"},
		{"missing game", func(in *CreateTournamentInput) { in.Game = " " }, "game"},
		{"missing location", func(in *CreateTournamentInput) { in.Location = "" }, "location"},
		{"bad start date", func(in *CreateTournamentInput) { in.StartDate = "April 1st" }, "start_date"},
		{"bad deadline", func(in *CreateTournamentInput) { in.RegistrationDeadline = "soon" }, "registration_deadline"},
		{"bad start hour", func(in *CreateTournamentInput) { in.DailyStartHour = 24 }, "daily_start_hour"},
		{"negative fee", func(in *CreateTournamentInput) { in.EntryFee = -1 }, "entry_fee"},
		{"zero teams", func(in *CreateTournamentInput) { in.MaxTeams = 0 }, "max_teams"},
		{"zero players", func(in *CreateTournamentInput) { in.MaxPlayersPerTeam = 0 }, "max_players_per_team"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validTournamentInput()
			tc.mutate(&in)
			_, err := svc.Create(context.Background(), holder, in)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("err = %v, want ValidationError", err)
			}
			if _, ok := verr.Fields[tc.field]; !ok {
				t.Errorf("fields = %v, want %q flagged", verr.Fields, tc.field)
			}
		})
	}
}

// Holders may keep registration open past the start date; the two
// dates are independent.
func TestCreateTournamentDeadlineAfterStart(t *testing.T) {
	svc, _, _, _ := newTournamentFixture(t)

	in := validTournamentInput()
	in.RegistrationDeadline = "2026-04-10"
	got, err := svc.Create(context.Background(), holder, in)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if got.RegistrationDeadline != "2026-04-10" {
		t.Errorf("deadline = %s, want stored as given", got.RegistrationDeadline)
	}
}

func TestConfirmTournament(t *testing.T) {
	svc, tstore, _, mail := newTournamentFixture(t)
	pending := tstore.add(model.Tournament{
		HolderID: holder.ID, Name: "Spring Cup", Status: model.TournamentPending,
	})

	t.Run("non-admin forbidden", func(t *testing.T) {
		if _, _, err := svc.Confirm(context.Background(), holder, pending.ID); !errors.Is(err, ErrForbidden) {
			t.Errorf("err = %v, want ErrForbidden", err)
		}
	})
	t.Run("admin confirms", func(t *testing.T) {
		got, already, err := svc.Confirm(context.Background(), admin, pending.ID)
		if err != nil || already {
			t.Fatalf("Confirm: already=%t err=%v", already, err)
		}
		if got.Status != model.TournamentConfirmed {
			t.Errorf("status = %s, want confirmed", got.Status)
		}
		if len(mail.events) != 1 || mail.events[0].To != holder.Email {
			t.Errorf("emails = %v, want one to the holder", mail.events)
		}
	})
	t.Run("second confirm is a no-op", func(t *testing.T) {
		_, already, err := svc.Confirm(context.Background(), admin, pending.ID)
		if err != nil || !already {
			t.Fatalf("Confirm again: already=%t err=%v", already, err)
		}
		if len(mail.events) != 1 {
			t.Errorf("emails = %d, want no duplicate", len(mail.events))
		}
	})
	t.Run("cancelled cannot be confirmed", func(t *testing.T) {
		cancelled := tstore.add(model.Tournament{HolderID: holder.ID, Status: model.TournamentCancelled})
		_, _, err := svc.Confirm(context.Background(), admin, cancelled.ID)
		if !errors.Is(err, ErrInvalidState) {
			t.Errorf("err = %v, want ErrInvalidState", err)
		}
		// The message reaches API clients as-is and must make sense
		// outside the booking lifecycle too.
		if strings.Contains(err.Error(), "booking") {
			t.Errorf("error message mentions bookings: %q", err)
		}
	})
	t.Run("unknown id", func(t *testing.T) {
		if _, _, err := svc.Confirm(context.Background(), admin, 9999); !errors.Is(err, ErrNotFound) {
			t.Errorf("err = %v, want ErrNotFound", err)
		}
	})
}

func TestCancelTournament(t *testing.T) {
	svc, tstore, _, mail := newTournamentFixture(t)
	tm := openTournament(tstore)

	t.Run("stranger forbidden", func(t *testing.T) {
		if _, _, err := svc.Cancel(context.Background(), captain, tm.ID); !errors.Is(err, ErrForbidden) {
			t.Errorf("err = %v, want ErrForbidden", err)
		}
	})
	t.Run("holder cancels", func(t *testing.T) {
		got, already, err := svc.Cancel(context.Background(), holder, tm.ID)
		if err != nil || already {
			t.Fatalf("Cancel: already=%t err=%v", already, err)
		}
		if got.Status != model.TournamentCancelled {
			t.Errorf("status = %s, want cancelled", got.Status)
		}
		if len(mail.events) != 2 {
			t.Errorf("emails = %d, want holder + admin", len(mail.events))
		}
	})
	t.Run("second cancel is idempotent and silent", func(t *testing.T) {
		_, already, err := svc.Cancel(context.Background(), holder, tm.ID)
		if err != nil || !already {
			t.Fatalf("Cancel again: already=%t err=%v", already, err)
		}
		if len(mail.events) != 2 {
			t.Errorf("emails = %d after double cancel, want still 2", len(mail.events))
		}
	})
}

func TestRegisterTeam(t *testing.T) {
	svc, tstore, estore, mail := newTournamentFixture(t)
	tm := openTournament(tstore)

	e, err := svc.RegisterTeam(context.Background(), captain, tm.ID, CreateEntryInput{
		TeamName: "Strikers", ContactPhone: "0301-1112222",
	})
	if err != nil {
		t.Fatalf("RegisterTeam: %v", err)
	}
	if e.Status != model.EntryApproved {
		t.Errorf("status = %s, want approved immediately", e.Status)
	}
	if e.CaptainID != captain.ID || e.TournamentID != tm.ID {
		t.Errorf("entry = %+v", e)
	}
	if len(estore.entries) != 1 {
		t.Fatalf("stored entries = %d, want 1", len(estore.entries))
	}
	// Captain confirmation, holder notice, admin notice.
	if len(mail.events) != 3 {
		t.Fatalf("emails = %d, want 3", len(mail.events))
	}
	recipients := map[string]bool{}
	for _, ev := range mail.events {
		recipients[ev.To] = true
	}
	for _, want := range []string{captain.Email, holder.Email, "admin@court.example"} {
		if !recipients[want] {
			t.Errorf("missing notification for %s", want)
		}
	}
}

func TestRegisterTeamGuards(t *testing.T) {
	svc, tstore, _, _ := newTournamentFixture(t)

	t.Run("missing team name", func(t *testing.T) {
		tm := openTournament(tstore)
		_, err := svc.RegisterTeam(context.Background(), captain, tm.ID, CreateEntryInput{TeamName: "  "})
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Errorf("err = %v, want ValidationError", err)
		}
	})
	t.Run("unknown tournament", func(t *testing.T) {
		_, err := svc.RegisterTeam(context.Background(), captain, 9999, CreateEntryInput{TeamName: "Strikers"})
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("err = %v, want ErrNotFound", err)
		}
	})
	t.Run("pending tournament still accepts entries", func(t *testing.T) {
		// Only the deadline gates registration; a tournament awaiting
		// admin confirmation takes entries like any other.
		pending := tstore.add(model.Tournament{
			HolderID: holder.ID, RegistrationDeadline: "2026-03-25",
			MaxTeams: 4, Status: model.TournamentPending,
		})
		e, err := svc.RegisterTeam(context.Background(), captain, pending.ID, CreateEntryInput{TeamName: "Strikers"})
		if err != nil {
			t.Fatalf("RegisterTeam on pending tournament: %v", err)
		}
		if e.Status != model.EntryApproved {
			t.Errorf("status = %s, want approved", e.Status)
		}
	})
	t.Run("deadline passed", func(t *testing.T) {
		closed := tstore.add(model.Tournament{
			HolderID: holder.ID, RegistrationDeadline: "2026-02-28",
			MaxTeams: 4, Status: model.TournamentConfirmed,
		})
		_, err := svc.RegisterTeam(context.Background(), captain, closed.ID, CreateEntryInput{TeamName: "Strikers"})
		if !errors.Is(err, ErrRegistrationClosed) {
			t.Errorf("err = %v, want ErrRegistrationClosed", err)
		}
	})
	t.Run("deadline day itself is open", func(t *testing.T) {
		// now is fixed at 2026-03-01.
		today := tstore.add(model.Tournament{
			HolderID: holder.ID, RegistrationDeadline: "2026-03-01",
			MaxTeams: 4, Status: model.TournamentConfirmed,
		})
		if _, err := svc.RegisterTeam(context.Background(), captain, today.ID, CreateEntryInput{TeamName: "Strikers"}); err != nil {
			t.Errorf("RegisterTeam on deadline day: %v", err)
		}
	})
}

func TestRegisterTeamCapacity(t *testing.T) {
	svc, tstore, estore, _ := newTournamentFixture(t)
	tm := openTournament(tstore) // MaxTeams: 2
	estore.add(model.TeamEntry{TournamentID: tm.ID, CaptainID: 2, TeamName: "A", Status: model.EntryApproved})
	estore.add(model.TeamEntry{TournamentID: tm.ID, CaptainID: 3, TeamName: "B", Status: model.EntryCancelled})

	// One approved + one cancelled: a spot is still free.
	if _, err := svc.RegisterTeam(context.Background(), captain, tm.ID, CreateEntryInput{TeamName: "C"}); err != nil {
		t.Fatalf("RegisterTeam at boundary: %v", err)
	}

	// Now 2 of 2 non-cancelled spots are taken.
	_, err := svc.RegisterTeam(context.Background(), model.Actor{ID: 30, Username: "x", Email: "x@example.com"}, tm.ID, CreateEntryInput{TeamName: "D"})
	if !errors.Is(err, ErrCapacityReached) {
		t.Errorf("err = %v, want ErrCapacityReached", err)
	}
}

func TestCancelEntry(t *testing.T) {
	svc, tstore, estore, mail := newTournamentFixture(t)
	tm := openTournament(tstore)
	e := estore.add(model.TeamEntry{
		TournamentID: tm.ID, CaptainID: captain.ID, TeamName: "Strikers", Status: model.EntryApproved,
	})

	t.Run("stranger forbidden", func(t *testing.T) {
		if _, _, err := svc.CancelEntry(context.Background(), model.Actor{ID: 55}, e.ID); !errors.Is(err, ErrForbidden) {
			t.Errorf("err = %v, want ErrForbidden", err)
		}
	})
	t.Run("captain cancels", func(t *testing.T) {
		got, already, err := svc.CancelEntry(context.Background(), captain, e.ID)
		if err != nil || already {
			t.Fatalf("CancelEntry: already=%t err=%v", already, err)
		}
		if got.Status != model.EntryCancelled {
			t.Errorf("status = %s, want cancelled", got.Status)
		}
		if len(mail.events) != 2 {
			t.Errorf("emails = %d, want captain + admin", len(mail.events))
		}
	})
	t.Run("second cancel is idempotent and silent", func(t *testing.T) {
		_, already, err := svc.CancelEntry(context.Background(), captain, e.ID)
		if err != nil || !already {
			t.Fatalf("CancelEntry again: already=%t err=%v", already, err)
		}
		if len(mail.events) != 2 {
			t.Errorf("emails = %d after double cancel, want still 2", len(mail.events))
		}
	})
	t.Run("admin cancels anyone's entry", func(t *testing.T) {
		other := estore.add(model.TeamEntry{
			TournamentID: tm.ID, CaptainID: 77, TeamName: "Others", Status: model.EntryApproved,
		})
		if _, _, err := svc.CancelEntry(context.Background(), admin, other.ID); err != nil {
			t.Errorf("admin CancelEntry: %v", err)
		}
	})
}

func TestListActiveTournaments(t *testing.T) {
	svc, tstore, _, _ := newTournamentFixture(t)
	open := openTournament(tstore) // deadline 2026-03-25, confirmed
	tstore.add(model.Tournament{HolderID: holder.ID, RegistrationDeadline: "2026-02-01", Status: model.TournamentConfirmed})
	tstore.add(model.Tournament{HolderID: holder.ID, RegistrationDeadline: "2026-03-25", Status: model.TournamentPending})
	tstore.add(model.Tournament{HolderID: holder.ID, RegistrationDeadline: "2026-03-25", Status: model.TournamentCancelled})

	got, err := svc.ListActive(context.Background())
	if err != nil {
		t.Fatalf("ListActive: %v", err)
	}
	if len(got) != 1 || got[0].ID != open.ID {
		t.Errorf("active = %v, want only the confirmed future-deadline tournament", got)
	}
}
