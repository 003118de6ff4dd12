package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/courtbook/court-booking/internal/model"
)

// TournamentRepo provides persistence for tournaments.  Date columns
// hold court-local calendar days; status transitions are single-column
// updates because the lifecycle rules live in the service layer.
type TournamentRepo struct {
	db *sql.DB
}

// NewTournamentRepo returns a TournamentRepo bound to the given database.
func NewTournamentRepo(db *sql.DB) *TournamentRepo { return &TournamentRepo{db: db} }

const tournamentColumns = `id, holder_id, name, game, location, start_date, daily_start_hour,
	daily_hours, entry_fee, registration_deadline, holder_phone, prize_money,
	max_teams, max_players_per_team, max_overs, description, status, admin_note,
	created_at, updated_at`

func scanTournament(row interface{ Scan(...any) error }) (*model.Tournament, error) {
	var (
		t         model.Tournament
		startDate time.Time
		deadline  time.Time
		note      sql.NullString
	)
	err := row.Scan(
		&t.ID, &t.HolderID, &t.Name, &t.Game, &t.Location, &startDate, &t.DailyStartHour,
		&t.DailyHours, &t.EntryFee, &deadline, &t.HolderPhone, &t.PrizeMoney,
		&t.MaxTeams, &t.MaxPlayersPerTeam, &t.MaxOvers, &t.Description, &t.Status, &note,
		&t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	t.StartDate = startDate.Format("2006-01-02")
	t.RegistrationDeadline = deadline.Format("2006-01-02")
	if note.Valid {
		n := note.String
		t.AdminNote = &n
	}
	return &t, nil
}

// Create inserts a tournament and populates the generated ID and
// timestamps on the provided record.
func (r *TournamentRepo) Create(ctx context.Context, t *model.Tournament) error {
	const q = `INSERT INTO tournaments
	           (holder_id, name, game, location, start_date, daily_start_hour, daily_hours,
	            entry_fee, registration_deadline, holder_phone, prize_money,
	            max_teams, max_players_per_team, max_overs, description, status)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q,
		t.HolderID, t.Name, t.Game, t.Location, t.StartDate, t.DailyStartHour, t.DailyHours,
		t.EntryFee, t.RegistrationDeadline, t.HolderPhone, t.PrizeMoney,
		t.MaxTeams, t.MaxPlayersPerTeam, t.MaxOvers, t.Description, t.Status,
	)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)
	stored, err := scanTournament(r.db.QueryRowContext(ctx,
		`SELECT `+tournamentColumns+` FROM tournaments WHERE id = ?`, t.ID))
	if err != nil {
		return err
	}
	*t = *stored
	return nil
}

// GetByID returns a tournament by id.  sql.ErrNoRows is returned when
// it does not exist.
func (r *TournamentRepo) GetByID(ctx context.Context, id uint64) (*model.Tournament, error) {
	return scanTournament(r.db.QueryRowContext(ctx,
		`SELECT `+tournamentColumns+` FROM tournaments WHERE id = ?`, id))
}

// UpdateStatus sets a tournament's status.
func (r *TournamentRepo) UpdateStatus(ctx context.Context, id uint64, status string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE tournaments SET status = ? WHERE id = ?`, status, id)
	return err
}

// ListByHolder returns the holder's tournaments, newest first.
func (r *TournamentRepo) ListByHolder(ctx context.Context, holderID uint64) ([]model.Tournament, error) {
	return r.list(ctx,
		`SELECT `+tournamentColumns+` FROM tournaments WHERE holder_id = ? ORDER BY created_at DESC`,
		holderID)
}

// ListActive returns tournaments open for registration: confirmed or
// booked, with a registration deadline on or after today.
func (r *TournamentRepo) ListActive(ctx context.Context, today string) ([]model.Tournament, error) {
	return r.list(ctx,
		`SELECT `+tournamentColumns+` FROM tournaments
		 WHERE status IN ('confirmed', 'booked') AND registration_deadline >= ?
		 ORDER BY start_date`,
		today)
}

// ListAll returns every tournament, newest first.
func (r *TournamentRepo) ListAll(ctx context.Context) ([]model.Tournament, error) {
	return r.list(ctx,
		`SELECT `+tournamentColumns+` FROM tournaments ORDER BY created_at DESC`)
}

func (r *TournamentRepo) list(ctx context.Context, query string, args ...any) ([]model.Tournament, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Tournament, 0)
	for rows.Next() {
		t, err := scanTournament(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
