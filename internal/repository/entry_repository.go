package repository

import (
	"context"
	"database/sql"

	"github.com/courtbook/court-booking/internal/model"
)

// EntryRepo provides persistence for team entries.  The capacity
// check on creation locks the parent tournament row so concurrent
// registrations for the last remaining spot serialize.
type EntryRepo struct {
	db *sql.DB
}

// NewEntryRepo returns an EntryRepo bound to the given database.
func NewEntryRepo(db *sql.DB) *EntryRepo { return &EntryRepo{db: db} }

const entryColumns = `id, tournament_id, captain_id, team_name, contact_phone, status,
	created_at, updated_at`

func scanEntry(row interface{ Scan(...any) error }) (*model.TeamEntry, error) {
	var e model.TeamEntry
	err := row.Scan(
		&e.ID, &e.TournamentID, &e.CaptainID, &e.TeamName, &e.ContactPhone, &e.Status,
		&e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// CreateIfCapacity inserts the entry unless the tournament already has
// maxTeams non-cancelled entries.  The tournament row is locked FOR
// UPDATE for the duration of the count+insert so the cap cannot be
// exceeded by concurrent registrations.  The returned count is the
// number of non-cancelled entries including the new one; ok is false
// (and nothing is inserted) when the cap was already reached.
func (r *EntryRepo) CreateIfCapacity(ctx context.Context, e *model.TeamEntry, maxTeams int) (ok bool, count int, err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, 0, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	// Lock the parent row; concurrent registrations queue behind it.
	var lockedID uint64
	err = tx.QueryRowContext(ctx,
		`SELECT id FROM tournaments WHERE id = ? FOR UPDATE`, e.TournamentID).Scan(&lockedID)
	if err != nil {
		return false, 0, err
	}

	var current int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM team_entries WHERE tournament_id = ? AND status <> 'cancelled'`,
		e.TournamentID).Scan(&current)
	if err != nil {
		return false, 0, err
	}
	if current >= maxTeams {
		return false, current, nil
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO team_entries (tournament_id, captain_id, team_name, contact_phone, status)
		 VALUES (?, ?, ?, ?, ?)`,
		e.TournamentID, e.CaptainID, e.TeamName, e.ContactPhone, e.Status)
	if err != nil {
		return false, 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return false, 0, err
	}
	e.ID = uint64(id)

	stored, err := scanEntry(tx.QueryRowContext(ctx,
		`SELECT `+entryColumns+` FROM team_entries WHERE id = ?`, e.ID))
	if err != nil {
		return false, 0, err
	}
	*e = *stored

	if err := tx.Commit(); err != nil {
		return false, 0, err
	}
	committed = true
	return true, current + 1, nil
}

// GetByID returns a team entry by id.  sql.ErrNoRows is returned when
// it does not exist.
func (r *EntryRepo) GetByID(ctx context.Context, id uint64) (*model.TeamEntry, error) {
	return scanEntry(r.db.QueryRowContext(ctx,
		`SELECT `+entryColumns+` FROM team_entries WHERE id = ?`, id))
}

// Cancel marks a team entry cancelled.  Entries have no temporal
// guard, so this is a plain status update.
func (r *EntryRepo) Cancel(ctx context.Context, id uint64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE team_entries SET status = 'cancelled' WHERE id = ?`, id)
	return err
}

// ListByCaptain returns the captain's entries, newest first, each
// joined with a snapshot of the parent tournament for display.
func (r *EntryRepo) ListByCaptain(ctx context.Context, captainID uint64) ([]model.TeamEntryDetail, error) {
	const q = `SELECT e.id, e.tournament_id, e.captain_id, e.team_name, e.contact_phone, e.status,
	                  e.created_at, e.updated_at,
	                  t.name, t.entry_fee, t.start_date, t.daily_start_hour
	           FROM team_entries e
	           JOIN tournaments t ON t.id = e.tournament_id
	           WHERE e.captain_id = ?
	           ORDER BY e.created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, captainID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.TeamEntryDetail, 0)
	for rows.Next() {
		var (
			d         model.TeamEntryDetail
			startDate sql.NullTime
		)
		if err := rows.Scan(
			&d.ID, &d.TournamentID, &d.CaptainID, &d.TeamName, &d.ContactPhone, &d.Status,
			&d.CreatedAt, &d.UpdatedAt,
			&d.TournamentName, &d.EntryFee, &startDate, &d.DailyStartHour,
		); err != nil {
			return nil, err
		}
		if startDate.Valid {
			d.StartDate = startDate.Time.Format("2006-01-02")
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
