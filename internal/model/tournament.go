package model

import "time"

// Tournament status values as driven by the holder/admin workflow.
// Cancelled is terminal; booked is set manually once the court slot
// has been reserved for the tournament days.
const (
	TournamentPending   = "pending"
	TournamentConfirmed = "confirmed"
	TournamentBooked    = "booked"
	TournamentCancelled = "cancelled"
)

// Team entry status values.  Entries are created directly as approved
// (auto-approval policy); pending exists for a future manual review
// flow but is never set by the current creation path.
const (
	EntryPending   = "pending"
	EntryApproved  = "approved"
	EntryCancelled = "cancelled"
)

// TournamentDailyHours is the fixed daily slot length for every
// tournament.  The value is forced at creation regardless of what the
// client sends.
const TournamentDailyHours = 2

// Tournament mirrors the `tournaments` table.  A tournament is created
// by its holder in pending status, confirmed by an admin, and may be
// cancelled by either at any point before terminal cancellation.
//
// Fields:
//  ID                   – primary key identifier.
//  HolderID             – user who requested the tournament.
//  Name                 – tournament display name.
//  Game                 – sport/game being played.
//  Location             – venue description.
//  StartDate            – first tournament day (YYYY-MM-DD).
//  DailyStartHour       – hour the daily slot begins, 0-23.
//  DailyHours           – always TournamentDailyHours.
//  EntryFee             – per-team entry fee.
//  RegistrationDeadline – last day team entries are accepted (YYYY-MM-DD).
//  HolderPhone          – contact phone of the holder.
//  PrizeMoney           – advertised prize pool.
//  MaxTeams             – cap on non-cancelled team entries.
//  MaxPlayersPerTeam    – roster size limit.
//  MaxOvers             – format limit (cricket overs per innings).
//  Description          – free-form description.
//  Status               – pending/confirmed/booked/cancelled.
//  AdminNote            – optional note set by admins (nullable).
//  CreatedAt            – timestamp of creation.
//  UpdatedAt            – timestamp of last update.
type Tournament struct {
	ID                   uint64    // tournaments.id
	HolderID             uint64    // tournaments.holder_id
	Name                 string    // tournaments.name
	Game                 string    // tournaments.game
	Location             string    // tournaments.location
	StartDate            string    // tournaments.start_date (YYYY-MM-DD)
	DailyStartHour       int       // tournaments.daily_start_hour
	DailyHours           int       // tournaments.daily_hours (always 2)
	EntryFee             int       // tournaments.entry_fee
	RegistrationDeadline string    // tournaments.registration_deadline (YYYY-MM-DD)
	HolderPhone          string    // tournaments.holder_phone
	PrizeMoney           int       // tournaments.prize_money
	MaxTeams             int       // tournaments.max_teams
	MaxPlayersPerTeam    int       // tournaments.max_players_per_team
	MaxOvers             int       // tournaments.max_overs
	Description          string    // tournaments.description
	Status               string    // tournaments.status
	AdminNote            *string   // tournaments.admin_note (nullable)
	CreatedAt            time.Time // tournaments.created_at
	UpdatedAt            time.Time // tournaments.updated_at
}

// TeamEntry mirrors the `team_entries` table.  Each entry registers a
// captain's team into one tournament.  Unlike bookings there is no
// temporal guard on cancellation.
//
// Fields:
//  ID           – primary key identifier.
//  TournamentID – tournament the team entered.
//  CaptainID    – user who registered the team.
//  TeamName     – team display name.
//  ContactPhone – captain contact phone (may be empty).
//  Status       – pending/approved/cancelled.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type TeamEntry struct {
	ID           uint64    // team_entries.id
	TournamentID uint64    // team_entries.tournament_id
	CaptainID    uint64    // team_entries.captain_id
	TeamName     string    // team_entries.team_name
	ContactPhone string    // team_entries.contact_phone
	Status       string    // team_entries.status
	CreatedAt    time.Time // team_entries.created_at
	UpdatedAt    time.Time // team_entries.updated_at
}

// TeamEntryDetail is a team entry enriched with a read-only snapshot
// of its parent tournament, as shown in the captain's entry list.
type TeamEntryDetail struct {
	TeamEntry
	TournamentName string // tournaments.name
	EntryFee       int    // tournaments.entry_fee
	StartDate      string // tournaments.start_date (YYYY-MM-DD)
	DailyStartHour int    // tournaments.daily_start_hour
}

