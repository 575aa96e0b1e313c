package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sandevgo/askbot/internal/core"
)

type Teams struct {
	db *sql.DB
}

func NewTeams(db *sql.DB) *Teams {
	return &Teams{db: db}
}

// SaveTeam inserts the team or replaces the credentials of a reinstalled one.
// Empty names, bot user ids and a zero install time keep the stored values.
func (t *Teams) SaveTeam(ctx context.Context, team core.Team) error {
	keepInstalledAt := team.InstalledAt.IsZero()
	if keepInstalledAt {
		team.InstalledAt = time.Now().UTC()
	}

	query := `INSERT INTO teams (id, name, bot_token, bot_user_id, installed_at) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = COALESCE(NULLIF(excluded.name, ''), teams.name),
			bot_token = excluded.bot_token,
			bot_user_id = COALESCE(NULLIF(excluded.bot_user_id, ''), teams.bot_user_id),
			installed_at = CASE WHEN ? THEN teams.installed_at ELSE excluded.installed_at END`

	_, err := t.db.ExecContext(ctx, query,
		team.ID, team.Name, team.BotToken, team.BotUserID, team.InstalledAt.UTC(), keepInstalledAt)
	if err != nil {
		return fmt.Errorf("failed to save team: %w", err)
	}
	return nil
}

func (t *Teams) GetTeam(ctx context.Context, teamID string) (core.Team, error) {
	query := `SELECT id, name, bot_token, bot_user_id, installed_at FROM teams WHERE id = ?`

	var team core.Team
	err := t.db.QueryRowContext(ctx, query, teamID).Scan(&team.ID, &team.Name, &team.BotToken, &team.BotUserID, &team.InstalledAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Team{}, fmt.Errorf("%w: %s", core.ErrTeamNotFound, teamID)
	}
	if err != nil {
		return core.Team{}, fmt.Errorf("failed to query team: %w", err)
	}
	return team, nil
}
