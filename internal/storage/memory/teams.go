// Package memory holds process-local implementations of the storage interfaces.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sandevgo/askbot/internal/core"
)

type Teams struct {
	mu    sync.RWMutex
	teams map[string]core.Team
}

func NewTeams() *Teams {
	return &Teams{
		teams: make(map[string]core.Team),
	}
}

// SaveTeam stores the team. Empty names, bot user ids and a zero install
// time keep the values of an already stored team.
func (t *Teams) SaveTeam(_ context.Context, team core.Team) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if prev, ok := t.teams[team.ID]; ok {
		if team.Name == "" {
			team.Name = prev.Name
		}
		if team.BotUserID == "" {
			team.BotUserID = prev.BotUserID
		}
		if team.InstalledAt.IsZero() {
			team.InstalledAt = prev.InstalledAt
		}
	}
	if team.InstalledAt.IsZero() {
		team.InstalledAt = time.Now().UTC()
	}

	t.teams[team.ID] = team
	return nil
}

func (t *Teams) GetTeam(_ context.Context, teamID string) (core.Team, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	team, ok := t.teams[teamID]
	if !ok {
		return core.Team{}, fmt.Errorf("%w: %s", core.ErrTeamNotFound, teamID)
	}
	return team, nil
}
