package core

import "context"

type TeamStore interface {
	SaveTeam(ctx context.Context, team Team) error
	GetTeam(ctx context.Context, teamID string) (Team, error)
}

type History interface {
	Record(conversation, text string) Utterance
	MostRecentPrior(conversation string, excludingLast int) (Utterance, bool)
}
