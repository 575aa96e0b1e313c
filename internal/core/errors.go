package core

import "errors"

var (
	// ErrNoQueryAvailable means there is neither a current question nor a prior one.
	ErrNoQueryAvailable = errors.New("no query available")
	// ErrSearchUnavailable covers every failure of the search collaborator.
	ErrSearchUnavailable = errors.New("search unavailable")
	// ErrOAuthExchangeFailed is returned when an authorization code cannot be exchanged.
	ErrOAuthExchangeFailed = errors.New("oauth exchange failed")
	ErrTeamNotFound        = errors.New("team not found")
)
