package rescue

import "errors"

var (
	ErrRequestNotFound  = errors.New("request not found")
	ErrTeamNotFound     = errors.New("team not found")
	ErrRequestFinalized = errors.New("request is in a terminal state")
	ErrTeamNotAssigned  = errors.New("team not assigned to request")
)
