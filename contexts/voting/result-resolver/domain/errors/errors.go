package errors

import "errors"

var (
	ErrInvalidResolveInput = errors.New("result resolver: invalid input")
	ErrCampaignNotEnded    = errors.New("result resolver: campaign has not ended")
	ErrNotResolvable       = errors.New("result resolver: campaign cannot be resolved from its current state")
	ErrOutcomeNotFound     = errors.New("result resolver: outcome not found")
	ErrConflict            = errors.New("result resolver: concurrent resolution conflict")
)
