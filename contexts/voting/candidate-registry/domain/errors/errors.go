package errors

import "errors"

var (
	ErrInvalidCandidateInput = errors.New("candidate registry: invalid input")
	ErrCandidateNotFound     = errors.New("candidate registry: candidate not found")
	ErrDuplicateCandidate    = errors.New("candidate registry: employee already registered in campaign")
	ErrCampaignClosed        = errors.New("candidate registry: campaign no longer accepts candidate changes")
	ErrInvalidStateChange    = errors.New("candidate registry: invalid candidate state change")
	ErrConflict              = errors.New("candidate registry: concurrent update conflict")
)
