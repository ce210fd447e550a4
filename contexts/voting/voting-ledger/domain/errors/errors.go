package errors

import "errors"

var (
	ErrInvalidVoteInput         = errors.New("voting ledger: invalid input")
	ErrCampaignNotActive        = errors.New("voting ledger: campaign is not accepting votes")
	ErrCandidateNotVotable      = errors.New("voting ledger: candidate cannot receive votes")
	ErrVoteModificationDisabled = errors.New("voting ledger: campaign does not allow vote changes")
	ErrVoteLocked               = errors.New("voting ledger: vote modification limit reached")
	ErrConflict                 = errors.New("voting ledger: concurrent vote update conflict")
)
