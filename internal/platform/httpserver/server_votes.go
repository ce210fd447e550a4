package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	campaignerrors "peervote/contexts/voting/campaign-service/domain/errors"
	voteerrors "peervote/contexts/voting/voting-ledger/domain/errors"
	votehttp "peervote/contexts/voting/voting-ledger/transport/http"
	"peervote/internal/platform/obs"
)

func (s *Server) handleCastVote(w http.ResponseWriter, r *http.Request) {
	voterIdentity := resolveVoterIdentity(r)
	if voterIdentity == "" {
		writeVoteError(w, http.StatusUnauthorized, "missing_identity", "X-Employee-Id header is required")
		return
	}
	if !s.voteLimit.allow(voterIdentity) {
		writeVoteError(w, http.StatusTooManyRequests, "rate_limited", "too many vote requests")
		return
	}

	var req votehttp.CastVoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeVoteError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.ledger.Handler.CastVoteHandler(r.Context(), r.PathValue("campaign_id"), voterIdentity, req)
	if err != nil {
		writeVoteDomainError(w, err)
		return
	}
	if resp.Revised {
		obs.ObserveVoteRecorded("revision")
	} else {
		obs.ObserveVoteRecorded("cast")
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleVoteSummary(w http.ResponseWriter, r *http.Request) {
	resp, err := s.ledger.Handler.SummaryHandler(r.Context(), r.PathValue("campaign_id"))
	if err != nil {
		writeVoteDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeVoteDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, voteerrors.ErrInvalidVoteInput):
		writeVoteError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, voteerrors.ErrCampaignNotActive):
		writeVoteError(w, http.StatusConflict, "campaign_not_active", err.Error())
	case errors.Is(err, voteerrors.ErrCandidateNotVotable):
		writeVoteError(w, http.StatusConflict, "candidate_not_votable", err.Error())
	case errors.Is(err, voteerrors.ErrVoteModificationDisabled):
		writeVoteError(w, http.StatusConflict, "vote_modification_disabled", err.Error())
	case errors.Is(err, voteerrors.ErrVoteLocked):
		writeVoteError(w, http.StatusConflict, "vote_locked", err.Error())
	case errors.Is(err, voteerrors.ErrConflict):
		writeVoteError(w, http.StatusConflict, "conflict", err.Error())
	case errors.Is(err, campaignerrors.ErrCampaignNotFound):
		writeVoteError(w, http.StatusNotFound, "campaign_not_found", err.Error())
	default:
		writeVoteError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeVoteError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, votehttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}
