package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	campaignerrors "peervote/contexts/voting/campaign-service/domain/errors"
	"peervote/contexts/voting/candidate-registry/application/commands"
	candidateerrors "peervote/contexts/voting/candidate-registry/domain/errors"
	candidatehttp "peervote/contexts/voting/candidate-registry/transport/http"
)

func (s *Server) handleRegisterCandidate(w http.ResponseWriter, r *http.Request) {
	var req candidatehttp.RegisterCandidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeCandidateError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.candidates.Handler.RegisterCandidateHandler(r.Context(), r.PathValue("campaign_id"), req)
	if err != nil {
		writeCandidateDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListCandidates(w http.ResponseWriter, r *http.Request) {
	resp, err := s.candidates.Handler.ListCandidatesHandler(r.Context(), r.PathValue("campaign_id"))
	if err != nil {
		writeCandidateDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleReviewCandidate serves approve, reject and withdraw; the decision is
// the final path segment.
func (s *Server) handleReviewCandidate(w http.ResponseWriter, r *http.Request) {
	segments := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	decision := commands.ReviewDecision(segments[len(segments)-1])

	resp, err := s.candidates.Handler.ReviewCandidateHandler(r.Context(), r.PathValue("candidate_id"), decision)
	if err != nil {
		writeCandidateDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeCandidateDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, candidateerrors.ErrInvalidCandidateInput):
		writeCandidateError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, candidateerrors.ErrCandidateNotFound):
		writeCandidateError(w, http.StatusNotFound, "candidate_not_found", err.Error())
	case errors.Is(err, campaignerrors.ErrCampaignNotFound):
		writeCandidateError(w, http.StatusNotFound, "campaign_not_found", err.Error())
	case errors.Is(err, candidateerrors.ErrDuplicateCandidate):
		writeCandidateError(w, http.StatusConflict, "duplicate_candidate", err.Error())
	case errors.Is(err, candidateerrors.ErrCampaignClosed):
		writeCandidateError(w, http.StatusConflict, "campaign_closed", err.Error())
	case errors.Is(err, candidateerrors.ErrInvalidStateChange),
		errors.Is(err, candidateerrors.ErrConflict):
		writeCandidateError(w, http.StatusConflict, "invalid_state", err.Error())
	default:
		writeCandidateError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeCandidateError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, candidatehttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}
