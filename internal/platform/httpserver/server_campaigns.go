package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	campaignerrors "peervote/contexts/voting/campaign-service/domain/errors"
	campaignhttp "peervote/contexts/voting/campaign-service/transport/http"
	resolvererrors "peervote/contexts/voting/result-resolver/domain/errors"
	resolverhttp "peervote/contexts/voting/result-resolver/transport/http"
	"peervote/internal/platform/obs"
)

func (s *Server) handleOpenCampaign(w http.ResponseWriter, r *http.Request) {
	var req campaignhttp.OpenCampaignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeCampaignError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.campaigns.Handler.OpenCampaignHandler(r.Context(), req)
	if err != nil {
		writeCampaignDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListCampaigns(w http.ResponseWriter, r *http.Request) {
	resp, err := s.campaigns.Handler.ListCampaignsHandler(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		writeCampaignDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetCampaign(w http.ResponseWriter, r *http.Request) {
	resp, err := s.campaigns.Handler.GetCampaignHandler(r.Context(), r.PathValue("campaign_id"))
	if err != nil {
		writeCampaignDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCloseCampaign(w http.ResponseWriter, r *http.Request) {
	resp, err := s.campaigns.Handler.CloseCampaignHandler(r.Context(), r.PathValue("campaign_id"))
	if err != nil {
		writeCampaignDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCancelCampaign(w http.ResponseWriter, r *http.Request) {
	var req campaignhttp.CancelCampaignRequest
	if r.Body != nil {
		// An empty body cancels without a reason.
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	resp, err := s.campaigns.Handler.CancelCampaignHandler(r.Context(), r.PathValue("campaign_id"), req)
	if err != nil {
		writeCampaignDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleResolveCampaign(w http.ResponseWriter, r *http.Request) {
	resp, err := s.resolver.Handler.ResolveHandler(r.Context(), r.PathValue("campaign_id"))
	if err != nil {
		writeResolverDomainError(w, err)
		return
	}
	obs.ObserveCampaignResolved(resp.Outcome)
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetOutcome(w http.ResponseWriter, r *http.Request) {
	resp, err := s.resolver.Handler.OutcomeHandler(r.Context(), r.PathValue("campaign_id"))
	if err != nil {
		writeResolverDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeCampaignDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, campaignerrors.ErrInvalidCampaignInput),
		errors.Is(err, campaignerrors.ErrInvalidWindow),
		errors.Is(err, campaignerrors.ErrInvalidThreshold):
		writeCampaignError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, campaignerrors.ErrCampaignNotFound):
		writeCampaignError(w, http.StatusNotFound, "campaign_not_found", err.Error())
	case errors.Is(err, campaignerrors.ErrCampaignNotEnded):
		writeCampaignError(w, http.StatusConflict, "campaign_not_ended", err.Error())
	case errors.Is(err, campaignerrors.ErrCampaignNotActive),
		errors.Is(err, campaignerrors.ErrInvalidStateTransition):
		writeCampaignError(w, http.StatusConflict, "invalid_state", err.Error())
	case errors.Is(err, campaignerrors.ErrRetryNotAllowed),
		errors.Is(err, campaignerrors.ErrRetryLimitExceeded):
		writeCampaignError(w, http.StatusConflict, "retry_not_allowed", err.Error())
	case errors.Is(err, campaignerrors.ErrConflict):
		writeCampaignError(w, http.StatusConflict, "conflict", err.Error())
	default:
		writeCampaignError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeResolverDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, resolvererrors.ErrInvalidResolveInput):
		writeResolverError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, resolvererrors.ErrCampaignNotEnded):
		writeResolverError(w, http.StatusConflict, "campaign_not_ended", err.Error())
	case errors.Is(err, resolvererrors.ErrNotResolvable),
		errors.Is(err, resolvererrors.ErrConflict):
		writeResolverError(w, http.StatusConflict, "not_resolvable", err.Error())
	case errors.Is(err, resolvererrors.ErrOutcomeNotFound):
		writeResolverError(w, http.StatusNotFound, "outcome_not_found", err.Error())
	case errors.Is(err, campaignerrors.ErrCampaignNotFound):
		writeResolverError(w, http.StatusNotFound, "campaign_not_found", err.Error())
	default:
		writeResolverError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeCampaignError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, campaignhttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func writeResolverError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, resolverhttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}
