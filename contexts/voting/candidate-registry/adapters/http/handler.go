package httpadapter

import (
	"context"
	"log/slog"

	"peervote/contexts/voting/candidate-registry/application/commands"
	"peervote/contexts/voting/candidate-registry/application/queries"
	httptransport "peervote/contexts/voting/candidate-registry/transport/http"
)

type Handler struct {
	Register commands.RegisterCandidateUseCase
	Review   commands.ReviewCandidateUseCase
	List     queries.ListCandidatesUseCase
	Logger   *slog.Logger
}

func (h Handler) RegisterCandidateHandler(ctx context.Context, campaignID string, req httptransport.RegisterCandidateRequest) (httptransport.CandidateResponse, error) {
	candidate, err := h.Register.Execute(ctx, commands.RegisterCandidateCommand{
		CampaignID: campaignID,
		EmployeeID: req.EmployeeID,
		Statement:  req.Statement,
	})
	if err != nil {
		return httptransport.CandidateResponse{}, err
	}
	return httptransport.CandidateResponse{
		CandidateID: candidate.CandidateID,
		AnonymousID: candidate.AnonymousID,
		Status:      string(candidate.Status),
		Position:    candidate.Position,
		TenureYears: candidate.TenureYears,
		Statement:   candidate.Statement,
	}, nil
}

func (h Handler) ReviewCandidateHandler(ctx context.Context, candidateID string, decision commands.ReviewDecision) (httptransport.CandidateResponse, error) {
	candidate, err := h.Review.Execute(ctx, candidateID, decision)
	if err != nil {
		return httptransport.CandidateResponse{}, err
	}
	return httptransport.CandidateResponse{
		CandidateID: candidate.CandidateID,
		AnonymousID: candidate.AnonymousID,
		Status:      string(candidate.Status),
		Position:    candidate.Position,
		TenureYears: candidate.TenureYears,
		Statement:   candidate.Statement,
		VoteCount:   candidate.VoteCount,
		VotePercent: candidate.VotePercent,
		Ranking:     candidate.Ranking,
	}, nil
}

func (h Handler) ListCandidatesHandler(ctx context.Context, campaignID string) (httptransport.CandidateListResponse, error) {
	candidates, err := h.List.Execute(ctx, campaignID)
	if err != nil {
		return httptransport.CandidateListResponse{}, err
	}
	out := make([]httptransport.CandidateResponse, 0, len(candidates))
	for _, candidate := range candidates {
		out = append(out, httptransport.CandidateResponse{
			CandidateID: candidate.CandidateID,
			AnonymousID: candidate.AnonymousID,
			Status:      string(candidate.Status),
			Position:    candidate.Position,
			TenureYears: candidate.TenureYears,
			Statement:   candidate.Statement,
			VoteCount:   candidate.VoteCount,
			VotePercent: candidate.VotePercent,
			Ranking:     candidate.Ranking,
		})
	}
	return httptransport.CandidateListResponse{Candidates: out}, nil
}
