package commands

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"peervote/contexts/voting/candidate-registry/adapters/memory"
	"peervote/contexts/voting/candidate-registry/domain/entities"
	domainerrors "peervote/contexts/voting/candidate-registry/domain/errors"
	"peervote/contexts/voting/candidate-registry/ports"
)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

type seqIDGen struct {
	n int
}

func (g *seqIDGen) NewID(_ context.Context) (string, error) {
	g.n++
	return fmt.Sprintf("cand-%d", g.n), nil
}

type fakeGate struct {
	status   string
	eligible int
}

func (g fakeGate) Lookup(_ context.Context, campaignID string) (ports.CampaignView, error) {
	return ports.CampaignView{CampaignID: campaignID, Status: g.status, EligibleVoters: g.eligible}, nil
}

type fakeCounter struct {
	counts map[string]int
	voters int
}

func (c fakeCounter) CountVotes(_ context.Context, _ string) (map[string]int, int, error) {
	return c.counts, c.voters, nil
}

var testNow = time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

func newRegister(store *memory.Store, gate fakeGate) RegisterCandidateUseCase {
	return RegisterCandidateUseCase{
		Candidates: store,
		Campaigns:  gate,
		Directory:  memory.NewStaticDirectory(),
		Clock:      fixedClock{now: testNow},
		IDGen:      &seqIDGen{},
	}
}

func TestRegisterCandidateAssignsSequentialAnonymousIDs(t *testing.T) {
	store := memory.NewStore()
	uc := newRegister(store, fakeGate{status: "active"})

	first, err := uc.Execute(context.Background(), RegisterCandidateCommand{CampaignID: "camp-1", EmployeeID: "emp-1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := uc.Execute(context.Background(), RegisterCandidateCommand{CampaignID: "camp-1", EmployeeID: "emp-2"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if first.AnonymousID != "CANDIDATE_001" {
		t.Fatalf("expected CANDIDATE_001, got %q", first.AnonymousID)
	}
	if second.AnonymousID != "CANDIDATE_002" {
		t.Fatalf("expected CANDIDATE_002, got %q", second.AnonymousID)
	}
	if first.Status != entities.StatusPending {
		t.Fatalf("new candidacies start pending, got %s", first.Status)
	}
}

func TestRegisterCandidateRejectsDuplicateEnrollment(t *testing.T) {
	store := memory.NewStore()
	uc := newRegister(store, fakeGate{status: "active"})

	if _, err := uc.Execute(context.Background(), RegisterCandidateCommand{CampaignID: "camp-1", EmployeeID: "emp-1"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err := uc.Execute(context.Background(), RegisterCandidateCommand{CampaignID: "camp-1", EmployeeID: "emp-1"})
	if !errors.Is(err, domainerrors.ErrDuplicateCandidate) {
		t.Fatalf("expected ErrDuplicateCandidate, got %v", err)
	}
}

func TestRegisterCandidateRefusesClosedCampaign(t *testing.T) {
	uc := newRegister(memory.NewStore(), fakeGate{status: "closed"})

	_, err := uc.Execute(context.Background(), RegisterCandidateCommand{CampaignID: "camp-1", EmployeeID: "emp-1"})
	if !errors.Is(err, domainerrors.ErrCampaignClosed) {
		t.Fatalf("expected ErrCampaignClosed, got %v", err)
	}
}

func TestReviewCandidateLifecycle(t *testing.T) {
	store := memory.NewStore()
	register := newRegister(store, fakeGate{status: "active"})
	review := ReviewCandidateUseCase{
		Candidates: store,
		Campaigns:  fakeGate{status: "active"},
		Clock:      fixedClock{now: testNow},
	}

	candidate, err := register.Execute(context.Background(), RegisterCandidateCommand{CampaignID: "camp-1", EmployeeID: "emp-1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	approved, err := review.Execute(context.Background(), candidate.CandidateID, DecisionApprove)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if approved.Status != entities.StatusApproved {
		t.Fatalf("expected approved, got %s", approved.Status)
	}

	// Approved candidacies cannot be re-reviewed into rejected.
	if _, err := review.Execute(context.Background(), candidate.CandidateID, DecisionReject); !errors.Is(err, domainerrors.ErrInvalidStateChange) {
		t.Fatalf("expected ErrInvalidStateChange, got %v", err)
	}
}

func TestReviewCandidateFrozenAfterCampaignCloses(t *testing.T) {
	store := memory.NewStore()
	register := newRegister(store, fakeGate{status: "active"})
	candidate, err := register.Execute(context.Background(), RegisterCandidateCommand{CampaignID: "camp-1", EmployeeID: "emp-1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	review := ReviewCandidateUseCase{
		Candidates: store,
		Campaigns:  fakeGate{status: "closing"},
		Clock:      fixedClock{now: testNow},
	}
	if _, err := review.Execute(context.Background(), candidate.CandidateID, DecisionApprove); !errors.Is(err, domainerrors.ErrCampaignClosed) {
		t.Fatalf("expected ErrCampaignClosed, got %v", err)
	}
}

func TestMarkPromotedIsIdempotent(t *testing.T) {
	store := memory.NewStore()
	register := newRegister(store, fakeGate{status: "active"})
	review := ReviewCandidateUseCase{
		Candidates: store,
		Campaigns:  fakeGate{status: "active"},
		Clock:      fixedClock{now: testNow},
	}
	promote := MarkPromotedUseCase{Candidates: store, Clock: fixedClock{now: testNow}}

	candidate, err := register.Execute(context.Background(), RegisterCandidateCommand{CampaignID: "camp-1", EmployeeID: "emp-1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := review.Execute(context.Background(), candidate.CandidateID, DecisionApprove); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	first, err := promote.Execute(context.Background(), candidate.CandidateID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.Status != entities.StatusPromoted {
		t.Fatalf("expected promoted, got %s", first.Status)
	}
	second, err := promote.Execute(context.Background(), candidate.CandidateID)
	if err != nil {
		t.Fatalf("second promote must be a no-op, got %v", err)
	}
	if second.Status != entities.StatusPromoted {
		t.Fatalf("expected promoted, got %s", second.Status)
	}
}

func TestRecomputeTalliesBreaksTiesOnEarlierSequence(t *testing.T) {
	store := memory.NewStore()
	register := newRegister(store, fakeGate{status: "active"})
	review := ReviewCandidateUseCase{
		Candidates: store,
		Campaigns:  fakeGate{status: "active"},
		Clock:      fixedClock{now: testNow},
	}

	var ids []string
	for _, emp := range []string{"emp-1", "emp-2", "emp-3"} {
		candidate, err := register.Execute(context.Background(), RegisterCandidateCommand{CampaignID: "camp-1", EmployeeID: emp})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := review.Execute(context.Background(), candidate.CandidateID, DecisionApprove); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		ids = append(ids, candidate.CandidateID)
	}

	recompute := RecomputeTalliesUseCase{
		Candidates: store,
		Campaigns:  fakeGate{status: "active", eligible: 10},
		Votes: fakeCounter{
			counts: map[string]int{ids[0]: 4, ids[1]: 4, ids[2]: 2},
			voters: 10,
		},
		Clock: fixedClock{now: testNow},
	}
	result, err := recompute.Execute(context.Background(), "camp-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Ranked) != 3 {
		t.Fatalf("expected 3 ranked candidates, got %d", len(result.Ranked))
	}
	// emp-1 and emp-2 tie on 4 votes; the earlier sequence wins.
	if result.Ranked[0].CandidateID != ids[0] || result.Ranked[0].Ranking != 1 {
		t.Fatalf("expected %s ranked first, got %s (rank %d)", ids[0], result.Ranked[0].CandidateID, result.Ranked[0].Ranking)
	}
	if result.Ranked[1].CandidateID != ids[1] || result.Ranked[1].Ranking != 2 {
		t.Fatalf("expected %s ranked second, got %s", ids[1], result.Ranked[1].CandidateID)
	}
	if result.Ranked[0].VotePercent != 40 {
		t.Fatalf("expected 40%% for the leader, got %v", result.Ranked[0].VotePercent)
	}
	if result.TotalVoters != 10 {
		t.Fatalf("expected 10 voters, got %d", result.TotalVoters)
	}
}

func TestRecomputeTalliesDividesByEligibleElectorate(t *testing.T) {
	store := memory.NewStore()
	register := newRegister(store, fakeGate{status: "active"})
	review := ReviewCandidateUseCase{
		Candidates: store,
		Campaigns:  fakeGate{status: "active"},
		Clock:      fixedClock{now: testNow},
	}

	candidate, err := register.Execute(context.Background(), RegisterCandidateCommand{CampaignID: "camp-1", EmployeeID: "emp-1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := review.Execute(context.Background(), candidate.CandidateID, DecisionApprove); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// A sole candidate with 4 ballots out of 10 eligible voters sits at 40%,
	// not 100%; the six abstainers count against the threshold.
	recompute := RecomputeTalliesUseCase{
		Candidates: store,
		Campaigns:  fakeGate{status: "active", eligible: 10},
		Votes:      fakeCounter{counts: map[string]int{candidate.CandidateID: 4}, voters: 4},
		Clock:      fixedClock{now: testNow},
	}
	result, err := recompute.Execute(context.Background(), "camp-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Ranked) != 1 {
		t.Fatalf("expected one ranked candidate, got %d", len(result.Ranked))
	}
	if result.Ranked[0].VotePercent != 40 {
		t.Fatalf("expected 40%% of the electorate, got %v", result.Ranked[0].VotePercent)
	}
	if result.TotalVoters != 4 {
		t.Fatalf("expected 4 ballots cast, got %d", result.TotalVoters)
	}
}

func TestRecomputeTalliesExcludesRejectedAndWithdrawn(t *testing.T) {
	store := memory.NewStore()
	register := newRegister(store, fakeGate{status: "active"})
	review := ReviewCandidateUseCase{
		Candidates: store,
		Campaigns:  fakeGate{status: "active"},
		Clock:      fixedClock{now: testNow},
	}

	approvedCandidate, err := register.Execute(context.Background(), RegisterCandidateCommand{CampaignID: "camp-1", EmployeeID: "emp-1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := review.Execute(context.Background(), approvedCandidate.CandidateID, DecisionApprove); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rejectedCandidate, err := register.Execute(context.Background(), RegisterCandidateCommand{CampaignID: "camp-1", EmployeeID: "emp-2"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := review.Execute(context.Background(), rejectedCandidate.CandidateID, DecisionReject); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	recompute := RecomputeTalliesUseCase{
		Candidates: store,
		Campaigns:  fakeGate{status: "active"},
		Votes:      fakeCounter{counts: map[string]int{}, voters: 0},
		Clock:      fixedClock{now: testNow},
	}
	result, err := recompute.Execute(context.Background(), "camp-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Ranked) != 1 {
		t.Fatalf("expected only the approved candidate, got %d", len(result.Ranked))
	}
	// Zero voters means zero percent, never a division by zero.
	if result.Ranked[0].VotePercent != 0 {
		t.Fatalf("expected 0%% with no voters, got %v", result.Ranked[0].VotePercent)
	}
}
