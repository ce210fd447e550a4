package commands

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"peervote/contexts/voting/result-resolver/adapters/memory"
	"peervote/contexts/voting/result-resolver/domain/entities"
	domainerrors "peervote/contexts/voting/result-resolver/domain/errors"
	"peervote/contexts/voting/result-resolver/ports"
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
	return fmt.Sprintf("evt-%d", g.n), nil
}

// fakeStateMachine is a single-campaign state machine with guarded
// transitions, mirroring the campaign service's CAS semantics.
type fakeStateMachine struct {
	campaign ports.CampaignView
}

func (f *fakeStateMachine) GetCampaign(_ context.Context, _ string) (ports.CampaignView, error) {
	return f.campaign, nil
}

func (f *fakeStateMachine) BeginClosing(_ context.Context, _ string, _ time.Time) (bool, error) {
	if f.campaign.Status != "active" {
		return false, nil
	}
	f.campaign.Status = "closing"
	return true, nil
}

func (f *fakeStateMachine) CompleteClosing(_ context.Context, _ string, outcome string, totalVotes int, totalVoters int, _ time.Time) error {
	if f.campaign.Status != "closing" {
		return errors.New("not closing")
	}
	f.campaign.Status = "closed"
	f.campaign.Outcome = outcome
	f.campaign.TotalVotes = totalVotes
	f.campaign.TotalVoters = totalVoters
	return nil
}

func (f *fakeStateMachine) ListResolvable(_ context.Context, _ time.Time, _ int) ([]string, error) {
	return nil, nil
}

type fakeTally struct {
	ranked []ports.RankedCandidate
	voters int
}

func (f fakeTally) Recompute(_ context.Context, _ string) ([]ports.RankedCandidate, int, error) {
	return f.ranked, f.voters, nil
}

type fakeLedger struct {
	totalVotes  int
	totalVoters int
}

func (f fakeLedger) Summarize(_ context.Context, _ string) (int, int, error) {
	return f.totalVotes, f.totalVoters, nil
}

type promoterRecorder struct {
	promoted []string
}

func (p *promoterRecorder) MarkPromoted(_ context.Context, candidateID string) error {
	p.promoted = append(p.promoted, candidateID)
	return nil
}

type retryRecorder struct {
	calls int
	id    string
	err   error
}

func (r *retryRecorder) ScheduleRetry(_ context.Context, _ string) (string, error) {
	r.calls++
	if r.err != nil {
		return "", r.err
	}
	return r.id, nil
}

var testNow = time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

func endedAutoCampaign() ports.CampaignView {
	return ports.CampaignView{
		CampaignID:           "camp-1",
		Status:               "active",
		EndTime:              testNow.Add(-time.Hour),
		PassThresholdPercent: 50,
		SystemGenerated:      true,
		TargetRole:           "demotion-review",
	}
}

func newResolve(machine *fakeStateMachine, tally fakeTally, ledger fakeLedger, promoter *promoterRecorder, retry *retryRecorder, outcomes *memory.Store) ResolveUseCase {
	return ResolveUseCase{
		Campaigns: machine,
		Tally:     tally,
		Ledger:    ledger,
		Promoter:  promoter,
		Retry:     retry,
		Outcomes:  outcomes,
		Clock:     fixedClock{now: testNow},
		IDGen:     &seqIDGen{},
	}
}

func TestResolveFailsBelowThresholdAndSchedulesRetry(t *testing.T) {
	machine := &fakeStateMachine{campaign: endedAutoCampaign()}
	promoter := &promoterRecorder{}
	retry := &retryRecorder{id: "camp-2"}
	outcomes := memory.NewStore()

	// 4 of 10 voters back the leader: 40% misses the 50% threshold.
	uc := newResolve(machine, fakeTally{
		ranked: []ports.RankedCandidate{
			{CandidateID: "cand-1", AnonymousID: "CANDIDATE_001", VoteCount: 4, VotePercent: 40, Ranking: 1},
		},
		voters: 10,
	}, fakeLedger{totalVotes: 12, totalVoters: 10}, promoter, retry, outcomes)

	outcome, err := uc.Execute(context.Background(), "camp-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.Outcome != entities.OutcomeFailed {
		t.Fatalf("expected failed outcome, got %s", outcome.Outcome)
	}
	if outcome.WinningPercentage != 40 {
		t.Fatalf("expected winning percentage 40, got %v", outcome.WinningPercentage)
	}
	if outcome.RetryCampaignID != "camp-2" {
		t.Fatalf("expected retry campaign camp-2, got %q", outcome.RetryCampaignID)
	}
	if retry.calls != 1 {
		t.Fatalf("expected one retry call, got %d", retry.calls)
	}
	if len(promoter.promoted) != 0 {
		t.Fatalf("failed campaigns must not promote, got %v", promoter.promoted)
	}
	if machine.campaign.Status != "closed" {
		t.Fatalf("expected campaign closed, got %s", machine.campaign.Status)
	}
	if machine.campaign.TotalVotes != 12 || machine.campaign.TotalVoters != 10 {
		t.Fatalf("participation totals not stamped: votes=%d voters=%d", machine.campaign.TotalVotes, machine.campaign.TotalVoters)
	}
}

func TestResolvePassesAtThresholdAndPromotesWinner(t *testing.T) {
	machine := &fakeStateMachine{campaign: endedAutoCampaign()}
	promoter := &promoterRecorder{}
	retry := &retryRecorder{id: "camp-2"}
	outcomes := memory.NewStore()

	uc := newResolve(machine, fakeTally{
		ranked: []ports.RankedCandidate{
			{CandidateID: "cand-1", AnonymousID: "CANDIDATE_001", VoteCount: 5, VotePercent: 50, Ranking: 1},
			{CandidateID: "cand-2", AnonymousID: "CANDIDATE_002", VoteCount: 5, VotePercent: 50, Ranking: 2},
		},
		voters: 10,
	}, fakeLedger{totalVotes: 10, totalVoters: 10}, promoter, retry, outcomes)

	outcome, err := uc.Execute(context.Background(), "camp-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.Outcome != entities.OutcomePassed {
		t.Fatalf("expected passed outcome, got %s", outcome.Outcome)
	}
	if outcome.WinnerCandidateID != "cand-1" {
		t.Fatalf("the tie-break winner is the ranked leader, got %s", outcome.WinnerCandidateID)
	}
	if len(promoter.promoted) != 1 || promoter.promoted[0] != "cand-1" {
		t.Fatalf("expected cand-1 promoted, got %v", promoter.promoted)
	}
	if retry.calls != 0 {
		t.Fatalf("passed campaigns must not retry, got %d calls", retry.calls)
	}
}

func TestResolveEmptyElectorateNeverPasses(t *testing.T) {
	campaign := endedAutoCampaign()
	campaign.PassThresholdPercent = 0
	machine := &fakeStateMachine{campaign: campaign}
	promoter := &promoterRecorder{}
	retry := &retryRecorder{id: "camp-2"}

	uc := newResolve(machine, fakeTally{
		ranked: []ports.RankedCandidate{
			{CandidateID: "cand-1", AnonymousID: "CANDIDATE_001", VoteCount: 0, VotePercent: 0, Ranking: 1},
		},
		voters: 0,
	}, fakeLedger{}, promoter, retry, memory.NewStore())

	outcome, err := uc.Execute(context.Background(), "camp-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.Outcome != entities.OutcomeFailed {
		t.Fatalf("a campaign with no voters must fail, got %s", outcome.Outcome)
	}
	if len(promoter.promoted) != 0 {
		t.Fatalf("no promotion without voters, got %v", promoter.promoted)
	}
}

func TestResolveRefusesBeforeWindowEnds(t *testing.T) {
	campaign := endedAutoCampaign()
	campaign.EndTime = testNow.Add(time.Hour)
	machine := &fakeStateMachine{campaign: campaign}

	uc := newResolve(machine, fakeTally{}, fakeLedger{}, &promoterRecorder{}, &retryRecorder{}, memory.NewStore())
	if _, err := uc.Execute(context.Background(), "camp-1"); !errors.Is(err, domainerrors.ErrCampaignNotEnded) {
		t.Fatalf("expected ErrCampaignNotEnded, got %v", err)
	}
	if machine.campaign.Status != "active" {
		t.Fatalf("an early resolve must not move the campaign, got %s", machine.campaign.Status)
	}
}

func TestResolveClosedCampaignReturnsStoredOutcome(t *testing.T) {
	machine := &fakeStateMachine{campaign: endedAutoCampaign()}
	retry := &retryRecorder{id: "camp-2"}
	outcomes := memory.NewStore()
	uc := newResolve(machine, fakeTally{
		ranked: []ports.RankedCandidate{
			{CandidateID: "cand-1", AnonymousID: "CANDIDATE_001", VoteCount: 4, VotePercent: 40, Ranking: 1},
		},
		voters: 10,
	}, fakeLedger{totalVotes: 10, totalVoters: 10}, &promoterRecorder{}, retry, outcomes)

	first, err := uc.Execute(context.Background(), "camp-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := uc.Execute(context.Background(), "camp-1")
	if err != nil {
		t.Fatalf("re-resolving a closed campaign must succeed, got %v", err)
	}
	if second.Outcome != first.Outcome || second.RetryCampaignID != first.RetryCampaignID {
		t.Fatalf("expected stored outcome back, got %+v vs %+v", second, first)
	}
	if retry.calls != 1 {
		t.Fatalf("re-resolution must not schedule another retry, got %d calls", retry.calls)
	}
}

func TestResolveResumesFromClosing(t *testing.T) {
	campaign := endedAutoCampaign()
	campaign.Status = "closing"
	machine := &fakeStateMachine{campaign: campaign}

	uc := newResolve(machine, fakeTally{
		ranked: []ports.RankedCandidate{
			{CandidateID: "cand-1", AnonymousID: "CANDIDATE_001", VoteCount: 6, VotePercent: 60, Ranking: 1},
		},
		voters: 10,
	}, fakeLedger{totalVotes: 10, totalVoters: 10}, &promoterRecorder{}, &retryRecorder{}, memory.NewStore())

	outcome, err := uc.Execute(context.Background(), "camp-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.Outcome != entities.OutcomePassed {
		t.Fatalf("expected passed outcome, got %s", outcome.Outcome)
	}
	if machine.campaign.Status != "closed" {
		t.Fatalf("expected campaign closed after resume, got %s", machine.campaign.Status)
	}
}

func TestResolveStillClosesWhenRetrySchedulingFails(t *testing.T) {
	machine := &fakeStateMachine{campaign: endedAutoCampaign()}
	retry := &retryRecorder{err: errors.New("retry limit reached")}
	outcomes := memory.NewStore()

	uc := newResolve(machine, fakeTally{
		ranked: []ports.RankedCandidate{
			{CandidateID: "cand-1", AnonymousID: "CANDIDATE_001", VoteCount: 1, VotePercent: 10, Ranking: 1},
		},
		voters: 10,
	}, fakeLedger{totalVotes: 10, totalVoters: 10}, &promoterRecorder{}, retry, outcomes)

	outcome, err := uc.Execute(context.Background(), "camp-1")
	if err != nil {
		t.Fatalf("resolution must survive a failed retry, got %v", err)
	}
	if outcome.Outcome != entities.OutcomeFailed {
		t.Fatalf("expected failed outcome, got %s", outcome.Outcome)
	}
	if outcome.RetryCampaignID != "" {
		t.Fatalf("expected no retry campaign, got %q", outcome.RetryCampaignID)
	}
	if machine.campaign.Status != "closed" {
		t.Fatalf("expected campaign closed, got %s", machine.campaign.Status)
	}
}

// guardedRetry enforces the campaign service's retry precondition: the
// campaign row must already be closed with a failed outcome when the
// scheduler is invoked.
type guardedRetry struct {
	machine *fakeStateMachine
	calls   int
}

func (r *guardedRetry) ScheduleRetry(_ context.Context, _ string) (string, error) {
	r.calls++
	if r.machine.campaign.Status != "closed" || r.machine.campaign.Outcome != entities.OutcomeFailed {
		return "", errors.New("retry not allowed")
	}
	return "camp-2", nil
}

func TestResolveSchedulesRetryOnlyAfterCloseLands(t *testing.T) {
	machine := &fakeStateMachine{campaign: endedAutoCampaign()}
	retry := &guardedRetry{machine: machine}
	outcomes := memory.NewStore()

	uc := ResolveUseCase{
		Campaigns: machine,
		Tally: fakeTally{
			ranked: []ports.RankedCandidate{
				{CandidateID: "cand-1", AnonymousID: "CANDIDATE_001", VoteCount: 4, VotePercent: 40, Ranking: 1},
			},
			voters: 4,
		},
		Ledger:   fakeLedger{totalVotes: 4, totalVoters: 4},
		Promoter: &promoterRecorder{},
		Retry:    retry,
		Outcomes: outcomes,
		Clock:    fixedClock{now: testNow},
		IDGen:    &seqIDGen{},
	}

	outcome, err := uc.Execute(context.Background(), "camp-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if retry.calls != 1 {
		t.Fatalf("expected one retry call, got %d", retry.calls)
	}
	if outcome.RetryCampaignID != "camp-2" {
		t.Fatalf("retry must be scheduled against the closed row, got %q", outcome.RetryCampaignID)
	}

	stored, err := outcomes.GetOutcome(context.Background(), "camp-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stored.RetryCampaignID != "camp-2" {
		t.Fatalf("the successor id must land in the stored outcome, got %q", stored.RetryCampaignID)
	}
}

func TestResolveRejectsCancelledCampaign(t *testing.T) {
	campaign := endedAutoCampaign()
	campaign.Status = "cancelled"
	machine := &fakeStateMachine{campaign: campaign}

	uc := newResolve(machine, fakeTally{}, fakeLedger{}, &promoterRecorder{}, &retryRecorder{}, memory.NewStore())
	if _, err := uc.Execute(context.Background(), "camp-1"); !errors.Is(err, domainerrors.ErrNotResolvable) {
		t.Fatalf("expected ErrNotResolvable, got %v", err)
	}
}
