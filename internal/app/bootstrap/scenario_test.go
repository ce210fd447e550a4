package bootstrap

import (
	"context"
	"fmt"
	"testing"
	"time"

	campaignservice "peervote/contexts/voting/campaign-service"
	campaignmemory "peervote/contexts/voting/campaign-service/adapters/memory"
	campaignentities "peervote/contexts/voting/campaign-service/domain/entities"
	candidateregistry "peervote/contexts/voting/candidate-registry"
	candidatememory "peervote/contexts/voting/candidate-registry/adapters/memory"
	candidateentities "peervote/contexts/voting/candidate-registry/domain/entities"
	candidateports "peervote/contexts/voting/candidate-registry/ports"
	resultresolver "peervote/contexts/voting/result-resolver"
	resolvermemory "peervote/contexts/voting/result-resolver/adapters/memory"
	resolverentities "peervote/contexts/voting/result-resolver/domain/entities"
	votingledger "peervote/contexts/voting/voting-ledger"
	ledgermemory "peervote/contexts/voting/voting-ledger/adapters/memory"
	ledgercommands "peervote/contexts/voting/voting-ledger/application/commands"
	attendancetracker "peervote/contexts/workforce/attendance-tracker"
	attendancememory "peervote/contexts/workforce/attendance-tracker/adapters/memory"
	attendancecommands "peervote/contexts/workforce/attendance-tracker/application/commands"
)

// stepClock is a shared mutable clock so a scenario can move every module
// past the campaign window at once.
type stepClock struct {
	now time.Time
}

func (c *stepClock) Now() time.Time { return c.now }

func (c *stepClock) advance(d time.Duration) { c.now = c.now.Add(d) }

type scenarioIDGen struct {
	prefix string
	n      int
}

func (g *scenarioIDGen) NewID(_ context.Context) (string, error) {
	g.n++
	return fmt.Sprintf("%s-%d", g.prefix, g.n), nil
}

// scenarioApp wires every module through the production adapters, with
// in-memory storage standing in for postgres.
type scenarioApp struct {
	clock      *stepClock
	attendance attendancetracker.Module
	campaigns  campaignservice.Module
	candidates candidateregistry.Module
	ledger     votingledger.Module
	resolver   resultresolver.Module

	attendanceStore *attendancememory.Store
	campaignStore   *campaignmemory.Store
	candidateStore  *candidatememory.Store
	voteStore       *ledgermemory.Store
}

func newScenarioApp(headcount int) *scenarioApp {
	clock := &stepClock{now: time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC)}

	attendanceStore := attendancememory.NewStore()
	campaignStore := campaignmemory.NewStore()
	candidateStore := candidatememory.NewStore()
	voteStore := ledgermemory.NewStore()
	outcomeStore := resolvermemory.NewStore()

	directory := candidatememory.NewStaticDirectory()
	for i := 1; i <= headcount; i++ {
		directory.Put(candidateports.EmployeeProfile{
			EmployeeID:  fmt.Sprintf("emp-%d", i),
			Position:    "engineer",
			TenureYears: 3,
		})
	}

	punishment := attendancecommands.IncrementPunishmentUseCase{Statistics: attendanceStore}

	campaignModule := campaignservice.NewModule(campaignservice.Dependencies{
		Campaigns:  campaignStore,
		Punishment: punishmentCounterAdapter{attendance: punishment},
		Clock:      clock,
		IDGen:      &scenarioIDGen{prefix: "camp"},
		RetryLimit: 3,
	})

	candidateModule := candidateregistry.NewModule(candidateregistry.Dependencies{
		Candidates: candidateStore,
		Campaigns:  campaignGateAdapter{campaigns: campaignStore},
		Directory:  directory,
		Votes:      voteCounterAdapter{votes: voteStore},
		Clock:      clock,
		IDGen:      &scenarioIDGen{prefix: "cand"},
	})

	ledgerModule := votingledger.NewModule(votingledger.Dependencies{
		Votes:      voteStore,
		Campaigns:  campaignGuardAdapter{campaigns: campaignStore, clock: clock},
		Candidates: candidateGuardAdapter{candidates: candidateStore},
		Clock:      clock,
		IDGen:      &scenarioIDGen{prefix: "vote"},
		VoterSalt:  "scenario-salt",
	})

	resolverModule := resultresolver.NewModule(resultresolver.Dependencies{
		Campaigns: resolverCampaignAdapter{campaigns: campaignStore},
		Tally:     tallyServiceAdapter{recompute: candidateModule.Recompute},
		Ledger:    ledgerSummaryAdapter{ledger: ledgerModule},
		Promoter:  promotionMarkerAdapter{markPromoted: candidateModule.MarkPromoted},
		Retry:     retrySchedulerAdapter{scheduleRetry: campaignModule.ScheduleRetry},
		Outcomes:  outcomeStore,
		Clock:     clock,
		IDGen:     &scenarioIDGen{prefix: "evt"},
	})

	attendanceModule := attendancetracker.NewModule(attendancetracker.Dependencies{
		Statistics: attendanceStore,
		Trigger: campaignTriggerAdapter{
			campaigns:  campaignModule,
			candidates: candidateModule,
			electorate: directory,
		},
		Clock: clock,
	})

	return &scenarioApp{
		clock:           clock,
		attendance:      attendanceModule,
		campaigns:       campaignModule,
		candidates:      candidateModule,
		ledger:          ledgerModule,
		resolver:        resolverModule,
		attendanceStore: attendanceStore,
		campaignStore:   campaignStore,
		candidateStore:  candidateStore,
		voteStore:       voteStore,
	}
}

// triggerDemotionCampaign records late events for emp-1 until the minutes
// threshold fires, and returns the opened campaign with its sole candidate.
func (app *scenarioApp) triggerDemotionCampaign(t *testing.T) (campaignentities.PromotionCampaign, candidateentities.PromotionCandidate) {
	t.Helper()
	ctx := context.Background()

	var campaignID string
	for i := 0; i < 3; i++ {
		result, err := app.attendance.RecordLate.Execute(ctx, attendancecommands.RecordLateEventCommand{
			EmployeeID: "emp-1",
			Year:       2026,
			Month:      3,
			Minutes:    4,
			Reason:     "overslept",
		})
		if err != nil {
			t.Fatalf("late event %d: %v", i+1, err)
		}
		if result.Triggered {
			campaignID = result.CampaignID
		}
	}
	if campaignID == "" {
		t.Fatal("expected the third late event to open a demotion campaign")
	}

	campaign, err := app.campaignStore.GetCampaign(ctx, campaignID)
	if err != nil {
		t.Fatalf("campaign not stored: %v", err)
	}
	candidates, err := app.candidateStore.ListByCampaign(ctx, campaignID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(candidates) != 1 {
		t.Fatalf("expected the trigger employee as sole candidate, got %d", len(candidates))
	}
	return campaign, candidates[0]
}

func (app *scenarioApp) castVotes(t *testing.T, campaignID string, candidateID string, voters []string) {
	t.Helper()
	for _, voter := range voters {
		if _, err := app.ledger.Cast.Execute(context.Background(), ledgercommands.CastVoteCommand{
			CampaignID:    campaignID,
			VoterIdentity: voter,
			CandidateID:   candidateID,
		}); err != nil {
			t.Fatalf("vote by %s: %v", voter, err)
		}
	}
}

func TestDemotionVoteFailsWhenMostOfTheElectorateAbstains(t *testing.T) {
	app := newScenarioApp(10)
	ctx := context.Background()

	campaign, candidate := app.triggerDemotionCampaign(t)
	if campaign.Status != campaignentities.StatusActive {
		t.Fatalf("expected active campaign, got %s", campaign.Status)
	}
	if campaign.EligibleVoters != 10 {
		t.Fatalf("expected the directory headcount as electorate, got %d", campaign.EligibleVoters)
	}
	if candidate.Status != candidateentities.StatusApproved {
		t.Fatalf("the trigger employee must be pre-approved, got %s", candidate.Status)
	}

	// 4 of 10 eligible voters back the demotion; the other 6 abstain.
	app.castVotes(t, campaign.CampaignID, candidate.CandidateID, []string{"emp-2", "emp-3", "emp-4", "emp-5"})

	app.clock.advance(8 * 24 * time.Hour)
	outcome, err := app.resolver.Resolve.Execute(ctx, campaign.CampaignID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if outcome.Outcome != resolverentities.OutcomeFailed {
		t.Fatalf("40%% of the electorate must not pass a 50%% threshold, got %s", outcome.Outcome)
	}
	if outcome.WinningPercentage != 40 {
		t.Fatalf("expected 40%% winning percentage, got %v", outcome.WinningPercentage)
	}
	if outcome.TotalVoters != 4 {
		t.Fatalf("expected 4 ballots cast, got %d", outcome.TotalVoters)
	}
	if outcome.RetryCampaignID == "" {
		t.Fatal("a failed automatic campaign must schedule a successor")
	}

	closed, err := app.campaignStore.GetCampaign(ctx, campaign.CampaignID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if closed.Status != campaignentities.StatusClosed || closed.Outcome != campaignentities.OutcomeFailed {
		t.Fatalf("expected closed failed campaign, got %s/%s", closed.Status, closed.Outcome)
	}

	successor, err := app.campaignStore.GetCampaign(ctx, outcome.RetryCampaignID)
	if err != nil {
		t.Fatalf("successor not stored: %v", err)
	}
	if successor.PredecessorID != campaign.CampaignID || successor.Attempt != 2 {
		t.Fatalf("expected linked attempt 2 successor, got predecessor=%q attempt=%d", successor.PredecessorID, successor.Attempt)
	}
	if successor.Status != campaignentities.StatusDraft {
		t.Fatalf("successor must start as draft, got %s", successor.Status)
	}
	if successor.EligibleVoters != 10 {
		t.Fatalf("successor must keep the electorate size, got %d", successor.EligibleVoters)
	}

	stats, err := app.attendanceStore.GetStatistics(ctx, "emp-1", 2026, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.PunishmentCount != 1 {
		t.Fatalf("the retry must bump the punishment count once, got %d", stats.PunishmentCount)
	}
}

func TestDemotionVotePassesWithMajorityOfElectorate(t *testing.T) {
	app := newScenarioApp(10)
	ctx := context.Background()

	campaign, candidate := app.triggerDemotionCampaign(t)

	// 6 of 10 eligible voters back the demotion: 60% clears the threshold.
	app.castVotes(t, campaign.CampaignID, candidate.CandidateID,
		[]string{"emp-2", "emp-3", "emp-4", "emp-5", "emp-6", "emp-7"})

	app.clock.advance(8 * 24 * time.Hour)
	outcome, err := app.resolver.Resolve.Execute(ctx, campaign.CampaignID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if outcome.Outcome != resolverentities.OutcomePassed {
		t.Fatalf("expected passed outcome, got %s", outcome.Outcome)
	}
	if outcome.WinningPercentage != 60 {
		t.Fatalf("expected 60%% winning percentage, got %v", outcome.WinningPercentage)
	}
	if outcome.RetryCampaignID != "" {
		t.Fatalf("passed campaigns must not retry, got %q", outcome.RetryCampaignID)
	}

	promoted, err := app.candidateStore.GetCandidate(ctx, candidate.CandidateID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if promoted.Status != candidateentities.StatusPromoted {
		t.Fatalf("the winning candidate must be marked, got %s", promoted.Status)
	}

	stats, err := app.attendanceStore.GetStatistics(ctx, "emp-1", 2026, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.PunishmentCount != 0 {
		t.Fatalf("a passed vote must not bump punishment, got %d", stats.PunishmentCount)
	}
}
