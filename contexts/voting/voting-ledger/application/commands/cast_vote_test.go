package commands

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"peervote/contexts/voting/voting-ledger/adapters/memory"
	"peervote/contexts/voting/voting-ledger/domain/entities"
	domainerrors "peervote/contexts/voting/voting-ledger/domain/errors"
	"peervote/contexts/voting/voting-ledger/ports"
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
	return fmt.Sprintf("vote-%d", g.n), nil
}

type fakeGuard struct {
	policy ports.CampaignPolicy
}

func (g fakeGuard) VotingPolicy(_ context.Context, _ string) (ports.CampaignPolicy, error) {
	return g.policy, nil
}

type allowAllCandidates struct{}

func (allowAllCandidates) Votable(_ context.Context, _ string, _ string) (bool, error) {
	return true, nil
}

type denyCandidates struct{}

func (denyCandidates) Votable(_ context.Context, _ string, _ string) (bool, error) {
	return false, nil
}

var testNow = time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

func newCast(store *memory.Store, policy ports.CampaignPolicy) CastVoteUseCase {
	return CastVoteUseCase{
		Votes:      store,
		Campaigns:  fakeGuard{policy: policy},
		Candidates: allowAllCandidates{},
		Clock:      fixedClock{now: testNow},
		IDGen:      &seqIDGen{},
		VoterSalt:  "test-salt",
	}
}

func activePolicy() ports.CampaignPolicy {
	return ports.CampaignPolicy{
		CampaignID:       "camp-1",
		Active:           true,
		CanModifyVotes:   true,
		MaxModifications: 2,
	}
}

func TestCastVoteRecordsFirstVote(t *testing.T) {
	store := memory.NewStore()
	uc := newCast(store, activePolicy())

	result, err := uc.Execute(context.Background(), CastVoteCommand{
		CampaignID:    "camp-1",
		VoterIdentity: "emp-9",
		CandidateID:   "cand-1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Revised {
		t.Fatal("first cast must not be a revision")
	}
	if result.Vote.CandidateID != "cand-1" {
		t.Fatalf("expected cand-1, got %s", result.Vote.CandidateID)
	}
	if result.Vote.ModificationCount != 0 {
		t.Fatalf("fresh votes start at zero modifications, got %d", result.Vote.ModificationCount)
	}
	if result.Vote.VoterFingerprint == "" || result.Vote.VoterFingerprint == "emp-9" {
		t.Fatal("voter identity must be stored only as a fingerprint")
	}
}

func TestCastVoteSameCandidateIsNoOp(t *testing.T) {
	store := memory.NewStore()
	uc := newCast(store, activePolicy())
	cmd := CastVoteCommand{CampaignID: "camp-1", VoterIdentity: "emp-9", CandidateID: "cand-1"}

	if _, err := uc.Execute(context.Background(), cmd); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	result, err := uc.Execute(context.Background(), cmd)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Revised {
		t.Fatal("re-casting the same candidate must not count as a revision")
	}
	if result.Vote.ModificationCount != 0 {
		t.Fatalf("no-op recast must not consume a modification, got %d", result.Vote.ModificationCount)
	}
}

func TestCastVoteRevisionConsumesModification(t *testing.T) {
	store := memory.NewStore()
	uc := newCast(store, activePolicy())

	if _, err := uc.Execute(context.Background(), CastVoteCommand{CampaignID: "camp-1", VoterIdentity: "emp-9", CandidateID: "cand-1"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	result, err := uc.Execute(context.Background(), CastVoteCommand{CampaignID: "camp-1", VoterIdentity: "emp-9", CandidateID: "cand-2"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Revised {
		t.Fatal("switching candidates must be a revision")
	}
	if result.Vote.CandidateID != "cand-2" {
		t.Fatalf("expected cand-2, got %s", result.Vote.CandidateID)
	}
	if result.Vote.ModificationCount != 1 {
		t.Fatalf("expected one modification, got %d", result.Vote.ModificationCount)
	}
}

func TestCastVoteLocksAtModificationCap(t *testing.T) {
	store := memory.NewStore()
	uc := newCast(store, activePolicy())

	// First cast plus two revisions exhausts MaxModifications = 2.
	for i, candidate := range []string{"cand-1", "cand-2", "cand-3"} {
		if _, err := uc.Execute(context.Background(), CastVoteCommand{
			CampaignID:    "camp-1",
			VoterIdentity: "emp-9",
			CandidateID:   candidate,
		}); err != nil {
			t.Fatalf("cast %d: unexpected error: %v", i+1, err)
		}
	}
	_, err := uc.Execute(context.Background(), CastVoteCommand{CampaignID: "camp-1", VoterIdentity: "emp-9", CandidateID: "cand-4"})
	if !errors.Is(err, domainerrors.ErrVoteLocked) {
		t.Fatalf("expected ErrVoteLocked, got %v", err)
	}
}

func TestCastVoteRevisionDisabled(t *testing.T) {
	store := memory.NewStore()
	policy := activePolicy()
	policy.CanModifyVotes = false
	uc := newCast(store, policy)

	if _, err := uc.Execute(context.Background(), CastVoteCommand{CampaignID: "camp-1", VoterIdentity: "emp-9", CandidateID: "cand-1"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err := uc.Execute(context.Background(), CastVoteCommand{CampaignID: "camp-1", VoterIdentity: "emp-9", CandidateID: "cand-2"})
	if !errors.Is(err, domainerrors.ErrVoteModificationDisabled) {
		t.Fatalf("expected ErrVoteModificationDisabled, got %v", err)
	}
}

func TestCastVoteRefusesInactiveCampaign(t *testing.T) {
	policy := activePolicy()
	policy.Active = false
	uc := newCast(memory.NewStore(), policy)

	_, err := uc.Execute(context.Background(), CastVoteCommand{CampaignID: "camp-1", VoterIdentity: "emp-9", CandidateID: "cand-1"})
	if !errors.Is(err, domainerrors.ErrCampaignNotActive) {
		t.Fatalf("expected ErrCampaignNotActive, got %v", err)
	}
}

func TestCastVoteRefusesUnvotableCandidate(t *testing.T) {
	uc := newCast(memory.NewStore(), activePolicy())
	uc.Candidates = denyCandidates{}

	_, err := uc.Execute(context.Background(), CastVoteCommand{CampaignID: "camp-1", VoterIdentity: "emp-9", CandidateID: "cand-1"})
	if !errors.Is(err, domainerrors.ErrCandidateNotVotable) {
		t.Fatalf("expected ErrCandidateNotVotable, got %v", err)
	}
}

// racingStore loses the first insert: a competing row for the same voter
// lands before it and the insert reports a conflict, the way the unique
// constraint behaves under concurrent first casts.
type racingStore struct {
	*memory.Store
	raced bool
}

func (s *racingStore) InsertVote(ctx context.Context, vote entities.PromotionVote) error {
	if !s.raced {
		s.raced = true
		winner := vote
		winner.VoteID = "vote-winner"
		winner.CandidateID = "cand-1"
		if err := s.Store.InsertVote(ctx, winner); err != nil {
			return err
		}
		return domainerrors.ErrConflict
	}
	return s.Store.InsertVote(ctx, vote)
}

func TestCastVoteLostInsertRaceBecomesRevision(t *testing.T) {
	store := &racingStore{Store: memory.NewStore()}
	uc := newCast(store.Store, activePolicy())
	uc.Votes = store

	result, err := uc.Execute(context.Background(), CastVoteCommand{
		CampaignID:    "camp-1",
		VoterIdentity: "emp-9",
		CandidateID:   "cand-2",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Revised {
		t.Fatal("a lost insert race must degrade to the revision path")
	}
	if result.Vote.CandidateID != "cand-2" {
		t.Fatalf("expected cand-2 after revision, got %s", result.Vote.CandidateID)
	}
	if result.Vote.ModificationCount != 1 {
		t.Fatalf("revision after a lost race must consume a modification, got %d", result.Vote.ModificationCount)
	}

	counts, voters, err := store.CountVotes(context.Background(), "camp-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if voters != 1 {
		t.Fatalf("expected a single ledger row for the voter, got %d", voters)
	}
	if counts["cand-2"] != 1 || counts["cand-1"] != 0 {
		t.Fatalf("expected the revision to move the vote to cand-2, got %v", counts)
	}
}

func TestCastVoteKeepsVotersIndependent(t *testing.T) {
	store := memory.NewStore()
	uc := newCast(store, activePolicy())

	for _, voter := range []string{"emp-1", "emp-2", "emp-3"} {
		if _, err := uc.Execute(context.Background(), CastVoteCommand{
			CampaignID:    "camp-1",
			VoterIdentity: voter,
			CandidateID:   "cand-1",
		}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	counts, voters, err := store.CountVotes(context.Background(), "camp-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if voters != 3 {
		t.Fatalf("expected 3 distinct voters, got %d", voters)
	}
	if counts["cand-1"] != 3 {
		t.Fatalf("expected 3 votes for cand-1, got %d", counts["cand-1"])
	}
}
