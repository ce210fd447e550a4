package workers

import (
	"context"
	"fmt"
	"testing"
	"time"

	"peervote/contexts/voting/campaign-service/adapters/memory"
	"peervote/contexts/voting/campaign-service/domain/entities"
	"peervote/internal/shared/events"
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

type outboxRecorder struct {
	envelopes []events.Envelope
}

func (r *outboxRecorder) AppendOutbox(_ context.Context, envelope events.Envelope) error {
	r.envelopes = append(r.envelopes, envelope)
	return nil
}

func TestActivationSweeperFlipsDueDrafts(t *testing.T) {
	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	store := memory.NewStore()
	outbox := &outboxRecorder{}

	seed := func(id string, start time.Time) {
		if err := store.CreateCampaign(context.Background(), entities.PromotionCampaign{
			CampaignID: id,
			TargetRole: "senior-engineer",
			SubType:    entities.SubTypeManual,
			Status:     entities.StatusDraft,
			StartTime:  start,
			EndTime:    start.Add(7 * 24 * time.Hour),
			CreatedAt:  now.Add(-48 * time.Hour),
		}); err != nil {
			t.Fatalf("seed %s: %v", id, err)
		}
	}
	seed("due-1", now.Add(-time.Hour))
	seed("future-1", now.Add(48*time.Hour))

	sweeper := ActivationSweeper{
		Campaigns: store,
		Outbox:    outbox,
		Clock:     fixedClock{now: now},
		IDGen:     &seqIDGen{},
	}
	if err := sweeper.RunOnce(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	due, err := store.GetCampaign(context.Background(), "due-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if due.Status != entities.StatusActive {
		t.Fatalf("expected due-1 active, got %s", due.Status)
	}
	if due.ActivatedAt == nil {
		t.Fatal("expected activated_at to be stamped")
	}

	future, err := store.GetCampaign(context.Background(), "future-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if future.Status != entities.StatusDraft {
		t.Fatalf("expected future-1 still draft, got %s", future.Status)
	}

	if len(outbox.envelopes) != 1 || outbox.envelopes[0].EventType != "campaign.opened" {
		t.Fatalf("expected one campaign.opened event, got %d", len(outbox.envelopes))
	}
}

func TestActivationSweeperIsIdempotent(t *testing.T) {
	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	store := memory.NewStore()
	outbox := &outboxRecorder{}
	if err := store.CreateCampaign(context.Background(), entities.PromotionCampaign{
		CampaignID: "due-1",
		TargetRole: "senior-engineer",
		SubType:    entities.SubTypeManual,
		Status:     entities.StatusDraft,
		StartTime:  now.Add(-time.Hour),
		EndTime:    now.Add(6 * 24 * time.Hour),
		CreatedAt:  now.Add(-48 * time.Hour),
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	sweeper := ActivationSweeper{
		Campaigns: store,
		Outbox:    outbox,
		Clock:     fixedClock{now: now},
		IDGen:     &seqIDGen{},
	}
	if err := sweeper.RunOnce(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := sweeper.RunOnce(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(outbox.envelopes) != 1 {
		t.Fatalf("second sweep must find nothing, got %d events", len(outbox.envelopes))
	}
}
