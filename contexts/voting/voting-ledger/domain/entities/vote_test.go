package entities

import "testing"

func TestComputeFingerprintIsDeterministic(t *testing.T) {
	a := ComputeFingerprint("emp-1", "camp-1", "salt")
	b := ComputeFingerprint("emp-1", "camp-1", "salt")
	if a != b {
		t.Fatalf("same inputs must yield the same fingerprint: %s vs %s", a, b)
	}
	if len(a) != 64 {
		t.Fatalf("expected 64 hex chars, got %d", len(a))
	}
}

func TestComputeFingerprintSeparatesVotersCampaignsAndSalts(t *testing.T) {
	base := ComputeFingerprint("emp-1", "camp-1", "salt")
	if ComputeFingerprint("emp-2", "camp-1", "salt") == base {
		t.Fatal("different voters must not collide")
	}
	if ComputeFingerprint("emp-1", "camp-2", "salt") == base {
		t.Fatal("different campaigns must not correlate")
	}
	if ComputeFingerprint("emp-1", "camp-1", "other-salt") == base {
		t.Fatal("different salts must not collide")
	}
}
