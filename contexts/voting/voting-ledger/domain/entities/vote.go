package entities

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// PromotionVote is one voter's current choice in one campaign. The
// fingerprint is the only trace of the voter; the modification count bounds
// how often the choice may change.
type PromotionVote struct {
	VoteID            string
	CampaignID        string
	VoterFingerprint  string
	CandidateID       string
	ModificationCount int
	CastAt            time.Time
	UpdatedAt         time.Time
}

// ComputeFingerprint derives the anonymized voter key. The salt is a server
// secret, so fingerprints cannot be reversed or precomputed outside the
// service; including the campaign id keeps fingerprints uncorrelated across
// campaigns.
func ComputeFingerprint(voterIdentity string, campaignID string, salt string) string {
	mac := hmac.New(sha256.New, []byte(salt))
	mac.Write([]byte(voterIdentity))
	mac.Write([]byte("|"))
	mac.Write([]byte(campaignID))
	return hex.EncodeToString(mac.Sum(nil))
}
