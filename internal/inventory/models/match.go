package models

// MatchCandidate is a proposed correspondence between listings on different
// channels. A pairwise candidate holds exactly two members; a group candidate
// holds one member per channel, anchored on BaseChannel, with Confidences
// keyed by channel holding the pairwise score against the base member.
//
// Candidates are transient: either discarded after review or handed to the
// merge executor as a confirmed match.
type MatchCandidate struct {
	ID          string             `json:"id"`
	Members     []ListingRecord    `json:"members"`
	Confidence  float64            `json:"confidence"`
	BaseChannel string             `json:"base_channel,omitempty"`
	Confidences map[string]float64 `json:"confidences,omitempty"`
}

// MemberByChannel returns the member listed on the given channel, or nil.
func (m *MatchCandidate) MemberByChannel(channel string) *ListingRecord {
	for i := range m.Members {
		if m.Members[i].Channel == channel {
			return &m.Members[i]
		}
	}
	return nil
}
