package business

import (
	"github.com/google/uuid"

	"goinventory_api/internal/inventory/models"
	"goinventory_api/pkg/logger"
)

// GroupFinder builds consensus groups across an arbitrary number of channels,
// anchored on an explicitly configured base channel. Each non-base channel
// contributes at most its single best match against the base record, and a
// record placed into an emitted group is consumed for the rest of the run.
type GroupFinder struct {
	scorer *Scorer
	log    logger.Logger
}

func NewGroupFinder(scorer *Scorer, log logger.Logger) *GroupFinder {
	return &GroupFinder{scorer: scorer, log: log}
}

// FindGroups matches every channel in channelOrder against baseChannel. The
// base channel and the channel ordering are policy parameters, not positional
// assumptions; baseChannel must appear in channelOrder.
func (f *GroupFinder) FindGroups(recordsByChannel map[string][]models.ListingRecord, channelOrder []string, baseChannel string, threshold float64) []models.MatchCandidate {
	baseRecords := recordsByChannel[baseChannel]
	if len(baseRecords) == 0 {
		f.log.Log("group matching: no listings on base channel %q", baseChannel)
		return nil
	}

	consumed := make(map[string]map[int]bool, len(channelOrder))
	for _, ch := range channelOrder {
		consumed[ch] = make(map[int]bool)
	}

	var groups []models.MatchCandidate
	for bi := range baseRecords {
		if consumed[baseChannel][bi] {
			continue
		}

		members := []models.ListingRecord{baseRecords[bi]}
		confidences := make(map[string]float64)
		picked := make(map[string]int)

		for _, ch := range channelOrder {
			if ch == baseChannel {
				continue
			}
			bestIdx := -1
			bestScore := 0.0
			for ci := range recordsByChannel[ch] {
				if consumed[ch][ci] {
					continue
				}
				score := f.scorer.Score(baseRecords[bi], recordsByChannel[ch][ci])
				if score >= threshold && score > bestScore {
					bestScore = score
					bestIdx = ci
				}
			}
			if bestIdx >= 0 {
				members = append(members, recordsByChannel[ch][bestIdx])
				confidences[ch] = bestScore
				picked[ch] = bestIdx
			}
		}

		// A group needs the base plus at least one other channel.
		if len(members) < 2 {
			continue
		}

		consumed[baseChannel][bi] = true
		for ch, idx := range picked {
			consumed[ch][idx] = true
		}
		groups = append(groups, models.MatchCandidate{
			ID:          uuid.NewString(),
			Members:     members,
			Confidence:  minConfidence(confidences),
			BaseChannel: baseChannel,
			Confidences: confidences,
		})
	}

	f.log.Log("group matching: %d groups from %d base listings", len(groups), len(baseRecords))
	return groups
}

// minConfidence is the group's weakest pairwise link against the base; the
// safest single number to show a reviewer.
func minConfidence(confidences map[string]float64) float64 {
	first := true
	min := 0.0
	for _, v := range confidences {
		if first || v < min {
			min = v
			first = false
		}
	}
	return min
}
