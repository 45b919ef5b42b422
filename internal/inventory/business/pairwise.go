package business

import (
	"sort"

	"github.com/google/uuid"

	"goinventory_api/internal/inventory/models"
	"goinventory_api/pkg/business/service"
	"goinventory_api/pkg/logger"
)

// PairwiseFinder matches listings between exactly two channels. Matching is a
// pure in-memory computation; re-running it on the same input yields the same
// candidates in the same order (candidate ids aside).
type PairwiseFinder struct {
	scorer *Scorer
	text   service.ITextService
	log    logger.Logger
}

func NewPairwiseFinder(scorer *Scorer, text service.ITextService, log logger.Logger) *PairwiseFinder {
	return &PairwiseFinder{scorer: scorer, text: text, log: log}
}

type scoredPair struct {
	ai, bi int
	score  float64
}

// Find returns best-match pairs at or above threshold, each record used at
// most once, plus the number of pairs actually scored after the brand-bucket
// prefilter. Candidates are accepted greedily from the highest score down;
// this is not a globally optimal assignment, which is acceptable because every
// candidate passes human or policy review before merging.
func (f *PairwiseFinder) Find(channelA, channelB []models.ListingRecord, threshold float64) ([]models.MatchCandidate, int) {
	// Bucket channel B by normalized brand so each A record only scores
	// against same-brand records. This is a performance pre-filter; the
	// scorer's own brand gate is what decides correctness.
	buckets := make(map[string][]int)
	for i := range channelB {
		key := f.text.Normalize(channelB[i].Brand)
		if key == "" {
			continue
		}
		buckets[key] = append(buckets[key], i)
	}

	var pairs []scoredPair
	scored := 0
	for ai := range channelA {
		key := f.text.Normalize(channelA[ai].Brand)
		if key == "" {
			continue
		}
		for _, bi := range buckets[key] {
			score := f.scorer.Score(channelA[ai], channelB[bi])
			scored++
			if score >= threshold {
				pairs = append(pairs, scoredPair{ai: ai, bi: bi, score: score})
			}
		}
	}

	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].score != pairs[j].score {
			return pairs[i].score > pairs[j].score
		}
		if pairs[i].ai != pairs[j].ai {
			return pairs[i].ai < pairs[j].ai
		}
		return pairs[i].bi < pairs[j].bi
	})

	usedA := make(map[int]bool)
	usedB := make(map[int]bool)
	var matches []models.MatchCandidate
	for _, p := range pairs {
		if usedA[p.ai] || usedB[p.bi] {
			continue
		}
		usedA[p.ai] = true
		usedB[p.bi] = true
		matches = append(matches, models.MatchCandidate{
			ID:         uuid.NewString(),
			Members:    []models.ListingRecord{channelA[p.ai], channelB[p.bi]},
			Confidence: p.score,
		})
	}

	f.log.Log("scored %d pairs, %d above threshold %.1f, %d matches after assignment",
		scored, len(pairs), threshold, len(matches))
	return matches, scored
}
