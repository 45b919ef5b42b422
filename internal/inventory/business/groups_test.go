package business

import (
	"fmt"
	"io"
	"testing"

	"goinventory_api/internal/inventory/models"
	"goinventory_api/pkg/business/service"
	"goinventory_api/pkg/logger"
)

func newTestGroupFinder() *GroupFinder {
	return NewGroupFinder(NewScorer(service.NewTextService()), logger.NewLogger(io.Discard, "[test]"))
}

func TestGroupFinderBuildsConsensusGroup(t *testing.T) {
	f := newTestGroupFinder()
	byChannel := map[string][]models.ListingRecord{
		"reverb": {
			channelListing(1, 11, "reverb", "Fender", "Stratocaster", 1200),
		},
		"shopify": {
			channelListing(2, 21, "shopify", "Fender", "Stratocaster", 1250),
		},
		"ebay": {
			channelListing(3, 31, "ebay", "Fender", "Stratocaster", 1190),
		},
	}
	order := []string{"reverb", "shopify", "ebay"}

	groups := f.FindGroups(byChannel, order, "reverb", 85)
	if len(groups) != 1 {
		t.Fatalf("expected 1 group, got %d", len(groups))
	}
	g := groups[0]
	if g.BaseChannel != "reverb" {
		t.Fatalf("expected base channel reverb, got %q", g.BaseChannel)
	}
	if len(g.Members) != 3 {
		t.Fatalf("expected 3 members, got %d", len(g.Members))
	}
	if len(g.Confidences) != 2 {
		t.Fatalf("expected confidences for 2 non-base channels, got %d", len(g.Confidences))
	}
	for ch, conf := range g.Confidences {
		if conf < 85 {
			t.Fatalf("confidence for %s below threshold: %.2f", ch, conf)
		}
	}
}

func TestGroupFinderRequiresBasePlusOne(t *testing.T) {
	f := newTestGroupFinder()
	byChannel := map[string][]models.ListingRecord{
		"reverb": {
			channelListing(1, 11, "reverb", "Fender", "Stratocaster", 1200),
		},
		"shopify": {
			channelListing(2, 21, "shopify", "Gibson", "Les Paul", 2400),
		},
	}
	order := []string{"reverb", "shopify"}

	if groups := f.FindGroups(byChannel, order, "reverb", 85); len(groups) != 0 {
		t.Fatalf("expected no groups when nothing matches the base, got %d", len(groups))
	}
}

func TestGroupFinderNeverReusesARecord(t *testing.T) {
	f := newTestGroupFinder()
	// Two near-identical base listings compete for one shopify record; the
	// second base record must not reuse it.
	byChannel := map[string][]models.ListingRecord{
		"reverb": {
			channelListing(1, 11, "reverb", "Fender", "Stratocaster", 1200),
			channelListing(2, 12, "reverb", "Fender", "Stratocaster", 1210),
		},
		"shopify": {
			channelListing(3, 21, "shopify", "Fender", "Stratocaster", 1200),
		},
		"ebay": {
			channelListing(4, 31, "ebay", "Fender", "Stratocaster", 1205),
		},
	}
	order := []string{"reverb", "shopify", "ebay"}

	groups := f.FindGroups(byChannel, order, "reverb", 85)

	seen := make(map[string]bool)
	for _, g := range groups {
		for _, m := range g.Members {
			key := fmt.Sprintf("%s/%d", m.Channel, m.LinkID)
			if seen[key] {
				t.Fatalf("record %s appears in two groups", key)
			}
			seen[key] = true
		}
	}
}

func TestGroupFinderEmptyBaseChannel(t *testing.T) {
	f := newTestGroupFinder()
	byChannel := map[string][]models.ListingRecord{
		"shopify": {
			channelListing(2, 21, "shopify", "Fender", "Stratocaster", 1250),
		},
	}
	order := []string{"reverb", "shopify"}

	if groups := f.FindGroups(byChannel, order, "reverb", 85); groups != nil {
		t.Fatalf("expected nil groups for empty base channel, got %d", len(groups))
	}
}
