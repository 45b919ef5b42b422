package business

import (
	"context"
	"errors"
	"io"
	"testing"

	"goinventory_api/internal/inventory/models"
	"goinventory_api/pkg/logger"
)

// mergedStore builds a store that already went through a merge of product 10
// into product 20: product 10 gone, both links on 20, one audit row.
func mergedStore(t *testing.T) *memStore {
	t.Helper()
	store := seedMergeStore()
	e := newTestExecutor(store, PreferChannelSurvivor("shopify"))
	summary, err := e.Merge(context.Background(), []models.MatchCandidate{confirmedMatch()}, "tester")
	if err != nil || summary.Merged != 1 {
		t.Fatalf("setup merge failed: err=%v summary=%+v", err, summary)
	}
	return store
}

func newTestRestoreEngine(store *memStore) *RestoreEngine {
	return NewRestoreEngine(&memUoW{store: store}, logger.NewLogger(io.Discard, "[test]"))
}

func TestRestoreRoundTrip(t *testing.T) {
	store := mergedStore(t)
	e := newTestRestoreEngine(store)

	result := e.Restore(context.Background(), 10, "tester")
	if result.Status != models.RestoreStatusRestored {
		t.Fatalf("expected restored, got %s (err=%v)", result.Status, result.Err)
	}
	if result.Product == nil || result.Product.ID != 10 {
		t.Fatalf("restored product missing: %+v", result.Product)
	}
	if result.Product.SKU != "REV-10" || result.Product.BasePrice != 1200 {
		t.Fatalf("snapshot fields not preserved: %+v", result.Product)
	}
	if result.KeptProductID != 20 {
		t.Fatalf("expected surviving product 20, got %d", result.KeptProductID)
	}

	stored, ok := store.products[10]
	if !ok {
		t.Fatalf("restored product not persisted")
	}
	if stored.Brand != "Fender" {
		t.Fatalf("persisted product lost fields: %+v", stored)
	}

	// Both links moved to 20 during the merge; all of them come back as
	// re-association candidates.
	if len(result.CandidateLinks) != 2 {
		t.Fatalf("expected 2 candidate links, got %d", len(result.CandidateLinks))
	}
	for _, link := range result.CandidateLinks {
		if link.ProductID != 20 {
			t.Fatalf("candidate link %d not on surviving product: %+v", link.ID, link)
		}
	}
}

func TestRestoreDoesNotOverwriteLiveProduct(t *testing.T) {
	store := mergedStore(t)
	e := newTestRestoreEngine(store)
	ctx := context.Background()

	if result := e.Restore(ctx, 10, "tester"); result.Status != models.RestoreStatusRestored {
		t.Fatalf("first restore failed: %s", result.Status)
	}

	result := e.Restore(ctx, 10, "tester")
	if result.Status != models.RestoreStatusAlreadyExists {
		t.Fatalf("expected already_exists, got %s", result.Status)
	}
	if result.KeptProductID != 20 {
		t.Fatalf("already_exists should still report the survivor, got %d", result.KeptProductID)
	}
}

func TestRestoreWithoutMergeHistory(t *testing.T) {
	store := mergedStore(t)
	e := newTestRestoreEngine(store)

	result := e.Restore(context.Background(), 999, "tester")
	if result.Status != models.RestoreStatusNoMergeHistory {
		t.Fatalf("expected no_merge_history, got %s", result.Status)
	}
	if _, exists := store.products[999]; exists {
		t.Fatalf("nothing should be written for an unknown id")
	}
}

func TestRestorePartialFailureKeepsProduct(t *testing.T) {
	store := mergedStore(t)
	store.failListLinks = true
	e := newTestRestoreEngine(store)

	result := e.Restore(context.Background(), 10, "tester")
	if result.Status != models.RestoreStatusPartialFailure {
		t.Fatalf("expected partial_failure, got %s", result.Status)
	}
	if result.Err == nil {
		t.Fatalf("partial failure should carry the enumeration error")
	}
	// The insert already committed; a later enumeration failure must not undo
	// it.
	if _, exists := store.products[10]; !exists {
		t.Fatalf("restored product lost on partial failure")
	}
}

func TestReassociateLinksMovesChosenLinks(t *testing.T) {
	store := mergedStore(t)
	e := newTestRestoreEngine(store)
	ctx := context.Background()

	if result := e.Restore(ctx, 10, "tester"); result.Status != models.RestoreStatusRestored {
		t.Fatalf("restore failed: %s", result.Status)
	}

	if err := e.ReassociateLinks(ctx, 10, []int64{101}); err != nil {
		t.Fatalf("reassociate failed: %v", err)
	}
	if store.links[101].ProductID != 10 {
		t.Fatalf("link 101 should point at restored product, got %d", store.links[101].ProductID)
	}
	if store.links[201].ProductID != 20 {
		t.Fatalf("unselected link 201 must stay on the survivor, got %d", store.links[201].ProductID)
	}
}

func TestReassociateLinksRequiresLiveProduct(t *testing.T) {
	store := mergedStore(t)
	e := newTestRestoreEngine(store)

	err := e.ReassociateLinks(context.Background(), 10, []int64{101})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error for missing product, got %v", err)
	}
	if store.links[101].ProductID != 20 {
		t.Fatalf("failed reassociation must not move links")
	}
}

func TestReassociateLinksNoOpOnEmptySelection(t *testing.T) {
	store := mergedStore(t)
	e := newTestRestoreEngine(store)

	if err := e.ReassociateLinks(context.Background(), 10, nil); err != nil {
		t.Fatalf("empty selection should be a no-op, got %v", err)
	}
}
