package business

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"goinventory_api/internal/inventory/models"
	"goinventory_api/pkg/logger"
)

func newTestProgressStore(t *testing.T) *ProgressStore {
	t.Helper()
	path := filepath.Join(t.TempDir(), "progress.json")
	return NewProgressStore(path, logger.NewLogger(io.Discard, "[test]"))
}

func TestProgressRoundTrip(t *testing.T) {
	store := newTestProgressStore(t)

	saved := &ProgressState{
		ConfirmedMatches: []models.MatchCandidate{
			{
				ID: "match-1",
				Members: []models.ListingRecord{
					{ProductID: 10, Channel: "reverb", ExternalID: "r-1", LinkID: 101},
					{ProductID: 20, Channel: "shopify", ExternalID: "s-1", LinkID: 201},
				},
				Confidence: 94.5,
			},
		},
		ProcessedPairs: []ProcessedPair{
			{"reverb", "r-1", "shopify", "s-1"},
			{"reverb", "r-2", "ebay", "e-9"},
		},
	}
	if err := store.Save(saved); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(loaded.ConfirmedMatches) != 1 || loaded.ConfirmedMatches[0].ID != "match-1" {
		t.Fatalf("confirmed matches did not survive: %+v", loaded.ConfirmedMatches)
	}
	if loaded.ConfirmedMatches[0].Confidence != 94.5 {
		t.Fatalf("confidence lost: %v", loaded.ConfirmedMatches[0].Confidence)
	}
	if len(loaded.ProcessedPairs) != 2 {
		t.Fatalf("expected 2 processed pairs, got %d", len(loaded.ProcessedPairs))
	}
	if loaded.ProcessedPairs[1] != (ProcessedPair{"reverb", "r-2", "ebay", "e-9"}) {
		t.Fatalf("pair order or fields lost: %+v", loaded.ProcessedPairs[1])
	}
}

func TestProgressMissingFileIsEmptySession(t *testing.T) {
	store := newTestProgressStore(t)

	state, err := store.Load()
	if err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if len(state.ConfirmedMatches) != 0 || len(state.ProcessedPairs) != 0 {
		t.Fatalf("missing file should load empty, got %+v", state)
	}
}

func TestProgressCorruptFileIsEmptySession(t *testing.T) {
	path := filepath.Join(t.TempDir(), "progress.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("seed corrupt file: %v", err)
	}
	store := NewProgressStore(path, logger.NewLogger(io.Discard, "[test]"))

	state, err := store.Load()
	if err != nil {
		t.Fatalf("corrupt file should not error: %v", err)
	}
	if len(state.ConfirmedMatches) != 0 || len(state.ProcessedPairs) != 0 {
		t.Fatalf("corrupt file should load empty, got %+v", state)
	}
}

func TestProgressSaveReplacesPreviousState(t *testing.T) {
	store := newTestProgressStore(t)

	first := &ProgressState{ProcessedPairs: []ProcessedPair{{"reverb", "r-1", "shopify", "s-1"}}}
	if err := store.Save(first); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	second := &ProgressState{ProcessedPairs: []ProcessedPair{{"ebay", "e-1", "shopify", "s-2"}}}
	if err := store.Save(second); err != nil {
		t.Fatalf("second save failed: %v", err)
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(loaded.ProcessedPairs) != 1 || loaded.ProcessedPairs[0][0] != "ebay" {
		t.Fatalf("second save should fully replace the first, got %+v", loaded.ProcessedPairs)
	}
}
