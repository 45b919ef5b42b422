package business

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"goinventory_api/internal/inventory/models"
	"goinventory_api/pkg/logger"
)

// ProcessedPair records one reviewed pairing as [channelA, externalIDA,
// channelB, externalIDB]; the on-disk shape review sessions are keyed by.
type ProcessedPair [4]string

// ProgressState is the persisted state of a long, human-reviewed matching
// session: the matches confirmed so far and the pairs already looked at.
type ProgressState struct {
	ConfirmedMatches []models.MatchCandidate `json:"confirmed_matches"`
	ProcessedPairs   []ProcessedPair         `json:"processed_pairs"`
}

// ProgressStore saves and loads review progress. Saves are atomic
// (write-then-rename) so a crash can never leave a truncated file behind.
type ProgressStore struct {
	path string
	log  logger.Logger
}

func NewProgressStore(path string, log logger.Logger) *ProgressStore {
	return &ProgressStore{path: path, log: log}
}

func (s *ProgressStore) Save(state *ProgressState) error {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal progress: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create progress temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write progress: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("sync progress: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close progress temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace progress file: %w", err)
	}
	return nil
}

// Load returns the saved state. A missing file is an empty session; a corrupt
// file is logged and also treated as empty — partial data is never merged in.
func (s *ProgressStore) Load() (*ProgressState, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return &ProgressState{}, nil
		}
		return nil, fmt.Errorf("read progress file: %w", err)
	}

	var state ProgressState
	if err := json.Unmarshal(data, &state); err != nil {
		s.log.Log("progress file %s is corrupt, starting empty: %v", s.path, err)
		return &ProgressState{}, nil
	}
	return &state, nil
}
