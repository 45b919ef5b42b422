package business

import (
	"context"
	"fmt"
	"time"

	"goinventory_api/internal/inventory/models"
	"goinventory_api/metrics"
	"goinventory_api/pkg/logger"
)

// EngineParams is the explicit matching policy: the canonical channel
// ordering and the base channel group matching anchors on.
type EngineParams struct {
	Channels    []string
	BaseChannel string
}

// Engine is the surface CLI tools, web routes and scheduled jobs call into.
// Matching entry points are read-only and can be re-run at any time; merge and
// restore are the only mutating calls.
type Engine struct {
	params   EngineParams
	loader   *CandidateLoader
	pairwise *PairwiseFinder
	groups   *GroupFinder
	merger   *MergeExecutor
	restorer *RestoreEngine
	progress *ProgressStore
	log      logger.Logger
}

func NewEngine(params EngineParams, loader *CandidateLoader, pairwise *PairwiseFinder,
	groups *GroupFinder, merger *MergeExecutor, restorer *RestoreEngine,
	progress *ProgressStore, log logger.Logger) *Engine {
	return &Engine{
		params:   params,
		loader:   loader,
		pairwise: pairwise,
		groups:   groups,
		merger:   merger,
		restorer: restorer,
		progress: progress,
		log:      log,
	}
}

func (e *Engine) FindPairwiseMatches(ctx context.Context, status, channelA, channelB string, threshold float64) ([]models.MatchCandidate, error) {
	start := time.Now()

	recordsA, err := e.loader.Load(ctx, status, channelA)
	if err != nil {
		return nil, err
	}
	recordsB, err := e.loader.Load(ctx, status, channelB)
	if err != nil {
		return nil, err
	}

	matches, scored := e.pairwise.Find(recordsA, recordsB, threshold)
	metrics.RecordCandidatesScored(scored)
	metrics.RecordMatchesFound("pairwise", len(matches))
	metrics.ObserveMatchRun(time.Since(start).Seconds())
	return matches, nil
}

func (e *Engine) FindGroupMatches(ctx context.Context, status string, threshold float64) ([]models.MatchCandidate, error) {
	if len(e.params.Channels) < 2 {
		return nil, fmt.Errorf("%w: group matching needs at least two channels", ErrValidation)
	}
	start := time.Now()

	byChannel, err := e.loader.LoadByChannel(ctx, status, e.params.Channels)
	if err != nil {
		return nil, err
	}

	groups := e.groups.FindGroups(byChannel, e.params.Channels, e.params.BaseChannel, threshold)
	metrics.RecordMatchesFound("group", len(groups))
	metrics.ObserveMatchRun(time.Since(start).Seconds())
	return groups, nil
}

func (e *Engine) Merge(ctx context.Context, matches []models.MatchCandidate, actor string) (MergeSummary, error) {
	return e.merger.Merge(ctx, matches, actor)
}

func (e *Engine) Restore(ctx context.Context, removedProductID int, actor string) models.RestoreResult {
	return e.restorer.Restore(ctx, removedProductID, actor)
}

func (e *Engine) ReassociateLinks(ctx context.Context, restoredID int, linkIDs []int64) error {
	return e.restorer.ReassociateLinks(ctx, restoredID, linkIDs)
}

func (e *Engine) SaveProgress(state *ProgressState) error {
	return e.progress.Save(state)
}

func (e *Engine) LoadProgress() (*ProgressState, error) {
	return e.progress.Load()
}
