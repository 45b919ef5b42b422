package business

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"goinventory_api/internal/inventory/models"
	"goinventory_api/metrics"
	"goinventory_api/pkg/logger"
)

// SurvivorPolicy deterministically picks the index of the surviving member of
// a confirmed match. It must be a pure function of the members.
type SurvivorPolicy func(members []models.ListingRecord) int

// LowestIDSurvivor keeps the member with the lowest canonical product id, the
// oldest record under sequential id assignment.
func LowestIDSurvivor(members []models.ListingRecord) int {
	best := 0
	for i := range members {
		if members[i].ProductID < members[best].ProductID {
			best = i
		}
	}
	return best
}

// PreferChannelSurvivor keeps the member listed on the given channel, falling
// back to lowest id when no member is on it.
func PreferChannelSurvivor(channel string) SurvivorPolicy {
	return func(members []models.ListingRecord) int {
		for i := range members {
			if members[i].Channel == channel {
				return i
			}
		}
		return LowestIDSurvivor(members)
	}
}

// MergeSummary aggregates per-item outcomes of one merge run. Failures never
// propagate past their own transaction; they land here as counts.
type MergeSummary struct {
	RunID     string
	Processed int
	Merged    int
	Skipped   int
	Conflicts int
	Failed    int
}

// MergeExecutor consolidates confirmed matches into single canonical records.
// It operates only on reviewed matches, never on raw scorer output. Each match
// runs in its own unit of work so one failure cannot abort the others.
type MergeExecutor struct {
	uow      UnitOfWork
	survivor SurvivorPolicy
	limiter  *rate.Limiter
	log      logger.Logger
	now      func() time.Time
}

func NewMergeExecutor(uow UnitOfWork, survivor SurvivorPolicy, limiter *rate.Limiter, log logger.Logger) *MergeExecutor {
	return &MergeExecutor{
		uow:      uow,
		survivor: survivor,
		limiter:  limiter,
		log:      log,
		now:      time.Now,
	}
}

// Merge processes each confirmed match in isolation and returns the aggregated
// summary. The returned error is non-nil only when the run itself could not
// continue (context cancelled while pacing); per-match failures are counts.
func (e *MergeExecutor) Merge(ctx context.Context, matches []models.MatchCandidate, actor string) (MergeSummary, error) {
	if actor == "" {
		actor = "system"
	}
	summary := MergeSummary{RunID: uuid.NewString()}
	run := &metrics.MergeRunMetrics{}

	for i := range matches {
		if e.limiter != nil {
			if err := e.limiter.Wait(ctx); err != nil {
				return summary, fmt.Errorf("merge run %s interrupted: %w", summary.RunID, err)
			}
		}

		summary.Processed++
		run.ProcessedCount.Add(1)

		err := e.mergeOne(ctx, summary.RunID, &matches[i], actor)
		switch {
		case err == nil:
			summary.Merged++
			run.MergedCount.Add(1)
			metrics.RecordMerge("merged")
		case errors.Is(err, ErrValidation):
			summary.Skipped++
			run.SkippedCount.Add(1)
			metrics.RecordMerge("skipped")
			e.log.Log("match %s skipped: %v", matches[i].ID, err)
		case errors.Is(err, ErrMergeConflict):
			summary.Conflicts++
			run.ConflictCount.Add(1)
			metrics.RecordMerge("conflict")
			e.log.Log("match %s conflict: %v", matches[i].ID, err)
		default:
			summary.Failed++
			run.ErroredCount.Add(1)
			metrics.RecordMerge("failed")
			e.log.Log("match %s failed: %v", matches[i].ID, err)
		}
	}

	e.log.Log("merge run %s: %d processed, %d merged, %d skipped, %d conflicts, %d failed",
		summary.RunID, summary.Processed, summary.Merged, summary.Skipped,
		summary.Conflicts, summary.Failed)
	return summary, nil
}

func (e *MergeExecutor) mergeOne(ctx context.Context, runID string, match *models.MatchCandidate, actor string) error {
	if len(match.Members) < 2 {
		return fmt.Errorf("%w: match %s has %d members", ErrValidation, match.ID, len(match.Members))
	}

	survivorID := match.Members[e.survivor(match.Members)].ProductID

	removedIDs := distinctProductIDs(match.Members, survivorID)
	if len(removedIDs) == 0 {
		return fmt.Errorf("%w: match %s members all share product %d", ErrValidation, match.ID, survivorID)
	}

	return e.uow.WithinTx(ctx, func(tx RepositoryTx) error {
		// Lock every involved product in ascending id order so concurrent
		// runs touching the same products serialize instead of deadlocking.
		lockIDs := append([]int{survivorID}, removedIDs...)
		sort.Ints(lockIDs)
		for _, id := range lockIDs {
			if err := tx.LockProduct(ctx, id); err != nil {
				return err
			}
		}

		survivor, err := tx.Products().GetByID(ctx, survivorID)
		if err != nil {
			return err
		}
		if survivor == nil {
			return fmt.Errorf("%w: surviving product %d does not exist", ErrValidation, survivorID)
		}

		removed := make([]*models.CanonicalProduct, 0, len(removedIDs))
		for _, id := range removedIDs {
			p, err := tx.Products().GetByID(ctx, id)
			if err != nil {
				return err
			}
			if p == nil {
				// Already merged away; a second run over the same match must
				// not produce a second deletion or a second audit row.
				return fmt.Errorf("%w: product %d no longer exists", ErrValidation, id)
			}
			removed = append(removed, p)
		}

		// Relink the links directly involved in the match.
		for i := range match.Members {
			m := &match.Members[i]
			if m.ProductID == survivorID || m.LinkID == 0 {
				continue
			}
			if err := tx.Links().Relink(ctx, m.LinkID, survivorID); err != nil {
				return fmt.Errorf("%w: %v", ErrValidation, err)
			}
		}

		// Defensive sweep: any other link elsewhere still pointing at a
		// product being removed follows it to the survivor.
		for _, id := range removedIDs {
			if _, err := tx.Links().RelinkAll(ctx, id, survivorID); err != nil {
				return err
			}
		}

		// Archive before delete. The audit row must be durable before any
		// deletion can proceed.
		mergedAt := e.now().UTC()
		for _, p := range removed {
			data, err := json.Marshal(p)
			if err != nil {
				return fmt.Errorf("%w: snapshot product %d: %v", ErrPersistence, p.ID, err)
			}
			rec := &models.MergeRecord{
				RunID:           runID,
				KeptProductID:   survivorID,
				MergedProductID: p.ID,
				MergedData:      data,
				MergedAt:        mergedAt,
				MergedBy:        actor,
				Reason:          fmt.Sprintf("duplicate listing merge (confidence %.1f)", match.Confidence),
			}
			if err := tx.MergeLog().Append(ctx, rec); err != nil {
				return fmt.Errorf("%w: %v", ErrPersistence, err)
			}
		}

		// Safety check: delete only when nothing references the product
		// anymore. A nonzero count here means a race or incomplete
		// redirection; the product stays and the discrepancy is reported.
		var conflict error
		for _, id := range removedIDs {
			count, err := tx.Links().CountByProduct(ctx, id)
			if err != nil {
				return err
			}
			if count != 0 {
				conflict = fmt.Errorf("%w: product %d still has %d links", ErrMergeConflict, id, count)
				continue
			}
			if err := tx.Products().Delete(ctx, id); err != nil {
				return err
			}
		}
		return conflict
	})
}

func distinctProductIDs(members []models.ListingRecord, exclude int) []int {
	seen := map[int]bool{exclude: true}
	var ids []int
	for i := range members {
		id := members[i].ProductID
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)
	return ids
}
