package business

import (
	"context"
	"errors"
	"fmt"

	"goinventory_api/internal/inventory/models"
	"goinventory_api/metrics"
	"goinventory_api/pkg/logger"
)

// errHalt stops a unit of work without signalling a real failure; the result
// was already decided before any write happened.
var errHalt = errors.New("halt")

// RestoreEngine reverses a merge: it re-creates a previously removed canonical
// product from its archived snapshot under the original id. Link
// re-association is a separate, explicit step — the engine cannot know which
// channel listings truly belonged to the restored item.
type RestoreEngine struct {
	uow UnitOfWork
	log logger.Logger
}

func NewRestoreEngine(uow UnitOfWork, log logger.Logger) *RestoreEngine {
	return &RestoreEngine{uow: uow, log: log}
}

func (e *RestoreEngine) Restore(ctx context.Context, removedProductID int, actor string) models.RestoreResult {
	var result models.RestoreResult

	err := e.uow.WithinTx(ctx, func(tx RepositoryTx) error {
		if err := tx.LockProduct(ctx, removedProductID); err != nil {
			return err
		}

		rec, err := tx.MergeLog().LatestByMergedProduct(ctx, removedProductID)
		if err != nil {
			return err
		}
		if rec == nil {
			result = models.RestoreResult{Status: models.RestoreStatusNoMergeHistory}
			return errHalt
		}
		snapshot, err := rec.Snapshot()
		if err != nil || snapshot == nil {
			result = models.RestoreResult{Status: models.RestoreStatusNoMergeHistory}
			return errHalt
		}

		existing, err := tx.Products().GetByID(ctx, removedProductID)
		if err != nil {
			return err
		}
		if existing != nil {
			// Restore never overwrites a live product.
			result = models.RestoreResult{Status: models.RestoreStatusAlreadyExists, KeptProductID: rec.KeptProductID}
			return errHalt
		}

		if err := tx.Products().Insert(ctx, snapshot); err != nil {
			return err
		}
		result = models.RestoreResult{
			Status:        models.RestoreStatusRestored,
			Product:       snapshot,
			KeptProductID: rec.KeptProductID,
		}
		return nil
	})
	if err != nil && !errors.Is(err, errHalt) {
		metrics.RecordRestore("failed")
		return models.RestoreResult{Status: models.RestoreStatusFailed, Err: err}
	}
	if result.Status != models.RestoreStatusRestored {
		metrics.RecordRestore(string(result.Status))
		return result
	}

	// The product is committed; enumerate the links that stayed on the
	// surviving product as candidates for re-association. A failure here must
	// not undo the restore, it only degrades the result.
	var links []models.ChannelLink
	err = e.uow.WithinTx(ctx, func(tx RepositoryTx) error {
		var lerr error
		links, lerr = tx.Links().ListByProduct(ctx, result.KeptProductID)
		return lerr
	})
	if err != nil {
		e.log.Log("product %d restored but link enumeration failed: %v", removedProductID, err)
		result.Status = models.RestoreStatusPartialFailure
		result.Err = err
		metrics.RecordRestore("partial_failure")
		return result
	}

	result.CandidateLinks = links
	e.log.Log("product %d restored by %s, %d candidate links on surviving product %d",
		removedProductID, actor, len(links), result.KeptProductID)
	metrics.RecordRestore("restored")
	return result
}

// ReassociateLinks moves the chosen links from the surviving product onto the
// restored one. Caller-driven: restore itself never reassigns links.
func (e *RestoreEngine) ReassociateLinks(ctx context.Context, restoredID int, linkIDs []int64) error {
	if len(linkIDs) == 0 {
		return nil
	}
	return e.uow.WithinTx(ctx, func(tx RepositoryTx) error {
		if err := tx.LockProduct(ctx, restoredID); err != nil {
			return err
		}
		product, err := tx.Products().GetByID(ctx, restoredID)
		if err != nil {
			return err
		}
		if product == nil {
			return fmt.Errorf("%w: product %d does not exist", ErrValidation, restoredID)
		}
		return tx.Links().RelinkMany(ctx, linkIDs, restoredID)
	})
}
