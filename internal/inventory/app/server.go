package app

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"golang.org/x/time/rate"

	"goinventory_api/config"
	"goinventory_api/internal/inventory/business"
	"goinventory_api/internal/inventory/storage"
	"goinventory_api/migrations/infrastructure"
	"goinventory_api/migrations/inventory"
	"goinventory_api/pkg/business/service"
	"goinventory_api/pkg/dbconnect"
	"goinventory_api/pkg/dbconnect/migration"
	"goinventory_api/pkg/logger"
)

// InventoryServer wires the canonical store, the matching components and the
// merge/restore engines into one Engine facade.
type InventoryServer struct {
	dbconnect.Database
	cfg    *config.AppConfig
	log    logger.Logger
	writer io.Writer
	engine *business.Engine
}

func NewInventoryServer(connector dbconnect.Database, cfg *config.AppConfig, writer io.Writer) *InventoryServer {
	_log := logger.NewLogger(writer, "[InventoryServer]")
	return &InventoryServer{Database: connector, cfg: cfg, log: _log, writer: writer}
}

func (s *InventoryServer) Run(ctx context.Context) error {
	db, err := s.Connect()
	if err != nil {
		return fmt.Errorf("connecting to PostgreSQL: %w", err)
	}

	migrationApply := []migration.MigrationInterface{
		&infrastructure.MigrationsRegistry{},
		&inventory.CreateInventorySchema{},
		&inventory.CreateProductsTable{},
		&inventory.CreateChannelLinksTable{},
		&inventory.CreateChannelPricesTable{},
		&inventory.CreateMergeRecordsTable{},
	}
	for _, _migration := range migrationApply {
		if err := _migration.UpMigration(db); err != nil {
			log.Fatalf("Migration failed: %v", err)
		}
	}
	s.log.Log("inventory migrations applied successfully")

	text := service.NewTextService()
	scorer := business.NewScorer(text)
	loader := business.NewCandidateLoader(storage.NewListingSource(db), text)
	uow := storage.NewPgUnitOfWork(db)

	var survivor business.SurvivorPolicy
	switch s.cfg.Merge.SurvivorPolicy {
	case "prefer_channel":
		survivor = business.PreferChannelSurvivor(s.cfg.Merge.PreferChannel)
	default:
		survivor = business.LowestIDSurvivor
	}

	limiter := rate.NewLimiter(rate.Every(time.Minute/time.Duration(s.cfg.Merge.RatePerMinute)), 1)

	s.engine = business.NewEngine(
		business.EngineParams{
			Channels:    s.cfg.ChannelList,
			BaseChannel: s.cfg.Matching.BaseChannel,
		},
		loader,
		business.NewPairwiseFinder(scorer, text, logger.NewLogger(s.writer, "[PairwiseFinder]")),
		business.NewGroupFinder(scorer, logger.NewLogger(s.writer, "[GroupFinder]")),
		business.NewMergeExecutor(uow, survivor, limiter, logger.NewLogger(s.writer, "[MergeExecutor]")),
		business.NewRestoreEngine(uow, logger.NewLogger(s.writer, "[RestoreEngine]")),
		business.NewProgressStore(s.cfg.ProgressPath, s.log),
		s.log,
	)
	return nil
}

// Engine returns the wired facade; valid after Run.
func (s *InventoryServer) Engine() *business.Engine {
	return s.engine
}
