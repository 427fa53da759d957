package integrity

import (
	"context"
	"time"

	"lore-sync/core/lore"
	"lore-sync/feature/integrity/checks"

	"go.uber.org/zap"
)

// Service handles integrity checks.
type Service struct {
	remote      checks.Pinger
	store       lore.Store
	inspector   checks.SchemaInspector
	categories  []lore.Category
	pingTimeout time.Duration
	logger      *zap.Logger
}

// NewService creates a new integrity service.
func NewService(remote checks.Pinger, store lore.Store, inspector checks.SchemaInspector, categories []lore.Category, pingTimeout time.Duration, logger *zap.Logger) *Service {
	if len(categories) == 0 {
		categories = lore.AllCategories
	}
	return &Service{
		remote:      remote,
		store:       store,
		inspector:   inspector,
		categories:  categories,
		pingTimeout: pingTimeout,
		logger:      logger,
	}
}

// CheckRemote pings the remote store.
func (s *Service) CheckRemote(ctx context.Context) checks.RemoteReport {
	return checks.CheckRemote(ctx, s.remote, s.pingTimeout)
}

// CheckStructure returns the missing store locations.
func (s *Service) CheckStructure(ctx context.Context) ([]string, error) {
	return checks.CheckStructure(ctx, s.store, s.categories)
}

// FixStructure creates the missing store locations.
func (s *Service) FixStructure(ctx context.Context, missing []string) error {
	return checks.FixStructure(ctx, s.store, s.logger, missing)
}

// CheckRecords summarizes the local records of every category.
func (s *Service) CheckRecords(ctx context.Context) map[lore.Category]checks.RecordsReport {
	return checks.CheckRecords(ctx, s.store, s.categories)
}

// CheckSchema compares every remote table with its mapping.
func (s *Service) CheckSchema(ctx context.Context) *checks.SchemaReport {
	return checks.CheckSchema(ctx, s.inspector, s.categories)
}
