package checks

import (
	"context"
	"fmt"

	"lore-sync/core/lore"

	"go.uber.org/zap"
)

// CheckStructure returns the category locations missing from the store.
// Stores without a layout report nothing missing.
func CheckStructure(ctx context.Context, store lore.Store, categories []lore.Category) ([]string, error) {
	checker, ok := store.(lore.LayoutChecker)
	if !ok {
		return []string{}, nil
	}
	missing, err := checker.MissingLayout(ctx, categories)
	if err != nil {
		return nil, fmt.Errorf("failed to check layout: %w", err)
	}
	if missing == nil {
		missing = []string{}
	}
	return missing, nil
}

// FixStructure creates the missing locations.
func FixStructure(ctx context.Context, store lore.Store, logger *zap.Logger, missing []string) error {
	checker, ok := store.(lore.LayoutChecker)
	if !ok || len(missing) == 0 {
		return nil
	}
	if err := checker.FixLayout(ctx, missing); err != nil {
		logger.Error("Failed to create layout", zap.Strings("missing", missing), zap.Error(err))
		return err
	}
	logger.Info("Created missing layout", zap.Strings("created", missing))
	return nil
}
