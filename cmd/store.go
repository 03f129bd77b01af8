package main

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/aerolane/airmesh/internal/engine"
	"github.com/aerolane/airmesh/internal/inventory"
)

// openStore opens the configured inventory backend and runs migrations.
func openStore(ctx context.Context) (inventory.Store, error) {
	st, err := inventory.Open(ctx, cfg.Inventory.Driver, cfg.Inventory.DatabaseURL, cfg.Inventory.Path)
	if err != nil {
		return nil, err
	}

	if err := st.Migrate(ctx); err != nil {
		st.Close() //nolint:errcheck
		return nil, eris.Wrap(err, "migrate inventory")
	}

	return st, nil
}

// loadEngine hydrates a fresh engine from the configured inventory. The
// store connection is released before returning; query commands work off
// the in-memory graph alone.
func loadEngine(ctx context.Context) (*engine.Engine, error) {
	st, err := openStore(ctx)
	if err != nil {
		return nil, err
	}
	defer st.Close() //nolint:errcheck

	eng := engine.New()
	if _, _, err := inventory.NewLoader(st).Populate(ctx, eng); err != nil {
		return nil, eris.Wrap(err, "populate engine")
	}

	return eng, nil
}
