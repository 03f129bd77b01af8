// Package inventory persists the network outside the engine. It provides a
// Store interface with Postgres and SQLite drivers, a Loader that hydrates
// an engine from a store, a YAML network-file codec, a shapefile site
// importer, and an XLSX exporter.
package inventory

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/aerolane/airmesh/internal/model"
	"github.com/aerolane/airmesh/internal/schedule"
)

// Store is the persistence interface for the network inventory.
type Store interface {
	ListNodes(ctx context.Context) ([]model.Node, error)
	ListEdges(ctx context.Context) ([]model.Edge, error)
	UpsertNodes(ctx context.Context, nodes []model.Node) (int64, error)
	UpsertEdges(ctx context.Context, edges []model.Edge) (int64, error)
	DeleteAll(ctx context.Context) error

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// Seeder is the optional fast path for loading a network into freshly
// wiped tables. The Postgres driver implements it with the COPY protocol;
// drivers without a bulk path fall back to plain upserts in Replace.
type Seeder interface {
	SeedNodes(ctx context.Context, nodes []model.Node) (int64, error)
	SeedEdges(ctx context.Context, edges []model.Edge) (int64, error)
}

// Open selects a driver by name. postgres takes a connection URL, sqlite a
// file path.
func Open(ctx context.Context, driver, databaseURL, path string) (Store, error) {
	switch driver {
	case "postgres":
		return NewPostgres(ctx, databaseURL)
	case "sqlite":
		return NewSQLite(path)
	default:
		return nil, eris.Errorf("inventory: unknown driver %q", driver)
	}
}

// Replace wipes the store and writes the given network, preferring the COPY
// seed path when the driver offers one. Nodes land before edges so foreign
// keys hold.
func Replace(ctx context.Context, st Store, nodes []model.Node, edges []model.Edge) error {
	if err := st.DeleteAll(ctx); err != nil {
		return err
	}

	if seeder, ok := st.(Seeder); ok {
		if _, err := seeder.SeedNodes(ctx, nodes); err != nil {
			return err
		}
		_, err := seeder.SeedEdges(ctx, edges)
		return err
	}

	if _, err := st.UpsertNodes(ctx, nodes); err != nil {
		return err
	}
	_, err := st.UpsertEdges(ctx, edges)
	return err
}

// compileWindow rebuilds a schedule window from its stored columns. A nil
// rule means the edge has no window.
func compileWindow(source, target string, rule, zone *string, validFrom, validUntil *time.Time, spanSeconds *int64) (*schedule.Window, error) {
	if rule == nil || *rule == "" {
		return nil, nil
	}

	z := "UTC"
	if zone != nil && *zone != "" {
		z = *zone
	}
	if validFrom == nil || spanSeconds == nil {
		return nil, eris.Errorf("inventory: edge %s->%s has a rule but no validity start or span", source, target)
	}

	var until time.Time
	if validUntil != nil {
		until = *validUntil
	}

	w, err := schedule.New(*rule, z, *validFrom, until, time.Duration(*spanSeconds)*time.Second)
	if err != nil {
		return nil, eris.Wrapf(err, "inventory: edge %s->%s window", source, target)
	}
	return w, nil
}
