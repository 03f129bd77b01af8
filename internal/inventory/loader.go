package inventory

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/aerolane/airmesh/internal/engine"
	"github.com/aerolane/airmesh/internal/model"
)

// Loader hydrates an engine from a store.
type Loader struct {
	store Store
}

// NewLoader returns a Loader reading from the given store.
func NewLoader(store Store) *Loader {
	return &Loader{store: store}
}

// Populate fetches nodes and edges concurrently and inserts them into the
// engine, nodes first so edge endpoints resolve. Returns the inserted
// counts. The engine is left with whatever landed before the first failure;
// callers wanting all-or-nothing should populate a fresh engine.
func (l *Loader) Populate(ctx context.Context, eng *engine.Engine) (int, int, error) {
	start := time.Now()

	var nodes []model.Node
	var edges []model.Edge

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		recs, err := l.store.ListNodes(gCtx)
		if err != nil {
			return err
		}
		nodes = recs
		return nil
	})
	g.Go(func() error {
		recs, err := l.store.ListEdges(gCtx)
		if err != nil {
			return err
		}
		edges = recs
		return nil
	})
	if err := g.Wait(); err != nil {
		return 0, 0, err
	}

	var nodeCount, edgeCount int
	for _, n := range nodes {
		if err := eng.AddNode(n); err != nil {
			return nodeCount, edgeCount, eris.Wrapf(err, "inventory: load node %s", n.UID)
		}
		nodeCount++
	}
	for _, e := range edges {
		if err := eng.AddEdge(e); err != nil {
			return nodeCount, edgeCount, eris.Wrapf(err, "inventory: load edge %s", e.ID())
		}
		edgeCount++
	}

	zap.L().Info("network loaded",
		zap.Int("nodes", nodeCount),
		zap.Int("edges", edgeCount),
		zap.Duration("duration", time.Since(start)),
	)

	return nodeCount, edgeCount, nil
}
