package inventory

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/aerolane/airmesh/internal/db"
	"github.com/aerolane/airmesh/internal/model"
)

// PostgresStore implements Store on a pgx pool.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// NewPostgres opens a connection pool and verifies connectivity.
func NewPostgres(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := db.Connect(ctx, databaseURL)
	if err != nil {
		return nil, err
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS nodes (
	uid        TEXT PRIMARY KEY,
	kind       TEXT NOT NULL DEFAULT 'other',
	status     TEXT NOT NULL DEFAULT 'active',
	latitude   DOUBLE PRECISION NOT NULL,
	longitude  DOUBLE PRECISION NOT NULL,
	altitude_m DOUBLE PRECISION,
	metadata   JSONB,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS edges (
	source       TEXT NOT NULL REFERENCES nodes(uid) ON DELETE CASCADE,
	target       TEXT NOT NULL REFERENCES nodes(uid) ON DELETE CASCADE,
	weight       DOUBLE PRECISION,
	rule         TEXT,
	zone         TEXT,
	valid_from   TIMESTAMPTZ,
	valid_until  TIMESTAMPTZ,
	span_seconds BIGINT,
	updated_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (source, target)
);

CREATE INDEX IF NOT EXISTS idx_nodes_kind ON nodes(kind);
CREATE INDEX IF NOT EXISTS idx_nodes_status ON nodes(status);
CREATE INDEX IF NOT EXISTS idx_edges_source ON edges(source);
CREATE INDEX IF NOT EXISTS idx_edges_target ON edges(target);
`

var (
	nodeColumns = []string{"uid", "kind", "status", "latitude", "longitude", "altitude_m", "metadata", "updated_at"}
	edgeColumns = []string{"source", "target", "weight", "rule", "zone", "valid_from", "valid_until", "span_seconds", "updated_at"}
)

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, "SELECT 1")
	return eris.Wrap(err, "postgres: ping")
}

func (s *PostgresStore) ListNodes(ctx context.Context) ([]model.Node, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT uid, kind, status, latitude, longitude, altitude_m, metadata FROM nodes ORDER BY uid`,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list nodes")
	}
	defer rows.Close()

	var nodes []model.Node
	for rows.Next() {
		var n model.Node
		var alt *float64
		var meta []byte

		if err := rows.Scan(&n.UID, &n.Kind, &n.Status, &n.Position.Latitude, &n.Position.Longitude, &alt, &meta); err != nil {
			return nil, eris.Wrap(err, "postgres: scan node")
		}
		n.Position.AltitudeMeters = alt
		n.Metadata = meta
		nodes = append(nodes, n)
	}
	return nodes, eris.Wrap(rows.Err(), "postgres: list nodes iterate")
}

func (s *PostgresStore) ListEdges(ctx context.Context) ([]model.Edge, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT source, target, weight, rule, zone, valid_from, valid_until, span_seconds FROM edges ORDER BY source, target`,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list edges")
	}
	defer rows.Close()

	var edges []model.Edge
	for rows.Next() {
		var e model.Edge
		var rule, zone *string
		var validFrom, validUntil *time.Time
		var spanSeconds *int64

		if err := rows.Scan(&e.Source, &e.Target, &e.Weight, &rule, &zone, &validFrom, &validUntil, &spanSeconds); err != nil {
			return nil, eris.Wrap(err, "postgres: scan edge")
		}

		w, err := compileWindow(e.Source, e.Target, rule, zone, validFrom, validUntil, spanSeconds)
		if err != nil {
			return nil, err
		}
		e.Window = w
		edges = append(edges, e)
	}
	return edges, eris.Wrap(rows.Err(), "postgres: list edges iterate")
}

func (s *PostgresStore) UpsertNodes(ctx context.Context, nodes []model.Node) (int64, error) {
	rows := make([][]any, 0, len(nodes))
	now := time.Now().UTC()
	for _, n := range nodes {
		rows = append(rows, nodeRow(n, now))
	}

	return db.BulkUpsert(ctx, s.pool, db.UpsertConfig{
		Table:        "nodes",
		Columns:      nodeColumns,
		ConflictKeys: []string{"uid"},
	}, rows)
}

func (s *PostgresStore) UpsertEdges(ctx context.Context, edges []model.Edge) (int64, error) {
	rows := make([][]any, 0, len(edges))
	now := time.Now().UTC()
	for _, e := range edges {
		rows = append(rows, edgeRow(e, now))
	}

	return db.BulkUpsert(ctx, s.pool, db.UpsertConfig{
		Table:        "edges",
		Columns:      edgeColumns,
		ConflictKeys: []string{"source", "target"},
	}, rows)
}

// SeedNodes bulk-loads nodes over the COPY protocol. The table must not
// already hold any of the UIDs; use after DeleteAll.
func (s *PostgresStore) SeedNodes(ctx context.Context, nodes []model.Node) (int64, error) {
	rows := make([][]any, 0, len(nodes))
	now := time.Now().UTC()
	for _, n := range nodes {
		rows = append(rows, nodeRow(n, now))
	}
	return db.CopyFrom(ctx, s.pool, "nodes", nodeColumns, rows)
}

// SeedEdges bulk-loads edges over the COPY protocol. Nodes must land first.
func (s *PostgresStore) SeedEdges(ctx context.Context, edges []model.Edge) (int64, error) {
	rows := make([][]any, 0, len(edges))
	now := time.Now().UTC()
	for _, e := range edges {
		rows = append(rows, edgeRow(e, now))
	}
	return db.CopyFrom(ctx, s.pool, "edges", edgeColumns, rows)
}

func (s *PostgresStore) DeleteAll(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, "TRUNCATE edges, nodes")
	return eris.Wrap(err, "postgres: delete all")
}

func nodeRow(n model.Node, now time.Time) []any {
	var meta any
	if len(n.Metadata) > 0 {
		meta = []byte(n.Metadata)
	}
	return []any{n.UID, string(n.Kind), string(n.Status), n.Position.Latitude, n.Position.Longitude, n.Position.AltitudeMeters, meta, now}
}

func edgeRow(e model.Edge, now time.Time) []any {
	row := []any{e.Source, e.Target, e.Weight, nil, nil, nil, nil, nil, now}
	if w := e.Window; w != nil {
		row[3] = w.Rule()
		row[4] = w.Zone()
		row[5] = w.ValidFrom().UTC()
		if !w.ValidUntil().IsZero() {
			row[6] = w.ValidUntil().UTC()
		}
		row[7] = int64(w.Span() / time.Second)
	}
	return row
}
