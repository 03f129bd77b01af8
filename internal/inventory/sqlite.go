package inventory

import (
	"context"
	"database/sql"
	"time"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/aerolane/airmesh/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS nodes (
	uid        TEXT PRIMARY KEY,
	kind       TEXT NOT NULL DEFAULT 'other',
	status     TEXT NOT NULL DEFAULT 'active',
	latitude   REAL NOT NULL,
	longitude  REAL NOT NULL,
	altitude_m REAL,
	metadata   TEXT,
	updated_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS edges (
	source       TEXT NOT NULL REFERENCES nodes(uid),
	target       TEXT NOT NULL REFERENCES nodes(uid),
	weight       REAL,
	rule         TEXT,
	zone         TEXT,
	valid_from   DATETIME,
	valid_until  DATETIME,
	span_seconds INTEGER,
	updated_at   DATETIME NOT NULL DEFAULT (datetime('now')),
	PRIMARY KEY (source, target)
);

CREATE INDEX IF NOT EXISTS idx_nodes_kind ON nodes(kind);
CREATE INDEX IF NOT EXISTS idx_nodes_status ON nodes(status);
CREATE INDEX IF NOT EXISTS idx_edges_source ON edges(source);
CREATE INDEX IF NOT EXISTS idx_edges_target ON edges(target);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) ListNodes(ctx context.Context) ([]model.Node, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT uid, kind, status, latitude, longitude, altitude_m, metadata FROM nodes ORDER BY uid`,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list nodes")
	}
	defer rows.Close()

	var nodes []model.Node
	for rows.Next() {
		var n model.Node
		var alt *float64
		var meta *string

		if err := rows.Scan(&n.UID, &n.Kind, &n.Status, &n.Position.Latitude, &n.Position.Longitude, &alt, &meta); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan node")
		}
		n.Position.AltitudeMeters = alt
		if meta != nil {
			n.Metadata = []byte(*meta)
		}
		nodes = append(nodes, n)
	}
	return nodes, eris.Wrap(rows.Err(), "sqlite: list nodes iterate")
}

func (s *SQLiteStore) ListEdges(ctx context.Context) ([]model.Edge, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT source, target, weight, rule, zone, valid_from, valid_until, span_seconds FROM edges ORDER BY source, target`,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list edges")
	}
	defer rows.Close()

	var edges []model.Edge
	for rows.Next() {
		var e model.Edge
		var rule, zone *string
		var validFrom, validUntil *time.Time
		var spanSeconds *int64

		if err := rows.Scan(&e.Source, &e.Target, &e.Weight, &rule, &zone, &validFrom, &validUntil, &spanSeconds); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan edge")
		}

		w, err := compileWindow(e.Source, e.Target, rule, zone, validFrom, validUntil, spanSeconds)
		if err != nil {
			return nil, err
		}
		e.Window = w
		edges = append(edges, e)
	}
	return edges, eris.Wrap(rows.Err(), "sqlite: list edges iterate")
}

func (s *SQLiteStore) UpsertNodes(ctx context.Context, nodes []model.Node) (int64, error) {
	if len(nodes) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: begin tx")
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO nodes (uid, kind, status, latitude, longitude, altitude_m, metadata, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(uid) DO UPDATE SET
			kind = excluded.kind, status = excluded.status,
			latitude = excluded.latitude, longitude = excluded.longitude,
			altitude_m = excluded.altitude_m, metadata = excluded.metadata,
			updated_at = excluded.updated_at`,
	)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: prepare upsert nodes")
	}
	defer stmt.Close()

	now := time.Now().UTC()
	var count int64
	for _, n := range nodes {
		var meta any
		if len(n.Metadata) > 0 {
			meta = string(n.Metadata)
		}
		if _, err := stmt.ExecContext(ctx,
			n.UID, string(n.Kind), string(n.Status),
			n.Position.Latitude, n.Position.Longitude, n.Position.AltitudeMeters,
			meta, now,
		); err != nil {
			return 0, eris.Wrapf(err, "sqlite: upsert node %s", n.UID)
		}
		count++
	}

	if err := tx.Commit(); err != nil {
		return 0, eris.Wrap(err, "sqlite: commit upsert nodes")
	}
	return count, nil
}

func (s *SQLiteStore) UpsertEdges(ctx context.Context, edges []model.Edge) (int64, error) {
	if len(edges) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: begin tx")
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO edges (source, target, weight, rule, zone, valid_from, valid_until, span_seconds, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(source, target) DO UPDATE SET
			weight = excluded.weight, rule = excluded.rule, zone = excluded.zone,
			valid_from = excluded.valid_from, valid_until = excluded.valid_until,
			span_seconds = excluded.span_seconds, updated_at = excluded.updated_at`,
	)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: prepare upsert edges")
	}
	defer stmt.Close()

	now := time.Now().UTC()
	var count int64
	for _, e := range edges {
		var rule, zone any
		var validFrom, validUntil any
		var spanSeconds any
		if w := e.Window; w != nil {
			rule = w.Rule()
			zone = w.Zone()
			validFrom = w.ValidFrom().UTC()
			if !w.ValidUntil().IsZero() {
				validUntil = w.ValidUntil().UTC()
			}
			spanSeconds = int64(w.Span() / time.Second)
		}
		if _, err := stmt.ExecContext(ctx,
			e.Source, e.Target, e.Weight,
			rule, zone, validFrom, validUntil, spanSeconds, now,
		); err != nil {
			return 0, eris.Wrapf(err, "sqlite: upsert edge %s", e.ID())
		}
		count++
	}

	if err := tx.Commit(); err != nil {
		return 0, eris.Wrap(err, "sqlite: commit upsert edges")
	}
	return count, nil
}

func (s *SQLiteStore) DeleteAll(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM edges`); err != nil {
		return eris.Wrap(err, "sqlite: delete edges")
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM nodes`); err != nil {
		return eris.Wrap(err, "sqlite: delete nodes")
	}
	return nil
}
