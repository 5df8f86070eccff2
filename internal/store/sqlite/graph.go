// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/sigil-dev/graphcheck/internal/store"
	gcerr "github.com/sigil-dev/graphcheck/pkg/errors"
)

// Compile-time interface check.
var _ store.GraphStore = (*GraphStore)(nil)

// predicateType marks the triple that declares a node and its type. Edge
// triples carry the edge type as predicate and a non-empty rel_id.
const predicateType = "type"

// GraphStore implements store.GraphStore backed by SQLite, storing nodes and
// edges as RDF-style triples in a single table.
type GraphStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewGraphStore opens (or creates) a SQLite database at dbPath and initialises
// the triples table with SPO/POS/OSP indexes. An empty dbPath opens a private
// in-memory database.
func NewGraphStore(dbPath string) (*GraphStore, error) {
	dsn := dbPath + "?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on"
	if dbPath == "" {
		dsn = ":memory:"
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, gcerr.Errorf(gcerr.CodeStoreDatabaseFailure, "opening sqlite db: %w", err)
	}
	if dbPath == "" {
		// Every pooled connection to :memory: would see its own database.
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, gcerr.Errorf(gcerr.CodeStoreDatabaseFailure, "pinging sqlite db: %w", err)
	}

	if err := migrateGraph(db); err != nil {
		_ = db.Close()
		return nil, gcerr.Errorf(gcerr.CodeStoreDatabaseFailure, "migrating graph tables: %w", err)
	}

	return &GraphStore{db: db, logger: slog.Default()}, nil
}

func migrateGraph(db *sql.DB) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS triples (
	subject   TEXT NOT NULL,
	predicate TEXT NOT NULL,
	object    TEXT NOT NULL,
	rel_id    TEXT NOT NULL DEFAULT '',
	status    TEXT NOT NULL DEFAULT 'active',
	created   TEXT NOT NULL,
	UNIQUE(subject, predicate, object, rel_id)
);

CREATE INDEX IF NOT EXISTS idx_spo ON triples(subject, predicate, object);
CREATE INDEX IF NOT EXISTS idx_pos ON triples(predicate, object, subject);
CREATE INDEX IF NOT EXISTS idx_osp ON triples(object, subject, predicate);
CREATE INDEX IF NOT EXISTS idx_rel ON triples(rel_id);
`
	_, err := db.Exec(ddl)
	return err
}

// Close closes the underlying database connection.
func (g *GraphStore) Close() error {
	return g.db.Close()
}

func (g *GraphStore) CreateNode(ctx context.Context, typeName string) (string, error) {
	if err := store.ValidateNodeType(typeName); err != nil {
		return "", err
	}

	id := uuid.NewString()
	const q = `INSERT INTO triples (subject, predicate, object, rel_id, status, created)
VALUES (?, ?, ?, '', ?, ?)`
	if _, err := g.db.ExecContext(ctx, q, id, predicateType, typeName, string(store.NodeStatusActive), formatTime(time.Now())); err != nil {
		return "", gcerr.Errorf(gcerr.CodeStoreDatabaseFailure, "inserting node %s: %w", id, err)
	}
	return id, nil
}

func (g *GraphStore) CreateEdge(ctx context.Context, typeName, end1, end2 string) (string, error) {
	if err := store.ValidateEdge(typeName, end1, end2); err != nil {
		return "", err
	}

	tx, err := g.db.BeginTx(ctx, nil)
	if err != nil {
		return "", gcerr.Errorf(gcerr.CodeStoreDatabaseFailure, "beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, end := range []string{end1, end2} {
		n, err := getNode(ctx, tx, end)
		if err != nil {
			return "", err
		}
		if n.Status != store.NodeStatusActive {
			return "", store.NodeNotFound(end)
		}
	}

	id := uuid.NewString()
	const q = `INSERT INTO triples (subject, predicate, object, rel_id, status, created)
VALUES (?, ?, ?, ?, ?, ?)`
	if _, err := tx.ExecContext(ctx, q, end1, typeName, end2, id, string(store.NodeStatusActive), formatTime(time.Now())); err != nil {
		return "", gcerr.Errorf(gcerr.CodeStoreDatabaseFailure, "inserting edge %s: %w", id, err)
	}

	if err := tx.Commit(); err != nil {
		return "", gcerr.Errorf(gcerr.CodeStoreDatabaseFailure, "committing edge %s: %w", id, err)
	}
	return id, nil
}

// querier is satisfied by *sql.DB and *sql.Tx.
type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func getNode(ctx context.Context, q querier, id string) (*store.Node, error) {
	const stmt = `SELECT object, status, created FROM triples
WHERE subject = ? AND predicate = ? AND rel_id = ''`

	var typeName, status, created string
	err := q.QueryRowContext(ctx, stmt, id, predicateType).Scan(&typeName, &status, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.NodeNotFound(id)
	}
	if err != nil {
		return nil, gcerr.Errorf(gcerr.CodeStoreDatabaseFailure, "querying node %s: %w", id, err)
	}
	return &store.Node{
		ID:        id,
		Type:      typeName,
		Status:    store.NodeStatus(status),
		CreatedAt: parseTime(created),
	}, nil
}

func (g *GraphStore) GetNode(ctx context.Context, id string) (*store.Node, error) {
	return getNode(ctx, g.db, id)
}

// liveNode returns id if it exists and has not been soft-deleted.
func (g *GraphStore) liveNode(ctx context.Context, id string) (*store.Node, error) {
	n, err := g.GetNode(ctx, id)
	if err != nil {
		return nil, err
	}
	if n.Status != store.NodeStatusActive {
		return nil, store.NodeNotFound(id)
	}
	return n, nil
}

func (g *GraphStore) DeleteNode(ctx context.Context, typeName, id string) error {
	n, err := g.liveNode(ctx, id)
	if err != nil {
		return err
	}
	if err := store.CheckType(n, typeName); err != nil {
		return err
	}

	const q = `UPDATE triples SET status = ? WHERE subject = ? AND predicate = ? AND rel_id = ''`
	if _, err := g.db.ExecContext(ctx, q, string(store.NodeStatusDeleted), id, predicateType); err != nil {
		return gcerr.Errorf(gcerr.CodeStoreDatabaseFailure, "soft-deleting node %s: %w", id, err)
	}
	return nil
}

// PurgeNode removes the node triple and every edge triple touching it.
func (g *GraphStore) PurgeNode(ctx context.Context, typeName, id string) error {
	tx, err := g.db.BeginTx(ctx, nil)
	if err != nil {
		return gcerr.Errorf(gcerr.CodeStoreDatabaseFailure, "beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	n, err := getNode(ctx, tx, id)
	if err != nil {
		return err
	}
	if err := store.CheckType(n, typeName); err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM triples WHERE rel_id <> '' AND (subject = ? OR object = ?)`, id, id)
	if err != nil {
		return gcerr.Errorf(gcerr.CodeStoreDatabaseFailure, "purging edges of %s: %w", id, err)
	}
	edges, _ := res.RowsAffected()

	if _, err := tx.ExecContext(ctx, `DELETE FROM triples WHERE subject = ? AND predicate = ? AND rel_id = ''`, id, predicateType); err != nil {
		return gcerr.Errorf(gcerr.CodeStoreDatabaseFailure, "purging node %s: %w", id, err)
	}

	if err := tx.Commit(); err != nil {
		return gcerr.Errorf(gcerr.CodeStoreDatabaseFailure, "committing purge of %s: %w", id, err)
	}

	g.logger.Debug("purged node", "backend", "sqlite", "node_id", id, "edges", edges)
	return nil
}

// nodesByID loads the given nodes. Ids without a node triple are skipped.
func (g *GraphStore) nodesByID(ctx context.Context, ids []string) ([]*store.Node, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	q := `SELECT subject, object, status, created FROM triples
WHERE predicate = ? AND rel_id = '' AND subject IN (` + placeholders(len(ids)) + `)
ORDER BY subject`

	args := make([]any, 0, len(ids)+1)
	args = append(args, predicateType)
	for _, id := range ids {
		args = append(args, id)
	}

	rows, err := g.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, gcerr.Errorf(gcerr.CodeStoreDatabaseFailure, "querying nodes: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var nodes []*store.Node
	for rows.Next() {
		var n store.Node
		var status, created string
		if err := rows.Scan(&n.ID, &n.Type, &status, &created); err != nil {
			return nil, gcerr.Errorf(gcerr.CodeStoreDatabaseFailure, "scanning node: %w", err)
		}
		n.Status = store.NodeStatus(status)
		n.CreatedAt = parseTime(created)
		nodes = append(nodes, &n)
	}
	if err := rows.Err(); err != nil {
		return nil, gcerr.Errorf(gcerr.CodeStoreDatabaseFailure, "iterating nodes: %w", err)
	}
	return nodes, nil
}

// edgesTouching returns every edge triple with at least one end in ids.
func (g *GraphStore) edgesTouching(ctx context.Context, ids []string) ([]*store.Edge, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	ph := placeholders(len(ids))
	q := `SELECT rel_id, predicate, subject, object, created FROM triples
WHERE rel_id <> '' AND (subject IN (` + ph + `) OR object IN (` + ph + `))
ORDER BY rel_id`

	args := make([]any, 0, len(ids)*2)
	for _, id := range ids {
		args = append(args, id)
	}
	for _, id := range ids {
		args = append(args, id)
	}

	rows, err := g.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, gcerr.Errorf(gcerr.CodeStoreDatabaseFailure, "querying edges: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var edges []*store.Edge
	for rows.Next() {
		var e store.Edge
		var created string
		if err := rows.Scan(&e.ID, &e.Type, &e.End1, &e.End2, &created); err != nil {
			return nil, gcerr.Errorf(gcerr.CodeStoreDatabaseFailure, "scanning edge: %w", err)
		}
		e.CreatedAt = parseTime(created)
		edges = append(edges, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, gcerr.Errorf(gcerr.CodeStoreDatabaseFailure, "iterating edges: %w", err)
	}
	return edges, nil
}

func placeholders(n int) string {
	p := strings.Repeat("?,", n)
	return p[:len(p)-1]
}

// formatTime serialises a time.Time to RFC3339 with nanosecond precision.
func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

// parseTime deserialises a time string stored in the database.
func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		slog.Warn("unparseable timestamp in triples table", slog.String("value", s), slog.String("error", err.Error()))
	}
	return t
}
