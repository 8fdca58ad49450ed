package builddb

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"mercator-hq/anvil/pkg/buildfile"
)

// DB persists parsed build graphs into a SQLite database. Each call
// to SaveSnapshot stores one immutable snapshot of a graph under a
// fresh id; snapshots are never updated in place.
type DB struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
}

// Snapshot summarizes one stored build graph.
type Snapshot struct {
	ID         string
	SourceFile string
	ClientName string
	CreatedAt  time.Time
	NumTools   int
	NumNodes   int
	NumTargets int
	NumTasks   int
}

// TaskRecord is one stored task with its resolved edges.
type TaskRecord struct {
	Name    string
	Tool    string
	Inputs  []string
	Outputs []string
}

// NodeRecord is one stored node.
type NodeRecord struct {
	Name       string
	IsImplicit bool
}

// Open opens (creating if needed) the snapshot database at the given
// path.
func Open(path string) (*DB, error) {
	if path == "" {
		return nil, fmt.Errorf("db path cannot be empty")
	}

	// WAL mode for concurrent readers; SQLite supports a single writer.
	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	d := &DB{
		db:     db,
		path:   path,
		logger: slog.Default().With("component", "builddb"),
	}

	if err := d.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return d, nil
}

// Close closes the underlying database.
func (d *DB) Close() error {
	return d.db.Close()
}

// initSchema creates the database schema if it doesn't exist.
func (d *DB) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS snapshots (
		id TEXT PRIMARY KEY,
		source_file TEXT NOT NULL,
		client_name TEXT NOT NULL DEFAULT '',
		created_at INTEGER NOT NULL,
		num_tools INTEGER NOT NULL,
		num_nodes INTEGER NOT NULL,
		num_targets INTEGER NOT NULL,
		num_tasks INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS snapshot_nodes (
		snapshot_id TEXT NOT NULL,
		name TEXT NOT NULL,
		is_implicit INTEGER NOT NULL,
		PRIMARY KEY (snapshot_id, name)
	);

	CREATE TABLE IF NOT EXISTS snapshot_targets (
		snapshot_id TEXT NOT NULL,
		name TEXT NOT NULL,
		node_names TEXT NOT NULL,
		PRIMARY KEY (snapshot_id, name)
	);

	CREATE TABLE IF NOT EXISTS snapshot_tasks (
		snapshot_id TEXT NOT NULL,
		name TEXT NOT NULL,
		tool TEXT NOT NULL DEFAULT '',
		inputs TEXT NOT NULL DEFAULT '[]',
		outputs TEXT NOT NULL DEFAULT '[]',
		attributes TEXT NOT NULL DEFAULT '[]',
		PRIMARY KEY (snapshot_id, name)
	);

	CREATE TABLE IF NOT EXISTS snapshot_tools (
		snapshot_id TEXT NOT NULL,
		name TEXT NOT NULL,
		PRIMARY KEY (snapshot_id, name)
	);

	CREATE INDEX IF NOT EXISTS idx_snapshots_created_at ON snapshots(created_at);
	`

	_, err := d.db.Exec(schema)
	return err
}

// SaveSnapshot stores the build graph owned by a successfully loaded
// build file and returns the new snapshot id. Tasks implementing
// buildfile.TaskInfo are stored with their tool and edges; opaque
// tasks are stored by name only.
func (d *DB) SaveSnapshot(ctx context.Context, bf *buildfile.BuildFile, clientName string) (string, error) {
	id := uuid.New().String()
	now := time.Now()

	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO snapshots (id, source_file, client_name, created_at, num_tools, num_nodes, num_targets, num_tasks)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, bf.Filename(), clientName, now.Unix(),
		len(bf.Tools()), len(bf.Nodes()), len(bf.Targets()), len(bf.Tasks()))
	if err != nil {
		return "", fmt.Errorf("failed to insert snapshot: %w", err)
	}

	for _, name := range sortedKeys(bf.Tools()) {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO snapshot_tools (snapshot_id, name) VALUES (?, ?)`,
			id, name); err != nil {
			return "", fmt.Errorf("failed to insert tool %q: %w", name, err)
		}
	}

	for _, name := range sortedKeys(bf.Nodes()) {
		node := bf.Nodes()[name]
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO snapshot_nodes (snapshot_id, name, is_implicit) VALUES (?, ?, ?)`,
			id, name, node.IsImplicit()); err != nil {
			return "", fmt.Errorf("failed to insert node %q: %w", name, err)
		}
	}

	for _, name := range sortedKeys(bf.Targets()) {
		names, err := json.Marshal(bf.Targets()[name].NodeNames())
		if err != nil {
			return "", fmt.Errorf("failed to marshal target %q: %w", name, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO snapshot_targets (snapshot_id, name, node_names) VALUES (?, ?, ?)`,
			id, name, string(names)); err != nil {
			return "", fmt.Errorf("failed to insert target %q: %w", name, err)
		}
	}

	for _, name := range sortedKeys(bf.Tasks()) {
		task := bf.Tasks()[name]
		tool := ""
		inputs, outputs := []string{}, []string{}
		attrs := []buildfile.Property{}

		if info, ok := task.(buildfile.TaskInfo); ok {
			tool = info.ToolName()
			inputs = nodeNames(info.Inputs())
			outputs = nodeNames(info.Outputs())
			attrs = info.Attributes()
		}

		inputsJSON, err := json.Marshal(inputs)
		if err != nil {
			return "", fmt.Errorf("failed to marshal task %q inputs: %w", name, err)
		}
		outputsJSON, err := json.Marshal(outputs)
		if err != nil {
			return "", fmt.Errorf("failed to marshal task %q outputs: %w", name, err)
		}
		attrsJSON, err := json.Marshal(attrs)
		if err != nil {
			return "", fmt.Errorf("failed to marshal task %q attributes: %w", name, err)
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO snapshot_tasks (snapshot_id, name, tool, inputs, outputs, attributes)
			VALUES (?, ?, ?, ?, ?, ?)`,
			id, name, tool, string(inputsJSON), string(outputsJSON), string(attrsJSON)); err != nil {
			return "", fmt.Errorf("failed to insert task %q: %w", name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit snapshot: %w", err)
	}

	d.logger.Info("saved build graph snapshot",
		"id", id,
		"source", bf.Filename(),
		"tasks", len(bf.Tasks()),
	)

	return id, nil
}

// Snapshots lists all stored snapshots, newest first.
func (d *DB) Snapshots(ctx context.Context) ([]Snapshot, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT id, source_file, client_name, created_at, num_tools, num_nodes, num_targets, num_tasks
		FROM snapshots
		ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}
	defer rows.Close()

	var snapshots []Snapshot
	for rows.Next() {
		var s Snapshot
		var createdAt int64
		if err := rows.Scan(&s.ID, &s.SourceFile, &s.ClientName, &createdAt,
			&s.NumTools, &s.NumNodes, &s.NumTargets, &s.NumTasks); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		s.CreatedAt = time.Unix(createdAt, 0)
		snapshots = append(snapshots, s)
	}

	return snapshots, rows.Err()
}

// Tasks lists the stored tasks of one snapshot in name order.
func (d *DB) Tasks(ctx context.Context, snapshotID string) ([]TaskRecord, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT name, tool, inputs, outputs
		FROM snapshot_tasks
		WHERE snapshot_id = ?
		ORDER BY name`, snapshotID)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer rows.Close()

	var tasks []TaskRecord
	for rows.Next() {
		var t TaskRecord
		var inputs, outputs string
		if err := rows.Scan(&t.Name, &t.Tool, &inputs, &outputs); err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		if err := json.Unmarshal([]byte(inputs), &t.Inputs); err != nil {
			return nil, fmt.Errorf("failed to unmarshal task %q inputs: %w", t.Name, err)
		}
		if err := json.Unmarshal([]byte(outputs), &t.Outputs); err != nil {
			return nil, fmt.Errorf("failed to unmarshal task %q outputs: %w", t.Name, err)
		}
		tasks = append(tasks, t)
	}

	return tasks, rows.Err()
}

// Nodes lists the stored nodes of one snapshot in name order.
func (d *DB) Nodes(ctx context.Context, snapshotID string) ([]NodeRecord, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT name, is_implicit
		FROM snapshot_nodes
		WHERE snapshot_id = ?
		ORDER BY name`, snapshotID)
	if err != nil {
		return nil, fmt.Errorf("failed to query nodes: %w", err)
	}
	defer rows.Close()

	var nodes []NodeRecord
	for rows.Next() {
		var n NodeRecord
		if err := rows.Scan(&n.Name, &n.IsImplicit); err != nil {
			return nil, fmt.Errorf("failed to scan node: %w", err)
		}
		nodes = append(nodes, n)
	}

	return nodes, rows.Err()
}

func nodeNames(nodes []buildfile.Node) []string {
	names := make([]string, 0, len(nodes))
	for _, n := range nodes {
		names = append(names, n.Name())
	}
	return names
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
