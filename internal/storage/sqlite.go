// Package storage provides SQLite-based persistence for game replays.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/cubefall/internal/core"
	"github.com/vovakirdan/cubefall/internal/engine"
	"github.com/vovakirdan/cubefall/internal/replay"
)

// ErrNotFound is returned when a replay ID does not exist.
var ErrNotFound = errors.New("storage: replay not found")

// Store manages the SQLite database connection for replay persistence.
type Store struct {
	db *sql.DB
}

// Summary is a replay row without its command stream.
type Summary struct {
	ID        int64
	Seed      int64
	Score     int
	Level     int
	Lines     int
	Pieces    int
	Reason    string
	Duration  time.Duration
	Commands  int
	CreatedAt time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	dbPath, err := ExpandHome(dbPath)
	if err != nil {
		return nil, err
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	// One connection serializes writers from concurrent sessions
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) (string, error) {
	if path == "" || path[0] != '~' {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("storage: cannot expand home directory: %w", err)
	}
	return filepath.Join(home, path[1:]), nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		PRAGMA foreign_keys = ON;

		CREATE TABLE IF NOT EXISTS replays (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			seed INTEGER NOT NULL,
			grid_rows INTEGER NOT NULL,
			grid_cols INTEGER NOT NULL,
			grid_depth INTEGER NOT NULL,
			layer_points TEXT NOT NULL,
			lines_per_level INTEGER NOT NULL,
			base_interval_ms INTEGER NOT NULL,
			interval_step_ms INTEGER NOT NULL,
			min_interval_ms INTEGER NOT NULL,
			score INTEGER NOT NULL DEFAULT 0,
			level INTEGER NOT NULL DEFAULT 1,
			lines INTEGER NOT NULL DEFAULT 0,
			pieces INTEGER NOT NULL DEFAULT 0,
			end_reason TEXT NOT NULL,
			duration_ms INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_replays_created ON replays(created_at DESC);

		CREATE TABLE IF NOT EXISTS replay_commands (
			replay_id INTEGER NOT NULL REFERENCES replays(id) ON DELETE CASCADE,
			seq INTEGER NOT NULL,
			kind TEXT NOT NULL,
			dx INTEGER NOT NULL DEFAULT 0,
			dy INTEGER NOT NULL DEFAULT 0,
			dz INTEGER NOT NULL DEFAULT 0,
			axis INTEGER NOT NULL DEFAULT 0,
			degrees INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (replay_id, seq)
		);

		CREATE TABLE IF NOT EXISTS replay_shapes (
			replay_id INTEGER NOT NULL REFERENCES replays(id) ON DELETE CASCADE,
			seq INTEGER NOT NULL,
			name TEXT NOT NULL,
			color INTEGER NOT NULL,
			blocks TEXT NOT NULL,
			PRIMARY KEY (replay_id, seq)
		);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveReplay stores a replay and its commands in one transaction.
// Returns the ID of the inserted replay.
func (s *Store) SaveReplay(r replay.Replay) (int64, error) {
	createdAt := r.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // No-op after commit

	res, err := tx.Exec(
		`INSERT INTO replays
		 (seed, grid_rows, grid_cols, grid_depth, layer_points, lines_per_level,
		  base_interval_ms, interval_step_ms, min_interval_ms,
		  score, level, lines, pieces, end_reason, duration_ms, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.Seed, r.Rows, r.Cols, r.Depth,
		encodePoints(r.Rules.LayerPoints), r.Rules.LinesPerLevel,
		r.Rules.BaseInterval.Milliseconds(),
		r.Rules.IntervalStep.Milliseconds(),
		r.Rules.MinInterval.Milliseconds(),
		r.Score, r.Level, r.Lines, r.Pieces, r.Reason,
		r.Duration.Milliseconds(),
		createdAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save replay: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	stmt, err := tx.Prepare(
		`INSERT INTO replay_commands (replay_id, seq, kind, dx, dy, dz, axis, degrees)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot prepare command insert: %w", err)
	}
	defer stmt.Close()

	for i, c := range r.Commands {
		if _, err := stmt.Exec(id, i, c.Kind.String(), c.Delta.X, c.Delta.Y, c.Delta.Z, int(c.Axis), c.Degrees); err != nil {
			return 0, fmt.Errorf("storage: cannot save command %d: %w", i, err)
		}
	}

	// No rows means the standard catalog
	for i, a := range r.Catalog {
		if _, err := tx.Exec(
			`INSERT INTO replay_shapes (replay_id, seq, name, color, blocks) VALUES (?, ?, ?, ?, ?)`,
			id, i, a.Name, int64(a.Shape.Color), encodeBlocks(a.Shape.Blocks),
		); err != nil {
			return 0, fmt.Errorf("storage: cannot save shape %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("storage: cannot commit replay: %w", err)
	}
	return id, nil
}

// Replay loads a replay with its full command stream.
func (s *Store) Replay(id int64) (replay.Replay, error) {
	var (
		r                     replay.Replay
		points                string
		baseMs, stepMs, minMs int64
		durationMs            int64
		createdAt             any
	)

	err := s.db.QueryRow(
		`SELECT id, seed, grid_rows, grid_cols, grid_depth, layer_points, lines_per_level,
		        base_interval_ms, interval_step_ms, min_interval_ms,
		        score, level, lines, pieces, end_reason, duration_ms, created_at
		 FROM replays
		 WHERE id = ?`,
		id,
	).Scan(
		&r.ID, &r.Seed, &r.Rows, &r.Cols, &r.Depth, &points, &r.Rules.LinesPerLevel,
		&baseMs, &stepMs, &minMs,
		&r.Score, &r.Level, &r.Lines, &r.Pieces, &r.Reason, &durationMs, &createdAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return replay.Replay{}, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	if err != nil {
		return replay.Replay{}, fmt.Errorf("storage: cannot query replay: %w", err)
	}

	r.Rules.LayerPoints, err = decodePoints(points)
	if err != nil {
		return replay.Replay{}, err
	}
	r.Rules.BaseInterval = time.Duration(baseMs) * time.Millisecond
	r.Rules.IntervalStep = time.Duration(stepMs) * time.Millisecond
	r.Rules.MinInterval = time.Duration(minMs) * time.Millisecond
	r.Duration = time.Duration(durationMs) * time.Millisecond
	r.CreatedAt = parseTime(createdAt)

	r.Catalog, err = s.catalog(id)
	if err != nil {
		return replay.Replay{}, err
	}
	r.Commands, err = s.commands(id)
	if err != nil {
		return replay.Replay{}, err
	}
	return r, nil
}

func (s *Store) catalog(id int64) ([]engine.Archetype, error) {
	rows, err := s.db.Query(
		`SELECT name, color, blocks FROM replay_shapes WHERE replay_id = ? ORDER BY seq`,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query shapes: %w", err)
	}
	defer rows.Close()

	var cat []engine.Archetype
	for rows.Next() {
		var (
			a      engine.Archetype
			color  int64
			blocks string
		)
		if err := rows.Scan(&a.Name, &color, &blocks); err != nil {
			return nil, fmt.Errorf("storage: cannot scan shape: %w", err)
		}
		a.Shape.Color = core.Color(color)
		if a.Shape.Blocks, err = decodeBlocks(blocks); err != nil {
			return nil, err
		}
		cat = append(cat, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return cat, nil
}

func (s *Store) commands(id int64) ([]engine.Command, error) {
	rows, err := s.db.Query(
		`SELECT kind, dx, dy, dz, axis, degrees
		 FROM replay_commands
		 WHERE replay_id = ?
		 ORDER BY seq`,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query commands: %w", err)
	}
	defer rows.Close()

	var cmds []engine.Command
	for rows.Next() {
		var (
			c    engine.Command
			kind string
			axis int
		)
		if err := rows.Scan(&kind, &c.Delta.X, &c.Delta.Y, &c.Delta.Z, &axis, &c.Degrees); err != nil {
			return nil, fmt.Errorf("storage: cannot scan command: %w", err)
		}
		if c.Kind, err = engine.ParseCommandKind(kind); err != nil {
			return nil, fmt.Errorf("storage: %w", err)
		}
		c.Axis = engine.Axis(axis)
		cmds = append(cmds, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return cmds, nil
}

// RecentReplays lists the newest replays first.
func (s *Store) RecentReplays(limit int) ([]Summary, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT r.id, r.seed, r.score, r.level, r.lines, r.pieces, r.end_reason,
		        r.duration_ms, r.created_at,
		        (SELECT COUNT(*) FROM replay_commands c WHERE c.replay_id = r.id)
		 FROM replays r
		 ORDER BY r.created_at DESC, r.id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query replays: %w", err)
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var (
			e          Summary
			durationMs int64
			createdAt  any
		)
		if err := rows.Scan(&e.ID, &e.Seed, &e.Score, &e.Level, &e.Lines, &e.Pieces, &e.Reason,
			&durationMs, &createdAt, &e.Commands); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.Duration = time.Duration(durationMs) * time.Millisecond
		e.CreatedAt = parseTime(createdAt)
		out = append(out, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return out, nil
}

// DeleteReplay removes a replay and its commands.
func (s *Store) DeleteReplay(id int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // No-op after commit

	if _, err := tx.Exec("DELETE FROM replay_commands WHERE replay_id = ?", id); err != nil {
		return fmt.Errorf("storage: cannot delete commands: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM replay_shapes WHERE replay_id = ?", id); err != nil {
		return fmt.Errorf("storage: cannot delete shapes: %w", err)
	}
	res, err := tx.Exec("DELETE FROM replays WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("storage: cannot delete replay: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: cannot commit delete: %w", err)
	}
	return nil
}

const timeLayout = "2006-01-02 15:04:05"

// parseTime handles both time.Time and string values from the driver.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse(timeLayout, t); err == nil {
			return parsed
		}
		if parsed, err := time.Parse(time.RFC3339Nano, t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

func encodePoints(points []int) string {
	parts := make([]string, len(points))
	for i, p := range points {
		parts[i] = strconv.Itoa(p)
	}
	return strings.Join(parts, ",")
}

func decodePoints(s string) ([]int, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("storage: bad layer points %q: %w", s, err)
		}
		out[i] = n
	}
	return out, nil
}

// encodeBlocks writes offsets as "x,y,z;x,y,z;...".
func encodeBlocks(blocks [engine.BlockCount]core.Vec3) string {
	parts := make([]string, len(blocks))
	for i, b := range blocks {
		parts[i] = fmt.Sprintf("%d,%d,%d", b.X, b.Y, b.Z)
	}
	return strings.Join(parts, ";")
}

func decodeBlocks(s string) ([engine.BlockCount]core.Vec3, error) {
	var out [engine.BlockCount]core.Vec3
	parts := strings.Split(s, ";")
	if len(parts) != len(out) {
		return out, fmt.Errorf("storage: bad shape blocks %q", s)
	}
	for i, p := range parts {
		if _, err := fmt.Sscanf(p, "%d,%d,%d", &out[i].X, &out[i].Y, &out[i].Z); err != nil {
			return out, fmt.Errorf("storage: bad shape blocks %q: %w", s, err)
		}
	}
	return out, nil
}
