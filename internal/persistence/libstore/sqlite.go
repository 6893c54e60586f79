// Package libstore persists roster snapshots to sqlite. The engine's
// in-memory contract knows nothing about this; arenad saves on a slow cadence
// and reloads on restart. Snapshots are keyed by catalog digest so a library
// saved against one catalog is never silently resumed against another.
package libstore

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"skillforge.ai/internal/skill/catalog"
	"skillforge.ai/internal/skill/library"
	"skillforge.ai/internal/skill/roster"
)

type Store struct {
	db *sql.DB
}

func Open(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

func initPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA foreign_keys=ON;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA temp_store=MEMORY;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS actors (
			slot INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			profile TEXT NOT NULL,
			fatigue REAL NOT NULL,
			pain REAL NOT NULL,
			stress REAL NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS chunks (
			slot INTEGER NOT NULL,
			chunk_id TEXT NOT NULL,
			encoding_depth REAL NOT NULL,
			repetitions INTEGER NOT NULL,
			last_used_tick INTEGER NOT NULL,
			formation_tick INTEGER NOT NULL,
			PRIMARY KEY (slot, chunk_id)
		);`,
	}
	for _, q := range stmts {
		if _, err := db.Exec(q); err != nil {
			return err
		}
	}
	return nil
}

// Save replaces the stored snapshot with the roster's current state.
// Pending experiences are deliberately not persisted: arenad consolidates
// every actor before snapshotting, so there is nothing unflushed to save.
func (s *Store) Save(r *roster.Roster, tick uint64, catalogDigest string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, q := range []string{`DELETE FROM actors;`, `DELETE FROM chunks;`} {
		if _, err := tx.Exec(q); err != nil {
			return err
		}
	}
	for _, kv := range [][2]string{
		{"tick", fmt.Sprintf("%d", tick)},
		{"catalog_digest", catalogDigest},
	} {
		if _, err := tx.Exec(`INSERT INTO meta(key, value) VALUES(?, ?)
			ON CONFLICT(key) DO UPDATE SET value=excluded.value;`, kv[0], kv[1]); err != nil {
			return err
		}
	}

	insActor, err := tx.Prepare(`INSERT INTO actors(slot, name, profile, fatigue, pain, stress)
		VALUES(?, ?, ?, ?, ?, ?);`)
	if err != nil {
		return err
	}
	defer insActor.Close()
	insChunk, err := tx.Prepare(`INSERT INTO chunks(slot, chunk_id, encoding_depth, repetitions, last_used_tick, formation_tick)
		VALUES(?, ?, ?, ?, ?, ?);`)
	if err != nil {
		return err
	}
	defer insChunk.Close()

	for _, a := range r.Actors() {
		if _, err := insActor.Exec(a.Slot, a.Name, string(a.Profile), a.Fatigue, a.Pain, a.Stress); err != nil {
			return err
		}
		for id, st := range a.Library.Chunks() {
			if _, err := insChunk.Exec(a.Slot, string(id), st.EncodingDepth, st.Repetitions, st.LastUsedTick, st.FormationTick); err != nil {
				return err
			}
		}
	}
	return tx.Commit()
}

// Load rebuilds a roster from the stored snapshot and returns it with the
// saved tick. Returns sql.ErrNoRows when the store holds no snapshot, and an
// error when the snapshot was taken against a different catalog.
func (s *Store) Load(catalogDigest string) (*roster.Roster, uint64, error) {
	var tickStr string
	err := s.db.QueryRow(`SELECT value FROM meta WHERE key='tick';`).Scan(&tickStr)
	if err != nil {
		return nil, 0, err
	}
	var tick uint64
	if _, err := fmt.Sscanf(tickStr, "%d", &tick); err != nil {
		return nil, 0, fmt.Errorf("bad tick %q: %w", tickStr, err)
	}

	var digest string
	if err := s.db.QueryRow(`SELECT value FROM meta WHERE key='catalog_digest';`).Scan(&digest); err != nil {
		return nil, 0, err
	}
	if digest != catalogDigest {
		return nil, 0, fmt.Errorf("snapshot catalog digest %s does not match loaded catalog %s", digest, catalogDigest)
	}

	r := roster.New()
	rows, err := s.db.Query(`SELECT slot, name, profile, fatigue, pain, stress FROM actors ORDER BY slot;`)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	for rows.Next() {
		var (
			slot                 int
			name, profile        string
			fatigue, pain, strss float64
		)
		if err := rows.Scan(&slot, &name, &profile, &fatigue, &pain, &strss); err != nil {
			return nil, 0, err
		}
		got, err := r.Add(name, roster.Profile(profile), tick)
		if err != nil {
			return nil, 0, err
		}
		if got != slot {
			return nil, 0, fmt.Errorf("non-dense snapshot: expected slot %d, got %d", got, slot)
		}
		a := r.Actor(got)
		a.Fatigue, a.Pain, a.Stress = fatigue, pain, strss
		// Replace profile-seeded chunks with the persisted state.
		for id := range a.Library.Chunks() {
			delete(a.Library.Chunks(), id)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	crows, err := s.db.Query(`SELECT slot, chunk_id, encoding_depth, repetitions, last_used_tick, formation_tick FROM chunks;`)
	if err != nil {
		return nil, 0, err
	}
	defer crows.Close()
	for crows.Next() {
		var (
			slot           int
			id             string
			depth          float64
			reps           int
			lastUsed, born uint64
		)
		if err := crows.Scan(&slot, &id, &depth, &reps, &lastUsed, &born); err != nil {
			return nil, 0, err
		}
		a := r.Actor(slot)
		if a == nil {
			return nil, 0, fmt.Errorf("chunk row for unknown slot %d", slot)
		}
		a.Library.Set(catalog.ChunkID(id), &library.ChunkState{
			EncodingDepth: depth,
			Repetitions:   reps,
			LastUsedTick:  lastUsed,
			FormationTick: born,
		})
	}
	if err := crows.Err(); err != nil {
		return nil, 0, err
	}
	return r, tick, nil
}
