// Package sqlite persists player profiles and session checkpoints in SQLite.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"CyberHack/internal/game"
	"CyberHack/internal/storage/sqlite/migrations"
	"CyberHack/internal/storage/sqlitemigrate"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
	_ "modernc.org/sqlite"
)

// ErrCheckpointNotFound is returned when no checkpoint exists for a session.
var ErrCheckpointNotFound = errors.New("checkpoint not found")

// Store persists profiles and checkpoints.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Checkpoint is a stored session snapshot.
type Checkpoint struct {
	Snapshot game.SessionSnapshot
	SavedAt  time.Time
}

func toMillis(t time.Time) int64 { return t.UTC().UnixMilli() }

func fromMillis(v int64) time.Time { return time.UnixMilli(v).UTC() }

// Open opens the database at path and applies the embedded migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := sqlitemigrate.Apply(context.Background(), db, migrations.FS, ""); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{db: db, now: time.Now}, nil
}

// Close closes the database handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) ready(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.db == nil {
		return errors.New("storage is not configured")
	}
	return nil
}

// PutProfile inserts or replaces a profile.
func (s *Store) PutProfile(ctx context.Context, p *game.PlayerProfile) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if p == nil || strings.TrimSpace(p.ID) == "" {
		return errors.New("profile id is required")
	}
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode profile %s: %w", p.ID, err)
	}
	now := toMillis(s.now())
	_, err = s.db.ExecContext(ctx, `
INSERT INTO profiles (id, faction, level, credits, data, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
    faction = excluded.faction,
    level = excluded.level,
    credits = excluded.credits,
    data = excluded.data,
    updated_at = excluded.updated_at`,
		p.ID, string(p.Faction), p.Level, p.Credits, string(data), now, now,
	)
	if err != nil {
		return fmt.Errorf("put profile %s: %w", p.ID, err)
	}
	return nil
}

// GetProfile loads a profile. Missing rows yield game.ErrProfileNotFound.
func (s *Store) GetProfile(ctx context.Context, id string) (*game.PlayerProfile, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT data FROM profiles WHERE id = ?`, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", game.ErrProfileNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get profile %s: %w", id, err)
	}
	var p game.PlayerProfile
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		return nil, fmt.Errorf("decode profile %s: %w", id, err)
	}
	return &p, nil
}

// ProfileSummary is one row of the leaderboard listing.
type ProfileSummary struct {
	ID        string       `json:"id"`
	Faction   game.Faction `json:"faction"`
	Level     int          `json:"level"`
	Credits   int          `json:"credits"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// ListProfiles returns profiles ordered by level then credits, highest first.
func (s *Store) ListProfiles(ctx context.Context, limit int) ([]ProfileSummary, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT id, faction, level, credits, updated_at FROM profiles
ORDER BY level DESC, credits DESC, id ASC
LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	defer rows.Close()

	var out []ProfileSummary
	for rows.Next() {
		var (
			ps      ProfileSummary
			faction string
			updated int64
		)
		if err := rows.Scan(&ps.ID, &faction, &ps.Level, &ps.Credits, &updated); err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		ps.Faction = game.Faction(faction)
		ps.UpdatedAt = fromMillis(updated)
		out = append(out, ps)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	return out, nil
}

// PutCheckpoint stores the latest snapshot of a session, replacing any earlier one.
func (s *Store) PutCheckpoint(ctx context.Context, snap game.SessionSnapshot) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if strings.TrimSpace(snap.ID) == "" {
		return errors.New("session id is required")
	}
	blob, err := encodeSnapshot(snap)
	if err != nil {
		return fmt.Errorf("encode checkpoint %s: %w", snap.ID, err)
	}
	_, err = s.db.ExecContext(ctx, `
INSERT INTO checkpoints (session_id, profile_id, mission_id, state, snapshot, saved_at)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT(session_id) DO UPDATE SET
    state = excluded.state,
    snapshot = excluded.snapshot,
    saved_at = excluded.saved_at`,
		snap.ID, snap.ProfileID, snap.MissionID, snap.State, blob, toMillis(s.now()),
	)
	if err != nil {
		return fmt.Errorf("put checkpoint %s: %w", snap.ID, err)
	}
	return nil
}

// GetCheckpoint loads the snapshot stored for a session.
func (s *Store) GetCheckpoint(ctx context.Context, sessionID string) (Checkpoint, error) {
	if err := s.ready(ctx); err != nil {
		return Checkpoint{}, err
	}
	var (
		blob  []byte
		saved int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT snapshot, saved_at FROM checkpoints WHERE session_id = ?`, sessionID,
	).Scan(&blob, &saved)
	if errors.Is(err, sql.ErrNoRows) {
		return Checkpoint{}, fmt.Errorf("%w: %s", ErrCheckpointNotFound, sessionID)
	}
	if err != nil {
		return Checkpoint{}, fmt.Errorf("get checkpoint %s: %w", sessionID, err)
	}
	snap, err := decodeSnapshot(blob)
	if err != nil {
		return Checkpoint{}, fmt.Errorf("decode checkpoint %s: %w", sessionID, err)
	}
	return Checkpoint{Snapshot: snap, SavedAt: fromMillis(saved)}, nil
}

// ListCheckpoints returns a profile's checkpoints, newest first.
func (s *Store) ListCheckpoints(ctx context.Context, profileID string, limit int) ([]Checkpoint, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT snapshot, saved_at FROM checkpoints
WHERE profile_id = ?
ORDER BY saved_at DESC, session_id ASC
LIMIT ?`, profileID, limit)
	if err != nil {
		return nil, fmt.Errorf("list checkpoints: %w", err)
	}
	defer rows.Close()

	var out []Checkpoint
	for rows.Next() {
		var (
			blob  []byte
			saved int64
		)
		if err := rows.Scan(&blob, &saved); err != nil {
			return nil, fmt.Errorf("scan checkpoint: %w", err)
		}
		snap, err := decodeSnapshot(blob)
		if err != nil {
			return nil, fmt.Errorf("decode checkpoint: %w", err)
		}
		out = append(out, Checkpoint{Snapshot: snap, SavedAt: fromMillis(saved)})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list checkpoints: %w", err)
	}
	return out, nil
}

// Snapshots are stored as a binary google.protobuf.Struct so the blob stays
// readable by any protobuf tool.
func encodeSnapshot(snap game.SessionSnapshot) ([]byte, error) {
	raw, err := json.Marshal(snap)
	if err != nil {
		return nil, err
	}
	st := &structpb.Struct{}
	if err := protojson.Unmarshal(raw, st); err != nil {
		return nil, err
	}
	return proto.Marshal(st)
}

func decodeSnapshot(blob []byte) (game.SessionSnapshot, error) {
	var snap game.SessionSnapshot
	st := &structpb.Struct{}
	if err := proto.Unmarshal(blob, st); err != nil {
		return snap, err
	}
	raw, err := protojson.Marshal(st)
	if err != nil {
		return snap, err
	}
	err = json.Unmarshal(raw, &snap)
	return snap, err
}
