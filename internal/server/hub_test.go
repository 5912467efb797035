package server

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"sync"
	"testing"

	"CyberHack/internal/game"
	"CyberHack/internal/storage/sqlite"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newTestHub(t *testing.T) *Hub {
	t.Helper()
	store, err := sqlite.Open(filepath.Join(t.TempDir(), "hub.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	h := NewHub(store, game.DefaultAlertParams(), quietLogger())
	h.rng = func() game.RNG { return game.NewRNG(1) }
	return h
}

// A first visit creates the profile with the requested faction.
func TestHubProfileCreatesOnce(t *testing.T) {
	h := newTestHub(t)
	ctx := context.Background()

	p, err := h.Profile(ctx, "neo", game.FactionForgeurs)
	require.NoError(t, err)
	assert.Equal(t, game.FactionForgeurs, p.Faction)
	assert.Equal(t, 1, p.Level)

	again, err := h.Profile(ctx, "neo", game.FactionVeilleurs)
	require.NoError(t, err)
	assert.Equal(t, game.FactionForgeurs, again.Faction)

	def, err := h.Profile(ctx, "trinity", "")
	require.NoError(t, err)
	assert.Equal(t, game.FactionSpectres, def.Faction)
}

// Unknown missions and missions above the profile level are refused.
func TestHubStartSessionRejects(t *testing.T) {
	h := newTestHub(t)
	ctx := context.Background()

	_, err := h.StartSession(ctx, "neo", game.FactionSpectres, "nope")
	assert.ErrorIs(t, err, game.ErrMissionNotFound)

	_, err = h.StartSession(ctx, "neo", game.FactionSpectres, "sabotage_1")
	assert.Error(t, err)
	assert.Empty(t, h.Sessions())

	// the failed attempts must not leave the profile marked busy
	c, err := h.StartSession(ctx, "neo", game.FactionSpectres, "infiltration_1")
	require.NoError(t, err)
	assert.True(t, c.Running())
}

// A mission the profile already finished cannot be started again.
func TestHubStartSessionRejectsCompleted(t *testing.T) {
	h := newTestHub(t)
	ctx := context.Background()

	p, err := h.Profile(ctx, "neo", game.FactionSpectres)
	require.NoError(t, err)
	p.CompletedMissions = []string{"INF_001"}
	p.Level = 2
	require.NoError(t, h.store.PutProfile(ctx, p))

	c, err := h.StartSession(ctx, "neo", game.FactionSpectres, "infiltration_1")
	assert.ErrorIs(t, err, game.ErrMissionCompleted)
	assert.Nil(t, c)
	assert.Empty(t, h.Sessions())

	// the refusal must release the profile
	_, err = h.StartSession(ctx, "neo", game.FactionSpectres, "data_theft_1")
	assert.NoError(t, err)
}

// A profile runs at most one mission at a time.
func TestHubOneSessionPerProfile(t *testing.T) {
	h := newTestHub(t)
	ctx := context.Background()

	first, err := h.StartSession(ctx, "neo", game.FactionSpectres, "infiltration_1")
	require.NoError(t, err)
	_, err = h.StartSession(ctx, "neo", game.FactionSpectres, "INF_001")
	assert.ErrorIs(t, err, ErrSessionActive)

	other, err := h.StartSession(ctx, "trinity", game.FactionSpectres, "infiltration_1")
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, other.ID)
	assert.Len(t, h.Sessions(), 2)
}

// Abandon terminates the session and leaves a checkpoint behind.
func TestHubAbandonCheckpoints(t *testing.T) {
	h := newTestHub(t)
	ctx := context.Background()

	c, err := h.StartSession(ctx, "neo", game.FactionSpectres, "infiltration_1")
	require.NoError(t, err)
	c.Execute("scan")

	h.Abandon(c)
	assert.False(t, c.Running())
	assert.Empty(t, h.Sessions())

	snap, err := h.SessionSnapshot(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Terminated", snap.State)
	assert.Equal(t, "INF_001", snap.MissionID)
	assert.Equal(t, "neo", snap.ProfileID)

	// a second abandon is a no-op
	h.Abandon(c)

	_, err = h.StartSession(ctx, "neo", game.FactionSpectres, "infiltration_1")
	assert.NoError(t, err)
}

// Tick retires sessions that ended between ticks.
func TestHubTickRetiresEndedSessions(t *testing.T) {
	h := newTestHub(t)
	ctx := context.Background()

	c, err := h.StartSession(ctx, "neo", game.FactionSpectres, "infiltration_1")
	require.NoError(t, err)

	h.Tick(game.Dt)
	live, err := h.SessionSnapshot(ctx, c.ID)
	require.NoError(t, err)
	assert.True(t, live.Running)
	assert.InDelta(t, game.Dt, live.Now, 1e-9)

	c.Execute("exit")
	h.Tick(game.Dt)
	_, ok := h.Console(c.ID)
	assert.False(t, ok)

	cp, err := h.store.GetCheckpoint(ctx, c.ID)
	require.NoError(t, err)
	assert.False(t, cp.Snapshot.Running)
}

// Unknown session ids report ErrSessionNotFound.
func TestHubSessionSnapshotNotFound(t *testing.T) {
	h := newTestHub(t)
	_, err := h.SessionSnapshot(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

// Shutdown checkpoints every live session.
func TestHubShutdown(t *testing.T) {
	h := newTestHub(t)
	ctx := context.Background()

	a, err := h.StartSession(ctx, "neo", game.FactionSpectres, "infiltration_1")
	require.NoError(t, err)
	b, err := h.StartSession(ctx, "trinity", game.FactionVeilleurs, "infiltration_1")
	require.NoError(t, err)

	h.Shutdown()
	assert.Empty(t, h.Sessions())
	for _, id := range []string{a.ID, b.ID} {
		cp, err := h.store.GetCheckpoint(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "Terminated", cp.Snapshot.State)
	}
}

// Run stops when its context is canceled.
func TestHubRunStops(t *testing.T) {
	h := newTestHub(t)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		h.Run(ctx)
		close(done)
	}()
	cancel()
	<-done
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
