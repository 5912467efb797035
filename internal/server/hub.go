package server

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"CyberHack/internal/game"
	"CyberHack/internal/storage/sqlite"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ErrSessionActive is returned when a profile already runs a mission.
var ErrSessionActive = errors.New("profile already has an active session")

// ErrSessionNotFound is returned for unknown session ids.
var ErrSessionNotFound = errors.New("session not found")

const eventBuffer = 32

// Console wraps one mission session. Execute and Tick are serialized by mu.
type Console struct {
	ID        string
	ProfileID string

	mu       sync.Mutex
	session  *game.Session
	events   chan []string
	done     bool
	finished chan struct{}
}

// Execute runs one command line.
func (c *Console) Execute(line string) []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session.Execute(line)
}

// Snapshot returns the current session view.
func (c *Console) Snapshot() game.SessionSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session.Snapshot()
}

// Running reports whether the session still accepts commands.
func (c *Console) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session.Running()
}

// Events carries lines produced by ticks between commands.
func (c *Console) Events() <-chan []string { return c.events }

// Done is closed once the hub has checkpointed and dropped the console.
func (c *Console) Done() <-chan struct{} { return c.finished }

func (c *Console) tick(dt float64) {
	c.mu.Lock()
	lines := c.session.Tick(dt)
	c.mu.Unlock()
	if len(lines) == 0 {
		return
	}
	select {
	case c.events <- lines:
	default:
		// slow reader; the next state push still carries the gauge
	}
}

// Hub owns every live console and drives their ticks.
type Hub struct {
	mu       sync.Mutex
	consoles map[string]*Console
	active   map[string]string // profile id -> session id

	store *sqlite.Store
	alert game.AlertParams
	log   logrus.FieldLogger
	rng   func() game.RNG
}

// NewHub returns an empty hub backed by store.
func NewHub(store *sqlite.Store, alert game.AlertParams, log logrus.FieldLogger) *Hub {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Hub{
		consoles: map[string]*Console{},
		active:   map[string]string{},
		store:    store,
		alert:    alert,
		log:      log,
		rng:      func() game.RNG { return game.NewSeededRNG() },
	}
}

// Profile loads a profile, creating it with faction on first use.
func (h *Hub) Profile(ctx context.Context, id string, faction game.Faction) (*game.PlayerProfile, error) {
	p, err := h.store.GetProfile(ctx, id)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, game.ErrProfileNotFound) {
		return nil, err
	}
	if faction == "" {
		faction = game.FactionSpectres
	}
	p = game.NewPlayerProfile(id, faction)
	if err := h.store.PutProfile(ctx, p); err != nil {
		return nil, err
	}
	h.log.WithFields(logrus.Fields{"profile": id, "faction": faction}).Info("profile created")
	return p, nil
}

// StartSession opens a mission for a profile.
func (h *Hub) StartSession(ctx context.Context, profileID string, faction game.Faction, missionKey string) (*Console, error) {
	mission, err := game.GetMission(missionKey)
	if err != nil {
		return nil, err
	}
	h.mu.Lock()
	if id, busy := h.active[profileID]; busy {
		h.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", ErrSessionActive, id)
	}
	id := uuid.NewString()
	h.active[profileID] = id
	h.mu.Unlock()

	release := func() {
		h.mu.Lock()
		delete(h.active, profileID)
		h.mu.Unlock()
	}

	profile, err := h.Profile(ctx, profileID, faction)
	if err != nil {
		release()
		return nil, fmt.Errorf("load profile %s: %w", profileID, err)
	}
	if profile.HasCompleted(mission.ID) {
		release()
		return nil, fmt.Errorf("%w: %s", game.ErrMissionCompleted, mission.ID)
	}
	if mission.Difficulty > profile.Level {
		release()
		return nil, fmt.Errorf("mission %s requires level %d", mission.ID, mission.Difficulty)
	}
	session, err := game.NewSession(game.SessionConfig{
		ID:          id,
		Mission:     mission,
		Profile:     profile,
		Persistence: h.store.ForPlayer(profileID),
		RNG:         h.rng(),
		Logger:      h.log,
		Alert:       h.alert,
	})
	if err != nil {
		release()
		return nil, err
	}
	c := &Console{
		ID:        id,
		ProfileID: profileID,
		session:   session,
		events:    make(chan []string, eventBuffer),
		finished:  make(chan struct{}),
	}
	h.mu.Lock()
	h.consoles[id] = c
	h.mu.Unlock()
	return c, nil
}

// Console returns a live console by session id.
func (h *Hub) Console(id string) (*Console, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	c, ok := h.consoles[id]
	return c, ok
}

// SessionSnapshot returns a live snapshot, or the last checkpoint of an
// ended session.
func (h *Hub) SessionSnapshot(ctx context.Context, id string) (game.SessionSnapshot, error) {
	if c, ok := h.Console(id); ok {
		return c.Snapshot(), nil
	}
	cp, err := h.store.GetCheckpoint(ctx, id)
	if errors.Is(err, sqlite.ErrCheckpointNotFound) {
		return game.SessionSnapshot{}, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	if err != nil {
		return game.SessionSnapshot{}, err
	}
	return cp.Snapshot, nil
}

// Sessions lists the live session ids in order.
func (h *Hub) Sessions() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	ids := make([]string, 0, len(h.consoles))
	for id := range h.consoles {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Abandon ends a console as if the player typed exit.
func (h *Hub) Abandon(c *Console) {
	if c.Running() {
		c.Execute(game.CmdExit.String())
	}
	h.finish(c)
}

// Tick advances every live console by dt and retires ended ones.
func (h *Hub) Tick(dt float64) {
	h.mu.Lock()
	consoles := make([]*Console, 0, len(h.consoles))
	for _, c := range h.consoles {
		consoles = append(consoles, c)
	}
	h.mu.Unlock()

	for _, c := range consoles {
		c.tick(dt)
		if !c.Running() {
			h.finish(c)
		}
	}
}

// finish checkpoints an ended console once and drops it from the hub.
func (h *Hub) finish(c *Console) {
	c.mu.Lock()
	if c.done {
		c.mu.Unlock()
		return
	}
	c.done = true
	snap := c.session.Snapshot()
	c.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	entry := h.log.WithFields(logrus.Fields{"session": c.ID, "profile": c.ProfileID})
	if err := h.store.PutCheckpoint(ctx, snap); err != nil {
		entry.WithError(err).Error("checkpoint failed")
	}

	h.mu.Lock()
	delete(h.consoles, c.ID)
	if h.active[c.ProfileID] == c.ID {
		delete(h.active, c.ProfileID)
	}
	h.mu.Unlock()
	close(c.finished)
	entry.WithFields(logrus.Fields{"state": snap.State, "completed": snap.Completed}).Info("session closed")
}

// Run ticks the hub at game.TickHz until ctx is done.
func (h *Hub) Run(ctx context.Context) {
	ticker := time.NewTicker(time.Duration(float64(time.Second) / game.TickHz))
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			h.Tick(game.Dt)
		}
	}
}

// Shutdown abandons every live console so their state is checkpointed.
func (h *Hub) Shutdown() {
	h.mu.Lock()
	consoles := make([]*Console, 0, len(h.consoles))
	for _, c := range h.consoles {
		consoles = append(consoles, c)
	}
	h.mu.Unlock()
	for _, c := range consoles {
		h.Abandon(c)
	}
}
