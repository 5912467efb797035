package server

import (
	"context"
	"strings"
	"testing"
	"time"

	"CyberHack/internal/game"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTerminal(t *testing.T, h *Hub, id string) *Terminal {
	t.Helper()
	term, err := h.NewTerminal(context.Background(), id, game.FactionSpectres)
	require.NoError(t, err)
	t.Cleanup(term.Close)
	return term
}

func joined(lines []string) string { return strings.Join(lines, "\n") }

// Terminals need a profile id.
func TestNewTerminalRequiresProfile(t *testing.T) {
	h := newTestHub(t)
	_, err := h.NewTerminal(context.Background(), "  ", "")
	assert.Error(t, err)
}

// The lobby answers its own commands without a session.
func TestTerminalLobbyCommands(t *testing.T) {
	h := newTestHub(t)
	term := newTestTerminal(t, h, "neo")
	ctx := context.Background()

	assert.Contains(t, joined(term.Welcome()), "neo")
	assert.Equal(t, "neo@lobby$ ", term.Prompt())
	assert.Nil(t, term.Handle(ctx, "   "))

	assert.Contains(t, joined(term.Handle(ctx, "aide")), "start <mission>")

	missions := joined(term.Handle(ctx, "missions"))
	assert.Contains(t, missions, "infiltration_1 (INF_001)")
	assert.NotContains(t, missions, "sabotage_1")

	factions := term.Handle(ctx, "factions")
	assert.Len(t, factions, 1+len(game.AllFactions))

	profile := joined(term.Handle(ctx, "profil"))
	assert.Contains(t, profile, "Niveau: 1")
	assert.Contains(t, profile, "Crédits: 1000")

	assert.Equal(t, []string{"Usage: start <mission>"}, term.Handle(ctx, "start"))
	assert.Equal(t, []string{"Mission inconnue: nope"}, term.Handle(ctx, "start nope"))

	p, err := h.Profile(ctx, "neo", "")
	require.NoError(t, err)
	p.CompletedMissions = []string{"INF_001"}
	require.NoError(t, h.store.PutProfile(ctx, p))
	assert.Equal(t, []string{"Mission déjà complétée: infiltration_1"}, term.Handle(ctx, "start infiltration_1"))
	assert.NotContains(t, joined(term.Handle(ctx, "missions")), "INF_001")
	assert.Equal(t, []string{"Commande inconnue: scan"}, term.Handle(ctx, "scan"))
	assert.False(t, term.InMission())
}

// start attaches a console; exit returns to the lobby.
func TestTerminalMissionLifecycle(t *testing.T) {
	h := newTestHub(t)
	term := newTestTerminal(t, h, "neo")
	ctx := context.Background()

	out := term.Handle(ctx, "start infiltration_1")
	require.True(t, term.InMission())
	assert.Contains(t, joined(out), "=== Mission : Première Infiltration ===")
	assert.Equal(t, "neo@mission$ ", term.Prompt())
	assert.NotEmpty(t, term.SessionID())

	snap, ok := term.Snapshot()
	require.True(t, ok)
	assert.Equal(t, "INF_001", snap.MissionID)

	assert.Contains(t, joined(term.Handle(ctx, "scan")), "Cible détectée: ")
	assert.False(t, term.Quits("quit"), "quit is a lobby command")

	out = term.Handle(ctx, "exit")
	assert.Equal(t, "Retour au lobby.", out[len(out)-1])
	assert.False(t, term.InMission())
	assert.Empty(t, h.Sessions())
	assert.True(t, term.Quits("quit"))
}

// A busy profile cannot start a second mission from another terminal.
func TestTerminalSecondTerminalIsRefused(t *testing.T) {
	h := newTestHub(t)
	first := newTestTerminal(t, h, "neo")
	second := newTestTerminal(t, h, "neo")
	ctx := context.Background()

	first.Handle(ctx, "start infiltration_1")
	out := second.Handle(ctx, "start infiltration_1")
	assert.Equal(t, []string{"Erreur: une mission est déjà en cours pour ce profil"}, out)
}

// Closing a terminal abandons its mission.
func TestTerminalCloseAbandons(t *testing.T) {
	h := newTestHub(t)
	term, err := h.NewTerminal(context.Background(), "neo", "")
	require.NoError(t, err)

	term.Handle(context.Background(), "start infiltration_1")
	id := term.SessionID()
	term.Close()
	term.Close()

	assert.Empty(t, h.Sessions())
	snap, err := h.SessionSnapshot(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "Terminated", snap.State)
}

// Tick output reaches the terminal event stream.
func TestTerminalForwardsTickEvents(t *testing.T) {
	h := newTestHub(t)
	term := newTestTerminal(t, h, "neo")
	ctx := context.Background()
	term.Handle(ctx, "start infiltration_1")

	c, ok := h.Console(term.SessionID())
	require.True(t, ok)
	c.events <- []string{"Alerte réseau"}

	select {
	case lines := <-term.Events():
		assert.Equal(t, []string{"Alerte réseau"}, lines)
	case <-time.After(2 * time.Second):
		t.Fatal("no event forwarded")
	}
}

// A session retired by the hub tick sends the terminal back to the lobby.
func TestTerminalTickRetirementReturnsToLobby(t *testing.T) {
	h := newTestHub(t)
	term := newTestTerminal(t, h, "neo")
	ctx := context.Background()
	term.Handle(ctx, "start infiltration_1")

	c, ok := h.Console(term.SessionID())
	require.True(t, ok)
	c.Execute("exit")
	h.Tick(game.Dt)

	select {
	case lines := <-term.Events():
		assert.Equal(t, "Retour au lobby.", lines[len(lines)-1])
	case <-time.After(2 * time.Second):
		t.Fatal("no lobby notice forwarded")
	}
	assert.False(t, term.InMission())
}

// The forwarder stops once its console is dropped, even with the terminal open.
func TestTerminalForwardStopsWithConsole(t *testing.T) {
	h := newTestHub(t)
	term := newTestTerminal(t, h, "neo")

	c, err := h.StartSession(context.Background(), "neo", game.FactionSpectres, "infiltration_1")
	require.NoError(t, err)

	stopped := make(chan struct{})
	go func() {
		term.forward(c)
		close(stopped)
	}()
	h.Abandon(c)

	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("forwarder still running after the console ended")
	}
}
