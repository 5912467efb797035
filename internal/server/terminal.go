package server

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"CyberHack/internal/game"
)

// Terminal is one player's console, shared by the websocket and ssh
// front ends. Outside a mission it answers lobby commands; during one it
// forwards lines to the session console.
type Terminal struct {
	hub       *Hub
	profileID string
	faction   game.Faction

	mu      sync.Mutex
	console *Console
	events  chan []string
	closed  chan struct{}
	once    sync.Once
}

// NewTerminal opens a terminal for profileID. The profile is created with
// faction if it does not exist yet.
func (h *Hub) NewTerminal(ctx context.Context, profileID string, faction game.Faction) (*Terminal, error) {
	profileID = strings.TrimSpace(profileID)
	if profileID == "" {
		return nil, errors.New("profile id is required")
	}
	p, err := h.Profile(ctx, profileID, faction)
	if err != nil {
		return nil, err
	}
	return &Terminal{
		hub:       h,
		profileID: profileID,
		faction:   p.Faction,
		events:    make(chan []string, eventBuffer),
		closed:    make(chan struct{}),
	}, nil
}

// ProfileID returns the owner of the terminal.
func (t *Terminal) ProfileID() string { return t.profileID }

// Events carries asynchronous session output.
func (t *Terminal) Events() <-chan []string { return t.events }

// Welcome is the banner shown on connect.
func (t *Terminal) Welcome() []string {
	return []string{
		"=== CyberHack ===",
		fmt.Sprintf("Agent %s, faction %s", t.profileID, t.faction),
		"Tapez 'missions' pour la liste des contrats, 'aide' pour l'aide.",
	}
}

// Prompt returns the shell prompt for the current mode.
func (t *Terminal) Prompt() string {
	if t.InMission() {
		return t.profileID + "@mission$ "
	}
	return t.profileID + "@lobby$ "
}

// InMission reports whether a session console is attached.
func (t *Terminal) InMission() bool { return t.active() != nil }

// SessionID returns the attached session id, or "".
func (t *Terminal) SessionID() string {
	if c := t.active(); c != nil {
		return c.ID
	}
	return ""
}

// Snapshot returns the attached session view.
func (t *Terminal) Snapshot() (game.SessionSnapshot, bool) {
	c := t.active()
	if c == nil {
		return game.SessionSnapshot{}, false
	}
	return c.Snapshot(), true
}

func (t *Terminal) active() *Console {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.console
}

// Quits reports whether line closes the connection. It only applies in the
// lobby; inside a mission "exit" ends the mission instead.
func (t *Terminal) Quits(line string) bool {
	return t.active() == nil && strings.EqualFold(strings.TrimSpace(line), "quit")
}

// Handle runs one input line and returns its output.
func (t *Terminal) Handle(ctx context.Context, line string) []string {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}
	if c := t.active(); c != nil {
		out := c.Execute(line)
		if !c.Running() {
			t.detach(c)
			t.hub.finish(c)
			out = append(out, "Retour au lobby.")
		}
		return out
	}
	return t.lobby(ctx, line)
}

func (t *Terminal) lobby(ctx context.Context, line string) []string {
	fields := strings.Fields(line)
	switch strings.ToLower(fields[0]) {
	case "help", "aide":
		return []string{
			"Commandes du lobby:",
			"missions : Contrats disponibles",
			"factions : Factions et bonus",
			"profil : Votre profil",
			"start <mission> : Lance une mission",
			"quit : Ferme la connexion",
		}
	case "missions":
		return t.missions(ctx)
	case "factions":
		return factionLines()
	case "profil", "profile":
		return t.profile(ctx)
	case "quit":
		return []string{"Au revoir."}
	case "start":
		if len(fields) < 2 {
			return []string{"Usage: start <mission>"}
		}
		return t.start(ctx, fields[1])
	default:
		return []string{"Commande inconnue: " + fields[0]}
	}
}

func (t *Terminal) missions(ctx context.Context) []string {
	p, err := t.hub.Profile(ctx, t.profileID, t.faction)
	if err != nil {
		return []string{"Erreur: profil indisponible"}
	}
	list := game.AvailableMissions(p)
	if len(list) == 0 {
		return []string{"Aucune mission disponible"}
	}
	out := []string{"Missions disponibles:"}
	for _, m := range list {
		out = append(out, fmt.Sprintf("%s (%s) - %s - %d crédits - %s",
			m.Key, m.ID, m.Title, m.Reward, game.DifficultyLabel(m.Difficulty)))
	}
	return out
}

func factionLines() []string {
	out := []string{"Factions:"}
	for _, f := range game.AllFactions {
		info, ok := game.DescribeFaction(f)
		if !ok {
			continue
		}
		out = append(out, fmt.Sprintf("%s : %s (%s)", f, info.Specialty, strings.Join(info.Bonuses, ", ")))
	}
	return out
}

func (t *Terminal) profile(ctx context.Context) []string {
	p, err := t.hub.Profile(ctx, t.profileID, t.faction)
	if err != nil {
		return []string{"Erreur: profil indisponible"}
	}
	return []string{
		"Profil " + p.ID,
		fmt.Sprintf("Faction: %s", p.Faction),
		fmt.Sprintf("Niveau: %d", p.Level),
		fmt.Sprintf("Crédits: %d", p.Credits),
		fmt.Sprintf("Outils: %s", strings.Join(p.SortedTools(), ", ")),
		fmt.Sprintf("Missions réussies: %d", len(p.CompletedMissions)),
	}
}

func (t *Terminal) start(ctx context.Context, key string) []string {
	c, err := t.hub.StartSession(ctx, t.profileID, t.faction, key)
	switch {
	case errors.Is(err, game.ErrMissionNotFound):
		return []string{"Mission inconnue: " + key}
	case errors.Is(err, game.ErrMissionCompleted):
		return []string{"Mission déjà complétée: " + key}
	case errors.Is(err, ErrSessionActive):
		return []string{"Erreur: une mission est déjà en cours pour ce profil"}
	case err != nil:
		return []string{"Erreur: " + err.Error()}
	}
	t.attach(c)
	out := []string{"Mission lancée. Session " + c.ID}
	return append(out, c.Execute(game.CmdMission.String())...)
}

func (t *Terminal) attach(c *Console) {
	t.mu.Lock()
	t.console = c
	t.mu.Unlock()
	go t.forward(c)
}

// detach clears c from the terminal and reports whether it was attached.
func (t *Terminal) detach(c *Console) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.console != c {
		return false
	}
	t.console = nil
	return true
}

// forward relays console tick output until the hub drops the console or
// the terminal closes. A console retired by the hub tick returns the
// terminal to the lobby.
func (t *Terminal) forward(c *Console) {
	for {
		select {
		case <-t.closed:
			return
		case lines := <-c.Events():
			if !t.deliver(lines) {
				return
			}
		case <-c.Done():
			var lines []string
			for pending := true; pending; {
				select {
				case more := <-c.Events():
					lines = append(lines, more...)
				default:
					pending = false
				}
			}
			if t.detach(c) {
				lines = append(lines, "Retour au lobby.")
			}
			if len(lines) > 0 {
				t.deliver(lines)
			}
			return
		}
	}
}

func (t *Terminal) deliver(lines []string) bool {
	select {
	case t.events <- lines:
		return true
	case <-t.closed:
		return false
	}
}

// Close abandons any running mission and stops event delivery.
func (t *Terminal) Close() {
	t.once.Do(func() {
		close(t.closed)
		if c := t.active(); c != nil {
			t.detach(c)
			t.hub.Abandon(c)
		}
	})
}
