package game

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"CyberHack/internal/dag"
)

// SessionState is the connection state of a mission session.
type SessionState int

const (
	StateDisconnected SessionState = iota
	StateConnected
	StateCompromised
	StateTerminated
)

func (s SessionState) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnected:
		return "connected"
	case StateCompromised:
		return "compromised"
	case StateTerminated:
		return "terminated"
	default:
		return fmt.Sprintf("SessionState(%d)", int(s))
	}
}

// ErrIllegalTransition is returned when a state change is not in the transition table.
var ErrIllegalTransition = errors.New("illegal session transition")

var sessionTransitions = map[SessionState][]SessionState{
	StateDisconnected: {StateConnected, StateCompromised, StateTerminated},
	StateConnected:    {StateDisconnected, StateCompromised, StateTerminated},
	StateCompromised:  {StateDisconnected, StateTerminated},
}

// CanTransition reports whether from -> to is allowed. Terminated is final.
func CanTransition(from, to SessionState) bool {
	for _, next := range sessionTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Temporary bonus categories.
const (
	BonusHack      = "hack"
	BonusStealth   = "stealth"
	BonusDetection = "detection"
)

// Stolen data kinds.
const (
	lootFile      = "file"
	lootDatabase  = "database"
	lootAutomated = "automated"
)

// StolenData is one exfiltrated item.
type StolenData struct {
	Kind  string `json:"kind"`
	Value int    `json:"value"`
	Label string `json:"label"`
}

// RansomRecord tracks the ransomware lifecycle of one target.
type RansomRecord struct {
	Amount      int      `json:"amount"`
	Paid        bool     `json:"paid"`
	EncryptTime float64  `json:"encrypt_time"`
	DemandTime  float64  `json:"demand_time"`
	Deadline    *float64 `json:"deadline,omitempty"` // set by demand
	Decrypted   bool     `json:"decrypted"`
}

// TemporaryBonus is a timed multiplier granted by random events.
type TemporaryBonus struct {
	Value  float64 `json:"value"`
	Expiry float64 `json:"expiry"`
}

// SessionConfig carries the collaborators and inputs of a session.
type SessionConfig struct {
	ID          string // generated when empty
	Mission     *Mission
	Profile     *PlayerProfile
	Persistence Persistence
	RNG         RNG
	Logger      logrus.FieldLogger
	Alert       AlertParams // zero value selects DefaultAlertParams
	Targets     []*Target   // nil generates targets from the mission id
	Duration    float64     // zero selects MissionDuration
	Progression *dag.Graph  // nil selects the global or seeded unlock graph
}

// Session owns all mutable state of one mission run. It is not safe for
// concurrent use; hosts serialize Execute and Tick calls.
type Session struct {
	ID       string
	Mission  *Mission
	Profile  *PlayerProfile
	Now      float64 // seconds since mission start
	Duration float64

	state              SessionState
	running            bool
	alert              AlertGauge
	detectedAt         float64
	compromised        bool
	compromisedTargets map[string]bool
	current            *Target
	targets            []*Target
	stolen             []StolenData
	exfiltrated        map[string]bool
	botnet             map[string]bool
	botnetOrder        []string
	encrypted          map[string]*RansomRecord
	payloads           map[string]map[string]float64
	loadout            *Loadout
	bonuses            map[string][]TemporaryBonus
	objectives         []bool
	traces             []string
	completed          bool
	reward             *RewardBreakdown

	toolsUsed         map[string]bool
	hacks             int
	miningCycles      int
	miningIncome      int
	securityEvents    int
	totalRansom       int
	firstPaymentDelay float64

	lastBotnet     float64
	lastToolDecay  float64
	lastAlertDecay float64
	lastPayload    float64
	lastSave       float64

	pending []string
	rng     RNG
	log     logrus.FieldLogger
	persist Persistence
	graph   *dag.Graph
}

// NewSession validates the config and prepares a running session.
func NewSession(cfg SessionConfig) (*Session, error) {
	if cfg.Mission == nil {
		return nil, errors.New("session: mission is required")
	}
	if err := cfg.Mission.Validate(); err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}
	if cfg.Profile == nil {
		return nil, errors.New("session: profile is required")
	}
	if cfg.ID == "" {
		cfg.ID = uuid.NewString()
	}
	if cfg.RNG == nil {
		cfg.RNG = NewSeededRNG()
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.StandardLogger()
	}
	params := DefaultAlertParams()
	if cfg.Alert != (AlertParams{}) {
		params = SanitizeAlertParams(cfg.Alert)
	}
	if cfg.Duration <= 0 {
		cfg.Duration = MissionDuration
	}
	if cfg.Progression == nil {
		cfg.Progression = progressionGraph()
	}

	s := &Session{
		ID:                 cfg.ID,
		Mission:            cfg.Mission,
		Profile:            cfg.Profile,
		Duration:           cfg.Duration,
		state:              StateDisconnected,
		running:            true,
		alert:              AlertGauge{P: params},
		detectedAt:         -1,
		compromisedTargets: map[string]bool{},
		exfiltrated:        map[string]bool{},
		botnet:             map[string]bool{},
		encrypted:          map[string]*RansomRecord{},
		payloads:           map[string]map[string]float64{},
		loadout:            NewLoadout(cfg.Profile),
		bonuses:            map[string][]TemporaryBonus{},
		objectives:         make([]bool, len(cfg.Mission.Objectives)),
		toolsUsed:          map[string]bool{},
		firstPaymentDelay:  -1,
		rng:                cfg.RNG,
		persist:            cfg.Persistence,
		graph:              cfg.Progression,
	}
	s.log = cfg.Logger.WithFields(logrus.Fields{
		"session": s.ID,
		"profile": cfg.Profile.ID,
		"mission": cfg.Mission.ID,
	})
	if cfg.Targets != nil {
		s.targets = cfg.Targets
	} else {
		primary, secondary := GenerateTargets(cfg.Mission.ID, s.rng)
		s.targets = append(primary, secondary...)
	}
	s.log.WithField("targets", len(s.targets)).Info("mission session started")
	return s, nil
}

// State returns the current connection state.
func (s *Session) State() SessionState { return s.state }

// Running reports whether the session still accepts commands.
func (s *Session) Running() bool { return s.running }

// Completed reports whether the reward engine fired.
func (s *Session) Completed() bool { return s.completed }

// AlertLevel returns the gauge value.
func (s *Session) AlertLevel() float64 { return s.alert.Value }

// Detected reports whether detection latched.
func (s *Session) Detected() bool { return s.alert.Detected }

// Targets returns the mission's targets in generation order.
func (s *Session) Targets() []*Target { return s.targets }

// CurrentTarget returns the connected target, if any.
func (s *Session) CurrentTarget() *Target { return s.current }

// Loadout returns the session tool loadout.
func (s *Session) Loadout() *Loadout { return s.loadout }

// Stolen returns a copy of the stolen data list.
func (s *Session) Stolen() []StolenData { return append([]StolenData(nil), s.stolen...) }

// BotnetSize returns the number of enrolled machines.
func (s *Session) BotnetSize() int { return len(s.botnetOrder) }

// StolenValue sums the value of every stolen item.
func (s *Session) StolenValue() int {
	total := 0
	for _, d := range s.stolen {
		total += d.Value
	}
	return total
}

func (s *Session) transition(to SessionState) error {
	if s.state == to {
		return nil
	}
	if !CanTransition(s.state, to) {
		return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, s.state, to)
	}
	s.log.WithFields(logrus.Fields{"from": s.state, "to": to}).Debug("session transition")
	s.state = to
	return nil
}

// terminate ends the session; later commands short-circuit.
func (s *Session) terminate(reason string) {
	if s.state == StateTerminated {
		return
	}
	s.running = false
	if err := s.transition(StateTerminated); err != nil {
		s.log.WithError(err).Warn("terminate")
	}
	s.log.WithFields(logrus.Fields{"reason": reason, "alert": s.alert.Value}).Info("mission session terminated")
}

func (s *Session) emit(lines ...string) {
	s.pending = append(s.pending, lines...)
}

func (s *Session) drain() []string {
	out := s.pending
	s.pending = nil
	return out
}

// UpdateAlertLevel applies amount divided by the stealth bonus to the gauge.
// Crossing the detection threshold for the first time runs the detection routine.
func (s *Session) UpdateAlertLevel(amount float64) {
	if s.alert.Raise(amount, s.StealthBonus()) {
		s.detectedAt = s.Now
		s.emit("! ALERTE ! Intrusion détectée !")
		s.handleDetection()
	}
}

func (s *Session) handleDetection() {
	s.emit(
		"! SYSTÈME DE SÉCURITÉ ACTIVÉ !",
		"Traçage de la connexion en cours...",
		"Recommandation: Terminer la mission",
	)
	if chance(s.rng, s.alert.P.DetectionKillChance) {
		s.emit("Connexion terminée par la cible")
		s.terminate("traced")
	}
}

// activeBonus sums the unexpired temporary bonuses of a category.
func (s *Session) activeBonus(category string) float64 {
	total := 0.0
	for _, b := range s.bonuses[category] {
		if b.Expiry > s.Now {
			total += b.Value
		}
	}
	return total
}

func (s *Session) grantBonus(category string, value, duration float64) {
	s.bonuses[category] = append(s.bonuses[category], TemporaryBonus{Value: value, Expiry: s.Now + duration})
}

// StealthBonus is the divisor applied to alert deltas.
func (s *Session) StealthBonus() float64 {
	b := 1.0
	if s.loadout.Has(ToolVPN) {
		b += 0.3
	}
	if s.loadout.Has(ToolCleaner) {
		b += 0.2
	}
	b *= ActionMultiplier(s.Profile.Faction, ActionStealth)
	return b * (1 + s.activeBonus(BonusStealth))
}

// ToolBonus is the additive success chance bonus for "crack" or "exploit".
func (s *Session) ToolBonus(kind string) float64 {
	bonus := 0.0
	switch kind {
	case "crack":
		if s.loadout.Has(ToolRootkit) {
			bonus = 0.4 * ActionMultiplier(s.Profile.Faction, ActionHack)
		}
	case "exploit":
		if s.loadout.Has(ToolExploitKit) {
			bonus = 0.3 * ActionMultiplier(s.Profile.Faction, ActionExploit)
		}
	default:
		return 0
	}
	return bonus + s.activeBonus(BonusHack)
}

// useTool wears a tool and records its use. Missing tools are ignored.
func (s *Session) useTool(tool string, u Usage) {
	if !s.loadout.Has(tool) {
		return
	}
	s.toolsUsed[tool] = true
	if s.loadout.Use(tool, u) {
		s.emit(fmt.Sprintf("! Attention ! %s est hors service", tool))
		s.log.WithField("tool", tool).Info("tool broke")
	}
}

func (s *Session) trace(format string, args ...interface{}) {
	s.traces = append(s.traces, fmt.Sprintf(format, args...))
}

func (s *Session) currentCompromised() bool {
	return s.current != nil && s.compromisedTargets[s.current.ID]
}

// markCompromised records a successful intrusion on the current target.
func (s *Session) markCompromised() {
	if err := s.transition(StateCompromised); err != nil {
		s.log.WithError(err).Warn("compromise rejected")
		return
	}
	s.compromised = true
	if !s.compromisedTargets[s.current.ID] {
		s.compromisedTargets[s.current.ID] = true
		s.hacks++
	}
	s.trace("Intrusion sur %s (%s)", s.current.Name, s.current.IP)
}

func (s *Session) targetByIP(ip string) *Target {
	for _, t := range s.targets {
		if t.IP == ip {
			return t
		}
	}
	return nil
}

func (s *Session) targetByID(id string) *Target {
	for _, t := range s.targets {
		if t.ID == id {
			return t
		}
	}
	return nil
}

func (s *Session) criticalCompromised() int {
	n := 0
	for _, t := range s.targets {
		if t.Critical && s.compromisedTargets[t.ID] {
			n++
		}
	}
	return n
}

func (s *Session) anySystemModified() bool {
	for _, t := range s.targets {
		if t.AnyModified() {
			return true
		}
	}
	return false
}

func (s *Session) paidRansoms() int {
	n := 0
	for _, r := range s.encrypted {
		if r.Paid {
			n++
		}
	}
	return n
}

func (s *Session) paidRansomTotal() int {
	total := 0
	for _, r := range s.encrypted {
		if r.Paid {
			total += r.Amount
		}
	}
	return total
}

// remainingMinutes is the whole minutes left before timeout.
func (s *Session) remainingMinutes() int {
	return int((s.Duration - s.Now) / 60)
}

// checkpoint mirrors the loadout into the profile and saves it. Failures are
// logged and reported as false.
func (s *Session) checkpoint() bool {
	s.lastSave = s.Now
	s.loadout.MirrorInto(s.Profile)
	if s.persist == nil {
		return true
	}
	if err := s.persist.Save(s.Profile); err != nil {
		s.log.WithError(err).Error("profile save failed")
		return false
	}
	s.log.Debug("profile saved")
	return true
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func yesNo(b bool) string {
	if b {
		return "Oui"
	}
	return "Non"
}

func percent(v float64) string {
	return strings.TrimSuffix(fmt.Sprintf("%.1f", v), ".0") + "%"
}
