package game

import (
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
)

// stubRNG replays queued draws. An empty float queue yields 0.99 so every
// chance roll fails; an empty int queue yields 0.
type stubRNG struct {
	floats []float64
	ints   []int
}

func (r *stubRNG) Float64() float64 {
	if len(r.floats) == 0 {
		return 0.99
	}
	v := r.floats[0]
	r.floats = r.floats[1:]
	return v
}

func (r *stubRNG) Intn(n int) int {
	if len(r.ints) == 0 || n <= 0 {
		return 0
	}
	v := r.ints[0]
	r.ints = r.ints[1:]
	return v % n
}

func (r *stubRNG) queue(draws ...float64) {
	r.floats = append(r.floats, draws...)
}

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// bareProfile has no tools so the stealth divisor stays at 1.0.
func bareProfile() *PlayerProfile {
	p := NewPlayerProfile("p1", FactionVeilleurs)
	p.Tools = nil
	p.ToolDurability = map[string]float64{}
	return p
}

func testTargets() []*Target {
	corp := NewTarget("INF_1", "Global Corp", TargetCorporate, SecurityLow, "10.0.0.1",
		[]int{22, 80}, []string{"SQL Injection", "Weak Password"})
	corp.SecuritySystems["firewall"] = &SecuritySystem{Active: true}
	gov := NewTarget("INF_2", "State Agency", TargetGovernment, SecurityExtreme, "10.0.0.2",
		[]int{443}, []string{"SMB Exploit"})
	gov.Critical = true
	return []*Target{corp, gov}
}

type sessionOpt func(*SessionConfig)

func withProfile(p *PlayerProfile) sessionOpt {
	return func(c *SessionConfig) { c.Profile = p }
}

func withMission(key string) sessionOpt {
	return func(c *SessionConfig) {
		m, err := GetMission(key)
		if err != nil {
			panic(err)
		}
		c.Mission = m
	}
}

func withPersistence(p Persistence) sessionOpt {
	return func(c *SessionConfig) { c.Persistence = p }
}

func newTestSession(t *testing.T, rng *stubRNG, opts ...sessionOpt) *Session {
	t.Helper()
	m, err := GetMission("infiltration_1")
	if err != nil {
		t.Fatalf("mission: %v", err)
	}
	cfg := SessionConfig{
		ID:      "s1",
		Mission: m,
		Profile: bareProfile(),
		RNG:     rng,
		Logger:  quietLogger(),
		Targets: testTargets(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	s, err := NewSession(cfg)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	return s
}

// compromise connects to t and marks it compromised without rolling dice.
func compromise(s *Session, t *Target) {
	s.current = t
	s.state = StateCompromised
	s.compromised = true
	s.compromisedTargets[t.ID] = true
}

func contains(lines []string, want string) bool {
	for _, l := range lines {
		if l == want {
			return true
		}
	}
	return false
}

func count(lines []string, want string) int {
	n := 0
	for _, l := range lines {
		if l == want {
			n++
		}
	}
	return n
}

// TestNewSessionValidation rejects missing collaborators.
func TestNewSessionValidation(t *testing.T) {
	m, _ := GetMission("infiltration_1")
	if _, err := NewSession(SessionConfig{Profile: bareProfile()}); err == nil {
		t.Fatalf("expected error without mission")
	}
	if _, err := NewSession(SessionConfig{Mission: m}); err == nil {
		t.Fatalf("expected error without profile")
	}
	broken := *m
	broken.Objectives = broken.Objectives[:1]
	if _, err := NewSession(SessionConfig{Mission: &broken, Profile: bareProfile()}); err == nil {
		t.Fatalf("expected error for mismatched objectives")
	}
}

// TestNewSessionDefaults fills id, targets and alert params.
func TestNewSessionDefaults(t *testing.T) {
	m, _ := GetMission("botnet_1")
	s, err := NewSession(SessionConfig{Mission: m, Profile: bareProfile(), RNG: NewRNG(7), Logger: quietLogger()})
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	if s.ID == "" {
		t.Fatalf("expected generated session id")
	}
	if len(s.Targets()) == 0 {
		t.Fatalf("expected generated targets")
	}
	if s.alert.P != DefaultAlertParams() {
		t.Fatalf("expected default alert params")
	}
	if s.State() != StateDisconnected || !s.Running() {
		t.Fatalf("unexpected initial state %s running=%v", s.State(), s.Running())
	}
	if s.Duration != MissionDuration {
		t.Fatalf("expected default duration, got %v", s.Duration)
	}
}

// TestAlertClampAndDetectionLatch covers a fresh gauge pushed past the detection threshold.
func TestAlertClampAndDetectionLatch(t *testing.T) {
	s := newTestSession(t, &stubRNG{})

	s.UpdateAlertLevel(60)
	if s.AlertLevel() != 60 || s.Detected() {
		t.Fatalf("after +60: alert=%v detected=%v", s.AlertLevel(), s.Detected())
	}
	s.UpdateAlertLevel(50)
	if s.AlertLevel() != 100 || !s.Detected() {
		t.Fatalf("after +50: alert=%v detected=%v", s.AlertLevel(), s.Detected())
	}
	s.UpdateAlertLevel(10)
	s.UpdateAlertLevel(-200)
	if s.AlertLevel() != 0 {
		t.Fatalf("expected clamp to 0, got %v", s.AlertLevel())
	}
	if !s.Detected() {
		t.Fatalf("detection must stay latched")
	}
	lines := s.drain()
	if n := count(lines, "! ALERTE ! Intrusion détectée !"); n != 1 {
		t.Fatalf("expected one detection notice, got %d", n)
	}
	if !s.Running() {
		t.Fatalf("0.99 draw must not terminate the session")
	}
}

// TestDetectionCanTerminate ends the session when the kill roll succeeds.
func TestDetectionCanTerminate(t *testing.T) {
	rng := &stubRNG{}
	s := newTestSession(t, rng)
	rng.queue(0.1)
	s.UpdateAlertLevel(90)
	if s.Running() || s.State() != StateTerminated {
		t.Fatalf("expected termination, state=%s", s.State())
	}
	if !contains(s.drain(), "Connexion terminée par la cible") {
		t.Fatalf("missing termination notice")
	}
}

// TestStealthBonusDividesAlert checks tools and faction scale the delta.
func TestStealthBonusDividesAlert(t *testing.T) {
	p := NewPlayerProfile("p1", FactionSpectres)
	p.AddTool(ToolCleaner)
	s := newTestSession(t, &stubRNG{}, withProfile(p))
	want := (1 + 0.3 + 0.2) * 1.3
	if got := s.StealthBonus(); got < want-1e-9 || got > want+1e-9 {
		t.Fatalf("stealth bonus %v, want %v", got, want)
	}
	s.UpdateAlertLevel(39)
	if got := s.AlertLevel(); got < 20-1e-9 || got > 20+1e-9 {
		t.Fatalf("alert %v, want 20", got)
	}
}

// TestTransitionTable forbids leaving Terminated and skipping states.
func TestTransitionTable(t *testing.T) {
	all := []SessionState{StateDisconnected, StateConnected, StateCompromised, StateTerminated}
	for _, to := range all {
		if CanTransition(StateTerminated, to) {
			t.Fatalf("Terminated -> %s must be illegal", to)
		}
	}
	if CanTransition(StateCompromised, StateConnected) {
		t.Fatalf("Compromised -> Connected must be illegal")
	}
	s := newTestSession(t, &stubRNG{})
	s.state = StateTerminated
	if err := s.transition(StateConnected); !errors.Is(err, ErrIllegalTransition) {
		t.Fatalf("expected ErrIllegalTransition, got %v", err)
	}
}

// TestExitIsIrreversible rejects every command after exit.
func TestExitIsIrreversible(t *testing.T) {
	s := newTestSession(t, &stubRNG{})
	out := s.Execute("exit")
	if !contains(out, "Déconnexion...") {
		t.Fatalf("unexpected exit output %v", out)
	}
	for _, line := range []string{"scan", "connect 10.0.0.1", "help"} {
		if got := s.Execute(line); len(got) != 1 || got[0] != "Session terminée" {
			t.Fatalf("%q after exit returned %v", line, got)
		}
	}
	if s.Tick(1) != nil {
		t.Fatalf("tick after exit must be a no-op")
	}
	if s.State() != StateTerminated {
		t.Fatalf("state %s, want terminated", s.State())
	}
}

// TestCheckpointFailureIsReported turns a save error into false.
func TestCheckpointFailureIsReported(t *testing.T) {
	s := newTestSession(t, &stubRNG{}, withPersistence(failingPersistence{}))
	if s.checkpoint() {
		t.Fatalf("expected checkpoint to report failure")
	}
	if !s.Running() {
		t.Fatalf("save failure must not stop the session")
	}
}

type failingPersistence struct{}

func (failingPersistence) Save(*PlayerProfile) error     { return errors.New("disk full") }
func (failingPersistence) Load() (*PlayerProfile, error) { return nil, ErrProfileNotFound }

// TestSnapshotReflectsSession exposes the public view of a session.
func TestSnapshotReflectsSession(t *testing.T) {
	s := newTestSession(t, &stubRNG{})
	compromise(s, s.Targets()[0])
	s.UpdateAlertLevel(12)
	snap := s.Snapshot()
	if snap.State != "compromised" || snap.CurrentTarget != "INF_1" {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
	if snap.Alert != 12 || len(snap.Objectives) != 3 || !snap.Objectives[0].Complete {
		t.Fatalf("unexpected snapshot objectives %+v", snap)
	}
	if snap.Remaining != MissionDuration {
		t.Fatalf("remaining %v", snap.Remaining)
	}
}
