package game

import (
	"math"
	"testing"
)

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

// TestTickBotnetIncome pays the botnet once per minute with hardware bonuses.
func TestTickBotnetIncome(t *testing.T) {
	s := newTestSession(t, &stubRNG{})
	s.botnetOrder = []string{"INF_1", "INF_2"}
	credits := s.Profile.Credits

	s.Tick(30)
	if s.Profile.Credits != credits {
		t.Fatalf("income paid before the interval")
	}
	s.Tick(30)
	// 2 * 50 * 1.1 * 1.1
	if got := s.Profile.Credits - credits; got != 121 {
		t.Fatalf("botnet income %d, want 121", got)
	}
	if s.AlertLevel() <= 0 {
		t.Fatalf("botnet income must raise alert")
	}
}

// TestTickToolDecayWhileCompromised wears every tool by its rate and cooling.
func TestTickToolDecayWhileCompromised(t *testing.T) {
	p := NewPlayerProfile("p1", FactionVeilleurs)
	p.AddTool(ToolRootkit)
	p.AddTool(ToolDecryptor)
	store := NewMemoryPersistence()
	s := newTestSession(t, &stubRNG{}, withProfile(p), withPersistence(store))

	s.Tick(300)
	if s.Loadout().Durability[ToolVPN] != 100 {
		t.Fatalf("tools must not decay before a compromise")
	}

	compromise(s, s.Targets()[0])
	s.Tick(300)
	want := map[string]float64{ToolVPN: 100 - 3*0.9, ToolRootkit: 100 - 4*0.9, ToolDecryptor: 100 - 2*0.9}
	for tool, d := range want {
		if got := s.Loadout().Durability[tool]; !near(got, d) {
			t.Errorf("%s durability %v, want %v", tool, got, d)
		}
	}
	if store.Saves() != 2 {
		t.Fatalf("expected an autosave every 300s, got %d", store.Saves())
	}
}

// TestTickToolDecayBreaksTool removes a worn out tool and warns.
func TestTickToolDecayBreaksTool(t *testing.T) {
	s := newTestSession(t, &stubRNG{})
	s.loadout.Add(ToolVPN)
	s.loadout.Degrade(ToolVPN, 98)
	compromise(s, s.Targets()[0])
	out := s.Tick(ToolDecayInterval)
	if s.Loadout().Has(ToolVPN) {
		t.Fatalf("worn out vpn must be removed")
	}
	if !contains(out, "! Attention ! vpn est hors service") {
		t.Fatalf("missing breakage notice in %v", out)
	}
}

// TestTickAlertDecay subtracts the amplified decay every 30s.
func TestTickAlertDecay(t *testing.T) {
	p := bareProfile()
	p.AddTool(ToolVPN)
	p.AddTool(ToolCleaner)
	s := newTestSession(t, &stubRNG{}, withProfile(p))
	s.alert.Value = 40

	s.Tick(29)
	if s.AlertLevel() != 40 {
		t.Fatalf("decay before the interval: %v", s.AlertLevel())
	}
	s.Tick(1)
	if got := s.AlertLevel(); !near(got, 40-0.5*1.5*1.3) {
		t.Fatalf("alert after decay %v", got)
	}
}

// TestTickAlertTiers fires the tier effects on their rolls.
func TestTickAlertTiers(t *testing.T) {
	tests := []struct {
		name   string
		alert  float64
		notice string
		alive  bool
		delta  float64
	}{
		{"critical", 95, "! ALERTE CRITIQUE ! Déconnexion imminente", false, -0.5},
		{"reinforced", 80, "! Sécurité renforcée activée !", true, -0.5 + 5},
		{"surveillance", 60, "! Surveillance accrue détectée !", true, -0.5 + 2},
	}
	for _, tc := range tests {
		rng := &stubRNG{}
		s := newTestSession(t, rng)
		s.alert.Value = tc.alert
		s.alert.Detected = true
		rng.queue(0.05)
		out := s.Tick(AlertDecayInterval)
		if !contains(out, tc.notice) {
			t.Errorf("%s: missing %q in %v", tc.name, tc.notice, out)
		}
		if s.Running() != tc.alive {
			t.Errorf("%s: running=%v", tc.name, s.Running())
		}
		if !near(s.AlertLevel(), tc.alert+tc.delta) {
			t.Errorf("%s: alert %v, want %v", tc.name, s.AlertLevel(), tc.alert+tc.delta)
		}
	}
}

// TestTickPayloads applies miner income and expires old payloads.
func TestTickPayloads(t *testing.T) {
	rng := &stubRNG{}
	s := newTestSession(t, rng)
	s.payloads["INF_1"] = map[string]float64{"miner": 0, "keylogger": 0}
	s.payloads["INF_2"] = map[string]float64{"trojan": -PayloadLifetime - 100}
	credits := s.Profile.Credits

	// keylogger roll succeeds
	rng.queue(0.1)
	s.Tick(PayloadInterval)
	if s.Profile.Credits-credits != MinerCreditsPerCycle || s.miningIncome != MinerCreditsPerCycle {
		t.Fatalf("miner income not applied: %d", s.Profile.Credits-credits)
	}
	if len(s.stolen) != 1 || s.stolen[0].Label != "Données keylogger" || s.stolen[0].Kind != lootAutomated {
		t.Fatalf("keylogger loot %+v", s.stolen)
	}
	if _, ok := s.payloads["INF_2"]; ok {
		t.Fatalf("expired payload target must be removed")
	}
	// (8 + 5) * 0.1 after a decay pass on an empty gauge
	if !near(s.AlertLevel(), 1.3) {
		t.Fatalf("payload alert %v, want 1.3", s.AlertLevel())
	}
}

// TestTickTimeout terminates the session at the mission duration.
func TestTickTimeout(t *testing.T) {
	s := newTestSession(t, &stubRNG{})
	s.Now = MissionDuration - 1
	out := s.Tick(1)
	if !contains(out, "Temps écoulé - Mission terminée") {
		t.Fatalf("missing timeout notice in %v", out)
	}
	if s.State() != StateTerminated || s.Completed() {
		t.Fatalf("timeout must terminate without completion")
	}
}

// TestTickCompletesMission fires the reward engine when every objective holds.
func TestTickCompletesMission(t *testing.T) {
	rng := &stubRNG{}
	store := NewMemoryPersistence()
	s := newTestSession(t, rng, withPersistence(store))

	s.Execute("connect 10.0.0.1")
	rng.queue(0.5)
	s.Execute("crack")
	s.Execute("exfiltrate file passwords.txt")
	s.alert.Value = 10

	out := s.Tick(1)
	if !s.Completed() || s.Running() {
		t.Fatalf("expected completion and termination")
	}
	// 1000 * 1.6 * 1.5 * 1.2 * 1.2 (three secondaries, Veilleurs infiltration)
	if r := s.Reward(); r == nil || r.Final != 3456 {
		t.Fatalf("reward %+v", s.Reward())
	}
	if !contains(out, "=== Mission Accomplie ! ===") || !contains(out, "Récompense finale : 3456¢") {
		t.Fatalf("missing completion block in %v", out)
	}
	p := s.Profile
	if p.Credits != 1000+3456 || p.Level != 2 || !p.HasCompleted("INF_001") {
		t.Fatalf("profile not updated: %+v", p)
	}
	if p.Stats.MissionsCompleted != 1 || p.Stats.StealthMissions != 1 || p.Stats.SuccessfulHacks != 1 {
		t.Fatalf("stats %+v", p.Stats)
	}
	if p.Stats.DataStolenValue != 800 {
		t.Fatalf("data stolen value %d", p.Stats.DataStolenValue)
	}
	if store.Saves() != 1 {
		t.Fatalf("expected one save at completion, got %d", store.Saves())
	}
	if s.CompleteMission() != s.Reward() {
		t.Fatalf("completion must only fire once")
	}
	if p.Level != 2 {
		t.Fatalf("repeated completion changed the profile")
	}
}
