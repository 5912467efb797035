package game

import "testing"

// TestEventAlertModifier stacks the state modifiers multiplicatively.
func TestEventAlertModifier(t *testing.T) {
	tests := []struct {
		name                          string
		faction                       bool
		compromised, stolen, ransomed bool
		want                          float64
	}{
		{"plain", false, false, false, false, 1.0},
		{"compromised", false, true, false, false, 1.2},
		{"all state", false, true, true, true, 1.2 * 1.1 * 1.3},
		{"faction discount", true, true, false, false, 1.2 * 0.7},
	}
	for _, tc := range tests {
		got := EventAlertModifier(RandomEvent{Faction: tc.faction}, tc.compromised, tc.stolen, tc.ransomed)
		if !near(got, tc.want) {
			t.Errorf("%s: modifier %v, want %v", tc.name, got, tc.want)
		}
	}
}

// TestEventPoolComposition adds faction events only on request.
func TestEventPoolComposition(t *testing.T) {
	base := EventPool(MissionBotnet, FactionForgeurs, false)
	if len(base) != len(baseEvents)+3 {
		t.Fatalf("pool size %d", len(base))
	}
	with := EventPool(MissionBotnet, FactionForgeurs, true)
	if len(with) != len(base)+3 || !with[len(with)-1].Faction {
		t.Fatalf("faction events missing: %+v", with)
	}
}

// TestRollRandomEventChance only fires under the 5% roll.
func TestRollRandomEventChance(t *testing.T) {
	rng := &stubRNG{}
	s := newTestSession(t, rng)
	if _, ok := s.rollRandomEvent(); ok {
		t.Fatalf("0.99 draw must not fire an event")
	}
	rng.queue(0.01, 0.99)
	ev, ok := s.rollRandomEvent()
	if !ok || ev.Label != "Alerte de sécurité" {
		t.Fatalf("expected first base event, got %+v", ev)
	}
	rng.queue(0.01, 0.1)
	rng.ints = []int{len(baseEvents) + 3}
	ev, ok = s.rollRandomEvent()
	if !ok || !ev.Faction || ev.Label != "Analyse avancée" {
		t.Fatalf("expected first Veilleurs event, got %+v", ev)
	}
}

// TestApplyRandomEventAlertAndCounter scales the delta and counts hostile events.
func TestApplyRandomEventAlertAndCounter(t *testing.T) {
	s := newTestSession(t, &stubRNG{})
	compromise(s, s.Targets()[0])
	s.applyRandomEvent(baseEvents[0])
	if !near(s.AlertLevel(), 18) {
		t.Fatalf("alert %v, want 18", s.AlertLevel())
	}
	if s.securityEvents != 1 {
		t.Fatalf("security events %d", s.securityEvents)
	}
	out := s.drain()
	if out[0] != "! Alerte de sécurité !" || out[1] != "Scan de sécurité détecté..." {
		t.Fatalf("unexpected event lines %v", out)
	}
	s.applyRandomEvent(baseEvents[1])
	if s.securityEvents != 1 {
		t.Fatalf("calming events must not count")
	}
}

// TestEventKeywordBonuses grants a five minute bonus per keyword family.
func TestEventKeywordBonuses(t *testing.T) {
	tests := []struct {
		event    RandomEvent
		category string
	}{
		{factionEvents[FactionSpectres][0], BonusHack},
		{factionEvents[FactionForgeurs][0], BonusHack},
		{factionEvents[FactionSpectres][1], BonusStealth},
		{factionEvents[FactionSpectres][2], BonusStealth},
		{factionEvents[FactionVeilleurs][0], BonusDetection},
		{factionEvents[FactionVeilleurs][2], BonusDetection},
	}
	for _, tc := range tests {
		s := newTestSession(t, &stubRNG{})
		s.applyRandomEvent(tc.event)
		if got := s.activeBonus(tc.category); !near(got, TemporaryBonusValue) {
			t.Errorf("%s: %s bonus %v", tc.event.Label, tc.category, got)
		}
		s.Now += TemporaryBonusDuration
		s.sweepBonuses()
		if len(s.bonuses) != 0 {
			t.Errorf("%s: bonus must expire after five minutes", tc.event.Label)
		}
	}
}

// TestHackBonusRaisesCrackChance feeds the temporary bonus into ToolBonus.
func TestHackBonusRaisesCrackChance(t *testing.T) {
	s := newTestSession(t, &stubRNG{})
	s.grantBonus(BonusHack, 0.2, 300)
	if !near(s.ToolBonus("crack"), 0.2) || !near(s.ToolBonus("exploit"), 0.2) {
		t.Fatalf("hack bonus not applied")
	}
	if s.ToolBonus("stealth") != 0 {
		t.Fatalf("unknown kinds carry no bonus")
	}
}
