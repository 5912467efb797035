package game

import (
	"errors"
	"testing"
)

// TestCatalogMissionsValidate checks every catalog entry is usable by a session.
func TestCatalogMissionsValidate(t *testing.T) {
	for key, m := range MissionRegistry {
		m := m
		if err := m.Validate(); err != nil {
			t.Errorf("mission %s: %v", key, err)
		}
		if m.Key != key {
			t.Errorf("mission %s registered under %s", m.Key, key)
		}
	}
}

// TestFastPaymentReachable keeps fast-payment thresholds above the ransom
// deadline, since payments only land once the deadline expires.
func TestFastPaymentReachable(t *testing.T) {
	for key, m := range MissionRegistry {
		for _, sec := range m.SecondaryObjectives {
			if sec.Kind == SecondaryFastPayment && sec.Threshold <= RansomDeadline {
				t.Errorf("mission %s: fast payment threshold %.0fs unreachable", key, sec.Threshold)
			}
		}
	}
}

// TestGetMissionByKeyAndID resolves both catalog keys and mission ids.
func TestGetMissionByKeyAndID(t *testing.T) {
	byKey, err := GetMission("data_theft_1")
	if err != nil {
		t.Fatalf("expected data_theft_1, got %v", err)
	}
	byID, err := GetMission("DAT_001")
	if err != nil {
		t.Fatalf("expected DAT_001, got %v", err)
	}
	if byKey.ID != byID.ID || byKey.Title != "Vol de données bancaires" {
		t.Fatalf("lookups disagree: %s vs %s", byKey.ID, byID.ID)
	}
	if _, err := GetMission("invalid"); !errors.Is(err, ErrMissionNotFound) {
		t.Fatalf("expected ErrMissionNotFound, got %v", err)
	}
}

// TestMissionValidateRejects refuses malformed definitions.
func TestMissionValidateRejects(t *testing.T) {
	base, _ := GetMission("infiltration_1")
	cases := map[string]func(m *Mission){
		"empty id":       func(m *Mission) { m.ID = "" },
		"no title":       func(m *Mission) { m.Title = "" },
		"bad type":       func(m *Mission) { m.Type = "Phishing" },
		"difficulty":     func(m *Mission) { m.Difficulty = 6 },
		"reward":         func(m *Mission) { m.Reward = -1 },
		"secondary kind": func(m *Mission) { m.SecondaryObjectives = []SecondaryObjective{{Kind: "luck"}} },
	}
	for name, mutate := range cases {
		m := *base
		mutate(&m)
		if err := m.Validate(); err == nil {
			t.Errorf("%s: expected validation error", name)
		}
	}
	var nilMission *Mission
	if err := nilMission.Validate(); err == nil {
		t.Fatalf("nil mission must not validate")
	}
}

// TestAvailableMissionsFiltersByLevel hides missions above the player level and completed ones.
func TestAvailableMissionsFiltersByLevel(t *testing.T) {
	p := NewPlayerProfile("p1", FactionSpectres)
	got := AvailableMissions(p)
	if len(got) != 1 || got[0].Key != "infiltration_1" {
		t.Fatalf("level 1 missions %+v", got)
	}
	p.Level = 3
	p.CompletedMissions = []string{"INF_001"}
	got = AvailableMissions(p)
	if len(got) != 3 {
		t.Fatalf("level 3 missions %d", len(got))
	}
	for _, m := range got {
		if m.ID == "INF_001" {
			t.Fatalf("completed mission listed")
		}
	}
	if len(AvailableMissions(nil)) != len(MissionRegistry) {
		t.Fatalf("nil profile must list the whole catalog")
	}
}

// TestSortedMissionsOrder orders the catalog by difficulty.
func TestSortedMissionsOrder(t *testing.T) {
	ms := SortedMissions()
	for i := 1; i < len(ms); i++ {
		if ms[i-1].Difficulty > ms[i].Difficulty {
			t.Fatalf("missions out of order at %d", i)
		}
	}
	if DifficultyLabel(9) != "Inconnue" || DifficultyLabel(1) != "Facile - Idéal pour débuter" {
		t.Fatalf("unexpected difficulty labels")
	}
}

// TestParseMissionTypeAndFaction accepts names, prefixes and aliases case-insensitively.
func TestParseMissionTypeAndFaction(t *testing.T) {
	for _, raw := range []string{"Ransomware", "ran", "RANSOMWARE"} {
		if mt, err := ParseMissionType(raw); err != nil || mt != MissionRansomware {
			t.Errorf("ParseMissionType(%q) = %v, %v", raw, mt, err)
		}
	}
	if mt, err := ParseMissionType("data_theft"); err != nil || mt != MissionDataTheft {
		t.Errorf("data_theft alias: %v, %v", mt, err)
	}
	if _, err := ParseMissionType("phishing"); err == nil {
		t.Errorf("unknown mission type must fail")
	}
	if f, err := ParseFaction("veilleurs"); err != nil || f != FactionVeilleurs {
		t.Errorf("ParseFaction: %v, %v", f, err)
	}
	if _, err := ParseFaction("pirates"); err == nil {
		t.Errorf("unknown faction must fail")
	}
}

// TestRegisterMission adds a validated entry and refuses id clashes.
func TestRegisterMission(t *testing.T) {
	m, _ := GetMission("infiltration_1")
	extra := *m
	extra.Key = "infiltration_2"
	if err := RegisterMission(extra); err == nil {
		t.Fatalf("duplicate id must be rejected")
	}
	extra.ID = "INF_002"
	extra.Difficulty = 2
	if err := RegisterMission(extra); err != nil {
		t.Fatalf("register: %v", err)
	}
	defer delete(MissionRegistry, "infiltration_2")
	if got, err := GetMission("INF_002"); err != nil || got.Key != "infiltration_2" {
		t.Fatalf("lookup after register: %v", err)
	}
	extra.Key = ""
	extra.ID = "INF_003"
	if err := RegisterMission(extra); err == nil {
		t.Fatalf("missing key must be rejected")
	}
}
