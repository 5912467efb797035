package game

import (
	"strings"
	"testing"
)

// TestGenerateTargetsInvariants checks counts, ids and address uniqueness over many seeds.
func TestGenerateTargetsInvariants(t *testing.T) {
	for seed := int64(1); seed <= 200; seed++ {
		primary, secondary := GenerateTargets("INF_001", NewRNG(seed))
		if len(primary) < 1 || len(primary) > 3 {
			t.Fatalf("seed %d: %d primary targets", seed, len(primary))
		}
		if len(secondary) > 2 {
			t.Fatalf("seed %d: %d secondary targets", seed, len(secondary))
		}
		ips := map[string]bool{}
		ids := map[string]bool{}
		for _, tgt := range append(append([]*Target(nil), primary...), secondary...) {
			if ips[tgt.IP] || ids[tgt.ID] {
				t.Fatalf("seed %d: duplicate target %s %s", seed, tgt.ID, tgt.IP)
			}
			ips[tgt.IP] = true
			ids[tgt.ID] = true
			if !tgt.SystemActive("firewall") {
				t.Fatalf("seed %d: %s without firewall", seed, tgt.ID)
			}
		}
		for _, tgt := range primary {
			if !strings.HasPrefix(tgt.ID, "INF_") {
				t.Fatalf("seed %d: primary id %s", seed, tgt.ID)
			}
			if tgt.Type != TargetCorporate && tgt.Type != TargetResearch {
				t.Fatalf("seed %d: infiltration drew %s", seed, tgt.Type)
			}
			critical := tgt.Type == TargetInfrastructure || tgt.Type == TargetGovernment
			if tgt.Critical != critical {
				t.Fatalf("seed %d: %s critical=%v", seed, tgt.ID, tgt.Critical)
			}
			if len(tgt.Vulnerabilities) < 2 || len(tgt.Ports) < 2 {
				t.Fatalf("seed %d: %s too bare: %v %v", seed, tgt.ID, tgt.Ports, tgt.Vulnerabilities)
			}
			if tgt.DataValue < 1000 || tgt.DataValue > 5000 {
				t.Fatalf("seed %d: data value %d", seed, tgt.DataValue)
			}
		}
		for _, tgt := range secondary {
			if !tgt.Secondary || tgt.Security != SecurityMedium || !strings.HasPrefix(tgt.ID, "SEC_INF_001_") {
				t.Fatalf("seed %d: secondary %+v", seed, tgt)
			}
		}
	}
}

// TestGenerateTargetsSabotageIsCritical only draws infrastructure or government for sabotage.
func TestGenerateTargetsSabotageIsCritical(t *testing.T) {
	for seed := int64(1); seed <= 50; seed++ {
		primary, _ := GenerateTargets("SAB_001", NewRNG(seed))
		for _, tgt := range primary {
			if !tgt.Critical || tgt.Security != SecurityExtreme {
				t.Fatalf("seed %d: sabotage target %s not critical", seed, tgt.ID)
			}
		}
	}
}

// TestGenerateTargetsDeterministic reproduces a layout from its seed.
func TestGenerateTargetsDeterministic(t *testing.T) {
	a, _ := GenerateTargets("BOT_001", NewRNG(42))
	b, _ := GenerateTargets("BOT_001", NewRNG(42))
	if len(a) != len(b) {
		t.Fatalf("layouts differ in size")
	}
	for i := range a {
		if a[i].IP != b[i].IP || a[i].Name != b[i].Name {
			t.Fatalf("target %d differs: %s/%s", i, a[i].IP, b[i].IP)
		}
	}
}

// TestUniqueIPFallsBackOnCollisions derives an address when every draw collides.
func TestUniqueIPFallsBackOnCollisions(t *testing.T) {
	rng := &stubRNG{}
	used := map[string]bool{randomIP(&stubRNG{}): true}
	ip := uniqueIP(rng, used)
	if ip != "10.0.0.2" || !used[ip] {
		t.Fatalf("fallback ip %q", ip)
	}
}

// TestListFilesGlyphs sorts entries and marks encrypted ones with a lock.
func TestListFilesGlyphs(t *testing.T) {
	tgt := NewTarget("INF_1", "Global Corp", TargetCorporate, SecurityLow, "10.0.0.1", nil, nil)
	want := []string{
		"contracts.pdf (2.1GB) - 🔒",
		"employee_data.xlsx (250MB) - 📄",
		"passwords.txt (156KB) - 📄",
	}
	got := tgt.ListFiles()
	if len(got) != len(want) {
		t.Fatalf("listing %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d: %q, want %q", i, got[i], want[i])
		}
	}
	if dbs := tgt.ListDatabases(); dbs[0] != "emails.db (3.1GB) - 🗃️" {
		t.Fatalf("database listing %v", dbs)
	}
	if tgt.TotalDataValue() != 1500+2500+1000+800+1200+1500 {
		t.Fatalf("total data value %d", tgt.TotalDataValue())
	}
}

// TestConnectionRisk combines protocol, hardening and faction detection.
func TestConnectionRisk(t *testing.T) {
	tests := []struct {
		port     int
		security SecurityLevel
		faction  Faction
		want     int
	}{
		{22, SecurityLow, FactionVeilleurs, 10},
		{22, SecurityLow, FactionSpectres, 8},
		{9999, SecurityExtreme, FactionForgeurs, 56},
		{23, SecurityMedium, FactionVeilleurs, 30},
		{443, SecurityHigh, FactionVeilleurs, 15},
	}
	for _, tc := range tests {
		if got := ConnectionRisk(tc.port, tc.security, tc.faction); got != tc.want {
			t.Errorf("ConnectionRisk(%d, %s, %s) = %d, want %d", tc.port, tc.security, tc.faction, got, tc.want)
		}
	}
}
