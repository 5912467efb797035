package game

import "testing"

// TestAtLeastEvaluatorProgress reports fractional progress toward a counter goal.
func TestAtLeastEvaluatorProgress(t *testing.T) {
	s := newTestSession(t, &stubRNG{}, withMission("botnet_1"))
	s.botnetOrder = []string{"a", "b"}
	done, progress := objectivePredicates(MissionBotnet)[0].Evaluate(s)
	if done {
		t.Fatalf("expected botnet objective to be incomplete")
	}
	if !near(progress, 0.4) {
		t.Fatalf("expected progress 0.4, got %.2f", progress)
	}
	s.botnetOrder = append(s.botnetOrder, "c", "d", "e")
	if done, progress := objectivePredicates(MissionBotnet)[0].Evaluate(s); !done || progress != 1 {
		t.Fatalf("expected completion at five machines")
	}
}

// TestAlertBelowEvaluator is strict at the limit.
func TestAlertBelowEvaluator(t *testing.T) {
	s := newTestSession(t, &stubRNG{})
	eval := alertBelow(50)
	s.alert.Value = 49.9
	if done, _ := eval.Evaluate(s); !done {
		t.Fatalf("49.9 is below 50")
	}
	s.alert.Value = 50
	if done, progress := eval.Evaluate(s); done || progress != 0 {
		t.Fatalf("50 is not below 50")
	}
}

// TestObjectivePredicatesPerMissionType completes each mission type from a minimal state.
func TestObjectivePredicatesPerMissionType(t *testing.T) {
	tests := []struct {
		key   string
		setup func(s *Session)
	}{
		{"infiltration_1", func(s *Session) {
			compromise(s, s.Targets()[0])
			s.stolen = []StolenData{{Kind: lootFile, Value: 10}}
		}},
		{"data_theft_1", func(s *Session) {
			compromise(s, s.Targets()[0])
			s.stolen = []StolenData{{Kind: lootDatabase, Value: 2000}}
		}},
		{"ransomware_1", func(s *Session) {
			s.encrypted["INF_1"] = &RansomRecord{Amount: 2000, Paid: true}
			s.encrypted["INF_2"] = &RansomRecord{Amount: 1000, Paid: true}
		}},
		{"botnet_1", func(s *Session) {
			s.botnetOrder = []string{"a", "b", "c", "d", "e"}
			s.miningCycles = 3
		}},
		{"sabotage_1", func(s *Session) {
			compromise(s, s.Targets()[1])
			s.Targets()[1].MarkModified("security", nil)
		}},
	}
	for _, tc := range tests {
		s := newTestSession(t, &stubRNG{}, withMission(tc.key))
		s.evaluateObjectives()
		if s.allObjectivesComplete() {
			t.Errorf("%s: complete before setup", tc.key)
		}
		tc.setup(s)
		states := s.evaluateObjectives()
		if !s.allObjectivesComplete() {
			t.Errorf("%s: objectives %+v", tc.key, states)
		}
	}
}

// TestSnapshotLeavesObjectiveFlags keeps snapshots free of side effects.
func TestSnapshotLeavesObjectiveFlags(t *testing.T) {
	s := newTestSession(t, &stubRNG{})
	compromise(s, s.Targets()[0])
	s.stolen = []StolenData{{Kind: lootDatabase, Value: 1000}}
	s.alert.Value = 0

	snap := s.Snapshot()
	for _, st := range snap.Objectives {
		if !st.Complete {
			t.Fatalf("snapshot objective %d incomplete: %+v", st.Index, snap.Objectives)
		}
	}
	if s.allObjectivesComplete() {
		t.Fatalf("snapshot must not set the stored objective flags")
	}
	s.evaluateObjectives()
	if !s.allObjectivesComplete() {
		t.Fatalf("evaluation should set the flags")
	}
}

// TestDataTheftFailsOnceDetected keeps the detection latch even after the gauge drops.
func TestDataTheftFailsOnceDetected(t *testing.T) {
	s := newTestSession(t, &stubRNG{}, withMission("data_theft_1"))
	compromise(s, s.Targets()[0])
	s.stolen = []StolenData{{Value: 5000}}
	s.UpdateAlertLevel(85)
	s.alert.Value = 0
	s.evaluateObjectives()
	if s.allObjectivesComplete() {
		t.Fatalf("detection must fail the stealth objective for good")
	}
}

// TestSecondaryPredicates walks one session through every secondary kind.
func TestSecondaryPredicates(t *testing.T) {
	s := newTestSession(t, &stubRNG{})
	check := func(kind SecondaryKind, threshold float64) bool {
		return secondaryPredicates[kind](s, threshold)
	}

	if !check(SecondaryUndetected, 0) || !check(SecondaryNoTraces, 0) || !check(SecondaryNoSecurityEvents, 0) {
		t.Fatalf("fresh session must satisfy the passive goals")
	}
	s.Now = 700
	if check(SecondaryUnderTime, 600) || !check(SecondaryUnderTime, 0) {
		t.Fatalf("under time: threshold 600 fails, default 1350 passes at 700s")
	}
	if !check(SecondaryUndetectedFor, 300) {
		t.Fatalf("undetected for 300s at 700s")
	}
	s.UpdateAlertLevel(90)
	if check(SecondaryUndetected, 0) || !check(SecondaryUndetectedFor, 700) || check(SecondaryUndetectedFor, 701) {
		t.Fatalf("detection at 700s")
	}

	s.stolen = []StolenData{{Kind: lootDatabase, Value: 1}}
	s.toolsUsed = map[string]bool{ToolVPN: true, ToolRootkit: true}
	s.miningIncome = 1000
	s.botnetOrder = make([]string, 8)
	if !check(SecondaryCompleteDatabase, 0) || !check(SecondaryToolsUsedBelow, 3) || check(SecondaryToolsUsedBelow, 2) {
		t.Fatalf("database or tools predicates")
	}
	if !check(SecondaryMiningIncome, 1000) || !check(SecondaryBotnetSize, 8) || check(SecondaryBotnetSize, 9) {
		t.Fatalf("mining or botnet predicates")
	}

	s.encrypted["INF_2"] = &RansomRecord{}
	compromise(s, s.Targets()[1])
	if !check(SecondaryEncryptCritical, 0) || !check(SecondaryCriticalCompromised, 1) || check(SecondaryCriticalCompromised, 2) {
		t.Fatalf("critical target predicates")
	}
	if check(SecondaryFastPayment, 420) {
		t.Fatalf("no payment yet")
	}
	s.trace("left a mark")
	if check(SecondaryNoTraces, 0) {
		t.Fatalf("traces recorded")
	}
	if check(SecondaryAlertBelow, 30) {
		t.Fatalf("alert at 90 is not below 30")
	}
}

// TestEverySecondaryKindHasPredicate ties the catalog to the predicate table.
func TestEverySecondaryKindHasPredicate(t *testing.T) {
	for _, m := range MissionRegistry {
		for _, sec := range m.SecondaryObjectives {
			if _, ok := secondaryPredicates[sec.Kind]; !ok {
				t.Errorf("%s: no predicate for %s", m.ID, sec.Kind)
			}
		}
	}
	if len(secondaryPredicates) != 13 {
		t.Fatalf("expected 13 secondary kinds, got %d", len(secondaryPredicates))
	}
}
