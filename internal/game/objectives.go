package game

// ObjectiveEvaluator exposes mission objective completion checks.
type ObjectiveEvaluator interface {
	// Evaluate returns (complete, progress) where progress is 0.0-1.0.
	Evaluate(s *Session) (bool, float64)
}

// objectiveFunc adapts a plain function to ObjectiveEvaluator.
type objectiveFunc func(s *Session) (bool, float64)

// Evaluate implements ObjectiveEvaluator.
func (f objectiveFunc) Evaluate(s *Session) (bool, float64) { return f(s) }

// flag turns a boolean check into an all-or-nothing evaluator.
func flag(check func(s *Session) bool) ObjectiveEvaluator {
	return objectiveFunc(func(s *Session) (bool, float64) {
		if check(s) {
			return true, 1
		}
		return false, 0
	})
}

// atLeast reports progress of a counter toward a goal.
func atLeast(goal float64, value func(s *Session) float64) ObjectiveEvaluator {
	return objectiveFunc(func(s *Session) (bool, float64) {
		v := value(s)
		if v >= goal {
			return true, 1
		}
		if goal <= 0 {
			return false, 0
		}
		return false, Clamp(v/goal, 0, 1)
	})
}

// alertBelow holds while the gauge stays under limit.
func alertBelow(limit float64) ObjectiveEvaluator {
	return objectiveFunc(func(s *Session) (bool, float64) {
		if s.alert.Value < limit {
			return true, 1
		}
		return false, 0
	})
}

// objectivePredicates returns the primary objective checks of a mission type,
// aligned with Mission.Objectives.
func objectivePredicates(t MissionType) []ObjectiveEvaluator {
	switch t {
	case MissionInfiltration:
		return []ObjectiveEvaluator{
			flag(func(s *Session) bool { return s.compromised }),
			flag(func(s *Session) bool { return len(s.stolen) > 0 }),
			alertBelow(50),
		}
	case MissionDataTheft:
		return []ObjectiveEvaluator{
			flag(func(s *Session) bool { return s.compromised }),
			atLeast(2000, func(s *Session) float64 { return float64(s.StolenValue()) }),
			flag(func(s *Session) bool { return !s.alert.Detected }),
		}
	case MissionRansomware:
		return []ObjectiveEvaluator{
			flag(func(s *Session) bool { return s.paidRansoms() > 0 }),
			atLeast(3000, func(s *Session) float64 { return float64(s.paidRansomTotal()) }),
			atLeast(2, func(s *Session) float64 { return float64(len(s.encrypted)) }),
		}
	case MissionBotnet:
		return []ObjectiveEvaluator{
			atLeast(5, func(s *Session) float64 { return float64(len(s.botnetOrder)) }),
			alertBelow(80),
			atLeast(3, func(s *Session) float64 { return float64(s.miningCycles) }),
		}
	case MissionSabotage:
		return []ObjectiveEvaluator{
			flag(func(s *Session) bool { return s.criticalCompromised() > 0 }),
			alertBelow(70),
			flag(func(s *Session) bool { return s.anySystemModified() }),
		}
	default:
		return nil
	}
}

// secondaryPredicates evaluates each structured secondary objective kind.
var secondaryPredicates = map[SecondaryKind]func(s *Session, threshold float64) bool{
	SecondaryUndetected: func(s *Session, _ float64) bool {
		return !s.alert.Detected
	},
	SecondaryUnderTime: func(s *Session, threshold float64) bool {
		if threshold <= 0 {
			threshold = s.Duration * TimeBonusFraction
		}
		return s.Now < threshold
	},
	SecondaryNoSecurityEvents: func(s *Session, _ float64) bool {
		return s.securityEvents == 0
	},
	SecondaryCompleteDatabase: func(s *Session, _ float64) bool {
		for _, d := range s.stolen {
			if d.Kind == lootDatabase {
				return true
			}
		}
		return false
	},
	SecondaryAlertBelow: func(s *Session, threshold float64) bool {
		return s.alert.Value < threshold
	},
	SecondaryToolsUsedBelow: func(s *Session, threshold float64) bool {
		return float64(len(s.toolsUsed)) < threshold
	},
	SecondaryEncryptCritical: func(s *Session, _ float64) bool {
		for id := range s.encrypted {
			if t := s.targetByID(id); t != nil && t.Critical {
				return true
			}
		}
		return false
	},
	SecondaryFastPayment: func(s *Session, threshold float64) bool {
		return s.firstPaymentDelay >= 0 && s.firstPaymentDelay < threshold
	},
	SecondaryBotnetSize: func(s *Session, threshold float64) bool {
		return float64(len(s.botnetOrder)) >= threshold
	},
	SecondaryUndetectedFor: func(s *Session, threshold float64) bool {
		if s.alert.Detected {
			return s.detectedAt >= threshold
		}
		return s.Now >= threshold
	},
	SecondaryMiningIncome: func(s *Session, threshold float64) bool {
		return float64(s.miningIncome) >= threshold
	},
	SecondaryCriticalCompromised: func(s *Session, threshold float64) bool {
		return float64(s.criticalCompromised()) >= threshold
	},
	SecondaryNoTraces: func(s *Session, _ float64) bool {
		return len(s.traces) == 0
	},
}

// objectiveStates evaluates the primary objectives without touching the
// stored flags.
func (s *Session) objectiveStates() []ObjectiveState {
	preds := objectivePredicates(s.Mission.Type)
	out := make([]ObjectiveState, len(s.Mission.Objectives))
	for i, desc := range s.Mission.Objectives {
		var done bool
		var progress float64
		if i < len(preds) {
			done, progress = preds[i].Evaluate(s)
		}
		out[i] = ObjectiveState{Index: i, Progress: progress, Complete: done, Description: desc}
	}
	return out
}

// evaluateObjectives refreshes the primary objective flags and returns their states.
func (s *Session) evaluateObjectives() []ObjectiveState {
	out := s.objectiveStates()
	for i, st := range out {
		s.objectives[i] = st.Complete
	}
	return out
}

// secondaryStates evaluates every secondary objective of the mission.
func (s *Session) secondaryStates() []ObjectiveState {
	out := make([]ObjectiveState, len(s.Mission.SecondaryObjectives))
	for i, sec := range s.Mission.SecondaryObjectives {
		done := false
		if pred, ok := secondaryPredicates[sec.Kind]; ok {
			done = pred(s, sec.Threshold)
		}
		progress := 0.0
		if done {
			progress = 1
		}
		out[i] = ObjectiveState{Index: i, Progress: progress, Complete: done, Description: sec.Description}
	}
	return out
}

// allObjectivesComplete reports whether every primary flag is set.
func (s *Session) allObjectivesComplete() bool {
	if len(s.objectives) == 0 {
		return false
	}
	for _, done := range s.objectives {
		if !done {
			return false
		}
	}
	return true
}

func countComplete(states []ObjectiveState) int {
	n := 0
	for _, st := range states {
		if st.Complete {
			n++
		}
	}
	return n
}
