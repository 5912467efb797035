package game

// SessionSnapshot is a read-only view of a session for hosts and checkpoints.
type SessionSnapshot struct {
	ID                string             `json:"id"`
	MissionID         string             `json:"mission_id"`
	ProfileID         string             `json:"profile_id"`
	State             string             `json:"state"`
	Running           bool               `json:"running"`
	Completed         bool               `json:"completed"`
	Now               float64            `json:"now"`
	Remaining         float64            `json:"remaining"`
	Alert             float64            `json:"alert"`
	Detected          bool               `json:"detected"`
	CurrentTarget     string             `json:"current_target,omitempty"`
	Compromised       []string           `json:"compromised"`
	StolenCount       int                `json:"stolen_count"`
	StolenValue       int                `json:"stolen_value"`
	BotnetSize        int                `json:"botnet_size"`
	Encrypted         int                `json:"encrypted"`
	RansomPaid        int                `json:"ransom_paid"`
	Credits           int                `json:"credits"`
	Level             int                `json:"level"`
	Tools             map[string]float64 `json:"tools"`
	Objectives        []ObjectiveState   `json:"objectives"`
	SecondaryComplete int                `json:"secondary_complete"`
	Reward            *RewardBreakdown   `json:"reward,omitempty"`
}

// Snapshot captures the current session state.
func (s *Session) Snapshot() SessionSnapshot {
	snap := SessionSnapshot{
		ID:                s.ID,
		MissionID:         s.Mission.ID,
		ProfileID:         s.Profile.ID,
		State:             s.state.String(),
		Running:           s.running,
		Completed:         s.completed,
		Now:               s.Now,
		Remaining:         s.Duration - s.Now,
		Alert:             s.alert.Value,
		Detected:          s.alert.Detected,
		Compromised:       sortedKeys(s.compromisedTargets),
		StolenCount:       len(s.stolen),
		StolenValue:       s.StolenValue(),
		BotnetSize:        len(s.botnetOrder),
		Encrypted:         len(s.encrypted),
		RansomPaid:        s.paidRansomTotal(),
		Credits:           s.Profile.Credits,
		Level:             s.Profile.Level,
		Tools:             make(map[string]float64, len(s.loadout.Durability)),
		Objectives:        s.objectiveStates(),
		SecondaryComplete: countComplete(s.secondaryStates()),
		Reward:            s.reward,
	}
	if snap.Remaining < 0 {
		snap.Remaining = 0
	}
	if s.current != nil {
		snap.CurrentTarget = s.current.ID
	}
	for tool, d := range s.loadout.Durability {
		snap.Tools[tool] = d
	}
	return snap
}
