package game

import (
	"fmt"
	"math"
	"sync"

	"github.com/sirupsen/logrus"

	"CyberHack/internal/dag"
)

// RewardInput is everything the reward formula depends on.
type RewardInput struct {
	BaseReward  int
	Secondaries int // completed secondary objectives
	Detected    bool
	Elapsed     float64
	Duration    float64
	Faction     Faction
	MissionType MissionType
}

// RewardBreakdown is the itemized result of ComputeReward.
type RewardBreakdown struct {
	Base      int     `json:"base"`
	Secondary float64 `json:"secondary"`
	Stealth   float64 `json:"stealth"`
	Time      float64 `json:"time"`
	Faction   float64 `json:"faction"`
	Final     int     `json:"final"`
}

// ComputeReward applies the completion multipliers to the base reward.
func ComputeReward(in RewardInput) RewardBreakdown {
	duration := in.Duration
	if duration <= 0 {
		duration = MissionDuration
	}
	r := RewardBreakdown{
		Base:      in.BaseReward,
		Secondary: 1 + 0.2*float64(in.Secondaries),
		Stealth:   1.0,
		Time:      1.0,
		Faction:   MissionMultiplier(in.Faction, in.MissionType),
	}
	if !in.Detected {
		r.Stealth = 1.5
	}
	if in.Elapsed < duration*TimeBonusFraction {
		r.Time = 1.2
	}
	product := float64(in.BaseReward) * r.Secondary * r.Stealth * r.Time * r.Faction
	r.Final = int(math.Floor(product + 1e-6))
	return r
}

var (
	seededGraphOnce sync.Once
	seededGraph     *dag.Graph
)

// progressionGraph returns the global dag graph when one was initialized,
// otherwise a graph of the level unlock nodes.
func progressionGraph() *dag.Graph {
	if g := dag.GetGraph(); g != nil {
		return g
	}
	seededGraphOnce.Do(func() {
		g, err := dag.NewGraph(dag.SeedLevelUnlockNodes())
		if err != nil {
			logrus.WithError(err).Error("level unlock graph")
			return
		}
		seededGraph = g
	})
	return seededGraph
}

// profileEffects grants completed unlock nodes to the profile and the
// running loadout, collecting the console lines.
type profileEffects struct {
	s     *Session
	lines []string
}

func (e *profileEffects) OnComplete(id dag.NodeID, node *dag.Node) {
	p := e.s.Profile
	for _, eff := range node.Effects {
		switch eff.Type {
		case dag.EffectToolUnlock:
			p.AddTool(eff.Target)
			e.s.loadout.Add(eff.Target)
			e.lines = append(e.lines, "Nouvel outil débloqué : "+eff.Target)
		case dag.EffectHardwareBonus:
			p.UpgradeHardware(eff.Target, eff.Value)
			e.lines = append(e.lines, fmt.Sprintf("Amélioration hardware : %s +%g", eff.Target, eff.Value))
		case dag.EffectCredits:
			p.AddCredits(int(eff.Value))
			e.lines = append(e.lines, fmt.Sprintf("Bonus de crédits : %d¢", int(eff.Value)))
		}
	}
	e.s.log.WithField("node", id).Info("level milestone unlocked")
}

// unlockLevelRewards completes the milestone node of the profile's level.
// Earlier milestones missing from the stored progression are marked done
// without granting them again.
func (s *Session) unlockLevelRewards() []string {
	level := s.Profile.Level
	if level%LevelMilestoneEvery != 0 || s.graph == nil {
		return nil
	}
	target := dag.LevelNodeID(level)
	if s.graph.GetNode(target) == nil {
		return nil
	}

	state := dag.NewState()
	if len(s.Profile.Progression) > 0 {
		loaded, err := dag.LoadSnapshot(s.Profile.Progression)
		if err != nil {
			s.log.WithError(err).Warn("progression snapshot unreadable, starting fresh")
		} else {
			state = loaded
		}
	}
	dag.Backfill(s.graph, state, func(node *dag.Node) bool {
		lvl, err := dag.NodeLevel(node)
		return node.Kind == dag.NodeKindUnlock && err == nil && lvl < level
	})

	effects := &profileEffects{s: s}
	dag.Refresh(s.graph, state)
	if err := dag.Grant(s.graph, state, target, effects); err != nil {
		s.log.WithError(err).Warn("level milestone not granted")
		return nil
	}
	if snap, err := state.Snapshot(); err == nil {
		s.Profile.Progression = snap
	} else {
		s.log.WithError(err).Warn("progression snapshot failed")
	}
	return effects.lines
}

// CompleteMission pays out the mission and updates the profile. It runs once;
// the session ends afterwards.
func (s *Session) CompleteMission() *RewardBreakdown {
	if s.completed {
		return s.reward
	}
	secondaries := countComplete(s.secondaryStates())
	r := ComputeReward(RewardInput{
		BaseReward:  s.Mission.Reward,
		Secondaries: secondaries,
		Detected:    s.alert.Detected,
		Elapsed:     s.Now,
		Duration:    s.Duration,
		Faction:     s.Profile.Faction,
		MissionType: s.Mission.Type,
	})
	s.completed = true
	s.reward = &r

	p := s.Profile
	p.AddCredits(r.Final)
	if !p.HasCompleted(s.Mission.ID) {
		p.CompletedMissions = append(p.CompletedMissions, s.Mission.ID)
	}
	p.Level++
	p.Stats.MissionsCompleted++
	p.Stats.TotalEarnings += r.Final
	p.Stats.SuccessfulHacks += s.hacks
	if !s.alert.Detected {
		p.Stats.StealthMissions++
	}
	p.Stats.DataStolenValue += s.StolenValue()
	if n := len(s.botnetOrder); n > p.Stats.LargestBotnet {
		p.Stats.LargestBotnet = n
	}
	p.Stats.TotalRansom += s.totalRansom

	unlocked := s.unlockLevelRewards()
	saved := s.checkpoint()

	info, _ := DescribeFaction(p.Faction)
	s.emit(
		"=== Mission Accomplie ! ===",
		fmt.Sprintf("Récompense de base : %d¢", r.Base),
		fmt.Sprintf("Bonus furtivité : x%.1f", r.Stealth),
		fmt.Sprintf("Bonus temps : x%.1f", r.Time),
		fmt.Sprintf("Bonus objectifs secondaires : x%.1f", r.Secondary),
		fmt.Sprintf("Bonus de faction : x%.1f", r.Faction),
		fmt.Sprintf("Récompense finale : %d¢", r.Final),
		"",
		"=== Statistiques de Mission ===",
		fmt.Sprintf("Données volées : %d", len(s.stolen)),
		"Niveau d'alerte final : "+percent(s.alert.Value),
		fmt.Sprintf("Taille du botnet : %d", len(s.botnetOrder)),
		fmt.Sprintf("Systèmes compromis : %d", len(s.compromisedTargets)),
		"",
		"=== Progression ===",
		fmt.Sprintf("Niveau atteint : %d", p.Level),
		fmt.Sprintf("Missions complétées : %d", p.Stats.MissionsCompleted),
		fmt.Sprintf("Crédits totaux : %d¢", p.Credits),
		"",
		"=== Bonus de Faction ===",
		"Faction : "+string(p.Faction),
		"Spécialité : "+info.Specialty,
	)
	s.emit(info.Bonuses...)
	if len(unlocked) > 0 {
		s.emit("", "=== Récompenses de Niveau ===")
		s.emit(unlocked...)
	}
	if !saved {
		s.emit("Erreur: sauvegarde impossible")
	}

	s.log.WithFields(logrus.Fields{
		"reward": r.Final,
		"level":  p.Level,
	}).Info("mission completed")
	s.terminate("completed")
	return s.reward
}

// Reward returns the payout once the mission completed.
func (s *Session) Reward() *RewardBreakdown { return s.reward }
