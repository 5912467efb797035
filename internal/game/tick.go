package game

import (
	"fmt"
	"math"
)

var toolDecayRates = map[string]float64{
	ToolVPN:     3,
	ToolRootkit: 4,
}

const defaultToolDecay = 2.0

// Tick advances the session clock by dt seconds and runs every periodic
// effect whose interval has elapsed. It returns the lines the step produced.
func (s *Session) Tick(dt float64) []string {
	if !s.running {
		return nil
	}
	if dt > 0 {
		s.Now += dt
	}

	steps := []func(){
		s.tickBotnetIncome,
		s.tickToolDecay,
		s.sweepBonuses,
		s.tickAlertDecay,
		s.tickPayloads,
		s.tickRandomEvent,
		s.tickObjectives,
		s.tickAutosave,
		s.tickTimeout,
	}
	for _, step := range steps {
		if !s.running {
			break
		}
		step()
	}
	return s.drain()
}

func due(now, last, interval float64) bool {
	return now-last >= interval
}

func (s *Session) tickBotnetIncome() {
	if !due(s.Now, s.lastBotnet, BotnetIncomeInterval) {
		return
	}
	s.lastBotnet = s.Now
	size := len(s.botnetOrder)
	if size == 0 {
		return
	}
	cpu := 1 + s.Profile.HardwareBonus(HardwareCPU)
	network := 1 + s.Profile.HardwareBonus(HardwareNetwork)
	income := int(float64(size*BotnetCreditsPerNode) * cpu * network)
	s.Profile.AddCredits(income)
	s.log.WithField("income", income).Debug("botnet income")
	s.UpdateAlertLevel(float64(size) * 0.5)
}

func (s *Session) tickToolDecay() {
	if !due(s.Now, s.lastToolDecay, ToolDecayInterval) {
		return
	}
	s.lastToolDecay = s.Now
	if !s.compromised {
		return
	}
	cooling := math.Max(0, 1-s.Profile.HardwareBonus(HardwareCooling))
	for _, tool := range s.loadout.Sorted() {
		rate, ok := toolDecayRates[tool]
		if !ok {
			rate = defaultToolDecay
		}
		if s.loadout.Degrade(tool, rate*cooling) {
			s.emit(fmt.Sprintf("! Attention ! %s est hors service", tool))
			s.log.WithField("tool", tool).Info("tool worn out")
		}
	}
}

// sweepBonuses drops expired temporary bonuses.
func (s *Session) sweepBonuses() {
	for cat, list := range s.bonuses {
		kept := list[:0]
		for _, b := range list {
			if b.Expiry > s.Now {
				kept = append(kept, b)
			}
		}
		if len(kept) == 0 {
			delete(s.bonuses, cat)
			continue
		}
		s.bonuses[cat] = kept
	}
}

func (s *Session) tickAlertDecay() {
	if !due(s.Now, s.lastAlertDecay, AlertDecayInterval) {
		return
	}
	s.lastAlertDecay = s.Now
	p := s.alert.P
	if s.alert.Value > 0 {
		amount := p.DecayBase
		if s.loadout.Has(ToolVPN) {
			amount *= p.DecayVPN
		}
		if s.loadout.Has(ToolCleaner) {
			amount *= p.DecayCleaner
		}
		s.alert.Decay(amount)
	}

	switch v := s.alert.Value; {
	case v >= p.CriticalAt:
		if chance(s.rng, p.CriticalChance) {
			s.emit("! ALERTE CRITIQUE ! Déconnexion imminente")
			s.terminate("critical alert")
		}
	case v >= p.ReinforcedAt:
		if chance(s.rng, p.ReinforcedChance) {
			s.emit("! Sécurité renforcée activée !")
			s.UpdateAlertLevel(p.ReinforcedAmount)
		}
	case v >= p.SurveillanceAt:
		if chance(s.rng, p.SurveillanceChance) {
			s.emit("! Surveillance accrue détectée !")
			s.UpdateAlertLevel(p.SurveillanceAmount)
		}
	}
}

func (s *Session) tickPayloads() {
	if !due(s.Now, s.lastPayload, PayloadInterval) {
		return
	}
	s.lastPayload = s.Now
	for _, id := range sortedKeys(s.payloads) {
		installed := s.payloads[id]
		for _, name := range payloadOrder {
			at, ok := installed[name]
			if !ok {
				continue
			}
			if s.Now-at > PayloadLifetime {
				delete(installed, name)
				continue
			}
			payload := payloadCatalog[name]
			switch name {
			case "miner":
				s.Profile.AddCredits(payload.CreditRate)
				s.miningIncome += payload.CreditRate
			case "keylogger", "trojan":
				if chance(s.rng, 0.3) {
					s.stolen = append(s.stolen, StolenData{
						Kind:  lootAutomated,
						Value: payload.DataRate,
						Label: "Données " + name,
					})
				}
			}
			s.UpdateAlertLevel(payload.DetectionRate * 0.1)
		}
		if len(installed) == 0 {
			delete(s.payloads, id)
		}
	}
}

func (s *Session) tickRandomEvent() {
	if ev, ok := s.rollRandomEvent(); ok {
		s.applyRandomEvent(ev)
	}
}

func (s *Session) tickObjectives() {
	s.evaluateObjectives()
	if !s.completed && s.allObjectivesComplete() {
		s.CompleteMission()
	}
}

func (s *Session) tickAutosave() {
	if !due(s.Now, s.lastSave, AutosaveInterval) {
		return
	}
	s.checkpoint()
}

func (s *Session) tickTimeout() {
	if s.Now >= s.Duration {
		s.emit("Temps écoulé - Mission terminée")
		s.terminate("timeout")
	}
}
