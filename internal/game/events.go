package game

import (
	"fmt"
	"strings"
)

// RandomEvent is a security occurrence injected during a mission.
type RandomEvent struct {
	Label     string  `json:"label"`
	Narrative string  `json:"narrative"`
	Alert     float64 `json:"alert"` // base alert delta before modifiers
	Faction   bool    `json:"faction,omitempty"`
}

var baseEvents = []RandomEvent{
	{Label: "Alerte de sécurité", Narrative: "Scan de sécurité détecté...", Alert: 15},
	{Label: "Maintenance", Narrative: "Maintenance système en cours...", Alert: -10},
	{Label: "Erreur réseau", Narrative: "Instabilité réseau détectée...", Alert: 0},
}

var missionEvents = map[MissionType][]RandomEvent{
	MissionInfiltration: {
		{Label: "Changement de mot de passe", Narrative: "Les credentials ont été modifiés...", Alert: 20},
		{Label: "Mise à jour", Narrative: "Mise à jour de sécurité en cours...", Alert: 25},
		{Label: "Audit", Narrative: "Audit de sécurité en cours...", Alert: 30},
	},
	MissionDataTheft: {
		{Label: "Backup", Narrative: "Sauvegarde des données en cours...", Alert: -5},
		{Label: "Archivage", Narrative: "Compression des données...", Alert: -15},
		{Label: "Transfert", Narrative: "Transfert de données détecté...", Alert: 10},
	},
	MissionRansomware: {
		{Label: "Anti-virus", Narrative: "Scan anti-virus en cours...", Alert: 20},
		{Label: "Backup", Narrative: "Sauvegarde système programmée...", Alert: 25},
		{Label: "Restauration", Narrative: "Point de restauration créé...", Alert: 15},
	},
	MissionBotnet: {
		{Label: "Maintenance réseau", Narrative: "Vérification des connexions...", Alert: 15},
		{Label: "Mise à jour", Narrative: "Mise à jour des firewalls...", Alert: 20},
		{Label: "Scan réseau", Narrative: "Recherche d'activités suspectes...", Alert: 25},
	},
	MissionSabotage: {
		{Label: "Vérification système", Narrative: "Diagnostic en cours...", Alert: 20},
		{Label: "Maintenance", Narrative: "Maintenance préventive...", Alert: 15},
		{Label: "Supervision", Narrative: "Contrôle des paramètres...", Alert: 25},
	},
}

var factionEvents = map[Faction][]RandomEvent{
	FactionSpectres: {
		{Label: "Faille de sécurité", Narrative: "Une faille a été détectée dans le système...", Alert: -20, Faction: true},
		{Label: "Route alternative", Narrative: "Route réseau alternative découverte...", Alert: -15, Faction: true},
		{Label: "Zone d'ombre", Narrative: "Zone non surveillée détectée...", Alert: -25, Faction: true},
	},
	FactionForgeurs: {
		{Label: "Vulnérabilité", Narrative: "Nouvelle vulnérabilité découverte...", Alert: -15, Faction: true},
		{Label: "Exploit", Narrative: "Exploit zero-day disponible...", Alert: -20, Faction: true},
		{Label: "Faille système", Narrative: "Faille critique détectée...", Alert: -25, Faction: true},
	},
	FactionVeilleurs: {
		{Label: "Analyse avancée", Narrative: "Analyse approfondie en cours...", Alert: -10, Faction: true},
		{Label: "Contre-mesure", Narrative: "Contre-mesure développée...", Alert: -20, Faction: true},
		{Label: "Optimisation", Narrative: "Optimisation du système...", Alert: -15, Faction: true},
	},
}

// eventBonuses maps label keywords to the temporary bonus they grant.
var eventBonuses = []struct {
	keywords []string
	category string
	notice   string
}{
	{[]string{"faille", "vulnérabilité"}, BonusHack, "Bonus temporaire de hacking activé"},
	{[]string{"route", "zone"}, BonusStealth, "Bonus temporaire de furtivité activé"},
	{[]string{"analyse", "optimisation"}, BonusDetection, "Bonus temporaire d'analyse activé"},
}

// EventPool returns the candidate events of a mission type and faction.
// Faction events are included only when withFaction is set.
func EventPool(t MissionType, f Faction, withFaction bool) []RandomEvent {
	pool := append([]RandomEvent(nil), baseEvents...)
	pool = append(pool, missionEvents[t]...)
	if withFaction {
		pool = append(pool, factionEvents[f]...)
	}
	return pool
}

// EventAlertModifier is the multiplier applied to an event's base delta.
func EventAlertModifier(ev RandomEvent, compromised, stolen, ransomPaid bool) float64 {
	m := 1.0
	if compromised {
		m *= 1.2
	}
	if stolen {
		m *= 1.1
	}
	if ransomPaid {
		m *= 1.3
	}
	if ev.Faction {
		m *= FactionEventDiscount
	}
	return m
}

// rollRandomEvent draws the event for this tick, if any.
func (s *Session) rollRandomEvent() (RandomEvent, bool) {
	if !chance(s.rng, RandomEventChance) {
		return RandomEvent{}, false
	}
	withFaction := chance(s.rng, FactionEventChance)
	pool := EventPool(s.Mission.Type, s.Profile.Faction, withFaction)
	return pool[s.rng.Intn(len(pool))], true
}

func (s *Session) applyRandomEvent(ev RandomEvent) {
	delta := ev.Alert * EventAlertModifier(ev, s.compromised, len(s.stolen) > 0, s.paidRansoms() > 0)
	s.emit(fmt.Sprintf("! %s !", ev.Label), ev.Narrative)
	if delta > 0 {
		s.securityEvents++
	}
	s.log.WithField("event", ev.Label).WithField("delta", delta).Debug("random event")
	s.UpdateAlertLevel(delta)

	label := strings.ToLower(ev.Label)
	for _, b := range eventBonuses {
		for _, kw := range b.keywords {
			if strings.Contains(label, kw) {
				s.emit(b.notice)
				s.grantBonus(b.category, TemporaryBonusValue, TemporaryBonusDuration)
				return
			}
		}
	}
}
