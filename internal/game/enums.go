package game

import (
	"fmt"
	"strings"
)

// SecurityLevel is the ordinal hardening of a target (1..4).
type SecurityLevel int

const (
	SecurityLow SecurityLevel = iota + 1
	SecurityMedium
	SecurityHigh
	SecurityExtreme
)

func (l SecurityLevel) String() string {
	switch l {
	case SecurityLow:
		return "LOW"
	case SecurityMedium:
		return "MEDIUM"
	case SecurityHigh:
		return "HIGH"
	case SecurityExtreme:
		return "EXTREME"
	default:
		return fmt.Sprintf("SecurityLevel(%d)", int(l))
	}
}

// RiskMultiplier scales connection risk by hardening.
func (l SecurityLevel) RiskMultiplier() float64 {
	switch l {
	case SecurityLow:
		return 0.8
	case SecurityHigh:
		return 1.3
	case SecurityExtreme:
		return 1.6
	default:
		return 1.0
	}
}

// TargetType classifies a network node.
type TargetType string

const (
	TargetCorporate      TargetType = "Entreprise"
	TargetBank           TargetType = "Banque"
	TargetResearch       TargetType = "Recherche"
	TargetInfrastructure TargetType = "Infrastructure"
	TargetGovernment     TargetType = "Gouvernement"
)

// AllTargetTypes lists every target type in catalog order.
var AllTargetTypes = []TargetType{
	TargetCorporate,
	TargetBank,
	TargetResearch,
	TargetInfrastructure,
	TargetGovernment,
}

// MissionType is the archetype of a mission; it selects objectives and event pools.
type MissionType string

const (
	MissionInfiltration MissionType = "Infiltration"
	MissionDataTheft    MissionType = "Vol de données"
	MissionRansomware   MissionType = "Ransomware"
	MissionBotnet       MissionType = "Botnet"
	MissionSabotage     MissionType = "Sabotage"
)

// AllMissionTypes lists every mission type.
var AllMissionTypes = []MissionType{
	MissionInfiltration,
	MissionDataTheft,
	MissionRansomware,
	MissionBotnet,
	MissionSabotage,
}

// Prefix returns the three-letter code used in mission and target ids.
func (t MissionType) Prefix() string {
	switch t {
	case MissionInfiltration:
		return "INF"
	case MissionDataTheft:
		return "DAT"
	case MissionRansomware:
		return "RAN"
	case MissionBotnet:
		return "BOT"
	case MissionSabotage:
		return "SAB"
	default:
		return ""
	}
}

// ParseMissionType accepts the display name, the Go-style key or the prefix.
func ParseMissionType(raw string) (MissionType, error) {
	key := strings.ToLower(strings.TrimSpace(raw))
	for _, t := range AllMissionTypes {
		if key == strings.ToLower(string(t)) || key == strings.ToLower(t.Prefix()) {
			return t, nil
		}
	}
	switch key {
	case "data_theft", "datatheft":
		return MissionDataTheft, nil
	}
	return "", fmt.Errorf("unknown mission type: %q", raw)
}

// Faction is the player's allegiance.
type Faction string

const (
	FactionSpectres  Faction = "Spectres"
	FactionForgeurs  Faction = "Forgeurs"
	FactionVeilleurs Faction = "Veilleurs"
)

// AllFactions lists every faction.
var AllFactions = []Faction{FactionSpectres, FactionForgeurs, FactionVeilleurs}

// ParseFaction is case-insensitive.
func ParseFaction(raw string) (Faction, error) {
	key := strings.ToLower(strings.TrimSpace(raw))
	for _, f := range AllFactions {
		if strings.ToLower(string(f)) == key {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown faction: %q", raw)
}
