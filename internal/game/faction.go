package game

// Action names understood by ActionMultiplier.
const (
	ActionStealth   = "stealth"
	ActionDetection = "detection"
	ActionHack      = "hack"
	ActionExploit   = "exploit"
	ActionAnalyze   = "analyze"
	ActionDefense   = "defense"
)

var factionActionBonuses = map[Faction]map[string]float64{
	FactionSpectres:  {ActionStealth: 1.3, ActionDetection: 0.8},
	FactionForgeurs:  {ActionHack: 1.4, ActionExploit: 1.3},
	FactionVeilleurs: {ActionAnalyze: 1.5, ActionDefense: 1.3},
}

var factionMissionBonuses = map[Faction]map[MissionType]float64{
	FactionSpectres: {
		MissionInfiltration: 1.5,
		MissionDataTheft:    1.3,
		MissionRansomware:   1.0,
		MissionBotnet:       1.1,
		MissionSabotage:     1.2,
	},
	FactionForgeurs: {
		MissionInfiltration: 1.1,
		MissionDataTheft:    1.2,
		MissionRansomware:   1.5,
		MissionBotnet:       1.3,
		MissionSabotage:     1.4,
	},
	FactionVeilleurs: {
		MissionInfiltration: 1.2,
		MissionDataTheft:    1.1,
		MissionRansomware:   1.3,
		MissionBotnet:       1.5,
		MissionSabotage:     1.4,
	},
}

// ActionMultiplier returns the faction modifier for an action, 1.0 when none applies.
func ActionMultiplier(f Faction, action string) float64 {
	if v, ok := factionActionBonuses[f][action]; ok {
		return v
	}
	return 1.0
}

// MissionMultiplier returns the faction reward modifier for a mission type.
func MissionMultiplier(f Faction, t MissionType) float64 {
	if v, ok := factionMissionBonuses[f][t]; ok {
		return v
	}
	return 1.0
}

// FactionInfo is the console description of a faction.
type FactionInfo struct {
	Faction   Faction  `json:"faction"`
	Specialty string   `json:"specialty"`
	Bonuses   []string `json:"bonuses"`
}

var factionInfos = map[Faction]FactionInfo{
	FactionSpectres: {
		Faction:   FactionSpectres,
		Specialty: "Infiltration et furtivité",
		Bonuses:   []string{"+30% furtivité", "-20% détection", "+50% récompense Infiltration"},
	},
	FactionForgeurs: {
		Faction:   FactionForgeurs,
		Specialty: "Exploits et outils offensifs",
		Bonuses:   []string{"+40% cracking", "+30% exploits", "+50% récompense Ransomware"},
	},
	FactionVeilleurs: {
		Faction:   FactionVeilleurs,
		Specialty: "Analyse et contre-mesures",
		Bonuses:   []string{"+50% analyse", "+30% défense", "+50% récompense Botnet"},
	},
}

// DescribeFaction returns the console description of f.
func DescribeFaction(f Faction) (FactionInfo, bool) {
	info, ok := factionInfos[f]
	return info, ok
}
