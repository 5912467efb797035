package game

import (
	"errors"
	"fmt"
	"sort"
)

// ErrMissionNotFound is returned when a catalog lookup misses.
var ErrMissionNotFound = errors.New("mission not found")

// ErrMissionCompleted is returned when a profile starts a mission it already finished.
var ErrMissionCompleted = errors.New("mission already completed")

// SecondaryKind tags the predicate a secondary objective evaluates.
type SecondaryKind string

const (
	SecondaryUndetected          SecondaryKind = "undetected"
	SecondaryUnderTime           SecondaryKind = "under_time"            // Threshold: seconds
	SecondaryNoSecurityEvents    SecondaryKind = "no_security_events"
	SecondaryCompleteDatabase    SecondaryKind = "complete_database"
	SecondaryAlertBelow          SecondaryKind = "alert_below"           // Threshold: alert percent
	SecondaryToolsUsedBelow      SecondaryKind = "tools_used_below"      // Threshold: distinct tools
	SecondaryEncryptCritical     SecondaryKind = "encrypt_critical"
	SecondaryFastPayment         SecondaryKind = "fast_payment"          // Threshold: seconds from demand
	SecondaryBotnetSize          SecondaryKind = "botnet_size"           // Threshold: machines
	SecondaryUndetectedFor       SecondaryKind = "undetected_for"        // Threshold: seconds
	SecondaryMiningIncome        SecondaryKind = "mining_income"         // Threshold: credits
	SecondaryCriticalCompromised SecondaryKind = "critical_compromised"  // Threshold: targets
	SecondaryNoTraces            SecondaryKind = "no_traces"
)

// SecondaryObjective is an optional bonus goal with a structured predicate.
type SecondaryObjective struct {
	Kind        SecondaryKind `json:"kind" yaml:"kind"`
	Threshold   float64       `json:"threshold,omitempty" yaml:"threshold,omitempty"`
	Description string        `json:"description" yaml:"description"`
}

// Mission is an immutable mission definition fed into a session.
type Mission struct {
	Key                 string               `json:"key" yaml:"key"`
	ID                  string               `json:"id" yaml:"id"`
	Title               string               `json:"title" yaml:"title"`
	Type                MissionType          `json:"type" yaml:"type"`
	Difficulty          int                  `json:"difficulty" yaml:"difficulty"`
	Reward              int                  `json:"reward" yaml:"reward"`
	Description         string               `json:"description" yaml:"description"`
	Objectives          []string             `json:"objectives" yaml:"objectives"`
	SecondaryObjectives []SecondaryObjective `json:"secondary_objectives" yaml:"secondary_objectives"`
	RecommendedTools    []string             `json:"recommended_tools" yaml:"recommended_tools"`
}

// MissionRegistry is the mission catalog keyed by mission key.
var MissionRegistry = map[string]Mission{
	"infiltration_1": {
		Key:         "infiltration_1",
		ID:          "INF_001",
		Title:       "Première Infiltration",
		Type:        MissionInfiltration,
		Difficulty:  1,
		Reward:      1000,
		Description: "Infiltrez le réseau d'une entreprise et récupérez des données sensibles.",
		Objectives: []string{
			"Compromettre le système",
			"Voler au moins un fichier",
			"Maintenir l'alerte sous 50%",
		},
		SecondaryObjectives: []SecondaryObjective{
			{Kind: SecondaryUndetected, Description: "Rester non détecté"},
			{Kind: SecondaryUnderTime, Threshold: 600, Description: "Terminer en moins de 10 minutes"},
			{Kind: SecondaryNoSecurityEvents, Description: "Ne pas déclencher d'événements de sécurité"},
		},
		RecommendedTools: []string{ToolVPN, ToolCleaner},
	},
	"data_theft_1": {
		Key:         "data_theft_1",
		ID:          "DAT_001",
		Title:       "Vol de données bancaires",
		Type:        MissionDataTheft,
		Difficulty:  2,
		Reward:      2000,
		Description: "Dérobez des données de valeur sans vous faire repérer.",
		Objectives: []string{
			"Compromettre le système",
			"Voler pour 2000¢ de données",
			"Ne pas être détecté",
		},
		SecondaryObjectives: []SecondaryObjective{
			{Kind: SecondaryCompleteDatabase, Description: "Voler une base de données complète"},
			{Kind: SecondaryAlertBelow, Threshold: 30, Description: "Maintenir l'alerte sous 30%"},
			{Kind: SecondaryToolsUsedBelow, Threshold: 3, Description: "Utiliser moins de 3 outils"},
		},
		RecommendedTools: []string{ToolVPN, ToolExploitKit, ToolDecryptor},
	},
	"ransomware_1": {
		Key:         "ransomware_1",
		ID:          "RAN_001",
		Title:       "Opération Rançon",
		Type:        MissionRansomware,
		Difficulty:  3,
		Reward:      3000,
		Description: "Chiffrez les systèmes de la cible et obtenez une rançon.",
		Objectives: []string{
			"Recevoir un paiement de rançon",
			"Collecter 3000¢ de rançons",
			"Chiffrer 2 systèmes",
		},
		SecondaryObjectives: []SecondaryObjective{
			{Kind: SecondaryEncryptCritical, Description: "Chiffrer un système critique"},
			{Kind: SecondaryAlertBelow, Threshold: 60, Description: "Maintenir l'alerte sous 60%"},
			// payment only rolls at the 300s deadline
			{Kind: SecondaryFastPayment, Threshold: 420, Description: "Obtenir un paiement en moins de 7 minutes"},
		},
		RecommendedTools: []string{ToolCryptolocker, ToolDecryptor, ToolVPN},
	},
	"botnet_1": {
		Key:         "botnet_1",
		ID:          "BOT_001",
		Title:       "Armée de zombies",
		Type:        MissionBotnet,
		Difficulty:  3,
		Reward:      2500,
		Description: "Constituez un botnet et exploitez sa puissance de calcul.",
		Objectives: []string{
			"Créer un botnet de 5 machines",
			"Maintenir l'alerte sous 80%",
			"Miner pendant 3 cycles",
		},
		SecondaryObjectives: []SecondaryObjective{
			{Kind: SecondaryBotnetSize, Threshold: 8, Description: "Atteindre 8 machines"},
			{Kind: SecondaryUndetectedFor, Threshold: 300, Description: "Rester non détecté pendant 5 minutes"},
			{Kind: SecondaryMiningIncome, Threshold: 1000, Description: "Gagner 1000¢ en minant"},
		},
		RecommendedTools: []string{ToolRootkit, ToolVPN},
	},
	"sabotage_1": {
		Key:         "sabotage_1",
		ID:          "SAB_001",
		Title:       "Sabotage industriel",
		Type:        MissionSabotage,
		Difficulty:  4,
		Reward:      4000,
		Description: "Compromettez une infrastructure critique et neutralisez ses défenses.",
		Objectives: []string{
			"Compromettre un système critique",
			"Maintenir l'alerte sous 70%",
			"Modifier les systèmes de sécurité",
		},
		SecondaryObjectives: []SecondaryObjective{
			{Kind: SecondaryCriticalCompromised, Threshold: 2, Description: "Compromettre 2 systèmes critiques"},
			{Kind: SecondaryUndetectedFor, Threshold: 480, Description: "Rester non détecté pendant 8 minutes"},
			{Kind: SecondaryNoTraces, Description: "Ne laisser aucune trace"},
		},
		RecommendedTools: []string{ToolRootkit, ToolExploitKit, ToolCleaner},
	},
}

// GetMission retrieves a mission by catalog key or by mission id.
func GetMission(key string) (*Mission, error) {
	if m, ok := MissionRegistry[key]; ok {
		return &m, nil
	}
	for _, m := range MissionRegistry {
		if m.ID == key {
			m := m
			return &m, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrMissionNotFound, key)
}

// RegisterMission validates m and adds or replaces it in the catalog.
// It is meant for startup, before sessions run.
func RegisterMission(m Mission) error {
	if err := m.Validate(); err != nil {
		return err
	}
	if m.Key == "" {
		return fmt.Errorf("mission %s missing key", m.ID)
	}
	for key, existing := range MissionRegistry {
		if existing.ID == m.ID && key != m.Key {
			return fmt.Errorf("mission id %s already registered under %s", m.ID, key)
		}
	}
	MissionRegistry[m.Key] = m
	return nil
}

// Validate checks that a mission definition is usable by a session.
func (m *Mission) Validate() error {
	if m == nil {
		return fmt.Errorf("mission is nil")
	}
	if m.ID == "" {
		return fmt.Errorf("mission ID cannot be empty")
	}
	if m.Title == "" {
		return fmt.Errorf("mission %s missing title", m.ID)
	}
	if m.Type.Prefix() == "" {
		return fmt.Errorf("mission %s has unknown type %q", m.ID, m.Type)
	}
	if m.Difficulty < 1 || m.Difficulty > 5 {
		return fmt.Errorf("mission %s difficulty %d out of range 1..5", m.ID, m.Difficulty)
	}
	if m.Reward < 0 {
		return fmt.Errorf("mission %s has negative reward", m.ID)
	}
	if len(m.Objectives) != len(objectivePredicates(m.Type)) {
		return fmt.Errorf("mission %s declares %d objectives, type %s needs %d",
			m.ID, len(m.Objectives), m.Type, len(objectivePredicates(m.Type)))
	}
	for i, sec := range m.SecondaryObjectives {
		if _, ok := secondaryPredicates[sec.Kind]; !ok {
			return fmt.Errorf("mission %s secondary %d has unknown kind %q", m.ID, i, sec.Kind)
		}
	}
	return nil
}

// SortedMissions returns the catalog ordered by difficulty then key.
func SortedMissions() []Mission {
	out := make([]Mission, 0, len(MissionRegistry))
	for _, m := range MissionRegistry {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Difficulty != out[j].Difficulty {
			return out[i].Difficulty < out[j].Difficulty
		}
		return out[i].Key < out[j].Key
	})
	return out
}

// AvailableMissions lists missions the profile may start: difficulty within
// its level and not already completed.
func AvailableMissions(p *PlayerProfile) []Mission {
	var out []Mission
	for _, m := range SortedMissions() {
		if p != nil {
			if m.Difficulty > p.Level || p.HasCompleted(m.ID) {
				continue
			}
		}
		out = append(out, m)
	}
	return out
}

// DifficultyLabel describes a difficulty rating.
func DifficultyLabel(d int) string {
	switch d {
	case 1:
		return "Facile - Idéal pour débuter"
	case 2:
		return "Moyen - Demande de la prudence"
	case 3:
		return "Difficile - Pour hackers expérimentés"
	case 4:
		return "Très difficile - Experts uniquement"
	case 5:
		return "Extrême - Légendaire"
	default:
		return "Inconnue"
	}
}

// ObjectiveState captures current progress for an objective.
type ObjectiveState struct {
	Index       int     `json:"index"`
	Progress    float64 `json:"progress"`
	Complete    bool    `json:"complete"`
	Description string  `json:"description"`
}
