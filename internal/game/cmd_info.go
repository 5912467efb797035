package game

import (
	"fmt"
	"strings"
)

var toolDescriptions = map[string]string{
	ToolDecryptor:    "Permet de déchiffrer les fichiers et bases de données cryptés",
	ToolVPN:          "Réduit la détection de 30%",
	ToolRootkit:      "Augmente les chances de hack de 40%",
	ToolCleaner:      "Réduit la détection de 20% supplémentaire",
	ToolExploitKit:   "Augmente les chances d'exploitation de 30%",
	ToolCryptolocker: "Chiffre les systèmes compromis",
}

var hardwareLabels = []struct{ slot, label string }{
	{HardwareCPU, "CPU"},
	{HardwareRAM, "RAM"},
	{HardwareNetwork, "Réseau"},
	{HardwareCooling, "Refroidissement"},
}

var bonusLabels = map[string]string{
	BonusHack:      "Hack",
	BonusStealth:   "Stealth",
	BonusDetection: "Detection",
}

func checkbox(done bool) string {
	if done {
		return "[X]"
	}
	return "[ ]"
}

func (s *Session) cmdStatus([]string) []string {
	return []string{
		"Niveau d'alerte: " + percent(s.alert.Value),
		"Détecté: " + yesNo(s.alert.Detected),
		"Système compromis: " + yesNo(s.compromised),
		fmt.Sprintf("Données volées: %d", len(s.stolen)),
		fmt.Sprintf("Temps restant: %dmin", s.remainingMinutes()),
	}
}

func (s *Session) cmdMission([]string) []string {
	m := s.Mission
	out := []string{
		"=== Mission : " + m.Title + " ===",
		"Type: " + string(m.Type),
		fmt.Sprintf("Difficulté: %d", m.Difficulty),
		fmt.Sprintf("Récompense: %d¢", m.Reward),
		"",
		"=== Objectifs Principaux ===",
	}
	for _, st := range s.objectiveStates() {
		out = append(out, checkbox(st.Complete)+" "+st.Description)
	}
	if secondary := s.secondaryStates(); len(secondary) > 0 {
		out = append(out, "", "=== Objectifs Secondaires ===")
		for _, st := range secondary {
			out = append(out, checkbox(st.Complete)+" "+st.Description)
		}
	}
	return append(out,
		"",
		"=== Progression ===",
		fmt.Sprintf("Temps écoulé: %dmin", int(s.Now/60)),
		fmt.Sprintf("Temps restant: %dmin", s.remainingMinutes()),
		"Niveau d'alerte: "+percent(s.alert.Value),
		"Détection: "+yesNo(s.alert.Detected),
		"",
		"=== Statistiques ===",
		fmt.Sprintf("Données volées: %d", len(s.stolen)),
		fmt.Sprintf("Systèmes compromis: %d", len(s.compromisedTargets)),
		fmt.Sprintf("Taille du botnet: %d", len(s.botnetOrder)),
		fmt.Sprintf("Rançons collectées: %d¢", s.totalRansom),
	)
}

func (s *Session) cmdTools([]string) []string {
	tools := s.loadout.Sorted()
	if len(tools) == 0 {
		return []string{"Aucun outil disponible"}
	}
	out := []string{"=== Outils actifs ==="}
	for _, tool := range tools {
		desc, ok := toolDescriptions[tool]
		if !ok {
			desc = "Pas de description"
		}
		out = append(out,
			"- "+strings.ToUpper(tool)+":",
			"  "+desc,
			fmt.Sprintf("  État: %d%%", int(s.loadout.Durability[tool])),
			"",
		)
	}
	return append(out,
		"=== Bonus actifs ===",
		fmt.Sprintf("Furtivité: x%.1f", s.StealthBonus()),
		fmt.Sprintf("Hacking: x%.1f", 1+s.ToolBonus("crack")),
	)
}

func (s *Session) cmdStats([]string) []string {
	p := s.Profile
	info, _ := DescribeFaction(p.Faction)
	out := []string{
		"=== Informations du Joueur ===",
		fmt.Sprintf("Niveau: %d", p.Level),
		"Faction: " + string(p.Faction),
		"Spécialité: " + info.Specialty,
		"",
		"=== Statistiques Générales ===",
		fmt.Sprintf("Crédits: %d¢", p.Credits),
		fmt.Sprintf("Missions complétées: %d", p.Stats.MissionsCompleted),
		fmt.Sprintf("Gains totaux: %d¢", p.Stats.TotalEarnings),
		"",
		"=== Performance ===",
		fmt.Sprintf("Hacks réussis: %d", p.Stats.SuccessfulHacks),
		fmt.Sprintf("Missions furtives: %d", p.Stats.StealthMissions),
		fmt.Sprintf("Plus grand botnet: %d machines", p.Stats.LargestBotnet),
		fmt.Sprintf("Rançons collectées: %d¢", p.Stats.TotalRansom),
		fmt.Sprintf("Valeur des données volées: %d¢", p.Stats.DataStolenValue),
		"",
		"=== Hardware ===",
	}
	for _, hw := range hardwareLabels {
		slot := p.Hardware[hw.slot]
		out = append(out, fmt.Sprintf("%s: Niveau %d (Bonus: +%d%%)", hw.label, slot.Level, int(slot.Effective()*100+1e-9)))
	}
	out = append(out, "", "=== Bonus Actifs ===")
	out = append(out, info.Bonuses...)

	var temp []string
	for _, cat := range sortedKeys(s.bonuses) {
		for _, b := range s.bonuses[cat] {
			if b.Expiry <= s.Now {
				continue
			}
			temp = append(temp, fmt.Sprintf("- %s: +%d%% (%dmin restantes)",
				bonusLabels[cat], int(b.Value*100+1e-9), int((b.Expiry-s.Now)/60)))
		}
	}
	if len(temp) > 0 {
		out = append(out, "", "=== Bonus Temporaires ===")
		out = append(out, temp...)
	}

	if tools := s.loadout.Sorted(); len(tools) > 0 {
		out = append(out, "", "=== Outils ===")
		for _, tool := range tools {
			out = append(out, fmt.Sprintf("- %s: %d%% durabilité", strings.ToUpper(tool), int(s.loadout.Durability[tool])))
		}
	}
	return out
}
