package game

import "strings"

func (s *Session) cmdStealth(args []string) []string {
	if len(args) == 0 {
		return []string{
			"Usage: stealth <action>",
			"Actions disponibles:",
			"- clean : Nettoie les logs",
			"- hide  : Cache votre présence",
			"- trace : Vérifie les traces",
			"- route : Change votre route réseau",
		}
	}
	switch strings.ToLower(args[0]) {
	case "clean":
		if !s.loadout.Has(ToolCleaner) {
			return []string{"Erreur: Outil cleaner requis"}
		}
		s.useTool(ToolCleaner, UsageIntensive)
		s.traces = nil
		s.UpdateAlertLevel(-15)
		return []string{"Nettoyage des logs...", "Traces effacées"}

	case "hide":
		p := 0.6 * s.StealthBonus() * (1 + s.Profile.HardwareBonus(HardwareNetwork))
		if chance(s.rng, p) {
			s.UpdateAlertLevel(-20)
			return []string{
				"Masquage réussi",
				"Présence dissimulée",
				"Niveau d'alerte réduit à " + percent(s.alert.Value),
			}
		}
		s.UpdateAlertLevel(10)
		return []string{"Échec du masquage", "Activité suspecte détectée"}

	case "trace":
		return s.traceReport()

	case "route":
		if !s.loadout.Has(ToolVPN) {
			return []string{"Erreur: VPN requis"}
		}
		s.useTool(ToolVPN, UsageNormal)
		s.traces = nil
		s.UpdateAlertLevel(-10)
		return []string{
			"Changement de route réseau...",
			"Nouvelle route établie",
			"Traces précédentes effacées",
		}
	}
	return []string{"Action inconnue"}
}

func (s *Session) traceReport() []string {
	out := []string{
		"Niveau d'alerte: " + percent(s.alert.Value),
		"Détection: " + yesNo(s.alert.Detected),
		"",
		"Traces actives:",
	}
	if s.compromised {
		out = append(out, "- Système compromis (Risque élevé)")
	}
	if len(s.stolen) > 0 {
		out = append(out, "- Données exfiltrées (Risque moyen)")
	}
	if len(s.botnetOrder) > 0 {
		out = append(out, "- Activité botnet (Risque continu)")
	}
	if s.paidRansoms() > 0 {
		out = append(out, "- Ransomware actif (Risque critique)")
	}
	for _, t := range s.traces {
		out = append(out, "- "+t)
	}

	var protections []string
	if s.loadout.Has(ToolVPN) {
		protections = append(protections, "- VPN (-30% détection)")
	}
	if s.loadout.Has(ToolCleaner) {
		protections = append(protections, "- Cleaner (-20% détection)")
	}
	if len(protections) > 0 {
		out = append(out, "", "Protections actives:")
		out = append(out, protections...)
	}
	return out
}
